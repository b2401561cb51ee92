package pngxpm

import (
	"bytes"
	"errors"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bodgit/pngxpm/xpm"
	"github.com/disintegration/imaging"
)

const (
	// DefaultSize is the width and height of the icon when none is given
	DefaultSize = 48
	// DefaultFilter is the resampling filter used when none is given
	DefaultFilter = "lanczos"
)

var (
	errSize   = errors.New("pngxpm: size must be positive")
	errFilter = errors.New("pngxpm: unknown resampling filter")
)

// Nearest neighbour is not offered
var filters = map[string]imaging.ResampleFilter{
	"box":               imaging.Box,
	"bspline":           imaging.BSpline,
	"catmullrom":        imaging.CatmullRom,
	"gaussian":          imaging.Gaussian,
	"lanczos":           imaging.Lanczos,
	"linear":            imaging.Linear,
	"mitchellnetravali": imaging.MitchellNetravali,
}

// Filters returns the names of the supported resampling filters.
func Filters() []string {
	names := make([]string, 0, len(filters))
	for name := range filters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Options control the conversion. Any field left as the zero value selects
// the default.
type Options struct {
	// Size is the width and height of the icon in pixels.
	Size int
	// Colors is the maximum number of colors, excluding transparency.
	Colors int
	// AlphaThreshold is the lowest alpha value rendered as opaque.
	AlphaThreshold int
	// Name is the identifier of the C array. By default it is derived
	// from the destination filename.
	Name string
	// Filter names the resampling filter, see Filters.
	Filter string
}

// Name returns a C identifier derived from the base name of path, so
// "icons/camera.pm" becomes "camera_pm".
func Name(path string) string {
	s := strings.Map(func(r rune) rune {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		}
		return '_'
	}, filepath.Base(path))
	if s == "" || s[0] >= '0' && s[0] <= '9' {
		s = "_" + s
	}
	return s
}

func (o *Options) resolve(dst string) (Options, imaging.ResampleFilter, error) {
	r := Options{
		Size:   DefaultSize,
		Name:   Name(dst),
		Filter: DefaultFilter,
	}
	if o != nil {
		if o.Size != 0 {
			r.Size = o.Size
		}
		if o.Name != "" {
			r.Name = o.Name
		}
		if o.Filter != "" {
			r.Filter = o.Filter
		}
		r.Colors = o.Colors
		r.AlphaThreshold = o.AlphaThreshold
	}

	if r.Size < 1 {
		return r, imaging.ResampleFilter{}, errSize
	}

	f, ok := filters[strings.ToLower(r.Filter)]
	if !ok {
		return r, imaging.ResampleFilter{}, errFilter
	}

	return r, f, nil
}

// Number of colors, including None, declared in the values string of an
// encoded document
func numColors(b []byte) int {
	lines := bytes.SplitN(b, []byte("\n"), 4)
	if len(lines) < 4 {
		return 0
	}
	var w, h, n, cpp int
	if _, err := fmt.Sscanf(string(lines[2]), "\"%d %d %d %d\",", &w, &h, &n, &cpp); err != nil {
		return 0
	}
	return n
}

// Write b to a temporary file alongside name and rename it into place so
// name is either left untouched or completely replaced
func writeFile(name string, b []byte) (err error) {
	f, err := ioutil.TempFile(filepath.Dir(name), "."+filepath.Base(name)+".*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(f.Name())
		}
	}()

	if _, err = f.Write(b); err != nil {
		return err
	}
	if err = f.Chmod(0644); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}

	return os.Rename(f.Name(), name)
}

// Convert reads the image at src, resizes it to a square, reduces it to at
// most o.Colors colors plus transparency and writes the result as an XPM
// document to dst, replacing any existing file. A nil o uses the defaults.
//
// A *DecodeError is returned if src cannot be decoded, an
// *xpm.TooManyColorsError if the colors cannot be represented and an
// *IOError if dst cannot be written. dst is never left partially written.
func (c *Converter) Convert(src, dst string, o *Options) error {
	opts, filter, err := o.resolve(dst)
	if err != nil {
		return err
	}

	m, err := imaging.Open(src)
	if err != nil {
		return &DecodeError{Path: src, Err: err}
	}
	c.logger.Printf("Decoded %q (%dx%d)\n", src, m.Bounds().Dx(), m.Bounds().Dy())

	m = imaging.Resize(m, opts.Size, opts.Size, filter)
	c.logger.Printf("Resized to %dx%d with %s filter\n", opts.Size, opts.Size, opts.Filter)

	b := new(bytes.Buffer)
	if err := xpm.Encode(b, m, &xpm.Options{
		Colors:         opts.Colors,
		AlphaThreshold: opts.AlphaThreshold,
		Name:           opts.Name,
	}); err != nil {
		return err
	}
	c.logger.Printf("Encoded %d colors plus None\n", numColors(b.Bytes())-1)

	if err := writeFile(dst, b.Bytes()); err != nil {
		return &IOError{Path: dst, Err: err}
	}
	c.logger.Printf("Wrote %q (%d bytes)\n", dst, b.Len())

	return nil
}
