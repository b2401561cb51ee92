package xpm

import (
	"bufio"
	"errors"
	"image"
	"image/color"
	"io"
	"strconv"
	"strings"
)

var (
	errNotXPM      = errors.New("xpm: missing XPM header")
	errNotEnough   = errors.New("xpm: not enough image data")
	errBadValues   = errors.New("xpm: invalid values string")
	errBadColor    = errors.New("xpm: unsupported color definition")
	errBadSymbol   = errors.New("xpm: undefined pixel symbol")
	errBadRow      = errors.New("xpm: pixel row has wrong length")
	errDuplicateID = errors.New("xpm: duplicate color symbol")
)

const (
	// Longest line accepted by the decoder
	maxLine = 1 << 20
	// Largest image accepted by the decoder
	maxPixels = 1 << 24
)

type decoder struct {
	s *bufio.Scanner

	width, height int
	numColors     int
	cpp           int

	palette map[string]color.NRGBA
	image   *image.NRGBA
}

// next returns the contents of the next quoted string in the document,
// skipping declarations and comments
func (d *decoder) next() (string, error) {
	for d.s.Scan() {
		line := strings.TrimSpace(d.s.Text())
		if !strings.HasPrefix(line, `"`) {
			continue
		}
		end := strings.IndexByte(line[1:], '"')
		if end < 0 {
			return "", errBadValues
		}
		return line[1 : end+1], nil
	}
	if err := d.s.Err(); err != nil {
		return "", err
	}
	return "", errNotEnough
}

func (d *decoder) readHeader() error {
	if !d.s.Scan() {
		if err := d.s.Err(); err != nil {
			return err
		}
		return errNotXPM
	}
	if strings.TrimSpace(d.s.Text()) != magic {
		return errNotXPM
	}

	values, err := d.next()
	if err != nil {
		return err
	}

	// Optional hotspot and extension fields may follow
	f := strings.Fields(values)
	if len(f) < 4 {
		return errBadValues
	}
	v := make([]int, 4)
	for i := range v {
		if v[i], err = strconv.Atoi(f[i]); err != nil || v[i] < 1 {
			return errBadValues
		}
	}
	d.width, d.height, d.numColors, d.cpp = v[0], v[1], v[2], v[3]

	// Bound each value first so the int64 products cannot overflow
	if d.width > maxPixels || d.height > maxPixels || d.cpp > maxLine {
		return errBadValues
	}
	if int64(d.width)*int64(d.cpp) > maxLine || int64(d.width)*int64(d.height) > maxPixels {
		return errBadValues
	}

	return nil
}

func parseColor(s string) (color.NRGBA, error) {
	if strings.EqualFold(s, "None") {
		return color.NRGBA{}, nil
	}
	if len(s) != 7 || s[0] != '#' {
		return color.NRGBA{}, errBadColor
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return color.NRGBA{}, errBadColor
	}
	return color.NRGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: 0xff,
	}, nil
}

func (d *decoder) readColors() error {
	d.palette = make(map[string]color.NRGBA)
	for i := 0; i < d.numColors; i++ {
		s, err := d.next()
		if err != nil {
			return err
		}
		if len(s) < d.cpp {
			return errBadColor
		}
		sym := s[:d.cpp]
		if _, ok := d.palette[sym]; ok {
			return errDuplicateID
		}

		// Only the color visual key is understood
		f := strings.Fields(s[d.cpp:])
		found := false
		for j := 0; j+1 < len(f); j += 2 {
			if f[j] != "c" {
				continue
			}
			c, err := parseColor(f[j+1])
			if err != nil {
				return err
			}
			d.palette[sym] = c
			found = true
			break
		}
		if !found {
			return errBadColor
		}
	}
	return nil
}

func (d *decoder) readPixels() error {
	d.image = image.NewNRGBA(image.Rect(0, 0, d.width, d.height))
	for y := 0; y < d.height; y++ {
		s, err := d.next()
		if err != nil {
			return err
		}
		if len(s) != d.width*d.cpp {
			return errBadRow
		}
		for x := 0; x < d.width; x++ {
			c, ok := d.palette[s[x*d.cpp:(x+1)*d.cpp]]
			if !ok {
				return errBadSymbol
			}
			d.image.SetNRGBA(x, y, c)
		}
	}
	return nil
}

func (d *decoder) decode(r io.Reader, configOnly bool) error {
	d.s = bufio.NewScanner(r)
	d.s.Buffer(make([]byte, 0, 4096), maxLine)

	if err := d.readHeader(); err != nil {
		return err
	}

	if configOnly {
		return nil
	}

	if err := d.readColors(); err != nil {
		return err
	}

	return d.readPixels()
}

// Decode reads an XPM image from r and returns it as an image.Image. Colors
// defined as None are returned fully transparent.
func Decode(r io.Reader) (image.Image, error) {
	var d decoder
	if err := d.decode(r, false); err != nil {
		return nil, err
	}
	return d.image, nil
}

// DecodeConfig returns the color model and dimensions of an XPM image without
// decoding the entire image.
func DecodeConfig(r io.Reader) (image.Config, error) {
	var d decoder
	if err := d.decode(r, true); err != nil {
		return image.Config{}, err
	}
	return image.Config{
		ColorModel: color.NRGBAModel,
		Width:      d.width,
		Height:     d.height,
	}, nil
}
