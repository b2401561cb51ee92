package xpm

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"
	"sort"

	"github.com/ericpauley/go-quantize/quantize"
)

var (
	errEmpty     = errors.New("xpm: image is empty")
	errColors    = fmt.Errorf("xpm: colors must be between 1 and %d", MaxColors)
	errThreshold = errors.New("xpm: alpha threshold must be between 1 and 255")
	errName      = errors.New("xpm: name is not a valid C identifier")
)

// Options are the encoding parameters. Any field left as the zero value
// selects the default.
type Options struct {
	// Colors is the maximum size of the quantized palette, from 1 to
	// MaxColors.
	Colors int
	// AlphaThreshold is the lowest alpha value, from 1 to 255, rendered as
	// an opaque pixel. Anything below it becomes None.
	AlphaThreshold int
	// Name is the identifier given to the C array.
	Name string
}

func validName(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range s {
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

func (o *Options) resolve() (Options, error) {
	r := Options{
		Colors:         DefaultColors,
		AlphaThreshold: DefaultAlphaThreshold,
		Name:           DefaultName,
	}
	if o == nil {
		return r, nil
	}

	if o.Colors != 0 {
		r.Colors = o.Colors
	}
	if r.Colors < 1 || r.Colors > MaxColors {
		return r, errColors
	}

	if o.AlphaThreshold != 0 {
		r.AlphaThreshold = o.AlphaThreshold
	}
	if r.AlphaThreshold < 1 || r.AlphaThreshold > 0xff {
		return r, errThreshold
	}

	if o.Name != "" {
		r.Name = o.Name
	}
	if !validName(r.Name) {
		return r, errName
	}

	return r, nil
}

type encoder struct {
	w    io.Writer
	name string

	m       *image.Paletted
	mask    []bool
	used    []int
	symbols *symbolTable
}

// alphaMask returns one entry per pixel in row-major order, true where the
// pixel alpha is at or above threshold
func alphaMask(m image.Image, threshold int) []bool {
	b := m.Bounds()
	mask := make([]bool, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			_, _, _, a := m.At(x, y).RGBA()
			mask = append(mask, int(a>>8) >= threshold)
		}
	}
	return mask
}

// Drop the alpha channel, keeping the unpremultiplied color of every pixel
func opaque(m image.Image) *image.NRGBA {
	b := m.Bounds()
	dup := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(m.At(x, y)).(color.NRGBA)
			c.A = 0xff
			dup.SetNRGBA(x, y, c)
		}
	}
	return dup
}

// Reduce the image to at most n colors with median cut and map every pixel
// to its closest palette entry
func quantizeImage(m image.Image, n int) *image.Paletted {
	b := m.Bounds()
	q := quantize.MedianCutQuantizer{}
	pm := image.NewPaletted(b, q.Quantize(make(color.Palette, 0, n), m))
	draw.Draw(pm, b, m, b.Min, draw.Src)
	return pm
}

// Palette indices found under at least one opaque pixel, in ascending order
func usedColors(m *image.Paletted, mask []bool) []int {
	b := m.Bounds()
	seen := make(map[int]struct{})
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if mask[i] {
				seen[int(m.ColorIndexAt(x, y))] = struct{}{}
			}
			i++
		}
	}
	used := make([]int, 0, len(seen))
	for idx := range seen {
		used = append(used, idx)
	}
	sort.Ints(used)
	return used
}

func (e *encoder) encode() error {
	b := e.m.Bounds()
	bw := bufio.NewWriter(e.w)

	// bufio.Writer errors are sticky and surface on Flush
	fmt.Fprintln(bw, magic)
	fmt.Fprintf(bw, "static char *%s[] = {\n", e.name)
	fmt.Fprintf(bw, "\"%d %d %d %d\",\n", b.Dx(), b.Dy(), e.symbols.len(), e.symbols.cpp)

	fmt.Fprintf(bw, "\"%s c None\",\n", e.symbols.transparent)
	for _, idx := range e.used {
		cr, cg, cb, _ := e.m.Palette[idx].RGBA()
		fmt.Fprintf(bw, "\"%s c #%02X%02X%02X\",\n", e.symbols.colors[idx], cr>>8, cg>>8, cb>>8)
	}

	row := make([]byte, 0, b.Dx()*e.symbols.cpp+3)
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row = append(row[:0], '"')
		for x := b.Min.X; x < b.Max.X; x++ {
			if e.mask[i] {
				row = append(row, e.symbols.colors[int(e.m.ColorIndexAt(x, y))]...)
			} else {
				row = append(row, e.symbols.transparent...)
			}
			i++
		}
		row = append(row, '"', ',', '\n')
		bw.Write(row)
	}

	bw.WriteString("};\n")

	return bw.Flush()
}

// Encode writes the Image m to w in XPM format. Pixels with an alpha below
// the threshold are written as None, the remaining colors are quantized to
// a palette of at most o.Colors entries. A nil o uses the defaults.
//
// If more colors remain in use than two characters per pixel can represent,
// a *TooManyColorsError is returned and nothing is written to w.
func Encode(w io.Writer, m image.Image, o *Options) error {
	opts, err := o.resolve()
	if err != nil {
		return err
	}

	if m.Bounds().Empty() {
		return errEmpty
	}

	e := encoder{
		w:    w,
		name: opts.Name,
	}

	e.mask = alphaMask(m, opts.AlphaThreshold)
	e.m = quantizeImage(opaque(m), opts.Colors)
	e.used = usedColors(e.m, e.mask)

	if e.symbols, err = newSymbolTable(e.used); err != nil {
		return err
	}

	return e.encode()
}
