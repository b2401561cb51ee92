package xpm

import (
	"bytes"
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoCharXPM = `/* XPM */
/* hand written */
static char * arrow_xpm[] = {
/* width height ncolors cpp */
"3 2 3 2 0 0",
/* colors */
"aa	c None",
"ab	s fg c #00ff80",
"ac c #102030",
/* pixels */
"aaabac",
"acacaa"};
`

func TestDecode(t *testing.T) {
	m, err := Decode(strings.NewReader(twoCharXPM))
	require.NoError(t, err)

	assert.Equal(t, image.Rect(0, 0, 3, 2), m.Bounds())

	none := color.NRGBA{}
	fg := color.NRGBA{R: 0x00, G: 0xff, B: 0x80, A: 0xff}
	bg := color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 0xff}

	expected := [][]color.NRGBA{
		{none, fg, bg},
		{bg, bg, none},
	}
	for y, row := range expected {
		for x, c := range row {
			assert.Equal(t, c, m.At(x, y), "pixel %d,%d", x, y)
		}
	}
}

func TestDecodeConfig(t *testing.T) {
	c, err := DecodeConfig(strings.NewReader(twoCharXPM))
	require.NoError(t, err)

	assert.Equal(t, 3, c.Width)
	assert.Equal(t, 2, c.Height)
	assert.Equal(t, color.NRGBAModel, c.ColorModel)
}

func TestDecodeConfigHugeDimensions(t *testing.T) {
	_, err := DecodeConfig(strings.NewReader("/* XPM */\n\"3037000500 3037000500 1 1\",\n"))
	assert.Equal(t, errBadValues, err)
}

func TestDecodeRegistered(t *testing.T) {
	b := new(bytes.Buffer)
	require.NoError(t, Encode(b, filled(3, 3, color.NRGBA{G: 0xff, A: 0xff}), nil))

	m, format, err := image.Decode(b)
	require.NoError(t, err)
	assert.Equal(t, "xpm", format)
	assert.Equal(t, color.NRGBA{G: 0xff, A: 0xff}, m.At(2, 2))
}

func TestDecodeErrors(t *testing.T) {
	tables := []struct {
		name  string
		input string
		err   error
	}{
		{
			name:  "empty",
			input: "",
			err:   errNotXPM,
		},
		{
			name:  "wrong magic",
			input: "! XPM2\n1 1 1 1\n",
			err:   errNotXPM,
		},
		{
			name:  "short values",
			input: "/* XPM */\n\"1 1 1\",\n",
			err:   errBadValues,
		},
		{
			name:  "zero width",
			input: "/* XPM */\n\"0 1 1 1\",\n",
			err:   errBadValues,
		},
		{
			name:  "huge dimensions",
			input: "/* XPM */\n\"3037000500 3037000500 1 1\",\n\"a c None\",\n\"a\",\n};\n",
			err:   errBadValues,
		},
		{
			name:  "too many pixels",
			input: "/* XPM */\n\"10000 10000 1 1\",\n\"a c None\",\n\"a\",\n};\n",
			err:   errBadValues,
		},
		{
			name:  "row too long",
			input: "/* XPM */\n\"2 1 1 1048576\",\n",
			err:   errBadValues,
		},
		{
			name:  "overflowing dimensions",
			input: "/* XPM */\n\"4611686018427387904 4611686018427387904 1 1\",\n",
			err:   errBadValues,
		},
		{
			name:  "unterminated string",
			input: "/* XPM */\n\"1 1 1 1,\n",
			err:   errBadValues,
		},
		{
			name:  "missing colors",
			input: "/* XPM */\n\"1 1 2 1\",\n\"a c None\",\n",
			err:   errNotEnough,
		},
		{
			name:  "named color",
			input: "/* XPM */\n\"1 1 1 1\",\n\"a c red\",\n\"a\"\n",
			err:   errBadColor,
		},
		{
			name:  "monochrome only",
			input: "/* XPM */\n\"1 1 1 1\",\n\"a m white\",\n\"a\"\n",
			err:   errBadColor,
		},
		{
			name:  "duplicate symbol",
			input: "/* XPM */\n\"1 1 2 1\",\n\"a c None\",\n\"a c #000000\",\n\"a\"\n",
			err:   errDuplicateID,
		},
		{
			name:  "short row",
			input: "/* XPM */\n\"2 1 1 1\",\n\"a c None\",\n\"a\"\n",
			err:   errBadRow,
		},
		{
			name:  "undefined symbol",
			input: "/* XPM */\n\"1 1 1 1\",\n\"a c None\",\n\"b\"\n",
			err:   errBadSymbol,
		},
		{
			name:  "missing rows",
			input: "/* XPM */\n\"1 2 1 1\",\n\"a c None\",\n\"a\"\n",
			err:   errNotEnough,
		},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(table.input))
			assert.Equal(t, table.err, err)
		})
	}
}
