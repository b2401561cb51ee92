// Package xpm implements an XPM (X PixMap) encoder and a decoder for the
// subset of the format that the encoder produces.
//
// The image is written as a C static array of strings. The first string holds
// the width, height, number of colors and the number of characters used to
// represent each pixel. One string per color follows, mapping a symbol to
// either an RGB value or None for transparent pixels, and finally one string
// per row of pixels:
//
//	/* XPM */
//	static char *icon_pm[] = {
//	"2 1 2 1",
//	"a c None",
//	"b c #FF0000",
//	"ab",
//	};
//
// Transparency is binary; a pixel is either fully opaque or None. Up to 88
// colors plus None fit in a single character per pixel, beyond that two
// characters per pixel are used.
package xpm

import "image"

const (
	magic = "/* XPM */"

	// DefaultColors is the maximum palette size used when none is given
	DefaultColors = 64
	// MaxColors is the largest palette the encoder can quantize to
	MaxColors = 256
	// DefaultAlphaThreshold is the alpha value at or above which a pixel
	// is considered opaque
	DefaultAlphaThreshold = 128
	// DefaultName is the array identifier used when none is given
	DefaultName = "image_pm"
)

func init() {
	image.RegisterFormat("xpm", magic, Decode, DecodeConfig)
}
