/*
Package pngxpm converts images into XPM icons suitable for embedding in C
sources.

The source image is resized to a square, its alpha channel reduced to a
binary mask and its colors quantized to a small palette before being written
as an XPM document.
*/
package pngxpm

import (
	"io/ioutil"
	"log"
)

// Converter converts source images into XPM files.
type Converter struct {
	logger *log.Logger
}

// New returns a Converter that reports progress to logger. A nil logger
// discards everything.
func New(logger *log.Logger) *Converter {
	if logger == nil {
		logger = log.New(ioutil.Discard, "", 0)
	}
	return &Converter{
		logger: logger,
	}
}
