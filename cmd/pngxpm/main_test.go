package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntArg(t *testing.T) {
	tables := []struct {
		name  string
		args  []string
		value int
		err   string
	}{
		{"absent", []string{"in.png", "out.pm"}, 48, ""},
		{"given", []string{"in.png", "out.pm", "16"}, 16, ""},
		{"zero", []string{"in.png", "out.pm", "0"}, 0, `size must be a positive integer, got "0"`},
		{"negative", []string{"in.png", "out.pm", "-4"}, 0, `size must be a positive integer, got "-4"`},
		{"not a number", []string{"in.png", "out.pm", "big"}, 0, `size must be a positive integer, got "big"`},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			v, err := intArg(table.args, 2, "size", 48)
			if table.err != "" {
				assert.EqualError(t, err, table.err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, table.value, v)
		})
	}
}
