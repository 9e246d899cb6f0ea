// Copyright 2025 The LMT01 Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package termstrip renders a temperature as a colored thermometer bar on
// the terminal (stdout) using ANSI color codes.
//
// Useful to watch a sensor live without any display hardware attached.
package termstrip

import (
	"bytes"
	"fmt"
	"image/color"
	"io"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/physic"
)

// Opts represents the options available for the bar.
type Opts struct {
	// Width is the bar length in character cells. Defaults to 40.
	Width int
	// Min and Max bound the displayed scale. They default to the sensor's
	// calibrated range, -50°C to 150°C.
	Min physic.Temperature
	Max physic.Temperature
	// Palette selects the ANSI palette. ansi256.Default when nil.
	Palette *ansi256.Palette
	// Writer overrides the output. Colorable stdout when nil.
	Writer io.Writer
}

// Dev is a thermometer bar that outputs to the console.
type Dev struct {
	w       io.Writer
	width   int
	min     physic.Temperature
	max     physic.Temperature
	palette ansi256.Palette

	buf bytes.Buffer
}

// New returns a Dev that displays at the console.
func New(opts *Opts) *Dev {
	if opts == nil {
		opts = &Opts{}
	}
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	w := opts.Writer
	if w == nil {
		w = colorable.NewColorableStdout()
	}
	width := opts.Width
	if width <= 0 {
		width = 40
	}
	min, max := opts.Min, opts.Max
	if min == 0 && max == 0 {
		min = physic.ZeroCelsius - 50*physic.Kelvin
		max = physic.ZeroCelsius + 150*physic.Kelvin
	}
	return &Dev{
		w:       w,
		width:   width,
		min:     min,
		max:     max,
		palette: *p,
	}
}

func (d *Dev) String() string {
	return "TermStrip"
}

// Show redraws the bar for t. Cells below the level show a cold-to-hot
// gradient, cells above stay dark. Temperatures outside the scale pin the
// bar to its ends.
func (d *Dev) Show(t physic.Temperature) error {
	frac := float64(t-d.min) / float64(d.max-d.min)
	if frac < 0 {
		frac = 0
	} else if frac > 1 {
		frac = 1
	}
	level := int(frac*float64(d.width) + 0.5)

	// This code is designed to minimize the amount of memory allocated per
	// call.
	d.buf.Reset()
	_, _ = d.buf.WriteString("\r\033[0m")
	for i := 0; i < d.width; i++ {
		c := color.NRGBA{R: 30, G: 30, B: 30, A: 255}
		if i < level {
			g := float64(i) / float64(d.width-1)
			c = color.NRGBA{R: byte(255 * g), B: byte(255 * (1 - g)), A: 255}
		}
		_, _ = io.WriteString(&d.buf, d.palette.Block(c))
	}
	_, _ = fmt.Fprintf(&d.buf, "\033[0m %6.1f°C ", t.Celsius())
	_, err := d.buf.WriteTo(d.w)
	return err
}

// Halt implements conn.Resource.
//
// It resets the terminal state so the shell prompt is not corrupted.
func (d *Dev) Halt() error {
	_, err := d.w.Write([]byte("\n\033[0m"))
	return err
}

var _ conn.Resource = &Dev{}
var _ fmt.Stringer = &Dev{}
