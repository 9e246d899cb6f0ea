// Package chart renders a history of temperature readings to a PNG line
// chart. It is served by the daemon's /chart endpoint.
package chart

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"
	"periph.io/x/conn/v3/physic"
)

// Sample is one timestamped temperature reading.
type Sample struct {
	Time        time.Time
	Temperature physic.Temperature
}

const (
	marginLeft   = 56.0
	marginRight  = 16.0
	marginTop    = 16.0
	marginBottom = 32.0
)

// Render draws the samples as a line chart and returns the encoded PNG.
// Samples must be ordered by time.
func Render(samples []Sample, width, height int) ([]byte, error) {
	if len(samples) == 0 {
		return nil, errors.New("chart: no samples")
	}

	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, err
	}
	face := truetype.NewFace(f, &truetype.Options{Size: 12})

	dc := gg.NewContext(width, height)
	dc.SetFontFace(face)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	minC, maxC := samples[0].Temperature.Celsius(), samples[0].Temperature.Celsius()
	for _, s := range samples[1:] {
		c := s.Temperature.Celsius()
		if c < minC {
			minC = c
		}
		if c > maxC {
			maxC = c
		}
	}
	// Keep at least one degree of headroom so a flat series is not a line on
	// the chart border.
	minC -= 1
	maxC += 1

	plotW := float64(width) - marginLeft - marginRight
	plotH := float64(height) - marginTop - marginBottom

	x := func(i int) float64 {
		if len(samples) == 1 {
			return marginLeft + plotW/2
		}
		return marginLeft + plotW*float64(i)/float64(len(samples)-1)
	}
	y := func(c float64) float64 {
		return marginTop + plotH*(1-(c-minC)/(maxC-minC))
	}

	// Axes.
	dc.SetRGB(0.6, 0.6, 0.6)
	dc.SetLineWidth(1)
	dc.DrawLine(marginLeft, marginTop, marginLeft, marginTop+plotH)
	dc.DrawLine(marginLeft, marginTop+plotH, marginLeft+plotW, marginTop+plotH)
	dc.Stroke()

	// Scale labels.
	dc.SetRGB(0.3, 0.3, 0.3)
	dc.DrawStringAnchored(fmt.Sprintf("%.1f°C", maxC-1), marginLeft-6, marginTop, 1, 0.5)
	dc.DrawStringAnchored(fmt.Sprintf("%.1f°C", minC+1), marginLeft-6, marginTop+plotH, 1, 0.5)
	dc.DrawStringAnchored(samples[0].Time.Format("15:04:05"), marginLeft, float64(height)-8, 0, 0.5)
	dc.DrawStringAnchored(samples[len(samples)-1].Time.Format("15:04:05"), marginLeft+plotW, float64(height)-8, 1, 0.5)

	// The reading series.
	dc.SetRGB(0.8, 0.2, 0.1)
	dc.SetLineWidth(2)
	for i, s := range samples {
		if i == 0 {
			dc.MoveTo(x(i), y(s.Temperature.Celsius()))
		} else {
			dc.LineTo(x(i), y(s.Temperature.Celsius()))
		}
	}
	dc.Stroke()

	buf := &bytes.Buffer{}
	if err := dc.EncodePNG(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
