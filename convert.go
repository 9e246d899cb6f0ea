// Copyright 2025 The LMT01 Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package lmt01

import (
	"periph.io/x/conn/v3/physic"
)

// ConversionMode selects how a pulse count is turned into a temperature.
type ConversionMode int

const (
	// Equation applies the closed form transfer function from the datasheet:
	// celsius = (pulses/4096)*256 - 50. Pulse counts outside the rated range
	// extrapolate linearly.
	Equation ConversionMode = iota
	// LookupTable interpolates linearly between the two bracketing anchors of
	// the datasheet calibration table. Pulse counts outside the calibrated
	// range are clamped to the nearest table edge.
	LookupTable
)

func (m ConversionMode) String() string {
	switch m {
	case Equation:
		return "equation"
	case LookupTable:
		return "lookup-table"
	default:
		return "unknown"
	}
}

// The calibrated pulse count range covered by the lookup table, datasheet
// table 2. LookupTable clamps to these bounds, Equation does not.
const (
	MinPulses uint32 = 26
	MaxPulses uint32 = 3218
)

// referencePoint is one calibration anchor: the pulse count the sensor emits
// at a known temperature.
type referencePoint struct {
	pulses  uint32
	celsius int
}

// Calibration anchors from the datasheet, -50°C to 150°C in 10° steps. Both
// columns are monotonically increasing.
var refTable = [21]referencePoint{
	{26, -50},
	{181, -40},
	{338, -30},
	{494, -20},
	{651, -10},
	{808, 0},
	{966, 10},
	{1125, 20},
	{1284, 30},
	{1443, 40},
	{1602, 50},
	{1762, 60},
	{1923, 70},
	{2084, 80},
	{2245, 90},
	{2407, 100},
	{2569, 110},
	{2731, 120},
	{2893, 130},
	{3057, 140},
	{3218, 150},
}

// PulsesToTemperature converts a pulse count to a temperature using the
// requested mode.
//
// A pulse count of zero means no pulse train was received and returns a
// NoReadingError; it is never treated as a measurement.
//
// In LookupTable mode a pulse count outside [MinPulses, MaxPulses] is clamped
// to the nearest bound before interpolation, so the result saturates at -50°C
// and 150°C. Equation mode extrapolates instead.
//
// The function is pure and safe for concurrent use.
func PulsesToTemperature(pulses uint32, mode ConversionMode) (physic.Temperature, error) {
	if pulses == 0 {
		return 0, &NoReadingError{}
	}

	var c float64
	switch mode {
	case Equation:
		c = (float64(pulses)/4096.0)*256.0 - 50.0
	case LookupTable:
		if pulses < MinPulses {
			pulses = MinPulses
		} else if pulses > MaxPulses {
			pulses = MaxPulses
		}
		i := 0
		for pulses > refTable[i+1].pulses {
			i++
		}
		c = mapRange(float64(pulses),
			float64(refTable[i].pulses), float64(refTable[i+1].pulses),
			float64(refTable[i].celsius), float64(refTable[i+1].celsius))
	default:
		return 0, &InvalidModeError{Mode: mode}
	}

	return physic.ZeroCelsius + physic.Temperature(c*float64(physic.Kelvin)), nil
}

// mapRange maps a value from one scale to another.
func mapRange(v, inMin, inMax, outMin, outMax float64) float64 {
	return (v-inMin)*(outMax-outMin)/(inMax-inMin) + outMin
}
