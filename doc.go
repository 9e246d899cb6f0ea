// Copyright 2025 The LMT01 Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package lmt01 controls a Texas Instruments LMT01 temperature sensor.
//
// The LMT01 is a two-pin sensor that reports temperature as a train of
// current pulses, one train roughly every 100ms. The number of pulses in one
// train encodes the temperature. This package drives a pulse counter
// peripheral through the Counter interface, acquires one train per reading
// and converts the count to a temperature either with the closed form
// transfer function or by interpolating the datasheet calibration table.
//
// The lmt01.Dev type implements the physic.SenseEnv interface.
//
// Sub-packages provide a GPIO edge-counting Counter implementation
// (gpiopulse) and a terminal thermometer display (termstrip).
//
// Datasheet: https://www.ti.com/lit/ds/symlink/lmt01.pdf
package lmt01
