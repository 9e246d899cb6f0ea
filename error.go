// Copyright 2025 The LMT01 Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package lmt01

import "fmt"

// NoReadingError is returned when a zero pulse count is passed to the
// converter. Zero means no pulse train was received, not a temperature.
type NoReadingError struct{}

func (e *NoReadingError) Error() string {
	return "lmt01: zero pulse count, no reading obtained"
}

// DeviceNotFoundError is returned when no pulses arrive during a measurement
// window. The sensor is absent, unpowered or miswired.
type DeviceNotFoundError struct{}

func (e *DeviceNotFoundError) Error() string {
	return "lmt01: no pulses received, device not found"
}

// ReadTimeoutError is returned when an in-flight pulse train never goes quiet
// within the configured settle timeout.
type ReadTimeoutError struct{}

func (e *ReadTimeoutError) Error() string {
	return "lmt01: pulse train did not settle in time"
}

// InvalidModeError is returned for a ConversionMode the converter does not
// know.
type InvalidModeError struct {
	Mode ConversionMode
}

func (e *InvalidModeError) Error() string {
	return fmt.Sprintf("lmt01: invalid conversion mode %d", int(e.Mode))
}
