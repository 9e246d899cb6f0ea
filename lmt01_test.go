// Copyright 2025 The LMT01 Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package lmt01

import (
	"errors"
	"testing"
	"time"

	"periph.io/x/conn/v3/physic"
)

// fakeCounter scripts the successive Count() results of a measurement
// window sequence. Once the script is exhausted it keeps returning tail.
type fakeCounter struct {
	counts  []uint32
	tail    uint32
	i       int
	starts  int
	stops   int
	resets  int
	running bool
}

func (f *fakeCounter) Start() error {
	f.starts++
	f.running = true
	return nil
}

func (f *fakeCounter) Stop() error {
	f.stops++
	f.running = false
	return nil
}

func (f *fakeCounter) Reset() error {
	f.resets++
	return nil
}

func (f *fakeCounter) Count() (uint32, error) {
	if f.i < len(f.counts) {
		v := f.counts[f.i]
		f.i++
		return v, nil
	}
	return f.tail, nil
}

// noSleep makes measurement windows instantaneous for the duration of a
// test.
func noSleep(t *testing.T) {
	t.Helper()
	old := sleep
	sleep = func(time.Duration) {}
	t.Cleanup(func() { sleep = old })
}

func TestNew(t *testing.T) {
	noSleep(t)
	c := &fakeCounter{counts: []uint32{33}}
	d, err := New(c, nil)
	if err != nil {
		t.Fatal(err)
	}
	if s := d.String(); s != "lmt01{lookup-table}" {
		t.Errorf("String() = %q", s)
	}
	// The probe runs exactly one window: Stop, Reset, Start, Stop, Count.
	if c.starts != 1 || c.stops != 2 || c.resets != 1 {
		t.Errorf("probe sequencing: starts=%d stops=%d resets=%d", c.starts, c.stops, c.resets)
	}
}

func TestNewNotFound(t *testing.T) {
	noSleep(t)
	c := &fakeCounter{counts: []uint32{0}}
	_, err := New(c, nil)
	var dnf *DeviceNotFoundError
	if !errors.As(err, &dnf) {
		t.Fatalf("New() error = %v, want DeviceNotFoundError", err)
	}
}

func TestNewNilCounter(t *testing.T) {
	if _, err := New(nil, nil); err == nil {
		t.Fatal("New(nil, nil) succeeded")
	}
}

func TestReadPulseCount(t *testing.T) {
	noSleep(t)
	// Probe 33, quiet guard window, then a full train of 1500 pulses.
	c := &fakeCounter{counts: []uint32{33, 0, 1500}}
	d, err := New(c, nil)
	if err != nil {
		t.Fatal(err)
	}
	pulses, err := d.ReadPulseCount()
	if err != nil {
		t.Fatal(err)
	}
	if pulses != 1500 {
		t.Errorf("ReadPulseCount() = %d, want 1500", pulses)
	}
}

func TestReadPulseCountMidTrain(t *testing.T) {
	noSleep(t)
	// Guard windows see the tail of an in-flight train (7 then 3 pulses)
	// before a quiet one; the read must wait them out.
	c := &fakeCounter{counts: []uint32{33, 7, 3, 0, 1500}}
	d, err := New(c, nil)
	if err != nil {
		t.Fatal(err)
	}
	pulses, err := d.ReadPulseCount()
	if err != nil {
		t.Fatal(err)
	}
	if pulses != 1500 {
		t.Errorf("ReadPulseCount() = %d, want 1500", pulses)
	}
}

func TestReadPulseCountSettleTimeout(t *testing.T) {
	noSleep(t)
	// The guard window never goes quiet.
	c := &fakeCounter{counts: []uint32{33}, tail: 7}
	d, err := New(c, &Opts{SettleTimeout: time.Nanosecond})
	if err != nil {
		t.Fatal(err)
	}
	_, err = d.ReadPulseCount()
	var rte *ReadTimeoutError
	if !errors.As(err, &rte) {
		t.Fatalf("ReadPulseCount() error = %v, want ReadTimeoutError", err)
	}
}

func TestReadPulseCountDeviceLost(t *testing.T) {
	noSleep(t)
	// Device answered the probe, then went silent.
	c := &fakeCounter{counts: []uint32{33, 0, 0}}
	d, err := New(c, nil)
	if err != nil {
		t.Fatal(err)
	}
	_, err = d.ReadPulseCount()
	var dnf *DeviceNotFoundError
	if !errors.As(err, &dnf) {
		t.Fatalf("ReadPulseCount() error = %v, want DeviceNotFoundError", err)
	}
}

func TestSense(t *testing.T) {
	noSleep(t)
	tests := []struct {
		name  string
		opts  *Opts
		train uint32
		want  physic.Temperature
	}{
		{"lookup zero C", &Opts{Mode: LookupTable}, 808, physic.ZeroCelsius},
		{"lookup 150 C", &Opts{Mode: LookupTable}, 3218, physic.ZeroCelsius + 150*physic.Kelvin},
		{"equation 78 C", &Opts{Mode: Equation}, 2048, physic.ZeroCelsius + 78*physic.Kelvin},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c := &fakeCounter{counts: []uint32{33, 0, test.train}}
			d, err := New(c, test.opts)
			if err != nil {
				t.Fatal(err)
			}
			e := physic.Env{}
			if err := d.Sense(&e); err != nil {
				t.Fatal(err)
			}
			if e.Temperature != test.want {
				t.Errorf("Sense() temperature = %s, want %s", e.Temperature, test.want)
			}
		})
	}
}

func TestSenseContinuous(t *testing.T) {
	noSleep(t)
	c := &fakeCounter{counts: []uint32{33, 0, 808, 0, 808, 0, 808}}
	d, err := New(c, nil)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := d.SenseContinuous(50 * time.Millisecond); err == nil {
		t.Fatal("SenseContinuous accepted an interval shorter than a reading")
	}

	ch, err := d.SenseContinuous(120 * time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := d.SenseContinuous(120 * time.Millisecond); err == nil {
		t.Fatal("second SenseContinuous succeeded while the first is running")
	}

	for i := 0; i < 2; i++ {
		e, ok := <-ch
		if !ok {
			t.Fatal("channel closed early")
		}
		if e.Temperature != physic.ZeroCelsius {
			t.Errorf("reading %d = %s, want 0°C", i, e.Temperature)
		}
	}
	if err := d.Halt(); err != nil {
		t.Fatal(err)
	}
	if _, ok := <-ch; ok {
		// Draining may observe one reading buffered before Halt.
		if _, ok := <-ch; ok {
			t.Error("channel not closed after Halt")
		}
	}
}

func TestPrecision(t *testing.T) {
	noSleep(t)
	c := &fakeCounter{counts: []uint32{33}}
	d, err := New(c, nil)
	if err != nil {
		t.Fatal(err)
	}
	e := physic.Env{}
	d.Precision(&e)
	if e.Temperature != 62_500*physic.MicroKelvin {
		t.Errorf("Precision() = %s", e.Temperature)
	}
}
