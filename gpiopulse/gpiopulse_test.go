// Copyright 2025 The LMT01 Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package gpiopulse

import (
	"testing"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
)

func TestCount(t *testing.T) {
	pin := &gpiotest.Pin{N: "GPIO4", Num: 4, EdgesChan: make(chan gpio.Level, 16)}
	c, err := New(pin)
	if err != nil {
		t.Fatal(err)
	}
	if s := c.String(); s != "gpiopulse{GPIO4}" {
		t.Errorf("String() = %q", s)
	}

	for i := 0; i < 5; i++ {
		pin.EdgesChan <- gpio.High
	}
	if err := c.Start(); err != nil {
		t.Fatal(err)
	}
	// Starting twice must not double count.
	if err := c.Start(); err != nil {
		t.Fatal(err)
	}

	// The counting goroutine drains the buffered edges.
	deadline := time.Now().Add(2 * time.Second)
	for {
		n, err := c.Count()
		if err != nil {
			t.Fatal(err)
		}
		if n == 5 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("Count() = %d after 2s, want 5", n)
		}
		time.Sleep(time.Millisecond)
	}

	if err := c.Stop(); err != nil {
		t.Fatal(err)
	}
	if n, _ := c.Count(); n != 5 {
		t.Errorf("Count() after Stop = %d, want 5", n)
	}

	// No counting while stopped.
	pin.EdgesChan <- gpio.High
	time.Sleep(20 * time.Millisecond)
	if n, _ := c.Count(); n != 5 {
		t.Errorf("Count() while stopped = %d, want 5", n)
	}

	if err := c.Reset(); err != nil {
		t.Fatal(err)
	}
	if n, _ := c.Count(); n != 0 {
		t.Errorf("Count() after Reset = %d, want 0", n)
	}
}

func TestStopIdempotent(t *testing.T) {
	pin := &gpiotest.Pin{N: "GPIO4", Num: 4, EdgesChan: make(chan gpio.Level)}
	c, err := New(pin)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Stop(); err != nil {
		t.Fatal(err)
	}
	if err := c.Start(); err != nil {
		t.Fatal(err)
	}
	if err := c.Stop(); err != nil {
		t.Fatal(err)
	}
	if err := c.Stop(); err != nil {
		t.Fatal(err)
	}
}
