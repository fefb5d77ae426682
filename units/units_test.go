// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package units

import (
	"math"
	"math/rand"
	"testing"
)

func TestAngleBinaryRoundTrip(t *testing.T) {
	for i := 0; i < 1000; i++ {
		want := Angle(rand.Uint32())
		buf, err := want.MarshalBinary()
		if err != nil {
			t.Fatal(err)
		}
		var got Angle
		if err := got.UnmarshalBinary(buf); err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Fatalf("angle round trip: want %v got %v", want, got)
		}
	}
}

func TestVelocityBinaryRoundTrip(t *testing.T) {
	for i := 0; i < 1000; i++ {
		want := Velocity(int16(rand.Uint32()))
		buf, err := want.MarshalBinary()
		if err != nil {
			t.Fatal(err)
		}
		var got Velocity
		if err := got.UnmarshalBinary(buf); err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Fatalf("velocity round trip: want %v got %v", want, got)
		}
	}
}

func TestAltitudeBinaryRoundTrip(t *testing.T) {
	for v := -128; v <= 127; v++ {
		want := Altitude(v)
		buf, err := want.MarshalBinary()
		if err != nil {
			t.Fatal(err)
		}
		var got Altitude
		if err := got.UnmarshalBinary(buf); err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Fatalf("altitude round trip: want %v got %v", want, got)
		}
	}
}

func TestTickBinaryRoundTrip(t *testing.T) {
	for i := 0; i < 1000; i++ {
		want := Tick(rand.Uint32())
		buf, err := want.MarshalBinary()
		if err != nil {
			t.Fatal(err)
		}
		var got Tick
		if err := got.UnmarshalBinary(buf); err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Fatalf("tick round trip: want %v got %v", want, got)
		}
	}
}

func TestVelocitySaturates(t *testing.T) {
	if got := ToVelocity(1e9); got != math.MaxInt16 {
		t.Fatalf("expected saturation at VelocityMax, got %v", got)
	}
	if got := ToVelocity(-1e9); got != math.MinInt16 {
		t.Fatalf("expected saturation at VelocityMin, got %v", got)
	}
}

func TestAltitudeSaturates(t *testing.T) {
	if got := ToAltitude(1e6); got != 127 {
		t.Fatalf("expected saturation at 127, got %v", got)
	}
	if got := ToAltitude(-1e6); got != -128 {
		t.Fatalf("expected saturation at -128, got %v", got)
	}
}

func TestAltitudeLerpNeverOvershoots(t *testing.T) {
	start := Altitude(0)
	target := ToAltitude(100)
	for i := 0; i < 1000; i++ {
		next := start.Lerp(target, 3)
		if next.Float() > target.Float()+AltitudeScale {
			t.Fatalf("lerp overshot target: %v > %v", next, target)
		}
		start = next
		if start == target {
			break
		}
	}
	if start != target {
		t.Fatalf("lerp never reached target: ended at %v", start)
	}
}

func TestTickSaturatingAdd(t *testing.T) {
	if got := TickMax.Add(1); got != TickMax {
		t.Fatalf("expected saturating add at TickMax, got %v", got)
	}
	if got := Tick(0).Sub(1); got != 0 {
		t.Fatalf("expected saturating sub at 0, got %v", got)
	}
}
