// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package units

import (
	"encoding/json"
	"fmt"
)

// AltitudeScale is the number of meters represented by one Altitude unit.
const AltitudeScale float32 = 2

const (
	// AltitudeMax is the highest representable Altitude, in meters.
	AltitudeMax = float32(127) * AltitudeScale // +254m
	// AltitudeMin is the lowest representable Altitude, in meters.
	AltitudeMin = float32(-128) * AltitudeScale // -256m

	altitudeRange = AltitudeMax - AltitudeMin

	// OverlapMargin is the default vertical band (in meters) within which two
	// entities are considered to occupy the same altitude for collision
	// purposes: one quarter of the representable range.
	OverlapMargin = altitudeRange * 0.25
	// SpecialOverlapMargin widens the band for matchups that would otherwise
	// be anti-fun (e.g. battleships vs. deep submarines): one half of the
	// representable range.
	SpecialOverlapMargin = altitudeRange * 0.5
)

// Altitude is a signed 8-bit fixed-point height above (positive) or depth
// below (negative) the sea surface, scaled by AltitudeScale meters/unit.
// Zero is the surface.
type Altitude int8

// ToAltitude converts meters to an Altitude, saturating at the representable
// range instead of overflowing.
func ToAltitude(meters float32) Altitude {
	scaled := meters / AltitudeScale
	if scaled > 127 {
		return 127
	}
	if scaled < -128 {
		return -128
	}
	return Altitude(scaled)
}

// Float returns the Altitude in meters.
func (alt Altitude) Float() float32 {
	return float32(alt) * AltitudeScale
}

// Normalized returns the Altitude mapped to [-1, 1], the representation the
// sensor/camera math is most naturally expressed in (surface = 0, highest
// airborne = 1, deepest submerged = -1).
func (alt Altitude) Normalized() float32 {
	f := alt.Float()
	if f >= 0 {
		return f / AltitudeMax
	}
	return f / -AltitudeMin
}

// FromNormalized builds an Altitude from a [-1, 1] normalized value.
func FromNormalized(n float32) Altitude {
	if n >= 0 {
		return ToAltitude(n * AltitudeMax)
	}
	return ToAltitude(n * -AltitudeMin)
}

// Add adds delta meters to the Altitude, saturating.
func (alt Altitude) Add(deltaMeters float32) Altitude {
	return ToAltitude(alt.Float() + deltaMeters)
}

// Lerp moves alt towards target by at most maxDeltaMeters, saturating.
func (alt Altitude) Lerp(target Altitude, maxDeltaMeters float32) Altitude {
	diff := target.Float() - alt.Float()
	if diff > maxDeltaMeters {
		diff = maxDeltaMeters
	} else if diff < -maxDeltaMeters {
		diff = -maxDeltaMeters
	}
	return alt.Add(diff)
}

// Overlaps reports whether alt and other are within margin meters of each
// other, the altitude-band collision test of spec.md section 4.4.
func (alt Altitude) Overlaps(other Altitude, margin float32) bool {
	diff := alt.Float() - other.Float()
	if diff < 0 {
		diff = -diff
	}
	return diff <= margin
}

func (alt Altitude) String() string {
	return fmt.Sprintf("%.0fm", alt.Float())
}

func (alt Altitude) MarshalJSON() ([]byte, error) {
	return json.Marshal(alt.Float())
}

func (alt *Altitude) UnmarshalJSON(b []byte) error {
	var f float32
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*alt = ToAltitude(f)
	return nil
}

// MarshalBinary writes the Altitude as a single signed byte.
func (alt Altitude) MarshalBinary() ([]byte, error) {
	return []byte{byte(alt)}, nil
}

// UnmarshalBinary reads an Altitude from a single signed byte.
func (alt *Altitude) UnmarshalBinary(buf []byte) error {
	if len(buf) < 1 {
		return fmt.Errorf("altitude: short buffer")
	}
	*alt = Altitude(buf[0])
	return nil
}
