// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package units implements the fixed-point value types shared by the rest of
// the simulation: Angle, Altitude, Velocity, Tick, plus the small vector and
// transform types built out of them.
package units

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/13rac1/fastmath"
	"github.com/chewxy/math32"
)

// Pi is half of the full Angle range (a half turn).
const Pi Angle = 32768

// Angle is a 2 byte fixed-point representation of an angle, wrapping around
// at +/-Pi the same way compass headings wrap at 180 degrees.
type Angle uint16

// ToAngle converts radians to an Angle.
func ToAngle(radians float32) Angle {
	return Angle(radians * (float32(Pi) / math32.Pi))
}

// Float returns the Angle in radians.
func (angle Angle) Float() float32 {
	return float32(int16(angle)) * (math32.Pi * 2 / 65536)
}

// Vec2f returns the unit vector pointing in the Angle's direction.
func (angle Angle) Vec2f() Vec2f {
	sin := fastmath.Sin16(uint16(angle))
	cos := fastmath.Cos16(uint16(angle))
	return Vec2f{
		X: float32(float64(cos) * (1.0 / 32767)),
		Y: float32(float64(sin) * (1.0 / 32767)),
	}
}

// ClampMagnitude clamps the Angle's magnitude (signed difference from zero)
// to at most m.
func (angle Angle) ClampMagnitude(m Angle) Angle {
	if int16(angle) < -int16(m) {
		return -m
	}
	if int16(angle) > int16(m) {
		return m
	}
	return angle
}

// Diff returns the signed angular difference angle-other, wrapped to
// [-Pi, Pi).
func (angle Angle) Diff(other Angle) Angle {
	return angle - other
}

// Lerp interpolates from angle towards other by factor, taking the shorter
// way around.
func (angle Angle) Lerp(other Angle, factor float32) Angle {
	return angle + ToAngle(other.Diff(angle).Float()*factor)
}

// Abs returns the absolute value of the Angle in radians.
func (angle Angle) Abs() float32 {
	return math32.Abs(angle.Float())
}

// Inv returns the opposite (180 degree rotated) Angle.
func (angle Angle) Inv() Angle {
	return angle + Pi
}

func (angle Angle) String() string {
	return fmt.Sprintf("%.01f degrees", angle.Float()*(180/math32.Pi))
}

func (angle Angle) MarshalJSON() ([]byte, error) {
	return json.Marshal(angle.Float())
}

func (angle *Angle) UnmarshalJSON(b []byte) error {
	var f float32
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*angle = ToAngle(f)
	return nil
}

// MarshalBinary writes the Angle as a raw little-endian uint16.
func (angle Angle) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 2)
	binary.LittleEndian.PutUint16(buf, uint16(angle))
	return buf, nil
}

// UnmarshalBinary reads an Angle from a raw little-endian uint16.
func (angle *Angle) UnmarshalBinary(buf []byte) error {
	if len(buf) < 2 {
		return fmt.Errorf("angle: short buffer")
	}
	*angle = Angle(binary.LittleEndian.Uint16(buf))
	return nil
}
