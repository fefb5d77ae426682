// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package units

import (
	"math"

	"github.com/chewxy/math32"
)

// Vec2f is a 2D vector of float32 meters.
type Vec2f struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
}

func (vec Vec2f) Mul(factor float32) Vec2f {
	vec.X *= factor
	vec.Y *= factor
	return vec
}

func (vec Vec2f) Div(divisor float32) Vec2f {
	return vec.Mul(1.0 / divisor)
}

func (vec Vec2f) AddScaled(other Vec2f, factor float32) Vec2f {
	vec.X += other.X * factor
	vec.Y += other.Y * factor
	return vec
}

func (vec Vec2f) Add(other Vec2f) Vec2f {
	vec.X += other.X
	vec.Y += other.Y
	return vec
}

func (vec Vec2f) Sub(other Vec2f) Vec2f {
	vec.X -= other.X
	vec.Y -= other.Y
	return vec
}

func (vec Vec2f) Dot(other Vec2f) float32 {
	return vec.X*other.X + vec.Y*other.Y
}

func (vec Vec2f) Angle() Angle {
	return ToAngle(math32.Atan2(vec.Y, vec.X))
}

// Rot90 rotates 90 degrees clockwise.
func (vec Vec2f) Rot90() Vec2f {
	return Vec2f{X: -vec.Y, Y: vec.X}
}

// RotN90 rotates 90 degrees counterclockwise.
func (vec Vec2f) RotN90() Vec2f {
	return Vec2f{X: vec.Y, Y: -vec.X}
}

// Rot180 rotates 180 degrees.
func (vec Vec2f) Rot180() Vec2f {
	return Vec2f{X: -vec.X, Y: -vec.Y}
}

func (vec Vec2f) Distance(other Vec2f) float32 {
	return vec.Sub(other).Length()
}

func (vec Vec2f) DistanceSquared(other Vec2f) float32 {
	x := vec.X - other.X
	y := vec.Y - other.Y
	return x*x + y*y
}

func (vec Vec2f) Length() float32 {
	return math32.Hypot(vec.X, vec.Y)
}

func (vec Vec2f) LengthSquared() float32 {
	return vec.X*vec.X + vec.Y*vec.Y
}

// Lerp linearly interpolates between two scalars.
func Lerp(a, b, factor float32) float32 {
	return a + (b-a)*factor
}

func (vec Vec2f) Lerp(other Vec2f, factor float32) Vec2f {
	vec.X = Lerp(vec.X, other.X, factor)
	vec.Y = Lerp(vec.Y, other.Y, factor)
	return vec
}

func (vec Vec2f) Abs() Vec2f {
	vec.X = math32.Abs(vec.X)
	vec.Y = math32.Abs(vec.Y)
	return vec
}

func (vec Vec2f) Floor() Vec2f {
	vec.X = float32(math.Floor(float64(vec.X)))
	vec.Y = float32(math.Floor(float64(vec.Y)))
	return vec
}

func (vec Vec2f) Norm() Vec2f {
	length := vec.Length()
	if length == 0 {
		return Vec2f{}
	}
	return vec.Div(length)
}
