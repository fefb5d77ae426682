// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package noise generates the procedural altitude heightmap consumed by
// package terrain, using layered Perlin noise the same way the teacher's
// terrain/noise package does.
package noise

import (
	"github.com/aquilax/go-perlin"

	"github.com/flotwake/server/units"
)

const (
	landFrequency = 0.001
	zoneFrequency = 0.00015

	// Scale is meters per terrain cell, converting from world space to
	// terrain/noise space.
	Scale = 25

	// SandLevel is the raw altitude byte at sea level (the start of the sand
	// biome layer).
	SandLevel = 255 / 2
)

// Generator produces deterministic altitude bytes from layered Perlin noise
// with arctic/tropic biome banding.
type Generator struct {
	landHi  *perlin.Perlin // smaller/higher frequency coastal detail
	landLo  *perlin.Perlin // larger/lower frequency landmass zones
	waterLo *perlin.Perlin // open water depth floor
	offset  units.Vec2f

	arcticY  float32 // y (meters) above which the arctic biome begins
	tropicsY float32 // y (meters) below which the tropics biome begins
}

// New creates a Generator seeded once for the lifetime of the world, per
// spec.md section 9's "terrain determinism" note: the noise function must be
// pure and seeded exactly once.
func New(seed int64, offsetX, offsetY, arcticY, tropicsY float32) *Generator {
	return &Generator{
		landHi:   perlin.NewPerlin(1.5, 2.0, 4, seed),
		landLo:   perlin.NewPerlin(2.5, 3.0, 4, seed+1),
		waterLo:  perlin.NewPerlin(2, 3.0, 3, seed+2),
		offset:   units.Vec2f{X: offsetX, Y: offsetY}.Mul(1.0 / Scale),
		arcticY:  arcticY,
		tropicsY: tropicsY,
	}
}

// NewDefault creates a Generator with the default seed/offset/biome bands.
func NewDefault() *Generator {
	return New(56, -128*Scale, -128*Scale, 6000, -6000)
}

// At returns the altitude byte at one world-space point.
func (g *Generator) At(pos units.Vec2f) byte {
	x := (float64(pos.X)/Scale + float64(g.offset.X))
	y := (float64(pos.Y)/Scale + float64(g.offset.Y))

	h := g.landHi.Noise2D(x*landFrequency, y*landFrequency)*250 + SandLevel - 50

	zone := g.landLo.Noise2D(x*zoneFrequency, y*zoneFrequency)*2.0 + 0.4
	if zone > 1 {
		zone = 1
	}
	h *= zone

	depthFloor := clamp((g.waterLo.Noise2D(x*zoneFrequency, y*zoneFrequency)+0.3)*4, 0, 1) * SandLevel

	biome := g.biomeBias(pos.Y)

	return clampToByte(max(h, depthFloor) + biome)
}

// biomeBias nudges altitude towards coastal ice shelves in the arctic band
// and towards lower, warmer seas in the tropics band.
func (g *Generator) biomeBias(y float32) float64 {
	if g.arcticY > 0 && y > g.arcticY {
		return 12
	}
	if g.tropicsY < 0 && y < g.tropicsY {
		return -8
	}
	return 0
}

// Generate fills a width*height grid of altitude bytes starting at (px,py)
// in terrain cells, matching the teacher's terrain/noise Source interface.
func (g *Generator) Generate(px, py, width, height int) []byte {
	buf := make([]byte, width*height)
	for j := 0; j < height; j++ {
		for i := 0; i < width; i++ {
			pos := units.Vec2f{
				X: float32(px+i) * Scale,
				Y: float32(py+j) * Scale,
			}
			buf[i+j*width] = g.At(pos)
		}
	}
	return buf
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func clampToByte(v float64) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}
