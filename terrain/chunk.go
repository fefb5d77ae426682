// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package terrain

import "github.com/flotwake/server/units"

const (
	// ChunkSize is the edge length, in cells, of a terrain chunk (spec.md
	// section 6.3: "on the order of 32x32 cells").
	ChunkSize = 32
	// ChunkCells is the number of altitude bytes in one chunk.
	ChunkCells = ChunkSize * ChunkSize
	// maxOverrideLog bounds how far back a Chunk remembers individual cell
	// edits before a client must be re-sent a Full chunk instead of a Delta.
	maxOverrideLog = 256
)

// ChunkID identifies a chunk by its cell-space coordinate divided by
// ChunkSize.
type ChunkID struct {
	X, Y int32
}

func chunkIDOf(cellX, cellY int32) ChunkID {
	return ChunkID{X: floorDiv(cellX, ChunkSize), Y: floorDiv(cellY, ChunkSize)}
}

func floorDiv(a, b int32) int32 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

type cellOverride struct {
	version uint32
	index   uint16
	value   byte
}

// Chunk is one ChunkSize x ChunkSize tile of altitude bytes, lazily derived
// from procedural noise and sparsely overridden by Sculpt edits.
type Chunk struct {
	base      [ChunkCells]byte
	baseBuilt bool

	overrides map[uint16]byte
	log       []cellOverride
	version   uint32
}

func newChunk(gen Source, id ChunkID) *Chunk {
	c := &Chunk{overrides: make(map[uint16]byte)}
	c.buildBase(gen, id)
	return c
}

func (c *Chunk) buildBase(gen Source, id ChunkID) {
	data := gen.Generate(int(id.X)*ChunkSize, int(id.Y)*ChunkSize, ChunkSize, ChunkSize)
	copy(c.base[:], data)
	c.baseBuilt = true
}

func (c *Chunk) at(index uint16) byte {
	if v, ok := c.overrides[index]; ok {
		return v
	}
	return c.base[index]
}

// sculpt applies a delta to one cell, saturating at byte bounds, and
// appends the edit to the override log for future delta streaming.
func (c *Chunk) sculpt(index uint16, delta int16) byte {
	cur := int16(c.at(index))
	next := cur + delta
	if next < 0 {
		next = 0
	}
	if next > 255 {
		next = 255
	}
	v := byte(next)
	c.overrides[index] = v
	c.version++
	c.log = append(c.log, cellOverride{version: c.version, index: index, value: v})
	if len(c.log) > maxOverrideLog {
		c.log = c.log[len(c.log)-maxOverrideLog:]
	}
	return v
}

// full returns the combined base+overrides byte grid.
func (c *Chunk) full() [ChunkCells]byte {
	out := c.base
	for idx, v := range c.overrides {
		out[idx] = v
	}
	return out
}

// deltaSince returns the cell edits applied after sinceVersion, and whether
// that history is still available (false means the caller must fall back to
// a Full emission because the log has been trimmed past sinceVersion).
func (c *Chunk) deltaSince(sinceVersion uint32) ([]CellDelta, bool) {
	if len(c.log) > 0 && c.log[0].version > sinceVersion+1 {
		return nil, false
	}
	var out []CellDelta
	for _, e := range c.log {
		if e.version > sinceVersion {
			out = append(out, CellDelta{Index: e.index, Value: e.value})
		}
	}
	return out, true
}

// CellDelta is one overridden cell, addressed by its flat index into a
// ChunkSize x ChunkSize grid (index = localX + localY*ChunkSize).
type CellDelta struct {
	Index uint16
	Value byte
}

// cellOf returns pos's cell coordinate for the given terrain scale.
func cellOf(pos units.Vec2f, scale float32) (int32, int32) {
	return int32(floorf(pos.X / scale)), int32(floorf(pos.Y / scale))
}

func floorf(v float32) float32 {
	i := float32(int32(v))
	if v < 0 && i != v {
		i--
	}
	return i
}
