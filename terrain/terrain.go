// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package terrain implements the procedural, chunked altitude field boats
// and projectiles collide against, and the per-client delta streaming
// protocol for shipping chunk updates (spec.md section 6.3).
package terrain

import (
	"math"
	"sync"

	"github.com/flotwake/server/units"
)

func cos32(a float32) float32 { return float32(math.Cos(float64(a))) }
func sin32(a float32) float32 { return float32(math.Sin(float64(a))) }

// Source generates raw altitude bytes for a rectangle of cells. Both the
// live noise.Generator and (in tests) a fixed grid satisfy it.
type Source interface {
	Generate(px, py, width, height int) []byte
}

// Scale is meters per terrain cell.
const Scale = 25

// Terrain is the server's authoritative altitude field: a sparse map of
// lazily-generated, mutably-overridden chunks plus the append-only set of
// chunks touched since the last outbound step (spec.md section 3.5/6.3).
type Terrain struct {
	mu     sync.RWMutex
	source Source
	chunks map[ChunkID]*Chunk

	updated map[ChunkID]struct{}
}

func New(source Source) *Terrain {
	return &Terrain{
		source:  source,
		chunks:  make(map[ChunkID]*Chunk),
		updated: make(map[ChunkID]struct{}),
	}
}

func (t *Terrain) chunkAt(id ChunkID) *Chunk {
	c, ok := t.chunks[id]
	if !ok {
		c = newChunk(t.source, id)
		t.chunks[id] = c
	}
	return c
}

// AltitudeAt converts the raw byte at pos into a units.Altitude (sea level
// at byte 127, via units.Altitude's own scale).
func (t *Terrain) AltitudeAt(pos units.Vec2f) units.Altitude {
	t.mu.RLock()
	defer t.mu.RUnlock()

	cx, cy := cellOf(pos, Scale)
	id := chunkIDOf(cx, cy)
	c := t.chunkAtRLocked(id)
	localX := uint16(((cx % ChunkSize) + ChunkSize) % ChunkSize)
	localY := uint16(((cy % ChunkSize) + ChunkSize) % ChunkSize)
	raw := c.at(localX + localY*ChunkSize)
	return byteToAltitude(raw)
}

// chunkAtRLocked is only safe to call while holding at least t.mu.RLock;
// chunk creation below is append-only into a map shared by readers, which
// the teacher's compressed terrain store also tolerates under RWMutex by
// promoting to a write lock on miss.
func (t *Terrain) chunkAtRLocked(id ChunkID) *Chunk {
	if c, ok := t.chunks[id]; ok {
		return c
	}
	t.mu.RUnlock()
	t.mu.Lock()
	c := t.chunkAt(id)
	t.mu.Unlock()
	t.mu.RLock()
	return c
}

// LandAt reports whether pos is above sea level (impassable to boats).
func (t *Terrain) LandAt(pos units.Vec2f) bool {
	return t.AltitudeAt(pos) > 0
}

// Collides reports whether pos, swept by sweepRadius meters along no
// particular direction (a conservative circular check), overlaps land.
// Satisfies world.Collider for world.UpdatePhysics's terrain step.
func (t *Terrain) Collides(pos units.Vec2f, sweepRadius float32) bool {
	if t.LandAt(pos) {
		return true
	}
	if sweepRadius <= 0 {
		return false
	}
	const samples = 4
	for i := 0; i < samples; i++ {
		angle := float32(i) * (2 * 3.14159265 / samples)
		offset := units.Vec2f{X: sweepRadius * cos32(angle), Y: sweepRadius * sin32(angle)}
		if t.LandAt(pos.Add(offset)) {
			return true
		}
	}
	return false
}

// byteToAltitude maps the noise generator's [0,255] byte range (127 == sea
// level) onto units.Altitude's signed fixed-point range.
func byteToAltitude(raw byte) units.Altitude {
	return units.ToAltitude((float32(raw) - 127) / 2)
}

// Sculpt adds deltaMeters of altitude (converted to the byte scale) to every
// cell within radius meters of pos, marking each touched chunk updated.
func (t *Terrain) Sculpt(pos units.Vec2f, radius float32, deltaMeters float32) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delta := int16(deltaMeters * 2)
	if delta == 0 {
		return
	}

	cellRadius := int32(radius/Scale) + 1
	cx, cy := cellOf(pos, Scale)
	for dy := -cellRadius; dy <= cellRadius; dy++ {
		for dx := -cellRadius; dx <= cellRadius; dx++ {
			wx, wy := cx+dx, cy+dy
			cellPos := units.Vec2f{X: float32(wx) * Scale, Y: float32(wy) * Scale}
			if cellPos.Distance(pos) > radius {
				continue
			}
			id := chunkIDOf(wx, wy)
			c := t.chunkAt(id)
			localX := uint16(((wx % ChunkSize) + ChunkSize) % ChunkSize)
			localY := uint16(((wy % ChunkSize) + ChunkSize) % ChunkSize)
			c.sculpt(localX+localY*ChunkSize, delta)
			t.updated[id] = struct{}{}
		}
	}
}

// ClearUpdated resets the per-tick updated set. The hub calls this once,
// after every client's outbound step has consulted it (spec.md section
// 6.3's "bit set of chunk ids mutated since last outbound").
func (t *Terrain) ClearUpdated() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.updated = make(map[ChunkID]struct{})
}

// VisibleChunks returns the chunk ids overlapping camera, expanded by two
// cells of margin per spec.md section 6.3 step 1.
func VisibleChunks(camera units.AABB) []ChunkID {
	margin := float32(2 * Scale)
	corner := units.AABB{
		Vec2f:  units.Vec2f{X: camera.X - camera.Width/2 - margin, Y: camera.Y - camera.Height/2 - margin},
		Width:  camera.Width + margin*2,
		Height: camera.Height + margin*2,
	}
	minCX, minCY := cellOf(corner.Vec2f, Scale)
	maxCX, maxCY := cellOf(units.Vec2f{X: corner.X + corner.Width, Y: corner.Y + corner.Height}, Scale)

	minID := chunkIDOf(minCX, minCY)
	maxID := chunkIDOf(maxCX, maxCY)

	var out []ChunkID
	for y := minID.Y; y <= maxID.Y; y++ {
		for x := minID.X; x <= maxID.X; x++ {
			out = append(out, ChunkID{X: x, Y: y})
		}
	}
	return out
}

// SerializedChunk is either a Full chunk (client didn't have it) or a Delta
// (per-cell overrides since the chunk's last Full emission to this client),
// matching spec.md section 6.3 step 3.
type SerializedChunk struct {
	ID    ChunkID
	Full  *[ChunkCells]byte
	Delta []CellDelta
}

// ClientView tracks, per connected client, which chunks it has already
// loaded and at what version, so Terrain can decide Full vs Delta.
type ClientView struct {
	loaded map[ChunkID]uint32 // chunk id -> version at last Full emission
}

func NewClientView() *ClientView {
	return &ClientView{loaded: make(map[ChunkID]uint32)}
}

// Update implements spec.md section 6.3 steps 2-4 for one client's outbound
// tick and returns the chunks to emit.
func (t *Terrain) Update(view *ClientView, visible []ChunkID) []SerializedChunk {
	t.mu.RLock()
	defer t.mu.RUnlock()

	visibleSet := make(map[ChunkID]struct{}, len(visible))
	for _, id := range visible {
		visibleSet[id] = struct{}{}
	}

	var toSend []SerializedChunk
	nextLoaded := make(map[ChunkID]uint32, len(visible))

	consider := make(map[ChunkID]struct{}, len(visible)+len(view.loaded))
	for id := range visibleSet {
		consider[id] = struct{}{}
	}
	for id := range view.loaded {
		consider[id] = struct{}{}
	}

	for id := range consider {
		_, isVisible := visibleSet[id]
		lastVersion, wasLoaded := view.loaded[id]
		_, isUpdated := t.updated[id]

		sendIt := isVisible || wasLoaded
		sendIt = sendIt && (isUpdated || !wasLoaded)
		sentFull := false
		if sendIt {
			c := t.chunkAt(id)
			if !wasLoaded {
				full := c.full()
				toSend = append(toSend, SerializedChunk{ID: id, Full: &full})
				sentFull = true
			} else if delta, ok := c.deltaSince(lastVersion); ok {
				if len(delta) > 0 {
					toSend = append(toSend, SerializedChunk{ID: id, Delta: delta})
				}
			} else {
				full := c.full()
				toSend = append(toSend, SerializedChunk{ID: id, Full: &full})
				sentFull = true
			}
		}

		if isVisible || (wasLoaded && !isUpdated) {
			if sentFull {
				nextLoaded[id] = t.chunkAt(id).version
			} else {
				nextLoaded[id] = lastVersion
			}
		}
	}

	view.loaded = nextLoaded
	return toSend
}
