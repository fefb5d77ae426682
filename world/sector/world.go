// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package sector implements the dense, spatially-hashed entity store spec.md
// section 4.1 calls for: a per-sector bucket of entities plus an
// EntityID -> location map, used both as the authoritative entity store and
// as collision's broad-phase neighbor lookup.
package sector

import (
	"fmt"
	"math"

	"github.com/flotwake/server/units"
	"github.com/flotwake/server/world"
)

const (
	size         = 500 // meters per sector edge
	minSectorCap = 4
)

// location is where one entity lives: which sector, and its index within
// that sector's slice.
type location struct {
	id    sectorID
	index int32
}

var bufferedLocation = location{id: sectorID{x: math.MinInt16, y: math.MinInt16}, index: -1}

type sectorID struct{ x, y int16 }

func vec2fSectorID(pos units.Vec2f) sectorID {
	return sectorID{x: coord(pos.X), y: coord(pos.Y)}
}

func coord(v float32) int16 {
	f := v * (1.0 / size)
	if f >= 0 {
		return int16(f)
	}
	return int16(f) - 1
}

type sector struct {
	entities []world.Entity
}

// World is the sector-bucketed implementation of the entity store. It is
// not safe for concurrent writes; ForEach* read-only iteration is safe from
// multiple goroutines while SetParallel(true) is active, matching the
// teacher's world/sector/world.go read-only parallel mode (used by the bot
// scheduler of spec.md section 5).
type World struct {
	sectors   map[sectorID]*sector
	locations map[world.EntityID]location

	buffered []world.Entity
	count    int

	depth    int
	parallel bool
}

func New() *World {
	return &World{
		sectors:   make(map[sectorID]*sector),
		locations: make(map[world.EntityID]location),
	}
}

func (w *World) Count() int { return w.count }

// Add inserts entity (which must already have a valid EntityID) into the
// store. Cannot be called while SetParallel(true) is active.
func (w *World) Add(entity world.Entity) {
	if w.parallel {
		panic("sector: cannot write during parallel iteration")
	}
	w.locations[entity.EntityID] = bufferedLocation
	if w.depth > 0 {
		w.buffered = append(w.buffered, entity)
		return
	}
	w.place(entity)
	w.count++
}

func (w *World) place(entity world.Entity) {
	id := vec2fSectorID(entity.Position)
	s, ok := w.sectors[id]
	if !ok {
		s = &sector{entities: make([]world.Entity, 0, minSectorCap)}
		w.sectors[id] = s
	}
	idx := int32(len(s.entities))
	s.entities = append(s.entities, entity)
	w.locations[entity.EntityID] = location{id: id, index: idx}
}

// Get invokes fn with a pointer to the live entity (valid only for the
// duration of the call). fn's return value, if true, removes the entity
// after fn returns (cannot be done mid-parallel-iteration or while nested).
func (w *World) Get(id world.EntityID, fn func(*world.Entity) (remove bool)) bool {
	loc, ok := w.locations[id]
	if !ok {
		return false
	}
	s := w.sectors[loc.id]

	w.enter()
	remove := fn(&s.entities[loc.index])
	w.exit()

	if remove {
		if w.depth != 0 || w.parallel {
			panic("sector: cannot remove mid-iteration")
		}
		w.remove(loc.id, s, int(loc.index), false)
	}

	if w.depth == 0 && len(w.buffered) > 0 {
		w.drainBuffered()
	}
	return true
}

// remove drops the entity at (id, s, index) out of its sector's slice. When
// move is true the entity is re-placed into the sector its current Position
// now belongs to instead of being deleted, grounded on the teacher's
// world/sector/world.go remove(id, s, index, move).
func (w *World) remove(id sectorID, s *sector, index int, move bool) int {
	entity := s.entities[index]
	if !move {
		w.count--
		delete(w.locations, entity.EntityID)
	}

	end := len(s.entities) - 1
	if index != end {
		s.entities[index] = s.entities[end]
		w.locations[s.entities[index].EntityID] = location{id: id, index: int32(index)}
	}
	s.entities[end] = world.Entity{}
	s.entities = s.entities[:end]
	if len(s.entities) == 0 {
		delete(w.sectors, id)
	}

	if move {
		w.place(entity)
	}
	return index - 1
}

func (w *World) drainBuffered() {
	for i := range w.buffered {
		w.place(w.buffered[i])
		w.count++
		w.buffered[i] = world.Entity{}
	}
	w.buffered = w.buffered[:0]
}

func (w *World) enter() {
	if !w.parallel {
		w.depth++
	}
}

func (w *World) exit() {
	if !w.parallel {
		w.depth--
	}
}

// SetParallel toggles read-only concurrent iteration mode, used by the bot
// scheduler of spec.md section 5 to observe a read-only snapshot of the
// world from a worker pool.
func (w *World) SetParallel(parallel bool) {
	if w.depth != 0 {
		panic(fmt.Sprintf("sector: cannot toggle parallel at depth %d", w.depth))
	}
	w.parallel = parallel
}

// ForEach visits every live entity. If fn moves entity.Position out of its
// current sector, the entity is re-bucketed in place so a later
// ForEachNear finds it at its new position, grounded on the teacher's
// world/sector/for_entities.go ForEntities (oldPos vs
// vec2fSectorID(entity.Position) check, re-placed via remove(id, s, i,
// move=true)).
func (w *World) ForEach(fn func(entity *world.Entity)) {
	w.enter()
	for id, s := range w.sectors {
		for i := 0; i < len(s.entities); i++ {
			entity := &s.entities[i]
			oldPos := entity.Position
			fn(entity)
			if entity.Position != oldPos {
				if newID := vec2fSectorID(entity.Position); newID != id {
					i = w.remove(id, s, i, true)
				}
			}
		}
	}
	w.exit()
}

// ForEachNear visits every entity within radius meters of pos, plus the
// sector margin implied by cell size (spec.md section 4.4's broad phase:
// "look up its own and neighboring 8 cells").
func (w *World) ForEachNear(pos units.Vec2f, radius float32, fn func(entity *world.Entity)) {
	center := vec2fSectorID(pos)
	span := int16(radius/size) + 1

	w.enter()
	for dy := -span; dy <= span; dy++ {
		for dx := -span; dx <= span; dx++ {
			id := sectorID{x: center.x + dx, y: center.y + dy}
			s, ok := w.sectors[id]
			if !ok {
				continue
			}
			for i := range s.entities {
				fn(&s.entities[i])
			}
		}
	}
	w.exit()
}

// RemoveByID removes the entity with id, if present.
func (w *World) RemoveByID(id world.EntityID) bool {
	var removed bool
	w.Get(id, func(*world.Entity) bool {
		removed = true
		return true
	})
	return removed
}
