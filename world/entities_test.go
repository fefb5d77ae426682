// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package world

import "github.com/flotwake/server/units"

// memEntities is a minimal, non-spatial Entities implementation used by
// world package unit tests in place of world/sector.World, avoiding a
// test-only import cycle (sector imports world).
type memEntities struct {
	byID map[EntityID]*Entity
}

func newMemEntities() *memEntities {
	return &memEntities{byID: make(map[EntityID]*Entity)}
}

func (m *memEntities) Add(entity Entity) {
	e := entity
	m.byID[entity.EntityID] = &e
}

func (m *memEntities) Get(id EntityID, fn func(*Entity) (remove bool)) bool {
	e, ok := m.byID[id]
	if !ok {
		return false
	}
	if fn(e) {
		delete(m.byID, id)
	}
	return true
}

func (m *memEntities) ForEach(fn func(*Entity)) {
	for _, e := range m.byID {
		fn(e)
	}
}

func (m *memEntities) ForEachNear(pos units.Vec2f, radius float32, fn func(*Entity)) {
	for _, e := range m.byID {
		if e.Position.Distance(pos) <= radius {
			fn(e)
		}
	}
}

func (m *memEntities) RemoveByID(id EntityID) bool {
	if _, ok := m.byID[id]; !ok {
		return false
	}
	delete(m.byID, id)
	return true
}

func (m *memEntities) Count() int { return len(m.byID) }

func (m *memEntities) SetParallel(bool) {}
