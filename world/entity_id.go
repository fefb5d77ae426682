// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package world

import "strconv"

// EntityID is a nonzero, 32-bit entity identifier (spec.md section 3.2).
type EntityID uint32

const EntityIDInvalid = EntityID(0)

func (id EntityID) String() string {
	return strconv.FormatUint(uint64(id), 16)
}

// AppendText appends id's hex text form to b, for cheap map-key encoding
// (protocol package's Contacts-as-map wire shape), grounded on the teacher's
// world/entity_id.go EntityID.AppendText.
func (id EntityID) AppendText(b []byte) []byte {
	return strconv.AppendUint(b, uint64(id), 16)
}

func (id EntityID) MarshalText() ([]byte, error) {
	return id.AppendText(nil), nil
}

func (id *EntityID) UnmarshalText(text []byte) error {
	v, err := strconv.ParseUint(string(text), 16, 32)
	if err != nil {
		return err
	}
	*id = EntityID(v)
	return nil
}

// MaxKeepAlive is the longest per-kind keep-alive bound from spec.md
// section 6.2 (obstacles, re-sent at most every 10 ticks, so an ID must
// stay retired for at least 11 ticks before reuse).
const MaxKeepAlive = 11

// Arena allocates and recycles EntityIDs and tracks per-EntityType
// population counts (spec.md section 3.3).
//
// Grounded on the teacher's world/entity_id.go random ID allocator for the
// "freshly allocate, avoid collisions" half; the delayed-recycle ring is a
// new structure the teacher does not have (its IDs are never reused while
// any reference to them could still exist in a client's memory, enforced
// only by picking large random IDs — spec.md instead requires a hard
// minimum retirement window, so a ring replaces that probabilistic
// approach).
type Arena struct {
	next EntityID // monotonic counter; never reused directly

	// ring holds retired IDs in one bucket per tick: Retire() appends to the
	// bucket just behind cursor, and Recycle() frees the bucket at cursor
	// (the oldest) and advances cursor.
	ring   [][]EntityID
	cursor int

	free []EntityID

	counts map[EntityType]int
}

// NewArena creates an Arena whose recycle ring is sized to MaxKeepAlive+1
// buckets, per spec.md section 3.3.
func NewArena() *Arena {
	return &Arena{
		next:   1,
		ring:   make([][]EntityID, MaxKeepAlive+1),
		counts: make(map[EntityType]int),
	}
}

// Allocate returns a fresh or recycled-and-retired EntityID and bumps t's
// population count.
func (a *Arena) Allocate(t EntityType) EntityID {
	var id EntityID
	if n := len(a.free); n > 0 {
		id = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		id = a.next
		a.next++
	}
	a.counts[t]++
	return id
}

// Retire marks id for recycling no sooner than MaxKeepAlive+1 ticks from
// now, and decrements t's population count.
func (a *Arena) Retire(id EntityID, t EntityType) {
	a.counts[t]--
	bucket := (a.cursor + len(a.ring) - 1) % len(a.ring)
	a.ring[bucket] = append(a.ring[bucket], id)
}

// ChangeType moves an entity's population count from oldType to newType
// (used by in-place upgrades, which keep the same EntityID).
func (a *Arena) ChangeType(oldType, newType EntityType) {
	a.counts[oldType]--
	a.counts[newType]++
}

// Recycle advances the delayed-recycle ring by one tick: the oldest bucket
// (already MaxKeepAlive+1 ticks retired) becomes free, and a new empty
// bucket is opened. Called once per outbound step (spec.md section 4.1).
func (a *Arena) Recycle() {
	oldest := a.ring[a.cursor]
	if len(oldest) > 0 {
		a.free = append(a.free, oldest...)
		a.ring[a.cursor] = nil
	}
	a.cursor = (a.cursor + 1) % len(a.ring)
}

// Count returns the live population of EntityType t.
func (a *Arena) Count(t EntityType) int {
	return a.counts[t]
}

// CountKind sums the live population of every EntityType with the given
// EntityKind.
func (a *Arena) CountKind(k EntityKind) int {
	var n int
	for t, c := range a.counts {
		if t.Data().Kind == k {
			n += c
		}
	}
	return n
}

// Total sums every tracked EntityType's population (invariant #2 of spec.md
// section 8: Sigma counts[t] == len(entities)).
func (a *Arena) Total() int {
	var n int
	for _, c := range a.counts {
		n += c
	}
	return n
}
