// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package world

import "github.com/flotwake/server/units"

// Entities is the dense entity store World relies on: O(1) id lookup plus
// spatial neighbor queries for collision's broad phase (spec.md section
// 4.1). world/sector.World is the only implementation outside tests; it is injected
// rather than constructed here to avoid a package import cycle (sector
// imports world for the Entity/EntityID types it stores).
type Entities interface {
	Add(entity Entity)
	Get(id EntityID, fn func(*Entity) (remove bool)) bool
	ForEach(fn func(*Entity))
	ForEachNear(pos units.Vec2f, radius float32, fn func(*Entity))
	RemoveByID(id EntityID) bool
	Count() int
	SetParallel(parallel bool)
}
