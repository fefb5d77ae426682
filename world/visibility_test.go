// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package world

import (
	"testing"

	"github.com/flotwake/server/units"
)

// TestClassifyContactInnerRingAlwaysVisible covers spec.md section 4.5 step
// 1: anything within the ~50m inner ring is always visible, regardless of
// sensor reach.
func TestClassifyContactInnerRingAlwaysVisible(t *testing.T) {
	target := &Entity{EntityID: 2, EntityType: EntityTypeCrate, Transform: units.Transform{Position: units.Vec2f{X: 10, Y: 0}}}
	tier := ClassifyContact(1, units.Vec2f{}, 0, 0, 0, target, 0)
	if tier != ContactVisible {
		t.Fatalf("ClassifyContact inner ring = %v, want ContactVisible", tier)
	}
}

// TestClassifyContactFarAwayUnknown covers the complement: no sensor reach
// and outside the inner ring yields Unknown, never a spurious detection.
func TestClassifyContactFarAwayUnknown(t *testing.T) {
	target := &Entity{EntityID: 2, EntityType: EntityTypeFairmileD, Transform: units.Transform{Position: units.Vec2f{X: 100000, Y: 0}}}
	tier := ClassifyContact(1, units.Vec2f{}, 500, 1000, 0, target, 0)
	if tier != ContactUnknown {
		t.Fatalf("ClassifyContact far away = %v, want ContactUnknown", tier)
	}
}

// TestBuildViewAlwaysIncludesSelf covers spec.md section 4.5's "Always
// include the player's own boat with full fidelity".
func TestBuildViewAlwaysIncludesSelf(t *testing.T) {
	entities := newMemEntities()
	self := Entity{EntityID: 1, EntityType: EntityTypeFairmileD, Extension: NewBoatExtension(EntityTypeFairmileD)}
	entities.Add(self)

	contacts := BuildView(&self, entities, 0)
	found := false
	for _, c := range contacts {
		if c.Entity.EntityID == self.EntityID {
			found = true
			if c.Tier != ContactVisible || !c.HasType {
				t.Fatalf("self contact = %+v, want full fidelity", c)
			}
		}
	}
	if !found {
		t.Fatal("BuildView did not include the eye's own entity")
	}
}
