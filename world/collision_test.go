// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package world

import (
	"testing"

	"github.com/flotwake/server/units"
)

// TestRadiusPrePassRejectsDistantPair covers spec.md section 4.4's broad
// phase: entities far outside their combined sweep radius never pass.
func TestRadiusPrePassRejectsDistantPair(t *testing.T) {
	a := &Entity{EntityType: EntityTypeFairmileD, Transform: units.Transform{Position: units.Vec2f{X: 0, Y: 0}}}
	b := &Entity{EntityType: EntityTypeFairmileD, Transform: units.Transform{Position: units.Vec2f{X: 100000, Y: 0}}}
	if radiusPrePass(a, b, 0.1) {
		t.Fatal("radiusPrePass should reject a far-apart pair")
	}
}

// TestRadiusPrePassAcceptsOverlappingPair covers the complement: entities
// at the same position always pass the sweep test.
func TestRadiusPrePassAcceptsOverlappingPair(t *testing.T) {
	a := &Entity{EntityType: EntityTypeFairmileD}
	b := &Entity{EntityType: EntityTypeFairmileD}
	if !radiusPrePass(a, b, 0.1) {
		t.Fatal("radiusPrePass should accept a coincident pair")
	}
}

// TestAltitudeOverlapsSubmarineSpecialMargin covers altitudeOverlaps's
// carve-out for torpedoes (with depth charges and mines): a torpedo near the
// surface still reaches a submerged submarine, which returns true before any
// margin is consulted.
func TestAltitudeOverlapsSubmarineSpecialMargin(t *testing.T) {
	sub := &Entity{EntityType: EntityTypeSubmarineS, Altitude: units.ToAltitude(-50)}
	torpedo := &Entity{EntityType: EntityTypeTorpedo, Altitude: units.ToAltitude(-5)}
	if !altitudeOverlaps(sub, torpedo) {
		t.Fatal("submarine vs torpedo should overlap under the special margin")
	}
}

// TestCollidesGatesOnAltitude covers spec.md section 4.4: a boat at the top
// of the altitude range and a submarine at the bottom, sharing the same xy
// position, should not register a collision, since their 510m gap exceeds
// even SpecialOverlapMargin.
func TestCollidesGatesOnAltitude(t *testing.T) {
	boat := &Entity{EntityType: EntityTypeFairmileD, Altitude: units.ToAltitude(units.AltitudeMax)}
	sub := &Entity{EntityType: EntityTypeSubmarineS, Altitude: units.ToAltitude(units.AltitudeMin)}
	if Collides(boat, sub, 0.1) {
		t.Fatal("surface boat and deep submarine should not collide")
	}
}
