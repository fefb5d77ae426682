// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package protocol

import (
	"strings"
	"testing"

	"github.com/flotwake/server/units"
	"github.com/flotwake/server/world"
)

// TestEncodeTextUpdateContactsAsMap covers spec.md section 6.1: contacts
// marshal as an object keyed by hex EntityID, not an array.
func TestEncodeTextUpdateContactsAsMap(t *testing.T) {
	u := &Update{
		EntityID: 0xffff,
		Score:    7,
		Contacts: []IDContact{
			{EntityID: 0xffff, Contact: Contact{
				EntityType: world.EntityTypeFairmileD,
				Transform:  units.Transform{Position: units.Vec2f{X: 1, Y: 0.5}},
			}},
		},
	}

	buf, err := EncodeText(u)
	if err != nil {
		t.Fatalf("EncodeText: %v", err)
	}
	out := string(buf)

	if !strings.Contains(out, `"type":"update"`) {
		t.Fatalf("missing type discriminator: %s", out)
	}
	if !strings.Contains(out, `"ffff":{`) {
		t.Fatalf("contacts not keyed by hex entity id: %s", out)
	}
	if strings.Contains(out, `"contacts":[`) {
		t.Fatalf("contacts encoded as array, want object: %s", out)
	}
}

// TestDecodeTextControl covers decoding an inbound Control command.
func TestDecodeTextControl(t *testing.T) {
	const msg = `{"type":"control","data":{"fire":2,"active":true}}`
	in, err := DecodeText([]byte(msg))
	if err != nil {
		t.Fatalf("DecodeText: %v", err)
	}
	c, ok := in.(Control)
	if !ok {
		t.Fatalf("decoded %T, want Control", in)
	}
	if c.Fire == nil || *c.Fire != 2 {
		t.Fatalf("Fire = %v, want 2", c.Fire)
	}
	if c.Active == nil || !*c.Active {
		t.Fatalf("Active = %v, want true", c.Active)
	}
}

// TestDecodeTextUnknownType covers spec.md section 4.8's "failures are
// surfaced ... without disconnecting": an unrecognized type yields
// InvalidCommand instead of an error.
func TestDecodeTextUnknownType(t *testing.T) {
	const msg = `{"type":"bogus","data":{}}`
	in, err := DecodeText([]byte(msg))
	if err != nil {
		t.Fatalf("DecodeText: %v", err)
	}
	if _, ok := in.(InvalidCommand); !ok {
		t.Fatalf("decoded %T, want InvalidCommand", in)
	}
}

// TestBinaryControlRoundTrip covers spec.md section 6.1's compact encoding
// for the per-tick Control command.
func TestBinaryControlRoundTrip(t *testing.T) {
	fire := 3
	active := true
	altitude := float32(0.5)
	c := Control{
		Guidance:       &units.Guidance{DirectionTarget: units.ToAngle(1.0), VelocityTarget: units.ToVelocity(5)},
		AltitudeTarget: &altitude,
		Fire:           &fire,
		Active:         &active,
	}

	buf := EncodeBinaryControl(c)
	in, err := DecodeBinaryCommand(buf)
	if err != nil {
		t.Fatalf("DecodeBinaryCommand: %v", err)
	}
	got, ok := in.(Control)
	if !ok {
		t.Fatalf("decoded %T, want Control", in)
	}
	if got.Fire == nil || *got.Fire != 3 {
		t.Fatalf("Fire = %v, want 3", got.Fire)
	}
	if got.Guidance == nil || got.Guidance.DirectionTarget != c.Guidance.DirectionTarget {
		t.Fatalf("Guidance = %+v, want %+v", got.Guidance, c.Guidance)
	}
	if got.AltitudeTarget == nil || *got.AltitudeTarget != altitude {
		t.Fatalf("AltitudeTarget = %v, want %v", got.AltitudeTarget, altitude)
	}
	if got.Active == nil || !*got.Active {
		t.Fatalf("Active = %v, want true", got.Active)
	}
}

// TestContactFromGatesOnTier covers protocol.ContactFrom: Known-tier
// contacts omit Damage/TurretAngles, Visible-tier contacts include them.
func TestContactFromGatesOnTier(t *testing.T) {
	target := &world.Entity{EntityID: 5, EntityType: world.EntityTypeFairmileD, Extension: world.NewBoatExtension(world.EntityTypeFairmileD)}

	known := world.Contact{Entity: target, Tier: world.ContactKnown, HasType: true}
	c := ContactFrom(known, nil)
	if c.Damage != 0 || c.TurretAngles != nil {
		t.Fatalf("Known-tier contact leaked full fidelity: %+v", c)
	}

	visible := world.Contact{Entity: target, Tier: world.ContactVisible, HasType: true, Turrets: target.Extension.TurretAngles}
	c = ContactFrom(visible, nil)
	if c.TurretAngles == nil {
		t.Fatal("Visible-tier contact missing TurretAngles")
	}
}
