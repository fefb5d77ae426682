// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package terrain

import (
	"testing"

	"github.com/flotwake/server/units"
)

type flatSource struct{ value byte }

func (f flatSource) Generate(px, py, width, height int) []byte {
	buf := make([]byte, width*height)
	for i := range buf {
		buf[i] = f.value
	}
	return buf
}

func TestLandAtAboveSeaLevel(t *testing.T) {
	terr := New(flatSource{value: 200})
	if !terr.LandAt(units.Vec2f{X: 10, Y: 10}) {
		t.Fatal("expected land above sea level")
	}
	terr2 := New(flatSource{value: 50})
	if terr2.LandAt(units.Vec2f{X: 10, Y: 10}) {
		t.Fatal("expected water below sea level")
	}
}

func TestSculptMarksChunkUpdated(t *testing.T) {
	terr := New(flatSource{value: 50})
	pos := units.Vec2f{X: 100, Y: 100}
	terr.Sculpt(pos, 10, 50)

	id := chunkIDOf(cellOf(pos, Scale))
	if _, ok := terr.updated[id]; !ok {
		t.Fatal("expected chunk to be marked updated")
	}
	if !terr.LandAt(pos) {
		t.Fatal("expected sculpted cell to rise above sea level")
	}
}

func TestClientViewFullThenDelta(t *testing.T) {
	terr := New(flatSource{value: 50})
	view := NewClientView()
	pos := units.Vec2f{X: 0, Y: 0}
	camera := units.AABB{Vec2f: pos, Width: 10, Height: 10}
	visible := VisibleChunks(camera)

	first := terr.Update(view, visible)
	if len(first) == 0 {
		t.Fatal("expected at least one full chunk on first view")
	}
	for _, sc := range first {
		if sc.Full == nil {
			t.Fatalf("expected Full emission for never-before-seen chunk %v", sc.ID)
		}
	}

	// No changes: nothing updated, chunk stays loaded, nothing re-sent.
	second := terr.Update(view, visible)
	if len(second) != 0 {
		t.Fatalf("expected no re-emission without updates, got %d", len(second))
	}

	terr.Sculpt(pos, 5, 40)
	third := terr.Update(view, visible)
	if len(third) == 0 {
		t.Fatal("expected a delta emission after sculpting a loaded chunk")
	}
	for _, sc := range third {
		if sc.Full != nil {
			t.Fatalf("expected Delta (chunk already loaded), got Full for %v", sc.ID)
		}
	}
	terr.ClearUpdated()
}

func TestChunkIDFloorDiv(t *testing.T) {
	if got := chunkIDOf(-1, -1); got != (ChunkID{X: -1, Y: -1}) {
		t.Fatalf("expected {-1,-1}, got %v", got)
	}
	if got := chunkIDOf(0, 0); got != (ChunkID{X: 0, Y: 0}) {
		t.Fatalf("expected {0,0}, got %v", got)
	}
	if got := chunkIDOf(ChunkSize, ChunkSize); got != (ChunkID{X: 1, Y: 1}) {
		t.Fatalf("expected {1,1}, got %v", got)
	}
}
