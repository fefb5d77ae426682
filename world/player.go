// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package world

import (
	"strconv"
	"unsafe"
)

// PlayerID uniquely identifies a Player for the lifetime of the process;
// grounded on the teacher's world/player.go PlayerID (pointer-derived,
// avoiding a separate counter).
type PlayerID uintptr

const PlayerIDInvalid = PlayerID(0)

// PlayerNameLengthMin/Max bound a sanitized alias (spec.md section 4.8's
// Spawn validation), grounded on the teacher's world/player.go constants
// of the same name.
const (
	PlayerNameLengthMin = 3
	PlayerNameLengthMax = 12
)

// AppendText appends id's hex text form to b, mirroring EntityID.AppendText
// for protocol package wire encoding.
func (id PlayerID) AppendText(b []byte) []byte {
	return strconv.AppendUint(b, uint64(id), 16)
}

func (id PlayerID) MarshalText() ([]byte, error) {
	return id.AppendText(nil), nil
}

func (id *PlayerID) UnmarshalText(text []byte) error {
	v, err := strconv.ParseUint(string(text), 16, 64)
	if err != nil {
		return err
	}
	*id = PlayerID(v)
	return nil
}

// PlayerStatus is the player lifecycle state of spec.md section 3.6:
// join -> Spawning -> Alive -> Dead -> (after limbo) removed.
type PlayerStatus uint8

const (
	PlayerStatusSpawning PlayerStatus = iota
	PlayerStatusAlive
	PlayerStatusDead
)

// PlayerData is the single-writer, multi-reader portion of a player
// (spec.md section 5's "PlayerData carries interior mutability"): the
// simulation thread is the sole writer, outbound builders and the bot
// scheduler are concurrent readers between ticks.
type PlayerData struct {
	Name   string
	Bot    bool
	TeamID TeamID

	Status   PlayerStatus
	EntityID EntityID // valid iff Status == PlayerStatusAlive

	Score       int
	DeathReason DeathReason // valid iff Status == PlayerStatusDead
	DeathTicks  int         // 0 until the death message is sent; counts ticks after disconnect, driving the limbo timeout
}

// Player is one connected (or bot) player and its extension state. The
// extension (per-boat reload/turret/altitude state) lives on the boat
// Entity itself, not here, matching spec.md section 3.2's "extension
// (allocated only for boats)".
type Player struct {
	PlayerData
	id PlayerID
}

func NewPlayer(name string, bot bool) *Player {
	p := &Player{PlayerData: PlayerData{Name: name, Bot: bot, Status: PlayerStatusSpawning}}
	p.id = PlayerID(uintptr(unsafe.Pointer(p)))
	return p
}

func (p *Player) ID() PlayerID { return p.id }

// Friendly reports whether p and other are the same player or share a team,
// grounded on teacher's world/player.go Player.Friendly.
func (p *Player) Friendly(other *Player) bool {
	return p == other || (p != nil && other != nil && p.TeamID != TeamIDInvalid && p.TeamID == other.TeamID)
}

// Spawn transitions Spawning -> Alive, attaching the freshly allocated boat
// id (spec.md section 4.6.2 step 4).
func (p *Player) Spawn(boatID EntityID) {
	p.Status = PlayerStatusAlive
	p.EntityID = boatID
}

// Die transitions Alive -> Dead, recording reason and the score snapshot
// the client's death screen shows (spec.md section 3.6).
func (p *Player) Die(reason DeathReason) {
	p.Status = PlayerStatusDead
	p.DeathReason = reason
	p.EntityID = EntityIDInvalid
	p.DeathTicks = 0
}

// LimboExpired reports whether a dead/disconnected player has exceeded the
// limbo timeout and should be removed (spec.md section 5, LIMBO ~6s at 10
// Hz == 60 ticks).
const LimboTicks = 60

func (p *Player) LimboExpired() bool {
	return p.Status == PlayerStatusDead && p.DeathTicks > LimboTicks
}

func (p *PlayerData) ScoreLess(other *PlayerData) bool {
	if p.Score != other.Score {
		return p.Score > other.Score
	}
	return p.Name < other.Name
}
