// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package world

import (
	"encoding/binary"
	"errors"
	"math/rand"
	"strconv"
)

const (
	TeamCodeInvalid = TeamCode(0)
	TeamIDInvalid   = TeamID(0)
	TeamIDLengthMin = 1
	TeamIDLengthMax = 6
	TeamMembersMax  = 6

	teamCodeBase = 36
)

// TeamCode is an invitation code that lets a Player join a Team without
// knowing its TeamID, grounded on the teacher's world/team.go TeamCode.
type TeamCode uint32

// TeamID is a short, fixed-length team name packed into a uint64 for cheap
// comparisons, unchanged from the teacher's world/team.go TeamID.
type TeamID uint64

// PlayerSet is an order-preserving set of players, used for team rosters
// and join-request queues (teacher's world/team.go PlayerSet).
type PlayerSet []*Player

// Team is a group of up to TeamMembersMax players who share friendliness
// for ramming/weapon damage and visibility.
type Team struct {
	Code         TeamCode
	Members      PlayerSet // Members[0] is the owner
	JoinRequests PlayerSet
}

func NewTeam(owner *Player) *Team {
	return &Team{Code: TeamCode(rand.Uint32()), Members: PlayerSet{owner}}
}

func (team *Team) Owner() *Player {
	if len(team.Members) > 0 {
		return team.Members[0]
	}
	return nil
}

func (team *Team) Full() bool {
	return len(team.Members) >= TeamMembersMax
}

func (set *PlayerSet) GetByID(id PlayerID) *Player {
	for _, p := range *set {
		if p.ID() == id {
			return p
		}
	}
	return nil
}

func (set *PlayerSet) Add(player *Player) {
	for _, p := range *set {
		if p == player {
			return
		}
	}
	*set = append(*set, player)
}

func (set *PlayerSet) Remove(player *Player) {
	s := *set
	for i := range s {
		if s[i] == player {
			copy(s[i:len(s)-1], s[i+1:])
			s = s[:len(s)-1]
			break
		}
	}
	*set = s
}

var teamCodeInvalidErr = errors.New("invalid team code")

func (code TeamCode) MarshalText() ([]byte, error) {
	if code == TeamCodeInvalid {
		return nil, teamCodeInvalidErr
	}
	return strconv.AppendUint(nil, uint64(code), teamCodeBase), nil
}

func (code *TeamCode) UnmarshalText(text []byte) error {
	i, err := strconv.ParseUint(string(text), teamCodeBase, 32)
	if err != nil {
		return err
	}
	*code = TeamCode(i)
	if *code == TeamCodeInvalid {
		return teamCodeInvalidErr
	}
	return nil
}

var teamIDInvalidErr = errors.New("invalid team id")

func (id TeamID) String() string {
	buf, _ := id.MarshalText()
	return string(buf)
}

func (id TeamID) MarshalText() ([]byte, error) {
	if id == TeamIDInvalid {
		return nil, teamIDInvalidErr
	}
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, uint64(id))
	n := TeamIDLengthMin
	for ; n < TeamIDLengthMax; n++ {
		if buf[n] == 0 {
			break
		}
	}
	return buf[:n], nil
}

func (id *TeamID) UnmarshalText(text []byte) error {
	if len(text) < TeamIDLengthMin || len(text) > TeamIDLengthMax {
		return teamIDInvalidErr
	}
	buf := make([]byte, 8)
	copy(buf, text)
	*id = TeamID(binary.LittleEndian.Uint64(buf))
	if *id == TeamIDInvalid {
		return teamIDInvalidErr
	}
	return nil
}
