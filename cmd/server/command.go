// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"log"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/flotwake/server/protocol"
	"github.com/flotwake/server/units"
	"github.com/flotwake/server/world"
)

var reservedNames = [...]string{
	"admin", "administrator", "console", "editor", "dev", "developer",
	"mod", "moderator", "npc", "owner", "root", "server", "staff", "system",
}

// applyCommand dispatches one decoded protocol.Inbound against the Hub and
// the sending client's Player, grounded on the teacher's server/inbound.go
// per-type Inbound methods. Chat-message profanity censorship
// (moderation.Scan/Censor in the teacher) is out of scope per spec.md
// section 1's chat-moderation Non-goal; sanitize here only trims/validates
// shape.
func (h *Hub) applyCommand(client Client, cmd protocol.Inbound) {
	p := client.Data().Player

	switch c := cmd.(type) {
	case protocol.Control:
		h.applyControl(p, c)
	case protocol.Spawn:
		h.applySpawn(client, p, c)
	case protocol.Upgrade:
		h.applyUpgrade(p, c)
	case protocol.AddToTeam:
		h.applyAddToTeam(p, c)
	case protocol.CreateTeam:
		h.applyCreateTeam(p, c)
	case protocol.RemoveFromTeam:
		h.applyRemoveFromTeam(p, c)
	case protocol.AimTurrets:
		h.world.AimTurrets(p.EntityID, c.Target)
	case protocol.SendChat:
		h.applySendChat(client, p, c)
	case protocol.Trace:
		// FPS diagnostics; nothing to apply without a metrics sink.
	case protocol.InvalidCommand:
		// Stale/malicious type discriminator; already logged by the
		// transport layer that decoded it.
	default:
		log.Printf("unhandled inbound command %T", c)
	}
}

// applyControl implements spec.md section 4.8's per-tick Control vocabulary:
// Guidance, optional altitude target, fire slot, turret hint, and the
// active-sensor toggle. Pay is not acted on, and Fire is applied only when a
// Hint aim point comes with it.
func (h *Hub) applyControl(p *world.Player, c protocol.Control) {
	if p.Status != world.PlayerStatusAlive {
		return
	}
	h.world.Entities().Get(p.EntityID, func(e *world.Entity) bool {
		if e.Owner != p || e.Extension == nil {
			return false
		}
		if c.Guidance != nil {
			e.Guidance = *c.Guidance
		}
		if c.AltitudeTarget != nil {
			e.Extension.AltitudeTarget = units.ToAltitude(*c.AltitudeTarget)
		}
		if c.Active != nil {
			e.Extension.Active = *c.Active
		}
		return false
	})

	if c.Hint != nil {
		h.world.AimTurrets(p.EntityID, *c.Hint)
		if c.Fire != nil {
			h.world.FireArmament(p.EntityID, *c.Fire, *c.Hint)
		}
	}
}

// applySpawn implements spec.md section 4.8's Spawn command: validates
// entity-type eligibility, sanitizes the alias, clears a TeamID whose team
// no longer exists, and schedules placement, grounded on the teacher's
// server/inbound.go Spawn.Inbound.
func (h *Hub) applySpawn(client Client, p *world.Player, c protocol.Spawn) {
	if p.Status == world.PlayerStatusAlive {
		return
	}

	if d := c.EntityType.Data(); d.Kind != world.EntityKindBoat || d.Level != 1 {
		return
	}

	name, ok := sanitize(c.Alias, true, world.PlayerNameLengthMin, world.PlayerNameLengthMax)
	if !ok {
		return
	}
	lower := strings.ToLower(name)
	for _, reserved := range reservedNames {
		if lower == reserved {
			return
		}
	}
	p.Name = name

	if team, ok := h.teams[p.TeamID]; !ok || team == nil {
		p.TeamID = world.TeamIDInvalid
	}

	h.world.SpawnPlayer(p, c.EntityType)
}

// applyUpgrade implements spec.md section 4.8's Upgrade command: "performed
// in place: arena.change_type, new extension constructed". Routed through
// world.World.UpgradeEntity rather than setting e.EntityType directly here,
// so Arena's per-type counts (spec.md section 3.4's "Counts are exact")
// stay in sync with every upgrade.
func (h *Hub) applyUpgrade(p *world.Player, c protocol.Upgrade) {
	if p.Status != world.PlayerStatusAlive {
		return
	}
	var eligible bool
	h.world.Entities().Get(p.EntityID, func(e *world.Entity) bool {
		eligible = e.Owner == p && e.EntityType.UpgradesTo(c.EntityType, p.Score)
		return false
	})
	if !eligible {
		return
	}
	h.world.UpgradeEntity(p.EntityID, c.EntityType)
}

// applyAddToTeam implements spec.md section 4.8's team-join flow: the owner
// admits a pending requester, or anyone else requests to join, grounded on
// the teacher's server/inbound.go AddToTeam.Inbound.
func (h *Hub) applyAddToTeam(p *world.Player, c protocol.AddToTeam) {
	teamID := c.TeamID
	if teamID == world.TeamIDInvalid {
		teamID = p.TeamID
	}
	playerID := c.PlayerID
	if playerID == world.PlayerIDInvalid {
		playerID = p.ID()
	}

	team, ok := h.teams[teamID]
	if !ok {
		return
	}

	if team.Owner() == p {
		if team.Full() {
			return
		}
		joining := team.JoinRequests.GetByID(playerID)
		if joining == nil {
			return
		}
		h.clearTeamRequests(joining)
		team.Members.Add(joining)
		joining.TeamID = teamID
	} else if p.ID() == playerID {
		if len(team.Members)+len(team.JoinRequests) >= world.TeamMembersMax {
			return
		}
		if p.TeamID != world.TeamIDInvalid {
			return
		}
		team.JoinRequests.Add(p)
	}
}

// applyCreateTeam implements spec.md section 4.8's CreateTeam command.
func (h *Hub) applyCreateTeam(p *world.Player, c protocol.CreateTeam) {
	if p.TeamID != world.TeamIDInvalid {
		return
	}

	name, ok := sanitize(c.Name, true, world.TeamIDLengthMin, world.TeamIDLengthMax)
	if !ok {
		return
	}

	var teamID world.TeamID
	if err := teamID.UnmarshalText([]byte(name)); err != nil {
		return
	}
	if _, exists := h.teams[teamID]; exists {
		return
	}

	p.TeamID = teamID
	h.clearTeamRequests(p)
	h.teams[teamID] = &Team{Team: world.NewTeam(p)}
}

// applyRemoveFromTeam implements spec.md section 4.8's RemoveFromTeam
// command: self-leave, or owner-kick.
func (h *Hub) applyRemoveFromTeam(p *world.Player, c protocol.RemoveFromTeam) {
	team, ok := h.teams[p.TeamID]
	if !ok {
		return
	}

	playerID := c.PlayerID
	if playerID == world.PlayerIDInvalid {
		playerID = p.ID()
	}

	target := team.Members.GetByID(playerID)
	if target != nil && (team.Owner() == p || target == p) {
		h.leaveTeam(target)
	}
}

// applySendChat implements spec.md section 4.8's SendChat command,
// length-limited but neither rate-limited nor profanity-filtered.
func (h *Hub) applySendChat(client Client, p *world.Player, c protocol.SendChat) {
	if len(c.Message) == 0 || len(c.Message) > 128 {
		return
	}
	msg, ok := trimUtf8(c.Message, 1, 128)
	if !ok {
		return
	}

	chat := protocol.Chat{PlayerID: p.ID(), Name: p.Name, Message: msg}
	if c.Team {
		if team, ok := h.teams[p.TeamID]; ok {
			team.Chats = append(team.Chats, chat)
			if len(team.Chats) > 20 {
				team.Chats = team.Chats[len(team.Chats)-20:]
			}
		}
		return
	}

	h.chats = append(h.chats, chat)
	if len(h.chats) > 20 {
		h.chats = h.chats[len(h.chats)-20:]
	}
}

// sanitize trims text to a printable, length-bounded form. name additionally
// strips bracket/asterisk characters used by chat formatting/censorship,
// matching the teacher's server/inbound.go sanitize minus the
// moderation.Scan/Censor step (out of scope per spec.md section 1).
func sanitize(text string, name bool, low, high int) (string, bool) {
	if name {
		const removals = "()[]{}*"
		for i := 0; i < len(removals); i++ {
			text = strings.ReplaceAll(text, removals[i:i+1], "")
		}
	}

	text = strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) || unicode.IsGraphic(r) {
			return r
		}
		return -1
	}, text)

	return trimUtf8(text, low, high)
}

// trimUtf8 trims whitespace (including invisible-but-non-space runes a
// client could use to fake a blank name) and clamps to [low, high] bytes,
// cutting only at rune boundaries,
// matching the teacher's server/inbound.go trimUtf8.
func trimUtf8(in string, low, high int) (string, bool) {
	if !utf8.ValidString(in) {
		return "", false
	}

	str := strings.TrimSpace(in)
	str = strings.TrimFunc(str, func(r rune) bool {
		return r == 0x2800 || r == 0x200B
	})

	if len(str) > high {
		var b strings.Builder
		for _, r := range str {
			if b.Len()+utf8.RuneLen(r) > high {
				break
			}
			b.WriteRune(r)
		}
		str = b.String()
	}

	if len(str) < low {
		return "", false
	}
	return str, true
}
