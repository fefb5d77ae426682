// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"sort"
	"time"

	"github.com/flotwake/server/protocol"
	"github.com/flotwake/server/terrain"
	"github.com/flotwake/server/terrain/noise"
	"github.com/flotwake/server/units"
	"github.com/flotwake/server/world"
	"github.com/flotwake/server/world/sector"
)

// tickRate is spec.md section 3.4/6.2's simulation rate: 10 Hz.
const tickRate = 10
const tickPeriod = time.Second / tickRate

// signedInbound pairs a decoded command with the client it arrived from,
// grounded on the teacher's server/hub.go SignedInbound.
type signedInbound struct {
	client  Client
	command protocol.Inbound
}

// Team wraps world.Team with the chat history that accumulates alongside
// it, matching the teacher's server/team.go Team (world.Team plus Chats).
type Team struct {
	*world.Team
	Chats []protocol.Chat
}

// Hub owns the World and every connected Client; it is the single
// goroutine that mutates simulation state (spec.md section 5's "single
// writer"), grounded on the teacher's server/hub.go Hub/run.
type Hub struct {
	world      *world.World
	terrainGen *terrain.Terrain

	clients ClientList
	despawn ClientList

	teams map[world.TeamID]*Team

	minPlayers int
	chats      []protocol.Chat

	inbound    chan signedInbound
	register   chan Client
	unregister chan Client
}

// newHub wires sector.New() and terrain.New(noise.NewDefault()) into a
// fresh world.World, mirroring the teacher's server/main.go newHub call
// site (which builds its Hub's World the same way, minus the
// dependency-injection split this module's world/sector import-cycle
// avoidance requires).
func newHub(minPlayers int) *Hub {
	entities := sector.New()
	terr := terrain.New(noise.NewDefault())

	h := &Hub{
		world:      world.NewWorld(entities, terr),
		terrainGen: terr,
		teams:      make(map[world.TeamID]*Team),
		minPlayers: minPlayers,
		inbound:    make(chan signedInbound, 256),
		register:   make(chan Client, 8),
		unregister: make(chan Client, 8),
	}
	h.world.Radius = world.MinRadius
	return h
}

// run is the Hub's single goroutine: a select loop over connection
// lifecycle events, inbound commands, and periodic tickers, grounded on
// the teacher's server/hub.go (h *Hub) run().
func (h *Hub) run() {
	updateTicker := time.NewTicker(tickPeriod)
	defer updateTicker.Stop()
	leaderboardTicker := time.NewTicker(2 * time.Second)
	defer leaderboardTicker.Stop()
	botsTicker := time.NewTicker(time.Second)
	defer botsTicker.Stop()

	for {
		select {
		case client := <-h.register:
			h.clients.Add(client)
			client.Init()

		case client := <-h.unregister:
			if client.Data().Previous != nil || client.Data().Next != nil || h.clients.First == client {
				h.clients.Remove(client)
			}
			h.despawn.Add(client)
			client.Close()

		case signed := <-h.inbound:
			h.applyCommand(signed.client, signed.command)

		case <-updateTicker.C:
			h.world.Tick(units.ToTicks(1.0/tickRate), h.clients.Len)
			h.despawnDisconnected()
			h.broadcastUpdates()

		case <-leaderboardTicker.C:
			h.broadcastLeaderboard()

		case <-botsTicker.C:
			h.maintainBots()
		}
	}
}

// despawnDisconnected removes the boats (and, after limbo, the players) of
// clients that have left the Hub's active list, grounded on the teacher's
// server/despawn.go Despawn.
func (h *Hub) despawnDisconnected() {
	for c := h.despawn.First; c != nil; {
		data := c.Data()
		p := data.Player
		if p.Status == world.PlayerStatusAlive {
			h.world.Entities().RemoveByID(p.EntityID)
			p.Die(world.DeathByUnknown())
		}
		p.DeathTicks++

		next := data.Next
		if p.LimboExpired() {
			h.leaveTeam(p)
			h.despawn.Remove(c)
		}
		c = next
	}
}

// broadcastUpdates builds and sends one protocol.Update per connected
// client, grounded on the teacher's server/update.go updateClient loop.
func (h *Hub) broadcastUpdates() {
	for c := h.clients.First; c != nil; c = c.Data().Next {
		data := c.Data()
		p := data.Player

		out := protocol.NewUpdate()
		out.PlayerID = p.ID()
		out.Score = p.Score
		out.WorldRadius = h.world.Radius

		if p.Status == world.PlayerStatusAlive {
			h.world.Entities().Get(p.EntityID, func(e *world.Entity) bool {
				out.EntityID = e.EntityID
				for _, contact := range world.BuildView(e, h.world.Entities(), h.world.CurrentTick()) {
					out.Contacts = append(out.Contacts, protocol.ContactFrom(contact, p))
				}

				pos, visual, radar, sonar := e.Camera()
				reach := visual
				if radar > reach {
					reach = radar
				}
				if sonar > reach {
					reach = sonar
				}
				camera := units.AABBFrom(pos.X, pos.Y, reach*2, reach*2)
				if data.TerrainView == nil {
					data.TerrainView = terrain.NewClientView()
				}
				visible := terrain.VisibleChunks(camera)
				for _, chunk := range h.terrainGen.Update(data.TerrainView, visible) {
					out.Terrain = append(out.Terrain, protocol.TerrainChunk{
						ID:    chunk.ID,
						Full:  chunk.Full,
						Delta: chunk.Delta,
					})
				}
				return false
			})
		} else if p.Status == world.PlayerStatusDead && p.DeathTicks == 0 {
			out.DeathMessage = p.DeathReason.Message()
			p.DeathTicks = 1
		}

		if data.ChatCursor < len(h.chats) {
			out.Chats = append(out.Chats, h.chats[data.ChatCursor:]...)
			data.ChatCursor = len(h.chats)
		}

		if team, ok := h.teams[p.TeamID]; ok {
			out.TeamCode = team.Code
			if data.TeamChatCursor < len(team.Chats) {
				out.TeamChats = append(out.TeamChats, team.Chats[data.TeamChatCursor:]...)
				data.TeamChatCursor = len(team.Chats)
			}
			for _, m := range team.Members {
				out.TeamMembers = append(out.TeamMembers, protocol.TeamMember{PlayerID: m.ID(), Name: m.Name, Score: m.Score})
			}
			if team.Owner() == p {
				for _, m := range team.JoinRequests {
					out.TeamRequests = append(out.TeamRequests, protocol.TeamMember{PlayerID: m.ID(), Name: m.Name, Score: m.Score})
				}
			}
		}

		c.Send(out)
	}
	h.terrainGen.ClearUpdated()
}

// broadcastLeaderboard sends every client the current top 10 by score,
// simplified relative to the teacher's server/leaderboard.go
// topPlayersHeap/topPlayersInsert split: with at most ten entries kept, a
// direct sort.Slice of all connected players is cheap regardless of player
// count, so the two-strategy dispatch isn't needed here.
func (h *Hub) broadcastLeaderboard() {
	players := make([]*world.Player, 0, h.clients.Len)
	for c := h.clients.First; c != nil; c = c.Data().Next {
		players = append(players, c.Data().Player)
	}
	sort.Slice(players, func(i, j int) bool { return players[i].PlayerData.ScoreLess(&players[j].PlayerData) })
	if len(players) > 10 {
		players = players[:10]
	}

	entries := make([]protocol.LeaderboardEntry, len(players))
	for i, p := range players {
		entries[i] = protocol.LeaderboardEntry{PlayerID: p.ID(), Name: p.Name, Score: p.Score}
	}
	out := protocol.Leaderboard{Entries: entries}
	for c := h.clients.First; c != nil; c = c.Data().Next {
		c.Send(out)
	}
}

// maintainBots tops the player count up to h.minPlayers with BotClients,
// grounded on the teacher's server/hub.go botsTicker handling.
func (h *Hub) maintainBots() {
	for h.clients.Len < h.minPlayers {
		bot := NewBotClient(h)
		h.clients.Add(bot)
		bot.Init()
	}
}

// leaveTeam removes p from its team, disbanding the team if it was the
// owner, grounded on the teacher's server/hub.go leaveTeam.
func (h *Hub) leaveTeam(p *world.Player) {
	team, ok := h.teams[p.TeamID]
	if !ok {
		return
	}
	team.JoinRequests.Remove(p)
	if team.Owner() == p {
		for _, m := range team.Members {
			m.TeamID = world.TeamIDInvalid
		}
		delete(h.teams, p.TeamID)
	} else {
		team.Members.Remove(p)
		p.TeamID = world.TeamIDInvalid
	}
}

// clearTeamRequests drops every join request p has made or received,
// grounded on the teacher's server/hub.go clearTeamRequests.
func (h *Hub) clearTeamRequests(p *world.Player) {
	for _, team := range h.teams {
		team.JoinRequests.Remove(p)
	}
}
