// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"math/rand"
	"time"

	"github.com/chewxy/math32"

	"github.com/flotwake/server/protocol"
	"github.com/flotwake/server/units"
	"github.com/flotwake/server/world"
)

// BotClient is a colocated, in-process Client that plays the game via the
// same Hub.inbound channel a real connection uses, grounded on the
// teacher's server/bot_client.go.
type BotClient struct {
	ClientData
	destination     units.Vec2f
	aggression      float32 // likelihood of firing when given a chance
	levelAmbition   uint8   // max level the bot will try to upgrade to
	destroying      bool
	lastTeamRequest time.Time
}

// target tracks the nearest interesting contact found so far during one
// Send pass, mirroring the teacher's bot_client.go Target.
type target struct {
	contact         *protocol.IDContact
	distanceSquared float32
}

func (t *target) consider(c *protocol.IDContact, distanceSquared float32) {
	if t.contact == nil || distanceSquared < t.distanceSquared {
		t.contact = c
		t.distanceSquared = distanceSquared
	}
}

func (t *target) found() bool { return t.contact != nil }

// NewBotClient creates an unregistered bot bound to hub.
func NewBotClient(hub *Hub) *BotClient {
	bot := &BotClient{}
	bot.Player = world.NewPlayer("", true)
	bot.Hub = hub
	return bot
}

func (bot *BotClient) Close() {}

func (bot *BotClient) Data() *ClientData { return &bot.ClientData }

func (bot *BotClient) Destroy() {
	if bot.destroying {
		return
	}
	bot.destroying = true
	select {
	case bot.Hub.unregister <- bot:
	default:
		go func() { bot.Hub.unregister <- bot }()
	}
}

func (bot *BotClient) Init() {
	bot.aggression = square(rand.Float32())
	bot.levelAmbition = uint8(rand.Intn(9) + 1)
	bot.spawn()
}

// Send is the bot's entire decision loop, run once per protocol.Update it
// receives, grounded on the teacher's server/bot_client.go Send.
func (bot *BotClient) Send(out protocol.Outbound) {
	defer poolOutbound(out)
	if bot.destroying {
		return
	}

	update, ok := out.(*protocol.Update)
	if !ok {
		return
	}

	p := bot.Player

	if update.EntityID == world.EntityIDInvalid {
		if prob(0.25) {
			bot.Destroy()
		} else {
			if prob(0.5) {
				bot.receiveAsync(protocol.RemoveFromTeam{PlayerID: update.PlayerID})
			}
			bot.spawn()
		}
		return
	}

	var ship protocol.Contact
	for i := range update.Contacts {
		if update.Contacts[i].EntityID == update.EntityID {
			ship = update.Contacts[i].Contact
			break
		}
	}
	if ship.EntityType == world.EntityTypeInvalid {
		return
	}
	shipData := ship.EntityType.Data()

	if prob(1e-4) {
		if p.TeamID == world.TeamIDInvalid {
			bot.receiveAsync(protocol.CreateTeam{Name: randomTeamName()})
		} else if prob(0.5) {
			bot.receiveAsync(protocol.RemoveFromTeam{PlayerID: update.PlayerID})
		}
	}

	for _, req := range update.TeamRequests {
		diff := float64(p.Score - req.Score)
		if prob(1.0 / (50.0 + diff*diff*0.05)) {
			bot.receiveAsync(protocol.AddToTeam{PlayerID: req.PlayerID})
		}
	}

	var closestEnemy, closestCollectible, closestHazard target
	for i := range update.Contacts {
		c := &update.Contacts[i]
		if c.EntityID == update.EntityID || c.Contact.Friendly || c.EntityType == world.EntityTypeInvalid {
			continue
		}
		distSq := ship.Position.DistanceSquared(c.Position)
		contactData := c.EntityType.Data()

		if contactData.Kind == world.EntityKindBoat {
			closestEnemy.consider(c, distSq)
		}
		if contactData.Kind == world.EntityKindCollectible {
			closestCollectible.consider(c, distSq)
		} else if !(contactData.Kind == world.EntityKindBoat && shipData.SubKind == world.EntitySubKindHovercraft) {
			closestHazard.consider(c, distSq)
		}
	}

	if bot.destination == (units.Vec2f{}) || ship.Position.DistanceSquared(bot.destination) < 100*100 {
		bot.destination = units.ToAngle(rand.Float32() * math32.Pi * 2).Vec2f().Mul(update.WorldRadius * 0.9)
	}

	guidance := units.Guidance{
		VelocityTarget:  units.ToVelocity(10),
		DirectionTarget: bot.destination.Sub(ship.Position).Angle(),
	}
	control := protocol.Control{Guidance: &guidance}

	if shipData.SubKind == world.EntitySubKindSubmarine {
		altitudeTarget := float32(-1)
		control.AltitudeTarget = &altitudeTarget
	}

	if closestCollectible.found() {
		guidance.VelocityTarget = units.ToVelocity(20)
		guidance.DirectionTarget = closestCollectible.contact.Position.Sub(ship.Position).Angle()
	}

	if closestEnemy.found() && closestEnemy.distanceSquared < 2*closestCollectible.distanceSquared {
		enemy := closestEnemy.contact
		enemyAngle := enemy.Position.Sub(ship.Position).Angle()

		guidance.VelocityTarget = enemy.Velocity + units.ToVelocity(10)
		guidance.DirectionTarget = enemyAngle

		hint := enemy.Position
		control.Hint = &hint

		if prob(float64(bot.aggression)) {
			bestSlot := -1
			bestDiff := float32(math32.MaxFloat32)
			for i, arm := range shipData.Armaments {
				if arm.Default.Data().Kind != world.EntityKindWeapon {
					continue
				}
				if i < len(ship.Reloads) && ship.Reloads[i] != 0 {
					continue
				}
				diff := enemyAngle.Diff(arm.Angle + ship.Direction).Abs()
				if diff < bestDiff {
					bestSlot, bestDiff = i, diff
				}
			}
			if bestSlot != -1 && closestEnemy.distanceSquared < square(4*shipData.Length) && bestDiff < math32.Pi/3 {
				control.Fire = &bestSlot
			}
		}
	}

	if hazard := closestHazard; hazard.found() && hazard.distanceSquared < square(hazard.contact.EntityType.Data().Length+shipData.Length*2) {
		guidance.VelocityTarget = units.ToVelocity(10)
		guidance.DirectionTarget = hazard.contact.Position.Sub(ship.Position).Angle().Inv()
	} else if shipData.Level < bot.levelAmbition {
		if paths := ship.EntityType.UpgradePaths(p.Score); len(paths) > 0 {
			bot.receiveAsync(protocol.Upgrade{EntityType: paths[rand.Intn(len(paths))]})
		}
	}

	bot.receiveAsync(control)
}

func (bot *BotClient) receiveAsync(cmd protocol.Inbound) {
	select {
	case bot.Hub.inbound <- signedInbound{client: bot, command: cmd}:
	default:
	}
}

func (bot *BotClient) spawn() {
	name := bot.Player.Name
	if name == "" {
		name = randomBotName()
	}
	types := world.SpawnableEntityTypes()
	if len(types) == 0 {
		return
	}
	bot.receiveAsync(protocol.Spawn{Alias: name, EntityType: types[rand.Intn(len(types))]})
}

func prob(p float64) bool { return rand.Float64() < p }

func square(f float32) float32 { return f * f }

var botNames = [...]string{"Ahab", "Drake", "Nemo", "Rogers", "Halsey", "Farragut", "Cook", "Magellan"}

func randomBotName() string {
	return botNames[rand.Intn(len(botNames))]
}

func randomTeamName() string {
	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	b := make([]byte, 4)
	for i := range b {
		b[i] = letters[rand.Intn(len(letters))]
	}
	return string(b)
}
