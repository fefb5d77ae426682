// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package world

import "sort"

// MutationKind tags a deferred world mutation (spec.md section 4.7).
type MutationKind uint8

const (
	MutationScore MutationKind = iota
	MutationDamage
	MutationReload
	MutationClearSpawnProtection
	MutationApplyTerrainAltitude
	MutationRemove
)

// priority orders mutation kinds within a target group: lower applies
// first. Spec.md section 4.7: "Score -> Damage -> Upgrade -> Reload ->
// Remove". ClearSpawnProtection/ApplyTerrainAltitude are not named
// explicitly in that ordering but logically belong alongside Reload
// (state tweaks that should survive a same-tick Damage but still be
// preempted by Remove). Upgrade and firing an armament are not deferred
// Mutations here: both happen synchronously off an inbound command
// (World.UpgradeEntity, World.FireArmament), the same way the teacher's
// server/inbound.go Upgrade.Inbound/Fire.Inbound mutate the live World
// directly rather than waiting for the next phase boundary.
func (k MutationKind) priority() int {
	switch k {
	case MutationScore:
		return 0
	case MutationDamage:
		return 1
	case MutationReload, MutationClearSpawnProtection, MutationApplyTerrainAltitude:
		return 2
	case MutationRemove:
		return 3
	default:
		return 2
	}
}

// Mutation is one deferred write against a single target entity, collision
// never applies outcomes directly (spec.md section 4.4 "Resolution").
type Mutation struct {
	Target EntityID
	Kind   MutationKind

	Amount float32     // Damage delta, or Score delta
	Slot   int         // Reload
	Reason DeathReason // Remove, or Damage's cause if it proves lethal
}

// MutationQueue accumulates Mutations during a phase for draining at the
// phase boundary (spec.md section 4.2/4.7).
type MutationQueue struct {
	items []Mutation
}

func (q *MutationQueue) Push(m Mutation) {
	q.items = append(q.items, m)
}

func (q *MutationQueue) Damage(target EntityID, amount float32) {
	q.Push(Mutation{Target: target, Kind: MutationDamage, Amount: amount})
}

// DamageWithCause is Damage, tagged with the DeathReason to use if this
// particular damage is what pushes the target over its max health and no
// other Mutation in the same group already supplies one (spec.md section
// 4.4's Boat x Terrain/Border outcomes: lethal accumulated damage, not an
// explicit Remove, so the reason has to travel with the Damage itself).
func (q *MutationQueue) DamageWithCause(target EntityID, amount float32, cause DeathReason) {
	q.Push(Mutation{Target: target, Kind: MutationDamage, Amount: amount, Reason: cause})
}

func (q *MutationQueue) Score(target EntityID, amount float32) {
	q.Push(Mutation{Target: target, Kind: MutationScore, Amount: amount})
}

func (q *MutationQueue) Remove(target EntityID, reason DeathReason) {
	q.Push(Mutation{Target: target, Kind: MutationRemove, Reason: reason})
}

// Grouped returns the queue's contents as target-ordered groups, each
// internally sorted by mutation priority, per spec.md section 4.7:
// "Group by target_index. Within a group, apply in fixed priority order."
func (q *MutationQueue) Grouped() [][]Mutation {
	sort.SliceStable(q.items, func(i, j int) bool {
		a, b := q.items[i], q.items[j]
		if a.Target != b.Target {
			return a.Target < b.Target
		}
		return a.Kind.priority() < b.Kind.priority()
	})

	var groups [][]Mutation
	for i := 0; i < len(q.items); {
		j := i + 1
		for j < len(q.items) && q.items[j].Target == q.items[i].Target {
			j++
		}
		groups = append(groups, q.items[i:j])
		i = j
	}
	return groups
}

// Reset empties the queue for reuse next tick.
func (q *MutationQueue) Reset() {
	q.items = q.items[:0]
}

// winningRemoveReason picks among multiple Remove mutations targeting the
// same entity in the same group: a player-caused reason outranks a natural
// one, and otherwise the earliest Remove in arrival order wins. The Remove
// mutations enqueued in this package carry no damage amount, so damage does
// not decide between two player-caused reasons. group must already be
// sorted by priority (Removes are last, in arrival order).
func winningRemoveReason(group []Mutation) (DeathReason, bool) {
	var (
		best    DeathReason
		bestDmg float32
		found   bool
	)
	for _, m := range group {
		if m.Kind != MutationRemove {
			continue
		}
		if !found || m.Reason.betterThan(best) || (m.Reason.Kind == best.Kind && m.Amount > bestDmg) {
			best, bestDmg, found = m.Reason, m.Amount, true
		}
	}
	return best, found
}
