// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"github.com/flotwake/server/protocol"
	"github.com/flotwake/server/terrain"
	"github.com/flotwake/server/world"
)

type (
	// Client is an actor on the Hub: a real connection (SocketClient) or a
	// colocated bot (BotClient). Grounded on the teacher's server/client.go
	// Client interface.
	Client interface {
		// Close closes additional resources. Always called by the hub
		// goroutine.
		Close()

		// Data exposes the doubly-linked-list membership and player state
		// every Client carries.
		Data() *ClientData

		// Destroy triggers client destruction. Only the Client itself calls
		// this (from its own goroutine, for a SocketClient).
		Destroy()

		// Init runs once the hub has registered the client.
		Init()

		// Send delivers one outbound message. Implementations must call
		// out.Pool() once finished with it (SocketClient defers it past
		// encoding; BotClient pools immediately).
		Send(out protocol.Outbound)
	}

	// ClientData is the state every Client shares, matching the teacher's
	// server/client.go ClientData. TerrainView tracks which chunks this
	// client has already received, per spec.md section 6.3. ChatCursor/
	// TeamChatCursor track how many of Hub.chats/Team.Chats this client has
	// already been sent, so broadcastUpdates only ships new lines.
	ClientData struct {
		Player         *world.Player
		Hub            *Hub
		TerrainView    *terrain.ClientView
		ChatCursor     int
		TeamChatCursor int
		Previous       Client
		Next           Client
	}

	// ClientList is a doubly-linked list of Clients, grounded on the
	// teacher's server/client.go ClientList (avoids a map's O(1)-amortized
	// overhead for a structure walked in full every tick).
	ClientList struct {
		First Client
		Last  Client
		Len   int
	}
)

// Add adds a Client to the list.
func (list *ClientList) Add(client Client) {
	data := client.Data()
	if data.Previous != nil || data.Next != nil {
		panic("client already added")
	}

	if list.First == nil {
		list.First = client
	} else {
		list.Last.Data().Next = client
		data.Previous = list.Last
	}

	list.Last = client
	list.Len++
}

// Remove removes a Client from the list and returns the next element, so a
// full-list removal sweep can be written as
// `for c := list.First; c != nil; c = list.Remove(c) {}`.
func (list *ClientList) Remove(client Client) (next Client) {
	data := client.Data()

	if data.Previous != nil {
		data.Previous.Data().Next = data.Next
	} else if list.First == client {
		list.First = data.Next
	} else {
		panic("client already removed")
	}

	if data.Next != nil {
		data.Next.Data().Previous = data.Previous
	} else if list.Last == client {
		list.Last = data.Previous
	} else {
		panic("client already removed")
	}

	list.Len--
	next = data.Next
	data.Next = nil
	data.Previous = nil
	return next
}
