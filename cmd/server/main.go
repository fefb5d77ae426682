// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

// Command server is a thin demonstration transport for the naval-combat
// simulation core: a single WebSocket endpoint wired straight into one
// Hub. It takes on none of the auth/TLS/persistence concerns spec.md
// section 1 scopes out of the core; a production deployment would put a
// reverse proxy and real authentication in front of this process.
package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
)

func (h *Hub) serveWs(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("upgrade error:", err)
		return
	}
	h.register <- NewSocketClient(conn)
}

func main() {
	var (
		port    int
		players int
	)

	flag.IntVar(&port, "port", 8192, "http service port")
	flag.IntVar(&players, "players", 40, "minimum number of players, topped up with bots")
	flag.Parse()

	if players < 0 {
		log.Fatal("invalid argument players: ", players)
	}

	hub := newHub(players)
	go hub.run()

	http.HandleFunc("/ws", hub.serveWs)
	log.Fatal(http.ListenAndServe(fmt.Sprint(":", port), nil))
}
