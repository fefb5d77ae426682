// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/flotwake/server/protocol"
)

// pooler is implemented by Outbound types that recycle a backing
// allocation (currently only *protocol.Update); others are left to the
// garbage collector, matching the teacher's server/message.go scheme of
// calling out.Pool() unconditionally (there, every outbound type defines
// Pool, even as a no-op).
type pooler interface {
	Pool()
}

func poolOutbound(out protocol.Outbound) {
	if p, ok := out.(pooler); ok {
		p.Pool()
	}
}

const (
	writeWait = 5 * time.Second

	pongWait = 60 * time.Second

	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // TODO: restrict to the configured origin once one exists
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// SocketClient is a middleman between one websocket connection and the
// Hub, grounded on the teacher's server/socket_client.go.
type SocketClient struct {
	ClientData
	conn *websocket.Conn
	send chan protocol.Outbound
	once sync.Once
}

func NewSocketClient(conn *websocket.Conn) *SocketClient {
	return &SocketClient{
		conn: conn,
		send: make(chan protocol.Outbound, 16),
	}
}

func (client *SocketClient) Close() {
	close(client.send)
}

func (client *SocketClient) Data() *ClientData {
	return &client.ClientData
}

func (client *SocketClient) Destroy() {
	client.once.Do(func() {
		hub := client.Hub
		select {
		case hub.unregister <- client:
		default:
			go func() { hub.unregister <- client }()
		}
		_ = client.conn.Close()
	})
}

func (client *SocketClient) Init() {
	go client.writePump()
	go client.readPump()
}

func (client *SocketClient) Send(message protocol.Outbound) {
	select {
	case client.send <- message:
	default:
		// Not responsive; destroy rather than let the channel buffer unbounded.
		client.Destroy()
	}
}

func (client *SocketClient) readPump() {
	defer client.Destroy()
	client.conn.SetReadLimit(maxMessageSize)
	_ = client.conn.SetReadDeadline(time.Now().Add(pongWait))
	client.conn.SetPongHandler(func(string) error {
		_ = client.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, r, err := client.conn.NextReader()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Println("close error:", err)
			}
			break
		}

		b, err := io.ReadAll(r)
		if err != nil {
			log.Println("read error:", err)
			break
		}

		cmd, err := protocol.DecodeText(b)
		if err != nil {
			log.Println("decode error:", err)
			break
		}

		if invalid, ok := cmd.(protocol.InvalidCommand); ok {
			log.Println("invalid message type received:", invalid)
			continue
		}

		client.Hub.inbound <- signedInbound{client: client, command: cmd}
	}
}

func (client *SocketClient) writePump() {
	pingTicker := time.NewTicker(pingPeriod)

	defer func() {
		if err := recover(); err != nil {
			log.Println("send error:", err)
		}
		pingTicker.Stop()
		client.Destroy()
	}()

	for {
		select {
		case out, ok := <-client.send:
			_ = client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = client.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}

			b, err := protocol.EncodeText(out)
			poolOutbound(out)
			if err != nil {
				log.Println("encoding error:", err)
				panic(err)
			}
			if err := client.conn.WriteMessage(websocket.TextMessage, b); err != nil {
				panic(err)
			}

		case <-pingTicker.C:
			_ = client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
