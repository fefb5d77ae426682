// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package protocol implements the wire format spec.md section 6.1
// describes: the inbound Command vocabulary (Control, Spawn, Upgrade, plus
// team/chat commands), the outbound Update message, and the two encodings
// (self-describing text and compact binary). Nothing here chooses an
// encoding per connection; cmd/server's SocketClient uses only the text
// encoding.
//
// Grounded on the teacher's server/message.go reflect-based registration
// scheme: every concrete inbound/outbound type self-registers under a
// lowercased type name in an init() func, and a small envelope (codec.go's
// textEnvelope) carries that name alongside the payload on the wire.
package protocol

import (
	"reflect"
	"unicode"
	"unicode/utf8"
)

// messageType is the lowercased type name used as the wire discriminator,
// e.g. "control", "spawn", "update".
type messageType string

// Inbound is a command a client sends to the server.
type Inbound interface {
	inbound()
}

// Outbound is a message the server sends to a client.
type Outbound interface {
	outbound()
}

var (
	inboundMessageTypes = map[messageType]reflect.Type{}
	outboundTypeNames   = map[reflect.Type]messageType{}
)

// registerInbound installs each sample value's concrete type under its
// lowercased type name. Call once per type from an init() func.
func registerInbound(samples ...Inbound) {
	for _, sample := range samples {
		t := reflect.TypeOf(sample)
		name := messageType(uncapitalize(t.Name()))
		inboundMessageTypes[name] = t
	}
}

// registerOutbound mirrors registerInbound for server->client messages.
// Outbound samples are passed as pointers since every concrete Outbound type
// here is marshaled by reference (Update in particular is pooled).
func registerOutbound(samples ...Outbound) {
	for _, sample := range samples {
		t := reflect.TypeOf(sample)
		if t.Kind() == reflect.Ptr {
			t = t.Elem()
		}
		name := messageType(uncapitalize(t.Name()))
		outboundTypeNames[t] = name
	}
}

// uncapitalize lowercases the first rune of s, e.g. "Spawn" -> "spawn".
func uncapitalize(s string) string {
	if s == "" {
		return s
	}
	r, n := utf8.DecodeRuneInString(s)
	return string(unicode.ToLower(r)) + s[n:]
}
