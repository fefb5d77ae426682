// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package protocol

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"sync"
	"unsafe"

	jsoniter "github.com/json-iterator/go"

	"github.com/flotwake/server/units"
	"github.com/flotwake/server/world"
)

// textAPI is the jsoniter configuration used for the self-describing text
// encoding of spec.md section 6.1. Unlike the teacher's server/jsoniter.go,
// most of our fixed-point types (units.Angle, units.Velocity, units.Tick,
// units.Altitude) already implement json.Marshaler/Unmarshaler directly, and
// world.EntityID/EntityType/PlayerID/TeamID implement
// encoding.TextMarshaler/TextUnmarshaler — jsoniter honors both
// automatically, so only the Contacts-as-map field shape needs a registered
// custom encoder here.
var textAPI = func() jsoniter.API {
	jsoniter.RegisterFieldEncoderFunc(reflect.TypeOf(Update{}).String(), "Contacts", encodeContactsAsMap, neverEmptyContacts)

	return jsoniter.Config{
		EscapeHTML:                    false,
		SortMapKeys:                   true,
		ObjectFieldMustBeSimpleString: true,
	}.Froze()
}()

func neverEmptyContacts(unsafe.Pointer) bool { return false }

var sortedContactsPool = sync.Pool{
	New: func() interface{} {
		s := make([]*IDContact, 0, poolContactsCap)
		return &s
	},
}

// encodeContactsAsMap marshals Update.Contacts as a JSON object keyed by hex
// EntityID rather than an array, matching spec.md section 6.1's per-id
// contact map and the teacher's server/jsoniter.go encodeUpdateContacts.
func encodeContactsAsMap(ptr unsafe.Pointer, stream *jsoniter.Stream) {
	contacts := *(*[]IDContact)(ptr)

	sortedPtr := sortedContactsPool.Get().(*[]*IDContact)
	sorted := *sortedPtr
	for i := range contacts {
		sorted = append(sorted, &contacts[i])
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].EntityID < sorted[j].EntityID })

	stream.WriteObjectStart()
	for i, c := range sorted {
		if i > 0 {
			stream.WriteMore()
		}
		stream.SetBuffer(append(c.EntityID.AppendText(append(stream.Buffer(), '"')), '"', ':'))
		stream.WriteVal(&c.Contact)
	}
	stream.WriteObjectEnd()

	for i := range sorted {
		sorted[i] = nil
	}
	*sortedPtr = sorted[:0]
	sortedContactsPool.Put(sortedPtr)
}

// textEnvelope is the wire shape every text message travels in: a lowercase
// type discriminator alongside its payload.
type textEnvelope struct {
	Type messageType     `json:"type"`
	Data json.RawMessage `json:"data"`
}

// EncodeText marshals an Outbound message into its self-describing text
// form.
func EncodeText(msg Outbound) ([]byte, error) {
	t := reflect.TypeOf(msg)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	name, ok := outboundTypeNames[t]
	if !ok {
		return nil, fmt.Errorf("protocol: %s is not a registered outbound type", t)
	}
	data, err := textAPI.Marshal(msg)
	if err != nil {
		return nil, err
	}
	return textAPI.Marshal(textEnvelope{Type: name, Data: data})
}

// DecodeText unmarshals one inbound Command from its self-describing text
// form. An unrecognized "type" yields InvalidCommand rather than an error,
// so a stale client degrades gracefully instead of being disconnected
// (spec.md section 4.8: "failures are surfaced ... without disconnecting").
func DecodeText(b []byte) (Inbound, error) {
	var env textEnvelope
	if err := textAPI.Unmarshal(b, &env); err != nil {
		return nil, err
	}
	t, ok := inboundMessageTypes[env.Type]
	if !ok {
		return InvalidCommand{messageType: env.Type}, nil
	}
	v := reflect.New(t)
	if len(env.Data) > 0 {
		if err := textAPI.Unmarshal(env.Data, v.Interface()); err != nil {
			return nil, err
		}
	}
	return v.Elem().Interface().(Inbound), nil
}

// Binary encoding (spec.md section 6.1's second, compact encoding). The
// teacher never implemented one (text-only via jsoniter); this is grounded
// directly in the fixed-width MarshalBinary/UnmarshalBinary methods
// units.Angle/Velocity/Tick/Altitude already define for exactly this
// purpose. Binary support is scoped to the bandwidth-sensitive, every-tick
// pair (inbound Control, outbound Update): the supplementary, low-frequency
// commands (Spawn, Upgrade, team/chat, Trace) and Leaderboard are
// text-only, since compact encoding buys nothing for messages sent a
// handful of times per connection.
const (
	binaryControl byte = 1
	binaryUpdate  byte = 1
)

const (
	flagGuidance byte = 1 << iota
	flagAltitudeTarget
	flagFire
	flagPay
	flagHint
	flagActivePresent
	flagActiveValue
)

// EncodeBinaryControl writes c in the compact wire form.
func EncodeBinaryControl(c Control) []byte {
	var buf bytes.Buffer
	buf.WriteByte(binaryControl)

	var flags byte
	if c.Guidance != nil {
		flags |= flagGuidance
	}
	if c.AltitudeTarget != nil {
		flags |= flagAltitudeTarget
	}
	if c.Fire != nil {
		flags |= flagFire
	}
	if c.Pay != nil {
		flags |= flagPay
	}
	if c.Hint != nil {
		flags |= flagHint
	}
	if c.Active != nil {
		flags |= flagActivePresent
		if *c.Active {
			flags |= flagActiveValue
		}
	}
	buf.WriteByte(flags)

	if c.Guidance != nil {
		writeBinary(&buf, c.Guidance.DirectionTarget)
		writeBinary(&buf, c.Guidance.VelocityTarget)
	}
	if c.AltitudeTarget != nil {
		writeFloat32(&buf, *c.AltitudeTarget)
	}
	if c.Fire != nil {
		buf.WriteByte(byte(*c.Fire))
	}
	if c.Pay != nil {
		buf.WriteByte(byte(*c.Pay))
	}
	if c.Hint != nil {
		writeFloat32(&buf, c.Hint.X)
		writeFloat32(&buf, c.Hint.Y)
	}
	return buf.Bytes()
}

// DecodeBinaryCommand reads one inbound Command from its compact wire form.
// Only Control currently has a binary encoding; any other leading tag byte
// is rejected rather than silently misparsed.
func DecodeBinaryCommand(b []byte) (Inbound, error) {
	if len(b) < 2 || b[0] != binaryControl {
		return nil, fmt.Errorf("protocol: unsupported binary command tag")
	}
	flags := b[1]
	r := bytes.NewReader(b[2:])

	var c Control
	if flags&flagGuidance != 0 {
		var g units.Guidance
		if err := readBinary(r, &g.DirectionTarget); err != nil {
			return nil, err
		}
		if err := readBinary(r, &g.VelocityTarget); err != nil {
			return nil, err
		}
		c.Guidance = &g
	}
	if flags&flagAltitudeTarget != 0 {
		f, err := readFloat32(r)
		if err != nil {
			return nil, err
		}
		c.AltitudeTarget = &f
	}
	if flags&flagFire != 0 {
		slot, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		s := int(slot)
		c.Fire = &s
	}
	if flags&flagPay != 0 {
		slot, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		s := int(slot)
		c.Pay = &s
	}
	if flags&flagHint != 0 {
		x, err := readFloat32(r)
		if err != nil {
			return nil, err
		}
		y, err := readFloat32(r)
		if err != nil {
			return nil, err
		}
		c.Hint = &units.Vec2f{X: x, Y: y}
	}
	if flags&flagActivePresent != 0 {
		active := flags&flagActiveValue != 0
		c.Active = &active
	}
	return c, nil
}

// binaryMarshaler is satisfied by every units fixed-point type.
type binaryMarshaler interface {
	MarshalBinary() ([]byte, error)
}

type binaryUnmarshaler interface {
	UnmarshalBinary([]byte) error
}

func writeBinary(buf *bytes.Buffer, v binaryMarshaler) {
	b, _ := v.MarshalBinary()
	buf.Write(b)
}

func writeFloat32(buf *bytes.Buffer, f float32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], math.Float32bits(f))
	buf.Write(b[:])
}

func readBinary(r *bytes.Reader, v binaryUnmarshaler) error {
	size := binarySize(v)
	b := make([]byte, size)
	if _, err := r.Read(b); err != nil {
		return err
	}
	return v.UnmarshalBinary(b)
}

// binarySize returns the fixed wire width of a units type's
// MarshalBinary/UnmarshalBinary encoding.
func binarySize(v binaryUnmarshaler) int {
	switch v.(type) {
	case *units.Angle, *units.Velocity, *units.Tick:
		return 2
	case *units.Altitude:
		return 1
	default:
		return 0
	}
}

func readFloat32(r *bytes.Reader) (float32, error) {
	var b [4]byte
	if _, err := r.Read(b[:]); err != nil {
		return 0, err
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(b[:])), nil
}

// EncodeBinaryUpdate writes the bandwidth-sensitive portion of u (contacts,
// entity id, score, world radius) in compact little-endian form, per
// spec.md section 6.1. Chat/terrain/team fields are omitted: they're
// infrequent enough that binary encoding them buys nothing, so a binary-mode
// connection still receives those over the text channel (cmd/server's
// concern, not this codec's).
func EncodeBinaryUpdate(u *Update) []byte {
	var buf bytes.Buffer
	buf.WriteByte(binaryUpdate)

	var idBuf [4]byte
	binary.LittleEndian.PutUint32(idBuf[:], uint32(u.EntityID))
	buf.Write(idBuf[:])

	var scoreBuf [4]byte
	binary.LittleEndian.PutUint32(scoreBuf[:], uint32(int32(u.Score)))
	buf.Write(scoreBuf[:])

	writeFloat32(&buf, u.WorldRadius)

	var countBuf [2]byte
	binary.LittleEndian.PutUint16(countBuf[:], uint16(len(u.Contacts)))
	buf.Write(countBuf[:])

	for _, c := range u.Contacts {
		encodeBinaryContact(&buf, c)
	}
	return buf.Bytes()
}

func encodeBinaryContact(buf *bytes.Buffer, c IDContact) {
	var idBuf [4]byte
	binary.LittleEndian.PutUint32(idBuf[:], uint32(c.EntityID))
	buf.Write(idBuf[:])

	hasType := c.EntityType != world.EntityTypeInvalid
	var flags byte
	if hasType {
		flags |= 1
	}
	if c.Damage != 0 || len(c.TurretAngles) > 0 {
		flags |= 2
	}
	if c.PlayerID != world.PlayerIDInvalid {
		flags |= 4
		if c.Friendly {
			flags |= 8
		}
	}
	buf.WriteByte(flags)

	if hasType {
		var tBuf [2]byte
		binary.LittleEndian.PutUint16(tBuf[:], uint16(c.EntityType))
		buf.Write(tBuf[:])
	}

	writeFloat32(buf, c.Transform.Position.X)
	writeFloat32(buf, c.Transform.Position.Y)
	writeBinary(buf, c.Transform.Direction)
	writeBinary(buf, c.Transform.Velocity)
	writeFloat32(buf, c.Altitude)

	if flags&2 != 0 {
		writeFloat32(buf, c.Damage)
		buf.WriteByte(byte(len(c.TurretAngles)))
		for _, a := range c.TurretAngles {
			writeBinary(buf, a)
		}
	}

	if flags&4 != 0 {
		var pBuf [4]byte
		binary.LittleEndian.PutUint32(pBuf[:], uint32(c.PlayerID))
		buf.Write(pBuf[:])
	}

	buf.WriteByte(byte(len(c.Reloads)))
	for _, tick := range c.Reloads {
		writeBinary(buf, tick)
	}
}
