package wire

import (
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Envelope is the outer frame carried by every datagram: a type
// discriminator, the originating/target player id, an opaque payload
// encoded separately, and a timestamp. On the wire it is a MessagePack
// array in that exact order rather than a map, keeping the framing
// constant-size regardless of field name lengths.
type Envelope struct {
	Type      MessageType
	PlayerID  string
	Data      []byte
	Timestamp time.Time
}

var (
	_ msgpack.CustomEncoder = Envelope{}
	_ msgpack.CustomDecoder = (*Envelope)(nil)
)

// EncodeMsgpack implements msgpack.CustomEncoder.
func (e Envelope) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeArrayLen(4); err != nil {
		return err
	}
	if err := enc.EncodeString(string(e.Type)); err != nil {
		return err
	}
	if err := enc.EncodeString(e.PlayerID); err != nil {
		return err
	}
	if err := enc.EncodeBytes(e.Data); err != nil {
		return err
	}
	return enc.EncodeTime(e.Timestamp)
}

// DecodeMsgpack implements msgpack.CustomDecoder.
func (e *Envelope) DecodeMsgpack(dec *msgpack.Decoder) error {
	n, err := dec.DecodeArrayLen()
	if err != nil {
		return err
	}
	if n != 4 {
		return msgpack.ErrArrayStruct
	}
	typeStr, err := dec.DecodeString()
	if err != nil {
		return err
	}
	playerID, err := dec.DecodeString()
	if err != nil {
		return err
	}
	data, err := dec.DecodeBytes()
	if err != nil {
		return err
	}
	ts, err := dec.DecodeTime()
	if err != nil {
		return err
	}
	e.Type = MessageType(typeStr)
	e.PlayerID = playerID
	e.Data = data
	e.Timestamp = ts
	return nil
}
