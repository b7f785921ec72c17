package wire

import (
	"errors"
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"
)

// ErrMalformedPayload indicates a datagram failed to decode as a valid
// envelope or payload.
var ErrMalformedPayload = errors.New("wire: malformed payload")

// ErrUnsupportedType indicates an envelope's type discriminator is not one
// the codec's caller recognizes.
var ErrUnsupportedType = errors.New("wire: unsupported message type")

const (
	flagRaw  byte = 0x00
	flagZstd byte = 0x01
)

// Codec encodes and decodes envelopes, compressing payloads above
// CompressionThreshold bytes with zstd.
type Codec struct {
	CompressionThreshold int

	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// NewCodec constructs a Codec. threshold is the encoded-envelope size above
// which the datagram body is zstd-compressed (spec default 1200 bytes).
func NewCodec(threshold int) (*Codec, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return nil, fmt.Errorf("wire: construct zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		return nil, fmt.Errorf("wire: construct zstd decoder: %w", err)
	}
	return &Codec{CompressionThreshold: threshold, encoder: enc, decoder: dec}, nil
}

// Close releases the codec's zstd resources.
func (c *Codec) Close() {
	if c.encoder != nil {
		c.encoder.Close()
	}
	if c.decoder != nil {
		c.decoder.Close()
	}
}

// EncodeMessage marshals payload, wraps it in an envelope with the given
// type/player id/timestamp, and compresses the result if it exceeds
// CompressionThreshold. The returned bytes are ready to send as a datagram.
func (c *Codec) EncodeMessage(msgType MessageType, playerID string, payload any, timestamp time.Time) ([]byte, error) {
	data, err := msgpack.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("wire: encode payload: %w", err)
	}
	envelope := Envelope{Type: msgType, PlayerID: playerID, Data: data, Timestamp: timestamp}
	body, err := msgpack.Marshal(envelope)
	if err != nil {
		return nil, fmt.Errorf("wire: encode envelope: %w", err)
	}

	if len(body) <= c.CompressionThreshold {
		out := make([]byte, len(body)+1)
		out[0] = flagRaw
		copy(out[1:], body)
		return out, nil
	}

	compressed := c.encoder.EncodeAll(body, make([]byte, 0, len(body)/2+1))
	out := make([]byte, len(compressed)+1)
	out[0] = flagZstd
	copy(out[1:], compressed)
	return out, nil
}

// DecodeEnvelope reverses EncodeMessage's framing and returns the envelope;
// the caller decodes Envelope.Data into the type-specific payload via
// DecodePayload.
func (c *Codec) DecodeEnvelope(raw []byte) (Envelope, error) {
	if len(raw) < 1 {
		return Envelope{}, ErrMalformedPayload
	}
	flag, body := raw[0], raw[1:]

	switch flag {
	case flagRaw:
		// body is used as-is.
	case flagZstd:
		decompressed, err := c.decoder.DecodeAll(body, nil)
		if err != nil {
			return Envelope{}, fmt.Errorf("%w: decompress: %v", ErrMalformedPayload, err)
		}
		body = decompressed
	default:
		return Envelope{}, ErrMalformedPayload
	}

	var envelope Envelope
	if err := msgpack.Unmarshal(body, &envelope); err != nil {
		return Envelope{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return envelope, nil
}

// DecodePayload unmarshals an envelope's data into out.
func DecodePayload(envelope Envelope, out any) error {
	if err := msgpack.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return nil
}
