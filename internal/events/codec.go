package events

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fxamacker/cbor/v2"
)

// Codec serializes events for the wire.
type Codec interface {
	ContentType() string
	Encode(Event) ([]byte, error)
	Decode([]byte) (Event, error)
}

// NewCodec returns the codec registered under name ("json" or "cbor").
func NewCodec(name string) (Codec, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "json":
		return JSONCodec{}, nil
	case "cbor":
		return NewCBORCodec()
	default:
		return nil, fmt.Errorf("unknown event encoding %q", name)
	}
}

type JSONCodec struct{}

func (JSONCodec) ContentType() string { return "application/json" }

func (JSONCodec) Encode(e Event) ([]byte, error) {
	return json.Marshal(e)
}

func (JSONCodec) Decode(data []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return Event{}, fmt.Errorf("decode json event: %w", err)
	}
	return e, nil
}

// CBORCodec uses deterministic core encoding with RFC 3339 timestamps so
// sub-second precision survives a round trip.
type CBORCodec struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

func NewCBORCodec() (*CBORCodec, error) {
	opts := cbor.CoreDetEncOptions()
	opts.Time = cbor.TimeRFC3339Nano
	enc, err := opts.EncMode()
	if err != nil {
		return nil, fmt.Errorf("cbor encode mode: %w", err)
	}
	dec, err := cbor.DecOptions{}.DecMode()
	if err != nil {
		return nil, fmt.Errorf("cbor decode mode: %w", err)
	}
	return &CBORCodec{enc: enc, dec: dec}, nil
}

func (c *CBORCodec) ContentType() string { return "application/cbor" }

func (c *CBORCodec) Encode(e Event) ([]byte, error) {
	return c.enc.Marshal(e)
}

func (c *CBORCodec) Decode(data []byte) (Event, error) {
	var e Event
	if err := c.dec.Unmarshal(data, &e); err != nil {
		return Event{}, fmt.Errorf("decode cbor event: %w", err)
	}
	return e, nil
}
