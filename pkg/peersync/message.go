// Package peersync defines the wire vocabulary for replicating a store to
// its peers: insert, delete and heartbeat messages and their MessagePack
// encoding.
//
// Only the message shapes exist. There is no transport, no delivery
// ordering, no conflict resolution and no retry policy. A store is composed
// with a Publisher, which receives a message after every committed insert
// or delete; what the Publisher does with it is up to the caller.
package peersync

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/ugorji/go/codec"
)

// Kind identifies the message type
type Kind uint8

const (
	// KindInsert carries an upserted record
	KindInsert Kind = iota + 1
	// KindDelete carries the id of a removed record
	KindDelete
	// KindHeartbeat carries the sender's clock
	KindHeartbeat
)

// String returns the name of the kind
func (k Kind) String() string {
	switch k {
	case KindInsert:
		return "insert"
	case KindDelete:
		return "delete"
	case KindHeartbeat:
		return "heartbeat"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// ErrInvalidMessage is returned for messages with an unknown kind or
// missing required fields.
var ErrInvalidMessage = errors.New("invalid sync message")

// Message is one replication event. Which fields are meaningful depends
// on Kind: Insert uses ID, Embedding and Metadata; Delete uses ID;
// Heartbeat uses Timestamp (unix milliseconds).
type Message struct {
	Kind      Kind   `codec:"kind"`
	ID        string `codec:"id,omitempty"`
	Embedding []byte `codec:"embedding,omitempty"`
	Metadata  string `codec:"metadata,omitempty"`
	Timestamp uint64 `codec:"ts,omitempty"`
}

// NewInsert builds an insert message. embedding is the record codec output.
func NewInsert(id string, embedding []byte, metadata string) Message {
	return Message{Kind: KindInsert, ID: id, Embedding: embedding, Metadata: metadata}
}

// NewDelete builds a delete message
func NewDelete(id string) Message {
	return Message{Kind: KindDelete, ID: id}
}

// NewHeartbeat builds a heartbeat stamped with t
func NewHeartbeat(t time.Time) Message {
	return Message{Kind: KindHeartbeat, Timestamp: uint64(t.UnixMilli())}
}

// Validate checks that the fields required by Kind are set
func (m Message) Validate() error {
	switch m.Kind {
	case KindInsert:
		if m.ID == "" || len(m.Embedding) == 0 {
			return fmt.Errorf("%w: insert needs id and embedding", ErrInvalidMessage)
		}
	case KindDelete:
		if m.ID == "" {
			return fmt.Errorf("%w: delete needs id", ErrInvalidMessage)
		}
	case KindHeartbeat:
	default:
		return fmt.Errorf("%w: %s", ErrInvalidMessage, m.Kind)
	}
	return nil
}

var msgpackHandle = &codec.MsgpackHandle{}

func init() {
	msgpackHandle.RawToString = true
}

// Encode returns the MessagePack form of m
func Encode(m Message) ([]byte, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	var out []byte
	if err := codec.NewEncoderBytes(&out, msgpackHandle).Encode(m); err != nil {
		return nil, fmt.Errorf("encode %s message: %w", m.Kind, err)
	}
	return out, nil
}

// Decode parses a message produced by Encode
func Decode(data []byte) (m Message, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrInvalidMessage, r)
		}
	}()

	if err := codec.NewDecoderBytes(data, msgpackHandle).Decode(&m); err != nil {
		return Message{}, fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}
	if err := m.Validate(); err != nil {
		return Message{}, err
	}
	return m, nil
}

// Publisher receives replication messages from a store.
type Publisher interface {
	Publish(ctx context.Context, m Message) error
}

// Nop is a Publisher that drops every message
type Nop struct{}

// Publish does nothing
func (Nop) Publish(context.Context, Message) error { return nil }

// PublisherFunc adapts a function to Publisher
type PublisherFunc func(ctx context.Context, m Message) error

// Publish calls f
func (f PublisherFunc) Publish(ctx context.Context, m Message) error {
	return f(ctx, m)
}

// Config names the local endpoint and the peers of a replication group.
type Config struct {
	Endpoint string   `yaml:"endpoint"`
	Peers    []string `yaml:"peers"`
}

// Validate checks that every address is host:port
func (c Config) Validate() error {
	if _, _, err := net.SplitHostPort(c.Endpoint); err != nil {
		return fmt.Errorf("sync endpoint %q: %w", c.Endpoint, err)
	}
	for _, p := range c.Peers {
		if _, _, err := net.SplitHostPort(p); err != nil {
			return fmt.Errorf("sync peer %q: %w", p, err)
		}
	}
	return nil
}
