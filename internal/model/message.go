// Package model defines the CloudEvents v1.0 envelope shared by commands,
// queries, and events, the schema primitives the spec requires validators
// to enforce, and the createCommand/createQuery/createEvent factories that
// fill in the fields a caller leaves blank.
package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/v4ll3l1/Nimbus/internal/ids"
	"github.com/v4ll3l1/Nimbus/internal/jsoncodec"
)

// Kind distinguishes the three message roles a Message can play. It is not
// part of the wire format, and neither Message nor the factories record or
// consult it: each role has its own factory function instead.
type Kind string

const (
	KindCommand Kind = "command"
	KindQuery   Kind = "query"
	KindEvent   Kind = "event"
)

// SpecVersion is the only CloudEvents spec version this model implements.
const SpecVersion = "1.0"

// reservedKeys are the CloudEvents attributes with dedicated Message
// fields; anything else found in the wire JSON lands in Extensions.
var reservedKeys = map[string]struct{}{
	"specversion":     {},
	"id":              {},
	"source":          {},
	"type":            {},
	"correlationid":   {},
	"time":            {},
	"data":            {},
	"datacontenttype": {},
	"dataschema":      {},
	"subject":         {},
}

// Message is the CloudEvents v1.0 envelope. Data carries the decoded JSON
// payload — typically map[string]any, a slice, or a primitive — whose shape
// is asserted by whatever schema the destination handler is registered
// with; the model itself never inspects Data's shape.
type Message struct {
	SpecVersion     string
	ID              string
	Source          string
	Type            string
	CorrelationID   string
	Time            string
	Data            any
	DataContentType string
	DataSchema      string
	Subject         string

	// Extensions carries CloudEvents extension attributes and any field the
	// wire format included that this model doesn't recognize. Validation is
	// non-strict: unknown fields survive a round trip unchanged.
	Extensions map[string]any
}

// HasType reports whether the message carries a non-empty dispatch type.
func (m *Message) HasType() bool {
	return m != nil && m.Type != ""
}

// CreatedAt reports when the message was created. It prefers decoding the
// creation time embedded in ID (accurate to the millisecond, and available
// even if Time was stripped or never set by a foreign producer), falling
// back to parsing Time as RFC 3339 when ID isn't a ULID this module
// generated.
func (m *Message) CreatedAt() (time.Time, bool) {
	if m == nil {
		return time.Time{}, false
	}
	if t, ok := ids.Timestamp(m.ID); ok {
		return t, true
	}
	if m.Time != "" {
		if t, err := time.Parse(time.RFC3339Nano, m.Time); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Clone returns a deep-enough copy of m suitable for mutation (for example
// attaching a different Subject before re-publishing) without aliasing the
// original's Extensions map.
func (m *Message) Clone() *Message {
	if m == nil {
		return nil
	}
	clone := *m
	if m.Extensions != nil {
		clone.Extensions = make(map[string]any, len(m.Extensions))
		for k, v := range m.Extensions {
			clone.Extensions[k] = v
		}
	}
	return &clone
}

// MarshalJSON flattens Extensions onto the top-level object, matching the
// CloudEvents JSON format where extension attributes sit alongside the core
// ones rather than nested under a dedicated key.
func (m *Message) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(m.Extensions)+9)
	for k, v := range m.Extensions {
		out[k] = v
	}
	out["specversion"] = m.SpecVersion
	out["id"] = m.ID
	out["source"] = m.Source
	out["type"] = m.Type
	if m.CorrelationID != "" {
		out["correlationid"] = m.CorrelationID
	}
	if m.Time != "" {
		out["time"] = m.Time
	}
	if m.Data != nil {
		out["data"] = m.Data
	}
	if m.DataContentType != "" {
		out["datacontenttype"] = m.DataContentType
	}
	if m.DataSchema != "" {
		out["dataschema"] = m.DataSchema
	}
	if m.Subject != "" {
		out["subject"] = m.Subject
	}
	return jsoncodec.Marshal(out)
}

// UnmarshalJSON decodes a CloudEvents JSON object, routing unrecognized
// fields into Extensions instead of rejecting them.
func (m *Message) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := jsoncodec.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("model: decode message: %w", err)
	}

	*m = Message{}
	for key, value := range raw {
		switch key {
		case "specversion":
			m.SpecVersion, _ = value.(string)
		case "id":
			m.ID, _ = value.(string)
		case "source":
			m.Source, _ = value.(string)
		case "type":
			m.Type, _ = value.(string)
		case "correlationid":
			m.CorrelationID, _ = value.(string)
		case "time":
			m.Time, _ = value.(string)
		case "data":
			m.Data = value
		case "datacontenttype":
			m.DataContentType, _ = value.(string)
		case "dataschema":
			m.DataSchema, _ = value.(string)
		case "subject":
			m.Subject, _ = value.(string)
		default:
			if m.Extensions == nil {
				m.Extensions = make(map[string]any)
			}
			m.Extensions[key] = value
		}
	}
	return nil
}

var _ json.Marshaler = (*Message)(nil)
var _ json.Unmarshaler = (*Message)(nil)
