package model

import (
	"time"

	"github.com/v4ll3l1/Nimbus/internal/ids"
)

// Input carries the fields a caller supplies when building a Message; any
// field left at its zero value is filled in by the factory that consumes
// it. Extensions are copied, not aliased.
type Input struct {
	ID              string
	Source          string
	Type            string
	CorrelationID   string
	Time            string
	Data            any
	DataContentType string
	DataSchema      string
	Extensions      map[string]any
}

// CreateCommand builds a command Message, filling id, correlationid, time,
// and datacontenttype when absent. Subject is optional for commands.
func CreateCommand(in Input, subject string) *Message {
	msg := create(in)
	msg.Subject = subject
	return msg
}

// CreateQuery builds a query Message. Queries never carry a subject.
func CreateQuery(in Input) *Message {
	return create(in)
}

// CreateEvent builds an event Message. Subject is taken as a parameter, as
// for CreateCommand, and the factory fills in no default for it; an empty
// subject is not rejected here.
func CreateEvent(in Input, subject string) *Message {
	msg := create(in)
	msg.Subject = subject
	return msg
}

func create(in Input) *Message {
	msg := &Message{
		SpecVersion:     SpecVersion,
		ID:              in.ID,
		Source:          in.Source,
		Type:            in.Type,
		CorrelationID:   in.CorrelationID,
		Time:            in.Time,
		Data:            in.Data,
		DataContentType: in.DataContentType,
		DataSchema:      in.DataSchema,
	}
	if msg.ID == "" {
		msg.ID = ids.New()
	}
	if msg.CorrelationID == "" {
		msg.CorrelationID = ids.New()
	}
	if msg.Time == "" {
		msg.Time = time.Now().UTC().Format(time.RFC3339)
	}
	if msg.DataContentType == "" {
		msg.DataContentType = "application/json"
	}
	if len(in.Extensions) > 0 {
		msg.Extensions = make(map[string]any, len(in.Extensions))
		for k, v := range in.Extensions {
			msg.Extensions[k] = v
		}
	}
	return msg
}
