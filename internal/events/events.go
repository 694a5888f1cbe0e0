// Package events announces catalog changes to other systems.
package events

import (
	"context"
	"time"
)

// Event types.
const (
	PhoneCreated    = "phone.created"
	PhoneUpdated    = "phone.updated"
	PhoneDeleted    = "phone.deleted"
	PhonesImported  = "phones.imported"
	SettingsUpdated = "settings.updated"
)

// Event is the JSON body of a published message.
type Event struct {
	Type    string    `json:"type"`
	PhoneID string    `json:"phoneId,omitempty"`
	Count   int       `json:"count,omitempty"`
	At      time.Time `json:"at"`
}

// Handler processes one consumed event. Returning an error requeues it.
type Handler func(ctx context.Context, ev Event) error

// Publisher sends events to a broker.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close() error
}

// Noop drops every event. It is used when no broker is configured.
type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }

func (Noop) Close() error { return nil }
