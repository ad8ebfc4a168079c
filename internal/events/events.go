// Package events publishes post change notifications so other systems can
// follow writes without polling the API.
package events

import (
	"context"
	"sync"
	"time"

	"github.com/vaughan-dsouza/myapp/internal/models"
)

type Type string

const (
	PostCreated Type = "post.created"
	PostUpdated Type = "post.updated"
	PostDeleted Type = "post.deleted"
)

// Event describes one committed change. Post is empty for deletions.
type Event struct {
	Type   Type         `json:"type"`
	PostID int64        `json:"post_id"`
	Post   *models.Post `json:"post,omitempty"`
	At     time.Time    `json:"at"`
}

func New(t Type, id int64, post *models.Post) Event {
	return Event{Type: t, PostID: id, Post: post, At: time.Now().UTC()}
}

// Publisher delivers events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                         { return nil }

// MemoryPublisher records events in order.
type MemoryPublisher struct {
	mu     sync.Mutex
	events []Event
	Err    error // returned from Publish when set
}

func (m *MemoryPublisher) Publish(_ context.Context, e Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}
	m.events = append(m.events, e)
	return nil
}

func (m *MemoryPublisher) Close() error { return nil }

func (m *MemoryPublisher) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Event, len(m.events))
	copy(out, m.events)
	return out
}
