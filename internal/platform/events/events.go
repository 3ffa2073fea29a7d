// Package events publishes registry changes. Subscribers are outside this
// service; publishing is best effort and never blocks a mutation from
// succeeding.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"github.com/segmentio/kafka-go"
)

// Event types.
const (
	PatientCreated       = "patient.created"
	PatientDeleted       = "patient.deleted"
	PatientNoteAdded     = "patient.note_added"
	PatientFileAdded     = "patient.file_added"
	PatientNotesSaved    = "patient.consultation_notes_saved"
	PatientStatusChanged = "patient.status_changed"
	DiagnosisRecorded    = "diagnosis.recorded"
	DiagnosisRemoved     = "diagnosis.removed"
	DiagnosisCleared     = "diagnosis.cleared"
)

// Event is the envelope written to the topic.
type Event struct {
	Type       string         `json:"type"`
	Subject    string         `json:"subject"`
	OccurredAt time.Time      `json:"occurred_at"`
	Data       map[string]any `json:"data,omitempty"`
}

// New stamps an event with the current time.
func New(eventType, subject string, data map[string]any) Event {
	return Event{Type: eventType, Subject: subject, OccurredAt: time.Now().UTC(), Data: data}
}

type Publisher interface {
	Publish(ctx context.Context, evts ...Event) error
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, ...Event) error { return nil }

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(_ context.Context, evts ...Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evts...)
	return nil
}

// Events returns a copy of everything recorded so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Types lists the recorded event types in publish order.
func (r *Recorder) Types() []string {
	return lo.Map(r.Events(), func(e Event, _ int) string { return e.Type })
}

// kafkaWriter is the part of *kafka.Writer used here.
type kafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Kafka writes events as JSON messages keyed by subject so all events for
// one patient land on the same partition.
type Kafka struct {
	w kafkaWriter
}

func NewKafka(brokers []string, topic string) *Kafka {
	return &Kafka{w: &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		BatchTimeout:           50 * time.Millisecond,
	}}
}

func (k *Kafka) Publish(ctx context.Context, evts ...Event) error {
	msgs := make([]kafka.Message, 0, len(evts))
	for _, e := range evts {
		value, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("encode event %s: %w", e.Type, err)
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(e.Subject),
			Value: value,
			Headers: []kafka.Header{
				{Key: "type", Value: []byte(e.Type)},
			},
		})
	}
	if err := k.w.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write kafka messages: %w", err)
	}
	return nil
}

func (k *Kafka) Close() error {
	return k.w.Close()
}

// Logged wraps a publisher so failures are logged instead of returned.
type Logged struct {
	next   Publisher
	logger zerolog.Logger
}

func NewLogged(next Publisher, logger zerolog.Logger) *Logged {
	return &Logged{next: next, logger: logger}
}

func (l *Logged) Publish(ctx context.Context, evts ...Event) error {
	if err := l.next.Publish(ctx, evts...); err != nil {
		l.logger.Warn().Err(err).
			Strs("types", lo.Map(evts, func(e Event, _ int) string { return e.Type })).
			Msg("event publish failed")
	}
	return nil
}
