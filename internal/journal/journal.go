// Package journal records wizard navigation in an embedded JetStream event
// log and replays it into resumable progress.
package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/mark3labs/stepwise/internal/logger"
	"github.com/mark3labs/stepwise/internal/nats"
	"github.com/mark3labs/stepwise/internal/wizard"
	"github.com/nats-io/nats.go/jetstream"
)

// Actions
const (
	ActionGoTo    = "go_to"
	ActionRefused = "refused"
	ActionStart   = "start"
	ActionReset   = "reset"
)

// Event is one entry of the append-only wizard log.
type Event struct {
	ID        string          `json:"id"` // stream sequence when not set by the publisher
	Timestamp time.Time       `json:"timestamp"`
	Wizard    string          `json:"wizard"`
	Run       string          `json:"run"`
	Type      string          `json:"type"`   // navigation, control
	Action    string          `json:"action"` // go_to, refused, start, reset
	Meta      json.RawMessage `json:"meta"`
	Data      string          `json:"data"`
}

// stateMeta is the wizard position carried by every event.
type stateMeta struct {
	From           int      `json:"from,omitempty"`
	To             int      `json:"to,omitempty"`
	Direction      string   `json:"direction,omitempty"`
	CurrentStep    string   `json:"current_step"`
	CompletedSteps []string `json:"completed_steps"`
	Completed      bool     `json:"completed"`
}

func metaFromSnapshot(snap wizard.Snapshot) stateMeta {
	m := stateMeta{
		CompletedSteps: []string{},
		Completed:      snap.Completed,
	}
	for i, s := range snap.Steps {
		if i == snap.CurrentIndex {
			m.CurrentStep = s.ID
		}
		if s.Completed {
			m.CompletedSteps = append(m.CompletedSteps, s.ID)
		}
	}
	return m
}

// Key normalizes a wizard name into a subject-safe key.
func Key(name string) string {
	if k := slug.Make(name); k != "" {
		return k
	}
	return "wizard"
}

// NewRunID returns a unique identifier for one runner session.
func NewRunID() string {
	return uuid.NewString()
}

// Store publishes and replays wizard events.
type Store struct {
	js     jetstream.JetStream
	stream jetstream.Stream
}

// NewStore creates a Store over an existing stream.
func NewStore(js jetstream.JetStream, stream jetstream.Stream) *Store {
	return &Store{js: js, stream: stream}
}

// Publish appends an event to the log under stepwise.<wizard>.<type>.
func (s *Store) Publish(ctx context.Context, event Event) (*jetstream.PubAck, error) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	event.Wizard = Key(event.Wizard)

	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}

	subject := nats.SubjectForEvent(event.Wizard, event.Type)
	logger.Debug("Publishing event: wizard=%s type=%s action=%s", event.Wizard, event.Type, event.Action)

	ack, err := s.js.Publish(ctx, subject, data)
	if err != nil {
		logger.Error("Failed to publish event to subject %s: %v", subject, err)
		return nil, fmt.Errorf("failed to publish event: %w", err)
	}
	return ack, nil
}

// RecordStart logs the beginning of a run.
func (s *Store) RecordStart(ctx context.Context, wizardName, runID string, snap wizard.Snapshot) error {
	return s.record(ctx, wizardName, runID, nats.EventTypeControl, ActionStart, metaFromSnapshot(snap), "run started")
}

// RecordReset logs a reset to the default step.
func (s *Store) RecordReset(ctx context.Context, wizardName, runID string, snap wizard.Snapshot) error {
	return s.record(ctx, wizardName, runID, nats.EventTypeControl, ActionReset, metaFromSnapshot(snap),
		fmt.Sprintf("reset to step %d", snap.CurrentIndex))
}

// RecordTransition logs an accepted or refused transition together with the
// resulting wizard position.
func (s *Store) RecordTransition(ctx context.Context, wizardName, runID string, t wizard.Transition, snap wizard.Snapshot) error {
	meta := metaFromSnapshot(snap)
	meta.From = t.From
	meta.To = t.To
	meta.Direction = t.Direction.String()

	action := ActionGoTo
	data := fmt.Sprintf("moved %s from step %d to %d", t.Direction, t.From, t.To)
	if t.Refused {
		action = ActionRefused
		data = fmt.Sprintf("refused %s move from step %d to %d", t.Direction, t.From, t.To)
	}
	return s.record(ctx, wizardName, runID, nats.EventTypeNavigation, action, meta, data)
}

func (s *Store) record(ctx context.Context, wizardName, runID, eventType, action string, meta stateMeta, data string) error {
	raw, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("failed to marshal event meta: %w", err)
	}
	_, err = s.Publish(ctx, Event{
		Wizard: wizardName,
		Run:    runID,
		Type:   eventType,
		Action: action,
		Meta:   raw,
		Data:   data,
	})
	return err
}

// Events returns every stored event of a wizard in publication order.
// Malformed entries are skipped.
func (s *Store) Events(ctx context.Context, wizardName string) ([]Event, error) {
	key := Key(wizardName)
	consumer, err := s.stream.CreateOrUpdateConsumer(ctx, jetstream.ConsumerConfig{
		FilterSubject: nats.SubjectForWizard(key),
		DeliverPolicy: jetstream.DeliverAllPolicy,
		AckPolicy:     jetstream.AckExplicitPolicy,
	})
	if err != nil {
		logger.Error("Failed to create consumer for wizard %s: %v", key, err)
		return nil, fmt.Errorf("failed to create consumer: %w", err)
	}

	const batchSize = 1000
	var events []Event
	malformed := 0
	for {
		msgs, err := consumer.FetchNoWait(batchSize)
		if err != nil {
			break
		}

		count := 0
		for msg := range msgs.Messages() {
			count++
			var event Event
			if err := json.Unmarshal(msg.Data(), &event); err != nil {
				malformed++
				if meta, merr := msg.Metadata(); merr == nil {
					logger.Warn("Skipping malformed event (seq=%d): %v", meta.Sequence.Stream, err)
				}
				_ = msg.Ack()
				continue
			}
			if event.ID == "" {
				if meta, merr := msg.Metadata(); merr == nil {
					event.ID = fmt.Sprintf("%d", meta.Sequence.Stream)
				}
			}
			events = append(events, event)
			_ = msg.Ack()
		}

		if count < batchSize {
			break
		}
	}

	if malformed > 0 {
		logger.Warn("Skipped %d malformed events for wizard %s", malformed, key)
	}
	logger.Debug("Read %d events for wizard %s", len(events), key)
	return events, nil
}

// LoadProgress replays a wizard's events into its latest Progress.
func (s *Store) LoadProgress(ctx context.Context, wizardName string) (*Progress, error) {
	events, err := s.Events(ctx, wizardName)
	if err != nil {
		return nil, err
	}
	p := &Progress{Wizard: Key(wizardName), CompletedSteps: []string{}}
	for _, e := range events {
		p.reduce(e)
	}
	return p, nil
}
