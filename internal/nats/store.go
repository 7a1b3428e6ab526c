package nats

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"
)

const (
	// StreamName is the JetStream stream holding every wizard event.
	StreamName = "stepwise_events"

	// Retention is how long events are kept.
	Retention = 90 * 24 * time.Hour

	// Event types
	EventTypeNavigation = "navigation"
	EventTypeControl    = "control"
)

// SubjectForWizard returns the wildcard subject for all events of a wizard.
// Example: "stepwise.onboarding.>"
func SubjectForWizard(wizard string) string {
	return fmt.Sprintf("stepwise.%s.>", wizard)
}

// SubjectForEvent returns the subject for an event type of a wizard.
// Example: "stepwise.onboarding.navigation"
func SubjectForEvent(wizard, eventType string) string {
	return fmt.Sprintf("stepwise.%s.%s", wizard, eventType)
}

// SetupStream creates or updates the file-backed stream for wizard events.
func SetupStream(ctx context.Context, js jetstream.JetStream) (jetstream.Stream, error) {
	return js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     StreamName,
		Subjects: []string{"stepwise.>"},
		Storage:  jetstream.FileStorage,
		MaxAge:   Retention,
	})
}
