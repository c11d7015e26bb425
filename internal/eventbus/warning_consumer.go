package eventbus

import (
	"context"
	"log"

	"github.com/matthewbaird/dashgen/internal/event"
)

// WarningConsumer logs the configuration warnings carried by plan events,
// one line each, so they surface in server logs without a client asking.
type WarningConsumer struct{}

// NewWarningConsumer creates a new warning consumer.
func NewWarningConsumer() *WarningConsumer {
	return &WarningConsumer{}
}

// HandleEvent logs each warning of evt.
func (c *WarningConsumer) HandleEvent(_ context.Context, evt event.PlanEvent) error {
	for _, w := range evt.Warnings {
		log.Printf("warning: %s: %s", evt.Project, w)
	}
	return nil
}
