package eventbus

import (
	"context"
	"log"

	"github.com/matthewbaird/dashgen/internal/event"
)

// LogConsumer logs every plan event.
type LogConsumer struct{}

func NewLogConsumer() *LogConsumer { return &LogConsumer{} }

func (c *LogConsumer) HandleEvent(_ context.Context, evt event.PlanEvent) error {
	log.Printf("event: %s [%s] %s (run=%s warnings=%d)",
		evt.EventType, evt.Project, evt.Summary, shortID(evt.Run.ID), len(evt.Warnings))
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
