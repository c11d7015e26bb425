// Package event records plan runs. A run is written to the manifest store
// first and then published to the in-process event bus for downstream
// consumers.
package event

import (
	"context"

	"github.com/matthewbaird/dashgen/internal/manifest"
)

// Recorder persists plan events.
type Recorder interface {
	Record(ctx context.Context, evt PlanEvent) error
}

// Publisher sends plan events to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, evt PlanEvent)
}

// ManifestRecorder implements Recorder on a manifest.Store. If a Publisher
// is set, the event is published after the store write succeeds.
type ManifestRecorder struct {
	store manifest.Store
	bus   Publisher
}

// NewManifestRecorder creates a recorder backed by store.
func NewManifestRecorder(store manifest.Store) *ManifestRecorder {
	return &ManifestRecorder{store: store}
}

// SetPublisher attaches an event bus.
func (r *ManifestRecorder) SetPublisher(p Publisher) {
	r.bus = p
}

// Record writes the event's run and publishes the event.
func (r *ManifestRecorder) Record(ctx context.Context, evt PlanEvent) error {
	if err := r.store.RecordRun(ctx, evt.Run); err != nil {
		return err
	}
	if r.bus != nil {
		r.bus.Publish(ctx, evt)
	}
	return nil
}
