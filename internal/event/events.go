package event

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/matthewbaird/dashgen/internal/manifest"
	"github.com/matthewbaird/dashgen/internal/validate"
)

// Event types.
const (
	TypePlanRecorded  = "plan_recorded"
	TypeEntityPlanned = "entity_planned"
)

// PlanEvent is published whenever a plan run is recorded.
type PlanEvent struct {
	ID         string             `json:"id"`
	EventType  string             `json:"eventType"`
	OccurredAt time.Time          `json:"occurredAt"`
	Project    string             `json:"project"`
	Summary    string             `json:"summary"`
	Run        manifest.Run       `json:"run"`
	Warnings   []validate.Warning `json:"warnings"`
}

func newID() string { return uuid.New().String() }

// NewPlanRecorded builds the event for a full project plan.
func NewPlanRecorded(run manifest.Run, warnings []validate.Warning) PlanEvent {
	summary := fmt.Sprintf("Planned %d files for %s (%d entities)", run.ActionCount, run.Project, len(run.Entities))
	return PlanEvent{
		ID:         newID(),
		EventType:  TypePlanRecorded,
		OccurredAt: time.Now().UTC(),
		Project:    run.Project,
		Summary:    summary,
		Run:        run,
		Warnings:   warnings,
	}
}

// NewEntityPlanned builds the event for a single added entity.
func NewEntityPlanned(run manifest.Run, warnings []validate.Warning) PlanEvent {
	entity := ""
	if len(run.Entities) > 0 {
		entity = run.Entities[0]
	}
	return PlanEvent{
		ID:         newID(),
		EventType:  TypeEntityPlanned,
		OccurredAt: time.Now().UTC(),
		Project:    run.Project,
		Summary:    fmt.Sprintf("Planned %d files for entity %s in %s", run.ActionCount, entity, run.Project),
		Run:        run,
		Warnings:   warnings,
	}
}
