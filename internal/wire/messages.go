// Package wire defines the websocket protocol for previewing plans.
package wire

import (
	"encoding/json"

	"github.com/matthewbaird/dashgen/internal/planner"
	"github.com/matthewbaird/dashgen/internal/session"
	"github.com/matthewbaird/dashgen/internal/typemap"
	"github.com/matthewbaird/dashgen/internal/validate"
)

// Message types.
const (
	TypePlan       = "plan"
	TypeFieldTypes = "field_types"
	TypeHistory    = "history"
	TypePing       = "ping"

	TypeSession = "session"
	TypeMeta    = "meta"
	TypeActions = "actions"
	TypeDone    = "done"
	TypePong    = "pong"
	TypeError   = "error"
)

// ── Client → Server messages ────────────────────────────────────────────────

// ClientMessage is the envelope for all client-to-server messages.
type ClientMessage struct {
	Type string          `json:"type"` // "plan", "field_types", "history", "ping"
	ID   string          `json:"id"`   // Client-assigned request ID
	Data json.RawMessage `json:"data,omitempty"`
}

// PlanData is the payload for "plan" messages. Config holds a JSON project
// configuration; otherwise Source is parsed in Format ("cue", "json" or
// "yaml", default "cue").
type PlanData struct {
	Config json.RawMessage `json:"config,omitempty"`
	Source string          `json:"source,omitempty"`
	Format string          `json:"format,omitempty"`
}

// ── Server → Client messages ────────────────────────────────────────────────

// ServerMessage is the envelope for all server-to-client messages.
type ServerMessage struct {
	Type      string `json:"type"`
	RequestID string `json:"request_id,omitempty"` // Echoes client ID
	Data      any    `json:"data,omitempty"`
}

// SessionData carries session information.
type SessionData struct {
	SessionID string `json:"session_id"`
}

// MetaData is sent before the actions of a plan.
type MetaData struct {
	Project  string             `json:"project"`
	Total    int                `json:"total"`
	Warnings []validate.Warning `json:"warnings"`
}

// ActionsData carries a batch of planned actions.
type ActionsData struct {
	Actions []planner.ActionSummary `json:"actions"`
}

// DoneData signals completion of a plan.
type DoneData struct {
	Total   int    `json:"total"`
	Elapsed string `json:"elapsed"`
}

// FieldTypesData lists the supported field types.
type FieldTypesData struct {
	Types []typemap.TypeInfo `json:"types"`
}

// HistoryData lists the plans made in this session.
type HistoryData struct {
	Entries []session.Entry `json:"entries"`
}

// ErrorData carries an error message.
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
