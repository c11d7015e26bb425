package wire

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/matthewbaird/dashgen/internal/config"
	"github.com/matthewbaird/dashgen/internal/planner"
	"github.com/matthewbaird/dashgen/internal/session"
	"github.com/matthewbaird/dashgen/internal/typemap"
	"github.com/matthewbaird/dashgen/internal/types"
	"github.com/matthewbaird/dashgen/internal/validate"
)

// actionBatchSize controls how many actions are sent per "actions" message.
const actionBatchSize = 50

// Handler manages websocket connections for plan previews.
type Handler struct {
	sessions *session.Manager
	planner  *planner.Planner
}

// NewHandler creates a websocket handler.
func NewHandler(sessions *session.Manager, pl *planner.Planner) *Handler {
	return &Handler{sessions: sessions, planner: pl}
}

// ServeHTTP upgrades to a websocket and runs the message loop.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		log.Printf("wire: websocket accept: %v", err)
		return
	}
	defer conn.CloseNow()

	sess := h.sessions.Create()
	defer h.sessions.Remove(sess.ID)
	ctx := r.Context()

	h.send(ctx, conn, ServerMessage{
		Type: TypeSession,
		Data: SessionData{SessionID: sess.ID},
	})

	for {
		var msg ClientMessage
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			if websocket.CloseStatus(err) == -1 && !errors.Is(err, context.Canceled) {
				log.Printf("wire: read: %v", err)
			}
			return
		}
		sess.Touch()

		switch msg.Type {
		case TypePlan:
			h.handlePlan(ctx, conn, sess, msg)
		case TypeFieldTypes:
			h.send(ctx, conn, ServerMessage{
				Type:      TypeFieldTypes,
				RequestID: msg.ID,
				Data:      FieldTypesData{Types: typemap.Describe()},
			})
		case TypeHistory:
			h.send(ctx, conn, ServerMessage{
				Type:      TypeHistory,
				RequestID: msg.ID,
				Data:      HistoryData{Entries: sess.History()},
			})
		case TypePing:
			h.send(ctx, conn, ServerMessage{Type: TypePong, RequestID: msg.ID})
		default:
			h.sendError(ctx, conn, msg.ID, "unknown_type", fmt.Sprintf("unknown message type: %s", msg.Type))
		}
	}
}

func (h *Handler) handlePlan(ctx context.Context, conn *websocket.Conn, sess *session.Session, msg ClientMessage) {
	start := time.Now()

	var data PlanData
	if err := json.Unmarshal(msg.Data, &data); err != nil {
		h.sendError(ctx, conn, msg.ID, "invalid_data", "invalid plan data")
		return
	}
	cfg, err := parsePlanData(data)
	if err != nil {
		h.sendError(ctx, conn, msg.ID, errorCode(err), err.Error())
		return
	}

	plan, err := h.planner.Plan(cfg)
	if err != nil {
		h.sendError(ctx, conn, msg.ID, errorCode(err), err.Error())
		return
	}
	sess.AddHistory(session.Entry{Project: plan.Project, Actions: len(plan.Actions), Warnings: len(plan.Warnings)})

	h.send(ctx, conn, ServerMessage{
		Type:      TypeMeta,
		RequestID: msg.ID,
		Data: MetaData{
			Project:  plan.Project,
			Total:    len(plan.Actions),
			Warnings: plan.Warnings,
		},
	})

	sums := plan.Summaries()
	for i := 0; i < len(sums); i += actionBatchSize {
		end := min(i+actionBatchSize, len(sums))
		h.send(ctx, conn, ServerMessage{
			Type:      TypeActions,
			RequestID: msg.ID,
			Data:      ActionsData{Actions: sums[i:end]},
		})
	}

	h.send(ctx, conn, ServerMessage{
		Type:      TypeDone,
		RequestID: msg.ID,
		Data: DoneData{
			Total:   len(sums),
			Elapsed: time.Since(start).String(),
		},
	})
}

func parsePlanData(data PlanData) (types.ProjectConfig, error) {
	if len(data.Config) > 0 {
		return config.Parse(data.Config, config.FormatJSON)
	}
	if data.Source == "" {
		return types.ProjectConfig{}, fmt.Errorf("%w: empty plan request", config.ErrInvalid)
	}
	format := config.FormatCUE
	switch data.Format {
	case "", "cue":
	case "json":
		format = config.FormatJSON
	case "yaml", "yml":
		format = config.FormatYAML
	default:
		return types.ProjectConfig{}, fmt.Errorf("%w: unknown format %q", config.ErrInvalid, data.Format)
	}
	return config.Parse([]byte(data.Source), format)
}

func errorCode(err error) string {
	var verr *validate.Error
	switch {
	case errors.Is(err, config.ErrInvalid):
		return "invalid_config"
	case errors.As(err, &verr):
		return "validation_error"
	case errors.Is(err, planner.ErrPathCollision):
		return "path_collision"
	default:
		return "plan_error"
	}
}

func (h *Handler) send(ctx context.Context, conn *websocket.Conn, msg ServerMessage) {
	if err := wsjson.Write(ctx, conn, msg); err != nil {
		log.Printf("wire: write error: %v", err)
	}
}

func (h *Handler) sendError(ctx context.Context, conn *websocket.Conn, requestID, code, message string) {
	h.send(ctx, conn, ServerMessage{
		Type:      TypeError,
		RequestID: requestID,
		Data: ErrorData{
			Code:    code,
			Message: message,
		},
	})
}
