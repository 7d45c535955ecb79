// Package api exposes the clinic assistant over HTTP: the chat endpoint,
// session history, and a manual appointment endpoint for front-desk staff.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/brightsmile/clinic-assistant/internal/calendar"
	"github.com/brightsmile/clinic-assistant/internal/conversation"
	"github.com/brightsmile/clinic-assistant/internal/extract"
	"github.com/brightsmile/clinic-assistant/internal/schedule"
	"github.com/brightsmile/clinic-assistant/pkg/logging"
)

const defaultHistoryLimit = 20

// Handler serves the chat and appointment endpoints.
type Handler struct {
	engine  *conversation.Engine
	manager *schedule.Manager
	logger  *logging.Logger
}

func NewHandler(engine *conversation.Engine, manager *schedule.Manager, logger *logging.Logger) *Handler {
	if engine == nil {
		panic("api: conversation engine required")
	}
	if manager == nil {
		panic("api: schedule manager required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{engine: engine, manager: manager, logger: logger}
}

type chatRequest struct {
	Message   string `json:"message"`
	PatientID string `json:"patient_id"`
	SessionID string `json:"session_id"`
}

type chatResponse struct {
	Response        string           `json:"response"`
	SessionID       string           `json:"session_id"`
	Language        string           `json:"language"`
	AppointmentData *appointmentData `json:"appointment_data"`
	Timestamp       time.Time        `json:"timestamp"`
}

type appointmentData struct {
	ID          string    `json:"id"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Reason      string    `json:"reason"`
	Status      string    `json:"status"`
}

// Chat handles one patient message. A missing session ID starts a new
// session.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		http.Error(w, "message is required", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.PatientID) == "" {
		http.Error(w, "patient_id is required", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.SessionID) == "" {
		req.SessionID = uuid.NewString()
	}

	result := h.engine.Handle(r.Context(), req.SessionID, req.PatientID, req.Message)

	resp := chatResponse{
		Response:  result.Reply,
		SessionID: req.SessionID,
		Language:  string(result.Language),
		Timestamp: time.Now().UTC(),
	}
	if result.Outcome != nil && result.Outcome.Appointment != nil {
		resp.AppointmentData = toAppointmentData(result.Outcome.Appointment)
	}
	writeJSON(w, http.StatusOK, resp)
}

// History returns the most recent messages of a session, oldest first.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		http.Error(w, "session id is required", http.StatusBadRequest)
		return
	}

	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = n
	}

	messages, err := h.engine.History(r.Context(), sessionID, limit)
	if err != nil {
		h.logger.Error("history lookup failed", "error", err, "session_id", sessionID)
		http.Error(w, "failed to load session history", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"session_id": sessionID,
		"messages":   messages,
	})
}

type createAppointmentRequest struct {
	PatientID string `json:"patient_id"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Reason    string `json:"reason"`
}

// CreateAppointment books a slot directly, bypassing the conversation
// layer. Front-desk staff use this; the same validation and conflict rules
// apply.
func (h *Handler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	var req createAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.PatientID) == "" {
		http.Error(w, "patient_id is required", http.StatusBadRequest)
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	cand := extract.Candidate{
		Date:   date,
		Time:   req.Time,
		Reason: extract.ClassifyService(req.Reason),
	}
	outcome := h.manager.Process(r.Context(), req.PatientID, schedule.Request{Candidate: &cand})

	switch outcome.Kind {
	case schedule.OutcomeBooked:
		writeJSON(w, http.StatusCreated, map[string]any{
			"appointment": toAppointmentData(outcome.Appointment),
		})
	case schedule.OutcomeRejectedConflict:
		alts := make([]string, 0, len(outcome.Alternatives))
		for _, a := range outcome.Alternatives {
			alts = append(alts, a.Format12())
		}
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":        "time slot is already booked",
			"alternatives": alts,
		})
	case schedule.OutcomeRejectedOutOfHours:
		if outcome.Reason == schedule.ReasonMalformedTime {
			http.Error(w, "time must be a valid clock time", http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":  "outside clinic hours",
			"reason": string(outcome.Reason),
		})
	default:
		http.Error(w, "failed to create appointment", http.StatusInternalServerError)
	}
}

// HealthCheck reports service liveness.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func toAppointmentData(appt *calendar.Appointment) *appointmentData {
	return &appointmentData{
		ID:          appt.ID.String(),
		ScheduledAt: appt.ScheduledAt,
		Reason:      appt.Reason,
		Status:      string(appt.Status),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
