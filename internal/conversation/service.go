package conversation

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/brightsmile/clinic-assistant/internal/extract"
	"github.com/brightsmile/clinic-assistant/internal/observability/metrics"
	"github.com/brightsmile/clinic-assistant/internal/respond"
	"github.com/brightsmile/clinic-assistant/internal/schedule"
	"github.com/brightsmile/clinic-assistant/pkg/logging"
)

const defaultHistoryLimit = 10

// ChatResult is the engine's answer to one patient message.
type ChatResult struct {
	Reply    string
	Language extract.Language
	Outcome  *schedule.Outcome
}

// Engine ties the conversation layer together: it reads session history,
// classifies the message, drives the scheduling manager when a request is
// actionable, and falls back to the generative responder or canned
// small-talk otherwise.
type Engine struct {
	analyzer     *Analyzer
	manager      *schedule.Manager
	logs         LogStore
	llm          LLMClient
	metrics      *metrics.ChatMetrics
	logger       *logging.Logger
	clinicName   string
	historyLimit int
	now          func() time.Time
}

// NewEngine constructs the conversation engine. analyzer, manager and logs
// are required; the LLM client, metrics and logger are optional.
func NewEngine(analyzer *Analyzer, manager *schedule.Manager, logs LogStore, opts ...EngineOption) *Engine {
	if analyzer == nil {
		panic("conversation: analyzer required")
	}
	if manager == nil {
		panic("conversation: schedule manager required")
	}
	if logs == nil {
		panic("conversation: log store required")
	}
	e := &Engine{
		analyzer:     analyzer,
		manager:      manager,
		logs:         logs,
		logger:       logging.Default(),
		clinicName:   "BrightSmile Dental",
		historyLimit: defaultHistoryLimit,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// EngineOption configures optional engine collaborators.
type EngineOption func(*Engine)

func WithLLM(c LLMClient) EngineOption {
	return func(e *Engine) { e.llm = c }
}

func WithEngineMetrics(m *metrics.ChatMetrics) EngineOption {
	return func(e *Engine) { e.metrics = m }
}

func WithEngineLogger(l *logging.Logger) EngineOption {
	return func(e *Engine) { e.logger = l }
}

func WithClinicName(name string) EngineOption {
	return func(e *Engine) {
		if strings.TrimSpace(name) != "" {
			e.clinicName = name
		}
	}
}

func WithHistoryLimit(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.historyLimit = n
		}
	}
}

func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// Handle processes one patient message in a session and returns the reply.
// History read failures degrade to an empty history; history write failures
// are logged and swallowed, so a full Redis never blocks a booking.
func (e *Engine) Handle(ctx context.Context, sessionID, patientID, message string) ChatResult {
	now := e.now()

	history, err := e.logs.GetRecent(ctx, sessionID, e.historyLimit)
	if err != nil {
		e.logger.Warn("session history unavailable", "error", err, "session_id", sessionID)
		history = nil
	}

	lang := extract.DetectLanguage(message)
	intent := e.analyzer.Analyze(history, message, now)
	e.metrics.ObserveExtraction("candidate", intent.Candidate != nil || intent.New != nil)

	result := ChatResult{Language: lang}
	switch {
	// An old/new pair moves the calendar only when the current message
	// actually asks for a reschedule; connective words alone are not
	// enough evidence to mutate a booking.
	case intent.IsReschedule && intent.Old != nil && intent.New != nil:
		outcome := e.manager.Process(ctx, patientID, schedule.Request{
			Reschedule: true,
			Old:        intent.Old,
			New:        intent.New,
		})
		result.Outcome = &outcome
		result.Reply = respond.RenderOutcome(outcome, lang)
	// A date/time in the current message books on its own. A candidate
	// recovered from history needs a booking or confirmation signal, so
	// that a "thank you" after a successful booking does not replay the
	// stale candidate into the conflict path.
	case intent.Candidate != nil && (intent.CandidateFromMessage || intent.IsBooking || intent.IsConfirmation):
		outcome := e.manager.Process(ctx, patientID, schedule.Request{Candidate: intent.Candidate})
		result.Outcome = &outcome
		result.Reply = respond.RenderOutcome(outcome, lang)
	default:
		result = e.respondFreeform(ctx, patientID, history, message, lang, now)
	}

	e.record(ctx, sessionID, SenderUser, message, now)
	e.record(ctx, sessionID, SenderAssistant, result.Reply, e.now())
	return result
}

// respondFreeform handles messages with no extractable appointment: the
// generative responder answers when configured, canned small-talk otherwise.
// If the model hands back a structured appointment line that checks out, the
// request is promoted into the scheduling path.
func (e *Engine) respondFreeform(ctx context.Context, patientID string, history []Message, message string, lang extract.Language, now time.Time) ChatResult {
	result := ChatResult{Language: lang}
	if e.llm == nil {
		result.Reply = respond.RenderSmallTalk(message, lang)
		return result
	}

	resp, err := e.llm.Complete(ctx, LLMRequest{
		System:      buildSystemPrompt(e.clinicName),
		Messages:    e.chatMessages(history, message),
		MaxTokens:   512,
		Temperature: 0.4,
	})
	if err != nil {
		e.metrics.ObserveLLM("error")
		e.logger.Warn("generative responder failed", "error", err)
		result.Reply = respond.RenderSmallTalk(message, lang)
		return result
	}
	e.metrics.ObserveLLM("ok")

	reply, data := splitAppointmentData(resp.Text)
	if cand, ok := e.candidateFromLLM(data, now); ok {
		outcome := e.manager.Process(ctx, patientID, schedule.Request{Candidate: &cand})
		result.Outcome = &outcome
		result.Reply = respond.RenderOutcome(outcome, lang)
		return result
	}

	if strings.TrimSpace(reply) == "" {
		reply = respond.RenderSmallTalk(message, lang)
	}
	result.Reply = reply
	return result
}

func (e *Engine) chatMessages(history []Message, current string) []ChatMessage {
	msgs := make([]ChatMessage, 0, len(history)+1)
	for _, m := range history {
		role := ChatRoleUser
		if m.Sender == SenderAssistant {
			role = ChatRoleAssistant
		}
		msgs = append(msgs, ChatMessage{Role: role, Content: m.Text})
	}
	return append(msgs, ChatMessage{Role: ChatRoleUser, Content: current})
}

type llmAppointmentData struct {
	Date   string `json:"date"`
	Time   string `json:"time"`
	Reason string `json:"reason"`
}

// splitAppointmentData separates the patient-facing reply from the
// machine-readable hand-off line, if the model emitted one.
func splitAppointmentData(text string) (reply, data string) {
	var kept []string
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if rest, ok := strings.CutPrefix(trimmed, appointmentDataMarker); ok {
			data = strings.TrimSpace(rest)
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n")), data
}

// candidateFromLLM validates the model's structured hand-off before trusting
// it. The date must be a real ISO date and the time must parse; a model that
// hallucinates either gets its line dropped on the floor.
func (e *Engine) candidateFromLLM(data string, now time.Time) (extract.Candidate, bool) {
	if data == "" {
		return extract.Candidate{}, false
	}

	var parsed llmAppointmentData
	if err := json.Unmarshal([]byte(data), &parsed); err != nil {
		e.logger.Warn("unparseable appointment data from responder", "error", err)
		return extract.Candidate{}, false
	}

	date, err := time.Parse("2006-01-02", parsed.Date)
	if err != nil || date.Before(now.AddDate(0, 0, -1)) {
		return extract.Candidate{}, false
	}
	if _, err := extract.ParseTimeOfDay(parsed.Time); err != nil {
		return extract.Candidate{}, false
	}

	reason := extract.ClassifyService(parsed.Reason)
	return extract.Candidate{Date: date, Time: parsed.Time, Reason: reason}, true
}

func (e *Engine) record(ctx context.Context, sessionID string, sender Sender, text string, at time.Time) {
	if strings.TrimSpace(text) == "" {
		return
	}
	err := e.logs.Append(ctx, sessionID, Message{Sender: sender, Text: text, Timestamp: at})
	if err != nil {
		e.logger.Warn("failed to record message", "error", err, "session_id", sessionID, "sender", sender)
	}
}

// History exposes recent session messages for the transport layer.
func (e *Engine) History(ctx context.Context, sessionID string, limit int) ([]Message, error) {
	if limit <= 0 {
		limit = e.historyLimit
	}
	return e.logs.GetRecent(ctx, sessionID, limit)
}
