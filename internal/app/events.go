package app

import "eitango-quiz-service/internal/domain"

// EventType tags the engine's outbound events. The transport forwards these
// verbatim as websocket message types.
type EventType string

const (
	EventAuthenticated EventType = "authenticated"
	EventAvailability  EventType = "availability"
	EventQuestion      EventType = "question"
	EventTimer         EventType = "timer"
	EventReview        EventType = "review"
	EventCorrection    EventType = "correction"
	EventFinished      EventType = "finished"
	EventReport        EventType = "report"
)

// Event is one engine-to-client notification.
type Event struct {
	Type    EventType
	Payload any
}

// AvailabilityEntry tells the client how many words a difficulty selection
// would yield, driving the disabled-start affordance.
type AvailabilityEntry struct {
	Difficulty string `json:"difficulty"`
	Available  int    `json:"available"`
}

// AuthenticatedPayload confirms a roster hit. Name may be empty when the
// roster carries no display name for the id; the client keeps whatever the
// learner typed in that case.
type AuthenticatedPayload struct {
	LearnerID    string              `json:"learnerId"`
	Name         string              `json:"name"`
	Modes        []string            `json:"modes"`
	Availability []AvailabilityEntry `json:"availability"`
	TotalWords   int                 `json:"totalWords"`
}

// AvailabilityPayload answers an on-demand availability request with
// recomputed counts.
type AvailabilityPayload struct {
	Entries    []AvailabilityEntry `json:"entries"`
	TotalWords int                 `json:"totalWords"`
}

// QuestionPayload presents the current prompt.
type QuestionPayload struct {
	Index             int    `json:"index"`
	Total             int    `json:"total"`
	Prompt            string `json:"prompt"`
	SessionRemaining  *int   `json:"sessionRemaining,omitempty"`
	QuestionRemaining *int   `json:"questionRemaining,omitempty"`
}

// TimerPayload carries countdown updates once per second while a question is
// awaiting an answer.
type TimerPayload struct {
	SessionRemaining  *int `json:"sessionRemaining,omitempty"`
	QuestionRemaining *int `json:"questionRemaining,omitempty"`
}

// ReviewPayload surfaces the judged record right after a submission.
type ReviewPayload struct {
	Record domain.AnswerRecord `json:"record"`
	Last   bool                `json:"last"`
}

// CorrectionPayload is the outcome of an inline re-attempt during review.
// A correct re-attempt auto-advances; it never changes the recorded answer.
type CorrectionPayload struct {
	Correct bool `json:"correct"`
}

// FinishedPayload closes a session pass.
type FinishedPayload struct {
	Score       int                   `json:"score"`
	Answered    int                   `json:"answered"`
	Total       int                   `json:"total"`
	WrongCount  int                   `json:"wrongCount"`
	DurationSec *int                  `json:"durationSec"`
	Reason      string                `json:"reason"`
	Answers     []domain.AnswerRecord `json:"answers"`
}

// Finish reasons.
const (
	FinishCompleted = "completed"
	FinishStopped   = "stopped"
	FinishTimeout   = "timeout"
)

// ReportPayload reflects the outcome of a result-sink handoff. Failures are
// a dismissible notice, never fatal.
type ReportPayload struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

const (
	ReportSent   = "sent"
	ReportFailed = "failed"
)
