package domain

import "errors"

var (
	// ErrUnknownLearner is returned when a submitted id is not in the roster.
	ErrUnknownLearner = errors.New("learner id not in roster")
	// ErrNameRequired is returned when a quiz is started without a learner name.
	ErrNameRequired = errors.New("learner name required")
	// ErrUnknownMode indicates an unrecognized question mode label.
	ErrUnknownMode = errors.New("unknown question mode")
	// ErrUnknownDifficulty indicates an unrecognized difficulty label.
	ErrUnknownDifficulty = errors.New("unknown difficulty selection")
	// ErrEmptyPool is returned when the selected difficulty has no words.
	ErrEmptyPool = errors.New("no words available for selection")
	// ErrNotAwaitingAnswer is returned when an answer arrives outside an
	// active question, e.g. while the review panel is up.
	ErrNotAwaitingAnswer = errors.New("no question awaiting an answer")
	// ErrCorrectionUnavailable is returned for a correction attempt when the
	// recorded answer was already correct.
	ErrCorrectionUnavailable = errors.New("correction only available after an incorrect answer")
	// ErrNothingToRetry is returned when a retry pass is requested but every
	// recorded answer was correct.
	ErrNothingToRetry = errors.New("no incorrect answers to retry")
	// ErrWrongPhase is returned for any event that is not valid in the
	// session's current phase.
	ErrWrongPhase = errors.New("action not valid in current phase")
	// ErrSessionClosed is returned once a session has been torn down.
	ErrSessionClosed = errors.New("session closed")
)
