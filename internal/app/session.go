package app

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"eitango-quiz-service/internal/countdown"
	"eitango-quiz-service/internal/domain"
	"eitango-quiz-service/internal/judge"
	"eitango-quiz-service/internal/pool"
)

// Session is the quiz state machine for a single learner. All mutation goes
// through its methods; countdown callbacks are serialized through the same
// mutex, so transitions run one at a time. The transport consumes Events and
// feeds learner actions in.
type Session struct {
	mu sync.Mutex

	opts       Options
	words      []domain.WordItem
	roster     domain.Roster
	reporter   Reporter
	rnd        *rand.Rand
	deviceInfo string

	phase       domain.Phase
	learnerID   string
	learnerName string
	mode        domain.Mode
	selection   domain.DifficultySelection

	questionSetID string
	questions     []domain.WordItem
	answers       []domain.AnswerRecord
	current       int
	durationSec   *int

	sessionClock  *countdown.Countdown
	questionClock *countdown.Countdown

	events chan Event
	closed bool
}

func newSession(words []domain.WordItem, roster domain.Roster, reporter Reporter, opts Options, deviceInfo string, rnd *rand.Rand) *Session {
	return &Session{
		opts:       opts,
		words:      words,
		roster:     roster,
		reporter:   reporter,
		rnd:        rnd,
		deviceInfo: deviceInfo,
		phase:      domain.PhaseAuthenticating,
		events:     make(chan Event, 32),
	}
}

// Events returns the engine's outbound event stream. The channel is closed
// by Close.
func (s *Session) Events() <-chan Event {
	return s.events
}

// ID returns the identifier of the current question set, empty before the
// first start.
func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.questionSetID
}

// Phase returns the session's current phase.
func (s *Session) Phase() domain.Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Authenticate checks the learner id against the roster. On a miss the
// phase does not change and the learner may retry.
func (s *Session) Authenticate(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.ErrSessionClosed
	}
	if s.phase != domain.PhaseAuthenticating {
		return domain.ErrWrongPhase
	}
	name, ok := s.roster[strings.TrimSpace(id)]
	if !ok {
		return domain.ErrUnknownLearner
	}
	s.learnerID = strings.TrimSpace(id)
	s.learnerName = name
	s.phase = domain.PhaseSetup

	modes := make([]string, 0, len(domain.Modes))
	for _, m := range domain.Modes {
		modes = append(modes, string(m))
	}
	s.emitLocked(Event{Type: EventAuthenticated, Payload: AuthenticatedPayload{
		LearnerID:    s.learnerID,
		Name:         name,
		Modes:        modes,
		Availability: s.availabilityLocked(),
		TotalWords:   len(s.words),
	}})
	return nil
}

// Availability recomputes the filtered pool size per difficulty selection.
// It is a pure derivation from the loaded words, recomputed on demand.
func (s *Session) Availability() []AvailabilityEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.availabilityLocked()
}

// RefreshAvailability re-emits the current counts so the client can keep the
// disabled-start affordance fresh. Only meaningful once authenticated.
func (s *Session) RefreshAvailability() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.ErrSessionClosed
	}
	if s.phase == domain.PhaseAuthenticating {
		return domain.ErrWrongPhase
	}
	s.emitLocked(Event{Type: EventAvailability, Payload: AvailabilityPayload{
		Entries:    s.availabilityLocked(),
		TotalWords: len(s.words),
	}})
	return nil
}

func (s *Session) availabilityLocked() []AvailabilityEntry {
	entries := make([]AvailabilityEntry, 0, len(domain.Selections))
	for _, sel := range domain.Selections {
		entries = append(entries, AvailabilityEntry{
			Difficulty: sel.Label,
			Available:  len(pool.Filter(s.words, sel)),
		})
	}
	return entries
}

// Start draws a question sequence and begins the quiz. It requires a
// non-empty learner name and a non-empty filtered pool.
func (s *Session) Start(name, modeLabel, difficultyLabel string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.ErrSessionClosed
	}
	if s.phase != domain.PhaseSetup {
		return domain.ErrWrongPhase
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return domain.ErrNameRequired
	}
	mode, ok := domain.ModeByLabel(modeLabel)
	if !ok {
		return domain.ErrUnknownMode
	}
	selection, ok := domain.SelectionByLabel(difficultyLabel)
	if !ok {
		return domain.ErrUnknownDifficulty
	}
	filtered := pool.Filter(s.words, selection)
	if len(filtered) == 0 {
		return domain.ErrEmptyPool
	}

	s.learnerName = name
	s.mode = mode
	s.selection = selection
	s.beginLocked(pool.Draw(s.rnd, filtered, s.opts.QuestionCount))
	return nil
}

// beginLocked starts a pass over the given question sequence: fresh answer
// log, fresh identifiers, fresh clocks.
func (s *Session) beginLocked(questions []domain.WordItem) {
	s.stopClocksLocked()

	s.questionSetID = uuid.NewString()
	s.questions = questions
	s.answers = nil
	s.current = 0
	s.durationSec = nil
	s.phase = domain.PhaseInProgress

	if s.opts.SessionTimer {
		var c *countdown.Countdown
		c = countdown.NewWithInterval(s.opts.SessionSeconds, s.opts.TickInterval,
			func(int) { s.handleSessionTick(c) },
			func() { s.handleSessionExpire(c) })
		s.sessionClock = c
		c.Start()
	}
	s.startQuestionClockLocked()
	s.emitQuestionLocked()
}

func (s *Session) startQuestionClockLocked() {
	if !s.opts.PerQuestionTimer {
		return
	}
	var c *countdown.Countdown
	c = countdown.NewWithInterval(s.opts.PerQuestionSeconds, s.opts.TickInterval,
		func(int) { s.handleQuestionTick(c) },
		func() { s.handleQuestionExpire(c) })
	s.questionClock = c
	c.Start()
}

// Submit judges the learner's answer for the current question and moves the
// session into the review phase. The countdown-triggered timeout goes
// through the same path with an empty input.
func (s *Session) Submit(input string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.ErrSessionClosed
	}
	switch s.phase {
	case domain.PhaseInProgress:
	case domain.PhaseReviewing:
		// One record per index per pass; the submit control is inert here.
		return domain.ErrNotAwaitingAnswer
	default:
		return domain.ErrWrongPhase
	}
	s.submitLocked(input)
	return nil
}

func (s *Session) submitLocked(input string) {
	item := s.questions[s.current]
	record := domain.AnswerRecord{
		Index:    s.current,
		Prompt:   item.Prompt(s.mode),
		Given:    input,
		Expected: item.Expected(s.mode),
		Correct:  judge.Correct(s.mode, input, item),
	}
	s.answers = append(s.answers, record)
	s.phase = domain.PhaseReviewing

	// The session countdown suspends while the review panel is visible.
	if s.sessionClock != nil {
		s.sessionClock.Pause()
	}
	if s.questionClock != nil {
		s.questionClock.Stop()
		s.questionClock = nil
	}

	s.emitLocked(Event{Type: EventReview, Payload: ReviewPayload{
		Record: record,
		Last:   s.current+1 >= len(s.questions),
	}})
}

// Retry re-judges an inline re-attempt during review. It never creates a
// record and never alters the original one; a successful re-attempt just
// advances to the next question as a convenience.
func (s *Session) Retry(input string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.ErrSessionClosed
	}
	if s.phase != domain.PhaseReviewing {
		return domain.ErrWrongPhase
	}
	last := s.answers[len(s.answers)-1]
	if last.Correct {
		return domain.ErrCorrectionUnavailable
	}

	correct := judge.Correct(s.mode, input, s.questions[s.current])
	s.emitLocked(Event{Type: EventCorrection, Payload: CorrectionPayload{Correct: correct}})
	if correct {
		s.advanceLocked()
	}
	return nil
}

// Next acknowledges the review panel and advances to the next question, or
// finishes the pass after the last one.
func (s *Session) Next() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.ErrSessionClosed
	}
	if s.phase != domain.PhaseReviewing {
		return domain.ErrWrongPhase
	}
	s.advanceLocked()
	return nil
}

func (s *Session) advanceLocked() {
	if s.current+1 >= len(s.questions) {
		s.finishLocked(FinishCompleted)
		return
	}
	s.current++
	s.phase = domain.PhaseInProgress
	if s.sessionClock != nil {
		s.sessionClock.Resume()
	}
	s.startQuestionClockLocked()
	s.emitQuestionLocked()
}

// Stop ends the session early, keeping whatever answers were recorded.
func (s *Session) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.ErrSessionClosed
	}
	if s.phase != domain.PhaseInProgress && s.phase != domain.PhaseReviewing {
		return domain.ErrWrongPhase
	}
	s.finishLocked(FinishStopped)
	return nil
}

func (s *Session) finishLocked(reason string) {
	if s.sessionClock != nil {
		s.sessionClock.Stop()
		if s.opts.SessionTimer {
			elapsed := s.opts.SessionSeconds - s.sessionClock.Remaining()
			if elapsed < 0 {
				elapsed = 0
			}
			s.durationSec = &elapsed
		}
		s.sessionClock = nil
	}
	if s.questionClock != nil {
		s.questionClock.Stop()
		s.questionClock = nil
	}
	s.phase = domain.PhaseFinished

	s.emitLocked(Event{Type: EventFinished, Payload: FinishedPayload{
		Score:       s.scoreLocked(),
		Answered:    len(s.answers),
		Total:       len(s.questions),
		WrongCount:  len(pool.Wrong(s.questions, s.answers)),
		DurationSec: s.durationSec,
		Reason:      reason,
		Answers:     s.answers,
	}})

	if s.opts.AutoReport {
		s.reportLocked()
	}
}

func (s *Session) scoreLocked() int {
	score := 0
	for _, rec := range s.answers {
		if rec.Correct {
			score++
		}
	}
	return score
}

// Score returns the count of correct recorded answers.
func (s *Session) Score() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scoreLocked()
}

// Answers returns a copy of the answer log.
func (s *Session) Answers() []domain.AnswerRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.AnswerRecord, len(s.answers))
	copy(out, s.answers)
	return out
}

// RetryWrong starts a new pass over the questions answered incorrectly,
// keeping learner, mode and difficulty.
func (s *Session) RetryWrong() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.ErrSessionClosed
	}
	if s.phase != domain.PhaseFinished {
		return domain.ErrWrongPhase
	}
	wrong := pool.Wrong(s.questions, s.answers)
	if len(wrong) == 0 {
		return domain.ErrNothingToRetry
	}
	s.beginLocked(pool.Draw(s.rnd, wrong, s.opts.QuestionCount))
	return nil
}

// Restart discards the finished session and returns to authentication.
func (s *Session) Restart() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.ErrSessionClosed
	}
	if s.phase != domain.PhaseFinished {
		return domain.ErrWrongPhase
	}
	s.stopClocksLocked()
	s.phase = domain.PhaseAuthenticating
	s.learnerID = ""
	s.learnerName = ""
	s.questions = nil
	s.answers = nil
	s.current = 0
	s.questionSetID = ""
	s.durationSec = nil
	return nil
}

// Report hands the finished session to the result sink, fire-and-forget.
// With no sink configured it is a silent no-op. Delivery failures surface
// as a dismissible report event, never an error.
func (s *Session) Report() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.ErrSessionClosed
	}
	if s.phase != domain.PhaseFinished {
		return domain.ErrWrongPhase
	}
	s.reportLocked()
	return nil
}

func (s *Session) reportLocked() {
	if s.reporter == nil {
		return
	}
	questions := make([]domain.ReportQuestion, 0, len(s.questions))
	for _, q := range s.questions {
		questions = append(questions, domain.ReportQuestion{
			English:  q.English,
			Japanese: q.Japanese,
			Level:    q.Level,
		})
	}
	report := domain.Report{
		App:           s.opts.AppName,
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		UserName:      s.learnerName,
		Mode:          string(s.mode),
		Difficulty:    s.selection.Label,
		Score:         s.scoreLocked(),
		DurationSec:   s.durationSec,
		QuestionSetID: s.questionSetID,
		Questions:     questions,
		Answers:       s.answers,
		DeviceInfo:    s.deviceInfo,
	}

	go func() {
		err := s.reporter.Send(context.Background(), report)
		s.mu.Lock()
		defer s.mu.Unlock()
		if err != nil {
			s.emitLocked(Event{Type: EventReport, Payload: ReportPayload{
				Status:  ReportFailed,
				Message: err.Error(),
			}})
			return
		}
		s.emitLocked(Event{Type: EventReport, Payload: ReportPayload{Status: ReportSent}})
	}()
}

// Close tears the session down: clocks stopped, event channel closed.
// Safe to call more than once.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.stopClocksLocked()
	s.closed = true
	close(s.events)
}

func (s *Session) stopClocksLocked() {
	if s.sessionClock != nil {
		s.sessionClock.Stop()
		s.sessionClock = nil
	}
	if s.questionClock != nil {
		s.questionClock.Stop()
		s.questionClock = nil
	}
}

// Countdown callbacks. Each verifies the firing clock is still the live one
// so a tick racing a transition can never mutate a newer pass.

func (s *Session) handleSessionTick(c *countdown.Countdown) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sessionClock != c || s.phase != domain.PhaseInProgress {
		return
	}
	s.emitTimerLocked()
}

func (s *Session) handleSessionExpire(c *countdown.Countdown) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sessionClock != c {
		return
	}
	if s.phase != domain.PhaseInProgress && s.phase != domain.PhaseReviewing {
		return
	}
	s.finishLocked(FinishTimeout)
}

func (s *Session) handleQuestionTick(c *countdown.Countdown) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.questionClock != c || s.phase != domain.PhaseInProgress {
		return
	}
	s.emitTimerLocked()
}

func (s *Session) handleQuestionExpire(c *countdown.Countdown) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.questionClock != c || s.phase != domain.PhaseInProgress {
		return
	}
	// Timeout counts as an unanswered submission.
	s.submitLocked("")
}

func (s *Session) emitQuestionLocked() {
	payload := QuestionPayload{
		Index:  s.current,
		Total:  len(s.questions),
		Prompt: s.questions[s.current].Prompt(s.mode),
	}
	if s.sessionClock != nil {
		r := s.sessionClock.Remaining()
		payload.SessionRemaining = &r
	}
	if s.questionClock != nil {
		r := s.questionClock.Remaining()
		payload.QuestionRemaining = &r
	}
	s.emitLocked(Event{Type: EventQuestion, Payload: payload})
}

func (s *Session) emitTimerLocked() {
	payload := TimerPayload{}
	if s.sessionClock != nil {
		r := s.sessionClock.Remaining()
		payload.SessionRemaining = &r
	}
	if s.questionClock != nil {
		r := s.questionClock.Remaining()
		payload.QuestionRemaining = &r
	}
	s.emitLocked(Event{Type: EventTimer, Payload: payload})
}

// emitLocked pushes an event, dropping the oldest pending one when the
// consumer lags so transitions never block on a slow socket.
func (s *Session) emitLocked(ev Event) {
	if s.closed {
		return
	}
	select {
	case s.events <- ev:
	default:
		select {
		case <-s.events:
		default:
		}
		s.events <- ev
	}
}
