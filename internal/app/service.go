package app

import (
	"context"
	"math/rand"
	"time"

	"eitango-quiz-service/internal/domain"
)

// CatalogRepository resolves the vocabulary set (from cache/backing store).
type CatalogRepository interface {
	Words(ctx context.Context) ([]domain.WordItem, error)
}

// RosterRepository resolves the learner allow-list.
type RosterRepository interface {
	Roster(ctx context.Context) (domain.Roster, error)
}

// Reporter hands a finished session's result document to the external sink.
type Reporter interface {
	Send(ctx context.Context, report domain.Report) error
}

// Options carries the recognized quiz configuration.
type Options struct {
	AppName            string
	QuestionCount      int
	SessionSeconds     int
	SessionTimer       bool
	PerQuestionSeconds int
	PerQuestionTimer   bool
	AutoReport         bool

	// TickInterval shortens countdown ticks in tests; zero means one second.
	TickInterval time.Duration
}

func (o Options) withDefaults() Options {
	if o.AppName == "" {
		o.AppName = "eitango-chu3"
	}
	if o.QuestionCount <= 0 {
		o.QuestionCount = 20
	}
	if o.SessionSeconds <= 0 {
		o.SessionSeconds = 300
	}
	if o.PerQuestionSeconds <= 0 {
		o.PerQuestionSeconds = 20
	}
	if o.TickInterval <= 0 {
		o.TickInterval = time.Second
	}
	return o
}

// QuizService builds per-learner quiz sessions from shared collaborators.
type QuizService struct {
	catalog  CatalogRepository
	roster   RosterRepository
	reporter Reporter
	opts     Options
}

// NewQuizService wires the engine's collaborators. reporter may be nil when
// result reporting is not configured; sessions then skip reporting silently.
func NewQuizService(catalog CatalogRepository, roster RosterRepository, reporter Reporter, opts Options) *QuizService {
	return &QuizService{
		catalog:  catalog,
		roster:   roster,
		reporter: reporter,
		opts:     opts.withDefaults(),
	}
}

// NewSession resolves the word set and roster and returns a fresh session in
// the authenticating phase. deviceInfo is the client descriptor recorded in
// result reports.
func (s *QuizService) NewSession(ctx context.Context, deviceInfo string) (*Session, error) {
	words, err := s.catalog.Words(ctx)
	if err != nil {
		return nil, err
	}
	roster, err := s.roster.Roster(ctx)
	if err != nil {
		return nil, err
	}
	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
	return newSession(words, roster, s.reporter, s.opts, deviceInfo, rnd), nil
}

// NewSessionWithRand is test support for deterministic draws.
func (s *QuizService) NewSessionWithRand(ctx context.Context, deviceInfo string, rnd *rand.Rand) (*Session, error) {
	words, err := s.catalog.Words(ctx)
	if err != nil {
		return nil, err
	}
	roster, err := s.roster.Roster(ctx)
	if err != nil {
		return nil, err
	}
	return newSession(words, roster, s.reporter, s.opts, deviceInfo, rnd), nil
}
