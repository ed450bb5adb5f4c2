// Package workout implements the workout scheduling and session state
// machine: state resolution per (user, date), the session lifecycle, and
// generation of concrete schedule instances from recurring weekly plans.
package workout

import (
	"errors"
	"log/slog"
	"time"

	"github.com/claude/liftlog/internal/storage"
)

// Sentinel errors for operations that cannot proceed without their entity.
var (
	ErrTemplateNotFound = errors.New("template not found")
	ErrSessionNotFound  = errors.New("session not found")
)

// horizonDays is the fixed look-ahead window over which recurring schedule
// definitions are materialized into dated instances.
const horizonDays = 28

// dateFormat is the wire format for all workout dates.
const dateFormat = "2006-01-02"

// Service is the workout core. It talks to storage only through the Store
// contract, so the remote backend, the local fallback, or the decorator
// combining them are all interchangeable behind it.
type Service struct {
	store storage.Store
	defs  storage.DefinitionStore
	log   *slog.Logger

	now   func() time.Time
	today func() string
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source, used by tests to pin dates.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
		s.today = func() string { return now().Format(dateFormat) }
	}
}

// New creates a Service. The default clock is local time; "today" is the
// local-timezone calendar date.
func New(store storage.Store, defs storage.DefinitionStore, log *slog.Logger, opts ...Option) *Service {
	s := &Service{
		store: store,
		defs:  defs,
		log:   log,
		now:   time.Now,
		today: func() string { return time.Now().Format(dateFormat) },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func parseDate(s string) (time.Time, error) {
	return time.ParseInLocation(dateFormat, s, time.Local)
}
