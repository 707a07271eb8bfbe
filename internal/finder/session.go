package finder

import (
	"github.com/google/uuid"

	"github.com/GriffinCanCode/domfinder/internal/dom"
	"github.com/GriffinCanCode/domfinder/internal/infrastructure/logging"
	"github.com/GriffinCanCode/domfinder/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/domfinder/internal/selector"
)

// Session runs lookups against one document backend. Its settings are fixed
// at construction, so concurrent lookups share no mutable state.
type Session struct {
	id       string
	backend  dom.Backend
	registry *selector.Registry
	settings Settings
	logger   *logging.Logger
	metrics  *monitoring.Metrics
}

// Option configures a Session
type Option func(*Session)

// WithSettings replaces the default settings
func WithSettings(settings Settings) Option {
	return func(s *Session) {
		s.settings = settings
	}
}

// WithRegistry sets the selector kind registry
func WithRegistry(registry *selector.Registry) Option {
	return func(s *Session) {
		s.registry = registry
	}
}

// WithLogger sets the logger; lookups log at debug level
func WithLogger(logger *logging.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithMetrics sets the metrics collector
func WithMetrics(metrics *monitoring.Metrics) Option {
	return func(s *Session) {
		s.metrics = metrics
	}
}

// New creates a session over backend
func New(backend dom.Backend, opts ...Option) *Session {
	s := &Session{
		id:       uuid.NewString(),
		backend:  backend,
		settings: DefaultSettings(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.registry == nil {
		s.registry = selector.DefaultRegistry()
	}
	if s.logger == nil {
		s.logger = logging.NewNop()
	}
	s.logger = s.logger.WithSession(s.id)
	return s
}

// ID returns the session id used in logs
func (s *Session) ID() string { return s.id }

// Backend returns the document backend
func (s *Session) Backend() dom.Backend { return s.backend }

// Registry returns the selector kind registry
func (s *Session) Registry() *selector.Registry { return s.registry }

// Settings returns the session's configuration snapshot
func (s *Session) Settings() Settings { return s.settings }

// selector normalizes args and expands them against the registry
func (s *Session) selector(settings Settings, args []any) (*selector.Selector, error) {
	normalized, _ := selector.Normalize(args, settings.IgnoreHidden)
	return selector.New(s.registry, normalized, settings.DefaultKind)
}
