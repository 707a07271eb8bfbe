package finder

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/domfinder/internal/dom"
	"github.com/GriffinCanCode/domfinder/internal/infrastructure/logging"
	"github.com/GriffinCanCode/domfinder/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/domfinder/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/domfinder/internal/selector"
)

const (
	opFind  = "find"
	opFirst = "first"
	opAll   = "all"
	opHas   = "has"
	opHasNo = "has_no"
)

// All returns every match in one pass, in expression order and then document
// order. It never waits and never reports not-found.
func (s *Session) All(ctx context.Context, args ...any) ([]*Element, error) {
	return s.all(ctx, nil, args)
}

// First returns the first match of one pass, or nil. It never waits.
func (s *Session) First(ctx context.Context, args ...any) (*Element, error) {
	return s.first(ctx, nil, args)
}

// Find returns the first match, polling until the wait elapses when the
// backend is dynamic. It fails with a *NotFoundError otherwise.
func (s *Session) Find(ctx context.Context, args ...any) (*Element, error) {
	return s.find(ctx, opFind, nil, args)
}

// FindField is Find with the field kind
func (s *Session) FindField(ctx context.Context, args ...any) (*Element, error) {
	return s.find(ctx, opFind, nil, pin(selector.Field, args))
}

// FindLink is Find with the link kind
func (s *Session) FindLink(ctx context.Context, args ...any) (*Element, error) {
	return s.find(ctx, opFind, nil, pin(selector.Link, args))
}

// FindButton is Find with the button kind
func (s *Session) FindButton(ctx context.Context, args ...any) (*Element, error) {
	return s.find(ctx, opFind, nil, pin(selector.Button, args))
}

// FindByID is Find with the id kind
func (s *Session) FindByID(ctx context.Context, args ...any) (*Element, error) {
	return s.find(ctx, opFind, nil, pin(selector.ID, args))
}

// HasSelector polls until a match appears and reports whether it did
func (s *Session) HasSelector(ctx context.Context, args ...any) (bool, error) {
	return s.has(ctx, nil, args, true)
}

// HasNoSelector polls until no match remains and reports whether that
// happened before the wait elapsed
func (s *Session) HasNoSelector(ctx context.Context, args ...any) (bool, error) {
	return s.has(ctx, nil, args, false)
}

// Within finds an element and runs fn scoped to it
func (s *Session) Within(ctx context.Context, fn func(*Element) error, args ...any) error {
	return s.within(ctx, nil, fn, args)
}

func (s *Session) all(ctx context.Context, parent *Element, args []any) ([]*Element, error) {
	settings := s.settings
	sel, err := s.selector(settings, args)
	if err != nil {
		return nil, err
	}
	timer := monitoring.NewTimer(s.metrics, opAll, string(sel.Name()))

	matches, p := s.collect(ctx, parent, sel)
	if err := p.err(); err != nil {
		timer.Stop(monitoring.OutcomeError)
		return nil, fmt.Errorf("all %s: %w", sel, err)
	}

	s.logger.Debug("lookup pass", append(s.fields(opAll, sel), zap.Int("matches", len(matches)))...)
	timer.Stop(outcome(len(matches) > 0))
	return matches, nil
}

func (s *Session) first(ctx context.Context, parent *Element, args []any) (*Element, error) {
	settings := s.settings
	sel, err := s.selector(settings, args)
	if err != nil {
		return nil, err
	}
	timer := monitoring.NewTimer(s.metrics, opFirst, string(sel.Name()))

	el, p := s.pick(ctx, parent, sel, settings.PreferVisible)
	if el == nil {
		if err := p.err(); err != nil {
			timer.Stop(monitoring.OutcomeError)
			return nil, fmt.Errorf("first %s: %w", sel, err)
		}
	}

	s.logger.Debug("lookup pass", append(s.fields(opFirst, sel), zap.Bool("found", el != nil))...)
	timer.Stop(outcome(el != nil))
	return el, nil
}

func (s *Session) find(ctx context.Context, op string, parent *Element, args []any) (*Element, error) {
	settings := s.settings
	sel, err := s.selector(settings, args)
	if err != nil {
		return nil, err
	}
	timer := monitoring.NewTimer(s.metrics, op, string(sel.Name()))

	var found *Element
	out, _ := s.poll(ctx, op, sel, settings, func(ctx context.Context) (bool, error) {
		el, p := s.pick(ctx, parent, sel, settings.PreferVisible)
		found = el
		return el != nil, p.lastErr
	})
	if found != nil {
		timer.Stop(monitoring.OutcomeFound)
		return found, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		timer.Stop(monitoring.OutcomeError)
		return nil, fmt.Errorf("%s %s: %w", op, sel, ctxErr)
	}

	timer.Stop(monitoring.OutcomeNotFound)
	nf := notFound(parentNode(parent), sel, out.LastErr)
	s.logger.Debug("lookup exhausted", append(s.fields(op, sel),
		zap.Int("attempts", out.Attempts),
		zap.Duration("elapsed", out.Elapsed),
		zap.String("message", nf.Message))...)
	return nil, nf
}

func (s *Session) has(ctx context.Context, parent *Element, args []any, present bool) (bool, error) {
	op := opHas
	if !present {
		op = opHasNo
	}

	settings := s.settings
	sel, err := s.selector(settings, args)
	if err != nil {
		return false, err
	}
	timer := monitoring.NewTimer(s.metrics, op, string(sel.Name()))

	out, _ := s.poll(ctx, op, sel, settings, func(ctx context.Context) (bool, error) {
		el, p := s.pick(ctx, parent, sel, false)
		if err := p.err(); err != nil {
			// an unqueryable document proves neither presence nor absence
			return false, err
		}
		return (el != nil) == present, nil
	})
	if out.State == resilience.StateSatisfied {
		timer.Stop(monitoring.OutcomeFound)
		return true, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		timer.Stop(monitoring.OutcomeError)
		return false, fmt.Errorf("%s %s: %w", op, sel, ctxErr)
	}
	timer.Stop(monitoring.OutcomeNotFound)
	return false, nil
}

func (s *Session) within(ctx context.Context, parent *Element, fn func(*Element) error, args []any) error {
	el, err := s.find(ctx, opFind, parent, args)
	if err != nil {
		return err
	}
	return fn(el)
}

// poll runs attempt under a poller bounded by the effective wait. Static
// documents cannot change, so they get exactly one attempt.
func (s *Session) poll(ctx context.Context, op string, sel *selector.Selector, settings Settings, attempt resilience.Attempt) (resilience.Outcome, error) {
	wait := settings.DefaultWait
	if w := sel.Options().Wait; w != nil {
		wait = *w
	}
	if !s.backend.Dynamic() {
		wait = 0
	}

	fields := s.fields(op, sel)
	poller := resilience.New(op, resilience.Settings{
		Timeout:  wait,
		Interval: settings.PollInterval,
		OnAttempt: func(name string, n int, err error) {
			if ce := s.logger.Check(zap.DebugLevel, "lookup attempt"); ce != nil {
				ce.Write(append(fields, zap.Int("attempt", n), zap.Error(err))...)
			}
		},
	})

	out, err := poller.Run(ctx, attempt)
	s.metrics.ObservePollAttempts(out.Attempts)
	return out, err
}

func (s *Session) fields(op string, sel *selector.Selector) []zap.Field {
	return logging.Lookup(op, string(sel.Name()), sel.Locator().String())
}

func outcome(found bool) string {
	if found {
		return monitoring.OutcomeFound
	}
	return monitoring.OutcomeNotFound
}

// parentNode is the scope handed to failure hooks; nil means the document
func parentNode(parent *Element) dom.Node {
	if parent == nil {
		return nil
	}
	return parent.node
}
