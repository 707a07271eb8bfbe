package scripted

import (
	"context"
	"sort"
	"time"

	"github.com/dop251/goja"
)

type timer struct {
	id       int64
	due      time.Time
	interval time.Duration
	repeat   bool
	fn       goja.Callable
	args     []goja.Value
}

func (p *Page) installTimers() error {
	if err := p.vm.Set("setTimeout", p.schedule(false)); err != nil {
		return err
	}
	if err := p.vm.Set("setInterval", p.schedule(true)); err != nil {
		return err
	}
	if err := p.vm.Set("clearTimeout", p.cancel); err != nil {
		return err
	}
	return p.vm.Set("clearInterval", p.cancel)
}

func (p *Page) schedule(repeat bool) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		fn, ok := goja.AssertFunction(call.Argument(0))
		if !ok {
			panic(p.vm.NewTypeError("timer callback must be a function"))
		}

		delay := time.Duration(call.Argument(1).ToInteger()) * time.Millisecond
		if delay < 0 {
			delay = 0
		}
		var args []goja.Value
		if len(call.Arguments) > 2 {
			args = append(args, call.Arguments[2:]...)
		}

		p.timerID++
		p.timers = append(p.timers, &timer{
			id:       p.timerID,
			due:      p.now().Add(delay),
			interval: delay,
			repeat:   repeat,
			fn:       fn,
			args:     args,
		})
		return p.vm.ToValue(p.timerID)
	}
}

func (p *Page) cancel(call goja.FunctionCall) goja.Value {
	id := call.Argument(0).ToInteger()
	for i, t := range p.timers {
		if t.id == id {
			p.timers = append(p.timers[:i], p.timers[i+1:]...)
			break
		}
	}
	return goja.Undefined()
}

// fireDue runs every timer whose due time has passed, earliest first.
// Callers hold p.mu.
func (p *Page) fireDue(ctx context.Context) {
	limit := p.config.MaxTimersPerTick
	if limit <= 0 {
		limit = DefaultConfig().MaxTimersPerTick
	}

	for fired := 0; fired < limit; fired++ {
		t := p.nextDue(p.now())
		if t == nil {
			return
		}
		_, err := p.guard(ctx, func() (goja.Value, error) {
			return t.fn(goja.Undefined(), t.args...)
		})
		if err != nil {
			p.consoleMu.Lock()
			p.console = append(p.console, LogEntry{Level: "error", Message: err.Error(), Time: p.now()})
			p.consoleMu.Unlock()
		}
	}
}

// nextDue pops the earliest due timer, rescheduling intervals
func (p *Page) nextDue(now time.Time) *timer {
	sort.SliceStable(p.timers, func(i, j int) bool {
		return p.timers[i].due.Before(p.timers[j].due)
	})
	if len(p.timers) == 0 || p.timers[0].due.After(now) {
		return nil
	}

	t := p.timers[0]
	p.timers = p.timers[1:]
	if t.repeat {
		next := *t
		step := t.interval
		if step <= 0 {
			step = time.Millisecond
		}
		next.due = now.Add(step)
		p.timers = append(p.timers, &next)
	}
	return t
}
