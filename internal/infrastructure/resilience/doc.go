/*
Package resilience provides bounded-time polling for conditions that become
true eventually.

# Overview

A Poller re-runs an attempt at a fixed interval until it reports success or
a timeout, measured from the start of the run, has elapsed. It is the retry
loop behind lookups on documents that are still loading or being changed by
scripts.

# Features

- Deadline fixed once per run, never refreshed
- Attempt pacing through golang.org/x/time/rate, one limiter per run
- Attempt errors retained as LastErr without aborting the run
- Context cancellation stops the wait between attempts
- Attempt and state change callbacks for monitoring

# Usage

	poller := resilience.New("find", resilience.Settings{
		Timeout:  2 * time.Second,
		Interval: 50 * time.Millisecond,
		OnStateChange: func(name string, from, to resilience.State) {
			logger.Debug("poll finished", zap.Stringer("state", to))
		},
	})

	out, err := poller.Run(ctx, func(ctx context.Context) (bool, error) {
		el, err := lookup(ctx)
		return el != nil, err
	})

# States

- Polling: attempts are running
- Satisfied: an attempt reported done
- Exhausted: the deadline passed or ctx was cancelled

	Polling --[done]-> Satisfied
	   |
	[deadline]
	   |
	   v
	Exhausted
*/
package resilience
