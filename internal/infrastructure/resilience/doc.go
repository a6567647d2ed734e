/*
Package resilience provides the circuit breaker that guards the automation
backend.

When the scripting host stops answering, every queued command would
otherwise wait out its full deadline. The breaker opens after a run of
unreachable errors and fails calls immediately until a cooldown has passed,
then admits a limited number of probes.

# Usage

	breaker := resilience.New("osascript", resilience.Settings{
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts resilience.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			return !errors.Is(err, automation.ErrUnreachable)
		},
	})

	err := breaker.Execute(func() error {
		return backend.Run(ctx, script)
	})

IsSuccessful lets script-level failures (a syntax error, an app that
refuses a command) pass through without tripping the breaker; only errors
that mean the host itself is gone count as failures.

# States

	Closed --[failures]-> Open --[timeout]-> Half-Open --[successes]-> Closed
	                                           |
	                                    [failure]
	                                           |
	                                           v
	                                         Open
*/
package resilience
