/*
Package resilience provides a circuit breaker for background work that
touches the disk.

The autosave loop runs every snapshot write through a Breaker. After
repeated failures (a full or disconnected volume) the breaker opens and
later ticks are skipped until the cool-down passes, instead of logging the
same error every interval.

# Usage

	breaker := resilience.New("autosave", resilience.Settings{
		Timeout: 15 * time.Minute,
		ReadyToTrip: func(c resilience.Counts) bool {
			return c.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to resilience.State) {
			logger.Warn("breaker", zap.Stringer("from", from), zap.Stringer("to", to))
		},
	})

	err := breaker.Do(func() error {
		_, err := manager.Save(ctx)
		return err
	})

# States

	Closed --[failures]-> Open --[timeout]-> Half-Open --[successes]-> Closed
	                                           |
	                                       [failure]
	                                           v
	                                         Open
*/
package resilience
