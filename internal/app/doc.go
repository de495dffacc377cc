// Package app is the composition root of the fitdeck client.
//
// # Overview
//
// Run wires configuration, the remote gateway, the cache store, the
// mutation dispatcher, the activity tracker and the UI, then blocks until
// the user quits:
//
//	Run()
//	 ├─ config.Load / prefs.Load
//	 ├─ tea.LogToFile          standard logger → log_file
//	 ├─ newGateway             HTTP client, or Unavailable when signed out
//	 ├─ cache.NewStore         fetches through the gateway
//	 ├─ mutation.NewDispatcher writes + invalidation
//	 ├─ session.NewTracker     live activity tracking
//	 ├─ StartRefetcher         background fetch loop
//	 └─ ui.Run                 blocks
//
// # Refetch loop
//
// The loop calls EnsureAll whenever the store reports an invalidation and
// once per poll interval after marking every collection stale. EnsureAll
// only fetches collections that are absent or stale and not already in
// flight, so a burst of invalidations costs one fetch per collection.
// Failed fetches are not retried until the collection is invalidated again.
//
// # Shutdown
//
// On exit the loop is stopped, the tracker's tick is cancelled, in-flight
// fetches are awaited and the store is reset so nothing from the signed-in
// session survives.
package app
