// Package cache keeps the client-side copy of every remote collection.
//
// # Overview
//
// Each collection (profile, workouts, goals, meals, activities) holds the
// last snapshot fetched from the remote service plus a freshness flag:
//
//	absent ──Ensure──→ in flight ──reply──→ fresh
//	                                          │
//	fresh ──Invalidate──→ stale ──Ensure──→ in flight
//
// Readers always get the latest snapshot, even when it is stale. A stale
// collection is refetched the next time something calls Ensure for it, and
// at most one fetch per collection runs at a time.
//
// # Failures
//
// A failed fetch keeps the previous data and records the error together with
// a consecutive failure count. The collection is not retried automatically:
// the next Invalidate (from a mutation or a periodic refresh) unblocks it.
//
// # Bulk operations
//
// ClearFresh turns every collection into a fresh empty snapshot, which is what
// a successful delete-all leaves behind. Reset forgets everything, which is
// what signing out needs. Both bump an internal generation so replies to
// fetches issued earlier are dropped instead of resurrecting old data.
//
// # Notifications
//
// Subscribe delivers Replaced, Invalidated, Failed and Cleared events after
// the lock is released. The app layer uses them to trigger refetches and to
// redraw the UI.
package cache
