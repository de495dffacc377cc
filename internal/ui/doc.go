// Package ui is fitdeck's terminal interface, built on Bubble Tea.
//
// The Model never talks to the remote service for reads. It renders
// cache.Snapshot values and re-snapshots whenever the store reports a change,
// so every view reflects the same consistent state. Writes go through the
// mutation dispatcher as tea.Cmds; their outcome comes back as a toast, and
// the invalidations they trigger come back as store changes.
//
// Views:
//
//   - Dashboard: weekly counts, totals, recent activities and workouts, active goals
//   - Workouts, Goals, Nutrition: lists with create and delete
//   - Activity: the live session tracker and activity history
//   - Settings: profile, units, export and delete-all
//   - Logs: fitdeck's own log file
//
// Key bindings live in keys.go and are listed by the help overlay (h or ?).
package ui
