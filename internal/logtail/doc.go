// Package logtail reads the tail of fitdeck's own log file for the in-app
// log view.
//
// Read keeps a ring buffer of the last maxLines lines so large files are
// never held in memory. A missing file is not an error: the log may not
// have been written yet.
//
// Parse recognizes the standard logger's "2006/01/02 15:04:05" prefix and
// infers a severity from the message text (failures are errors, discarded
// or unavailable work is a warning). Styling is left to the UI.
package logtail
