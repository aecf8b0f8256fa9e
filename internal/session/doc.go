// Package session tracks in-flight agent tool calls so an operator can
// see what is waiting on them and what got left behind.
//
// One Entry exists per session, created when an approval starts waiting
// and removed when the cycle ends. The entries live in a single JSON
// document behind the Registry interface; FileRegistry persists it
// through the storage layer, MemRegistry backs tests. Writers replace
// the whole document, so the last writer wins and a corrupt file reads
// as empty rather than failing.
//
// The Tracker layers the domain operations on top: heartbeats refresh
// LastActivity, ListAbandoned reports entries inactive strictly longer
// than the threshold, and CleanupDead reaps entries whose recorded PID
// no longer answers a signal-0 probe.
package session
