// Package session keeps a bounded history of composition drafts.
//
// A History is a value owned by the caller, not a process-global
// registry: whoever drives the pipeline decides how long a session
// lives. It retains up to a fixed number of melody versions (default
// eight, oldest evicted first together with their dependent SATB
// drafts), assigns monotonically increasing version numbers and random
// ids, and tracks the active melody version. SATB drafts are keyed to
// the melody version they were harmonized from, and reads only surface
// drafts of the active melody, so a rollback never pairs a melody with
// stale harmonies.
//
// All methods are mutex-guarded; a handle is safe under concurrent use.
package session
