// Package actlog turns an ACT combat-log export into per-actor records and
// aggregates them with the scores submitted for a frontline match.
//
// Everything here is pure: callers fetch the export, persist the output and
// render it.
package actlog
