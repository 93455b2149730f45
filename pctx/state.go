// SPDX-License-Identifier: GPL-3.0-or-later

// Package pctx holds the per-packet lifecycle state machine: the
// ordered set of states a packet passes through, and the context
// object that carries a packet's input, output, and metadata across
// that lifecycle.
package pctx

import "fmt"

// State names one stage of a packet's lifecycle.
type State int

// The canonical ordered lifecycle, per spec.md §3. Failure is a
// distinguished terminal state reachable only by a fatal hook failure,
// never visited by normal forward iteration — see [States].
const (
	Received State = iota
	Prepared
	PostPrepared
	Failure
)

var stateNames = map[State]string{
	Received:     "Received",
	Prepared:     "Prepared",
	PostPrepared: "PostPrepared",
	Failure:      "Failure",
}

// String implements [fmt.Stringer].
func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// States returns the canonical, restartable iteration order of normal
// (non-Failure) lifecycle states: Received, Prepared, PostPrepared.
//
// Failure is deliberately excluded: per the REDESIGN FLAGS in spec.md
// §9, it is entered only by a transition from a fatal hook failure.
// [engine.ForwardingEngine] iterates this slice rather than a superset
// that includes it, and [switcher.StateSwitcher] drives every packet
// through that engine.
//
// Returns a fresh slice on every call so callers may freely range over
// it without risk of mutating shared state.
func States() []State {
	return []State{Received, Prepared, PostPrepared}
}
