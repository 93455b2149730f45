// SPDX-License-Identifier: GPL-3.0-or-later

package hook

import "errors"

// ErrCircularDependencies is returned when a state's dependency graph
// could not be resolved into a topological order. RunHooks refuses to
// dispatch that state until the cycle is fixed by re-registration.
var ErrCircularDependencies = errors.New("hook: circular dependencies in state's hook graph")

// ErrFatalHookFailed is returned when a hook flagged Fatal returns
// failure. The failure chain has already run by the time this is
// returned.
var ErrFatalHookFailed = errors.New("hook: fatal hook failed, diverted to failure chain")

// Error is a generic handler-side failure raised by a hook closure,
// carrying a short static reason.
type Error struct {
	Reason string
}

// NewError builds an [Error] with the given static reason.
func NewError(reason string) *Error {
	return &Error{Reason: reason}
}

// Error implements the error interface.
func (e *Error) Error() string {
	return "hook: " + e.Reason
}
