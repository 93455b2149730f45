// SPDX-License-Identifier: GPL-3.0-or-later

package dhcpforge

import "github.com/dhcpforge/dhcpforge/errclass"

// ErrClassifier classifies errors into short categorical labels (e.g.
// "ETIMEDOUT", "ECONNRESET") for structured logging.
type ErrClassifier interface {
	Classify(err error) string
}

// ErrClassifierFunc adapts a function to the [ErrClassifier] interface.
type ErrClassifierFunc func(error) string

var _ ErrClassifier = ErrClassifierFunc(nil)

// Classify implements [ErrClassifier].
func (f ErrClassifierFunc) Classify(err error) string {
	return f(err)
}

// DefaultErrClassifier wires [errclass.New] as the default classifier.
var DefaultErrClassifier = ErrClassifierFunc(errclass.New)
