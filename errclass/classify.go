// SPDX-License-Identifier: GPL-3.0-or-later

// Package errclass maps socket and I/O errors to short, stable labels
// for structured logging, so dashboards can group drops and retries by
// failure class instead of by free-form error text.
package errclass

import (
	"context"
	"errors"
	"net"
	"syscall"
)

// New classifies err into a short descriptive label (e.g. "ETIMEDOUT",
// "ECONNRESET"), or the empty string if err is nil or unrecognized.
//
// Checked in order: context cancellation/deadline, closed network
// connections, DNS resolution failures, then platform errno constants
// (see unix.go / windows.go) unwrapped from a [*net.OpError] or a bare
// [syscall.Errno].
func New(err error) string {
	if err == nil {
		return ""
	}
	switch {
	case errors.Is(err, context.Canceled):
		return "EINTR"
	case errors.Is(err, context.DeadlineExceeded):
		return "ETIMEDOUT"
	case errors.Is(err, net.ErrClosed):
		return "ECONNABORTED"
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		if dnsErr.IsTimeout {
			return "ETIMEDOUT"
		}
		return "EDNS"
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		if label, ok := errnoLabel(errno); ok {
			return label
		}
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Timeout() {
		return "ETIMEDOUT"
	}

	return ""
}

func errnoLabel(errno syscall.Errno) (string, bool) {
	switch errno {
	case errEADDRNOTAVAIL:
		return "EADDRNOTAVAIL", true
	case errEADDRINUSE:
		return "EADDRINUSE", true
	case errECONNABORTED:
		return "ECONNABORTED", true
	case errECONNREFUSED:
		return "ECONNREFUSED", true
	case errECONNRESET:
		return "ECONNRESET", true
	case errEHOSTUNREACH:
		return "EHOSTUNREACH", true
	case errEINVAL:
		return "EINVAL", true
	case errEINTR:
		return "EINTR", true
	case errENETDOWN:
		return "ENETDOWN", true
	case errENETUNREACH:
		return "ENETUNREACH", true
	case errENOBUFS:
		return "ENOBUFS", true
	case errENOTCONN:
		return "ENOTCONN", true
	case errEPROTONOSUPPORT:
		return "EPROTONOSUPPORT", true
	case errETIMEDOUT:
		return "ETIMEDOUT", true
	default:
		return "", false
	}
}
