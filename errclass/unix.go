//go:build unix

// SPDX-License-Identifier: GPL-3.0-or-later

package errclass

import (
	"syscall"

	"golang.org/x/sys/unix"
)

// Errno constants are re-exported as [syscall.Errno] since that is the
// type [errors.As] actually unwraps to on this platform.
const (
	errEADDRNOTAVAIL   = syscall.Errno(unix.EADDRNOTAVAIL)
	errEADDRINUSE      = syscall.Errno(unix.EADDRINUSE)
	errECONNABORTED    = syscall.Errno(unix.ECONNABORTED)
	errECONNREFUSED    = syscall.Errno(unix.ECONNREFUSED)
	errECONNRESET      = syscall.Errno(unix.ECONNRESET)
	errEHOSTUNREACH    = syscall.Errno(unix.EHOSTUNREACH)
	errEINVAL          = syscall.Errno(unix.EINVAL)
	errEINTR           = syscall.Errno(unix.EINTR)
	errENETDOWN        = syscall.Errno(unix.ENETDOWN)
	errENETUNREACH     = syscall.Errno(unix.ENETUNREACH)
	errENOBUFS         = syscall.Errno(unix.ENOBUFS)
	errENOTCONN        = syscall.Errno(unix.ENOTCONN)
	errEPROTONOSUPPORT = syscall.Errno(unix.EPROTONOSUPPORT)
	errETIMEDOUT       = syscall.Errno(unix.ETIMEDOUT)
)
