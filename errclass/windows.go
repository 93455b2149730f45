//go:build windows

// SPDX-License-Identifier: GPL-3.0-or-later

package errclass

import (
	"syscall"

	"golang.org/x/sys/windows"
)

// Errno constants are re-exported as [syscall.Errno] since that is the
// type [errors.As] actually unwraps to on this platform.
const (
	errEADDRNOTAVAIL   = syscall.Errno(windows.WSAEADDRNOTAVAIL)
	errEADDRINUSE      = syscall.Errno(windows.WSAEADDRINUSE)
	errECONNABORTED    = syscall.Errno(windows.WSAECONNABORTED)
	errECONNREFUSED    = syscall.Errno(windows.WSAECONNREFUSED)
	errECONNRESET      = syscall.Errno(windows.WSAECONNRESET)
	errEHOSTUNREACH    = syscall.Errno(windows.WSAEHOSTUNREACH)
	errEINVAL          = syscall.Errno(windows.WSAEINVAL)
	errEINTR           = syscall.Errno(windows.WSAEINTR)
	errENETDOWN        = syscall.Errno(windows.WSAENETDOWN)
	errENETUNREACH     = syscall.Errno(windows.WSAENETUNREACH)
	errENOBUFS         = syscall.Errno(windows.WSAENOBUFS)
	errENOTCONN        = syscall.Errno(windows.WSAENOTCONN)
	errEPROTONOSUPPORT = syscall.Errno(windows.WSAEPROTONOSUPPORT)
	errETIMEDOUT       = syscall.Errno(windows.WSAETIMEDOUT)
)
