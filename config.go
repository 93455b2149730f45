// SPDX-License-Identifier: GPL-3.0-or-later

package dhcpforge

import (
	"time"

	"github.com/dhcpforge/dhcpforge/switcher"
)

// Config holds the configuration a [Server] needs to assemble its
// storage tier and its I/O pipeline.
//
// Pass this to [NewServer] to pre-wire every dependency. [NewConfig]
// sets sensible defaults for every field except the database host,
// user, password and name, which it leaves empty.
type Config struct {
	// DBHost, DBPort, DBUser, DBPassword, DBName locate and
	// authenticate against the Postgres backend [storage.RuntimeStorage]
	// persists to.
	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string

	// InputAddr is the UDP address the server listens on for incoming
	// DHCP requests, typically ":67".
	InputAddr string

	// OutputAddr is the local UDP address outbound replies are sent
	// from, typically ":68" or ":0" to let the OS pick an ephemeral
	// port.
	OutputAddr string

	// BroadcastAddr is the fixed destination every reply is sent to.
	// See [ioport.UDPOutput] for why this module does not implement
	// per-reply unicast destination selection.
	BroadcastAddr string

	// MaxInFlight bounds concurrently processed packets. Zero uses
	// switcher's own default.
	MaxInFlight int

	// IDBits sizes the random id space [storage.RuntimeStorage] draws
	// lease ids from.
	IDBits int

	// KillSwitch governs the accept loop. Set by [NewConfig] to a
	// freshly started [*switcher.KillSwitch].
	KillSwitch *switcher.KillSwitch

	// TimeNow returns the current time.
	//
	// Set by [NewConfig] to [time.Now].
	TimeNow func() time.Time

	// ErrClassifier classifies errors for structured logging.
	//
	// Set by [NewConfig] to [DefaultErrClassifier].
	ErrClassifier ErrClassifier

	// Logger receives lifecycle and per-packet log events.
	//
	// Set by [NewConfig] to [DefaultSLogger].
	Logger SLogger
}

// NewConfig creates a [*Config] with sensible defaults. Database
// fields are left empty; callers must set them before passing the
// config to [NewServer].
func NewConfig() *Config {
	return &Config{
		DBPort:        5432,
		InputAddr:     ":67",
		OutputAddr:    ":68",
		BroadcastAddr: "255.255.255.255:68",
		MaxInFlight:   0,
		IDBits:        32,
		KillSwitch:    switcher.NewKillSwitch(),
		TimeNow:       time.Now,
		ErrClassifier: DefaultErrClassifier,
		Logger:        DefaultSLogger(),
	}
}
