// SPDX-License-Identifier: GPL-3.0-or-later

package packet

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseHardwareAddressMAC(t *testing.T) {
	addr := ParseHardwareAddress([16]byte{0x00, 0x1A, 0x2B, 0x3C, 0x4D, 0x5E})
	require.True(t, addr.IsMAC())
	require.Equal(t, "00:1A:2B:3C:4D:5E", addr.String())
}

func TestParseHardwareAddressOpaque(t *testing.T) {
	addr := ParseHardwareAddress([16]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16})
	require.False(t, addr.IsMAC())
	require.Equal(t, "01:02:03:04:05:06:07:08:09:0A:0B:0C:0D:0E:0F:10", addr.String())
}

func TestParseHardwareAddressAllZero(t *testing.T) {
	addr := ParseHardwareAddress([16]byte{})
	require.False(t, addr.IsMAC(), "all-zero leading bytes are not a valid MAC")
}
