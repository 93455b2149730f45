// SPDX-License-Identifier: GPL-3.0-or-later

package packet

import "fmt"

// hardwareAddressLen is the wire size of the chaddr field.
const hardwareAddressLen = 16

// HardwareAddress is the 16-byte chaddr field as transmitted on the
// wire, interpreted per spec.md §6: if the last 10 bytes are zero and
// the first 6 are non-zero, it is an IEEE 802 MAC address; otherwise it
// is treated as opaque bytes.
type HardwareAddress struct {
	raw   [hardwareAddressLen]byte
	isMAC bool
}

// ParseHardwareAddress interprets 16 raw chaddr bytes.
//
// Grounded on original_source's HardwareAddress::new: a MAC is
// recognized when trailing bytes 6-15 are all zero and at least one of
// the leading 6 bytes is non-zero.
func ParseHardwareAddress(raw [hardwareAddressLen]byte) HardwareAddress {
	trailingZero := true
	for _, b := range raw[6:] {
		if b != 0 {
			trailingZero = false
			break
		}
	}
	leadingNonZero := false
	for _, b := range raw[:6] {
		if b != 0 {
			leadingNonZero = true
			break
		}
	}
	return HardwareAddress{raw: raw, isMAC: trailingZero && leadingNonZero}
}

// IsMAC reports whether the address was recognized as an IEEE 802 MAC.
func (h HardwareAddress) IsMAC() bool {
	return h.isMAC
}

// Bytes returns the 16 raw wire bytes.
func (h HardwareAddress) Bytes() [hardwareAddressLen]byte {
	return h.raw
}

// String renders the address as `:`-separated uppercase hex: the first
// 6 bytes if recognized as a MAC, or all 16 raw bytes otherwise.
func (h HardwareAddress) String() string {
	n := hardwareAddressLen
	if h.isMAC {
		n = 6
	}
	s := ""
	for i := 0; i < n; i++ {
		if i > 0 {
			s += ":"
		}
		s += fmt.Sprintf("%02X", h.raw[i])
	}
	return s
}
