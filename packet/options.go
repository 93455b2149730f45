// SPDX-License-Identifier: GPL-3.0-or-later

package packet

import "fmt"

// OptionCode names a DHCPv4 option tag (RFC 2132 §3-§9, codes 1-76,
// plus the reserved Pad/End markers).
//
// This module treats the set of codes as closed for naming purposes
// only: unrecognized codes are never dropped, they simply render as
// "option(N)" in [OptionCode.String] and are carried through parsing
// and serialization like any other option.
type OptionCode byte

// Recognized option codes. Only a representative subset used by the
// example hooks and tests is named; the remaining codes in the 1-76
// range are valid on the wire and round-trip correctly even though
// this module gives them no symbolic name.
const (
	OptionPad              OptionCode = 0
	OptionSubnetMask       OptionCode = 1
	OptionRouter           OptionCode = 3
	OptionDomainNameServer OptionCode = 6
	OptionHostName         OptionCode = 12
	OptionRequestedIP      OptionCode = 50
	OptionLeaseTime        OptionCode = 51
	OptionMessageType      OptionCode = 53
	OptionServerIdentifier OptionCode = 54
	OptionParameterRequest OptionCode = 55
	OptionClientIdentifier OptionCode = 61
	OptionEnd              OptionCode = 255
)

var optionNames = map[OptionCode]string{
	OptionPad:              "Pad",
	OptionSubnetMask:       "SubnetMask",
	OptionRouter:           "Router",
	OptionDomainNameServer: "DomainNameServer",
	OptionHostName:         "HostName",
	OptionRequestedIP:      "RequestedIPAddress",
	OptionLeaseTime:        "LeaseTime",
	OptionMessageType:      "MessageType",
	OptionServerIdentifier: "ServerIdentifier",
	OptionParameterRequest: "ParameterRequestList",
	OptionClientIdentifier: "ClientIdentifier",
	OptionEnd:              "End",
}

// String implements [fmt.Stringer].
func (c OptionCode) String() string {
	if name, ok := optionNames[c]; ok {
		return name
	}
	return fmt.Sprintf("option(%d)", byte(c))
}

// Option is a single decoded TLV option: a one-byte code followed by a
// one-byte length and that many value bytes.
type Option struct {
	Code  OptionCode
	Value []byte
}

// ParseOptions decodes the TLV options block of a DHCPv4 message.
//
// Code 0 (pad) is skipped. Code 255 (end) terminates parsing
// successfully even with no further bytes in data. An option whose
// declared length exceeds the remaining buffer is malformed and
// reported as an error rather than silently truncated, per spec.
func ParseOptions(data []byte) ([]Option, error) {
	var opts []Option
	for i := 0; i < len(data); {
		code := OptionCode(data[i])
		i++
		if code == OptionPad {
			continue
		}
		if code == OptionEnd {
			return opts, nil
		}
		if i >= len(data) {
			return nil, fmt.Errorf("packet: option %s: missing length byte", code)
		}
		length := int(data[i])
		i++
		if i+length > len(data) {
			return nil, fmt.Errorf("packet: option %s: length %d exceeds remaining buffer", code, length)
		}
		value := make([]byte, length)
		copy(value, data[i:i+length])
		opts = append(opts, Option{Code: code, Value: value})
		i += length
	}
	return opts, nil
}

// EncodeOptions serializes opts as a TLV block terminated by
// [OptionEnd].
func EncodeOptions(opts []Option) []byte {
	buf := make([]byte, 0, len(opts)*2+1)
	for _, opt := range opts {
		buf = append(buf, byte(opt.Code), byte(len(opt.Value)))
		buf = append(buf, opt.Value...)
	}
	buf = append(buf, byte(OptionEnd))
	return buf
}

// Get returns the first option matching code, if present.
func Get(opts []Option, code OptionCode) (Option, bool) {
	for _, opt := range opts {
		if opt.Code == code {
			return opt, true
		}
	}
	return Option{}, false
}
