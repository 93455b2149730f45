// SPDX-License-Identifier: GPL-3.0-or-later

package packet

import (
	"encoding/binary"
	"fmt"
)

// magicCookie is the fixed 4-byte marker preceding the options block
// (RFC 2131 §3, offset 236).
const magicCookie = 0x63825363

// Fixed offsets and sizes of the DHCPv4 header, per spec.md §6. xid and
// secs are little-endian in this system, a deliberate deviation from
// RFC 2131's network byte order (the original this module is modeled on
// made the same choice).
const (
	offsetOp      = 0
	offsetHtype   = 1
	offsetHlen    = 2
	offsetHops    = 3
	offsetXid     = 4
	offsetSecs    = 8
	offsetFlags   = 10
	offsetCiaddr  = 12
	offsetYiaddr  = 16
	offsetSiaddr  = 20
	offsetGiaddr  = 24
	offsetChaddr  = 28
	offsetSname   = 44
	offsetFile    = 108
	offsetCookie  = 236
	offsetOptions = 240

	snameLen = 64
	fileLen  = 128
)

// DHCPv4 is the concrete wire message this module ships, implementing
// [Type]. Field names mirror RFC 2131 Figure 1.
type DHCPv4 struct {
	Op      byte
	Htype   byte
	Hlen    byte
	Hops    byte
	Xid     uint32
	Secs    uint16
	Flags   uint16
	Ciaddr  [4]byte
	Yiaddr  [4]byte
	Siaddr  [4]byte
	Giaddr  [4]byte
	Chaddr  HardwareAddress
	Sname   [snameLen]byte
	File    [fileLen]byte
	Options []Option
}

var _ Type = (*DHCPv4)(nil)

// Parse decodes data into p per the layout in spec.md §6.
//
// A buffer shorter than the fixed 240-byte header (236 bytes of fields
// plus the 4-byte magic cookie) is malformed. A magic cookie mismatch
// is also malformed; option-length overruns are reported by
// [ParseOptions].
func (p *DHCPv4) Parse(data []byte) error {
	if len(data) < offsetOptions {
		return fmt.Errorf("packet: dhcpv4: %d bytes is shorter than the fixed header", len(data))
	}
	p.Op = data[offsetOp]
	p.Htype = data[offsetHtype]
	p.Hlen = data[offsetHlen]
	p.Hops = data[offsetHops]
	p.Xid = binary.LittleEndian.Uint32(data[offsetXid:])
	p.Secs = binary.LittleEndian.Uint16(data[offsetSecs:])
	p.Flags = binary.BigEndian.Uint16(data[offsetFlags:])
	copy(p.Ciaddr[:], data[offsetCiaddr:offsetYiaddr])
	copy(p.Yiaddr[:], data[offsetYiaddr:offsetSiaddr])
	copy(p.Siaddr[:], data[offsetSiaddr:offsetGiaddr])
	copy(p.Giaddr[:], data[offsetGiaddr:offsetChaddr])

	var chaddr [16]byte
	copy(chaddr[:], data[offsetChaddr:offsetSname])
	p.Chaddr = ParseHardwareAddress(chaddr)

	copy(p.Sname[:], data[offsetSname:offsetFile])
	copy(p.File[:], data[offsetFile:offsetCookie])

	cookie := binary.BigEndian.Uint32(data[offsetCookie:offsetOptions])
	if cookie != magicCookie {
		return fmt.Errorf("packet: dhcpv4: invalid magic cookie 0x%08x", cookie)
	}

	opts, err := ParseOptions(data[offsetOptions:])
	if err != nil {
		return err
	}
	p.Options = opts
	return nil
}

// Serialize encodes p back to wire bytes.
func (p *DHCPv4) Serialize() []byte {
	buf := make([]byte, offsetOptions)
	buf[offsetOp] = p.Op
	buf[offsetHtype] = p.Htype
	buf[offsetHlen] = p.Hlen
	buf[offsetHops] = p.Hops
	binary.LittleEndian.PutUint32(buf[offsetXid:], p.Xid)
	binary.LittleEndian.PutUint16(buf[offsetSecs:], p.Secs)
	binary.BigEndian.PutUint16(buf[offsetFlags:], p.Flags)
	copy(buf[offsetCiaddr:], p.Ciaddr[:])
	copy(buf[offsetYiaddr:], p.Yiaddr[:])
	copy(buf[offsetSiaddr:], p.Siaddr[:])
	copy(buf[offsetGiaddr:], p.Giaddr[:])
	chaddr := p.Chaddr.Bytes()
	copy(buf[offsetChaddr:], chaddr[:])
	copy(buf[offsetSname:], p.Sname[:])
	copy(buf[offsetFile:], p.File[:])
	binary.BigEndian.PutUint32(buf[offsetCookie:], magicCookie)
	buf = append(buf, EncodeOptions(p.Options)...)
	return buf
}
