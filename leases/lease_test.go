// SPDX-License-Identifier: GPL-3.0-or-later

package leases

import (
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/dhcpforge/dhcpforge/packet"
	"github.com/dhcpforge/dhcpforge/pctx"
)

// oneRow is a minimal pgx.Rows holding exactly one already-positioned row,
// enough to exercise Scan without opening a real connection.
type oneRow struct {
	values []any
	read   bool
}

func (r *oneRow) Close()                                     {}
func (r *oneRow) Err() error                                  { return nil }
func (r *oneRow) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *oneRow) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *oneRow) RawValues() [][]byte                          { return nil }
func (r *oneRow) Conn() *pgx.Conn                              { return nil }
func (r *oneRow) Values() ([]any, error)                       { return r.values, nil }

func (r *oneRow) Next() bool {
	if r.read {
		return false
	}
	r.read = true
	return true
}

func (r *oneRow) Scan(dest ...any) error {
	for i, d := range dest {
		switch v := d.(type) {
		case *uint64:
			*v = r.values[i].(uint64)
		case *string:
			*v = r.values[i].(string)
		case *time.Time:
			*v = r.values[i].(time.Time)
		}
	}
	return nil
}

func fixedNow() time.Time {
	return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
}

func TestNewDerivesFieldsFromOutputPacket(t *testing.T) {
	ctx := pctx.New[packet.DHCPv4](packet.DHCPv4{}, fixedNow)
	ctx.OutputMut().Yiaddr = [4]byte{192, 168, 1, 42}
	ctx.OutputMut().Chaddr = packet.ParseHardwareAddress([16]byte{0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff})

	lease := New(ctx, time.Hour, fixedNow)

	require.Equal(t, "192.168.1.42", lease.Addr().String())
	require.Equal(t, fixedNow().Add(time.Hour), lease.Expiration)
	require.Equal(t, "AA:BB:CC:DD:EE:FF", lease.HardwareAddress.String())
}

func TestExpired(t *testing.T) {
	lease := &LeaseV4{Expiration: fixedNow()}
	require.True(t, lease.Expired(fixedNow().Add(time.Second)))
	require.False(t, lease.Expired(fixedNow().Add(-time.Second)))
}

func TestSetUIDAndID(t *testing.T) {
	lease := &LeaseV4{}
	lease.SetUID(7)
	require.Equal(t, uint64(7), lease.ID())
}

func TestValueAndInsertStatement(t *testing.T) {
	lease := &LeaseV4{IPAddress: [4]byte{10, 0, 0, 1}, Expiration: fixedNow()}
	lease.SetUID(3)

	values := lease.Value()
	require.Equal(t, uint64(3), values["id"])
	require.Equal(t, "10.0.0.1", values["ip_address"])

	stmt := lease.InsertStatement("lease")
	require.Contains(t, stmt, "INSERT INTO lease")
	require.Contains(t, stmt, "@ip_address")
}

func TestScanRoundTripsValue(t *testing.T) {
	original := &LeaseV4{IPAddress: [4]byte{172, 16, 0, 9}, Expiration: fixedNow()}
	original.SetUID(5)
	original.HardwareAddress = packet.ParseHardwareAddress([16]byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06})

	values := original.Value()
	row := &oneRow{values: []any{
		values["id"].(uint64),
		values["ip_address"].(string),
		values["expiration"].(time.Time),
		values["hw_address"].(string),
	}}

	got, err := Scan(row)
	require.NoError(t, err)
	require.Equal(t, original.ID(), got.ID())
	require.Equal(t, original.IPAddress, got.IPAddress)
	require.True(t, original.Expiration.Equal(got.Expiration))
	require.Equal(t, original.HardwareAddress.String(), got.HardwareAddress.String())
}

func TestScanRejectsMalformedIP(t *testing.T) {
	row := &oneRow{values: []any{uint64(1), "not-an-ip", fixedNow(), "01:02:03:04:05:06"}}
	_, err := Scan(row)
	require.Error(t, err)
}
