// SPDX-License-Identifier: GPL-3.0-or-later

package packet

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseOptionsBareEndTerminates(t *testing.T) {
	opts, err := ParseOptions([]byte{byte(OptionEnd)})
	require.NoError(t, err)
	require.Empty(t, opts)
}

func TestParseOptionsSkipsPad(t *testing.T) {
	data := []byte{byte(OptionPad), byte(OptionPad), byte(OptionMessageType), 1, 5, byte(OptionEnd)}
	opts, err := ParseOptions(data)
	require.NoError(t, err)
	require.Len(t, opts, 1)
	require.Equal(t, OptionMessageType, opts[0].Code)
	require.Equal(t, []byte{5}, opts[0].Value)
}

func TestParseOptionsLengthOverrunIsMalformed(t *testing.T) {
	data := []byte{byte(OptionMessageType), 5, 1}
	_, err := ParseOptions(data)
	require.Error(t, err)
}

func TestParseOptionsMissingLengthByte(t *testing.T) {
	data := []byte{byte(OptionMessageType)}
	_, err := ParseOptions(data)
	require.Error(t, err)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	opts := []Option{
		{Code: OptionRouter, Value: []byte{192, 168, 1, 1}},
		{Code: OptionLeaseTime, Value: []byte{0, 0, 14, 16}},
	}
	encoded := EncodeOptions(opts)
	decoded, err := ParseOptions(encoded)
	require.NoError(t, err)
	require.Equal(t, opts, decoded)
}

func TestGet(t *testing.T) {
	opts := []Option{{Code: OptionHostName, Value: []byte("host")}}
	got, ok := Get(opts, OptionHostName)
	require.True(t, ok)
	require.Equal(t, []byte("host"), got.Value)

	_, ok = Get(opts, OptionRouter)
	require.False(t, ok)
}

func TestOptionCodeString(t *testing.T) {
	require.Equal(t, "MessageType", OptionMessageType.String())
	require.Equal(t, "option(200)", OptionCode(200).String())
}
