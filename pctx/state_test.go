// SPDX-License-Identifier: GPL-3.0-or-later

package pctx

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStateString(t *testing.T) {
	require.Equal(t, "Received", Received.String())
	require.Equal(t, "Prepared", Prepared.String())
	require.Equal(t, "PostPrepared", PostPrepared.String())
	require.Equal(t, "Failure", Failure.String())
	require.Equal(t, "State(99)", State(99).String())
}

func TestStatesExcludesFailure(t *testing.T) {
	require.Equal(t, []State{Received, Prepared, PostPrepared}, States())
	require.NotContains(t, States(), Failure)
}

func TestStatesReturnsFreshSlice(t *testing.T) {
	s := States()
	s[0] = Failure
	require.Equal(t, Received, States()[0], "mutating a returned slice must not affect later calls")
}
