// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type clock struct{ name string }
type counter struct{ n int }

func TestRegisterAndGet(t *testing.T) {
	var r Registry
	Register(&r, clock{name: "utc"})

	got, ok := Get[clock](&r)
	require.True(t, ok)
	require.Equal(t, "utc", got.name)
}

func TestGetMissingTypeReturnsFalse(t *testing.T) {
	var r Registry
	_, ok := Get[counter](&r)
	require.False(t, ok)
}

func TestRegisterReplacesExistingEntry(t *testing.T) {
	var r Registry
	Register(&r, clock{name: "utc"})
	previous, replaced := Register(&r, clock{name: "local"})

	require.True(t, replaced)
	require.Equal(t, "utc", previous.name)

	got, _ := Get[clock](&r)
	require.Equal(t, "local", got.name)
}

func TestDistinctTypesDoNotCollide(t *testing.T) {
	var r Registry
	Register(&r, clock{name: "utc"})
	Register(&r, counter{n: 3})

	c, ok := Get[clock](&r)
	require.True(t, ok)
	require.Equal(t, "utc", c.name)

	n, ok := Get[counter](&r)
	require.True(t, ok)
	require.Equal(t, 3, n.n)
}

func TestMustGetPanicsWhenMissing(t *testing.T) {
	var r Registry
	require.Panics(t, func() { MustGet[clock](&r) })
}

func TestRemove(t *testing.T) {
	var r Registry
	Register(&r, clock{name: "utc"})
	Remove[clock](&r)

	_, ok := Get[clock](&r)
	require.False(t, ok)
}

func TestZeroValueRegistryIsUsable(t *testing.T) {
	var r Registry
	_, ok := Get[clock](&r)
	require.False(t, ok)
}
