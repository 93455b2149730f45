// SPDX-License-Identifier: GPL-3.0-or-later

package hook

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewErrorIncludesReason(t *testing.T) {
	err := NewError("bad lease pool")
	require.ErrorContains(t, err, "bad lease pool")
}
