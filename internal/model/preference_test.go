package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidTier(t *testing.T) {
	for _, tier := range []string{TierPreferred, TierAvailable, TierNotAvailable} {
		require.True(t, ValidTier(tier), tier)
	}
	for _, tier := range []string{"", "preferred", "MAYBE"} {
		require.False(t, ValidTier(tier), tier)
	}
}
