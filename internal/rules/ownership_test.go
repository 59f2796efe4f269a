package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssertNotSelfPurchase(t *testing.T) {
	err := AssertNotSelfPurchase("seller-1", "seller-1")
	re, ok := AsRuleError(err)
	require.True(t, ok)
	assert.Equal(t, CodeSelfPurchase, re.Code)

	assert.NoError(t, AssertNotSelfPurchase("seller-1", "buyer-1"))
}

func TestAssertNotSelfPurchaseIgnoresEmptySeller(t *testing.T) {
	// An unowned listing must not trip the guard for anonymous state.
	assert.NoError(t, AssertNotSelfPurchase("", ""))
}

func TestAssertListingOwnership(t *testing.T) {
	tests := []struct {
		name     string
		seller   string
		actor    Viewer
		wantCode Code
	}{
		{"owner passes", "u1", Viewer{UserID: "u1"}, ""},
		{"admin passes", "u1", Viewer{UserID: "u2", IsAdmin: true}, ""},
		{"stranger forbidden", "u1", Viewer{UserID: "u2"}, CodeForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := AssertListingOwnership(tt.seller, tt.actor)
			if tt.wantCode == "" {
				assert.NoError(t, err)
				return
			}
			re, ok := AsRuleError(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantCode, re.Code)
		})
	}
}

func TestSelfFavoriteAndFollow(t *testing.T) {
	err := AssertNotSelfFavorite("u1", "u1")
	re, ok := AsRuleError(err)
	require.True(t, ok)
	assert.Equal(t, CodeForbidden, re.Code)
	assert.NoError(t, AssertNotSelfFavorite("u1", "u2"))

	err = AssertNotSelfFollow("u1", "u1")
	re, ok = AsRuleError(err)
	require.True(t, ok)
	assert.Equal(t, CodeForbidden, re.Code)
	assert.NoError(t, AssertNotSelfFollow("u1", "u2"))
}
