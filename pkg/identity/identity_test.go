package identity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jkobl1/berlin-is-twitter-data/pkg/identity"
)

func TestNormalizeHandle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"alice", "alice"},
		{"@Alice", "Alice"},
		{"  @Alice ", "Alice"},
		{"https://twitter.com/Alice", "Alice"},
		{"https://Twitter.com/Alice/", "Alice"},
		{"http://www.twitter.com/alice?lang=de", "alice"},
		{"twitter.com/@Bob", "Bob"},
		{"https://x.com/Carol", "Carol"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, identity.NormalizeHandle(tt.in))
		})
	}
}

func TestHandleKey(t *testing.T) {
	assert.Equal(t, identity.HandleKey("Alice"), identity.HandleKey("aLICE"))
	assert.Equal(t, "alice", identity.HandleKey("Alice"))
}

func TestNewClaim(t *testing.T) {
	t.Run("both fields", func(t *testing.T) {
		c := identity.NewClaim("P1", "@Old", " 42 ")
		require.True(t, c.HasHandle())
		require.True(t, c.HasID())
		assert.Equal(t, "Old", c.HandleValue())
		assert.Equal(t, "42", c.IDValue())
		assert.False(t, c.IsEmpty())
	})

	t.Run("empty strings are unknown", func(t *testing.T) {
		c := identity.NewClaim("P2", "ghost", "")
		assert.True(t, c.HasHandle())
		assert.False(t, c.HasID())
		assert.Nil(t, c.NumericID)
		assert.Equal(t, "", c.IDValue())

		empty := identity.NewClaim("P3", "", "")
		assert.True(t, empty.IsEmpty())
		assert.Equal(t, "", empty.HandleValue())
	})

	t.Run("handles that would split a lookup are dropped", func(t *testing.T) {
		c := identity.NewClaim("P4", "@alice,bob", "7")
		assert.False(t, c.HasHandle())
		assert.Equal(t, "7", c.IDValue())

		assert.True(t, identity.NewClaim("P5", "two words", "").IsEmpty())
	})
}

func TestValidHandle(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"alice", true},
		{"Alice_99", true},
		{"", false},
		{"a,b", false},
		{"a b", false},
		{"a\tb", false},
		{"a\u00a0b", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, identity.ValidHandle(tt.in))
		})
	}
}

func TestStatus(t *testing.T) {
	for _, s := range identity.Statuses {
		parsed, err := identity.ParseStatus(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}

	_, err := identity.ParseStatus("no change")
	assert.Error(t, err)

	assert.False(t, identity.StatusUnchanged.IsChange())
	assert.False(t, identity.StatusLookupFailed.IsChange())
	assert.True(t, identity.StatusHandleUpdated.IsChange())
	assert.True(t, identity.StatusHandleNotFound.IsChange())
}
