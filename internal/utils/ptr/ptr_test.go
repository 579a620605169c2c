package ptr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTo(t *testing.T) {
	p := To(42)
	assert.Equal(t, 42, *p)
}

func TestString(t *testing.T) {
	assert.Nil(t, String(""))
	assert.Equal(t, "alice", *String("alice"))
}

func TestDeref(t *testing.T) {
	assert.Equal(t, "", Deref[string](nil))
	assert.Equal(t, "x", Deref(To("x")))
}
