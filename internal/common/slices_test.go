package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFirst(t *testing.T) {
	v, ok := First([]string{"a", "b"})
	assert.True(t, ok)
	assert.Equal(t, "a", v)

	v, ok = First([]string(nil))
	assert.False(t, ok)
	assert.Empty(t, v)
}

func TestPtr(t *testing.T) {
	s := "c1"
	p := Ptr(s)
	s = "c2"

	assert.Equal(t, "c1", *p)
}

func TestNonEmpty(t *testing.T) {
	assert.Equal(t, "x", NonEmpty("x", "y"))
	assert.Equal(t, "y", NonEmpty("", "y"))
}
