package module

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAliveFlagSetAndClear(t *testing.T) {
	var a AliveFlag

	assert.False(t, a.TestAndClear())

	a.Set()
	assert.True(t, a.TestAndClear())
	assert.False(t, a.TestAndClear())
}
