package remote

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func TestNewLimiter(t *testing.T) {
	assert.Equal(t, rate.Inf, newLimiter(0).Limit())
	assert.Equal(t, rate.Inf, newLimiter(-1).Limit())

	l := newLimiter(2)
	assert.Equal(t, rate.Limit(2), l.Limit())
	assert.Equal(t, 1, l.Burst())
}
