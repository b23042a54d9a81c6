package clock

import (
	"testing"
	"time"

	"github.com/retroenv/retrogolib/assert"
)

func TestManual(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewManual(start)
	assert.Equal(t, start, c.Now())

	c.Advance(time.Second)
	assert.Equal(t, start.Add(time.Second), c.Now())

	c.Set(start)
	assert.Equal(t, start, c.Now())
}

func TestSystem(t *testing.T) {
	var c Clock = System{}
	before := time.Now()
	now := c.Now()
	assert.False(t, now.Before(before))
}
