package id

import (
	"sort"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	s := New()
	assert.Len(t, s, 26)
	assert.True(t, Valid(s))
}

func TestNewIsMonotonic(t *testing.T) {
	got := make([]string, 1000)
	for i := range got {
		got[i] = New()
	}
	assert.True(t, sort.StringsAreSorted(got))

	seen := make(map[string]bool, len(got))
	for _, s := range got {
		require.False(t, seen[s], "duplicate id %s", s)
		seen[s] = true
	}
}

func TestNewAt(t *testing.T) {
	at := time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)
	parsed, err := ulid.ParseStrict(NewAt(at))
	require.NoError(t, err)
	assert.Equal(t, ulid.Timestamp(at), parsed.Time())

	assert.Less(t, NewAt(at), NewAt(at.Add(time.Millisecond)))
}

func TestValid(t *testing.T) {
	for _, s := range []string{"", "abc", "01HXYZ", "not-a-ulid-not-a-ulid-xxxx"} {
		assert.False(t, Valid(s), s)
	}
}
