package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedCode() (string, error) { return "ABC123", nil }

func TestCanTransition(t *testing.T) {
	allowed := [][2]Status{
		{StatusPending, StatusConfirmed},
		{StatusPending, StatusCancelled},
		{StatusConfirmed, StatusActive},
		{StatusConfirmed, StatusCancelled},
		{StatusActive, StatusCompleted},
	}
	for _, e := range allowed {
		assert.True(t, CanTransition(e[0], e[1]), "%s -> %s", e[0], e[1])
	}

	denied := [][2]Status{
		{StatusPending, StatusActive},
		{StatusPending, StatusCompleted},
		{StatusActive, StatusCancelled},
		{StatusConfirmed, StatusPending},
		{StatusCompleted, StatusCancelled},
		{StatusCancelled, StatusConfirmed},
	}
	for _, e := range denied {
		assert.False(t, CanTransition(e[0], e[1]), "%s -> %s", e[0], e[1])
	}
}

func TestCompletedIsTerminal(t *testing.T) {
	for _, to := range []Status{StatusPending, StatusConfirmed, StatusActive, StatusCancelled} {
		b := &Booking{Status: StatusCompleted, AccessCode: "ABC123"}
		err := applyTransition(b, ActionSetStatus, to, time.Now(), fixedCode)

		var tErr *InvalidStateTransitionError
		require.ErrorAs(t, err, &tErr)
		assert.Equal(t, StatusCompleted, tErr.From)
		assert.Equal(t, to, tErr.To)
		assert.Equal(t, StatusCompleted, b.Status)
	}
}

func TestApplyTransition_AccessCodeInvariant(t *testing.T) {
	now := ts(1, 12, 0)
	b := &Booking{Status: StatusPending}

	require.NoError(t, applyTransition(b, ActionConfirm, StatusConfirmed, now, fixedCode))
	assert.Equal(t, "ABC123", b.AccessCode)

	require.NoError(t, applyTransition(b, ActionActivate, StatusActive, now, fixedCode))
	assert.Equal(t, "ABC123", b.AccessCode)

	require.NoError(t, applyTransition(b, ActionComplete, StatusCompleted, now, fixedCode))
	assert.Equal(t, "ABC123", b.AccessCode)

	c := &Booking{Status: StatusConfirmed, AccessCode: "ABC123"}
	require.NoError(t, applyTransition(c, ActionCancel, StatusCancelled, now, fixedCode))
	assert.Empty(t, c.AccessCode)
	require.NotNil(t, c.CancelledAt)
	assert.True(t, c.CancelledAt.Equal(now))
}

func TestCanBeCancelled(t *testing.T) {
	b := &Booking{Status: StatusConfirmed, Schedule: Schedule{StartTime: ts(7, 10, 0), EndTime: ts(7, 12, 0)}}

	assert.True(t, b.CanBeCancelled(ts(7, 7, 0), 2*time.Hour), "three hours ahead")
	assert.True(t, b.CanBeCancelled(ts(7, 8, 0), 2*time.Hour), "exactly at the cutoff")
	assert.False(t, b.CanBeCancelled(ts(7, 9, 0), 2*time.Hour), "one hour ahead")

	b.Status = StatusActive
	assert.False(t, b.CanBeCancelled(ts(1, 0, 0), 2*time.Hour))
}

func TestActivationAndCompletionPredicates(t *testing.T) {
	b := &Booking{Status: StatusConfirmed, Schedule: Schedule{StartTime: ts(7, 10, 0), EndTime: ts(7, 12, 0)}}

	assert.False(t, b.ShouldBeActivated(ts(7, 9, 59)))
	assert.True(t, b.ShouldBeActivated(ts(7, 10, 0)))
	assert.False(t, b.ShouldBeCompleted(ts(7, 13, 0)), "not active yet")

	b.Status = StatusActive
	assert.False(t, b.ShouldBeCompleted(ts(7, 11, 0)))
	assert.True(t, b.ShouldBeCompleted(ts(7, 12, 0)))
}

func TestNewAccessCode(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		code, err := NewAccessCode()
		require.NoError(t, err)
		assert.Regexp(t, `^[A-Z0-9]{6}$`, code)
		seen[code] = true
	}
	assert.Greater(t, len(seen), 1)
}
