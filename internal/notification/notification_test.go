package notification

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type failingNotifier struct{}

func (failingNotifier) Notify(context.Context, Event) error { return errors.New("smtp down") }

func TestLogNotifier(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	n := NewLogNotifier(zap.New(core))

	Dispatch(context.Background(), n, zap.NewNop(), Event{
		Type:        TypeBookingConfirmed,
		RecipientID: "user-1",
		BookingID:   "b-1",
	})

	entries := logs.FilterMessage("notification").All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, TypeBookingConfirmed, entries[0].ContextMap()["type"])
		assert.Equal(t, "b-1", entries[0].ContextMap()["booking_id"])
	}
}

func TestDispatch_SwallowsErrors(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)

	Dispatch(context.Background(), failingNotifier{}, zap.New(core),
		Event{Type: TypeBookingCreated, BookingID: "b-1"},
		Event{Type: TypeBookingCreated, BookingID: "b-2"},
	)

	assert.Equal(t, 2, logs.FilterMessage("notification failed").Len())
}
