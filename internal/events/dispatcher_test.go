package events

import (
	"context"
	"errors"
	"testing"
)

func TestDispatcherInvokesSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()

	var got []string
	d.Subscribe(EventForcedLogout, func(_ context.Context, e Event) error {
		got = append(got, "first:"+e.SessionID)
		return errors.New("handler failed")
	})
	d.Subscribe(EventForcedLogout, func(_ context.Context, e Event) error {
		got = append(got, "second:"+e.SessionID)
		return nil
	})
	d.Subscribe(EventUserCreated, func(_ context.Context, _ Event) error {
		t.Error("handler for another event type invoked")
		return nil
	})

	if err := d.Publish(context.Background(), Event{Type: EventForcedLogout, SessionID: "s1"}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	// a failing handler does not stop the rest
	if len(got) != 2 || got[0] != "first:s1" || got[1] != "second:s1" {
		t.Fatalf("handlers invoked: %v", got)
	}
}

func TestDispatcherNoSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()
	if err := d.Publish(context.Background(), Event{Type: EventUserArchived}); err != nil {
		t.Fatalf("publish without subscribers: %v", err)
	}
}
