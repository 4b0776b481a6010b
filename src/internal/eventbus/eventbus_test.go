package eventbus

import (
	"context"
	"errors"
	"testing"
)

func TestBusCascadeRunsBeforeSubscribers(t *testing.T) {
	var order []string
	bus := New(func(ctx context.Context, event Event) error {
		order = append(order, "cascade")
		return nil
	})
	bus.Subscribe(MovementCreated, func(ctx context.Context, event Event) {
		order = append(order, "subscriber")
	})

	bus.Publish(context.Background(), Event{Kind: MovementCreated})

	if len(order) != 2 || order[0] != "cascade" || order[1] != "subscriber" {
		t.Fatalf("expected cascade before subscriber, got %v", order)
	}
}

func TestBusCascadeErrorDoesNotStopSubscribers(t *testing.T) {
	delivered := false
	bus := New(func(ctx context.Context, event Event) error {
		return errors.New("cascade failed")
	})
	bus.Subscribe(MovementUpdated, func(ctx context.Context, event Event) {
		delivered = true
	})

	bus.Publish(context.Background(), Event{Kind: MovementUpdated})

	if !delivered {
		t.Fatal("a cascade error must not block subscriber delivery")
	}
}

func TestBusSubscribersFilteredByKind(t *testing.T) {
	calls := 0
	bus := New(nil)
	bus.Subscribe(MovementCreated, func(ctx context.Context, event Event) {
		calls++
	})

	bus.Publish(context.Background(), Event{Kind: MovementDeleted})
	bus.Publish(context.Background(), Event{Kind: MovementCreated})

	if calls != 1 {
		t.Fatalf("expected exactly one delivery, got %d", calls)
	}
}

func TestBusUnsubscribeStopsDelivery(t *testing.T) {
	calls := 0
	bus := New(nil)
	sub := bus.Subscribe(AccountChanged, func(ctx context.Context, event Event) {
		calls++
	})

	bus.Publish(context.Background(), Event{Kind: AccountChanged})
	bus.Unsubscribe(sub)
	bus.Publish(context.Background(), Event{Kind: AccountChanged})

	if calls != 1 {
		t.Fatalf("expected one delivery before unsubscribe, got %d", calls)
	}
}
