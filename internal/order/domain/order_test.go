package domain

import (
	"errors"
	"testing"
)

func TestOrderStatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    OrderStatus
		to      OrderStatus
		wantErr bool
	}{
		{"placed to confirmed", StatusPlaced, StatusConfirmed, false},
		{"placed to cancelled", StatusPlaced, StatusCancelled, false},
		{"confirmed to out for delivery", StatusConfirmed, StatusOutForDelivery, false},
		{"confirmed to cancelled", StatusConfirmed, StatusCancelled, false},
		{"out for delivery to delivered", StatusOutForDelivery, StatusDelivered, false},
		{"placed to delivered skips steps", StatusPlaced, StatusDelivered, true},
		{"out for delivery cannot cancel", StatusOutForDelivery, StatusCancelled, true},
		{"delivered is terminal", StatusDelivered, StatusConfirmed, true},
		{"cancelled is terminal", StatusCancelled, StatusConfirmed, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := &Order{Status: tt.from}
			err := order.TransitionTo(tt.to)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidStatusTransition) {
					t.Errorf("err = %v, want ErrInvalidStatusTransition", err)
				}
				if order.Status != tt.from {
					t.Errorf("failed transition must not mutate status")
				}
				return
			}
			if err != nil {
				t.Fatalf("TransitionTo: %v", err)
			}
			if order.Status != tt.to {
				t.Errorf("status = %s, want %s", order.Status, tt.to)
			}
		})
	}
}

func TestIsTerminal(t *testing.T) {
	for status, want := range map[OrderStatus]bool{
		StatusPlaced:         false,
		StatusConfirmed:      false,
		StatusOutForDelivery: false,
		StatusDelivered:      true,
		StatusCancelled:      true,
	} {
		if got := (&Order{Status: status}).IsTerminal(); got != want {
			t.Errorf("IsTerminal(%s) = %v, want %v", status, got, want)
		}
	}
}
