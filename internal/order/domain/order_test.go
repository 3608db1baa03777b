package domain

import (
	"testing"
)

func TestCanTransition_LegalMoves(t *testing.T) {
	legal := []struct {
		from OrderStatus
		to   OrderStatus
	}{
		{OrderStatusPending, OrderStatusConfirmed},
		{OrderStatusPending, OrderStatusCancelled},
		{OrderStatusConfirmed, OrderStatusShipping},
		{OrderStatusConfirmed, OrderStatusCompleted},
		{OrderStatusConfirmed, OrderStatusCancelled},
		{OrderStatusShipping, OrderStatusCompleted},
	}

	for _, tc := range legal {
		if !CanTransition(tc.from, tc.to) {
			t.Errorf("expected %s -> %s to be legal", tc.from, tc.to)
		}
	}
}

func TestCanTransition_IllegalMoves(t *testing.T) {
	illegal := []struct {
		from OrderStatus
		to   OrderStatus
	}{
		{OrderStatusPending, OrderStatusShipping},
		{OrderStatusPending, OrderStatusCompleted},
		{OrderStatusShipping, OrderStatusCancelled},
		{OrderStatusShipping, OrderStatusPending},
		{OrderStatusConfirmed, OrderStatusPending},
	}

	for _, tc := range illegal {
		if CanTransition(tc.from, tc.to) {
			t.Errorf("expected %s -> %s to be illegal", tc.from, tc.to)
		}
	}
}

func TestCanTransition_TerminalStates(t *testing.T) {
	all := []OrderStatus{
		OrderStatusPending, OrderStatusConfirmed, OrderStatusShipping,
		OrderStatusCompleted, OrderStatusCancelled,
	}

	for _, terminal := range []OrderStatus{OrderStatusCompleted, OrderStatusCancelled} {
		for _, to := range all {
			if CanTransition(terminal, to) {
				t.Errorf("expected no transition out of %s, got %s -> %s", terminal, terminal, to)
			}
		}
	}
}

func TestCanTransition_NoSelfLoops(t *testing.T) {
	for _, s := range []OrderStatus{
		OrderStatusPending, OrderStatusConfirmed, OrderStatusShipping,
		OrderStatusCompleted, OrderStatusCancelled,
	} {
		if CanTransition(s, s) {
			t.Errorf("expected %s -> %s to be illegal", s, s)
		}
	}
}

func TestParseStatus(t *testing.T) {
	status, err := ParseStatus("confirmed")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if status != OrderStatusConfirmed {
		t.Errorf("expected confirmed, got %s", status)
	}

	if _, err := ParseStatus("refunded"); err == nil {
		t.Error("expected error for unknown status")
	}
}
