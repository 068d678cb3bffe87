package turnorder

import (
	"testing"

	"fpc-server/internal/board"
)

func noneLost(board.Color) bool { return false }

func TestNextAtGameStartIsRed(t *testing.T) {
	c := Next(nil, noneLost)
	if c == nil || *c != board.Red {
		t.Fatalf("got %v, want Red", c)
	}
}

func TestNextSkipsLostSeats(t *testing.T) {
	lost := func(c board.Color) bool { return c == board.Blue }
	cur := board.Red
	next := Next(&cur, lost)
	if next == nil || *next != board.Yellow {
		t.Fatalf("got %v, want Yellow", next)
	}
}

func TestNextWrapsAround(t *testing.T) {
	cur := board.Green
	next := Next(&cur, noneLost)
	if next == nil || *next != board.Red {
		t.Fatalf("got %v, want Red", next)
	}
}

func TestNextReturnsNilWithOneSurvivor(t *testing.T) {
	lost := func(c board.Color) bool { return c != board.Yellow }
	cur := board.Red
	if got := Next(&cur, lost); got != nil {
		t.Fatalf("got %v, want nil", *got)
	}
}

func TestNextReturnsNilWithNoSurvivors(t *testing.T) {
	lost := func(board.Color) bool { return true }
	if got := Next(nil, lost); got != nil {
		t.Fatalf("got %v, want nil", *got)
	}
}
