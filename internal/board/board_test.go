package board

import "testing"

func TestPositionRoundTrip(t *testing.T) {
	for _, s := range []string{"d1", "a11", "k14", "n4", "h7"} {
		p, err := ParsePosition(s)
		if err != nil {
			t.Fatalf("ParsePosition(%q): %v", s, err)
		}
		if got := p.String(); got != s {
			t.Errorf("ParsePosition(%q).String() = %q", s, got)
		}
	}
}

func TestPositionCornersExcluded(t *testing.T) {
	for _, s := range []string{"a1", "c3", "n1", "a14", "n14"} {
		if _, err := ParsePosition(s); err == nil {
			t.Errorf("ParsePosition(%q) should have failed, corner square", s)
		}
	}
}

func TestAllPositionsCount(t *testing.T) {
	if n := len(AllPositions()); n != 160 {
		t.Fatalf("expected 160 playable squares, got %d", n)
	}
}

func TestStartRookConstants(t *testing.T) {
	cases := map[Color]string{
		Red:    "d1",
		Blue:   "a11",
		Yellow: "k14",
		Green:  "n4",
	}
	for c, want := range cases {
		if got := c.StartRook().String(); got != want {
			t.Errorf("%s.StartRook() = %s, want %s", c, got, want)
		}
	}
}

func TestBasicMoveRequiresEmptyDestination(t *testing.T) {
	b := NewBoard()
	red := Red.StartRook()
	if _, err := ValidateAndApply(b, Move{Kind: Basic, From: red, To: red}, Red); err == nil {
		t.Fatalf("moving onto an occupied square should be illegal")
	}
}

func TestPawnAdvances(t *testing.T) {
	b := NewBoard()
	var from Position
	b.Pieces(func(p Position, pc Piece) {
		if pc.Color == Red && pc.Kind == Pawn && from == (Position{}) {
			from = p
		}
	})
	to, ok := step(from, 0, 1)
	if !ok {
		t.Fatalf("pawn advance target out of range")
	}
	next, err := ValidateAndApply(b, Move{Kind: Basic, From: from, To: to}, Red)
	if err != nil {
		t.Fatalf("legal pawn advance rejected: %v", err)
	}
	if _, occ := next.At(from); occ {
		t.Errorf("origin square still occupied after move")
	}
	if pc, occ := next.At(to); !occ || pc.Kind != Pawn {
		t.Errorf("destination square missing the pawn")
	}
}

func TestNoStateOnFreshBoard(t *testing.T) {
	states := ComputePlayerStates(NewBoard())
	for _, c := range Colors {
		if states[c] != NoState {
			t.Errorf("fresh board: %s should be NoState, got %s", c, states[c])
		}
	}
}

func TestCastlingRequiresClearPath(t *testing.T) {
	b := NewBoard()
	rook := Red.StartRook()
	// The king sits immediately next to the rook in the seeded
	// arm, so the path is not clear for castling yet.
	if _, err := ValidateAndApply(b, Move{Kind: Castling, From: func() Position {
		k, _ := b.King(Red)
		return k
	}(), To: rook}, Red); err == nil {
		t.Fatalf("castling through an occupied path should be illegal")
	}
}
