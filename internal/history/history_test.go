package history

import (
	"path/filepath"
	"testing"
	"time"

	"fpc-server/internal/board"
)

func TestOpenRecordClose(t *testing.T) {
	r, err := Open(filepath.Join(t.TempDir(), "history.sqlite"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	r.RecordMove(1, board.Red, board.Move{
		Kind: board.Basic,
		From: board.Position{Col: 6, Row: 12},
		To:   board.Position{Col: 6, Row: 10},
	}, time.Now())

	r.RecordGame(1, time.Now(), time.Now(), Result{
		Names:  [4]string{"alice", "bob", "carol", "dave"},
		Ending: [4]board.PlayerCondition{board.Lost, board.Lost, board.Lost, board.NoState},
	})

	r.Close()
}

func TestMoveTextPromotion(t *testing.T) {
	got := moveText(board.Move{
		Kind:    board.Promotion,
		From:    board.Position{Col: 6, Row: 1},
		To:      board.Position{Col: 6, Row: 0},
		Promote: board.Queen,
	})
	if got == "" {
		t.Fatal("expected non-empty move text")
	}
}
