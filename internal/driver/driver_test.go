package driver

import (
	"testing"
	"time"

	"fpc-server/internal/board"
	"fpc-server/internal/config"
	"fpc-server/internal/game"
	"fpc-server/internal/protocol"
)

type captureOutbox struct {
	updates []protocol.Update
}

func (c *captureOutbox) Enqueue(p protocol.Pdu) {
	if p.GameSession != nil && p.GameSession.Update != nil {
		c.updates = append(c.updates, *p.GameSession.Update)
	}
}

func TestRunAllTimeoutsEndsGameWithOneSurvivor(t *testing.T) {
	boxes := map[board.Color]*captureOutbox{
		board.Red:    {},
		board.Blue:   {},
		board.Yellow: {},
		board.Green:  {},
	}
	players := [4]game.Player{
		{Color: board.Red, TimeRemaining: time.Millisecond, Outbox: boxes[board.Red]},
		{Color: board.Blue, TimeRemaining: time.Millisecond, Outbox: boxes[board.Blue]},
		{Color: board.Yellow, TimeRemaining: time.Millisecond, Outbox: boxes[board.Yellow]},
		{Color: board.Green, TimeRemaining: time.Millisecond, Outbox: boxes[board.Green]},
	}
	g := game.New(1, players)

	timing := config.Timing{
		InitPause:    time.Millisecond,
		PlayerTimer2: time.Millisecond,
	}

	done := make(chan struct{})
	go func() {
		Run(g, timing)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("turn driver did not finish after every seat timed out")
	}

	last := boxes[board.Red].updates[len(boxes[board.Red].updates)-1]
	if last.MoveCall.NoCall == nil {
		t.Fatalf("final update should be no_call, got %+v", last.MoveCall)
	}

	// Red, Blue and Yellow time out in rotation order; once only Green
	// remains non-Lost, turnorder.Next returns nil and the driver ends
	// the game without ever calling on Green to move.
	survivors := 0
	for _, s := range []protocol.PlayerState{last.PlayersStates.Red, last.PlayersStates.Blue, last.PlayersStates.Yellow, last.PlayersStates.Green} {
		if s.Lost == nil {
			survivors++
		}
	}
	if survivors != 1 {
		t.Fatalf("expected exactly one survivor, got %d (%+v)", survivors, last.PlayersStates)
	}
	if last.PlayersStates.Green.Lost != nil {
		t.Fatalf("expected Green to be the untouched survivor, got %+v", last.PlayersStates.Green)
	}
}
