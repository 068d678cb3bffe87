// Package driver runs the per-game task that races a player's move
// against a timer, applies the result through the rule engine, and
// broadcasts the outcome.
package driver

import (
	"time"

	"fpc-server/internal/board"
	"fpc-server/internal/config"
	"fpc-server/internal/game"
	"fpc-server/internal/history"
	"fpc-server/internal/protocol"
	"fpc-server/internal/turnorder"
)

// Recorder is the audit trail every finished move and game is reported
// to. It is nil until main wires one up with history.Open; a nil
// Recorder means moves are simply not logged, which is the case in
// every test in this package.
var Recorder *history.Recorder

// Run drives g to completion and returns once the game is over (at
// most one non-Lost seat remains). Callers spawn this as its own
// goroutine from the dispatcher the moment a table is dealt.
func Run(g *game.Game, timing config.Timing) {
	defer func() {
		if r := recover(); r != nil {
			config.Log.Printf("game %d: turn driver recovered from panic: %v", g.ID, r)
		}
	}()

	config.Debug.Printf("game %d: turn driver starting", g.ID)

	time.Sleep(timing.InitPause)
	started := time.Now()

	g.Mu.Lock()
	first := turnorder.Next(nil, g.Lost)
	if first == nil {
		g.Mu.Unlock()
		config.Log.Printf("game %d: no eligible opening mover, aborting", g.ID)
		return
	}
	g.WhoMove = &game.WhoMove{Color: *first, Since: time.Now()}
	remaining := g.Player(*first).TimeRemaining
	g.Broadcast(game.ToPdu(g, protocol.Move{NoMove: &protocol.Empty{}}, game.Call(*first, remaining, timing.PlayerTimer2)))
	g.Mu.Unlock()

	for {
		timer := time.NewTimer(remaining + timing.PlayerTimer2)
		var gotSignal bool
		select {
		case <-timer.C:
		case <-g.MoveSignal:
			gotSignal = true
			timer.Stop()
		}

		g.Mu.Lock()
		mover := g.WhoMove.Color
		player := g.Player(mover)

		var previous protocol.Move
		switch {
		case !gotSignal && g.WhoMove.Complete != nil:
			// Near-simultaneous: the timer fired, but a handler had
			// already recorded a move under this same lock. Absorb
			// the signal the handler enqueued so the next iteration
			// does not inherit it.
			select {
			case <-g.MoveSignal:
			default:
			}
			previous = applyRecordedMove(g, player, timing)

		case gotSignal && g.WhoMove.Complete != nil:
			previous = applyRecordedMove(g, player, timing)

		default:
			// Genuine timeout: the mover loses on time.
			player.Condition = board.Lost
			player.EliminatedByCheckmate = false
			player.TimeRemaining = 0
			previous = protocol.Move{NoMove: &protocol.Empty{}}
		}

		promoteEliminated(g)

		next := turnorder.Next(&mover, g.Lost)
		if next == nil {
			g.WhoMove = nil
			g.Broadcast(game.ToPdu(g, previous, game.NoCall()))
			recordGame(g, started)
			g.Mu.Unlock()
			config.Debug.Printf("game %d: turn driver exiting", g.ID)
			return
		}

		remaining = g.Player(*next).TimeRemaining
		g.WhoMove = &game.WhoMove{Color: *next, Since: time.Now()}
		g.Broadcast(game.ToPdu(g, previous, game.Call(*next, remaining, timing.PlayerTimer2)))
		g.Mu.Unlock()
	}
}

// applyRecordedMove consumes the WhoMove.Complete record left by a
// message handler: asks the rule engine to apply it and debits wall
// time from the mover's remaining budget, net of the free grace.
func applyRecordedMove(g *game.Game, player *game.Player, timing config.Timing) protocol.Move {
	rec := g.WhoMove.Complete
	g.WhoMove.Complete = nil

	newBoard, err := board.ValidateAndApply(g.Board, rec.Move, player.Color)
	if err != nil {
		// The handler already validated this before recording it;
		// getting here means the engine disagrees after the fact.
		// Treat as no-op rather than corrupting the board.
		config.Log.Printf("game %d: rule engine rejected a pre-validated move: %v", g.ID, err)
		return protocol.Move{NoMove: &protocol.Empty{}}
	}
	g.Board = newBoard

	elapsed := rec.At.Sub(g.WhoMove.Since) - timing.PlayerTimer2
	if elapsed > 0 {
		player.TimeRemaining -= elapsed
	}
	if player.TimeRemaining < 0 {
		player.TimeRemaining = 0
	}

	if Recorder != nil {
		Recorder.RecordMove(g.ID, player.Color, rec.Move, rec.At)
	}

	return protocol.EncodeMove(rec.Move)
}

// recordGame queues the finished game's summary row once the turn
// driver has determined nobody is left to move.
func recordGame(g *game.Game, started time.Time) {
	if Recorder == nil {
		return
	}
	var res history.Result
	for _, c := range board.Colors {
		p := g.Player(c)
		res.Names[c] = p.Name
		res.Ending[c] = p.Condition
	}
	Recorder.RecordGame(g.ID, started, time.Now(), res)
}

// promoteEliminated recomputes every seat's condition via the rule
// engine, then demotes anyone who was already Checkmate/Stalemate/Lost
// to Lost — they are reported once on the boundary update and skipped
// from then on.
func promoteEliminated(g *game.Game) {
	conditions := board.ComputePlayerStates(g.Board)
	for i := range g.Players {
		p := &g.Players[i]
		prior := p.Condition
		p.Condition = conditions[p.Color]
		switch prior {
		case board.Checkmate:
			p.Condition = board.Lost
			p.EliminatedByCheckmate = true
		case board.Stalemate:
			p.Condition = board.Lost
			p.EliminatedByCheckmate = false
		case board.Lost:
			p.Condition = board.Lost
		}
	}
}
