package game

import (
	"time"

	"fpc-server/internal/board"
	"fpc-server/internal/protocol"
)

// Call builds a move_call.call payload for color with the given
// remaining think time and per-turn grace.
func Call(c board.Color, remaining, grace time.Duration) protocol.MoveCall {
	return protocol.MoveCall{Call: &protocol.Call{
		Player: c,
		Timer:  uint64(remaining / time.Second),
		Timer2: uint64(grace / time.Second),
	}}
}

// NoCall builds a move_call.no_call payload, sent on the final Update
// of a finished game.
func NoCall() protocol.MoveCall {
	return protocol.MoveCall{NoCall: &protocol.Empty{}}
}

// ToPdu renders the wire Update for the game's current state — the
// move_call passed in, the previous move, and every seat's encoded
// PlayerState — and wraps it in a Pdu ready for Broadcast. Eliminated
// seats distinguish a checkmate (pieces frozen in place) from any
// other elimination (board cleared).
func ToPdu(g *Game, previous protocol.Move, call protocol.MoveCall) protocol.Pdu {
	var states protocol.PlayersStates
	for _, c := range [4]board.Color{board.Red, board.Blue, board.Yellow, board.Green} {
		p := g.Player(c)
		state := protocol.EncodePlayerState(p.Condition, p.EliminatedByCheckmate)
		switch c {
		case board.Red:
			states.Red = state
		case board.Blue:
			states.Blue = state
		case board.Yellow:
			states.Yellow = state
		case board.Green:
			states.Green = state
		}
	}
	return protocol.UpdatePdu(protocol.Update{
		MoveCall:      call,
		MovePrevious:  previous,
		PlayersStates: states,
	})
}
