// Package game holds a single table's players, board and move-signal
// channel. It never imports internal/peer: a Player's Outbox is a
// small local interface that peer.Peer satisfies structurally, which
// keeps the peer<->game dependency one-directional.
package game

import (
	"sync"
	"time"

	"fpc-server/internal/board"
	"fpc-server/internal/protocol"
)

// Outbox is the one method a Game needs from whatever is seated at a
// color: somewhere to put outbound Pdus.
type Outbox interface {
	Enqueue(protocol.Pdu)
}

// MoveRecord is what a message handler deposits into WhoMove.Complete
// once it has validated and accepted a move.
type MoveRecord struct {
	Move board.Move
	At   time.Time
}

// WhoMove names the seat the turn driver is waiting on.
type WhoMove struct {
	Color    board.Color
	Since    time.Time
	Complete *MoveRecord
}

// Player is one of the four seats at a table.
type Player struct {
	Color          board.Color
	ReconnectToken string
	TimeRemaining  time.Duration
	Condition      board.PlayerCondition
	Name           string
	Outbox         Outbox

	// EliminatedByCheckmate records whether this seat's Lost
	// condition was reached via checkmate (pieces freeze on the
	// board) rather than a timeout or other elimination (pieces
	// clear) — see protocol.EncodePlayerState.
	EliminatedByCheckmate bool
}

// Game is a single active table. All access beyond reads of ID goes
// through the Mu lock, taken by message handlers and the turn driver
// in the fixed order Registry -> bucket -> Game -> Peer.
type Game struct {
	ID uint64

	Mu      sync.Mutex
	Board   *board.Board
	Players [4]Player
	WhoMove *WhoMove

	// MoveSignal wakes the turn driver whenever a handler records a
	// MoveRecord under Mu. Buffered so handlers never block while
	// holding the game lock: no task should ever block on I/O or on
	// another goroutine while holding it.
	MoveSignal chan struct{}
}

// New builds a fresh table seated in the fixed Red/Blue/Yellow/Green
// order, with a starting board and no mover yet selected.
func New(id uint64, players [4]Player) *Game {
	return &Game{
		ID:         id,
		Board:      board.NewBoard(),
		Players:    players,
		MoveSignal: make(chan struct{}, 1),
	}
}

// Player returns a pointer to the seat of the given color, for
// in-place mutation under Mu.
func (g *Game) Player(c board.Color) *Player {
	for i := range g.Players {
		if g.Players[i].Color == c {
			return &g.Players[i]
		}
	}
	return nil
}

// Lost reports whether the seat's condition is currently Lost. Passed
// to turnorder.Next as the elimination predicate.
func (g *Game) Lost(c board.Color) bool {
	p := g.Player(c)
	return p != nil && p.Condition == board.Lost
}

// Broadcast iterates the four seats in fixed Red, Blue, Yellow, Green
// order and enqueues pdu to each. A nil Outbox (seat never wired, or
// peer already gone) is skipped rather than aborting the broadcast —
// the other three must still receive it.
func (g *Game) Broadcast(pdu protocol.Pdu) {
	for _, c := range [4]board.Color{board.Red, board.Blue, board.Yellow, board.Green} {
		p := g.Player(c)
		if p == nil || p.Outbox == nil {
			continue
		}
		p.Outbox.Enqueue(pdu)
	}
}

// Signal wakes the turn driver. Non-blocking: the channel is
// capacity-1 and the driver only ever needs to know "something
// happened", not how many times.
func (g *Game) Signal() {
	select {
	case g.MoveSignal <- struct{}{}:
	default:
	}
}
