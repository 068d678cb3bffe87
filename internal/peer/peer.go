// Package peer holds the per-connection Peer record: its lifecycle
// state machine and its unbounded outbound mailbox. A Peer never
// imports the game package directly — it stores only the small
// identifiers (game id, color) a Game{} variant needs, so the
// dependency between peer and game runs one way (see internal/game's
// Outbox interface, which Peer satisfies structurally).
package peer

import (
	"sync"
	"time"

	"fpc-server/internal/board"
	"fpc-server/internal/protocol"
)

// Kind enumerates the peer lifecycle states.
type Kind int

const (
	Unknown Kind = iota
	Idle
	MMQueue
	HbWait
	HbReady
	InGame
)

func (k Kind) String() string {
	switch k {
	case Unknown:
		return "Unknown"
	case Idle:
		return "Idle"
	case MMQueue:
		return "MMQueue"
	case HbWait:
		return "HbWait"
	case HbReady:
		return "HbReady"
	case InGame:
		return "Game"
	default:
		return "?"
	}
}

// State is the tagged-variant PeerState; exactly one Kind is active
// and only the fields that Kind uses are meaningful.
type State struct {
	Kind Kind

	// Unknown
	At time.Time

	// HbWait
	Sent time.Time

	// HbReady
	Ack time.Time

	// InGame
	Color  board.Color
	GameID uint64
}

// ClientInfo is the (name, version, protocol) triple a Connect.Client
// message supplies during the handshake.
type ClientInfo struct {
	Name     string
	Version  string
	Protocol string
}

// Peer is one connected client. The zero value is not useful; build
// one with New.
type Peer struct {
	Addr string

	mu         sync.Mutex
	state      State
	client     ClientInfo
	haveClient bool
	playerName string

	outMu sync.Mutex
	out   []protocol.Pdu
	wake  chan struct{}
}

// New creates a Peer in the initial Unknown state, ready to be
// registered.
func New(addr string, now time.Time) *Peer {
	return &Peer{
		Addr:  addr,
		state: State{Kind: Unknown, At: now},
		wake:  make(chan struct{}, 1),
	}
}

// State returns a copy of the peer's authoritative lifecycle state.
// Callers that need to act on it under lock should use WithState.
func (p *Peer) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// WithState runs fn with the peer lock held, passing the current
// state and a setter. This is the only way callers should read-then-
// mutate a Peer's state, so that message handlers and the dispatcher
// never race on a stale read.
func (p *Peer) WithState(fn func(s State, set func(State))) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fn(p.state, func(s State) { p.state = s })
}

func (p *Peer) SetClientInfo(info ClientInfo) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.client = info
	p.haveClient = true
}

func (p *Peer) ClientInfo() (ClientInfo, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.client, p.haveClient
}

func (p *Peer) SetPlayerName(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.playerName = name
}

func (p *Peer) PlayerName() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playerName
}

// Enqueue appends a message to the peer's unbounded outbound mailbox
// and wakes the drain loop. It satisfies game.Outbox structurally, so
// the game package never imports peer. Safe to call from any number
// of producers (dispatcher, turn driver, message handlers).
func (p *Peer) Enqueue(pdu protocol.Pdu) {
	p.outMu.Lock()
	p.out = append(p.out, pdu)
	p.outMu.Unlock()

	select {
	case p.wake <- struct{}{}:
	default:
	}
}

// Drain removes and returns every message enqueued so far, in enqueue
// order. The connection handler's write sub-task calls this after
// each wake-up.
func (p *Peer) Drain() []protocol.Pdu {
	p.outMu.Lock()
	defer p.outMu.Unlock()
	if len(p.out) == 0 {
		return nil
	}
	msgs := p.out
	p.out = nil
	return msgs
}

// Wake is signalled whenever Enqueue adds a message to a previously
// empty mailbox; the write sub-task selects on it.
func (p *Peer) Wake() <-chan struct{} {
	return p.wake
}
