// Package dispatch runs the single periodic task that advances peers
// through MMQueue -> HbWait -> HbReady -> Game in batches of four.
package dispatch

import (
	"crypto/rand"
	"sync/atomic"
	"time"

	"fpc-server/internal/board"
	"fpc-server/internal/config"
	"fpc-server/internal/driver"
	"fpc-server/internal/game"
	"fpc-server/internal/peer"
	"fpc-server/internal/protocol"
	"fpc-server/internal/registry"
)

// Dispatcher owns the monotonic game-id counter and runs the 1 s tick.
type Dispatcher struct {
	reg    *registry.Registry
	timing config.Timing
	nextID uint64
}

func New(reg *registry.Registry, timing config.Timing) *Dispatcher {
	return &Dispatcher{reg: reg, timing: timing}
}

// Run blocks, ticking every timing.DispatchTick, until done is closed.
func (d *Dispatcher) Run(done <-chan struct{}) {
	ticker := time.NewTicker(d.timing.DispatchTick)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			d.tick()
		}
	}
}

func (d *Dispatcher) tick() {
	defer func() {
		if r := recover(); r != nil {
			config.Log.Printf("dispatcher: recovered from panic: %v", r)
		}
	}()
	now := time.Now()
	d.passA(now)
	d.passB(now)
	d.passC(now)
	d.passD(now)
}

// passA promotes MMQueue peers to HbWait in groups of four. Peer
// state is committed under each member's own lock; the registry
// bucket move happens afterward, respecting the fixed lock order
// Registry -> bucket -> Game -> Peer -> outbound channel (never the
// reverse).
func (d *Dispatcher) passA(now time.Time) {
	var group []*peer.Peer
	for _, p := range d.reg.Bucket(peer.MMQueue) {
		if p.State().Kind != peer.MMQueue {
			continue
		}
		group = append(group, p)
		if len(group) < 4 {
			continue
		}
		for _, member := range group {
			promoted := false
			member.WithState(func(s peer.State, set func(peer.State)) {
				if s.Kind != peer.MMQueue {
					return
				}
				set(peer.State{Kind: peer.HbWait, Sent: now})
				promoted = true
			})
			if !promoted {
				continue
			}
			member.Enqueue(protocol.HeartbeatCheckPdu())
			d.reg.MoveToBucket(peer.HbWait, member)
		}
		group = nil
	}
	d.reg.PruneBucket(peer.MMQueue, nil)
}

// passB returns HbWait peers that never acked back to Idle.
func (d *Dispatcher) passB(now time.Time) {
	for _, p := range d.reg.Bucket(peer.HbWait) {
		kicked := false
		p.WithState(func(s peer.State, set func(peer.State)) {
			if s.Kind != peer.HbWait {
				return
			}
			if now.Sub(s.Sent) <= d.timing.HeartbeatWaitTimeout {
				return
			}
			set(peer.State{Kind: peer.Idle})
			kicked = true
		})
		if !kicked {
			continue
		}
		p.SetPlayerName("")
		p.Enqueue(protocol.PlayerKickPdu("Heartbeat timeout"))
		d.reg.MoveToBucket(peer.Idle, p)
	}
	d.reg.PruneBucket(peer.HbWait, nil)
}

// passC requeues HbReady peers that have waited too long for a
// complete quartet, so a later full group can form promptly.
func (d *Dispatcher) passC(now time.Time) {
	for _, p := range d.reg.Bucket(peer.HbReady) {
		requeued := false
		p.WithState(func(s peer.State, set func(peer.State)) {
			if s.Kind != peer.HbReady {
				return
			}
			if now.Sub(s.Ack) <= d.timing.HeartbeatReadyTimeout {
				return
			}
			set(peer.State{Kind: peer.MMQueue})
			requeued = true
		})
		if requeued {
			d.reg.MoveToBucket(peer.MMQueue, p)
		}
	}
	d.reg.PruneBucket(peer.HbReady, nil)
}

var seats = [4]board.Color{board.Red, board.Blue, board.Yellow, board.Green}

// passD deals HbReady peers into fresh games in groups of four,
// seating them Red, Blue, Yellow, Green in ready-bucket iteration
// order.
func (d *Dispatcher) passD(now time.Time) {
	var group []*peer.Peer
	for _, p := range d.reg.Bucket(peer.HbReady) {
		if p.State().Kind != peer.HbReady {
			continue
		}
		group = append(group, p)
		if len(group) == 4 {
			d.deal(group)
			group = nil
		}
	}
	d.reg.PruneBucket(peer.HbReady, nil)
}

func (d *Dispatcher) deal(group []*peer.Peer) {
	id := atomic.AddUint64(&d.nextID, 1)

	var players [4]game.Player
	tokens := make([]string, 4)
	for i, c := range seats {
		tok := d.mintToken()
		tokens[i] = tok
		players[i] = game.Player{
			Color:          c,
			ReconnectToken: tok,
			TimeRemaining:  d.timing.PlayerTimer,
			Name:           group[i].PlayerName(),
			Outbox:         group[i],
		}
	}

	g := game.New(id, players)
	d.reg.RegisterGame(g, tokens)

	starts := protocol.StartPositions{
		Red:    protocol.StartPosition{PlayerName: players[0].Name, LeftRook: board.Red.StartRook()},
		Blue:   protocol.StartPosition{PlayerName: players[1].Name, LeftRook: board.Blue.StartRook()},
		Yellow: protocol.StartPosition{PlayerName: players[2].Name, LeftRook: board.Yellow.StartRook()},
		Green:  protocol.StartPosition{PlayerName: players[3].Name, LeftRook: board.Green.StartRook()},
	}

	for i, p := range group {
		color := seats[i]
		p.WithState(func(_ peer.State, set func(peer.State)) {
			set(peer.State{Kind: peer.InGame, Color: color, GameID: id})
		})
		p.Enqueue(protocol.InitPdu(protocol.Init{
			Countdown:      uint64(d.timing.InitPause / time.Second),
			ReconnectID:    players[i].ReconnectToken,
			StartPositions: starts,
		}))
	}

	go driver.Run(g, d.timing)
}

const tokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// mintToken generates a 32-character random alphanumeric string,
// retrying on the (astronomically unlikely) collision with a token
// already in use by a live game.
func (d *Dispatcher) mintToken() string {
	for {
		tok := randomToken(32)
		if !d.reg.TokenTaken(tok) {
			return tok
		}
	}
}

func randomToken(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	out := make([]byte, n)
	for i, b := range buf {
		out[i] = tokenAlphabet[int(b)%len(tokenAlphabet)]
	}
	return string(out)
}
