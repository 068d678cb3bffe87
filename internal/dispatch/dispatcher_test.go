package dispatch

import (
	"testing"
	"time"

	"fpc-server/internal/config"
	"fpc-server/internal/peer"
	"fpc-server/internal/registry"
)

func mkQueuedPeer(reg *registry.Registry, addr, name string) *peer.Peer {
	p := peer.New(addr, time.Now())
	reg.TryInsert(p)
	p.WithState(func(_ peer.State, set func(peer.State)) { set(peer.State{Kind: peer.MMQueue}) })
	p.SetPlayerName(name)
	reg.MoveToBucket(peer.MMQueue, p)
	return p
}

func TestPassAPromotesFullGroupOfFour(t *testing.T) {
	reg := registry.New()
	d := New(reg, config.Default.Timing)
	var ps []*peer.Peer
	for i := 0; i < 4; i++ {
		ps = append(ps, mkQueuedPeer(reg, string(rune('a'+i))+":1", "p"))
	}

	d.passA(time.Now())

	for _, p := range ps {
		if p.State().Kind != peer.HbWait {
			t.Fatalf("got %v, want HbWait", p.State().Kind)
		}
		msgs := p.Drain()
		if len(msgs) != 1 || msgs[0].MatchmakingQueue == nil || msgs[0].MatchmakingQueue.HeartbeatCheck == nil {
			t.Fatalf("expected a heartbeat_check, got %+v", msgs)
		}
	}
}

func TestPassALeavesPartialGroupQueued(t *testing.T) {
	reg := registry.New()
	d := New(reg, config.Default.Timing)
	p := mkQueuedPeer(reg, "a:1", "p")

	d.passA(time.Now())

	if p.State().Kind != peer.MMQueue {
		t.Fatalf("got %v, want MMQueue (group incomplete)", p.State().Kind)
	}
}

func TestPassBKicksStaleHbWait(t *testing.T) {
	reg := registry.New()
	d := New(reg, config.Timing{HeartbeatWaitTimeout: time.Second})
	p := peer.New("a:1", time.Now())
	reg.TryInsert(p)
	sentAt := time.Now().Add(-2 * time.Second)
	p.WithState(func(_ peer.State, set func(peer.State)) { set(peer.State{Kind: peer.HbWait, Sent: sentAt}) })
	reg.MoveToBucket(peer.HbWait, p)

	d.passB(time.Now())

	if p.State().Kind != peer.Idle {
		t.Fatalf("got %v, want Idle", p.State().Kind)
	}
	msgs := p.Drain()
	if len(msgs) != 1 || msgs[0].MatchmakingQueue == nil || msgs[0].MatchmakingQueue.PlayerKick == nil {
		t.Fatalf("expected a player_kick, got %+v", msgs)
	}
}

func TestPassCRequeuesStaleHbReady(t *testing.T) {
	reg := registry.New()
	d := New(reg, config.Timing{HeartbeatReadyTimeout: time.Second})
	p := peer.New("a:1", time.Now())
	reg.TryInsert(p)
	ackAt := time.Now().Add(-2 * time.Second)
	p.WithState(func(_ peer.State, set func(peer.State)) { set(peer.State{Kind: peer.HbReady, Ack: ackAt}) })
	reg.MoveToBucket(peer.HbReady, p)

	d.passC(time.Now())

	if p.State().Kind != peer.MMQueue {
		t.Fatalf("got %v, want MMQueue", p.State().Kind)
	}
}

func TestPassDDealsAGameAndSendsInit(t *testing.T) {
	reg := registry.New()
	d := New(reg, config.Default.Timing)
	var ps []*peer.Peer
	for i := 0; i < 4; i++ {
		p := peer.New(string(rune('a'+i))+":1", time.Now())
		reg.TryInsert(p)
		p.SetPlayerName("p" + string(rune('1'+i)))
		p.WithState(func(_ peer.State, set func(peer.State)) { set(peer.State{Kind: peer.HbReady, Ack: time.Now()}) })
		reg.MoveToBucket(peer.HbReady, p)
		ps = append(ps, p)
	}

	d.passD(time.Now())

	for i, p := range ps {
		st := p.State()
		if st.Kind != peer.InGame {
			t.Fatalf("peer %d: got %v, want Game", i, st.Kind)
		}
		msgs := p.Drain()
		if len(msgs) != 1 || msgs[0].GameSession == nil || msgs[0].GameSession.Init == nil {
			t.Fatalf("peer %d: expected an init frame, got %+v", i, msgs)
		}
	}

	if _, ok := reg.GameByID(1); !ok {
		t.Fatal("expected game 1 to be registered")
	}
}

func TestMintTokenProducesDistinctTokens(t *testing.T) {
	reg := registry.New()
	d := New(reg, config.Default.Timing)
	a := d.mintToken()
	b := d.mintToken()
	if len(a) != 32 || len(b) != 32 {
		t.Fatalf("expected 32-character tokens, got %d and %d", len(a), len(b))
	}
	if a == b {
		t.Fatal("expected two mints to produce distinct tokens")
	}
}
