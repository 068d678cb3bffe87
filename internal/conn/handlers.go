// Message handlers

package conn

import (
	"time"

	"fpc-server/internal/board"
	"fpc-server/internal/config"
	"fpc-server/internal/game"
	"fpc-server/internal/peer"
	"fpc-server/internal/protocol"
	"fpc-server/internal/registry"
)

// dispatch implements the inbound message handler table: each case
// acquires the peer lock, inspects peer.State(), mutates, and enqueues
// a reply before releasing the lock.
func dispatch(reg *registry.Registry, p *peer.Peer, pdu protocol.Pdu) {
	switch {
	case pdu.Handshake != nil:
		dispatchHandshake(reg, p, pdu.Handshake)
	case pdu.MatchmakingQueue != nil:
		dispatchMatchmaking(reg, p, pdu.MatchmakingQueue)
	case pdu.GameSession != nil:
		dispatchGameSession(reg, p, pdu.GameSession)
	}
}

func dispatchHandshake(reg *registry.Registry, p *peer.Peer, h *protocol.Handshake) {
	switch {
	case h.GetInfo != nil && h.GetInfo.Request != nil:
		p.Enqueue(protocol.GetInfoOkPdu([]string{config.ProtoVersion}))

	case h.Connect != nil && h.Connect.Client != nil:
		client := h.Connect.Client
		var accepted, wrongVersion bool
		p.WithState(func(s peer.State, set func(peer.State)) {
			if s.Kind != peer.Unknown {
				return
			}
			if client.Protocol.Version != config.ProtoVersion {
				wrongVersion = true
				return
			}
			set(peer.State{Kind: peer.Idle})
			accepted = true
		})
		if !accepted {
			// A stale or duplicate Connect.Client on a peer that has
			// already left Unknown is ignored outright; only a
			// version mismatch on a fresh peer gets an error reply.
			if wrongVersion {
				p.Enqueue(protocol.ConnectUnsupportedVersionPdu("Unsupported client version"))
			}
			return
		}
		p.SetClientInfo(peer.ClientInfo{Name: client.Name, Version: client.Version, Protocol: client.Protocol.Version})
		reg.MoveToBucket(peer.Idle, p)
		p.Enqueue(protocol.ConnectOkPdu(config.ServerName, config.ServerVersion))
	}
}

func dispatchMatchmaking(reg *registry.Registry, p *peer.Peer, m *protocol.MatchmakingQueue) {
	switch {
	case m.PlayerRegister != nil && m.PlayerRegister.Name != nil:
		name := *m.PlayerRegister.Name
		var reply protocol.Pdu
		p.WithState(func(s peer.State, set func(peer.State)) {
			switch s.Kind {
			case peer.Idle:
				set(peer.State{Kind: peer.MMQueue})
				reply = protocol.PlayerRegisterOkPdu()
			case peer.MMQueue, peer.HbWait, peer.HbReady, peer.InGame:
				reply = protocol.PlayerRegisterAlreadyRegisteredPdu("Already registered")
			case peer.Unknown:
				reply = protocol.PlayerRegisterHandshakePdu("Handshake not completed")
			}
		})
		if reply.MatchmakingQueue != nil && reply.MatchmakingQueue.PlayerRegister.Ok != nil {
			p.SetPlayerName(name)
			reg.MoveToBucket(peer.MMQueue, p)
		}
		p.Enqueue(reply)

	case m.PlayerLeave != nil:
		p.WithState(func(s peer.State, set func(peer.State)) {
			switch s.Kind {
			case peer.MMQueue, peer.HbWait, peer.HbReady:
				set(peer.State{Kind: peer.Idle})
			}
		})

	case m.HeartbeatCheck != nil:
		p.WithState(func(s peer.State, set func(peer.State)) {
			if s.Kind != peer.HbWait {
				return
			}
			set(peer.State{Kind: peer.HbReady, Ack: time.Now()})
		})
		if p.State().Kind == peer.HbReady {
			reg.MoveToBucket(peer.HbReady, p)
		}
	}
}

func dispatchGameSession(reg *registry.Registry, p *peer.Peer, gs *protocol.GameSession) {
	if gs.Move == nil {
		return
	}
	mv, ok := gs.Move.Decode()
	if !ok {
		// no_move / error replies never originate from a client.
		return
	}

	st := p.State()
	if st.Kind != peer.InGame {
		return
	}
	g, ok := reg.GameByID(st.GameID)
	if !ok {
		return
	}

	g.Mu.Lock()
	defer g.Mu.Unlock()

	if g.WhoMove == nil || g.WhoMove.Color != st.Color {
		p.Enqueue(protocol.MoveForbiddenPdu("Not your turn"))
		return
	}
	if _, err := board.ValidateAndApply(g.Board, mv, st.Color); err != nil {
		p.Enqueue(protocol.MoveForbiddenPdu(err.Error()))
		return
	}

	g.WhoMove.Complete = &game.MoveRecord{Move: mv, At: time.Now()}
	g.Signal()
}
