// Package registry holds a primary address-keyed peer map, four
// lifecycle bucket caches, and the two game-side maps (by id and by
// reconnect token). Buckets are advisory — the authoritative state
// lives on the peer itself — so callers iterating a bucket must
// re-check peer.State() under its own lock before acting.
package registry

import (
	"errors"
	"sync"
	"time"

	"fpc-server/internal/game"
	"fpc-server/internal/peer"
)

var ErrDuplicateAddress = errors.New("registry: duplicate address")

// Registry owns every live Peer and Game. The zero value is not
// ready; use New.
type Registry struct {
	mu      sync.RWMutex
	peers   map[string]*peer.Peer
	buckets map[peer.Kind]map[string]*peer.Peer

	gamesMu   sync.RWMutex
	games     map[uint64]*game.Game
	reconnect map[string]*game.Game
}

func New() *Registry {
	r := &Registry{
		peers: make(map[string]*peer.Peer),
		buckets: map[peer.Kind]map[string]*peer.Peer{
			peer.Idle:    make(map[string]*peer.Peer),
			peer.MMQueue: make(map[string]*peer.Peer),
			peer.HbWait:  make(map[string]*peer.Peer),
			peer.HbReady: make(map[string]*peer.Peer),
		},
		games:     make(map[uint64]*game.Game),
		reconnect: make(map[string]*game.Game),
	}
	return r
}

// TryInsert adds a freshly accepted peer to the primary map.
func (r *Registry) TryInsert(p *peer.Peer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.peers[p.Addr]; exists {
		return ErrDuplicateAddress
	}
	r.peers[p.Addr] = p
	return nil
}

// Remove deletes addr from the primary map and, if present, moves its
// state to Unknown so any stale bucket entry resolves as a no-op on
// its next lazy-reconciliation check.
func (r *Registry) Remove(addr string) {
	r.mu.Lock()
	p, ok := r.peers[addr]
	delete(r.peers, addr)
	r.mu.Unlock()

	if !ok {
		return
	}
	p.WithState(func(_ peer.State, set func(peer.State)) {
		set(peer.State{Kind: peer.Unknown, At: time.Now()})
	})
}

// Get looks up a peer by address.
func (r *Registry) Get(addr string) (*peer.Peer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.peers[addr]
	return p, ok
}

// MoveToBucket inserts p into the cache for kind. It does not remove p
// from whatever bucket it may already be cached under — stale entries
// are filtered out by bucket readers re-checking p.State().
func (r *Registry) MoveToBucket(kind peer.Kind, p *peer.Peer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.buckets[kind]
	if !ok {
		return
	}
	b[p.Addr] = p
}

// Bucket returns a snapshot slice of the cached peers for kind. Callers
// must re-check each peer's authoritative state before acting, and
// should call PruneBucket afterward to drop entries that no longer
// belong.
func (r *Registry) Bucket(kind peer.Kind) []*peer.Peer {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b := r.buckets[kind]
	out := make([]*peer.Peer, 0, len(b))
	for _, p := range b {
		out = append(out, p)
	}
	return out
}

// PruneBucket drops stale peers from kind's cache: any peer whose
// authoritative state is no longer kind, plus every peer in drop.
func (r *Registry) PruneBucket(kind peer.Kind, drop []*peer.Peer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.buckets[kind]
	if !ok {
		return
	}
	for _, p := range drop {
		delete(b, p.Addr)
	}
	for addr, p := range b {
		if p.State().Kind != kind {
			delete(b, addr)
		}
	}
}

// RegisterGame records a newly dealt table under its id and mints
// reconnect-token lookups for each seated player.
func (r *Registry) RegisterGame(g *game.Game, tokens []string) {
	r.gamesMu.Lock()
	defer r.gamesMu.Unlock()
	r.games[g.ID] = g
	for _, tok := range tokens {
		r.reconnect[tok] = g
	}
}

// UnregisterGame drops a finished table and its reconnect tokens.
func (r *Registry) UnregisterGame(g *game.Game, tokens []string) {
	r.gamesMu.Lock()
	defer r.gamesMu.Unlock()
	delete(r.games, g.ID)
	for _, tok := range tokens {
		delete(r.reconnect, tok)
	}
}

// GameByID looks up a live table by id.
func (r *Registry) GameByID(id uint64) (*game.Game, bool) {
	r.gamesMu.RLock()
	defer r.gamesMu.RUnlock()
	g, ok := r.games[id]
	return g, ok
}

// GameCount reports how many tables are currently live, for the
// status endpoint.
func (r *Registry) GameCount() int {
	r.gamesMu.RLock()
	defer r.gamesMu.RUnlock()
	return len(r.games)
}

// TokenTaken reports whether tok is already minted for a live game,
// for the dispatcher's collision-retry loop.
func (r *Registry) TokenTaken(tok string) bool {
	r.gamesMu.RLock()
	defer r.gamesMu.RUnlock()
	_, ok := r.reconnect[tok]
	return ok
}
