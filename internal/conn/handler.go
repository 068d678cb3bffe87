// Connection handler

package conn

import (
	"encoding/json"
	"time"

	"fpc-server/internal/config"
	"fpc-server/internal/peer"
	"fpc-server/internal/protocol"
	"fpc-server/internal/registry"
)

// Handle runs one connection end to end: register the peer, launch
// the read and write sub-tasks, and clean up once either exits. It
// blocks until the connection is done. A panic anywhere in the
// handling of this one connection is caught here so it cannot take
// down the rest of the server.
func Handle(reg *registry.Registry, f Frame) {
	addr := f.RemoteAddr()
	defer func() {
		if r := recover(); r != nil {
			config.Log.Printf("%s: recovered from panic: %v", addr, r)
		}
	}()

	p := peer.New(addr, time.Now())
	if err := reg.TryInsert(p); err != nil {
		config.Log.Printf("%s: %v, dropping connection", addr, err)
		f.Close()
		return
	}
	config.Debug.Printf("%s: connected", addr)

	done := make(chan struct{})

	go writeLoop(f, p, done)
	readLoop(f, reg, p)

	close(done)
	f.Close()
	reg.Remove(addr)
	config.Debug.Printf("%s: disconnected", addr)
}

// readLoop parses inbound frames and dispatches them to the message
// handler table. Parse errors are logged and the frame dropped; the
// connection stays open.
func readLoop(f Frame, reg *registry.Registry, p *peer.Peer) {
	for {
		raw, err := f.ReadFrame()
		if err != nil {
			return
		}
		if len(raw) == 0 {
			continue
		}
		var pdu protocol.Pdu
		if err := json.Unmarshal(raw, &pdu); err != nil {
			config.Log.Printf("%s: parse error: %v", p.Addr, err)
			continue
		}
		dispatch(reg, p, pdu)
	}
}

// writeLoop drains the peer's outbound mailbox onto the wire whenever
// it is woken, until the connection is torn down by readLoop exiting.
func writeLoop(f Frame, p *peer.Peer, done <-chan struct{}) {
	defer func() {
		if r := recover(); r != nil {
			config.Log.Printf("%s: write loop recovered from panic: %v", p.Addr, r)
		}
	}()
	for {
		select {
		case <-done:
			return
		case <-p.Wake():
		}
		for _, pdu := range p.Drain() {
			data, err := json.Marshal(pdu)
			if err != nil {
				config.Log.Printf("%s: encode error: %v", p.Addr, err)
				continue
			}
			if err := f.WriteFrame(data); err != nil {
				config.Log.Printf("%s: write error: %v", p.Addr, err)
				return
			}
		}
	}
}
