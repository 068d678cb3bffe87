// Listeners

package conn

import (
	"net"
	"net/http"

	"github.com/gorilla/websocket"

	"fpc-server/internal/config"
	"fpc-server/internal/registry"
)

// ListenTCP accepts raw newline-delimited JSON connections on addr
// until the listener is closed, handing each off to Handle in its own
// goroutine.
func ListenTCP(reg *registry.Registry, addr string) (net.Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	config.Debug.Printf("listening on tcp %s", addr)
	go func() {
		for {
			c, err := ln.Accept()
			if err != nil {
				return
			}
			config.Log.Printf("new connection from %s", c.RemoteAddr())
			go Handle(reg, NewTCPFrame(c))
		}
	}()
	return ln, nil
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WebsocketHandler upgrades an HTTP request to a websocket connection
// carrying the same Pdu stream as the raw TCP listener, so a browser
// client can speak the protocol over the port the Go ecosystem
// actually expects for that purpose.
func WebsocketHandler(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			config.Log.Printf("websocket upgrade failed: %v", err)
			return
		}
		config.Log.Printf("new websocket connection from %s", c.RemoteAddr())
		go Handle(reg, NewWSFrame(c))
	}
}
