// Package config loads the server's TOML configuration file and holds
// the process-wide constants: protocol version, server identity, and
// the heartbeat/turn timing knobs.
package config

import (
	"io"
	"log"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Log and Debug are the two package-level loggers: Log always writes,
// Debug is silenced unless configured on.
var (
	Log   = log.New(os.Stderr, "", log.Ltime|log.Ldate)
	Debug = log.New(io.Discard, "[debug] ", log.Ltime|log.Lshortfile|log.Lmicroseconds)
)

// ProtoVersion is the single protocol version this server speaks, sent
// in handshake.get_info.ok.protocol.supported_version.
const ProtoVersion = "0"

const (
	ServerName    = "fpc-server"
	ServerVersion = "0.1.0"
)

// Timing holds the duration constants driving the matchmaking
// dispatcher and turn driver.
type Timing struct {
	// DispatchTick is how often the matchmaking dispatcher wakes up to
	// run its four passes.
	DispatchTick time.Duration `toml:"dispatch_tick"`
	// HeartbeatWaitTimeout bounds how long a peer may sit in HbWait
	// before being returned to Idle.
	HeartbeatWaitTimeout time.Duration `toml:"heartbeat_wait_timeout"`
	// HeartbeatReadyTimeout bounds how long a peer may sit in HbReady
	// before being returned to MMQueue.
	HeartbeatReadyTimeout time.Duration `toml:"heartbeat_ready_timeout"`
	// InitPause is the countdown a freshly dealt game waits before its
	// first Update broadcast (game_session.init.countdown).
	InitPause time.Duration `toml:"init_pause"`
	// PlayerTimer and PlayerTimer2 are the two timer fields carried
	// in every move_call.call: the player's own clock and the shared
	// per-move grace period.
	PlayerTimer  time.Duration `toml:"player_timer"`
	PlayerTimer2 time.Duration `toml:"player_timer_2"`
}

var defaultTiming = Timing{
	DispatchTick:          time.Second,
	HeartbeatWaitTimeout:  2 * time.Second,
	HeartbeatReadyTimeout: 5 * time.Second,
	InitPause:             10 * time.Second,
	PlayerTimer:           60 * time.Second,
	PlayerTimer2:          5 * time.Second,
}

// HistoryConf configures the optional sqlite match-history audit log.
type HistoryConf struct {
	Enabled bool   `toml:"enabled"`
	File    string `toml:"file"`
}

// StatusConf configures the bare HTTP status endpoint.
type StatusConf struct {
	Enabled bool   `toml:"enabled"`
	Host    string `toml:"host"`
	Port    uint   `toml:"port"`
}

// WSConf toggles the websocket upgrade path alongside the raw TCP
// listener, both serving the same newline-delimited Pdu stream. It
// binds its own port since a websocket upgrade request and a raw TCP
// connection can't share one listener.
type WSConf struct {
	Enabled bool `toml:"enabled"`
	Port    uint `toml:"port"`
}

// TCPConf configures the raw newline-delimited JSON frame listener.
type TCPConf struct {
	Host string `toml:"host"`
	Port uint   `toml:"port"`
	WS   WSConf `toml:"websocket"`
}

// Conf is the top-level configuration tree, decoded from a TOML file
// named on the command line.
type Conf struct {
	Debug   bool        `toml:"debug"`
	TCP     TCPConf     `toml:"tcp"`
	Timing  Timing      `toml:"timing"`
	History HistoryConf `toml:"history"`
	Status  StatusConf  `toml:"status"`

	file string
}

var Default = Conf{
	Debug: false,
	TCP: TCPConf{
		Host: "0.0.0.0",
		Port: 8080,
		WS:   WSConf{Enabled: true, Port: 8082},
	},
	Timing: defaultTiming,
	History: HistoryConf{
		Enabled: true,
		File:    "fpc-history.sql",
	},
	Status: StatusConf{
		Enabled: true,
		Host:    "0.0.0.0",
		Port:    8081,
	},
}

// Load reads a TOML file over a copy of Default, so unset fields keep
// their defaults rather than zeroing out.
func Load(name string) (*Conf, error) {
	conf := Default
	file, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	if _, err := toml.NewDecoder(file).Decode(&conf); err != nil {
		return nil, err
	}
	conf.file = name
	return &conf, nil
}

// ApplyDebug toggles the Debug logger's output on or off.
func ApplyDebug(enabled bool) {
	if enabled {
		Debug.SetOutput(os.Stderr)
		Debug.Print("enabled debugging output")
	} else {
		Debug.Print("disabling debugging output")
		Debug.SetOutput(io.Discard)
	}
}
