// Package conn implements the connection handler: one Frame per
// accepted socket (raw TCP or websocket), and the read/write sub-tasks
// that drive a peer through the message handler table.
package conn

import (
	"bufio"
	"io"
	"net"

	"github.com/gorilla/websocket"
)

// Frame hides the difference between the raw newline-delimited TCP
// transport and the self-framing websocket transport behind one
// read/write-a-whole-message interface: each application message is
// exactly one frame.
type Frame interface {
	ReadFrame() ([]byte, error)
	WriteFrame([]byte) error
	Close() error
	RemoteAddr() string
}

// tcpFrame frames a raw socket as newline-delimited JSON, the way the
// teacher's Client.Respond terminates every message with "\r\n".
type tcpFrame struct {
	conn net.Conn
	r    *bufio.Reader
}

func NewTCPFrame(c net.Conn) Frame {
	return &tcpFrame{conn: c, r: bufio.NewReader(c)}
}

func (f *tcpFrame) ReadFrame() ([]byte, error) {
	line, err := f.r.ReadBytes('\n')
	if err != nil && len(line) == 0 {
		return nil, err
	}
	for len(line) > 0 && (line[len(line)-1] == '\n' || line[len(line)-1] == '\r') {
		line = line[:len(line)-1]
	}
	return line, nil
}

func (f *tcpFrame) WriteFrame(b []byte) error {
	_, err := f.conn.Write(append(append([]byte(nil), b...), '\r', '\n'))
	return err
}

func (f *tcpFrame) Close() error { return f.conn.Close() }

func (f *tcpFrame) RemoteAddr() string { return f.conn.RemoteAddr().String() }

// wsFrame frames a gorilla/websocket connection: each text message is
// already exactly one frame, no delimiter required.
type wsFrame struct {
	conn *websocket.Conn
}

func NewWSFrame(c *websocket.Conn) Frame {
	return &wsFrame{conn: c}
}

func (f *wsFrame) ReadFrame() ([]byte, error) {
	_, data, err := f.conn.ReadMessage()
	if err != nil {
		return nil, io.EOF
	}
	return data, nil
}

func (f *wsFrame) WriteFrame(b []byte) error {
	return f.conn.WriteMessage(websocket.TextMessage, b)
}

func (f *wsFrame) Close() error { return f.conn.Close() }

func (f *wsFrame) RemoteAddr() string { return f.conn.RemoteAddr().String() }
