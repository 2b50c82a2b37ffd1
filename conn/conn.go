package conn

import (
	"encoding/json"
	"errors"
	"net"
	"sync"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrClosed = errors.New("connection is not running anymore")

// Websocket connection wrapper to handle JsonRpc communication
type Conn struct {
	ID        string
	c         net.Conn
	In        chan []byte
	Exit      chan interface{}
	closeOnce sync.Once
	writeMu   sync.Mutex
	logger    *zap.Logger
}

// NewConn wraps c and starts reading client messages into In.
func NewConn(c net.Conn, logger *zap.Logger) *Conn {
	if logger == nil {
		logger = zap.NewNop()
	}
	id := uuid.NewString()
	conn := Conn{
		ID:     id,
		c:      c,
		In:     make(chan []byte),
		Exit:   make(chan interface{}),
		logger: logger.With(zap.String("conn_id", id)),
	}
	conn.GoRead()
	return &conn
}

// Sends ping message to the connection
func (c *Conn) Ping() {
	if !c.IsRunning() {
		return
	}
	c.writeMu.Lock()
	err := wsutil.WriteServerMessage(c.c, ws.OpPing, ws.CompiledPing)
	c.writeMu.Unlock()
	if err != nil {
		c.logger.Debug("ping failed", zap.Error(err))
		c.Close()
	}
}

// Closes connection. Exit is closed so every goroutine watching the
// connection can stop.
func (c *Conn) Close() {
	c.closeOnce.Do(func() {
		c.writeMu.Lock()
		_ = wsutil.WriteServerMessage(c.c, ws.OpClose, nil)
		c.writeMu.Unlock()
		close(c.Exit)
		c.logger.Debug("connection closed")
	})
}

// gorutine for reading messages from connection
func (c *Conn) GoRead() {
	go func() {
		defer close(c.In)
		for {
			msg, _, err := wsutil.ReadClientData(c.c)
			if err != nil {
				c.Close()
				return
			}
			select {
			case c.In <- msg:
			case <-c.Exit:
				return
			}
		}
	}()
}

// Send writes data to the connection as a text frame.
func (c *Conn) Send(msg []byte) error {
	if !c.IsRunning() {
		return ErrClosed
	}
	c.writeMu.Lock()
	err := wsutil.WriteServerMessage(c.c, ws.OpText, msg)
	c.writeMu.Unlock()
	if err != nil {
		c.logger.Debug("write failed", zap.Error(err))
		c.Close()
	}
	return err
}

// SendJSON marshals v and sends it.
func (c *Conn) SendJSON(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.Send(data)
}

// IsRunning reports whether the connection is still open.
func (c *Conn) IsRunning() bool {
	select {
	case <-c.Exit:
		return false
	default:
	}
	return true
}
