package conn

import (
	"net"
	"testing"
	"time"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConn_ReadAndSend(t *testing.T) {
	server, client := net.Pipe()
	defer client.Close()

	c := NewConn(server, nil)
	assert.NotEmpty(t, c.ID)

	go func() {
		_ = wsutil.WriteClientMessage(client, ws.OpText, []byte(`{"jsonrpc":"2.0"}`))
	}()
	select {
	case msg := <-c.In:
		assert.Equal(t, `{"jsonrpc":"2.0"}`, string(msg))
	case <-time.After(time.Second):
		t.Fatal("message not received")
	}

	go func() {
		assert.NoError(t, c.SendJSON(map[string]int{"a": 1}))
	}()
	data, err := wsutil.ReadServerText(client)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(data))
}

func TestConn_CloseStopsSending(t *testing.T) {
	server, client := net.Pipe()
	c := NewConn(server, nil)

	client.Close()
	select {
	case <-c.Exit:
	case <-time.After(time.Second):
		t.Fatal("connection not closed after peer went away")
	}
	assert.False(t, c.IsRunning())
	assert.ErrorIs(t, c.Send([]byte("x")), ErrClosed)
}
