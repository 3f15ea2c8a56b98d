package wire

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.klb.dev/clipdiff/internal/message"
)

func TestWriteReadMsg(t *testing.T) {
	a, b := net.Pipe()
	ca, cb := New(a), New(b)
	defer ca.Close()
	defer cb.Close()

	sent := &message.Message{Type: message.TypeDispatch, FilePath: "/x/y/f.txt"}
	errCh := make(chan error, 1)
	go func() { errCh <- ca.WriteMsg(sent) }()

	got, err := cb.ReadMsg()
	require.NoError(t, err)
	require.NoError(t, <-errCh)
	assert.Equal(t, message.TypeDispatch, got.Type)
	assert.Equal(t, "/x/y/f.txt", got.FilePath)
}

func TestReadMsg_GarbageLine(t *testing.T) {
	a, b := net.Pipe()
	cb := New(b)
	defer cb.Close()

	go func() {
		_, _ = a.Write([]byte("not json\n"))
		_ = a.Close()
	}()

	_, err := cb.ReadMsg()
	require.Error(t, err)
}
