package shared

import (
	"io"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountedConn_CountsBothDirections(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()

	var counter TrafficCounter
	counted := NewCountedConn(server, &counter)
	defer counted.Close()

	go func() {
		client.Write([]byte("ping!"))
		buf := make([]byte, 3)
		io.ReadFull(client, buf)
	}()

	buf := make([]byte, 5)
	_, err := io.ReadFull(counted, buf)
	require.NoError(t, err)
	_, err = counted.Write([]byte("ack"))
	require.NoError(t, err)

	assert.EqualValues(t, 5, counter.Read.Load())
	assert.EqualValues(t, 3, counter.Written.Load())
}
