package gateway

import (
	"context"
	"errors"
	"io"
	"net"
	"time"

	"github.com/arcvelit/http/internal/core/response"
)

// readBufferSize bounds the single read performed on each connection.
const readBufferSize = 1024

// handleConnection reads once, answers with the fixed page and closes the
// connection. Failures here only affect this connection.
func (g *Gateway) handleConnection(ctx context.Context, id string, inboundConn net.Conn) {
	defer inboundConn.Close()

	// Cancelling ctx unblocks a pending read or write.
	stop := context.AfterFunc(ctx, func() {
		inboundConn.Close()
	})
	defer stop()

	clientIP := inboundConn.RemoteAddr().String()
	l := g.log.With().Str("conn_id", id).Str("client_ip", clientIP).Logger()
	l.Info().Msg("Client connected")

	if g.cfg.ReadTimeout > 0 {
		inboundConn.SetReadDeadline(time.Now().Add(g.cfg.ReadTimeout))
	}

	var inBuffer [readBufferSize]byte
	n, err := inboundConn.Read(inBuffer[:])
	if n > 0 {
		l.Info().Int("bytes", n).Str("payload", string(inBuffer[:n])).Msg("Received")
	}
	if err != nil && !errors.Is(err, io.EOF) {
		if ctx.Err() != nil {
			g.failed.Add(1)
			l.Debug().Msg("Connection cancelled during read")
			return
		}
		l.Debug().Err(err).Msg("Read failed, responding anyway")
	}

	res := response.Page()
	defer res.Release()

	if g.cfg.WriteTimeout > 0 {
		inboundConn.SetWriteDeadline(time.Now().Add(g.cfg.WriteTimeout))
	}
	written, err := res.WriteTo(inboundConn)
	if err != nil {
		g.failed.Add(1)
		l.Warn().Err(err).Int64("written", written).Int("size", res.Len()).Msg("Send failed")
		return
	}

	g.served.Add(1)
	l.Debug().Int64("bytes", written).Msg("Response sent")
}
