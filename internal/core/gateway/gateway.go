package gateway

import (
	"context"
	"errors"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/net/netutil"

	"github.com/arcvelit/http/internal/core/listener"
	"github.com/arcvelit/http/internal/shared"
	"github.com/arcvelit/http/internal/shared/logger"
	"github.com/arcvelit/http/internal/shared/types"
)

const (
	defaultGracePeriod = 3 * time.Second
	minAcceptBackoff   = 5 * time.Millisecond
	maxAcceptBackoff   = time.Second
)

var (
	ErrNotInitialized = errors.New("gateway: Serve called before InitializeListener")
	ErrGatewayClosed  = errors.New("gateway: closed")
)

// Gateway owns the listening socket and runs the accept loop. Every accepted
// connection is handed to its own goroutine, which becomes the connection's
// only owner.
type Gateway struct {
	cfg          types.ServerConf
	listen       func(types.ServerConf) (net.Listener, error)
	listener     net.Listener
	listenerInfo *types.ListenerInfo
	log          zerolog.Logger

	mu        sync.Mutex // guards closed and waitGroup.Add against Close
	closed    bool
	closeOnce sync.Once
	waitGroup sync.WaitGroup // accept loop
	handlers  sync.WaitGroup // live connection goroutines
	live      sync.Map       // conn id -> context.CancelFunc

	traffic  shared.TrafficCounter
	accepted atomic.Uint64
	served   atomic.Uint64
	failed   atomic.Uint64
	active   atomic.Int64
}

func New(cfg types.ServerConf) *Gateway {
	return &Gateway{
		cfg:    cfg,
		listen: listener.Listen,
		log:    logger.WithComponent("gateway"),
	}
}

// InitializeListener creates the listening socket without blocking and
// returns the bound port.
func (g *Gateway) InitializeListener() (int, error) {
	l, err := g.listen(g.cfg)
	if err != nil {
		return 0, err
	}

	g.listenerInfo = listener.Info(l)
	g.log.Info().
		Str("address", g.cfg.Address).
		Int("port", g.listenerInfo.Port).
		Msgf("Connected to server at %s:%d", g.cfg.Address, g.listenerInfo.Port)

	if g.cfg.MaxConnections > 0 {
		l = netutil.LimitListener(l, g.cfg.MaxConnections)
		g.log.Info().Int("max_connections", g.cfg.MaxConnections).Msg("Admission gate enabled.")
	}
	g.listener = l

	g.log.Info().Str("listen_addr", l.Addr().String()).Msgf("Server listening on port %d...", g.listenerInfo.Port)
	return g.listenerInfo.Port, nil
}

// GetListenerInfo returns the bound endpoint, or nil before InitializeListener.
func (g *Gateway) GetListenerInfo() *types.ListenerInfo {
	return g.listenerInfo
}

// Serve runs the accept loop until ctx is cancelled or Close is called.
// In-flight connections are not waited for; Close drains them.
func (g *Gateway) Serve(ctx context.Context) error {
	if g.listener == nil {
		return ErrNotInitialized
	}

	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return ErrGatewayClosed
	}
	g.waitGroup.Add(1)
	g.mu.Unlock()
	defer g.waitGroup.Done()

	stop := context.AfterFunc(ctx, func() {
		g.listener.Close()
	})
	defer stop()

	g.acceptLoop(ctx)
	return nil
}

func (g *Gateway) acceptLoop(ctx context.Context) {
	var backoff time.Duration
	for {
		conn, err := g.listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) || ctx.Err() != nil {
				g.log.Info().Msg("Gateway listener is closing.")
				return
			}

			if backoff == 0 {
				backoff = minAcceptBackoff
			} else if backoff *= 2; backoff > maxAcceptBackoff {
				backoff = maxAcceptBackoff
			}
			g.log.Warn().Err(err).Dur("retry_in", backoff).Msg("Accept failed")

			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return
			}
			continue
		}
		backoff = 0

		g.dispatch(conn)
	}
}

// dispatch transfers ownership of conn to a new goroutine and returns
// without waiting for it.
func (g *Gateway) dispatch(conn net.Conn) {
	id := uuid.NewString()
	connCtx, cancel := context.WithCancel(context.Background())

	g.accepted.Add(1)
	g.active.Add(1)
	g.live.Store(id, cancel)
	g.handlers.Add(1)

	go func() {
		defer g.handlers.Done()
		defer g.active.Add(-1)
		defer g.live.Delete(id)
		defer cancel()

		g.handleConnection(connCtx, id, shared.NewCountedConn(conn, &g.traffic))
	}()
}

// Stats returns a snapshot of the gateway's counters.
func (g *Gateway) Stats() types.TrafficStats {
	return types.TrafficStats{
		Accepted:          g.accepted.Load(),
		Served:            g.served.Load(),
		Failed:            g.failed.Load(),
		ActiveConnections: g.active.Load(),
		Uplink:            g.traffic.Written.Load(),
		Downlink:          g.traffic.Read.Load(),
	}
}

// Close stops accepting, waits up to the grace period for live connections
// to finish, then cancels the rest and waits for them to exit.
func (g *Gateway) Close() {
	g.closeOnce.Do(func() {
		g.mu.Lock()
		g.closed = true
		g.mu.Unlock()

		if g.listener != nil {
			g.listener.Close()
		}
		g.waitGroup.Wait()

		grace := g.cfg.GracePeriod
		if grace <= 0 {
			grace = defaultGracePeriod
		}

		done := make(chan struct{})
		go func() {
			g.handlers.Wait()
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(grace):
			g.log.Warn().Int64("active", g.active.Load()).Msg("Grace period exceeded. Cancelling connections in progress.")
			g.live.Range(func(key, value any) bool {
				if cancel, ok := value.(context.CancelFunc); ok {
					cancel()
				}
				return true
			})
			<-done
		}

		g.log.Info().Msg("Closed server")
	})
}
