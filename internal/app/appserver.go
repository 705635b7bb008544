package app

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/arcvelit/http/internal/core/gateway"
	"github.com/arcvelit/http/internal/shared/logger"
	"github.com/arcvelit/http/internal/shared/types"
)

// AppServer wires the gateway and the periodic stats log together.
type AppServer struct {
	cfg     *types.Config
	gateway *gateway.Gateway

	mu       sync.Mutex
	cancel   context.CancelFunc
	stopOnce sync.Once
}

func New(cfg *types.Config) *AppServer {
	return &AppServer{
		cfg:     cfg,
		gateway: gateway.New(cfg.ServerConf),
	}
}

// Start binds the listening socket. It does not accept connections yet.
func (s *AppServer) Start() (int, error) {
	return s.gateway.InitializeListener()
}

// Run serves until ctx is cancelled or Stop is called, then drains live
// connections before returning.
func (s *AppServer) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		return s.gateway.Serve(ctx)
	})

	if s.cfg.StatsInterval > 0 {
		g.Go(func() error {
			s.statsLoop(ctx, s.cfg.StatsInterval)
			return nil
		})
	}

	err := g.Wait()
	s.Stop()
	return err
}

// Stop stops accepting and drains the gateway. Safe to call more than once.
func (s *AppServer) Stop() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()

	s.stopOnce.Do(func() {
		logger.Info().Msg("Stopping server...")
		s.gateway.Close()
	})
}

// Stats returns the gateway counters.
func (s *AppServer) Stats() types.TrafficStats {
	return s.gateway.Stats()
}

// ListenerInfo returns the bound endpoint, or nil before Start.
func (s *AppServer) ListenerInfo() *types.ListenerInfo {
	return s.gateway.GetListenerInfo()
}

// statsLoop periodically logs connection counts and transfer rates.
func (s *AppServer) statsLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var lastUplink, lastDownlink uint64
	lastTimestamp := time.Now()

	for {
		select {
		case <-ticker.C:
			stats := s.gateway.Stats()
			now := time.Now()

			var upRate, downRate uint64
			if elapsed := now.Sub(lastTimestamp).Seconds(); elapsed > 0 {
				upRate = uint64(float64(stats.Uplink-lastUplink) / elapsed)
				downRate = uint64(float64(stats.Downlink-lastDownlink) / elapsed)
			}
			lastUplink = stats.Uplink
			lastDownlink = stats.Downlink
			lastTimestamp = now

			logger.Info().
				Uint64("accepted", stats.Accepted).
				Uint64("served", stats.Served).
				Uint64("failed", stats.Failed).
				Int64("active", stats.ActiveConnections).
				Uint64("uplink_rate", upRate).
				Uint64("downlink_rate", downRate).
				Msg("Traffic stats")

		case <-ctx.Done():
			return
		}
	}
}
