//go:build !linux

package listener

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"github.com/arcvelit/http/internal/shared/types"
)

// Listen binds with the OS default backlog; cfg.Backlog is only honoured on linux.
func Listen(cfg types.ServerConf) (net.Listener, error) {
	ip, err := bindIPv4(cfg)
	if err != nil {
		return nil, err
	}

	addr := net.JoinHostPort(ip.String(), strconv.Itoa(cfg.Port))
	var lc net.ListenConfig
	l, err := lc.Listen(context.Background(), "tcp4", addr)
	if err != nil {
		return nil, fmt.Errorf("bind failed on %s: %w", addr, err)
	}
	return l, nil
}
