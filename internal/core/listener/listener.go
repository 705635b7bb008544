// Package listener creates the server's listening socket.
package listener

import (
	"fmt"
	"net"

	"github.com/arcvelit/http/internal/shared/types"
)

// bindIPv4 resolves the address the socket is bound to. With bindAll set the
// configured address is ignored and the wildcard address is used.
func bindIPv4(cfg types.ServerConf) (net.IP, error) {
	if cfg.BindAll || cfg.Address == "" {
		return net.IPv4zero.To4(), nil
	}
	if ip := net.ParseIP(cfg.Address); ip != nil {
		if ip4 := ip.To4(); ip4 != nil {
			return ip4, nil
		}
		return nil, fmt.Errorf("address %s is not an IPv4 address", cfg.Address)
	}
	addr, err := net.ResolveIPAddr("ip4", cfg.Address)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", cfg.Address, err)
	}
	return addr.IP.To4(), nil
}

// Info describes the bound endpoint of l.
func Info(l net.Listener) *types.ListenerInfo {
	tcpAddr, ok := l.Addr().(*net.TCPAddr)
	if !ok {
		return &types.ListenerInfo{Address: l.Addr().String()}
	}
	return &types.ListenerInfo{
		Address: tcpAddr.IP.String(),
		Port:    tcpAddr.Port,
	}
}
