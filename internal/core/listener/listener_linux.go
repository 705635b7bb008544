//go:build linux

package listener

import (
	"fmt"
	"net"
	"os"

	"golang.org/x/sys/unix"

	"github.com/arcvelit/http/internal/shared/types"
)

// Listen creates an IPv4 stream socket, binds it and puts it into the
// listening state with cfg.Backlog pending connections. The returned error
// names the step that failed.
func Listen(cfg types.ServerConf) (net.Listener, error) {
	ip, err := bindIPv4(cfg)
	if err != nil {
		return nil, err
	}

	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_STREAM|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("socket creation failed: %w", os.NewSyscallError("socket", err))
	}

	sa := &unix.SockaddrInet4{Port: cfg.Port}
	copy(sa.Addr[:], ip)
	if err := unix.Bind(fd, sa); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("bind failed on %s:%d: %w", ip, cfg.Port, os.NewSyscallError("bind", err))
	}

	if err := unix.Listen(fd, cfg.Backlog); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("listen failed: %w", os.NewSyscallError("listen", err))
	}

	// net.FileListener dups the descriptor, so the file is closed afterwards.
	file := os.NewFile(uintptr(fd), fmt.Sprintf("tcp:%s:%d", ip, cfg.Port))
	defer file.Close()

	l, err := net.FileListener(file)
	if err != nil {
		return nil, fmt.Errorf("failed to wrap listening socket: %w", err)
	}
	return l, nil
}
