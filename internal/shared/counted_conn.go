package shared

import (
	"net"
	"sync/atomic"
)

// TrafficCounter accumulates byte counts across many connections.
type TrafficCounter struct {
	Read    atomic.Uint64 // bytes received from peers
	Written atomic.Uint64 // bytes sent to peers
}

// CountedConn is a net.Conn that adds every transferred byte to a shared
// TrafficCounter.
type CountedConn struct {
	net.Conn
	counter *TrafficCounter
}

// NewCountedConn wraps conn; counter may be shared by many connections.
func NewCountedConn(conn net.Conn, counter *TrafficCounter) *CountedConn {
	return &CountedConn{
		Conn:    conn,
		counter: counter,
	}
}

func (c *CountedConn) Read(b []byte) (int, error) {
	n, err := c.Conn.Read(b)
	if n > 0 {
		c.counter.Read.Add(uint64(n))
	}
	return n, err
}

func (c *CountedConn) Write(b []byte) (int, error) {
	n, err := c.Conn.Write(b)
	if n > 0 {
		c.counter.Written.Add(uint64(n))
	}
	return n, err
}

