package types

// ListenerInfo holds the runtime listening info of the gateway.
type ListenerInfo struct {
	Address string
	Port    int
}

// TrafficStats is a snapshot of the gateway's counters.
type TrafficStats struct {
	Accepted          uint64 `json:"accepted"`
	Served            uint64 `json:"served"`
	Failed            uint64 `json:"failed"`
	ActiveConnections int64  `json:"activeConnections"`
	Uplink            uint64 `json:"uplink"`   // bytes written to clients
	Downlink          uint64 `json:"downlink"` // bytes read from clients
}
