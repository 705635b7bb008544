package types

import "time"

// ServerConf holds the listener and connection handling settings.
type ServerConf struct {
	Address        string        `ini:"address"`
	Port           int           `ini:"port"`
	Backlog        int           `ini:"backlog"`
	BindAll        bool          `ini:"bind_all"`        // ignore Address and bind the wildcard address
	MaxConnections int           `ini:"max_connections"` // 0 means unbounded
	ReadTimeout    time.Duration `ini:"read_timeout"`    // 0 means no deadline
	WriteTimeout   time.Duration `ini:"write_timeout"`
	GracePeriod    time.Duration `ini:"grace_period"`
	StatsInterval  time.Duration `ini:"stats_interval"` // 0 disables the stats log
}

// LogConf contains logging specific configuration
type LogConf struct {
	Level string `ini:"level"`
}

// Config is the unified configuration loaded from server.ini.
type Config struct {
	ServerConf `ini:"server"`
	LogConf    `ini:"log"`
}
