package redis

import (
	"time"

	"github.com/Alijeyrad/passhash/config"
)

type Config struct {
	Addr     string
	DB       int
	Username string
	Password string

	PoolSize     int
	MinIdleConns int

	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		Addr:         "localhost:6379",
		PoolSize:     10,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}

// FromCentralConfig fills unset fields from DefaultConfig. Addr is copied
// as is so an empty address keeps Redis disabled.
func FromCentralConfig(c config.RedisConfig) Config {
	def := DefaultConfig()
	return Config{
		Addr:         c.Addr,
		DB:           c.DB,
		Username:     c.Username,
		Password:     c.Password,
		PoolSize:     orDefault(c.PoolSize, def.PoolSize),
		MinIdleConns: orDefault(c.MinIdleConns, def.MinIdleConns),
		DialTimeout:  seconds(c.DialTimeoutSeconds, def.DialTimeout),
		ReadTimeout:  seconds(c.ReadTimeoutSeconds, def.ReadTimeout),
		WriteTimeout: seconds(c.WriteTimeoutSeconds, def.WriteTimeout),
	}
}

func orDefault(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

func seconds(v int, def time.Duration) time.Duration {
	if v > 0 {
		return time.Duration(v) * time.Second
	}
	return def
}
