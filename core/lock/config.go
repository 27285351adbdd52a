package lock

// Config holds configuration for the optional run lock.
type Config struct {
	// RedisAddr is the Redis address (host:port). Empty disables locking.
	RedisAddr string `mapstructure:"redis_addr" default:""`
	// RedisPassword is the Redis password.
	RedisPassword string `mapstructure:"redis_password" default:""`
	// RedisDB is the Redis database index.
	RedisDB int `mapstructure:"redis_db" default:"0"`
	// Key is the lock key shared by every epos-sync instance.
	Key string `mapstructure:"key" default:"epos-sync:run"`
	// TTLSeconds bounds how long a crashed run can keep others out.
	TTLSeconds int `mapstructure:"ttl_seconds" default:"3600"`
}

// Enabled reports whether a Redis address is configured.
func (c Config) Enabled() bool {
	return c.RedisAddr != ""
}
