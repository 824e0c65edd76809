// pkg/seismic/config.go

package seismic

// Config tunes a single opened volume. Every reader owns its own cache;
// there is no process-wide state.
type Config struct {
	CacheSize int64 // size of the brick cache in MiB
}

func DefaultConfig() *Config {
	return &Config{CacheSize: 256}
}
