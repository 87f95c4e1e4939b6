package vectordb

import (
	"fmt"
	"net/url"
	"time"

	"github.com/liliang-cn/vectordb/pkg/peersync"
)

// SyncMode is the SQLite synchronous pragma, trading commit durability for speed.
type SyncMode uint8

const (
	// SyncOff hands data to the OS without waiting for it to reach disk
	SyncOff SyncMode = 0
	// SyncNormal syncs at the most critical moments (safe with WAL)
	SyncNormal SyncMode = 1
	// SyncFull syncs on every commit
	SyncFull SyncMode = 2
)

// String returns the pragma keyword for the mode
func (m SyncMode) String() string {
	switch m {
	case SyncOff:
		return "OFF"
	case SyncNormal:
		return "NORMAL"
	case SyncFull:
		return "FULL"
	default:
		return fmt.Sprintf("SyncMode(%d)", uint8(m))
	}
}

// ParseSyncMode accepts the pragma keyword (off, normal, full) or its number.
func ParseSyncMode(s string) (SyncMode, error) {
	switch s {
	case "0", "off", "OFF":
		return SyncOff, nil
	case "1", "normal", "NORMAL", "":
		return SyncNormal, nil
	case "2", "full", "FULL":
		return SyncFull, nil
	}
	return 0, fmt.Errorf("%w: unknown synchronous mode %q", ErrInvalidConfig, s)
}

// Config is read once when the store is opened.
type Config struct {
	// MaxConnections sizes the database/sql connection pool (>= 1)
	MaxConnections int `json:"maxConnections" yaml:"max_connections"`
	// WALMode enables write-ahead journaling so readers don't block on the writer
	WALMode bool `json:"walMode" yaml:"wal_mode"`
	// CacheSize is the SQLite page cache size in KB
	CacheSize int `json:"cacheSize" yaml:"cache_size"`
	// Synchronous controls commit flushing
	Synchronous SyncMode `json:"synchronous" yaml:"synchronous"`

	// BusyTimeout is how long a connection waits on a locked database
	BusyTimeout time.Duration `json:"busyTimeout,omitempty" yaml:"busy_timeout"`
	// ScanWorkers fans the search scan out over this many goroutines; 0 or 1 scans inline
	ScanWorkers int `json:"scanWorkers,omitempty" yaml:"scan_workers"`

	Logger    Logger             `json:"-" yaml:"-"`
	Metrics   MetricsCollector   `json:"-" yaml:"-"`
	Publisher peersync.Publisher `json:"-" yaml:"-"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() Config {
	return Config{
		MaxConnections: 4,
		WALMode:        true,
		CacheSize:      2000,
		Synchronous:    SyncNormal,
		BusyTimeout:    5 * time.Second,
	}
}

// Validate checks the tunables and fills in the optional collaborators.
func (c *Config) Validate() error {
	if c.MaxConnections < 1 {
		return fmt.Errorf("%w: max connections must be at least 1, got %d", ErrInvalidConfig, c.MaxConnections)
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("%w: cache size must be non-negative, got %d", ErrInvalidConfig, c.CacheSize)
	}
	if c.Synchronous > SyncFull {
		return fmt.Errorf("%w: synchronous must be 0, 1 or 2, got %d", ErrInvalidConfig, c.Synchronous)
	}
	if c.BusyTimeout < 0 {
		return fmt.Errorf("%w: busy timeout must be non-negative", ErrInvalidConfig)
	}
	if c.ScanWorkers < 0 {
		return fmt.Errorf("%w: scan workers must be non-negative, got %d", ErrInvalidConfig, c.ScanWorkers)
	}

	if c.Logger == nil {
		c.Logger = NopLogger()
	}
	if c.Metrics == nil {
		c.Metrics = NoopMetrics{}
	}
	if c.Publisher == nil {
		c.Publisher = peersync.Nop{}
	}
	return nil
}

// dsn builds the modernc.org/sqlite data source name. Pragmas are passed
// as _pragma parameters so every pooled connection runs them on connect.
func (c Config) dsn(path string) string {
	q := url.Values{}
	if c.WALMode {
		q.Add("_pragma", "journal_mode(WAL)")
	}
	q.Add("_pragma", fmt.Sprintf("cache_size(-%d)", c.CacheSize))
	q.Add("_pragma", fmt.Sprintf("synchronous(%d)", c.Synchronous))
	q.Add("_pragma", "temp_store(MEMORY)")
	q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", c.BusyTimeout.Milliseconds()))
	return path + "?" + q.Encode()
}
