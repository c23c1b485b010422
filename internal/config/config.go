package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	// ListeningPortKey is the port where the HTTP interface will listen on
	ListeningPortKey = "LISTENING_PORT"
	// DatadirKey is the local data directory to store the internal state of
	// the daemon
	DatadirKey = "DATADIR"
	// LogLevelKey are the different logging levels. For reference on the
	// values https://godoc.org/github.com/sirupsen/logrus#Level
	LogLevelKey = "LOG_LEVEL"
	// OperatorAddressKey is the address of the marketplace operator, the one
	// the sellers authorize on the asset registry to move their tokens
	OperatorAddressKey = "OPERATOR_ADDRESS"
	// LockTimeoutKey is the max duration a call waits for the lock of a
	// contended asset/token pair before giving up
	LockTimeoutKey = "LOCK_TIMEOUT"
	// NoPersistenceKey is used to keep the whole daemon state in memory,
	// meant for development only
	NoPersistenceKey = "NO_PERSISTENCE"
	// DevRegistryKey enables the simulated asset registry and balance
	// ledger instead of a real chain backend, meant for development only
	DevRegistryKey = "DEV_REGISTRY"
	// StatsIntervalKey, when set to a positive duration, enables periodic
	// logging of memory and goroutine statistics
	StatsIntervalKey = "STATS_INTERVAL"

	// DbLocation is the dir under the datadir where databases are stored
	DbLocation = "db"
)

var vip *viper.Viper

func init() {
	vip = viper.New()
	vip.SetEnvPrefix("NIFTY")
	vip.AutomaticEnv()

	defaultDatadir := "nifty-daemon"
	if homeDir, err := os.UserHomeDir(); err == nil {
		defaultDatadir = filepath.Join(homeDir, ".nifty-daemon")
	}

	vip.SetDefault(ListeningPortKey, 9945)
	vip.SetDefault(DatadirKey, defaultDatadir)
	vip.SetDefault(LogLevelKey, 4)
	vip.SetDefault(LockTimeoutKey, 5*time.Second)
	vip.SetDefault(NoPersistenceKey, false)
	vip.SetDefault(DevRegistryKey, false)
	vip.SetDefault(StatsIntervalKey, time.Duration(0))

	if err := validate(); err != nil {
		log.Fatalf("invalid config: %s", err)
	}
}

// Validate checks the consistency of the configuration, called once at
// startup.
func validate() error {
	datadir := GetString(DatadirKey)
	if len(datadir) <= 0 {
		return fmt.Errorf("datadir must not be null")
	}
	if GetInt(ListeningPortKey) <= 0 {
		return fmt.Errorf("listening port must be a positive number")
	}
	if GetDuration(LockTimeoutKey) <= 0 {
		return fmt.Errorf("lock timeout must be a positive duration")
	}
	return nil
}

// GetString ...
func GetString(key string) string {
	return vip.GetString(key)
}

// GetInt ...
func GetInt(key string) int {
	return vip.GetInt(key)
}

// GetBool ...
func GetBool(key string) bool {
	return vip.GetBool(key)
}

// GetDuration ...
func GetDuration(key string) time.Duration {
	return vip.GetDuration(key)
}

// GetDatadir returns the data directory, creating it if missing.
func GetDatadir() (string, error) {
	datadir := GetString(DatadirKey)
	if err := os.MkdirAll(filepath.Join(datadir, DbLocation), 0755); err != nil {
		return "", err
	}
	return datadir, nil
}

// Set overrides a config value, used by tests.
func Set(key string, value interface{}) {
	vip.Set(key, value)
}
