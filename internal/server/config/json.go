package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/oakbb/oakboard/internal/flagx"
	"github.com/oakbb/oakboard/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. It uses timex.Duration for interval fields, which allows
// parsing both string values such as "48h" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON
// configuration files. After unmarshalling, its fields are copied into the
// runtime Config struct which uses time.Duration.
type JsonConfig struct {
	Addr              string         `json:"addr"`
	DatabaseDSN       string         `json:"database_dsn"`
	SessionTTL        timex.Duration `json:"session_ttl"`
	SweepInterval     timex.Duration `json:"sweep_interval"`
	UnreadCacheWindow timex.Duration `json:"unread_cache_window"`
	UseTLS            bool           `json:"use_tls"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The JSON file path comes from the -c or -config command-line flags; when
// neither is set, no JSON file is loaded. If the file cannot be read or
// contains invalid JSON, the function panics.
func parseJson(config *Config) {

	// try flags
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	config.Addr = c.Addr
	config.DatabaseDSN = c.DatabaseDSN
	config.SessionTTL = time.Duration(c.SessionTTL.Duration)
	config.SweepInterval = time.Duration(c.SweepInterval.Duration)
	config.UnreadCacheWindow = time.Duration(c.UnreadCacheWindow.Duration)
	config.UseTLS = c.UseTLS
}
