package config

import (
	"flag"
	"os"
	"time"

	"github.com/oakbb/oakboard/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-t int      session lifetime, hours
//	-i int      expired-session sweep interval, minutes
//	-w int      unread counter cache window, seconds
//	-tls        mark session cookies Secure
//
// Notes:
//   - The function first filters os.Args to only the flags it recognizes using
//     flagx.FilterArgs, avoiding collisions with other components.
//   - Duration flags are accepted as integers and then converted to
//     time.Duration values.
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-t", "-i", "-w", "-tls"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.Addr, "a", config.Addr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")

	sessionTTL := fs.Int("t", int(config.SessionTTL.Hours()), "session_ttl (in hours)")
	sweepInterval := fs.Int("i", int(config.SweepInterval.Minutes()), "sweep_interval (in minutes)")
	unreadCacheWindow := fs.Int("w", int(config.UnreadCacheWindow.Seconds()), "unread_cache_window (in seconds)")

	fs.BoolVar(&config.UseTLS, "tls", config.UseTLS, "set Secure on session cookies")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.SessionTTL = time.Duration(*sessionTTL) * time.Hour
	config.SweepInterval = time.Duration(*sweepInterval) * time.Minute
	config.UnreadCacheWindow = time.Duration(*unreadCacheWindow) * time.Second
}
