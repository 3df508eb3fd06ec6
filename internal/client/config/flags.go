package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/secondbrain/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
//	-a string   server URL
//	-d string   state directory
//	-t int      request timeout in seconds
//	-i int      online check interval in seconds
//
// os.Args is filtered with flagx.FilterArgs so unrelated flags are ignored.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-t", "-i"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "server URL")
	fs.StringVar(&cfg.StateDir, "d", cfg.StateDir, "state directory")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
}
