package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/danmuck/fieldkit/internal/config"
	"github.com/danmuck/fieldkit/internal/emulator"
	"github.com/danmuck/fieldkit/internal/observability"
)

func main() {
	configPath := flag.String("config", "", "path to fieldkitd.toml")
	flag.Parse()

	logger := observability.InitLogger("fieldkitd")

	cfg := config.DefaultDaemonConfig()
	if *configPath != "" {
		loaded, err := config.LoadDaemonConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "fieldkitd: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	srv := emulator.NewServer(cfg)
	logger.Info().
		Str("addr", cfg.Addr).
		Str("keyboard", cfg.Identity.Keyboard).
		Str("side", cfg.Identity.Side).
		Msg("emulated keyboard up")

	if err := srv.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "fieldkitd: %v\n", err)
		os.Exit(1)
	}
}
