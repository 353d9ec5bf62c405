package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/danmuck/fieldkit/internal/features"
	"github.com/danmuck/fieldkit/internal/flash"
	"github.com/danmuck/fieldkit/internal/hostkit"
	"github.com/danmuck/fieldkit/internal/logging"
)

func usage() {
	fmt.Fprintf(os.Stderr, `usage: fieldkit [flags] <command> [args]

Commands:
  status              check that the keyboard answers
  info                print firmware info
  side                print split side info
  bootloader          reset the keyboard into its bootloader
  features <dir>      print detected build features for a keyboard dir
  flash <side> [dir]  build and flash one side (left, right, or auto)

Flags:
`)
	flag.PrintDefaults()
}

func main() {
	addr := flag.String("addr", "", "device harness address (overrides config)")
	configPath := flag.String("config", "", "path to fieldkit.toml")
	force := flag.Bool("force", false, "bypass side lock checks when flashing")
	flag.Usage = usage
	flag.Parse()

	logging.ConfigureRuntime()

	cfg := defaultClientConfig()
	if *configPath != "" {
		loaded, err := loadClientConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "fieldkit: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *addr != "" {
		cfg.HarnessAddr = *addr
	}

	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}

	if err := run(cfg, flag.Args(), *force); err != nil {
		fmt.Fprintf(os.Stderr, "fieldkit: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg clientConfig, args []string, force bool) error {
	ctx := context.Background()

	switch args[0] {
	case "status":
		client := newClient(cfg)
		defer client.Close()
		if err := client.Ping(ctx); err != nil {
			return err
		}
		fmt.Println("keyboard answers: Field Kit active")
		return nil

	case "info":
		client := newClient(cfg)
		defer client.Close()
		info, err := client.FirmwareInfo(ctx)
		if err != nil {
			return err
		}
		printInfo(info)
		return nil

	case "side":
		client := newClient(cfg)
		defer client.Close()
		info, err := client.SideInfo(ctx)
		if err != nil {
			return err
		}
		printInfo(info)
		return nil

	case "bootloader":
		client := newClient(cfg)
		defer client.Close()
		if err := client.TriggerBootloader(ctx); err != nil {
			return err
		}
		fmt.Println("bootloader entry triggered")
		return nil

	case "features":
		if len(args) < 2 {
			return fmt.Errorf("features: keyboard directory required")
		}
		f, err := features.Detect(args[1])
		if err != nil {
			return err
		}
		printFeatures(f)
		return nil

	case "flash":
		if len(args) < 2 {
			return fmt.Errorf("flash: side required (left, right, or auto)")
		}
		dir := cfg.KeyboardDir
		if len(args) > 2 {
			dir = args[2]
		}
		if dir == "" {
			return fmt.Errorf("flash: keyboard directory required (argument or keyboard_dir in config)")
		}
		client := newClient(cfg)
		defer client.Close()
		mgr := flash.NewManager(flash.ExecRunner{Log: log.Logger}, client, log.Logger)
		return mgr.Flash(ctx, flash.Request{
			Side:        args[1],
			KeyboardDir: dir,
			Force:       force,
		})

	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func newClient(cfg clientConfig) *hostkit.Client {
	client := hostkit.NewClient(hostkit.NewHTTPDevice(cfg.HarnessAddr), log.Logger)
	client.SetTimeout(cfg.Timeout)
	return client
}

func printInfo(info map[string]string) {
	keys := make([]string, 0, len(info))
	for k := range info {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("%s: %s\n", k, info[k])
	}
}

func printFeatures(f features.Features) {
	fmt.Printf("Keyboard: %s\n", f.Keyboard)
	fmt.Printf("Path: %s\n", f.KeyboardPath)
	fmt.Printf("Bootloader: %s\n", f.Bootloader)
	if f.MCUFamily != "" {
		fmt.Printf("MCU Family: %s\n", f.MCUFamily)
	} else {
		fmt.Printf("MCU Family: unknown\n")
	}
	fmt.Printf("Split Keyboard: %t\n", f.SplitEnabled)
	if f.SplitEnabled {
		fmt.Printf("Transport: %s\n", f.TransportProtocol)
	}
	fmt.Printf("Auto Bootloader: %t\n", f.AutoBootloader)
	fmt.Printf("Side Lock: %t\n", f.SideLockEnabled)
}
