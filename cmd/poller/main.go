// cmd/poller/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/tamzrod/modbus-poller/internal/config"
	"github.com/tamzrod/modbus-poller/internal/logging"
	"github.com/tamzrod/modbus-poller/internal/observer"
	"github.com/tamzrod/modbus-poller/internal/poller"
	pmodbus "github.com/tamzrod/modbus-poller/internal/poller/modbus"
)

func main() {
	// flag targets; only explicitly set flags are copied over the file
	flags := config.Default()

	log := logging.Console(os.Stderr)

	root := &cobra.Command{
		Use:           "poller [config.yaml]",
		Short:         "Poll a block of Modbus TCP holding registers and log every snapshot",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			cfg := config.Default()
			if len(args) == 1 {
				loaded, err := config.Load(args[0])
				if err != nil {
					return err
				}
				cfg = loaded
			}
			config.OverridePoller(&cfg.Poller, flags.Poller, changed)
			config.OverrideLog(&cfg.Log, flags.Log, changed)
			config.Normalize(&cfg)

			if err := config.Validate(&cfg); err != nil {
				return fmt.Errorf("config validation failed: %w", err)
			}

			l, err := logging.New(cfg.Log.Level, os.Stderr)
			if err != nil {
				return err
			}
			log = l

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return run(ctx, cfg.Poller, log)
		},
	}

	f := root.Flags()
	f.StringVar(&flags.Poller.Host, config.FlagHost, flags.Poller.Host, "device host")
	f.Uint16Var(&flags.Poller.Port, config.FlagPort, flags.Poller.Port, "device TCP port")
	f.Uint16Var(&flags.Poller.StartAddress, config.FlagStartAddress, flags.Poller.StartAddress, "first holding register address")
	f.Uint16Var(&flags.Poller.RegisterCount, config.FlagRegisterCount, flags.Poller.RegisterCount, "registers per read (1..125)")
	f.DurationVar(&flags.Poller.PollInterval, config.FlagPollInterval, flags.Poller.PollInterval, "pause between reads")
	f.DurationVar(&flags.Poller.RetryInterval, config.FlagRetryInterval, flags.Poller.RetryInterval, "pause between connect attempts")
	f.IntVar(&flags.Poller.MaxAttempts, config.FlagMaxAttempts, flags.Poller.MaxAttempts, "connect attempts before giving up (0 = unlimited)")
	f.DurationVar(&flags.Poller.Timeout, config.FlagTimeout, flags.Poller.Timeout, "connect and request timeout")
	f.StringVar(&flags.Log.Level, config.FlagLogLevel, flags.Log.Level, "log level: debug, info, warn, error")

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("poller")
		os.Exit(1)
	}
}

// run blocks until ctx is cancelled (nil) or the device is unavailable.
func run(ctx context.Context, pc config.PollerConfig, log zerolog.Logger) error {
	sup, err := poller.New(poller.Config{
		Host:         pc.Host,
		Port:         pc.Port,
		StartAddress: pc.StartAddress,
		Count:        pc.RegisterCount,
		PollInterval: pc.PollInterval,
		Retry: poller.RetryPolicy{
			MaxAttempts: pc.MaxAttempts,
			Interval:    pc.RetryInterval,
		},
	}, &pmodbus.Dialer{
		UnitID:  pmodbus.DefaultUnitID,
		Timeout: pc.Timeout,
	}, observer.NewLog(log))
	if err != nil {
		return err
	}

	log.Info().
		Str("host", pc.Host).
		Uint16("port", pc.Port).
		Uint16("start_address", pc.StartAddress).
		Uint16("register_count", pc.RegisterCount).
		Dur("poll_interval", pc.PollInterval).
		Int("max_attempts", pc.MaxAttempts).
		Msg("poller starting")

	return sup.Run(ctx)
}
