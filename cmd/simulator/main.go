// cmd/simulator/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/tamzrod/modbus-poller/internal/config"
	"github.com/tamzrod/modbus-poller/internal/logging"
	"github.com/tamzrod/modbus-poller/internal/simulator"
)

func main() {
	flags := config.Default()

	log := logging.Console(os.Stderr)

	root := &cobra.Command{
		Use:           "simulator [config.yaml]",
		Short:         "Serve a fixed holding register table over Modbus TCP",
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
			config.OverrideSimulator(&cfg.Simulator, flags.Simulator, changed)
			config.OverrideLog(&cfg.Log, flags.Log, changed)
			config.Normalize(&cfg)

			if err := config.ValidateSimulator(cfg.Simulator); err != nil {
				return fmt.Errorf("config validation failed: %w", err)
			}
			if err := config.ValidateLog(cfg.Log); err != nil {
				return fmt.Errorf("config validation failed: %w", err)
			}

			l, err := logging.New(cfg.Log.Level, os.Stderr)
			if err != nil {
				return err
			}
			log = l

			sim, err := simulator.New(simulator.Config{
				Host:  cfg.Simulator.Host,
				Port:  cfg.Simulator.Port,
				Table: simulator.DefaultTable(cfg.Simulator.TableSize),
			}, log)
			if err != nil {
				return err
			}
			if err := sim.Start(); err != nil {
				return err
			}
			defer sim.Close()

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			<-ctx.Done()
			log.Info().Str("addr", sim.Addr()).Msg("received signal, stopping")
			return nil
		},
	}

	f := root.Flags()
	f.StringVar(&flags.Simulator.Host, config.FlagHost, flags.Simulator.Host, "listen host")
	f.Uint16Var(&flags.Simulator.Port, config.FlagPort, flags.Simulator.Port, "listen TCP port")
	f.IntVar(&flags.Simulator.TableSize, config.FlagTableSize, flags.Simulator.TableSize, "number of holding registers served")
	f.StringVar(&flags.Log.Level, config.FlagLogLevel, flags.Log.Level, "log level: debug, info, warn, error")

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("simulator")
		os.Exit(1)
	}
}
