package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/yunginnanet/lsm6ds3/internal/config"
)

var log zerolog.Logger

func init() {
	cw := zerolog.ConsoleWriter{Out: os.Stderr}
	log = zerolog.New(cw).With().Timestamp().Logger().Level(zerolog.InfoLevel)
}

var rootCmd = &cobra.Command{
	Use:           "lsm6ds3",
	Short:         "poll an ST LSM6DS3 accelerometer and gyroscope",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func rootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String("config", "", "configuration file")
	cmd.PersistentFlags().String("bus", config.BusFT232H,
		"bus kind: "+config.BusFT232H+", "+config.BusSPIDev+", "+config.BusI2C+", "+config.BusI2CMem+" or "+config.BusSim)
	cmd.PersistentFlags().Bool("debug", false, "toggle debug logging")
}

// loadOptions resolves the configuration and applies the log level.
func loadOptions(cmd *cobra.Command) (config.Options, error) {
	opt, _, err := config.Load(cmd, log)
	if err != nil {
		return opt, err
	}
	if opt.Debug {
		log = log.Level(zerolog.DebugLevel)
	}
	return opt, nil
}

func getRootCmd() *cobra.Command {
	rootFlags(rootCmd)

	pollFlags(pollCmd)
	rootCmd.AddCommand(pollCmd)

	rootCmd.AddCommand(probeCmd)
	rootCmd.AddCommand(regsCmd)

	initFlags(initCmd)
	rootCmd.AddCommand(initCmd)

	return rootCmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := getRootCmd().ExecuteContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("lsm6ds3")
	}
}
