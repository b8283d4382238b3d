package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/yunginnanet/lsm6ds3/internal/config"
	"github.com/yunginnanet/lsm6ds3/pkg/lsm6ds3"
	"github.com/yunginnanet/lsm6ds3/pkg/sink"
)

func pollFlags(cmd *cobra.Command) {
	cmd.Flags().Duration("interval", 0, "pause between polling iterations")
	cmd.Flags().String("output", config.OutputText,
		"sample output: "+config.OutputText+", "+config.OutputLog+" or "+config.OutputBoth)
}

func initFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("print", false, "print config to stdout")
	cmd.Flags().BoolP("yes", "y", false, "overwrite")
	cmd.Flags().StringP("output", "o", config.DefaultConfigPath(), "output path")
}

var pollCmd = &cobra.Command{
	Use:   "poll",
	Short: "start the sensor and stream samples until interrupted",
	Long: `poll boots, identifies, resets and configures the sensor, then checks the
data-ready flag of the accelerometer, gyroscope and temperature sensor in turn
and prints every new sample. Configuration is taken from, in order:
1. path specified in --config flag
2. path defined in LSM6DS3_CONFIG environment variable
3. $HOME/.config/lsm6ds3/config.yaml, /etc/lsm6ds3/config.yaml, current directory
Flags override environment variables, which override the file.
`,
	Example: `  lsm6ds3 poll --bus sim
  lsm6ds3 poll --config /path/to/config.yaml --output log`,
	RunE: runPoll,
}

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "read WHO_AM_I and report whether an LSM6DS3 answers",
	RunE:  runProbe,
}

var regsCmd = &cobra.Command{
	Use:   "regs",
	Short: "dump the control registers",
	RunE:  runRegs,
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "create a configuration template",
	Long: `init writes the default configuration to $HOME/.config/lsm6ds3/config.yaml.
If --print is present the configuration is printed to stdout instead.
If --output / -o is present the configuration is saved to that path.
If --yes / -y is present an existing file is overwritten.
`,
	Example: `  lsm6ds3 init --print
  lsm6ds3 init -o /path/to/config.yaml -y`,
	RunE: runInit,
}

type session struct {
	dev    *lsm6ds3.Device
	closer func() error
}

func openSession(opt config.Options) (*session, error) {
	tr, c, err := openTransport(opt.Bus)
	if err != nil {
		return nil, err
	}
	dev := lsm6ds3.NewDevice(tr,
		lsm6ds3.WithLogger(log.With().Str("bus", opt.Bus.Kind).Logger()),
		lsm6ds3.WithDelayer(clock.New()),
	)
	return &session{dev: dev, closer: c.Close}, nil
}

func (s *session) Close() error {
	return s.closer()
}

func newSink(output string) lsm6ds3.Sink {
	switch output {
	case config.OutputLog:
		return sink.NewLog(log)
	case config.OutputBoth:
		return sink.Multi(sink.NewText(os.Stdout), sink.NewLog(log))
	default:
		return sink.NewText(os.Stdout)
	}
}

func runPoll(cmd *cobra.Command, _ []string) (err error) {
	opt, err := loadOptions(cmd)
	if err != nil {
		return err
	}
	cfg, err := opt.StartupConfig()
	if err != nil {
		return err
	}

	s, err := openSession(opt)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, s.Close())
	}()

	ctx := cmd.Context()

	log.Debug().Stringer("settings", cfg.Settings).Msg("starting LSM6DS3")
	if err = s.dev.Startup(ctx, cfg); err != nil {
		if errors.Is(err, lsm6ds3.ErrIDMismatch) {
			log.Error().Err(err).Stringer("state", s.dev.State()).Msg("no LSM6DS3 on bus")
		}
		return errors.Wrap(err, "startup")
	}
	log.Info().Stringer("settings", s.dev.Settings()).Msg("initialized LSM6DS3")

	p := lsm6ds3.NewPoller(s.dev, newSink(opt.Poll.Output),
		lsm6ds3.WithPollLogger(log),
		lsm6ds3.WithInterval(opt.Poll.Interval),
	)

	runErr := p.Run(ctx)

	stats := p.Stats()
	for _, ch := range lsm6ds3.Channels {
		log.Info().Stringer("channel", ch).
			Uint64("ready", stats[ch].Ready).
			Uint64("emitted", stats[ch].Emitted).
			Uint64("errors", stats[ch].Errors).
			Msg("poll stats")
	}

	if errors.Is(runErr, ctx.Err()) {
		return nil
	}
	return runErr
}

func runProbe(cmd *cobra.Command, _ []string) (err error) {
	opt, err := loadOptions(cmd)
	if err != nil {
		return err
	}

	s, err := openSession(opt)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, s.Close())
	}()

	id, err := s.dev.Identify()
	if err != nil {
		return errors.Wrap(err, "read WHO_AM_I")
	}
	if id != lsm6ds3.DeviceID {
		return &lsm6ds3.IDMismatchError{Got: id, Want: lsm6ds3.DeviceID, Attempts: 1}
	}

	log.Info().Str("bus", opt.Bus.Kind).Uint8("id", id).Msg("found LSM6DS3")
	return nil
}

func runRegs(cmd *cobra.Command, _ []string) (err error) {
	opt, err := loadOptions(cmd)
	if err != nil {
		return err
	}

	s, err := openSession(opt)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, s.Close())
	}()

	regs, err := s.dev.ReadAllRegisters()
	if err != nil {
		return errors.Wrap(err, "failed to read LSM6DS3 registers")
	}

	keys := make([]lsm6ds3.Register, 0, len(regs))
	for reg := range regs {
		keys = append(keys, reg)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	for _, reg := range keys {
		fmt.Printf("0x%02X %-14s 0x%02X %08b\n", byte(reg), reg, regs[reg], regs[reg])
	}
	return nil
}

func runInit(cmd *cobra.Command, _ []string) error {
	printFlag, _ := cmd.Flags().GetBool("print")
	outputPath, _ := cmd.Flags().GetString("output")
	overwrite, _ := cmd.Flags().GetBool("yes")

	opt := config.NewOptions()

	if printFlag {
		buf, err := config.Dump(opt)
		if err != nil {
			return err
		}
		fmt.Print(string(buf))
		return nil
	}

	if err := config.Write(opt, outputPath, overwrite); err != nil {
		return err
	}
	log.Info().Str("path", outputPath).Msg("wrote configuration")
	return nil
}
