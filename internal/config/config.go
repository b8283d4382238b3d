// Package config loads lsm6ds3 options from flags, environment and YAML.
package config

import (
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/yunginnanet/lsm6ds3/pkg/lsm6ds3"
)

const (
	DefaultAppName    = "lsm6ds3"
	DefaultConfigName = "config"
	DefaultEnvPrefix  = "LSM6DS3"
	// ConfigEnv names a config file when --config is not given.
	ConfigEnv = "LSM6DS3_CONFIG"
)

// Bus kinds.
const (
	BusFT232H = "ft232h"
	BusSPIDev = "spidev"
	BusI2C    = "i2c"
	BusI2CMem = "i2c-mem"
	BusSim    = "sim"
)

// Output formats for the poll command.
const (
	OutputText = "text"
	OutputLog  = "log"
	OutputBoth = "both"
)

type FT232HOpt struct {
	Index  int    `mapstructure:"index" yaml:"index"`
	Serial string `mapstructure:"serial" yaml:"serial"`
	CS     uint   `mapstructure:"cs" yaml:"cs"`
	Clock  uint32 `mapstructure:"clock" yaml:"clock"`
	Mode   byte   `mapstructure:"mode" yaml:"mode"`
}

type SPIDevOpt struct {
	Port  string `mapstructure:"port" yaml:"port"`
	CSPin string `mapstructure:"cs_pin" yaml:"cs_pin"`
	Clock int64  `mapstructure:"clock" yaml:"clock"`
	Mode  int    `mapstructure:"mode" yaml:"mode"`
}

type I2COpt struct {
	// Bus is the periph.io bus name, used by the i2c bus kind.
	Bus string `mapstructure:"bus" yaml:"bus"`
	// Number is the /dev/i2c-N index, used by the i2c-mem bus kind.
	Number int    `mapstructure:"number" yaml:"number"`
	Addr   uint16 `mapstructure:"addr" yaml:"addr"`
}

type BusOpt struct {
	Kind   string    `mapstructure:"kind" yaml:"kind"`
	FT232H FT232HOpt `mapstructure:"ft232h" yaml:"ft232h"`
	SPIDev SPIDevOpt `mapstructure:"spidev" yaml:"spidev"`
	I2C    I2COpt    `mapstructure:"i2c" yaml:"i2c"`
}

type SensorOpt struct {
	AccelScale      string `mapstructure:"accel_scale" yaml:"accel_scale"`
	GyroScale       string `mapstructure:"gyro_scale" yaml:"gyro_scale"`
	AccelRate       string `mapstructure:"accel_rate" yaml:"accel_rate"`
	GyroRate        string `mapstructure:"gyro_rate" yaml:"gyro_rate"`
	BlockDataUpdate bool   `mapstructure:"block_data_update" yaml:"block_data_update"`
}

type StartupOpt struct {
	BootTime      time.Duration `mapstructure:"boot_time" yaml:"boot_time"`
	IdentifyDelay time.Duration `mapstructure:"identify_delay" yaml:"identify_delay"`
	ResetSettle   time.Duration `mapstructure:"reset_settle" yaml:"reset_settle"`
}

type PollOpt struct {
	Interval time.Duration `mapstructure:"interval" yaml:"interval"`
	Output   string        `mapstructure:"output" yaml:"output"`
}

// Options is the complete configuration of the lsm6ds3 command.
type Options struct {
	Bus     BusOpt     `mapstructure:"bus" yaml:"bus"`
	Sensor  SensorOpt  `mapstructure:"sensor" yaml:"sensor"`
	Startup StartupOpt `mapstructure:"startup" yaml:"startup"`
	Poll    PollOpt    `mapstructure:"poll" yaml:"poll"`
	Debug   bool       `mapstructure:"debug" yaml:"debug"`
}

// NewOptions returns the defaults: FT232H index 0 on SPI, ST's example settings.
func NewOptions() Options {
	s := lsm6ds3.DefaultSettings()
	return Options{
		Bus: BusOpt{
			Kind: BusFT232H,
			FT232H: FT232HOpt{
				Index: 0,
				CS:    0,
				Clock: 1000000,
				Mode:  3,
			},
			SPIDev: SPIDevOpt{
				CSPin: "GPIO8",
				Clock: 1000000,
				Mode:  3,
			},
			I2C: I2COpt{
				Number: 1,
				Addr:   lsm6ds3.I2CAddrLow,
			},
		},
		Sensor: SensorOpt{
			AccelScale:      s.AccelScale.String(),
			GyroScale:       s.GyroScale.String(),
			AccelRate:       s.AccelRate.String(),
			GyroRate:        s.GyroRate.String(),
			BlockDataUpdate: s.BlockDataUpdate,
		},
		Startup: StartupOpt{
			BootTime:      lsm6ds3.DefaultBootTime,
			IdentifyDelay: lsm6ds3.DefaultIdentifyDelay,
			ResetSettle:   lsm6ds3.DefaultResetSettle,
		},
		Poll: PollOpt{
			Output: OutputText,
		},
	}
}

// DefaultConfigPath is where init writes and the first place Load looks.
func DefaultConfigPath() string {
	home, _ := os.UserHomeDir()
	return path.Join(home, ".config", DefaultAppName, DefaultConfigName+".yaml")
}

func searchPaths() []string {
	home, _ := os.UserHomeDir()
	return []string{
		path.Join(home, ".config", DefaultAppName),
		"/etc/" + DefaultAppName,
		"./",
	}
}

func setDefaults(v *viper.Viper, o Options) {
	v.SetDefault("bus.kind", o.Bus.Kind)
	v.SetDefault("bus.ft232h.index", o.Bus.FT232H.Index)
	v.SetDefault("bus.ft232h.serial", o.Bus.FT232H.Serial)
	v.SetDefault("bus.ft232h.cs", o.Bus.FT232H.CS)
	v.SetDefault("bus.ft232h.clock", o.Bus.FT232H.Clock)
	v.SetDefault("bus.ft232h.mode", o.Bus.FT232H.Mode)
	v.SetDefault("bus.spidev.port", o.Bus.SPIDev.Port)
	v.SetDefault("bus.spidev.cs_pin", o.Bus.SPIDev.CSPin)
	v.SetDefault("bus.spidev.clock", o.Bus.SPIDev.Clock)
	v.SetDefault("bus.spidev.mode", o.Bus.SPIDev.Mode)
	v.SetDefault("bus.i2c.bus", o.Bus.I2C.Bus)
	v.SetDefault("bus.i2c.number", o.Bus.I2C.Number)
	v.SetDefault("bus.i2c.addr", o.Bus.I2C.Addr)
	v.SetDefault("sensor.accel_scale", o.Sensor.AccelScale)
	v.SetDefault("sensor.gyro_scale", o.Sensor.GyroScale)
	v.SetDefault("sensor.accel_rate", o.Sensor.AccelRate)
	v.SetDefault("sensor.gyro_rate", o.Sensor.GyroRate)
	v.SetDefault("sensor.block_data_update", o.Sensor.BlockDataUpdate)
	v.SetDefault("startup.boot_time", o.Startup.BootTime)
	v.SetDefault("startup.identify_delay", o.Startup.IdentifyDelay)
	v.SetDefault("startup.reset_settle", o.Startup.ResetSettle)
	v.SetDefault("poll.interval", o.Poll.Interval)
	v.SetDefault("poll.output", o.Poll.Output)
	v.SetDefault("debug", o.Debug)
}

// flagKeys maps command line flags onto config keys. Flags a command does not
// define are skipped.
var flagKeys = map[string]string{
	"bus":      "bus.kind",
	"debug":    "debug",
	"interval": "poll.interval",
	"output":   "poll.output",
}

// Load resolves the configuration for cmd. The file is taken from --config,
// then $LSM6DS3_CONFIG, then config.yaml in $HOME/.config/lsm6ds3, /etc/lsm6ds3
// and the working directory. Environment variables (LSM6DS3_SENSOR_ACCEL_SCALE)
// override the file and flags override both.
func Load(cmd *cobra.Command, log zerolog.Logger) (Options, *viper.Viper, error) {
	opt := NewOptions()

	v := viper.New()
	setDefaults(v, opt)

	explicit := false
	if configFileCmd, err := cmd.Flags().GetString("config"); err == nil && configFileCmd != "" {
		v.SetConfigFile(configFileCmd)
		explicit = true
	} else if configFileEnv := os.Getenv(ConfigEnv); configFileEnv != "" {
		v.SetConfigFile(configFileEnv)
		explicit = true
	} else {
		v.SetConfigName(DefaultConfigName)
		v.SetConfigType("yaml")
		for _, p := range searchPaths() {
			v.AddConfigPath(p)
		}
	}

	v.SetEnvPrefix(DefaultEnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	for flag, key := range flagKeys {
		if f := cmd.Flags().Lookup(flag); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return opt, nil, errors.Wrapf(err, "bind flag %s", flag)
			}
		}
	}

	err := v.ReadInConfig()
	switch {
	case err == nil:
		log.Debug().Str("file", v.ConfigFileUsed()).Msg("using config file")
	case explicit:
		return opt, nil, errors.Wrap(err, "read config")
	default:
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return opt, nil, errors.Wrap(err, "read config")
		}
		log.Debug().Msg("no config file found, using defaults")
	}

	if err = v.Unmarshal(&opt); err != nil {
		return opt, nil, errors.Wrap(err, "unmarshal config")
	}

	if err = opt.Validate(); err != nil {
		return opt, nil, err
	}

	return opt, v, nil
}

// Validate checks the bus kind, the output format and the sensor settings.
func (o Options) Validate() error {
	switch o.Bus.Kind {
	case BusFT232H, BusSPIDev, BusI2C, BusI2CMem, BusSim:
	default:
		return errors.Errorf("unknown bus kind %q", o.Bus.Kind)
	}
	switch o.Poll.Output {
	case OutputText, OutputLog, OutputBoth:
	default:
		return errors.Errorf("unknown output %q", o.Poll.Output)
	}
	if o.Bus.I2C.Addr != lsm6ds3.I2CAddrLow && o.Bus.I2C.Addr != lsm6ds3.I2CAddrHigh {
		return errors.Errorf("i2c address 0x%02X is not an LSM6DS3 address", o.Bus.I2C.Addr)
	}
	_, err := o.Settings()
	return err
}

// Settings parses the sensor section into driver settings.
func (o Options) Settings() (lsm6ds3.Settings, error) {
	var (
		s   = lsm6ds3.Settings{BlockDataUpdate: o.Sensor.BlockDataUpdate}
		err error
	)
	if s.AccelScale, err = lsm6ds3.ParseAccelScale(o.Sensor.AccelScale); err != nil {
		return s, err
	}
	if s.GyroScale, err = lsm6ds3.ParseGyroScale(o.Sensor.GyroScale); err != nil {
		return s, err
	}
	if s.AccelRate, err = lsm6ds3.ParseAccelRate(o.Sensor.AccelRate); err != nil {
		return s, err
	}
	if s.GyroRate, err = lsm6ds3.ParseGyroRate(o.Sensor.GyroRate); err != nil {
		return s, err
	}
	return s, nil
}

// StartupConfig combines the sensor settings with the startup timings.
func (o Options) StartupConfig() (lsm6ds3.StartupConfig, error) {
	s, err := o.Settings()
	if err != nil {
		return lsm6ds3.StartupConfig{}, err
	}
	return lsm6ds3.StartupConfig{
		Settings:      s,
		BootTime:      o.Startup.BootTime,
		IdentifyDelay: o.Startup.IdentifyDelay,
		ResetSettle:   o.Startup.ResetSettle,
	}, nil
}

// Dump renders o as YAML.
func Dump(o Options) ([]byte, error) {
	return yaml.Marshal(o)
}

// Write stores o as YAML at outputPath, creating the parent directory with
// mode 0700. An existing file is only replaced when overwrite is set.
func Write(o Options, outputPath string, overwrite bool) error {
	buf, err := Dump(o)
	if err != nil {
		return err
	}

	if err = os.MkdirAll(filepath.Dir(outputPath), 0o700); err != nil {
		return errors.Wrap(err, "create config directory")
	}

	if !overwrite {
		if _, err = os.Stat(outputPath); err == nil {
			return errors.Errorf("configuration %s already exists", outputPath)
		}
	}

	return errors.Wrap(os.WriteFile(outputPath, buf, 0o644), "write config")
}
