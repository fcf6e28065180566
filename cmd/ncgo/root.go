package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/coinbase/netcdf-go/pkg/netcdf"
	"github.com/coinbase/netcdf-go/pkg/netcdf/logging"
)

// option is one configuration setting. Each option becomes a flag on every
// listed flag set, an NCGO_ environment variable and a config file key.
type option struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

// app holds the state shared by the commands of one invocation.
type app struct {
	cfg *viper.Viper
	log *logrus.Logger
	out io.Writer
}

// newRoot builds the command tree. Output goes to out.
func newRoot(out io.Writer) *cobra.Command {
	a := &app{cfg: viper.New(), log: logrus.New(), out: out}
	a.log.SetOutput(io.Discard)

	root := &cobra.Command{
		Use:   "ncgo",
		Short: "Inspect and exercise netCDF files through the serialized native gate.",
		Long: `ncgo reads netCDF files through the netcdf package. Every native call
it makes goes through the same process-wide gate as library users.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return a.setConfig(cmd) },
		DisableAutoGenTag: true,
		SilenceUsage:      true,
	}
	root.SetOut(out)

	versionCmd := a.versionCmd()
	dumpCmd := a.dumpCmd()
	statCmd := a.statCmd()
	stressCmd := a.stressCmd()
	root.AddCommand(versionCmd, dumpCmd, statCmd, stressCmd)

	options := []option{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{root.PersistentFlags()},
		},
		{
			name: "log-level",
			usage: `
              log-level sets the logging level: debug, info, warn or error.`,
			defaultVal: "warn",
			flagsets:   []*pflag.FlagSet{root.PersistentFlags()},
		},
		{
			name: "slow-call",
			usage: `
              slow-call logs a warning for every native call that holds the
              gate longer than this. Zero disables the warning.`,
			defaultVal: time.Duration(0),
			flagsets:   []*pflag.FlagSet{root.PersistentFlags()},
		},
		{
			name: "format",
			usage: `
              format selects the dump output: cdl, json or yaml.`,
			shorthand:  "f",
			defaultVal: "cdl",
			flagsets:   []*pflag.FlagSet{dumpCmd.Flags()},
		},
		{
			name: "var",
			usage: `
              var lists the variables whose data is printed after the
              header. The header is always printed.`,
			shorthand:  "v",
			defaultVal: []string{},
			flagsets:   []*pflag.FlagSet{dumpCmd.Flags()},
		},
		{
			name: "skip-fill",
			usage: `
              skip-fill excludes elements equal to the variable's fill
              value from the statistics.`,
			defaultVal: true,
			flagsets:   []*pflag.FlagSet{statCmd.Flags()},
		},
		{
			name: "workers",
			usage: `
              workers is the number of goroutines issuing native calls.`,
			shorthand:  "w",
			defaultVal: 8,
			flagsets:   []*pflag.FlagSet{stressCmd.Flags()},
		},
		{
			name: "iterations",
			usage: `
              iterations is the number of create, write and verify cycles
              each worker runs.`,
			shorthand:  "n",
			defaultVal: 20,
			flagsets:   []*pflag.FlagSet{stressCmd.Flags()},
		},
		{
			name: "size",
			usage: `
              size is the number of doubles each cycle writes.`,
			defaultVal: 1024,
			flagsets:   []*pflag.FlagSet{stressCmd.Flags()},
		},
		{
			name: "dir",
			usage: `
              dir is where stress files are written. The default is a new
              temporary directory that is removed afterwards.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{stressCmd.Flags()},
		},
	}

	a.cfg.SetEnvPrefix("NCGO")
	a.cfg.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.cfg.AutomaticEnv()

	for _, option := range options {
		a.cfg.SetDefault(option.name, option.defaultVal)
		for _, set := range option.flagsets {
			switch v := option.defaultVal.(type) {
			case string:
				set.StringP(option.name, option.shorthand, v, option.usage)
			case []string:
				set.StringSliceP(option.name, option.shorthand, v, option.usage)
			case bool:
				set.BoolP(option.name, option.shorthand, v, option.usage)
			case int:
				set.IntP(option.name, option.shorthand, v, option.usage)
			case time.Duration:
				set.DurationP(option.name, option.shorthand, v, option.usage)
			default:
				panic(fmt.Errorf("invalid option type %T", v))
			}
			if err := a.cfg.BindPFlag(option.name, set.Lookup(option.name)); err != nil {
				panic(err)
			}
		}
	}
	return root
}

// setConfig reads the config file, if any, then applies the logging
// settings to the netcdf package.
func (a *app) setConfig(cmd *cobra.Command) error {
	if cfgpath := a.cfg.GetString("config"); cfgpath != "" {
		a.cfg.SetConfigFile(cfgpath)
		if err := a.cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("ncgo: problem reading configuration file: %v", err)
		}
	}

	level, err := logrus.ParseLevel(a.cfg.GetString("log-level"))
	if err != nil {
		return fmt.Errorf("ncgo: %v", err)
	}
	a.log.SetLevel(level)
	a.log.SetOutput(cmd.ErrOrStderr())

	slow, err := cast.ToDurationE(a.cfg.Get("slow-call"))
	if err != nil {
		return fmt.Errorf("ncgo: invalid slow-call: %v", err)
	}
	netcdf.Configure(netcdf.Config{
		Logger:            logging.FromLogrus(a.log.WithField("cmd", cmd.Name())),
		SlowCallThreshold: slow,
	})
	return nil
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the wrapper and native library versions.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(a.out, "ncgo %s\n", netcdf.WrapperVersion())
			lib, err := netcdf.NativeVersion()
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "library %s\n", lib)
			return nil
		},
	}
}
