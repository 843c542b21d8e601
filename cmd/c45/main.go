package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type rootCmdConfig struct {
	verbose    bool
	configFile string
	v          *viper.Viper
	ctx        context.Context
	cancelFunc context.CancelFunc
	logger
}

func main() {
	if err := cliParser().Execute(); err != nil {
		os.Exit(1)
	}
}

func cliParser() *cobra.Command {
	return newRootCmd(&rootCmdConfig{v: viper.New()})
}

func newRootCmd(config *rootCmdConfig) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "c45",
		Short: "c45 grows decision trees with the C4.5 algorithm",
		Long:  `A tool to grow categorical decision trees from your data with the C4.5 algorithm, test them, and use them to classify records`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			err := config.load(cmd.Flags())
			if err != nil {
				return err
			}
			config.logger = newLogger(config.verbose)
			return nil
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().BoolVarP(&(config.verbose), "verbose", "v", false, "log progress information to STDERR")
	rootCmd.PersistentFlags().StringVar(&(config.configFile), "config", "", "path to a YAML file with values for any flag, keyed by flag name (values can also be set with C45_ prefixed environment variables, such as C45_TARGET)")
	rootCmd.AddCommand(versionCmd(), growCmd(config), showCmd(config), classifyCmd(config), testCmd(config), serveCmd(config), setCmd(config))
	return rootCmd
}

// load reads the config file, if any, and the environment, and sets
// every flag not given on the command line that has a value in them.
func (rcc *rootCmdConfig) load(flags *pflag.FlagSet) error {
	rcc.v.SetEnvPrefix("C45")
	rcc.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	rcc.v.AutomaticEnv()
	if rcc.configFile != "" {
		rcc.v.SetConfigFile(rcc.configFile)
		rcc.v.SetConfigType("yaml")
		if err := rcc.v.ReadInConfig(); err != nil {
			return errors.Wrapf(err, "reading config file %s", rcc.configFile)
		}
	}
	var err error
	flags.VisitAll(func(f *pflag.Flag) {
		if err != nil || f.Changed || f.Name == "config" || !rcc.v.IsSet(f.Name) {
			return
		}
		if serr := flags.Set(f.Name, rcc.v.GetString(f.Name)); serr != nil {
			err = errors.Wrapf(serr, "setting %s from configuration", f.Name)
		}
	})
	return err
}

// Context returns a context that is cancelled when the process is interrupted.
func (rcc *rootCmdConfig) Context() context.Context {
	rcc.setContextAndCancelFunc()
	return rcc.ctx
}

func (rcc *rootCmdConfig) ContextCancelFunc() context.CancelFunc {
	rcc.setContextAndCancelFunc()
	return rcc.cancelFunc
}

func (rcc *rootCmdConfig) setContextAndCancelFunc() {
	if rcc.ctx == nil {
		rcc.ctx, rcc.cancelFunc = signal.NotifyContext(context.Background(), os.Interrupt)
	}
}

func exit(code int, err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(code)
}
