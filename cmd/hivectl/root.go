package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sharedcode/hive"
	"github.com/sharedcode/hive/rest"
)

// app resolves the CLI configuration. Precedence is flags over HIVE_*
// environment variables over the optional hivectl.yaml config file.
type app struct {
	cfgFile string
	v       *viper.Viper
}

func newApp() *app {
	v := viper.New()
	v.SetDefault("timeout", hive.DefaultConfig().RequestTimeout)
	v.SetEnvPrefix("hive")
	v.AutomaticEnv()
	return &app{v: v}
}

// loadConfigFile reads the config file if one is present. A missing default
// config file is not an error; a missing file named by --config is.
func (a *app) loadConfigFile() error {
	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config: %w", err)
		}
		return nil
	}
	a.v.SetConfigName("hivectl")
	a.v.SetConfigType("yaml")
	a.v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		a.v.AddConfigPath(filepath.Join(home, ".config", "hive"))
	}
	if err := a.v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// sender builds the HTTP transport from the resolved settings.
func (a *app) sender() (*rest.Sender, error) {
	url := a.v.GetString("url")
	if url == "" {
		return nil, fmt.Errorf("hive URL is required (--url flag, HIVE_URL env, or config file)")
	}
	return rest.NewSender(url, a.v.GetString("key"), a.v.GetDuration("timeout")), nil
}

func newRootCmd() *cobra.Command {
	a := newApp()
	root := &cobra.Command{
		Use:   "hivectl",
		Short: "hivectl operates a hive state service",
		Long: `hivectl speaks the hive wire contract from the command line: saving and
loading state keys, staging and claiming transfers, and probing health.
It can also host an in-memory hive stub for development.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.loadConfigFile()
		},
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "",
		"config file (default: ./hivectl.yaml or ~/.config/hive/hivectl.yaml)")
	root.PersistentFlags().String("url", "", "base URL of the hive service")
	root.PersistentFlags().String("key", "", "API key sent as X-API-Key")
	root.PersistentFlags().Duration("timeout", hive.DefaultConfig().RequestTimeout, "request timeout")
	_ = a.v.BindPFlag("url", root.PersistentFlags().Lookup("url"))
	_ = a.v.BindPFlag("key", root.PersistentFlags().Lookup("key"))
	_ = a.v.BindPFlag("timeout", root.PersistentFlags().Lookup("timeout"))

	root.AddCommand(newSaveCmd(a))
	root.AddCommand(newLoadCmd(a))
	root.AddCommand(newTransferCmd(a))
	root.AddCommand(newPingCmd(a))
	root.AddCommand(newStubCmd())
	root.AddCommand(newVersionCmd())
	return root
}
