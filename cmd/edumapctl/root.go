package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/edumap/edumap-api/internal/pkg/logger"
)

func newRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "edumapctl",
		Short: "EduMap maintenance tool",
		Long: `edumapctl runs maintenance tasks against the EduMap catalog:
- scores a section document offline
- prints the field classification table
- re-scores every stored section after a classification change
- bootstraps the first back-office account`,
		Version:      "1.0.0",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(cfgFile); err != nil {
				return err
			}
			return logger.Init(logger.Config{
				Level:       viper.GetString("log_level"),
				Environment: "development",
			})
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.edumapctl.yaml)")
	rootCmd.PersistentFlags().String("database-url", "", "PostgreSQL connection string (env EDUMAP_DATABASE_URL)")
	rootCmd.PersistentFlags().String("log-level", "warn", "log level")
	_ = viper.BindPFlag("database_url", rootCmd.PersistentFlags().Lookup("database-url"))
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.AddCommand(
		newScoreCmd(),
		newSectionsCmd(),
		newRecalcCmd(),
		newAdminCmd(),
	)

	return rootCmd
}

func initConfig(cfgFile string) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigType("yaml")
		viper.SetConfigName(".edumapctl")
	}

	viper.SetEnvPrefix("EDUMAP")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// The default config file is optional
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	return nil
}

func databaseURL() (string, error) {
	url := viper.GetString("database_url")
	if url == "" {
		return "", errors.New("database url is required (--database-url or EDUMAP_DATABASE_URL)")
	}
	return url, nil
}
