// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the studyweb CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/studyweb/internal/secrets"
	"github.com/pdiddy/studyweb/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// Startup state shared by every subcommand, set in PersistentPreRunE.
var (
	// loadedSecrets holds values loaded from .secrets/ at startup.
	loadedSecrets map[string]string
	appConfig     types.AppConfig
	logger        *logrus.Logger
)

// defaultLogLevelKey is a command annotation naming the log level used
// when neither a flag, the environment, nor a config file sets one.
const defaultLogLevelKey = "default-log-level"

// rootCmd is the base command for the studyweb CLI.
var rootCmd = &cobra.Command{
	Use:   "studyweb",
	Short: "Direct answers to academic questions from Wikipedia",
	Long: `studyweb turns a free-text academic question into a short direct answer.
It strips filler words to find the topic, looks the topic up on Wikipedia,
and shows the leading sentences as bullet points with a brief explanation
and the page image.

Ask one question with "ask", keep a session open with "interactive", or
serve the question page over HTTP with "serve".`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return prepare(cmd, viper.GetViper(), ".secrets/")
	},
}

// prepare decodes configuration, builds the shared logger, and loads
// secrets from secretsDir.
func prepare(cmd *cobra.Command, v *viper.Viper, secretsDir string) error {
	cfg, err := decodeConfig(v)
	if err != nil {
		return err
	}
	if level := cmd.Annotations[defaultLogLevelKey]; level != "" && !logLevelOverridden(cmd, v) {
		cfg.Log.Level = level
	}
	log := newLogger(cfg.Log, cmd.ErrOrStderr())

	s, err := secrets.Load(secretsDir, log)
	if err != nil {
		return err
	}
	appConfig, logger, loadedSecrets = cfg, log, s
	return nil
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./studyweb.yaml or ~/.config/studyweb/studyweb.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("cache", "", "page cache backend: none, memory, sqlite")

	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("cache.backend", rootCmd.PersistentFlags().Lookup("cache"))
}

func initConfig() {
	setDefaults(viper.GetViper())

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("studyweb")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "studyweb"))
		}
	}

	viper.SetEnvPrefix("STUDYWEB")
	viper.SetEnvKeyReplacer(envKeyReplacer)
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
