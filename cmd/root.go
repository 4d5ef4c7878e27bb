package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tesh254/turncopy/internal/config"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:     "turncopy",
	Aliases: []string{"tc"},
	Short:   "turncopy copies chat conversations as Markdown.",
	Long: `turncopy reads a rendered chat page (a saved file, standard input or a URL),
extracts the user and AI turns, converts the AI answers to Markdown and copies
the conversation, wrapped in configurable tags, to the clipboard.`,
	Version: version,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.turncopy/config.yaml)")

	home, err := os.UserHomeDir()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	rootCmd.PersistentFlags().String("db", config.DefaultDBPath(home), "Path to the history database file")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log progress to stderr")

	viper.BindPFlag(config.KeyDB, rootCmd.PersistentFlags().Lookup("db"))
	viper.BindPFlag(config.KeyVerbose, rootCmd.PersistentFlags().Lookup("verbose"))
}

func initConfig() {
	home, err := os.UserHomeDir()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	config.SetDefaults(viper.GetViper(), home)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(filepath.Dir(config.DefaultConfigPath(home)))
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("TURNCOPY")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound):
			// tags set creates the file here on first save
			viper.SetConfigFile(config.DefaultConfigPath(home))
		case errors.Is(err, fs.ErrNotExist):
			// --config names a file that does not exist yet
		default:
			fmt.Println("Error reading config file:", err)
			os.Exit(1)
		}
	}
}
