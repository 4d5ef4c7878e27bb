package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tesh254/turncopy/internal/core"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the MCP server",
	Run: func(cmd *cobra.Command, args []string) {
		transport := viper.GetString("transport")
		httpAddress := viper.GetString("http-address")

		cfg := loadConfig()
		a, closeDB := newAPI(cfg)
		defer closeDB()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// stdout belongs to the protocol in stdio mode, so progress always
		// goes to stderr
		logger := log.New(os.Stderr, "[turncopy] ", log.LstdFlags)
		server := core.New(a, cfg.Tags, logger)

		var err error
		switch transport {
		case "stdio":
			err = server.ServeStdio(ctx)
		case "http":
			err = server.ServeHTTP(ctx, httpAddress)
		default:
			log.Fatalf("Unknown transport %q (want stdio or http)", transport)
		}
		if err != nil && ctx.Err() == nil {
			log.Fatalf("Server error: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("http-address", "localhost:9014", "HTTP address to listen on")
	serveCmd.Flags().String("transport", "stdio", "Transport type (stdio or http)")
	viper.BindPFlag("http-address", serveCmd.Flags().Lookup("http-address"))
	viper.BindPFlag("transport", serveCmd.Flags().Lookup("transport"))
}
