package cmd

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tesh254/turncopy/internal/clipboard"
	"github.com/tesh254/turncopy/internal/config"
	"github.com/tesh254/turncopy/internal/extract"
	"github.com/tesh254/turncopy/internal/report"
	"github.com/tesh254/turncopy/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch [source]",
	Short: "Prints each new turn of a chat page as it appears",
	Long: `Watches a chat page and prints every turn once it has text, and again
whenever its text changes while the answer is still being written. A saved
page file is re-read whenever it is written; a URL is polled every
watch.interval.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		location := args[0]
		render, _ := cmd.Flags().GetBool("render")
		copyTurns, _ := cmd.Flags().GetBool("copy")

		cfg := loadConfig()
		logger := cfg.Logger()
		printer := report.New(os.Stdout, diagnostics(cfg))
		printer.Banner("Watching", report.Field{Label: "Source", Value: location}, report.Field{Label: "Interval", Value: cfg.Watch.Interval})

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		clip := clipboard.NewSystem()
		onMessage := func(m extract.Message) {
			fmt.Printf("%s\n\n", extract.Assemble([]extract.Message{m}, cfg.Tags))
			if copyTurns {
				printer.Result(clipboard.Deliver(ctx, clip, m.Text), fmt.Sprintf("Message %d", m.Index))
			}
		}

		w := watch.New(location, newLoader(cfg, render), extract.New(cfg.Selectors), cfg.Watch.Interval, logger, onMessage)
		if err := w.Run(ctx); err != nil && ctx.Err() == nil {
			log.Fatalf("Watch failed: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().Duration("interval", 0, "Polling interval for URLs (default from config, 5s)")
	watchCmd.Flags().Bool("render", false, "Load URLs in a headless browser")
	watchCmd.Flags().Bool("copy", false, "Copy each new turn to the clipboard")
	viper.BindPFlag(config.KeyInterval, watchCmd.Flags().Lookup("interval"))
}
