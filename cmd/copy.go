package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/tesh254/turncopy/internal/report"
)

var copyCmd = &cobra.Command{
	Use:   "copy [source]",
	Short: "Copies the conversation of a chat page to the clipboard",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		location := args[0]
		render, _ := cmd.Flags().GetBool("render")

		cfg := loadConfig()
		a, closeDB := newAPI(cfg)
		defer closeDB()

		printer := report.New(os.Stdout, diagnostics(cfg))
		page := loadPage(cmd.Context(), cfg, location, render)

		if cmd.Flags().Changed("message") {
			index, _ := cmd.Flags().GetInt("message")
			msg, res, err := a.CopyMessage(cmd.Context(), location, page.Doc, index)
			if err != nil {
				log.Fatalf("%v", err)
			}
			printer.Result(res, fmt.Sprintf("Message %d (%s)", msg.Index, msg.Role))
			if !res.Success {
				os.Exit(1)
			}
			return
		}

		conv, res := a.Copy(cmd.Context(), location, page.Doc, cfg.Tags)
		printer.Banner("Copying", report.Field{Label: "Source", Value: location}, report.Field{Label: "Turns", Value: conv.Turns()})
		printer.Result(res, "Conversation")
		if !res.Success {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(copyCmd)
	copyCmd.Flags().IntP("message", "m", 0, "Copy only the message at this index")
	copyCmd.Flags().Bool("render", false, "Load URLs in a headless browser")
}
