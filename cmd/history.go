package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tesh254/turncopy/internal/report"
	"github.com/tesh254/turncopy/internal/storage"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manages the history of copied conversations",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "Lists copied conversations, newest first",
	Run: func(cmd *cobra.Command, args []string) {
		limit, _ := cmd.Flags().GetInt("limit")

		a, closeDB := newAPI(loadConfig())
		defer closeDB()

		entries, err := a.ListHistory(limit)
		if err != nil {
			log.Fatalf("Failed to list history: %v", err)
		}
		if len(entries) == 0 {
			fmt.Println("No copies recorded yet.")
			return
		}
		report.New(os.Stdout, nil).History(entries)
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Prints a copied conversation",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		pretty, _ := cmd.Flags().GetBool("pretty")

		a, closeDB := newAPI(loadConfig())
		defer closeDB()

		entry, err := a.GetHistory(args[0])
		if err != nil {
			historyFatal(args[0], err)
		}
		printMarkdown(entry.Content, pretty, 100)
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Deletes a copied conversation",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a, closeDB := newAPI(loadConfig())
		defer closeDB()

		if err := a.DeleteHistory(args[0]); err != nil {
			historyFatal(args[0], err)
		}
		fmt.Printf("Entry '%s' deleted successfully.\n", args[0])
	},
}

var historyCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Deletes every copied conversation",
	Run: func(cmd *cobra.Command, args []string) {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			reader := bufio.NewReader(os.Stdin)
			fmt.Println("\033[31mWARNING: This will delete the whole copy history and is not recoverable.\033[0m")
			fmt.Print("Are you sure you want to continue? (yes/no): ")

			response, err := reader.ReadString('\n')
			if err != nil {
				log.Fatalf("Failed to read response: %v", err)
			}
			if strings.TrimSpace(strings.ToLower(response)) != "yes" {
				fmt.Println("Clean operation cancelled.")
				return
			}
		}

		a, closeDB := newAPI(loadConfig())
		defer closeDB()

		if err := a.CleanHistory(); err != nil {
			log.Fatalf("Failed to clean history: %v", err)
		}
		fmt.Println("History cleaned successfully.")
	},
}

func historyFatal(id string, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		log.Fatalf("No entry matches '%s'", id)
	case errors.Is(err, storage.ErrAmbiguous):
		log.Fatalf("'%s' matches more than one entry, use a longer prefix", id)
	default:
		log.Fatalf("%v", err)
	}
}

func init() {
	historyListCmd.Flags().IntP("limit", "n", 20, "Maximum number of entries (0 for all)")
	historyShowCmd.Flags().BoolP("pretty", "p", false, "Render Markdown for the terminal")
	historyCleanCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")

	historyCmd.AddCommand(historyListCmd, historyShowCmd, historyDeleteCmd, historyCleanCmd)
	rootCmd.AddCommand(historyCmd)
}
