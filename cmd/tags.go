package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tesh254/turncopy/internal/config"
	"github.com/tesh254/turncopy/internal/report"
)

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "Shows or edits the tags wrapped around copied turns",
}

var tagsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Shows the current tags",
	Run: func(cmd *cobra.Command, args []string) {
		report.New(os.Stdout, nil).Tags(loadConfig().Tags)
	},
}

var tagsSetCmd = &cobra.Command{
	Use:   "set [user_open|user_close|ai_open|ai_close] [value]",
	Short: "Sets one tag",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		tags := loadConfig().Tags
		if err := tags.Set(args[0], args[1]); err != nil {
			log.Fatalf("%v", err)
		}
		if err := config.SaveTags(viper.GetViper(), tags); err != nil {
			log.Fatalf("Failed to save tags: %v", err)
		}
		fmt.Println("Tags saved!")
	},
}

var tagsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restores the default tags",
	Run: func(cmd *cobra.Command, args []string) {
		tags, err := config.ResetTags(viper.GetViper())
		if err != nil {
			log.Fatalf("Failed to reset tags: %v", err)
		}
		fmt.Println("Tags reset to default!")
		report.New(os.Stdout, nil).Tags(tags)
	},
}

func init() {
	tagsCmd.AddCommand(tagsShowCmd, tagsSetCmd, tagsResetCmd)
	rootCmd.AddCommand(tagsCmd)
}
