package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/tesh254/turncopy/internal/extract"
	"github.com/tesh254/turncopy/internal/markdown"
	"github.com/tesh254/turncopy/internal/report"
)

var convertCmd = &cobra.Command{
	Use:   "convert [source]",
	Short: "Prints the conversation of a chat page as Markdown",
	Long: `Prints every turn of a chat page. User turns are printed as written, AI
answers are converted to Markdown. source is a file path, - for standard input,
or a URL.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		location := args[0]
		format, _ := cmd.Flags().GetString("format")
		pretty, _ := cmd.Flags().GetBool("pretty")
		generic, _ := cmd.Flags().GetBool("generic")
		render, _ := cmd.Flags().GetBool("render")
		explain, _ := cmd.Flags().GetBool("explain")
		width, _ := cmd.Flags().GetInt("width")

		cfg := loadConfig()
		a, closeDB := newAPI(cfg)
		defer closeDB()

		printer := report.New(os.Stdout, diagnostics(cfg))
		printer.Banner("Converting", report.Field{Label: "Source", Value: location}, report.Field{Label: "Format", Value: format})

		page := loadPage(cmd.Context(), cfg, location, render)

		if generic {
			md, err := a.Generic(page.Doc)
			if err != nil {
				log.Fatalf("Failed to convert %s: %v", location, err)
			}
			printMarkdown(md, pretty, width)
			return
		}

		conv := a.Conversation(page.Doc, cfg.Tags)
		if explain {
			for _, m := range conv.Messages {
				if m.Role != extract.RoleAI {
					continue
				}
				fmt.Printf("Message %d\n", m.Index)
				printer.Segments(markdown.Describe(a.Extractor().AIContainer(m.Node)))
			}
			return
		}

		switch format {
		case "json":
			out, err := conv.JSON()
			if err != nil {
				log.Fatalf("%v", err)
			}
			fmt.Println(string(out))
		case "yaml":
			out, err := conv.YAML()
			if err != nil {
				log.Fatalf("%v", err)
			}
			fmt.Print(string(out))
		case "text":
			if conv.Empty() {
				printer.Error(fmt.Errorf("no messages found in %s", location))
				os.Exit(1)
			}
			if pretty {
				printer.Messages(conv.Messages)
			}
			printMarkdown(conv.Text, pretty, width)
		default:
			log.Fatalf("Unknown format %q (want text, json or yaml)", format)
		}
	},
}

func printMarkdown(md string, pretty bool, width int) {
	if !pretty {
		fmt.Println(md)
		return
	}
	out, err := report.RenderMarkdown(md, width)
	if err != nil {
		log.Fatalf("%v", err)
	}
	fmt.Print(out)
}

func init() {
	rootCmd.AddCommand(convertCmd)
	convertCmd.Flags().StringP("format", "f", "text", "Output format (text, json or yaml)")
	convertCmd.Flags().BoolP("pretty", "p", false, "Render Markdown for the terminal")
	convertCmd.Flags().Bool("generic", false, "Convert the whole page with the general purpose converter")
	convertCmd.Flags().Bool("render", false, "Load URLs in a headless browser")
	convertCmd.Flags().Bool("explain", false, "Show how each block of the AI answers was classified")
	convertCmd.Flags().Int("width", 100, "Word wrap width for --pretty")
}
