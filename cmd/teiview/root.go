package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/simp-lee/tei"
)

var (
	configPath string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "teiview",
	Short: "inspect TEI editions",
	Example: `teiview summary edition.xml
teiview entities edition.xml -c listPerson
teiview pages edition.xml -d doc1
teiview page edition.xml p1 -l interpretative
teiview occurrences edition.xml pers1
teiview info edition.xml
teiview collation edition.xml`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logrus.SetLevel(logrus.DebugLevel)
		}
	},
}

// Execute runs the root command and exits with status 1 on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", os.Getenv("TEIVIEW_CONFIG"), "TOML configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug diagnostics")

	rootCmd.AddCommand(summaryCmd())
	rootCmd.AddCommand(entitiesCmd())
	rootCmd.AddCommand(pagesCmd())
	rootCmd.AddCommand(pageCmd())
	rootCmd.AddCommand(occurrencesCmd())
	rootCmd.AddCommand(infoCmd())
	rootCmd.AddCommand(collationCmd())

	rootCmd.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})
	rootCmd.CompletionOptions.HiddenDefaultCmd = true
	cobra.EnableCommandSorting = false
}

// openEdition parses the edition at path with the configured options and
// prints its warnings.
func openEdition(path string) (*tei.Edition, error) {
	cfg := tei.DefaultConfig()
	if configPath != "" {
		var err error
		if cfg, err = tei.LoadConfig(configPath); err != nil {
			return nil, err
		}
	}
	cfg.Logger = logrus.StandardLogger()

	ed, err := tei.Open(path, cfg)
	if err != nil {
		return nil, err
	}
	for _, w := range ed.Warnings() {
		color.Yellow("warning: %s\n", w)
	}
	return ed, nil
}

// documentFor returns docID, or the first document holding pageID when
// docID is empty.
func documentFor(ed *tei.Edition, docID, pageID string) (string, error) {
	if docID != "" {
		return docID, nil
	}
	doc, err := ed.PageDocument(pageID)
	if err != nil {
		return "", err
	}
	return doc.ID, nil
}

// plain strips display markup for table cells.
func plain(markup string) string {
	text, err := tei.PlainText(markup)
	if err != nil {
		return markup
	}
	return text
}

func printField(label, value string) {
	color.Set(color.FgCyan)
	fmt.Print(label)
	color.Unset()
	fmt.Printf(": %s\n", value)
}
