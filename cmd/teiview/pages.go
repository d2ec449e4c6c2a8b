package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/simp-lee/tei"
)

func pagesCmd() *cobra.Command {
	var docID string
	var level string

	command := &cobra.Command{
		Use:     "pages <file>",
		Short:   "list pages with their word counts",
		Example: "teiview pages edition.xml -d doc1 -l diplomatic",
		Args:    cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ed, err := openEdition(args[0])
			if err != nil {
				logrus.Error(err)
				return
			}
			st := ed.Store()

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"Document", "Page", "Label", "Image", "Words"})
			for _, doc := range st.Documents() {
				if docID != "" && doc.ID != docID {
					continue
				}
				for _, p := range st.DocumentPages(doc.ID) {
					stats, err := ed.PageStats(p.ID, doc.ID, tei.EditionLevel(level))
					if err != nil {
						logrus.Error(err)
						return
					}
					table.Append([]string{doc.ID, p.ID, p.Label, p.Image, strconv.Itoa(stats.Words)})
				}
			}
			table.Render()
		},
	}

	command.Flags().StringVarP(&docID, "doc-id", "d", "", "document id")
	command.Flags().StringVarP(&level, "level", "l", "", "edition level (default from config)")

	command.Flags().SortFlags = false

	return command
}

func pageCmd() *cobra.Command {
	var docID string
	var level string
	var lines bool

	command := &cobra.Command{
		Use:     "page <file> <page>",
		Short:   "print the text of a page at an edition level",
		Example: "teiview page edition.xml p1 -l interpretative",
		Args:    cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			ed, err := openEdition(args[0])
			if err != nil {
				logrus.Error(err)
				return
			}
			pageID := args[1]
			doc, err := documentFor(ed, docID, pageID)
			if err != nil {
				logrus.Error(err)
				return
			}

			if lines {
				for i, l := range ed.Store().PageLines(pageID, doc) {
					printField(strconv.Itoa(i+1), l)
				}
				return
			}

			text, err := ed.PageText(pageID, doc, tei.EditionLevel(level))
			if err != nil {
				logrus.Error(err)
				return
			}
			fmt.Println(text)
		},
	}

	command.Flags().StringVarP(&docID, "doc-id", "d", "", "document id (default: first document holding the page)")
	command.Flags().StringVarP(&level, "level", "l", "", "edition level (default from config)")
	command.Flags().BoolVar(&lines, "lines", false, "print the original line spans")

	command.Flags().SortFlags = false

	return command
}
