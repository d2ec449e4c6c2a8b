package main

import (
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/simp-lee/tei"
)

func entitiesCmd() *cobra.Command {
	var collection string

	command := &cobra.Command{
		Use:     "entities <file>",
		Short:   "list named entities by collection and list position",
		Example: "teiview entities edition.xml -c listPerson",
		Args:    cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ed, err := openEdition(args[0])
			if err != nil {
				logrus.Error(err)
				return
			}
			st := ed.Store()

			for _, c := range st.Collections() {
				if collection != "" && c.ID != collection {
					continue
				}
				color.Magenta("%s (%s)\n", c.ID, c.Type)
				table := tablewriter.NewWriter(os.Stdout)
				table.SetHeader([]string{"Position", "ID", "Label", "Fields"})
				for _, pos := range st.ListPositions(c.ID) {
					for _, e := range st.EntitiesAt(c.ID, pos) {
						table.Append([]string{pos, e.ID, plain(e.Label), fieldSummary(e)})
					}
				}
				table.Render()
			}
		},
	}

	command.Flags().StringVarP(&collection, "collection", "c", "", "collection id")

	return command
}

func fieldSummary(e *tei.Entity) string {
	return strings.Join(e.Content.Order, ", ")
}

func occurrencesCmd() *cobra.Command {
	var docID string

	command := &cobra.Command{
		Use:     "occurrences <file> <entity>",
		Short:   "list the pages mentioning a named entity",
		Example: "teiview occurrences edition.xml pers1 -d doc1",
		Args:    cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			ed, err := openEdition(args[0])
			if err != nil {
				logrus.Error(err)
				return
			}
			if _, err := ed.Entity(args[1]); err != nil {
				color.Yellow("%v\n", err)
			}

			var refs []tei.PageRef
			if docID != "" {
				if refs, err = ed.EntityOccurrences(docID, args[1]); err != nil {
					logrus.Error(err)
					return
				}
			} else {
				refs = ed.AllEntityOccurrences(args[1])
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"Document", "Page", "Label"})
			for _, r := range refs {
				table.Append([]string{r.DocLabel, r.PageID, r.PageLabel})
			}
			table.Render()
		},
	}

	command.Flags().StringVarP(&docID, "doc-id", "d", "", "document id")

	return command
}
