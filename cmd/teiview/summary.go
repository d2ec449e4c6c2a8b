package main

import (
	"os"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func summaryCmd() *cobra.Command {
	command := &cobra.Command{
		Use:     "summary <file>",
		Short:   "list documents, divisions and collections",
		Example: "teiview summary edition.xml",
		Args:    cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ed, err := openEdition(args[0])
			if err != nil {
				logrus.Error(err)
				return
			}
			st := ed.Store()

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"Document", "Title", "Pages", "Divisions", "Front"})
			for _, doc := range st.Documents() {
				front := "no"
				if doc.Front != nil {
					front = "yes"
				}
				table.Append([]string{doc.ID, doc.Title, strconv.Itoa(len(doc.Pages)), strconv.Itoa(len(doc.Divisions)), front})
			}
			table.Render()

			if divs := st.Divisions(); len(divs) > 0 {
				table = tablewriter.NewWriter(os.Stdout)
				table.SetHeader([]string{"Division", "Document", "Section", "Title", "Nested", "Witnesses"})
				for _, d := range divs {
					table.Append([]string{d.ID, d.Document, string(d.Section), d.Title, strconv.FormatBool(d.IsNested), strings.Join(d.CorrespondsTo, " ")})
				}
				table.Render()
			}

			if colls := st.Collections(); len(colls) > 0 {
				table = tablewriter.NewWriter(os.Stdout)
				table.SetHeader([]string{"Collection", "Type", "Title", "Entities"})
				for _, c := range colls {
					table.Append([]string{c.ID, string(c.Type), c.Title, strconv.Itoa(len(st.CollectionEntities(c.ID)))})
				}
				table.Render()
			}

			enc := st.Encoding()
			printField("Glyphs", strconv.Itoa(len(st.Glyphs())))
			printField("Witnesses", strings.Join(st.Witnesses(), ", "))
			printField("Line breaks", strconv.FormatBool(enc.UsesLineBreaks))
			printField("Line numbers", strconv.FormatBool(enc.LineNums))
			if enc.VariantEncodingMethod != "" {
				printField("Variant encoding", enc.VariantEncodingMethod+" "+enc.VariantEncodingLocation)
			}
		},
	}
	return command
}

func infoCmd() *cobra.Command {
	var raw bool

	command := &cobra.Command{
		Use:     "info <file>",
		Short:   "print the project information panels",
		Example: "teiview info edition.xml --raw",
		Args:    cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ed, err := openEdition(args[0])
			if err != nil {
				logrus.Error(err)
				return
			}
			info := ed.Store().ProjectInfo()

			show := func(label, markup string) {
				if markup == "" {
					return
				}
				if raw {
					printField(label, markup)
					return
				}
				printField(label, plain(markup))
			}
			printField("Title", info.EditionReference.Title)
			printField("Author", info.EditionReference.Author)
			printField("Publisher", info.EditionReference.Publisher)
			show("File description", info.FileDescription)
			show("Encoding description", info.EncodingDescription)
			show("Text profile", info.TextProfile)
			show("Outside metadata", info.OutsideMetadata)
			show("Revision history", info.RevisionHistory)
			show("Manuscript description", info.MsDesc)
			show("Objects", info.ListObject)
		},
	}

	command.Flags().BoolVar(&raw, "raw", false, "print display markup instead of text")

	return command
}

func collationCmd() *cobra.Command {
	command := &cobra.Command{
		Use:     "collation <file>",
		Short:   "list quires and leaves of the collation model",
		Example: "teiview collation edition.xml --config teiview.toml",
		Args:    cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ed, err := openEdition(args[0])
			if err != nil {
				logrus.Error(err)
				return
			}
			st := ed.Store()
			if len(st.Quires()) == 0 {
				logrus.Warn("no collation model loaded; set [collation] model in the configuration")
				return
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"Quire", "Leaf", "Folio", "Mode", "Conjoin", "Diagram"})
			for _, q := range st.Quires() {
				_, drawn := st.QuireDiagram(q.ID)
				for _, l := range st.QuireLeaves(q.ID) {
					table.Append([]string{q.N, l.LeafNo, l.FolioNumber, l.Mode, l.Conjoin, strconv.FormatBool(drawn)})
				}
			}
			table.Render()
			printField("Images", strconv.Itoa(len(st.ImageList())))
		},
	}
	return command
}
