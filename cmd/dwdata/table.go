package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/dogwitch-wiki/data/internal/importer"
	"github.com/dogwitch-wiki/data/internal/importer/unity"
)

func renderSummary(s *importer.Summary) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.Style().Format.Header = text.FormatDefault
	tw.Style().Format.Footer = text.FormatDefault
	tw.AppendHeader(table.Row{"Category", "Directory", "Items"})

	for _, cd := range unity.CategoryDirs() {
		tw.AppendRow(table.Row{string(cd.Category), cd.Dir, strconv.Itoa(s.Counts[cd.Category])})
	}
	tw.AppendFooter(table.Row{"Total", "", strconv.Itoa(s.Records)})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight, AlignFooter: text.AlignRight, AlignHeader: text.AlignLeft},
	})

	out := tw.Render()
	out += fmt.Sprintf("\nwrote %s", s.OutputPath)
	if s.ImagesDir != "" {
		out += fmt.Sprintf("\ncopied %d image(s) to %s", s.Images, s.ImagesDir)
	}
	out += fmt.Sprintf("\ntotal %s", s.Elapsed.Round(time.Millisecond))
	return out
}
