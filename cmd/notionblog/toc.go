package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hoafnganh/notionblog/notion"
	"github.com/hoafnganh/notionblog/toc"
	"github.com/hoafnganh/notionblog/toc/htmlsurface"
)

var (
	tocScroll     float64
	tocGoto       string
	tocStructural bool
	tocJSON       bool
	tocRowHeight  float64
)

var tocCmd = &cobra.Command{
	Use:   "toc <file.json>",
	Short: "Print the table of contents of a record map",
	Long: `Extract the outline of a record map, render the page, and check that
every heading can be found in the rendered HTML.

--scroll and --goto replay the synchronizer against a static layout in
which every block is one row of --row-height pixels.

Examples:
  notionblog toc content/post.json
  notionblog toc content/post.json --scroll 600
  notionblog toc content/post.json --goto 2570eda9-f07e-806a-a44c-e87761f3a9e5`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		rm, err := notion.DecodeRecordMap(f)
		if err != nil {
			return err
		}
		rootID, err := rm.RootPageID()
		if err != nil {
			return err
		}

		outline := toc.Extract(rm)
		if tocStructural {
			outline = toc.ExtractStructural(rm, rootID)
		}

		var page bytes.Buffer
		notion.RenderHTML(&page, rm, rootID)
		surface, err := htmlsurface.FromHTML(&page, htmlsurface.WithBlockHeight(tocRowHeight))
		if err != nil {
			return err
		}

		log := newLogger(logLevel).WithField("component", "toc")
		syncer := toc.NewSynchronizer(surface, toc.WithLogger(log))
		defer syncer.Close()
		syncer.Mount(outline)

		if cmd.Flags().Changed("scroll") {
			surface.ScrollTo(tocScroll)
		}
		if tocGoto != "" && !syncer.NavigateTo(tocGoto) {
			return fmt.Errorf("heading %s is not on the page", tocGoto)
		}

		active, _ := syncer.Active()
		report := tocReport{
			Outline: outline,
			Missing: surface.Check(outline),
			ScrollY: surface.ScrollY(),
			Active:  active,
		}
		if tocJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		}
		report.print(cmd.OutOrStdout())
		return nil
	},
}

type tocReport struct {
	Outline toc.Outline `json:"outline"`
	Missing []string    `json:"missing,omitempty"`
	ScrollY float64     `json:"scroll_y"`
	Active  string      `json:"active,omitempty"`
}

func (r tocReport) print(w io.Writer) {
	missing := make(map[string]bool, len(r.Missing))
	for _, id := range r.Missing {
		missing[id] = true
	}
	for _, e := range r.Outline {
		mark := " "
		switch {
		case e.ID == r.Active:
			mark = ">"
		case missing[e.ID]:
			mark = "!"
		}
		fmt.Fprintf(w, "%s %s%s  (%s)\n", mark, strings.Repeat("  ", e.Level-1), e.Text, e.ID)
	}
	fmt.Fprintf(w, "\n%d headings, %d unresolved, scrollY=%.0f\n", len(r.Outline), len(r.Missing), r.ScrollY)
}

func init() {
	tocCmd.Flags().Float64Var(&tocScroll, "scroll", 0, "scroll position to evaluate")
	tocCmd.Flags().StringVar(&tocGoto, "goto", "", "heading id to navigate to")
	tocCmd.Flags().BoolVar(&tocStructural, "structural", false, "order headings by the page's content tree")
	tocCmd.Flags().BoolVar(&tocJSON, "json", false, "print JSON")
	tocCmd.Flags().Float64Var(&tocRowHeight, "row-height", htmlsurface.DefaultBlockHeight, "nominal block height in pixels")
}
