package main

import (
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"promptalbum/internal/workflow"
)

type matchAlbum struct {
	Name   string   `json:"name"`
	Folder string   `json:"folder"`
	Photos []string `json:"photos"`
}

type matchReport struct {
	Scanned   int          `json:"scanned"`
	Albums    []matchAlbum `json:"albums"`
	Empty     []string     `json:"empty_albums,omitempty"`
	Unmatched []string     `json:"unmatched"`
}

func newMatchCommand(ctx *commandContext) *cobra.Command {
	var promptText string
	var asJSON, listFiles bool
	var year, month int

	cmd := &cobra.Command{
		Use:   "match",
		Short: "Preview how photos would be assigned without placing anything",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			override, err := dateOverride(year, month)
			if err != nil {
				return err
			}
			logger, err := ctx.consoleLogger(cmd)
			if err != nil {
				return err
			}
			plan, err := workflow.NewRunner(cfg, logger).Plan(cmd.Context(), workflow.Options{
				Prompt:       promptText,
				DateOverride: override,
			})
			if err != nil {
				return err
			}

			if asJSON {
				report := matchReport{Scanned: len(plan.Photos), Unmatched: []string{}}
				for _, planned := range plan.Albums {
					entry := matchAlbum{Name: planned.Album.SpecName, Folder: planned.Album.FolderLabel}
					for _, p := range planned.Album.Photos {
						entry.Photos = append(entry.Photos, p.Path)
					}
					report.Albums = append(report.Albums, entry)
				}
				for _, spec := range plan.Result.EmptyGroups() {
					report.Empty = append(report.Empty, spec.Name)
				}
				for _, p := range plan.Unmatched {
					report.Unmatched = append(report.Unmatched, p.Path)
				}
				return writeJSON(cmd, report)
			}

			p := newPrinter(cmd.OutOrStdout())
			rows := make([][]string, 0, len(plan.Albums))
			for _, planned := range plan.Albums {
				earliest, latest := planned.Album.DateSpan()
				rows = append(rows, []string{
					planned.Album.FolderLabel,
					strconv.Itoa(len(planned.Album.Photos)),
					humanize.Bytes(uint64(planned.Album.TotalBytes())),
					formatDay(earliest) + " .. " + formatDay(latest),
				})
			}
			p.table(tableSpec{
				headers: []string{"Album", "Photos", "Size", "Dates"},
				rows:    rows,
				right:   []int{1, 2},
				empty:   "No photo matches any album",
			})
			if listFiles {
				for _, planned := range plan.Albums {
					p.section(planned.Album.FolderLabel)
					for _, photo := range planned.Album.Photos {
						p.indented(photo.Path)
					}
				}
			}
			for _, spec := range plan.Result.EmptyGroups() {
				p.status("Empty", statusWarn, "%q matched no photos", spec.Name)
			}
			p.status("Scanned", statusInfo, "%d photos", len(plan.Photos))
			p.status("Unmatched", statusInfo, "%d photos", len(plan.Unmatched))
			return nil
		},
	}

	cmd.Flags().StringVarP(&promptText, "prompt", "p", "", "Album description to preview")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the assignment as JSON")
	cmd.Flags().BoolVar(&listFiles, "files", false, "List the photos in each album")
	cmd.Flags().IntVar(&year, "year", 0, "Replace every album's date filter with this year")
	cmd.Flags().IntVar(&month, "month", 0, "Narrow --year to one month (1-12)")
	_ = cmd.MarkFlagRequired("prompt")
	return cmd
}
