package main

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"promptalbum/internal/album"
	"promptalbum/internal/prompt"
	"promptalbum/internal/services"
)

type parseReport struct {
	Specs      []album.AlbumSpec  `json:"specs"`
	Unresolved []unresolvedReport `json:"unresolved_dates,omitempty"`
}

type unresolvedReport struct {
	Clause        string `json:"clause"`
	Fragment      string `json:"fragment"`
	SequenceIndex int    `json:"sequence_index"`
}

func newParseCommand(ctx *commandContext) *cobra.Command {
	var promptText string
	var asJSON bool
	var year, month int

	cmd := &cobra.Command{
		Use:   "parse",
		Short: "Show the albums a prompt describes without scanning any photo",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			override, err := dateOverride(year, month)
			if err != nil {
				return err
			}
			result, err := prompt.NewParser(cfg.Vocabulary()).Parse(promptText)
			if err != nil {
				return services.Wrap(services.ErrValidation, "parse", "prompt", "", err)
			}
			specs := result.Specs
			if override != nil {
				specs = prompt.OverrideDates(specs, override)
			}

			if asJSON {
				report := parseReport{Specs: specs}
				for _, u := range result.Unresolved {
					report.Unresolved = append(report.Unresolved, unresolvedReport{
						Clause:        u.Clause,
						Fragment:      u.Fragment,
						SequenceIndex: u.SequenceIndex,
					})
				}
				return writeJSON(cmd, report)
			}

			rows := make([][]string, 0, len(specs))
			for _, spec := range specs {
				filter := "-"
				if spec.DateFilter != nil {
					filter = spec.DateFilter.String()
				}
				rows = append(rows, []string{
					strconv.Itoa(spec.SequenceIndex),
					spec.Name,
					strings.Join(spec.Keywords, ", "),
					filter,
				})
			}
			p := newPrinter(cmd.OutOrStdout())
			p.table(tableSpec{headers: []string{"#", "Album", "Keywords", "Dates"}, rows: rows, right: []int{0}})
			for _, u := range result.Unresolved {
				p.status("Date", statusWarn, "clause %d: could not understand %q", u.SequenceIndex, u.Fragment)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&promptText, "prompt", "p", "", "Album description to parse")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the parsed albums as JSON")
	cmd.Flags().IntVar(&year, "year", 0, "Replace every album's date filter with this year")
	cmd.Flags().IntVar(&month, "month", 0, "Narrow --year to one month (1-12)")
	_ = cmd.MarkFlagRequired("prompt")
	return cmd
}
