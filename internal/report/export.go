package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"promptalbum/internal/journal"
)

const (
	sheetRun        = "Run"
	sheetAlbums     = "Albums"
	sheetPlacements = "Placements"
	sheetUnmatched  = "Unmatched"
)

// ExportRun writes a workbook describing run to path: a key/value Run sheet
// followed by Albums, Placements, and Unmatched tables.
func ExportRun(run *journal.Run, path string) error {
	if run == nil {
		return fmt.Errorf("export run: nil run")
	}
	wb := excelize.NewFile()
	defer wb.Close()

	if err := wb.SetSheetName(wb.GetSheetName(0), sheetRun); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	for _, name := range []string{sheetAlbums, sheetPlacements, sheetUnmatched} {
		if _, err := wb.NewSheet(name); err != nil {
			return fmt.Errorf("add sheet %s: %w", name, err)
		}
	}

	runRows := [][]any{
		{"Run ID", run.ID},
		{"Prompt", run.Prompt},
		{"Status", string(run.Status)},
		{"Mode", run.Mode},
		{"Dry Run", run.DryRun},
		{"Started", run.StartedAt.Local().Format(time.DateTime)},
		{"Finished", run.FinishedAt.Local().Format(time.DateTime)},
		{"Source", run.SourceDir},
		{"Target", run.TargetDir},
		{"Scanned", run.Scanned},
		{"Matched", run.Matched},
		{"Unmatched", run.Unmatched},
		{"Log", run.LogPath},
	}
	if err := writeRows(wb, sheetRun, runRows); err != nil {
		return err
	}

	albumRows := [][]any{{"Album", "Folder", "Anchor", "Date Filter", "Keywords", "Photos", "Bytes"}}
	placementRows := [][]any{{"Album", "Source", "Destination", "Renamed", "Error"}}
	for _, a := range run.Albums {
		anchor := ""
		if !a.AnchorDate.IsZero() {
			anchor = a.AnchorDate.Format(time.DateOnly)
		}
		albumRows = append(albumRows, []any{
			a.Name, a.FolderLabel, anchor, a.DateFilter, strings.Join(a.Keywords, ", "), a.PhotoCount, a.TotalBytes,
		})
		for _, p := range a.Placements {
			placementRows = append(placementRows, []any{a.FolderLabel, p.Source, p.Destination, p.Renamed, p.Error})
		}
	}
	if err := writeRows(wb, sheetAlbums, albumRows); err != nil {
		return err
	}
	if err := writeRows(wb, sheetPlacements, placementRows); err != nil {
		return err
	}

	unmatchedRows := [][]any{{"Path"}}
	for _, path := range run.UnmatchedPaths {
		unmatchedRows = append(unmatchedRows, []any{path})
	}
	if err := writeRows(wb, sheetUnmatched, unmatchedRows); err != nil {
		return err
	}

	for _, sheet := range []string{sheetAlbums, sheetPlacements, sheetUnmatched} {
		if err := wb.SetPanes(sheet, &excelize.Panes{
			Freeze:      true,
			YSplit:      1,
			TopLeftCell: "A2",
			ActivePane:  "bottomLeft",
		}); err != nil {
			return fmt.Errorf("freeze header %s: %w", sheet, err)
		}
	}

	if err := wb.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func writeRows(wb *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := wb.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
