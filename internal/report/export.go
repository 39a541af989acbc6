// Package report writes career-stat PDF reports and reads player
// profile documents back in for the profile chat.
package report

import (
	"fmt"
	"strconv"

	"github.com/go-pdf/fpdf"

	"courtside/internal/logging"
	"courtside/internal/nba"
)

var careerColumns = []string{
	"SEASON", "TEAM", "AGE", "GP", "GS", "MIN",
	"FGM", "FG3M", "FTM", "REB", "AST", "STL", "BLK", "PTS",
}

// colWidth fits all fourteen columns on landscape A4.
const colWidth = 19.0

// WriteCareerReport renders per-season career totals to a PDF at path.
func WriteCareerReport(path, playerName string, seasons []nba.CareerSeason) error {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, fmt.Sprintf("Career Totals: %s", playerName), "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetFillColor(200, 200, 200)
	for _, col := range careerColumns {
		pdf.CellFormat(colWidth, 7, col, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 8)
	for _, s := range seasons {
		for _, v := range careerRow(s) {
			pdf.CellFormat(colWidth, 6, v, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	logging.Report("wrote career report for %s: %s (%d seasons)", playerName, path, len(seasons))
	return nil
}

// careerRow formats one season in column order. Totals are whole
// numbers upstream, so trim trailing zeros rather than forcing
// decimals.
func careerRow(s nba.CareerSeason) []string {
	n := func(v float64) string {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return []string{
		s.Season, s.Team, n(s.Age), n(s.GP), n(s.GS), n(s.Min),
		n(s.FGM), n(s.FG3M), n(s.FTM), n(s.Reb), n(s.Ast), n(s.Stl), n(s.Blk), n(s.Pts),
	}
}
