package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"courtside/internal/nba"
)

func TestCareerRowFormatting(t *testing.T) {
	s := nba.CareerSeason{
		Season: "2024-25", Team: "LAL", Age: 40,
		GP: 70, GS: 70, Min: 2446,
		FGM: 651, FG3M: 142, FTM: 389,
		Reb: 546, Ast: 588, Stl: 70, Blk: 38, Pts: 1833,
	}
	want := []string{
		"2024-25", "LAL", "40", "70", "70", "2446",
		"651", "142", "389", "546", "588", "70", "38", "1833",
	}
	if diff := cmp.Diff(want, careerRow(s)); diff != "" {
		t.Errorf("row mismatch (-want +got):\n%s", diff)
	}
	if len(want) != len(careerColumns) {
		t.Fatalf("row has %d cells for %d columns", len(want), len(careerColumns))
	}
}

func TestWriteCareerReportProducesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "career.pdf")
	seasons := []nba.CareerSeason{
		{Season: "2023-24", Team: "LAL", Age: 39, GP: 71, Pts: 1822},
		{Season: "2024-25", Team: "LAL", Age: 40, GP: 70, Pts: 1833},
	}

	if err := WriteCareerReport(path, "LeBron James", seasons); err != nil {
		t.Fatalf("WriteCareerReport: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("report file missing: %v", err)
	}
	if info.Size() == 0 {
		t.Error("report file is empty")
	}
}

func TestReadProfileMissingFile(t *testing.T) {
	if _, err := ReadProfile(filepath.Join(t.TempDir(), "nope.pdf")); err == nil {
		t.Error("expected error for missing file")
	}
}
