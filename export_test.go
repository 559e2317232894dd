package shaping

import (
	"encoding/csv"
	"os"
	"testing"
	"time"
)

func TestExportTrajectory(t *testing.T) {
	shape := quarterArcShape(t, 0)
	dir := t.TempDir()
	fpath, err := ExportTrajectory(shape, dir, "coast", 10*24*time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(fpath)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) < 5 {
		t.Fatalf("expected several samples, got %d records", len(records))
	}
	if records[0][0] != "jd" || len(records[0]) != 9 {
		t.Fatalf("unexpected header %v", records[0])
	}
	for i, record := range records[1:] {
		if len(record) != 9 {
			t.Fatalf("record %d has %d fields", i, len(record))
		}
	}
}
