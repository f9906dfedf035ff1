// Command genmock writes deterministic event table fixtures and a matching
// profile for local runs and manual testing. The same rows are written as CSV
// and XLSX; both are read back through the real table loaders and matched to
// print the annotation counts tests and dashboards should expect.
//
// Usage:
//
//	go run ./cmd/genmock -out-dir data/mock
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"github.com/couchcryptid/storm-event-annotator/internal/config"
	"github.com/couchcryptid/storm-event-annotator/internal/domain"
	"github.com/couchcryptid/storm-event-annotator/internal/matcher"
	"github.com/couchcryptid/storm-event-annotator/internal/table"
)

const sheetName = "Events"

var header = []string{"EventID", "EventType", "County", "State", "StartDate", "EndDate", "Label", "Notes"}

// rows mixes canonical and US-style dates, open-ended events and one
// malformed start date so every extraction path is represented.
var rows = [][]string{
	{"d-2020-01", "Drought", "Adams", "CO", "2020-01-01", "2020-06-01", "D2", "Severe drought across the plains"},
	{"f-2020-02", "Flood", "Denver", "CO", "2020-02-01", "2020-02-03", "Flood", "South Platte flooding"},
	{"d-2021-01", "Drought", "Adams", "CO", "2021-01-01", "", "D1", "Ongoing"},
	{"o-2021-03", "Outage", "Weld", "CO", "3/15/2021 14:30", "3/15/2021 18:00", "Feeder 12", ""},
	{"d-2021-07", "Drought", "Weld", "CO", "2021-07", "", "D0", "Abnormally dry"},
	{"f-2021-08", "Flood", "Larimer", "CO", "2021-08-20T06:00:00Z", "2021-08-21T12:00:00Z", "Flash flood", "Cameron Peak burn scar"},
	{"d-2022-bad", "Drought", "Adams", "CO", "spring 2022", "", "D3", "Malformed start date"},
	{"o-2022-05", "Outage", "", "CO", "2022-05-02 09:00", "", "Statewide", "No county recorded"},
}

var profile = config.Profile{
	Columns: matcher.ColumnRoleMap{
		ID:          "EventID",
		Type:        "EventType",
		Start:       "StartDate",
		End:         "EndDate",
		Label:       "Label",
		Description: "Notes",
	},
	Locations: []matcher.LocationColumn{
		{Type: "County", Column: "County"},
		{Type: "State", Column: "State"},
	},
	EventTypes: []string{"Drought", "Flood"},
	ProfileSources: []domain.ProfileSource{
		{Type: "County", Property: "county"},
	},
	Series: []config.SeriesConfig{
		{ID: "ADAMS.Precip.Month", Properties: map[string]string{"county": "Adams"}},
		{ID: "WELD.Precip.Month", Properties: map[string]string{"county": "Weld"}},
		{ID: "CO.Precip.Month", Locations: domain.LocationProfile{{Type: "State", Value: "CO"}}},
	},
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	outDir := flag.String("out-dir", "", "directory to write events.csv, events.xlsx and profile.yaml into")
	flag.Parse()

	if *outDir == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out-dir")
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return err
	}

	csvPath := filepath.Join(*outDir, "events.csv")
	if err := writeCSV(csvPath); err != nil {
		return fmt.Errorf("writing CSV fixture: %w", err)
	}
	log.Printf("wrote CSV fixture: %s", csvPath)

	xlsxPath := filepath.Join(*outDir, "events.xlsx")
	if err := writeXLSX(xlsxPath); err != nil {
		return fmt.Errorf("writing XLSX fixture: %w", err)
	}
	log.Printf("wrote XLSX fixture: %s", xlsxPath)

	profilePath := filepath.Join(*outDir, "profile.yaml")
	if err := writeProfile(profilePath); err != nil {
		return fmt.Errorf("writing profile: %w", err)
	}
	log.Printf("wrote profile: %s", profilePath)

	loaded, err := config.LoadProfile(profilePath)
	if err != nil {
		return err
	}
	for _, path := range []string{csvPath, xlsxPath} {
		tbl, err := table.Open(path, "", "")
		if err != nil {
			return err
		}
		if err := printStats(tbl, loaded); err != nil {
			return err
		}
	}
	return nil
}

func writeCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	return f.Close()
}

func writeXLSX(path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}
	all := append([][]string{header}, rows...)
	for r, row := range all {
		cell, err := excelize.CoordinatesToCellName(1, r+1)
		if err != nil {
			return err
		}
		values := make([]any, len(row))
		for i, v := range row {
			values[i] = v
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}

func writeProfile(path string) error {
	data, err := yaml.Marshal(&profile)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func printStats(tbl domain.EventTable, p *config.Profile) error {
	fmt.Printf("\n=== %s (%d rows) ===\n", tbl.Name(), tbl.Len())
	for _, s := range p.Series {
		res, err := matcher.New(tbl, s.TimeSeries()).CreateTimeSeriesEvents(p.Request(s))
		if err != nil {
			return err
		}
		ids := make([]string, 0, len(res.Events))
		for _, e := range res.Events {
			ids = append(ids, e.Event.ID)
		}
		fmt.Printf("%s: matched=%d skipped=%d %v\n", s.ID, res.Stats.Matched, res.Stats.Skipped, ids)
		for _, rowErr := range res.Skipped {
			fmt.Printf("  skipped: %v\n", rowErr)
		}
	}
	return nil
}
