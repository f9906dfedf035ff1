// Command validate dry-runs a matching profile against an event table without
// publishing anything. It checks that every configured column resolves, lists
// the rows whose cells cannot be read, and flags series that can never match.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -table data/mock/events.xlsx -sheet Events \
//	  -profile data/mock/profile.yaml
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/couchcryptid/storm-event-annotator/internal/config"
	"github.com/couchcryptid/storm-event-annotator/internal/domain"
	"github.com/couchcryptid/storm-event-annotator/internal/matcher"
	"github.com/couchcryptid/storm-event-annotator/internal/table"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	tablePath := flag.String("table", "", "path to the event table (csv or xlsx)")
	format := flag.String("format", "", "table format; inferred from the extension when empty")
	sheet := flag.String("sheet", "", "xlsx sheet; defaults to the first sheet")
	profilePath := flag.String("profile", "", "path to the matching profile")
	flag.Parse()

	if *tablePath == "" || *profilePath == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*tablePath, *format, *sheet, *profilePath); code != 0 {
		os.Exit(code)
	}
}

func run(tablePath, format, sheet, profilePath string) int {
	fmt.Println("=== Event Table Validation ===")
	fmt.Println()

	tbl, err := table.Open(tablePath, format, sheet)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load event table: %v\n", err)
		return 1
	}
	profile, err := config.LoadProfile(profilePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load profile: %v\n", err)
		return 1
	}

	results, columns := matchAll(tbl, profile)
	phases := []*phase{columns}
	if columns.passed() {
		phases = append(phases,
			validateRows(results),
			validateCoverage(profile, results),
		)
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Table %s: %d rows, %d columns; %d series\n", tbl.Name(), tbl.Len(), len(tbl.Columns()), len(profile.Series))
	if f := profile.Filter(); f != nil {
		fmt.Printf("Annotation filter: %s\n", f)
	}

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// seriesResult pairs a series with its matching result.
type seriesResult struct {
	series  config.SeriesConfig
	profile domain.LocationProfile
	result  *matcher.Result
}

// matchAll runs every series through the matcher. Column configuration is
// shared by all series, so the first configuration error stops the run.
func matchAll(tbl domain.EventTable, profile *config.Profile) ([]seriesResult, *phase) {
	p := &phase{name: "Column configuration"}
	results := make([]seriesResult, 0, len(profile.Series))
	for _, s := range profile.Series {
		req := profile.Request(s)
		res, err := matcher.New(tbl, s.TimeSeries()).CreateTimeSeriesEvents(req)
		if err != nil {
			var cfgErr *domain.ConfigurationError
			if errors.As(err, &cfgErr) {
				p.errorf("%v (table columns: %v)", cfgErr, tbl.Columns())
			} else {
				p.errorf("series %s: %v", s.ID, err)
			}
			return nil, p
		}
		results = append(results, seriesResult{series: s, profile: req.Profile, result: res})
	}
	return results, p
}

// validateRows reports each unreadable cell once, however many series hit it.
func validateRows(results []seriesResult) *phase {
	p := &phase{name: "Row extraction"}
	seen := map[string]bool{}
	var rowErrs []*domain.RowError
	for _, r := range results {
		for _, rowErr := range r.result.Skipped {
			key := fmt.Sprintf("%d/%s", rowErr.Row, rowErr.Role)
			if seen[key] {
				continue
			}
			seen[key] = true
			rowErrs = append(rowErrs, rowErr)
		}
	}
	sort.Slice(rowErrs, func(i, j int) bool { return rowErrs[i].Row < rowErrs[j].Row })
	for _, rowErr := range rowErrs {
		p.errorf("%v", rowErr)
	}
	return p
}

// validateCoverage flags series whose location profile is empty; such a
// series can never receive an annotation.
func validateCoverage(profile *config.Profile, results []seriesResult) *phase {
	p := &phase{name: "Series coverage"}
	if len(profile.Locations) == 0 {
		p.errorf("no location columns configured; no event can match any series")
		return p
	}
	for _, r := range results {
		if len(r.profile) == 0 {
			p.errorf("series %s has an empty location profile (properties: %v)", r.series.ID, r.series.Properties)
			continue
		}
		fmt.Printf("%-32s matched=%d skipped=%d\n", r.series.ID, r.result.Stats.Matched, r.result.Stats.Skipped)
	}
	return p
}
