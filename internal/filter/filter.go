// Package filter evaluates optional boolean expressions over matched events.
//
// Expressions use the expr language and see these variables:
//
//	id, type, label, description   event strings
//	start, end                     event bounds (zero time when open)
//	open_started, open_ended       true when the bound is null
//	location_type, location        the location entry that matched
//	series                         series ID
//	properties                     series properties
//
// For example: type == "Drought" && label in ["D2", "D3", "D4"].
package filter

import (
	"fmt"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/couchcryptid/storm-event-annotator/internal/domain"
)

// Filter is a compiled annotation filter. A nil *Filter accepts everything.
type Filter struct {
	program *vm.Program
	source  string
}

// typeEnv declares variable types for compile-time checking.
var typeEnv = map[string]any{
	"id":            "",
	"type":          "",
	"label":         "",
	"description":   "",
	"start":         time.Time{},
	"end":           time.Time{},
	"open_started":  false,
	"open_ended":    false,
	"location_type": "",
	"location":      "",
	"series":        "",
	"properties":    map[string]string{},
}

// Compile parses and type-checks expression. An empty expression yields a
// nil Filter.
func Compile(expression string) (*Filter, error) {
	if expression == "" {
		return nil, nil
	}
	program, err := expr.Compile(expression, expr.Env(typeEnv), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile annotation filter: %w", err)
	}
	return &Filter{program: program, source: expression}, nil
}

// String returns the source expression.
func (f *Filter) String() string {
	if f == nil {
		return ""
	}
	return f.source
}

// Match reports whether ev on series passes the filter.
func (f *Filter) Match(series *domain.TimeSeries, ev domain.Event) (bool, error) {
	if f == nil {
		return true, nil
	}

	env := map[string]any{
		"id":            ev.ID,
		"type":          ev.Type,
		"label":         ev.Label,
		"description":   ev.Description,
		"start":         time.Time{},
		"end":           time.Time{},
		"open_started":  ev.Start == nil,
		"open_ended":    ev.End == nil,
		"location_type": ev.MatchedLocationType,
		"location":      ev.MatchedLocationID,
		"series":        "",
		"properties":    map[string]string{},
	}
	if ev.Start != nil {
		env["start"] = *ev.Start
	}
	if ev.End != nil {
		env["end"] = *ev.End
	}
	if series != nil {
		env["series"] = series.ID
		if series.Properties != nil {
			env["properties"] = series.Properties
		}
	}

	out, err := expr.Run(f.program, env)
	if err != nil {
		return false, fmt.Errorf("evaluate annotation filter: %w", err)
	}
	ok, isBool := out.(bool)
	if !isBool {
		return false, fmt.Errorf("evaluate annotation filter: result is %T, not bool", out)
	}
	return ok, nil
}
