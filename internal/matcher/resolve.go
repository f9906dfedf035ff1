package matcher

import (
	"errors"

	"github.com/couchcryptid/storm-event-annotator/internal/domain"
)

// ColumnRoleMap names the table column that holds each event role. An empty
// name leaves the role unmapped: string roles extract as "" and temporal
// roles as null.
type ColumnRoleMap struct {
	ID          string `yaml:"id"`
	Type        string `yaml:"type"`
	Start       string `yaml:"start"`
	End         string `yaml:"end"`
	Label       string `yaml:"label"`
	Description string `yaml:"description"`
}

// LocationColumn names the table column holding the identifier of one
// location type for each event row, e.g. {Type: "County", Column: "County"}.
type LocationColumn struct {
	Type   string `yaml:"type"`
	Column string `yaml:"column"`
}

type role int

const (
	roleID role = iota
	roleType
	roleStart
	roleEnd
	roleLabel
	roleDescription
	roleCount
)

var roleNames = [roleCount]string{"id", "type", "start", "end", "label", "description"}

func (r role) String() string { return roleNames[r] }

const unmapped = -1

var errTypeColumnRequired = errors.New("event types requested but no type column mapped")

// resolvedLocation is a location column with its table index.
type resolvedLocation struct {
	locType string
	column  string
	index   int
}

// resolved holds every column index a matching call needs. It is built once,
// before any row is read.
type resolved struct {
	columns   [roleCount]string
	indices   [roleCount]int
	locations []resolvedLocation
}

func (cm ColumnRoleMap) byRole() [roleCount]string {
	return [roleCount]string{cm.ID, cm.Type, cm.Start, cm.End, cm.Label, cm.Description}
}

// resolveColumns maps every configured column name to its index in table.
// The first name the table does not know is returned as a ConfigurationError.
func resolveColumns(table domain.EventTable, req Request) (*resolved, error) {
	r := &resolved{columns: req.Columns.byRole()}

	for i, name := range r.columns {
		if name == "" {
			r.indices[i] = unmapped
			continue
		}
		idx, err := table.ColumnIndex(name)
		if err != nil {
			return nil, configError(table, role(i).String(), name, err)
		}
		r.indices[i] = idx
	}

	if len(req.Types) > 0 && r.indices[roleType] == unmapped {
		return nil, &domain.ConfigurationError{Table: table.Name(), Role: roleType.String(), Err: errTypeColumnRequired}
	}

	r.locations = make([]resolvedLocation, 0, len(req.Locations))
	for _, loc := range req.Locations {
		roleName := "location:" + loc.Type
		if loc.Column == "" {
			return nil, &domain.ConfigurationError{Table: table.Name(), Role: roleName, Err: errors.New("no column named")}
		}
		idx, err := table.ColumnIndex(loc.Column)
		if err != nil {
			return nil, configError(table, roleName, loc.Column, err)
		}
		r.locations = append(r.locations, resolvedLocation{locType: loc.Type, column: loc.Column, index: idx})
	}

	return r, nil
}

func configError(table domain.EventTable, roleName, column string, err error) error {
	return &domain.ConfigurationError{Table: table.Name(), Role: roleName, Column: column, Err: err}
}
