package domain

import (
	m "github.com/mouse-blink/quill/internal/model"
)

// Planner decides which extracted functions receive a docstring and where
// each docstring goes. It works purely on records and never touches the
// file buffer, so planning stays cheap enough to run on every file before
// any content is fetched.
type Planner interface {
	Plan(records []m.FunctionRecord, filter m.FilterSpec, policy m.OverwritePolicy, style m.DocstringStyle) []m.Placement
}

type planner struct{}

// NewPlanner creates a new Planner instance.
func NewPlanner() Planner {
	return &planner{}
}

// Plan filters records by function name and pairs each survivor with the
// byte range its docstring will occupy. Undocumented functions get an
// empty insertion anchor; documented ones are skipped or, under the
// overwrite policy, planned as a replacement of the existing docstring.
func (p *planner) Plan(records []m.FunctionRecord, filter m.FilterSpec, policy m.OverwritePolicy, style m.DocstringStyle) []m.Placement {
	placements := make([]m.Placement, 0, len(records))

	for _, record := range records {
		if !selected(record.Name, filter) {
			continue
		}

		if record.HasDocstring {
			if policy != m.PolicyOverwriteExisting || record.DocstringRange == nil {
				continue
			}

			placements = append(placements, m.Placement{
				Record: record,
				Range:  *record.DocstringRange,
				Kind:   m.EditReplace,
			})

			continue
		}

		anchor := record.BodyStartOffset
		if style.Above() {
			anchor = record.StartOffset
		}

		placements = append(placements, m.Placement{
			Record: record,
			Range:  m.Range{Start: anchor, End: anchor},
			Kind:   m.EditInsert,
		})
	}

	return placements
}
