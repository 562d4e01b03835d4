package hdrw

import "peinspect/common"

// Rows converts a decoded schema into printable table rows. Fields whose
// names match none of the given exact names or prefixes are skipped; an
// empty filter keeps everything.
func (s *Schema) Rows(filter []string) []common.FieldRow {
	rows := make([]common.FieldRow, 0, len(s.Fields))
	for i := range s.Fields {
		f := &s.Fields[i]
		if len(filter) > 0 && !common.MatchesPattern(f.Name, filter, filter) {
			continue
		}
		rows = append(rows, common.FieldRow{
			Offset: f.Offset,
			Kind:   f.Kind.String(),
			Name:   f.Name,
			Value:  f.ValueString(),
			Desc:   f.Desc,
		})
	}
	return rows
}
