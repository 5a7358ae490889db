// Package visitorlist turns the full visitor collection into what the
// dashboard shows: a sorted, paginated slice plus summary counts. All of it
// runs over the complete result set; the visitor service neither sorts nor
// pages.
package visitorlist

import (
	"sort"

	"github.com/diagnosis/visitor-portal/internal/domain"
)

type SortField string

const (
	FieldName           SortField = "name"
	FieldOrganisation   SortField = "organisation"
	FieldMobileNumber   SortField = "mobileNumber"
	FieldPurposeOfVisit SortField = "purposeOfVisit"
	FieldDateCreated    SortField = "dateCreated"
	FieldTimeIn         SortField = "timeIn"
)

// Fields lists the sortable columns in display order.
var Fields = []SortField{
	FieldName,
	FieldOrganisation,
	FieldMobileNumber,
	FieldPurposeOfVisit,
	FieldDateCreated,
	FieldTimeIn,
}

func ParseSortField(s string) (SortField, bool) {
	for _, f := range Fields {
		if string(f) == s {
			return f, true
		}
	}
	return "", false
}

// value returns the field as received from the service. Dates are ISO
// strings, so lexical order is date order.
func (f SortField) value(v domain.Visitor) string {
	switch f {
	case FieldName:
		return v.Name
	case FieldOrganisation:
		return v.Organisation
	case FieldMobileNumber:
		return v.MobileNumber
	case FieldPurposeOfVisit:
		return v.PurposeOfVisit
	case FieldDateCreated:
		return v.DateCreated
	case FieldTimeIn:
		return v.TimeIn
	default:
		return ""
	}
}

type SortOrder string

const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

func ParseSortOrder(s string) (SortOrder, bool) {
	switch SortOrder(s) {
	case Asc, Desc:
		return SortOrder(s), true
	default:
		return "", false
	}
}

type Sort struct {
	Field SortField `json:"field"`
	Order SortOrder `json:"order"`
}

// DefaultSort shows the newest visits first.
var DefaultSort = Sort{Field: FieldDateCreated, Order: Desc}

// ParseSort reads a field and order, falling back to DefaultSort when the
// field is unknown and to ascending when only the order is.
func ParseSort(field, order string) Sort {
	f, ok := ParseSortField(field)
	if !ok {
		return DefaultSort
	}
	o, ok := ParseSortOrder(order)
	if !ok {
		o = Asc
	}
	return Sort{Field: f, Order: o}
}

// Toggle is the sort after the user clicks field's column header: the same
// column flips direction, a different one starts ascending.
func (s Sort) Toggle(field SortField) Sort {
	if s.Field == field {
		if s.Order == Asc {
			return Sort{Field: field, Order: Desc}
		}
		return Sort{Field: field, Order: Asc}
	}
	return Sort{Field: field, Order: Asc}
}

// SortVisitors returns a sorted copy. Equal values keep their fetch order in
// both directions; there is no secondary key.
func SortVisitors(visitors []domain.Visitor, s Sort) []domain.Visitor {
	sorted := make([]domain.Visitor, len(visitors))
	copy(sorted, visitors)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := s.Field.value(sorted[i]), s.Field.value(sorted[j])
		if s.Order == Desc {
			return a > b
		}
		return a < b
	})
	return sorted
}
