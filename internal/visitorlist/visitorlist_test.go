package visitorlist

import (
	"fmt"
	"testing"
	"time"

	"github.com/diagnosis/visitor-portal/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() []domain.Visitor {
	return []domain.Visitor{
		{VisitorID: 1, Name: "Chidi", Organisation: "Acme", MobileNumber: "0803", PurposeOfVisit: "Interview", DateCreated: "2026-10-14T08:00:00", TimeIn: "08:00"},
		{VisitorID: 2, Name: "Ada", Organisation: "Zenith", MobileNumber: "0801", PurposeOfVisit: "Business Meeting", DateCreated: "2026-10-15T09:30:00", TimeIn: "09:30"},
		{VisitorID: 3, Name: "Emeka", Organisation: "Acme", MobileNumber: "0809", PurposeOfVisit: "Delivery", DateCreated: "2026-10-15T07:15:00", TimeIn: "07:15"},
		{VisitorID: 4, Name: "Bola", Organisation: "Bolt", MobileNumber: "0802", PurposeOfVisit: "business meeting", DateCreated: "2026-10-13T12:00:00", TimeIn: "12:00"},
		{VisitorID: 5, Name: "Dayo", Organisation: "Cowry", MobileNumber: "0805", PurposeOfVisit: "Interview", DateCreated: "2026-10-15T11:45:00", TimeIn: "11:45"},
	}
}

func ids(vs []domain.Visitor) []int64 {
	out := make([]int64, len(vs))
	for i, v := range vs {
		out[i] = v.VisitorID
	}
	return out
}

func makeVisitors(n int) []domain.Visitor {
	vs := make([]domain.Visitor, n)
	for i := range vs {
		vs[i] = domain.Visitor{VisitorID: int64(i + 1), Name: fmt.Sprintf("v%03d", i)}
	}
	return vs
}

func TestSortVisitors_ByField(t *testing.T) {
	tests := []struct {
		sort Sort
		want []int64
	}{
		{Sort{FieldName, Asc}, []int64{2, 4, 1, 5, 3}},
		{Sort{FieldName, Desc}, []int64{3, 5, 1, 4, 2}},
		{Sort{FieldMobileNumber, Asc}, []int64{2, 4, 1, 5, 3}},
		{Sort{FieldDateCreated, Desc}, []int64{5, 2, 3, 1, 4}},
		{Sort{FieldTimeIn, Asc}, []int64{3, 1, 2, 5, 4}},
		{Sort{FieldPurposeOfVisit, Asc}, []int64{2, 3, 1, 5, 4}},
	}
	for _, tc := range tests {
		t.Run(fmt.Sprintf("%s_%s", tc.sort.Field, tc.sort.Order), func(t *testing.T) {
			assert.Equal(t, tc.want, ids(SortVisitors(sample(), tc.sort)))
		})
	}
}

func TestSortVisitors_TiesKeepFetchOrder(t *testing.T) {
	// 1 and 3 share "Acme".
	asc := ids(SortVisitors(sample(), Sort{FieldOrganisation, Asc}))
	desc := ids(SortVisitors(sample(), Sort{FieldOrganisation, Desc}))

	assert.Equal(t, []int64{1, 3, 4, 5, 2}, asc)
	assert.Equal(t, []int64{2, 5, 4, 1, 3}, desc)
}

func TestSortVisitors_FlippedOrderReverses(t *testing.T) {
	vs := sample()
	for _, f := range []SortField{FieldName, FieldMobileNumber, FieldDateCreated, FieldTimeIn} {
		asc := ids(SortVisitors(vs, Sort{f, Asc}))
		desc := ids(SortVisitors(vs, Sort{f, Desc}))
		for i := range asc {
			assert.Equal(t, asc[i], desc[len(desc)-1-i], "field %s", f)
		}
	}
}

func TestSortVisitors_DoesNotMutateInput(t *testing.T) {
	vs := sample()
	_ = SortVisitors(vs, Sort{FieldName, Asc})
	assert.Equal(t, []int64{1, 2, 3, 4, 5}, ids(vs))
}

func TestToggle(t *testing.T) {
	s := DefaultSort

	s = s.Toggle(FieldName)
	assert.Equal(t, Sort{FieldName, Asc}, s)

	s = s.Toggle(FieldName)
	assert.Equal(t, Sort{FieldName, Desc}, s)

	s = s.Toggle(FieldName)
	assert.Equal(t, Sort{FieldName, Asc}, s)

	s = s.Toggle(FieldTimeIn)
	assert.Equal(t, Sort{FieldTimeIn, Asc}, s)
}

func TestParseSort(t *testing.T) {
	assert.Equal(t, Sort{FieldName, Desc}, ParseSort("name", "desc"))
	assert.Equal(t, Sort{FieldName, Asc}, ParseSort("name", ""))
	assert.Equal(t, DefaultSort, ParseSort("createdByUserId", "asc"))
	assert.Equal(t, DefaultSort, ParseSort("", ""))
}

func TestPaginate_PageCounts(t *testing.T) {
	for _, n := range []int{0, 1, 4, 5, 6, 10, 11, 23} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			vs := makeVisitors(n)
			first := Paginate(vs, 1)

			wantPages := (n + 4) / 5
			assert.Equal(t, wantPages, first.TotalPages)
			assert.Equal(t, n, first.TotalItems)
			if n == 0 {
				assert.Empty(t, first.Items)
				assert.Equal(t, 0, first.From())
				return
			}
			assert.Equal(t, int64(1), first.Items[0].VisitorID)

			last := Paginate(vs, wantPages)
			wantLast := n % 5
			if wantLast == 0 {
				wantLast = 5
			}
			assert.Len(t, last.Items, wantLast)
			assert.False(t, last.HasNext())
			assert.Equal(t, n, last.To())
		})
	}
}

func TestPaginate_ClampsOutOfRange(t *testing.T) {
	vs := makeVisitors(12)

	p := Paginate(vs, 9)
	assert.Equal(t, 3, p.Number)
	assert.Len(t, p.Items, 2)

	p = Paginate(vs, -1)
	assert.Equal(t, 1, p.Number)
	assert.False(t, p.HasPrev())
	assert.True(t, p.HasNext())
}

func TestPaginate_Range(t *testing.T) {
	p := Paginate(makeVisitors(12), 2)
	assert.Equal(t, 6, p.From())
	assert.Equal(t, 10, p.To())
	assert.True(t, p.HasPrev())
	assert.True(t, p.HasNext())
	assert.Equal(t, []int{1, 2, 3}, p.Numbers())
}

func TestSummarize(t *testing.T) {
	now := time.Date(2026, 10, 15, 18, 0, 0, 0, time.UTC)

	s := Summarize(sample(), now)

	assert.Equal(t, Summary{Total: 5, Today: 3, BusinessMeetings: 1, Interviews: 2}, s)
}

func TestSummarize_TodayUsesUTCDate(t *testing.T) {
	// 00:30 in Lagos on the 16th is still the 15th in UTC.
	lagos := time.FixedZone("WAT", 3600)
	now := time.Date(2026, 10, 16, 0, 30, 0, 0, lagos)

	s := Summarize(sample(), now)
	assert.Equal(t, 3, s.Today)
}

func TestSummarize_ExactPurposeMatch(t *testing.T) {
	vs := []domain.Visitor{
		{PurposeOfVisit: "Interview "},
		{PurposeOfVisit: "interview"},
		{PurposeOfVisit: "Business meeting"},
	}
	s := Summarize(vs, time.Now())
	assert.Zero(t, s.Interviews)
	assert.Zero(t, s.BusinessMeetings)
	assert.Equal(t, 3, s.Total)
}

func TestBuild_SummaryIgnoresPagination(t *testing.T) {
	vs := makeVisitors(7)
	vs[6].PurposeOfVisit = domain.PurposeInterview

	v := Build(vs, Sort{FieldName, Asc}, 1, time.Now())

	require.Len(t, v.Page.Items, 5)
	assert.Equal(t, 7, v.Summary.Total)
	assert.Equal(t, 1, v.Summary.Interviews)
	assert.Equal(t, Sort{FieldName, Asc}, v.Sort)
}
