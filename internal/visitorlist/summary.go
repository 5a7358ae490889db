package visitorlist

import (
	"strings"
	"time"

	"github.com/diagnosis/visitor-portal/internal/domain"
)

// Summary holds the dashboard's cards. Purposes are compared exactly, so
// "business meeting" or "Interview " are not counted.
type Summary struct {
	Total            int `json:"total"`
	Today            int `json:"today"`
	BusinessMeetings int `json:"businessMeetings"`
	Interviews       int `json:"interviews"`
}

// Summarize counts over the whole collection. A visit is "today" when its
// dateCreated starts with now's UTC calendar date in ISO form; no timezone
// conversion is applied to dateCreated.
func Summarize(items []domain.Visitor, now time.Time) Summary {
	today := now.UTC().Format("2006-01-02")

	s := Summary{Total: len(items)}
	for _, v := range items {
		if strings.HasPrefix(v.DateCreated, today) {
			s.Today++
		}
		switch v.PurposeOfVisit {
		case domain.PurposeBusinessMeeting:
			s.BusinessMeetings++
		case domain.PurposeInterview:
			s.Interviews++
		}
	}
	return s
}

// View is everything the dashboard renders from one fetch.
type View struct {
	Sort    Sort    `json:"sort"`
	Page    Page    `json:"page"`
	Summary Summary `json:"summary"`
}

func Build(items []domain.Visitor, s Sort, page int, now time.Time) View {
	return View{
		Sort:    s,
		Page:    Paginate(SortVisitors(items, s), page),
		Summary: Summarize(items, now),
	}
}
