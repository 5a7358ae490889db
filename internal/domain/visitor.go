package domain

// Purposes counted separately on the dashboard. Matching is exact.
const (
	PurposeBusinessMeeting = "Business Meeting"
	PurposeInterview       = "Interview"
)

// FlagYes is the value the visitor service uses for the sign-in and
// sign-out flags.
const FlagYes = "yes"

// Visitor is one visit record as returned by the visitor service. IDs are
// assigned remotely; the portal never creates or edits a Visitor locally.
type Visitor struct {
	VisitorID       int64   `json:"visitorId"`
	DateCreated     string  `json:"dateCreated"`
	TagNumber       string  `json:"tagNumber"`
	Name            string  `json:"name"`
	Organisation    string  `json:"organisation"`
	MobileNumber    string  `json:"mobileNumber"`
	WhomToSee       string  `json:"whomToSee"`
	PurposeOfVisit  string  `json:"purposeOfVisit"`
	TimeIn          string  `json:"timeIn"`
	SignIn          string  `json:"signIn"`
	TimeOut         *string `json:"timeOut"`
	SignOut         *string `json:"signOut"`
	CreatedByUserID int64   `json:"createdByUserId"`
}

// SignedOut reports whether the service has recorded a departure.
func (v Visitor) SignedOut() bool {
	return v.SignOut != nil && *v.SignOut != ""
}

type AddVisitorRequest struct {
	TagNumber      string `json:"tagNumber"`
	Name           string `json:"name"`
	Organisation   string `json:"organisation"`
	MobileNumber   string `json:"mobileNumber"`
	WhomToSee      string `json:"whomToSee"`
	PurposeOfVisit string `json:"purposeOfVisit"`
	SignIn         string `json:"signIn"`
}

// Complete reports whether every text field is filled in.
func (r AddVisitorRequest) Complete() bool {
	for _, f := range []string{r.TagNumber, r.Name, r.Organisation, r.MobileNumber, r.WhomToSee, r.PurposeOfVisit} {
		if f == "" {
			return false
		}
	}
	return true
}
