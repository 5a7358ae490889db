package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/diagnosis/visitor-portal/internal/domain"
	"github.com/diagnosis/visitor-portal/internal/session"
	"github.com/diagnosis/visitor-portal/internal/visitorlist"
	"github.com/diagnosis/visitor-portal/pkg/events"
	"github.com/diagnosis/visitor-portal/pkg/logger"
	"github.com/diagnosis/visitor-portal/services/portal/internal/remote"
	"github.com/diagnosis/visitor-portal/services/portal/internal/views"
	"github.com/go-chi/chi/v5"
	"github.com/google/go-querystring/query"
	"golang.org/x/sync/errgroup"
)

// Dialogs the dashboard can show over the table.
const (
	dialogAdd     = "add"
	dialogView    = "view"
	dialogSignOut = "signout"
)

var columnLabels = map[visitorlist.SortField]string{
	visitorlist.FieldName:           "Name",
	visitorlist.FieldOrganisation:   "Organisation",
	visitorlist.FieldMobileNumber:   "Mobile",
	visitorlist.FieldPurposeOfVisit: "Purpose",
	visitorlist.FieldDateCreated:    "Date",
	visitorlist.FieldTimeIn:         "Time in",
}

// dashboardQuery is the dashboard state carried in links and forms.
type dashboardQuery struct {
	Sort   string `url:"sort,omitempty"`
	Order  string `url:"order,omitempty"`
	Page   int    `url:"page,omitempty"`
	Dialog string `url:"dialog,omitempty"`
}

func (q dashboardQuery) href(path string) string {
	v, err := query.Values(q)
	if err != nil {
		return path
	}
	if enc := v.Encode(); enc != "" {
		return path + "?" + enc
	}
	return path
}

// readState parses sort and page from the query string or a posted form.
func readState(r *http.Request) (visitorlist.Sort, int) {
	s := visitorlist.ParseSort(r.FormValue("sort"), r.FormValue("order"))
	page, err := strconv.Atoi(r.FormValue("page"))
	if err != nil || page < 1 {
		page = 1
	}
	return s, page
}

type column struct {
	Label  string
	Href   string
	Active bool
	Arrow  string
}

type row struct {
	Number      int
	Visitor     domain.Visitor
	ViewHref    string
	SignOutHref string
}

type pageLink struct {
	Number  int
	Href    string
	Current bool
}

type pager struct {
	Show     bool
	HasPrev  bool
	HasNext  bool
	PrevHref string
	NextHref string
	Links    []pageLink
}

type dashboardData struct {
	Summary   visitorlist.Summary
	Page      visitorlist.Page
	Columns   []column
	Rows      []row
	Pager     pager
	State     dashboardQuery
	ListError string

	AddHref   string
	CloseHref string

	Dialog        string
	DialogError   string
	AddForm       domain.AddVisitorRequest
	Selected      *domain.Visitor
	SignOutAction string
}

// dashboardOptions describes the dialog drawn over the table.
type dashboardOptions struct {
	Dialog      string
	DialogError string
	AddForm     domain.AddVisitorRequest
	Selected    *domain.Visitor
}

func visitorPath(id int64, suffix string) string {
	return "/dashboard/visitors/" + strconv.FormatInt(id, 10) + suffix
}

func buildDashboard(view visitorlist.View, opts dashboardOptions) dashboardData {
	state := dashboardQuery{
		Sort:  string(view.Sort.Field),
		Order: string(view.Sort.Order),
		Page:  view.Page.Number,
	}
	at := func(page int) string {
		q := state
		q.Page = page
		return q.href("/dashboard")
	}

	d := dashboardData{
		Summary:     view.Summary,
		Page:        view.Page,
		State:       state,
		CloseHref:   state.href("/dashboard"),
		Dialog:      opts.Dialog,
		DialogError: opts.DialogError,
		AddForm:     opts.AddForm,
		Selected:    opts.Selected,
	}

	addQ := state
	addQ.Dialog = dialogAdd
	d.AddHref = addQ.href("/dashboard")

	for _, f := range visitorlist.Fields {
		next := view.Sort.Toggle(f)
		c := column{
			Label: columnLabels[f],
			// A new sort always starts on the first page.
			Href:   dashboardQuery{Sort: string(next.Field), Order: string(next.Order)}.href("/dashboard"),
			Active: view.Sort.Field == f,
		}
		if c.Active {
			c.Arrow = "↓"
			if view.Sort.Order == visitorlist.Asc {
				c.Arrow = "↑"
			}
		}
		d.Columns = append(d.Columns, c)
	}

	for i, v := range view.Page.Items {
		d.Rows = append(d.Rows, row{
			Number:      view.Page.From() + i,
			Visitor:     v,
			ViewHref:    state.href(visitorPath(v.VisitorID, "")),
			SignOutHref: state.href(visitorPath(v.VisitorID, "/sign-out")),
		})
	}

	d.Pager = pager{
		Show:    view.Page.TotalPages > 1,
		HasPrev: view.Page.HasPrev(),
		HasNext: view.Page.HasNext(),
	}
	if d.Pager.HasPrev {
		d.Pager.PrevHref = at(view.Page.Number - 1)
	}
	if d.Pager.HasNext {
		d.Pager.NextHref = at(view.Page.Number + 1)
	}
	for _, n := range view.Page.Numbers() {
		d.Pager.Links = append(d.Pager.Links, pageLink{Number: n, Href: at(n), Current: n == view.Page.Number})
	}

	if opts.Dialog == dialogSignOut && opts.Selected != nil {
		d.SignOutAction = visitorPath(opts.Selected.VisitorID, "/sign-out")
	}
	return d
}

// visitorList is the outcome of fetching the full collection. A business
// failure leaves Items empty and sets Message.
type visitorList struct {
	Items   []domain.Visitor
	Message string
}

func fetchVisitors(ctx context.Context, r *http.Request, c *remote.Client) (visitorList, error) {
	env, err := c.ListVisitors(ctx)
	if err != nil {
		return visitorList{}, err
	}
	items, biz := env.Result()
	if biz != nil {
		return visitorList{Message: failure(r, "list_visitors", nil, biz, msgLoadFailed)}, nil
	}
	return visitorList{Items: items}, nil
}

func (h *Handlers) renderDashboard(w http.ResponseWriter, r *http.Request, list visitorList, opts dashboardOptions, extra ...session.Flash) {
	sort, page := readState(r)
	view := visitorlist.Build(list.Items, sort, page, h.now())

	data := buildDashboard(view, opts)
	data.ListError = list.Message
	if list.Message != "" {
		extra = append(extra, errorFlash(list.Message))
	}
	if opts.DialogError != "" {
		extra = append(extra, errorFlash(opts.DialogError))
	}
	h.render(w, r, http.StatusOK, views.Dashboard, "Dashboard", data, extra...)
}

// showDashboard fetches the list and renders it with opts.
func (h *Handlers) showDashboard(w http.ResponseWriter, r *http.Request, opts dashboardOptions) {
	list, err := fetchVisitors(r.Context(), r, h.client(h.current(r)))
	if err != nil {
		failure(r, "list_visitors", err, nil, msgLoadFailed)
		h.renderError(w, r, http.StatusBadGateway, msgLoadFailed, r.URL.RequestURI())
		return
	}
	h.renderDashboard(w, r, list, opts)
}

func (h *Handlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	var opts dashboardOptions
	if r.URL.Query().Get("dialog") == dialogAdd {
		opts = dashboardOptions{Dialog: dialogAdd, AddForm: domain.AddVisitorRequest{SignIn: domain.FlagYes}}
	}
	h.showDashboard(w, r, opts)
}

// backToDashboard redirects to the dashboard keeping the posted sort and
// page, with no dialog open.
func (h *Handlers) backToDashboard(w http.ResponseWriter, r *http.Request, s *session.Session) {
	sort, page := readState(r)
	q := dashboardQuery{Sort: string(sort.Field), Order: string(sort.Order), Page: page}
	h.redirect(w, r, s, q.href("/dashboard"))
}

func (h *Handlers) AddVisitor(w http.ResponseWriter, r *http.Request) {
	req := domain.AddVisitorRequest{
		TagNumber:      strings.TrimSpace(r.PostFormValue("tagNumber")),
		Name:           strings.TrimSpace(r.PostFormValue("name")),
		Organisation:   strings.TrimSpace(r.PostFormValue("organisation")),
		MobileNumber:   strings.TrimSpace(r.PostFormValue("mobileNumber")),
		WhomToSee:      strings.TrimSpace(r.PostFormValue("whomToSee")),
		PurposeOfVisit: strings.TrimSpace(r.PostFormValue("purposeOfVisit")),
		SignIn:         strings.TrimSpace(r.PostFormValue("signIn")),
	}
	if req.SignIn == "" {
		req.SignIn = domain.FlagYes
	}

	fail := func(msg string) {
		h.showDashboard(w, r, dashboardOptions{Dialog: dialogAdd, DialogError: msg, AddForm: req})
	}

	if !req.Complete() {
		fail(msgFillAllFields)
		return
	}

	s := h.current(r)
	env, err := h.client(s).AddVisitor(r.Context(), req)
	if err != nil {
		fail(failure(r, "add_visitor", err, nil, msgAddFailed))
		return
	}
	if _, biz := env.Result(); biz != nil {
		fail(failure(r, "add_visitor", nil, biz, msgAddFailed))
		return
	}

	logger.InfoContext(r.Context(), "Visitor added", "tag_number", req.TagNumber)
	h.publish(r, events.VisitorAdded, events.VisitorAddedEvent{
		TagNumber:      req.TagNumber,
		Name:           req.Name,
		Organisation:   req.Organisation,
		WhomToSee:      req.WhomToSee,
		PurposeOfVisit: req.PurposeOfVisit,
		AddedAt:        h.now().UTC(),
	})
	s.AddFlash(session.FlashSuccess, msgVisitorAdded)
	h.backToDashboard(w, r, s)
}

// visitorID reads the {id} route parameter, answering 404 when it is not a
// number.
func (h *Handlers) visitorID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		h.renderError(w, r, http.StatusNotFound, "Visitor not found", "/dashboard")
		return 0, false
	}
	return id, true
}

func findVisitor(items []domain.Visitor, id int64) *domain.Visitor {
	for i := range items {
		if items[i].VisitorID == id {
			return &items[i]
		}
	}
	return nil
}

// ViewVisitor shows one visitor's details. The record comes from
// GetVisitorByID, fetched alongside the list drawn beneath the dialog.
func (h *Handlers) ViewVisitor(w http.ResponseWriter, r *http.Request) {
	id, ok := h.visitorID(w, r)
	if !ok {
		return
	}
	c := h.client(h.current(r))

	var (
		list   visitorList
		detail *remote.Envelope[*domain.Visitor]
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		list, err = fetchVisitors(ctx, r, c)
		return err
	})
	g.Go(func() error {
		var err error
		detail, err = c.GetVisitor(ctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		failure(r, "view_visitor", err, nil, msgLoadFailed)
		h.renderError(w, r, http.StatusBadGateway, msgLoadFailed, r.URL.RequestURI())
		return
	}

	v, biz := detail.Result()
	if biz != nil || v == nil {
		msg := msgViewFailed
		if biz != nil {
			msg = failure(r, "get_visitor", nil, biz, msgViewFailed)
		}
		h.renderDashboard(w, r, list, dashboardOptions{}, errorFlash(msg))
		return
	}
	h.renderDashboard(w, r, list, dashboardOptions{Dialog: dialogView, Selected: v})
}

func (h *Handlers) SignOutConfirm(w http.ResponseWriter, r *http.Request) {
	id, ok := h.visitorID(w, r)
	if !ok {
		return
	}
	list, err := fetchVisitors(r.Context(), r, h.client(h.current(r)))
	if err != nil {
		failure(r, "list_visitors", err, nil, msgLoadFailed)
		h.renderError(w, r, http.StatusBadGateway, msgLoadFailed, r.URL.RequestURI())
		return
	}
	h.renderDashboard(w, r, list, dashboardOptions{Dialog: dialogSignOut, Selected: signOutTarget(list.Items, id)})
}

// signOutTarget is the visitor named in the confirm dialog. When the record
// is not in the list the dialog still needs its id.
func signOutTarget(items []domain.Visitor, id int64) *domain.Visitor {
	if v := findVisitor(items, id); v != nil {
		return v
	}
	return &domain.Visitor{VisitorID: id}
}

// SignOutVisitor records the visitor's departure. On success the dialog
// closes and the list is fetched again; on failure the dialog stays open
// with the service's message.
func (h *Handlers) SignOutVisitor(w http.ResponseWriter, r *http.Request) {
	id, ok := h.visitorID(w, r)
	if !ok {
		return
	}
	s := h.current(r)
	c := h.client(s)

	fail := func(msg string) {
		list, err := fetchVisitors(r.Context(), r, c)
		if err != nil {
			failure(r, "list_visitors", err, nil, msgLoadFailed)
			h.renderError(w, r, http.StatusBadGateway, msgLoadFailed, "/dashboard")
			return
		}
		h.renderDashboard(w, r, list, dashboardOptions{
			Dialog:      dialogSignOut,
			DialogError: msg,
			Selected:    signOutTarget(list.Items, id),
		})
	}

	env, err := c.SignOutVisitor(r.Context(), id, domain.FlagYes)
	if err != nil {
		fail(failure(r, "sign_out_visitor", err, nil, msgSignOutFailed))
		return
	}
	if _, biz := env.Result(); biz != nil {
		fail(failure(r, "sign_out_visitor", nil, biz, msgSignOutFailed))
		return
	}

	logger.InfoContext(r.Context(), "Visitor signed out", "visitor_id", id)
	h.publish(r, events.VisitorSignedOut, events.VisitorSignedOutEvent{VisitorID: id, SignedOutAt: h.now().UTC()})
	s.AddFlash(session.FlashSuccess, msgVisitorSignedOut)
	h.backToDashboard(w, r, s)
}
