package handlers

import (
	"net/http"
	"strconv"

	"github.com/diagnosis/visitor-portal/internal/http/response"
	"github.com/diagnosis/visitor-portal/internal/visitorlist"
	"github.com/go-chi/chi/v5"
)

// ListVisitorsJSON serves the dashboard view (sorted page plus summary) for
// script clients. It takes the same sort, order and page parameters.
func (h *Handlers) ListVisitorsJSON(w http.ResponseWriter, r *http.Request) {
	s := h.current(r)
	if !s.Authenticated() {
		response.Unauthorized(w, "login required")
		return
	}

	env, err := h.client(s).ListVisitors(r.Context())
	if err != nil {
		failure(r, "list_visitors", err, nil, msgLoadFailed)
		response.BadGateway(w, msgLoadFailed)
		return
	}
	items, biz := env.Result()
	if biz != nil {
		response.Rejected(w, failure(r, "list_visitors", nil, biz, msgLoadFailed), biz.Code)
		return
	}

	sort, page := readState(r)
	response.WriteJSON(w, http.StatusOK, visitorlist.Build(items, sort, page, h.now()))
}

func (h *Handlers) GetVisitorJSON(w http.ResponseWriter, r *http.Request) {
	s := h.current(r)
	if !s.Authenticated() {
		response.Unauthorized(w, "login required")
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(w, "invalid visitor id")
		return
	}

	env, err := h.client(s).GetVisitor(r.Context(), id)
	if err != nil {
		failure(r, "get_visitor", err, nil, msgViewFailed)
		response.BadGateway(w, msgViewFailed)
		return
	}
	v, biz := env.Result()
	if biz != nil {
		response.Rejected(w, failure(r, "get_visitor", nil, biz, msgViewFailed), biz.Code)
		return
	}
	if v == nil {
		response.NotFound(w, "visitor not found")
		return
	}
	response.WriteJSON(w, http.StatusOK, v)
}
