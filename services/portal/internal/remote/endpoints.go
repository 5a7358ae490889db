package remote

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/diagnosis/visitor-portal/internal/domain"
)

const (
	pathLogin         = "/Auth/Login"
	pathSignUp        = "/Auth/SignUp"
	pathConfirmOTP    = "/Auth/ConfirmOTPAndRegister"
	pathListVisitors  = "/Visitor/GetAllVisitors"
	pathGetVisitor    = "/Visitor/GetVisitorByID"
	pathAddVisitor    = "/Visitor/AddVisitor"
	pathSignOutVistor = "/Visitor/SignOutVisitor"
)

// getVisitorParams is the query of GetVisitorByID.
type getVisitorParams struct {
	VisitorID int64 `url:"visitorId"`
}

// signOutParams is the query of SignOutVisitor. The service spells the id
// parameter "vistorId"; it must stay that way on the wire.
type signOutParams struct {
	VisitorID int64  `url:"vistorId"`
	SignOut   string `url:"SignOut"`
}

// Empty is the payload type of endpoints that return no data.
type Empty = json.RawMessage

func (c *Client) Login(ctx context.Context, req domain.LoginRequest) (*Envelope[*domain.LoginResponse], error) {
	return call[*domain.LoginResponse](ctx, c, http.MethodPost, pathLogin, nil, req)
}

func (c *Client) SignUp(ctx context.Context, req domain.SignUpRequest) (*Envelope[Empty], error) {
	return call[Empty](ctx, c, http.MethodPost, pathSignUp, nil, req)
}

func (c *Client) ConfirmOTP(ctx context.Context, req domain.ConfirmOTPRequest) (*Envelope[Empty], error) {
	return call[Empty](ctx, c, http.MethodPost, pathConfirmOTP, nil, req)
}

func (c *Client) ListVisitors(ctx context.Context) (*Envelope[[]domain.Visitor], error) {
	return call[[]domain.Visitor](ctx, c, http.MethodGet, pathListVisitors, nil, nil)
}

func (c *Client) GetVisitor(ctx context.Context, visitorID int64) (*Envelope[*domain.Visitor], error) {
	return call[*domain.Visitor](ctx, c, http.MethodGet, pathGetVisitor, getVisitorParams{VisitorID: visitorID}, nil)
}

func (c *Client) AddVisitor(ctx context.Context, req domain.AddVisitorRequest) (*Envelope[Empty], error) {
	return call[Empty](ctx, c, http.MethodPost, pathAddVisitor, nil, req)
}

// SignOutVisitor marks a visitor as departed. The parameters travel in the
// query string; the request has no body.
func (c *Client) SignOutVisitor(ctx context.Context, visitorID int64, signOut string) (*Envelope[Empty], error) {
	return call[Empty](ctx, c, http.MethodPost, pathSignOutVistor, signOutParams{VisitorID: visitorID, SignOut: signOut}, nil)
}
