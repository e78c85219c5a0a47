package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/uptimekeeper/internal/common"
	"github.com/dmitrijs2005/uptimekeeper/internal/logging"
	"github.com/dmitrijs2005/uptimekeeper/internal/server/models"
	"github.com/dmitrijs2005/uptimekeeper/internal/server/services"
)

const msgForbidden = "missing required token in header, or token is invalid"

// TokenService is the part of services.TokenService the handlers use.
type TokenService interface {
	Issue(ctx context.Context, phone, password string) (*models.Token, error)
	Verify(ctx context.Context, id, phone string) bool
	Active(ctx context.Context, id string) (*models.Token, error)
	Get(ctx context.Context, id string) (*models.Token, error)
	Renew(ctx context.Context, id string) (*models.Token, error)
	Revoke(ctx context.Context, id string) error
}

// UserService is the part of services.UserService the handlers use.
type UserService interface {
	Create(ctx context.Context, in services.NewUser) error
	Get(ctx context.Context, phone string) (*models.User, error)
	Update(ctx context.Context, phone string, changes services.UserChanges) error
	Delete(ctx context.Context, phone string) error
}

// CheckService is the part of services.CheckService the handlers use.
type CheckService interface {
	Create(ctx context.Context, owner string, spec services.CheckSpec) (*models.Check, error)
	Get(ctx context.Context, id string) (*models.Check, error)
	Update(ctx context.Context, check *models.Check, changes services.CheckChanges) (*models.Check, error)
	Delete(ctx context.Context, check *models.Check) error
}

// Handlers implements the resource endpoints.
type Handlers struct {
	tokens TokenService
	users  UserService
	checks CheckService
	log    logging.Logger
}

func NewHandlers(tokens TokenService, users UserService, checks CheckService, log logging.Logger) *Handlers {
	return &Handlers{
		tokens: tokens,
		users:  users,
		checks: checks,
		log:    log.With("module", "handlers"),
	}
}

// Routes returns the routing table served by the dispatcher.
func (h *Handlers) Routes() map[string]HandlerFunc {
	return map[string]HandlerFunc{
		"ping":       Ping,
		"api/users":  h.Users,
		"api/tokens": h.Tokens,
		"api/checks": h.Checks,
	}
}

// Ping is the liveness probe.
func Ping(context.Context, *Request) Response {
	return jsonResp(http.StatusOK, nil)
}

// methodSet maps lowercase methods to their handler.
type methodSet map[string]HandlerFunc

func (m methodSet) serve(ctx context.Context, req *Request) Response {
	h, ok := m[req.Method]
	if !ok {
		return jsonErr(http.StatusMethodNotAllowed, "method not allowed")
	}
	return h(ctx, req)
}

func badRequest(err error) Response {
	return jsonErr(http.StatusBadRequest, err.Error())
}

func forbidden() Response {
	return jsonErr(http.StatusForbidden, msgForbidden)
}

// internal logs the cause and answers 500 with msg only.
func (h *Handlers) internal(ctx context.Context, req *Request, msg string, err error) Response {
	h.log.Error(ctx, msg, "request_id", req.ID, "path", req.Path, "method", req.Method, "error", err)
	return jsonErr(http.StatusInternalServerError, msg)
}

func isNotFound(err error) bool {
	return errors.Is(err, common.ErrorNotFound)
}

// tokenHeader returns the session token id carried by req.
func tokenHeader(req *Request) string {
	return req.Header(common.TokenHeaderName)
}
