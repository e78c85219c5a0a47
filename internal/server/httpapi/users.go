package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/uptimekeeper/internal/common"
	"github.com/dmitrijs2005/uptimekeeper/internal/server/models"
	"github.com/dmitrijs2005/uptimekeeper/internal/server/services"
)

type createUserRequest struct {
	FirstName    *string `json:"firstName"`
	LastName     *string `json:"lastName"`
	Phone        *string `json:"phone"`
	Password     *string `json:"password"`
	TOSAgreement *bool   `json:"tosAgreement"`
}

type updateUserRequest struct {
	Phone     *string `json:"phone"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Password  *string `json:"password"`
}

// userView is the public shape of a user: the password hash never leaves.
type userView struct {
	FirstName    string   `json:"firstName"`
	LastName     string   `json:"lastName"`
	Phone        string   `json:"phone"`
	TOSAgreement bool     `json:"tosAgreement"`
	Checks       []string `json:"checks"`
}

func newUserView(u *models.User) userView {
	checks := u.Checks
	if checks == nil {
		checks = []string{}
	}
	return userView{
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Phone:        u.Phone,
		TOSAgreement: u.TOSAgreement,
		Checks:       checks,
	}
}

// Users serves api/users.
func (h *Handlers) Users(ctx context.Context, req *Request) Response {
	return methodSet{
		"post":   h.createUser,
		"get":    h.getUser,
		"put":    h.updateUser,
		"delete": h.deleteUser,
	}.serve(ctx, req)
}

func (r *createUserRequest) validate() (services.NewUser, error) {
	var (
		in  services.NewUser
		err error
	)
	if in.FirstName, err = requiredString("firstName", r.FirstName); err != nil {
		return in, err
	}
	if in.LastName, err = requiredString("lastName", r.LastName); err != nil {
		return in, err
	}
	if in.Phone, err = requiredPhone(r.Phone); err != nil {
		return in, err
	}
	if in.Password, err = requiredString("password", r.Password); err != nil {
		return in, err
	}
	if r.TOSAgreement == nil || !*r.TOSAgreement {
		return in, fieldErr("tosAgreement")
	}
	return in, nil
}

func (h *Handlers) createUser(ctx context.Context, req *Request) Response {
	var body createUserRequest
	if err := decodePayload(req, &body); err != nil {
		return badRequest(err)
	}
	in, err := body.validate()
	if err != nil {
		return badRequest(err)
	}

	if err := h.users.Create(ctx, in); err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return jsonErr(http.StatusBadRequest, "a user with that phone number already exists")
		}
		return h.internal(ctx, req, "could not create the new user", err)
	}
	return jsonResp(http.StatusOK, nil)
}

func (h *Handlers) getUser(ctx context.Context, req *Request) Response {
	phone, err := requiredPhone(req.QueryParam("phone"))
	if err != nil {
		return badRequest(err)
	}
	if !h.tokens.Verify(ctx, tokenHeader(req), phone) {
		return forbidden()
	}

	user, err := h.users.Get(ctx, phone)
	if err != nil {
		if isNotFound(err) {
			return jsonResp(http.StatusNotFound, nil)
		}
		return h.internal(ctx, req, "could not read the user", err)
	}
	return jsonResp(http.StatusOK, newUserView(user))
}

func (r *updateUserRequest) validate() (string, services.UserChanges, error) {
	var changes services.UserChanges

	phone, err := requiredPhone(r.Phone)
	if err != nil {
		return "", changes, err
	}
	if changes.FirstName, err = optionalString("firstName", r.FirstName); err != nil {
		return "", changes, err
	}
	if changes.LastName, err = optionalString("lastName", r.LastName); err != nil {
		return "", changes, err
	}
	if changes.Password, err = optionalString("password", r.Password); err != nil {
		return "", changes, err
	}
	if changes.FirstName == nil && changes.LastName == nil && changes.Password == nil {
		return "", changes, errors.New("missing fields to update")
	}
	return phone, changes, nil
}

func (h *Handlers) updateUser(ctx context.Context, req *Request) Response {
	var body updateUserRequest
	if err := decodePayload(req, &body); err != nil {
		return badRequest(err)
	}
	phone, changes, err := body.validate()
	if err != nil {
		return badRequest(err)
	}
	if !h.tokens.Verify(ctx, tokenHeader(req), phone) {
		return forbidden()
	}

	if err := h.users.Update(ctx, phone, changes); err != nil {
		if isNotFound(err) {
			return jsonErr(http.StatusBadRequest, "the specified user does not exist")
		}
		return h.internal(ctx, req, "could not update the user", err)
	}
	return jsonResp(http.StatusOK, nil)
}

func (h *Handlers) deleteUser(ctx context.Context, req *Request) Response {
	phone, err := requiredPhone(req.QueryParam("phone"))
	if err != nil {
		return badRequest(err)
	}
	if !h.tokens.Verify(ctx, tokenHeader(req), phone) {
		return forbidden()
	}

	if err := h.users.Delete(ctx, phone); err != nil {
		switch {
		case isNotFound(err):
			return jsonErr(http.StatusBadRequest, "could not find the specified user")
		case errors.Is(err, services.ErrCheckCleanup):
			return h.internal(ctx, req, services.ErrCheckCleanup.Error(), err)
		default:
			return h.internal(ctx, req, "could not delete the specified user", err)
		}
	}
	return jsonResp(http.StatusOK, nil)
}
