package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/uptimekeeper/internal/common"
)

type createTokenRequest struct {
	Phone    *string `json:"phone"`
	Password *string `json:"password"`
}

type extendTokenRequest struct {
	ID     *string `json:"id"`
	Extend *bool   `json:"extend"`
}

// Tokens serves api/tokens.
func (h *Handlers) Tokens(ctx context.Context, req *Request) Response {
	return methodSet{
		"post":   h.createToken,
		"get":    h.getToken,
		"put":    h.extendToken,
		"delete": h.deleteToken,
	}.serve(ctx, req)
}

func (h *Handlers) createToken(ctx context.Context, req *Request) Response {
	var body createTokenRequest
	if err := decodePayload(req, &body); err != nil {
		return badRequest(err)
	}
	phone, err := requiredPhone(body.Phone)
	if err != nil {
		return badRequest(err)
	}
	password, err := requiredString("password", body.Password)
	if err != nil {
		return badRequest(err)
	}

	token, err := h.tokens.Issue(ctx, phone, password)
	if err != nil {
		if errors.Is(err, common.ErrorInvalidCredentials) {
			return jsonErr(http.StatusBadRequest, "could not find the specified user or the password did not match")
		}
		return h.internal(ctx, req, "could not create the new token", err)
	}
	return jsonResp(http.StatusOK, token)
}

func (h *Handlers) getToken(ctx context.Context, req *Request) Response {
	id, err := requiredTokenID(req.QueryParam("id"))
	if err != nil {
		return badRequest(err)
	}

	token, err := h.tokens.Get(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return jsonResp(http.StatusNotFound, nil)
		}
		return h.internal(ctx, req, "could not read the token", err)
	}
	return jsonResp(http.StatusOK, token)
}

func (h *Handlers) extendToken(ctx context.Context, req *Request) Response {
	var body extendTokenRequest
	if err := decodePayload(req, &body); err != nil {
		return badRequest(err)
	}
	id, err := requiredTokenID(body.ID)
	if err != nil {
		return badRequest(err)
	}
	if body.Extend == nil || !*body.Extend {
		return badRequest(fieldErr("extend"))
	}

	if _, err := h.tokens.Renew(ctx, id); err != nil {
		switch {
		case isNotFound(err):
			return jsonErr(http.StatusBadRequest, "specified token does not exist")
		case errors.Is(err, common.ErrTokenExpired):
			return jsonErr(http.StatusBadRequest, "the token has expired, and cannot be extended")
		default:
			return h.internal(ctx, req, "could not update the token's expiration", err)
		}
	}
	return jsonResp(http.StatusOK, nil)
}

func (h *Handlers) deleteToken(ctx context.Context, req *Request) Response {
	id, err := requiredTokenID(req.QueryParam("id"))
	if err != nil {
		return badRequest(err)
	}

	if err := h.tokens.Revoke(ctx, id); err != nil {
		if isNotFound(err) {
			return jsonErr(http.StatusBadRequest, "could not find the specified token")
		}
		return h.internal(ctx, req, "could not delete the specified token", err)
	}
	return jsonResp(http.StatusOK, nil)
}
