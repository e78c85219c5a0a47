package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/uptimekeeper/internal/common"
	"github.com/dmitrijs2005/uptimekeeper/internal/server/models"
	"github.com/dmitrijs2005/uptimekeeper/internal/server/services"
)

const (
	minTimeoutSeconds = 1
	maxTimeoutSeconds = 5
)

var (
	checkProtocols = []string{"http", "https"}
	checkMethods   = []string{"post", "get", "put", "delete"}
)

type createCheckRequest struct {
	Protocol       *string `json:"protocol"`
	URL            *string `json:"url"`
	Method         *string `json:"method"`
	SuccessCodes   []int   `json:"successCodes"`
	TimeoutSeconds *int    `json:"timeoutSeconds"`
}

type updateCheckRequest struct {
	ID             *string `json:"id"`
	Protocol       *string `json:"protocol"`
	URL            *string `json:"url"`
	Method         *string `json:"method"`
	SuccessCodes   []int   `json:"successCodes"`
	TimeoutSeconds *int    `json:"timeoutSeconds"`
}

// Checks serves api/checks.
func (h *Handlers) Checks(ctx context.Context, req *Request) Response {
	return methodSet{
		"post":   h.createCheck,
		"get":    h.getCheck,
		"put":    h.updateCheck,
		"delete": h.deleteCheck,
	}.serve(ctx, req)
}

func (r *createCheckRequest) validate() (services.CheckSpec, error) {
	var (
		spec services.CheckSpec
		err  error
	)
	if spec.Protocol, err = oneOf("protocol", r.Protocol, checkProtocols...); err != nil {
		return spec, err
	}
	if spec.URL, err = requiredString("url", r.URL); err != nil {
		return spec, err
	}
	if spec.Method, err = oneOf("method", r.Method, checkMethods...); err != nil {
		return spec, err
	}
	if spec.SuccessCodes, err = nonEmptyInts("successCodes", r.SuccessCodes); err != nil {
		return spec, err
	}
	if spec.TimeoutSeconds, err = intInRange("timeoutSeconds", r.TimeoutSeconds, minTimeoutSeconds, maxTimeoutSeconds); err != nil {
		return spec, err
	}
	return spec, nil
}

func (h *Handlers) createCheck(ctx context.Context, req *Request) Response {
	var body createCheckRequest
	if err := decodePayload(req, &body); err != nil {
		return badRequest(err)
	}
	spec, err := body.validate()
	if err != nil {
		return badRequest(err)
	}

	token, err := h.tokens.Active(ctx, tokenHeader(req))
	if err != nil {
		if errors.Is(err, common.ErrorForbidden) {
			return forbidden()
		}
		return h.internal(ctx, req, "could not read the token", err)
	}

	check, err := h.checks.Create(ctx, token.Phone, spec)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorForbidden):
			return forbidden()
		case errors.Is(err, common.ErrorLimitReached):
			return badRequest(err)
		default:
			return h.internal(ctx, req, "could not create the new check", err)
		}
	}
	return jsonResp(http.StatusOK, check)
}

func (h *Handlers) getCheck(ctx context.Context, req *Request) Response {
	id, err := requiredCheckID(req.QueryParam("id"))
	if err != nil {
		return badRequest(err)
	}

	check, err := h.checks.Get(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return jsonResp(http.StatusNotFound, nil)
		}
		return h.internal(ctx, req, "could not read the check", err)
	}
	if !h.tokens.Verify(ctx, tokenHeader(req), check.UserPhone) {
		return forbidden()
	}
	return jsonResp(http.StatusOK, check)
}

func (r *updateCheckRequest) validate() (string, services.CheckChanges, error) {
	var changes services.CheckChanges

	id, err := requiredCheckID(r.ID)
	if err != nil {
		return "", changes, err
	}
	if changes.Protocol, err = optionalOneOf("protocol", r.Protocol, checkProtocols...); err != nil {
		return "", changes, err
	}
	if changes.URL, err = optionalString("url", r.URL); err != nil {
		return "", changes, err
	}
	if changes.Method, err = optionalOneOf("method", r.Method, checkMethods...); err != nil {
		return "", changes, err
	}
	if r.SuccessCodes != nil {
		if changes.SuccessCodes, err = nonEmptyInts("successCodes", r.SuccessCodes); err != nil {
			return "", changes, err
		}
	}
	if r.TimeoutSeconds != nil {
		t, err := intInRange("timeoutSeconds", r.TimeoutSeconds, minTimeoutSeconds, maxTimeoutSeconds)
		if err != nil {
			return "", changes, err
		}
		changes.TimeoutSeconds = &t
	}

	if changes.Protocol == nil && changes.URL == nil && changes.Method == nil &&
		changes.SuccessCodes == nil && changes.TimeoutSeconds == nil {
		return "", changes, errors.New("missing fields to update")
	}
	return id, changes, nil
}

// ownedCheck loads the check named by id and confirms the caller owns it.
// A non-nil Response means the request is already answered.
func (h *Handlers) ownedCheck(ctx context.Context, req *Request, id string) (*models.Check, *Response) {
	check, err := h.checks.Get(ctx, id)
	if err != nil {
		var resp Response
		if isNotFound(err) {
			resp = jsonErr(http.StatusBadRequest, "the specified check id does not exist")
		} else {
			resp = h.internal(ctx, req, "could not read the check", err)
		}
		return nil, &resp
	}
	if !h.tokens.Verify(ctx, tokenHeader(req), check.UserPhone) {
		resp := forbidden()
		return nil, &resp
	}
	return check, nil
}

func (h *Handlers) updateCheck(ctx context.Context, req *Request) Response {
	var body updateCheckRequest
	if err := decodePayload(req, &body); err != nil {
		return badRequest(err)
	}
	id, changes, err := body.validate()
	if err != nil {
		return badRequest(err)
	}

	check, resp := h.ownedCheck(ctx, req, id)
	if resp != nil {
		return *resp
	}

	if _, err := h.checks.Update(ctx, check, changes); err != nil {
		return h.internal(ctx, req, "could not update the check", err)
	}
	return jsonResp(http.StatusOK, nil)
}

func (h *Handlers) deleteCheck(ctx context.Context, req *Request) Response {
	id, err := requiredCheckID(req.QueryParam("id"))
	if err != nil {
		return badRequest(err)
	}

	check, resp := h.ownedCheck(ctx, req, id)
	if resp != nil {
		return *resp
	}

	if err := h.checks.Delete(ctx, check); err != nil {
		if errors.Is(err, services.ErrOwnerMissing) {
			return h.internal(ctx, req, "could not find the user who created the check, so could not remove the check from their list", err)
		}
		return h.internal(ctx, req, "could not delete the check", err)
	}
	return jsonResp(http.StatusOK, nil)
}
