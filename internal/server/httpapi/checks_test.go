package httpapi

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/uptimekeeper/internal/server/repositories/documents"
)

func TestChecksPost_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(b map[string]any)
		field  string
	}{
		{"bad protocol", func(b map[string]any) { b["protocol"] = "ftp" }, "protocol"},
		{"missing url", func(b map[string]any) { delete(b, "url") }, "url"},
		{"bad method", func(b map[string]any) { b["method"] = "patch" }, "method"},
		{"empty codes", func(b map[string]any) { b["successCodes"] = []int{} }, "successCodes"},
		{"codes not ints", func(b map[string]any) { b["successCodes"] = []string{"200"} }, "successCodes"},
		{"codes not array", func(b map[string]any) { b["successCodes"] = 200 }, "successCodes"},
		{"timeout zero", func(b map[string]any) { b["timeoutSeconds"] = 0 }, "timeoutSeconds"},
		{"timeout too big", func(b map[string]any) { b["timeoutSeconds"] = 6 }, "timeoutSeconds"},
		{"timeout fractional", func(b map[string]any) { b["timeoutSeconds"] = 2.5 }, "timeoutSeconds"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t)
			token := e.signUp(t, testPhone)
			b := checkBody()
			tt.mutate(b)

			res := e.do(t, http.MethodPost, "/api/checks", b, token)
			assert.Equal(t, http.StatusBadRequest, res.status)
			assert.Equal(t, "missing or invalid field: "+tt.field, res.errorMessage())
			assert.Equal(t, 0, e.store.Len(documents.CollectionChecks))
		})
	}
}

func TestChecksPost(t *testing.T) {
	e := newEnv(t)
	token := e.signUp(t, testPhone)

	res := e.do(t, http.MethodPost, "/api/checks", checkBody(), "")
	assert.Equal(t, http.StatusForbidden, res.status)

	res = e.do(t, http.MethodPost, "/api/checks", checkBody(), token)
	require.Equal(t, http.StatusOK, res.status)
	assert.Equal(t, testPhone, res.body["userPhone"])
	assert.Equal(t, "https", res.body["protocol"])
	assert.Equal(t, []any{200.0, 201.0}, res.body["successCodes"])

	u, err := e.rm.Users().Get(context.Background(), testPhone)
	require.NoError(t, err)
	assert.Equal(t, []string{res.body["id"].(string)}, u.Checks)

	e.expire(t, token)
	res = e.do(t, http.MethodPost, "/api/checks", checkBody(), token)
	assert.Equal(t, http.StatusForbidden, res.status)
}

func TestChecksPost_Limit(t *testing.T) {
	e := newEnv(t)
	token := e.signUp(t, testPhone)
	for i := 0; i < 5; i++ {
		e.newCheck(t, token)
	}

	res := e.do(t, http.MethodPost, "/api/checks", checkBody(), token)
	assert.Equal(t, http.StatusBadRequest, res.status)
	assert.Contains(t, res.errorMessage(), "maximum number of checks")
	assert.Equal(t, 5, e.store.Len(documents.CollectionChecks))
}

func TestChecksPost_OwnerGone(t *testing.T) {
	e := newEnv(t)
	token := e.signUp(t, testPhone)
	require.NoError(t, e.rm.Users().Delete(context.Background(), testPhone))

	res := e.do(t, http.MethodPost, "/api/checks", checkBody(), token)
	assert.Equal(t, http.StatusForbidden, res.status)
}

func TestChecksGet(t *testing.T) {
	e := newEnv(t)
	token := e.signUp(t, testPhone)
	other := e.signUp(t, otherPhone)
	id := e.newCheck(t, token)

	res := e.do(t, http.MethodGet, "/api/checks?id="+id, nil, token)
	require.Equal(t, http.StatusOK, res.status)
	assert.Equal(t, id, res.body["id"])

	res = e.do(t, http.MethodGet, "/api/checks?id="+id, nil, other)
	assert.Equal(t, http.StatusForbidden, res.status)

	res = e.do(t, http.MethodGet, "/api/checks?id=cccccccccccccccccccc", nil, token)
	assert.Equal(t, http.StatusNotFound, res.status)

	res = e.do(t, http.MethodGet, "/api/checks", nil, token)
	assert.Equal(t, http.StatusBadRequest, res.status)
	assert.Equal(t, "missing or invalid field: id", res.errorMessage())
}

func TestChecksPut(t *testing.T) {
	e := newEnv(t)
	token := e.signUp(t, testPhone)
	other := e.signUp(t, otherPhone)
	id := e.newCheck(t, token)

	res := e.do(t, http.MethodPut, "/api/checks", map[string]any{"id": id}, token)
	assert.Equal(t, http.StatusBadRequest, res.status)
	assert.Equal(t, "missing fields to update", res.errorMessage())

	res = e.do(t, http.MethodPut, "/api/checks", map[string]any{"id": id, "timeoutSeconds": 9}, token)
	assert.Equal(t, "missing or invalid field: timeoutSeconds", res.errorMessage())

	res = e.do(t, http.MethodPut, "/api/checks", map[string]any{"id": "dddddddddddddddddddd", "url": "x.org"}, token)
	assert.Equal(t, http.StatusBadRequest, res.status)
	assert.Equal(t, "the specified check id does not exist", res.errorMessage())

	res = e.do(t, http.MethodPut, "/api/checks", map[string]any{"id": id, "url": "x.org"}, other)
	assert.Equal(t, http.StatusForbidden, res.status)

	res = e.do(t, http.MethodPut, "/api/checks", map[string]any{"id": id, "url": " x.org ", "method": "post", "successCodes": []int{204}}, token)
	require.Equal(t, http.StatusOK, res.status)
	assert.Empty(t, res.body)

	c, err := e.rm.Checks().Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "x.org", c.URL)
	assert.Equal(t, "post", c.Method)
	assert.Equal(t, []int{204}, c.SuccessCodes)
	assert.Equal(t, "https", c.Protocol)
	assert.Equal(t, 3, c.TimeoutSeconds)
}

func TestChecksDelete(t *testing.T) {
	e := newEnv(t)
	token := e.signUp(t, testPhone)
	other := e.signUp(t, otherPhone)
	keep := e.newCheck(t, token)
	id := e.newCheck(t, token)

	res := e.do(t, http.MethodDelete, "/api/checks?id="+id, nil, other)
	assert.Equal(t, http.StatusForbidden, res.status)

	res = e.do(t, http.MethodDelete, "/api/checks?id="+id, nil, token)
	require.Equal(t, http.StatusOK, res.status)

	u, err := e.rm.Users().Get(context.Background(), testPhone)
	require.NoError(t, err)
	assert.Equal(t, []string{keep}, u.Checks)

	res = e.do(t, http.MethodDelete, "/api/checks?id="+id, nil, token)
	assert.Equal(t, http.StatusBadRequest, res.status)
}

func TestChecksDelete_OwnerMissing(t *testing.T) {
	e := newEnv(t)
	token := e.signUp(t, testPhone)
	id := e.newCheck(t, token)
	require.NoError(t, e.rm.Users().Delete(context.Background(), testPhone))

	res := e.do(t, http.MethodDelete, "/api/checks?id="+id, nil, token)
	assert.Equal(t, http.StatusInternalServerError, res.status)
	assert.Contains(t, res.errorMessage(), "could not find the user who created the check")
	assert.Equal(t, 0, e.store.Len(documents.CollectionChecks))
}

func TestChecks_StorageError(t *testing.T) {
	e, fs := newFaultyEnv(t, documents.OpUpdate, documents.CollectionChecks)
	token := e.signUp(t, testPhone)
	id := e.newCheck(t, token)
	fs.err = errors.New("quota exceeded")

	res := e.do(t, http.MethodPut, "/api/checks", map[string]any{"id": id, "url": "x.org"}, token)
	assert.Equal(t, http.StatusInternalServerError, res.status)
	assert.Equal(t, "could not update the check", res.errorMessage())
}
