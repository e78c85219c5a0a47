package httpapi

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/uptimekeeper/internal/server/repositories/documents"
	"github.com/dmitrijs2005/uptimekeeper/internal/server/services"
)

func TestTokensPost(t *testing.T) {
	e := newEnv(t)
	require.Equal(t, http.StatusOK, e.do(t, http.MethodPost, "/api/users", userBody(testPhone), "").status)

	before := time.Now()
	res := e.do(t, http.MethodPost, "/api/tokens", map[string]any{"phone": testPhone, "password": testPassword}, "")
	require.Equal(t, http.StatusOK, res.status)
	assert.Equal(t, testPhone, res.body["phone"])
	assert.Len(t, res.body["id"], 20)

	expires, ok := res.body["expires"].(float64)
	require.True(t, ok)
	assert.InDelta(t, float64(before.Add(services.TokenValidity).UnixMilli()), expires, float64(time.Minute.Milliseconds()))

	res = e.do(t, http.MethodPost, "/api/tokens", map[string]any{"phone": testPhone, "password": "wrong"}, "")
	assert.Equal(t, http.StatusBadRequest, res.status)

	res = e.do(t, http.MethodPost, "/api/tokens", map[string]any{"phone": otherPhone, "password": testPassword}, "")
	assert.Equal(t, http.StatusBadRequest, res.status)

	res = e.do(t, http.MethodPost, "/api/tokens", map[string]any{"phone": testPhone}, "")
	assert.Equal(t, "missing or invalid field: password", res.errorMessage())

	assert.Equal(t, 1, e.store.Len(documents.CollectionTokens))
}

func TestTokensGet(t *testing.T) {
	e := newEnv(t)
	token := e.signUp(t, testPhone)

	res := e.do(t, http.MethodGet, "/api/tokens?id="+token, nil, "")
	require.Equal(t, http.StatusOK, res.status)
	assert.Equal(t, token, res.body["id"])
	assert.Equal(t, testPhone, res.body["phone"])

	res = e.do(t, http.MethodGet, "/api/tokens?id=short", nil, "")
	assert.Equal(t, http.StatusBadRequest, res.status)
	assert.Equal(t, "missing or invalid field: id", res.errorMessage())

	res = e.do(t, http.MethodGet, "/api/tokens?id=aaaaaaaaaaaaaaaaaaaa", nil, "")
	assert.Equal(t, http.StatusNotFound, res.status)
	assert.Empty(t, res.body)

	// Expired tokens are still readable.
	e.expire(t, token)
	res = e.do(t, http.MethodGet, "/api/tokens?id="+token, nil, "")
	assert.Equal(t, http.StatusOK, res.status)
}

func TestTokensPut(t *testing.T) {
	e := newEnv(t)
	token := e.signUp(t, testPhone)
	ctx := context.Background()

	res := e.do(t, http.MethodPut, "/api/tokens", map[string]any{"id": token, "extend": false}, "")
	assert.Equal(t, http.StatusBadRequest, res.status)
	assert.Equal(t, "missing or invalid field: extend", res.errorMessage())

	res = e.do(t, http.MethodPut, "/api/tokens", map[string]any{"id": "bbbbbbbbbbbbbbbbbbbb", "extend": true}, "")
	assert.Equal(t, http.StatusBadRequest, res.status)
	assert.Equal(t, "specified token does not exist", res.errorMessage())

	old, err := e.rm.Tokens().Find(ctx, token)
	require.NoError(t, err)
	old.Expires = time.Now().Add(time.Minute).UnixMilli()
	require.NoError(t, e.rm.Tokens().Update(ctx, old))

	res = e.do(t, http.MethodPut, "/api/tokens", map[string]any{"id": token, "extend": true}, "")
	require.Equal(t, http.StatusOK, res.status)
	assert.Empty(t, res.body)

	renewed, err := e.rm.Tokens().Find(ctx, token)
	require.NoError(t, err)
	assert.Greater(t, renewed.Expires, old.Expires)

	e.expire(t, token)
	res = e.do(t, http.MethodPut, "/api/tokens", map[string]any{"id": token, "extend": true}, "")
	assert.Equal(t, http.StatusBadRequest, res.status)
	assert.Equal(t, "the token has expired, and cannot be extended", res.errorMessage())
}

func TestTokensDelete(t *testing.T) {
	e := newEnv(t)
	token := e.signUp(t, testPhone)

	res := e.do(t, http.MethodDelete, "/api/tokens?id="+token, nil, "")
	require.Equal(t, http.StatusOK, res.status)
	assert.Equal(t, 0, e.store.Len(documents.CollectionTokens))

	for i := 0; i < 2; i++ {
		res = e.do(t, http.MethodDelete, "/api/tokens?id="+token, nil, "")
		assert.Equal(t, http.StatusBadRequest, res.status)
		assert.Equal(t, "could not find the specified token", res.errorMessage())
	}
}

func TestTokens_StorageError(t *testing.T) {
	e, fs := newFaultyEnv(t, documents.OpUpdate, documents.CollectionTokens)
	token := e.signUp(t, testPhone)
	fs.err = errors.New("read-only file system")

	res := e.do(t, http.MethodPut, "/api/tokens", map[string]any{"id": token, "extend": true}, "")
	assert.Equal(t, http.StatusInternalServerError, res.status)
	assert.Equal(t, "could not update the token's expiration", res.errorMessage())
}
