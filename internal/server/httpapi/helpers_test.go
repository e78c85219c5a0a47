package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/uptimekeeper/internal/common"
	"github.com/dmitrijs2005/uptimekeeper/internal/logging"
	"github.com/dmitrijs2005/uptimekeeper/internal/server/config"
	"github.com/dmitrijs2005/uptimekeeper/internal/server/models"
	"github.com/dmitrijs2005/uptimekeeper/internal/server/repositories/documents"
	"github.com/dmitrijs2005/uptimekeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/uptimekeeper/internal/server/services"
)

const (
	testPhone    = "5551234567"
	otherPhone   = "5559876543"
	testPassword = "secret1"
)

// env is a dispatcher wired to real services over an in-memory store.
type env struct {
	store      *documents.MemoryStore
	rm         *repomanager.StoreRepositoryManager
	dispatcher *Dispatcher
}

func newEnv(t *testing.T) *env {
	t.Helper()
	mem := documents.NewMemoryStore()
	return newEnvWithStore(t, mem, mem)
}

// newEnvWithStore serves from store; mem is the memory store underneath it.
func newEnvWithStore(t *testing.T, store documents.Store, mem *documents.MemoryStore) *env {
	t.Helper()

	cfg := &config.Config{}
	cfg.LoadDefaults()

	rm := repomanager.NewStoreRepositoryManager(store)
	log := logging.NopLogger{}

	h := NewHandlers(
		services.NewTokenService(rm, cfg),
		services.NewUserService(rm, cfg, log),
		services.NewCheckService(rm, cfg),
		log,
	)
	return &env{
		store:      mem,
		rm:         rm,
		dispatcher: NewDispatcher(NewRouter(h.Routes(), nil), cfg.MaxBodyBytes, log, nil),
	}
}

// faultyStore fails one operation on one collection with err.
type faultyStore struct {
	*documents.MemoryStore
	op         documents.Op
	collection string
	err        error
}

func newFaultyEnv(t *testing.T, op documents.Op, collection string) (*env, *faultyStore) {
	t.Helper()
	mem := documents.NewMemoryStore()
	fs := &faultyStore{MemoryStore: mem, op: op, collection: collection}
	return newEnvWithStore(t, fs, mem), fs
}

func (s *faultyStore) fails(op documents.Op, collection string) error {
	if s.err != nil && s.op == op && s.collection == collection {
		return s.err
	}
	return nil
}

func (s *faultyStore) Read(ctx context.Context, collection, key string, out any) error {
	if err := s.fails(documents.OpRead, collection); err != nil {
		return err
	}
	return s.MemoryStore.Read(ctx, collection, key, out)
}

func (s *faultyStore) Update(ctx context.Context, collection, key string, doc any) error {
	if err := s.fails(documents.OpUpdate, collection); err != nil {
		return err
	}
	return s.MemoryStore.Update(ctx, collection, key, doc)
}

func (s *faultyStore) Delete(ctx context.Context, collection, key string) error {
	if err := s.fails(documents.OpDelete, collection); err != nil {
		return err
	}
	return s.MemoryStore.Delete(ctx, collection, key)
}

type result struct {
	status int
	header http.Header
	body   map[string]any
}

func (r result) errorMessage() string {
	s, _ := r.body["Error"].(string)
	return s
}

// do sends one request. body may be nil, a string sent verbatim, or any
// value encoded as JSON.
func (e *env) do(t *testing.T, method, target string, body any, token string) result {
	t.Helper()

	var raw []byte
	switch b := body.(type) {
	case nil:
	case string:
		raw = []byte(b)
	default:
		var err error
		raw, err = json.Marshal(b)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(method, target, bytes.NewReader(raw))
	if token != "" {
		req.Header.Set(common.TokenHeaderName, token)
	}
	rec := httptest.NewRecorder()
	e.dispatcher.ServeHTTP(rec, req)

	res := result{status: rec.Code, header: rec.Header()}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res.body), "body: %s", rec.Body.String())
	return res
}

func userBody(phone string) map[string]any {
	return map[string]any{
		"firstName":    "Ann",
		"lastName":     "Lee",
		"phone":        phone,
		"password":     testPassword,
		"tosAgreement": true,
	}
}

func checkBody() map[string]any {
	return map[string]any{
		"protocol":       "https",
		"url":            "example.com",
		"method":         "get",
		"successCodes":   []int{200, 201},
		"timeoutSeconds": 3,
	}
}

// signUp creates a user and returns a fresh token id for them.
func (e *env) signUp(t *testing.T, phone string) string {
	t.Helper()
	res := e.do(t, http.MethodPost, "/api/users", userBody(phone), "")
	require.Equal(t, http.StatusOK, res.status, res.body)

	res = e.do(t, http.MethodPost, "/api/tokens", map[string]any{"phone": phone, "password": testPassword}, "")
	require.Equal(t, http.StatusOK, res.status, res.body)
	id, _ := res.body["id"].(string)
	require.Len(t, id, models.TokenIDLength)
	return id
}

func (e *env) newCheck(t *testing.T, token string) string {
	t.Helper()
	res := e.do(t, http.MethodPost, "/api/checks", checkBody(), token)
	require.Equal(t, http.StatusOK, res.status, res.body)
	id, _ := res.body["id"].(string)
	require.Len(t, id, models.CheckIDLength)
	return id
}

// expire moves a stored token's expiry into the past.
func (e *env) expire(t *testing.T, id string) {
	t.Helper()
	ctx := context.Background()
	tok, err := e.rm.Tokens().Find(ctx, id)
	require.NoError(t, err)
	tok.Expires = 1
	require.NoError(t, e.rm.Tokens().Update(ctx, tok))
}
