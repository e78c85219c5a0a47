package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// errBodyTooLarge is returned by NewRequest when the body exceeds the limit.
var errBodyTooLarge = errors.New("request body too large")

var emptyObject = json.RawMessage(`{}`)

// Request is the normalized form handed to every handler.
type Request struct {
	// ID is the request id echoed in the X-Request-Id response header.
	ID string
	// Path is the URL path with leading and trailing slashes trimmed.
	Path string
	// Query holds the first value of each query parameter.
	Query map[string]string
	// Method is lowercase.
	Method string
	// Headers holds the first value of each header, keyed in lowercase.
	Headers map[string]string
	// Body is the raw, fully buffered request body.
	Body []byte
	// Payload is Body when it is a JSON object and {} otherwise.
	Payload json.RawMessage
}

// NewRequest buffers r's body (at most maxBody bytes) and normalizes it.
func NewRequest(r *http.Request, maxBody int64, id string) (*Request, error) {
	body, err := readBody(r, maxBody)
	if err != nil {
		return nil, err
	}

	query := make(map[string]string)
	for k, v := range r.URL.Query() {
		if len(v) > 0 {
			query[k] = v[0]
		}
	}

	headers := make(map[string]string, len(r.Header))
	for k, v := range r.Header {
		if len(v) > 0 {
			headers[strings.ToLower(k)] = v[0]
		}
	}

	return &Request{
		ID:      id,
		Path:    strings.Trim(r.URL.Path, "/"),
		Query:   query,
		Method:  strings.ToLower(r.Method),
		Headers: headers,
		Body:    body,
		Payload: payloadOf(body),
	}, nil
}

func readBody(r *http.Request, limit int64) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	defer r.Body.Close()

	// One extra byte tells "exactly at the limit" apart from "over it".
	b, err := io.ReadAll(io.LimitReader(r.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(b)) > limit {
		return nil, errBodyTooLarge
	}
	return b, nil
}

func payloadOf(body []byte) json.RawMessage {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' || !json.Valid(trimmed) {
		return emptyObject
	}
	return json.RawMessage(trimmed)
}

// Header returns the named header, matched case-insensitively.
func (r *Request) Header(name string) string {
	return r.Headers[strings.ToLower(name)]
}

// QueryParam returns a pointer to the named query value, or nil if absent.
func (r *Request) QueryParam(name string) *string {
	v, ok := r.Query[name]
	if !ok {
		return nil
	}
	return &v
}
