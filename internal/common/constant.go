package common

// TokenHeaderName is the request header that carries the session token id.
const TokenHeaderName = "token"

// RequestIDHeaderName is set on every response with the id used in logs.
const RequestIDHeaderName = "X-Request-Id"
