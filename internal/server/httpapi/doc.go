// Package httpapi is the HTTP surface of the server.
//
// A Dispatcher turns each *http.Request into a normalized Request, picks a
// HandlerFunc from an immutable Router by exact path match, and writes the
// single Response the handler returns. Handlers for the users, tokens and
// checks resources decode their input into typed request structs, gate
// access through the token service and map service errors onto status codes.
package httpapi
