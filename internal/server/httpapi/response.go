package httpapi

import (
	"encoding/json"
	"net/http"
)

// Content type tags understood by the dispatcher.
const (
	ContentJSON    = "json"
	ContentHTML    = "html"
	ContentPlain   = "plain"
	ContentFavicon = "favicon"
	ContentCSS     = "css"
	ContentPNG     = "png"
	ContentJPEG    = "jpeg"
)

var mediaTypes = map[string]string{
	ContentJSON:    "application/json",
	ContentHTML:    "text/html",
	ContentPlain:   "text/plain",
	ContentFavicon: "image/x-icon",
	ContentCSS:     "text/css",
	ContentPNG:     "image/png",
	ContentJPEG:    "image/jpeg",
}

// Response is the single result of a handler. A zero Status means 200 and
// an empty ContentType means json.
type Response struct {
	Status      int
	Payload     any
	ContentType string
}

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error string `json:"Error"`
}

func jsonResp(status int, payload any) Response {
	return Response{Status: status, Payload: payload, ContentType: ContentJSON}
}

func jsonErr(status int, msg string) Response {
	return jsonResp(status, ErrorBody{Error: msg})
}

func (r Response) status() int {
	if r.Status < 100 || r.Status > 599 {
		return http.StatusOK
	}
	return r.Status
}

func (r Response) contentType() string {
	if _, ok := mediaTypes[r.ContentType]; ok {
		return r.ContentType
	}
	return ContentJSON
}

// encode serializes the payload for the response's content type. For text
// types a non-string payload becomes an empty body, for binary types a
// non-[]byte payload does.
func (r Response) encode() (int, string, []byte) {
	status := r.status()
	ct := r.contentType()

	switch ct {
	case ContentHTML, ContentPlain:
		s, _ := r.Payload.(string)
		return status, mediaTypes[ct], []byte(s)

	case ContentFavicon, ContentCSS, ContentPNG, ContentJPEG:
		b, _ := r.Payload.([]byte)
		return status, mediaTypes[ct], b

	default:
		payload := r.Payload
		if payload == nil {
			payload = struct{}{}
		}
		b, err := json.Marshal(payload)
		if err != nil {
			b, _ = json.Marshal(ErrorBody{Error: "could not encode response"})
			status = http.StatusInternalServerError
		}
		return status, mediaTypes[ContentJSON], b
	}
}

func writeResponse(w http.ResponseWriter, resp Response) int {
	status, mediaType, body := resp.encode()
	w.Header().Set("Content-Type", mediaType)
	w.WriteHeader(status)
	_, _ = w.Write(body)
	return status
}
