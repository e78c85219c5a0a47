package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/uptimekeeper/internal/common"
	"github.com/dmitrijs2005/uptimekeeper/internal/logging"
)

// unmatchedRoute labels requests that fell through to the not-found handler.
const unmatchedRoute = "unmatched"

// Observer receives one observation per served request. *metrics.Metrics
// implements it.
type Observer interface {
	ObserveRequest(route, method string, status int, d time.Duration)
}

// Dispatcher is the http.Handler that drives the request pipeline.
type Dispatcher struct {
	router   *Router
	log      logging.Logger
	observer Observer
	maxBody  int64
	now      func() time.Time
	newID    func() string
}

// NewDispatcher builds a dispatcher over router. observer may be nil.
func NewDispatcher(router *Router, maxBody int64, log logging.Logger, observer Observer) *Dispatcher {
	return &Dispatcher{
		router:   router,
		log:      log.With("module", "http"),
		observer: observer,
		maxBody:  maxBody,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := d.now()
	ctx := r.Context()

	id := d.newID()
	w.Header().Set(common.RequestIDHeaderName, id)

	route := unmatchedRoute
	var resp Response

	req, err := NewRequest(r, d.maxBody, id)
	switch {
	case errors.Is(err, errBodyTooLarge):
		resp = jsonErr(http.StatusBadRequest, errBodyTooLarge.Error())
	case err != nil:
		d.log.Warn(ctx, "could not read request body", "request_id", id, "error", err)
		resp = jsonErr(http.StatusBadRequest, "could not read request body")
	default:
		h, ok := d.router.Lookup(req.Path)
		if ok {
			route = req.Path
		}
		resp = h(ctx, req)
	}

	status := writeResponse(w, resp)
	elapsed := d.now().Sub(start)

	d.log.Info(ctx, "request served",
		"request_id", id,
		"method", r.Method,
		"path", r.URL.Path,
		"status", status,
		"duration", elapsed,
	)
	if d.observer != nil {
		d.observer.ObserveRequest(route, r.Method, status, elapsed)
	}
}
