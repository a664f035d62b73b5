package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/college/internal/logging"
)

// Observer is the metrics sink for the router.
type Observer interface {
	RequestObserver
	Handler() http.Handler
}

// NewRouter wires every route. The student routes sit behind RequireBearer.
func NewRouter(h *Handlers, o Observer, l logging.Logger) http.Handler {
	mux := http.NewServeMux()
	gate := RequireBearer(h.auth)

	handle := func(pattern string, fn http.HandlerFunc, mws ...Middleware) {
		mux.Handle(pattern, instrument(pattern, o, Chain(fn, mws...)))
	}

	handle("POST /login", h.Login)
	handle("GET /students", h.ListStudents, gate)
	handle("POST /students", h.CreateStudent, gate)
	handle("GET /students/{id}", h.GetStudent, gate)
	handle("PUT /students/{id}", h.UpdateStudent, gate)
	handle("DELETE /students/{id}", h.DeleteStudent, gate)
	handle("GET /healthz", h.Healthz)
	mux.Handle("GET /metrics", o.Handler())

	return Chain(mux, RequestID(), AccessLog(l), Recover(l))
}
