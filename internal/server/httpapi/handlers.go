package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/college/internal/common"
	"github.com/dmitrijs2005/college/internal/logging"
	"github.com/dmitrijs2005/college/internal/server/models"
	"github.com/dmitrijs2005/college/internal/server/services"
)

type Authenticator interface {
	TokenVerifier
	Login(ctx context.Context, username, password string) (*services.AccessToken, error)
}

type StudentService interface {
	List(ctx context.Context) ([]models.Student, error)
	Get(ctx context.Context, id int64) (*models.Student, error)
	Create(ctx context.Context, s models.Student) error
	Update(ctx context.Context, id int64, s models.Student) error
	Delete(ctx context.Context, id int64) error
	Ready(ctx context.Context) error
}

type LoginObserver interface {
	ObserveLogin(ok bool)
}

type Handlers struct {
	auth     Authenticator
	students StudentService
	logins   LoginObserver
	logger   logging.Logger
}

func NewHandlers(a Authenticator, s StudentService, o LoginObserver, l logging.Logger) *Handlers {
	return &Handlers{auth: a, students: s, logins: o, logger: l.With("module", "http_api")}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	tok, err := h.auth.Login(r.Context(), req.Username, req.Password)
	h.logins.ObserveLogin(err == nil)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.logger.Info(r.Context(), "Logged in", "username", req.Username, "request_id", RequestIDFromContext(r.Context()))
	writeJSON(w, http.StatusOK, loginResponse{AccessToken: tok.AccessToken, TokenType: tok.TokenType})
}

func (h *Handlers) ListStudents(w http.ResponseWriter, r *http.Request) {
	items, err := h.students.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handlers) GetStudent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	s, err := h.students.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *Handlers) CreateStudent(w http.ResponseWriter, r *http.Request) {
	var s models.Student
	if err := decodeJSON(w, r, &s); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.students.Create(r.Context(), s); err != nil {
		h.fail(w, r, err)
		return
	}
	writeMessage(w, "Student added.")
}

func (h *Handlers) UpdateStudent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var s models.Student
	if err := decodeJSON(w, r, &s); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.students.Update(r.Context(), id, s); err != nil {
		h.fail(w, r, err)
		return
	}
	writeMessage(w, "Student updated")
}

func (h *Handlers) DeleteStudent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.students.Delete(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	writeMessage(w, "Student deleted")
}

func (h *Handlers) Healthz(w http.ResponseWriter, r *http.Request) {
	if err := h.students.Ready(r.Context()); err != nil {
		h.logger.Warn(r.Context(), "store not ready", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid student id")
		return 0, false
	}
	return id, true
}

// fail maps service errors to responses. Unrecognized errors are logged and
// reported as 500 without detail.
func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrInvalidCredentials):
		writeError(w, http.StatusBadRequest, "Invalid credentials")
	case errors.Is(err, common.ErrUnauthorized):
		unauthorized(w, "Invalid or expired token")
	case errors.Is(err, common.ErrNotFound):
		writeError(w, http.StatusNotFound, "Student not found")
	case errors.Is(err, common.ErrConflict):
		writeError(w, http.StatusConflict, "Student with this id already exists")
	case errors.Is(err, common.ErrValidation):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		h.logger.Error(r.Context(), "request failed",
			"error", err,
			"request_id", RequestIDFromContext(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
		)
		writeError(w, http.StatusInternalServerError, common.ErrorInternal.Error())
	}
}
