// Package api exposes HTTP handlers for the exercise tracker.
package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"example.com/exercisetracker/internal/domain"
)

// Handler coordinates HTTP requests with the directory and log services.
type Handler struct {
	directory *domain.Directory
	service   *domain.Service
	logger    *log.Logger
}

// NewHandler builds a Handler.
func NewHandler(directory *domain.Directory, service *domain.Service, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.New(log.Writer(), "[api] ", log.LstdFlags)
	}
	return &Handler{directory: directory, service: service, logger: logger}
}

// RegisterRoutes wires endpoints to the mux, both under /api/exercise and at the root.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	for _, prefix := range []string{"/api/exercise", ""} {
		mux.HandleFunc(prefix+"/new-user", h.newUser)
		mux.HandleFunc(prefix+"/users", h.users)
		mux.HandleFunc(prefix+"/add", h.addRecord)
		mux.HandleFunc(prefix+"/log", h.getLog)
	}
	mux.HandleFunc("/api/hello", hello)
	mux.HandleFunc("/healthz", healthz)
	mux.HandleFunc("/", notFound)
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func hello(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"greeting": "Hello from the exercise tracker API."})
}

func notFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "not found")
}

func (h *Handler) newUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	fields, err := readFields(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidRequest)
		return
	}
	if err := fields.text("username"); err != nil {
		h.writeDomainError(w, err)
		return
	}

	user, err := h.directory.FindOrCreate(r.Context(), fields.get("username"))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, UserView{Username: user.Username, ID: user.ID})
}

func (h *Handler) users(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	users, err := h.directory.ListAll(r.Context())
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	views := make([]UserView, 0, len(users))
	for _, user := range users {
		views = append(views, UserView{Username: user.Username, ID: user.ID})
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *Handler) addRecord(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	fields, err := readFields(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidRequest)
		return
	}
	if err := fields.text("userId", "description"); err != nil {
		h.writeDomainError(w, err)
		return
	}

	logged, err := h.service.AddRecord(r.Context(), domain.AddRecordInput{
		UserID:      fields.get("userId"),
		Description: fields.get("description"),
		Duration:    fields.first("durationMinutes", "duration"),
		Date:        fields.get("date"),
	})
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, AddRecordResponse{
		Username:        logged.User.Username,
		ID:              logged.User.ID,
		Description:     logged.Record.Description,
		DurationMinutes: logged.Record.DurationMin,
		Date:            logged.Record.Date.Format(domain.DisplayDateLayout),
	})
}

func (h *Handler) getLog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	q := r.URL.Query()
	exerciseLog, err := h.service.GetLog(r.Context(), domain.LogQuery{
		UserID: q.Get("userId"),
		From:   q.Get("from"),
		To:     q.Get("to"),
		Limit:  q.Get("limit"),
	})
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	resp := LogResponse{
		Username: exerciseLog.User.Username,
		ID:       exerciseLog.User.ID,
		Count:    exerciseLog.Count,
		Log:      make([]LogEntryView, 0, len(exerciseLog.Records)),
	}
	for _, rec := range exerciseLog.Records {
		resp.Log = append(resp.Log, LogEntryView{
			Description:     rec.Description,
			DurationMinutes: rec.DurationMin,
			Date:            rec.Date.Format(domain.DisplayDateLayout),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

const (
	msgInvalidRequest = "invalid request"
	msgServerError    = "server error"
)

// writeDomainError maps domain failures to status codes. Validation detail is never echoed.
func (h *Handler) writeDomainError(w http.ResponseWriter, err error) {
	var missing *domain.NotFoundError
	switch {
	case errors.As(err, &missing):
		writeError(w, http.StatusBadRequest, missing.Error())
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, msgInvalidRequest)
	default:
		h.logger.Printf("request failed: %v", err)
		writeError(w, http.StatusInternalServerError, msgServerError)
	}
}

// UserView is the public shape of a directory entry.
type UserView struct {
	Username string `json:"username"`
	ID       string `json:"id"`
}

// AddRecordResponse describes the response body for add.
type AddRecordResponse struct {
	Username        string `json:"username"`
	ID              string `json:"id"`
	Description     string `json:"description"`
	DurationMinutes int    `json:"durationMinutes"`
	Date            string `json:"date"`
}

// LogEntryView is a single log entry.
type LogEntryView struct {
	Description     string `json:"description"`
	DurationMinutes int    `json:"durationMinutes"`
	Date            string `json:"date"`
}

// LogResponse packages log results.
type LogResponse struct {
	Username string         `json:"username"`
	ID       string         `json:"id"`
	Count    int            `json:"count"`
	Log      []LogEntryView `json:"log"`
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
