package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/joescharf/seva/internal/catalog"
	"github.com/joescharf/seva/internal/dashboard"
	"github.com/joescharf/seva/internal/form"
	"github.com/joescharf/seva/internal/intake"
	"github.com/joescharf/seva/internal/models"
	"github.com/joescharf/seva/internal/session"
	"github.com/joescharf/seva/internal/store"
)

// maxUploadMemory bounds the in-memory part of a multipart request; larger
// uploads spill to temporary files.
const maxUploadMemory = 32 << 20

// Server provides the REST API handlers.
type Server struct {
	store      store.Store
	classifier intake.Classifier
	assembler  *form.Assembler
	preview    int
	logger     *slog.Logger
}

// NewServer creates a new API server.
// The classifier may be nil, in which case images get random placeholder labels.
func NewServer(s store.Store, c intake.Classifier, a *form.Assembler) *Server {
	if c == nil {
		c = intake.NewRandomClassifier()
	}
	if a == nil {
		a = form.NewAssembler()
	}
	return &Server{
		store:      s,
		classifier: c,
		assembler:  a,
		preview:    dashboard.DefaultPreview,
		logger:     slog.Default(),
	}
}

// SetPreview sets the default number of recent issues on the dashboard endpoint.
func (s *Server) SetPreview(n int) {
	if n > 0 {
		s.preview = n
	}
}

// Router returns an http.Handler for the API routes.
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/departments", s.listDepartments)

	mux.HandleFunc("GET /api/v1/issues", s.listIssues)
	mux.HandleFunc("POST /api/v1/issues", s.createIssue)
	mux.HandleFunc("GET /api/v1/issues/{id}", s.getIssue)

	mux.HandleFunc("GET /api/v1/dashboard", s.getDashboard)

	return s.logRequests(corsMiddleware(mux))
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// --- Departments ---

func (s *Server) listDepartments(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, catalog.List())
}

// --- Issues ---

func (s *Server) listIssues(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.IssueListFilter{
		Department: q.Get("department"),
		Status:     models.IssueStatus(q.Get("status")),
		Urgency:    models.IssueUrgency(q.Get("urgency")),
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		filter.Limit = n
	}

	issues, err := s.store.ListIssues(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if issues == nil {
		issues = []*models.Issue{}
	}
	writeJSON(w, http.StatusOK, issues)
}

func (s *Server) getIssue(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	issue, err := s.store.GetIssue(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, issue)
}

// issueRequest is the JSON body accepted by POST /api/v1/issues.
type issueRequest struct {
	form.Draft
	Department string `json:"department"`
}

// createIssueResponse wraps the created issue with upload feedback.
type createIssueResponse struct {
	Issue        *models.Issue         `json:"issue"`
	Notification *session.Notification `json:"notification"`
	Rejected     []string              `json:"rejected"`
}

func (s *Server) createIssue(w http.ResponseWriter, r *http.Request) {
	in := intake.New(s.classifier)
	sess := session.New(s.store, in, s.assembler)

	var req issueRequest
	var candidates []intake.Candidate

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			writeError(w, http.StatusBadRequest, "invalid multipart form")
			return
		}
		defer func() { _ = r.MultipartForm.RemoveAll() }()

		for _, field := range form.Fields {
			_ = req.Set(field, r.FormValue(field))
		}
		req.Department = r.FormValue("department")

		var err error
		candidates, err = readCandidates(r.MultipartForm.File["images"])
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	} else {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON")
			return
		}
	}

	sess.Draft = req.Draft
	if req.Department != "" {
		if err := sess.SelectDepartment(req.Department); err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
	}

	_, rejected := sess.AddFiles(r.Context(), candidates)
	if len(rejected) > 0 {
		s.logger.Warn("dropped non-image uploads", "files", intake.RejectedNames(rejected))
	}

	issue, note, err := sess.Submit(r.Context())
	if err != nil {
		if isValidationError(err) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.logger.Info("issue submitted", "id", issue.ID, "department", issue.Department, "images", len(issue.Images))
	writeJSON(w, http.StatusCreated, createIssueResponse{
		Issue:        issue,
		Notification: note,
		Rejected:     intake.RejectedNames(rejected),
	})
}

func isValidationError(err error) bool {
	return errors.Is(err, form.ErrIncomplete) ||
		errors.Is(err, form.ErrUnknownDepartment) ||
		errors.Is(err, form.ErrInvalidUrgency)
}

// readCandidates loads uploaded file parts into memory.
func readCandidates(headers []*multipart.FileHeader) ([]intake.Candidate, error) {
	candidates := make([]intake.Candidate, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("open upload %s: %w", fh.Filename, err)
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			return nil, fmt.Errorf("read upload %s: %w", fh.Filename, err)
		}

		// The declared type decides acceptance; sniff only undeclared parts.
		contentType := fh.Header.Get("Content-Type")
		if contentType == "" {
			contentType = intake.DetectContentType(data)
		}
		candidates = append(candidates, intake.Candidate{
			Name:        fh.Filename,
			ContentType: contentType,
			Size:        fh.Size,
			Data:        data,
		})
	}
	return candidates, nil
}

// --- Dashboard ---

func (s *Server) getDashboard(w http.ResponseWriter, r *http.Request) {
	n := s.preview
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		n = parsed
	}

	summary, err := dashboard.Build(r.Context(), s.store, n)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if summary.Recent == nil {
		summary.Recent = []*models.Issue{}
	}
	writeJSON(w, http.StatusOK, summary)
}
