package api

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joescharf/seva/internal/dashboard"
	"github.com/joescharf/seva/internal/intake"
	"github.com/joescharf/seva/internal/models"
	"github.com/joescharf/seva/internal/store"
)

func setupTestServer(t *testing.T) (*Server, *store.MemoryStore) {
	t.Helper()
	s := store.NewMemoryStore()
	srv := NewServer(s, intake.NewSeededClassifier(3), nil)
	return srv, s
}

func doRequest(t *testing.T, h http.Handler, method, path string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

type upload struct {
	name        string
	contentType string
	data        []byte
}

func multipartBody(t *testing.T, fields map[string]string, files []upload) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="images"; filename="`+f.name+`"`)
		if f.contentType != "" {
			h.Set("Content-Type", f.contentType)
		}
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return buf, mw.FormDataContentType()
}

func TestListDepartments(t *testing.T) {
	srv, _ := setupTestServer(t)
	w := doRequest(t, srv.Router(), "GET", "/api/v1/departments", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	var deps []models.Department
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &deps))
	assert.Len(t, deps, 8)
	assert.Equal(t, "transport", deps[0].ID)
}

func TestListIssues_Empty(t *testing.T) {
	srv, _ := setupTestServer(t)
	w := doRequest(t, srv.Router(), "GET", "/api/v1/issues", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestCreateIssue_JSON(t *testing.T) {
	srv, s := setupTestServer(t)
	router := srv.Router()

	body := `{"title":"Broken streetlight","description":"Dark at night","location":"MG Road","urgency":"high","department":"power"}`
	w := doRequest(t, router, "POST", "/api/v1/issues", bytes.NewBufferString(body), "application/json")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp createIssueResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, models.IssueStatusSubmitted, resp.Issue.Status)
	assert.Equal(t, models.IssueUrgencyHigh, resp.Issue.Urgency)
	assert.Equal(t, "power", resp.Issue.Department)
	assert.Empty(t, resp.Issue.Images)
	assert.Contains(t, resp.Notification.Message, resp.Issue.ID)
	assert.Equal(t, 1, s.Len())

	// Get
	w = doRequest(t, router, "GET", "/api/v1/issues/"+resp.Issue.ID, nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	// Dashboard
	w = doRequest(t, router, "GET", "/api/v1/dashboard", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var summary dashboard.Summary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, 1, summary.Stats.Total)
	assert.Equal(t, 1, summary.Stats.Submitted)
	assert.Equal(t, 1, summary.ByDepartment["power"])
}

func TestCreateIssue_DefaultsDepartmentAndUrgency(t *testing.T) {
	srv, _ := setupTestServer(t)

	body := `{"title":"Pothole","description":"Deep one","location":"Ring Road"}`
	w := doRequest(t, srv.Router(), "POST", "/api/v1/issues", bytes.NewBufferString(body), "application/json")
	require.Equal(t, http.StatusCreated, w.Code)

	var resp createIssueResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "transport", resp.Issue.Department)
	assert.Equal(t, models.IssueUrgencyMedium, resp.Issue.Urgency)
}

func TestCreateIssue_Multipart(t *testing.T) {
	srv, s := setupTestServer(t)

	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	body, ct := multipartBody(t, map[string]string{
		"title":         "Water logging",
		"description":   "Knee deep water",
		"location":      "Sector 5",
		"department":    "water",
		"contact_phone": "9876543210",
	}, []upload{
		{name: "a.jpg", contentType: "image/jpeg", data: []byte{0xff, 0xd8, 0xff}},
		{name: "b.png", data: png},
		{name: "notes.txt", contentType: "text/plain", data: []byte("hello")},
	})

	w := doRequest(t, srv.Router(), "POST", "/api/v1/issues", body, ct)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp createIssueResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Issue.Images, 2)
	assert.Equal(t, []string{"notes.txt"}, resp.Rejected)
	assert.Equal(t, "image/png", resp.Issue.Images[1].ContentType)
	for _, img := range resp.Issue.Images {
		assert.Contains(t, intake.DetectionLabels, img.DetectionLabel)
	}
	assert.Equal(t, "9876543210", resp.Issue.ContactPhone)

	stored, err := s.GetIssue(context.Background(), resp.Issue.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xff, 0xd8, 0xff}, stored.Images[0].Data)
	assert.NotContains(t, w.Body.String(), `"data"`)
}

func TestCreateIssue_Multipart_DeclaredTypeWins(t *testing.T) {
	srv, s := setupTestServer(t)

	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	body, ct := multipartBody(t, map[string]string{
		"title":       "Garbage pile",
		"description": "Not collected for a week",
		"location":    "Ward 12",
	}, []upload{
		{name: "blob.png", contentType: "application/octet-stream", data: png},
		{name: "c.png", contentType: "image/png", data: png},
	})

	w := doRequest(t, srv.Router(), "POST", "/api/v1/issues", body, ct)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp createIssueResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"blob.png"}, resp.Rejected)
	require.Len(t, resp.Issue.Images, 1)
	assert.Equal(t, "c.png", resp.Issue.Images[0].Name)

	stored, err := s.GetIssue(context.Background(), resp.Issue.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Images, 1)
}

func TestCreateIssue_ValidationErrors(t *testing.T) {
	srv, s := setupTestServer(t)
	router := srv.Router()

	tests := []struct {
		name string
		body string
		code int
	}{
		{"missing location", `{"title":"t","description":"d"}`, http.StatusUnprocessableEntity},
		{"unknown department", `{"title":"t","description":"d","location":"l","department":"parks"}`, http.StatusUnprocessableEntity},
		{"bad urgency", `{"title":"t","description":"d","location":"l","urgency":"asap"}`, http.StatusUnprocessableEntity},
		{"invalid json", `{`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, router, "POST", "/api/v1/issues", bytes.NewBufferString(tt.body), "application/json")
			assert.Equal(t, tt.code, w.Code)
		})
	}
	assert.Equal(t, 0, s.Len())
}

func TestGetIssue_NotFound(t *testing.T) {
	srv, _ := setupTestServer(t)
	w := doRequest(t, srv.Router(), "GET", "/api/v1/issues/JH000000", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListIssues_FilterAndLimit(t *testing.T) {
	srv, _ := setupTestServer(t)
	router := srv.Router()

	for _, dept := range []string{"power", "water", "power"} {
		body := `{"title":"t","description":"d","location":"l","department":"` + dept + `"}`
		w := doRequest(t, router, "POST", "/api/v1/issues", bytes.NewBufferString(body), "application/json")
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := doRequest(t, router, "GET", "/api/v1/issues?department=power", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var issues []models.Issue
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &issues))
	assert.Len(t, issues, 2)

	w = doRequest(t, router, "GET", "/api/v1/issues?limit=1", nil, "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &issues))
	assert.Len(t, issues, 1)

	w = doRequest(t, router, "GET", "/api/v1/issues?limit=abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDashboard_Limit(t *testing.T) {
	srv, _ := setupTestServer(t)
	router := srv.Router()

	for range 7 {
		body := `{"title":"t","description":"d","location":"l"}`
		w := doRequest(t, router, "POST", "/api/v1/issues", bytes.NewBufferString(body), "application/json")
		require.Equal(t, http.StatusCreated, w.Code)
	}

	var summary dashboard.Summary
	w := doRequest(t, router, "GET", "/api/v1/dashboard", nil, "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Len(t, summary.Recent, dashboard.DefaultPreview)
	assert.Equal(t, 7, summary.Stats.Total)

	w = doRequest(t, router, "GET", "/api/v1/dashboard?limit=2", nil, "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Len(t, summary.Recent, 2)
}

func TestCORSPreflight(t *testing.T) {
	srv, _ := setupTestServer(t)
	w := doRequest(t, srv.Router(), "OPTIONS", "/api/v1/issues", nil, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
