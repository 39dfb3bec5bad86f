package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"codeconnect/internal/catalog"
	"codeconnect/internal/form"
	"codeconnect/internal/service"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, backend service.Backend) (*Server, http.Handler) {
	t.Helper()
	s, err := New(backend, Options{Logger: zerolog.Nop(), Registry: prometheus.NewRegistry()})
	require.NoError(t, err)
	return s, s.Handler()
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

const validProject = `{"name":"CodeConnect","email":"user@example.com","description":"desc","tags":["HTML","CSS"]}`

func TestListTags(t *testing.T) {
	_, h := newTestServer(t, &service.Fake{})
	rec := do(t, h, http.MethodGet, "/api/tags", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, catalog.AllowedTags(), decode[service.TagsResponse](t, rec).Tags)
}

func TestLookupTag(t *testing.T) {
	_, h := newTestServer(t, &service.Fake{})

	tests := []struct {
		path string
		tag  string
		want bool
	}{
		{"/api/tags/HTML", "HTML", true},
		{"/api/tags/Banco%20de%20dados", "Banco de dados", true},
		{"/api/tags/Programa%C3%A7%C3%A3o", "Programação", true},
		{"/api/tags/html", "html", false},
		{"/api/tags/Rust", "Rust", false},
		{"/api/tags/HTM%254C", "HTM%4C", false},
		{"/api/tags/Jav%2561", "Jav%61", false},
		{"/api/tags/Full%2Dstack", "Full-stack", true},
	}
	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			rec := do(t, h, http.MethodGet, tt.path, "")
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, service.TagResponse{Tag: tt.tag, Exists: tt.want}, decode[service.TagResponse](t, rec))
		})
	}
}

func TestEmailAvailability(t *testing.T) {
	_, h := newTestServer(t, &service.Fake{})

	rec := do(t, h, http.MethodGet, "/api/emails/availability?email=diego@fake.io", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[service.EmailAvailabilityResponse](t, rec).Available)

	rec = do(t, h, http.MethodGet, "/api/emails/availability?email=new@unknown.io", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[service.EmailAvailabilityResponse](t, rec).Available)

	rec = do(t, h, http.MethodGet, "/api/emails/availability", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, service.ErrorResponse{Error: "email is required", Code: http.StatusBadRequest}, decode[service.ErrorResponse](t, rec))
}

func TestEmailAvailability_BackendError(t *testing.T) {
	_, h := newTestServer(t, &service.Fake{EmailErr: errors.New("boom")})
	rec := do(t, h, http.MethodGet, "/api/emails/availability?email=a@b.io", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestPublish(t *testing.T) {
	fake := &service.Fake{}
	s, h := newTestServer(t, fake)

	rec := do(t, h, http.MethodPost, "/api/projects", validProject)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	r := decode[service.Receipt](t, rec)
	assert.NotZero(t, r.ID)
	assert.Equal(t, form.MsgPublished, r.Message)
	assert.Len(t, fake.Published(), 1)
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.publish.WithLabelValues("success")))
}

func TestPublish_Failure(t *testing.T) {
	s, h := newTestServer(t, &service.Fake{PublishErr: service.ErrPublishFailed})

	rec := do(t, h, http.MethodPost, "/api/projects", validProject)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, form.MsgPublishFailed, decode[service.ErrorResponse](t, rec).Error)
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.publish.WithLabelValues("failure")))
}

func TestPublish_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		ctype  string
		status int
		msg    string
	}{
		{"wrong content type", validProject, "text/plain", http.StatusUnsupportedMediaType, "Content-Type must be application/json"},
		{"bad json", "{", "application/json", http.StatusBadRequest, "invalid JSON body"},
		{"missing name", `{"email":"user@example.com","description":"d","tags":["HTML"]}`, "application/json", http.StatusUnprocessableEntity, form.MsgNameRequired},
		{"markup only name", `{"name":"<b></b>","email":"user@example.com","description":"d","tags":["HTML"]}`, "application/json", http.StatusUnprocessableEntity, form.MsgNameRequired},
		{"bad email", `{"name":"n","email":"user@example","description":"d","tags":["HTML"]}`, "application/json", http.StatusUnprocessableEntity, form.MsgEmailInvalid},
		{"no tags", `{"name":"n","email":"user@example.com","description":"d","tags":[]}`, "application/json", http.StatusUnprocessableEntity, form.MsgTagsRequired},
		{"unknown tag", `{"name":"n","email":"user@example.com","description":"d","tags":["Rust"]}`, "application/json", http.StatusUnprocessableEntity, "tag not allowed: Rust"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &service.Fake{}
			_, h := newTestServer(t, fake)

			req := httptest.NewRequest(http.MethodPost, "/api/projects", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", tt.ctype)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			require.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.msg, decode[service.ErrorResponse](t, rec).Error)
			assert.Empty(t, fake.Published())
		})
	}
}

func TestPublish_StripsMarkup(t *testing.T) {
	fake := &service.Fake{}
	_, h := newTestServer(t, fake)

	body := `{"name":"<script>alert(1)</script>R&D <b>tool</b>","email":" user@example.com ","description":"<i>nice</i>","tags":[" HTML "]}`
	rec := do(t, h, http.MethodPost, "/api/projects", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	got := fake.Published()
	require.Len(t, got, 1)
	assert.Equal(t, form.Project{Name: "R&D tool", Email: "user@example.com", Description: "nice", Tags: []string{"HTML"}}, got[0])
}

func TestHealthzAndMetrics(t *testing.T) {
	_, h := newTestServer(t, &service.Fake{})

	rec := do(t, h, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	do(t, h, http.MethodGet, "/api/tags/HTML", "")
	rec = do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `codeconnect_http_requests_total{method="GET",path="/api/tags/{tag}",status="200"} 1`)
}

func TestCORS(t *testing.T) {
	s, err := New(&service.Fake{}, Options{Logger: zerolog.Nop(), CORSOrigins: []string{"http://localhost:5173"}})
	require.NoError(t, err)
	h := s.Handler()

	req := httptest.NewRequest(http.MethodGet, "/api/tags", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/tags", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestAccessLog(t *testing.T) {
	var buf bytes.Buffer
	s, err := New(&service.Fake{}, Options{Logger: zerolog.New(&buf)})
	require.NoError(t, err)

	do(t, s.Handler(), http.MethodGet, "/api/tags", "")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line), buf.String())
	assert.Equal(t, "request", line["message"])
	assert.Equal(t, "/api/tags", line["path"])
	assert.EqualValues(t, 200, line["status"])
	assert.NotEmpty(t, line["request_id"])
}

func TestNewMetrics_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewMetrics(reg)
	require.NoError(t, err)
	_, err = NewMetrics(reg)
	assert.Error(t, err)
}
