package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"progress-tracker-go/internal/config"
	"progress-tracker-go/internal/models"
	"progress-tracker-go/internal/services"
	"progress-tracker-go/internal/store/memory"
)

var now = time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

type testServer struct {
	server  *Server
	handler http.Handler
}

func newTestServer(t *testing.T, mutate ...func(*config.Config)) *testServer {
	t.Helper()
	cfg := config.Config{
		StorageDriver:         config.DriverMemory,
		UploadDir:             t.TempDir(),
		UploadURLPrefix:       "/static/uploads/",
		MaxUploadSize:         1 << 20,
		Timezone:              "UTC",
		Location:              time.UTC,
		StatsHistoryMonths:    6,
		RecentEntriesLimit:    5,
		DashboardEntriesLimit: 3,
		JWTIssuer:             "progress-tracker",
		AdminTokenTTLSeconds:  3600,
	}
	for _, fn := range mutate {
		fn(&cfg)
	}
	profiles := config.TrackingProfiles{Default: config.DefaultProfile()}
	srv := NewServer(cfg, memory.New(), profiles, services.NewEntryHub())
	srv.Tracker.Now = func() time.Time { return now }
	srv.Dashboards.Now = func() time.Time { return now }
	return &testServer{server: srv, handler: srv.Router()}
}

func (ts *testServer) do(t *testing.T, method, path string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch v := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(v))
	default:
		raw, err := json.Marshal(v)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) form(t *testing.T, path string, values url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) multipart(t *testing.T, path string, fields map[string]string, fileField, filename, contentType string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	if fileField != "" {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, fileField, filename))
		header.Set("Content-Type", contentType)
		part, err := writer.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func (ts *testServer) createUser(t *testing.T, name string) models.User {
	t.Helper()
	rec := ts.do(t, http.MethodPost, "/api/users/", map[string]string{"name": name, "display_name": strings.ToUpper(name)})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[models.User](t, rec)
}

func TestUsersAPI(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.createUser(t, "alice")
	assert.Equal(t, "alice", alice.Name)

	rec := ts.do(t, http.MethodPost, "/api/users/", map[string]string{"name": "alice", "display_name": "Again"})
	require.Equal(t, http.StatusConflict, rec.Code)
	body := decode[ErrorResponse](t, rec)
	assert.Equal(t, "conflict", body.Error)
	assert.Equal(t, "User with name 'alice' already exists", body.Message)

	rec = ts.do(t, http.MethodGet, "/api/users/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.User](t, rec), 1)

	rec = ts.do(t, http.MethodGet, fmt.Sprintf("/api/users/%d", alice.ID), nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/users/999", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decode[ErrorResponse](t, rec).Error)
}

func TestCreateUserRequiresAdminTokenWhenEnabled(t *testing.T) {
	ts := newTestServer(t, func(cfg *config.Config) { cfg.JWTSecret = "test-secret" })
	payload := map[string]string{"name": "bob", "display_name": "Bob"}

	rec := ts.do(t, http.MethodPost, "/api/users/", payload)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	plain, _, err := ts.server.Tokens.CreateAccessToken("viewer", []string{"VIEWER"})
	require.NoError(t, err)
	rec = ts.do(t, http.MethodPost, "/api/users/", payload, "Authorization", "Bearer "+plain)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	admin, _, err := ts.server.Tokens.CreateAccessToken("root", []string{services.RoleAdmin})
	require.NoError(t, err)
	rec = ts.do(t, http.MethodPost, "/api/users/", payload, "Authorization", "Bearer "+admin)
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = ts.do(t, http.MethodGet, "/api/users/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadingAPI(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.createUser(t, "alice")

	rec := ts.do(t, http.MethodPost, "/api/reading/", map[string]interface{}{
		"user_id": alice.ID,
		"title":   "Dune",
		"status":  "in_progress",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	entry := decode[models.ReadingEntry](t, rec)
	require.NotNil(t, entry.StartedDate)
	assert.True(t, now.Equal(*entry.StartedDate))
	assert.Nil(t, entry.CompletedDate)
	assert.Equal(t, models.PhysicalBook, entry.ReadingType)

	rec = ts.do(t, http.MethodPut, fmt.Sprintf("/api/reading/%d", entry.ID), map[string]interface{}{
		"progress_fraction": "0.5",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[models.ReadingEntry](t, rec)
	require.NotNil(t, updated.ProgressFraction)
	assert.Equal(t, 0.5, *updated.ProgressFraction)
	assert.Equal(t, "Dune", updated.Title)

	rec = ts.do(t, http.MethodDelete, fmt.Sprintf("/api/reading/%d", entry.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Reading entry deleted", decode[MessageResponse](t, rec).Message)

	rec = ts.do(t, http.MethodGet, fmt.Sprintf("/api/reading/%d", entry.ID), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReadingValidationErrors(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.createUser(t, "alice")

	tests := []struct {
		name   string
		body   map[string]interface{}
		status int
		field  string
	}{
		{"progress above one", map[string]interface{}{"user_id": alice.ID, "title": "X", "progress_fraction": "1.5"}, http.StatusUnprocessableEntity, "progress_fraction"},
		{"negative progress", map[string]interface{}{"user_id": alice.ID, "title": "X", "progress_fraction": -0.1}, http.StatusUnprocessableEntity, "progress_fraction"},
		{"unknown status", map[string]interface{}{"user_id": alice.ID, "title": "X", "status": "done"}, http.StatusUnprocessableEntity, "status"},
		{"missing title", map[string]interface{}{"user_id": alice.ID}, http.StatusUnprocessableEntity, "title"},
		{"unknown owner", map[string]interface{}{"user_id": 404, "title": "X"}, http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(t, http.MethodPost, "/api/reading/", tt.body)
			require.Equal(t, tt.status, rec.Code, rec.Body.String())
			if tt.field != "" {
				body := decode[ErrorResponse](t, rec)
				assert.Equal(t, "invalid_input", body.Error)
				assert.Contains(t, body.Details, tt.field)
			}
		})
	}

	rec := ts.do(t, http.MethodGet, "/api/reading/", nil)
	assert.Empty(t, decode[[]models.ReadingEntry](t, rec))
}

func TestListFiltersByOwner(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.createUser(t, "alice")
	bob := ts.createUser(t, "bob")
	for i, owner := range []int64{alice.ID, bob.ID, alice.ID, bob.ID} {
		rec := ts.do(t, http.MethodPost, "/api/fitness/", map[string]interface{}{
			"user_id": owner,
			"title":   fmt.Sprintf("walk %d", i),
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec := ts.do(t, http.MethodGet, fmt.Sprintf("/api/fitness/?user_id=%d", bob.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	items := decode[[]models.FitnessEntry](t, rec)
	require.Len(t, items, 2)
	for _, item := range items {
		assert.Equal(t, bob.ID, item.UserID)
	}

	rec = ts.do(t, http.MethodGet, "/api/fitness/?user_id=abc", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestJournalListValidatesDates(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.createUser(t, "alice")
	rec := ts.do(t, http.MethodPost, "/api/journal/", map[string]interface{}{
		"user_id": alice.ID,
		"date":    "2025-03-09",
		"context": "Zoo visit",
		"tags":    "zoo, family",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = ts.do(t, http.MethodGet, "/api/journal/?tags=zoo&start_date=2025-03-01&end_date=2025-03-31", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.JournalEntry](t, rec), 1)

	rec = ts.do(t, http.MethodGet, "/api/journal/?start_date=03/01/2025", nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, decode[ErrorResponse](t, rec).Details, "start_date")
}

func TestFormEndpoints(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.createUser(t, "alice")

	rec := ts.form(t, "/web/reading/add", url.Values{
		"user_id":           {fmt.Sprint(alice.ID)},
		"title":             {"Matilda"},
		"status":            {"completed"},
		"completed_date":    {"2025-03-08"},
		"author":            {""},
		"length_pages":      {"240"},
		"progress_fraction": {""},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
	assert.Equal(t, "/web/reading", rec.Header().Get("Location"))

	rec = ts.do(t, http.MethodGet, "/web/reading/", nil)
	items := decode[[]models.ReadingEntry](t, rec)
	require.Len(t, items, 1)
	entry := items[0]
	assert.Nil(t, entry.Author)
	require.NotNil(t, entry.CompletedDate)
	assert.Equal(t, time.Date(2025, 3, 8, 23, 59, 59, 0, time.UTC), entry.CompletedDate.UTC())

	rec = ts.form(t, "/web/reading/add", url.Values{
		"user_id":           {fmt.Sprint(alice.ID)},
		"title":             {"Bad"},
		"length_pages":      {"many"},
		"progress_fraction": {"2"},
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	details := decode[ErrorResponse](t, rec).Details
	assert.Contains(t, details, "length_pages")
	assert.Contains(t, details, "progress_fraction")

	rec = ts.form(t, fmt.Sprintf("/web/reading/edit/%d", entry.ID), url.Values{"title": {"Matilda (again)"}})
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())

	rec = ts.form(t, fmt.Sprintf("/web/reading/delete/%d", entry.ID), url.Values{})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	rec = ts.form(t, fmt.Sprintf("/web/reading/delete/%d", entry.ID), url.Values{})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDrawingImageUpload(t *testing.T) {
	ts := newTestServer(t)
	png := []byte("\x89PNG\r\n\x1a\nfake")

	rec := ts.multipart(t, "/api/drawing/upload-image", nil, "file", "../../etc/passwd.png", "image/png", png)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode[map[string]string](t, rec)
	assert.Equal(t, "Image uploaded successfully", body["message"])
	filename := body["image_filename"]
	assert.NotContains(t, filename, "passwd")
	assert.Equal(t, filename, filepath.Base(filename))
	assert.Equal(t, "/static/uploads/"+filename, body["image_url"])

	rec = ts.do(t, http.MethodGet, body["image_url"], nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, png, rec.Body.Bytes())

	rec = ts.multipart(t, "/api/drawing/upload-image", nil, "file", "notes.txt", "text/plain", []byte("hi"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "file_upload", decode[ErrorResponse](t, rec).Error)

	rec = ts.multipart(t, "/api/drawing/upload-image", nil, "", "", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDrawingFormImageLifecycle(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.createUser(t, "alice")
	dir := ts.server.Images.Dir

	rec := ts.multipart(t, "/web/drawing/add", map[string]string{
		"user_id": fmt.Sprint(alice.ID),
		"title":   "Cat",
		"status":  "completed",
	}, "image", "cat.JPG", "image/jpeg", []byte("jpeg-bytes"))
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())

	items := decode[[]models.DrawingEntry](t, ts.do(t, http.MethodGet, "/api/drawing/", nil))
	require.Len(t, items, 1)
	entry := items[0]
	require.NotNil(t, entry.ImageFilename)
	assert.True(t, strings.HasSuffix(*entry.ImageFilename, ".jpg"))
	require.NotNil(t, entry.EndDate)
	first := filepath.Join(dir, *entry.ImageFilename)
	assert.FileExists(t, first)

	rec = ts.multipart(t, fmt.Sprintf("/api/drawing/%d/image", entry.ID), nil, "file", "cat2.png", "image/png", []byte("png-bytes"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	replaced := decode[models.DrawingEntry](t, rec)
	require.NotNil(t, replaced.ImageFilename)
	assert.NotEqual(t, *entry.ImageFilename, *replaced.ImageFilename)
	assert.NoFileExists(t, first)

	rec = ts.do(t, http.MethodDelete, fmt.Sprintf("/api/drawing/%d", entry.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NoFileExists(t, filepath.Join(dir, *replaced.ImageFilename))

	files, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestDrawingFormFailureRemovesImage(t *testing.T) {
	ts := newTestServer(t)
	dir := ts.server.Images.Dir

	rec := ts.multipart(t, "/web/drawing/add", map[string]string{
		"user_id": "77",
		"title":   "Ghost",
	}, "image", "ghost.png", "image/png", []byte("png-bytes"))
	require.Equal(t, http.StatusNotFound, rec.Code, rec.Body.String())

	files, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestDashboard(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.createUser(t, "alice")
	rec := ts.do(t, http.MethodPost, "/api/fitness/", map[string]interface{}{
		"user_id":          alice.ID,
		"title":            "Run",
		"status":           "completed",
		"duration_minutes": 30,
		"distance_km":      5.5,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = ts.do(t, http.MethodGet, "/api/dashboard", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	overview := decode[services.Overview](t, rec)
	assert.Len(t, overview.Users, 1)
	assert.Len(t, overview.Recent.Fitness, 1)

	rec = ts.do(t, http.MethodGet, fmt.Sprintf("/api/dashboard?user_id=%d&months=3&fill=true", alice.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	summary := decode[services.UserDashboard](t, rec)
	stats := summary.Stats[models.CategoryFitness]
	assert.Equal(t, 1, stats.Count)
	assert.Equal(t, 1, stats.Completed)
	require.NotNil(t, stats.DistanceKm)
	assert.Equal(t, 5.5, *stats.DistanceKm)
	assert.Len(t, summary.FilledHistory[models.CategoryFitness], 4)

	rec = ts.do(t, http.MethodGet, "/api/dashboard?months=0", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/dashboard?user_id=999", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	sample := decode[services.HealthSample](t, rec)
	assert.Equal(t, "ok", sample.Status)
	assert.Equal(t, "ok", sample.Database)
}

func TestServeUploadRejectsTraversal(t *testing.T) {
	ts := newTestServer(t)
	secret := filepath.Join(filepath.Dir(ts.server.Images.Dir), "secret.png")
	require.NoError(t, os.WriteFile(secret, []byte("x"), 0o644))

	rec := ts.do(t, http.MethodGet, "/static/uploads/..%2Fsecret.png", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEntriesSocketReceivesEvents(t *testing.T) {
	ts := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go ts.server.Hub.Run(ctx)

	httpSrv := httptest.NewServer(ts.handler)
	defer httpSrv.Close()
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(httpSrv.URL, "http")+"/ws/entries", nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return ts.server.Hub.Len() == 1 }, 2*time.Second, 10*time.Millisecond)

	alice := ts.createUser(t, "alice")
	rec := ts.do(t, http.MethodPost, "/api/reading/", map[string]interface{}{"user_id": alice.ID, "title": "Momo"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	entry := decode[models.ReadingEntry](t, rec)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var event services.EntryEvent
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, models.CategoryReading, event.Category)
	assert.Equal(t, "created", event.Action)
	assert.Equal(t, entry.ID, event.EntryID)
	assert.Equal(t, alice.ID, event.UserID)
}
