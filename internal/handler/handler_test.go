package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"pantree/internal/config"
	"pantree/internal/handler"
	"pantree/internal/repository"
	"pantree/internal/testutil"
)

type testApp struct {
	repo   *repository.Repository
	media  *testutil.FakeMediaStore
	router chi.Router
}

func newTestApp(t *testing.T) (*testApp, func()) {
	t.Helper()

	repo, cleanup := testutil.SetupTestDB(t)
	fake := testutil.NewFakeMediaStore()

	cfg := &config.Config{
		MediaFolder:         "pantree",
		PublicBaseURL:       "http://localhost:8080",
		UploadTimeout:       5 * time.Second,
		DirectUploadTimeout: 5 * time.Second,
		SessionDuration:     time.Hour,
	}

	h := handler.New(repo, fake, nil, cfg)

	r := chi.NewRouter()
	h.RegisterRoutes(r, handler.Limiters{})

	return &testApp{repo: repo, media: fake, router: r}, cleanup
}

// do sends a JSON request, with a Bearer token when one is given.
func (a *testApp) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
}

// login creates a family with fixtures and returns its admin plus a session
// token for authenticated requests.
func (a *testApp) login(t *testing.T, username string) (*repository.User, string) {
	t.Helper()
	_, admin := testutil.CreateTestFamily(t, a.repo, username)
	return admin, testutil.CreateTestSession(t, a.repo, admin.ID)
}
