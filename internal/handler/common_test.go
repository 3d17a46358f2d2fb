package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/openvid/vidshare/internal/config"
	"github.com/openvid/vidshare/internal/media"
	"github.com/openvid/vidshare/internal/middleware"
	"github.com/openvid/vidshare/internal/repository"
	"github.com/openvid/vidshare/internal/utils"
)

// fakeResolver is an in-memory media.Resolver that records uploads and
// deletes so tests can assert on asset lifecycle.
type fakeResolver struct {
	mu         sync.Mutex
	uploads    int
	deleted    []string
	failUpload bool
}

func (f *fakeResolver) Upload(ctx context.Context, path string, kind media.Kind) (media.Asset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUpload {
		return media.Asset{}, fmt.Errorf("upload refused")
	}
	f.uploads++
	id := fmt.Sprintf("%s-asset-%d", kind, f.uploads)
	return media.Asset{URL: "https://cdn.example/" + id, PublicID: id}, nil
}

func (f *fakeResolver) Delete(ctx context.Context, publicID string, kind media.Kind) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, publicID)
	return nil
}

func (f *fakeResolver) deletedIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deleted...)
}

type testEnv struct {
	echo     *echo.Echo
	cfg      config.Config
	users    *repository.MemoryUserStore
	videos   *repository.MemoryVideoStore
	comments *repository.MemoryCommentStore
	resolver *fakeResolver
	user     *UserHandler
	video    *VideoHandler
	comment  *CommentHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	cfg := config.Config{
		Env:          "test",
		JWTSecret:    "test-secret",
		TokenTTLDays: 10,
		BcryptCost:   4, // bcrypt.MinCost keeps tests fast
	}
	users := repository.NewMemoryUserStore()
	videos := repository.NewMemoryVideoStore()
	comments := repository.NewMemoryCommentStore()
	resolver := &fakeResolver{}
	return &testEnv{
		echo:     echo.New(),
		cfg:      cfg,
		users:    users,
		videos:   videos,
		comments: comments,
		resolver: resolver,
		user:     NewUserHandler(cfg, users, resolver),
		video:    NewVideoHandler(cfg, videos, resolver),
		comment:  NewCommentHandler(comments, videos, users),
	}
}

// claimsFor builds the context claims the auth gate would attach for a user.
func claimsFor(id, channelName string) utils.Claims {
	return utils.Claims{
		ChannelName:      channelName,
		RegisteredClaims: jwt.RegisteredClaims{Subject: id},
	}
}

// newContext builds an echo context for a request, optionally authenticated.
func (env *testEnv) newContext(req *http.Request, claims *utils.Claims) (echo.Context, *httptest.ResponseRecorder) {
	rec := httptest.NewRecorder()
	c := env.echo.NewContext(req, rec)
	if claims != nil {
		c.Set(middleware.CallerKey, *claims)
		c.Set(middleware.UserIDKey, claims.UserID())
	}
	return c, rec
}

func jsonRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request body: %v", err)
	}
	req := httptest.NewRequest(method, target, bytes.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

// multipartRequest builds a multipart request from form fields and
// field-name -> file-content pairs.
func multipartRequest(t *testing.T, method, target string, fields map[string]string, files map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}
	for field, content := range files {
		part, err := w.CreateFormFile(field, field+".bin")
		if err != nil {
			t.Fatalf("create form file %s: %v", field, err)
		}
		if _, err := io.WriteString(part, content); err != nil {
			t.Fatalf("write file %s: %v", field, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return req
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	out := map[string]interface{}{}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

func wantErrorCategory(t *testing.T, rec *httptest.ResponseRecorder, status int, category string) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("expected status %d, got %d (%s)", status, rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["error"] != category {
		t.Fatalf("expected error category %q, got %v", category, body["error"])
	}
}
