package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/openvid/vidshare/internal/model"
	"github.com/openvid/vidshare/internal/utils"
)

const testSecret = "test-secret"

func gateRequest(t *testing.T, authorization string) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	reached := false
	handler := Auth(testSecret)(func(c echo.Context) error {
		reached = true
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	return rec, reached
}

func TestAuthRejectsMissingOrMalformedHeader(t *testing.T) {
	for _, header := range []string{"", "Basic abc", "Bearer"} {
		t.Run("header "+header, func(t *testing.T) {
			rec, reached := gateRequest(t, header)
			if reached {
				t.Fatal("handler must not run without a bearer token")
			}
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
			if !strings.Contains(rec.Body.String(), "unauthenticated") {
				t.Fatalf("unexpected body %s", rec.Body.String())
			}
		})
	}
}

func TestAuthRejectsBadToken(t *testing.T) {
	wrong, err := utils.NewAccessToken("other-secret", model.User{ID: "u1"}, 1)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	for _, raw := range []string{"garbage", wrong.Token} {
		rec, reached := gateRequest(t, "Bearer "+raw)
		if reached {
			t.Fatal("handler must not run with an invalid token")
		}
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	}
}

func TestAuthInjectsClaims(t *testing.T) {
	user := model.User{ID: "u1", ChannelName: "alice-films", Email: "alice@example.com"}
	tok, err := utils.NewAccessToken(testSecret, user, 1)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+tok.Token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Auth(testSecret)(func(c echo.Context) error {
		claims, ok := Caller(c)
		if !ok {
			t.Fatal("Caller: claims missing from context")
		}
		if claims.UserID() != "u1" || claims.ChannelName != "alice-films" {
			t.Fatalf("unexpected claims %+v", claims)
		}
		if id, _ := c.Get(UserIDKey).(string); id != "u1" {
			t.Fatalf("user id key = %q", id)
		}
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
