package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/openvid/vidshare/internal/config"
)

func TestPayloadCodecRoundTrip(t *testing.T) {
	hdr := http.Header{
		"Content-Type": {"application/json"},
		"X-Custom":     {"a", "b"},
	}
	body := []byte(`{"videos":[]}`)

	payload, err := encodePayload(http.StatusOK, hdr, body)
	if err != nil {
		t.Fatalf("encodePayload: %v", err)
	}
	status, gotHdr, gotBody, ok := decodePayload(payload)
	if !ok {
		t.Fatal("decodePayload: not ok")
	}
	if status != http.StatusOK {
		t.Fatalf("status %d", status)
	}
	if gotHdr.Get("Content-Type") != "application/json" {
		t.Fatalf("header lost: %v", gotHdr)
	}
	if vals := gotHdr.Values("X-Custom"); len(vals) != 2 {
		t.Fatalf("multi-value header lost: %v", vals)
	}
	if string(gotBody) != string(body) {
		t.Fatalf("body %q", gotBody)
	}
}

func TestDecodePayloadRejectsTruncated(t *testing.T) {
	for _, bs := range [][]byte{nil, {1, 2, 3}, {0, 0, 0, 200, 0, 0, 1, 0}} {
		if _, _, _, ok := decodePayload(bs); ok {
			t.Fatalf("accepted malformed payload %v", bs)
		}
	}
}

func TestCacheKeySeparatesPathParams(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "vidshare:cache", KeyStrategy: "route_query"}
	e := echo.New()

	keyFor := func(param string) string {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/video/category/"+param, nil)
		c := e.NewContext(req, httptest.NewRecorder())
		c.SetPath("/api/v1/video/category/:category")
		c.SetParamNames("category")
		c.SetParamValues(param)
		return cacheKeyFrom(cfg, c)
	}

	music := keyFor("music")
	news := keyFor("news")
	if music == news {
		t.Fatal("different path params must not share a cache key")
	}
	if music != keyFor("music") {
		t.Fatal("cache key must be stable for the same request")
	}
}

func TestCacheDisabledPassesThrough(t *testing.T) {
	mw := NewRedisCache(config.CacheConfig{Enabled: false}, nil)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/video/all", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	h := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if !called || rec.Code != http.StatusOK {
		t.Fatalf("pass-through broken: called=%v code=%d", called, rec.Code)
	}
}
