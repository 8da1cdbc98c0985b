package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"irisgate/pkg/secrets"
	"irisgate/pkg/store"
	"irisgate/pkg/token"
)

type mapStore map[string][]byte

func (m mapStore) Get(_ context.Context, key string) (store.Object, error) {
	b, ok := m[key]
	if !ok {
		return store.Object{}, store.ErrNotFound
	}
	return store.Object{Body: io.NopCloser(bytes.NewReader(b)), Size: int64(len(b))}, nil
}

// panicStore trips the recovery middleware.
type panicStore struct{}

func (panicStore) Get(context.Context, string) (store.Object, error) { panic("boom") }

func testGateway(st store.Store, clock jwt.Clock) *Gateway {
	codec := token.NewHS256(24 * time.Hour)
	if clock != nil {
		codec.Clock = clock
	}
	prov := secrets.NewMemoryProvider(map[string]string{"amanda-boris": "ab083125"})
	return New(prov, st, codec, "flyiniris.com", zap.NewNop().Sugar())
}

func do(h http.Handler, method, path string, body string, hdr map[string]string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func errBody(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var v map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v["error"]
}

func TestIssueToken(t *testing.T) {
	g := testGateway(mapStore{}, nil)
	h := g.Handler()

	w := do(h, "POST", "/amanda-boris/auth", `{"password":"ab083125"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp["token"])

	claims, err := g.codec.Verify(resp["token"], "ab083125")
	require.NoError(t, err)
	assert.Equal(t, "amanda-boris", claims.Tenant)
}

func TestIssueTokenRejections(t *testing.T) {
	g := testGateway(mapStore{}, nil)
	h := g.Handler()

	wrong := do(h, "POST", "/amanda-boris/auth", `{"password":"nope"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, wrong.Code)

	// Unknown tenant must be byte-identical to a wrong password.
	missing := do(h, "POST", "/nobody-here/auth", `{"password":"nope"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, missing.Code)
	assert.Equal(t, wrong.Body.String(), missing.Body.String())

	assert.Equal(t, http.StatusBadRequest, do(h, "POST", "/amanda-boris/auth", `{}`, nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(h, "POST", "/amanda-boris/auth", `not json`, nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(h, "POST", "/amanda-boris/auth", "", nil).Code)
}

func TestDownload(t *testing.T) {
	film := bytes.Repeat([]byte("x"), 4096)
	st := mapStore{"amanda-boris/originals/highlight.mp4": film}
	g := testGateway(st, nil)
	h := g.Handler()

	tok, err := g.codec.Issue("amanda-boris", "ab083125")
	require.NoError(t, err)

	w := do(h, "POST", "/amanda-boris/download/highlight", "", map[string]string{"Authorization": "Bearer " + tok})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="highlight.mp4"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "4096", w.Header().Get("Content-Length"))
	assert.Equal(t, "video/mp4", w.Header().Get("Content-Type"))
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	assert.Equal(t, film, w.Body.Bytes())
}

func TestDownloadUnauthorized(t *testing.T) {
	st := mapStore{"amanda-boris/originals/highlight.mp4": []byte("film")}
	g := testGateway(st, nil)
	h := g.Handler()

	assert.Equal(t, http.StatusUnauthorized, do(h, "POST", "/amanda-boris/download/highlight", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized,
		do(h, "POST", "/amanda-boris/download/highlight", "", map[string]string{"Authorization": "Basic abc"}).Code)
}

func TestDownloadForbidden(t *testing.T) {
	st := mapStore{"amanda-boris/originals/highlight.mp4": []byte("film")}
	g := testGateway(st, nil)
	h := g.Handler()

	garbage := do(h, "POST", "/amanda-boris/download/highlight", "", map[string]string{"Authorization": "Bearer junk"})
	assert.Equal(t, http.StatusForbidden, garbage.Code)

	// Token minted for another tenant's secret.
	foreign, err := g.codec.Issue("carol-dan", "ab083125")
	require.NoError(t, err)
	mismatch := do(h, "POST", "/amanda-boris/download/highlight", "", map[string]string{"Authorization": "Bearer " + foreign})
	assert.Equal(t, http.StatusForbidden, mismatch.Code)
	assert.Equal(t, garbage.Body.String(), mismatch.Body.String())

	// Expired token.
	past := time.Now().Add(-48 * time.Hour)
	gOld := testGateway(st, jwt.ClockFunc(func() time.Time { return past }))
	expired, err := gOld.codec.Issue("amanda-boris", "ab083125")
	require.NoError(t, err)
	w := do(h, "POST", "/amanda-boris/download/highlight", "", map[string]string{"Authorization": "Bearer " + expired})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestDownloadMissingObject(t *testing.T) {
	g := testGateway(mapStore{}, nil)
	h := g.Handler()

	tok, err := g.codec.Issue("amanda-boris", "ab083125")
	require.NoError(t, err)
	w := do(h, "POST", "/amanda-boris/download/highlight", "", map[string]string{"Authorization": "Bearer " + tok})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Not found", errBody(t, w))
}

func TestPublicStream(t *testing.T) {
	st := mapStore{
		"amanda-boris/hls/highlight/master.m3u8":         []byte("#EXTM3U\n"),
		"amanda-boris/hls/highlight/1080p/segment000.ts": bytes.Repeat([]byte("s"), 188),
		"amanda-boris/thumbs/highlight.jpg":              []byte("\xff\xd8jpeg"),
	}
	g := testGateway(st, nil)
	h := g.Handler()

	w := do(h, "GET", "/amanda-boris/hls/highlight/master.m3u8", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/vnd.apple.mpegurl", w.Header().Get("Content-Type"))
	assert.Equal(t, "public, max-age=3600", w.Header().Get("Cache-Control"))
	assert.Equal(t, "#EXTM3U\n", w.Body.String())

	w = do(h, "GET", "/amanda-boris/hls/highlight/1080p/segment000.ts", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "video/mp2t", w.Header().Get("Content-Type"))
	assert.Equal(t, "public, max-age=31536000, immutable", w.Header().Get("Cache-Control"))
	assert.Equal(t, "188", w.Header().Get("Content-Length"))

	w = do(h, "GET", "/amanda-boris/thumbs/highlight.jpg", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/jpeg", w.Header().Get("Content-Type"))
	assert.Equal(t, "public, max-age=31536000, immutable", w.Header().Get("Cache-Control"))

	w = do(h, "GET", "/amanda-boris/hls/missing.m3u8", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPreflight(t *testing.T) {
	g := testGateway(mapStore{}, nil)
	h := g.Handler()

	w := do(h, "OPTIONS", "/amanda-boris/download/highlight", "", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.Bytes())
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET, POST, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Content-Type, Authorization", w.Header().Get("Access-Control-Allow-Headers"))
	assert.Equal(t, "86400", w.Header().Get("Access-Control-Max-Age"))
}

func TestCORSOriginReflection(t *testing.T) {
	g := testGateway(mapStore{}, nil)
	h := g.Handler()

	w := do(h, "OPTIONS", "/amanda-boris/auth", "", map[string]string{"Origin": "https://www.flyiniris.com"})
	assert.Equal(t, "https://www.flyiniris.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "Origin", w.Header().Get("Vary"))

	w = do(h, "OPTIONS", "/amanda-boris/auth", "", map[string]string{"Origin": "https://example.com"})
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "Origin", w.Header().Get("Vary"))
}

func TestUnmatchedRoutes(t *testing.T) {
	g := testGateway(mapStore{}, nil)
	h := g.Handler()

	for _, tc := range []struct{ method, path string }{
		{"GET", "/amanda-boris/unknown"},
		{"GET", "/amanda-boris/auth"}, // wrong verb, same 404 as wrong path
		{"DELETE", "/amanda-boris/hls/x.m3u8"},
		{"GET", "/"},
	} {
		w := do(h, tc.method, tc.path, "", nil)
		assert.Equal(t, http.StatusNotFound, w.Code, "%s %s", tc.method, tc.path)
		assert.Equal(t, "Not found", errBody(t, w), "%s %s", tc.method, tc.path)
	}
}

func TestAdapterPanicBecomesInternalError(t *testing.T) {
	g := testGateway(panicStore{}, nil)
	h := g.Handler()

	w := do(h, "GET", "/amanda-boris/hls/highlight/master.m3u8", "", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal error", errBody(t, w))
}
