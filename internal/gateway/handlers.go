// internal/gateway/handlers.go
package gateway

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"irisgate/pkg/secrets"
	"irisgate/pkg/store"
	"irisgate/pkg/token"
)

// Error bodies are deliberately coarse. A missing tenant, a wrong password
// and a forged token must not be tellable apart by message.
const (
	msgNotFound    = "Not found"
	msgBadPassword = "Invalid password"
	msgNoPassword  = "Missing password"
	msgNoBearer    = "Missing or invalid authorization"
	msgBadToken    = "Invalid or expired token"
	msgInternal    = "Internal error"
)

// Gateway holds the collaborators for one deployment. It keeps no per-request
// state; every field is safe for concurrent use.
type Gateway struct {
	secrets secrets.Provider
	store   store.Store
	codec   token.Codec
	apex    string
	log     *zap.SugaredLogger
}

func New(sp secrets.Provider, st store.Store, codec token.Codec, apex string, log *zap.SugaredLogger) *Gateway {
	return &Gateway{secrets: sp, store: st, codec: codec, apex: apex, log: log}
}

// dispatch classifies the request and hands it to the matching handler.
func (g *Gateway) dispatch(w http.ResponseWriter, r *http.Request) {
	route := Classify(r.Method, r.URL.Path)
	rec := &statusRecorder{ResponseWriter: w}
	defer observe(route.Intent, rec)

	switch route.Intent {
	case IntentIssueToken:
		g.handleIssueToken(rec, r, route)
	case IntentDownload:
		g.handleDownload(rec, r, route)
	case IntentStream:
		g.handleAsset(rec, r, route.Tenant+"/hls/"+route.Resource)
	case IntentThumbnail:
		g.handleAsset(rec, r, route.Tenant+"/thumbs/"+route.Resource)
	default:
		writeError(rec, msgNotFound, http.StatusNotFound)
	}
}

func (g *Gateway) handleIssueToken(w http.ResponseWriter, r *http.Request, route Route) {
	var body struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Password == "" {
		writeError(w, msgNoPassword, http.StatusBadRequest)
		return
	}

	secret, err := g.secrets.LookupSecret(r.Context(), route.Tenant)
	if err != nil && !errors.Is(err, secrets.ErrNotFound) {
		g.log.Errorw("secret lookup", "tenant", route.Tenant, "err", err)
		writeError(w, msgInternal, http.StatusInternalServerError)
		return
	}
	// A missing tenant and a wrong password take the same path out.
	if err != nil || subtle.ConstantTimeCompare([]byte(secret), []byte(body.Password)) != 1 {
		writeError(w, msgBadPassword, http.StatusUnauthorized)
		return
	}

	tok, err := g.codec.Issue(route.Tenant, secret)
	if err != nil {
		g.log.Errorw("token issue", "tenant", route.Tenant, "err", err)
		writeError(w, msgInternal, http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]string{"token": tok}, http.StatusOK)
}

func (g *Gateway) handleDownload(w http.ResponseWriter, r *http.Request, route Route) {
	authz := r.Header.Get("Authorization")
	if !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
		writeError(w, msgNoBearer, http.StatusUnauthorized)
		return
	}
	raw := strings.TrimSpace(authz[len("Bearer "):])

	secret, err := g.secrets.LookupSecret(r.Context(), route.Tenant)
	if err != nil && !errors.Is(err, secrets.ErrNotFound) {
		g.log.Errorw("secret lookup", "tenant", route.Tenant, "err", err)
		writeError(w, msgInternal, http.StatusInternalServerError)
		return
	}
	if err != nil {
		// No secret means no token could ever verify; same response as a bad one.
		writeError(w, msgBadToken, http.StatusForbidden)
		return
	}

	claims, err := g.codec.Verify(raw, secret)
	if err != nil || claims.Tenant != route.Tenant {
		writeError(w, msgBadToken, http.StatusForbidden)
		return
	}

	key := route.Tenant + "/originals/" + route.Resource + ".mp4"
	obj, err := g.store.Get(r.Context(), key)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, msgNotFound, http.StatusNotFound)
		return
	}
	if err != nil {
		g.log.Errorw("object fetch", "key", key, "err", err)
		writeError(w, msgInternal, http.StatusInternalServerError)
		return
	}
	defer obj.Body.Close()

	w.Header().Set("Content-Type", "video/mp4")
	w.Header().Set("Content-Disposition", `attachment; filename="`+route.Resource+`.mp4"`)
	w.Header().Set("Content-Length", strconv.FormatInt(obj.Size, 10))
	w.Header().Set("Cache-Control", cacheNone)
	w.WriteHeader(http.StatusOK)
	g.copyBody(w, obj.Body, key)
}

// handleAsset serves the public streaming and thumbnail routes. No auth: the
// tenant slug itself is the capability on these paths.
func (g *Gateway) handleAsset(w http.ResponseWriter, r *http.Request, key string) {
	obj, err := g.store.Get(r.Context(), key)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, msgNotFound, http.StatusNotFound)
		return
	}
	if err != nil {
		g.log.Errorw("object fetch", "key", key, "err", err)
		writeError(w, msgInternal, http.StatusInternalServerError)
		return
	}
	defer obj.Body.Close()

	contentType, cacheControl := AssetHeaders(key)
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", cacheControl)
	w.Header().Set("Content-Length", strconv.FormatInt(obj.Size, 10))
	w.WriteHeader(http.StatusOK)
	g.copyBody(w, obj.Body, key)
}

// copyBody forwards the store handle to the client without buffering. A copy
// error here is almost always the client hanging up mid-stream; the handle is
// closed by the caller's defer either way.
func (g *Gateway) copyBody(w http.ResponseWriter, body io.Reader, key string) {
	if _, err := io.Copy(w, body); err != nil {
		g.log.Debugw("stream aborted", "key", key, "err", err)
	}
}
