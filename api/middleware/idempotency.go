package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mercaditoapp/mercadito-backend/api/responses"
	pkgerrors "github.com/mercaditoapp/mercadito-backend/pkg/errors"
	"github.com/mercaditoapp/mercadito-backend/pkg/logger"
	pkgredis "github.com/mercaditoapp/mercadito-backend/pkg/redis"
)

const (
	defaultIdempotencyTTL  = 24 * time.Hour
	criticalIdempotencyTTL = 7 * 24 * time.Hour
)

// idempotencyRule keys a method plus request path to a replay window. A rule
// matches on the exact path, or on prefix+suffix when prefix is set. Matching
// runs on the raw URL path because the middleware sits ahead of nested route
// resolution, where chi has not narrowed the pattern yet.
type idempotencyRule struct {
	method string
	exact  string
	prefix string
	suffix string
	ttl    time.Duration
}

func (r idempotencyRule) matches(method, path string) bool {
	if r.method != method {
		return false
	}
	if r.prefix != "" {
		return strings.HasPrefix(path, r.prefix) && strings.HasSuffix(path, r.suffix)
	}
	return path == r.exact
}

// Commission writes change how every future order is settled, so their
// replays are kept out for a full week. Notification acks only need to absorb
// client retries.
var idempotencyRules = []idempotencyRule{
	{method: http.MethodPost, prefix: "/api/v1/notifications/", suffix: "/read", ttl: defaultIdempotencyTTL},
	{method: http.MethodPost, exact: "/api/v1/notifications/read-all", ttl: defaultIdempotencyTTL},
	{method: http.MethodPost, exact: "/api/admin/v1/commissions", ttl: criticalIdempotencyTTL},
	{method: http.MethodPost, exact: "/api/admin/v1/commissions/bulk-apply", ttl: criticalIdempotencyTTL},
}

func routeTTL(method, path string) (time.Duration, bool) {
	if path == "" {
		return 0, false
	}
	for _, rule := range idempotencyRules {
		if rule.matches(method, path) {
			return rule.ttl, true
		}
	}
	return 0, false
}

// storedResponse is the Redis payload replayed on duplicate requests. The
// request hash pins the key to one request body.
type storedResponse struct {
	Status      int               `json:"status"`
	Body        string            `json:"body"`
	Headers     map[string]string `json:"headers,omitempty"`
	RequestHash string            `json:"request_hash"`
}

// Idempotency replays the first response for requests repeating an
// Idempotency-Key on covered routes. Reusing a key with a different body is
// rejected rather than replayed.
func Idempotency(store pkgredis.IdempotencyStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ttl, covered := routeTTL(r.Method, r.URL.Path)
			if !covered || store == nil {
				next.ServeHTTP(w, r)
				return
			}

			key := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
			if key == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "Idempotency-Key header required"))
				return
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read request"))
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			sum := sha256.Sum256(body)
			requestHash := base64.StdEncoding.EncodeToString(sum[:])
			storeKey := store.IdempotencyKey(requestScope(r), key)

			raw, err := store.Get(r.Context(), storeKey)
			switch {
			case err != nil && !errors.Is(err, redis.Nil):
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check idempotency"))
				return
			case raw != "":
				replayStored(w, r, logg, raw, requestHash)
				return
			}

			buf := &bufferingWriter{ResponseWriter: w}
			next.ServeHTTP(buf, r)
			persistResponse(r, logg, store, storeKey, ttl, buf, requestHash)
		})
	}
}

func replayStored(w http.ResponseWriter, r *http.Request, logg *logger.Logger, raw, requestHash string) {
	var stored storedResponse
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode idempotency record"))
		return
	}
	if stored.RequestHash != requestHash {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeIdempotency, "idempotency key reused with different request body"))
		return
	}
	if ct := stored.Headers["Content-Type"]; ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	w.WriteHeader(stored.Status)
	if decoded, err := base64.StdEncoding.DecodeString(stored.Body); err == nil {
		_, _ = w.Write(decoded)
	}
}

func persistResponse(r *http.Request, logg *logger.Logger, store pkgredis.IdempotencyStore, storeKey string, ttl time.Duration, buf *bufferingWriter, requestHash string) {
	status := buf.status
	if status == 0 {
		status = http.StatusOK
	}
	stored := storedResponse{
		Status:      status,
		Body:        base64.StdEncoding.EncodeToString(buf.body.Bytes()),
		RequestHash: requestHash,
	}
	if ct := buf.Header().Get("Content-Type"); ct != "" {
		stored.Headers = map[string]string{"Content-Type": ct}
	}

	payload, err := json.Marshal(stored)
	if err != nil {
		logNonFatal(r, logg, "marshal idempotency record", err)
		return
	}
	if _, err := store.SetNX(r.Context(), storeKey, string(payload), ttl); err != nil {
		logNonFatal(r, logg, "persist idempotency record", err)
	}
}

// requestScope keeps keys private to the acting user and seller so one
// tenant's key cannot replay another's response.
func requestScope(r *http.Request) string {
	return strings.Join([]string{
		UserIDFromContext(r.Context()),
		SellerIDFromContext(r.Context()),
		r.Method,
		r.URL.Path,
	}, "|")
}

func logNonFatal(r *http.Request, logg *logger.Logger, msg string, err error) {
	if logg != nil {
		logg.Error(r.Context(), msg, err)
	}
}

// bufferingWriter tees the response so it can be stored for replay.
type bufferingWriter struct {
	http.ResponseWriter
	body   bytes.Buffer
	status int
}

func (w *bufferingWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *bufferingWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}
