package middleware

import (
	"crypto/sha1"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/temple-visitor-services/internal/config"
	"github.com/iliyamo/temple-visitor-services/internal/utils"
)

func TestJWTAuthAndRequireRole(t *testing.T) {
	e := echo.New()
	e.GET("/admin/ping", func(c echo.Context) error {
		id, ok := AdminID(c)
		require.True(t, ok)
		return c.String(http.StatusOK, fmt.Sprint(id))
	}, JWTAuth("secret"), RequireRole("ADMIN"))

	call := func(auth string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
		if auth != "" {
			req.Header.Set("Authorization", auth)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	admin, err := utils.NewAccessToken("secret", 7, "ADMIN", 5)
	require.NoError(t, err)
	rec := call("Bearer " + admin.Token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "7", rec.Body.String())

	assert.Equal(t, http.StatusUnauthorized, call("").Code)
	assert.Equal(t, http.StatusUnauthorized, call("Bearer not.a.jwt").Code)

	forged, err := utils.NewAccessToken("other-secret", 7, "ADMIN", 5)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, call("Bearer "+forged.Token).Code)

	clerk, err := utils.NewAccessToken("secret", 8, "CLERK", 5)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, call("Bearer "+clerk.Token).Code)
}

func rateCfg() config.RateLimitConfig {
	return config.RateLimitConfig{
		Enabled: true, Capacity: 2, RefillTokens: 1, RefillInterval: time.Second,
		TTL: 10 * time.Minute, KeyStrategy: "ip_route", Prefix: "temple:rl",
	}
}

func TestTokenBucketAllowsThenBlocks(t *testing.T) {
	fixed := time.UnixMilli(1_790_000_000_000)
	now = func() time.Time { return fixed }
	t.Cleanup(func() { now = time.Now })

	rdb, mock := redismock.NewClientMock()
	e := echo.New()
	e.POST("/v1/donations", func(c echo.Context) error { return c.NoContent(http.StatusCreated) },
		NewTokenBucket(rateCfg(), rdb))

	key := "temple:rl:ip:192.0.2.1:route:POST /v1/donations"
	args := []interface{}{fixed.UnixMilli(), 2, 1, int64(1000), int64(600)}
	mock.ExpectEvalSha(tokenBucketScript.Hash(), []string{key}, args...).SetVal([]interface{}{int64(1), int64(1), int64(0)})
	mock.ExpectEvalSha(tokenBucketScript.Hash(), []string{key}, args...).SetVal([]interface{}{int64(0), int64(0), int64(400)})

	post := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/v1/donations", nil)
		req.RemoteAddr = "192.0.2.1:40000"
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	rec := post()
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("X-RateLimit-Remaining"))

	rec = post()
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenBucketFailsOpen(t *testing.T) {
	fixed := time.UnixMilli(1_790_000_000_000)
	now = func() time.Time { return fixed }
	t.Cleanup(func() { now = time.Now })

	rdb, mock := redismock.NewClientMock()
	e := echo.New()
	e.POST("/v1/donations", func(c echo.Context) error { return c.NoContent(http.StatusCreated) },
		NewTokenBucket(rateCfg(), rdb))

	key := "temple:rl:ip:192.0.2.1:route:POST /v1/donations"
	mock.ExpectEvalSha(tokenBucketScript.Hash(), []string{key}, fixed.UnixMilli(), 2, 1, int64(1000), int64(600)).
		SetErr(errors.New("connection refused"))

	req := httptest.NewRequest(http.MethodPost, "/v1/donations", nil)
	req.RemoteAddr = "192.0.2.1:40000"
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDisabledMiddlewarePassesThrough(t *testing.T) {
	e := echo.New()
	e.GET("/x", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) },
		NewTokenBucket(config.RateLimitConfig{}, nil), NewRedisCache(config.CacheConfig{}, nil))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func cacheCfg() config.CacheConfig {
	return config.CacheConfig{
		Enabled: true, Methods: map[string]bool{"GET": true}, TTL: time.Minute,
		KeyStrategy: "route_query", Prefix: "temple:cache", MaxBodyBytes: 1024,
	}
}

func festivalsKey(templeID string) string {
	sum := sha1.Sum([]byte("route:/v1/temples/:id/festivals:q::id:" + templeID))
	return fmt.Sprintf("temple:cache:%x", sum)
}

func TestRedisCacheMissStoresThenHitReplays(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	calls := 0
	e := echo.New()
	e.GET("/v1/temples/:id/festivals", func(c echo.Context) error {
		calls++
		return c.Blob(http.StatusOK, "text/plain", []byte("Diwali"))
	}, NewRedisCache(cacheCfg(), rdb))

	entry, err := encodeEntry(http.StatusOK, http.Header{"Content-Type": {"text/plain"}}, []byte("Diwali"))
	require.NoError(t, err)
	key := festivalsKey("1")

	mock.ExpectGet(key).RedisNil()
	mock.ExpectSet(key, entry, time.Minute).SetVal("OK")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/temples/1/festivals", nil))
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.Equal(t, "Diwali", rec.Body.String())

	mock.ExpectGet(key).SetVal(string(entry))
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/temples/1/festivals", nil))
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))
	assert.Equal(t, "Diwali", rec.Body.String())
	assert.Equal(t, "text/plain", rec.Header().Get("Content-Type"))

	assert.Equal(t, 1, calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCacheSkipsErrorsAndOversizeBodies(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	cfg := cacheCfg()
	cfg.MaxBodyBytes = 4
	e := echo.New()
	e.GET("/v1/temples/:id/festivals", func(c echo.Context) error {
		if c.Param("id") == "404" {
			return c.String(http.StatusNotFound, "no")
		}
		return c.String(http.StatusOK, "too long for the cache")
	}, NewRedisCache(cfg, rdb))

	mock.ExpectGet(festivalsKey("404")).RedisNil()
	mock.ExpectGet(festivalsKey("2")).RedisNil()
	for _, id := range []string{"404", "2"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/temples/"+id+"/festivals", nil))
		assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDecodeEntryRejectsGarbage(t *testing.T) {
	_, _, _, ok := decodeEntry([]byte{0, 0})
	assert.False(t, ok)
	_, _, _, ok = decodeEntry([]byte{0, 0, 0, 200, 0, 0, 1, 0})
	assert.False(t, ok)
}
