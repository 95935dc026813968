package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrino-academy/andrino-api/internal/models"
	appErrors "github.com/andrino-academy/andrino-api/pkg/errors"
	"github.com/andrino-academy/andrino-api/pkg/logger"
)

type tokenValidatorStub struct {
	claims *models.JWTClaims
}

func (s tokenValidatorStub) ValidateToken(token string) (*models.JWTClaims, error) {
	if token != "good" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token")
	}
	return s.claims, nil
}

type observerStub struct {
	mu     sync.Mutex
	paths  []string
	status []int
}

func (o *observerStub) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.paths = append(o.paths, path)
	o.status = append(o.status, status)
}

type limitedCounter struct{ n int }

func (l *limitedCounter) RecordRateLimited() { l.n++ }

type recorderStub struct {
	entries []models.AuditLog
}

func (r *recorderStub) Record(ctx context.Context, entry models.AuditLog) {
	r.entries = append(r.entries, entry)
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(handlers...)
	router.GET("/protected", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(logger.UserIDKey))
	})
	return router
}

func perform(router http.Handler, header string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestJWTMiddleware(t *testing.T) {
	validator := tokenValidatorStub{claims: &models.JWTClaims{UserID: "inst-1", Role: models.RoleInstructor}}
	router := newRouter(JWT(validator))

	assert.Equal(t, http.StatusUnauthorized, perform(router, "").Code)
	assert.Equal(t, http.StatusUnauthorized, perform(router, "Token good").Code)
	assert.Equal(t, http.StatusUnauthorized, perform(router, "Bearer bad").Code)

	w := perform(router, "Bearer good")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "inst-1", w.Body.String())
}

func TestOptionalJWTDoesNotBlock(t *testing.T) {
	validator := tokenValidatorStub{claims: &models.JWTClaims{UserID: "inst-1", Role: models.RoleInstructor}}
	router := newRouter(OptionalJWT(validator))

	w := perform(router, "Bearer bad")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())

	w = perform(router, "Bearer good")
	assert.Equal(t, "inst-1", w.Body.String())
}

func TestRequireRoles(t *testing.T) {
	coordinator := tokenValidatorStub{claims: &models.JWTClaims{UserID: "c1", Role: models.RoleCoordinator}}
	instructor := tokenValidatorStub{claims: &models.JWTClaims{UserID: "i1", Role: models.RoleInstructor}}

	allowed := newRouter(JWT(coordinator), RequireRoles(models.RoleCoordinator, models.RoleManager))
	assert.Equal(t, http.StatusOK, perform(allowed, "Bearer good").Code)

	denied := newRouter(JWT(instructor), RequireRoles(models.RoleCoordinator, models.RoleManager))
	assert.Equal(t, http.StatusForbidden, perform(denied, "Bearer good").Code)

	anonymous := newRouter(RequireRoles(models.RoleCoordinator))
	assert.Equal(t, http.StatusUnauthorized, perform(anonymous, "").Code)
}

func TestMetricsMiddlewareUsesRoutePattern(t *testing.T) {
	observer := &observerStub{}
	router := newRouter(Metrics(observer))

	perform(router, "")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing/123", nil))

	assert.Equal(t, []string{"/protected", "unmatched"}, observer.paths)
	assert.Equal(t, []int{http.StatusOK, http.StatusNotFound}, observer.status)
}

func TestRateLimiterPerCaller(t *testing.T) {
	counter := &limitedCounter{}
	limiter := NewRateLimiter(0.001, 2, counter)
	one := tokenValidatorStub{claims: &models.JWTClaims{UserID: "inst-1", Role: models.RoleInstructor}}
	two := tokenValidatorStub{claims: &models.JWTClaims{UserID: "inst-2", Role: models.RoleInstructor}}

	routerOne := newRouter(JWT(one), limiter.Middleware())
	routerTwo := newRouter(JWT(two), limiter.Middleware())

	assert.Equal(t, http.StatusOK, perform(routerOne, "Bearer good").Code)
	assert.Equal(t, http.StatusOK, perform(routerOne, "Bearer good").Code)
	w := perform(routerOne, "Bearer good")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Equal(t, 1, counter.n)

	assert.Equal(t, http.StatusOK, perform(routerTwo, "Bearer good").Code, "buckets are per user")
}

func TestRateLimiterDisabled(t *testing.T) {
	router := newRouter(NewRateLimiter(0, 0, nil).Middleware())
	for i := 0; i < 20; i++ {
		require.Equal(t, http.StatusOK, perform(router, "").Code)
	}
}

func TestRateLimiterEvictsIdleVisitors(t *testing.T) {
	limiter := NewRateLimiter(1, 1, nil)
	now := time.Date(2024, 1, 7, 13, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	limiter.limiterFor("ip:a")
	now = now.Add(limiterIdleTTL + time.Second)
	limiter.limiterFor("ip:b")

	assert.Len(t, limiter.visitors, 1)
	assert.Contains(t, limiter.visitors, "ip:b")
}

func TestAuditMiddlewareRecordsSuccessOnly(t *testing.T) {
	gin.SetMode(gin.TestMode)
	recorder := &recorderStub{}
	validator := tokenValidatorStub{claims: &models.JWTClaims{UserID: "coord-1", Role: models.RoleCoordinator}}
	router := gin.New()
	router.Use(JWT(validator))
	router.GET("/export", Audit(recorder, models.AuditActionAvailabilityExport, "availability"), func(c *gin.Context) {
		if c.Query("fail") != "" {
			_ = c.Error(errors.New("boom"))
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusOK)
	})

	for _, target := range []string{"/export?trackId=track-1", "/export?trackId=track-1&fail=1"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, target, nil)
		req.Header.Set("Authorization", "Bearer good")
		router.ServeHTTP(w, req)
	}

	require.Len(t, recorder.entries, 1)
	entry := recorder.entries[0]
	assert.Equal(t, models.AuditActionAvailabilityExport, entry.Action)
	require.NotNil(t, entry.UserID)
	assert.Equal(t, "coord-1", *entry.UserID)
	require.NotNil(t, entry.ResourceID)
	assert.Equal(t, "track-1", *entry.ResourceID)
}

func TestResponseMetaCacheHit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(WithResponseMeta())
	var meta map[string]interface{}
	router.GET("/", func(c *gin.Context) {
		SetCacheHit(c, true)
		meta = ExtractMeta(c)
		c.Status(http.StatusOK)
	})
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.NotNil(t, meta)
	assert.Equal(t, true, meta["cacheHit"])
	assert.Contains(t, meta, "processingTimeMs")
}

func TestExtractMetaWithoutMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Nil(t, ExtractMeta(c))

	SetCacheHit(c, false)
	assert.Equal(t, map[string]interface{}{"cacheHit": false}, ExtractMeta(c))
}
