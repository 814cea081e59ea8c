package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/temple-visitor-services/internal/handler"
	"github.com/iliyamo/temple-visitor-services/internal/model"
	"github.com/iliyamo/temple-visitor-services/internal/queue"
	"github.com/iliyamo/temple-visitor-services/internal/repository"
	"github.com/iliyamo/temple-visitor-services/internal/service"
	"github.com/iliyamo/temple-visitor-services/internal/utils"
)

const secret = "router-test-secret"

// shortCircuit stands in for the Redis middlewares: it answers every
// request it sees with the given status.
func shortCircuit(code int) echo.MiddlewareFunc {
	return func(echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error { return c.String(code, "intercepted") }
	}
}

func newEcho(t *testing.T, cache, limit echo.MiddlewareFunc) (*echo.Echo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	clock := service.Clock(time.Now)
	pub := queue.NopPublisher{}
	temples := repository.NewTempleRepo(db)
	darshan := repository.NewDarshanRepo(db)
	bookings := repository.NewBookingRepo(db)
	visitors := repository.NewVisitorRepo(db)
	donations := repository.NewDonationRepo(db)
	pujas := repository.NewPujaRepo(db)
	prasadam := repository.NewPrasadamRepo(db)

	bookingSvc := service.NewBookingService(darshan, bookings, visitors, pub, clock)
	visitorSvc := service.NewVisitorService(visitors, bookings, donations, pujas, prasadam, pub, clock)
	adminSvc := service.NewAdminService(service.AdminDeps{
		Admins: repository.NewAdminRepo(db), Dashboard: repository.NewDashboardRepo(db), Search: repository.NewSearchRepo(db),
		Visitors: visitors, Bookings: bookings, Darshan: darshan, Donations: donations, Pujas: pujas, Prasadam: prasadam,
	}, bookingSvc, service.AuthConfig{JWTSecret: secret, AccessTTLMin: 5, BcryptCost: 4}, pub, clock)

	e := echo.New()
	Register(e, Handlers{
		DB:       db,
		Catalog:  handler.NewCatalogHandler(service.NewCatalogService(temples, darshan, donations, pujas, prasadam, clock)),
		Visitors: handler.NewVisitorHandler(visitorSvc),
		Bookings: handler.NewBookingHandler(bookingSvc, visitorSvc),
		Offerings: handler.NewOfferingHandler(service.NewDonationService(donations, visitors, pub, clock),
			service.NewPujaService(pujas, visitors, pub, clock), service.NewPrasadamService(prasadam, visitors, pub, clock), visitorSvc),
		Admin:     handler.NewAdminHandler(adminSvc, 1),
		JWTSecret: secret,
		Cache:     cache,
		RateLimit: limit,
	})
	return e, mock
}

func serve(e *echo.Echo, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHealthPingsDatabase(t *testing.T) {
	e, mock := newEcho(t, nil, nil)
	mock.ExpectPing()
	rec := serve(e, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCacheCoversCatalogButNotSchedules(t *testing.T) {
	e, _ := newEcho(t, shortCircuit(http.StatusTeapot), nil)

	for _, p := range []string{"/v1/temples", "/v1/temples/1", "/v1/temples/1/puja-types", "/v1/temples/1/festivals"} {
		assert.Equal(t, http.StatusTeapot, serve(e, http.MethodGet, p, "").Code, p)
	}
	// reaches the handler, which rejects the date before touching the store
	assert.Equal(t, http.StatusBadRequest, serve(e, http.MethodGet, "/v1/temples/1/schedules?date=x", "").Code)
}

func TestRateLimitGuardsWrites(t *testing.T) {
	e, _ := newEcho(t, nil, shortCircuit(http.StatusTooManyRequests))
	for _, p := range []string{"/v1/darshan-bookings", "/v1/donations", "/v1/virtual-pujas", "/v1/prasadam-orders", "/v1/visitors", "/v1/admin/login"} {
		assert.Equal(t, http.StatusTooManyRequests, serve(e, http.MethodPost, p, "").Code, p)
	}
}

func TestAdminRoutesRequireToken(t *testing.T) {
	e, mock := newEcho(t, nil, nil)

	assert.Equal(t, http.StatusUnauthorized, serve(e, http.MethodGet, "/v1/admin/overview", "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(e, http.MethodDelete, "/v1/admin/visitors/3", "garbage").Code)

	other, err := utils.NewAccessToken(secret, 7, "VISITOR", 5)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, serve(e, http.MethodGet, "/v1/admin/visitors", other.Token).Code)

	tok, err := utils.NewAccessToken(secret, 1, model.RoleAdmin, 5)
	require.NoError(t, err)
	// a valid token gets as far as the handler's own validation
	rec := serve(e, http.MethodDelete, "/v1/admin/visitors/abc", tok.Token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
