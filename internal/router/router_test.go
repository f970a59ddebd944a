package router

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-booking-api/internal/config"
	"github.com/iliyamo/hotel-booking-api/internal/handler"
	"github.com/iliyamo/hotel-booking-api/internal/metrics"
	"github.com/iliyamo/hotel-booking-api/internal/repository"
	"github.com/iliyamo/hotel-booking-api/internal/storage"
	"github.com/iliyamo/hotel-booking-api/internal/utils"
)

const testSecret = "router-test-secret"

var userCols = []string{"id", "firstname", "lastname", "username", "about", "email", "password", "avatarurl", "role", "created_at"}

// capture records the driver value it is matched against.
type capture struct{ v *string }

func (c capture) Match(v driver.Value) bool {
	s, ok := v.(string)
	if ok {
		*c.v = s
	}
	return ok
}

type server struct {
	e    *echo.Echo
	mock sqlmock.Sqlmock
}

func newServer(t *testing.T) *server {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})

	cfg := config.Config{JWTSecret: testSecret, TokenTTLMin: 60, BcryptCost: 4, Upload: config.UploadConfig{MaxBytes: 1024}}
	store, err := storage.NewAvatarStore(t.TempDir())
	require.NoError(t, err)
	m := metrics.New()

	users := repository.NewUserRepo(db)
	msgs := repository.NewMessageRepo(db)
	h := Handlers{
		Auth:       handler.NewAuthHandler(cfg, db, users, repository.NewSignupCodeRepo(db)),
		Profile:    handler.NewProfileHandler(cfg, users),
		Hotels:     handler.NewHotelHandler(repository.NewHotelRepo(db)),
		Bookings:   handler.NewBookingHandler(db, repository.NewBookingRepo(db), msgs, users, nil, m),
		Favourites: handler.NewFavouriteHandler(repository.NewFavouriteRepo(db)),
		Messages:   handler.NewMessageHandler(msgs),
		Uploads:    handler.NewUploadHandler(users, store, 1<<20, m),
	}
	o := Options{
		JWTSecret: cfg.JWTSecret,
		Cache:     config.CacheConfig{Enabled: true, Methods: map[string]bool{http.MethodGet: true}, TTL: time.Second},
		RateLimit: config.RateLimitConfig{Enabled: true, Capacity: 1, RefillTokens: 1, RefillInterval: time.Second},
		Metrics:   m,
	}

	e := NewEcho(cfg, m)
	RegisterRoutes(e, h, o)
	RegisterAPI(e, h, o)
	return &server{e: e, mock: mock}
}

func (s *server) do(method, target, body, token string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func body(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestRegisterLoginBrowse(t *testing.T) {
	s := newServer(t)

	var hash string
	s.mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs("", "", "alice", "", "a@x.com", capture{&hash}, "", "user").
		WillReturnResult(sqlmock.NewResult(3, 1))

	rec := s.do(http.MethodPost, "/api/v1/users/public/register", `{"username":"alice","password":"p1","email":"a@x.com"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "p1", hash)

	s.mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE username = ?")).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(3, "", "", "alice", "", "a@x.com", hash, "", "user", time.Now()))

	rec = s.do(http.MethodPost, "/api/v1/users/login", `{"username":"alice","password":"p1"}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	login := body(t, rec)
	assert.NotEmpty(t, login["token"])
	assert.NotContains(t, login["user"], "password")
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))

	s.mock.ExpectQuery(regexp.QuoteMeta("FROM hotels ORDER BY id")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "city", "country", "address", "rating", "review_count", "image_url"}))

	rec = s.do(http.MethodGet, "/api/v1/hotels", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "No hotels found", body(t, rec)["message"])

	rec = s.do(http.MethodPost, "/api/v1/hotels/bookings",
		`{"start_date":"2025-07-01","end_date":"2025-07-02","first_message":"hi","room_ids":[1]}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Token required", body(t, rec)["message"])
}

func TestBookingCreate_BadTokenIsForbidden(t *testing.T) {
	s := newServer(t)
	rec := s.do(http.MethodPost, "/api/v1/hotels/bookings", `{}`, "not-a-jwt")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Invalid or expired token", body(t, rec)["message"])
}

func TestUserList_RequiresAdmin(t *testing.T) {
	s := newServer(t)

	var hash string
	s.mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs("", "", "bob", "", "b@x.com", capture{&hash}, "", "user").
		WillReturnResult(sqlmock.NewResult(4, 1))
	require.Equal(t, http.StatusCreated,
		s.do(http.MethodPost, "/api/v1/users/public/register", `{"username":"bob","password":"pw","email":"b@x.com"}`, "").Code)

	s.mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE username = ?")).
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(4, "", "", "bob", "", "b@x.com", hash, "", "user", time.Now()))
	rec := s.do(http.MethodPost, "/api/v1/users/login", `{"username":"bob","password":"pw"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	token := body(t, rec)["token"].(string)

	rec = s.do(http.MethodGet, "/api/v1/users/list", "", token)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Access denied", body(t, rec)["message"])
}

func TestProbesAndMetrics(t *testing.T) {
	s := newServer(t)

	rec := s.do(http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "hotel_api_http_requests_total")
}

func TestUnknownRouteIsJSON404(t *testing.T) {
	s := newServer(t)
	rec := s.do(http.MethodGet, "/api/v1/nope", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not Found", body(t, rec)["message"])
}

func TestErrorHandler(t *testing.T) {
	e := echo.New()

	rec := httptest.NewRecorder()
	ErrorHandler(errors.New("dial tcp: refused"), e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"message":"Internal server error"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	ErrorHandler(echo.NewHTTPError(http.StatusTeapot, "short and stout"), e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec))
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.JSONEq(t, `{"message":"short and stout"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	ErrorHandler(echo.ErrMethodNotAllowed, e.NewContext(httptest.NewRequest(http.MethodHead, "/", nil), rec))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestUploadAvatar_ChunkedBodyOverLimit(t *testing.T) {
	s := newServer(t)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("upload", "big.png")
	require.NoError(t, err)
	_, err = part.Write(bytes.Repeat([]byte{0x89}, 2<<20))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	tok, err := utils.IssueToken(testSecret, utils.Payload{ID: 3, Role: "user", Username: "alice"}, time.Hour)
	require.NoError(t, err)

	// io.MultiReader hides the length, so the body is read as chunked
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/upload-avatar", io.MultiReader(&buf))
	req.ContentLength = -1
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+tok.Token)
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "File too large", body(t, rec)["message"])
}
