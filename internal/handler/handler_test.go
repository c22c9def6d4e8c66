package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/lesson-booking/internal/handler"
	"github.com/iliyamo/lesson-booking/internal/model"
	"github.com/iliyamo/lesson-booking/internal/repository/memory"
	"github.com/iliyamo/lesson-booking/internal/service"
	"github.com/iliyamo/lesson-booking/internal/storage"
)

type fixture struct {
	e     *echo.Echo
	store *memory.Store
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	log, _ := test.NewNullLogger()
	store := memory.New(model.SeedLessons())
	lessons := handler.NewLessonHandler(service.NewCatalogService(store, service.WithLogger(log)))
	orders := handler.NewOrderHandler(service.NewOrderService(store, service.WithLogger(log)))

	e := echo.New()
	e.GET("/healthz", handler.Health)
	e.GET("/api/lessons", lessons.List)
	e.GET("/api/lessons/:id", lessons.Get)
	e.GET("/api/search", lessons.Search)
	e.PUT("/api/lessons/:id", lessons.UpdateSpaces)
	e.POST("/api/orders", orders.Place)
	return fixture{e: e, store: store}
}

func (f fixture) do(method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}

func decodeMap(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	return m
}

func TestHealth(t *testing.T) {
	rec := newFixture(t).do(http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestListLessons(t *testing.T) {
	f := newFixture(t)
	_, _ = f.store.UpdateSpaces(context.Background(), 7, 0)

	rec := f.do(http.MethodGet, "/api/lessons?sortBy=spaces&order=asc", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var lessons []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &lessons))
	require.Len(t, lessons, 10)
	assert.EqualValues(t, 7, lessons[0]["id"])
	assert.EqualValues(t, 0, lessons[0]["spaces"])
	assert.EqualValues(t, 100, lessons[0]["price"], "price is a JSON number")
	assert.Equal(t, "London", lessons[0]["location"])
}

func TestListLessons_BadSort(t *testing.T) {
	rec := newFixture(t).do(http.MethodGet, "/api/lessons?sortBy=colour", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, handler.CodeInvalidRequest, decodeMap(t, rec)["error"])
}

func TestSearch(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/api/search?q=science", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var lessons []model.Lesson
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &lessons))
	require.Len(t, lessons, 2)
	assert.Equal(t, "Science", lessons[0].Subject)
	assert.Equal(t, "Computer Science", lessons[1].Subject)

	rec = f.do(http.MethodGet, "/api/search?q=", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &lessons))
	assert.Len(t, lessons, 10)
}

func TestPlaceOrder_Created(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/api/orders", `{"name":"Ada Lovelace","phone":"0123","cart":[{"lesson_id":1},{"lesson_id":2,"seats":1}]}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var o model.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &o))
	assert.NotEmpty(t, o.ID)
	assert.Equal(t, []model.CartLine{{LessonID: 1, Seats: 1}, {LessonID: 2, Seats: 1}}, o.Lessons)

	l, err := f.store.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 4, l.Spaces)
}

func TestPlaceOrder_Errors(t *testing.T) {
	cases := []struct {
		name, body string
		status     int
		code       string
	}{
		{"malformed json", `{"name":`, http.StatusBadRequest, handler.CodeInvalidRequest},
		{"cart not an array", `{"name":"Ada","phone":"1","cart":"1"}`, http.StatusBadRequest, handler.CodeInvalidRequest},
		{"empty cart", `{"name":"Ada","phone":"1","cart":[]}`, http.StatusBadRequest, handler.CodeInvalidRequest},
		{"blank name", `{"name":" ","phone":"1","cart":[{"lesson_id":1}]}`, http.StatusBadRequest, handler.CodeInvalidRequest},
		{"unknown lesson", `{"name":"Ada","phone":"1","cart":[{"lesson_id":1},{"lesson_id":77}]}`, http.StatusConflict, handler.CodeOversold},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			rec := f.do(http.MethodPost, "/api/orders", tc.body)
			require.Equal(t, tc.status, rec.Code, rec.Body.String())
			assert.Equal(t, tc.code, decodeMap(t, rec)["error"])
			assert.Empty(t, f.store.Orders())

			l, _ := f.store.GetByID(context.Background(), 1)
			assert.Equal(t, 5, l.Spaces)
		})
	}
}

func TestPlaceOrder_OversoldListsLessons(t *testing.T) {
	f := newFixture(t)
	_, _ = f.store.UpdateSpaces(context.Background(), 3, 0)

	rec := f.do(http.MethodPost, "/api/orders", `{"name":"Ada","phone":"1","cart":[{"lesson_id":3}]}`)
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, []any{float64(3)}, decodeMap(t, rec)["unavailable"])
}

func TestGetLesson(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/api/lessons/3", "")
	require.Equal(t, http.StatusOK, rec.Code)
	m := decodeMap(t, rec)
	assert.EqualValues(t, 3, m["id"])
	assert.Equal(t, "Science", m["subject"])

	rec = f.do(http.MethodGet, "/api/lessons/99", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decodeMap(t, rec)["error"])

	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodGet, "/api/lessons/x", "").Code)
}

func TestUpdateSpaces(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPut, "/api/lessons/2", `{"spaces":12}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 12, decodeMap(t, rec)["spaces"])

	cases := []struct {
		target, body string
		status       int
	}{
		{"/api/lessons/abc", `{"spaces":1}`, http.StatusBadRequest},
		{"/api/lessons/0", `{"spaces":1}`, http.StatusBadRequest},
		{"/api/lessons/2", `{}`, http.StatusBadRequest},
		{"/api/lessons/2", `{"spaces":-3}`, http.StatusBadRequest},
		{"/api/lessons/2", `{"spaces":"many"}`, http.StatusBadRequest},
		{"/api/lessons/2", `{"spaces":4294967296}`, http.StatusBadRequest},
		{"/api/lessons/99", `{"spaces":1}`, http.StatusNotFound},
	}
	for _, tc := range cases {
		rec := f.do(http.MethodPut, tc.target, tc.body)
		assert.Equal(t, tc.status, rec.Code, "%s %s", tc.target, tc.body)
	}
}

func TestImages(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "art.png"), []byte("PNGDATA"), 0o644))

	e := echo.New()
	e.GET("/images/*", handler.NewImageHandler(storage.NewLocalImages(dir)).Get)

	req := httptest.NewRequest(http.MethodGet, "/images/art.png", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "PNGDATA", rec.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/images/missing.png", nil)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
