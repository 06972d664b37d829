package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/tbourn/go-fitness-sync/internal/domain"
	"github.com/tbourn/go-fitness-sync/internal/repo"
	"github.com/tbourn/go-fitness-sync/internal/services"
)

func Test_fail_500_LogsAndBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("X-Request-ID", "rid-500")
		c.Set("logger", &logger)
		c.Next()
	})
	r.GET("/boom", func(c *gin.Context) {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "kaboom")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d", w.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json: %v", err)
	}
	if resp.RequestID != "rid-500" || resp.Code != ErrCodeInternal || resp.Message != "kaboom" {
		t.Fatalf("unexpected body: %+v", resp)
	}
	if !strings.Contains(buf.String(), `"level":"error"`) {
		t.Fatalf("expected error log, got: %s", buf.String())
	}
}

func TestFailErr_StatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)
	decode := &repo.DeserializationError{Table: domain.KindProgram, ID: "p1", Field: "tags", Err: errors.New("bad json")}

	cases := []struct {
		err    error
		status int
		code   string
	}{
		{services.ErrNoUser, http.StatusUnauthorized, ErrCodeUnauthorized},
		{fmt.Errorf("%w: duration must not be negative", services.ErrInvalidInput), http.StatusBadRequest, ErrCodeBadRequest},
		{services.ErrForbidden, http.StatusForbidden, ErrCodeForbidden},
		{services.ErrNotFound, http.StatusNotFound, ErrCodeNotFound},
		{repo.ErrNotInitialized, http.StatusServiceUnavailable, ErrCodeStoreUnavailable},
		{&repo.InitializationError{Path: "/x.db", Err: errors.New("locked")}, http.StatusServiceUnavailable, ErrCodeStoreUnavailable},
		{decode, http.StatusInternalServerError, ErrCodeCorruptRecord},
		{errors.New("disk full"), http.StatusInternalServerError, ErrCodeWriteFailed},
	}
	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			r := gin.New()
			r.GET("/", func(c *gin.Context) { failErr(c, tc.err, ErrCodeWriteFailed) })
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

			var resp ErrorResponse
			_ = json.Unmarshal(w.Body.Bytes(), &resp)
			if w.Code != tc.status || resp.Code != tc.code {
				t.Fatalf("%v -> %d %q; want %d %q", tc.err, w.Code, resp.Code, tc.status, tc.code)
			}
		})
	}
}

func TestOkList_PartialRowsCarryWarning(t *testing.T) {
	gin.SetMode(gin.TestMode)
	decode := &repo.DeserializationError{Table: domain.KindProgram, ID: "p2", Field: "tags", Err: errors.New("bad json")}

	r := gin.New()
	r.GET("/partial", func(c *gin.Context) { okList(c, []string{"p1"}, decode, ErrCodeQueryFailed) })
	r.GET("/empty", func(c *gin.Context) { okList[string](c, nil, nil, ErrCodeQueryFailed) })
	r.GET("/broken", func(c *gin.Context) { okList[string](c, nil, errors.New("io"), ErrCodeQueryFailed) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/partial", nil))
	var resp ListResponse[string]
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if w.Code != http.StatusOK || len(resp.Items) != 1 || len(resp.Warnings) != 1 {
		t.Fatalf("partial = %d %+v", w.Code, resp)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/empty", nil))
	if w.Code != http.StatusOK || strings.TrimSpace(w.Body.String()) != `{"items":[]}` {
		t.Fatalf("empty = %d %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/broken", nil))
	if w.Code != http.StatusInternalServerError || !strings.Contains(w.Body.String(), ErrCodeQueryFailed) {
		t.Fatalf("broken = %d %s", w.Code, w.Body.String())
	}
}

func Test_Fail_404_And_SuccessHelpers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("X-Request-ID", "rid-404")
		c.Next()
	})
	r.GET("/missing", func(c *gin.Context) { Fail(c, http.StatusNotFound, ErrCodeNotFound, "nope") })
	r.GET("/ok", func(c *gin.Context) { ok(c, http.StatusCreated, gin.H{"ok": true}) })
	r.DELETE("/gone", func(c *gin.Context) { noContent(c) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))
	var resp ErrorResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if w.Code != http.StatusNotFound || resp.RequestID != "rid-404" {
		t.Fatalf("missing = %d %+v", w.Code, resp)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
	if w.Code != http.StatusCreated {
		t.Fatalf("ok = %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/gone", nil))
	if w.Code != http.StatusNoContent || w.Body.Len() != 0 {
		t.Fatalf("gone = %d %q", w.Code, w.Body.String())
	}
}
