package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/topicreg/internal/app/models"
	"github.com/yigit/topicreg/internal/db"
	"github.com/yigit/topicreg/internal/pkg/apperrors"
	"github.com/yigit/topicreg/internal/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
	return body.Error
}

func TestAuthMiddleware(t *testing.T) {
	jwt := auth.NewJWTService(auth.JWTConfig{SecretKey: "test", AccessTokenExp: time.Hour})
	m := NewAuthMiddleware(jwt)

	studentToken, _ := jwt.GenerateToken(&models.User{StudentNumber: "1"})
	adminToken, _ := jwt.GenerateToken(&models.User{StudentNumber: "2", Admin: true})

	r := gin.New()
	r.GET("/login", m.CheckLogin(), func(c *gin.Context) {
		claims, _ := Claims(c)
		c.String(http.StatusOK, claims.StudentNumber)
	})
	r.GET("/admin", m.CheckAdmin(), func(c *gin.Context) { c.Status(http.StatusOK) })

	tests := []struct {
		name    string
		path    string
		header  string
		value   string
		status  int
		message string
	}{
		{"no token", "/login", "", "", http.StatusUnauthorized, "token missing or invalid"},
		{"bad token", "/login", "Authorization", "Bearer nope", http.StatusUnauthorized, "token missing or invalid"},
		{"bearer token", "/login", "Authorization", "Bearer " + studentToken, http.StatusOK, ""},
		{"access token header", "/login", "x-access-token", studentToken, http.StatusOK, ""},
		{"student on admin route", "/admin", "Authorization", "Bearer " + studentToken, http.StatusForbidden, "admin privileges required"},
		{"admin on admin route", "/admin", "Authorization", "Bearer " + adminToken, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d", w.Code, tt.status)
			}
			if tt.message != "" && errorBody(t, w) != tt.message {
				t.Errorf("error = %q, want %q", errorBody(t, w), tt.message)
			}
		})
	}
}

func TestHandleAPIError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"validation", apperrors.NewValidationError("name undefined"), http.StatusBadRequest, "name undefined"},
		{"conflict", apperrors.NewConflictError("name already in use"), http.StatusBadRequest, "name already in use"},
		{"not found", apperrors.NewResourceNotFoundError("topic not found"), http.StatusNotFound, "topic not found"},
		{"internal", apperrors.NewInternalError(errors.New("pq: boom"), "database error"), http.StatusInternalServerError, "database error"},
		{"not ready", apperrors.NewInternalError(db.ErrNotReady, "database error"), http.StatusServiceUnavailable, "service unavailable"},
		{"raw", errors.New("leaky detail"), http.StatusInternalServerError, "Something is wrong... try reloading the page"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			HandleAPIError(c, tt.err)

			if w.Code != tt.status {
				t.Errorf("status = %d, want %d", w.Code, tt.status)
			}
			if got := errorBody(t, w); got != tt.message {
				t.Errorf("error = %q, want %q", got, tt.message)
			}
		})
	}
}

type fakeReadiness struct{ ready bool }

func (f fakeReadiness) WaitReady(ctx context.Context) error {
	if f.ready {
		return nil
	}
	<-ctx.Done()
	return db.ErrNotReady
}

func TestReadiness(t *testing.T) {
	for _, ready := range []bool{true, false} {
		r := gin.New()
		r.Use(Readiness(fakeReadiness{ready: ready}, 10*time.Millisecond))
		r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

		want := http.StatusOK
		if !ready {
			want = http.StatusServiceUnavailable
		}
		if w.Code != want {
			t.Errorf("ready=%v: status = %d, want %d", ready, w.Code, want)
		}
	}
}

func TestRequestLoggerSkipsPaths(t *testing.T) {
	var buf bytes.Buffer
	r := gin.New()
	r.Use(RequestLogger(zerolog.New(&buf), "/api/login"))
	r.POST("/api/login", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/api/topics", func(c *gin.Context) { c.Status(http.StatusOK) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/login", nil))
	if buf.Len() != 0 {
		t.Fatalf("login request was logged: %s", buf.String())
	}

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/topics", nil))
	if !strings.Contains(buf.String(), `"path":"/api/topics"`) {
		t.Errorf("request not logged: %s", buf.String())
	}
}

type groupBody struct {
	GroupName string `json:"group_name" validate:"required"`
}

func TestBindAndValidate(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		message string
	}{
		{"empty body", "", "group name undefined"},
		{"missing field", `{}`, "group name undefined"},
		{"malformed", `{"group_name":`, "malformed request body"},
		{"valid", `{"group_name":"Alpha"}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))

			var body groupBody
			err := BindAndValidate(c, &body, map[string]string{"group_name": "group name undefined"})
			if tt.message == "" {
				if err != nil {
					t.Fatalf("BindAndValidate() error = %v", err)
				}
				return
			}
			if err == nil || err.Error() != tt.message {
				t.Fatalf("BindAndValidate() error = %v, want %q", err, tt.message)
			}
		})
	}
}
