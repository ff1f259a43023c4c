package middleware

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/BerniceZTT/case_end/models"
	"github.com/BerniceZTT/case_end/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	utils.SetJWTSecret("middleware-test-secret")
}

func tokenFor(t *testing.T, id int64, role models.UserRole) string {
	t.Helper()
	token, err := utils.GenerateToken(models.User{ID: id, FirstName: "Ada", LastName: "Lovelace", Role: role})
	require.NoError(t, err)
	return token
}

func TestAuthMiddleware(t *testing.T) {
	router := gin.New()
	router.GET("/me", AuthMiddleware(), func(c *gin.Context) {
		user, err := utils.GetUser(c)
		if err != nil {
			utils.HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, user)
	})

	cases := []struct {
		name   string
		header string
		status int
	}{
		{name: "missing header", header: "", status: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", status: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer not-a-token", status: http.StatusUnauthorized},
		{name: "valid token", header: "Bearer " + tokenFor(t, 7, models.UserRoleCASE_WORKER), status: http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tc.status, w.Code, w.Body.String())
			if tc.status == http.StatusOK {
				assert.JSONEq(t, `{"id":7,"role":"CASE_WORKER","username":"Ada Lovelace"}`, w.Body.String())
			}
		})
	}
}

func TestPermissionMiddleware(t *testing.T) {
	router := gin.New()
	router.POST("/services", AuthMiddleware(), PermissionMiddleware("services", "create"), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	for role, status := range map[models.UserRole]int{
		models.UserRoleADMIN:       http.StatusNoContent,
		models.UserRoleCASE_WORKER: http.StatusForbidden,
		models.UserRoleVOLUNTEER:   http.StatusForbidden,
		models.UserRole("AGENT"):   http.StatusForbidden,
	} {
		req := httptest.NewRequest(http.MethodPost, "/services", nil)
		req.Header.Set("Authorization", "Bearer "+tokenFor(t, 1, role))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, status, w.Code, string(role))
	}
}

func TestLoggerSetsRequestID(t *testing.T) {
	var buf bytes.Buffer
	utils.InitLoggerWithWriter(&buf)

	router := gin.New()
	router.Use(Logger())
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, RequestID(c))
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	generated := w.Header().Get(RequestIDHeader)
	require.NotEmpty(t, generated)
	assert.Equal(t, generated, w.Body.String())
	assert.Contains(t, buf.String(), generated)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "fixed-id")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "fixed-id", w.Header().Get(RequestIDHeader))
}

func TestLoggerMasksCredentials(t *testing.T) {
	var buf bytes.Buffer
	utils.InitLoggerWithWriter(&buf)

	router := gin.New()
	router.Use(Logger())
	router.POST("/api/auth/login", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"token": "signed.jwt.value", "user": gin.H{"id": 1}}})
	})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"ada@example.org","password":"hunter2-plain"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	logged := buf.String()
	assert.NotContains(t, logged, "hunter2-plain")
	assert.NotContains(t, logged, "signed.jwt.value")
	assert.Contains(t, logged, "ada@example.org")
	assert.Contains(t, logged, "******")
}

func TestRecovery(t *testing.T) {
	router := gin.New()
	router.Use(Recovery())
	router.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestErrorHandler(t *testing.T) {
	router := gin.New()
	router.Use(ErrorHandler())
	router.GET("/missing", func(c *gin.Context) {
		_ = c.Error(utils.CreateNotFoundError("client"))
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "RESOURCE_NOT_FOUND")
}

// recordingStore 记录保存的操作日志, 可模拟首次写入失败
type recordingStore struct {
	logs     []models.OperationLog
	failures int
}

func (s *recordingStore) Save(_ context.Context, log *models.OperationLog) error {
	if s.failures > 0 {
		s.failures--
		return errors.New("write failed")
	}
	s.logs = append(s.logs, *log)
	return nil
}

func (s *recordingStore) Close(context.Context) error { return nil }

func operationRouter(store *recordingStore) *gin.Engine {
	router := gin.New()
	router.Use(Logger())
	router.Use(OperationLoggerMiddleware(store))
	authed := router.Group("/api", AuthMiddleware())
	authed.POST("/clients/:clientId/follow-ups", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": 1, "token": "secret-value"})
	})
	authed.GET("/clients", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"clients": []string{}})
	})
	router.POST("/api/auth/login", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{})
	})
	return router
}

func TestOperationLoggerRecordsWrites(t *testing.T) {
	store := &recordingStore{}
	router := operationRouter(store)

	req := httptest.NewRequest(http.MethodPost, "/api/clients/5/follow-ups", strings.NewReader(`{"title":"Check-in","password":"hunter2"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, 9, models.UserRoleCASE_WORKER))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	require.Len(t, store.logs, 1)
	entry := store.logs[0]
	assert.Equal(t, int64(9), entry.OperatorID)
	assert.Equal(t, "Ada Lovelace", entry.OperatorName)
	assert.Equal(t, "CASE_WORKER", entry.OperatorRole)
	assert.Equal(t, "/api/clients/:clientId/follow-ups", entry.Route)
	assert.Equal(t, w.Header().Get(RequestIDHeader), entry.RequestID)
	assert.True(t, entry.Success)
	assert.Equal(t, map[string]interface{}{"title": "Check-in", "password": "******"}, entry.RequestBody)
	assert.Equal(t, "******", entry.ResponseData.(map[string]interface{})["token"])
	assert.NotContains(t, entry.RequestHeader.(map[string]interface{})["Authorization"], tokenFor(t, 9, models.UserRoleCASE_WORKER))
}

func TestOperationLoggerSkipsReadsAndExcludedPaths(t *testing.T) {
	store := &recordingStore{}
	router := operationRouter(store)

	req := httptest.NewRequest(http.MethodGet, "/api/clients", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, 9, models.UserRoleCASE_WORKER))
	router.ServeHTTP(httptest.NewRecorder(), req)

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{}`)))

	assert.Empty(t, store.logs)
}

func TestOperationLoggerFallsBackToMinimalLog(t *testing.T) {
	store := &recordingStore{failures: 1}
	router := operationRouter(store)

	req := httptest.NewRequest(http.MethodPost, "/api/clients/5/follow-ups", strings.NewReader(`{"title":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	require.Len(t, store.logs, 1)
	entry := store.logs[0]
	assert.Nil(t, entry.RequestBody)
	assert.Contains(t, entry.ErrorMessage, "write failed")
	assert.False(t, entry.Success)
	assert.Equal(t, int64(0), entry.OperatorID)
	assert.Equal(t, "anonymous", entry.OperatorName)
}

func TestSanitizeData(t *testing.T) {
	in := map[string]interface{}{
		"Password": "x",
		"nested":   []interface{}{map[string]interface{}{"secret": "y", "ok": 1}},
	}
	assert.Equal(t, map[string]interface{}{
		"Password": "******",
		"nested":   []interface{}{map[string]interface{}{"secret": "******", "ok": 1}},
	}, sanitizeData(in))
}
