package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/BerniceZTT/case_end/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{name: "validation", err: NewValidationError([]FieldError{{Field: "serviceIds", Message: "bad"}}), status: http.StatusUnprocessableEntity, code: "INVALID_REQUEST"},
		{name: "not found", err: CreateNotFoundError("follow-up"), status: http.StatusNotFound, code: "RESOURCE_NOT_FOUND"},
		{name: "wrapped database", err: fmt.Errorf("create: %w", CreateDatabaseError(errors.New("boom"))), status: http.StatusInternalServerError, code: "DATABASE_ERROR"},
		{name: "unknown", err: errors.New("boom"), status: http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			HandleError(c, tc.err)
			assert.Equal(t, tc.status, w.Code)

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, false, body["success"])
			if tc.code != "" {
				assert.Equal(t, tc.code, body["code"])
			}
		})
	}
}

func TestDatabaseErrorHidesCause(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	HandleError(c, CreateDatabaseError(errors.New("pq: relation does not exist")))
	assert.NotContains(t, w.Body.String(), "relation")
}

func TestNewValidationErrorEmpty(t *testing.T) {
	assert.NoError(t, NewValidationError(nil))
}

func TestPagination(t *testing.T) {
	assert.Equal(t, 1, ParsePage(""))
	assert.Equal(t, 1, ParsePage("abc"))
	assert.Equal(t, 1, ParsePage("-3"))
	assert.Equal(t, 4, ParsePage("4"))

	assert.Equal(t, 0, NumPages(0, 10))
	assert.Equal(t, 1, NumPages(10, 10))
	assert.Equal(t, 2, NumPages(11, 10))

	assert.Equal(t, 2, ClampPage(2, 11, 10))
	assert.Equal(t, 1, ClampPage(3, 11, 10))
	assert.Equal(t, 1, ClampPage(1, 0, 10))
}

func TestGetUser(t *testing.T) {
	cases := []struct {
		name   string
		claims interface{}
		wantID int64
		ok     bool
	}{
		{name: "jwt claims", claims: jwt.MapClaims{"id": float64(3), "role": "ADMIN", "username": "a"}, wantID: 3, ok: true},
		{name: "string id", claims: map[string]interface{}{"id": "12", "role": "VOLUNTEER"}, wantID: 12, ok: true},
		{name: "login user", claims: &LoginUser{ID: 5, Role: models.UserRoleADMIN}, wantID: 5, ok: true},
		{name: "fractional id", claims: jwt.MapClaims{"id": 1.5, "role": "ADMIN"}},
		{name: "missing role", claims: jwt.MapClaims{"id": float64(3)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Set("user", tc.claims)
			user, err := GetUser(c)
			if !tc.ok {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantID, user.ID)
		})
	}

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	_, err := GetUser(c)
	var apiErr *ApiError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}

func TestTokenRoundTrip(t *testing.T) {
	SetJWTSecret("utils-test-secret")
	token, err := GenerateToken(models.User{ID: 42, FirstName: "Ada", LastName: "Lovelace", Role: models.UserRoleVOLUNTEER})
	require.NoError(t, err)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	user, err := UserFromClaims(claims)
	require.NoError(t, err)
	assert.Equal(t, &LoginUser{ID: 42, Role: models.UserRoleVOLUNTEER, Username: "Ada Lovelace"}, user)

	SetJWTSecret("another-secret")
	_, err = ParseToken(token)
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hashed, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.True(t, VerifyPassword("s3cret", hashed))
	assert.False(t, VerifyPassword("other", hashed))
}

func TestHasPermission(t *testing.T) {
	assert.True(t, HasPermission(models.UserRoleADMIN, "users", "create"))
	assert.True(t, HasPermission(models.UserRoleCASE_WORKER, "follow-ups", "update"))
	assert.False(t, HasPermission(models.UserRoleVOLUNTEER, "follow-ups", "update"))
	assert.True(t, HasPermission(models.UserRoleVOLUNTEER, "follow-ups", "create"))
	assert.False(t, HasPermission(models.UserRoleCASE_WORKER, "services", "create"))
	assert.False(t, HasPermission(models.UserRole("AGENT"), "clients", "read"))
}
