package controllers

import (
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

func testContext(body string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c
}

func TestReadJSONObject(t *testing.T) {
	doc, err := readJSONObject(testContext(`{"title":"x"}`))
	require.NoError(t, err)
	assert.Equal(t, "x", doc.Get("title").Str)

	for _, body := range []string{``, `[]`, `"text"`, `{"broken"`} {
		_, err := readJSONObject(testContext(body))
		var apiErr *utils.ApiError
		require.True(t, errors.As(err, &apiErr), body)
		assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode, body)
	}
}

func TestBindingError(t *testing.T) {
	c := testContext(`{"firstName":"Grace","email":"not-an-email"}`)
	var req models.CreateClientRequest
	err := bindingError(c.ShouldBindJSON(&req))

	var validationErr *utils.ValidationError
	require.True(t, errors.As(err, &validationErr))
	var fields []string
	for _, fe := range validationErr.Errors {
		fields = append(fields, fe.Field)
	}
	assert.Equal(t, []string{"lastName", "email"}, fields)

	c = testContext(`{"firstName":`)
	err = bindingError(c.ShouldBindJSON(&req))
	var apiErr *utils.ApiError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
}

func TestUpdateInput(t *testing.T) {
	c := testContext(`{"serviceIds":[3,"4",3],"appointmentDate":null,"title":""}`)
	doc, err := readJSONObject(c)
	require.NoError(t, err)

	input := updateInput(doc)
	assert.True(t, input.ServiceIDsSet)
	assert.Equal(t, []int64{3, 4}, input.ServiceIDs)
	assert.True(t, input.AppointmentDateSet)
	assert.Nil(t, input.AppointmentDate)
	require.NotNil(t, input.Title)
	assert.Equal(t, "", *input.Title)
	assert.Nil(t, input.Description)
	assert.Nil(t, input.DateOfContact)
}
