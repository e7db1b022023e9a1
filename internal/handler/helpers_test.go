package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"wfgpos/internal/dto"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() { gin.SetMode(gin.TestMode) }

func bind(t *testing.T, body string, req any) (bool, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return bindAndValidate(c, req), w
}

func TestBindRejectsMissingFinalCash(t *testing.T) {
	var req dto.CloseRegisterRequest
	ok, w := bind(t, `{}`, &req)

	assert.False(t, ok)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), `"FinalCash":"required"`)
}

func TestBindRejectsMissingStartCash(t *testing.T) {
	var req dto.OpenRegisterRequest
	ok, w := bind(t, `{"manager_id":"6f1c1a52-7d0c-4f6e-9a55-1f1f0f8c2b11"}`, &req)

	assert.False(t, ok)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), `"StartCash":"required"`)
}

func TestBindAcceptsZeroCash(t *testing.T) {
	var req dto.CloseRegisterRequest
	ok, _ := bind(t, `{"final_cash":0}`, &req)

	require.True(t, ok)
	require.NotNil(t, req.FinalCash)
	assert.True(t, req.FinalCash.IsZero())
}

func TestBindRejectsNegativeCash(t *testing.T) {
	var req dto.CloseRegisterRequest
	ok, w := bind(t, `{"final_cash":"-1"}`, &req)

	assert.False(t, ok)
	assert.Contains(t, w.Body.String(), `"FinalCash":"min"`)
}
