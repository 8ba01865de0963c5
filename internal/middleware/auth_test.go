package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kevin07696/payment-gateway/internal/domain"
	"github.com/kevin07696/payment-gateway/internal/testutil/mocks"
)

func authRouter(store *mocks.Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", Auth(store, zap.NewNop()), func(c *gin.Context) {
		m := MerchantFrom(c)
		c.JSON(http.StatusOK, gin.H{"merchant_id": m.ID})
	})
	return r
}

func TestAuth_MissingCredentials(t *testing.T) {
	r := authRouter(new(mocks.Store))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":{"code":"UNAUTHORIZED","description":"missing api credentials"}}`, w.Body.String())
}

func TestAuth_InvalidCredentials(t *testing.T) {
	store := new(mocks.Store)
	store.On("GetMerchantByCredentials", mock.Anything, "key_bad", "secret").
		Return(nil, domain.NewUnauthorized("invalid api credentials"))
	r := authRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(HeaderAPIKey, "key_bad")
	req.Header.Set(HeaderAPISecret, "secret")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":{"code":"UNAUTHORIZED","description":"invalid api credentials"}}`, w.Body.String())
}

func TestAuth_ValidCredentialsSetMerchant(t *testing.T) {
	merchant := &domain.Merchant{ID: uuid.New(), APIKey: "key_good"}
	store := new(mocks.Store)
	store.On("GetMerchantByCredentials", mock.Anything, "key_good", "secret").Return(merchant, nil)
	r := authRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(HeaderAPIKey, "key_good")
	req.Header.Set(HeaderAPISecret, "secret")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), merchant.ID.String())
}

func TestCORS_Preflight(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS())
	r.POST("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
