package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/supermart/supermart-backend/config"
	"github.com/supermart/supermart-backend/internal/app/repository"
	"github.com/supermart/supermart-backend/internal/app/service"
	"github.com/supermart/supermart-backend/internal/db"
	"github.com/supermart/supermart-backend/internal/middleware"
	"github.com/supermart/supermart-backend/pkg/util"
)

const testSecret = "test-secret"

func setupAuthControllerTest(t *testing.T) (*gin.Engine, service.AuthService) {
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB(t)
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(testDB)
	tokenRepo := repository.NewTokenRepository(testDB)

	authService := service.NewAuthService(userRepo, util.NewBcryptHasher())
	tokenService := service.NewTokenService(tokenRepo, userRepo, config.JWTConfig{
		Secret:             testSecret,
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: 7 * 24 * time.Hour,
	})

	ctrl := NewAuthController(authService, tokenService)
	authMiddleware := middleware.NewAuthMiddleware(testSecret, userRepo)

	router := gin.New()
	router.POST("/register", ctrl.Register)
	router.POST("/login", ctrl.Login)
	router.POST("/token/refresh", ctrl.Refresh)
	router.POST("/logout", authMiddleware.Authenticate(), ctrl.Logout)
	router.GET("/me", authMiddleware.Authenticate(), ctrl.Me)
	router.POST("/change-password", authMiddleware.Authenticate(), ctrl.ChangePassword)

	return router, authService
}

func postJSON(router *gin.Engine, path string, payload interface{}, token string) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest("POST", path, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

func registerRequest() RegisterRequest {
	return RegisterRequest{
		Email:           "test@example.com",
		Phone:           "01012345678",
		Password:        "password123",
		PasswordConfirm: "password123",
		FirstName:       "Test",
		LastName:        "User",
	}
}

func TestAuthController_Register(t *testing.T) {
	router, _ := setupAuthControllerTest(t)

	w := postJSON(router, "/register", registerRequest(), "")
	assert.Equal(t, http.StatusCreated, w.Code)

	response := decodeBody(t, w)
	assert.Equal(t, true, response["success"])
	assert.NotNil(t, response["user"])
	assert.NotNil(t, response["tokens"])

	user := response["user"].(map[string]interface{})
	assert.Equal(t, "customer", user["role"])
	assert.NotContains(t, user, "password_hash")

	t.Run("Duplicate email", func(t *testing.T) {
		dup := registerRequest()
		dup.Phone = "01087654321"
		w := postJSON(router, "/register", dup, "")
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "AUTH_EMAIL_EXISTS")
	})

	t.Run("Invalid email", func(t *testing.T) {
		bad := registerRequest()
		bad.Email = "not-an-email"
		w := postJSON(router, "/register", bad, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Password confirmation mismatch", func(t *testing.T) {
		bad := registerRequest()
		bad.Email = "other@example.com"
		bad.Phone = "01055556666"
		bad.PasswordConfirm = "different123"
		w := postJSON(router, "/register", bad, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAuthController_Login(t *testing.T) {
	router, _ := setupAuthControllerTest(t)
	require.Equal(t, http.StatusCreated, postJSON(router, "/register", registerRequest(), "").Code)

	t.Run("Success", func(t *testing.T) {
		w := postJSON(router, "/login", LoginRequest{Email: "test@example.com", Password: "password123"}, "")
		assert.Equal(t, http.StatusOK, w.Code)

		response := decodeBody(t, w)
		tokens := response["tokens"].(map[string]interface{})
		assert.NotEmpty(t, tokens["access_token"])
		assert.NotEmpty(t, tokens["refresh_token"])
	})

	t.Run("Wrong password", func(t *testing.T) {
		w := postJSON(router, "/login", LoginRequest{Email: "test@example.com", Password: "wrong-password"}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "AUTH_INVALID_CREDENTIALS")
	})

	t.Run("Unknown email", func(t *testing.T) {
		w := postJSON(router, "/login", LoginRequest{Email: "nobody@example.com", Password: "password123"}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "AUTH_INVALID_CREDENTIALS")
	})
}

func TestAuthController_RefreshAndReuse(t *testing.T) {
	router, _ := setupAuthControllerTest(t)
	require.Equal(t, http.StatusCreated, postJSON(router, "/register", registerRequest(), "").Code)

	login := decodeBody(t, postJSON(router, "/login", LoginRequest{Email: "test@example.com", Password: "password123"}, ""))
	refreshToken := login["tokens"].(map[string]interface{})["refresh_token"].(string)

	w := postJSON(router, "/token/refresh", RefreshTokenRequest{RefreshToken: refreshToken}, "")
	assert.Equal(t, http.StatusOK, w.Code)
	rotated := decodeBody(t, w)["tokens"].(map[string]interface{})["refresh_token"].(string)
	assert.NotEqual(t, refreshToken, rotated)

	t.Run("Reusing the rotated token revokes everything", func(t *testing.T) {
		w := postJSON(router, "/token/refresh", RefreshTokenRequest{RefreshToken: refreshToken}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "AUTH_TOKEN_REUSED")

		// The replacement issued by the legitimate rotation is dead too.
		w = postJSON(router, "/token/refresh", RefreshTokenRequest{RefreshToken: rotated}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Garbage token", func(t *testing.T) {
		w := postJSON(router, "/token/refresh", RefreshTokenRequest{RefreshToken: "not-a-jwt"}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "AUTH_TOKEN_INVALID")
	})
}

func TestAuthController_Logout(t *testing.T) {
	router, _ := setupAuthControllerTest(t)
	require.Equal(t, http.StatusCreated, postJSON(router, "/register", registerRequest(), "").Code)

	login := decodeBody(t, postJSON(router, "/login", LoginRequest{Email: "test@example.com", Password: "password123"}, ""))
	accessToken := login["tokens"].(map[string]interface{})["access_token"].(string)
	refreshToken := login["tokens"].(map[string]interface{})["refresh_token"].(string)

	t.Run("Requires an access token", func(t *testing.T) {
		w := postJSON(router, "/logout", RefreshTokenRequest{RefreshToken: refreshToken}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Garbage refresh token is a bad request", func(t *testing.T) {
		w := postJSON(router, "/logout", RefreshTokenRequest{RefreshToken: "not-a-jwt"}, accessToken)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	w := postJSON(router, "/logout", RefreshTokenRequest{RefreshToken: refreshToken}, accessToken)
	assert.Equal(t, http.StatusOK, w.Code)

	t.Run("Logout is idempotent", func(t *testing.T) {
		w := postJSON(router, "/logout", RefreshTokenRequest{RefreshToken: refreshToken}, accessToken)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Logged-out token cannot refresh", func(t *testing.T) {
		w := postJSON(router, "/token/refresh", RefreshTokenRequest{RefreshToken: refreshToken}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAuthController_Me(t *testing.T) {
	router, _ := setupAuthControllerTest(t)
	created := decodeBody(t, postJSON(router, "/register", registerRequest(), ""))
	accessToken := created["tokens"].(map[string]interface{})["access_token"].(string)

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+accessToken)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	response := decodeBody(t, w)
	user := response["user"].(map[string]interface{})
	assert.Equal(t, "test@example.com", user["email"])

	t.Run("No token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/me", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAuthController_ChangePassword_RevokesSessions(t *testing.T) {
	router, _ := setupAuthControllerTest(t)
	created := decodeBody(t, postJSON(router, "/register", registerRequest(), ""))
	tokens := created["tokens"].(map[string]interface{})
	accessToken := tokens["access_token"].(string)
	refreshToken := tokens["refresh_token"].(string)

	w := postJSON(router, "/change-password", ChangePasswordRequest{
		CurrentPassword: "password123",
		NewPassword:     "newpassword1",
		ConfirmPassword: "newpassword1",
	}, accessToken)
	assert.Equal(t, http.StatusOK, w.Code)

	t.Run("Old refresh token is dead", func(t *testing.T) {
		w := postJSON(router, "/token/refresh", RefreshTokenRequest{RefreshToken: refreshToken}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Old password no longer logs in", func(t *testing.T) {
		w := postJSON(router, "/login", LoginRequest{Email: "test@example.com", Password: "password123"}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		w = postJSON(router, "/login", LoginRequest{Email: "test@example.com", Password: "newpassword1"}, "")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Wrong current password", func(t *testing.T) {
		login := decodeBody(t, postJSON(router, "/login", LoginRequest{Email: "test@example.com", Password: "newpassword1"}, ""))
		fresh := login["tokens"].(map[string]interface{})["access_token"].(string)

		w := postJSON(router, "/change-password", ChangePasswordRequest{
			CurrentPassword: "wrong",
			NewPassword:     "anotherpass1",
			ConfirmPassword: "anotherpass1",
		}, fresh)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
