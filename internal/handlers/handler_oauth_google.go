package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/finbook/finbook_backend/internal/core/ports/services"
	"github.com/finbook/finbook_backend/internal/dto"
	"github.com/finbook/finbook_backend/internal/middleware"
)

const oauthStateCookie = "oauth_state"

// googleOAuthHandler handles the Google OAuth2 login flow.
type googleOAuthHandler struct {
	userService  portssvc.UserSvcFacade
	tokenService portssvc.TokenSvcFacade
	oauthService portssvc.GoogleOAuthSvcFacade
}

func registerGoogleOAuthRoutes(rg *gin.RouterGroup, us portssvc.UserSvcFacade, ts portssvc.TokenSvcFacade, os portssvc.GoogleOAuthSvcFacade) {
	h := &googleOAuthHandler{userService: us, tokenService: ts, oauthService: os}

	google := rg.Group("/auth/google")
	{
		google.GET("/login", h.login)
		google.GET("/callback", h.callback)
	}
}

// login godoc
// @Summary Start Google OAuth login
// @Description Redirects to the Google consent page
// @Tags auth
// @Success 307 "Redirect to Google"
// @Failure 500 {object} map[string]string "Failed to start OAuth flow"
// @Router /auth/google/login [get]
func (h *googleOAuthHandler) login(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	state, err := h.oauthService.GenerateState()
	if err != nil {
		logger.Error("Failed to generate OAuth state", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start OAuth flow"})
		return
	}

	c.SetCookie(oauthStateCookie, state, 600, "/", "", false, true)
	c.Redirect(http.StatusTemporaryRedirect, h.oauthService.LoginURL(state))
}

// callback godoc
// @Summary Complete Google OAuth login
// @Description Exchanges the authorization code, verifies the Google identity and returns a JWT
// @Tags auth
// @Produce json
// @Param state query string true "CSRF state"
// @Param code query string true "Authorization code"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} map[string]string "Missing or mismatched state"
// @Failure 401 {object} map[string]string "Google identity could not be verified"
// @Router /auth/google/callback [get]
func (h *googleOAuthHandler) callback(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	expectedState, err := c.Cookie(oauthStateCookie)
	if err != nil || expectedState == "" || c.Query("state") != expectedState {
		logger.Warn("OAuth state mismatch")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid OAuth state"})
		return
	}
	c.SetCookie(oauthStateCookie, "", -1, "/", "", false, true)

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing authorization code"})
		return
	}

	idToken, err := h.oauthService.ExchangeCode(c.Request.Context(), code)
	if err != nil {
		logger.Warn("Failed to exchange authorization code", slog.String("error", err.Error()))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Google identity could not be verified"})
		return
	}

	info, err := h.oauthService.VerifyIDToken(c.Request.Context(), idToken)
	if err != nil {
		logger.Warn("Failed to verify Google ID token", slog.String("error", err.Error()))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Google identity could not be verified"})
		return
	}

	user, err := h.userService.FindOrCreateGoogleUser(c.Request.Context(), *info)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to log in with Google")
		return
	}

	token, expiresAt, err := h.tokenService.GenerateAccessToken(c.Request.Context(), *user)
	if err != nil {
		logger.Error("Failed to generate access token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log in with Google"})
		return
	}

	logger.Info("User logged in via Google", slog.String("user_id", user.UserID))
	c.JSON(http.StatusOK, dto.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      dto.ToUserResponse(user),
	})
}
