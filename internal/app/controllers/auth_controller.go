package controllers

import (
	"context"
	"net/http"

	"github.com/campusbeacon/api/internal/app/models/dto"
	"github.com/campusbeacon/api/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// AuthService is what the auth endpoints need from the service layer
type AuthService interface {
	Signup(ctx context.Context, req *dto.SignupRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.AuthResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	LogoutAll(ctx context.Context, userID int64) error
}

// CookieConfig controls the httpOnly token cookies
type CookieConfig struct {
	Domain string
	Secure bool
}

// AuthController handles authentication related operations
type AuthController struct {
	authService AuthService
	cookies     CookieConfig
	logger      zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService AuthService, cookies CookieConfig, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		cookies:     cookies,
		logger:      logger,
	}
}

func (c *AuthController) setTokenCookies(ctx *gin.Context, tokens *dto.TokenResponse) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(middleware.AccessTokenCookie, tokens.AccessToken, tokens.ExpiresIn, "/", c.cookies.Domain, c.cookies.Secure, true)
	ctx.SetCookie(middleware.RefreshTokenCookie, tokens.RefreshToken, tokens.RefreshExpiresIn, "/api/v1/auth", c.cookies.Domain, c.cookies.Secure, true)
}

func (c *AuthController) clearTokenCookies(ctx *gin.Context) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(middleware.AccessTokenCookie, "", -1, "/", c.cookies.Domain, c.cookies.Secure, true)
	ctx.SetCookie(middleware.RefreshTokenCookie, "", -1, "/api/v1/auth", c.cookies.Domain, c.cookies.Secure, true)
}

// refreshTokenFrom prefers the JSON body and falls back to the cookie.
func refreshTokenFrom(ctx *gin.Context) (string, error) {
	var req dto.RefreshTokenRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			return "", err
		}
	}
	if req.RefreshToken != "" {
		return req.RefreshToken, nil
	}
	cookie, _ := ctx.Cookie(middleware.RefreshTokenCookie)
	return cookie, nil
}

// Signup handles user registration
// @Summary Register a new student
// @Description Creates a student account and signs it in
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.SignupRequest true "Signup information"
// @Success 201 {object} dto.APIResponse{data=dto.AuthResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Failure 409 {object} dto.ErrorResponse "Email already exists"
// @Router /auth/signup [post]
func (c *AuthController) Signup(ctx *gin.Context) {
	var req dto.SignupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid signup request payload")
		middleware.HandleBindingError(ctx, err)
		return
	}

	resp, err := c.authService.Signup(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.setTokenCookies(ctx, resp.Tokens)
	respond(ctx, http.StatusCreated, resp, "Account created")
}

// Login handles user login
// @Summary User login
// @Description Authenticates a user, returns a token pair and sets the token cookies
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.APIResponse{data=dto.AuthResponse}
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Failure 403 {object} dto.ErrorResponse "Account disabled"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid login request payload")
		middleware.HandleBindingError(ctx, err)
		return
	}

	resp, err := c.authService.Login(ctx.Request.Context(), &req)
	if err != nil {
		c.logger.Warn().Err(err).Str("email", req.Email).Msg("Login failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("userID", resp.User.ID).Msg("User logged in")
	c.setTokenCookies(ctx, resp.Tokens)
	respond(ctx, http.StatusOK, resp, "")
}

// Refresh rotates the refresh token
// @Summary Refresh tokens
// @Description Revokes the presented refresh token and issues a new pair
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest false "Refresh token, optional when the cookie is present"
// @Success 200 {object} dto.APIResponse{data=dto.AuthResponse}
// @Failure 401 {object} dto.ErrorResponse "Invalid, expired or revoked refresh token"
// @Router /auth/refresh [post]
func (c *AuthController) Refresh(ctx *gin.Context) {
	token, err := refreshTokenFrom(ctx)
	if err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	resp, err := c.authService.Refresh(ctx.Request.Context(), token)
	if err != nil {
		c.clearTokenCookies(ctx)
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.setTokenCookies(ctx, resp.Tokens)
	respond(ctx, http.StatusOK, resp, "")
}

// Logout revokes the refresh token and clears the cookies
// @Summary Logout
// @Tags auth
// @Produce json
// @Success 200 {object} dto.APIResponse
// @Router /auth/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	token, err := refreshTokenFrom(ctx)
	if err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	if err := c.authService.Logout(ctx.Request.Context(), token); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.clearTokenCookies(ctx)
	respond(ctx, http.StatusOK, nil, "Logged out")
}

// LogoutAll revokes every session of the caller
func (c *AuthController) LogoutAll(ctx *gin.Context) {
	principal, ok := middleware.RequirePrincipal(ctx)
	if !ok {
		return
	}

	if err := c.authService.LogoutAll(ctx.Request.Context(), principal.UserID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.clearTokenCookies(ctx)
	respond(ctx, http.StatusOK, nil, "Logged out of all sessions")
}

