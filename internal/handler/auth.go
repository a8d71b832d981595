package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/music-manager/internal/apperr"
	"github.com/iliyamo/music-manager/internal/middleware"
	"github.com/iliyamo/music-manager/internal/service"
)

// AuthHandler bundles dependencies for auth and account endpoints.
type AuthHandler struct {
	Auth     *service.AuthService
	Users    *service.UserService
	Recovery *service.RecoveryService
}

func NewAuthHandler(a *service.AuthService, u *service.UserService, r *service.RecoveryService) *AuthHandler {
	return &AuthHandler{Auth: a, Users: u, Recovery: r}
}

// ----- DTOs -----

type registerReq struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6,max=30"`
	Username        string `json:"username" validate:"required,min=2,max=50"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}
type loginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
type refreshReq struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}
type logoutReq struct {
	Token string `json:"token" validate:"required"`
}
type forgotPasswordReq struct {
	Email string `json:"email" validate:"required,email"`
}
type verifyOtpReq struct {
	Email   string `json:"email" validate:"required,email"`
	OtpCode string `json:"otpCode" validate:"required"`
}
type resetPasswordReq struct {
	Email           string `json:"email" validate:"required,email"`
	OtpCode         string `json:"otpCode" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6,max=30"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}
type updateProfileReq struct {
	Username string `json:"username" validate:"omitempty,min=2,max=50"`
}

// Register creates an account and returns its profile.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := bind(c, &req); err != nil {
		return err
	}
	profile, err := h.Users.Register(c.Request().Context(), req.Email, req.Username, req.Password, req.ConfirmPassword)
	if err != nil {
		return err
	}
	return respond(c, "User registered", profile)
}

// Login exchanges credentials for an access+refresh pair.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := bind(c, &req); err != nil {
		return err
	}
	pair, err := h.Auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return respond(c, "Login successful", pair)
}

// Refresh rotates a refresh token for a new pair.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := bind(c, &req); err != nil {
		return err
	}
	pair, err := h.Auth.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return err
	}
	return respond(c, "Token refreshed", pair)
}

// Logout revokes the supplied access token.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req logoutReq
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.Auth.Logout(c.Request().Context(), req.Token); err != nil {
		return err
	}
	return respond(c, "Logged out", nil)
}

// ForgotPassword issues and mails a fresh OTP.
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordReq
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.Recovery.RequestOTP(c.Request().Context(), req.Email); err != nil {
		return err
	}
	return respond(c, "OTP sent", nil)
}

// VerifyOtp checks an OTP code, consuming it on success.
func (h *AuthHandler) VerifyOtp(c echo.Context) error {
	var req verifyOtpReq
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.Recovery.VerifyOTP(c.Request().Context(), req.Email, req.OtpCode); err != nil {
		return err
	}
	return respond(c, "OTP verified", nil)
}

// ResetPassword sets a new password gated by the OTP.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordReq
	if err := bind(c, &req); err != nil {
		return err
	}
	profile, err := h.Recovery.ResetPassword(c.Request().Context(), req.Email, req.OtpCode, req.NewPassword, req.ConfirmPassword)
	if err != nil {
		return err
	}
	return respond(c, "Password updated", profile)
}

// UpdateProfile renames the authenticated user.
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return apperr.ErrUnauthenticated
	}
	var req updateProfileReq
	if err := bind(c, &req); err != nil {
		return err
	}
	profile, err := h.Users.UpdateProfile(c.Request().Context(), p.UserID, c.Param("id"), req.Username)
	if err != nil {
		return err
	}
	return respond(c, "Profile updated", profile)
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(c echo.Context) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return apperr.ErrUnauthenticated
	}
	profile, err := h.Users.GetProfile(c.Request().Context(), p.UserID)
	if err != nil {
		return err
	}
	return respond(c, "", profile)
}

// bind decodes and validates a request body, mapping every failure onto
// the generic invalid-request code.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return apperr.ErrInvalidRequest
	}
	if err := c.Validate(req); err != nil {
		return apperr.ErrInvalidRequest
	}
	return nil
}
