package handler

import (
	"net/http"

	"zajil/internal/middleware"
	auth "zajil/internal/usecase/auth_usecase"

	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	registerUC *auth.RegisterUserUsecase // 会員登録usecase
	loginUC    *auth.LoginUsecase        // ログインusecase
	accountUC  *auth.AccountUsecase
}

// DIコンストラクタ
func NewAuthHandler(
	registerUC *auth.RegisterUserUsecase,
	loginUC *auth.LoginUsecase,
	accountUC *auth.AccountUsecase,
) *AuthHandler {
	return &AuthHandler{
		registerUC: registerUC,
		loginUC:    loginUC,
		accountUC:  accountUC,
	}
}

// 登録・ログインのレスポンス
type authResponse struct {
	Message string          `json:"message"`
	Token   string          `json:"token"`
	User    auth.UserOutput `json:"user"`
}

type profileResponse struct {
	Message string          `json:"message"`
	User    auth.UserOutput `json:"user"`
}

func (h *AuthHandler) RegisterRoutes(api *echo.Group, authed *echo.Group) {
	api.POST("/auth/register", h.register)
	api.POST("/auth/login", h.login)
	authed.POST("/auth/logout", h.logout)

	authed.GET("/account/profile", h.profile)
	authed.PUT("/account/profile", h.updateProfile)
	authed.POST("/account/change-password", h.changePassword)
	authed.DELETE("/account/delete", h.deleteAccount)
}

// POST /api/auth/register
func (h *AuthHandler) register(c echo.Context) error {
	var req auth.RegisterUserInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "", "invalid body")
	}

	out, err := h.registerUC.Execute(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, authResponse{
		Message: "User registered successfully",
		Token:   out.Token,
		User:    out.User,
	})
}

// POST /api/auth/login
func (h *AuthHandler) login(c echo.Context) error {
	var req auth.LoginInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "", "invalid body")
	}

	out, err := h.loginUC.Execute(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, authResponse{
		Message: "Login successful",
		Token:   out.Token,
		User:    out.User,
	})
}

func (h *AuthHandler) logout(c echo.Context) error {
	userID, _ := middleware.UserID(c)
	if err := h.accountUC.Logout(c.Request().Context(), userID); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Logout successful"})
}

func (h *AuthHandler) profile(c echo.Context) error {
	userID, _ := middleware.UserID(c)
	out, err := h.accountUC.GetProfile(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AuthHandler) updateProfile(c echo.Context) error {
	userID, _ := middleware.UserID(c)

	var req auth.UpdateProfileInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "", "invalid body")
	}

	out, err := h.accountUC.UpdateProfile(c.Request().Context(), userID, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, profileResponse{Message: "Profile updated successfully", User: out})
}

func (h *AuthHandler) changePassword(c echo.Context) error {
	userID, _ := middleware.UserID(c)

	var req auth.ChangePasswordInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "", "invalid body")
	}

	if err := h.accountUC.ChangePassword(c.Request().Context(), userID, req); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Password changed successfully"})
}

func (h *AuthHandler) deleteAccount(c echo.Context) error {
	userID, _ := middleware.UserID(c)
	if err := h.accountUC.DeleteAccount(c.Request().Context(), userID); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Account deleted successfully"})
}
