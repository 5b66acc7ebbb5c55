package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/akira/credential-service/internal/api/metrics"
	"github.com/akira/credential-service/internal/core/domain"
	"github.com/akira/credential-service/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	log         zerolog.Logger
}

func NewAuthHandler(authService ports.AuthService, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, log: log}
}

type registerRequest struct {
	Name     string `json:"name"     validate:"required,max=100"`
	Surname  string `json:"surname"  validate:"required,max=100"`
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,max=72"`
	Phone    string `json:"phone"    validate:"omitempty,max=32"`
	Payment  string `json:"payment"  validate:"omitempty,max=255"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,max=72"`
}

type updatePasswordRequest struct {
	Email       string `json:"email"        validate:"required,email"`
	OldPassword string `json:"old_password" validate:"required,max=72"`
	NewPassword string `json:"new_password" validate:"required,max=72"`
}

// Register creates a new customer account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Account details"
// @Success      201   {object}  ports.Response[ports.RegisteredUser]
// @Failure      400   {object}  ports.Response[any]
// @Failure      409   {object}  ports.Response[any]
// @Failure      500   {object}  ports.Response[any]
// @Router       /api/v1/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	start := time.Now()
	resp, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Name:     req.Name,
		Surname:  req.Surname,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		Payment:  req.Payment,
	})
	observe(metrics.OpRegister, start, err)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, resp)
}

// Login authenticates a user and returns a bearer token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  ports.Response[ports.TokenResult]
// @Failure      400   {object}  ports.Response[any]
// @Failure      401   {object}  ports.Response[any]
// @Failure      500   {object}  ports.Response[any]
// @Router       /api/v1/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	start := time.Now()
	resp, err := h.authService.Login(c.Request().Context(), ports.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	observe(metrics.OpLogin, start, err)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, resp)
}

// UpdatePassword rotates the password of the authenticated user.
//
// @Summary      Update password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updatePasswordRequest  true  "Current and new password"
// @Success      200   {object}  ports.Response[ports.Empty]
// @Failure      400   {object}  ports.Response[any]
// @Failure      401   {object}  ports.Response[any]
// @Failure      403   {object}  ports.Response[any]
// @Failure      404   {object}  ports.Response[any]
// @Router       /api/v1/auth/password [put]
func (h *AuthHandler) UpdatePassword(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req updatePasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if req.Email != identity.Email {
		h.log.Warn().Str("user_id", identity.UserID).Msg("password update attempted for another account")
		return echo.NewHTTPError(http.StatusForbidden, "cannot change the password of another account")
	}

	start := time.Now()
	resp, err := h.authService.UpdatePassword(c.Request().Context(), ports.UpdatePasswordInput{
		Email:       req.Email,
		OldPassword: req.OldPassword,
		NewPassword: req.NewPassword,
	})
	observe(metrics.OpUpdatePassword, start, err)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, resp)
}

// Me returns the identity carried by the bearer token.
//
// @Summary      Current identity
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ports.Response[ports.Identity]
// @Failure      401  {object}  ports.Response[any]
// @Router       /api/v1/auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ports.Success("authenticated identity", identity))
}

func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

func observe(op string, start time.Time, err error) {
	metrics.AuthOperationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())

	result := "success"
	if err != nil {
		result = domain.KindOf(err).String()
	}
	metrics.AuthOperationsTotal.WithLabelValues(op, result).Inc()
}
