package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"zajil/internal/apperr"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	Field     string `json:"field,omitempty"`
	Available *int64 `json:"available,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// usecaseのエラーをJSONにする。想定外は500で中身を出さない
func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	e, ok := apperr.As(err)
	if !ok || e.Kind == apperr.KindInternal {
		slog.ErrorContext(c.Request().Context(), "request failed",
			slog.String("method", c.Request().Method),
			slog.String("path", c.Path()),
			slog.Any("error", err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "internal error",
			Code:  string(apperr.KindInternal),
		})
	}

	return c.JSON(e.Status(), ErrorResponse{
		Error:     e.Message,
		Code:      string(e.Kind),
		Field:     e.Field,
		Available: e.Available,
	})
}

func badRequest(c echo.Context, field, msg string) error {
	return writeError(c, apperr.Validation(field, msg))
}

func pathInt64(c echo.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// 空ならdef
func queryInt(c echo.Context, name string, def int) (int, bool) {
	v := c.QueryParam(name)
	if v == "" {
		return def, true
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}
