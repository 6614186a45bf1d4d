// Package controller holds helpers shared by the resource controllers.
package controller

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"shareit/util/apperr"
)

// Err maps a service error onto the HTTP response. Unknown errors are
// logged with the request id and reported as a bare 500.
func Err(c echo.Context, log *slog.Logger, err error) error {
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
	case apperr.KindNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"message": err.Error()})
	case apperr.KindConflict:
		return c.JSON(http.StatusConflict, echo.Map{"message": err.Error()})
	default:
		rid := c.Response().Header().Get(echo.HeaderXRequestID)
		log.Error("request failed",
			"err", err,
			"req_id", rid,
			"path", c.Path(),
			"method", c.Request().Method,
		)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
}

// UserID reads the acting user placed into the context by the SharerID
// middleware.
func UserID(c echo.Context) int64 {
	uid, _ := c.Get("user_id").(int64)
	return uid
}
