package request

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"shareit/app/echoServer/controller"
	requestsvc "shareit/service/request"
)

type Controller struct {
	Svc requestsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /requests
func (h *Controller) Create(c echo.Context) error {
	var req CreateRequestReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	uid := controller.UserID(c)

	out, err := h.Svc.Add(c.Request().Context(), uid, req.Description)
	if err != nil {
		return controller.Err(c, h.Log, err)
	}
	return c.JSON(http.StatusCreated, out)
}

// GET /requests
func (h *Controller) Own(c echo.Context) error {
	uid := controller.UserID(c)
	out, err := h.Svc.Own(c.Request().Context(), uid)
	if err != nil {
		return controller.Err(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, out)
}

// GET /requests/all?from=&size=
func (h *Controller) Others(c echo.Context) error {
	from, size, err := pageParams(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
	}
	uid := controller.UserID(c)

	out, err := h.Svc.Others(c.Request().Context(), uid, from, size)
	if err != nil {
		return controller.Err(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, out)
}

// GET /requests/:id
func (h *Controller) Get(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	uid := controller.UserID(c)

	out, err := h.Svc.ByID(c.Request().Context(), uid, id)
	if err != nil {
		return controller.Err(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, out)
}

func pageParams(c echo.Context) (from, size int, err error) {
	from, err = queryInt(c, "from", 0)
	if err != nil || from < 0 {
		return 0, 0, errors.New("invalid from parameter")
	}
	size, err = queryInt(c, "size", 10)
	if err != nil || size <= 0 {
		return 0, 0, errors.New("invalid size parameter")
	}
	return from, size, nil
}

func queryInt(c echo.Context, name string, def int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
