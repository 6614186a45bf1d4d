package booking

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"shareit/app/echoServer/controller"
	bookingsvc "shareit/service/booking"
)

type Controller struct {
	Svc bookingsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /bookings
func (h *Controller) Create(c echo.Context) error {
	var req CreateBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}
	uid := controller.UserID(c)

	var start, end time.Time
	if req.Start != nil {
		start = *req.Start
	}
	if req.End != nil {
		end = *req.End
	}

	b, err := h.Svc.Create(c.Request().Context(), uid, req.ItemID, start, end)
	if err != nil {
		return controller.Err(c, h.Log, err)
	}
	return c.JSON(http.StatusCreated, b)
}

// PATCH /bookings/:id?approved=bool
func (h *Controller) Approve(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	approved, err := strconv.ParseBool(c.QueryParam("approved"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid approved parameter"})
	}
	uid := controller.UserID(c)

	b, err := h.Svc.Approve(c.Request().Context(), uid, id, approved)
	if err != nil {
		return controller.Err(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, b)
}

// GET /bookings/:id
func (h *Controller) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	uid := controller.UserID(c)

	b, err := h.Svc.Get(c.Request().Context(), uid, id)
	if err != nil {
		return controller.Err(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, b)
}

// GET /bookings?state=&from=&size=
func (h *Controller) ListMine(c echo.Context) error {
	state, from, size, err := listParams(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
	}
	uid := controller.UserID(c)

	bs, err := h.Svc.ListByBooker(c.Request().Context(), uid, state, from, size)
	if err != nil {
		return controller.Err(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, bs)
}

// GET /bookings/owner?state=&from=&size=
func (h *Controller) ListOwner(c echo.Context) error {
	state, from, size, err := listParams(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
	}
	uid := controller.UserID(c)

	bs, err := h.Svc.ListByOwner(c.Request().Context(), uid, state, from, size)
	if err != nil {
		return controller.Err(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, bs)
}

func parseID(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

func listParams(c echo.Context) (state string, from, size int, err error) {
	state = c.QueryParam("state")
	if state == "" {
		state = "ALL"
	}
	from, err = queryInt(c, "from", 0)
	if err != nil || from < 0 {
		return "", 0, 0, errors.New("invalid from parameter")
	}
	size, err = queryInt(c, "size", 10)
	if err != nil || size <= 0 {
		return "", 0, 0, errors.New("invalid size parameter")
	}
	return state, from, size, nil
}

func queryInt(c echo.Context, name string, def int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
