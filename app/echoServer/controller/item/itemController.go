package item

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"shareit/app/echoServer/controller"
	"shareit/model"
	itemsvc "shareit/service/item"
)

type Controller struct {
	Svc itemsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /items
func (h *Controller) Create(c echo.Context) error {
	var req CreateItemReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	uid := controller.UserID(c)

	it, err := h.Svc.Create(c.Request().Context(), uid, req.Name, req.Description, req.Available, req.RequestID)
	if err != nil {
		return controller.Err(c, h.Log, err)
	}
	return c.JSON(http.StatusCreated, it)
}

// PATCH /items/:id
func (h *Controller) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var patch model.ItemPatch
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	uid := controller.UserID(c)

	it, err := h.Svc.Update(c.Request().Context(), uid, id, patch)
	if err != nil {
		return controller.Err(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, it)
}

// GET /items/:id
func (h *Controller) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	details, err := h.Svc.Get(c.Request().Context(), id)
	if err != nil {
		return controller.Err(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, details)
}

// GET /items
func (h *Controller) ListMine(c echo.Context) error {
	uid := controller.UserID(c)
	items, err := h.Svc.ListByUser(c.Request().Context(), uid)
	if err != nil {
		return controller.Err(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, items)
}

// GET /items/search?text=
func (h *Controller) Search(c echo.Context) error {
	items, err := h.Svc.Search(c.Request().Context(), c.QueryParam("text"))
	if err != nil {
		return controller.Err(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, items)
}

// DELETE /items/:id
func (h *Controller) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	uid := controller.UserID(c)

	if err := h.Svc.Delete(c.Request().Context(), uid, id); err != nil {
		return controller.Err(c, h.Log, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// POST /items/:id/comment
func (h *Controller) AddComment(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req CommentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	uid := controller.UserID(c)

	cm, err := h.Svc.AddComment(c.Request().Context(), uid, id, req.Text)
	if err != nil {
		return controller.Err(c, h.Log, err)
	}
	return c.JSON(http.StatusCreated, cm)
}

func parseID(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}
