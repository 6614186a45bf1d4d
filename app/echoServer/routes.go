package echoServer

import (
	"github.com/labstack/echo/v4"

	"shareit/app/echoServer/controller/booking"
	"shareit/app/echoServer/controller/item"
	"shareit/app/echoServer/controller/request"
	"shareit/app/echoServer/controller/user"
)

type C struct {
	User    *user.Controller
	Item    *item.Controller
	Booking *booking.Controller
	Request *request.Controller
}

func Register(e *echo.Echo, c C) {
	// Users carry no acting-user header
	e.POST("/users", c.User.Create)
	e.PATCH("/users/:id", c.User.Update)
	e.GET("/users/:id", c.User.Get)
	e.GET("/users", c.User.List)
	e.DELETE("/users/:id", c.User.Delete)

	// Search is public; everything else on items needs the sharer header
	e.GET("/items/search", c.Item.Search)

	items := e.Group("/items", SharerID())
	items.POST("", c.Item.Create)
	items.PATCH("/:id", c.Item.Update)
	items.GET("/:id", c.Item.Get)
	items.GET("", c.Item.ListMine)
	items.DELETE("/:id", c.Item.Delete)
	items.POST("/:id/comment", c.Item.AddComment)

	bookings := e.Group("/bookings", SharerID())
	bookings.POST("", c.Booking.Create)
	bookings.PATCH("/:id", c.Booking.Approve)
	bookings.GET("/owner", c.Booking.ListOwner)
	bookings.GET("/:id", c.Booking.Get)
	bookings.GET("", c.Booking.ListMine)

	requests := e.Group("/requests", SharerID())
	requests.POST("", c.Request.Create)
	requests.GET("", c.Request.Own)
	requests.GET("/all", c.Request.Others)
	requests.GET("/:id", c.Request.Get)
}
