package http

import "github.com/labstack/echo/v4"

// Handler is anything that can mount routes on the server's Echo
// instance. The server takes exactly one; the handler registry composes
// several into it.
type Handler interface {
	RegisterRoutes(e *echo.Echo)
}
