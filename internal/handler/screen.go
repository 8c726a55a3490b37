package handler

import (
	_ "embed"
	"net/http"

	"github.com/labstack/echo/v4"
)

//go:embed screen.html
var screenHTML []byte

// ScreenHandler serves the static landing screen.
type ScreenHandler struct{}

// NewScreenHandler creates a ScreenHandler.
func NewScreenHandler() *ScreenHandler {
	return &ScreenHandler{}
}

// Index renders the fixed screen. It takes no input.
func (h *ScreenHandler) Index(c echo.Context) error {
	return c.HTMLBlob(http.StatusOK, screenHTML)
}
