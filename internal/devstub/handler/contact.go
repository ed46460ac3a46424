package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/campuslink/portal/internal/devstub/store"
)

// ContactHandler accepts public contact form submissions. Messages are kept
// in the resource store so a long-lived stub can be inspected.
type ContactHandler struct {
	store store.ResourceStore
	log   zerolog.Logger
}

func NewContactHandler(st store.ResourceStore, log zerolog.Logger) *ContactHandler {
	return &ContactHandler{store: st, log: log}
}

type contactRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"required"`
	Message string `json:"message" validate:"required"`
}

func (h *ContactHandler) Submit(c echo.Context) error {
	var req contactRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	doc := map[string]any{
		"name":    req.Name,
		"email":   req.Email,
		"subject": req.Subject,
		"message": req.Message,
	}
	if _, err := h.store.Insert(c.Request().Context(), "contacts", doc); err != nil {
		return err
	}
	h.log.Info().Str("email", req.Email).Str("subject", req.Subject).Msg("contact message received")
	return c.JSON(http.StatusCreated, map[string]string{
		"message": "Thank you for your message! We'll get back to you soon.",
	})
}
