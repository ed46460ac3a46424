package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/campuslink/portal/internal/core/domain"
	"github.com/campuslink/portal/internal/devstub/store"
)

// Resources are the families managed from the admin dashboard.
var Resources = []string{"students", "faculty", "notices", "departments", "courses", "results", "alumni", "events"}

// ResourceHandler serves the generic CRUD contract for one resource family.
// List shapes differ per family, matching the backend the original client was
// written against: faculty answers with a bare, unpaginated array, alumni
// keys its envelope by resource name, everything else uses {items, total}.
// The SDK must cope with all three shapes.
type ResourceHandler struct {
	name  string
	store store.ResourceStore
	log   zerolog.Logger
}

func NewResourceHandler(name string, st store.ResourceStore, log zerolog.Logger) *ResourceHandler {
	return &ResourceHandler{name: name, store: st, log: log}
}

type listResponse struct {
	Items []map[string]any `json:"items"`
	Total int              `json:"total"`
}

type alumniListResponse struct {
	Alumni     []map[string]any `json:"alumni"`
	Total      int              `json:"total"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"totalPages"`
}

func (h *ResourceHandler) List(c echo.Context) error {
	q := domain.ListQuery{Search: c.QueryParam("search")}
	if v, err := strconv.Atoi(c.QueryParam("page")); err == nil {
		q.Page = v
	}
	if v, err := strconv.Atoi(c.QueryParam("limit")); err == nil {
		q.Limit = v
	}
	if h.name == "faculty" {
		// whole collection, pagination params ignored
		q.Page, q.Limit = 1, 1000
	}

	items, total, err := h.store.List(c.Request().Context(), h.name, q)
	if err != nil {
		return err
	}
	switch h.name {
	case "faculty":
		return c.JSON(http.StatusOK, items)
	case "alumni":
		page, limit := q.Page, q.Limit
		if page < 1 {
			page = 1
		}
		if limit < 1 {
			limit = 10
		}
		return c.JSON(http.StatusOK, alumniListResponse{
			Alumni:     items,
			Total:      total,
			Page:       page,
			Limit:      limit,
			TotalPages: (total + limit - 1) / limit,
		})
	default:
		return c.JSON(http.StatusOK, listResponse{Items: items, Total: total})
	}
}

func (h *ResourceHandler) Get(c echo.Context) error {
	doc, err := h.store.Get(c.Request().Context(), h.name, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, doc)
}

// StudentResults serves GET /results/student/:studentId, the student
// dashboard's own-results view.
func (h *ResourceHandler) StudentResults(c echo.Context) error {
	studentID := c.Param("studentId")
	items, _, err := h.store.List(c.Request().Context(), h.name, domain.ListQuery{Limit: 1000})
	if err != nil {
		return err
	}
	matched := []map[string]any{}
	for _, doc := range items {
		if doc["studentId"] == studentID {
			matched = append(matched, doc)
		}
	}
	return c.JSON(http.StatusOK, matched)
}

func (h *ResourceHandler) Create(c echo.Context) error {
	doc := map[string]any{}
	if err := c.Bind(&doc); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	created, err := h.store.Insert(c.Request().Context(), h.name, doc)
	if err != nil {
		return err
	}
	h.log.Debug().Str("resource", h.name).Any("id", created["id"]).Msg("record created")
	return c.JSON(http.StatusCreated, created)
}

func (h *ResourceHandler) Update(c echo.Context) error {
	patch := map[string]any{}
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	updated, err := h.store.Update(c.Request().Context(), h.name, c.Param("id"), patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *ResourceHandler) Delete(c echo.Context) error {
	if err := h.store.Delete(c.Request().Context(), h.name, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "deleted"})
}
