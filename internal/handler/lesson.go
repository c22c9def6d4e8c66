package handler

import (
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/lesson-booking/internal/service"
)

// LessonHandler serves the catalog.
type LessonHandler struct {
    Catalog *service.CatalogService
}

func NewLessonHandler(catalog *service.CatalogService) *LessonHandler {
    return &LessonHandler{Catalog: catalog}
}

// List handles GET /api/lessons?sortBy=price&order=desc.
func (h *LessonHandler) List(c echo.Context) error {
    lessons, err := h.Catalog.ListLessons(c.Request().Context(), c.QueryParam("sortBy"), c.QueryParam("order"))
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, lessons)
}

// Search handles GET /api/search?q=. A blank q lists everything.
func (h *LessonHandler) Search(c echo.Context) error {
    lessons, err := h.Catalog.SearchLessons(c.Request().Context(), c.QueryParam("q"))
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, lessons)
}

// Get handles GET /api/lessons/:id.
func (h *LessonHandler) Get(c echo.Context) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return badRequest(c, "lesson id must be a positive integer")
    }
    lesson, err := h.Catalog.GetLesson(c.Request().Context(), id)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, lesson)
}

type updateSpacesRequest struct {
    Spaces *int `json:"spaces"`
}

// UpdateSpaces handles PUT /api/lessons/:id with {"spaces": n}.
func (h *LessonHandler) UpdateSpaces(c echo.Context) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return badRequest(c, "lesson id must be a positive integer")
    }
    var req updateSpacesRequest
    if err := c.Bind(&req); err != nil {
        return badRequest(c, "body must be a JSON object like {\"spaces\": 5}")
    }
    if req.Spaces == nil {
        return badRequest(c, "spaces is required")
    }

    lesson, err := h.Catalog.UpdateLessonSpaces(c.Request().Context(), id, *req.Spaces)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, lesson)
}
