package handler

import (
    "errors"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/lesson-booking/internal/storage"
)

// ImageHandler serves GET /images/* from the configured image store.
type ImageHandler struct {
    Store storage.ImageStore
}

func NewImageHandler(store storage.ImageStore) *ImageHandler {
    return &ImageHandler{Store: store}
}

func (h *ImageHandler) Get(c echo.Context) error {
    img, err := h.Store.Resolve(c.Request().Context(), c.Param("*"))
    if errors.Is(err, storage.ErrImageNotFound) {
        return c.JSON(http.StatusNotFound, echo.Map{"error": CodeNotFound, "message": "image not found"})
    }
    if err != nil {
        return err
    }
    if img.URL != "" {
        return c.Redirect(http.StatusFound, img.URL)
    }
    return c.File(img.Path)
}
