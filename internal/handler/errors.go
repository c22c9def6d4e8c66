package handler

import (
    "errors"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/lesson-booking/internal/logging"
    "github.com/iliyamo/lesson-booking/internal/service"
)

// Error codes in the JSON error body.
const (
    CodeInvalidRequest   = "invalid_request"
    CodeNotFound         = "not_found"
    CodeOversold         = "oversold"
    CodeStoreUnavailable = "store_unavailable"
)

// writeError maps service errors to a status and {"error","message"} body.
// Anything unclassified goes to echo's error handler as a 500.
func writeError(c echo.Context, err error) error {
    var over *service.OversoldError
    switch {
    case errors.As(err, &over):
        return c.JSON(http.StatusConflict, echo.Map{
            "error":       CodeOversold,
            "message":     err.Error(),
            "unavailable": over.LessonIDs,
        })
    case errors.Is(err, service.ErrInvalidRequest):
        return c.JSON(http.StatusBadRequest, echo.Map{"error": CodeInvalidRequest, "message": err.Error()})
    case errors.Is(err, service.ErrNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": CodeNotFound, "message": err.Error()})
    case errors.Is(err, service.ErrStoreUnavailable):
        // storage details stay in the log
        logging.FromContext(c.Request().Context(), nil).WithError(err).Error("store unavailable")
        return c.JSON(http.StatusServiceUnavailable, echo.Map{
            "error":   CodeStoreUnavailable,
            "message": "storage is temporarily unavailable, please retry",
        })
    }
    return err
}

func badRequest(c echo.Context, msg string) error {
    return c.JSON(http.StatusBadRequest, echo.Map{"error": CodeInvalidRequest, "message": msg})
}
