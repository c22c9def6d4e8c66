package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/lesson-booking/internal/service"
)

// OrderHandler accepts cart submissions.
type OrderHandler struct {
    Orders *service.OrderService
}

func NewOrderHandler(orders *service.OrderService) *OrderHandler {
    return &OrderHandler{Orders: orders}
}

// Place handles POST /api/orders:
//
//	{"name": "Ada", "phone": "0123", "cart": [{"lesson_id": 1}, {"lesson_id": 3}]}
//
// 201 with the stored order, 409 when a lesson ran out of seats.
func (h *OrderHandler) Place(c echo.Context) error {
    var in service.PlaceOrderInput
    if err := c.Bind(&in); err != nil {
        return badRequest(c, "body must be a JSON object with name, phone and a cart array")
    }
    order, err := h.Orders.PlaceOrder(c.Request().Context(), in)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusCreated, order)
}
