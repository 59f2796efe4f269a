package handler

import (
	"net/http"
	"time"

	"github.com/atolyem/marketplace-backend/internal/model"
	"github.com/atolyem/marketplace-backend/internal/service"
	"github.com/labstack/echo/v4"
)

type OrderHandler struct {
	checkout service.CheckoutService
	orders   service.OrderService
}

func NewOrderHandler(checkout service.CheckoutService, orders service.OrderService) *OrderHandler {
	return &OrderHandler{checkout: checkout, orders: orders}
}

type CheckoutRequest struct {
	IdempotencyKey string `json:"idempotencyKey"`
	International  bool   `json:"international"`
	DiscountMinor  int64  `json:"discountMinor"`
}

type OrderItemResponse struct {
	ID              uint64  `json:"id"`
	ListingID       uint64  `json:"listingId"`
	VariantID       *uint64 `json:"variantId,omitempty"`
	Quantity        int     `json:"quantity"`
	Title           string  `json:"title"`
	ListingType     string  `json:"listingType"`
	UnitPriceMinor  int64   `json:"unitPriceMinor"`
	Currency        string  `json:"currency"`
	VariantLabel    string  `json:"variantLabel,omitempty"`
	Personalization string  `json:"personalization,omitempty"`
	ReturnPolicy    string  `json:"returnPolicy,omitempty"`
}

type OrderResponse struct {
	ID              uint64              `json:"id"`
	Ref             string              `json:"ref"`
	Status          string              `json:"status"`
	Currency        string              `json:"currency"`
	SubtotalMinor   int64               `json:"subtotalMinor"`
	ShippingMinor   int64               `json:"shippingMinor"`
	DiscountMinor   int64               `json:"discountMinor"`
	GrandTotalMinor int64               `json:"grandTotalMinor"`
	International   bool                `json:"international"`
	PaidAt          *string             `json:"paidAt,omitempty"`
	ShippedAt       *string             `json:"shippedAt,omitempty"`
	DeliveredAt     *string             `json:"deliveredAt,omitempty"`
	Items           []OrderItemResponse `json:"items"`
	CreatedAt       string              `json:"createdAt"`
}

func (h *OrderHandler) Checkout(c echo.Context) error {
	var req CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	order, err := h.checkout.Checkout(c.Request().Context(), service.CheckoutInput{
		BuyerUID:       uidFrom(c),
		IdempotencyKey: req.IdempotencyKey,
		International:  req.International,
		DiscountMinor:  req.DiscountMinor,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, toOrderResponse(order))
}

func (h *OrderHandler) Get(c echo.Context) error {
	order, err := h.orders.GetByRef(c.Request().Context(), c.Param("ref"), uidFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toOrderResponse(order))
}

func (h *OrderHandler) ListMine(c echo.Context) error {
	orders, err := h.orders.ListMine(c.Request().Context(), uidFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	resp := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		resp = append(resp, toOrderResponse(&orders[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *OrderHandler) ListSales(c echo.Context) error {
	items, err := h.orders.ListSales(c.Request().Context(), uidFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	resp := make([]OrderItemResponse, 0, len(items))
	for i := range items {
		resp = append(resp, toOrderItemResponse(&items[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *OrderHandler) MarkPaid(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return nil
	}
	order, err := h.orders.MarkPaid(c.Request().Context(), id, uidFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toOrderResponse(order))
}

type MarkShippedRequest struct {
	EstimatedDeliveryDate *string `json:"estimatedDeliveryDate"`
}

func (h *OrderHandler) MarkShipped(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return nil
	}
	var req MarkShippedRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	var estimated *time.Time
	if req.EstimatedDeliveryDate != nil {
		t, err := time.Parse(time.RFC3339, *req.EstimatedDeliveryDate)
		if err != nil {
			return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "estimatedDeliveryDate must be RFC3339"))
		}
		estimated = &t
	}
	order, err := h.orders.MarkShipped(c.Request().Context(), id, uidFrom(c), estimated)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toOrderResponse(order))
}

func (h *OrderHandler) MarkDelivered(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return nil
	}
	order, err := h.orders.MarkDelivered(c.Request().Context(), id, uidFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toOrderResponse(order))
}

func (h *OrderHandler) Cancel(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return nil
	}
	order, err := h.orders.Cancel(c.Request().Context(), id, uidFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toOrderResponse(order))
}

func toOrderResponse(order *model.Order) OrderResponse {
	resp := OrderResponse{
		ID:              order.ID,
		Ref:             order.Ref,
		Status:          string(order.Status),
		Currency:        order.Currency,
		SubtotalMinor:   order.SubtotalMinor,
		ShippingMinor:   order.ShippingMinor,
		DiscountMinor:   order.DiscountMinor,
		GrandTotalMinor: order.GrandTotalMinor,
		International:   order.International,
		PaidAt:          formatTimePtr(order.PaidAt),
		ShippedAt:       formatTimePtr(order.ShippedAt),
		DeliveredAt:     formatTimePtr(order.DeliveredAt),
		Items:           make([]OrderItemResponse, 0, len(order.Items)),
		CreatedAt:       order.CreatedAt.Format(time.RFC3339),
	}
	for i := range order.Items {
		resp.Items = append(resp.Items, toOrderItemResponse(&order.Items[i]))
	}
	return resp
}

func toOrderItemResponse(item *model.OrderItem) OrderItemResponse {
	return OrderItemResponse{
		ID:              item.ID,
		ListingID:       item.ListingID,
		VariantID:       item.VariantID,
		Quantity:        item.Quantity,
		Title:           item.TitleSnapshot,
		ListingType:     string(item.ListingTypeSnapshot),
		UnitPriceMinor:  item.UnitPriceMinor,
		Currency:        item.Currency,
		VariantLabel:    item.VariantLabelSnapshot,
		Personalization: item.PersonalizationSnapshot,
		ReturnPolicy:    string(item.ReturnPolicySnapshot),
	}
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
