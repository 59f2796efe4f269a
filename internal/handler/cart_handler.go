package handler

import (
	"net/http"
	"time"

	"github.com/atolyem/marketplace-backend/internal/service"
	"github.com/labstack/echo/v4"
)

type CartHandler struct {
	svc service.CartService
}

func NewCartHandler(svc service.CartService) *CartHandler {
	return &CartHandler{svc: svc}
}

type AddToCartRequest struct {
	ListingID       uint64            `json:"listingId"`
	VariantID       *uint64           `json:"variantId"`
	Quantity        int               `json:"quantity"`
	Personalization map[string]string `json:"personalization"`
}

type CartItemResponse struct {
	ID             uint64  `json:"id"`
	ListingID      uint64  `json:"listingId"`
	VariantID      *uint64 `json:"variantId,omitempty"`
	Quantity       int     `json:"quantity"`
	Title          string  `json:"title,omitempty"`
	UnitPriceMinor int64   `json:"unitPriceMinor,omitempty"`
	Currency       string  `json:"currency,omitempty"`
	Available      bool    `json:"available"`
	CreatedAt      string  `json:"createdAt"`
}

func (h *CartHandler) Add(c echo.Context) error {
	var req AddToCartRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	item, err := h.svc.Add(c.Request().Context(), uidFrom(c), req.ListingID, req.VariantID, req.Quantity, req.Personalization)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, CartItemResponse{
		ID:        item.ID,
		ListingID: item.ListingID,
		VariantID: item.VariantID,
		Quantity:  item.Quantity,
		Available: true,
		CreatedAt: item.CreatedAt.Format(time.RFC3339),
	})
}

type UpdateCartQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func (h *CartHandler) UpdateQuantity(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return nil
	}
	var req UpdateCartQuantityRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	item, err := h.svc.UpdateQuantity(c.Request().Context(), uidFrom(c), id, req.Quantity)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, CartItemResponse{
		ID:        item.ID,
		ListingID: item.ListingID,
		VariantID: item.VariantID,
		Quantity:  item.Quantity,
		Available: true,
		CreatedAt: item.CreatedAt.Format(time.RFC3339),
	})
}

func (h *CartHandler) Remove(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return nil
	}
	if err := h.svc.Remove(c.Request().Context(), uidFrom(c), id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CartHandler) List(c echo.Context) error {
	lines, err := h.svc.List(c.Request().Context(), uidFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	resp := make([]CartItemResponse, 0, len(lines))
	for _, line := range lines {
		item := CartItemResponse{
			ID:             line.Item.ID,
			ListingID:      line.Item.ListingID,
			VariantID:      line.Item.VariantID,
			Quantity:       line.Item.Quantity,
			UnitPriceMinor: line.UnitPriceMinor,
			Currency:       line.Currency,
			Available:      line.Available,
			CreatedAt:      line.Item.CreatedAt.Format(time.RFC3339),
		}
		if line.Listing != nil {
			item.Title = line.Listing.Title
		}
		resp = append(resp, item)
	}
	return c.JSON(http.StatusOK, resp)
}
