package handler

import (
	"net/http"
	"time"

	"github.com/atolyem/marketplace-backend/internal/model"
	"github.com/atolyem/marketplace-backend/internal/repository"
	"github.com/atolyem/marketplace-backend/internal/service"
	"github.com/labstack/echo/v4"
)

type ShopHandler struct {
	svc   service.ShopService
	users repository.UserRepository
}

func NewShopHandler(svc service.ShopService, users repository.UserRepository) *ShopHandler {
	return &ShopHandler{svc: svc, users: users}
}

type CreateShopRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type ShopResponse struct {
	ID        uint64 `json:"id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	Currency  string `json:"currency"`
	CreatedAt string `json:"createdAt"`
}

func (h *ShopHandler) Create(c echo.Context) error {
	var req CreateShopRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	shop, err := h.svc.Create(c.Request().Context(), uidFrom(c), req.Name, req.Slug)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, toShopResponse(shop))
}

func (h *ShopHandler) Get(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return nil
	}
	shop, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toShopResponse(shop))
}

func (h *ShopHandler) GetMine(c echo.Context) error {
	shop, err := h.svc.GetMine(c.Request().Context(), uidFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toShopResponse(shop))
}

type ShippingRuleRequest struct {
	Zone                string `json:"zone"`
	BasePriceMinor      int64  `json:"basePriceMinor"`
	FreeAboveMinor      *int64 `json:"freeAboveMinor"`
	AdditionalItemMinor *int64 `json:"additionalItemMinor"`
}

type ShippingRuleResponse struct {
	ID                  uint64 `json:"id"`
	Zone                string `json:"zone"`
	BasePriceMinor      int64  `json:"basePriceMinor"`
	FreeAboveMinor      *int64 `json:"freeAboveMinor,omitempty"`
	AdditionalItemMinor *int64 `json:"additionalItemMinor,omitempty"`
}

func (h *ShopHandler) SetShippingRule(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return nil
	}
	var req ShippingRuleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	rule, err := h.svc.SetShippingRule(c.Request().Context(), id, viewerFrom(c, h.users), service.ShippingRuleInput{
		Zone:                model.ShippingZone(req.Zone),
		BasePriceMinor:      req.BasePriceMinor,
		FreeAboveMinor:      req.FreeAboveMinor,
		AdditionalItemMinor: req.AdditionalItemMinor,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toShippingRuleResponse(rule))
}

func (h *ShopHandler) ShippingRules(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return nil
	}
	rules, err := h.svc.ShippingRules(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	resp := make([]ShippingRuleResponse, 0, len(rules))
	for i := range rules {
		resp = append(resp, toShippingRuleResponse(&rules[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

func toShopResponse(shop *model.Shop) ShopResponse {
	return ShopResponse{
		ID:        shop.ID,
		Name:      shop.Name,
		Slug:      shop.Slug,
		Currency:  shop.Currency,
		CreatedAt: shop.CreatedAt.Format(time.RFC3339),
	}
}

func toShippingRuleResponse(rule *model.ShippingRule) ShippingRuleResponse {
	return ShippingRuleResponse{
		ID:                  rule.ID,
		Zone:                string(rule.Zone),
		BasePriceMinor:      rule.BasePriceMinor,
		FreeAboveMinor:      rule.FreeAboveMinor,
		AdditionalItemMinor: rule.AdditionalItemMinor,
	}
}
