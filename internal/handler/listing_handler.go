package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/atolyem/marketplace-backend/internal/model"
	"github.com/atolyem/marketplace-backend/internal/repository"
	"github.com/atolyem/marketplace-backend/internal/rules"
	"github.com/atolyem/marketplace-backend/internal/service"
	"github.com/labstack/echo/v4"
)

type ListingHandler struct {
	svc   service.ListingService
	users repository.UserRepository
}

func NewListingHandler(svc service.ListingService, users repository.UserRepository) *ListingHandler {
	return &ListingHandler{svc: svc, users: users}
}

type ListingResponse struct {
	ID                uint64   `json:"id"`
	ShopID            uint64   `json:"shopId"`
	Title             string   `json:"title"`
	Description       string   `json:"description"`
	Type              string   `json:"type"`
	Status            string   `json:"status"`
	IsPrivate         bool     `json:"isPrivate"`
	BasePriceMinor    int64    `json:"basePriceMinor"`
	Currency          string   `json:"currency"`
	BaseQuantity      int      `json:"baseQuantity"`
	ProcessingDaysMin int      `json:"processingDaysMin,omitempty"`
	ProcessingDaysMax int      `json:"processingDaysMax,omitempty"`
	HasDigitalAsset   bool     `json:"hasDigitalAsset,omitempty"`
	Tags              []string `json:"tags,omitempty"`
	CreatedAt         string   `json:"createdAt"`
	UpdatedAt         string   `json:"updatedAt"`
}

type ListingListResponse struct {
	Listings []ListingResponse `json:"listings"`
	Total    int64             `json:"total"`
}

type ListingRequest struct {
	Title             string `json:"title"`
	Description       string `json:"description"`
	Type              string `json:"type"`
	BasePriceMinor    int64  `json:"basePriceMinor"`
	BaseQuantity      int    `json:"baseQuantity"`
	IsPrivate         bool   `json:"isPrivate"`
	ProcessingDaysMin int    `json:"processingDaysMin"`
	ProcessingDaysMax int    `json:"processingDaysMax"`
	ReturnPolicy      string `json:"returnPolicy"`
	ReturnWindowDays  int    `json:"returnWindowDays"`
	DeliveryMode      string `json:"deliveryMode"`
	MaxDownloads      int    `json:"maxDownloads"`
}

func (r ListingRequest) toInput() service.ListingInput {
	return service.ListingInput{
		Title:             r.Title,
		Description:       r.Description,
		Type:              rules.ListingType(r.Type),
		BasePriceMinor:    r.BasePriceMinor,
		BaseQuantity:      r.BaseQuantity,
		IsPrivate:         r.IsPrivate,
		ProcessingDaysMin: r.ProcessingDaysMin,
		ProcessingDaysMax: r.ProcessingDaysMax,
		ReturnPolicy:      rules.ReturnPolicy(r.ReturnPolicy),
		ReturnWindowDays:  r.ReturnWindowDays,
		DeliveryMode:      rules.DeliveryMode(r.DeliveryMode),
		MaxDownloads:      r.MaxDownloads,
	}
}

func (h *ListingHandler) Create(c echo.Context) error {
	var req ListingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	listing, err := h.svc.Create(c.Request().Context(), uidFrom(c), req.toInput())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, toListingResponse(listing, nil))
}

func (h *ListingHandler) Update(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return nil
	}
	var req ListingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	listing, err := h.svc.Update(c.Request().Context(), id, viewerFrom(c, h.users), req.toInput())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toListingResponse(listing, nil))
}

func (h *ListingHandler) Publish(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return nil
	}
	listing, err := h.svc.Publish(c.Request().Context(), id, viewerFrom(c, h.users))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toListingResponse(listing, nil))
}

func (h *ListingHandler) Archive(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return nil
	}
	listing, err := h.svc.Archive(c.Request().Context(), id, viewerFrom(c, h.users))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toListingResponse(listing, nil))
}

func (h *ListingHandler) Get(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return nil
	}
	listing, err := h.svc.Get(c.Request().Context(), id, viewerFrom(c, h.users))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toListingResponse(listing, nil))
}

func (h *ListingHandler) List(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	listings, total, err := h.svc.List(c.Request().Context(), limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch listings"))
	}
	resp := ListingListResponse{
		Listings: make([]ListingResponse, 0, len(listings)),
		Total:    total,
	}
	for i := range listings {
		resp.Listings = append(resp.Listings, toListingResponse(&listings[i], nil))
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *ListingHandler) ListMine(c echo.Context) error {
	listings, err := h.svc.ListMine(c.Request().Context(), uidFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	resp := make([]ListingResponse, 0, len(listings))
	for i := range listings {
		resp = append(resp, toListingResponse(&listings[i], nil))
	}
	return c.JSON(http.StatusOK, resp)
}

type SetTagsRequest struct {
	Tags []string `json:"tags"`
}

func (h *ListingHandler) SetTags(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return nil
	}
	var req SetTagsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	tags, err := h.svc.SetTags(c.Request().Context(), id, viewerFrom(c, h.users), req.Tags)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string][]string{"tags": tags})
}

type PersonalizationFieldRequest struct {
	Key        string `json:"key"`
	Label      string `json:"label"`
	IsRequired bool   `json:"isRequired"`
	MinLength  int    `json:"minLength"`
	MaxLength  int    `json:"maxLength"`
}

func (h *ListingHandler) SetPersonalizationFields(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return nil
	}
	var req struct {
		Fields []PersonalizationFieldRequest `json:"fields"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	fields := make([]model.PersonalizationField, 0, len(req.Fields))
	for _, f := range req.Fields {
		fields = append(fields, model.PersonalizationField{
			FieldKey:   f.Key,
			Label:      f.Label,
			IsRequired: f.IsRequired,
			MinLength:  f.MinLength,
			MaxLength:  f.MaxLength,
		})
	}
	if err := h.svc.SetPersonalizationFields(c.Request().Context(), id, viewerFrom(c, h.users), fields); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// UploadAsset attaches the downloadable file to a digital listing. The file
// goes to object storage, never through the database.
func (h *ListingHandler) UploadAsset(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return nil
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "file is required"))
	}
	src, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "failed to read file"))
	}
	defer src.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if err := h.svc.UploadAsset(c.Request().Context(), id, viewerFrom(c, h.users), src, fileHeader.Filename, contentType); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func toListingResponse(listing *model.Listing, tags []string) ListingResponse {
	return ListingResponse{
		ID:                listing.ID,
		ShopID:            listing.ShopID,
		Title:             listing.Title,
		Description:       listing.Description,
		Type:              string(listing.Type),
		Status:            string(listing.Status),
		IsPrivate:         listing.IsPrivate,
		BasePriceMinor:    listing.BasePriceMinor,
		Currency:          listing.Currency,
		BaseQuantity:      listing.BaseQuantity,
		ProcessingDaysMin: listing.ProcessingDaysMin,
		ProcessingDaysMax: listing.ProcessingDaysMax,
		HasDigitalAsset:   listing.AssetObjectPath != "",
		Tags:              tags,
		CreatedAt:         listing.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         listing.UpdatedAt.Format(time.RFC3339),
	}
}

// parseID reads a numeric path param. On garbage input it writes the 400
// itself and reports ok=false; the caller just returns.
func parseID(c echo.Context, param string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil {
		_ = c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
		return 0, false
	}
	return id, true
}
