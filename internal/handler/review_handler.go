package handler

import (
	"net/http"
	"time"

	"github.com/atolyem/marketplace-backend/internal/model"
	"github.com/atolyem/marketplace-backend/internal/service"
	"github.com/labstack/echo/v4"
)

type ReviewHandler struct {
	svc service.ReviewService
}

func NewReviewHandler(svc service.ReviewService) *ReviewHandler {
	return &ReviewHandler{svc: svc}
}

type CreateReviewRequest struct {
	OrderItemID uint64 `json:"orderItemId"`
	Rating      int    `json:"rating"`
	Body        string `json:"body"`
}

type ReviewResponse struct {
	ID        uint64 `json:"id"`
	ListingID uint64 `json:"listingId"`
	Rating    int    `json:"rating"`
	Body      string `json:"body,omitempty"`
	CreatedAt string `json:"createdAt"`
}

func (h *ReviewHandler) Create(c echo.Context) error {
	var req CreateReviewRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	review, err := h.svc.Create(c.Request().Context(), req.OrderItemID, uidFrom(c), req.Rating, req.Body)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, toReviewResponse(review))
}

func (h *ReviewHandler) ListByListing(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return nil
	}
	reviews, err := h.svc.ListByListing(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	resp := make([]ReviewResponse, 0, len(reviews))
	for i := range reviews {
		resp = append(resp, toReviewResponse(&reviews[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

func toReviewResponse(review *model.Review) ReviewResponse {
	return ReviewResponse{
		ID:        review.ID,
		ListingID: review.ListingID,
		Rating:    review.Rating,
		Body:      review.Body,
		CreatedAt: review.CreatedAt.Format(time.RFC3339),
	}
}
