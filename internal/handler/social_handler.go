package handler

import (
	"net/http"

	"github.com/atolyem/marketplace-backend/internal/service"
	"github.com/labstack/echo/v4"
)

type SocialHandler struct {
	svc service.SocialService
}

func NewSocialHandler(svc service.SocialService) *SocialHandler {
	return &SocialHandler{svc: svc}
}

func (h *SocialHandler) Favorite(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return nil
	}
	if err := h.svc.Favorite(c.Request().Context(), uidFrom(c), id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *SocialHandler) Unfavorite(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return nil
	}
	if err := h.svc.Unfavorite(c.Request().Context(), uidFrom(c), id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *SocialHandler) ListFavorites(c echo.Context) error {
	favorites, err := h.svc.ListFavorites(c.Request().Context(), uidFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	ids := make([]uint64, 0, len(favorites))
	for _, f := range favorites {
		ids = append(ids, f.ListingID)
	}
	return c.JSON(http.StatusOK, map[string][]uint64{"listingIds": ids})
}

func (h *SocialHandler) Follow(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return nil
	}
	if err := h.svc.Follow(c.Request().Context(), uidFrom(c), id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *SocialHandler) Unfollow(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return nil
	}
	if err := h.svc.Unfollow(c.Request().Context(), uidFrom(c), id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *SocialHandler) ListFollows(c echo.Context) error {
	follows, err := h.svc.ListFollows(c.Request().Context(), uidFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	ids := make([]uint64, 0, len(follows))
	for _, f := range follows {
		ids = append(ids, f.ShopID)
	}
	return c.JSON(http.StatusOK, map[string][]uint64{"shopIds": ids})
}
