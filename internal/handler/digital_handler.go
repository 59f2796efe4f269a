package handler

import (
	"net/http"

	"github.com/atolyem/marketplace-backend/internal/service"
	"github.com/labstack/echo/v4"
)

type DigitalHandler struct {
	svc service.DigitalService
}

func NewDigitalHandler(svc service.DigitalService) *DigitalHandler {
	return &DigitalHandler{svc: svc}
}

type DownloadResponse struct {
	URL string `json:"url"`
}

// Download returns a short-lived signed URL instead of streaming the file
// through the API. The URL lease counts as one download.
func (h *DigitalHandler) Download(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return nil
	}
	url, err := h.svc.Download(c.Request().Context(), id, uidFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, DownloadResponse{URL: url})
}

func (h *DigitalHandler) Deliver(c echo.Context) error {
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
	if err := h.svc.Deliver(c.Request().Context(), id, uidFrom(c), src, fileHeader.Filename, contentType); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
