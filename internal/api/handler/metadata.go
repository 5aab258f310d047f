package handler

import (
	"net/http"

	"github.com/roaringfork/irondash/internal/api/models"
	"github.com/roaringfork/irondash/internal/api/response"
	"github.com/roaringfork/irondash/internal/dashboard"
)

// MetadataHandler serves the fixed enumerations.
type MetadataHandler struct{}

// NewMetadataHandler creates a metadata handler.
func NewMetadataHandler() *MetadataHandler {
	return &MetadataHandler{}
}

// GetEnums handles GET /v1/metadata/enums.
func (h *MetadataHandler) GetEnums(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, models.EnumsResponse{
		Stations:  dashboard.Stations,
		Variables: dashboard.Variables,
	})
}
