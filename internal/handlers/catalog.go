package handlers

import (
	"net/http"

	"smartbrief-backend/internal/models"
	"smartbrief-backend/internal/services"
)

type CatalogHandler struct {
	catalog      *services.Catalog
	defaultModel string
}

func NewCatalogHandler(catalog *services.Catalog, defaultModel string) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, defaultModel: defaultModel}
}

func (h *CatalogHandler) Models(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"default": h.defaultModel,
		"tiers":   h.catalog.Tiers(),
	})
}

func (h *CatalogHandler) Options(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		models.SummaryOptions
		Defaults map[string]string `json:"defaults"`
	}{
		SummaryOptions: services.Options(),
		Defaults: map[string]string{
			"mode":   services.DefaultMode,
			"tone":   services.DefaultTone,
			"depth":  services.DefaultDepth,
			"format": services.DefaultFormat,
		},
	})
}
