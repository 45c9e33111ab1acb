// README: Location handlers for resolve and reverse geocoding.
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"cedar/internal/modules/location"
	"cedar/internal/types"
)

type LocationHandler struct {
	resolver *location.Resolver
}

func NewLocationHandler(resolver *location.Resolver) *LocationHandler {
	return &LocationHandler{resolver: resolver}
}

type resolveReq struct {
	Text string `json:"text"`
}

func (h *LocationHandler) Resolve(c *gin.Context) {
	var req resolveReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(c, http.StatusBadRequest, "text is required")
		return
	}
	loc, err := h.resolver.Resolve(c.Request.Context(), req.Text)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, loc)
}

type reverseReq struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (h *LocationHandler) Reverse(c *gin.Context) {
	var req reverseReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	address := h.resolver.ReverseResolve(c.Request.Context(), types.Point{Lat: req.Lat, Lng: req.Lng})
	writeJSON(c, http.StatusOK, gin.H{"address": address})
}
