// README: Quote handlers: build a priced quote, rank drivers, reset routing block.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"cedar/internal/modules/fare"
	"cedar/internal/modules/quote"
	"cedar/internal/modules/route"
	"cedar/internal/modules/scoring"
	"cedar/internal/types"
)

type QuoteHandler struct {
	quote *quote.Service
	route *route.Service
}

func NewQuoteHandler(quoteSvc *quote.Service, routeSvc *route.Service) *QuoteHandler {
	return &QuoteHandler{quote: quoteSvc, route: routeSvc}
}

type buildQuoteReq struct {
	Origin        string   `json:"origin"`
	Destination   string   `json:"destination"`
	Stops         []string `json:"stops"`
	RoundTrip     bool     `json:"round_trip"`
	AddWaitTime   bool     `json:"add_wait_time"`
	WaitHours     float64  `json:"wait_hours"`
	RequestedTime string   `json:"requested_time"` // RFC3339, empty = now
}

func (h *QuoteHandler) Build(c *gin.Context) {
	var req buildQuoteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Origin == "" || req.Destination == "" {
		writeError(c, http.StatusBadRequest, "origin and destination are required")
		return
	}
	var requested time.Time
	if req.RequestedTime != "" {
		t, err := time.Parse(time.RFC3339, req.RequestedTime)
		if err != nil {
			writeError(c, http.StatusBadRequest, "requested_time must be RFC3339")
			return
		}
		requested = t
	}

	q, err := h.quote.BuildQuote(c.Request.Context(), quote.BuildCommand{
		OriginText:      req.Origin,
		DestinationText: req.Destination,
		StopTexts:       req.Stops,
		Modifiers: fare.Modifiers{
			RoundTrip:   req.RoundTrip,
			AddWaitTime: req.AddWaitTime,
			WaitHours:   req.WaitHours,
		},
		RequestedTime: requested,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, q)
}

type rankReq struct {
	TrafficIndex     int    `json:"traffic_index"`
	CustomerPhone    string `json:"customer_phone"`
	SelectedDriverID string `json:"selected_driver_id"`
}

func (h *QuoteHandler) Rank(c *gin.Context) {
	var req rankReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	scores, err := h.quote.RankDrivers(c.Request.Context(), quote.RankCommand{
		Context: scoring.Context{
			TrafficIndex:     req.TrafficIndex,
			CustomerPhone:    req.CustomerPhone,
			SelectedDriverID: types.ID(req.SelectedDriverID),
		},
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"drivers": scores})
}

// ResetRouting clears the session block after the provider key has been
// remediated.
func (h *QuoteHandler) ResetRouting(c *gin.Context) {
	h.route.ResetBlock()
	writeJSON(c, http.StatusOK, gin.H{"blocked": h.route.Blocked()})
}
