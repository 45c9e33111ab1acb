// README: Trip handlers: dispatch a quoted trip and drive its lifecycle.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cedar/internal/modules/fare"
	"cedar/internal/modules/route"
	"cedar/internal/modules/trip"
	"cedar/internal/types"
)

type TripHandler struct {
	trip *trip.Service
}

func NewTripHandler(tripSvc *trip.Service) *TripHandler {
	return &TripHandler{trip: tripSvc}
}

type dispatchReq struct {
	DriverID        string  `json:"driver_id"`
	CustomerPhone   string  `json:"customer_phone"`
	OriginText      string  `json:"origin_text"`
	OriginLat       float64 `json:"origin_lat"`
	OriginLng       float64 `json:"origin_lng"`
	DestinationText string  `json:"destination_text"`
	DestinationLat  float64 `json:"destination_lat"`
	DestinationLng  float64 `json:"destination_lng"`

	DistanceKm           float64 `json:"distance_km"`
	DurationInTrafficMin int     `json:"duration_in_traffic_min"`
	TrafficIndex         int     `json:"traffic_index"`
	FareUsd              int64   `json:"fare_usd"`
	FareLbp              int64   `json:"fare_lbp"`
	MinimumFareApplied   bool    `json:"minimum_fare_applied"`
	RoundTrip            bool    `json:"round_trip"`
}

func (h *TripHandler) Dispatch(c *gin.Context) {
	var req dispatchReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if !isValidID(req.DriverID) {
		writeError(c, http.StatusBadRequest, "invalid driver id")
		return
	}
	id, err := h.trip.Dispatch(c.Request.Context(), trip.DispatchCommand{
		DriverID:        types.ID(req.DriverID),
		CustomerPhone:   req.CustomerPhone,
		OriginText:      req.OriginText,
		Origin:          types.Point{Lat: req.OriginLat, Lng: req.OriginLng},
		DestinationText: req.DestinationText,
		Destination:     types.Point{Lat: req.DestinationLat, Lng: req.DestinationLng},
		Route: route.Result{
			DistanceKm:           req.DistanceKm,
			DurationInTrafficMin: req.DurationInTrafficMin,
			TrafficIndex:         req.TrafficIndex,
		},
		Fare: fare.Quote{
			FareUsd:            req.FareUsd,
			FareLbp:            req.FareLbp,
			MinimumFareApplied: req.MinimumFareApplied,
		},
		RoundTrip: req.RoundTrip,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, gin.H{"trip_id": id, "status": trip.StatusDispatched})
}

func (h *TripHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if !isValidID(id) {
		writeError(c, http.StatusBadRequest, "invalid trip id")
		return
	}
	t, err := h.trip.Get(c.Request.Context(), types.ID(id))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, t)
}

func (h *TripHandler) Start(c *gin.Context) {
	h.lifecycle(c, func(id types.ID) error {
		return h.trip.Start(c.Request.Context(), trip.StartCommand{TripID: id})
	}, trip.StatusEnRoute)
}

func (h *TripHandler) Complete(c *gin.Context) {
	h.lifecycle(c, func(id types.ID) error {
		return h.trip.Complete(c.Request.Context(), trip.CompleteCommand{TripID: id})
	}, trip.StatusCompleted)
}

type cancelReq struct {
	Reason string `json:"reason"`
}

func (h *TripHandler) Cancel(c *gin.Context) {
	id := c.Param("id")
	if !isValidID(id) {
		writeError(c, http.StatusBadRequest, "invalid trip id")
		return
	}
	var req cancelReq
	_ = c.ShouldBindJSON(&req) // reason is optional
	err := h.trip.Cancel(c.Request.Context(), trip.CancelCommand{
		TripID:    types.ID(id),
		ActorType: "operator",
		Reason:    req.Reason,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"trip_id": id, "status": trip.StatusCancelled})
}

func (h *TripHandler) lifecycle(c *gin.Context, op func(types.ID) error, to trip.Status) {
	id := c.Param("id")
	if !isValidID(id) {
		writeError(c, http.StatusBadRequest, "invalid trip id")
		return
	}
	if err := op(types.ID(id)); err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"trip_id": id, "status": to})
}
