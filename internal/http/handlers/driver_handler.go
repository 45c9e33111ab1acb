// README: Fleet handlers: register, list, duty status, live position.
package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"cedar/internal/modules/fleet"
	"cedar/internal/types"
)

type DriverHandler struct {
	fleet *fleet.Service
}

func NewDriverHandler(fleetSvc *fleet.Service) *DriverHandler {
	return &DriverHandler{fleet: fleetSvc}
}

type registerDriverReq struct {
	Name          string  `json:"name"`
	PlateNumber   string  `json:"plate_number"`
	BaseMileage   float64 `json:"base_mileage_km"`
	LastOilChange float64 `json:"last_oil_change_km"`
	LastCheckup   float64 `json:"last_checkup_km"`
	FuelRangeKm   float64 `json:"fuel_range_km"`
}

func (h *DriverHandler) Register(c *gin.Context) {
	var req registerDriverReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	id, err := h.fleet.Register(c.Request.Context(), fleet.RegisterCommand{
		Name:          req.Name,
		PlateNumber:   req.PlateNumber,
		BaseMileage:   req.BaseMileage,
		LastOilChange: req.LastOilChange,
		LastCheckup:   req.LastCheckup,
		FuelRangeKm:   req.FuelRangeKm,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, gin.H{"driver_id": id})
}

// List returns the whole fleet, or the nearby available subset when a
// `near` query ("lat,lng", with optional `radius_km`) is given.
func (h *DriverHandler) List(c *gin.Context) {
	near := c.Query("near")
	if near == "" {
		drivers, err := h.fleet.List(c.Request.Context())
		if err != nil {
			writeDomainError(c, err)
			return
		}
		writeJSON(c, http.StatusOK, gin.H{"drivers": drivers})
		return
	}

	point, ok := parsePointParam(near)
	if !ok {
		writeError(c, http.StatusBadRequest, "near must be \"lat,lng\"")
		return
	}
	radiusKm := 10.0
	if raw := c.Query("radius_km"); raw != "" {
		r, err := strconv.ParseFloat(raw, 64)
		if err != nil || r <= 0 {
			writeError(c, http.StatusBadRequest, "radius_km must be a positive number")
			return
		}
		radiusKm = r
	}
	nearby, err := h.fleet.NearbyAvailable(c.Request.Context(), point, radiusKm)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"drivers": nearby})
}

type dutyStatusReq struct {
	CurrentStatus string `json:"current_status"`
}

func (h *DriverHandler) SetStatus(c *gin.Context) {
	id := c.Param("id")
	if !isValidID(id) {
		writeError(c, http.StatusBadRequest, "invalid driver id")
		return
	}
	var req dutyStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	err := h.fleet.SetDutyStatus(c.Request.Context(), types.ID(id), fleet.DutyStatus(req.CurrentStatus))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"driver_id": id, "current_status": req.CurrentStatus})
}

type mileageReq struct {
	BaseMileageKm float64 `json:"base_mileage_km"`
}

func (h *DriverHandler) UpdateMileage(c *gin.Context) {
	id := c.Param("id")
	if !isValidID(id) {
		writeError(c, http.StatusBadRequest, "invalid driver id")
		return
	}
	var req mileageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	err := h.fleet.UpdateMileage(c.Request.Context(), types.ID(id), req.BaseMileageKm)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"driver_id": id, "base_mileage_km": req.BaseMileageKm})
}

type positionReq struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (h *DriverHandler) UpdatePosition(c *gin.Context) {
	id := c.Param("id")
	if !isValidID(id) {
		writeError(c, http.StatusBadRequest, "invalid driver id")
		return
	}
	var req positionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	err := h.fleet.UpdatePosition(c.Request.Context(), types.ID(id), types.Point{Lat: req.Lat, Lng: req.Lng})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func parsePointParam(raw string) (types.Point, bool) {
	parts := strings.Split(raw, ",")
	if len(parts) != 2 {
		return types.Point{}, false
	}
	lat, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lng, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err1 != nil || err2 != nil {
		return types.Point{}, false
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return types.Point{}, false
	}
	return types.Point{Lat: lat, Lng: lng}, true
}
