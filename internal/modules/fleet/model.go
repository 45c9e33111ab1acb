// README: Fleet driver entity and status definitions.
package fleet

import (
	"errors"
	"time"

	"cedar/internal/types"
)

// Status is the profile lifecycle state, owned by fleet management.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// DutyStatus is the live operational state.
type DutyStatus string

const (
	DutyAvailable DutyStatus = "available"
	DutyBusy      DutyStatus = "busy"
	DutyOffDuty   DutyStatus = "off_duty"
)

// Driver is read-only to the scorer; maintenance fields feed its readiness
// bands.
type Driver struct {
	ID            types.ID   `json:"id"`
	Name          string     `json:"name"`
	PlateNumber   string     `json:"plate_number"`
	Status        Status     `json:"status"`
	CurrentStatus DutyStatus `json:"current_status"`
	BaseMileage   float64    `json:"base_mileage_km"`
	LastOilChange float64    `json:"last_oil_change_km"`
	LastCheckup   float64    `json:"last_checkup_km"`
	FuelRangeKm   float64    `json:"fuel_range_km"`
	CreatedAt     time.Time  `json:"created_at"`
}

// KmSinceOilChange is the distance accumulated since the last oil service.
func (d Driver) KmSinceOilChange() float64 {
	return d.BaseMileage - d.LastOilChange
}

// KmSinceCheckup is the distance accumulated since the last checkup.
func (d Driver) KmSinceCheckup() float64 {
	return d.BaseMileage - d.LastCheckup
}

var (
	ErrNotFound   = errors.New("driver not found")
	ErrBadRequest = errors.New("bad driver request")
)

func validDutyStatus(s DutyStatus) bool {
	switch s {
	case DutyAvailable, DutyBusy, DutyOffDuty:
		return true
	}
	return false
}
