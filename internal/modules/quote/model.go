// README: Priced, traffic-aware trip quote.
package quote

import (
	"time"

	"cedar/internal/modules/fare"
	"cedar/internal/modules/location"
	"cedar/internal/modules/route"
)

// Quote combines resolved stops, the normalized route model, and the priced
// fare. The caller pairs it with a ranked driver to form a dispatchable
// trip record.
type Quote struct {
	Origin      location.Stop   `json:"origin"`
	Destination location.Stop   `json:"destination"`
	Stops       []location.Stop `json:"stops,omitempty"`
	Route       route.Result    `json:"route"`
	Fare        fare.Quote      `json:"fare"`
	Modifiers   fare.Modifiers  `json:"modifiers"`
	CreatedAt   time.Time       `json:"created_at"`
}
