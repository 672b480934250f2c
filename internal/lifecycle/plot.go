package lifecycle

import (
	"encoding/json"
	"fmt"
	"time"
)

// Status is the sale-lifecycle position of a plot.
type Status string

const (
	StatusAvailable    Status = "available"
	StatusBooked       Status = "booked"
	StatusAgreement    Status = "agreement"
	StatusRegistration Status = "registration"
)

// ParseStatus validates a status string from an external caller.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusAvailable, StatusBooked, StatusAgreement, StatusRegistration:
		return Status(s), nil
	}
	return "", fmt.Errorf("%w: unknown plot status %q", ErrValidation, s)
}

// SaleState is the status-specific payload of a plot. Exactly one variant
// is held at a time, so a booked plot cannot also carry an agreement record.
type SaleState interface {
	Status() Status
}

// Available carries no customer data.
type Available struct{}

// Booked carries zero or more interested customers in insertion order.
// The first entry is the earliest interest and the default tie-break when
// the plot moves forward.
type Booked struct {
	Bookings []BookingRecord
}

// Agreement is a single customer's confirmed pre-registration commitment.
type Agreement struct {
	Record BookingRecord
}

// Registration is the final completed-sale state.
type Registration struct {
	Record BookingRecord
}

func (Available) Status() Status    { return StatusAvailable }
func (Booked) Status() Status       { return StatusBooked }
func (Agreement) Status() Status    { return StatusAgreement }
func (Registration) Status() Status { return StatusRegistration }

// Plot is a single sellable land parcel tracked by the engine.
type Plot struct {
	ID          string
	PlotNumber  string
	Dimension   string // free-form, e.g. "30×40" or "Odd"
	Area        int    // square feet
	Row         int
	Col         int
	State       SaleState
	LastUpdated time.Time
}

// Status derives the lifecycle status from the state variant.
func (p *Plot) Status() Status {
	if p.State == nil {
		return StatusAvailable
	}
	return p.State.Status()
}

// Bookings returns the active booking list, or nil outside booked status.
func (p *Plot) Bookings() []BookingRecord {
	if b, ok := p.State.(Booked); ok {
		return b.Bookings
	}
	return nil
}

// Record returns the single committed record for agreement or registration
// status, and false otherwise.
func (p *Plot) Record() (BookingRecord, bool) {
	switch s := p.State.(type) {
	case Agreement:
		return s.Record, true
	case Registration:
		return s.Record, true
	}
	return BookingRecord{}, false
}

// plotJSON is the wire shape consumed by the dashboard.
type plotJSON struct {
	ID           string          `json:"id"`
	PlotNumber   string          `json:"plotNumber"`
	Dimension    string          `json:"dimension"`
	Area         int             `json:"area"`
	Row          int             `json:"row"`
	Col          int             `json:"col"`
	Status       Status          `json:"status"`
	Bookings     []BookingRecord `json:"bookings,omitempty"`
	Agreement    *BookingRecord  `json:"agreement,omitempty"`
	Registration *BookingRecord  `json:"registration,omitempty"`
	LastUpdated  time.Time       `json:"lastUpdated"`
}

// MarshalJSON flattens the state variant into the status-plus-optional-fields
// shape the dashboard expects.
func (p *Plot) MarshalJSON() ([]byte, error) {
	out := plotJSON{
		ID:          p.ID,
		PlotNumber:  p.PlotNumber,
		Dimension:   p.Dimension,
		Area:        p.Area,
		Row:         p.Row,
		Col:         p.Col,
		Status:      p.Status(),
		LastUpdated: p.LastUpdated,
	}
	switch s := p.State.(type) {
	case Booked:
		out.Bookings = s.Bookings
	case Agreement:
		rec := s.Record
		out.Agreement = &rec
	case Registration:
		rec := s.Record
		out.Registration = &rec
	}
	return json.Marshal(out)
}
