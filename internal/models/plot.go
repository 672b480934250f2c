package models

import "time"

// Plot is one sellable parcel row. Status mirrors the lifecycle engine's
// state variant; booking rows carry the customer data.
type Plot struct {
	ID         string `gorm:"primaryKey;size:36"`
	ProjectID  string `gorm:"size:36;index;not null"`
	PlotNumber string `gorm:"size:64"`
	Dimension  string `gorm:"size:64"`
	Area       int    `gorm:"not null;default:0"`
	GridRow    int    `gorm:"not null;default:0"`
	GridCol    int    `gorm:"not null;default:0"`
	Status     string `gorm:"size:20;not null;default:'available'"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Bookings   []Booking `gorm:"foreignKey:PlotID"`
}

// Booking is one customer record attached to a plot. BookingType records the
// plot status the row was written under (booked, agreement, registration).
type Booking struct {
	ID            string `gorm:"primaryKey;size:36"`
	PlotID        string `gorm:"size:36;index;not null"`
	CustomerName  string `gorm:"size:255;not null"`
	CustomerPhone string `gorm:"size:20;not null"`
	BookingType   string `gorm:"size:20;not null;default:'booked'"`
	// Position preserves booking insertion order within a plot; created_at
	// alone cannot break ties on fast consecutive inserts.
	Position  int `gorm:"not null;default:0"`
	CreatedAt time.Time
}

// TableName overrides the table name for Plot
func (Plot) TableName() string {
	return "plots"
}

// TableName overrides the table name for Booking
func (Booking) TableName() string {
	return "bookings"
}
