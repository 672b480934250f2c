// store.go
//
// Plot lifecycle engine for the PlotVista land-inventory service.
//
// This file is part of plotvista.
// plotvista is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// plotvista is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.

package lifecycle

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Store owns the plot set of one project and applies all lifecycle mutations
// under the business rules. Operations are synchronous and run to completion;
// a failed call leaves the store exactly as it was.
type Store struct {
	projectID   string
	projectName string
	rows        int
	cols        int
	plots       []*Plot

	now func() time.Time
}

// NewStore builds a store over plots already loaded into memory. A plot
// arriving without a state is treated as available.
func NewStore(projectID, projectName string, rows, cols int, plots []*Plot) *Store {
	for _, p := range plots {
		if p.State == nil {
			p.State = Available{}
		}
	}
	return &Store{
		projectID:   projectID,
		projectName: projectName,
		rows:        rows,
		cols:        cols,
		plots:       plots,
		now:         time.Now,
	}
}

// SetClock overrides the timestamp source. Test hook.
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}

// Snapshot returns the current layout with derived totals recomputed.
func (s *Store) Snapshot() Layout {
	totalArea := 0
	for _, p := range s.plots {
		totalArea += p.Area
	}
	return Layout{
		ProjectID:   s.projectID,
		ProjectName: s.projectName,
		Rows:        s.rows,
		Columns:     s.cols,
		Plots:       s.plots,
		TotalPlots:  len(s.plots),
		TotalArea:   totalArea,
	}
}

// Plot resolves a plot by id.
func (s *Store) Plot(plotID string) (*Plot, error) {
	for _, p := range s.plots {
		if p.ID == plotID {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrPlotNotFound, plotID)
}

// ApplyLayout is the authoritative bulk replace. A definition whose plot
// number matches an existing plot updates dimension, area and grid position
// in place and keeps the sale state; any other definition creates a fresh
// available plot. Existing plots absent from the definitions are dropped,
// including their booking data.
func (s *Store) ApplyLayout(rows, cols int, defs []PlotDefinition) Layout {
	existing := make(map[string]*Plot, len(s.plots))
	for _, p := range s.plots {
		if _, ok := existing[p.PlotNumber]; !ok {
			existing[p.PlotNumber] = p
		}
	}

	now := s.now()
	plots := make([]*Plot, 0, len(defs))
	claimed := make(map[string]bool, len(defs))
	for _, def := range defs {
		if cur, ok := existing[def.PlotNumber]; ok && !claimed[def.PlotNumber] {
			claimed[def.PlotNumber] = true
			cur.Dimension = def.Dimension
			cur.Area = def.Area
			cur.Row = def.Row
			cur.Col = def.Col
			cur.LastUpdated = now
			plots = append(plots, cur)
			continue
		}
		plots = append(plots, &Plot{
			ID:          uuid.NewString(),
			PlotNumber:  def.PlotNumber,
			Dimension:   def.Dimension,
			Area:        def.Area,
			Row:         def.Row,
			Col:         def.Col,
			State:       Available{},
			LastUpdated: now,
		})
	}

	s.rows = rows
	s.cols = cols
	s.plots = plots
	return s.Snapshot()
}

// AddPlot appends a single plot to the existing layout by synthesizing a
// template entry and re-applying the bulk operation.
func (s *Store) AddPlot(def PlotDefinition) (Layout, error) {
	for _, p := range s.plots {
		if p.PlotNumber == def.PlotNumber {
			return Layout{}, fmt.Errorf("%w: plot number %q already exists", ErrValidation, def.PlotNumber)
		}
	}
	defs := make([]PlotDefinition, 0, len(s.plots)+1)
	for _, p := range s.plots {
		defs = append(defs, PlotDefinition{
			PlotNumber: p.PlotNumber,
			Dimension:  p.Dimension,
			Area:       p.Area,
			Row:        p.Row,
			Col:        p.Col,
		})
	}
	defs = append(defs, def)
	return s.ApplyLayout(s.rows, s.cols, defs), nil
}

// UpdateStatus transitions a plot to newStatus. The booking record used for
// agreement and registration is resolved in order: explicit info, the plot's
// existing agreement record, the plot's single booking. A plot holding more
// than one booking requires explicit info selecting the survivor.
func (s *Store) UpdateStatus(plotID string, newStatus Status, info *BookingRecord) (*Plot, error) {
	p, err := s.Plot(plotID)
	if err != nil {
		return nil, err
	}
	next, err := nextState(p.State, newStatus, info)
	if err != nil {
		return nil, err
	}
	p.State = next
	p.LastUpdated = s.now()
	return p, nil
}

func nextState(cur SaleState, newStatus Status, info *BookingRecord) (SaleState, error) {
	switch newStatus {
	case StatusAvailable:
		// universal reset, booking info ignored
		return Available{}, nil

	case StatusBooked:
		switch st := cur.(type) {
		case Available:
			if info == nil {
				return nil, ErrMissingBookingInfo
			}
			return Booked{Bookings: []BookingRecord{*info}}, nil
		case Booked:
			if info != nil {
				return Booked{Bookings: []BookingRecord{*info}}, nil
			}
			return st, nil
		default:
			return nil, backwardErr(cur.Status(), newStatus)
		}

	case StatusAgreement:
		if cur.Status() == StatusRegistration {
			return nil, backwardErr(cur.Status(), newStatus)
		}
		rec, err := resolveRecord(cur, info)
		if err != nil {
			return nil, err
		}
		return Agreement{Record: rec}, nil

	case StatusRegistration:
		rec, err := resolveRecord(cur, info)
		if err != nil {
			return nil, err
		}
		return Registration{Record: rec}, nil
	}

	return nil, fmt.Errorf("%w: unknown plot status %q", ErrValidation, newStatus)
}

func backwardErr(from, to Status) error {
	return fmt.Errorf("%w: cannot move a plot from %s back to %s", ErrValidation, from, to)
}

// resolveRecord picks the booking record that survives a move to agreement or
// registration. The engine never picks a winner among multiple bookings.
func resolveRecord(cur SaleState, info *BookingRecord) (BookingRecord, error) {
	if info != nil {
		return *info, nil
	}
	switch st := cur.(type) {
	case Agreement:
		return st.Record, nil
	case Booked:
		if len(st.Bookings) == 1 {
			return st.Bookings[0], nil
		}
	}
	return BookingRecord{}, ErrMissingBookingInfo
}

// AddBooking appends another interested customer to a booked plot. Insertion
// order is preserved.
func (s *Store) AddBooking(plotID string, info BookingRecord) (*Plot, error) {
	p, err := s.Plot(plotID)
	if err != nil {
		return nil, err
	}
	st, ok := p.State.(Booked)
	if !ok {
		return nil, fmt.Errorf("%w: bookings can only be added while a plot is in booked status", ErrValidation)
	}
	for _, existing := range st.Bookings {
		if samePhone(existing.Phone, info.Phone) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicatePhone, NormalizePhone(info.Phone))
		}
	}
	bookings := make([]BookingRecord, 0, len(st.Bookings)+1)
	bookings = append(bookings, st.Bookings...)
	bookings = append(bookings, info)
	p.State = Booked{Bookings: bookings}
	p.LastUpdated = s.now()
	return p, nil
}

// RemoveBooking drops the booking matching the normalized phone. Removing the
// last booking reverts the plot to available: an empty booking list is not a
// valid booked state.
func (s *Store) RemoveBooking(plotID, phone string) (*Plot, error) {
	p, err := s.Plot(plotID)
	if err != nil {
		return nil, err
	}
	st, ok := p.State.(Booked)
	if !ok {
		return nil, fmt.Errorf("%w: plot %s has no bookings", ErrBookingNotFound, plotID)
	}
	idx := -1
	for i, b := range st.Bookings {
		if samePhone(b.Phone, phone) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("%w: no booking for phone %s on plot %s", ErrBookingNotFound, NormalizePhone(phone), plotID)
	}
	remaining := make([]BookingRecord, 0, len(st.Bookings)-1)
	remaining = append(remaining, st.Bookings[:idx]...)
	remaining = append(remaining, st.Bookings[idx+1:]...)
	if len(remaining) == 0 {
		p.State = Available{}
	} else {
		p.State = Booked{Bookings: remaining}
	}
	p.LastUpdated = s.now()
	return p, nil
}

// BatchResult is one element's outcome of a best-effort batch operation.
type BatchResult struct {
	PlotID string `json:"plotId"`
	Plot   *Plot  `json:"plot,omitempty"`
	Err    error  `json:"-"`
}

// BookMultiple applies the available-to-booked transition to each plot
// independently with the same booking info. Elements succeed or fail on their
// own; the caller decides how to react to a partial batch.
func (s *Store) BookMultiple(plotIDs []string, info BookingRecord) []BatchResult {
	results := make([]BatchResult, 0, len(plotIDs))
	for _, id := range plotIDs {
		p, err := s.UpdateStatus(id, StatusBooked, &info)
		results = append(results, BatchResult{PlotID: id, Plot: p, Err: err})
	}
	return results
}

// PhoneCheck is the result of a duplicate-interest scan across a project.
type PhoneCheck struct {
	Exists      bool     `json:"exists"`
	PlotNumbers []string `json:"plotNumbers"`
}

// PhoneExistsInProject scans booking lists for a normalized phone match and
// returns matching plot numbers in first-seen order. Agreement and
// registration records are not searched.
func (s *Store) PhoneExistsInProject(phone string) PhoneCheck {
	check := PhoneCheck{PlotNumbers: []string{}}
	for _, p := range s.plots {
		for _, b := range p.Bookings() {
			if samePhone(b.Phone, phone) {
				check.PlotNumbers = append(check.PlotNumbers, p.PlotNumber)
				break
			}
		}
	}
	check.Exists = len(check.PlotNumbers) > 0
	return check
}

// DashboardStats aggregates plot counts per status.
type DashboardStats struct {
	TotalPlots     int     `json:"totalPlots"`
	Available      int     `json:"available"`
	Booked         int     `json:"booked"`
	Agreement      int     `json:"agreement"`
	Registration   int     `json:"registration"`
	PercentageSold float64 `json:"percentageSold"`
}

// Stats computes the dashboard aggregation. Agreement and registration plots
// count as sold.
func (s *Store) Stats() DashboardStats {
	stats := DashboardStats{TotalPlots: len(s.plots)}
	for _, p := range s.plots {
		switch p.Status() {
		case StatusAvailable:
			stats.Available++
		case StatusBooked:
			stats.Booked++
		case StatusAgreement:
			stats.Agreement++
		case StatusRegistration:
			stats.Registration++
		}
	}
	if stats.TotalPlots > 0 {
		stats.PercentageSold = 100 * float64(stats.Agreement+stats.Registration) / float64(stats.TotalPlots)
	}
	return stats
}

// Filter selects plots for display. Criteria compose by logical AND.
type Filter struct {
	Status           string `json:"status"` // a status value or "all"
	SearchQuery      string `json:"searchQuery"`
	MultipleBookings bool   `json:"multipleBookings"`
}

// FilteredPlots applies, in order, the status equality filter, a
// case-insensitive substring match on plot number, and the
// more-than-one-booking filter.
func (s *Store) FilteredPlots(f Filter) []*Plot {
	filtered := make([]*Plot, 0, len(s.plots))
	query := strings.ToLower(f.SearchQuery)
	for _, p := range s.plots {
		if f.Status != "" && f.Status != "all" && string(p.Status()) != f.Status {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(p.PlotNumber), query) {
			continue
		}
		if f.MultipleBookings && len(p.Bookings()) <= 1 {
			continue
		}
		filtered = append(filtered, p)
	}
	return filtered
}
