package services

import (
	"errors"
	"fmt"

	"github.com/plotvista/plotvista/internal/lifecycle"
	"github.com/plotvista/plotvista/internal/models"
	"gorm.io/gorm"
)

// loadPlotStore builds a single-plot lifecycle store for plot-level
// mutations. Plot operations never touch sibling plots, so the rest of the
// layout stays out of the transaction.
func loadPlotStore(tx *gorm.DB, plotID string) (*lifecycle.Store, *models.Plot, error) {
	var row models.Plot
	err := lockForUpdate(tx).
		Preload("Bookings", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		First(&row, "id = ?", plotID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("%w: %s", lifecycle.ErrPlotNotFound, plotID)
		}
		return nil, nil, err
	}
	store := lifecycle.NewStore(row.ProjectID, "", 0, 0, []*lifecycle.Plot{plotFromRow(&row)})
	return store, &row, nil
}

// UpdatePlotStatus transitions one plot and persists the result.
func UpdatePlotStatus(db *gorm.DB, plotID string, newStatus lifecycle.Status, info *lifecycle.BookingRecord) (*lifecycle.Plot, error) {
	var result *lifecycle.Plot
	err := db.Transaction(func(tx *gorm.DB) error {
		store, _, err := loadPlotStore(tx, plotID)
		if err != nil {
			return err
		}
		p, err := store.UpdateStatus(plotID, newStatus, info)
		if err != nil {
			return err
		}
		result = p
		return savePlotState(tx, p)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// AddBooking appends another interested customer to a booked plot.
func AddBooking(db *gorm.DB, plotID string, info lifecycle.BookingRecord) (*lifecycle.Plot, error) {
	var result *lifecycle.Plot
	err := db.Transaction(func(tx *gorm.DB) error {
		store, _, err := loadPlotStore(tx, plotID)
		if err != nil {
			return err
		}
		p, err := store.AddBooking(plotID, info)
		if err != nil {
			return err
		}
		result = p
		return savePlotState(tx, p)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RemoveBooking drops the booking matching the phone; removing the last one
// reverts the plot to available.
func RemoveBooking(db *gorm.DB, plotID, phone string) (*lifecycle.Plot, error) {
	var result *lifecycle.Plot
	err := db.Transaction(func(tx *gorm.DB) error {
		store, _, err := loadPlotStore(tx, plotID)
		if err != nil {
			return err
		}
		p, err := store.RemoveBooking(plotID, phone)
		if err != nil {
			return err
		}
		result = p
		return savePlotState(tx, p)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// BookMultiple books each plot independently with the same booking info.
// Elements run in separate transactions; a partial batch is reported per
// element, never rolled back across plots.
func BookMultiple(db *gorm.DB, plotIDs []string, info lifecycle.BookingRecord) []lifecycle.BatchResult {
	results := make([]lifecycle.BatchResult, 0, len(plotIDs))
	for _, id := range plotIDs {
		p, err := UpdatePlotStatus(db, id, lifecycle.StatusBooked, &info)
		results = append(results, lifecycle.BatchResult{PlotID: id, Plot: p, Err: err})
	}
	return results
}

// PhoneExistsInProject scans a project's booking lists for a phone number.
func PhoneExistsInProject(db *gorm.DB, projectID, phone string) (lifecycle.PhoneCheck, error) {
	store, err := LoadLayout(db, projectID)
	if err != nil {
		return lifecycle.PhoneCheck{}, err
	}
	return store.PhoneExistsInProject(phone), nil
}
