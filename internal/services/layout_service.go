// layout_service.go
//
// This file is part of plotvista.
// plotvista is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// plotvista is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.

package services

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/plotvista/plotvista/internal/lifecycle"
	"github.com/plotvista/plotvista/internal/models"
	"gorm.io/gorm"
)

// ProjectSummary is the project list projection for the dashboard.
type ProjectSummary struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	TotalPlots int    `json:"totalPlots"`
	CreatedAt  string `json:"createdAt"`
}

// ListProjects returns all projects newest first with derived plot counts.
func ListProjects(db *gorm.DB) ([]ProjectSummary, error) {
	var projects []models.Project
	if err := db.Order("created_at DESC").Find(&projects).Error; err != nil {
		return nil, err
	}

	summaries := make([]ProjectSummary, 0, len(projects))
	for _, project := range projects {
		var count int64
		if err := db.Model(&models.Plot{}).Where("project_id = ?", project.ID).Count(&count).Error; err != nil {
			return nil, err
		}
		summaries = append(summaries, ProjectSummary{
			ID:         project.ID,
			Name:       project.Name,
			TotalPlots: int(count),
			CreatedAt:  project.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	return summaries, nil
}

// CreateProject creates a project and, when a template is supplied, its
// initial plot set in available status. The whole write is transactional.
func CreateProject(db *gorm.DB, name string, template *lifecycle.LayoutTemplate) (*models.Project, error) {
	var existing models.Project
	err := db.Where("name = ?", name).First(&existing).Error
	if err == nil {
		return nil, fmt.Errorf("%w: project name %q already exists", lifecycle.ErrValidation, name)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	project := &models.Project{
		ID:   uuid.NewString(),
		Name: name,
	}
	if template != nil {
		project.LayoutRows = template.Rows
		project.LayoutColumns = template.Columns
		raw, err := json.Marshal(template)
		if err != nil {
			return nil, err
		}
		project.LayoutTemplate.JSON = raw
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(project).Error; err != nil {
			return err
		}
		if template == nil {
			return nil
		}
		for _, def := range template.PlotDefinitions {
			row := models.Plot{
				ID:         uuid.NewString(),
				ProjectID:  project.ID,
				PlotNumber: def.PlotNumber,
				Dimension:  def.Dimension,
				Area:       def.Area,
				GridRow:    def.Row,
				GridCol:    def.Col,
				Status:     string(lifecycle.StatusAvailable),
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return project, nil
}

// DeleteProject removes a project with its plots and bookings.
func DeleteProject(db *gorm.DB, projectID string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var project models.Project
		if err := tx.First(&project, "id = ?", projectID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: %s", lifecycle.ErrProjectNotFound, projectID)
			}
			return err
		}

		var plotIDs []string
		if err := tx.Model(&models.Plot{}).Where("project_id = ?", projectID).Pluck("id", &plotIDs).Error; err != nil {
			return err
		}
		if len(plotIDs) > 0 {
			if err := tx.Where("plot_id IN ?", plotIDs).Delete(&models.Booking{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", plotIDs).Delete(&models.Plot{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&project).Error
	})
}

// LoadLayout loads a project's plots and bookings into a lifecycle store.
func LoadLayout(db *gorm.DB, projectID string) (*lifecycle.Store, error) {
	var project models.Project
	err := db.
		Preload("Plots", func(db *gorm.DB) *gorm.DB { return db.Order("plot_number") }).
		Preload("Plots.Bookings", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		First(&project, "id = ?", projectID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", lifecycle.ErrProjectNotFound, projectID)
		}
		return nil, err
	}

	plots := make([]*lifecycle.Plot, 0, len(project.Plots))
	for i := range project.Plots {
		plots = append(plots, plotFromRow(&project.Plots[i]))
	}
	return lifecycle.NewStore(project.ID, project.Name, project.LayoutRows, project.LayoutColumns, plots), nil
}

// ReplaceLayout applies a template against a project's current layout via the
// lifecycle engine and persists the resulting diff in one transaction. Plot
// numbers reappearing in the template keep their rows and bookings; absent
// numbers are dropped entirely.
func ReplaceLayout(db *gorm.DB, projectID string, rows, cols int, defs []lifecycle.PlotDefinition) (lifecycle.Layout, error) {
	var layout lifecycle.Layout

	err := db.Transaction(func(tx *gorm.DB) error {
		var project models.Project
		if err := lockForUpdate(tx).
			First(&project, "id = ?", projectID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: %s", lifecycle.ErrProjectNotFound, projectID)
			}
			return err
		}

		store, err := LoadLayout(tx, projectID)
		if err != nil {
			return err
		}
		before := store.Snapshot()
		existing := make(map[string]bool, len(before.Plots))
		for _, p := range before.Plots {
			existing[p.ID] = true
		}

		layout = store.ApplyLayout(rows, cols, defs)

		surviving := make(map[string]bool, len(layout.Plots))
		for _, p := range layout.Plots {
			surviving[p.ID] = true
		}

		// Drop plots whose numbers vanished from the template
		var removed []string
		for _, p := range before.Plots {
			if !surviving[p.ID] {
				removed = append(removed, p.ID)
			}
		}
		if len(removed) > 0 {
			if err := tx.Where("plot_id IN ?", removed).Delete(&models.Booking{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", removed).Delete(&models.Plot{}).Error; err != nil {
				return err
			}
		}

		// Upsert the applied plot set; surviving plots keep their booking rows
		for _, p := range layout.Plots {
			if existing[p.ID] {
				updates := map[string]interface{}{
					"plot_number": p.PlotNumber,
					"dimension":   p.Dimension,
					"area":        p.Area,
					"grid_row":    p.Row,
					"grid_col":    p.Col,
				}
				if err := tx.Model(&models.Plot{}).Where("id = ?", p.ID).Updates(updates).Error; err != nil {
					return err
				}
				continue
			}
			row := models.Plot{
				ID:         p.ID,
				ProjectID:  projectID,
				PlotNumber: p.PlotNumber,
				Dimension:  p.Dimension,
				Area:       p.Area,
				GridRow:    p.Row,
				GridCol:    p.Col,
				Status:     string(p.Status()),
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}

		// Record the applied template on the project
		raw, err := json.Marshal(lifecycle.LayoutTemplate{Rows: rows, Columns: cols, PlotDefinitions: defs})
		if err != nil {
			return err
		}
		return tx.Model(&project).Updates(map[string]interface{}{
			"layout_rows":     rows,
			"layout_columns":  cols,
			"layout_template": string(raw),
		}).Error
	})
	if err != nil {
		return lifecycle.Layout{}, err
	}
	return layout, nil
}

// AddPlot appends a single plot to a project's layout. The plot number must
// be unused within the project.
func AddPlot(db *gorm.DB, projectID string, def lifecycle.PlotDefinition) (lifecycle.Layout, error) {
	var layout lifecycle.Layout

	err := db.Transaction(func(tx *gorm.DB) error {
		var project models.Project
		if err := lockForUpdate(tx).
			First(&project, "id = ?", projectID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: %s", lifecycle.ErrProjectNotFound, projectID)
			}
			return err
		}

		store, err := LoadLayout(tx, projectID)
		if err != nil {
			return err
		}

		layout, err = store.AddPlot(def)
		if err != nil {
			return err
		}

		for _, p := range layout.Plots {
			if p.PlotNumber != def.PlotNumber {
				continue
			}
			row := models.Plot{
				ID:         p.ID,
				ProjectID:  projectID,
				PlotNumber: p.PlotNumber,
				Dimension:  p.Dimension,
				Area:       p.Area,
				GridRow:    p.Row,
				GridCol:    p.Col,
				Status:     string(lifecycle.StatusAvailable),
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}

		return tx.Model(&project).Updates(map[string]interface{}{
			"layout_rows":    layout.Rows,
			"layout_columns": layout.Columns,
		}).Error
	})
	if err != nil {
		return lifecycle.Layout{}, err
	}
	return layout, nil
}

// ProjectStats aggregates the dashboard numbers for one project.
func ProjectStats(db *gorm.DB, projectID string) (lifecycle.DashboardStats, error) {
	store, err := LoadLayout(db, projectID)
	if err != nil {
		return lifecycle.DashboardStats{}, err
	}
	return store.Stats(), nil
}

// plotFromRow maps a plot row and its booking rows into an engine plot. A
// status row without any customer data cannot be represented in the state
// union and degrades to available.
func plotFromRow(row *models.Plot) *lifecycle.Plot {
	p := &lifecycle.Plot{
		ID:          row.ID,
		PlotNumber:  row.PlotNumber,
		Dimension:   row.Dimension,
		Area:        row.Area,
		Row:         row.GridRow,
		Col:         row.GridCol,
		State:       lifecycle.Available{},
		LastUpdated: row.UpdatedAt,
	}

	records := make([]lifecycle.BookingRecord, 0, len(row.Bookings))
	for _, b := range row.Bookings {
		records = append(records, lifecycle.BookingRecord{
			Name:        b.CustomerName,
			Phone:       b.CustomerPhone,
			BookingDate: b.CreatedAt,
		})
	}

	switch lifecycle.Status(row.Status) {
	case lifecycle.StatusBooked:
		if len(records) > 0 {
			p.State = lifecycle.Booked{Bookings: records}
		}
	case lifecycle.StatusAgreement:
		if len(records) > 0 {
			p.State = lifecycle.Agreement{Record: records[len(records)-1]}
		}
	case lifecycle.StatusRegistration:
		if len(records) > 0 {
			p.State = lifecycle.Registration{Record: records[len(records)-1]}
		}
	}
	return p
}

// savePlotState writes an engine plot's state back to its rows: the status
// column plus a wholesale replacement of the plot's booking rows.
func savePlotState(tx *gorm.DB, p *lifecycle.Plot) error {
	updates := map[string]interface{}{
		"status":      string(p.Status()),
		"plot_number": p.PlotNumber,
		"dimension":   p.Dimension,
		"area":        p.Area,
		"grid_row":    p.Row,
		"grid_col":    p.Col,
	}
	result := tx.Model(&models.Plot{}).Where("id = ?", p.ID).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", lifecycle.ErrPlotNotFound, p.ID)
	}

	if err := tx.Where("plot_id = ?", p.ID).Delete(&models.Booking{}).Error; err != nil {
		return err
	}

	writeRecord := func(rec lifecycle.BookingRecord, bookingType string, position int) error {
		row := models.Booking{
			ID:            uuid.NewString(),
			PlotID:        p.ID,
			CustomerName:  rec.Name,
			CustomerPhone: rec.Phone,
			BookingType:   bookingType,
			Position:      position,
			CreatedAt:     rec.BookingDate,
		}
		return tx.Create(&row).Error
	}

	switch st := p.State.(type) {
	case lifecycle.Booked:
		for i, rec := range st.Bookings {
			if err := writeRecord(rec, string(lifecycle.StatusBooked), i); err != nil {
				return err
			}
		}
	case lifecycle.Agreement:
		return writeRecord(st.Record, string(lifecycle.StatusAgreement), 0)
	case lifecycle.Registration:
		return writeRecord(st.Record, string(lifecycle.StatusRegistration), 0)
	}
	return nil
}
