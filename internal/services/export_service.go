package services

import (
	"github.com/plotvista/plotvista/internal/export"
	"github.com/plotvista/plotvista/internal/lifecycle"
	"github.com/plotvista/plotvista/internal/models"
	"gorm.io/gorm"
	"gorm.io/hints"
)

// ExportRows builds the flat tabular projection of plots with their booking
// details, across all projects or scoped to one. When includeMultiple is set,
// a plot with several bookings expands to one row per booking.
func ExportRows(db *gorm.DB, projectID string, includeMultiple bool) ([]export.Row, error) {
	var projects []models.Project
	projectQuery := db.Order("created_at DESC")
	if projectID != "" {
		projectQuery = projectQuery.Where("id = ?", projectID)
	}
	if err := projectQuery.Find(&projects).Error; err != nil {
		return nil, err
	}
	if projectID != "" && len(projects) == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	var rows []export.Row
	for _, project := range projects {
		var plotRows []models.Plot
		err := db.Clauses(hints.CommentBefore("select", "export scan")).
			Preload("Bookings", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
			Where("project_id = ?", project.ID).
			Order("plot_number").
			Find(&plotRows).Error
		if err != nil {
			return nil, err
		}

		plots := make([]*lifecycle.Plot, 0, len(plotRows))
		for i := range plotRows {
			plots = append(plots, plotFromRow(&plotRows[i]))
		}
		rows = append(rows, export.Rows(project.Name, plots, includeMultiple)...)
	}
	return rows, nil
}
