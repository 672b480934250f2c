package services_test

import (
	"errors"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/plotvista/plotvista/internal/lifecycle"
	"github.com/plotvista/plotvista/internal/models"
	"github.com/plotvista/plotvista/internal/services"
	"gorm.io/gorm"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	// :memory: is per-connection
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get underlying SQL DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.Project{},
		&models.Plot{},
		&models.Booking{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

func testTemplate(numbers ...string) *lifecycle.LayoutTemplate {
	defs := make([]lifecycle.PlotDefinition, 0, len(numbers))
	for i, n := range numbers {
		defs = append(defs, lifecycle.PlotDefinition{
			PlotNumber: n,
			Dimension:  "30x40",
			Area:       1200,
			Row:        i,
			Col:        0,
		})
	}
	return &lifecycle.LayoutTemplate{Rows: len(numbers), Columns: 1, PlotDefinitions: defs}
}

func createTestProject(t *testing.T, db *gorm.DB, name string, numbers ...string) *models.Project {
	t.Helper()
	project, err := services.CreateProject(db, name, testTemplate(numbers...))
	if err != nil {
		t.Fatalf("Failed to create project: %v", err)
	}
	return project
}

func findPlotID(t *testing.T, db *gorm.DB, projectID, number string) string {
	t.Helper()
	store, err := services.LoadLayout(db, projectID)
	if err != nil {
		t.Fatalf("Failed to load layout: %v", err)
	}
	for _, p := range store.Snapshot().Plots {
		if p.PlotNumber == number {
			return p.ID
		}
	}
	t.Fatalf("plot %q not found in project %s", number, projectID)
	return ""
}

func testRecord(t *testing.T, name, phone string) lifecycle.BookingRecord {
	t.Helper()
	rec, err := lifecycle.NewBookingRecord(name, phone, time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Failed to build booking record: %v", err)
	}
	return rec
}

func TestCreateProjectWithLayout(t *testing.T) {
	db := setupTestDB(t)

	project := createTestProject(t, db, "Sunrise Gardens", "1", "2", "3")

	summaries, err := services.ListProjects(db)
	if err != nil {
		t.Fatalf("Failed to list projects: %v", err)
	}
	if len(summaries) != 1 || summaries[0].TotalPlots != 3 {
		t.Fatalf("Expected one project with 3 plots, got %+v", summaries)
	}

	store, err := services.LoadLayout(db, project.ID)
	if err != nil {
		t.Fatalf("Failed to load layout: %v", err)
	}
	layout := store.Snapshot()
	if layout.Rows != 3 || layout.Columns != 1 || layout.TotalPlots != 3 {
		t.Errorf("Unexpected layout: rows=%d cols=%d plots=%d", layout.Rows, layout.Columns, layout.TotalPlots)
	}
	for _, p := range layout.Plots {
		if p.Status() != lifecycle.StatusAvailable {
			t.Errorf("Expected plot %s available, got %s", p.PlotNumber, p.Status())
		}
	}
}

func TestCreateProjectDuplicateName(t *testing.T) {
	db := setupTestDB(t)

	createTestProject(t, db, "Sunrise Gardens", "1")
	_, err := services.CreateProject(db, "Sunrise Gardens", nil)
	if !errors.Is(err, lifecycle.ErrValidation) {
		t.Fatalf("Expected ErrValidation for duplicate name, got %v", err)
	}
}

func TestDeleteProjectCascades(t *testing.T) {
	db := setupTestDB(t)

	project := createTestProject(t, db, "Sunrise Gardens", "1", "2")
	plotID := findPlotID(t, db, project.ID, "1")
	rec := testRecord(t, "Asha Rao", "9876543210")
	if _, err := services.UpdatePlotStatus(db, plotID, lifecycle.StatusBooked, &rec); err != nil {
		t.Fatalf("Failed to book plot: %v", err)
	}

	if err := services.DeleteProject(db, project.ID); err != nil {
		t.Fatalf("Failed to delete project: %v", err)
	}

	var plots, bookings int64
	db.Model(&models.Plot{}).Count(&plots)
	db.Model(&models.Booking{}).Count(&bookings)
	if plots != 0 || bookings != 0 {
		t.Errorf("Expected all rows removed, got %d plots %d bookings", plots, bookings)
	}

	if err := services.DeleteProject(db, project.ID); !errors.Is(err, lifecycle.ErrProjectNotFound) {
		t.Errorf("Expected ErrProjectNotFound on second delete, got %v", err)
	}
}

func TestReplaceLayoutPreservesSaleState(t *testing.T) {
	db := setupTestDB(t)

	project := createTestProject(t, db, "Sunrise Gardens", "1", "2", "3")
	plot2 := findPlotID(t, db, project.ID, "2")
	rec := testRecord(t, "Asha Rao", "9876543210")
	if _, err := services.UpdatePlotStatus(db, plot2, lifecycle.StatusBooked, &rec); err != nil {
		t.Fatalf("Failed to book plot 2: %v", err)
	}

	layout, err := services.ReplaceLayout(db, project.ID, 2, 1, []lifecycle.PlotDefinition{
		{PlotNumber: "2", Dimension: "40x50", Area: 2000, Row: 0, Col: 0},
		{PlotNumber: "4", Dimension: "30x40", Area: 1200, Row: 1, Col: 0},
	})
	if err != nil {
		t.Fatalf("Failed to replace layout: %v", err)
	}
	if layout.TotalPlots != 2 {
		t.Fatalf("Expected 2 plots after replace, got %d", layout.TotalPlots)
	}

	// Reload from the database to verify persistence, not just the engine view
	store, err := services.LoadLayout(db, project.ID)
	if err != nil {
		t.Fatalf("Failed to reload layout: %v", err)
	}
	for _, p := range store.Snapshot().Plots {
		switch p.PlotNumber {
		case "2":
			if p.Status() != lifecycle.StatusBooked || len(p.Bookings()) != 1 {
				t.Errorf("Expected plot 2 to keep its booking, got %s", p.Status())
			}
			if p.Dimension != "40x50" || p.Area != 2000 {
				t.Errorf("Expected plot 2 geometry updated, got %s %d", p.Dimension, p.Area)
			}
		case "4":
			if p.Status() != lifecycle.StatusAvailable {
				t.Errorf("Expected new plot 4 available, got %s", p.Status())
			}
		default:
			t.Errorf("Unexpected plot %s survived the replace", p.PlotNumber)
		}
	}

	var bookings int64
	db.Model(&models.Booking{}).Count(&bookings)
	if bookings != 1 {
		t.Errorf("Expected 1 booking row, got %d", bookings)
	}
}

func TestReplaceLayoutUnknownProject(t *testing.T) {
	db := setupTestDB(t)
	_, err := services.ReplaceLayout(db, "no-such-project", 1, 1, nil)
	if !errors.Is(err, lifecycle.ErrProjectNotFound) {
		t.Fatalf("Expected ErrProjectNotFound, got %v", err)
	}
}

func TestAddPlotService(t *testing.T) {
	db := setupTestDB(t)

	project := createTestProject(t, db, "Sunrise Gardens", "1", "2")

	_, err := services.AddPlot(db, project.ID, lifecycle.PlotDefinition{PlotNumber: "2", Dimension: "30x40", Area: 1200})
	if !errors.Is(err, lifecycle.ErrValidation) {
		t.Fatalf("Expected ErrValidation for duplicate number, got %v", err)
	}

	layout, err := services.AddPlot(db, project.ID, lifecycle.PlotDefinition{PlotNumber: "3", Dimension: "30x40", Area: 1200, Row: 2, Col: 0})
	if err != nil {
		t.Fatalf("Failed to add plot: %v", err)
	}
	if layout.TotalPlots != 3 {
		t.Errorf("Expected 3 plots, got %d", layout.TotalPlots)
	}

	var count int64
	db.Model(&models.Plot{}).Where("project_id = ?", project.ID).Count(&count)
	if count != 3 {
		t.Errorf("Expected 3 plot rows, got %d", count)
	}
}

func TestProjectStats(t *testing.T) {
	db := setupTestDB(t)

	project := createTestProject(t, db, "Sunrise Gardens", "1", "2", "3", "4")
	rec := testRecord(t, "Asha Rao", "9876543210")
	if _, err := services.UpdatePlotStatus(db, findPlotID(t, db, project.ID, "1"), lifecycle.StatusAgreement, &rec); err != nil {
		t.Fatalf("Failed to move plot 1: %v", err)
	}
	if _, err := services.UpdatePlotStatus(db, findPlotID(t, db, project.ID, "2"), lifecycle.StatusRegistration, &rec); err != nil {
		t.Fatalf("Failed to move plot 2: %v", err)
	}

	stats, err := services.ProjectStats(db, project.ID)
	if err != nil {
		t.Fatalf("Failed to get stats: %v", err)
	}
	if stats.TotalPlots != 4 || stats.Available != 2 || stats.Agreement != 1 || stats.Registration != 1 {
		t.Errorf("Unexpected stats: %+v", stats)
	}
	if stats.PercentageSold != 50.0 {
		t.Errorf("Expected 50.0 percent sold, got %f", stats.PercentageSold)
	}
}
