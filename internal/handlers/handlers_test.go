package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/plotvista/plotvista/internal/handlers"
	"github.com/plotvista/plotvista/internal/lifecycle"
	"github.com/plotvista/plotvista/internal/middleware"
	"github.com/plotvista/plotvista/internal/models"
	"github.com/plotvista/plotvista/internal/services"
	"github.com/plotvista/plotvista/internal/types"
	"gorm.io/gorm"
)

const testAdminPassword = "plotvista-test"

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

	if err := db.AutoMigrate(&models.Project{}, &models.Plot{}, &models.Booking{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

// setupTestApp wires the full route table the way the server binary does.
func setupTestApp(t *testing.T) (*fiber.App, *gorm.DB, *services.SessionService) {
	t.Helper()
	db := setupTestDB(t)
	sessions := services.NewSessionService(testAdminPassword, 24*time.Hour)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			if e, ok := err.(*types.CustomError); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{"message": err.Error(), "ok": false})
		},
	})

	projectsHandler := &handlers.ProjectsHandler{DB: db}
	plotsHandler := &handlers.PlotsHandler{DB: db}
	exportHandler := &handlers.ExportHandler{DB: db}
	authHandler := &handlers.AuthHandler{Sessions: sessions}

	api := app.Group("/api")
	api.Get("/projects", projectsHandler.ListProjects)
	api.Get("/projects/:projectId/plots", projectsHandler.GetProjectPlots)
	api.Get("/projects/:projectId/stats", projectsHandler.GetProjectStats)
	api.Get("/projects/:projectId/phone-check", projectsHandler.PhoneCheck)

	admin := api.Group("/admin")
	admin.Post("/login", authHandler.Login)

	requireAdmin := middleware.AuthAdmin(sessions)
	admin.Post("/logout", requireAdmin, authHandler.Logout)
	admin.Post("/projects", requireAdmin, projectsHandler.CreateProject)
	admin.Delete("/projects/:projectId", requireAdmin, projectsHandler.DeleteProject)
	admin.Put("/projects/:projectId/layout", requireAdmin, projectsHandler.ReplaceLayout)
	admin.Post("/projects/:projectId/plots", requireAdmin, projectsHandler.AddPlot)
	admin.Post("/plots/book-multiple", requireAdmin, plotsHandler.BookMultiple)
	admin.Post("/plots/:plotId/book", requireAdmin, plotsHandler.Book)
	admin.Put("/plots/:plotId/status", requireAdmin, plotsHandler.UpdateStatus)
	admin.Post("/plots/:plotId/bookings", requireAdmin, plotsHandler.AddBooking)
	admin.Delete("/plots/:plotId/bookings/:phone", requireAdmin, plotsHandler.RemoveBooking)
	admin.Get("/export", requireAdmin, exportHandler.Export)

	return app, db, sessions
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	rec := httptest.NewRecorder()
	rec.Code = resp.StatusCode
	raw, _ := io.ReadAll(resp.Body)
	rec.Body = bytes.NewBuffer(raw)
	for k, v := range resp.Header {
		rec.Header()[k] = v
	}
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("Failed to decode response %q: %v", rec.Body.String(), err)
	}
}

func loginToken(t *testing.T, app *fiber.App) string {
	t.Helper()
	rec := doJSON(t, app, "POST", "/api/admin/login", "", map[string]string{"password": testAdminPassword})
	if rec.Code != 200 {
		t.Fatalf("Login failed with status %d: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Token string `json:"token"`
	}
	decode(t, rec, &body)
	return body.Token
}

func createProjectViaAPI(t *testing.T, app *fiber.App, token, name string, numbers ...string) string {
	t.Helper()
	defs := make([]map[string]interface{}, 0, len(numbers))
	for i, n := range numbers {
		defs = append(defs, map[string]interface{}{
			"plotNumber": n, "dimension": "30x40", "area": 1200, "row": i, "col": 0,
		})
	}
	rec := doJSON(t, app, "POST", "/api/admin/projects", token, map[string]interface{}{
		"name": name,
		"layoutTemplate": map[string]interface{}{
			"rows": len(numbers), "columns": 1, "plotDefinitions": defs,
		},
	})
	if rec.Code != 201 {
		t.Fatalf("Create project failed with status %d: %s", rec.Code, rec.Body.String())
	}
	var project struct {
		ID string `json:"id"`
	}
	decode(t, rec, &project)
	return project.ID
}

type plotResponse struct {
	ID         string `json:"id"`
	PlotNumber string `json:"plotNumber"`
	Status     string `json:"status"`
	Bookings   []struct {
		Name  string `json:"name"`
		Phone string `json:"phone"`
	} `json:"bookings"`
}

type layoutResponse struct {
	ProjectID  string         `json:"projectId"`
	Plots      []plotResponse `json:"plots"`
	TotalPlots int            `json:"totalPlots"`
}

func getPlots(t *testing.T, app *fiber.App, projectID, query string) layoutResponse {
	t.Helper()
	rec := doJSON(t, app, "GET", "/api/projects/"+projectID+"/plots"+query, "", nil)
	if rec.Code != 200 {
		t.Fatalf("Get plots failed with status %d: %s", rec.Code, rec.Body.String())
	}
	var layout layoutResponse
	decode(t, rec, &layout)
	return layout
}

func plotIDByNumber(t *testing.T, app *fiber.App, projectID, number string) string {
	t.Helper()
	for _, p := range getPlots(t, app, projectID, "").Plots {
		if p.PlotNumber == number {
			return p.ID
		}
	}
	t.Fatalf("plot %q not found", number)
	return ""
}

func TestLoginRejectsBadPassword(t *testing.T) {
	app, _, _ := setupTestApp(t)

	rec := doJSON(t, app, "POST", "/api/admin/login", "", map[string]string{"password": "nope"})
	if rec.Code != 401 {
		t.Errorf("Expected 401, got %d", rec.Code)
	}
}

func TestAdminRoutesRequireToken(t *testing.T) {
	app, _, _ := setupTestApp(t)

	rec := doJSON(t, app, "POST", "/api/admin/projects", "", map[string]string{"name": "X"})
	if rec.Code != 401 {
		t.Errorf("Expected 401 without token, got %d", rec.Code)
	}

	rec = doJSON(t, app, "POST", "/api/admin/projects", "bogus-token", map[string]string{"name": "X"})
	if rec.Code != 401 {
		t.Errorf("Expected 401 with bogus token, got %d", rec.Code)
	}
}

func TestLogoutInvalidatesToken(t *testing.T) {
	app, _, _ := setupTestApp(t)
	token := loginToken(t, app)

	rec := doJSON(t, app, "POST", "/api/admin/logout", token, nil)
	if rec.Code != 200 {
		t.Fatalf("Logout failed with status %d", rec.Code)
	}

	rec = doJSON(t, app, "POST", "/api/admin/projects", token, map[string]string{"name": "X"})
	if rec.Code != 401 {
		t.Errorf("Expected 401 after logout, got %d", rec.Code)
	}
}

func TestProjectLifecycleOverHTTP(t *testing.T) {
	app, _, _ := setupTestApp(t)
	token := loginToken(t, app)

	projectID := createProjectViaAPI(t, app, token, "Sunrise Gardens", "1", "2", "3")

	var summaries []struct {
		Name       string `json:"name"`
		TotalPlots int    `json:"totalPlots"`
	}
	rec := doJSON(t, app, "GET", "/api/projects", "", nil)
	if rec.Code != 200 {
		t.Fatalf("List projects failed with status %d", rec.Code)
	}
	decode(t, rec, &summaries)
	if len(summaries) != 1 || summaries[0].TotalPlots != 3 {
		t.Fatalf("Unexpected project list: %+v", summaries)
	}

	layout := getPlots(t, app, projectID, "")
	if layout.TotalPlots != 3 {
		t.Errorf("Expected 3 plots, got %d", layout.TotalPlots)
	}

	// Duplicate name rejected
	rec = doJSON(t, app, "POST", "/api/admin/projects", token, map[string]interface{}{"name": "Sunrise Gardens"})
	if rec.Code != 400 {
		t.Errorf("Expected 400 for duplicate name, got %d", rec.Code)
	}

	rec = doJSON(t, app, "DELETE", "/api/admin/projects/"+projectID, token, nil)
	if rec.Code != 200 {
		t.Errorf("Delete project failed with status %d", rec.Code)
	}
	rec = doJSON(t, app, "GET", "/api/projects/"+projectID+"/plots", "", nil)
	if rec.Code != 404 {
		t.Errorf("Expected 404 after delete, got %d", rec.Code)
	}
}

func TestBookingWorkflowOverHTTP(t *testing.T) {
	app, _, _ := setupTestApp(t)
	token := loginToken(t, app)

	projectID := createProjectViaAPI(t, app, token, "Sunrise Gardens", "1", "2")
	plotID := plotIDByNumber(t, app, projectID, "1")

	// Booking without customer details fails
	rec := doJSON(t, app, "PUT", "/api/admin/plots/"+plotID+"/status", token, map[string]string{"status": "booked"})
	if rec.Code != 400 {
		t.Fatalf("Expected 400 booking without customer, got %d: %s", rec.Code, rec.Body.String())
	}

	// Book with the historical flat payload
	rec = doJSON(t, app, "POST", "/api/admin/plots/"+plotID+"/book", token, map[string]string{
		"customerName": "Asha Rao", "customerPhone": "9876543210", "status": "booked",
	})
	if rec.Code != 200 {
		t.Fatalf("Book failed with status %d: %s", rec.Code, rec.Body.String())
	}
	var plot plotResponse
	decode(t, rec, &plot)
	if plot.Status != "booked" || len(plot.Bookings) != 1 {
		t.Fatalf("Unexpected plot after booking: %+v", plot)
	}

	// Invalid phone rejected
	rec = doJSON(t, app, "POST", "/api/admin/plots/"+plotID+"/bookings", token, map[string]string{
		"name": "Short Phone", "phone": "12345",
	})
	if rec.Code != 400 {
		t.Errorf("Expected 400 for invalid phone, got %d", rec.Code)
	}

	// Second interested customer
	rec = doJSON(t, app, "POST", "/api/admin/plots/"+plotID+"/bookings", token, map[string]string{
		"name": "Vikram Shah", "phone": "9123456780",
	})
	if rec.Code != 200 {
		t.Fatalf("Add booking failed with status %d: %s", rec.Code, rec.Body.String())
	}

	// Duplicate phone conflicts
	rec = doJSON(t, app, "POST", "/api/admin/plots/"+plotID+"/bookings", token, map[string]string{
		"name": "V. Shah", "phone": "91234-56780",
	})
	if rec.Code != 409 {
		t.Errorf("Expected 409 for duplicate phone, got %d", rec.Code)
	}

	// Agreement among two bookings needs an explicit selection
	rec = doJSON(t, app, "PUT", "/api/admin/plots/"+plotID+"/status", token, map[string]string{"status": "agreement"})
	if rec.Code != 400 {
		t.Errorf("Expected 400 for ambiguous agreement, got %d", rec.Code)
	}
	rec = doJSON(t, app, "PUT", "/api/admin/plots/"+plotID+"/status", token, map[string]interface{}{
		"status":  "agreement",
		"booking": map[string]string{"name": "Vikram Shah", "phone": "9123456780"},
	})
	if rec.Code != 200 {
		t.Fatalf("Agreement failed with status %d: %s", rec.Code, rec.Body.String())
	}
	decode(t, rec, &plot)
	if plot.Status != "agreement" {
		t.Errorf("Expected agreement status, got %s", plot.Status)
	}

	// Unknown plot maps to 404
	rec = doJSON(t, app, "PUT", "/api/admin/plots/no-such-plot/status", token, map[string]string{"status": "available"})
	if rec.Code != 404 {
		t.Errorf("Expected 404 for unknown plot, got %d", rec.Code)
	}
}

func TestRemoveBookingOverHTTP(t *testing.T) {
	app, _, _ := setupTestApp(t)
	token := loginToken(t, app)

	projectID := createProjectViaAPI(t, app, token, "Sunrise Gardens", "1")
	plotID := plotIDByNumber(t, app, projectID, "1")

	rec := doJSON(t, app, "POST", "/api/admin/plots/"+plotID+"/book", token, map[string]string{
		"customerName": "Asha Rao", "customerPhone": "9876543210",
	})
	if rec.Code != 200 {
		t.Fatalf("Book failed with status %d", rec.Code)
	}

	rec = doJSON(t, app, "DELETE", "/api/admin/plots/"+plotID+"/bookings/9876543210", token, nil)
	if rec.Code != 200 {
		t.Fatalf("Remove booking failed with status %d: %s", rec.Code, rec.Body.String())
	}
	var plot plotResponse
	decode(t, rec, &plot)
	if plot.Status != "available" {
		t.Errorf("Expected plot available after last booking removed, got %s", plot.Status)
	}

	rec = doJSON(t, app, "DELETE", "/api/admin/plots/"+plotID+"/bookings/9876543210", token, nil)
	if rec.Code != 404 {
		t.Errorf("Expected 404 for missing booking, got %d", rec.Code)
	}
}

func TestBookMultipleOverHTTP(t *testing.T) {
	app, _, _ := setupTestApp(t)
	token := loginToken(t, app)

	projectID := createProjectViaAPI(t, app, token, "Sunrise Gardens", "1", "2", "3")
	plot3 := plotIDByNumber(t, app, projectID, "3")

	rec := doJSON(t, app, "PUT", "/api/admin/plots/"+plot3+"/status", token, map[string]interface{}{
		"status":  "registration",
		"booking": map[string]string{"name": "Vikram Shah", "phone": "9123456780"},
	})
	if rec.Code != 200 {
		t.Fatalf("Registration failed with status %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, app, "POST", "/api/admin/plots/book-multiple", token, map[string]interface{}{
		"plotIds": []string{
			plotIDByNumber(t, app, projectID, "1"),
			plotIDByNumber(t, app, projectID, "2"),
			plot3,
		},
		"name":  "Asha Rao",
		"phone": "9876543210",
	})
	if rec.Code != 200 {
		t.Fatalf("Book multiple failed with status %d: %s", rec.Code, rec.Body.String())
	}

	var results []struct {
		PlotID string `json:"plotId"`
		Error  string `json:"error"`
	}
	decode(t, rec, &results)
	if len(results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(results))
	}
	if results[0].Error != "" || results[1].Error != "" {
		t.Errorf("Expected first two plots booked, got %q %q", results[0].Error, results[1].Error)
	}
	if results[2].Error == "" {
		t.Errorf("Expected registered plot to fail")
	}
}

func TestStatsAndFiltersOverHTTP(t *testing.T) {
	app, _, _ := setupTestApp(t)
	token := loginToken(t, app)

	projectID := createProjectViaAPI(t, app, token, "Sunrise Gardens", "1", "2", "3", "4")
	rec := doJSON(t, app, "PUT", "/api/admin/plots/"+plotIDByNumber(t, app, projectID, "1")+"/status", token, map[string]interface{}{
		"status":  "agreement",
		"booking": map[string]string{"name": "Asha Rao", "phone": "9876543210"},
	})
	if rec.Code != 200 {
		t.Fatalf("Agreement failed with status %d", rec.Code)
	}
	rec = doJSON(t, app, "PUT", "/api/admin/plots/"+plotIDByNumber(t, app, projectID, "2")+"/status", token, map[string]interface{}{
		"status":  "registration",
		"booking": map[string]string{"name": "Vikram Shah", "phone": "9123456780"},
	})
	if rec.Code != 200 {
		t.Fatalf("Registration failed with status %d", rec.Code)
	}

	var stats lifecycle.DashboardStats
	rec = doJSON(t, app, "GET", "/api/projects/"+projectID+"/stats", "", nil)
	if rec.Code != 200 {
		t.Fatalf("Stats failed with status %d", rec.Code)
	}
	decode(t, rec, &stats)
	if stats.TotalPlots != 4 || stats.PercentageSold != 50.0 {
		t.Errorf("Unexpected stats: %+v", stats)
	}

	filtered := getPlots(t, app, projectID, "?status=available")
	if len(filtered.Plots) != 2 {
		t.Errorf("Expected 2 available plots, got %d", len(filtered.Plots))
	}

	searched := getPlots(t, app, projectID, "?search=2")
	if len(searched.Plots) != 1 || searched.Plots[0].PlotNumber != "2" {
		t.Errorf("Expected search to match plot 2, got %+v", searched.Plots)
	}
}

func TestPhoneCheckOverHTTP(t *testing.T) {
	app, _, _ := setupTestApp(t)
	token := loginToken(t, app)

	projectID := createProjectViaAPI(t, app, token, "Sunrise Gardens", "1", "2")
	rec := doJSON(t, app, "POST", "/api/admin/plots/"+plotIDByNumber(t, app, projectID, "1")+"/book", token, map[string]string{
		"customerName": "Asha Rao", "customerPhone": "9876543210",
	})
	if rec.Code != 200 {
		t.Fatalf("Book failed with status %d", rec.Code)
	}

	rec = doJSON(t, app, "GET", "/api/projects/"+projectID+"/phone-check?phone=9876543210", "", nil)
	if rec.Code != 200 {
		t.Fatalf("Phone check failed with status %d", rec.Code)
	}
	var check lifecycle.PhoneCheck
	decode(t, rec, &check)
	if !check.Exists || len(check.PlotNumbers) != 1 || check.PlotNumbers[0] != "1" {
		t.Errorf("Unexpected phone check: %+v", check)
	}

	rec = doJSON(t, app, "GET", "/api/projects/"+projectID+"/phone-check", "", nil)
	if rec.Code != 400 {
		t.Errorf("Expected 400 without phone parameter, got %d", rec.Code)
	}
}

func TestReplaceLayoutOverHTTP(t *testing.T) {
	app, _, _ := setupTestApp(t)
	token := loginToken(t, app)

	projectID := createProjectViaAPI(t, app, token, "Sunrise Gardens", "1", "2", "3")
	plot2 := plotIDByNumber(t, app, projectID, "2")
	rec := doJSON(t, app, "POST", "/api/admin/plots/"+plot2+"/book", token, map[string]string{
		"customerName": "Asha Rao", "customerPhone": "9876543210",
	})
	if rec.Code != 200 {
		t.Fatalf("Book failed with status %d", rec.Code)
	}

	rec = doJSON(t, app, "PUT", "/api/admin/projects/"+projectID+"/layout", token, map[string]interface{}{
		"rows": 2, "columns": 1,
		"plotDefinitions": []map[string]interface{}{
			{"plotNumber": "2", "dimension": "40x50", "area": "2000", "row": 0, "col": 0},
			{"plotNumber": "4", "dimension": "30x40", "area": 1200, "row": 1, "col": 0},
		},
	})
	if rec.Code != 200 {
		t.Fatalf("Replace layout failed with status %d: %s", rec.Code, rec.Body.String())
	}

	layout := getPlots(t, app, projectID, "")
	if layout.TotalPlots != 2 {
		t.Fatalf("Expected 2 plots after replace, got %d", layout.TotalPlots)
	}
	for _, p := range layout.Plots {
		if p.PlotNumber == "2" {
			if p.Status != "booked" || len(p.Bookings) != 1 {
				t.Errorf("Expected plot 2 to keep its booking, got %+v", p)
			}
		}
	}

	// Duplicate numbers in the template rejected
	rec = doJSON(t, app, "PUT", "/api/admin/projects/"+projectID+"/layout", token, map[string]interface{}{
		"rows": 1, "columns": 2,
		"plotDefinitions": []map[string]interface{}{
			{"plotNumber": "7", "area": 100},
			{"plotNumber": "7", "area": 100},
		},
	})
	if rec.Code != 400 {
		t.Errorf("Expected 400 for duplicate plot numbers, got %d", rec.Code)
	}
}

func TestExportOverHTTP(t *testing.T) {
	app, _, _ := setupTestApp(t)
	token := loginToken(t, app)

	projectID := createProjectViaAPI(t, app, token, "Sunrise Gardens", "1", "2")
	rec := doJSON(t, app, "POST", "/api/admin/plots/"+plotIDByNumber(t, app, projectID, "1")+"/book", token, map[string]string{
		"customerName": "Asha Rao", "customerPhone": "9876543210",
	})
	if rec.Code != 200 {
		t.Fatalf("Book failed with status %d", rec.Code)
	}

	rec = doJSON(t, app, "GET", "/api/admin/export?projectId="+projectID, token, nil)
	if rec.Code != 200 {
		t.Fatalf("Export failed with status %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("Expected text/csv content type, got %q", ct)
	}

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected header plus 2 rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "Project Name,Plot Number") {
		t.Errorf("Unexpected CSV header: %q", lines[0])
	}
	found := false
	for _, line := range lines[1:] {
		if strings.Contains(line, "Asha Rao") && strings.Contains(line, "9876543210") {
			found = true
		}
	}
	if !found {
		t.Error("Expected booked customer in the export")
	}

	rec = doJSON(t, app, "GET", "/api/admin/export?projectId="+projectID+"&format=json", token, nil)
	if rec.Code != 200 {
		t.Fatalf("JSON export failed with status %d", rec.Code)
	}
	var rows []struct {
		PlotNumber   string `json:"plotNumber"`
		CustomerName string `json:"customerName"`
	}
	decode(t, rec, &rows)
	if len(rows) != 2 || rows[0].CustomerName != "Asha Rao" {
		t.Errorf("Unexpected JSON export rows: %+v", rows)
	}

	rec = doJSON(t, app, "GET", "/api/admin/export?format=xml", token, nil)
	if rec.Code != 400 {
		t.Errorf("Expected 400 for unknown format, got %d", rec.Code)
	}

	rec = doJSON(t, app, "GET", "/api/admin/export?projectId=no-such-project", token, nil)
	if rec.Code != 404 {
		t.Errorf("Expected 404 for unknown project, got %d", rec.Code)
	}
}

func TestAddPlotOverHTTP(t *testing.T) {
	app, _, _ := setupTestApp(t)
	token := loginToken(t, app)

	projectID := createProjectViaAPI(t, app, token, "Sunrise Gardens", "1")

	rec := doJSON(t, app, "POST", "/api/admin/projects/"+projectID+"/plots", token, map[string]interface{}{
		"plotNumber": "2", "dimension": "30x40", "area": 1200, "row": 1, "col": 0,
	})
	if rec.Code != 200 {
		t.Fatalf("Add plot failed with status %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, app, "POST", "/api/admin/projects/"+projectID+"/plots", token, map[string]interface{}{
		"plotNumber": "2", "area": 1200,
	})
	if rec.Code != 400 {
		t.Errorf("Expected 400 for duplicate plot number, got %d", rec.Code)
	}

	if got := getPlots(t, app, projectID, "").TotalPlots; got != 2 {
		t.Errorf("Expected 2 plots, got %d", got)
	}
}
