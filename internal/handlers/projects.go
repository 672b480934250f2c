// projects.go
//
// This file is part of plotvista.
// plotvista is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// plotvista is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.

package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/plotvista/plotvista/internal/lifecycle"
	"github.com/plotvista/plotvista/internal/services"
	"github.com/plotvista/plotvista/internal/types"
	"github.com/plotvista/plotvista/internal/utils"
	"gorm.io/gorm"
)

// ProjectsHandler handles project routes
type ProjectsHandler struct {
	DB *gorm.DB
}

type plotDefinitionRequest struct {
	PlotNumber string        `json:"plotNumber"`
	Dimension  string        `json:"dimension"`
	Area       types.FlexInt `json:"area"`
	Row        types.FlexInt `json:"row"`
	Col        types.FlexInt `json:"col"`
}

func (r plotDefinitionRequest) definition() lifecycle.PlotDefinition {
	return lifecycle.PlotDefinition{
		PlotNumber: strings.TrimSpace(r.PlotNumber),
		Dimension:  strings.TrimSpace(r.Dimension),
		Area:       r.Area.Int(),
		Row:        r.Row.Int(),
		Col:        r.Col.Int(),
	}
}

type layoutTemplateRequest struct {
	Rows            types.FlexInt                         `json:"rows"`
	Columns         types.FlexInt                         `json:"columns"`
	PlotDefinitions types.FlexList[plotDefinitionRequest] `json:"plotDefinitions"`
}

func (r *layoutTemplateRequest) template() *lifecycle.LayoutTemplate {
	defs := make([]lifecycle.PlotDefinition, 0, len(r.PlotDefinitions))
	for _, d := range r.PlotDefinitions.Slice() {
		defs = append(defs, d.definition())
	}
	return &lifecycle.LayoutTemplate{
		Rows:            r.Rows.Int(),
		Columns:         r.Columns.Int(),
		PlotDefinitions: defs,
	}
}

type createProjectRequest struct {
	Name           string                 `json:"name"`
	LayoutTemplate *layoutTemplateRequest `json:"layoutTemplate"`
}

// ListProjects handles GET /api/projects
// @Summary List projects
// @Description List all projects, newest first, with plot counts
// @Tags Projects
// @Produce json
// @Success 200 {array} services.ProjectSummary
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /projects [get]
func (h *ProjectsHandler) ListProjects(c *fiber.Ctx) error {
	summaries, err := services.ListProjects(h.DB)
	if err != nil {
		return serviceError(c, err, "listProjects")
	}
	return c.Status(fiber.StatusOK).JSON(summaries)
}

// GetProjectPlots handles GET /api/projects/:projectId/plots
// @Summary Get project plots
// @Description Get the full plot layout for a project, optionally filtered
// @Tags Projects
// @Produce json
// @Param projectId path string true "Project ID"
// @Param status query string false "Filter by status (available, booked, agreement, registration)"
// @Param search query string false "Case-insensitive substring match on plot number"
// @Param multipleBookings query bool false "Only plots with more than one booking"
// @Success 200 {object} lifecycle.Layout
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /projects/{projectId}/plots [get]
func (h *ProjectsHandler) GetProjectPlots(c *fiber.Ctx) error {
	store, err := services.LoadLayout(h.DB, c.Params("projectId"))
	if err != nil {
		return serviceError(c, err, "getProjectPlots")
	}

	layout := store.Snapshot()

	filter := lifecycle.Filter{
		Status:           c.Query("status"),
		SearchQuery:      c.Query("search"),
		MultipleBookings: c.QueryBool("multipleBookings"),
	}
	if filter.Status != "" || filter.SearchQuery != "" || filter.MultipleBookings {
		layout.Plots = store.FilteredPlots(filter)
	}

	return c.Status(fiber.StatusOK).JSON(layout)
}

// GetProjectStats handles GET /api/projects/:projectId/stats
// @Summary Get project statistics
// @Description Get aggregate plot counts and the percentage sold
// @Tags Projects
// @Produce json
// @Param projectId path string true "Project ID"
// @Success 200 {object} lifecycle.DashboardStats
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /projects/{projectId}/stats [get]
func (h *ProjectsHandler) GetProjectStats(c *fiber.Ctx) error {
	stats, err := services.ProjectStats(h.DB, c.Params("projectId"))
	if err != nil {
		return serviceError(c, err, "getProjectStats")
	}
	return c.Status(fiber.StatusOK).JSON(stats)
}

// PhoneCheck handles GET /api/projects/:projectId/phone-check
// @Summary Check phone number usage
// @Description Report whether a phone number already holds bookings in the project
// @Tags Projects
// @Produce json
// @Param projectId path string true "Project ID"
// @Param phone query string true "Phone number"
// @Success 200 {object} lifecycle.PhoneCheck
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /projects/{projectId}/phone-check [get]
func (h *ProjectsHandler) PhoneCheck(c *fiber.Ctx) error {
	phone := c.Query("phone")
	if phone == "" {
		return utils.ErrorResponse(c, "Query parameter 'phone' is required", fiber.StatusBadRequest, "phoneCheck")
	}

	check, err := services.PhoneExistsInProject(h.DB, c.Params("projectId"), phone)
	if err != nil {
		return serviceError(c, err, "phoneCheck")
	}
	return c.Status(fiber.StatusOK).JSON(check)
}

// CreateProject handles POST /api/admin/projects
// @Summary Create a project
// @Description Create a project, optionally with an initial plot layout
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body createProjectRequest true "Project definition"
// @Success 201 {object} models.Project
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /admin/projects [post]
func (h *ProjectsHandler) CreateProject(c *fiber.Ctx) error {
	var req createProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, "Invalid request body", fiber.StatusBadRequest, "createProject")
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return utils.ErrorResponse(c, "Project name is required", fiber.StatusBadRequest, "createProject")
	}

	var template *lifecycle.LayoutTemplate
	if req.LayoutTemplate != nil {
		template = req.LayoutTemplate.template()
		if dupes := lifecycle.DuplicateNumbers(template.PlotDefinitions); len(dupes) > 0 {
			return utils.ErrorResponse(c,
				"Duplicate plot numbers: "+strings.Join(dupes, ", "),
				fiber.StatusBadRequest, "createProject")
		}
	}

	project, err := services.CreateProject(h.DB, name, template)
	if err != nil {
		return serviceError(c, err, "createProject")
	}
	return c.Status(fiber.StatusCreated).JSON(project)
}

// DeleteProject handles DELETE /api/admin/projects/:projectId
// @Summary Delete a project
// @Description Delete a project with all its plots and bookings
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param projectId path string true "Project ID"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /admin/projects/{projectId} [delete]
func (h *ProjectsHandler) DeleteProject(c *fiber.Ctx) error {
	if err := services.DeleteProject(h.DB, c.Params("projectId")); err != nil {
		return serviceError(c, err, "deleteProject")
	}
	return utils.MutationSuccessResponse(c, nil)
}

// ReplaceLayout handles PUT /api/admin/projects/:projectId/layout
// @Summary Replace a project layout
// @Description Apply a new plot template; plots keeping their numbers keep their sale state
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param projectId path string true "Project ID"
// @Param request body layoutTemplateRequest true "Layout template"
// @Success 200 {object} lifecycle.Layout
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /admin/projects/{projectId}/layout [put]
func (h *ProjectsHandler) ReplaceLayout(c *fiber.Ctx) error {
	var req layoutTemplateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, "Invalid request body", fiber.StatusBadRequest, "replaceLayout")
	}

	template := req.template()
	if dupes := lifecycle.DuplicateNumbers(template.PlotDefinitions); len(dupes) > 0 {
		return utils.ErrorResponse(c,
			"Duplicate plot numbers: "+strings.Join(dupes, ", "),
			fiber.StatusBadRequest, "replaceLayout")
	}

	layout, err := services.ReplaceLayout(h.DB, c.Params("projectId"),
		template.Rows, template.Columns, template.PlotDefinitions)
	if err != nil {
		return serviceError(c, err, "replaceLayout")
	}
	return c.Status(fiber.StatusOK).JSON(layout)
}

// AddPlot handles POST /api/admin/projects/:projectId/plots
// @Summary Add a plot
// @Description Add a single plot to an existing project layout
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param projectId path string true "Project ID"
// @Param request body plotDefinitionRequest true "Plot definition"
// @Success 200 {object} lifecycle.Layout
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /admin/projects/{projectId}/plots [post]
func (h *ProjectsHandler) AddPlot(c *fiber.Ctx) error {
	var req plotDefinitionRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, "Invalid request body", fiber.StatusBadRequest, "addPlot")
	}

	def := req.definition()
	if def.PlotNumber == "" {
		return utils.ErrorResponse(c, "Plot number is required", fiber.StatusBadRequest, "addPlot")
	}

	layout, err := services.AddPlot(h.DB, c.Params("projectId"), def)
	if err != nil {
		return serviceError(c, err, "addPlot")
	}
	return c.Status(fiber.StatusOK).JSON(layout)
}
