// plots.go
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
	"github.com/gofiber/fiber/v2"
	"github.com/plotvista/plotvista/internal/lifecycle"
	"github.com/plotvista/plotvista/internal/services"
	"github.com/plotvista/plotvista/internal/utils"
	"gorm.io/gorm"
)

// PlotsHandler handles plot status and booking routes
type PlotsHandler struct {
	DB *gorm.DB
}

type statusRequest struct {
	Status  string          `json:"status"`
	Booking *bookingPayload `json:"booking"`
	// Flat customer fields from the historical book route
	bookingPayload
}

type bookMultipleRequest struct {
	PlotIDs []string `json:"plotIds"`
	bookingPayload
}

type batchResultResponse struct {
	PlotID string          `json:"plotId"`
	Plot   *lifecycle.Plot `json:"plot,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// UpdateStatus handles PUT /api/admin/plots/:plotId/status
// @Summary Update plot status
// @Description Move a plot through the sale lifecycle; customer details are required where the transition needs them
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param plotId path string true "Plot ID"
// @Param request body statusRequest true "Target status with optional customer details"
// @Success 200 {object} lifecycle.Plot
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /admin/plots/{plotId}/status [put]
func (h *PlotsHandler) UpdateStatus(c *fiber.Ctx) error {
	var req statusRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, "Invalid request body", fiber.StatusBadRequest, "updateStatus")
	}

	status, err := lifecycle.ParseStatus(req.Status)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "updateStatus")
	}

	payload := req.Booking
	if payload == nil && !req.bookingPayload.empty() {
		payload = &req.bookingPayload
	}

	var info *lifecycle.BookingRecord
	if payload != nil && !payload.empty() {
		record, err := payload.record()
		if err != nil {
			return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "updateStatus")
		}
		info = &record
	}

	plot, err := services.UpdatePlotStatus(h.DB, c.Params("plotId"), status, info)
	if err != nil {
		return serviceError(c, err, "updateStatus")
	}
	return c.Status(fiber.StatusOK).JSON(plot)
}

// Book handles POST /api/admin/plots/:plotId/book
// @Summary Book a plot
// @Description Record a customer against a plot and move it to the given status
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param plotId path string true "Plot ID"
// @Param request body statusRequest true "Customer details with target status"
// @Success 200 {object} lifecycle.Plot
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /admin/plots/{plotId}/book [post]
func (h *PlotsHandler) Book(c *fiber.Ctx) error {
	var req statusRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, "Invalid request body", fiber.StatusBadRequest, "bookPlot")
	}

	status := lifecycle.StatusBooked
	if req.Status != "" {
		parsed, err := lifecycle.ParseStatus(req.Status)
		if err != nil {
			return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "bookPlot")
		}
		status = parsed
	}

	record, err := req.bookingPayload.record()
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "bookPlot")
	}

	plot, err := services.UpdatePlotStatus(h.DB, c.Params("plotId"), status, &record)
	if err != nil {
		return serviceError(c, err, "bookPlot")
	}
	return c.Status(fiber.StatusOK).JSON(plot)
}

// AddBooking handles POST /api/admin/plots/:plotId/bookings
// @Summary Add a booking
// @Description Register another interested customer on an already booked plot
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param plotId path string true "Plot ID"
// @Param request body bookingPayload true "Customer details"
// @Success 200 {object} lifecycle.Plot
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Router /admin/plots/{plotId}/bookings [post]
func (h *PlotsHandler) AddBooking(c *fiber.Ctx) error {
	var req bookingPayload
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, "Invalid request body", fiber.StatusBadRequest, "addBooking")
	}

	record, err := req.record()
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "addBooking")
	}

	plot, err := services.AddBooking(h.DB, c.Params("plotId"), record)
	if err != nil {
		return serviceError(c, err, "addBooking")
	}
	return c.Status(fiber.StatusOK).JSON(plot)
}

// RemoveBooking handles DELETE /api/admin/plots/:plotId/bookings/:phone
// @Summary Remove a booking
// @Description Drop the booking matching the phone number; removing the last booking makes the plot available again
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param plotId path string true "Plot ID"
// @Param phone path string true "Customer phone number"
// @Success 200 {object} lifecycle.Plot
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /admin/plots/{plotId}/bookings/{phone} [delete]
func (h *PlotsHandler) RemoveBooking(c *fiber.Ctx) error {
	plot, err := services.RemoveBooking(h.DB, c.Params("plotId"), c.Params("phone"))
	if err != nil {
		return serviceError(c, err, "removeBooking")
	}
	return c.Status(fiber.StatusOK).JSON(plot)
}

// BookMultiple handles POST /api/admin/plots/book-multiple
// @Summary Book several plots
// @Description Book the same customer onto several plots; each plot succeeds or fails independently
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body bookMultipleRequest true "Plot IDs with customer details"
// @Success 200 {array} batchResultResponse
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /admin/plots/book-multiple [post]
func (h *PlotsHandler) BookMultiple(c *fiber.Ctx) error {
	var req bookMultipleRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, "Invalid request body", fiber.StatusBadRequest, "bookMultiple")
	}
	if len(req.PlotIDs) == 0 {
		return utils.ErrorResponse(c, "At least one plot id is required", fiber.StatusBadRequest, "bookMultiple")
	}

	record, err := req.bookingPayload.record()
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "bookMultiple")
	}

	results := services.BookMultiple(h.DB, req.PlotIDs, record)
	out := make([]batchResultResponse, 0, len(results))
	for _, r := range results {
		resp := batchResultResponse{PlotID: r.PlotID, Plot: r.Plot}
		if r.Err != nil {
			resp.Error = r.Err.Error()
		}
		out = append(out, resp)
	}
	return c.Status(fiber.StatusOK).JSON(out)
}
