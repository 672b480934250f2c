// common.go
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
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/plotvista/plotvista/internal/lifecycle"
	"github.com/plotvista/plotvista/internal/utils"
	"gorm.io/gorm"
)

// serviceError maps domain errors onto HTTP responses.
func serviceError(c *fiber.Ctx, err error, errorType string) error {
	switch {
	case errors.Is(err, lifecycle.ErrPlotNotFound),
		errors.Is(err, lifecycle.ErrProjectNotFound),
		errors.Is(err, lifecycle.ErrBookingNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return utils.NotFoundResponse(c, err.Error())
	case errors.Is(err, lifecycle.ErrDuplicatePhone):
		return utils.ErrorResponse(c, err.Error(), fiber.StatusConflict, errorType)
	case errors.Is(err, lifecycle.ErrValidation),
		errors.Is(err, lifecycle.ErrMissingBookingInfo):
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, errorType)
	default:
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, errorType)
	}
}

// bookingPayload is the customer block of booking-related requests. The book
// route historically used customerName/customerPhone while newer routes use
// name/phone, so both spellings are accepted.
type bookingPayload struct {
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	CustomerName  string `json:"customerName"`
	CustomerPhone string `json:"customerPhone"`
	BookingDate   string `json:"bookingDate"`
}

func (b *bookingPayload) record() (lifecycle.BookingRecord, error) {
	name := b.Name
	if name == "" {
		name = b.CustomerName
	}
	phone := b.Phone
	if phone == "" {
		phone = b.CustomerPhone
	}

	date := time.Now().UTC()
	if b.BookingDate != "" {
		parsed, err := time.Parse(time.RFC3339, b.BookingDate)
		if err != nil {
			return lifecycle.BookingRecord{}, err
		}
		date = parsed
	}

	return lifecycle.NewBookingRecord(name, phone, date)
}

func (b *bookingPayload) empty() bool {
	return b.Name == "" && b.CustomerName == "" && b.Phone == "" && b.CustomerPhone == ""
}
