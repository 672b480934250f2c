/*
 * Plotvista, a plot inventory management service.
 * Copyright (C) 2026 Plotvista contributors
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU Affero General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU Affero General Public License for more details.
 *
 * You should have received a copy of the GNU Affero General Public License
 * along with this program.  If not, see <https://www.gnu.org/licenses/>.
 */

// Package export flattens plot inventory into tabular rows for CSV download.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/plotvista/plotvista/internal/lifecycle"
)

// squareFootRate is the indicative per-square-foot price used for the
// plot value column. Real pricing lives outside this system.
const squareFootRate = 500

const dateLayout = "2006-01-02"

// Header is the CSV column set, in output order.
var Header = []string{
	"Project Name",
	"Plot Number",
	"Dimensions",
	"Area (sq ft)",
	"Position",
	"Status",
	"Customer Name",
	"Phone Number",
	"Booking Date",
	"Agreement Date",
	"Registration Date",
	"Multiple Bookings",
	"Total Bookings",
	"Plot Value",
	"Remarks",
}

// Row is one line of the export. A plot yields one row per booking when
// multi-booking expansion is on, otherwise one row total.
type Row struct {
	ProjectName      string `json:"projectName"`
	PlotNumber       string `json:"plotNumber"`
	Dimension        string `json:"dimension"`
	Area             int    `json:"area"`
	Position         string `json:"position"`
	Status           string `json:"status"`
	CustomerName     string `json:"customerName"`
	CustomerPhone    string `json:"customerPhone"`
	BookingDate      string `json:"bookingDate,omitempty"`
	AgreementDate    string `json:"agreementDate,omitempty"`
	RegistrationDate string `json:"registrationDate,omitempty"`
	MultipleBookings string `json:"multipleBookings,omitempty"`
	TotalBookings    int    `json:"totalBookings"`
	PlotValue        string `json:"plotValue"`
	Remarks          string `json:"remarks,omitempty"`
}

// Rows projects the plots of one project into export rows. Plots arrive in
// whatever order the caller wants them emitted.
func Rows(projectName string, plots []*lifecycle.Plot, expandMultiple bool) []Row {
	rows := make([]Row, 0, len(plots))
	for _, p := range plots {
		base := Row{
			ProjectName: projectName,
			PlotNumber:  p.PlotNumber,
			Dimension:   p.Dimension,
			Area:        p.Area,
			Position:    fmt.Sprintf("Row %d, Col %d", p.Row+1, p.Col+1),
			Status:      titleStatus(p.Status()),
			PlotValue:   formatValue(p.Area),
		}

		switch state := p.State.(type) {
		case lifecycle.Available:
			rows = append(rows, base)
		case lifecycle.Booked:
			n := len(state.Bookings)
			if expandMultiple && n > 1 {
				for i, b := range state.Bookings {
					r := base
					r.CustomerName = b.Name
					r.CustomerPhone = b.Phone
					r.BookingDate = formatDate(b.BookingDate)
					r.MultipleBookings = fmt.Sprintf("Booking %d of %d", i+1, n)
					r.TotalBookings = n
					r.Remarks = "Multiple interested customers"
					rows = append(rows, r)
				}
			} else if n > 0 {
				primary := state.Bookings[0]
				r := base
				r.CustomerName = primary.Name
				r.CustomerPhone = primary.Phone
				r.BookingDate = formatDate(primary.BookingDate)
				r.TotalBookings = n
				if n > 1 {
					r.MultipleBookings = fmt.Sprintf("Primary (%d total)", n)
					r.Remarks = fmt.Sprintf("%d other interested customers", n-1)
				}
				rows = append(rows, r)
			}
		case lifecycle.Agreement:
			r := base
			r.CustomerName = state.Record.Name
			r.CustomerPhone = state.Record.Phone
			r.AgreementDate = formatDate(state.Record.BookingDate)
			r.TotalBookings = 1
			r.Remarks = "Agreement executed"
			rows = append(rows, r)
		case lifecycle.Registration:
			r := base
			r.CustomerName = state.Record.Name
			r.CustomerPhone = state.Record.Phone
			r.RegistrationDate = formatDate(state.Record.BookingDate)
			r.TotalBookings = 1
			r.Remarks = "Registration completed"
			rows = append(rows, r)
		}
	}
	return rows
}

// WriteCSV emits the header and rows to w in RFC 4180 form.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{
			r.ProjectName,
			r.PlotNumber,
			r.Dimension,
			strconv.Itoa(r.Area),
			r.Position,
			r.Status,
			r.CustomerName,
			r.CustomerPhone,
			r.BookingDate,
			r.AgreementDate,
			r.RegistrationDate,
			r.MultipleBookings,
			strconv.Itoa(r.TotalBookings),
			r.PlotValue,
			r.Remarks,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Filename derives the attachment name for a download started at ts.
func Filename(ts time.Time) string {
	return "plotvista-export-" + ts.Format(dateLayout) + ".csv"
}

func titleStatus(s lifecycle.Status) string {
	str := string(s)
	if str == "" {
		return str
	}
	return string(str[0]-'a'+'A') + str[1:]
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

// formatValue renders an indicative rupee value with thousands grouping.
func formatValue(area int) string {
	v := strconv.Itoa(area * squareFootRate)
	out := make([]byte, 0, len(v)+len(v)/3)
	lead := len(v) % 3
	if lead > 0 {
		out = append(out, v[:lead]...)
	}
	for i := lead; i < len(v); i += 3 {
		if len(out) > 0 {
			out = append(out, ',')
		}
		out = append(out, v[i:i+3]...)
	}
	return "₹" + string(out)
}
