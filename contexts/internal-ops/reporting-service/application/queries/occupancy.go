package queries

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"hivedesk/contexts/internal-ops/reporting-service/ports"
)

// ErrInvalidReportRange rejects empty or reversed report windows.
var ErrInvalidReportRange = errors.New("invalid report range")

// OpenHoursPerDay is the bookable window per resource per day used for
// occupancy rates.
const OpenHoursPerDay = 12.0

type OccupancyEntry struct {
	Day           string  `json:"day"`
	ResourceKind  string  `json:"resource_kind"`
	BookedHours   float64 `json:"booked_hours"`
	BookableHours float64 `json:"bookable_hours"`
	OccupancyRate float64 `json:"occupancy_rate"`
}

type OccupancyReport struct {
	TenantID string           `json:"tenant_id"`
	From     string           `json:"from"`
	To       string           `json:"to"`
	Entries  []OccupancyEntry `json:"entries"`
}

// OccupancyUseCase computes per-day booked hours against bookable hours,
// broken down by resource kind. Cancelled bookings do not count. Ranges with
// no data produce an empty entry list, not an error.
type OccupancyUseCase struct {
	Bookings ports.BookingSource
}

func (u OccupancyUseCase) Execute(ctx context.Context, tenantID string, from, to time.Time) (OccupancyReport, error) {
	if strings.TrimSpace(tenantID) == "" || !to.After(from) {
		return OccupancyReport{}, ErrInvalidReportRange
	}

	from = dayStart(from)
	to = dayStart(to)

	resources, err := u.Bookings.ListResources(ctx, tenantID)
	if err != nil {
		return OccupancyReport{}, err
	}
	kindByResource := make(map[string]string, len(resources))
	activePerKind := make(map[string]int)
	for _, resource := range resources {
		kindByResource[resource.ResourceID] = resource.Kind
		if resource.Active {
			activePerKind[resource.Kind]++
		}
	}

	bookings, err := u.Bookings.ListBookings(ctx, tenantID, from, to.Add(24*time.Hour))
	if err != nil {
		return OccupancyReport{}, err
	}

	// booked[day][kind] in hours
	booked := make(map[string]map[string]float64)
	for _, booking := range bookings {
		if booking.Status == "cancelled" {
			continue
		}
		kind, ok := kindByResource[booking.ResourceID]
		if !ok {
			continue
		}
		for day := dayStart(booking.StartsAt); day.Before(booking.EndsAt); day = day.Add(24 * time.Hour) {
			if day.Before(from) || day.After(to) {
				continue
			}
			hours := overlapHours(booking.StartsAt, booking.EndsAt, day, day.Add(24*time.Hour))
			if hours <= 0 {
				continue
			}
			key := day.Format("2006-01-02")
			if booked[key] == nil {
				booked[key] = make(map[string]float64)
			}
			booked[key][kind] += hours
		}
	}

	entries := make([]OccupancyEntry, 0)
	for day, kinds := range booked {
		for kind, hours := range kinds {
			bookable := float64(activePerKind[kind]) * OpenHoursPerDay
			entry := OccupancyEntry{
				Day:           day,
				ResourceKind:  kind,
				BookedHours:   hours,
				BookableHours: bookable,
			}
			if bookable > 0 {
				entry.OccupancyRate = hours / bookable
			}
			entries = append(entries, entry)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Day != entries[j].Day {
			return entries[i].Day < entries[j].Day
		}
		return entries[i].ResourceKind < entries[j].ResourceKind
	})

	return OccupancyReport{
		TenantID: tenantID,
		From:     from.Format("2006-01-02"),
		To:       to.Format("2006-01-02"),
		Entries:  entries,
	}, nil
}

func dayStart(at time.Time) time.Time {
	at = at.UTC()
	return time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, time.UTC)
}

func overlapHours(aStart, aEnd, bStart, bEnd time.Time) float64 {
	start := aStart
	if bStart.After(start) {
		start = bStart
	}
	end := aEnd
	if bEnd.Before(end) {
		end = bEnd
	}
	if !end.After(start) {
		return 0
	}
	return end.Sub(start).Hours()
}
