package queries

import (
	"context"
	"sort"
	"strings"
	"time"

	"hivedesk/contexts/internal-ops/reporting-service/ports"
)

type TrafficEntry struct {
	Day       string `json:"day"`
	Expected  int    `json:"expected"`
	CheckedIn int    `json:"checked_in"`
	NoShow    int    `json:"no_show"`
}

type VisitorTrafficReport struct {
	TenantID string         `json:"tenant_id"`
	From     string         `json:"from"`
	To       string         `json:"to"`
	Entries  []TrafficEntry `json:"entries"`
}

// VisitorTrafficUseCase counts visits per day by status. Checked-out visits
// count as checked in for traffic purposes.
type VisitorTrafficUseCase struct {
	Visits ports.VisitSource
}

func (u VisitorTrafficUseCase) Execute(ctx context.Context, tenantID string, from, to time.Time) (VisitorTrafficReport, error) {
	if strings.TrimSpace(tenantID) == "" || !to.After(from) {
		return VisitorTrafficReport{}, ErrInvalidReportRange
	}

	from = dayStart(from)
	to = dayStart(to)

	visits, err := u.Visits.ListVisits(ctx, tenantID, from, to.Add(24*time.Hour))
	if err != nil {
		return VisitorTrafficReport{}, err
	}

	perDay := make(map[string]*TrafficEntry)
	for _, visit := range visits {
		day := dayStart(visit.ExpectedAt)
		if day.Before(from) || day.After(to) {
			continue
		}
		key := day.Format("2006-01-02")
		entry, ok := perDay[key]
		if !ok {
			entry = &TrafficEntry{Day: key}
			perDay[key] = entry
		}
		switch visit.Status {
		case "expected":
			entry.Expected++
		case "checked_in", "checked_out":
			entry.CheckedIn++
		case "no_show":
			entry.NoShow++
		}
	}

	entries := make([]TrafficEntry, 0, len(perDay))
	for _, entry := range perDay {
		entries = append(entries, *entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Day < entries[j].Day
	})

	return VisitorTrafficReport{
		TenantID: tenantID,
		From:     from.Format("2006-01-02"),
		To:       to.Format("2006-01-02"),
		Entries:  entries,
	}, nil
}
