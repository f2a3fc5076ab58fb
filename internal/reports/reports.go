// Package reports filters and summarizes maintenance records in memory.
//
// Everything here is a pure function over the record set the caller already
// fetched. There is no caching and no incremental recomputation; the reports
// screen recomputes from scratch whenever a filter or the source set changes.
package reports

import (
	"sort"
	"time"

	"github.com/kennyp2233/autrack-go/internal/models"
)

// NotAvailable is the placeholder summary value for an empty record set.
const NotAvailable = "N/A"

// Filter narrows a record set. Every criterion is independently optional:
// the zero value matches everything.
type Filter struct {
	VehicleID  int64  // 0 = any vehicle
	Type       string // "" = any service type
	DateFrom   string // inclusive, "2006-01-02"
	DateTo     string // inclusive
	MileageMin int64  // 0 = no lower bound
	MileageMax int64  // 0 = no upper bound
}

// Summary is the aggregate over a filtered record set.
type Summary struct {
	RecordCount        int     `json:"recordCount"`
	TotalCost          float64 `json:"totalCost"`
	AverageCost        float64 `json:"averageCost"`
	MostCommonService  string  `json:"mostCommonService"`
	HighestCostService string  `json:"highestCostService"`
	HighestCost        float64 `json:"highestCost"`
}

// dateFormats are tried in order when parsing record dates. Records carry
// whatever the backend sent, usually plain dates, sometimes full timestamps.
var dateFormats = []string{"2006-01-02", time.RFC3339}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Apply returns the records matching every set criterion, sorted by date
// descending. Date bounds are inclusive on both ends. Records with
// unparseable dates are kept unless a date bound is set.
func Apply(records []models.Maintenance, f Filter) []models.Maintenance {
	var from, to time.Time
	var hasFrom, hasTo bool
	if f.DateFrom != "" {
		from, hasFrom = parseDate(f.DateFrom)
	}
	if f.DateTo != "" {
		to, hasTo = parseDate(f.DateTo)
	}

	filtered := make([]models.Maintenance, 0, len(records))
	for _, r := range records {
		if f.VehicleID != 0 && r.VehicleID != f.VehicleID {
			continue
		}
		if f.Type != "" && r.Type != f.Type {
			continue
		}
		if hasFrom || hasTo {
			d, ok := parseDate(r.Date)
			if !ok {
				continue
			}
			if hasFrom && d.Before(from) {
				continue
			}
			if hasTo && d.After(to) {
				continue
			}
		}
		if f.MileageMin != 0 && r.Mileage < f.MileageMin {
			continue
		}
		if f.MileageMax != 0 && r.Mileage > f.MileageMax {
			continue
		}
		filtered = append(filtered, r)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		di, iok := parseDate(filtered[i].Date)
		dj, jok := parseDate(filtered[j].Date)
		if !iok || !jok {
			return jok // unparseable dates sink to the end
		}
		return di.After(dj)
	})
	return filtered
}

// Summarize reduces a record set to its cost statistics. Missing costs count
// as zero. For an empty set the averages are zero and the service names are
// "N/A"; there is never a division by zero.
//
// HighestCostService ranks by the cost summed across all records of a type,
// not by any single record — two 75 oil changes beat one 100 brake job.
// Ties on occurrence count keep the first type encountered in record order.
func Summarize(records []models.Maintenance) Summary {
	s := Summary{
		RecordCount:        len(records),
		MostCommonService:  NotAvailable,
		HighestCostService: NotAvailable,
	}
	if len(records) == 0 {
		return s
	}

	counts := make(map[string]int)
	costs := make(map[string]float64)
	var order []string

	for _, r := range records {
		s.TotalCost += r.Cost
		if _, seen := counts[r.Type]; !seen {
			order = append(order, r.Type)
		}
		counts[r.Type]++
		costs[r.Type] += r.Cost
	}
	s.AverageCost = s.TotalCost / float64(len(records))

	bestCount := -1
	bestCost := -1.0
	for _, typ := range order {
		if counts[typ] > bestCount {
			bestCount = counts[typ]
			s.MostCommonService = typ
		}
		if costs[typ] > bestCost {
			bestCost = costs[typ]
			s.HighestCostService = typ
			s.HighestCost = costs[typ]
		}
	}
	return s
}

// Report is Apply followed by Summarize, plus the filtered records for the
// history list under the summary cards.
func Report(records []models.Maintenance, f Filter) ([]models.Maintenance, Summary) {
	filtered := Apply(records, f)
	return filtered, Summarize(filtered)
}
