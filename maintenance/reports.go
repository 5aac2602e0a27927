package maintenance

import (
	"math"
	"sort"
	"time"

	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/models"

	"github.com/shopspring/decimal"
)

// dueSoonWindowDays is the fixed compliance horizon: schedules due within
// this many days count as "due soon" rather than compliant.
const dueSoonWindowDays = 30

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// CalculateMaintenanceCompliance partitions every asset that carries at least
// one active schedule into overdue, due within 30 days, or compliant, and
// computes the compliance percentage as compliant assets over scheduled
// assets. Assets without any schedule count toward TotalAssets only. The
// worst schedule decides an asset's partition. Usage-based and event-based
// schedules are evaluated against the asset's counters; when due they rank as
// overdue with zero days overdue.
//
// The overdue list is sorted most-overdue first, the due-soon list
// soonest-first; ties break on asset number so runs over the same data are
// identical.
func CalculateMaintenanceCompliance(assets []models.Asset, schedules []models.MaintenanceSchedule, now time.Time) models.MaintenanceComplianceData {
	assetByID := make(map[string]models.Asset, len(assets))
	for _, a := range assets {
		assetByID[a.AssetID] = a
	}

	schedulesByAsset := make(map[string][]models.MaintenanceSchedule)
	for _, s := range schedules {
		if !s.Active {
			continue
		}
		if _, ok := assetByID[s.AssetID]; !ok {
			continue
		}
		schedulesByAsset[s.AssetID] = append(schedulesByAsset[s.AssetID], s)
	}

	data := models.MaintenanceComplianceData{
		TotalAssets:        len(assets),
		AssetsWithSchedule: len(schedulesByAsset),
		Overdue:            []models.ComplianceEntry{},
		DueSoon:            []models.ComplianceEntry{},
	}

	for assetID, assetSchedules := range schedulesByAsset {
		asset := assetByID[assetID]
		overdue := false
		dueSoon := false

		for _, s := range assetSchedules {
			entry := models.ComplianceEntry{
				AssetID:     asset.AssetID,
				AssetNumber: asset.AssetNumber,
				AssetName:   asset.Name,
				ScheduleID:  s.ScheduleID,
				Description: DescribeSchedule(s),
				NextDue:     s.NextDue,
			}

			if days := DaysUntilDue(s, now); days != nil {
				switch {
				case *days < 0:
					entry.DaysOverdue = -*days
					data.Overdue = append(data.Overdue, entry)
					overdue = true
				case *days <= dueSoonWindowDays:
					entry.DaysUntilDue = *days
					data.DueSoon = append(data.DueSoon, entry)
					dueSoon = true
				}
				continue
			}

			if UsageDue(s, asset.CurrentUsageHours, asset.LastMaintenanceHours) ||
				EventDue(s, asset.BookingsSinceMaintenance) {
				data.Overdue = append(data.Overdue, entry)
				overdue = true
			}
		}

		switch {
		case overdue:
			data.OverdueCount++
		case dueSoon:
			data.DueSoonCount++
		default:
			data.CompliantCount++
		}
	}

	sort.SliceStable(data.Overdue, func(i, j int) bool {
		if data.Overdue[i].DaysOverdue != data.Overdue[j].DaysOverdue {
			return data.Overdue[i].DaysOverdue > data.Overdue[j].DaysOverdue
		}
		return data.Overdue[i].AssetNumber < data.Overdue[j].AssetNumber
	})
	sort.SliceStable(data.DueSoon, func(i, j int) bool {
		if data.DueSoon[i].DaysUntilDue != data.DueSoon[j].DaysUntilDue {
			return data.DueSoon[i].DaysUntilDue < data.DueSoon[j].DaysUntilDue
		}
		return data.DueSoon[i].AssetNumber < data.DueSoon[j].AssetNumber
	})

	if data.AssetsWithSchedule > 0 {
		data.CompliancePercentage = round1(float64(data.CompliantCount) / float64(data.AssetsWithSchedule) * 100)
	}

	return data
}

// CalculateAssetUtilization reports, per asset, how much of the period
// [start, end] was covered by non-cancelled bookings. Both the period and
// every booking window are inclusive of their endpoints, so a booking from
// the 10th to the 12th covers three days. Booking spans are clipped to the
// period before counting. Assets keep their input order.
func CalculateAssetUtilization(assets []models.Asset, bookings []models.Booking, start, end time.Time) []models.AssetUtilizationData {
	periodStart := dateOnly(start)
	periodEnd := dateOnly(end)
	periodDays := daysBetween(periodStart, periodEnd) + 1
	if periodDays < 0 {
		periodDays = 0
	}

	type tally struct {
		days  int
		count int
	}
	tallies := make(map[string]*tally, len(assets))
	for _, a := range assets {
		tallies[a.AssetID] = &tally{}
	}

	for _, b := range bookings {
		if b.Status == models.BookingStatusCancelled {
			continue
		}
		t, ok := tallies[b.AssetID]
		if !ok {
			continue
		}
		bStart, err := time.Parse(DateLayout, b.StartDate)
		if err != nil {
			continue
		}
		bEnd, err := time.Parse(DateLayout, b.EndDate)
		if err != nil {
			continue
		}
		if bStart.After(periodEnd) || bEnd.Before(periodStart) {
			continue
		}
		if bStart.Before(periodStart) {
			bStart = periodStart
		}
		if bEnd.After(periodEnd) {
			bEnd = periodEnd
		}
		t.days += daysBetween(bStart, bEnd) + 1
		t.count++
	}

	results := make([]models.AssetUtilizationData, 0, len(assets))
	for _, a := range assets {
		t := tallies[a.AssetID]
		row := models.AssetUtilizationData{
			AssetID:         a.AssetID,
			AssetNumber:     a.AssetNumber,
			AssetName:       a.Name,
			GroupID:         a.GroupID,
			BookingCount:    t.count,
			TotalDaysBooked: t.days,
		}
		if periodDays > 0 {
			row.UtilizationPercentage = round1(float64(t.days) / float64(periodDays) * 100)
		}
		results = append(results, row)
	}
	return results
}

// AggregateGroupUtilization rolls per-asset utilization up to asset groups.
// Member count is the number of assets assigned to the group, booked or not,
// and groups without any activity are still reported with zero values. The
// group average spreads the booked days over periodDays for every member.
func AggregateGroupUtilization(groups []models.AssetGroup, perAsset []models.AssetUtilizationData, periodDays int) []models.GroupUtilizationData {
	byGroup := make(map[string][]models.AssetUtilizationData)
	for _, row := range perAsset {
		if row.GroupID == "" {
			continue
		}
		byGroup[row.GroupID] = append(byGroup[row.GroupID], row)
	}

	results := make([]models.GroupUtilizationData, 0, len(groups))
	for _, g := range groups {
		members := byGroup[g.GroupID]
		row := models.GroupUtilizationData{
			GroupID:     g.GroupID,
			GroupName:   g.Name,
			MemberCount: len(members),
		}
		for _, m := range members {
			row.TotalDaysBooked += m.TotalDaysBooked
			row.BookingCount += m.BookingCount
		}
		if periodDays > 0 && row.MemberCount > 0 {
			capacity := float64(periodDays * row.MemberCount)
			row.AverageUtilization = round1(float64(row.TotalDaysBooked) / capacity * 100)
		}
		results = append(results, row)
	}
	return results
}

// CalculateStockTakeSummary computes the set differences of a counting
// session: expected but never scanned is missing, scanned but never expected
// is unexpected. Duplicate scans collapse. The completion rate is the scanned
// share of the expected set, 0 when nothing was expected.
func CalculateStockTakeSummary(session models.StockTakeSession) models.StockTakeSummaryData {
	expected := make(map[string]bool, len(session.ExpectedAssetIDs))
	for _, id := range session.ExpectedAssetIDs {
		expected[id] = true
	}
	scanned := make(map[string]bool, len(session.ScannedAssetIDs))
	for _, id := range session.ScannedAssetIDs {
		scanned[id] = true
	}

	data := models.StockTakeSummaryData{
		SessionID:          session.SessionID,
		ExpectedCount:      len(expected),
		ScannedCount:       len(scanned),
		MissingAssetIDs:    []string{},
		UnexpectedAssetIDs: []string{},
	}

	seen := make(map[string]bool)
	matched := 0
	for _, id := range session.ExpectedAssetIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		if scanned[id] {
			matched++
		} else {
			data.MissingAssetIDs = append(data.MissingAssetIDs, id)
		}
	}
	seen = make(map[string]bool)
	for _, id := range session.ScannedAssetIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		if !expected[id] {
			data.UnexpectedAssetIDs = append(data.UnexpectedAssetIDs, id)
		}
	}

	if data.ExpectedCount > 0 {
		data.CompletionRate = round1(float64(matched) / float64(data.ExpectedCount) * 100)
	}
	return data
}

// AggregateBookingHistory summarizes the bookings whose start date falls in
// [start, end]: totals by status, by calendar month, and the ten most booked
// assets. The ranking sorts by booking count descending with asset number as
// the documented tie-break so repeated runs produce the same order.
func AggregateBookingHistory(bookings []models.Booking, assets []models.Asset, start, end time.Time) models.BookingHistoryData {
	assetByID := make(map[string]models.Asset, len(assets))
	for _, a := range assets {
		assetByID[a.AssetID] = a
	}

	periodStart := dateOnly(start)
	periodEnd := dateOnly(end)

	data := models.BookingHistoryData{
		ByStatus:  map[string]int{},
		ByMonth:   map[string]int{},
		TopAssets: []models.AssetBookingCount{},
	}

	countByAsset := make(map[string]int)
	for _, b := range bookings {
		bStart, err := time.Parse(DateLayout, b.StartDate)
		if err != nil {
			continue
		}
		if bStart.Before(periodStart) || bStart.After(periodEnd) {
			continue
		}
		data.TotalBookings++
		data.ByStatus[string(b.Status)]++
		data.ByMonth[bStart.Format("2006-01")]++
		countByAsset[b.AssetID]++
	}

	for assetID, count := range countByAsset {
		row := models.AssetBookingCount{AssetID: assetID, Count: count}
		if a, ok := assetByID[assetID]; ok {
			row.AssetNumber = a.AssetNumber
			row.AssetName = a.Name
		}
		data.TopAssets = append(data.TopAssets, row)
	}
	sort.SliceStable(data.TopAssets, func(i, j int) bool {
		if data.TopAssets[i].Count != data.TopAssets[j].Count {
			return data.TopAssets[i].Count > data.TopAssets[j].Count
		}
		if data.TopAssets[i].AssetNumber != data.TopAssets[j].AssetNumber {
			return data.TopAssets[i].AssetNumber < data.TopAssets[j].AssetNumber
		}
		return data.TopAssets[i].AssetID < data.TopAssets[j].AssetID
	})
	if len(data.TopAssets) > 10 {
		data.TopAssets = data.TopAssets[:10]
	}

	return data
}

// AggregateMaintenanceCosts totals maintenance record costs per asset over
// [start, end], highest spend first with asset number breaking ties.
func AggregateMaintenanceCosts(records []models.MaintenanceRecord, assets []models.Asset, start, end time.Time) []models.MaintenanceCostData {
	assetByID := make(map[string]models.Asset, len(assets))
	for _, a := range assets {
		assetByID[a.AssetID] = a
	}

	periodStart := dateOnly(start)
	periodEnd := dateOnly(end)

	totals := make(map[string]*models.MaintenanceCostData)
	for _, r := range records {
		day := dateOnly(r.Date)
		if day.Before(periodStart) || day.After(periodEnd) {
			continue
		}
		row, ok := totals[r.AssetID]
		if !ok {
			row = &models.MaintenanceCostData{AssetID: r.AssetID, TotalCost: decimal.Zero}
			if a, found := assetByID[r.AssetID]; found {
				row.AssetNumber = a.AssetNumber
				row.AssetName = a.Name
			}
			totals[r.AssetID] = row
		}
		row.RecordCount++
		row.TotalCost = row.TotalCost.Add(r.Cost)
	}

	results := make([]models.MaintenanceCostData, 0, len(totals))
	for _, row := range totals {
		results = append(results, *row)
	}
	sort.SliceStable(results, func(i, j int) bool {
		if !results[i].TotalCost.Equal(results[j].TotalCost) {
			return results[i].TotalCost.GreaterThan(results[j].TotalCost)
		}
		return results[i].AssetNumber < results[j].AssetNumber
	})
	return results
}
