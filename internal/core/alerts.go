package core

import (
	"sort"
	"time"
)

const (
	SeverityWarning AlertSeverity = "warning"
	SeverityDanger  AlertSeverity = "danger"
)

type AlertSeverity string

// Alert reports a spending limit whose current-period spend has reached 80%
// of the configured amount. Alerts are derived on every read, never stored.
type Alert struct {
	ID            string        `json:"id"`
	CategoryID    string        `json:"categoryId"`
	CategoryName  string        `json:"categoryName"`
	CategoryIcon  string        `json:"categoryIcon"`
	LimitAmount   Money         `json:"limitAmount"`
	CurrentAmount Money         `json:"currentAmount"`
	Percentage    float64       `json:"percentage"`
	Period        Period        `json:"period"`
	Severity      AlertSeverity `json:"severity"`
}

// EvaluateAlerts computes the active alerts for one user's limits at time now.
// A limit whose category no longer exists is skipped silently; read paths stay
// total even over inconsistent historical data. The result is ordered by
// percentage descending, ties keeping limit input order.
func EvaluateAlerts(limits []SpendingLimit, transactions []Transaction, categories []Category, now time.Time) []Alert {
	byID := make(map[string]Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}

	alerts := make([]Alert, 0, len(limits))
	for _, limit := range limits {
		category, ok := byID[limit.CategoryID]
		if !ok {
			continue
		}

		start := periodStart(limit.Period, now)
		var spent int64
		for _, t := range transactions {
			if t.Type != Expense || t.CategoryID != limit.CategoryID {
				continue
			}
			// Window is inclusive on both ends.
			if t.Date.Before(start) || t.Date.After(now) {
				continue
			}
			spent += t.Amount.Cents
		}

		percentage := float64(spent) / float64(limit.LimitAmount.Cents) * 100
		if percentage < 80 {
			continue
		}
		severity := SeverityWarning
		if percentage >= 100 {
			severity = SeverityDanger
		}
		alerts = append(alerts, Alert{
			ID:            limit.ID,
			CategoryID:    limit.CategoryID,
			CategoryName:  category.Name,
			CategoryIcon:  category.Icon,
			LimitAmount:   limit.LimitAmount,
			CurrentAmount: Money{Cents: spent},
			Percentage:    percentage,
			Period:        limit.Period,
			Severity:      severity,
		})
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].Percentage > alerts[j].Percentage
	})
	return alerts
}

// periodStart anchors the limit window at now: monthly limits cover the
// current calendar month, weekly limits a trailing 7-day window.
func periodStart(p Period, now time.Time) time.Time {
	if p == Monthly {
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	}
	return now.AddDate(0, 0, -7)
}
