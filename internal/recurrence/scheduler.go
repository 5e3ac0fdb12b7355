// Package recurrence implements the date arithmetic and state transitions for
// recurring transaction definitions: stepping the next occurrence forward,
// deciding dueness, and materializing transactions from templates.
//
// Everything here is pure. Process returns the materialized transaction and
// the advanced definition; persisting both (atomically, or advance-first) is
// the caller's job, and the storage layer guards against double processing
// with a compare-and-swap on the next occurrence date.
package recurrence

import (
	"time"

	"fintrack/internal/core"
)

// NextOccurrence steps a date forward by one period of the given frequency.
//
// Calendar-unit steps (monthly, quarterly, yearly) clamp to the last valid
// day of the target month rather than rolling into the following month:
// Jan 31 + 1 month is Feb 28 (29 in leap years), Nov 30 + 3 months is Feb 28.
// The clamp keeps month-end recurrences on month boundaries instead of
// drifting forward one cadence at a time.
func NextOccurrence(d core.Date, freq core.Frequency) (core.Date, error) {
	switch freq {
	case core.Daily:
		return core.Date{Time: d.AddDate(0, 0, 1)}, nil
	case core.Weekly:
		return core.Date{Time: d.AddDate(0, 0, 7)}, nil
	case core.Biweekly:
		return core.Date{Time: d.AddDate(0, 0, 14)}, nil
	case core.Monthly:
		return addMonthsClamped(d, 1), nil
	case core.Quarterly:
		return addMonthsClamped(d, 3), nil
	case core.Yearly:
		return addMonthsClamped(d, 12), nil
	default:
		return core.Date{}, core.ErrInvalidFrequency
	}
}

// addMonthsClamped advances by whole months, clamping the day of month to the
// last valid day of the target month. time.AddDate normalizes overflow by
// rolling forward (Jan 31 + 1 month = Mar 2/3), which is exactly the drift
// this avoids.
func addMonthsClamped(d core.Date, months int) core.Date {
	year, month, day := d.Date()
	targetMonth := time.Month(int(month) + months)

	last := lastDayOfMonth(year, targetMonth)
	if day > last {
		day = last
	}
	return core.Date{Time: time.Date(year, targetMonth, day, 0, 0, 0, 0, time.UTC)}
}

// lastDayOfMonth returns the number of days in a month; month may be out of
// the 1-12 range and is normalized by time.Date.
func lastDayOfMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// IsDue reports whether an active definition has reached its next occurrence.
func IsDue(def core.RecurringDefinition, today core.Date) bool {
	if !def.Active {
		return false
	}
	return def.NextOccurrence.OnOrBefore(today)
}

// ProcessResult carries the output of one processing step.
type ProcessResult struct {
	Transaction core.Transaction
	Updated     core.RecurringDefinition
}

// Process materializes the transaction for the definition's current next
// occurrence and advances the schedule. When the advanced date passes the
// definition's end date the definition is retired (Active becomes false);
// the final occurrence itself is still materialized.
func Process(def core.RecurringDefinition) (ProcessResult, error) {
	if err := def.Frequency.Validate(); err != nil {
		return ProcessResult{}, err
	}
	if err := def.NextOccurrence.Validate(); err != nil {
		return ProcessResult{}, err
	}

	description := def.Description
	if description == "" {
		description = "Recurring " + string(def.Type) + ": " + def.Category
	}

	tx := core.Transaction{
		UserID:      def.UserID,
		Type:        def.Type,
		Category:    def.Category,
		Amount:      def.Amount,
		Date:        def.NextOccurrence,
		Description: description,
	}

	candidate, err := NextOccurrence(def.NextOccurrence, def.Frequency)
	if err != nil {
		return ProcessResult{}, err
	}

	updated := def
	updated.LastProcessed = def.NextOccurrence
	updated.NextOccurrence = candidate
	if !def.EndDate.IsEmpty() && candidate.AfterDate(def.EndDate) {
		updated.Active = false
	}

	return ProcessResult{Transaction: tx, Updated: updated}, nil
}
