package appointment

import (
	"fmt"
	"strings"
	"time"

	"github.com/mediconnect/clinic-api/internal/model"
)

const (
	slotInterval      = 30 * time.Minute
	dayStartHour      = 10
	dayEndHour        = 21
	bookingWindowDays = 7
)

// DateKey encodes a calendar day as d_m_yyyy, 1-indexed month, no
// zero padding. Slot lookups are exact string matches on this key.
func DateKey(t time.Time) string {
	return fmt.Sprintf("%d_%d_%d", t.Day(), int(t.Month()), t.Year())
}

// FormatTimeLabel renders the slot time as the exact-match occupancy
// key, e.g. "10:00 am". The generator and the booking writer must both
// go through this function; any drift would silently break the ledger.
func FormatTimeLabel(t time.Time) string {
	return strings.ToLower(t.Format("03:04 PM"))
}

// OpenSlots computes the open 30-minute windows for the next 7 days
// starting at now, skipping every (date-key, time-label) pair present
// in the ledger. Pure projection: it never mutates booked and is safe
// to recompute on every call.
//
// Day 0 keeps the coarse rounding of the booking client it replaced:
// past 10am the start jumps to the next full hour, and the start minute
// is 30 whenever the current minute is past 30. It is not a precise
// "next half hour" and is preserved deliberately.
func OpenSlots(now time.Time, booked model.SlotLedger) []model.DaySlots {
	days := make([]model.DaySlots, 0, bookingWindowDays)

	for i := 0; i < bookingWindowDays; i++ {
		day := now.AddDate(0, 0, i)
		end := time.Date(day.Year(), day.Month(), day.Day(), dayEndHour, 0, 0, 0, now.Location())

		startHour := dayStartHour
		startMinute := 0
		if i == 0 {
			if now.Hour() > dayStartHour {
				startHour = now.Hour() + 1
			}
			if now.Minute() > 30 {
				startMinute = 30
			}
		}
		cursor := time.Date(day.Year(), day.Month(), day.Day(), startHour, startMinute, 0, 0, now.Location())

		slots := make([]model.Slot, 0)
		for cursor.Before(end) {
			key := DateKey(cursor)
			label := FormatTimeLabel(cursor)
			if !booked.Has(key, label) {
				slots = append(slots, model.Slot{Time: cursor, Label: label})
			}
			cursor = cursor.Add(slotInterval)
		}

		days = append(days, model.DaySlots{
			Date:    time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, now.Location()),
			DateKey: DateKey(day),
			Slots:   slots,
		})
	}

	return days
}
