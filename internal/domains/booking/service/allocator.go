package service

import (
	"time"

	bookingModel "hotelbooking/internal/domains/booking/model"
	roomModel "hotelbooking/internal/domains/room/model"
	"hotelbooking/shared/timezone"
)

// overlaps reports whether two closed date intervals share at least one day.
// Inputs must already be truncated to day granularity.
func overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aStart.After(bEnd) && !aEnd.Before(bStart)
}

// occupies reports whether the booking blocks the room for any day of the
// closed interval [startDate, endDate].
func occupies(booking bookingModel.Booking, startDate, endDate time.Time) bool {
	if !booking.IsActive {
		return false
	}

	return overlaps(timezone.Date(booking.StartDate), timezone.Date(booking.EndDate), startDate, endDate)
}

// firstFreeRoom returns the id of the first room in catalog order without an
// active booking overlapping [startDate, endDate], or RoomNone when every
// room is taken. Catalog order decides ties, so the result is deterministic
// for a fixed catalog.
func firstFreeRoom(rooms []roomModel.Room, bookings []bookingModel.Booking, startDate, endDate time.Time) int64 {
	for _, room := range rooms {
		free := true

		for _, booking := range bookings {
			if booking.RoomID != room.ID {
				continue
			}

			if occupies(booking, startDate, endDate) {
				free = false

				break
			}
		}

		if free {
			return room.ID
		}
	}

	return bookingModel.RoomNone
}

// fullyOccupiedDates returns, ascending, every date in the closed interval
// [startDate, endDate] on which all rooms carry an active booking. A room
// counts once per date even when several of its bookings cover the same day.
// The result is empty when the catalog is empty.
func fullyOccupiedDates(rooms []roomModel.Room, bookings []bookingModel.Booking, startDate, endDate time.Time) []time.Time {
	dates := []time.Time{}

	if len(rooms) == 0 {
		return dates
	}

	for day := startDate; !day.After(endDate); day = day.AddDate(0, 0, 1) {
		occupied := make(map[int64]bool, len(rooms))

		for _, booking := range bookings {
			if occupies(booking, day, day) {
				occupied[booking.RoomID] = true
			}
		}

		full := true

		for _, room := range rooms {
			if !occupied[room.ID] {
				full = false

				break
			}
		}

		if full {
			dates = append(dates, day)
		}
	}

	return dates
}
