package model

import (
	"hotelbooking/shared/model"
	"time"
)

const (
	TableName  = "room_bookings"
	EntityName = "booking"

	FieldID         = "id"
	FieldRoomID     = "room_id"
	FieldCustomerID = "customer_id"
	FieldStartDate  = "start_date"
	FieldEndDate    = "end_date"
	FieldIsActive   = "is_active"
)

// RoomNone is the sentinel room identifier meaning no room is available for
// the requested period.
const RoomNone int64 = -1

// Booking is a stay reservation over a closed date range [StartDate, EndDate],
// both dates inclusive at day granularity. RoomID is assigned by the allocator,
// never by the caller; only bookings with IsActive true count toward occupancy.
type Booking struct {
	ID         int64     `db:"id"`
	RoomID     int64     `db:"room_id"`
	CustomerID int64     `db:"customer_id"`
	StartDate  time.Time `db:"start_date"`
	EndDate    time.Time `db:"end_date"`
	IsActive   bool      `db:"is_active"`
	model.Metadata
}
