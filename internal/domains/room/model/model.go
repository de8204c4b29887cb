package model

import "hotelbooking/shared/model"

const (
	TableName  = "rooms"
	EntityName = "room"

	FieldID          = "id"
	FieldName        = "name"
	FieldDescription = "description"
	FieldLocation    = "location"
	FieldCapacity    = "capacity"
	FieldImage       = "image"
)

// Room is a bookable hotel room. The catalog is owned by this domain and is
// read-only to the booking allocator; catalog order (id ascending) decides
// allocation tie-breaks.
type Room struct {
	ID          int64  `db:"id"`
	Name        string `db:"name"`
	Description string `db:"description"`
	Location    string `db:"location"`
	Capacity    int    `db:"capacity"`
	Image       string `db:"image"`
	model.Metadata
}
