package dto

import (
	"time"

	"hotelbooking/internal/domains/booking/model"
	"hotelbooking/shared"
	"hotelbooking/shared/constant"
	gDto "hotelbooking/shared/dto"
	gModel "hotelbooking/shared/model"
	"hotelbooking/shared/timezone"
)

type CreateBookingRequest struct {
	CustomerID int64  `json:"customer_id" validate:"required,gt=0"`
	StartDate  string `json:"start_date"  validate:"required,dateonly"`
	EndDate    string `json:"end_date"    validate:"required,dateonly"`
}

func (c *CreateBookingRequest) ToModel(user string) (model.Booking, error) {
	startDate, err := timezone.ParseDate(c.StartDate)
	if err != nil {
		return model.Booking{}, err //nolint:wrapcheck
	}

	endDate, err := timezone.ParseDate(c.EndDate)
	if err != nil {
		return model.Booking{}, err //nolint:wrapcheck
	}

	return model.Booking{
		CustomerID: c.CustomerID,
		StartDate:  startDate,
		EndDate:    endDate,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}, nil
}

type CreateBookingResponse struct {
	ID     int64 `json:"id"`
	RoomID int64 `json:"room_id"`
}

type AvailableRoomResponse struct {
	RoomID int64 `json:"room_id"`
}

type FullyOccupiedDatesResponse struct {
	Dates []string `json:"dates"`
}

func (r *FullyOccupiedDatesResponse) FromDates(dates []time.Time) {
	r.Dates = make([]string, len(dates))
	for i, d := range dates {
		r.Dates[i] = timezone.Format(d, constant.DateOnlyFormat)
	}
}

type BookingResponse struct {
	ID         int64  `json:"id"`
	RoomID     int64  `json:"room_id"`
	CustomerID int64  `json:"customer_id"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	IsActive   bool   `json:"is_active"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(model model.Booking) {
	r.ID = model.ID
	r.RoomID = model.RoomID
	r.CustomerID = model.CustomerID
	r.StartDate = timezone.Format(model.StartDate, constant.DateOnlyFormat)
	r.EndDate = timezone.Format(model.EndDate, constant.DateOnlyFormat)
	r.IsActive = model.IsActive
	r.Metadata.FromModel(model.Metadata)
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}
