package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"hotelbooking/config"
	"hotelbooking/infras/kafka/mocks"
	otelMocks "hotelbooking/infras/otel/mocks"
	bookingMocks "hotelbooking/internal/domains/booking/mocks"
	"hotelbooking/internal/domains/booking/model"
	"hotelbooking/internal/domains/booking/model/dto"
	"hotelbooking/internal/domains/booking/service"
	roomMocks "hotelbooking/internal/domains/room/mocks"
	roomModel "hotelbooking/internal/domains/room/model"
	"hotelbooking/shared/cache"
	cacheMocks "hotelbooking/shared/cache/mocks"
	"hotelbooking/shared/constant"
	"hotelbooking/shared/failure"
	"hotelbooking/shared/timezone"
)

// asyncWait gives the fire-and-forget cache and event goroutines a moment to
// run before the mock controller checks expectations.
const asyncWait = 50 * time.Millisecond

func day(offset int) time.Time {
	return timezone.Today().AddDate(0, 0, offset)
}

func dateStr(offset int) string {
	return timezone.Format(day(offset), constant.DateOnlyFormat)
}

type serviceMocks struct {
	repo     *bookingMocks.MockBooking
	roomRepo *roomMocks.MockRoom
	cache    *cacheMocks.MockRedisCache
	kafka    *mocks.MockClient
}

func newService(t *testing.T) (service.Booking, serviceMocks) {
	t.Helper()

	ctrl := gomock.NewController(t)

	m := serviceMocks{
		repo:     bookingMocks.NewMockBooking(ctrl),
		roomRepo: roomMocks.NewMockRoom(ctrl),
		cache:    cacheMocks.NewMockRedisCache(ctrl),
		kafka:    mocks.NewMockClient(ctrl),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	cfg.Kafka.Topics.BookingCreated = "booking.created"
	cfg.Kafka.Topics.BookingCancelled = "booking.cancelled"

	svc := service.New(m.repo, m.roomRepo, cfg, m.cache, otelMocks.NewOtel(), m.kafka)

	return svc, m
}

func (m serviceMocks) allowAsyncSideEffects() {
	m.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	m.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	m.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	m.kafka.EXPECT().SendMessages(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
}

func activeBooking(roomID int64, start, end time.Time) model.Booking {
	return model.Booking{
		RoomID:    roomID,
		StartDate: start,
		EndDate:   end,
		IsActive:  true,
	}
}

func twoRooms() []roomModel.Room {
	return []roomModel.Room{{ID: 1}, {ID: 2}}
}

func TestBookingService_FindAvailableRoom(t *testing.T) {
	tests := []struct {
		name       string
		start      time.Time
		end        time.Time
		setupMock  func(m serviceMocks)
		wantRoomID int64
		wantErr    bool
		wantCode   int
	}{
		{
			name:  "start today is rejected",
			start: day(0), end: day(0),
			setupMock:  func(_ serviceMocks) {},
			wantRoomID: model.RoomNone,
			wantErr:    true,
			wantCode:   http.StatusBadRequest,
		},
		{
			name:  "start in the past is rejected",
			start: day(-3), end: day(2),
			setupMock:  func(_ serviceMocks) {},
			wantRoomID: model.RoomNone,
			wantErr:    true,
			wantCode:   http.StatusBadRequest,
		},
		{
			name:  "end before start is rejected",
			start: day(5), end: day(3),
			setupMock:  func(_ serviceMocks) {},
			wantRoomID: model.RoomNone,
			wantErr:    true,
			wantCode:   http.StatusBadRequest,
		},
		{
			name:  "all rooms free picks first in catalog order",
			start: day(1), end: day(1),
			setupMock: func(m serviceMocks) {
				m.roomRepo.EXPECT().GetCatalog(gomock.Any()).Return(twoRooms(), nil)
				m.repo.EXPECT().GetActive(gomock.Any()).Return([]model.Booking{
					activeBooking(1, day(10), day(20)),
				}, nil)
			},
			wantRoomID: 1,
		},
		{
			name:  "occupied first room falls through to second",
			start: day(15), end: day(15),
			setupMock: func(m serviceMocks) {
				m.roomRepo.EXPECT().GetCatalog(gomock.Any()).Return(twoRooms(), nil)
				m.repo.EXPECT().GetActive(gomock.Any()).Return([]model.Booking{
					activeBooking(1, day(10), day(20)),
				}, nil)
			},
			wantRoomID: 2,
		},
		{
			name:  "no free room reports sentinel without error",
			start: day(15), end: day(15),
			setupMock: func(m serviceMocks) {
				m.roomRepo.EXPECT().GetCatalog(gomock.Any()).Return(twoRooms(), nil)
				m.repo.EXPECT().GetActive(gomock.Any()).Return([]model.Booking{
					activeBooking(1, day(10), day(20)),
					activeBooking(2, day(14), day(16)),
				}, nil)
			},
			wantRoomID: model.RoomNone,
		},
		{
			name:  "catalog failure propagates",
			start: day(1), end: day(1),
			setupMock: func(m serviceMocks) {
				m.roomRepo.EXPECT().GetCatalog(gomock.Any()).Return(nil, errors.New("database error"))
			},
			wantRoomID: model.RoomNone,
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newService(t)
			tt.setupMock(m)

			roomID, err := svc.FindAvailableRoom(context.Background(), tt.start, tt.end)

			assert.Equal(t, tt.wantRoomID, roomID)

			if tt.wantErr {
				assert.Error(t, err)

				if tt.wantCode != 0 {
					assert.Equal(t, tt.wantCode, failure.GetCode(err))
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBookingService_Create(t *testing.T) {
	t.Run("commits to the first free room", func(t *testing.T) {
		svc, m := newService(t)

		m.roomRepo.EXPECT().GetCatalog(gomock.Any()).Return(twoRooms(), nil)
		m.repo.EXPECT().GetActive(gomock.Any()).Return([]model.Booking{
			activeBooking(1, day(10), day(20)),
		}, nil)
		m.repo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, booking model.Booking) (int64, error) {
				assert.Equal(t, int64(2), booking.RoomID)
				assert.True(t, booking.IsActive)

				return int64(7), nil
			})
		m.allowAsyncSideEffects()

		res, committed, err := svc.Create(context.Background(), dto.CreateBookingRequest{
			CustomerID: 42,
			StartDate:  dateStr(15),
			EndDate:    dateStr(15),
		})

		assert.NoError(t, err)
		assert.True(t, committed)
		assert.Equal(t, int64(7), res.ID)
		assert.Equal(t, int64(2), res.RoomID)

		time.Sleep(asyncWait)
	})

	t.Run("no free room persists nothing and is not an error", func(t *testing.T) {
		svc, m := newService(t)

		m.roomRepo.EXPECT().GetCatalog(gomock.Any()).Return(twoRooms(), nil)
		m.repo.EXPECT().GetActive(gomock.Any()).Return([]model.Booking{
			activeBooking(1, day(10), day(20)),
			activeBooking(2, day(14), day(16)),
		}, nil)

		_, committed, err := svc.Create(context.Background(), dto.CreateBookingRequest{
			CustomerID: 42,
			StartDate:  dateStr(15),
			EndDate:    dateStr(15),
		})

		assert.NoError(t, err)
		assert.False(t, committed)
	})

	t.Run("invalid stay range fails before any read or write", func(t *testing.T) {
		svc, _ := newService(t)

		_, committed, err := svc.Create(context.Background(), dto.CreateBookingRequest{
			CustomerID: 42,
			StartDate:  dateStr(0),
			EndDate:    dateStr(0),
		})

		assert.Error(t, err)
		assert.False(t, committed)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("unparseable date fails before any read or write", func(t *testing.T) {
		svc, _ := newService(t)

		_, committed, err := svc.Create(context.Background(), dto.CreateBookingRequest{
			CustomerID: 42,
			StartDate:  "15-01-2030",
			EndDate:    dateStr(16),
		})

		assert.Error(t, err)
		assert.False(t, committed)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("insert failure propagates", func(t *testing.T) {
		svc, m := newService(t)

		m.roomRepo.EXPECT().GetCatalog(gomock.Any()).Return(twoRooms(), nil)
		m.repo.EXPECT().GetActive(gomock.Any()).Return(nil, nil)
		m.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(int64(0), errors.New("database error"))

		_, committed, err := svc.Create(context.Background(), dto.CreateBookingRequest{
			CustomerID: 42,
			StartDate:  dateStr(15),
			EndDate:    dateStr(16),
		})

		assert.Error(t, err)
		assert.False(t, committed)
	})
}

func TestBookingService_GetFullyOccupiedDates(t *testing.T) {
	t.Run("start after end is rejected", func(t *testing.T) {
		svc, _ := newService(t)

		_, err := svc.GetFullyOccupiedDates(context.Background(), day(5), day(3))

		assert.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("one room always free yields no dates", func(t *testing.T) {
		svc, m := newService(t)

		m.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil)
		m.roomRepo.EXPECT().GetCatalog(gomock.Any()).Return(twoRooms(), nil)
		m.repo.EXPECT().GetActive(gomock.Any()).Return([]model.Booking{
			activeBooking(1, day(10), day(20)),
		}, nil)
		m.allowAsyncSideEffects()

		dates, err := svc.GetFullyOccupiedDates(context.Background(), day(9), day(21))

		assert.NoError(t, err)
		assert.Empty(t, dates)

		time.Sleep(asyncWait)
	})

	t.Run("past ranges are allowed", func(t *testing.T) {
		svc, m := newService(t)

		m.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil)
		m.roomRepo.EXPECT().GetCatalog(gomock.Any()).Return(twoRooms(), nil)
		m.repo.EXPECT().GetActive(gomock.Any()).Return([]model.Booking{
			activeBooking(1, day(-10), day(-5)),
			activeBooking(2, day(-8), day(-6)),
		}, nil)
		m.allowAsyncSideEffects()

		dates, err := svc.GetFullyOccupiedDates(context.Background(), day(-10), day(-1))

		assert.NoError(t, err)
		assert.Equal(t, []time.Time{day(-8), day(-7), day(-6)}, dates)

		time.Sleep(asyncWait)
	})

	t.Run("cache hit skips the repositories", func(t *testing.T) {
		svc, m := newService(t)

		cached := []time.Time{day(12)}

		m.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, value any) error {
				dates, ok := value.(*[]time.Time)
				assert.True(t, ok)

				*dates = cached

				return nil
			})

		dates, err := svc.GetFullyOccupiedDates(context.Background(), day(9), day(21))

		assert.NoError(t, err)
		assert.Equal(t, cached, dates)
	})
}

func TestBookingService_Cancel(t *testing.T) {
	t.Run("deactivates an active booking", func(t *testing.T) {
		svc, m := newService(t)

		booking := activeBooking(1, day(10), day(20))
		booking.ID = 7

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)
		m.repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ interface{}) error {
				assert.Equal(t, false, fields[model.FieldIsActive])

				return nil
			})
		m.allowAsyncSideEffects()

		err := svc.Cancel(context.Background(), 7)

		assert.NoError(t, err)

		time.Sleep(asyncWait)
	})

	t.Run("unknown booking is not found", func(t *testing.T) {
		svc, m := newService(t)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{}, nil)

		err := svc.Cancel(context.Background(), 99)

		assert.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("cancelling twice conflicts", func(t *testing.T) {
		svc, m := newService(t)

		booking := model.Booking{ID: 7, RoomID: 1, IsActive: false}

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)

		err := svc.Cancel(context.Background(), 7)

		assert.Error(t, err)
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})
}

func TestBookingService_Get(t *testing.T) {
	t.Run("maps the stored booking", func(t *testing.T) {
		svc, m := newService(t)

		booking := activeBooking(2, day(10), day(12))
		booking.ID = 7
		booking.CustomerID = 42

		m.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil)
		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)
		m.allowAsyncSideEffects()

		res, err := svc.Get(context.Background(), 7)

		assert.NoError(t, err)
		assert.Equal(t, int64(7), res.ID)
		assert.Equal(t, int64(2), res.RoomID)
		assert.Equal(t, int64(42), res.CustomerID)
		assert.Equal(t, dateStr(10), res.StartDate)
		assert.True(t, res.IsActive)

		time.Sleep(asyncWait)
	})

	t.Run("unknown booking is not found", func(t *testing.T) {
		svc, m := newService(t)

		m.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil)
		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{}, nil)

		_, err := svc.Get(context.Background(), 99)

		assert.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestBookingService_Delete(t *testing.T) {
	t.Run("removes an existing booking", func(t *testing.T) {
		svc, m := newService(t)

		m.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		m.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)
		m.allowAsyncSideEffects()

		err := svc.Delete(context.Background(), 7)

		assert.NoError(t, err)

		time.Sleep(asyncWait)
	})

	t.Run("unknown booking is not found", func(t *testing.T) {
		svc, m := newService(t)

		m.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)

		err := svc.Delete(context.Background(), 99)

		assert.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}
