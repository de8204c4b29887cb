package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"hotelbooking/config"
	"hotelbooking/infras/kafka"
	"hotelbooking/infras/otel"
	"hotelbooking/internal/domains/booking/model"
	"hotelbooking/internal/domains/booking/model/dto"
	"hotelbooking/internal/domains/booking/repository"
	roomRepo "hotelbooking/internal/domains/room/repository"
	"hotelbooking/shared"
	"hotelbooking/shared/cache"
	"hotelbooking/shared/constant"
	gDto "hotelbooking/shared/dto"
	"hotelbooking/shared/failure"
	"hotelbooking/shared/timezone"

	"github.com/rs/zerolog/log"
)

type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.CreateBookingResponse, bool, error)
	FindAvailableRoom(ctx context.Context, startDate, endDate time.Time) (int64, error)
	GetFullyOccupiedDates(ctx context.Context, startDate, endDate time.Time) ([]time.Time, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id int64) (dto.BookingResponse, error)
	Cancel(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
}

type serviceImpl struct {
	repo     repository.Booking
	roomRepo roomRepo.Room
	cfg      *config.Config
	cache    cache.RedisCache
	otel     otel.Otel
	kafka    kafka.Client
}

func New(repo repository.Booking, roomRepo roomRepo.Room, cfg *config.Config, cache cache.RedisCache, otel otel.Otel, kafka kafka.Client) Booking {
	return &serviceImpl{
		repo:     repo,
		roomRepo: roomRepo,
		cfg:      cfg,
		cache:    cache,
		otel:     otel,
		kafka:    kafka,
	}
}

// validateStayRange enforces the booking precondition: the stay must start
// strictly after today and must not end before it starts. Dates are compared
// at day granularity.
func validateStayRange(startDate, endDate time.Time) error {
	if !startDate.After(timezone.Today()) {
		return failure.BadRequestFromString("start date must be in the future") //nolint:wrapcheck
	}

	if endDate.Before(startDate) {
		return failure.BadRequestFromString("end date must not precede start date") //nolint:wrapcheck
	}

	return nil
}

// FindAvailableRoom returns the id of the first room in catalog order that is
// free for the whole closed interval [startDate, endDate], or model.RoomNone
// when every room has a conflicting active booking. Pure query, no side
// effects.
func (s *serviceImpl) FindAvailableRoom(ctx context.Context, startDate, endDate time.Time) (roomID int64, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".FindAvailableRoom")
	defer scope.End()
	defer scope.TraceIfError(err)

	startDate = timezone.Date(startDate)
	endDate = timezone.Date(endDate)

	if err = validateStayRange(startDate, endDate); err != nil {
		return model.RoomNone, err
	}

	rooms, err := s.roomRepo.GetCatalog(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to load room catalog")

		return model.RoomNone, fmt.Errorf("failed to load room catalog: %w", err)
	}

	bookings, err := s.repo.GetActive(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to load active bookings")

		return model.RoomNone, fmt.Errorf("failed to load active bookings: %w", err)
	}

	return firstFreeRoom(rooms, bookings, startDate, endDate), nil
}

// Create books a stay. When a room is free for the requested period the
// booking is committed to the first such room and true is returned; when no
// room qualifies nothing is persisted and false is returned without an error.
// Invalid date ranges surface as a failure before any write.
//
// Two Create calls racing for the last free room are not arbitrated here;
// the storage layer gives no compare-and-swap, so the second writer can
// double-book. Known limitation.
func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.CreateBookingResponse, committed bool, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyAPIClient).(string)

	booking, err := req.ToModel(user)
	if err != nil {
		log.Error().Err(err).Msg("failed to parse booking request")

		return res, false, failure.BadRequestFromString(fmt.Sprintf("invalid date format: %v", err)) //nolint:wrapcheck
	}

	roomID, err := s.FindAvailableRoom(ctx, booking.StartDate, booking.EndDate)
	if err != nil {
		return res, false, err
	}

	if roomID == model.RoomNone {
		log.Info().
			Int64("customerID", booking.CustomerID).
			Str("startDate", req.StartDate).
			Str("endDate", req.EndDate).
			Msg("no room available for requested period")

		return res, false, nil
	}

	booking.RoomID = roomID
	booking.IsActive = true

	id, err := s.repo.Insert(ctx, booking)
	if err != nil {
		log.Error().Err(err).Msg("failed to create booking")

		return res, false, fmt.Errorf("failed to create booking: %w", err)
	}

	booking.ID = id

	go func() {
		c := context.WithoutCancel(ctx)

		s.invalidateQueryCaches(c)
		s.publishEvent(c, s.cfg.Kafka.Topics.BookingCreated, booking)
	}()

	res.ID = id
	res.RoomID = roomID

	return res, true, nil
}

// GetFullyOccupiedDates lists, in ascending order, every date in the closed
// interval [startDate, endDate] on which all rooms are occupied by an active
// booking. The start date may lie in the past; only start > end is rejected.
func (s *serviceImpl) GetFullyOccupiedDates(ctx context.Context, startDate, endDate time.Time) (dates []time.Time, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetFullyOccupiedDates")
	defer scope.End()
	defer scope.TraceIfError(err)

	startDate = timezone.Date(startDate)
	endDate = timezone.Date(endDate)

	if startDate.After(endDate) {
		return nil, failure.BadRequestFromString("start date must not exceed end date") //nolint:wrapcheck
	}

	cacheKey := shared.BuildCacheKey(
		constant.CacheKeyBookingOccupied,
		timezone.Format(startDate, constant.DateOnlyFormat),
		timezone.Format(endDate, constant.DateOnlyFormat),
	)

	err = s.cache.Get(ctx, cacheKey, &dates)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for fully occupied dates")

		return dates, nil
	}

	rooms, err := s.roomRepo.GetCatalog(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to load room catalog")

		return nil, fmt.Errorf("failed to load room catalog: %w", err)
	}

	bookings, err := s.repo.GetActive(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to load active bookings")

		return nil, fmt.Errorf("failed to load active bookings: %w", err)
	}

	dates = fullyOccupiedDates(rooms, bookings, startDate, endDate)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, dates, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save fully occupied dates to cache")
		}
	}()

	return dates, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(constant.CacheKeyBookingGetAll, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(constant.CacheKeyBookingCount, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id int64) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(constant.CacheKeyBookingGet, strconv.FormatInt(id, 10))

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking")

		return res, nil
	}

	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == 0 {
		return res, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	res.FromModel(booking)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking to cache")
		}
	}()

	return res, nil
}

// Cancel deactivates a booking so it no longer counts toward occupancy. The
// row is kept for bookkeeping; Delete removes it outright.
func (s *serviceImpl) Cancel(ctx context.Context, id int64) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Cancel")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyAPIClient).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	booking, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == 0 {
		log.Error().Msg("booking not found")

		return failure.NotFound("booking not found") // nolint:wrapcheck
	}

	if !booking.IsActive {
		return failure.Conflict("booking is already cancelled") // nolint:wrapcheck
	}

	updatedFields := map[string]any{
		model.FieldIsActive:      false,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}

	if err := s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to cancel booking")

		return fmt.Errorf("failed to cancel booking: %w", err)
	}

	booking.IsActive = false

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(constant.CacheKeyBookingGet, strconv.FormatInt(id, 10))); err != nil {
			log.Error().Err(err).Msg("failed to delete booking from cache")
		}

		s.invalidateQueryCaches(c)
		s.publishEvent(c, s.cfg.Kafka.Topics.BookingCancelled, booking)
	}()

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id int64) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	exist, err := s.repo.Exist(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if booking exists")

		return fmt.Errorf("failed to check if booking exists: %w", err)
	}

	if !exist {
		log.Error().Msg("booking not found")

		return failure.NotFound("booking not found") // nolint:wrapcheck
	}

	if err := s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete booking")

		return fmt.Errorf("failed to delete booking: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(constant.CacheKeyBookingGet, strconv.FormatInt(id, 10))); err != nil {
			log.Error().Err(err).Msg("failed to delete booking from cache")
		}

		s.invalidateQueryCaches(c)
	}()

	return nil
}

func (s *serviceImpl) invalidateQueryCaches(ctx context.Context) {
	shared.InvalidateCaches(ctx, s.cache, constant.CacheKeyBookingGetAll)
	shared.InvalidateCaches(ctx, s.cache, constant.CacheKeyBookingCount)
	shared.InvalidateCaches(ctx, s.cache, constant.CacheKeyBookingOccupied)
}

func (s *serviceImpl) publishEvent(ctx context.Context, topic string, booking model.Booking) {
	if s.kafka == nil || topic == constant.Empty {
		return
	}

	payload := dto.BookingResponse{}
	payload.FromModel(booking)

	message := kafka.Message{
		Key:   strconv.FormatInt(booking.ID, 10),
		Value: payload,
	}

	if err := s.kafka.SendMessages(ctx, topic, message); err != nil {
		log.Error().Err(err).Str("topic", topic).Msg("failed to publish booking event")
	}
}
