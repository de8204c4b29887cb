package service_test

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"hotelbooking/config"
	otelMocks "hotelbooking/infras/otel/mocks"
	s3Mocks "hotelbooking/infras/s3/mocks"
	roomMocks "hotelbooking/internal/domains/room/mocks"
	"hotelbooking/internal/domains/room/model"
	"hotelbooking/internal/domains/room/model/dto"
	"hotelbooking/internal/domains/room/service"
	"hotelbooking/shared/cache"
	cacheMocks "hotelbooking/shared/cache/mocks"
	"hotelbooking/shared/constant"
	gDto "hotelbooking/shared/dto"
	"hotelbooking/shared/failure"
)

const asyncWait = 50 * time.Millisecond

type serviceMocks struct {
	repo  *roomMocks.MockRoom
	cache *cacheMocks.MockRedisCache
	s3    *s3Mocks.MockS3
}

func newService(t *testing.T) (service.Room, serviceMocks) {
	t.Helper()

	ctrl := gomock.NewController(t)

	m := serviceMocks{
		repo:  roomMocks.NewMockRoom(ctrl),
		cache: cacheMocks.NewMockRedisCache(ctrl),
		s3:    s3Mocks.NewMockS3(ctrl),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	cfg.External.S3.BucketName = "hotel-assets"

	svc := service.New(m.repo, cfg, m.cache, otelMocks.NewOtel(), m.s3)

	return svc, m
}

func (m serviceMocks) allowAsyncSideEffects() {
	m.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	m.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	m.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
}

func TestRoomService_Create(t *testing.T) {
	t.Run("persists a room without image", func(t *testing.T) {
		svc, m := newService(t)

		m.repo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, room model.Room) (int64, error) {
				assert.Equal(t, "Deluxe", room.Name)
				assert.Equal(t, 2, room.Capacity)

				return int64(3), nil
			})
		m.allowAsyncSideEffects()

		res, err := svc.Create(context.Background(), dto.CreateRoomRequest{
			Name:     "Deluxe",
			Capacity: 2,
		})

		assert.NoError(t, err)
		assert.Equal(t, int64(3), res.ID)

		time.Sleep(asyncWait)
	})

	t.Run("uploads the image before persisting", func(t *testing.T) {
		svc, m := newService(t)

		header := &multipart.FileHeader{Filename: "front.jpg"}

		m.s3.EXPECT().
			UploadFile(gomock.Any(), "hotel-assets", model.EntityName, gomock.Any(), header, gomock.Any()).
			Return("https://cdn.example.com/room/front.jpg", nil)
		m.repo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, room model.Room) (int64, error) {
				assert.Equal(t, "https://cdn.example.com/room/front.jpg", room.Image)

				return int64(4), nil
			})
		m.allowAsyncSideEffects()

		res, err := svc.Create(context.Background(), dto.CreateRoomRequest{
			Name:  "Suite",
			Image: header,
		})

		assert.NoError(t, err)
		assert.Equal(t, int64(4), res.ID)

		time.Sleep(asyncWait)
	})

	t.Run("removes the uploaded image when the insert fails", func(t *testing.T) {
		svc, m := newService(t)

		header := &multipart.FileHeader{Filename: "front.jpg"}

		m.s3.EXPECT().
			UploadFile(gomock.Any(), "hotel-assets", model.EntityName, gomock.Any(), header, gomock.Any()).
			Return("https://cdn.example.com/room/front.jpg", nil)
		m.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(int64(0), errors.New("database error"))
		m.s3.EXPECT().DeleteFile(gomock.Any(), "hotel-assets", model.EntityName, gomock.Any()).Return(nil)

		_, err := svc.Create(context.Background(), dto.CreateRoomRequest{
			Name:  "Suite",
			Image: header,
		})

		assert.Error(t, err)
	})
}

func TestRoomService_Get(t *testing.T) {
	t.Run("maps the stored room", func(t *testing.T) {
		svc, m := newService(t)

		m.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil)
		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Room{
			ID:       3,
			Name:     "Deluxe",
			Capacity: 2,
		}, nil)
		m.allowAsyncSideEffects()

		res, err := svc.Get(context.Background(), 3)

		assert.NoError(t, err)
		assert.Equal(t, int64(3), res.ID)
		assert.Equal(t, "Deluxe", res.Name)

		time.Sleep(asyncWait)
	})

	t.Run("unknown room is not found", func(t *testing.T) {
		svc, m := newService(t)

		m.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil)
		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Room{}, nil)

		_, err := svc.Get(context.Background(), 99)

		assert.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestRoomService_GetAll(t *testing.T) {
	svc, m := newService(t)

	params := gDto.QueryParams{Page: 1, Limit: 10}

	m.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil).Times(2)
	m.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(2, nil)
	m.repo.EXPECT().GetAll(gomock.Any(), params, gomock.Any()).Return([]model.Room{
		{ID: 1, Name: "Deluxe"},
		{ID: 2, Name: "Suite"},
	}, nil)
	m.allowAsyncSideEffects()

	res, err := svc.GetAll(context.Background(), params, gDto.FilterGroup{})

	assert.NoError(t, err)
	assert.Equal(t, 2, res.TotalData)
	assert.Len(t, res.Rooms, 2)
	assert.Equal(t, "Deluxe", res.Rooms[0].Name)

	time.Sleep(asyncWait)
}

func TestRoomService_Update(t *testing.T) {
	t.Run("updates an existing room", func(t *testing.T) {
		svc, m := newService(t)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Room{ID: 3, Name: "Deluxe"}, nil)
		m.repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, "Premier", fields[model.FieldName])

				return nil
			})
		m.allowAsyncSideEffects()

		err := svc.Update(context.Background(), dto.UpdateRoomRequest{Name: "Premier"}, 3)

		assert.NoError(t, err)

		time.Sleep(asyncWait)
	})

	t.Run("unknown room is not found", func(t *testing.T) {
		svc, m := newService(t)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Room{}, nil)

		err := svc.Update(context.Background(), dto.UpdateRoomRequest{Name: "Premier"}, 99)

		assert.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("replacing the image deletes the old object", func(t *testing.T) {
		svc, m := newService(t)

		header := &multipart.FileHeader{Filename: "new.png"}

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Room{
			ID:    3,
			Image: "https://cdn.example.com/room/old.png",
		}, nil)
		m.s3.EXPECT().
			UploadFile(gomock.Any(), "hotel-assets", model.EntityName, gomock.Any(), header, gomock.Any()).
			Return("https://cdn.example.com/room/new.png", nil)
		m.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		m.s3.EXPECT().
			GetObjectNameFromURL("hotel-assets", "https://cdn.example.com/room/old.png").
			Return("old.png")
		m.s3.EXPECT().DeleteFile(gomock.Any(), "hotel-assets", model.EntityName, "old.png").Return(nil)
		m.allowAsyncSideEffects()

		err := svc.Update(context.Background(), dto.UpdateRoomRequest{Image: header}, 3)

		assert.NoError(t, err)

		time.Sleep(asyncWait)
	})
}

func TestRoomService_Delete(t *testing.T) {
	t.Run("removes an existing room", func(t *testing.T) {
		svc, m := newService(t)

		m.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		m.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)
		m.allowAsyncSideEffects()

		err := svc.Delete(context.Background(), 3)

		assert.NoError(t, err)

		time.Sleep(asyncWait)
	})

	t.Run("unknown room is not found", func(t *testing.T) {
		svc, m := newService(t)

		m.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)

		err := svc.Delete(context.Background(), 99)

		assert.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestRoomService_CatalogMutationInvalidatesOccupancyCache(t *testing.T) {
	t.Run("create clears cached fully occupied dates", func(t *testing.T) {
		svc, m := newService(t)

		cleared := make(chan string, 3)

		m.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(int64(5), nil)
		m.cache.EXPECT().
			Clear(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, prefix string) error {
				cleared <- prefix

				return nil
			}).
			Times(3)

		_, err := svc.Create(context.Background(), dto.CreateRoomRequest{Name: "Twin"})

		assert.NoError(t, err)

		prefixes := collectClearedPrefixes(t, cleared, 3)
		assert.Contains(t, prefixes, constant.CacheKeyBookingOccupied+constant.Asterix)
		assert.Contains(t, prefixes, constant.CacheKeyRoomGetAll+constant.Asterix)
		assert.Contains(t, prefixes, constant.CacheKeyRoomCount+constant.Asterix)
	})

	t.Run("delete clears cached fully occupied dates", func(t *testing.T) {
		svc, m := newService(t)

		cleared := make(chan string, 3)

		m.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		m.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)
		m.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)
		m.cache.EXPECT().
			Clear(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, prefix string) error {
				cleared <- prefix

				return nil
			}).
			Times(3)

		err := svc.Delete(context.Background(), 9)

		assert.NoError(t, err)

		prefixes := collectClearedPrefixes(t, cleared, 3)
		assert.Contains(t, prefixes, constant.CacheKeyBookingOccupied+constant.Asterix)
	})
}

func collectClearedPrefixes(t *testing.T, ch <-chan string, count int) []string {
	t.Helper()

	prefixes := make([]string, 0, count)

	for range count {
		select {
		case prefix := <-ch:
			prefixes = append(prefixes, prefix)
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for cache invalidation")
		}
	}

	return prefixes
}
