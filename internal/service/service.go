// Package service provides business-logic for the app
package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/galeriseni/gambar/internal/model"
	"github.com/galeriseni/gambar/internal/mwlogger"
	"github.com/galeriseni/gambar/internal/repository"
	"github.com/wb-go/wbf/retry"
)

type ImageService struct {
	repo      repository.ImageRepo
	publisher EventPublisher
	storage   ImageStorage
	keyPrefix string
}

func NewImageService(rep repository.ImageRepo, pub EventPublisher, strg ImageStorage) *ImageService {
	return &ImageService{
		repo:      rep,
		publisher: pub,
		storage:   strg,
		keyPrefix: "gambar/",
	}
}

// EventPublisher - contract for the lifecycle-event queue
type EventPublisher interface {
	SendWithRetry(ctx context.Context, strategy retry.Strategy, key []byte, v []byte) error
}

// ImageStorage - contract for the object storage
type ImageStorage interface {
	Upload(ctx context.Context, key string, size int64, contentType string, r io.Reader) (url string, err error)
	Delete(ctx context.Context, key string) error
	ListKeys(ctx context.Context, prefix string, cutoff time.Time) ([]string, error)
}

var retryStrategy = retry.Strategy{
	Attempts: 5,
	Delay:    3 * time.Second,
	Backoff:  1.5,
}

// Create uploads the payload to storage and then records the metadata. The
// two steps are not transactional: if the insert fails, the stored object
// stays behind as an orphan and is only logged here - the sweeper picks it
// up later.
func (c ImageService) Create(ctx context.Context, imageData *model.ImageCreateData) (*model.Image, error) {
	logger := mwlogger.LoggerFromContext(ctx)

	if imageData.File == nil || imageData.Size <= 0 {
		return nil, model.ErrEmptyFile
	}

	// uploads are memory-buffered: the payload is read twice (probe + upload)
	payload, err := io.ReadAll(imageData.File)
	if err != nil || len(payload) == 0 {
		return nil, model.ErrEmptyFile
	}

	newImage := &model.Image{
		Title:       imageData.Title,
		Description: imageData.Description,
		FileName:    imageData.FileName,
		StorageKey:  c.keyPrefix + objectName(imageData),
	}
	probeDimensions(payload, newImage)

	url, err := c.storage.Upload(ctx, newImage.StorageKey, int64(len(payload)), imageData.ContentType, bytes.NewReader(payload))
	if err != nil {
		logger.Error().Err(err).Msg("Failed to save image in Storage")
		return nil, model.ErrCommon500
	}
	newImage.URL = url

	if err := c.repo.Create(ctx, newImage); err != nil {
		// upload already succeeded - the object is now unreferenced
		logger.Error().Err(err).Str("orphaned_key", newImage.StorageKey).Msg("Failed to create image in DB, stored object left orphaned")
		return nil, model.ErrCommon500
	}

	c.publishEvent(ctx, model.EventCreated, newImage)

	return newImage, nil
}

func (c ImageService) GetList(ctx context.Context) ([]model.Image, error) {
	logger := mwlogger.LoggerFromContext(ctx)

	res, err := c.repo.GetList(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to fetch all images list from DB")
		return nil, model.ErrCommon500
	}

	return res, nil
}

func (c ImageService) Get(ctx context.Context, id string) (*model.Image, error) {
	logger := mwlogger.LoggerFromContext(ctx)
	numID, err := parseID(id)
	if err != nil {
		return nil, model.ErrIncorrectID
	}

	res, err := c.repo.Get(ctx, numID)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrImageNotFound):
			return nil, model.ErrImageNotFound // 404
		default:
			logger.Error().Err(err).Msg(fmt.Sprintf("Failed to fetch image %q from DB", id))
			return nil, model.ErrCommon500
		}
	}

	return res, nil
}

func (c ImageService) Update(ctx context.Context, id string, upd *model.ImageUpdateData) (*model.Image, error) {
	logger := mwlogger.LoggerFromContext(ctx)
	numID, err := parseID(id)
	if err != nil {
		return nil, model.ErrIncorrectID
	}

	res, err := c.repo.Update(ctx, numID, upd)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrImageNotFound):
			return nil, model.ErrImageNotFound // 404
		default:
			logger.Error().Err(err).Msg(fmt.Sprintf("Failed to update image %q in DB", id))
			return nil, model.ErrCommon500
		}
	}

	return res, nil
}

func (c ImageService) SoftDelete(ctx context.Context, id string) (*model.Image, error) {
	logger := mwlogger.LoggerFromContext(ctx)
	numID, err := parseID(id)
	if err != nil {
		return nil, model.ErrIncorrectID
	}

	res, err := c.repo.SoftDelete(ctx, numID)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrImageNotFound):
			return nil, model.ErrImageNotFound // 404
		default:
			logger.Error().Err(err).Msg(fmt.Sprintf("Failed to soft-delete image %q in DB", id))
			return nil, model.ErrCommon500
		}
	}

	c.publishEvent(ctx, model.EventDeleted, res)

	return res, nil
}

// SweepOrphans removes stored objects no metadata row references. The grace
// window keeps it from racing an in-flight create between upload and insert.
func (c ImageService) SweepOrphans(ctx context.Context, grace time.Duration) {
	logger := mwlogger.LoggerFromContext(ctx)

	keys, err := c.storage.ListKeys(ctx, c.keyPrefix, time.Now().UTC().Add(-grace))
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list stored objects for orphan sweep")
		return
	}

	for _, key := range keys {
		exists, err := c.repo.KeyExists(ctx, key)
		if err != nil {
			logger.Error().Err(err).Msg("Failed to check stored object against DB")
			return
		}
		if exists {
			continue
		}
		if err := c.storage.Delete(ctx, key); err != nil {
			logger.Error().Err(err).Msg(fmt.Sprintf("Failed to delete orphaned object %q from Storage", key))
			continue
		}
		logger.Info().Str("key", key).Msg("Removed orphaned stored object")
	}
}

// publishEvent is best-effort: CRUD must not depend on the broker.
func (c ImageService) publishEvent(ctx context.Context, action string, img *model.Image) {
	logger := mwlogger.LoggerFromContext(ctx)

	event, err := json.Marshal(model.ImageEvent{ID: img.ID, Action: action, URL: img.URL})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to marshal lifecycle event")
		return
	}

	if err := c.publisher.SendWithRetry(ctx, retryStrategy, []byte(fmt.Sprint(img.ID)), event); err != nil {
		logger.Error().Err(err).Msg(fmt.Sprintf("Failed to publish %q event for image %d", action, img.ID))
	}
}
