package service

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/galeriseni/gambar/internal/model"
	"github.com/wb-go/wbf/retry"
)

// MOCK REPOSITORY

type mockRepo struct {
	createFn     func(ctx context.Context, img *model.Image) error
	getListFn    func(ctx context.Context) ([]model.Image, error)
	getFn        func(ctx context.Context, id int64) (*model.Image, error)
	updateFn     func(ctx context.Context, id int64, upd *model.ImageUpdateData) (*model.Image, error)
	softDeleteFn func(ctx context.Context, id int64) (*model.Image, error)
	keyExistsFn  func(ctx context.Context, key string) (bool, error)
}

func (m *mockRepo) Create(ctx context.Context, img *model.Image) error {
	return m.createFn(ctx, img)
}

func (m *mockRepo) GetList(ctx context.Context) ([]model.Image, error) {
	return m.getListFn(ctx)
}

func (m *mockRepo) Get(ctx context.Context, id int64) (*model.Image, error) {
	return m.getFn(ctx, id)
}

func (m *mockRepo) Update(ctx context.Context, id int64, upd *model.ImageUpdateData) (*model.Image, error) {
	return m.updateFn(ctx, id, upd)
}

func (m *mockRepo) SoftDelete(ctx context.Context, id int64) (*model.Image, error) {
	return m.softDeleteFn(ctx, id)
}

func (m *mockRepo) KeyExists(ctx context.Context, key string) (bool, error) {
	return m.keyExistsFn(ctx, key)
}

// MOCK STORAGE

type mockStorage struct {
	uploadFn   func(ctx context.Context, key string, size int64, ct string, r io.Reader) (string, error)
	deleteFn   func(ctx context.Context, key string) error
	listKeysFn func(ctx context.Context, prefix string, cutoff time.Time) ([]string, error)
}

func (m *mockStorage) Upload(ctx context.Context, key string, size int64, ct string, r io.Reader) (string, error) {
	return m.uploadFn(ctx, key, size, ct, r)
}

func (m *mockStorage) Delete(ctx context.Context, key string) error {
	return m.deleteFn(ctx, key)
}

func (m *mockStorage) ListKeys(ctx context.Context, prefix string, cutoff time.Time) ([]string, error) {
	return m.listKeysFn(ctx, prefix, cutoff)
}

// MOCK PUBLISHER

type mockPublisher struct {
	sendFn func(ctx context.Context, s retry.Strategy, key []byte, v []byte) error
}

func (m *mockPublisher) SendWithRetry(ctx context.Context, s retry.Strategy, key []byte, v []byte) error {
	return m.sendFn(ctx, s, key, v)
}

// MOCK for multipart.File
type fakeMultipartFile struct {
	*bytes.Reader
}

func (f *fakeMultipartFile) Close() error {
	return nil
}
