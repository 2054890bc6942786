package transport

import (
	"context"

	"github.com/galeriseni/gambar/internal/model"
	"github.com/gin-gonic/gin"
)

type mockImageService struct {
	createFn     func(ctx context.Context, d *model.ImageCreateData) (*model.Image, error)
	getListFn    func(ctx context.Context) ([]model.Image, error)
	getFn        func(ctx context.Context, id string) (*model.Image, error)
	updateFn     func(ctx context.Context, id string, upd *model.ImageUpdateData) (*model.Image, error)
	softDeleteFn func(ctx context.Context, id string) (*model.Image, error)
}

func (m *mockImageService) Create(ctx context.Context, d *model.ImageCreateData) (*model.Image, error) {
	return m.createFn(ctx, d)
}

func (m *mockImageService) GetList(ctx context.Context) ([]model.Image, error) {
	return m.getListFn(ctx)
}

func (m *mockImageService) Get(ctx context.Context, id string) (*model.Image, error) {
	return m.getFn(ctx, id)
}

func (m *mockImageService) Update(ctx context.Context, id string, upd *model.ImageUpdateData) (*model.Image, error) {
	return m.updateFn(ctx, id, upd)
}

func (m *mockImageService) SoftDelete(ctx context.Context, id string) (*model.Image, error) {
	return m.softDeleteFn(ctx, id)
}

func init() {
	gin.SetMode(gin.TestMode)
}
