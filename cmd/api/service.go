package main

import (
	"context"
	"time"

	"github.com/galeriseni/gambar/internal/model"
)

type ImageAPIService interface {
	Create(ctx context.Context, newImage *model.ImageCreateData) (*model.Image, error)
	GetList(ctx context.Context) ([]model.Image, error)
	Get(ctx context.Context, id string) (*model.Image, error)
	Update(ctx context.Context, id string, upd *model.ImageUpdateData) (*model.Image, error)
	SoftDelete(ctx context.Context, id string) (*model.Image, error)
	SweepOrphans(ctx context.Context, grace time.Duration)
}
