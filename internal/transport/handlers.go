// Package transport provides methods for processing requests from endpoints
package transport

import (
	"context"

	"github.com/galeriseni/gambar/internal/model"
	"github.com/wb-go/wbf/ginext"
)

type ImageHandler struct {
	service ImageService
}

type ImageService interface {
	Create(ctx context.Context, newImage *model.ImageCreateData) (*model.Image, error)
	GetList(ctx context.Context) ([]model.Image, error)
	Get(ctx context.Context, id string) (*model.Image, error)
	// Update touches title/description only and ignores the soft-delete mark
	Update(ctx context.Context, id string, upd *model.ImageUpdateData) (*model.Image, error)
	SoftDelete(ctx context.Context, id string) (*model.Image, error)
}

func NewImageHandler(svc ImageService) *ImageHandler {
	return &ImageHandler{
		service: svc,
	}
}

func (h ImageHandler) SimplePinger(ctx *ginext.Context) {
	ctx.JSON(200, map[string]string{"message": "pong"})
}

func (h ImageHandler) Create(ctx *ginext.Context) {
	title := ctx.PostForm("title")
	description := ctx.PostForm("description")

	imageFile, imageHeader, err := ctx.Request.FormFile("image")
	if err != nil {
		ctx.JSON(400, map[string]string{"error": "image is required"})
		return
	}
	defer closeFileFlow(imageFile)

	newImageRaw := model.ImageCreateData{
		Title:       title,
		Description: description,
		File:        imageFile,
		FileName:    imageHeader.Filename,
		ContentType: imageHeader.Header.Get("Content-Type"),
		Size:        imageHeader.Size,
	}

	res, err := h.service.Create(ctx.Request.Context(), &newImageRaw)
	if err != nil {
		ctx.JSON(errorCodeDefiner(err), map[string]string{"error": err.Error()})
		return
	}

	ctx.JSON(201, res)
}

func (h ImageHandler) GetAllImages(ctx *ginext.Context) {
	res, err := h.service.GetList(ctx.Request.Context())
	if err != nil {
		ctx.JSON(errorCodeDefiner(err), map[string]string{"error": err.Error()})
		return
	}

	ctx.JSON(200, res)
}

func (h ImageHandler) GetImage(ctx *ginext.Context) {
	id := ctx.Param("id")

	res, err := h.service.Get(ctx.Request.Context(), id)
	if err != nil {
		ctx.JSON(errorCodeDefiner(err), map[string]string{"error": err.Error()})
		return
	}

	ctx.JSON(200, res)
}

func (h ImageHandler) Update(ctx *ginext.Context) {
	id := ctx.Param("id")

	var upd model.ImageUpdateData
	if err := ctx.ShouldBindJSON(&upd); err != nil {
		ctx.JSON(400, map[string]string{"error": model.ErrIncorrectBody.Error()})
		return
	}

	res, err := h.service.Update(ctx.Request.Context(), id, &upd)
	if err != nil {
		ctx.JSON(errorCodeDefiner(err), map[string]string{"error": err.Error()})
		return
	}

	ctx.JSON(200, res)
}

func (h ImageHandler) Delete(ctx *ginext.Context) {
	id := ctx.Param("id")

	res, err := h.service.SoftDelete(ctx.Request.Context(), id)
	if err != nil {
		ctx.JSON(errorCodeDefiner(err), map[string]string{"error": err.Error()})
		return
	}

	ctx.JSON(200, map[string]any{"message": "image deleted", "image": res})
}
