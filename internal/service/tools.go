package service

import (
	"bytes"
	"path/filepath"
	"strconv"

	"github.com/disintegration/imaging"
	"github.com/galeriseni/gambar/internal/model"
	"github.com/google/uuid"
)

func parseID(id string) (int64, error) {
	numID, err := strconv.ParseInt(id, 10, 64)
	if err != nil || numID <= 0 {
		return 0, model.ErrIncorrectID
	}
	return numID, nil
}

// objectName builds a collision-free storage name: uuid plus the original
// extension (falling back to one derived from the content-type).
func objectName(data *model.ImageCreateData) string {
	ext := filepath.Ext(data.FileName)
	if ext == "" {
		ext = model.GetImageFileExt[data.ContentType]
	}
	return uuid.New().String() + ext
}

// probeDimensions fills width/height when the payload decodes as an image.
// Anything undecodable is still accepted - dimensions just stay unknown.
func probeDimensions(payload []byte, img *model.Image) {
	decoded, err := imaging.Decode(bytes.NewReader(payload))
	if err != nil {
		return
	}
	bounds := decoded.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	img.Width = &w
	img.Height = &h
}
