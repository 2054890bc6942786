package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"testing"
	"time"

	"github.com/galeriseni/gambar/internal/model"
	"github.com/stretchr/testify/require"
	"github.com/wb-go/wbf/retry"
)

// CREATE - SUCCESS
func TestImageService_Create_OK(t *testing.T) {
	ctx := context.Background()

	uploaded := false
	storage := &mockStorage{
		uploadFn: func(ctx context.Context, key string, size int64, ct string, r io.Reader) (string, error) {
			uploaded = true
			require.Contains(t, key, "gambar/")
			return "http://storage/bucket/" + key, nil
		},
	}

	repo := &mockRepo{
		createFn: func(ctx context.Context, img *model.Image) error {
			require.NotEmpty(t, img.URL)
			require.NotEmpty(t, img.StorageKey)
			img.ID = 7
			img.UploadedAt = time.Now().UTC()
			return nil
		},
	}

	var published model.ImageEvent
	pub := &mockPublisher{
		sendFn: func(ctx context.Context, s retry.Strategy, key []byte, v []byte) error {
			require.NoError(t, json.Unmarshal(v, &published))
			return nil
		},
	}

	svc := NewImageService(repo, pub, storage)

	img, err := svc.Create(ctx, validCreateData())
	require.NoError(t, err)
	require.NotNil(t, img)
	require.True(t, uploaded)
	require.Equal(t, int64(7), img.ID)
	require.Equal(t, model.EventCreated, published.Action)
	require.Equal(t, int64(7), published.ID)
}

// CREATE - EMPTY FILE
func TestImageService_Create_EmptyFile(t *testing.T) {
	svc := NewImageService(nil, nil, nil)

	_, err := svc.Create(context.Background(), &model.ImageCreateData{})
	require.ErrorIs(t, err, model.ErrEmptyFile)
}

// CREATE - STORAGE UPLOAD FAIL
func TestImageService_Create_StorageError(t *testing.T) {
	storage := &mockStorage{
		uploadFn: func(ctx context.Context, key string, size int64, ct string, r io.Reader) (string, error) {
			return "", errors.New("storage is down")
		},
	}

	svc := NewImageService(&mockRepo{}, &mockPublisher{}, storage)

	_, err := svc.Create(context.Background(), validCreateData())
	require.ErrorIs(t, err, model.ErrCommon500)
}

// CREATE - DB INSERT FAIL AFTER UPLOAD: no compensation, object stays orphaned
func TestImageService_Create_InsertErrorLeavesOrphan(t *testing.T) {
	deleted := false
	storage := &mockStorage{
		uploadFn: func(ctx context.Context, key string, size int64, ct string, r io.Reader) (string, error) {
			return "http://storage/bucket/" + key, nil
		},
		deleteFn: func(ctx context.Context, key string) error {
			deleted = true
			return nil
		},
	}

	repo := &mockRepo{
		createFn: func(ctx context.Context, img *model.Image) error {
			return errors.New("db down")
		},
	}

	svc := NewImageService(repo, &mockPublisher{}, storage)

	_, err := svc.Create(context.Background(), validCreateData())
	require.ErrorIs(t, err, model.ErrCommon500)
	require.False(t, deleted)
}

// CREATE - PUBLISH FAIL IS NOT FATAL
func TestImageService_Create_PublishErrorIgnored(t *testing.T) {
	storage := &mockStorage{
		uploadFn: func(ctx context.Context, key string, size int64, ct string, r io.Reader) (string, error) {
			return "http://storage/bucket/" + key, nil
		},
	}
	repo := &mockRepo{
		createFn: func(ctx context.Context, img *model.Image) error {
			return nil
		},
	}
	pub := &mockPublisher{
		sendFn: func(ctx context.Context, s retry.Strategy, key []byte, v []byte) error {
			return errors.New("broker is down")
		},
	}

	svc := NewImageService(repo, pub, storage)

	img, err := svc.Create(context.Background(), validCreateData())
	require.NoError(t, err)
	require.NotNil(t, img)
}

// CREATE - DIMENSIONS PROBED FROM REAL IMAGE
func TestImageService_Create_Dimensions(t *testing.T) {
	storage := &mockStorage{
		uploadFn: func(ctx context.Context, key string, size int64, ct string, r io.Reader) (string, error) {
			return "http://storage/bucket/" + key, nil
		},
	}
	repo := &mockRepo{
		createFn: func(ctx context.Context, img *model.Image) error {
			return nil
		},
	}
	pub := &mockPublisher{
		sendFn: func(ctx context.Context, s retry.Strategy, key []byte, v []byte) error {
			return nil
		},
	}

	svc := NewImageService(repo, pub, storage)

	payload := encodePNG(t, 12, 8)
	data := &model.ImageCreateData{
		Title:       "Dimensions",
		File:        newFakeFile(payload),
		FileName:    "dim.png",
		ContentType: model.PNG,
		Size:        int64(len(payload)),
	}

	img, err := svc.Create(context.Background(), data)
	require.NoError(t, err)
	require.NotNil(t, img.Width)
	require.NotNil(t, img.Height)
	require.Equal(t, 12, *img.Width)
	require.Equal(t, 8, *img.Height)
}

// GETLIST - SUCCESS
func TestImageService_GetList_OK(t *testing.T) {
	repo := &mockRepo{
		getListFn: func(ctx context.Context) ([]model.Image, error) {
			return []model.Image{{ID: 1}, {ID: 2}}, nil
		},
	}

	svc := NewImageService(repo, nil, nil)

	res, err := svc.GetList(context.Background())
	require.NoError(t, err)
	require.Len(t, res, 2)
}

// GETLIST - DB FAIL
func TestImageService_GetList_DBError(t *testing.T) {
	repo := &mockRepo{
		getListFn: func(ctx context.Context) ([]model.Image, error) {
			return nil, errors.New("db down")
		},
	}

	svc := NewImageService(repo, nil, nil)

	_, err := svc.GetList(context.Background())
	require.ErrorIs(t, err, model.ErrCommon500)
}

// GET - SUCCESS
func TestImageService_Get_OK(t *testing.T) {
	repo := &mockRepo{
		getFn: func(ctx context.Context, id int64) (*model.Image, error) {
			require.Equal(t, int64(5), id)
			return &model.Image{ID: id}, nil
		},
	}

	svc := NewImageService(repo, nil, nil)

	img, err := svc.Get(context.Background(), "5")
	require.NoError(t, err)
	require.Equal(t, int64(5), img.ID)
}

// GET - BAD ID
func TestImageService_Get_InvalidID(t *testing.T) {
	svc := NewImageService(nil, nil, nil)

	_, err := svc.Get(context.Background(), "bad-id")
	require.ErrorIs(t, err, model.ErrIncorrectID)

	_, err = svc.Get(context.Background(), "-3")
	require.ErrorIs(t, err, model.ErrIncorrectID)
}

// GET - NOT FOUND (absent and soft-deleted look the same)
func TestImageService_Get_NotFound(t *testing.T) {
	repo := &mockRepo{
		getFn: func(ctx context.Context, id int64) (*model.Image, error) {
			return nil, model.ErrImageNotFound
		},
	}

	svc := NewImageService(repo, nil, nil)

	_, err := svc.Get(context.Background(), "9000")
	require.ErrorIs(t, err, model.ErrImageNotFound)
}

// UPDATE - SUCCESS
func TestImageService_Update_OK(t *testing.T) {
	title := "New title"

	repo := &mockRepo{
		updateFn: func(ctx context.Context, id int64, upd *model.ImageUpdateData) (*model.Image, error) {
			require.Equal(t, int64(1), id)
			require.Equal(t, &title, upd.Title)
			return &model.Image{ID: id, Title: *upd.Title}, nil
		},
	}

	svc := NewImageService(repo, nil, nil)

	img, err := svc.Update(context.Background(), "1", &model.ImageUpdateData{Title: &title})
	require.NoError(t, err)
	require.Equal(t, title, img.Title)
}

// UPDATE - NOT FOUND
func TestImageService_Update_NotFound(t *testing.T) {
	repo := &mockRepo{
		updateFn: func(ctx context.Context, id int64, upd *model.ImageUpdateData) (*model.Image, error) {
			return nil, model.ErrImageNotFound
		},
	}

	svc := NewImageService(repo, nil, nil)

	_, err := svc.Update(context.Background(), "1", &model.ImageUpdateData{})
	require.ErrorIs(t, err, model.ErrImageNotFound)
}

// SOFTDELETE - SUCCESS + EVENT
func TestImageService_SoftDelete_OK(t *testing.T) {
	now := time.Now().UTC()

	repo := &mockRepo{
		softDeleteFn: func(ctx context.Context, id int64) (*model.Image, error) {
			return &model.Image{ID: id, DeletedAt: &now}, nil
		},
	}

	var published model.ImageEvent
	pub := &mockPublisher{
		sendFn: func(ctx context.Context, s retry.Strategy, key []byte, v []byte) error {
			require.NoError(t, json.Unmarshal(v, &published))
			return nil
		},
	}

	svc := NewImageService(repo, pub, nil)

	img, err := svc.SoftDelete(context.Background(), "3")
	require.NoError(t, err)
	require.NotNil(t, img.DeletedAt)
	require.Equal(t, model.EventDeleted, published.Action)
}

// SOFTDELETE - NOT FOUND
func TestImageService_SoftDelete_NotFound(t *testing.T) {
	repo := &mockRepo{
		softDeleteFn: func(ctx context.Context, id int64) (*model.Image, error) {
			return nil, model.ErrImageNotFound
		},
	}

	svc := NewImageService(repo, &mockPublisher{}, nil)

	_, err := svc.SoftDelete(context.Background(), "3")
	require.ErrorIs(t, err, model.ErrImageNotFound)
}

// SWEEPORPHANS - REMOVES ONLY UNREFERENCED KEYS
func TestImageService_SweepOrphans(t *testing.T) {
	var removed []string

	storage := &mockStorage{
		listKeysFn: func(ctx context.Context, prefix string, cutoff time.Time) ([]string, error) {
			require.Equal(t, "gambar/", prefix)
			return []string{"gambar/kept.jpg", "gambar/orphan.jpg"}, nil
		},
		deleteFn: func(ctx context.Context, key string) error {
			removed = append(removed, key)
			return nil
		},
	}

	repo := &mockRepo{
		keyExistsFn: func(ctx context.Context, key string) (bool, error) {
			return key == "gambar/kept.jpg", nil
		},
	}

	svc := NewImageService(repo, nil, storage)
	svc.SweepOrphans(context.Background(), 30*time.Minute)

	require.Equal(t, []string{"gambar/orphan.jpg"}, removed)
}

// helper: fake multipart-file over raw bytes
func newFakeFile(content []byte) multipart.File {
	return &fakeMultipartFile{
		Reader: bytes.NewReader(content),
	}
}

// helper: valid ImageCreateData with a non-image payload
func validCreateData() *model.ImageCreateData {
	content := []byte("image-bytes")

	return &model.ImageCreateData{
		Title:       "Sunset",
		Description: "Over the bay",
		File:        newFakeFile(content),
		FileName:    "sunset.jpg",
		ContentType: model.JPEG,
		Size:        int64(len(content)),
	}
}

// helper: real PNG payload of the given size
func encodePNG(t *testing.T, w, h int) []byte {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}
