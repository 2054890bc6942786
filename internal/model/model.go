// Package model provides data-structs for internal app-usage
package model

import (
	"errors"
	"mime/multipart"
	"time"
)

// Image is one gallery record. Binary content lives in object storage and is
// addressed by URL; only metadata is kept in the DB. DeletedAt marks the row
// soft-deleted: nil = visible, non-nil = hidden from get/list.
type Image struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	URL         string     `json:"url"`
	StorageKey  string     `json:"-"`
	FileName    string     `json:"-"`
	Width       *int       `json:"width,omitempty"`
	Height      *int       `json:"height,omitempty"`
	UploadedAt  time.Time  `json:"uploadedAt"`
	DeletedAt   *time.Time `json:"deletedAt"`
}

//-------------------

// ImageCreateData carries the parsed multipart form of a POST /gambar request.
type ImageCreateData struct {
	Title       string
	Description string
	File        multipart.File
	FileName    string
	ContentType string
	Size        int64
}

// ImageUpdateData carries the PUT /gambar/:id body. Nil field = keep stored value.
type ImageUpdateData struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

// ImageEvent is the lifecycle message published to the event topic.
type ImageEvent struct {
	ID     int64  `json:"id"`
	Action string `json:"action"`
	URL    string `json:"url"`
}

const (
	EventCreated = "created"
	EventDeleted = "deleted"
)

// ------------------

var (
	ErrCommon500     error = errors.New("something went wrong. Try again later") // 500
	ErrIncorrectID   error = errors.New("incorrect image id")                    // 400
	ErrImageNotFound error = errors.New("specified image id doesn't exist")      // 404
	ErrEmptyFile     error = errors.New("empty/incorrect image file provided")   // 400
	ErrIncorrectBody error = errors.New("incorrect request body")                // 400
)

//--------------------

const (
	JPEG = "image/jpeg"
	PNG  = "image/png"
	GIF  = "image/gif"
)

var GetImageFileExt = map[string]string{
	JPEG: ".jpg",
	PNG:  ".png",
	GIF:  ".gif",
}
