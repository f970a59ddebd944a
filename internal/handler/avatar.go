package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-booking-api/internal/metrics"
	"github.com/iliyamo/hotel-booking-api/internal/repository"
	"github.com/iliyamo/hotel-booking-api/internal/storage"
)

// UploadHandler stores avatar images and serves them back.
type UploadHandler struct {
	Users    *repository.UserRepo
	Store    *storage.AvatarStore
	MaxBytes int64
	Metrics  *metrics.Metrics
}

func NewUploadHandler(users *repository.UserRepo, store *storage.AvatarStore, maxBytes int64, m *metrics.Metrics) *UploadHandler {
	return &UploadHandler{Users: users, Store: store, MaxBytes: maxBytes, Metrics: m}
}

// UploadAvatar accepts one image in the multipart field "upload", stores it
// under a random name and points the caller's avatarurl at it.  The previous
// avatar file is left in place.
func (h *UploadHandler) UploadAvatar(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return unauthenticated(c)
	}

	fh, err := c.FormFile("upload")
	if err != nil {
		if bodyTooLarge(err) {
			return message(c, http.StatusRequestEntityTooLarge, "File too large")
		}
		return message(c, http.StatusBadRequest, "No file uploaded")
	}
	if h.MaxBytes > 0 && fh.Size > h.MaxBytes {
		return message(c, http.StatusRequestEntityTooLarge, "File too large")
	}
	if !strings.HasPrefix(strings.ToLower(fh.Header.Get(echo.HeaderContentType)), "image/") {
		return message(c, http.StatusBadRequest, "Only image files are allowed")
	}

	src, err := fh.Open()
	if err != nil {
		return internalError(c, "open upload failed", err)
	}
	defer src.Close()

	name, err := h.Store.Save(src, fh.Filename)
	if err != nil {
		return internalError(c, "store avatar failed", err)
	}
	url := c.Scheme() + "://" + c.Request().Host + "/images/" + name

	ctx, cancel := dbContext(c)
	defer cancel()
	if err := h.Users.Update(ctx, uid, repository.UserUpdate{AvatarURL: &url}); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return message(c, http.StatusNotFound, "User not found")
		}
		return internalError(c, "save avatar url failed", err)
	}
	if h.Metrics != nil {
		h.Metrics.AvatarUploads.Inc()
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message":      "Avatar uploaded successfully",
		"avatarUrl":    url,
		"filename":     name,
		"originalName": fh.Filename,
	})
}

// bodyTooLarge reports whether reading the request body hit a size limit,
// either net/http's MaxBytesReader or Echo's BodyLimit on a chunked body.
func bodyTooLarge(err error) bool {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return true
	}
	var he *echo.HTTPError
	return errors.As(err, &he) && he.Code == http.StatusRequestEntityTooLarge
}

// ServeImage streams a stored image by file name.
func (h *UploadHandler) ServeImage(c echo.Context) error {
	p, err := h.Store.Path(c.Param("filename"))
	if err != nil {
		return message(c, http.StatusNotFound, "Image not found")
	}
	return c.File(p)
}
