package qrcode

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/Aayushshr101/digital-menu-backend/internal/logger"
	"github.com/Aayushshr101/digital-menu-backend/internal/models"
)

// MaxImageSize bounds an uploaded QR image.
const MaxImageSize = 5 << 20

// Store keeps the versioned QR records.
type Store interface {
	Activate(ctx context.Context, imageURL, publicID string) (*models.QRCode, error)
	Active(ctx context.Context) (*models.QRCode, error)
}

type Service struct {
	store  Store
	media  MediaStore
	logger *logger.Logger
}

func NewService(store Store, media MediaStore, log *logger.Logger) *Service {
	return &Service{store: store, media: media, logger: log}
}

var extensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
	"image/bmp":  ".bmp",
}

// Upload stores the image and makes it the active QR code.
func (s *Service) Upload(ctx context.Context, data []byte, requestID string) (*models.QRCode, error) {
	if len(data) == 0 {
		return nil, models.ValidationError{Field: "image", Message: "Please upload an image"}
	}
	if len(data) > MaxImageSize {
		return nil, models.ValidationError{Field: "image", Message: "image is too large"}
	}

	contentType := http.DetectContentType(data)
	ext, ok := extensions[contentType]
	if !ok || !strings.HasPrefix(contentType, "image/") {
		return nil, models.ValidationError{Field: "image", Message: "Please upload an image file"}
	}

	publicID, url, err := s.media.Save(ctx, data, ext)
	if err != nil {
		return nil, &models.PersistenceError{Op: "store qr image", Err: err}
	}

	qr, err := s.store.Activate(ctx, url, publicID)
	if err != nil {
		if rmErr := s.media.Remove(ctx, publicID); rmErr != nil {
			s.logger.Warn("qr_cleanup_failed", "Failed to remove orphaned image", requestID, map[string]interface{}{
				"public_id": publicID,
				"error":     rmErr.Error(),
			})
		}
		return nil, &models.PersistenceError{Op: "activate qr code", Err: err}
	}

	s.logger.Info("qr_code_uploaded", "Payment QR code updated", requestID, map[string]interface{}{
		"version":   qr.Version,
		"image_url": qr.ImageURL,
	})
	return qr, nil
}

// Active returns the current QR code, or a NotFoundError if none was uploaded.
func (s *Service) Active(ctx context.Context) (*models.QRCode, error) {
	qr, err := s.store.Active(ctx)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, &models.PersistenceError{Op: "get qr code", Err: err}
	}
	return qr, err
}
