package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Skotchmaster/sucrestore/internal/logging"
	"github.com/Skotchmaster/sucrestore/internal/models"
	"github.com/Skotchmaster/sucrestore/internal/repo"
	"github.com/Skotchmaster/sucrestore/internal/transport"
)

// FileStore persists uploaded images and returns their public URL.
type FileStore interface {
	Save(original string, r io.Reader) (string, error)
	Delete(publicURL string) error
}

// PublicSettingKeys are the keys anonymous clients may read.
var PublicSettingKeys = []string{
	"contact_phone",
	"contact_email",
	"contact_address",
	"social_facebook",
	"social_instagram",
	"footer_copyright",
	SettingWhatsAppNumber,
	SettingStoreName,
}

type ContentService struct {
	Repo    *repo.GormRepo
	Storage FileStore
}

func (s *ContentService) ListSliders(ctx context.Context, onlyActive bool) ([]models.SliderImage, error) {
	return s.Repo.ListSliders(ctx, onlyActive)
}

// Upload stores a file and returns its public URL.
func (s *ContentService) Upload(ctx context.Context, name string, r io.Reader) (string, error) {
	url, err := s.Storage.Save(name, r)
	if err != nil {
		logging.FromContext(ctx).Warn("upload_failed", "svc", "content.upload", "name", name, "error", err)
		return "", fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return url, nil
}

func (s *ContentService) CreateSlider(ctx context.Context, req transport.SliderRequest) (*models.SliderImage, error) {
	if strings.TrimSpace(req.ImageURL) == "" {
		return nil, fmt.Errorf("%w: image required", ErrValidation)
	}
	img := &models.SliderImage{
		Title:        req.Title,
		Description:  req.Description,
		ImageURL:     req.ImageURL,
		DisplayOrder: req.DisplayOrder,
		Active:       req.Active == nil || *req.Active,
	}
	if err := s.Repo.CreateSlider(ctx, img); err != nil {
		return nil, err
	}
	return img, nil
}

func (s *ContentService) UpdateSlider(ctx context.Context, id uint, req transport.PatchSliderRequest) (*models.SliderImage, error) {
	img, err := s.Repo.GetSlider(ctx, id)
	if err != nil {
		return nil, notFound(err, "slider image")
	}
	if req.Title != nil {
		img.Title = *req.Title
	}
	if req.Description != nil {
		img.Description = *req.Description
	}
	if req.ImageURL != nil && strings.TrimSpace(*req.ImageURL) != "" && *req.ImageURL != img.ImageURL {
		s.removeFile(ctx, img.ImageURL)
		img.ImageURL = *req.ImageURL
	}
	if req.DisplayOrder != nil {
		img.DisplayOrder = *req.DisplayOrder
	}
	if req.Active != nil {
		img.Active = *req.Active
	}
	if err := s.Repo.SaveSlider(ctx, img); err != nil {
		return nil, err
	}
	return img, nil
}

func (s *ContentService) ToggleSlider(ctx context.Context, id uint) (*models.SliderImage, error) {
	img, err := s.Repo.GetSlider(ctx, id)
	if err != nil {
		return nil, notFound(err, "slider image")
	}
	img.Active = !img.Active
	if err := s.Repo.SaveSlider(ctx, img); err != nil {
		return nil, err
	}
	return img, nil
}

func (s *ContentService) DeleteSlider(ctx context.Context, id uint) error {
	img, err := s.Repo.GetSlider(ctx, id)
	if err != nil {
		return notFound(err, "slider image")
	}
	if err := s.Repo.DeleteSlider(ctx, id); err != nil {
		return notFound(err, "slider image")
	}
	s.removeFile(ctx, img.ImageURL)
	return nil
}

// removeFile deletes a stored upload; external URLs are left alone.
func (s *ContentService) removeFile(ctx context.Context, url string) {
	if s.Storage == nil || url == "" {
		return
	}
	if err := s.Storage.Delete(url); err != nil {
		logging.FromContext(ctx).Warn("delete_file_failed", "url", url, "error", err)
	}
}

func (s *ContentService) PublicSettings(ctx context.Context) (map[string]string, error) {
	all, err := s.Settings(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(PublicSettingKeys))
	for _, k := range PublicSettingKeys {
		if v, ok := all[k]; ok {
			out[k] = v
		}
	}
	return out, nil
}

func (s *ContentService) Settings(ctx context.Context) (map[string]string, error) {
	items, err := s.Repo.ListSettings(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(items))
	for _, it := range items {
		out[it.Key] = it.Value
	}
	return out, nil
}

func (s *ContentService) UpdateSettings(ctx context.Context, values map[string]string) (map[string]string, error) {
	for k := range values {
		if strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("%w: empty setting key", ErrValidation)
		}
	}
	if err := s.Repo.UpsertSettings(ctx, values); err != nil {
		return nil, err
	}
	return s.Settings(ctx)
}
