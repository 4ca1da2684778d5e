package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/eulark/eulark-site/models"
	"github.com/eulark/eulark-site/repositories"
	"github.com/eulark/eulark-site/storage"
)

const sponsorLogoPrefix = "sponsors"

var ErrLogoStorageDisabled = errors.New("logo storage is not configured")

type SponsorService struct {
	*ContentService[models.Sponsor, *models.Sponsor]
	repo     repositories.SponsorRepository
	uploader storage.FileUploader
	logger   *slog.Logger
}

// NewSponsorService wires logo URLs into every returned sponsor. uploader may be nil.
func NewSponsorService(repo repositories.SponsorRepository, uploader storage.FileUploader, logger *slog.Logger) *SponsorService {
	s := &SponsorService{
		ContentService: NewContentService[models.Sponsor, *models.Sponsor](repo),
		repo:           repo,
		uploader:       uploader,
		logger:         logger,
	}
	s.ContentService.decorate = s.populateLogoURL
	return s
}

func (s *SponsorService) populateLogoURL(sponsor *models.Sponsor) {
	sponsor.LogoURL = nil
	if sponsor.LogoKey == nil || *sponsor.LogoKey == "" || s.uploader == nil {
		return
	}
	if u := s.uploader.GetPublicURL(*sponsor.LogoKey); u != "" {
		sponsor.LogoURL = &u
	}
}

// UploadLogo stores a new logo, points the sponsor at it and removes the old object.
func (s *SponsorService) UploadLogo(ctx context.Context, id int, contentType string, file io.Reader) (*models.Sponsor, error) {
	if s.uploader == nil {
		return nil, ErrLogoStorageDisabled
	}
	ext, err := storage.ExtensionForContentType(contentType)
	if err != nil {
		return nil, validationError(err.Error())
	}

	sponsor, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	oldKey := sponsor.LogoKey

	key := storage.ObjectKey(sponsorLogoPrefix, id, ext)
	if _, err := s.uploader.Upload(ctx, key, contentType, file); err != nil {
		return nil, fmt.Errorf("failed to upload sponsor logo: %w", err)
	}

	if err := s.repo.SetLogo(ctx, id, &key); err != nil {
		if delErr := s.uploader.Delete(ctx, key); delErr != nil {
			s.logger.WarnContext(ctx, "Failed to remove orphaned logo", slog.String("key", key), slog.Any("error", delErr))
		}
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to save sponsor logo: %w", err)
	}

	if oldKey != nil && *oldKey != "" {
		if err := s.uploader.Delete(ctx, *oldKey); err != nil {
			s.logger.WarnContext(ctx, "Failed to delete previous sponsor logo", slog.String("key", *oldKey), slog.Any("error", err))
		}
	}

	sponsor.LogoKey = &key
	s.populateLogoURL(sponsor)
	return sponsor, nil
}

// Delete removes the sponsor and then its logo object.
func (s *SponsorService) Delete(ctx context.Context, id int) error {
	sponsor, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.ContentService.Delete(ctx, id); err != nil {
		return err
	}
	if sponsor.LogoKey != nil && *sponsor.LogoKey != "" && s.uploader != nil {
		if err := s.uploader.Delete(ctx, *sponsor.LogoKey); err != nil {
			s.logger.WarnContext(ctx, "Failed to delete sponsor logo", slog.String("key", *sponsor.LogoKey), slog.Any("error", err))
		}
	}
	return nil
}
