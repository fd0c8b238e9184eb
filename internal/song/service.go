package song

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"gorm.io/gorm"

	"github.com/churchflow/churchflow-backend/internal/auditlog"
	"github.com/churchflow/churchflow-backend/middleware"
)

var (
	ErrNotFound   = errors.New("song not found")
	ErrForbidden  = errors.New("admin role required")
	ErrValidation = errors.New("validation failed")
)

type Service interface {
	Create(ctx context.Context, req *CreateSongRequest, ac middleware.AccessContext, ip string) (*Song, error)
	Update(ctx context.Context, id string, req *UpdateSongRequest, ac middleware.AccessContext, ip string) (*Song, error)
	Delete(ctx context.Context, id string, ac middleware.AccessContext, ip string) error
	List(search string) ([]Song, error)
	GetByID(id string) (*Song, error)
}

type service struct {
	repo     Repository
	auditSvc auditlog.Service
}

func NewService(r Repository, auditSvc auditlog.Service) Service {
	return &service{repo: r, auditSvc: auditSvc}
}

// ===========================
// Create (admin only)
// ===========================

func (s *service) Create(ctx context.Context, req *CreateSongRequest, ac middleware.AccessContext, ip string) (*Song, error) {
	if !ac.IsAdmin() {
		s.audit(ctx, ac, "SONG_CREATED", map[string]interface{}{
			"title": req.Title,
			"error": "admin role required",
		}, ip, "failure")
		return nil, ErrForbidden
	}

	if err := validateKey(req.Key); err != nil {
		return nil, err
	}
	if err := validateYoutubeURL(req.YoutubeURL); err != nil {
		return nil, err
	}

	song := &Song{
		Title:      req.Title,
		Artist:     req.Artist,
		Key:        req.Key,
		YoutubeURL: req.YoutubeURL,
		CreatedBy:  ac.UserID,
	}

	if err := s.repo.Create(song); err != nil {
		s.audit(ctx, ac, "SONG_CREATED", map[string]interface{}{
			"title": req.Title,
			"error": err.Error(),
		}, ip, "failure")
		return nil, err
	}

	s.audit(ctx, ac, "SONG_CREATED", map[string]interface{}{
		"song_id": song.ID,
		"title":   song.Title,
		"key":     song.Key,
	}, ip, "success")

	return song, nil
}

// ===========================
// Update (admin only, partial)
// ===========================

func (s *service) Update(ctx context.Context, id string, req *UpdateSongRequest, ac middleware.AccessContext, ip string) (*Song, error) {
	if !ac.IsAdmin() {
		return nil, ErrForbidden
	}

	song, err := s.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if req.Title != nil {
		if *req.Title == "" {
			return nil, fmt.Errorf("%w: title is required", ErrValidation)
		}
		song.Title = *req.Title
	}
	if req.Artist != nil {
		song.Artist = *req.Artist
	}
	if req.Key != nil {
		if err := validateKey(*req.Key); err != nil {
			return nil, err
		}
		song.Key = *req.Key
	}
	if req.YoutubeURL != nil {
		if err := validateYoutubeURL(*req.YoutubeURL); err != nil {
			return nil, err
		}
		song.YoutubeURL = *req.YoutubeURL
	}

	if err := s.repo.Update(song); err != nil {
		return nil, err
	}

	s.audit(ctx, ac, "SONG_UPDATED", map[string]interface{}{
		"song_id": song.ID,
		"title":   song.Title,
	}, ip, "success")

	return song, nil
}

// ===========================
// Delete (admin only)
// ===========================

func (s *service) Delete(ctx context.Context, id string, ac middleware.AccessContext, ip string) error {
	if !ac.IsAdmin() {
		s.audit(ctx, ac, "SONG_DELETED", map[string]interface{}{
			"song_id": id,
			"error":   "admin role required",
		}, ip, "failure")
		return ErrForbidden
	}

	song, err := s.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if err := s.repo.Delete(id); err != nil {
		return err
	}

	s.audit(ctx, ac, "SONG_DELETED", map[string]interface{}{
		"song_id": id,
		"title":   song.Title,
	}, ip, "success")

	return nil
}

func (s *service) List(search string) ([]Song, error) {
	return s.repo.List(search)
}

func (s *service) GetByID(id string) (*Song, error) {
	song, err := s.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return song, nil
}

// ===========================
// Helpers
// ===========================

func validateKey(key string) error {
	if !IsValidKey(key) {
		return fmt.Errorf("%w: key must be one of the 12 pitch classes", ErrValidation)
	}
	return nil
}

func validateYoutubeURL(raw string) error {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: youtubeUrl must be an absolute http(s) URL", ErrValidation)
	}
	return nil
}

func (s *service) audit(ctx context.Context, ac middleware.AccessContext, action string, details map[string]interface{}, ip, status string) {
	if s.auditSvc == nil {
		return
	}
	userID := ac.UserID
	_ = s.auditSvc.LogAction(ctx, &userID, action, details, ip, status)
}
