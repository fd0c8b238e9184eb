package event

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/churchflow/churchflow-backend/internal/auditlog"
	"github.com/churchflow/churchflow-backend/internal/song"
	"github.com/churchflow/churchflow-backend/middleware"
)

var (
	ErrNotFound   = errors.New("event not found")
	ErrForbidden  = errors.New("forbidden")
	ErrValidation = errors.New("validation failed")
)

// SongFinder resolves song IDs before they are attached to an event.
type SongFinder interface {
	GetByID(id string) (*song.Song, error)
}

type Service interface {
	Create(ctx context.Context, req *CreateEventRequest, ac middleware.AccessContext, ip string) (*Event, error)
	List(start, end *time.Time) ([]Event, error)
	GetByID(id string) (*Event, error)
	AttachSongs(ctx context.Context, eventID string, songIDs []string, ac middleware.AccessContext, ip string) (*AttachSongsResponse, error)
	DetachSong(ctx context.Context, eventID, songID string, ac middleware.AccessContext, ip string) error
	GetStats() (*EventStatsResponse, error)
}

type service struct {
	repo     Repository
	songs    SongFinder
	auditSvc auditlog.Service
	now      func() time.Time
}

func NewService(repo Repository, songs SongFinder, auditSvc auditlog.Service) Service {
	return &service{
		repo:     repo,
		songs:    songs,
		auditSvc: auditSvc,
		now:      time.Now,
	}
}

// ===========================
// 🎯 Create Event
func (s *service) Create(ctx context.Context, req *CreateEventRequest, ac middleware.AccessContext, ip string) (*Event, error) {
	if !ac.IsAdmin() {
		s.audit(ctx, ac, "EVENT_CREATED", map[string]interface{}{
			"title": req.Title,
			"error": "admin role required",
		}, ip, "failure")
		return nil, ErrForbidden
	}

	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}

	date, err := parseEventDate(req.Date)
	if err != nil {
		return nil, err
	}

	e := &Event{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Date:        date,
		Location:    req.Location,
		CreatedBy:   ac.UserID,
	}
	if err := s.repo.Create(e); err != nil {
		return nil, err
	}

	s.audit(ctx, ac, "EVENT_CREATED", map[string]interface{}{
		"event_id": e.ID,
		"title":    e.Title,
		"date":     e.Date.Format(time.RFC3339),
	}, ip, "success")

	return e, nil
}

// ===========================
// 📋 List Events
func (s *service) List(start, end *time.Time) ([]Event, error) {
	return s.repo.List(start, end)
}

// ===========================
// 🔍 Get Event with its song list
func (s *service) GetByID(id string) (*Event, error) {
	e, err := s.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

// ===========================
// ➕ Attach Songs
//
// Songs are attached one at a time. A song that fails validation is
// reported in the response and skipped; earlier and later songs keep
// their assignments.
func (s *service) AttachSongs(ctx context.Context, eventID string, songIDs []string, ac middleware.AccessContext, ip string) (*AttachSongsResponse, error) {
	if !ac.IsAdmin() {
		return nil, ErrForbidden
	}

	if _, err := s.repo.FindByID(eventID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	resp := &AttachSongsResponse{Attached: []string{}}
	for _, songID := range songIDs {
		if err := s.attachOne(eventID, songID); err != nil {
			if resp.Failed == nil {
				resp.Failed = make(map[string]string)
			}
			resp.Failed[songID] = err.Error()
			continue
		}
		resp.Attached = append(resp.Attached, songID)
	}

	s.audit(ctx, ac, "EVENT_SONGS_ATTACHED", map[string]interface{}{
		"event_id": eventID,
		"attached": resp.Attached,
		"failed":   len(resp.Failed),
	}, ip, "success")

	return resp, nil
}

func (s *service) attachOne(eventID, songID string) error {
	if _, err := s.songs.GetByID(songID); err != nil {
		if errors.Is(err, song.ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: song %s not found", ErrValidation, songID)
		}
		return err
	}

	if _, err := s.repo.FindAssignment(eventID, songID); err == nil {
		return fmt.Errorf("%w: song %s already attached", ErrValidation, songID)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	order, err := s.repo.NextOrder(eventID)
	if err != nil {
		return err
	}

	return s.repo.AttachSong(&EventSong{
		EventID: eventID,
		SongID:  songID,
		Order:   order,
	})
}

// ===========================
// ➖ Detach Song
func (s *service) DetachSong(ctx context.Context, eventID, songID string, ac middleware.AccessContext, ip string) error {
	if !ac.IsAdmin() {
		return ErrForbidden
	}

	if err := s.repo.DetachSong(eventID, songID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	s.audit(ctx, ac, "EVENT_SONG_DETACHED", map[string]interface{}{
		"event_id": eventID,
		"song_id":  songID,
	}, ip, "success")

	return nil
}

// ===========================
// 📊 Event Stats
func (s *service) GetStats() (*EventStatsResponse, error) {
	now := s.now()

	total, err := s.repo.CountEvents()
	if err != nil {
		return nil, err
	}
	upcoming, err := s.repo.CountEventsSince(now)
	if err != nil {
		return nil, err
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthEnd := monthStart.AddDate(0, 1, 0)
	thisMonth, err := s.repo.CountEventsBetween(monthStart, monthEnd)
	if err != nil {
		return nil, err
	}

	assignments, err := s.repo.CountAssignments()
	if err != nil {
		return nil, err
	}

	return &EventStatsResponse{
		TotalEvents:     total,
		UpcomingEvents:  upcoming,
		ThisMonthEvents: thisMonth,
		SongAssignments: assignments,
	}, nil
}

// parseEventDate accepts RFC3339 or a local date-time without zone.
func parseEventDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02T15:04", raw); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: invalid date %q", ErrValidation, raw)
}

func (s *service) audit(ctx context.Context, ac middleware.AccessContext, action string, details map[string]interface{}, ip, status string) {
	if s.auditSvc == nil {
		return
	}
	userID := ac.UserID
	_ = s.auditSvc.LogAction(ctx, &userID, action, details, ip, status)
}
