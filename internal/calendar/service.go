package calendar

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/churchflow/churchflow-backend/internal/auth"
	"github.com/churchflow/churchflow-backend/internal/availability"
	"github.com/churchflow/churchflow-backend/internal/blockout"
	"github.com/churchflow/churchflow-backend/internal/event"
	"github.com/churchflow/churchflow-backend/utils"
)

// BlockoutSource supplies team-wide blockouts overlapping a range.
// Satisfied by the blockout repository.
type BlockoutSource interface {
	ListAll(start, end *time.Time) ([]blockout.Blockout, error)
}

// EventSource supplies events inside a range. Satisfied by the event service.
type EventSource interface {
	List(start, end *time.Time) ([]event.Event, error)
}

// UserSource resolves user IDs to profiles for conflict display.
// Satisfied by the auth service.
type UserSource interface {
	GetUsersByIDs(userIDs []string) (map[string]auth.User, error)
}

// Snapshots is the cached per-day availability answer.
type Snapshots interface {
	Get(ctx context.Context, date time.Time) (availability.DateAvailability, error)
	Refresh(ctx context.Context, date time.Time, compute func() (availability.DateAvailability, error)) (availability.DateAvailability, error)
}

type Service interface {
	CheckDate(ctx context.Context, date time.Time) (*DateCheckResponse, error)
	MonthView(year int, month time.Month) (*MonthViewResponse, error)
}

type service struct {
	blockouts BlockoutSource
	events    EventSource
	users     UserSource
	snapshots Snapshots
}

func NewService(blockouts BlockoutSource, events EventSource, users UserSource, snapshots Snapshots) Service {
	return &service{
		blockouts: blockouts,
		events:    events,
		users:     users,
		snapshots: snapshots,
	}
}

// ===========================
// 🔍 Check Date Availability
//
// The answer is advisory: events can always be created on a blocked date,
// the caller just sees who it clashes with.
func (s *service) CheckDate(ctx context.Context, date time.Time) (*DateCheckResponse, error) {
	day := availability.Day(date)
	dayEnd := day.Add(24*time.Hour - time.Nanosecond)

	team, err := s.blockouts.ListAll(&day, &dayEnd)
	if err != nil {
		return nil, err
	}

	windows := make([]availability.Window, 0, len(team))
	for i := range team {
		windows = append(windows, team[i].Window())
	}

	answer, err := s.snapshot(ctx, day, windows)
	if err != nil {
		return nil, err
	}

	resp := &DateCheckResponse{
		Date:             day.Format(dateLayout),
		Available:        answer.Available,
		ConflictingUsers: []ConflictingUser{},
	}

	if len(answer.ConflictingUsers) == 0 {
		return resp, nil
	}

	profiles, err := s.users.GetUsersByIDs(answer.ConflictingUsers)
	if err != nil {
		return nil, err
	}

	covering := availability.WindowsCovering(windows, day)
	byUser := make(map[string][]blockout.Blockout)
	for _, w := range covering {
		for i := range team {
			if team[i].ID == w.ID {
				byUser[w.UserID] = append(byUser[w.UserID], team[i])
			}
		}
	}

	for _, userID := range answer.ConflictingUsers {
		cu := ConflictingUser{
			UserID:    userID,
			Blockouts: byUser[userID],
		}
		if u, ok := profiles[userID]; ok {
			cu.Name = strings.TrimSpace(u.FirstName + " " + u.LastName)
			cu.Email = u.Email
		}
		resp.ConflictingUsers = append(resp.ConflictingUsers, cu)
	}

	return resp, nil
}

// snapshot reads the cached day answer, recomputing from windows on a miss.
func (s *service) snapshot(ctx context.Context, day time.Time, windows []availability.Window) (availability.DateAvailability, error) {
	if s.snapshots == nil {
		return availability.ForDate(day, windows), nil
	}
	answer, err := s.snapshots.Get(ctx, day)
	if err == nil {
		return answer, nil
	}
	if !errors.Is(err, utils.ErrCacheMiss) {
		return availability.DateAvailability{}, err
	}
	return s.snapshots.Refresh(ctx, day, func() (availability.DateAvailability, error) {
		return availability.ForDate(day, windows), nil
	})
}

// ===========================
// 📅 Month View
func (s *service) MonthView(year int, month time.Month) (*MonthViewResponse, error) {
	grid := availability.MonthGrid(year, month)
	first, last := grid[0], grid[len(grid)-1]
	lastEnd := last.Add(24*time.Hour - time.Nanosecond)

	events, err := s.events.List(&first, &lastEnd)
	if err != nil {
		return nil, err
	}
	team, err := s.blockouts.ListAll(&first, &lastEnd)
	if err != nil {
		return nil, err
	}

	occurrences := make([]availability.Occurrence, 0, len(events))
	eventsByID := make(map[string]*event.Event, len(events))
	for i := range events {
		occurrences = append(occurrences, events[i].Occurrence())
		eventsByID[events[i].ID] = &events[i]
	}

	windows := make([]availability.Window, 0, len(team))
	blockoutsByID := make(map[string]*blockout.Blockout, len(team))
	for i := range team {
		windows = append(windows, team[i].Window())
		blockoutsByID[team[i].ID] = &team[i]
	}

	resp := &MonthViewResponse{
		Year:  year,
		Month: int(month),
		Days:  make([]DayCell, 0, len(grid)),
	}

	for _, day := range grid {
		cell := DayCell{
			Date:      day.Format(dateLayout),
			InMonth:   day.Month() == month,
			Events:    []event.Event{},
			Blockouts: []blockout.Blockout{},
		}

		for _, occ := range availability.EventsOn(occurrences, day) {
			cell.Events = append(cell.Events, *eventsByID[occ.ID])
		}
		for _, w := range availability.WindowsCovering(windows, day) {
			cell.Blockouts = append(cell.Blockouts, *blockoutsByID[w.ID])
		}
		cell.Available = len(cell.Blockouts) == 0

		resp.Days = append(resp.Days, cell)
	}

	return resp, nil
}
