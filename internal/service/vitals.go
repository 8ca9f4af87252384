package service

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/atinyakov/VitalsKeeper/internal/models"
)

// VitalsRepository defines the persistence operations needed by the VitalsService.
type VitalsRepository interface {
	// Insert appends a reading, assigning its id and creation time.
	Insert(ctx context.Context, ownerID string, fields models.VitalFields) (*models.Reading, error)
	// ListByOwner returns the owner's readings in ascending creation order.
	ListByOwner(ctx context.Context, ownerID string) ([]models.Reading, error)
}

// VitalsService implements submission and owner-scoped retrieval of readings.
type VitalsService struct {
	// repo is the underlying persistence repository.
	repo VitalsRepository
	now  func() time.Time
}

// NewVitalsService constructs a VitalsService with the provided VitalsRepository.
func NewVitalsService(repo VitalsRepository) *VitalsService {
	return &VitalsService{repo: repo, now: time.Now}
}

// WithClock returns a copy of the service that uses now for range filtering.
func (s *VitalsService) WithClock(now func() time.Time) *VitalsService {
	cp := *s
	cp.now = now
	return &cp
}

// Submit stores a reading for ownerID. Values are stored as given; no range
// checks are applied.
func (s *VitalsService) Submit(ctx context.Context, ownerID string, fields models.VitalFields) (*models.Reading, error) {
	rd, err := s.repo.Insert(ctx, ownerID, fields)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return rd, nil
}

// List returns the readings owned by ownerID in ascending time order.
// A positive window keeps only readings created within [now-window, now].
// The result is never nil.
func (s *VitalsService) List(ctx context.Context, ownerID string, window time.Duration) ([]models.Reading, error) {
	all, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	out := make([]models.Reading, 0, len(all))
	if window <= 0 {
		for _, rd := range all {
			if rd.OwnerID == ownerID {
				out = append(out, rd)
			}
		}
		return out, nil
	}

	now := s.now()
	from := now.Add(-window)
	for _, rd := range all {
		if rd.OwnerID != ownerID {
			continue
		}
		if rd.CreatedAt.Before(from) || rd.CreatedAt.After(now) {
			continue
		}
		out = append(out, rd)
	}
	return out, nil
}

const day = 24 * time.Hour

// maxWindowDays is the largest day count a time.Duration can hold.
const maxWindowDays = math.MaxInt64 / int64(day)

// ParseWindow parses a range filter such as "24h", "90m" or "7d".
// An empty string means no filter and yields 0.
func ParseWindow(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}

	var (
		d   time.Duration
		err error
	)
	if days, ok := strings.CutSuffix(raw, "d"); ok {
		var n int64
		n, err = strconv.ParseInt(days, 10, 64)
		if err == nil && n > maxWindowDays {
			return 0, fmt.Errorf("%w: range %q too large", ErrValidation, raw)
		}
		d = time.Duration(n) * day
	} else {
		d, err = time.ParseDuration(raw)
	}
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%w: invalid range %q", ErrValidation, raw)
	}
	return d, nil
}
