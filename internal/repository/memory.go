package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/atinyakov/VitalsKeeper/internal/models"
	"github.com/google/uuid"
)

// MemoryUserRepository keeps users in process memory. It backs the server
// when no database is configured; nothing survives a restart.
type MemoryUserRepository struct {
	mu      sync.RWMutex
	byEmail map[string]*models.User
	byID    map[string]*models.User
	// Now returns the current time; used for CreatedAt.
	Now func() time.Time
}

// NewMemoryUserRepository returns an empty in-memory user store.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		byEmail: make(map[string]*models.User),
		byID:    make(map[string]*models.User),
		Now:     time.Now,
	}
}

// Create stores a new user, failing with ErrUserAlreadyExists on a taken email.
func (r *MemoryUserRepository) Create(_ context.Context, name, email string, passwordHash []byte) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[email]; ok {
		return nil, ErrUserAlreadyExists
	}
	u := &models.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: append([]byte(nil), passwordHash...),
		CreatedAt:    r.Now().UTC(),
	}
	r.byEmail[email] = u
	r.byID[u.ID] = u

	cp := *u
	return &cp, nil
}

// FindByEmail returns a copy of the user with email, or ErrUserNotFound.
func (r *MemoryUserRepository) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byEmail[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

// FindByID returns a copy of the user with id, or ErrUserNotFound.
func (r *MemoryUserRepository) FindByID(_ context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

// MemoryVitalsRepository is an append-only in-memory vitals store indexed by owner.
type MemoryVitalsRepository struct {
	mu      sync.RWMutex
	byOwner map[string][]models.Reading
	// Now returns the current time; used to stamp new readings.
	Now func() time.Time
}

// NewMemoryVitalsRepository returns an empty in-memory vitals store.
func NewMemoryVitalsRepository() *MemoryVitalsRepository {
	return &MemoryVitalsRepository{
		byOwner: make(map[string][]models.Reading),
		Now:     time.Now,
	}
}

// Insert appends a reading for ownerID, assigning its id and creation time.
func (r *MemoryVitalsRepository) Insert(_ context.Context, ownerID string, fields models.VitalFields) (*models.Reading, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rd := models.Reading{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		VitalFields: copyFields(fields),
		CreatedAt:   r.Now().UTC(),
	}
	r.byOwner[ownerID] = append(r.byOwner[ownerID], rd)

	out := rd
	out.VitalFields = copyFields(rd.VitalFields)
	return &out, nil
}

// ListByOwner returns the owner's readings in ascending creation order;
// equal timestamps keep insertion order.
func (r *MemoryVitalsRepository) ListByOwner(_ context.Context, ownerID string) ([]models.Reading, error) {
	r.mu.RLock()
	src := r.byOwner[ownerID]
	out := make([]models.Reading, len(src))
	for i, rd := range src {
		rd.VitalFields = copyFields(rd.VitalFields)
		out[i] = rd
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func copyFields(f models.VitalFields) models.VitalFields {
	dup := func(p *float64) *float64 {
		if p == nil {
			return nil
		}
		v := *p
		return &v
	}
	return models.VitalFields{
		HeartRate:   dup(f.HeartRate),
		Systolic:    dup(f.Systolic),
		Diastolic:   dup(f.Diastolic),
		Oxygen:      dup(f.Oxygen),
		Temperature: dup(f.Temperature),
	}
}
