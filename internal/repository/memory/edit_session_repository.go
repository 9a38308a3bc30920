package memory

import (
	"time"

	"tree-editor-be/internal/entity"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// EditSessionRepository keeps edit-session state in memory with expiry, so
// abandoned sessions clean themselves up.
type EditSessionRepository struct {
	cache *cache.Cache
}

func NewEditSessionRepository() *EditSessionRepository {
	// Sessions expire after an hour of inactivity, purged every 10 minutes.
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &EditSessionRepository{
		cache: c,
	}
}

func (r *EditSessionRepository) Save(state *entity.EditState) {
	r.cache.Set(state.SessionId.String(), state, cache.DefaultExpiration)
}

func (r *EditSessionRepository) Get(sessionID uuid.UUID) (*entity.EditState, bool) {
	if x, found := r.cache.Get(sessionID.String()); found {
		return x.(*entity.EditState), true
	}
	return nil, false
}

func (r *EditSessionRepository) Delete(sessionID uuid.UUID) {
	r.cache.Delete(sessionID.String())
}
