package web

import (
	"errors"
	"math/rand/v2"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	pixelshuffle "github.com/hellolucient/pixel-shuffle"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrNotBuilt        = errors.New("image not built")
)

// Session is one uploaded image and its shuffle state. The grid fields
// hold immutable values; mutation swaps whole grids under the store
// lock, so a Session copy handed out by the store stays consistent.
type Session struct {
	ID        string
	Name      string
	BlockSize int
	Original  *pixelshuffle.BlockGrid
	Current   *pixelshuffle.BlockGrid
	Built     bool
	Shakes    int
	CreatedAt time.Time
}

// Store keeps sessions in memory, keyed by generated ID.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// Add registers a sampled grid under a fresh ID and returns the new
// session. Current starts as the unshuffled sample so frame and grid
// views work before a build.
func (st *Store) Add(name string, grid *pixelshuffle.BlockGrid) Session {
	sess := &Session{
		ID:        uuid.NewString(),
		Name:      name,
		BlockSize: grid.BlockSize(),
		Original:  grid,
		Current:   grid,
		CreatedAt: time.Now(),
	}
	st.mu.Lock()
	st.sessions[sess.ID] = sess
	st.mu.Unlock()
	return *sess
}

func (st *Store) Get(id string) (Session, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	sess, ok := st.sessions[id]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	return *sess, nil
}

// List returns all sessions ordered by creation time.
func (st *Store) List() []Session {
	st.mu.RLock()
	defer st.mu.RUnlock()
	out := make([]Session, 0, len(st.sessions))
	for _, sess := range st.sessions {
		out = append(out, *sess)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (st *Store) Delete(id string) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(st.sessions, id)
	return nil
}

// Build resets the session to its original sample and marks it ready
// to shake.
func (st *Store) Build(id string) (Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	sess, ok := st.sessions[id]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	sess.Current = sess.Original
	sess.Built = true
	sess.Shakes = 0
	return *sess, nil
}

// Shake replaces the current grid with a shuffle of it. A nil rng uses
// the package-default random source.
func (st *Store) Shake(id string, rng *rand.Rand) (Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	sess, ok := st.sessions[id]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	if !sess.Built {
		return Session{}, ErrNotBuilt
	}
	shuffled, err := pixelshuffle.Shuffle(sess.Current, rng)
	if err != nil {
		return Session{}, err
	}
	sess.Current = shuffled
	sess.Shakes++
	return *sess, nil
}
