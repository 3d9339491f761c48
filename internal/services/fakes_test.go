package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/nabburi/15MinClarity/internal/models"
	"github.com/nabburi/15MinClarity/internal/repository"
)

// In-memory stands-ins for the pgx repositories. They mimic the repository
// contract: absence is pgx.ErrNoRows, returned sessions are copies (a caller
// mutating a result must not mutate the store), and the write guards match
// the SQL conditions.

type memSessionStore struct {
	sessions []*models.Session
}

func (m *memSessionStore) FindByDay(_ context.Context, pid uuid.UUID, day string) (*models.Session, error) {
	var open *models.Session
	for _, s := range m.sessions {
		if s.ParticipantID != pid || s.LocalDay != day {
			continue
		}
		if s.Completed {
			cp := *s
			return &cp, nil
		}
		open = s
	}
	if open != nil {
		cp := *open
		return &cp, nil
	}
	return nil, pgx.ErrNoRows
}

func (m *memSessionStore) FindAllCompleted(_ context.Context, pid uuid.UUID) ([]models.Session, error) {
	var out []models.Session
	for _, s := range m.sessions {
		if s.ParticipantID == pid && s.Completed {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *memSessionStore) FindRecentCompleted(_ context.Context, pid uuid.UUID, sinceDays int) ([]models.Session, error) {
	cutoff := time.Now().Add(-time.Duration(sinceDays) * 24 * time.Hour)
	var out []models.Session
	for _, s := range m.sessions {
		if s.ParticipantID == pid && s.Completed && !s.CreatedAt.Before(cutoff) {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *memSessionStore) List(_ context.Context) ([]models.Session, error) {
	out := make([]models.Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, *s)
	}
	return out, nil
}

func (m *memSessionStore) Create(_ context.Context, s *models.Session) error {
	for _, existing := range m.sessions {
		if existing.ParticipantID == s.ParticipantID && existing.LocalDay == s.LocalDay && !existing.Completed {
			return &pgconn.PgError{Code: "23505"}
		}
	}
	s.ID = uuid.New()
	s.CreatedAt = time.Now()
	cp := *s
	m.sessions = append(m.sessions, &cp)
	return nil
}

func (m *memSessionStore) SetPreScoreIfUnset(_ context.Context, id uuid.UUID, preScore int) error {
	for _, s := range m.sessions {
		if s.ID == id && s.PreScore == nil && !s.Completed {
			score := preScore
			s.PreScore = &score
		}
	}
	return nil
}

func (m *memSessionStore) Complete(_ context.Context, id uuid.UUID, postScore, delta int) error {
	for _, s := range m.sessions {
		if s.ID == id && !s.Completed {
			post, d := postScore, delta
			s.PostScore = &post
			s.Delta = &d
			s.Completed = true
			return nil
		}
	}
	return fmt.Errorf("session %s: %w", id, repository.ErrAlreadyCompleted)
}

func (m *memSessionStore) find(id uuid.UUID) *models.Session {
	for _, s := range m.sessions {
		if s.ID == id {
			return s
		}
	}
	return nil
}

func (m *memSessionStore) addCompleted(pid uuid.UUID, variant models.Variant, delta *int, createdAt time.Time, day string) {
	m.sessions = append(m.sessions, &models.Session{
		ID:            uuid.New(),
		ParticipantID: pid,
		Variant:       variant,
		Delta:         delta,
		Completed:     true,
		LocalDay:      day,
		CreatedAt:     createdAt,
	})
}

type memProfileStore struct {
	profiles map[uuid.UUID]*models.Profile
}

func newMemProfileStore() *memProfileStore {
	return &memProfileStore{profiles: make(map[uuid.UUID]*models.Profile)}
}

func (m *memProfileStore) Get(_ context.Context, pid uuid.UUID) (*models.Profile, error) {
	p, ok := m.profiles[pid]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *p
	return &cp, nil
}

func (m *memProfileStore) SetAnchorIfUnset(_ context.Context, pid uuid.UUID, day string) error {
	p, ok := m.profiles[pid]
	if !ok {
		d := day
		m.profiles[pid] = &models.Profile{ParticipantID: pid, FirstCompletedLocalDay: &d}
		return nil
	}
	if p.FirstCompletedLocalDay == nil {
		d := day
		p.FirstCompletedLocalDay = &d
	}
	return nil
}

type memReflectionStore struct {
	rows map[string]*models.Reflection
}

func newMemReflectionStore() *memReflectionStore {
	return &memReflectionStore{rows: make(map[string]*models.Reflection)}
}

func reflectionKey(pid uuid.UUID, day string) string {
	return pid.String() + "|" + day
}

func (m *memReflectionStore) Exists(_ context.Context, pid uuid.UUID, day string) (bool, error) {
	_, ok := m.rows[reflectionKey(pid, day)]
	return ok, nil
}

func (m *memReflectionStore) Create(_ context.Context, ref *models.Reflection) error {
	key := reflectionKey(ref.ParticipantID, ref.LocalDay)
	if _, ok := m.rows[key]; ok {
		return &pgconn.PgError{Code: "23505"}
	}
	ref.ID = uuid.New()
	ref.CreatedAt = time.Now()
	cp := *ref
	m.rows[key] = &cp
	return nil
}

type memParticipantStore struct {
	participants []models.Participant
}

func (m *memParticipantStore) Ensure(_ context.Context, id uuid.UUID, email string) error {
	for i := range m.participants {
		if m.participants[i].ID == id {
			m.participants[i].Email = email
			return nil
		}
	}
	m.participants = append(m.participants, models.Participant{ID: id, Email: email, CreatedAt: time.Now()})
	return nil
}

func (m *memParticipantStore) List(_ context.Context) ([]models.Participant, error) {
	return append([]models.Participant(nil), m.participants...), nil
}

type recordingEventLogger struct {
	names []string
}

func (l *recordingEventLogger) Log(_ context.Context, name string, _ uuid.UUID, _ map[string]interface{}) {
	l.names = append(l.names, name)
}

func fixedDay(day string) func() string {
	return func() string { return day }
}

func intPtr(v int) *int { return &v }
