package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"refcheck/internal/models"
)

const (
	candidatesKey = "refcheck:candidates"
	referencesKey = "refcheck:references"

	// schemaVersion tags every persisted blob so a future layout change can
	// migrate instead of guessing.
	schemaVersion = 1
)

var (
	ErrCandidateNotFound = errors.New("candidate not found")
	ErrReferenceNotFound = errors.New("reference not found")
	ErrAlreadyCompleted  = errors.New("reference already completed")
)

type envelope struct {
	Version int             `json:"version"`
	Items   json.RawMessage `json:"items"`
}

// Store holds the two ordered collections in memory and flushes the touched
// collection to the persistence provider before any mutation returns.
// Collections are most-recent-first.
type Store struct {
	mu         sync.Mutex
	provider   Provider
	candidates []models.Candidate
	references []models.Reference
}

func New(provider Provider) (*Store, error) {
	s := &Store{provider: provider}

	if err := load(provider, candidatesKey, &s.candidates); err != nil {
		return nil, fmt.Errorf("failed to load candidates: %w", err)
	}
	if err := load(provider, referencesKey, &s.references); err != nil {
		return nil, fmt.Errorf("failed to load references: %w", err)
	}

	return s, nil
}

func load(provider Provider, key string, target interface{}) error {
	payload, ok, err := provider.Read(key)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return fmt.Errorf("failed to decode envelope for %q: %w", key, err)
	}
	if env.Version != schemaVersion {
		return fmt.Errorf("unsupported schema version %d for %q", env.Version, key)
	}

	if err := json.Unmarshal(env.Items, target); err != nil {
		return fmt.Errorf("failed to decode items for %q: %w", key, err)
	}

	return nil
}

func (s *Store) persist(key string, items interface{}) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode items for %q: %w", key, err)
	}

	payload, err := json.Marshal(envelope{Version: schemaVersion, Items: raw})
	if err != nil {
		return fmt.Errorf("failed to encode envelope for %q: %w", key, err)
	}

	return s.provider.Write(key, payload)
}

// AddCandidate prepends the candidate and flushes the collection.
func (s *Store) AddCandidate(candidate models.Candidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated := make([]models.Candidate, 0, len(s.candidates)+1)
	updated = append(updated, candidate)
	updated = append(updated, s.candidates...)

	if err := s.persist(candidatesKey, updated); err != nil {
		return err
	}

	s.candidates = updated
	return nil
}

// UpdateCandidate replaces the entry with a matching identifier. An absent
// identifier is an explicit ErrCandidateNotFound, never a silent no-op.
func (s *Store) UpdateCandidate(candidate models.Candidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.replaceCandidateLocked(candidate)
}

func (s *Store) replaceCandidateLocked(candidate models.Candidate) error {
	idx := -1
	for i, c := range s.candidates {
		if c.ID == candidate.ID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return fmt.Errorf("%w: %s", ErrCandidateNotFound, candidate.ID)
	}

	updated := make([]models.Candidate, len(s.candidates))
	copy(updated, s.candidates)
	updated[idx] = candidate

	if err := s.persist(candidatesKey, updated); err != nil {
		return err
	}

	s.candidates = updated
	return nil
}

// SetCandidateAnalysis overwrites the candidate's summary and score together.
// The existence re-check covers an analysis call that resolved after the
// collection changed under it.
func (s *Store) SetCandidateAnalysis(candidateID uuid.UUID, summary string, score float64) (models.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.candidates {
		if c.ID == candidateID {
			c.AISummary = &summary
			c.AIScore = &score
			if err := s.replaceCandidateLocked(c); err != nil {
				return models.Candidate{}, err
			}
			return c, nil
		}
	}

	return models.Candidate{}, fmt.Errorf("%w: %s", ErrCandidateNotFound, candidateID)
}

// AddReference prepends the reference after checking the owning candidate
// exists.
func (s *Store) AddReference(reference models.Reference) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.candidateExistsLocked(reference.CandidateID) {
		return fmt.Errorf("%w: %s", ErrCandidateNotFound, reference.CandidateID)
	}

	updated := make([]models.Reference, 0, len(s.references)+1)
	updated = append(updated, reference)
	updated = append(updated, s.references...)

	if err := s.persist(referencesKey, updated); err != nil {
		return err
	}

	s.references = updated
	return nil
}

// SubmitReferenceResponse attaches the survey responses, flips the reference
// to COMPLETED and stamps the completion time. A second submission on the
// same reference is rejected, never appended.
func (s *Store) SubmitReferenceResponse(referenceID uuid.UUID, responses []models.SurveyResponse) (models.Reference, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, r := range s.references {
		if r.ID == referenceID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return models.Reference{}, fmt.Errorf("%w: %s", ErrReferenceNotFound, referenceID)
	}

	if s.references[idx].Status == models.ReferenceCompleted {
		return models.Reference{}, fmt.Errorf("%w: %s", ErrAlreadyCompleted, referenceID)
	}

	now := time.Now().UTC()
	reference := s.references[idx]
	reference.Status = models.ReferenceCompleted
	reference.CompletedDate = &now
	reference.Responses = make([]models.SurveyResponse, len(responses))
	copy(reference.Responses, responses)

	updated := make([]models.Reference, len(s.references))
	copy(updated, s.references)
	updated[idx] = reference

	if err := s.persist(referencesKey, updated); err != nil {
		return models.Reference{}, err
	}

	s.references = updated
	return reference, nil
}

// Reset wipes both collections, persisting the empty state.
func (s *Store) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.persist(candidatesKey, []models.Candidate{}); err != nil {
		return err
	}
	if err := s.persist(referencesKey, []models.Reference{}); err != nil {
		return err
	}

	s.candidates = nil
	s.references = nil
	return nil
}

func (s *Store) candidateExistsLocked(id uuid.UUID) bool {
	for _, c := range s.candidates {
		if c.ID == id {
			return true
		}
	}
	return false
}

// Candidates returns the collection most-recent-first.
func (s *Store) Candidates() []models.Candidate {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Candidate, len(s.candidates))
	copy(out, s.candidates)
	return out
}

func (s *Store) CandidateByID(id uuid.UUID) (models.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.candidates {
		if c.ID == id {
			return c, nil
		}
	}

	return models.Candidate{}, fmt.Errorf("%w: %s", ErrCandidateNotFound, id)
}

// References returns the collection most-recent-first.
func (s *Store) References() []models.Reference {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Reference, len(s.references))
	copy(out, s.references)
	return out
}

func (s *Store) ReferenceByID(id uuid.UUID) (models.Reference, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.references {
		if r.ID == id {
			return r, nil
		}
	}

	return models.Reference{}, fmt.Errorf("%w: %s", ErrReferenceNotFound, id)
}

func (s *Store) ReferencesForCandidate(candidateID uuid.UUID) []models.Reference {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Reference
	for _, r := range s.references {
		if r.CandidateID == candidateID {
			out = append(out, r)
		}
	}
	return out
}

// CompletedReferences returns the candidate's COMPLETED references in
// collection order. Analysis is available exactly when this is non-empty.
func (s *Store) CompletedReferences(candidateID uuid.UUID) []models.Reference {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Reference
	for _, r := range s.references {
		if r.CandidateID == candidateID && r.Status == models.ReferenceCompleted {
			out = append(out, r)
		}
	}
	return out
}

// Stats aggregates the dashboard view counters and the recent activity feed.
func (s *Store) Stats() models.DashboardStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := models.DashboardStats{RecentActivity: []models.ActivityEntry{}}

	for _, c := range s.candidates {
		if c.Status == models.CandidateActive {
			stats.ActiveCandidates++
		}
	}

	var scoreSum float64
	var scored int
	for _, c := range s.candidates {
		if c.AIScore != nil {
			scoreSum += *c.AIScore
			scored++
		}
	}
	if scored > 0 {
		avg := scoreSum / float64(scored)
		stats.AverageAIScore = &avg
	}

	names := make(map[uuid.UUID]string, len(s.candidates))
	for _, c := range s.candidates {
		names[c.ID] = c.Name
	}

	for _, r := range s.references {
		switch r.Status {
		case models.ReferenceCompleted:
			stats.CompletedReferences++
		case models.ReferencePending:
			stats.PendingReferences++
		}

		if len(stats.RecentActivity) < 5 {
			name, ok := names[r.CandidateID]
			if !ok {
				name = "Unknown"
			}
			stats.RecentActivity = append(stats.RecentActivity, models.ActivityEntry{
				ReferenceID:   r.ID.String(),
				CandidateName: name,
				RefereeName:   r.RefereeName,
				Status:        r.Status,
				SentDate:      r.SentDate,
			})
		}
	}

	return stats
}
