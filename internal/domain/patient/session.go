package patient

import (
	"sync"
	"time"
)

// Session is transient per-client view state. It is never persisted.
type Session struct {
	ID                string    `json:"id"`
	CurrentPatientID  *int      `json:"current_patient_id"`
	SearchCPF         string    `json:"search_cpf"`
	SearchTerm        string    `json:"search_term"`
	NoteDraft         string    `json:"note_draft"`
	NotesPatientID    *int      `json:"notes_patient_id"`
	ConsultationDraft string    `json:"consultation_draft"`
	LastSeen          time.Time `json:"last_seen"`
}

// MaxSessions bounds the registry. Creating a session beyond it evicts the
// least recently seen one.
const MaxSessions = 10000

// Drafts carries the editable text fields of a session.
type Drafts struct {
	SearchTerm        *string `json:"search_term"`
	NoteDraft         *string `json:"note_draft"`
	ConsultationDraft *string `json:"consultation_draft"`
}

// Sessions keeps view state per session id. Deleting a patient from the
// store clears it from every session that had it selected.
type Sessions struct {
	mu   sync.Mutex
	m    map[string]*Session
	now  func() time.Time
	idle time.Duration
	max  int
}

// NewSessions subscribes to store deletions. Sessions idle for longer than
// idle are dropped by Prune.
func NewSessions(store *Store, idle time.Duration) *Sessions {
	s := &Sessions{
		m:    make(map[string]*Session),
		now:  time.Now,
		idle: idle,
		max:  MaxSessions,
	}
	if store != nil {
		store.OnDelete(s.forget)
	}
	return s
}

// Get returns the session, creating an empty one on first use.
func (s *Sessions) Get(id string) Session {
	return s.Update(id, func(*Session) {})
}

// Update applies fn to the session under lock and returns a copy.
func (s *Sessions) Update(id string, fn func(*Session)) Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.m[id]
	if !ok {
		if len(s.m) >= s.max {
			s.evictOldest()
		}
		sess = &Session{ID: id}
		s.m[id] = sess
	}
	fn(sess)
	sess.LastSeen = s.now()
	return copySession(sess)
}

// Select makes patientID the current patient of the session.
func (s *Sessions) Select(id string, patientID int) Session {
	return s.Update(id, func(sess *Session) {
		sess.CurrentPatientID = &patientID
		sess.NoteDraft = ""
	})
}

// OpenNotes selects patientID for consultation-notes editing and loads the
// stored text into the draft.
func (s *Sessions) OpenNotes(id string, p Patient) Session {
	return s.Update(id, func(sess *Session) {
		pid := p.ID
		sess.NotesPatientID = &pid
		sess.ConsultationDraft = p.ConsultationNotes
	})
}

// ClearSelection drops the current patient.
func (s *Sessions) ClearSelection(id string) Session {
	return s.Update(id, func(sess *Session) {
		sess.CurrentPatientID = nil
	})
}

// SetDrafts updates only the fields present in d.
func (s *Sessions) SetDrafts(id string, d Drafts) Session {
	return s.Update(id, func(sess *Session) {
		if d.SearchTerm != nil {
			sess.SearchTerm = *d.SearchTerm
		}
		if d.NoteDraft != nil {
			sess.NoteDraft = *d.NoteDraft
		}
		if d.ConsultationDraft != nil {
			sess.ConsultationDraft = *d.ConsultationDraft
		}
	})
}

// Prune removes sessions not seen since now-idle and returns how many went.
func (s *Sessions) Prune(now time.Time) int {
	if s.idle <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, sess := range s.m {
		if now.Sub(sess.LastSeen) > s.idle {
			delete(s.m, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of live sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.m)
}

// evictOldest drops the least recently seen session. Callers hold mu.
func (s *Sessions) evictOldest() {
	var (
		oldest string
		seen   time.Time
	)
	for id, sess := range s.m {
		if oldest == "" || sess.LastSeen.Before(seen) {
			oldest, seen = id, sess.LastSeen
		}
	}
	delete(s.m, oldest)
}

func (s *Sessions) forget(patientID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sess := range s.m {
		if sess.CurrentPatientID != nil && *sess.CurrentPatientID == patientID {
			sess.CurrentPatientID = nil
			sess.NoteDraft = ""
		}
		if sess.NotesPatientID != nil && *sess.NotesPatientID == patientID {
			sess.NotesPatientID = nil
			sess.ConsultationDraft = ""
		}
	}
}

func copySession(s *Session) Session {
	c := *s
	if s.CurrentPatientID != nil {
		v := *s.CurrentPatientID
		c.CurrentPatientID = &v
	}
	if s.NotesPatientID != nil {
		v := *s.NotesPatientID
		c.NotesPatientID = &v
	}
	return c
}
