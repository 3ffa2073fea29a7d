package patient

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/zuro/agenda/internal/platform/events"
	"github.com/zuro/agenda/internal/platform/kvstore"
)

// Options configures Open.
type Options struct {
	// Seed is used when the storage has never held a patient list.
	Seed   []Patient
	Events events.Publisher
	Logger zerolog.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

// Store owns the patient list. It is loaded from the key-value port once and
// the full list is written back after every successful mutation, before the
// mutation returns. A failed write leaves the in-memory list untouched.
type Store struct {
	mu       sync.Mutex
	kv       kvstore.Store
	events   events.Publisher
	logger   zerolog.Logger
	now      func() time.Time
	patients []Patient
	onDelete []func(id int)
	// opened holds the changes made by the sweep run in Open.
	opened []StatusChange
}

// Open loads the patient list and runs one status sweep.
func Open(ctx context.Context, kv kvstore.Store, opts Options) (*Store, error) {
	s := &Store{
		kv:     kv,
		events: opts.Events,
		logger: opts.Logger,
		now:    opts.Now,
	}
	if s.events == nil {
		s.events = events.Nop{}
	}
	if s.now == nil {
		s.now = time.Now
	}

	var stored []Patient
	found, err := kvstore.GetJSON(ctx, kv, kvstore.KeyPatients, &stored)
	if err != nil {
		return nil, fmt.Errorf("load patients: %w", err)
	}
	if !found {
		stored = clonePatients(opts.Seed)
	}
	s.patients = normalize(stored)
	if !found {
		if err := s.commit(ctx, s.patients); err != nil {
			return nil, err
		}
	}

	changes, err := s.Sweep(ctx, s.now())
	if err != nil {
		return nil, fmt.Errorf("initial status sweep: %w", err)
	}
	s.opened = changes
	s.logger.Info().
		Int("patients", len(s.patients)).
		Int("inactivated", len(changes)).
		Bool("seeded", !found).
		Msg("patient store loaded")
	return s, nil
}

func normalize(list []Patient) []Patient {
	for i := range list {
		if list[i].Notes == nil {
			list[i].Notes = []Note{}
		}
		if list[i].Files == nil {
			list[i].Files = []File{}
		}
	}
	if list == nil {
		list = []Patient{}
	}
	return list
}

// OpenSweep returns the status changes applied while the store was opened.
func (s *Store) OpenSweep() []StatusChange {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]StatusChange(nil), s.opened...)
}

// OnDelete registers fn to be called with the id of every deleted patient.
func (s *Store) OnDelete(fn func(id int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onDelete = append(s.onDelete, fn)
}

// List returns every patient in storage order.
func (s *Store) List() []Patient {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clonePatients(s.patients)
}

// Filter returns patients whose name or email contains term
// (case-insensitive) or whose CPF contains term. An empty term matches all.
func (s *Store) Filter(term string) []Patient {
	lower := strings.ToLower(term)
	return lo.Filter(s.List(), func(p Patient, _ int) bool {
		return strings.Contains(strings.ToLower(p.Name), lower) ||
			strings.Contains(p.CPF, term) ||
			strings.Contains(strings.ToLower(p.Email), lower)
	})
}

func (s *Store) Get(id int) (Patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return Patient{}, &NotFoundError{ID: id}
	}
	return s.patients[i].clone(), nil
}

// Search looks a patient up by CPF. The input is masked first; a miss is a
// NotFoundError only once the masked input has full length, otherwise it is
// ErrIncompleteCPF.
func (s *Store) Search(cpf string) (Patient, error) {
	formatted := FormatCPF(cpf)

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.patients {
		if p.CPF == formatted {
			return p.clone(), nil
		}
	}
	if len(formatted) < CPFLength {
		return Patient{}, ErrIncompleteCPF
	}
	return Patient{}, &NotFoundError{CPF: formatted}
}

// Add registers a patient. CPF and phone are masked before storing.
func (s *Store) Add(ctx context.Context, in NewPatient) (Patient, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.CPF = FormatCPF(in.CPF)
	in.Phone = FormatPhone(in.Phone)
	if missing := in.missing(); len(missing) > 0 {
		return Patient{}, &ValidationError{Fields: missing}
	}

	s.mu.Lock()
	if lo.ContainsBy(s.patients, func(p Patient) bool { return p.CPF == in.CPF }) {
		s.mu.Unlock()
		return Patient{}, &DuplicateError{CPF: in.CPF}
	}

	p := Patient{
		ID:     s.nextID(),
		Name:   in.Name,
		CPF:    in.CPF,
		Phone:  in.Phone,
		Email:  in.Email,
		Status: StatusActive,
		Notes:  []Note{},
		Files:  []File{},
	}
	next := append(clonePatients(s.patients), p)
	err := s.commit(ctx, next)
	s.mu.Unlock()
	if err != nil {
		return Patient{}, err
	}

	s.publish(ctx, events.New(events.PatientCreated, subject(p.ID), map[string]any{"cpf": p.CPF}))
	return p.clone(), nil
}

// AddNote prepends a note dated today. Blank text is a no-op that returns the
// patient unchanged.
func (s *Store) AddNote(ctx context.Context, id int, text string) (Patient, error) {
	if strings.TrimSpace(text) == "" {
		return s.Get(id)
	}
	note := Note{Date: s.today(), Content: text}
	p, err := s.update(ctx, id, func(p *Patient) {
		p.Notes = append([]Note{note}, p.Notes...)
	})
	if err != nil {
		return Patient{}, err
	}
	s.publish(ctx, events.New(events.PatientNoteAdded, subject(id), nil))
	return p, nil
}

// AddFile appends attachment metadata dated today. A meta without a file
// name means nothing was selected and is a no-op.
func (s *Store) AddFile(ctx context.Context, id int, meta FileMeta) (Patient, error) {
	if meta.Name == "" {
		return s.Get(id)
	}
	file := File{Name: meta.Name, Date: s.today(), MimeType: meta.MimeType}
	p, err := s.update(ctx, id, func(p *Patient) {
		p.Files = append(p.Files, file)
	})
	if err != nil {
		return Patient{}, err
	}
	s.publish(ctx, events.New(events.PatientFileAdded, subject(id), map[string]any{"name": file.Name, "type": file.MimeType}))
	return p, nil
}

// SaveConsultationNotes overwrites the consultation notes unconditionally.
func (s *Store) SaveConsultationNotes(ctx context.Context, id int, text string) (Patient, error) {
	p, err := s.update(ctx, id, func(p *Patient) {
		p.ConsultationNotes = text
	})
	if err != nil {
		return Patient{}, err
	}
	s.publish(ctx, events.New(events.PatientNotesSaved, subject(id), nil))
	return p, nil
}

// Delete removes a patient together with its notes and files.
func (s *Store) Delete(ctx context.Context, id int) error {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return &NotFoundError{ID: id}
	}
	next := clonePatients(s.patients)
	next = append(next[:i], next[i+1:]...)
	err := s.commit(ctx, next)
	listeners := append([]func(int){}, s.onDelete...)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	for _, fn := range listeners {
		fn(id)
	}
	s.publish(ctx, events.New(events.PatientDeleted, subject(id), nil))
	return nil
}

// Sweep re-derives every status at now and persists when anything changed.
func (s *Store) Sweep(ctx context.Context, now time.Time) ([]StatusChange, error) {
	s.mu.Lock()
	next, changes := DeriveStatuses(now, s.patients)
	if len(changes) == 0 {
		s.mu.Unlock()
		return nil, nil
	}
	err := s.commit(ctx, next)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	evts := lo.Map(changes, func(c StatusChange, _ int) events.Event {
		return events.New(events.PatientStatusChanged, subject(c.PatientID), map[string]any{
			"from": string(c.From),
			"to":   string(c.To),
		})
	})
	s.publish(ctx, evts...)
	return changes, nil
}

func (s *Store) update(ctx context.Context, id int, mutate func(p *Patient)) (Patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return Patient{}, &NotFoundError{ID: id}
	}
	next := clonePatients(s.patients)
	mutate(&next[i])
	if err := s.commit(ctx, next); err != nil {
		return Patient{}, err
	}
	return next[i].clone(), nil
}

// commit persists next and only then makes it current. Callers hold mu.
func (s *Store) commit(ctx context.Context, next []Patient) error {
	if err := kvstore.PutJSON(ctx, s.kv, kvstore.KeyPatients, next); err != nil {
		return fmt.Errorf("persist patients: %w", err)
	}
	s.patients = next
	return nil
}

// nextID is max(existing)+1. Callers hold mu.
func (s *Store) nextID() int {
	highest := 0
	for _, p := range s.patients {
		if p.ID > highest {
			highest = p.ID
		}
	}
	return highest + 1
}

// indexOf returns the slice position of id, or -1. Callers hold mu.
func (s *Store) indexOf(id int) int {
	for i, p := range s.patients {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) today() string {
	return s.now().UTC().Format(DateLayout)
}

func (s *Store) publish(ctx context.Context, evts ...events.Event) {
	if err := s.events.Publish(ctx, evts...); err != nil {
		s.logger.Warn().Err(err).Msg("patient event not published")
	}
}

func subject(id int) string {
	return "patient/" + strconv.Itoa(id)
}
