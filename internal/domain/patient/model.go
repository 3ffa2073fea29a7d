package patient

import "strings"

// Status is the derived activity state. The JSON values are the ones the
// web client renders and stores.
type Status string

const (
	StatusActive   Status = "Ativo"
	StatusInactive Status = "Inativo"
)

// DateLayout is the calendar-date format used for visits, notes and files.
const DateLayout = "2006-01-02"

type Patient struct {
	ID                int     `json:"id"`
	Name              string  `json:"name"`
	CPF               string  `json:"cpf"`
	Phone             string  `json:"phone"`
	Email             string  `json:"email"`
	LastVisit         *string `json:"lastVisit"`
	NextVisit         *string `json:"nextVisit"`
	Status            Status  `json:"status"`
	Notes             []Note  `json:"notes"`
	Files             []File  `json:"files"`
	ConsultationNotes string  `json:"consultationNotes"`
}

// Note is a dated clinical note. Patient.Notes is kept newest first.
type Note struct {
	Date    string `json:"date"`
	Content string `json:"content"`
}

// File is attachment metadata only; no bytes are stored.
type File struct {
	Name     string `json:"name"`
	Date     string `json:"date"`
	MimeType string `json:"type"`
}

// FileMeta describes an uploaded file before it is dated.
type FileMeta struct {
	Name     string `json:"name"`
	MimeType string `json:"type"`
}

// NewPatient holds the registration form fields.
type NewPatient struct {
	Name  string `json:"name"`
	CPF   string `json:"cpf"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

func (n NewPatient) missing() []string {
	var fields []string
	if strings.TrimSpace(n.Name) == "" {
		fields = append(fields, "name")
	}
	if strings.TrimSpace(n.CPF) == "" {
		fields = append(fields, "cpf")
	}
	if strings.TrimSpace(n.Email) == "" {
		fields = append(fields, "email")
	}
	if strings.TrimSpace(n.Phone) == "" {
		fields = append(fields, "phone")
	}
	return fields
}

// HasNextVisit reports whether a follow-up visit is scheduled.
func (p Patient) HasNextVisit() bool {
	return p.NextVisit != nil && *p.NextVisit != ""
}

func (p Patient) clone() Patient {
	c := p
	c.LastVisit = cloneString(p.LastVisit)
	c.NextVisit = cloneString(p.NextVisit)
	c.Notes = append(make([]Note, 0, len(p.Notes)), p.Notes...)
	c.Files = append(make([]File, 0, len(p.Files)), p.Files...)
	return c
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func clonePatients(in []Patient) []Patient {
	out := make([]Patient, len(in))
	for i, p := range in {
		out[i] = p.clone()
	}
	return out
}
