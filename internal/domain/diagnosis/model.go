package diagnosis

import (
	"fmt"
	"time"
)

// Profession selects which canned result a generation returns.
type Profession string

const (
	Physio                Profession = "physio"
	Nutritionist          Profession = "nutritionist"
	Psychologist          Profession = "psychologist"
	Physician             Profession = "physician"
	Dentist               Profession = "dentist"
	SpeechTherapist       Profession = "speech_therapist"
	OccupationalTherapist Profession = "occupational_therapist"
	Pediatrician          Profession = "pediatrician"
	Geriatrician          Profession = "geriatrician"
	Orthopedist           Profession = "orthopedist"
)

// ProfessionOption is one entry of the profession picker.
type ProfessionOption struct {
	Value Profession `json:"value"`
	Label string     `json:"label"`
}

// Professions lists the selectable areas in display order.
func Professions() []ProfessionOption {
	return []ProfessionOption{
		{Physio, "Fisioterapia"},
		{Nutritionist, "Nutrição"},
		{Psychologist, "Psicologia"},
		{Physician, "Medicina"},
		{Dentist, "Odontologia"},
		{SpeechTherapist, "Fonoaudiologia"},
		{OccupationalTherapist, "Terapia Ocupacional"},
		{Pediatrician, "Pediatria"},
		{Geriatrician, "Geriatria"},
		{Orthopedist, "Ortopedia"},
	}
}

// Label returns the display name, or the raw value for unknown professions.
func (p Profession) Label() string {
	for _, o := range Professions() {
		if o.Value == p {
			return o.Label
		}
	}
	return string(p)
}

type Resource struct {
	Title string `json:"title"`
	Type  string `json:"type"`
	URL   string `json:"url"`
}

type PlanDay struct {
	Day        int      `json:"day"`
	Activities []string `json:"activities"`
}

type Meal struct {
	Name  string   `json:"name"`
	Time  string   `json:"time"`
	Foods []string `json:"foods"`
	Notes string   `json:"notes,omitempty"`
}

type NutritionPlan struct {
	Meals []Meal `json:"meals"`
}

// Result is the payload shown to the professional.
type Result struct {
	ContextAnalysis string         `json:"contextAnalysis"`
	Recommendations string         `json:"recommendations"`
	Resources       []Resource     `json:"resources"`
	Plan            []PlanDay      `json:"plan"`
	NutritionPlan   *NutritionPlan `json:"nutritionPlan,omitempty"`
	References      []string       `json:"references,omitempty"`
}

// HistoryEntry is one stored generation. ID is the creation time in unix
// milliseconds; Date is the same instant in RFC 3339.
type HistoryEntry struct {
	ID         int64      `json:"id"`
	Profession Profession `json:"profession"`
	Input      string     `json:"input"`
	Result     Result     `json:"result"`
	Date       string     `json:"date"`
}

func (e HistoryEntry) time() time.Time {
	if t, err := time.Parse(time.RFC3339Nano, e.Date); err == nil {
		return t
	}
	return time.UnixMilli(e.ID)
}

// ValidationError rejects a generation request.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (r Result) clone() Result {
	c := r
	c.Resources = append([]Resource(nil), r.Resources...)
	c.Plan = make([]PlanDay, len(r.Plan))
	for i, d := range r.Plan {
		c.Plan[i] = PlanDay{Day: d.Day, Activities: append([]string(nil), d.Activities...)}
	}
	if r.NutritionPlan != nil {
		meals := make([]Meal, len(r.NutritionPlan.Meals))
		for i, m := range r.NutritionPlan.Meals {
			m.Foods = append([]string(nil), m.Foods...)
			meals[i] = m
		}
		c.NutritionPlan = &NutritionPlan{Meals: meals}
	}
	c.References = append([]string(nil), r.References...)
	return c
}
