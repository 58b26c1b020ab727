package pets

import "time"

// Species define las especies soportadas.
// @Enum dog, cat, other
type Species string

const (
	SpeciesDog   Species = "dog"
	SpeciesCat   Species = "cat"
	SpeciesOther Species = "other"
)

func ParseSpecies(s string) (Species, bool) {
	switch Species(s) {
	case SpeciesDog, SpeciesCat, SpeciesOther:
		return Species(s), true
	}
	return "", false
}

// ActivityHint es la pista de actividad declarada en el registro de mascotas.
type ActivityHint string

const (
	ActivityHintLow      ActivityHint = "low"
	ActivityHintModerate ActivityHint = "moderate"
	ActivityHintHigh     ActivityHint = "high"
)

// Pet es de solo lectura para el core: lo administra el registro de mascotas.
type Pet struct {
	ID string

	Name    string
	Species Species
	Breed   string // texto libre, p.ej. "Golden Retriever"

	BirthDate *time.Time
	Weight    float64 // kg, 0 = desconocido

	ActivityLevel ActivityHint

	CreatedAt time.Time
	UpdatedAt time.Time
}

// AgeInMonths devuelve meses cumplidos a la fecha now; ok=false sin fecha de nacimiento.
func (p Pet) AgeInMonths(now time.Time) (int, bool) {
	if p.BirthDate == nil {
		return 0, false
	}
	b := p.BirthDate.UTC()
	n := now.UTC()
	months := (n.Year()-b.Year())*12 + int(n.Month()) - int(b.Month())
	if n.Day() < b.Day() {
		months--
	}
	if months < 0 {
		months = 0
	}
	return months, true
}
