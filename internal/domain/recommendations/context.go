package recommendations

import (
	"strings"
	"time"

	"pet-health-analytics/internal/domain/health"
	"pet-health-analytics/internal/domain/pets"
)

// Context se arma por cada pedido y no se persiste.
type Context struct {
	Pet       pets.Pet
	Now       time.Time
	AgeMonths int
	AgeKnown  bool

	ActivityLevel ActivityLevel
	Season        Season

	// History: registros de los últimos días de la ventana, en orden desc.
	History      []health.DailyHealthRecord
	UnreadAlerts []health.HealthAlert
}

func BuildContext(pet pets.Pet, history []health.DailyHealthRecord, unread []health.HealthAlert, now time.Time) Context {
	age, known := pet.AgeInMonths(now)
	return Context{
		Pet:           pet,
		Now:           now,
		AgeMonths:     age,
		AgeKnown:      known,
		ActivityLevel: ClassifyActivity(history),
		Season:        SeasonOf(now),
		History:       history,
		UnreadAlerts:  unread,
	}
}

// ClassifyActivity promedia activity.steps: <5000 low, <10000 moderate, resto high. Sin datos: low.
func ClassifyActivity(history []health.DailyHealthRecord) ActivityLevel {
	avg, ok := averageSteps(history)
	switch {
	case !ok || avg < 5000:
		return ActivityLow
	case avg < 10000:
		return ActivityModerate
	default:
		return ActivityHigh
	}
}

// SeasonOf usa el calendario del hemisferio norte.
func SeasonOf(t time.Time) Season {
	switch t.Month() {
	case time.December, time.January, time.February:
		return SeasonWinter
	case time.March, time.April, time.May:
		return SeasonSpring
	case time.June, time.July, time.August:
		return SeasonSummer
	default:
		return SeasonAutumn
	}
}

// IdealWeight es una heurística aproximada por especie y subcadena de raza (no es una base de razas).
func IdealWeight(species pets.Species, breed string) float64 {
	b := strings.ToLower(breed)
	switch {
	case strings.Contains(b, "poodle"):
		return 8
	case strings.Contains(b, "golden"):
		return 30
	}
	switch species {
	case pets.SpeciesDog:
		return 15
	case pets.SpeciesCat:
		return 4.5
	default:
		return 5
	}
}

// CurrentWeight prefiere el peso del registro de mascotas y si no, el último registrado.
func (c Context) CurrentWeight() (float64, bool) {
	if c.Pet.Weight > 0 {
		return c.Pet.Weight, true
	}
	for _, r := range c.History {
		if r.Weight != nil {
			return *r.Weight, true
		}
	}
	return 0, false
}

func (c Context) snapshot() ContextSnapshot {
	s := ContextSnapshot{
		ActivityLevel: c.ActivityLevel,
		Season:        c.Season,
		RecordCount:   len(c.History),
		UnreadAlerts:  len(c.UnreadAlerts),
	}
	if c.AgeKnown {
		age := c.AgeMonths
		s.AgeMonths = &age
	}
	return s
}

func averageSteps(history []health.DailyHealthRecord) (float64, bool) {
	sum, n := 0.0, 0
	for _, r := range history {
		if r.Activity == nil {
			continue
		}
		sum += float64(r.Activity.Steps)
		n++
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

func averageWeight(history []health.DailyHealthRecord) (float64, bool) {
	sum, n := 0.0, 0
	for _, r := range history {
		if r.Weight == nil {
			continue
		}
		sum += *r.Weight
		n++
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}
