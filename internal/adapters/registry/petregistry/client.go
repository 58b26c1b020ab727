// Package petregistry lee mascotas desde el registro remoto. El core nunca escribe en él.
package petregistry

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"pet-health-analytics/internal/domain/pets"
	"pet-health-analytics/internal/platform/httpclient"
)

var (
	ErrNotConfigured = errors.New("pet registry not configured")
	ErrUpstream      = errors.New("pet registry upstream error")
)

// Config del cliente. BaseURL y APIKey vienen de registry.* en la config.
type Config struct {
	BaseURL string
	APIKey  string

	// Si está vacío, se usa "X-Api-Key".
	APIKeyHeader string

	Timeout time.Duration

	// Transport opcional (tests).
	Transport http.RoundTripper
}

type Client struct {
	http *httpclient.Client
}

var _ pets.Reader = (*Client)(nil)

func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, ErrNotConfigured
	}
	header := strings.TrimSpace(cfg.APIKeyHeader)
	if header == "" {
		header = "X-Api-Key"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	hc, err := httpclient.New(cfg.BaseURL, timeout,
		httpclient.WithHeader(header, strings.TrimSpace(cfg.APIKey)),
		httpclient.WithTransport(cfg.Transport),
	)
	if err != nil {
		return nil, err
	}
	return &Client{http: hc}, nil
}

// petDTO es el contrato del registro: birth_date en YYYY-MM-DD, weight en kg.
type petDTO struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Species       string   `json:"species"`
	Breed         string   `json:"breed"`
	BirthDate     string   `json:"birth_date"`
	Weight        *float64 `json:"weight"`
	ActivityLevel string   `json:"activity_level"`
}

// GetByID trae la mascota. 404 del registro => pets.ErrNotFound.
func (c *Client) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return pets.Pet{}, pets.ErrNotFound
	}

	var dto petDTO
	if err := c.http.GetJSON(ctx, "/v1/pets/"+url.PathEscape(id), &dto); err != nil {
		if httpclient.IsStatus(err, http.StatusNotFound) {
			return pets.Pet{}, pets.ErrNotFound
		}
		return pets.Pet{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return dto.toPet(id)
}

func (d petDTO) toPet(requestedID string) (pets.Pet, error) {
	species, ok := pets.ParseSpecies(strings.ToLower(strings.TrimSpace(d.Species)))
	if !ok {
		species = pets.SpeciesOther
	}

	p := pets.Pet{
		ID:            d.ID,
		Name:          d.Name,
		Species:       species,
		Breed:         d.Breed,
		ActivityLevel: pets.ActivityHint(strings.ToLower(strings.TrimSpace(d.ActivityLevel))),
	}
	if p.ID == "" {
		p.ID = requestedID
	}
	if d.Weight != nil && *d.Weight > 0 {
		p.Weight = *d.Weight
	}
	if bd := strings.TrimSpace(d.BirthDate); bd != "" {
		t, err := time.Parse("2006-01-02", bd)
		if err != nil {
			return pets.Pet{}, fmt.Errorf("%w: invalid birth_date %q", ErrUpstream, bd)
		}
		p.BirthDate = &t
	}
	return p, nil
}
