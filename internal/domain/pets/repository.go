package pets

import "context"

// Reader es lo único que el core necesita del registro de mascotas.
type Reader interface {
	GetByID(ctx context.Context, id string) (Pet, error)
}

// Repository lo implementan los registros locales (memoria, postgres, sqlite).
type Repository interface {
	Reader
	Create(ctx context.Context, p Pet) error
	Update(ctx context.Context, p Pet) error
}
