// internal/store/store.go
package store

import (
	"database/sql"
	"time"

	"fiche-manager/internal/common/logger"

	"github.com/lib/pq"
)

// Store bundles the Postgres repositories behind one constructor.
type Store struct {
	Clients      *ClientRepo
	Formations   *FormationRepo
	Intervenants *IntervenantRepo
	Licenses     *LicenseRepo
	Students     *StudentRepo
	Offers       *OfferRepo
}

func New(db *sql.DB, log logger.Logger) *Store {
	return &Store{
		Clients:      &ClientRepo{db: db, logger: log},
		Formations:   &FormationRepo{db: db, logger: log},
		Intervenants: &IntervenantRepo{db: db, logger: log},
		Licenses:     &LicenseRepo{db: db, logger: log},
		Students:     &StudentRepo{db: db, logger: log},
		Offers:       &OfferRepo{db: db, logger: log},
	}
}

func pqStringArray(v []string) interface{} {
	return pq.Array(v)
}

func formatTime(t sql.NullTime) string {
	if !t.Valid {
		return ""
	}
	return t.Time.UTC().Format(time.RFC3339)
}
