// repositories/lookup_repository.go
package repositories

import (
	"context"

	"github.com/clinvite/clinvite_backend/models"
)

// LookupRepository serves the dashboard dropdowns.
type LookupRepository interface {
	ListClinicalTrials(ctx context.Context) ([]models.ClinicalTrial, error)
	ListCountryLocales(ctx context.Context) ([]models.CountryLocale, error)
}

type lookupRepository struct {
	db DB
}

func NewLookupRepository(db DB) LookupRepository {
	return &lookupRepository{db: db}
}

func (r *lookupRepository) ListClinicalTrials(ctx context.Context) ([]models.ClinicalTrial, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name FROM clinical_trials ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trials []models.ClinicalTrial
	for rows.Next() {
		var t models.ClinicalTrial
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, err
		}
		trials = append(trials, t)
	}
	return trials, rows.Err()
}

func (r *lookupRepository) ListCountryLocales(ctx context.Context) ([]models.CountryLocale, error) {
	rows, err := r.db.Query(ctx, `SELECT id, country_name, language FROM country_locales ORDER BY country_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var locales []models.CountryLocale
	for rows.Next() {
		var l models.CountryLocale
		if err := rows.Scan(&l.ID, &l.CountryName, &l.Language); err != nil {
			return nil, err
		}
		locales = append(locales, l)
	}
	return locales, rows.Err()
}
