package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/alexivanou/calendar-core/internal/model"
	"github.com/jmoiron/sqlx"
)

// --- PostgreSQL Implementation ---

type pgCityRepository struct {
	db *sqlx.DB
}

func (r *pgCityRepository) BulkInsertCities(ctx context.Context, cities []model.CityRecord) error {
	// Chunking to avoid parameter limit issues even in PG (max 65535 parameters)
	return insertChunked(ctx, r.db, cities, 2000)
}

func (r *pgCityRepository) ListCities(ctx context.Context) ([]model.CityRecord, error) {
	var rows []cityRow
	if err := r.db.SelectContext(ctx, &rows, selectCities+" ORDER BY c.position, c.city_key"); err != nil {
		return nil, err
	}
	return records(rows), nil
}

func (r *pgCityRepository) GetCityByKey(ctx context.Context, key string) (*model.CityRecord, error) {
	var row cityRow
	if err := r.db.GetContext(ctx, &row, selectCities+" WHERE c.city_key = $1", key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	city := row.record()
	return &city, nil
}

func (r *pgCityRepository) FindNearestCity(ctx context.Context, lat, lon float64) (*model.CityRecord, float64, error) {
	// Haversine via SQL
	q := `
		SELECT
			nearest.*,
			(
				6371 * acos(
					least(1.0, greatest(-1.0,
						cos(radians($1)) * cos(radians(nearest.latitude)) * cos(radians(nearest.longitude) - radians($2)) +
						sin(radians($1)) * sin(radians(nearest.latitude))
					))
				)
			) AS distance
		FROM (` + selectCities + `) AS nearest
		ORDER BY distance ASC
		LIMIT 1
	`
	type cityWithDist struct {
		cityRow
		Distance float64 `db:"distance"`
	}

	var res cityWithDist
	if err := r.db.GetContext(ctx, &res, q, lat, lon); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, 0, nil
		}
		return nil, 0, err
	}
	city := res.record()
	return &city, res.Distance, nil
}

type pgCountryRepository struct {
	db *sqlx.DB
}

func (r *pgCountryRepository) BulkInsertCountries(ctx context.Context, countries []model.Country) error {
	if len(countries) == 0 {
		return nil
	}
	_, err := r.db.NamedExecContext(ctx, insertCountry+`
		ON CONFLICT (code) DO UPDATE SET
			name_en = EXCLUDED.name_en,
			name_fa = EXCLUDED.name_fa,
			name_ckb = EXCLUDED.name_ckb,
			name_ar = EXCLUDED.name_ar,
			position = EXCLUDED.position`,
		countries)
	return err
}

func (r *pgCountryRepository) ListCountries(ctx context.Context) ([]model.Country, error) {
	var countries []model.Country
	if err := r.db.SelectContext(ctx, &countries, selectCountries); err != nil {
		return nil, err
	}
	return countries, nil
}
