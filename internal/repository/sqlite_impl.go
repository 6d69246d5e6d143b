package repository

import (
	"context"
	"database/sql"
	"errors"
	"math"

	"github.com/alexivanou/calendar-core/internal/model"
	"github.com/jmoiron/sqlx"
)

type sqliteCityRepository struct {
	db *sqlx.DB
}

func (r *sqliteCityRepository) BulkInsertCities(ctx context.Context, cities []model.CityRecord) error {
	// SQLite variable limit workaround (batch size of 80 * 10 params = 800 variables)
	return insertChunked(ctx, r.db, cities, 80)
}

func (r *sqliteCityRepository) ListCities(ctx context.Context) ([]model.CityRecord, error) {
	var rows []cityRow
	if err := r.db.SelectContext(ctx, &rows, selectCities+" ORDER BY c.position, c.city_key"); err != nil {
		return nil, err
	}
	return records(rows), nil
}

func (r *sqliteCityRepository) GetCityByKey(ctx context.Context, key string) (*model.CityRecord, error) {
	var row cityRow
	if err := r.db.GetContext(ctx, &row, selectCities+" WHERE c.city_key = ?", key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	city := row.record()
	return &city, nil
}

func (r *sqliteCityRepository) FindNearestCity(ctx context.Context, lat, lon float64) (*model.CityRecord, float64, error) {
	delta := 2.0
	q := selectCities + `
		WHERE c.latitude BETWEEN ? AND ? AND c.longitude BETWEEN ? AND ?`
	var candidates []cityRow
	err := r.db.SelectContext(ctx, &candidates, q, lat-delta, lat+delta, lon-delta, lon+delta)
	if err != nil {
		return nil, 0, err
	}

	if len(candidates) == 0 {
		if err := r.db.SelectContext(ctx, &candidates, selectCities); err != nil {
			return nil, 0, err
		}
	}

	var nearest *model.CityRecord
	minDist := math.MaxFloat64

	for i := range candidates {
		city := candidates[i].record()
		dist := calculateDistance(lat, lon, city.Coordinate.Latitude, city.Coordinate.Longitude)
		if dist < minDist {
			minDist = dist
			nearest = &city
		}
	}

	if nearest == nil {
		return nil, 0, nil
	}
	return nearest, minDist, nil
}

type sqliteCountryRepository struct {
	db *sqlx.DB
}

func (r *sqliteCountryRepository) BulkInsertCountries(ctx context.Context, countries []model.Country) error {
	if len(countries) == 0 {
		return nil
	}
	_, err := r.db.NamedExecContext(ctx, insertCountry, countries)
	return err
}

func (r *sqliteCountryRepository) ListCountries(ctx context.Context) ([]model.Country, error) {
	var countries []model.Country
	if err := r.db.SelectContext(ctx, &countries, selectCountries); err != nil {
		return nil, err
	}
	return countries, nil
}
