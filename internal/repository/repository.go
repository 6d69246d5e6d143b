package repository

import (
	"context"
	"fmt"
	"math"

	"github.com/alexivanou/calendar-core/internal/config"
	"github.com/alexivanou/calendar-core/internal/model"
	"github.com/jmoiron/sqlx"
)

// CityRepository defines operations for cities
type CityRepository interface {
	// BulkInsertCities stores cities; their slice index becomes the stored position
	BulkInsertCities(ctx context.Context, cities []model.CityRecord) error
	// ListCities returns every city in stored position order
	ListCities(ctx context.Context) ([]model.CityRecord, error)
	GetCityByKey(ctx context.Context, key string) (*model.CityRecord, error)
	FindNearestCity(ctx context.Context, lat, lon float64) (*model.CityRecord, float64, error)
}

// CountryRepository defines operations for countries
type CountryRepository interface {
	BulkInsertCountries(ctx context.Context, countries []model.Country) error
	ListCountries(ctx context.Context) ([]model.Country, error)
}

// Container holds all repositories
type Container struct {
	City    CityRepository
	Country CountryRepository
}

// NewRepositories creates repository implementations based on DB type
func NewRepositories(db *sqlx.DB, dbType config.DBType) *Container {
	if dbType == config.DBTypePostgreSQL {
		return &Container{
			City:    &pgCityRepository{db: db},
			Country: &pgCountryRepository{db: db},
		}
	}

	// Default to SQLite
	return &Container{
		City:    &sqliteCityRepository{db: db},
		Country: &sqliteCountryRepository{db: db},
	}
}

// Helper to check if DB is empty (used by main)
func IsDatabaseEmpty(ctx context.Context, db *sqlx.DB) (bool, error) {
	var count int
	// Using a safe query that works on both
	query := "SELECT COUNT(*) FROM cities"
	err := db.GetContext(ctx, &count, query)
	if err != nil {
		// Simplify error handling for non-existent tables
		return true, nil
	}
	return count == 0, nil
}

// ClearDataset removes every city and country
func ClearDataset(ctx context.Context, db *sqlx.DB) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"cities", "countries"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return tx.Commit()
}

// cityRow is a city joined with its country
type cityRow struct {
	Key            string  `db:"city_key"`
	CountryCode    string  `db:"country_code"`
	NameEn         string  `db:"name_en"`
	NameFa         string  `db:"name_fa"`
	NameCkb        string  `db:"name_ckb"`
	NameAr         string  `db:"name_ar"`
	Latitude       float64 `db:"latitude"`
	Longitude      float64 `db:"longitude"`
	Elevation      float64 `db:"elevation"`
	Position       int     `db:"position"`
	CountryNameEn  string  `db:"country_name_en"`
	CountryNameFa  string  `db:"country_name_fa"`
	CountryNameCkb string  `db:"country_name_ckb"`
	CountryNameAr  string  `db:"country_name_ar"`
}

func newCityRow(c model.CityRecord, position int) cityRow {
	return cityRow{
		Key:         c.Key,
		CountryCode: c.CountryCode,
		NameEn:      c.Names.En,
		NameFa:      c.Names.Fa,
		NameCkb:     c.Names.Ckb,
		NameAr:      c.Names.Ar,
		Latitude:    c.Coordinate.Latitude,
		Longitude:   c.Coordinate.Longitude,
		Elevation:   c.Coordinate.Elevation,
		Position:    position,
	}
}

func (r cityRow) record() model.CityRecord {
	return model.CityRecord{
		Key:          r.Key,
		Names:        model.Names{En: r.NameEn, Fa: r.NameFa, Ckb: r.NameCkb, Ar: r.NameAr},
		CountryCode:  r.CountryCode,
		CountryNames: model.Names{En: r.CountryNameEn, Fa: r.CountryNameFa, Ckb: r.CountryNameCkb, Ar: r.CountryNameAr},
		Coordinate: model.Coordinate{
			Latitude:  r.Latitude,
			Longitude: r.Longitude,
			Elevation: r.Elevation,
		},
	}
}

func records(rows []cityRow) []model.CityRecord {
	out := make([]model.CityRecord, len(rows))
	for i, row := range rows {
		out[i] = row.record()
	}
	return out
}

const selectCities = `
	SELECT
		c.city_key, c.country_code, c.name_en, c.name_fa, c.name_ckb, c.name_ar,
		c.latitude, c.longitude, c.elevation, c.position,
		cnt.name_en AS country_name_en,
		cnt.name_fa AS country_name_fa,
		cnt.name_ckb AS country_name_ckb,
		cnt.name_ar AS country_name_ar
	FROM cities c
	JOIN countries cnt ON c.country_code = cnt.code`

const insertCity = `
	INSERT INTO cities (city_key, country_code, name_en, name_fa, name_ckb, name_ar, latitude, longitude, elevation, position)
	VALUES (:city_key, :country_code, :name_en, :name_fa, :name_ckb, :name_ar, :latitude, :longitude, :elevation, :position)`

const insertCountry = `
	INSERT INTO countries (code, name_en, name_fa, name_ckb, name_ar, position)
	VALUES (:code, :name_en, :name_fa, :name_ckb, :name_ar, :position)`

const selectCountries = `
	SELECT code, name_en, name_fa, name_ckb, name_ar, position
	FROM countries
	ORDER BY position, code`

func insertChunked(ctx context.Context, db *sqlx.DB, cities []model.CityRecord, chunkSize int) error {
	for i := 0; i < len(cities); i += chunkSize {
		end := i + chunkSize
		if end > len(cities) {
			end = len(cities)
		}
		batch := make([]cityRow, 0, end-i)
		for j := i; j < end; j++ {
			batch = append(batch, newCityRow(cities[j], j))
		}

		if _, err := db.NamedExecContext(ctx, insertCity, batch); err != nil {
			return fmt.Errorf("failed to insert cities batch: %w", err)
		}
	}
	return nil
}

// calculateDistance returns the great-circle distance in kilometers
func calculateDistance(lat1, lon1, lat2, lon2 float64) float64 {
	const R = 6371
	dLat := (lat2 - lat1) * (math.Pi / 180.0)
	dLon := (lon2 - lon1) * (math.Pi / 180.0)
	lat1Rad := lat1 * (math.Pi / 180.0)
	lat2Rad := lat2 * (math.Pi / 180.0)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1Rad)*math.Cos(lat2Rad)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return R * c
}
