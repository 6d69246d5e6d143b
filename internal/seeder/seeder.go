// Package seeder imports the bundled city dataset into the database.
package seeder

import (
	"context"
	"fmt"

	"github.com/alexivanou/calendar-core/internal/model"
	"github.com/alexivanou/calendar-core/internal/repository"
)

// CountriesFromRecords derives the country rows from denormalized city
// records, in order of first appearance.
func CountriesFromRecords(records []model.CityRecord) []model.Country {
	seen := make(map[string]bool)
	var countries []model.Country
	for _, r := range records {
		if seen[r.CountryCode] {
			continue
		}
		seen[r.CountryCode] = true
		countries = append(countries, model.Country{
			Code:     r.CountryCode,
			NameEn:   r.CountryNames.En,
			NameFa:   r.CountryNames.Fa,
			NameCkb:  r.CountryNames.Ckb,
			NameAr:   r.CountryNames.Ar,
			Position: len(countries),
		})
	}
	return countries
}

// Result summarizes one import
type Result struct {
	Countries int
	Cities    int
}

// Seed stores records and the countries they belong to
func Seed(ctx context.Context, repos *repository.Container, records []model.CityRecord) (Result, error) {
	countries := CountriesFromRecords(records)

	if err := repos.Country.BulkInsertCountries(ctx, countries); err != nil {
		return Result{}, fmt.Errorf("failed to insert countries: %w", err)
	}
	if err := repos.City.BulkInsertCities(ctx, records); err != nil {
		return Result{}, fmt.Errorf("failed to insert cities: %w", err)
	}

	return Result{Countries: len(countries), Cities: len(records)}, nil
}
