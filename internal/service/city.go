package service

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/alexivanou/calendar-core/internal/citydir"
	"github.com/alexivanou/calendar-core/internal/locale"
	"github.com/alexivanou/calendar-core/internal/model"
)

// ReloadDirectory reads every stored city and republishes the directory
func (s *Service) ReloadDirectory(ctx context.Context) error {
	records, err := s.cityRepo.ListCities(ctx)
	if err != nil {
		return fmt.Errorf("failed to list cities: %w", err)
	}
	if err := s.directory.Rebuild(ctx, records); err != nil {
		return err
	}
	return nil
}

// ListCities returns the directory ordered for lang
func (s *Service) ListCities(ctx context.Context, lang string) (*model.CityListResponse, error) {
	lang = s.language(lang)
	field := locale.NameFieldOf(lang)

	cities := s.directory.Cities(lang)
	results := make([]model.CityItem, len(cities))
	for i, c := range cities {
		results[i] = cityItem(c, field)
	}

	return &model.CityListResponse{
		Language: lang,
		Count:    len(results),
		Results:  results,
	}, nil
}

// GetCity retrieves detailed information about a city
func (s *Service) GetCity(ctx context.Context, key string, lang string) (*model.CityDetailResponse, error) {
	city, ok := s.directory.Lookup(key)
	if !ok {
		// The directory may lag behind a fresh import
		stored, err := s.cityRepo.GetCityByKey(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("failed to get city: %w", err)
		}
		if stored == nil {
			return nil, nil // City not found
		}
		city = *stored
	}

	return cityDetail(city, locale.NameFieldOf(s.language(lang))), nil
}

// FindNearestCity finds the closest city to the given coordinates
func (s *Service) FindNearestCity(ctx context.Context, lat, lon float64, lang string) (*model.NearestCityResponse, error) {
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return nil, fmt.Errorf("%w: coordinates out of range", ErrInvalidRequest)
	}

	city, dist, err := s.cityRepo.FindNearestCity(ctx, lat, lon)
	if err != nil {
		return nil, fmt.Errorf("failed to find nearest city: %w", err)
	}
	if city == nil {
		return nil, nil
	}

	return &model.NearestCityResponse{
		City:               *cityDetail(*city, locale.NameFieldOf(s.language(lang))),
		RequestCoordinates: model.Coordinate{Latitude: lat, Longitude: lon},
		DistanceKm:         dist,
	}, nil
}

// ListCountries returns the stored countries in the preference order of lang
func (s *Service) ListCountries(ctx context.Context, lang string) (*model.CountryListResponse, error) {
	lang = s.language(lang)
	countries, err := s.countryRepo.ListCountries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list countries: %w", err)
	}

	group := locale.GroupOf(lang)
	slices.SortStableFunc(countries, func(a, b model.Country) int {
		return cmp.Compare(citydir.CountryRank(a.Code, group), citydir.CountryRank(b.Code, group))
	})

	field := locale.NameFieldOf(lang)
	results := make([]model.CountryItem, len(countries))
	for i, c := range countries {
		results[i] = model.CountryItem{Code: c.Code, Name: c.Names().Get(field), Names: c.Names()}
	}
	return &model.CountryListResponse{Language: lang, Count: len(results), Results: results}, nil
}

func cityItem(c model.CityRecord, field locale.NameField) model.CityItem {
	return model.CityItem{
		Key:         c.Key,
		Name:        c.Names.Get(field),
		Country:     c.CountryNames.Get(field),
		CountryCode: c.CountryCode,
		Coordinate:  c.Coordinate,
	}
}

func cityDetail(c model.CityRecord, field locale.NameField) *model.CityDetailResponse {
	return &model.CityDetailResponse{
		CityItem:     cityItem(c, field),
		Names:        c.Names,
		CountryNames: c.CountryNames,
	}
}
