package service

import (
	"context"

	"github.com/alexivanou/calendar-core/internal/model"
)

// ServiceInterface defines the service interface for testing
type ServiceInterface interface {
	ListCities(ctx context.Context, lang string) (*model.CityListResponse, error)
	GetCity(ctx context.Context, key string, lang string) (*model.CityDetailResponse, error)
	FindNearestCity(ctx context.Context, lat, lon float64, lang string) (*model.NearestCityResponse, error)
	ListCountries(ctx context.Context, lang string) (*model.CountryListResponse, error)
	ReloadDirectory(ctx context.Context) error
	GetAvailableLanguages(ctx context.Context) ([]string, error)

	ShiftDay(ctx context.Context, req model.ShiftDayRequest) (*model.ShiftDay, error)
	ShiftRange(ctx context.Context, req model.ShiftRangeRequest) (*model.ShiftRangeResponse, error)
	GetSchedule(ctx context.Context) (*model.ShiftScheduleResponse, error)
	ReplaceSchedule(ctx context.Context, req model.ShiftScheduleRequest) (*model.ShiftScheduleResponse, error)
}
