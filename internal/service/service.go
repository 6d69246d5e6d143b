package service

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/alexivanou/calendar-core/internal/citydir"
	"github.com/alexivanou/calendar-core/internal/locale"
	"github.com/alexivanou/calendar-core/internal/repository"
	"github.com/alexivanou/calendar-core/internal/shiftwork"
	"go.uber.org/zap"
)

// ErrInvalidRequest marks request parameters the service refuses
var ErrInvalidRequest = errors.New("invalid request")

// Service provides business logic for the API
type Service struct {
	cityRepo    repository.CityRepository
	countryRepo repository.CountryRepository
	directory   *citydir.Directory
	schedule    atomic.Pointer[activeSchedule]
	defaultLang string
	logger      *zap.Logger
}

// NewService creates a new service instance. It starts with the empty
// shift schedule until SetSchedule or ReplaceSchedule installs one.
func NewService(
	cityRepo repository.CityRepository,
	countryRepo repository.CountryRepository,
	directory *citydir.Directory,
	defaultLang string,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		cityRepo:    cityRepo,
		countryRepo: countryRepo,
		directory:   directory,
		defaultLang: locale.Normalize(defaultLang),
		logger:      logger,
	}
	s.schedule.Store(&activeSchedule{schedule: shiftwork.Empty(), updatedAt: time.Now()})
	return s
}

// GetAvailableLanguages returns a list of all available languages
func (s *Service) GetAvailableLanguages(ctx context.Context) ([]string, error) {
	langs := make([]string, len(locale.Supported))
	copy(langs, locale.Supported)
	return langs, nil
}

func (s *Service) language(lang string) string {
	if lang == "" {
		return s.defaultLang
	}
	return locale.Normalize(lang)
}
