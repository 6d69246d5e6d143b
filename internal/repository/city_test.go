package repository

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"github.com/alexivanou/calendar-core/internal/config"
	"github.com/alexivanou/calendar-core/internal/database"
	"github.com/alexivanou/calendar-core/internal/model"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCountries = []model.Country{
	{Code: "ir", NameEn: "Iran", NameFa: "ایران", NameCkb: "ئێران", NameAr: "إيران", Position: 0},
	{Code: "iq", NameEn: "Iraq", NameFa: "عراق", NameCkb: "عێراق", NameAr: "العراق", Position: 1},
}

var testCities = []model.CityRecord{
	{
		Key: "tehran", CountryCode: "ir",
		Names:      model.Names{En: "Tehran", Fa: "تهران", Ckb: "تاران", Ar: "طهران"},
		Coordinate: model.Coordinate{Latitude: 35.6892, Longitude: 51.3890},
	},
	{
		Key: "mashhad", CountryCode: "ir",
		Names:      model.Names{En: "Mashhad", Fa: "مشهد", Ckb: "مەشهەد", Ar: "مشهد"},
		Coordinate: model.Coordinate{Latitude: 36.2605, Longitude: 59.6168},
	},
	{
		Key: "erbil", CountryCode: "iq",
		Names:      model.Names{En: "Erbil", Fa: "اربیل", Ckb: "هەولێر", Ar: "أربيل"},
		Coordinate: model.Coordinate{Latitude: 36.1911, Longitude: 44.0092, Elevation: 420},
	},
}

func setupDB(t *testing.T) *sqlx.DB {
	t.Helper()
	cfg := config.DBConfig{Type: config.DBTypeMemory, Name: fmt.Sprintf("repo_test_%d", rand.Int())}
	db, err := database.Connect(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(db, config.DBTypeMemory))
	return db
}

func setupRepo(t *testing.T) (*Container, *sqlx.DB) {
	t.Helper()
	db := setupDB(t)
	repos := NewRepositories(db, config.DBTypeMemory)
	ctx := context.Background()

	require.NoError(t, repos.Country.BulkInsertCountries(ctx, testCountries))
	require.NoError(t, repos.City.BulkInsertCities(ctx, testCities))
	return repos, db
}

func TestCityRepository_ListCities(t *testing.T) {
	repos, _ := setupRepo(t)

	cities, err := repos.City.ListCities(context.Background())
	require.NoError(t, err)
	require.Len(t, cities, 3)

	assert.Equal(t, []string{"tehran", "mashhad", "erbil"},
		[]string{cities[0].Key, cities[1].Key, cities[2].Key}, "stored order is insertion order")
	assert.Equal(t, testCities[2].Names, cities[2].Names)
	assert.Equal(t, "العراق", cities[2].CountryNames.Ar)
	assert.Equal(t, 420.0, cities[2].Coordinate.Elevation)
}

func TestCityRepository_GetCityByKey(t *testing.T) {
	repos, _ := setupRepo(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		key      string
		expected string
	}{
		{name: "Existing city", key: "mashhad", expected: "Mashhad"},
		{name: "Unknown key", key: "paris"},
		{name: "Empty key", key: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			city, err := repos.City.GetCityByKey(ctx, tt.key)
			require.NoError(t, err)
			if tt.expected == "" {
				assert.Nil(t, city)
				return
			}
			require.NotNil(t, city)
			assert.Equal(t, tt.expected, city.Names.En)
			assert.Equal(t, "Iran", city.CountryNames.En)
		})
	}
}

func TestCityRepository_FindNearestCity(t *testing.T) {
	repos, _ := setupRepo(t)
	ctx := context.Background()

	city, dist, err := repos.City.FindNearestCity(ctx, 35.70, 51.40)
	require.NoError(t, err)
	require.NotNil(t, city)
	assert.Equal(t, "tehran", city.Key)
	assert.Less(t, dist, 10.0)

	// outside every bounding box the whole table is scanned
	city, _, err = repos.City.FindNearestCity(ctx, 48.85, 2.35)
	require.NoError(t, err)
	require.NotNil(t, city)
	assert.Equal(t, "erbil", city.Key)
}

func TestCityRepository_FindNearestCity_Empty(t *testing.T) {
	repos := NewRepositories(setupDB(t), config.DBTypeMemory)
	city, dist, err := repos.City.FindNearestCity(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Nil(t, city)
	assert.Zero(t, dist)
}

func TestCityRepository_BulkInsertChunks(t *testing.T) {
	db := setupDB(t)
	repos := NewRepositories(db, config.DBTypeMemory)
	ctx := context.Background()
	require.NoError(t, repos.Country.BulkInsertCountries(ctx, testCountries[:1]))

	var cities []model.CityRecord
	for i := 0; i < 205; i++ {
		cities = append(cities, model.CityRecord{
			Key:         fmt.Sprintf("city_%03d", i),
			CountryCode: "ir",
			Names:       model.Names{En: fmt.Sprintf("City %d", i)},
		})
	}
	require.NoError(t, repos.City.BulkInsertCities(ctx, cities))

	listed, err := repos.City.ListCities(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 205)
	assert.Equal(t, "city_000", listed[0].Key)
	assert.Equal(t, "city_204", listed[204].Key)

	assert.Error(t, repos.City.BulkInsertCities(ctx, cities[:1]), "duplicate keys are rejected")
}

func TestCountryRepository_ListCountries(t *testing.T) {
	repos, _ := setupRepo(t)

	countries, err := repos.Country.ListCountries(context.Background())
	require.NoError(t, err)
	assert.Equal(t, testCountries, countries)
	assert.Equal(t, "ایران", countries[0].Names().Fa)
}

func TestIsDatabaseEmptyAndClear(t *testing.T) {
	ctx := context.Background()
	repos, db := setupRepo(t)

	empty, err := IsDatabaseEmpty(ctx, db)
	require.NoError(t, err)
	assert.False(t, empty)

	require.NoError(t, ClearDataset(ctx, db))

	empty, err = IsDatabaseEmpty(ctx, db)
	require.NoError(t, err)
	assert.True(t, empty)

	countries, err := repos.Country.ListCountries(ctx)
	require.NoError(t, err)
	assert.Empty(t, countries)
}
