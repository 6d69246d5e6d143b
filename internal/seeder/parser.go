package seeder

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexivanou/calendar-core/internal/citydir"
	"github.com/alexivanou/calendar-core/internal/config"
	"github.com/alexivanou/calendar-core/internal/model"
)

// maxDatasetSize bounds how much of a dataset file is read into memory
const maxDatasetSize = 64 << 20

// Parser reads the city dataset from the data directory
type Parser struct {
	dataDir          string
	datasetFile      string
	partial          bool
	allowedCountries map[string]bool
	diagnostics      error
}

// NewParser creates a new parser instance with config
func NewParser(dataDir string, seederCfg config.SeederConfig) *Parser {
	var allowed map[string]bool
	if len(seederCfg.AllowedCountries) > 0 {
		allowed = make(map[string]bool, len(seederCfg.AllowedCountries))
		for _, code := range seederCfg.AllowedCountries {
			allowed[strings.ToLower(code)] = true
		}
	}

	datasetFile := seederCfg.DatasetFile
	if datasetFile == "" {
		datasetFile = "cities.json"
	}

	return &Parser{
		dataDir:          dataDir,
		datasetFile:      datasetFile,
		partial:          seederCfg.Partial,
		allowedCountries: allowed,
	}
}

// ParseCities reads and parses the dataset. A zip archive next to the
// dataset file (cities.json -> cities.zip) takes precedence.
func (p *Parser) ParseCities() ([]model.CityRecord, error) {
	zipPath := filepath.Join(p.dataDir, strings.TrimSuffix(p.datasetFile, filepath.Ext(p.datasetFile))+".zip")
	if _, err := os.Stat(zipPath); err == nil {
		return p.parseCitiesFromZip(zipPath)
	}

	filePath := filepath.Join(p.dataDir, p.datasetFile)
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", p.datasetFile, err)
	}
	defer file.Close()

	return p.parseCitiesFromReader(file)
}

// Diagnostics returns the entries skipped by the last partial parse
func (p *Parser) Diagnostics() error {
	return p.diagnostics
}

func (p *Parser) parseCitiesFromZip(zipPath string) ([]model.CityRecord, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open zip: %w", err)
	}
	defer r.Close()

	for _, f := range r.File {
		if strings.HasSuffix(f.Name, ".json") {
			rc, err := f.Open()
			if err != nil {
				return nil, fmt.Errorf("failed to open file in zip: %w", err)
			}
			defer rc.Close()
			return p.parseCitiesFromReader(rc)
		}
	}

	return nil, fmt.Errorf("no json file found in zip")
}

func (p *Parser) parseCitiesFromReader(reader io.Reader) ([]model.CityRecord, error) {
	raw, err := io.ReadAll(io.LimitReader(reader, maxDatasetSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}
	if len(raw) > maxDatasetSize {
		return nil, fmt.Errorf("dataset exceeds %d bytes", maxDatasetSize)
	}

	p.diagnostics = nil
	var records []model.CityRecord
	if p.partial {
		records, p.diagnostics = citydir.ParsePartial(raw)
		if records == nil {
			return nil, fmt.Errorf("failed to parse dataset: %w", p.diagnostics)
		}
	} else {
		records, err = citydir.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse dataset: %w", err)
		}
	}

	return p.filter(records), nil
}

func (p *Parser) filter(records []model.CityRecord) []model.CityRecord {
	if p.allowedCountries == nil {
		return records
	}
	kept := make([]model.CityRecord, 0, len(records))
	for _, r := range records {
		if p.allowedCountries[strings.ToLower(r.CountryCode)] {
			kept = append(kept, r)
		}
	}
	return kept
}
