package citydir

import (
	"context"
	"fmt"
	"slices"
	"sync/atomic"
	"time"

	"github.com/alexivanou/calendar-core/internal/locale"
	"github.com/alexivanou/calendar-core/internal/model"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Snapshot is one fully built directory. It is never modified after it
// has been published, so the slices it hands out must not be modified
// either.
type Snapshot struct {
	records []model.CityRecord
	index   map[string]int
	sorted  map[string][]model.CityRecord
	builtAt time.Time
}

// Len returns the number of records.
func (s *Snapshot) Len() int { return len(s.records) }

// Records returns the records in dataset order.
func (s *Snapshot) Records() []model.CityRecord { return s.records }

// BuiltAt is when the snapshot was published.
func (s *Snapshot) BuiltAt() time.Time { return s.builtAt }

// Languages lists the languages with a prebuilt ordering.
func (s *Snapshot) Languages() []string {
	langs := make([]string, 0, len(s.sorted))
	for lang := range s.sorted {
		langs = append(langs, lang)
	}
	slices.Sort(langs)
	return langs
}

// Directory publishes city snapshots. Readers always see either the old or
// the new snapshot in full.
type Directory struct {
	current   atomic.Pointer[Snapshot]
	languages []string
	logger    *zap.Logger
}

// NewDirectory creates an empty directory that prebuilds orderings for
// languages on every rebuild.
func NewDirectory(languages []string, logger *zap.Logger) *Directory {
	if logger == nil {
		logger = zap.NewNop()
	}
	normalized := make([]string, 0, len(languages))
	for _, lang := range languages {
		lang = locale.Normalize(lang)
		if !slices.Contains(normalized, lang) {
			normalized = append(normalized, lang)
		}
	}
	d := &Directory{languages: normalized, logger: logger}
	d.current.Store(&Snapshot{
		records: []model.CityRecord{},
		index:   map[string]int{},
		sorted:  map[string][]model.CityRecord{},
	})
	return d
}

// Rebuild sorts records for every configured language and then swaps the
// new snapshot in. On error the previous snapshot stays published.
func (d *Directory) Rebuild(ctx context.Context, records []model.CityRecord) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("failed to rebuild city directory: %w", err)
	}
	snap := &Snapshot{
		records: slices.Clone(records),
		index:   make(map[string]int, len(records)),
		sorted:  make(map[string][]model.CityRecord, len(d.languages)),
	}
	if snap.records == nil {
		snap.records = []model.CityRecord{}
	}
	for i, r := range snap.records {
		if _, dup := snap.index[r.Key]; !dup {
			snap.index[r.Key] = i
		}
	}

	lists := make([][]model.CityRecord, len(d.languages))
	g, gctx := errgroup.WithContext(ctx)
	for i, lang := range d.languages {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			lists[i] = Sort(snap.records, lang)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("failed to rebuild city directory: %w", err)
	}
	for i, lang := range d.languages {
		snap.sorted[lang] = lists[i]
	}

	snap.builtAt = time.Now()
	d.current.Store(snap)
	d.logger.Info("City directory rebuilt",
		zap.Int("cities", len(snap.records)),
		zap.Int("languages", len(d.languages)),
	)
	return nil
}

// Snapshot returns the currently published snapshot.
func (d *Directory) Snapshot() *Snapshot {
	return d.current.Load()
}

// Cities returns the directory ordered for lang. Languages without a
// prebuilt ordering are sorted on demand.
func (d *Directory) Cities(lang string) []model.CityRecord {
	lang = locale.Normalize(lang)
	snap := d.current.Load()
	if list, ok := snap.sorted[lang]; ok {
		return list
	}
	return Sort(snap.records, lang)
}

// Lookup finds a city by key.
func (d *Directory) Lookup(key string) (model.CityRecord, bool) {
	snap := d.current.Load()
	i, ok := snap.index[key]
	if !ok {
		return model.CityRecord{}, false
	}
	return snap.records[i], true
}
