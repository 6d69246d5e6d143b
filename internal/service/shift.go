package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexivanou/calendar-core/internal/config"
	"github.com/alexivanou/calendar-core/internal/jdn"
	"github.com/alexivanou/calendar-core/internal/locale"
	"github.com/alexivanou/calendar-core/internal/model"
	"github.com/alexivanou/calendar-core/internal/shiftwork"
	"go.uber.org/zap"
)

// maxRangeDays bounds a single range query
const maxRangeDays = 366

type activeSchedule struct {
	schedule  *shiftwork.Schedule
	updatedAt time.Time
}

// ScheduleSettings turns the persisted configuration into schedule
// settings, filling in the default titles and rest key.
func ScheduleSettings(cfg config.ShiftConfig) shiftwork.Settings {
	titles := cfg.Titles
	if len(titles) == 0 {
		titles = shiftwork.DefaultTitles
	}
	restKeys := cfg.RestKeys
	if len(restKeys) == 0 {
		restKeys = []string{shiftwork.DefaultRestKey}
	}
	return shiftwork.Settings{
		Raw:      cfg.Setting,
		StartJDN: cfg.StartingJDN,
		Recurs:   cfg.Recurs,
		Titles:   titles,
		RestKeys: restKeys,
	}
}

// SetSchedule installs a new schedule. A malformed one is replaced by the
// empty schedule and the parse error is returned.
func (s *Service) SetSchedule(settings shiftwork.Settings) error {
	sched, err := shiftwork.New(settings)
	s.schedule.Store(&activeSchedule{schedule: sched, updatedAt: time.Now()})
	if err != nil {
		s.logger.Warn("Invalid shift work setting, using empty schedule", zap.Error(err))
		return err
	}
	s.logger.Info("Shift schedule installed",
		zap.Int64("start_jdn", sched.StartJDN()),
		zap.Int64("period", sched.Period()),
		zap.Bool("recurs", sched.Recurs()),
	)
	return nil
}

// ShiftDay resolves the shift label of one day
func (s *Service) ShiftDay(ctx context.Context, req model.ShiftDayRequest) (*model.ShiftDay, error) {
	sched := s.schedule.Load().schedule
	day := resolveDay(sched, req.JDN, req.Abbreviated, s.language(req.Lang))
	return &day, nil
}

// ShiftRange resolves consecutive days, both ends inclusive
func (s *Service) ShiftRange(ctx context.Context, req model.ShiftRangeRequest) (*model.ShiftRangeResponse, error) {
	if req.To < req.From {
		return nil, fmt.Errorf("%w: range end precedes its start", ErrInvalidRequest)
	}
	// unsigned difference stays exact across the whole int64 range
	span := uint64(req.To) - uint64(req.From)
	if span >= maxRangeDays {
		return nil, fmt.Errorf("%w: range covers more than %d days", ErrInvalidRequest, maxRangeDays)
	}

	sched := s.schedule.Load().schedule
	lang := s.language(req.Lang)
	days := make([]model.ShiftDay, 0, span+1)
	for i := int64(0); i <= int64(span); i++ {
		n := req.From + i
		if i%64 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		days = append(days, resolveDay(sched, n, req.Abbreviated, lang))
	}

	return &model.ShiftRangeResponse{From: req.From, To: req.To, Days: days}, nil
}

// GetSchedule describes the active schedule
func (s *Service) GetSchedule(ctx context.Context) (*model.ShiftScheduleResponse, error) {
	return describe(s.schedule.Load()), nil
}

// ReplaceSchedule swaps the active schedule for the one in req. Readers
// see either the old or the new schedule, never a mix.
func (s *Service) ReplaceSchedule(ctx context.Context, req model.ShiftScheduleRequest) (*model.ShiftScheduleResponse, error) {
	start := req.StartJDN
	if req.StartDate != "" {
		parsed, err := jdn.Parse(req.StartDate)
		if err != nil {
			return nil, fmt.Errorf("%w: start_date: %v", ErrInvalidRequest, err)
		}
		start = parsed
	}
	if start < 0 && start != shiftwork.UnsetStart {
		return nil, fmt.Errorf("%w: start_jdn %d is negative", ErrInvalidRequest, start)
	}

	recurs := true
	if req.Recurs != nil {
		recurs = *req.Recurs
	}

	settings := ScheduleSettings(config.ShiftConfig{
		Setting:     req.Setting,
		StartingJDN: start,
		Recurs:      recurs,
		Titles:      req.Titles,
		RestKeys:    req.RestKeys,
	})
	if err := s.SetSchedule(settings); err != nil {
		return nil, fmt.Errorf("failed to replace schedule: %w", err)
	}
	return describe(s.schedule.Load()), nil
}

func resolveDay(sched *shiftwork.Schedule, n int64, abbreviated bool, lang string) model.ShiftDay {
	day := model.ShiftDay{JDN: n, Date: jdn.Format(n)}
	label, ok := sched.Lookup(n)
	if !ok {
		return day
	}

	day.Found = true
	day.Key = label.Key
	day.Rest = label.Rest
	if abbr := sched.Title(n, true); abbr != "" {
		day.Abbreviation = abbr + locale.AbbreviationJoiner(lang)
	}
	if abbreviated {
		day.Label = day.Abbreviation
	} else {
		day.Label = label.Title
	}
	return day
}

func describe(active *activeSchedule) *model.ShiftScheduleResponse {
	sched := active.schedule
	segments := sched.Segments()
	wire := make([]model.ShiftSegment, len(segments))
	for i, seg := range segments {
		wire[i] = model.ShiftSegment{
			Key:    seg.Key,
			Length: seg.Length,
			Title:  sched.TitleOf(seg.Key),
			Rest:   seg.Rest,
		}
	}

	resp := &model.ShiftScheduleResponse{
		Setting:   shiftwork.FormatSegments(segments),
		StartJDN:  sched.StartJDN(),
		Recurs:    sched.Recurs(),
		Period:    sched.Period(),
		Segments:  wire,
		UpdatedAt: active.updatedAt,
	}
	if sched.StartJDN() != shiftwork.UnsetStart {
		resp.StartDate = jdn.Format(sched.StartJDN())
	}
	return resp
}
