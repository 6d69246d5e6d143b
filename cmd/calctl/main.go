// Command calctl answers shift and city directory questions offline,
// straight from the configuration and the dataset file.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/alexivanou/calendar-core/internal/citydir"
	"github.com/alexivanou/calendar-core/internal/config"
	"github.com/alexivanou/calendar-core/internal/jdn"
	"github.com/alexivanou/calendar-core/internal/logging"
	"github.com/alexivanou/calendar-core/internal/model"
	"github.com/alexivanou/calendar-core/internal/seeder"
	"github.com/alexivanou/calendar-core/internal/service"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	lang    string
	dataset string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "calctl",
		Short:         "Shift schedule and city directory tool",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if cfg.Log.Level == "info" {
				cfg.Log.Level = "warn"
			}
			logger, err := logging.New(cfg.Log)
			if err != nil {
				return err
			}
			a.cfg, a.logger = cfg, logger
			if a.lang == "" {
				a.lang = cfg.App.Language
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.lang, "lang", "l", "", "Language (defaults to APP_LANGUAGE)")
	rootCmd.PersistentFlags().StringVarP(&a.dataset, "dataset", "d", "", "Dataset path (defaults to SEEDER_DATA_DIR/SEEDER_DATASET_FILE)")

	rootCmd.AddCommand(a.shiftCmd(), a.citiesCmd())
	return rootCmd
}

// loadDirectory builds a directory straight from the dataset file.
func (a *app) loadDirectory(ctx context.Context) (*citydir.Directory, error) {
	seederCfg := a.cfg.Seeder
	dataDir := seederCfg.DataDir
	if a.dataset != "" {
		dataDir, seederCfg.DatasetFile = filepath.Split(a.dataset)
	}

	parser := seeder.NewParser(dataDir, seederCfg)
	records, err := parser.ParseCities()
	if err != nil {
		return nil, err
	}
	if diag := parser.Diagnostics(); diag != nil {
		a.logger.Warn("Skipped malformed dataset entries", zap.Error(diag))
	}

	directory := citydir.NewDirectory([]string{a.lang}, a.logger)
	if err := directory.Rebuild(ctx, records); err != nil {
		return nil, err
	}
	return directory, nil
}

func (a *app) citiesCmd() *cobra.Command {
	var country string

	cmd := &cobra.Command{
		Use:   "cities",
		Short: "List cities in selection order for a language",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			directory, err := a.loadDirectory(cmd.Context())
			if err != nil {
				return err
			}
			svc := service.NewService(nil, nil, directory, a.lang, a.logger)
			list, err := svc.ListCities(cmd.Context(), a.lang)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, c := range list.Results {
				if country != "" && c.CountryCode != country {
					continue
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%.4f\t%.4f\n", c.Key, c.CountryCode, c.Name, c.Coordinate.Latitude, c.Coordinate.Longitude)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&country, "country", "", "Only list cities of this country code")
	return cmd
}

type shiftFlags struct {
	setting     string
	start       string
	recurs      bool
	abbreviated bool
}

func (a *app) shiftCmd() *cobra.Command {
	var flags shiftFlags

	cmd := &cobra.Command{
		Use:   "shift",
		Short: "Resolve shift work labels",
	}
	cmd.PersistentFlags().StringVar(&flags.setting, "setting", "", "Segments as key=length,... (defaults to SHIFT_WORK_SETTING)")
	cmd.PersistentFlags().StringVar(&flags.start, "start", "", "Cycle start as JDN or YYYY-MM-DD (defaults to SHIFT_WORK_STARTING_JDN)")
	cmd.PersistentFlags().BoolVar(&flags.recurs, "recurs", true, "Repeat the cycle forever")
	cmd.PersistentFlags().BoolVarP(&flags.abbreviated, "abbreviated", "a", false, "Print abbreviated labels")

	cmd.AddCommand(a.shiftDayCmd(&flags), a.shiftRangeCmd(&flags))
	return cmd
}

func (a *app) shiftService(cmd *cobra.Command, flags *shiftFlags) (*service.Service, error) {
	shiftCfg := a.cfg.Shift
	if flags.setting != "" {
		shiftCfg.Setting = flags.setting
	}
	if flags.start != "" {
		start, err := parseDay(flags.start)
		if err != nil {
			return nil, fmt.Errorf("invalid --start: %w", err)
		}
		shiftCfg.StartingJDN = start
	}
	if cmd.Flags().Changed("recurs") {
		shiftCfg.Recurs = flags.recurs
	}

	svc := service.NewService(nil, nil, citydir.NewDirectory(nil, a.logger), a.lang, a.logger)
	if err := svc.SetSchedule(service.ScheduleSettings(shiftCfg)); err != nil {
		return nil, err
	}
	return svc, nil
}

func (a *app) shiftDayCmd(flags *shiftFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "day [JDN|YYYY-MM-DD]",
		Short: "Print the shift of one day, today by default",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			day := jdn.FromTime(time.Now())
			if len(args) == 1 {
				var err error
				if day, err = parseDay(args[0]); err != nil {
					return fmt.Errorf("invalid day: %w", err)
				}
			}

			svc, err := a.shiftService(cmd, flags)
			if err != nil {
				return err
			}
			resolved, err := svc.ShiftDay(cmd.Context(), model.ShiftDayRequest{JDN: day, Abbreviated: flags.abbreviated, Lang: a.lang})
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			printDay(tw, *resolved)
			return tw.Flush()
		},
	}
}

func (a *app) shiftRangeCmd(flags *shiftFlags) *cobra.Command {
	var fromStr, toStr string

	cmd := &cobra.Command{
		Use:   "range",
		Short: "Print the shifts of consecutive days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if fromStr == "" || toStr == "" {
				return fmt.Errorf("both --from and --to must be specified")
			}
			from, err := parseDay(fromStr)
			if err != nil {
				return fmt.Errorf("invalid from date: %w", err)
			}
			to, err := parseDay(toStr)
			if err != nil {
				return fmt.Errorf("invalid to date: %w", err)
			}

			svc, err := a.shiftService(cmd, flags)
			if err != nil {
				return err
			}
			resp, err := svc.ShiftRange(cmd.Context(), model.ShiftRangeRequest{
				From: from, To: to, Abbreviated: flags.abbreviated, Lang: a.lang,
			})
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, d := range resp.Days {
				printDay(tw, d)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&fromStr, "from", "", "First day (JDN or YYYY-MM-DD)")
	cmd.Flags().StringVar(&toStr, "to", "", "Last day, inclusive")
	return cmd
}

func printDay(w *tabwriter.Writer, d model.ShiftDay) {
	label := d.Label
	if !d.Found {
		label = "-"
	}
	rest := ""
	if d.Rest {
		rest = "rest"
	}
	fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", d.Date, d.JDN, label, rest)
}

// parseDay accepts a JDN or a YYYY-MM-DD date.
func parseDay(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n, nil
	}
	return jdn.Parse(raw)
}
