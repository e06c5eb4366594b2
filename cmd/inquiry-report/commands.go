package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/ignite/inquiry-dashboard/internal/config"
	"github.com/ignite/inquiry-dashboard/internal/dashboard"
	"github.com/ignite/inquiry-dashboard/internal/inquiry"
	"github.com/ignite/inquiry-dashboard/internal/pkg/logger"
	"github.com/ignite/inquiry-dashboard/internal/source"
)

type reportOptions struct {
	csvPath    string
	configPath string
	unit       string
	year       int
	index      int
	now        func() time.Time
}

func newRootCmd() *cobra.Command {
	opts := &reportOptions{now: time.Now}

	root := &cobra.Command{
		Use:   "inquiry-report",
		Short: "Print inquiry dashboard figures from the sheet",
		Long: `Loads the inquiry sheet from a CSV export (--csv) or the source in the
YAML config (--config) and prints the requested figures as JSON.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.SetOutput(cmd.ErrOrStderr())
			logger.SetLevel(logger.WARN)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.csvPath, "csv", "", "CSV export of the sheet")
	pf.StringVar(&opts.configPath, "config", "", "YAML config whose source is used when --csv is not set")
	pf.StringVar(&opts.unit, "unit", "month", "period unit: month, quarter or year")
	pf.IntVar(&opts.year, "year", 0, "period year (default: current)")
	pf.IntVar(&opts.index, "index", 0, "month 1-12 or quarter 1-4 (default: current)")

	root.AddCommand(
		&cobra.Command{
			Use:   "summary",
			Short: "Overview of one period: KPIs and every breakdown",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return opts.run(cmd, func(e *inquiry.Engine, snap *dashboard.Snapshot, p inquiry.Period) interface{} {
					return dashboard.BuildOverview(e, snap, p)
				})
			},
		},
		&cobra.Command{
			Use:   "attorneys",
			Short: "Inquiries, contracts and conversion rate per attorney",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return opts.run(cmd, func(e *inquiry.Engine, snap *dashboard.Snapshot, p inquiry.Period) interface{} {
					return e.ByAttorney(dashboard.InquiriesIn(snap.Inquiries, p))
				})
			},
		},
		&cobra.Command{
			Use:   "fields",
			Short: "Countable inquiries per field",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return opts.run(cmd, func(e *inquiry.Engine, snap *dashboard.Snapshot, p inquiry.Period) interface{} {
					return e.ByField(dashboard.InquiriesIn(snap.Inquiries, p))
				})
			},
		},
		&cobra.Command{
			Use:   "media",
			Short: "Countable inquiries and conversion per media category",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return opts.run(cmd, func(e *inquiry.Engine, snap *dashboard.Snapshot, p inquiry.Period) interface{} {
					return e.ByMediaCategory(dashboard.InquiriesIn(snap.Inquiries, p))
				})
			},
		},
	)
	return root
}

type reportFunc func(e *inquiry.Engine, snap *dashboard.Snapshot, p inquiry.Period) interface{}

func (o *reportOptions) run(cmd *cobra.Command, report reportFunc) error {
	period, err := o.period()
	if err != nil {
		return err
	}
	src, classifier, err := o.source(cmd.Context())
	if err != nil {
		return err
	}

	r := dashboard.NewRefresher(dashboard.Options{
		Source:     src,
		Cache:      dashboard.NewMemoryCache(0),
		Classifier: classifier,
	})
	snap, err := r.Refresh(cmd.Context())
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), report(r.Engine(), snap, period))
}

func (o *reportOptions) period() (inquiry.Period, error) {
	def := inquiry.PeriodContaining(inquiry.PeriodUnit(o.unit), o.now())
	year, index := o.year, o.index
	if year == 0 {
		year = def.Year
	}
	if index == 0 {
		index = def.Index
	}
	return inquiry.NewPeriod(o.unit, year, index)
}

func (o *reportOptions) source(ctx context.Context) (source.RowSource, *inquiry.MediaClassifier, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if o.csvPath != "" {
		var classifier *inquiry.MediaClassifier
		if o.configPath != "" {
			cfg, err := config.Load(o.configPath)
			if err != nil {
				return nil, nil, err
			}
			classifier = inquiry.NewMediaClassifier(cfg.Media.Tables())
		}
		return source.NewCSVSource(o.csvPath), classifier, nil
	}
	if o.configPath == "" {
		return nil, nil, fmt.Errorf("either --csv or --config is required")
	}
	cfg, err := config.LoadFromEnv(o.configPath)
	if err != nil {
		return nil, nil, err
	}
	src, err := source.New(ctx, cfg.Source)
	if err != nil {
		return nil, nil, err
	}
	return src, inquiry.NewMediaClassifier(cfg.Media.Tables()), nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
