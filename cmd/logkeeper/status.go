package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/logkeeper/pkg/cli"
	"mercator-hq/logkeeper/pkg/config"
	"mercator-hq/logkeeper/pkg/retention/journal"
	"mercator-hq/logkeeper/pkg/retention/naming"
	"mercator-hq/logkeeper/pkg/retention/tier"
	"mercator-hq/logkeeper/pkg/telemetry/health"
)

var statusFlags struct {
	output string
	cycles int
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show tier contents and recent cycles",
	Long: `Show every file in the three tiers with its age and what the next cycle
will do with it, followed by the most recent cycles from the journal.

Examples:
  # Human-readable tables
  logkeeper status

  # JSON for scripts
  logkeeper status --output json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := cli.ParseOutputFormat(statusFlags.output)
		if err != nil {
			return err
		}

		cfg, err := loadConfig(cfgFile, "")
		if err != nil {
			return err
		}
		if _, err := setupLogging(cfg, cmd.ErrOrStderr()); err != nil {
			return cli.NewConfigError(cfgFile, err)
		}

		report, err := buildStatus(commandContext(cmd), cfg, time.Now(), statusFlags.cycles)
		if err != nil {
			return cli.NewCommandError("status", err)
		}
		if err := writeStatus(cmd.OutOrStdout(), format, report); err != nil {
			return err
		}
		if report.Health.Status != health.StatusOK {
			return cli.NewCommandError("status", errors.New("one or more health checks failed"))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().StringVarP(&statusFlags.output, "output", "o", "text", "output format: text, json")
	statusCmd.Flags().IntVar(&statusFlags.cycles, "cycles", 5, "number of recent cycles to show")
}

type statusReport struct {
	Now           time.Time      `json:"now"`
	NextRun       time.Time      `json:"next_run"`
	ShortTermDays int            `json:"short_term_days"`
	MediumTerm    int            `json:"medium_term_days"`
	LongTermDays  int            `json:"long_term_days"`
	Health        health.Report  `json:"health"`
	Items         []statusItem   `json:"items"`
	Skipped       map[string]int `json:"skipped"`
	Cycles        []statusCycle  `json:"recent_cycles,omitempty"`
}

type statusItem struct {
	Tier    string `json:"tier"`
	Name    string `json:"name"`
	Date    string `json:"date"`
	AgeDays int    `json:"age_days"`
	Action  string `json:"action"`
}

type statusCycle struct {
	ID       string    `json:"id"`
	Started  time.Time `json:"started"`
	Duration string    `json:"duration"`
	Rotated  int       `json:"rotated"`
	Archived int       `json:"archived"`
	Promoted int       `json:"promoted"`
	Expired  int       `json:"expired"`
	Error    string    `json:"error,omitempty"`
}

// buildStatus gathers health, inventory and journal without changing
// anything on disk. A journal that does not exist yet is not created. When
// the layout is unusable the report carries the failed checks and no
// inventory.
func buildStatus(ctx context.Context, cfg *config.Config, now time.Time, cycles int) (*statusReport, error) {
	trigger, err := newTrigger(cfg)
	if err != nil {
		return nil, err
	}

	var store *journal.Store
	if cfg.Journal.Enabled && fileExists(cfg.ResolvePath(cfg.Journal.Path)) {
		store, err = openJournal(cfg)
		if err != nil {
			return nil, err
		}
		defer store.Close()
	}

	manager := newManager(cfg, nil)

	report := &statusReport{
		Now:           now,
		NextRun:       trigger.Next(now),
		ShortTermDays: cfg.Retention.ShortTermDays,
		MediumTerm:    cfg.Retention.MediumTermDays,
		LongTermDays:  cfg.Retention.LongTermDays,
		Health:        checkHealth(ctx, manager.Layout(), store),
		Items:         []statusItem{},
		Skipped:       make(map[string]int),
	}

	if report.Health.Status != health.StatusOK {
		return report, nil
	}

	items, skipped, err := manager.Inventory()
	if err != nil {
		return nil, err
	}

	for _, it := range items {
		report.Items = append(report.Items, statusItem{
			Tier:    it.Tier.String(),
			Name:    it.Name,
			Date:    it.Date.Format(time.DateOnly),
			AgeDays: it.AgeDays,
			Action:  it.Disposition.String(),
		})
	}
	for _, t := range naming.Tiers {
		report.Skipped[t.String()] = skipped[t]
	}

	if store != nil && cycles > 0 {
		recent, err := store.Recent(ctx, cycles)
		if err != nil {
			return nil, err
		}
		for _, c := range recent {
			report.Cycles = append(report.Cycles, statusCycle{
				ID:       c.ID,
				Started:  c.Started,
				Duration: c.Finished.Sub(c.Started).Round(time.Millisecond).String(),
				Rotated:  c.Rotated,
				Archived: c.Archived,
				Promoted: c.Promoted,
				Expired:  c.Expired,
				Error:    c.Error,
			})
		}
	}

	return report, nil
}

func checkHealth(ctx context.Context, layout tier.Layout, store *journal.Store) health.Report {
	checker := health.New(2 * time.Second)
	checker.RegisterCheck("active_log", health.ActiveLogCheck(layout.ActiveLog))
	for _, t := range naming.Tiers {
		checker.RegisterCheck(t.String()+"_dir", health.DirCheck(layout.Dir(t)))
	}
	if store != nil {
		checker.RegisterCheck("journal", health.PingCheck(store))
	}
	return checker.Check(ctx)
}

func writeStatus(w io.Writer, format cli.OutputFormat, report *statusReport) error {
	if format == cli.FormatJSON {
		return cli.WriteJSON(w, report)
	}

	fmt.Fprintf(w, "Health: %s\n", report.Health.Status)
	for _, name := range report.Health.Names() {
		if res := report.Health.Checks[name]; res.Status != health.StatusOK {
			fmt.Fprintf(w, "  %s: %s\n", name, res.Message)
		}
	}
	fmt.Fprintf(w, "Next cycle: %s\n", report.NextRun.Format(time.RFC3339))
	fmt.Fprintf(w, "Thresholds: short %dd, medium %dd, long %dd\n\n",
		report.ShortTermDays, report.MediumTerm, report.LongTermDays)

	if len(report.Items) == 0 {
		fmt.Fprintln(w, "No tier files.")
	} else {
		files := &cli.Table{Headers: []string{"TIER", "NAME", "DATE", "AGE", "NEXT"}}
		for _, it := range report.Items {
			files.AddRow(it.Tier, it.Name, it.Date, strconv.Itoa(it.AgeDays), it.Action)
		}
		if _, err := files.WriteTo(w); err != nil {
			return err
		}
	}

	for _, t := range naming.Tiers {
		if n := report.Skipped[t.String()]; n > 0 {
			fmt.Fprintf(w, "%d unrecognized entries in %s\n", n, t)
		}
	}

	if len(report.Cycles) == 0 {
		return nil
	}

	fmt.Fprintln(w)
	cycles := &cli.Table{Headers: []string{"STARTED", "DURATION", "ROTATED", "ARCHIVED", "PROMOTED", "EXPIRED", "ERROR"}}
	for _, c := range report.Cycles {
		errText := c.Error
		if errText == "" {
			errText = "-"
		}
		cycles.AddRow(
			c.Started.Format(time.RFC3339),
			c.Duration,
			strconv.Itoa(c.Rotated),
			strconv.Itoa(c.Archived),
			strconv.Itoa(c.Promoted),
			strconv.Itoa(c.Expired),
			errText,
		)
	}
	_, err := cycles.WriteTo(w)
	return err
}
