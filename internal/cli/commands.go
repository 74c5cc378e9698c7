package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ewu-ics-cal/ewucal/internal/calendar"
	"github.com/ewu-ics-cal/ewucal/internal/event"
	"github.com/ewu-ics-cal/ewucal/internal/extract"
	"github.com/ewu-ics-cal/ewucal/internal/filter"
	"github.com/ewu-ics-cal/ewucal/internal/logger"
	"github.com/ewu-ics-cal/ewucal/internal/notifier"
	"github.com/ewu-ics-cal/ewucal/internal/server"
	"github.com/ewu-ics-cal/ewucal/internal/storage"
)

func newCalendarsCmd(a *app) *cobra.Command {
	var flagFormat string

	cmd := &cobra.Command{
		Use:   "calendars",
		Short: "List the published academic calendars",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := parseFormat(flagFormat)
			if err != nil {
				return err
			}

			listings, err := a.scraper.Index(cmd.Context())
			if err != nil {
				return fmt.Errorf("fetching calendar index: %w", err)
			}

			return WriteListings(cmd.OutOrStdout(), listings, format)
		},
	}

	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
	return cmd
}

func newEntriesCmd(a *app) *cobra.Command {
	var (
		flagPath     string
		flagFormat   string
		flagSort     string
		flagLenient  bool
		flagFrom     string
		flagTo       string
		flagContains []string
		flagWeekends bool
	)

	cmd := &cobra.Command{
		Use:   "entries",
		Short: "Print the entries of one calendar",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := parseFormat(flagFormat)
			if err != nil {
				return err
			}
			order, err := parseSortOrder(flagSort)
			if err != nil {
				return err
			}

			f := filter.NewFilter()
			f.Contains = flagContains
			f.WeekendsOnly = flagWeekends
			if flagFrom != "" {
				from, err := filter.ParseDate(flagFrom)
				if err != nil {
					return fmt.Errorf("--from: %w", err)
				}
				f.From = &from
			}
			if flagTo != "" {
				to, err := filter.ParseDate(flagTo)
				if err != nil {
					return fmt.Errorf("--to: %w", err)
				}
				f.To = &to
			}

			page, err := a.scraper.Page(cmd.Context(), flagPath)
			if err != nil {
				return fmt.Errorf("fetching calendar: %w", err)
			}

			result := &EntriesResult{Path: flagPath}

			var details *event.CalendarDetails
			if flagLenient {
				res, err := extract.FromSourceLenient(page)
				if err != nil {
					return fmt.Errorf("extracting calendar: %w", err)
				}
				details = res.Details
				result.Skipped = skippedRows(res.Errors)
				for _, rowErr := range res.Errors {
					logger.Warn("row skipped", logger.Fields{"row": rowErr.Index, "date_text": rowErr.DateText, "error": rowErr.Err.Error()})
				}
			} else {
				details, err = extract.FromSource(page)
				if err != nil {
					return fmt.Errorf("extracting calendar: %w", err)
				}
			}

			selected := *details
			selected.Entries = f.Apply(details.Entries)
			if order != SortByPage {
				selected.Entries = append([]event.Entry(nil), selected.Entries...)
				sortEntries(selected.Entries, order)
			}
			if !f.IsEmpty() {
				result.Filter = f.String()
			}
			result.Record = a.emitter.Record(&selected)

			return WriteEntries(cmd.OutOrStdout(), result, format, a.verbose)
		},
	}

	cmd.Flags().StringVar(&flagPath, "path", "", "Calendar path, e.g. /academic-calendar-details/fall-2024-undergraduate (required)")
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
	cmd.Flags().StringVar(&flagSort, "sort", "page", "Sort order: page, date or text")
	cmd.Flags().BoolVar(&flagLenient, "lenient", false, "Skip unparsable rows instead of failing")
	cmd.Flags().StringVar(&flagFrom, "from", "", "Only entries ending on or after this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&flagTo, "to", "", "Only entries starting on or before this date (YYYY-MM-DD)")
	cmd.Flags().StringSliceVar(&flagContains, "contains", nil, "Only entries whose text contains any of these terms")
	cmd.Flags().BoolVar(&flagWeekends, "weekends", false, "Only entries touching a Saturday or Sunday")
	cmd.MarkFlagRequired("path")

	return cmd
}

func newGenerateCmd(a *app) *cobra.Command {
	var (
		flagPath   string
		flagOutDir string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate an iCalendar file for one calendar",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			details, err := a.scraper.Details(cmd.Context(), flagPath)
			if err != nil {
				return err
			}

			body := a.emitter.ICS(details, time.Now())

			if flagOutDir == "" {
				_, err := fmt.Fprint(cmd.OutOrStdout(), body)
				return err
			}

			store, err := storage.New(flagOutDir)
			if err != nil {
				return fmt.Errorf("initializing storage: %w", err)
			}

			name := calendar.FileName(details)
			icsPath, err := store.WriteFile(name, []byte(body))
			if err != nil {
				return err
			}
			recordPath, err := store.WriteJSON(strings.TrimSuffix(name, ".ics")+".json", a.emitter.Record(details))
			if err != nil {
				return err
			}

			logger.Info("calendar exported", logger.Fields{
				"path":    flagPath,
				"ics":     icsPath,
				"record":  recordPath,
				"entries": len(details.Entries),
			})
			fmt.Fprintln(cmd.OutOrStdout(), icsPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&flagPath, "path", "", "Calendar path (required)")
	cmd.Flags().StringVar(&flagOutDir, "out-dir", "", "Write the .ics and .json record into this directory instead of stdout")
	cmd.MarkFlagRequired("path")

	return cmd
}

func newServeCmd(a *app) *cobra.Command {
	var flagListen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the calendar API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			listen := a.cfg.Listen
			if flagListen != "" {
				listen = flagListen
			}

			srv := server.New(a.scraper,
				server.WithEmitter(a.emitter),
				server.WithLogger(logger.Default()),
			)
			return srv.Start(cmd.Context(), listen, a.cfg.Refresh)
		},
	}

	cmd.Flags().StringVar(&flagListen, "listen", "", "Listen address (default from config)")
	return cmd
}

func newWatchCmd(a *app) *cobra.Command {
	var (
		flagFormat  string
		flagDataDir string
		flagRefresh bool
		flagDryRun  bool
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Report calendars revised since the last run",
		Long: `Fetches every listed calendar, compares its revision date with the snapshot
from the previous run and reports new or revised calendars. Changes are published
to the configured SNS topic, or printed with --dry-run.

Exits with status 2 when changes were found.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := parseFormat(flagFormat)
			if err != nil {
				return err
			}

			dataDir := a.cfg.DataDir
			if flagDataDir != "" {
				dataDir = flagDataDir
			}
			store, err := storage.New(dataDir)
			if err != nil {
				return fmt.Errorf("initializing storage: %w", err)
			}

			ctx := cmd.Context()
			listings, err := a.scraper.Index(ctx)
			if err != nil {
				return fmt.Errorf("fetching calendar index: %w", err)
			}

			snapshot, err := store.LoadSnapshot()
			if err != nil {
				return fmt.Errorf("loading snapshot: %w", err)
			}

			result := &WatchResult{
				CheckedAt: time.Now().UTC(),
				Changes:   make([]notifier.Change, 0),
				Refreshed: flagRefresh,
			}

			for _, listing := range listings {
				for _, program := range listing.Programs {
					for _, link := range program.Calendars {
						details, err := a.scraper.Details(ctx, link.URL)
						if err != nil {
							result.Failed++
							logger.Warn("calendar check failed", logger.Fields{"path": link.URL, "error": err.Error()})
							continue
						}
						result.Checked++

						previous, changed := snapshot.Record(link.URL, &storage.Revision{
							Name:         details.CalendarName,
							Semester:     details.Semester,
							Year:         details.Year,
							RevisionDate: details.RevisionDate,
							CheckedAt:    result.CheckedAt,
						})
						if !changed {
							continue
						}

						change := notifier.Change{
							Path:     link.URL,
							Name:     details.CalendarName,
							Semester: details.Semester,
							Year:     details.Year,
							Current:  details.RevisionDate,
						}
						if previous != nil {
							prev := previous.RevisionDate
							change.Previous = &prev
						}
						result.Changes = append(result.Changes, change)
					}
				}
			}

			if flagRefresh {
				if err := store.SaveSnapshot(snapshot); err != nil {
					return err
				}
				result.Changes = make([]notifier.Change, 0)
				return WriteWatch(cmd.OutOrStdout(), result, format)
			}

			// save only after delivery so a failed publish is retried next run
			if len(result.Changes) > 0 {
				n, err := a.notifier(cmd, flagDryRun)
				if err != nil {
					return err
				}
				if n != nil {
					if err := n.Notify(ctx, result.Changes); err != nil {
						return fmt.Errorf("sending notifications: %w", err)
					}
				}
				a.exitCode = ExitChanges
			}

			if err := store.SaveSnapshot(snapshot); err != nil {
				return err
			}

			return WriteWatch(cmd.OutOrStdout(), result, format)
		},
	}

	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
	cmd.Flags().StringVar(&flagDataDir, "data-dir", "", "Data directory for the snapshot (default from config)")
	cmd.Flags().BoolVar(&flagRefresh, "refresh", false, "Refresh snapshot without reporting changes")
	cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Print notifications instead of publishing them")

	return cmd
}

// notifier picks the notification backend. It returns nil when none is configured.
func (a *app) notifier(cmd *cobra.Command, dryRun bool) (notifier.Notifier, error) {
	if dryRun {
		return notifier.NewDryRunNotifier(cmd.ErrOrStderr()), nil
	}
	if a.cfg.SNSTopicARN == "" {
		logger.Debug("no SNS topic configured, skipping notifications", nil)
		return nil, nil
	}
	if a.publisher != nil {
		return notifier.NewSNSNotifierWithClient(a.publisher, a.cfg.SNSTopicARN), nil
	}
	n, err := notifier.NewSNSNotifier(cmd.Context(), a.cfg.SNSTopicARN)
	if err != nil {
		return nil, fmt.Errorf("initializing SNS notifier: %w", err)
	}
	return n, nil
}
