package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"cassa/internal/analytics"
	"cassa/internal/core"
	applog "cassa/internal/log"
	"cassa/internal/report"
	"cassa/internal/seed"
)

func ownerFlag(cmd *cobra.Command) (string, error) {
	id, _ := cmd.Flags().GetString("user")
	id = strings.TrimSpace(id)
	if id == "" {
		return "", errors.New("--user is required")
	}
	return id, nil
}

func newSeedCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the sample ledger for a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			owner, err := ownerFlag(cmd)
			if err != nil {
				return err
			}
			added, err := seed.Load(cmd.Context(), a.store, owner, time.Now())
			if err != nil {
				return err
			}
			a.logger.Info("Sample ledger loaded", applog.FieldUserID, owner, applog.FieldCount, len(added))
			fmt.Fprintf(cmd.OutOrStdout(), "added %d transactions\n", len(added))
			return nil
		},
	}
}

func newSummaryCmd(a *app) *cobra.Command {
	var year, month int
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the dashboard and a month's analysis",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			owner, err := ownerFlag(cmd)
			if err != nil {
				return err
			}
			now := time.Now()
			if year == 0 {
				year = now.Year()
			}
			if month == 0 {
				month = int(now.Month())
			}
			if month < 1 || month > 12 {
				return fmt.Errorf("invalid month %d: must be between 1 and 12", month)
			}
			txs, err := a.store.GetByOwner(cmd.Context(), owner)
			if err != nil {
				return err
			}
			writeSummary(cmd.OutOrStdout(), analytics.Dashboard(txs, now), analytics.MonthAnalysis(txs, year, month))
			return nil
		},
	}
	cmd.Flags().IntVar(&year, "year", 0, "year to analyse (default current)")
	cmd.Flags().IntVar(&month, "month", 0, "month to analyse, 1-12 (default current)")
	return cmd
}

func writeSummary(w io.Writer, d analytics.DashboardView, m analytics.MonthView) {
	inr := report.FormatINR
	fmt.Fprintf(w, "Balance:            %s\n", inr(d.Balance))
	fmt.Fprintf(w, "This month credit:  %s\n", inr(d.MonthCredit))
	fmt.Fprintf(w, "This month debit:   %s\n", inr(d.MonthDebit))
	fmt.Fprintf(w, "Last month closing: %s\n", inr(d.LastMonthClosing))
	fmt.Fprintf(w, "Transactions:       %d\n\n", d.Count)

	e := m.Expenses
	fmt.Fprintf(w, "%04d-%02d: %d transactions, expenses %s over %d debits (avg %s)\n",
		m.Year, m.Month, len(m.Transactions), inr(e.Total), e.DebitCount, inr(e.Average))
	fmt.Fprintf(w, "  above average: %d totalling %s\n", e.High.Count, inr(e.High.Total))
	fmt.Fprintf(w, "  up to average: %d totalling %s\n", e.Low.Count, inr(e.Low.Total))
	for _, c := range m.Categories {
		fmt.Fprintf(w, "  %-28s %s\n", c.Label, inr(c.Total))
	}
	fmt.Fprintln(w, "Trend:")
	for _, p := range m.Trend {
		fmt.Fprintf(w, "  %-9s credit %s  debit %s  net %s\n", p.Label, inr(p.Credit), inr(p.Debit), inr(p.Net))
	}
}

type exportFlags struct {
	from, to string
	days     int
	out      string
	name     string
	email    string
}

func (f *exportFlags) bind(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&f.from, "from", "", "first day to include (YYYY-MM-DD)")
	cmd.PersistentFlags().StringVar(&f.to, "to", "", "last day to include (YYYY-MM-DD)")
	cmd.PersistentFlags().IntVar(&f.days, "days", -1, "include the last N days instead of --from/--to")
	cmd.PersistentFlags().StringVarP(&f.out, "output", "o", "", "output file (default stdout)")
	cmd.PersistentFlags().StringVar(&f.name, "name", "", "user name printed on the report")
	cmd.PersistentFlags().StringVar(&f.email, "email", "", "user email printed on the report")
}

func (f *exportFlags) window(now time.Time) (from, to core.Date, err error) {
	if f.days >= 0 {
		from, to = analytics.QuickRange(f.days, now)
		return from, to, nil
	}
	if f.from != "" {
		if from, err = core.ParseDate(f.from); err != nil {
			return from, to, err
		}
	}
	if f.to != "" {
		if to, err = core.ParseDate(f.to); err != nil {
			return from, to, err
		}
	}
	return from, to, nil
}

// write sends render's output to --output, or to the command's stdout.
func (f *exportFlags) write(cmd *cobra.Command, render func(io.Writer) error) error {
	if f.out == "" {
		return render(cmd.OutOrStdout())
	}
	file, err := os.Create(f.out)
	if err != nil {
		return fmt.Errorf("create %s: %w", f.out, err)
	}
	bw := bufio.NewWriter(file)
	if err := render(bw); err != nil {
		_ = file.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

func newExportCmd(a *app) *cobra.Command {
	var flags exportFlags
	export := &cobra.Command{
		Use:   "export",
		Short: "Export a date range of the ledger",
	}
	flags.bind(export)

	load := func(cmd *cobra.Command) ([]core.Transaction, time.Time, error) {
		owner, err := ownerFlag(cmd)
		if err != nil {
			return nil, time.Time{}, err
		}
		now := time.Now()
		from, to, err := flags.window(now)
		if err != nil {
			return nil, now, err
		}
		txs, err := a.store.GetByOwner(cmd.Context(), owner)
		if err != nil {
			return nil, now, err
		}
		return analytics.FilterRange(txs, from, to), now, nil
	}

	var autoName bool
	csvCmd := &cobra.Command{
		Use:   "csv",
		Short: "Write the report as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			txs, now, err := load(cmd)
			if err != nil {
				return err
			}
			if autoName && flags.out == "" {
				flags.out = report.Filename(report.Owner{Name: flags.name}, now)
			}
			a.logger.Info("Exporting CSV", applog.FieldCount, len(txs))
			return flags.write(cmd, func(w io.Writer) error { return report.WriteCSV(w, txs) })
		},
	}
	csvCmd.Flags().BoolVar(&autoName, "auto-name", false, "write to the conventional report file name")

	var printDialog bool
	htmlCmd := &cobra.Command{
		Use:   "html",
		Short: "Write the printable HTML report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			txs, now, err := load(cmd)
			if err != nil {
				return err
			}
			owner := report.Owner{Name: flags.name, Email: flags.email}
			var opts []report.HTMLOption
			if printDialog {
				opts = append(opts, report.WithPrintDialog(""))
			}
			a.logger.Info("Exporting HTML", applog.FieldCount, len(txs))
			return flags.write(cmd, func(w io.Writer) error { return report.WriteHTML(w, owner, txs, now, opts...) })
		},
	}
	htmlCmd.Flags().BoolVar(&printDialog, "print", true, "open the print dialog when the page loads")
	export.AddCommand(csvCmd, htmlCmd)
	return export
}

func newPurgeCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete every transaction of a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			owner, err := ownerFlag(cmd)
			if err != nil {
				return err
			}
			if !yes {
				return errors.New("refusing to purge without --yes")
			}
			n, err := a.store.DeleteAllForOwner(cmd.Context(), owner)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d transactions\n", n)
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the purge")
	return cmd
}
