package commands

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/ledgerdesk-dev/ledgerdesk/internal/document"
	"github.com/ledgerdesk-dev/ledgerdesk/internal/model"
)

func newScheduleCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Manage recurring transactions",
	}
	cmd.AddCommand(newScheduleAddCommand())
	cmd.AddCommand(newScheduleListCommand())
	return cmd
}

func newScheduleAddCommand() *cobra.Command {
	var dir string
	var dateStr string
	var from string
	var to string
	var amountStr string
	var repeat string
	var every int
	var stopStr string

	cmd := &cobra.Command{
		Use:   "add <description>",
		Short: "Add a recurring schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := openLedger(dir)
			if err != nil {
				return err
			}
			return runScheduleAdd(l, args[0], dateStr, from, to, amountStr, repeat, every, stopStr)
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "ledger directory")
	cmd.Flags().StringVar(&dateStr, "date", "", "first occurrence date (required)")
	_ = cmd.MarkFlagRequired("date")
	cmd.Flags().StringVar(&from, "from", "", "account money moves out of (required)")
	_ = cmd.MarkFlagRequired("from")
	cmd.Flags().StringVar(&to, "to", "", "account money moves into (required)")
	_ = cmd.MarkFlagRequired("to")
	cmd.Flags().StringVar(&amountStr, "amount", "", "amount (required)")
	_ = cmd.MarkFlagRequired("amount")
	cmd.Flags().StringVar(&repeat, "repeat", "monthly", "repeat type (daily, weekly, monthly, yearly)")
	cmd.Flags().IntVar(&every, "every", 1, "repeat every N periods")
	cmd.Flags().StringVar(&stopStr, "stop", "", "last date occurrences are generated for")

	return cmd
}

func runScheduleAdd(l *ledger, description, dateStr, from, to, amountStr, repeat string, every int, stopStr string) error {
	date, err := parseLedgerDate(l, dateStr)
	if err != nil {
		return err
	}
	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return fmt.Errorf("parsing amount %q: %w", amountStr, err)
	}
	repeatType, err := parseRepeatType(repeat)
	if err != nil {
		return err
	}
	if every < 1 {
		return fmt.Errorf("--every must be at least 1")
	}
	fromAccount := l.doc.Accounts.Find(from)
	if fromAccount == nil {
		return fmt.Errorf("no account named %q", from)
	}
	toAccount := l.doc.Accounts.Find(to)
	if toAccount == nil {
		return fmt.Errorf("no account named %q", to)
	}

	ref := model.NewSimpleTransaction(date, description, fromAccount, toAccount, amount)
	schedule := l.doc.NewSchedule(ref, repeatType, every)
	if stopStr != "" {
		stop, err := parseLedgerDate(l, stopStr)
		if err != nil {
			return err
		}
		l.doc.ChangeSchedule(schedule, document.ScheduleEdit{Stop: &stop})
	}

	if err := l.save([]string{"Add Schedule"}); err != nil {
		return err
	}
	fmt.Printf("Scheduled %q every %d %s from %s\n", description, every, repeatType, date.Format(l.cfg.Format.DateFormat))
	return nil
}

func newScheduleListCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List schedules and their upcoming occurrences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := openLedger(dir)
			if err != nil {
				return err
			}
			return runScheduleList(l)
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "ledger directory")
	return cmd
}

func runScheduleList(l *ledger) error {
	now := time.Now().UTC()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, l.cfg.Schedule.AheadMonths, 0)

	for _, s := range l.doc.Schedules.All() {
		fmt.Printf("%s  every %d %s  %s\n", s.Ref.Description, s.Every, s.Repeat, s.Ref.Amount())
		for _, spawn := range s.SpawnsBetween(start, end) {
			fmt.Printf("    %s  %s\n", spawn.Date.Format(l.cfg.Format.DateFormat), spawn.Amount())
		}
	}
	return nil
}

func parseRepeatType(s string) (model.RepeatType, error) {
	switch model.RepeatType(s) {
	case model.RepeatDaily, model.RepeatWeekly, model.RepeatMonthly, model.RepeatYearly:
		return model.RepeatType(s), nil
	}
	return "", fmt.Errorf("unknown repeat type %q (want daily, weekly, monthly or yearly)", s)
}
