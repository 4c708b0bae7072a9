package commands

import (
	"fmt"
	"time"

	"elena/residency_alerts/history"
	"elena/residency_alerts/logic"
	"elena/residency_alerts/model"
	"elena/residency_alerts/notify"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newCheckCmd(conf *model.Config) *cobra.Command {
	var kind string
	var dryRun, alive, oncePerDay bool

	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Runs the expiry check once and mails the report",
		RunE: func(cmd *cobra.Command, args []string) error {
			reportKind, err := model.ParseReportKind(kind)
			if err != nil {
				return err
			}

			ctx := cmd.Context()

			opts := []logic.Option{logic.WithAliveCheck(alive)}
			if dryRun {
				opts = append(opts, logic.WithSink(notify.WriterSink{W: cmd.OutOrStdout()}))
			} else {
				opts = append(opts, logic.WithSink(notify.NewSMTPSink(conf.SMTP, logrus.StandardLogger())))
			}

			var store *history.Store
			if !dryRun {
				store, err = openHistory(ctx, conf)
				if err != nil {
					return fmt.Errorf("failed to open run history: %w", err)
				}
			}
			if store != nil {
				defer store.Close()
				opts = append(opts, logic.WithRecorder(store))
			}

			p := newPipeline(conf, opts...)

			if oncePerDay && store != nil {
				outcome, asOf, err := store.LastRun(ctx, reportKind)
				if err != nil {
					return fmt.Errorf("failed to read run history: %w", err)
				}
				today := logic.Midnight(p.Now())
				if alreadyNotified(outcome, asOf, today) {
					logrus.WithField("kind", reportKind).Info("Report already sent today, skipping")
					return nil
				}
			}

			run := p.Run(ctx, reportKind)
			if run.Outcome == model.RunDeliveryFailed {
				return fmt.Errorf("failed to deliver %s report: %w", reportKind, run.DeliveryErr)
			}

			logrus.WithField("outcome", run.Outcome).Info("Process completed")
			return nil
		},
	}

	checkCmd.Flags().StringVar(
		&kind,
		"type",
		string(model.ReportUrgent),
		"report type: expired, urgent or both",
	)

	checkCmd.Flags().BoolVar(
		&dryRun,
		"dry-run",
		false,
		"print the report instead of mailing it",
	)

	checkCmd.Flags().BoolVar(
		&alive,
		"alive",
		false,
		"send a test email when there is nothing to report",
	)

	checkCmd.Flags().BoolVar(
		&oncePerDay,
		"once-per-day",
		false,
		"skip when the run history shows a report was sent today",
	)

	return checkCmd
}

func alreadyNotified(outcome model.RunOutcome, asOf, today time.Time) bool {
	if outcome != model.RunSent && outcome != model.RunAlive {
		return false
	}
	return asOf.Format("2006-01-02") == today.Format("2006-01-02")
}
