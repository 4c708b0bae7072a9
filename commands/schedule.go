package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"elena/residency_alerts/logic"
	"elena/residency_alerts/metrics"
	"elena/residency_alerts/model"
	"elena/residency_alerts/notify"
	"elena/residency_alerts/server"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newScheduleCmd(conf *model.Config) *cobra.Command {
	var kind string
	var runNow, alive, withServer bool

	scheduleCmd := &cobra.Command{
		Use:   "schedule",
		Short: "Runs the expiry check on a cron schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			reportKind, err := model.ParseReportKind(kind)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			m := metrics.New()
			opts := []logic.Option{
				logic.WithSink(notify.NewSMTPSink(conf.SMTP, logrus.StandardLogger())),
				logic.WithMetrics(m),
				logic.WithAliveCheck(alive),
			}

			store, err := openHistory(ctx, conf)
			if err != nil {
				return fmt.Errorf("failed to open run history: %w", err)
			}
			if store != nil {
				defer store.Close()
				opts = append(opts, logic.WithRecorder(store))
			}

			p := newPipeline(conf, opts...)

			c := cron.New(
				cron.WithLocation(conf.Location),
				cron.WithChain(cron.SkipIfStillRunning(cron.PrintfLogger(logrus.StandardLogger()))),
			)
			entryID, err := c.AddFunc(conf.Cron, func() {
				logrus.Infof("Cron job triggered at: %s", p.Now().Format(time.RFC1123))
				p.Run(ctx, reportKind)
			})
			if err != nil {
				return fmt.Errorf("invalid cron expression %q: %w", conf.Cron, err)
			}

			c.Start()
			logrus.WithFields(logrus.Fields{
				"cron":     conf.Cron,
				"timezone": conf.Location.String(),
				"next":     c.Entry(entryID).Schedule.Next(p.Now()).Format(time.RFC1123),
			}).Info("Cron job scheduled successfully!")

			if withServer {
				srv := newHTTPServer(conf.ListenAddr, server.New(p, m, logrus.StandardLogger()).Router())
				go func() {
					if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						logrus.WithError(err).Error("dashboard server stopped")
					}
				}()
				defer shutdown(srv)
			}

			if runNow {
				logrus.Info("Running immediate check...")
				p.Run(ctx, reportKind)
			}

			logrus.Info("Service is now running and waiting for scheduled time...")
			<-ctx.Done()

			logrus.Info("Service stopped")
			<-c.Stop().Done()
			return nil
		},
	}

	scheduleCmd.Flags().StringVar(
		&kind,
		"type",
		string(model.ReportUrgent),
		"report type: expired, urgent or both",
	)

	scheduleCmd.Flags().BoolVar(
		&runNow,
		"run-now",
		true,
		"run a check immediately on start",
	)

	scheduleCmd.Flags().BoolVar(
		&alive,
		"alive",
		false,
		"send a test email when there is nothing to report",
	)

	scheduleCmd.Flags().BoolVar(
		&withServer,
		"serve",
		false,
		"also serve the dashboard API and metrics",
	)

	return scheduleCmd
}

func newHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func shutdown(srv *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.WithError(err).Error("failed to stop dashboard server")
	}
}
