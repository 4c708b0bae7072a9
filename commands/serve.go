package commands

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"elena/residency_alerts/logic"
	"elena/residency_alerts/metrics"
	"elena/residency_alerts/model"
	"elena/residency_alerts/server"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newServeCmd(conf *model.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serves the read-only dashboard API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			m := metrics.New()
			p := newPipeline(conf, logic.WithMetrics(m))
			srv := newHTTPServer(conf.ListenAddr, server.New(p, m, logrus.StandardLogger()).Router())

			errCh := make(chan error, 1)
			go func() {
				logrus.Infof("Dashboard API listening on %s", conf.ListenAddr)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-ctx.Done():
				shutdown(srv)
				return nil
			}
		},
	}
}
