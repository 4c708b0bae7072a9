package commands

import (
	"context"
	"time"

	"elena/residency_alerts/history"
	"elena/residency_alerts/logic"
	"elena/residency_alerts/model"

	"github.com/olivere/elastic"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func New(conf *model.Config) *cobra.Command {
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:           "residency-alerts",
		Short:         "Tracks residency card expiry of the staff and mails reports",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := readConfigFile(v, cmd.Flags()); err != nil {
				return err
			}
			if err := setupLogging(v); err != nil {
				return err
			}
			return loadConfig(v, conf)
		},
	}

	addConfigFlags(rootCmd.PersistentFlags())
	if err := bindConfig(v, rootCmd.PersistentFlags()); err != nil {
		panic(err)
	}

	rootCmd.AddCommand(newCheckCmd(conf))
	rootCmd.AddCommand(newScheduleCmd(conf))
	rootCmd.AddCommand(newServeCmd(conf))
	rootCmd.AddCommand(newExportCmd(conf))

	importer := newIndexCmd(conf)
	rootCmd.AddCommand(importer)

	queries := newQueriesCmd(conf)
	rootCmd.AddCommand(queries)

	return rootCmd
}

func newPipeline(conf *model.Config, opts ...logic.Option) *logic.Pipeline {
	loc := conf.Location
	if loc == nil {
		loc = time.Local
	}

	base := []logic.Option{
		logic.WithClock(func() time.Time { return time.Now().In(loc) }),
		logic.WithCSVMode(conf.CSVMode),
		logic.WithSchemaValidation(conf.ValidateSchema),
		logic.WithLogger(logrus.StandardLogger()),
	}

	return logic.NewPipeline(
		logic.NewHTTPFetcher(conf.SourceURL, conf.HTTPTimeout),
		append(base, opts...)...,
	)
}

// esClient connects to Elasticsearch on first use
func esClient(conf *model.Config) (*elastic.Client, error) {
	if conf.ESClient != nil {
		return conf.ESClient, nil
	}

	client, err := elastic.NewClient(
		elastic.SetSniff(false),
		elastic.SetURL(conf.ElasticsearchURL),
	)
	if err != nil {
		return nil, err
	}

	conf.ESClient = client
	return client, nil
}

// openHistory connects to the run history when a database url is configured
func openHistory(ctx context.Context, conf *model.Config) (*history.Store, error) {
	if conf.DatabaseURL == "" {
		return nil, nil
	}
	return history.Open(ctx, conf.DatabaseURL, conf.DBSchema, conf.DBTag)
}
