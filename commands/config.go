package commands

import (
	"fmt"
	"strings"
	"time"

	"elena/residency_alerts/history"
	"elena/residency_alerts/logic"
	"elena/residency_alerts/model"
	"elena/residency_alerts/notify"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	keySourceURL      = "source_url"
	keyHTTPTimeout    = "http_timeout"
	keyCSVMode        = "csv_mode"
	keyValidateSchema = "validate_schema"
	keyTimezone       = "timezone"
	keyEmailHost      = "email_host"
	keyEmailPort      = "email_port"
	keyEmailUser      = "email_user"
	keyEmailPass      = "email_pass"
	keyEmailTo        = "email_to"
	keyEmailFromName  = "email_from_name"
	keyESURL          = "elasticsearch_url"
	keyDatabaseURL    = "database_url"
	keyDBSchema       = "db_schema"
	keyDBTag          = "db_tag"
	keyCron           = "cron"
	keyListenAddr     = "listen_addr"
	keyLogLevel       = "log_level"
	keyLogFormat      = "log_format"
)

// envNames maps config keys to environment variables. The mail settings keep their established names.
var envNames = map[string]string{
	keySourceURL:      "CSV_URL",
	keyHTTPTimeout:    "ALERTS_HTTP_TIMEOUT",
	keyCSVMode:        "ALERTS_CSV_MODE",
	keyValidateSchema: "ALERTS_VALIDATE_SCHEMA",
	keyTimezone:       "ALERTS_TIMEZONE",
	keyEmailHost:      "EMAIL_HOST",
	keyEmailPort:      "EMAIL_PORT",
	keyEmailUser:      "EMAIL_USER",
	keyEmailPass:      "EMAIL_PASS",
	keyEmailTo:        "EMAIL_TO",
	keyEmailFromName:  "EMAIL_FROM_NAME",
	keyESURL:          "ELASTICSEARCH_URL",
	keyDatabaseURL:    "DATABASE_URL",
	keyDBSchema:       "ALERTS_DB_SCHEMA",
	keyDBTag:          "ALERTS_DB_TAG",
	keyCron:           "ALERTS_CRON",
	keyListenAddr:     "ALERTS_LISTEN_ADDR",
	keyLogLevel:       "ALERTS_LOG_LEVEL",
	keyLogFormat:      "ALERTS_LOG_FORMAT",
}

func addConfigFlags(flags *pflag.FlagSet) {
	flags.String("config", "", "optional config file (yaml, json, toml or env)")
	flags.String("source-url", logic.DefaultSourceURL, "CSV export url of the staff sheet")
	flags.Duration("http-timeout", 30*time.Second, "timeout for downloading the sheet")
	flags.String("csv-mode", logic.CSVModeNaive, "sheet parser: naive or quoted")
	flags.Bool("validate-schema", false, "check the header row against the column layout")
	flags.String("timezone", "Asia/Riyadh", "timezone that defines today")
	flags.String("email-host", "", "SMTP host")
	flags.Int("email-port", 587, "SMTP port, 465 for implicit TLS")
	flags.String("email-user", "", "SMTP user, also the sender address")
	flags.String("email-pass", "", "SMTP password")
	flags.String("email-to", "", "recipient of the reports")
	flags.String("email-from-name", notify.DefaultSenderName, "sender display name")
	flags.String("elasticsearch-url", "http://0.0.0.0:9200", "Elasticsearch url")
	flags.String("database-url", "", "Postgres url for the run history")
	flags.String("db-schema", history.DefaultSchema, "Postgres schema for the run history")
	flags.String("db-tag", "", "optional label stored with each run")
	flags.String("cron", "0 9 * * *", "schedule of the daily check")
	flags.String("listen-addr", ":8080", "address of the dashboard API")
	flags.String("log-level", "info", "log level")
	flags.String("log-format", "text", "log format: text or json")
}

func bindConfig(v *viper.Viper, flags *pflag.FlagSet) error {
	for key, env := range envNames {
		flagName := strings.ReplaceAll(key, "_", "-")
		if err := v.BindPFlag(key, flags.Lookup(flagName)); err != nil {
			return fmt.Errorf("bind flag %s: %w", flagName, err)
		}
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("bind env %s: %w", env, err)
		}
	}
	return nil
}

func readConfigFile(v *viper.Viper, flags *pflag.FlagSet) error {
	path, err := flags.GetString("config")
	if err != nil {
		return fmt.Errorf("failed to return the string value of config flag: %v", err)
	}
	if path == "" {
		return nil
	}

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	return nil
}

func loadConfig(v *viper.Viper, conf *model.Config) error {
	loc, err := time.LoadLocation(v.GetString(keyTimezone))
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", v.GetString(keyTimezone), err)
	}

	mode := v.GetString(keyCSVMode)
	if mode != logic.CSVModeNaive && mode != logic.CSVModeQuoted {
		return fmt.Errorf("invalid csv mode %q (want %s or %s)", mode, logic.CSVModeNaive, logic.CSVModeQuoted)
	}

	conf.SourceURL = v.GetString(keySourceURL)
	conf.HTTPTimeout = v.GetDuration(keyHTTPTimeout)
	conf.CSVMode = mode
	conf.ValidateSchema = v.GetBool(keyValidateSchema)
	conf.Location = loc
	conf.SMTP = model.SMTPConfig{
		Host:       v.GetString(keyEmailHost),
		Port:       v.GetInt(keyEmailPort),
		User:       v.GetString(keyEmailUser),
		Pass:       v.GetString(keyEmailPass),
		Recipient:  v.GetString(keyEmailTo),
		SenderName: v.GetString(keyEmailFromName),
	}
	conf.ElasticsearchURL = v.GetString(keyESURL)
	conf.DatabaseURL = v.GetString(keyDatabaseURL)
	conf.DBSchema = v.GetString(keyDBSchema)
	conf.DBTag = v.GetString(keyDBTag)
	conf.Cron = v.GetString(keyCron)
	conf.ListenAddr = v.GetString(keyListenAddr)

	return nil
}

func setupLogging(v *viper.Viper) error {
	level, err := logrus.ParseLevel(v.GetString(keyLogLevel))
	if err != nil {
		return err
	}
	logrus.SetLevel(level)

	switch v.GetString(keyLogFormat) {
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	case "text":
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return fmt.Errorf("invalid log format %q", v.GetString(keyLogFormat))
	}
	return nil
}
