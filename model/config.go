package model

import (
	"time"

	"github.com/olivere/elastic"
)

// Config holds the settings shared by all commands
type Config struct {
	ESClient *elastic.Client

	SourceURL      string
	HTTPTimeout    time.Duration
	CSVMode        string
	ValidateSchema bool
	Location       *time.Location

	SMTP SMTPConfig

	ElasticsearchURL string

	DatabaseURL string
	DBSchema    string
	DBTag       string

	Cron       string
	ListenAddr string
}

// SMTPConfig holds the outgoing mail settings
type SMTPConfig struct {
	Host       string
	Port       int
	User       string
	Pass       string
	Recipient  string
	SenderName string
}
