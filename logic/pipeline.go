package logic

import (
	"context"
	"time"

	"elena/residency_alerts/metrics"
	"elena/residency_alerts/model"

	"github.com/sirupsen/logrus"
)

// Sink delivers a rendered report
type Sink interface {
	Send(ctx context.Context, report model.Report) error
}

// Recorder keeps a history of runs
type Recorder interface {
	Record(ctx context.Context, run model.Run) (string, error)
}

// Pipeline fetches the sheet, classifies the employees and hands the report to a sink
type Pipeline struct {
	fetcher        Fetcher
	sink           Sink
	recorder       Recorder
	metrics        *metrics.Metrics
	log            logrus.FieldLogger
	now            func() time.Time
	csvMode        string
	validateSchema bool
	sendAlive      bool
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithSink sets where reports are delivered
func WithSink(sink Sink) Option {
	return func(p *Pipeline) { p.sink = sink }
}

// WithRecorder stores every run
func WithRecorder(recorder Recorder) Option {
	return func(p *Pipeline) { p.recorder = recorder }
}

// WithMetrics reports run statistics
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

// WithLogger replaces the standard logrus logger
func WithLogger(log logrus.FieldLogger) Option {
	return func(p *Pipeline) { p.log = log }
}

// WithClock sets the source of the current time
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// WithCSVMode selects the sheet parser
func WithCSVMode(mode string) Option {
	return func(p *Pipeline) { p.csvMode = mode }
}

// WithSchemaValidation checks the header row against Layout before reading rows
func WithSchemaValidation(enabled bool) Option {
	return func(p *Pipeline) { p.validateSchema = enabled }
}

// WithAliveCheck sends the diagnostic message when there is nothing to report
func WithAliveCheck(enabled bool) Option {
	return func(p *Pipeline) { p.sendAlive = enabled }
}

// NewPipeline creates a pipeline reading from fetcher
func NewPipeline(fetcher Fetcher, opts ...Option) *Pipeline {
	p := &Pipeline{
		fetcher: fetcher,
		log:     logrus.StandardLogger(),
		now:     time.Now,
		csvMode: CSVModeNaive,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Now returns the current time of the pipeline's clock
func (p *Pipeline) Now() time.Time {
	return p.now()
}

// LoadEmployees fetches and parses the sheet. Every failure is logged and
// yields an empty collection.
func (p *Pipeline) LoadEmployees(ctx context.Context, now time.Time) []model.Employee {
	p.log.Info("Fetching employee data...")

	text, err := p.fetcher.Fetch(ctx)
	if err != nil {
		p.metrics.ObserveFetchFailure()
		p.log.WithError(err).Error("failed to fetch employee data")
		return nil
	}

	rows, err := ParseRows(text, p.csvMode)
	if err != nil {
		p.log.WithError(err).Error("failed to parse employee data")
		return nil
	}
	if len(rows) < 2 {
		p.log.Info("No employee data found in CSV.")
		return nil
	}

	if p.validateSchema {
		if err := ValidateHeader(rows[0]); err != nil {
			p.log.WithError(err).Error("header row does not match the column layout")
			return nil
		}
	}

	employees := ParseEmployees(rows, now, p.log)
	p.log.Infof("Successfully processed %d employees.", len(employees))

	return employees
}

// Preview loads the employees and renders the report without sending it
func (p *Pipeline) Preview(ctx context.Context, kind model.ReportKind) (model.Report, bool) {
	now := p.now()
	employees := p.LoadEmployees(ctx, now)
	return GenerateReport(kind, employees, ArabicLongDate(now))
}

// Run executes one full check: fetch, classify, render and deliver
func (p *Pipeline) Run(ctx context.Context, kind model.ReportKind) model.Run {
	now := p.now()
	log := p.log.WithField("kind", kind)
	log.Info("Running check for expiring residencies...")

	employees := p.LoadEmployees(ctx, now)
	run := model.Run{
		AsOf:      Midnight(now),
		Kind:      kind,
		Employees: employees,
		Summary:   Summarize(employees),
	}
	p.metrics.ObserveEmployees(run.Summary)

	if len(employees) == 0 {
		log.Info("Aborting check, no employees to process.")
		run.Outcome = model.RunEmpty
		return p.finish(ctx, run)
	}

	log.WithFields(logrus.Fields{
		"employees": run.Summary.Total,
		"expired":   run.Summary.Expired,
		"expiring":  run.Summary.Expiring,
	}).Info("Checking expiry dates...")

	report, ok := GenerateReport(kind, employees, ArabicLongDate(now))
	if !ok {
		run.Outcome = model.RunSuppressed
		if !p.sendAlive {
			log.Info("No employees with expiring residencies found. No email will be sent.")
			return p.finish(ctx, run)
		}

		log.Info("No employees with expiring residencies found. Sending alive message.")
		report = AliveReport(len(employees))
		if err := p.deliver(ctx, report); err != nil {
			run.Outcome = model.RunDeliveryFailed
			run.DeliveryErr = err
		} else {
			run.Outcome = model.RunAlive
		}
		run.Report = report
		return p.finish(ctx, run)
	}

	run.Report = report
	run.Generated = true
	run.Reported = reportedEmployees(kind, employees)

	log.Infof("Found %d employees to report. Preparing to send email.", len(run.Reported))
	if err := p.deliver(ctx, report); err != nil {
		run.Outcome = model.RunDeliveryFailed
		run.DeliveryErr = err
	} else {
		run.Outcome = model.RunSent
	}

	return p.finish(ctx, run)
}

func (p *Pipeline) deliver(ctx context.Context, report model.Report) error {
	if p.sink == nil {
		p.log.WithError(model.ErrSinkNotConfigured).Error("failed to send email")
		p.metrics.ObserveNotification(model.ErrSinkNotConfigured)
		return model.ErrSinkNotConfigured
	}

	err := p.sink.Send(ctx, report)
	p.metrics.ObserveNotification(err)
	if err != nil {
		p.log.WithError(err).Error("failed to send email")
		return err
	}

	p.log.Info("Email sent successfully!")
	return nil
}

func (p *Pipeline) finish(ctx context.Context, run model.Run) model.Run {
	p.metrics.ObserveRun(run.Kind, run.Outcome)

	if p.recorder != nil {
		runID, err := p.recorder.Record(ctx, run)
		if err != nil {
			p.log.WithError(err).Error("failed to store run history")
		} else {
			p.log.WithField("run_id", runID).Info("Stored run history")
		}
	}

	return run
}

func reportedEmployees(kind model.ReportKind, employees []model.Employee) []model.Employee {
	switch kind {
	case model.ReportExpired:
		return InBucket(employees, model.BucketExpired)
	case model.ReportUrgent:
		return InBucket(employees, model.BucketUrgentOrWarning)
	}
	return append(InBucket(employees, model.BucketExpired), InBucket(employees, model.BucketUrgentOrWarning)...)
}
