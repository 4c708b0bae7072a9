package logic

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"elena/residency_alerts/metrics"
	"elena/residency_alerts/model"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSink struct {
	reports []model.Report
	err     error
}

func (s *fakeSink) Send(_ context.Context, report model.Report) error {
	s.reports = append(s.reports, report)
	return s.err
}

type fakeRecorder struct {
	runs []model.Run
	err  error
}

func (r *fakeRecorder) Record(_ context.Context, run model.Run) (string, error) {
	r.runs = append(r.runs, run)
	return "run-1", r.err
}

type failingFetcher struct{}

func (failingFetcher) Fetch(context.Context) (string, error) {
	return "", model.ErrFetchFailed
}

func newTestPipeline(fetcher Fetcher, opts ...Option) *Pipeline {
	opts = append([]Option{
		WithLogger(quietLogger()),
		WithClock(func() time.Time { return testNow }),
	}, opts...)
	return NewPipeline(fetcher, opts...)
}

func TestPipeline_LoadEmployeesIsRepeatable(t *testing.T) {
	p := newTestPipeline(StaticFetcher(sheet))

	first := p.LoadEmployees(context.Background(), testNow)
	second := p.LoadEmployees(context.Background(), testNow)

	require.Len(t, first, 4)
	assert.Equal(t, first, second)
}

func TestPipeline_LoadEmployeesHeaderOnly(t *testing.T) {
	p := newTestPipeline(StaticFetcher(sheetHeader + "\n\n"))
	assert.Empty(t, p.LoadEmployees(context.Background(), testNow))
}

func TestPipeline_SchemaValidation(t *testing.T) {
	broken := strings.Replace(sheet, "Card Expiry", "Remarks", 1)

	p := newTestPipeline(StaticFetcher(broken), WithSchemaValidation(true))
	assert.Empty(t, p.LoadEmployees(context.Background(), testNow))

	p = newTestPipeline(StaticFetcher(broken))
	assert.Len(t, p.LoadEmployees(context.Background(), testNow), 4)
}

func TestPipeline_QuotedMode(t *testing.T) {
	text := sheetHeader + "\n" + `200,P200,"Smith, John",engineer,british,iqama,C200,05/01/2025,,,,,` + "\n"

	p := newTestPipeline(StaticFetcher(text), WithCSVMode(CSVModeQuoted))
	employees := p.LoadEmployees(context.Background(), testNow)

	require.Len(t, employees, 1)
	assert.Equal(t, "Smith, John", employees[0].Name)
	assert.Equal(t, 4, employees[0].DaysUntilExpiry)
}

func TestPipeline_RunSends(t *testing.T) {
	sink := &fakeSink{}
	recorder := &fakeRecorder{}
	m := metrics.New()
	p := newTestPipeline(StaticFetcher(sheet), WithSink(sink), WithRecorder(recorder), WithMetrics(m))

	run := p.Run(context.Background(), model.ReportUrgent)

	assert.Equal(t, model.RunSent, run.Outcome)
	assert.True(t, run.Generated)
	assert.NoError(t, run.DeliveryErr)
	assert.Equal(t, Midnight(testNow), run.AsOf)
	assert.Equal(t, []string{"101", "102"}, staffNumbers(run.Reported))
	assert.Len(t, run.Employees, 4)

	require.Len(t, sink.reports, 1)
	assert.Equal(t, run.Report, sink.reports[0])
	assert.True(t, strings.HasSuffix(sink.reports[0].Subject, " - "+reportDay))

	require.Len(t, recorder.runs, 1)
	assert.Equal(t, model.RunSent, recorder.runs[0].Outcome)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Runs.WithLabelValues("urgent", "sent")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Notifications.WithLabelValues("sent")))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.EmployeesLoaded))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EmployeesByTier.WithLabelValues("expired")))
}

func TestPipeline_RunBothReportsEverything(t *testing.T) {
	sink := &fakeSink{}
	p := newTestPipeline(StaticFetcher(sheet), WithSink(sink))

	run := p.Run(context.Background(), model.ReportBoth)

	assert.Equal(t, model.RunSent, run.Outcome)
	assert.Equal(t, []string{"100", "101", "102"}, staffNumbers(run.Reported))
	require.Len(t, sink.reports, 1)
	assert.Contains(t, sink.reports[0].Body, expiredSectionTitle)
	assert.Contains(t, sink.reports[0].Body, urgentSectionTitle)
}

func TestPipeline_RunSuppressed(t *testing.T) {
	healthy := sheetHeader + "\n300,P300,x,y,z,iqama,C300,01/01/2026,,,,,\n"
	sink := &fakeSink{}
	recorder := &fakeRecorder{}
	p := newTestPipeline(StaticFetcher(healthy), WithSink(sink), WithRecorder(recorder))

	run := p.Run(context.Background(), model.ReportBoth)

	assert.Equal(t, model.RunSuppressed, run.Outcome)
	assert.False(t, run.Generated)
	assert.Empty(t, sink.reports)
	require.Len(t, recorder.runs, 1)
}

func TestPipeline_RunAlive(t *testing.T) {
	healthy := sheetHeader + "\n300,P300,x,y,z,iqama,C300,01/01/2026,,,,,\n"
	sink := &fakeSink{}
	p := newTestPipeline(StaticFetcher(healthy), WithSink(sink), WithAliveCheck(true))

	run := p.Run(context.Background(), model.ReportExpired)

	assert.Equal(t, model.RunAlive, run.Outcome)
	assert.False(t, run.Generated)
	require.Len(t, sink.reports, 1)
	assert.Equal(t, AliveReport(1), sink.reports[0])
}

func TestPipeline_RunEmptySendsNothing(t *testing.T) {
	sink := &fakeSink{}
	p := newTestPipeline(StaticFetcher(""), WithSink(sink), WithAliveCheck(true))

	run := p.Run(context.Background(), model.ReportBoth)

	assert.Equal(t, model.RunEmpty, run.Outcome)
	assert.Empty(t, sink.reports)
}

func TestPipeline_RunDeliveryFailure(t *testing.T) {
	sendErr := errors.New("connection refused")
	sink := &fakeSink{err: sendErr}
	m := metrics.New()
	p := newTestPipeline(StaticFetcher(sheet), WithSink(sink), WithMetrics(m))

	run := p.Run(context.Background(), model.ReportExpired)

	assert.Equal(t, model.RunDeliveryFailed, run.Outcome)
	assert.ErrorIs(t, run.DeliveryErr, sendErr)
	assert.True(t, run.Generated)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Notifications.WithLabelValues("failed")))
}

func TestPipeline_RunWithoutSink(t *testing.T) {
	p := newTestPipeline(StaticFetcher(sheet))

	run := p.Run(context.Background(), model.ReportExpired)

	assert.Equal(t, model.RunDeliveryFailed, run.Outcome)
	assert.ErrorIs(t, run.DeliveryErr, model.ErrSinkNotConfigured)
}

func TestPipeline_RecorderErrorDoesNotFailRun(t *testing.T) {
	sink := &fakeSink{}
	recorder := &fakeRecorder{err: errors.New("database is down")}
	p := newTestPipeline(StaticFetcher(sheet), WithSink(sink), WithRecorder(recorder))

	run := p.Run(context.Background(), model.ReportExpired)
	assert.Equal(t, model.RunSent, run.Outcome)
}

func TestPipeline_FetchFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer ts.Close()

	sink := &fakeSink{}
	m := metrics.New()
	p := newTestPipeline(NewHTTPFetcher(ts.URL, time.Second), WithSink(sink), WithMetrics(m))

	run := p.Run(context.Background(), model.ReportBoth)

	assert.Equal(t, model.RunEmpty, run.Outcome)
	assert.Empty(t, run.Employees)
	assert.Empty(t, sink.reports)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FetchFailures))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Runs.WithLabelValues("both", "empty")))

	assert.Empty(t, newTestPipeline(failingFetcher{}).LoadEmployees(context.Background(), testNow))
}

func TestPipeline_Preview(t *testing.T) {
	sink := &fakeSink{}
	p := newTestPipeline(StaticFetcher(sheet), WithSink(sink))

	report, ok := p.Preview(context.Background(), model.ReportExpired)

	require.True(t, ok)
	assert.Contains(t, report.Body, ">100<")
	assert.Empty(t, sink.reports)
}

func TestHTTPFetcher(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		_, _ = w.Write([]byte(sheetHeader))
	}))
	defer ts.Close()

	text, err := NewHTTPFetcher(ts.URL, time.Second).Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, sheetHeader, text)

	ts.Close()
	_, err = NewHTTPFetcher(ts.URL, time.Second).Fetch(context.Background())
	assert.ErrorIs(t, err, model.ErrFetchFailed)
}
