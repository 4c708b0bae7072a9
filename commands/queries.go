package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"elena/residency_alerts/logic"
	"elena/residency_alerts/model"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type employeeSearcher interface {
	SearchEmployees(ctx context.Context, keyword string, now time.Time, size int) ([]model.Employee, error)
	FindEmployeesExpiringBefore(ctx context.Context, day, now time.Time, size int) ([]model.Employee, error)
}

func newQueriesCmd(conf *model.Config) *cobra.Command {
	var within, size int

	queriesCmd := &cobra.Command{
		Use:   "query",
		Short: "Execute queries against the indexed employees",
	}

	newSvc := func() (employeeSearcher, error) {
		client, err := esClient(conf)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to elasticsearch: %w", err)
		}
		return logic.NewEmployeeService(client), nil
	}

	searchCmd := &cobra.Command{
		Use:   "search [keyword]",
		Short: "Find employees by name, staff number, passport, job, nationality or card",
		Args:  cobra.ExactArgs(1),
		RunE:  searchEmployees(conf, newSvc),
	}

	expiringCmd := &cobra.Command{
		Use:   "expiring",
		Short: "Find employees whose card expired or expires within a number of days",
		RunE:  findExpiringEmployees(conf, newSvc),
	}

	for _, cmd := range []*cobra.Command{searchCmd, expiringCmd} {
		cmd.Flags().IntVar(
			&size,
			"size",
			100,
			"maximum number of employees",
		)
	}

	expiringCmd.Flags().IntVar(
		&within,
		"within",
		model.WarningDays,
		"days from today",
	)

	queriesCmd.AddCommand(searchCmd)
	queriesCmd.AddCommand(expiringCmd)

	return queriesCmd
}

// find employees matching a keyword
func searchEmployees(conf *model.Config, newSvc func() (employeeSearcher, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		size, err := cmd.Flags().GetInt("size")
		if err != nil {
			return fmt.Errorf("failed to return the int value of size flag: %v", err)
		}

		svc, err := newSvc()
		if err != nil {
			return err
		}

		employees, err := svc.SearchEmployees(cmd.Context(), args[0], today(conf), size)
		if err != nil {
			return fmt.Errorf("failed to search employees err: %v", err)
		}

		if len(employees) == 0 {
			log.Infof("No employees match %q", args[0])
			return nil
		}

		log.Info(listEmployees(fmt.Sprintf("Employees matching %q:", args[0]), employees))
		return nil
	}
}

// find employees whose card expires within the given number of days
func findExpiringEmployees(conf *model.Config, newSvc func() (employeeSearcher, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		within, err := cmd.Flags().GetInt("within")
		if err != nil {
			return fmt.Errorf("failed to return the int value of within flag: %v", err)
		}

		size, err := cmd.Flags().GetInt("size")
		if err != nil {
			return fmt.Errorf("failed to return the int value of size flag: %v", err)
		}

		svc, err := newSvc()
		if err != nil {
			return err
		}

		now := today(conf)
		employees, err := svc.FindEmployeesExpiringBefore(cmd.Context(), now.AddDate(0, 0, within), now, size)
		if err != nil {
			return fmt.Errorf("failed to find the expiring employees err: %v", err)
		}

		if len(employees) == 0 {
			log.Infof("No residency cards expire within %d days", within)
			return nil
		}

		log.Info(listEmployees(fmt.Sprintf("Residency cards expiring within %d days:", within), employees))
		return nil
	}
}

func listEmployees(title string, employees []model.Employee) string {
	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n")
	for _, e := range employees {
		fmt.Fprintf(&b, "- %s %s | card %s | %s | %s\n",
			e.StaffNo,
			logic.TitleCase(e.Name),
			e.CardNumber,
			logic.FormatExpiry(e),
			model.TierOf(e.DaysUntilExpiry),
		)
	}
	return b.String()
}

func today(conf *model.Config) time.Time {
	loc := conf.Location
	if loc == nil {
		loc = time.Local
	}
	return logic.Midnight(time.Now().In(loc))
}
