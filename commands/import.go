package commands

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"elena/residency_alerts/logic"
	"elena/residency_alerts/model"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newIndexCmd(conf *model.Config) *cobra.Command {
	var errFilePath string
	var numOfWorkers int
	indexCmd := &cobra.Command{
		Use:   "index",
		Short: "Indexes all employees of the sheet in ES",
		RunE: func(cmd *cobra.Command, args []string) error {
			errFilePath, err := cmd.Flags().GetString("errFilePath")
			if err != nil {
				return fmt.Errorf("failed to return the string value of errFilePath flag: %v", err)
			}

			numOfWorkers, err := cmd.Flags().GetInt("numOfWorkers")
			if err != nil {
				return fmt.Errorf("failed to return the int value of numOfWorkers flag: %v", err)
			}
			if numOfWorkers < 1 {
				return fmt.Errorf("numOfWorkers must be positive, got %d", numOfWorkers)
			}

			client, err := esClient(conf)
			if err != nil {
				return fmt.Errorf("failed to connect to elasticsearch: %w", err)
			}

			ctx := cmd.Context()
			employeeSvc := logic.NewEmployeeService(client)
			if err := employeeSvc.EnsureIndex(ctx); err != nil {
				return fmt.Errorf("failed to create the %s index: %w", logic.IndexName, err)
			}

			p := newPipeline(conf)
			employees := p.LoadEmployees(ctx, p.Now())
			if len(employees) == 0 {
				logrus.Info("No employees to index.")
				return nil
			}

			if err := os.MkdirAll(filepath.Dir(errFilePath), 0o755); err != nil {
				return fmt.Errorf("failed to create the error file directory: %w", err)
			}

			file, err := os.Create(errFilePath)
			if err != nil {
				return fmt.Errorf("failed to create the error file: %w", err)
			}
			defer file.Close()

			failed, err := execute(ctx, numOfWorkers, employees, csv.NewWriter(file), employeeSvc)
			if err != nil {
				return err
			}
			if failed > 0 {
				logrus.Warnf("%d employees could not be indexed, see %s", failed, errFilePath)
			}

			return nil
		},
	}

	indexCmd.PersistentFlags().StringVar(
		&errFilePath,
		"errFilePath",
		"csv/errors.csv",
		"err csv file path",
	)

	indexCmd.PersistentFlags().IntVar(
		&numOfWorkers,
		"numOfWorkers",
		2,
		"number of workers",
	)

	return indexCmd
}

// execute indexes employees with numWorkers workers and writes every failure
// to csvWriter. It returns the number of failures.
func execute(
	ctx context.Context,
	numWorkers int,
	employees []model.Employee,
	csvWriter *csv.Writer,
	employeeSvc logic.EmployeeService,
) (int, error) {
	err := csvWriter.Write([]string{"row", "staff_no", "name", "card_number", "error"})
	if err != nil {
		return 0, fmt.Errorf("failed to write headers to the error output file: %w", err)
	}

	var wgWorkers sync.WaitGroup
	var wgCollectors sync.WaitGroup

	jobs := make(chan *model.Job)
	errors := make(chan *model.ErrRow)

	for i := 0; i < numWorkers; i++ {
		wgWorkers.Add(1)

		go worker(ctx, &wgWorkers, employeeSvc, jobs, errors)
	}

	failed := 0
	wgCollectors.Add(1)

	go func() {
		defer wgCollectors.Done()
		failed = sumErrors(csvWriter, errors)
	}()

	// sending job to the workers
	sendJobs(employees, jobs)

	// wait until all jobs are done
	wgWorkers.Wait()
	close(errors)

	wgCollectors.Wait()
	logrus.Infof("Indexing finished: %d employees, %d failed.", len(employees), failed)

	return failed, csvWriter.Error()
}

func sendJobs(employees []model.Employee, jobs chan *model.Job) {
	defer close(jobs)

	for i, employee := range employees {
		jobs <- &model.Job{
			Employee: employee,
			RowNum:   i + 1,
		}
	}
}

func worker(
	ctx context.Context,
	wg *sync.WaitGroup,
	employeeSvc logic.EmployeeService,
	jobs <-chan *model.Job,
	errors chan<- *model.ErrRow,
) {
	defer wg.Done()

	for j := range jobs {
		err := employeeSvc.InsertEmployee(ctx, j.Employee)
		if err != nil {
			logrus.Errorf("failed to index row num %d err: %v", j.RowNum, err)
			errors <- &model.ErrRow{
				RowID: j.RowNum,
				Error: err,
				Job:   *j,
			}
		}
	}

	logrus.Debug("worker done")
}

func sumErrors(
	csvWriter *csv.Writer,
	errors <-chan *model.ErrRow,
) int {
	count := 0
	for errRow := range errors {
		count++
		row := []string{
			strconv.Itoa(errRow.RowID),
			errRow.Job.Employee.StaffNo,
			errRow.Job.Employee.Name,
			errRow.Job.Employee.CardNumber,
			errRow.Error.Error(),
		}

		if err := csvWriter.Write(row); err != nil {
			logrus.Errorf("failed to write in the csv file %v", err)
		}
	}
	csvWriter.Flush()

	return count
}
