package logic

import (
	"context"
	"encoding/json"
	"time"

	"elena/residency_alerts/model"

	"github.com/olivere/elastic"
)

// IndexName is the Elasticsearch index holding the employees
const IndexName = "residency_employees"

const mappings = `{
"settings":{
  "number_of_shards":1,
  "number_of_replicas":0
},
"mappings":{
  "properties": {
    "staff_no": {
      "type": "keyword"
    },
    "passport_number": {
      "type": "keyword"
    },
    "name": {
      "type": "text"
    },
    "job": {
      "type": "text"
    },
    "nationality": {
      "type": "text"
    },
    "card_type": {
      "type": "text"
    },
    "card_number": {
      "type": "keyword"
    },
    "card_expiry": {
      "type": "date"
    },
    "passport_issue_date": {
      "type": "keyword"
    },
    "passport_expiry_date": {
      "type": "keyword"
    },
    "email": {
      "type": "keyword"
    },
    "joining_date": {
      "type": "keyword"
    },
    "tenure_years": {
      "type": "keyword"
    }
  }
}
}
`

var searchFields = []string{
	"name",
	"staff_no",
	"passport_number",
	"job",
	"nationality",
	"card_type",
	"card_number",
}

type EmployeeService interface {
	InsertEmployee(ctx context.Context, employee model.Employee) error
}

type EmployeeServiceImpl struct {
	esClient *elastic.Client
}

func NewEmployeeService(esClient *elastic.Client) *EmployeeServiceImpl {
	return &EmployeeServiceImpl{
		esClient: esClient,
	}
}

// EnsureIndex creates the employees index when it does not exist
func (empSvc *EmployeeServiceImpl) EnsureIndex(ctx context.Context) error {
	exists, err := empSvc.esClient.IndexExists(IndexName).Do(ctx)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	_, err = empSvc.esClient.CreateIndex(IndexName).BodyString(mappings).Do(ctx)
	return err
}

// InsertEmployee indexes the employee under its staff number
func (empSvc *EmployeeServiceImpl) InsertEmployee(
	ctx context.Context,
	employee model.Employee,
) error {
	_, err := empSvc.esClient.Index().Type("_doc").
		Index(IndexName).
		Id(employee.StaffNo).
		BodyJson(employee.Document()).
		Do(ctx)
	return err
}

// SearchEmployees finds employees whose fields start with the keyword
func (empSvc *EmployeeServiceImpl) SearchEmployees(
	ctx context.Context,
	keyword string,
	now time.Time,
	size int,
) ([]model.Employee, error) {
	query := elastic.NewMultiMatchQuery(keyword, searchFields...).
		Type("phrase_prefix")

	return empSvc.search(ctx, query, now, size)
}

// FindEmployeesExpiringBefore finds employees whose card expires on or
// before the given day, including cards that already expired
func (empSvc *EmployeeServiceImpl) FindEmployeesExpiringBefore(
	ctx context.Context,
	day time.Time,
	now time.Time,
	size int,
) ([]model.Employee, error) {
	query := elastic.NewRangeQuery("card_expiry").
		Lte(day.Format("2006-01-02")).
		Format("yyyy-MM-dd")

	return empSvc.search(ctx, query, now, size)
}

func (empSvc *EmployeeServiceImpl) search(
	ctx context.Context,
	query elastic.Query,
	now time.Time,
	size int,
) ([]model.Employee, error) {
	var employees []model.Employee

	res, err := empSvc.esClient.Search().
		Index(IndexName).
		Query(query).
		Sort("card_expiry", true).
		Size(size).
		RestTotalHitsAsInt(true).
		Do(ctx)
	if err != nil {
		return nil, err
	}

	for _, hit := range res.Hits.Hits {
		jsonStr, err := hit.Source.MarshalJSON()
		if err != nil {
			return nil, err
		}

		var doc model.Document
		err = json.Unmarshal(jsonStr, &doc)
		if err != nil {
			return nil, err
		}

		employees = append(employees, fromDocument(doc, now))
	}

	return employees, nil
}

// fromDocument restores an employee and recomputes its day count for now
func fromDocument(doc model.Document, now time.Time) model.Employee {
	expiry := doc.CardExpiry.In(now.Location())

	return model.Employee{
		StaffNo:            doc.StaffNo,
		PassportNumber:     doc.PassportNumber,
		Name:               doc.Name,
		Job:                doc.Job,
		Nationality:        doc.Nationality,
		CardType:           doc.CardType,
		CardNumber:         doc.CardNumber,
		CardExpiry:         expiry,
		PassportIssueDate:  doc.PassportIssueDate,
		PassportExpiryDate: doc.PassportExpiryDate,
		Email:              doc.Email,
		JoiningDate:        doc.JoiningDate,
		TenureYears:        doc.TenureYears,
		DaysUntilExpiry:    DaysUntil(expiry, now),
	}
}
