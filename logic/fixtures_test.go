package logic

import (
	"io"
	"time"

	"elena/residency_alerts/model"

	"github.com/sirupsen/logrus"
)

var testNow = time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.Out = io.Discard
	return log
}

func employeeIn(staffNo string, days int) model.Employee {
	return model.Employee{
		StaffNo:         staffNo,
		Name:            "employee " + staffNo,
		Job:             "ENGINEER",
		Nationality:     "egyptian",
		CardNumber:      "C" + staffNo,
		CardExpiry:      Midnight(testNow).AddDate(0, 0, days),
		DaysUntilExpiry: days,
	}
}

func staffNumbers(employees []model.Employee) []string {
	var out []string
	for _, e := range employees {
		out = append(out, e.StaffNo)
	}
	return out
}

const sheetHeader = "Staff No,Passport No,Name,Job,Nationality,Card Type,Card No,Card Expiry,Passport Issue Date,Passport Expiry Date,Email,Joining Date,Years"

// sheet is a small export with one employee in every tier, relative to testNow
const sheet = sheetHeader + `
100,P100,JOHN SMITH,engineer,british,iqama,C100,25/12/2024,01/01/2020,01/01/2030,john@example.com,01/01/2019,6
101,P101,jane doe,accountant,egyptian,iqama,C101,05/01/2025,01/01/2020,01/01/2030,jane@example.com,01/01/2021,4
102,P102,ali hassan,driver,saudi,iqama,C102,20/01/2025,01/01/2020,01/01/2030,ali@example.com,01/01/2022,3

103,P103,mona,nurse,jordanian,iqama,C103,01/06/2025,01/01/2020,01/01/2030,mona@example.com,01/01/2023,2
,P104,no staff number,clerk,indian,iqama,C104,01/02/2025,,,,,
105,P105,no expiry,clerk,indian,iqama,C105,,,,,,
`
