package models

import (
	id "teampulse/pkg/domain"
)

// Employee is a directory entry linking an anonymized subject to the
// manager whose team aggregations include it. FullName never leaves the
// directory boundary; aggregation works on subject IDs only.
type Employee struct {
	SubjectID id.SubjectID
	FullName  string
	ManagerID id.ManagerID
	TeamName  string
}
