// Copyright 2026 Elasticsearch B.V.
// SPDX-License-Identifier: Apache-2.0

// Package domain defines the employee and project documents stored in the
// two indices. Fields are free-form; the engine's mapping is the only
// validation they get.
package domain

import (
	"encoding/json"
	"fmt"
)

// Identifier fields used as storage keys.
const (
	EmployeeIDField = "employee_id"
	ProjectIDField  = "project_id"
)

// Employee is a document of the employees index.
type Employee struct {
	EmployeeID     string          `json:"employee_id"`
	Name           string          `json:"name"`
	Age            int             `json:"age"`
	Salary         float64         `json:"salary"`
	IsActive       bool            `json:"is_active"`
	JoinDate       string          `json:"join_date"`
	Skills         Skills          `json:"skills"`
	Location       *GeoPoint       `json:"location,omitempty"`
	Certifications []Certification `json:"certifications,omitempty"`
	PreviousJobs   []PreviousJob   `json:"previous_jobs,omitempty"`
}

// Certification is an element of the nested certifications field.
type Certification struct {
	CertName  string `json:"cert_name"`
	IssueDate string `json:"issue_date"`
	Issuer    string `json:"issuer"`
}

// PreviousJob is an element of the nested previous_jobs field.
type PreviousJob struct {
	Company string  `json:"company"`
	Role    string  `json:"role"`
	Years   float64 `json:"years"`
}

// GeoPoint is a geo_point in object form.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Project is a document of the projects index. EmployeeID references an
// Employee but is never enforced.
type Project struct {
	ProjectID  string  `json:"project_id"`
	Name       string  `json:"name"`
	EmployeeID string  `json:"employee_id"`
	Budget     float64 `json:"budget"`
	StartDate  string  `json:"start_date"`
}

// Skills accepts either a single tag or a list of tags.
type Skills []string

// UnmarshalJSON implements json.Unmarshaler.
func (s *Skills) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = nil
		return nil
	}
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		*s = Skills{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("skills must be a string or a list of strings: %w", err)
	}
	*s = many
	return nil
}

// DecodeEmployee decodes a raw _source into an Employee.
func DecodeEmployee(raw []byte) (Employee, error) {
	var e Employee
	if err := json.Unmarshal(raw, &e); err != nil {
		return Employee{}, fmt.Errorf("decode employee: %w", err)
	}
	return e, nil
}

// DecodeProject decodes a raw _source into a Project.
func DecodeProject(raw []byte) (Project, error) {
	var p Project
	if err := json.Unmarshal(raw, &p); err != nil {
		return Project{}, fmt.Errorf("decode project: %w", err)
	}
	return p, nil
}
