// Copyright 2026 Elasticsearch B.V.
// SPDX-License-Identifier: Apache-2.0

package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEmployee(t *testing.T) {
	t.Parallel()

	raw := []byte(`{
		"employee_id": "E1",
		"name": "Alice Smith",
		"age": 31,
		"salary": 90000.5,
		"is_active": true,
		"join_date": "2021-03-15",
		"skills": ["Python", "Go"],
		"location": {"lat": 40.71, "lon": -74.0},
		"certifications": [{"cert_name": "AWS SA", "issue_date": "2022-01-10", "issuer": "Amazon"}],
		"previous_jobs": [{"company": "Initech", "role": "Developer", "years": 2}]
	}`)

	e, err := DecodeEmployee(raw)
	require.NoError(t, err)
	assert.Equal(t, "E1", e.EmployeeID)
	assert.Equal(t, Skills{"Python", "Go"}, e.Skills)
	require.NotNil(t, e.Location)
	assert.InDelta(t, 40.71, e.Location.Lat, 1e-9)
	require.Len(t, e.Certifications, 1)
	assert.Equal(t, "Amazon", e.Certifications[0].Issuer)
	require.Len(t, e.PreviousJobs, 1)
	assert.Equal(t, "Developer", e.PreviousJobs[0].Role)
}

func TestSkills_SingleString(t *testing.T) {
	t.Parallel()

	e, err := DecodeEmployee([]byte(`{"employee_id":"E2","skills":"Python"}`))
	require.NoError(t, err)
	assert.Equal(t, Skills{"Python"}, e.Skills)
}

func TestSkills_Invalid(t *testing.T) {
	t.Parallel()

	_, err := DecodeEmployee([]byte(`{"employee_id":"E2","skills":42}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "skills must be")
}

func TestDecodeProject(t *testing.T) {
	t.Parallel()

	p, err := DecodeProject([]byte(`{"project_id":"P1","name":"Apollo","employee_id":"E1","budget":150000,"start_date":"2023-01-01"}`))
	require.NoError(t, err)
	assert.Equal(t, Project{ProjectID: "P1", Name: "Apollo", EmployeeID: "E1", Budget: 150000, StartDate: "2023-01-01"}, p)

	_, err = DecodeProject([]byte(`[]`))
	require.Error(t, err)
}
