// Copyright 2026 Elasticsearch B.V. and contributors
// SPDX-License-Identifier: Apache-2.0

// Package index provides the default index names
package index

// Default index names
const (
	Employees = "employees"
	Projects  = "projects"
)
