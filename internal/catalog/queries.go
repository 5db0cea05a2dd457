// Copyright 2026 Elasticsearch B.V.
// SPDX-License-Identifier: Apache-2.0

package catalog

import "github.com/elastic/staffsearch/internal/query"

func activeWithSkill(skill query.Clause) *query.BoolQuery {
	return query.Bool().Must(query.Term("is_active", true), skill)
}

func qualifiedEmployees() query.Request {
	return query.Request{
		Query: query.Bool().Must(
			query.Term("is_active", true),
			query.Range("salary").Gte(80000),
			query.Match("skills", "Python"),
		),
	}
}

func compositeFuzzyWildcard() query.Request {
	return query.Request{
		Query: query.Bool().Should(
			activeWithSkill(query.Match("skills", "Pythn").WithFuzziness(query.DefaultFuzziness)),
			query.Wildcard("name", "A*").WithCaseInsensitive(),
			query.Nested("certifications", query.Term("certifications.issuer", "Amazon")),
			query.Nested("previous_jobs", query.Match("previous_jobs.role", "Developer")),
		),
		Highlight: []string{"name", "skills", "certifications.cert_name", "previous_jobs.role"},
	}
}

func nestedCertFuzzySkills() query.Request {
	return query.Request{
		Query: query.Bool().Must(
			query.Nested("certifications", query.Bool().Should(
				query.Term("certifications.issuer", "Amazon"),
				query.Term("certifications.issuer", "CNCF"),
			)).WithInnerHits(),
			query.Range("join_date").Gte("2020-01-01"),
			query.Bool().Should(
				query.Fuzzy("skills", "javascipt"),
				query.Match("skills", "React"),
			),
		),
		Highlight: []string{"skills", "certifications.cert_name"},
	}
}

func employeesFuzzyWildcardSalary() query.Request {
	return query.Request{
		Query: query.Bool().Must(
			query.Bool().Should(
				activeWithSkill(query.Match("skills", "Python")),
				// fuzzy is not analyzed; the indexed terms are lowercase
				query.Fuzzy("name", "jonh"),
				query.Wildcard("name", "Al*").WithCaseInsensitive(),
			),
			query.Range("salary").Gte(70000),
		),
	}
}

// projectsOf selects the projects of employeeIDs with at least minBudget.
func projectsOf(employeeIDs []string, minBudget float64) query.Request {
	return query.Request{
		Query: query.Bool().Must(
			query.Terms("employee_id", employeeIDs),
			query.Range("budget").Gte(minBudget),
		),
	}
}
