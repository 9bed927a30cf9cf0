package parser

import "conventest/internal/domain"

// Parser extracts persisted failure records from case results
type Parser interface {
	ParseFailure(result domain.CaseResult) []domain.TestFailure
	ParseAll(results []domain.CaseResult) []domain.TestFailure
}

var _ Parser = (*FailureParser)(nil)
