package recommend

import (
	"fmt"
	"strings"
)

// Stage names one step of the pipeline.
type Stage string

const (
	StageResearch       Stage = "research"
	StageIssueAnalysis  Stage = "issue_analysis"
	StageRecommendation Stage = "recommendation"
)

// StageError reports which stage of an analysis failed.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// ParseError means a model response lacked required output fields. Fields
// lists the missing ones.
type ParseError struct {
	Stage    Stage
	Fields   []string
	Response string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s output: missing [%s]", e.Stage, strings.Join(e.Fields, ", "))
}
