package service

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/qri-io/jsonschema"
)

//go:embed schema/cv_analysis.json
var cvAnalysisSchemaJSON []byte

var (
	cvSchemaOnce sync.Once
	cvSchema     *jsonschema.Schema
	cvSchemaErr  error
)

func compiledCVSchema() (*jsonschema.Schema, error) {
	cvSchemaOnce.Do(func() {
		rs := &jsonschema.Schema{}
		if err := json.Unmarshal(cvAnalysisSchemaJSON, rs); err != nil {
			cvSchemaErr = fmt.Errorf("compile cv_analysis schema: %w", err)
			return
		}
		cvSchema = rs
	})
	return cvSchema, cvSchemaErr
}

// ValidateCVAnalysis checks a raw cv_analysis payload against the embedded
// schema. The field is a tagged union: a bare JSON string is accepted as-is,
// an object must carry the expected property types. Absent or null payloads
// are valid.
func ValidateCVAnalysis(ctx context.Context, raw json.RawMessage) error {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil
	}

	rs, err := compiledCVSchema()
	if err != nil {
		return err
	}

	keyErrs, err := rs.ValidateBytes(ctx, raw)
	if err != nil {
		return fmt.Errorf("cv_analysis is not valid JSON: %w", err)
	}
	if len(keyErrs) > 0 {
		return fmt.Errorf("cv_analysis: %s", keyErrs[0].Error())
	}

	return nil
}
