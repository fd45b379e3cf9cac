package batch

import (
	"errors"
)

var ErrNoAnnotations = errors.New("no records carry expected_passed")

// AgreementResult compares engine verdicts with expected verdicts from the
// input file.
type AgreementResult struct {
	TotalRecords   int      `json:"total_records"`
	AgreementCount int      `json:"agreement_count"`
	AgreementRate  float64  `json:"agreement_rate"`
	TruePositives  int      `json:"true_positives"`
	TrueNegatives  int      `json:"true_negatives"`
	FalsePositives int      `json:"false_positives"`
	FalseNegatives int      `json:"false_negatives"`
	Threshold      float64  `json:"threshold"`
	Passed         bool     `json:"passed"`
	Disagreements  []string `json:"disagreements,omitempty"`
	Unannotated    int      `json:"unannotated"`
}

// Agreement scores outcomes that carry an expected verdict. A positive is a
// sample expected to pass. Errored and unannotated outcomes are skipped.
func Agreement(outcomes []Outcome, threshold float64) (*AgreementResult, error) {
	result := &AgreementResult{Threshold: threshold}

	for _, o := range outcomes {
		if o.Result == nil {
			continue
		}
		if o.ExpectedPassed == nil {
			result.Unannotated++
			continue
		}

		result.TotalRecords++
		expected, actual := *o.ExpectedPassed, o.Result.Passed

		switch {
		case expected && actual:
			result.TruePositives++
		case !expected && !actual:
			result.TrueNegatives++
		case !expected && actual:
			result.FalsePositives++
		default:
			result.FalseNegatives++
		}

		if expected == actual {
			result.AgreementCount++
		} else {
			result.Disagreements = append(result.Disagreements, o.EventID)
		}
	}

	if result.TotalRecords == 0 {
		return nil, ErrNoAnnotations
	}

	result.AgreementRate = float64(result.AgreementCount) / float64(result.TotalRecords)
	result.Passed = result.AgreementRate >= threshold
	return result, nil
}
