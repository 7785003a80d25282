package services

import (
	"encoding/json"
	"strings"

	"github.com/vidyadaan/scholarhub/internal/app/models"
	"github.com/vidyadaan/scholarhub/internal/pkg/logger"
)

// EligibilityResult lists the criteria a student does not meet. Empty Reasons
// means eligible as far as the stored criteria can tell.
type EligibilityResult struct {
	Eligible bool     `json:"eligible"`
	Reasons  []string `json:"reasons,omitempty"`
}

// CheckEligibility evaluates a student's profile and application form against
// a scholarship's stored criteria. The academic and category criteria live on
// the form payload, so data may be nil for profile-only previews. Criteria
// with no data to check are skipped rather than failed; the result stays
// advisory unless enforcement is configured.
func CheckEligibility(student *models.Student, data *models.ApplicationData, scholarship *models.Scholarship) EligibilityResult {
	result := EligibilityResult{Eligible: true}

	if len(scholarship.EligibilityCriteria) == 0 {
		return result
	}

	var spec models.EligibilityCriteriaSpec
	if err := json.Unmarshal(scholarship.EligibilityCriteria, &spec); err != nil {
		// Unreadable criteria never block an application
		logger.Warn().Err(err).Int64("scholarshipID", scholarship.ID).Msg("Unparseable eligibility criteria")
		return result
	}

	if spec.MaxFamilyIncome != nil {
		income := student.FamilyIncome
		if income == nil && data != nil && data.FamilyInfo != nil {
			income = data.FamilyInfo.AnnualIncome
		}
		if income != nil && *income > *spec.MaxFamilyIncome {
			result.Reasons = append(result.Reasons, "family income exceeds the scholarship limit")
		}
	}

	if spec.MinPercentage != nil && data != nil && data.AcademicInfo != nil && data.AcademicInfo.Percentage != nil {
		if *data.AcademicInfo.Percentage < *spec.MinPercentage {
			result.Reasons = append(result.Reasons, "academic percentage is below the scholarship minimum")
		}
	}

	if len(spec.Categories) > 0 {
		if category := applicantCategory(data); category != "" && !containsFold(spec.Categories, category) {
			result.Reasons = append(result.Reasons, "applicant category is not covered by this scholarship")
		}
	}

	if len(spec.States) > 0 && student.State != nil && !containsFold(spec.States, *student.State) {
		result.Reasons = append(result.Reasons, "student state is not covered by this scholarship")
	}

	result.Eligible = len(result.Reasons) == 0
	return result
}

// applicantCategory pulls the reservation category off the form's free-form
// section, where the application template collects it.
func applicantCategory(data *models.ApplicationData) string {
	if data == nil || data.AdditionalInfo == nil {
		return ""
	}
	category, _ := data.AdditionalInfo["category"].(string)
	return category
}

func containsFold(values []string, target string) bool {
	for _, v := range values {
		if strings.EqualFold(v, target) {
			return true
		}
	}
	return false
}
