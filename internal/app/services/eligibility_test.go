package services

import (
	"encoding/json"
	"testing"

	"github.com/vidyadaan/scholarhub/internal/app/models"
)

func floatPtr(v float64) *float64 { return &v }
func strPtr(v string) *string     { return &v }

func TestCheckEligibility(t *testing.T) {
	criteria := func(spec models.EligibilityCriteriaSpec) json.RawMessage {
		raw, err := json.Marshal(spec)
		if err != nil {
			t.Fatalf("marshal criteria: %v", err)
		}
		return raw
	}
	academic := func(percentage float64) *models.ApplicationData {
		return &models.ApplicationData{AcademicInfo: &models.AcademicInfo{Percentage: &percentage}}
	}

	tests := []struct {
		name         string
		student      models.Student
		data         *models.ApplicationData
		scholarship  models.Scholarship
		wantEligible bool
	}{
		{
			name:         "no criteria means eligible",
			student:      models.Student{},
			scholarship:  models.Scholarship{},
			wantEligible: true,
		},
		{
			name:    "income below limit",
			student: models.Student{FamilyIncome: floatPtr(250000)},
			scholarship: models.Scholarship{
				EligibilityCriteria: criteria(models.EligibilityCriteriaSpec{MaxFamilyIncome: floatPtr(300000)}),
			},
			wantEligible: true,
		},
		{
			name:    "income above limit",
			student: models.Student{FamilyIncome: floatPtr(450000)},
			scholarship: models.Scholarship{
				EligibilityCriteria: criteria(models.EligibilityCriteriaSpec{MaxFamilyIncome: floatPtr(300000)}),
			},
			wantEligible: false,
		},
		{
			name:    "form income used when the profile has none",
			student: models.Student{},
			data: &models.ApplicationData{
				FamilyInfo: &models.FamilyInfo{AnnualIncome: floatPtr(450000)},
			},
			scholarship: models.Scholarship{
				EligibilityCriteria: criteria(models.EligibilityCriteriaSpec{MaxFamilyIncome: floatPtr(300000)}),
			},
			wantEligible: false,
		},
		{
			name:    "missing income is skipped not failed",
			student: models.Student{},
			scholarship: models.Scholarship{
				EligibilityCriteria: criteria(models.EligibilityCriteriaSpec{MaxFamilyIncome: floatPtr(300000)}),
			},
			wantEligible: true,
		},
		{
			name:    "percentage meets the floor",
			student: models.Student{},
			data:    academic(85),
			scholarship: models.Scholarship{
				EligibilityCriteria: criteria(models.EligibilityCriteriaSpec{MinPercentage: floatPtr(80)}),
			},
			wantEligible: true,
		},
		{
			name:    "percentage below the floor",
			student: models.Student{},
			data:    academic(72.5),
			scholarship: models.Scholarship{
				EligibilityCriteria: criteria(models.EligibilityCriteriaSpec{MinPercentage: floatPtr(80)}),
			},
			wantEligible: false,
		},
		{
			name:    "missing academic data is skipped not failed",
			student: models.Student{},
			scholarship: models.Scholarship{
				EligibilityCriteria: criteria(models.EligibilityCriteriaSpec{MinPercentage: floatPtr(80)}),
			},
			wantEligible: true,
		},
		{
			name:    "category covered",
			student: models.Student{},
			data: &models.ApplicationData{
				AdditionalInfo: map[string]interface{}{"category": "obc"},
			},
			scholarship: models.Scholarship{
				EligibilityCriteria: criteria(models.EligibilityCriteriaSpec{Categories: []string{"SC", "ST", "OBC"}}),
			},
			wantEligible: true,
		},
		{
			name:    "category not covered",
			student: models.Student{},
			data: &models.ApplicationData{
				AdditionalInfo: map[string]interface{}{"category": "GENERAL"},
			},
			scholarship: models.Scholarship{
				EligibilityCriteria: criteria(models.EligibilityCriteriaSpec{Categories: []string{"SC", "ST"}}),
			},
			wantEligible: false,
		},
		{
			name:    "state covered",
			student: models.Student{State: strPtr("Tamil Nadu")},
			scholarship: models.Scholarship{
				EligibilityCriteria: criteria(models.EligibilityCriteriaSpec{States: []string{"Tamil Nadu", "Kerala"}}),
			},
			wantEligible: true,
		},
		{
			name:    "state not covered",
			student: models.Student{State: strPtr("Punjab")},
			scholarship: models.Scholarship{
				EligibilityCriteria: criteria(models.EligibilityCriteriaSpec{States: []string{"Tamil Nadu"}}),
			},
			wantEligible: false,
		},
		{
			name:        "unparseable criteria never block",
			student:     models.Student{},
			scholarship: models.Scholarship{EligibilityCriteria: json.RawMessage(`not json`)},

			wantEligible: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CheckEligibility(&tt.student, tt.data, &tt.scholarship)
			if got.Eligible != tt.wantEligible {
				t.Errorf("CheckEligibility() eligible = %v, want %v (reasons: %v)",
					got.Eligible, tt.wantEligible, got.Reasons)
			}
			if got.Eligible && len(got.Reasons) != 0 {
				t.Errorf("eligible result carries reasons: %v", got.Reasons)
			}
		})
	}
}
