package convo

import (
	"testing"
)

func TestValidateField(t *testing.T) {
	tests := []struct {
		name    string
		field   string
		raw     string
		want    string
		wantErr string
	}{
		{
			name:  "valid name",
			field: FieldName,
			raw:   "Alex Johnson",
			want:  "Alex Johnson",
		},
		{
			name:    "name too short",
			field:   FieldName,
			raw:     "Al",
			wantErr: "Name must be at least 3 characters long.",
		},
		{
			name:    "name of only spaces",
			field:   FieldName,
			raw:     "    ",
			wantErr: "Name must be at least 3 characters long.",
		},
		{
			name:    "two multibyte characters is still too short",
			field:   FieldName,
			raw:     "éé",
			wantErr: "Name must be at least 3 characters long.",
		},
		{
			name:  "three multibyte characters",
			field: FieldName,
			raw:   "ééé",
			want:  "ééé",
		},
		{
			name:  "valid project type",
			field: FieldProjectType,
			raw:   "Web App Development",
			want:  "Web App Development",
		},
		{
			name:    "single word project type",
			field:   FieldProjectType,
			raw:     "Website",
			wantErr: "Project type must be described in at least two words.",
		},
		{
			name:  "valid duration",
			field: FieldDuration,
			raw:   "8",
			want:  "8",
		},
		{
			name:  "duration with spaces",
			field: FieldDuration,
			raw:   " 12 ",
			want:  "12",
		},
		{
			name:    "non-numeric duration",
			field:   FieldDuration,
			raw:     "abc",
			wantErr: "Duration must be a valid integer.",
		},
		{
			name:    "zero duration",
			field:   FieldDuration,
			raw:     "0",
			wantErr: "Duration must be a positive number of weeks.",
		},
		{
			name:    "negative duration",
			field:   FieldDuration,
			raw:     "-3",
			wantErr: "Duration must be a positive number of weeks.",
		},
		{
			name:  "valid budget",
			field: FieldBudget,
			raw:   "5000",
			want:  "5000",
		},
		{
			name:    "non-numeric budget",
			field:   FieldBudget,
			raw:     "lots",
			wantErr: "Budget must be a valid integer.",
		},
		{
			name:    "budget at boundary",
			field:   FieldBudget,
			raw:     "100",
			wantErr: "Budget must be greater than $100.",
		},
		{
			name:    "budget below boundary",
			field:   FieldBudget,
			raw:     "50",
			wantErr: "Budget must be greater than $100.",
		},
		{
			name:  "budget just above boundary",
			field: FieldBudget,
			raw:   "101",
			want:  "101",
		},
		{
			name:    "unknown field",
			field:   "color",
			raw:     "blue",
			wantErr: `no validation rule for field "color"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateField(tt.field, tt.raw)

			if tt.wantErr != "" {
				if err == nil {
					t.Fatalf("expected error %q, got nil", tt.wantErr)
				}
				if err.Error() != tt.wantErr {
					t.Fatalf("expected error %q, got %q", tt.wantErr, err.Error())
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestValidateRecord(t *testing.T) {
	valid := map[string]string{
		FieldName:        "Alex Johnson",
		FieldProjectType: "Web App Development",
		FieldDuration:    "8",
		FieldBudget:      "10000",
	}
	if err := ValidateRecord(valid); err != nil {
		t.Fatalf("expected valid record, got %v", err)
	}

	missing := map[string]string{
		FieldName: "Alex Johnson",
	}
	if err := ValidateRecord(missing); err == nil {
		t.Fatal("expected error for incomplete record")
	}
}
