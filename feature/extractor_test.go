package feature

import (
	"strings"
	"testing"
	"time"

	"github.com/rushteam/matchkit/core"
)

func TestBuildCandidateFeatures(t *testing.T) {
	rec := &core.CandidateRecord{
		ID:      "c1",
		Title:   "Senior Python Developer",
		Address: "Václavské náměstí, Praha",
		Country: "CS",
		City:    "Praha",
		Skills:  []string{" Python ", "SCRUM", "python", ""},
		Bio:     "Backend developer with 8 years of experience.",
	}

	f := BuildCandidateFeatures(rec)
	if f == nil {
		t.Fatal("nil features")
	}

	if len(f.Skills) != 2 {
		t.Errorf("Skills = %v, want deduped [python scrum]", f.Skills)
	}
	if f.Skills[0] != "python" || f.Skills[1] != "scrum" {
		t.Errorf("Skills = %v, want [python scrum]", f.Skills)
	}
	if f.Country != "cs" || f.City != "praha" {
		t.Errorf("Country/City = %q/%q, want cs/praha", f.Country, f.City)
	}
	if f.SeniorityLevel != 3 {
		t.Errorf("SeniorityLevel = %d, want 3", f.SeniorityLevel)
	}
	for _, want := range []string{"python", "backend", "scrum"} {
		if !containsSubstr(f.Text, want) {
			t.Errorf("Text missing %q: %q", want, f.Text)
		}
	}
}

func TestBuildJobFeatures(t *testing.T) {
	rec := &core.JobRecord{
		ID:          "j1",
		CompanyID:   "acme",
		Title:       "Junior Java Developer",
		Description: "Spring, Hibernate, remote možný",
		Location:    "Brno",
		Country:     "CS",
		SalaryFrom:  "40 000",
		SalaryTo:    "neuvedeno",
		Currency:    "CZK",
		PostedAt:    time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
	}

	f := BuildJobFeatures(rec)
	if f.SalaryFrom != 40000 {
		t.Errorf("SalaryFrom = %v, want 40000", f.SalaryFrom)
	}
	if f.SalaryTo != 0 {
		t.Errorf("SalaryTo = %v, want 0 (malformed treated as absent)", f.SalaryTo)
	}
	if f.SeniorityLevel != 1 {
		t.Errorf("SeniorityLevel = %d, want 1", f.SeniorityLevel)
	}
	if !containsSubstr(f.Text, "hibernate") {
		t.Errorf("Text missing description: %q", f.Text)
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in     string
		want   float64
		wantOK bool
	}{
		{"40000", 40000, true},
		{"40 000", 40000, true},
		{"40,000 Kč", 40000, true},
		{"40.000", 40000, true},
		{"1.5", 1.5, true},
		{"dohodou", 0, false},
		{"", 0, false},
		{"  ", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseAmount(tt.in)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ParseAmount(%q) = (%v, %v), want (%v, %v)", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestSeniorityFromTitle(t *testing.T) {
	tests := []struct {
		title string
		want  int
	}{
		{"Intern Developer", 0},
		{"Junior tester", 1},
		{"Software Developer", 2},
		{"", 2},
		{"Senior Accountant", 3},
		{"Head of Engineering", 4},
		{"Senior Engineering Lead", 4}, // 高级别关键词优先
		{"Vedoucí skladu", 4},
	}

	for _, tt := range tests {
		if got := SeniorityFromTitle(tt.title); got != tt.want {
			t.Errorf("SeniorityFromTitle(%q) = %d, want %d", tt.title, got, tt.want)
		}
	}
}

func containsSubstr(s, sub string) bool {
	return strings.Contains(s, sub)
}
