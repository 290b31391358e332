package services

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/terraincognita07/mindharbor/internal/models"
)

func optionValues(field string) []string {
	for _, step := range QuestionnaireSteps() {
		if step.Field != field {
			continue
		}
		values := make([]string, 0, len(step.Options))
		for _, option := range step.Options {
			values = append(values, option.Value)
		}
		return values
	}
	return nil
}

func TestAnalyzeEveryCombinationEndsWithClosingParagraph(t *testing.T) {
	combinations := 0
	for _, primary := range optionValues(models.FieldPrimaryStruggle) {
		for _, sleep := range optionValues(models.FieldSleepQuality) {
			for _, stress := range optionValues(models.FieldStressLevel) {
				for _, support := range optionValues(models.FieldSupportSystem) {
					for _, coping := range optionValues(models.FieldCoping) {
						for _, activity := range optionValues(models.FieldPhysicalActivity) {
							answers := models.QuestionnaireAnswers{
								PrimaryStruggle:  primary,
								SleepQuality:     sleep,
								StressLevel:      stress,
								SupportSystem:    support,
								Coping:           coping,
								PhysicalActivity: activity,
							}
							analysis := Analyze(answers)
							if !strings.HasSuffix(analysis, ClosingParagraph()) {
								t.Fatalf("Analyze(%+v) does not end with the closing paragraph", answers)
							}
							paragraphs := strings.Split(analysis, paragraphSeparator)
							if len(paragraphs) < 2 || len(paragraphs) > 7 {
								t.Fatalf("Analyze(%+v) produced %d paragraphs", answers, len(paragraphs))
							}
							combinations++
						}
					}
				}
			}
		}
	}
	if combinations != 8*4*4*4*4*5 {
		t.Fatalf("expected every combination to be covered, got %d", combinations)
	}
}

func TestAnalyzeEmptyAnswersUsesDefaults(t *testing.T) {
	got := strings.Split(Analyze(models.QuestionnaireAnswers{}), paragraphSeparator)
	want := []string{primaryStruggleParagraphs["wellness"], closingParagraph}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Analyze({}) mismatch (-want +got):\n%s", diff)
	}

	explicit := Analyze(models.QuestionnaireAnswers{
		PrimaryStruggle:  "wellness",
		SleepQuality:     "good",
		StressLevel:      "moderate",
		SupportSystem:    "moderate",
		Coping:           "mixed",
		PhysicalActivity: "sometimes",
	})
	if explicit != Analyze(models.QuestionnaireAnswers{}) {
		t.Fatal("expected empty answers to match the explicit defaults")
	}
}

func TestAnalyzeAnxietyWithPoorSleep(t *testing.T) {
	got := strings.Split(Analyze(models.QuestionnaireAnswers{
		PrimaryStruggle:  "anxiety",
		SleepQuality:     "poor",
		StressLevel:      "low",
		SupportSystem:    "strong",
		Coping:           "healthy",
		PhysicalActivity: "regular",
	}), paragraphSeparator)

	want := []string{primaryStruggleParagraphs["anxiety"], sleepParagraph, closingParagraph}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Analyze() mismatch (-want +got):\n%s", diff)
	}
}

func TestAnalyzeAllTriggersKeepFixedOrder(t *testing.T) {
	got := strings.Split(Analyze(models.QuestionnaireAnswers{
		PrimaryStruggle:  "grief",
		SleepQuality:     "fair",
		StressLevel:      "severe",
		SupportSystem:    "none",
		Coping:           "harmful",
		PhysicalActivity: "never",
	}), paragraphSeparator)

	want := []string{
		primaryStruggleParagraphs["grief"],
		sleepParagraph,
		stressParagraph,
		supportParagraph,
		copingParagraph,
		activityParagraph,
		closingParagraph,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Analyze() mismatch (-want +got):\n%s", diff)
	}
}

func TestAnalyzeUnknownPrimaryStruggleOmitsOpeningParagraph(t *testing.T) {
	got := Analyze(models.QuestionnaireAnswers{PrimaryStruggle: "boredom", StressLevel: "high"})
	want := stressParagraph + paragraphSeparator + closingParagraph
	if got != want {
		t.Fatalf("Analyze() = %q, want %q", got, want)
	}
}

func TestAnalyzeIgnoresUnknownConditionalValues(t *testing.T) {
	got := Analyze(models.QuestionnaireAnswers{PrimaryStruggle: "stress", SleepQuality: "terrible", Coping: "unknown"})
	want := primaryStruggleParagraphs["stress"] + paragraphSeparator + closingParagraph
	if got != want {
		t.Fatalf("Analyze() = %q, want %q", got, want)
	}
}

func TestAnalyzeIsDeterministic(t *testing.T) {
	answers := models.QuestionnaireAnswers{PrimaryStruggle: "trauma", StressLevel: "high", SupportSystem: "weak"}
	first := Analyze(answers)
	second := Analyze(answers)
	if first != second {
		t.Fatal("expected identical output for identical input")
	}
}

func TestEveryPrimaryStruggleOptionHasParagraph(t *testing.T) {
	values := optionValues(models.FieldPrimaryStruggle)
	if len(values) != len(primaryStruggleParagraphs) {
		t.Fatalf("expected %d primary paragraphs, got %d", len(values), len(primaryStruggleParagraphs))
	}
	for _, value := range values {
		if _, ok := primaryStruggleParagraphs[value]; !ok {
			t.Fatalf("missing paragraph for %q", value)
		}
	}
}
