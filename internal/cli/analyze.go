package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/terraincognita07/mindharbor/internal/models"
	"github.com/terraincognita07/mindharbor/internal/services"
)

// RunAnalyzeCommand prints the bearing analysis for a set of answers. Given
// answers are checked against the questionnaire options; empty ones take
// their defaults.
func RunAnalyzeCommand(ctx context.Context, answers models.QuestionnaireAnswers, out io.Writer) error {
	validator, err := services.NewStepValidator()
	if err != nil {
		return err
	}
	for _, step := range services.QuestionnaireSteps() {
		value := answers.Field(step.Field)
		if value == "" {
			continue
		}
		if err := validator.Validate(ctx, step.Field, value); err != nil {
			return fmt.Errorf("%s: %w", step.Field, err)
		}
	}

	_, err = fmt.Fprintln(out, services.Analyze(answers))
	return err
}
