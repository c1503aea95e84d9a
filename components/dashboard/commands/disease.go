package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	dashboard "github.com/mkulima-ai/mkulima-dashboard/components/dashboard"
)

// SubmitDiseaseInput carries a parsed disease form.
type SubmitDiseaseInput struct {
	Disease dashboard.Disease `json:"disease"`
}

// SubmitDiseaseCommand validates a disease and hands it to the sink.
type SubmitDiseaseCommand struct {
	sink      dashboard.DiseaseSink
	validator dashboard.ConfigValidator
	telemetry Telemetry
}

// NewSubmitDiseaseCommand creates the command. A nil validator uses the
// JSON schema validator.
func NewSubmitDiseaseCommand(sink dashboard.DiseaseSink, validator dashboard.ConfigValidator, telemetry Telemetry) *SubmitDiseaseCommand {
	if validator == nil {
		validator = dashboard.NewJSONSchemaValidator()
	}
	return &SubmitDiseaseCommand{sink: sink, validator: validator, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SubmitDiseaseInput] = (*SubmitDiseaseCommand)(nil)

// Execute returns dashboard.ValidationErrors when the form is incomplete.
func (c *SubmitDiseaseCommand) Execute(ctx context.Context, msg SubmitDiseaseInput) error {
	if c.sink == nil {
		return errors.New("submit disease command requires sink")
	}
	if err := dashboard.ValidateDisease(c.validator, msg.Disease); err != nil {
		return err
	}
	stored, err := c.sink.SubmitDisease(ctx, msg.Disease)
	if err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.disease.submit", map[string]any{
		"disease_id": stored.ID,
		"plant_type": string(stored.PlantType),
		"severity":   string(stored.Severity),
	})
	return nil
}
