package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	dashboard "github.com/mkulima-ai/mkulima-dashboard/components/dashboard"
)

// SavePreferencesInput carries the settings form.
type SavePreferencesInput struct {
	Viewer      dashboard.ViewerContext `json:"viewer"`
	Preferences dashboard.Preferences   `json:"preferences"`
}

// SavePreferencesCommand validates and persists display preferences.
type SavePreferencesCommand struct {
	store     dashboard.PreferenceStore
	telemetry Telemetry
}

// NewSavePreferencesCommand creates the command.
func NewSavePreferencesCommand(store dashboard.PreferenceStore, telemetry Telemetry) *SavePreferencesCommand {
	return &SavePreferencesCommand{store: store, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SavePreferencesInput] = (*SavePreferencesCommand)(nil)

// Execute returns dashboard.ValidationErrors for unknown themes or languages.
func (c *SavePreferencesCommand) Execute(ctx context.Context, msg SavePreferencesInput) error {
	if c.store == nil {
		return errors.New("preferences command requires store")
	}
	if err := msg.Preferences.Validate(); err != nil {
		return err
	}
	if err := c.store.SavePreferences(ctx, msg.Preferences); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.preferences.save", map[string]any{
		"user_id":  msg.Viewer.UserID,
		"theme":    msg.Preferences.Theme,
		"language": msg.Preferences.Language,
	})
	return nil
}
