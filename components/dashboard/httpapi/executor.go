package httpapi

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	"github.com/mkulima-ai/mkulima-dashboard/components/dashboard"
	"github.com/mkulima-ai/mkulima-dashboard/components/dashboard/commands"
	"github.com/mkulima-ai/mkulima-dashboard/components/dashboard/queries"
)

var (
	errLoginNotConfigured       = errors.New("httpapi: login command not configured")
	errLogoutNotConfigured      = errors.New("httpapi: logout command not configured")
	errDiseaseNotConfigured     = errors.New("httpapi: disease command not configured")
	errPreferencesNotConfigured = errors.New("httpapi: preferences command not configured")
	errPageNotConfigured        = errors.New("httpapi: page query not configured")
	errSessionNotConfigured     = errors.New("httpapi: session query not configured")
)

// Executor is the command/query surface the transports call into.
type Executor interface {
	Login(ctx context.Context, input commands.LoginInput) error
	Logout(ctx context.Context, input commands.LogoutInput) error
	SubmitDisease(ctx context.Context, input commands.SubmitDiseaseInput) error
	SavePreferences(ctx context.Context, input commands.SavePreferencesInput) error
	RenderPage(ctx context.Context, viewer dashboard.ViewerContext, req dashboard.PageRequest) (dashboard.PageView, error)
	Session(ctx context.Context) (queries.SessionInfo, error)
}

// CommandExecutor adapts go-command commanders and queriers to Executor.
type CommandExecutor struct {
	LoginCommander       gocommand.Commander[commands.LoginInput]
	LogoutCommander      gocommand.Commander[commands.LogoutInput]
	DiseaseCommander     gocommand.Commander[commands.SubmitDiseaseInput]
	PreferencesCommander gocommand.Commander[commands.SavePreferencesInput]
	PageQuerier          gocommand.Querier[queries.PageInput, dashboard.PageView]
	SessionQuerier       gocommand.Querier[queries.SessionInput, queries.SessionInfo]
}

var (
	_ Executor               = (*CommandExecutor)(nil)
	_ dashboard.PageResolver = (*CommandExecutor)(nil)
)

func (e *CommandExecutor) Login(ctx context.Context, input commands.LoginInput) error {
	if e.LoginCommander == nil {
		return errLoginNotConfigured
	}
	return e.LoginCommander.Execute(ctx, input)
}

func (e *CommandExecutor) Logout(ctx context.Context, input commands.LogoutInput) error {
	if e.LogoutCommander == nil {
		return errLogoutNotConfigured
	}
	return e.LogoutCommander.Execute(ctx, input)
}

func (e *CommandExecutor) SubmitDisease(ctx context.Context, input commands.SubmitDiseaseInput) error {
	if e.DiseaseCommander == nil {
		return errDiseaseNotConfigured
	}
	return e.DiseaseCommander.Execute(ctx, input)
}

func (e *CommandExecutor) SavePreferences(ctx context.Context, input commands.SavePreferencesInput) error {
	if e.PreferencesCommander == nil {
		return errPreferencesNotConfigured
	}
	return e.PreferencesCommander.Execute(ctx, input)
}

// RenderPage runs the page query. It lets the executor back a dashboard.Controller.
func (e *CommandExecutor) RenderPage(ctx context.Context, viewer dashboard.ViewerContext, req dashboard.PageRequest) (dashboard.PageView, error) {
	if e.PageQuerier == nil {
		return dashboard.PageView{}, errPageNotConfigured
	}
	return e.PageQuerier.Query(ctx, queries.PageInput{Viewer: viewer, Request: req})
}

func (e *CommandExecutor) Session(ctx context.Context) (queries.SessionInfo, error) {
	if e.SessionQuerier == nil {
		return queries.SessionInfo{}, errSessionNotConfigured
	}
	return e.SessionQuerier.Query(ctx, queries.SessionInput{})
}
