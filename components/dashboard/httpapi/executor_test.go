package httpapi

import (
	"context"
	"errors"
	"testing"

	"github.com/mkulima-ai/mkulima-dashboard/components/dashboard"
	"github.com/mkulima-ai/mkulima-dashboard/components/dashboard/commands"
	"github.com/mkulima-ai/mkulima-dashboard/components/dashboard/queries"
)

type stubCommander[T any] struct {
	last  T
	calls int
	err   error
}

func (s *stubCommander[T]) Execute(_ context.Context, msg T) error {
	s.last = msg
	s.calls++
	return s.err
}

type stubQuerier[In, Out any] struct {
	last  In
	calls int
	out   Out
}

func (s *stubQuerier[In, Out]) Query(_ context.Context, in In) (Out, error) {
	s.last = in
	s.calls++
	return s.out, nil
}

func TestExecutorDelegatesCommands(t *testing.T) {
	t.Parallel()
	login := &stubCommander[commands.LoginInput]{}
	logout := &stubCommander[commands.LogoutInput]{}
	disease := &stubCommander[commands.SubmitDiseaseInput]{err: errors.New("rejected")}
	prefs := &stubCommander[commands.SavePreferencesInput]{}
	exec := &CommandExecutor{
		LoginCommander:       login,
		LogoutCommander:      logout,
		DiseaseCommander:     disease,
		PreferencesCommander: prefs,
	}

	if err := exec.Login(context.Background(), commands.LoginInput{Email: "admin@mkulima.ai"}); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if login.calls != 1 || login.last.Email != "admin@mkulima.ai" {
		t.Fatalf("expected login to execute with email, got %+v", login)
	}
	if err := exec.Logout(context.Background(), commands.LogoutInput{}); err != nil || logout.calls != 1 {
		t.Fatalf("expected logout to execute, err=%v calls=%d", err, logout.calls)
	}
	if err := exec.SubmitDisease(context.Background(), commands.SubmitDiseaseInput{}); err == nil {
		t.Fatalf("expected disease error to propagate")
	}
	if err := exec.SavePreferences(context.Background(), commands.SavePreferencesInput{}); err != nil || prefs.calls != 1 {
		t.Fatalf("expected preferences to execute, err=%v calls=%d", err, prefs.calls)
	}
}

func TestExecutorDelegatesQueries(t *testing.T) {
	t.Parallel()
	page := &stubQuerier[queries.PageInput, dashboard.PageView]{
		out: dashboard.PageView{Page: dashboard.PageDefinition{Name: "analytics"}},
	}
	session := &stubQuerier[queries.SessionInput, queries.SessionInfo]{
		out: queries.SessionInfo{State: "authenticated", Authenticated: true},
	}
	exec := &CommandExecutor{PageQuerier: page, SessionQuerier: session}

	view, err := exec.RenderPage(context.Background(), dashboard.ViewerContext{UserID: "1"}, dashboard.PageRequest{Route: "/analytics"})
	if err != nil {
		t.Fatalf("RenderPage returned error: %v", err)
	}
	if view.Page.Name != "analytics" || page.last.Request.Route != "/analytics" || page.last.Viewer.UserID != "1" {
		t.Fatalf("unexpected page delegation %+v", page.last)
	}
	info, err := exec.Session(context.Background())
	if err != nil || !info.Authenticated {
		t.Fatalf("unexpected session info %+v err=%v", info, err)
	}
}

func TestExecutorRequiresCollaborators(t *testing.T) {
	t.Parallel()
	exec := &CommandExecutor{}
	if err := exec.Login(context.Background(), commands.LoginInput{}); !errors.Is(err, errLoginNotConfigured) {
		t.Fatalf("expected not configured error, got %v", err)
	}
	if _, err := exec.RenderPage(context.Background(), dashboard.ViewerContext{}, dashboard.PageRequest{}); !errors.Is(err, errPageNotConfigured) {
		t.Fatalf("expected not configured error, got %v", err)
	}
	if _, err := exec.Session(context.Background()); !errors.Is(err, errSessionNotConfigured) {
		t.Fatalf("expected not configured error, got %v", err)
	}
}
