package queries

import (
	"context"
	"testing"

	dashboard "github.com/mkulima-ai/mkulima-dashboard/components/dashboard"
	"github.com/mkulima-ai/mkulima-dashboard/pkg/auth"
)

type stubPageService struct {
	calls int
	route string
}

func (s *stubPageService) RenderPage(_ context.Context, _ dashboard.ViewerContext, req dashboard.PageRequest) (dashboard.PageView, error) {
	s.calls++
	s.route = req.Route
	return dashboard.PageView{Page: dashboard.PageDefinition{Route: req.Route}}, nil
}

type stubSessions map[string]auth.State

func (s stubSessions) State(id string) auth.State {
	if state, ok := s[id]; ok {
		return state
	}
	return auth.StateAnonymous
}

func TestPageQuery(t *testing.T) {
	t.Parallel()
	service := &stubPageService{}
	view, err := NewPageQuery(service).Query(context.Background(), PageInput{
		Request: dashboard.PageRequest{Route: "/analytics"},
	})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if service.calls != 1 || service.route != "/analytics" {
		t.Fatalf("unexpected service state %+v", service)
	}
	if view.Page.Route != "/analytics" {
		t.Fatalf("unexpected page %+v", view.Page)
	}
}

func TestSessionQuery(t *testing.T) {
	t.Parallel()
	query := NewSessionQuery(stubSessions{"s-1": auth.StateAuthenticated})
	info, err := query.Query(context.Background(), SessionInput{})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if info.Authenticated || info.User != nil || info.State != "anonymous" {
		t.Fatalf("unexpected anonymous info %+v", info)
	}

	ctx := auth.ContextWithSession(context.Background(), auth.Session{
		ID:    "s-1",
		Token: "t",
		User:  auth.User{ID: "1", Name: "Admin User"},
	})
	info, _ = query.Query(ctx, SessionInput{})
	if !info.Authenticated || info.User == nil || info.User.Name != "Admin User" {
		t.Fatalf("unexpected authenticated info %+v", info)
	}
}

func TestSessionQueryReportsEndedSessionAnonymous(t *testing.T) {
	t.Parallel()
	ctx := auth.ContextWithSession(context.Background(), auth.Session{
		ID:    "gone",
		Token: "t",
		User:  auth.User{ID: "1"},
	})
	info, _ := NewSessionQuery(stubSessions{}).Query(ctx, SessionInput{})
	if info.Authenticated || info.State != "anonymous" {
		t.Fatalf("expected ended session to read anonymous, got %+v", info)
	}
}

func TestSessionQueryLoading(t *testing.T) {
	t.Parallel()
	info, _ := NewSessionQuery(stubSessions{"": auth.StateLoading}).Query(context.Background(), SessionInput{})
	if info.State != "loading" || info.Authenticated {
		t.Fatalf("expected loading info, got %+v", info)
	}
}
