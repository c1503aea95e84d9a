package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"

	dashboard "github.com/mkulima-ai/mkulima-dashboard/components/dashboard"
)

// PageInput identifies a page request for a viewer.
type PageInput struct {
	Viewer  dashboard.ViewerContext
	Request dashboard.PageRequest
}

type pageService interface {
	RenderPage(ctx context.Context, viewer dashboard.ViewerContext, req dashboard.PageRequest) (dashboard.PageView, error)
}

// PageQuery resolves a page with its widget data.
type PageQuery struct {
	service pageService
}

// NewPageQuery builds the query.
func NewPageQuery(service pageService) *PageQuery {
	return &PageQuery{service: service}
}

var _ gocommand.Querier[PageInput, dashboard.PageView] = (*PageQuery)(nil)

// Query mounts the page for the viewer and returns its settled widgets.
func (q *PageQuery) Query(ctx context.Context, input PageInput) (dashboard.PageView, error) {
	return q.service.RenderPage(ctx, input.Viewer, input.Request)
}
