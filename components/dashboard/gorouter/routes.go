package gorouter

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	router "github.com/goliatone/go-router"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/mkulima-ai/mkulima-dashboard/components/dashboard"
	"github.com/mkulima-ai/mkulima-dashboard/components/dashboard/commands"
	"github.com/mkulima-ai/mkulima-dashboard/components/dashboard/httpapi"
	"github.com/mkulima-ai/mkulima-dashboard/pkg/auth"
)

// Fixed routes outside the page manifest.
const (
	LoginPath          = "/login"
	LogoutPath         = "/logout"
	HomePath           = "/"
	DiseasesPath       = "/diseases"
	SettingsPath       = "/settings"
	UsersExportPath    = "/users/export"
	DiseasesExportPath = "/diseases/export"
	PageAPIPath        = "/api/pages/:page"
	SessionAPIPath     = "/api/session"
)

// SessionCookie carries the opaque session id issued at login.
const SessionCookie = "mkulima_session"

const (
	loginInterval = 12 * time.Second
	loginBurst    = 5

	msgInvalidCredentials = "Invalid credentials"
	msgLoginUnavailable   = "Login is unavailable right now. Please try again."
	msgTooManyAttempts    = "Too many login attempts. Please wait a moment and try again."
	msgSubmitFailed       = "The disease could not be submitted. Please try again."
	msgSettingsFailed     = "Settings could not be saved. Please try again."
)

// pageParams are the query keys forwarded to widget providers.
var pageParams = []string{"q", "region", "plant", "severity", "page", "user", "tab", "saved", "submitted"}

// Registrar is the subset of router.Router used to mount routes.
type Registrar interface {
	Get(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Post(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
}

// Sessions is the read side of the session store used by the gate. Sessions
// are looked up by the id carried in SessionCookie.
type Sessions interface {
	State(id string) auth.State
	Session(id string) (auth.Session, bool)
}

// Config wires go-router with the dashboard controller and command surface.
type Config struct {
	Router      Registrar
	Controller  *dashboard.Controller
	API         httpapi.Executor
	Sessions    Sessions
	Manifest    *dashboard.PageManifest
	Preferences dashboard.PreferenceStore
	Farmers     dashboard.FarmerDirectory
	Diseases    dashboard.DiseaseCatalog
	// LoginLimiter bounds login attempts. Nil allows a burst of 5, then one
	// attempt every 12 seconds.
	LoginLimiter *rate.Limiter
	// SecureCookie marks the session cookie Secure. Enable behind TLS.
	SecureCookie bool
	Logger       *zap.Logger
}

// requestContext is the subset of router.Context the handlers use.
type requestContext interface {
	Context() context.Context
	SetHeader(key, value string) router.Context
	Send(body []byte) error
	JSON(code int, v any) error
	Body() []byte
	Query(name string, defaultValue ...string) string
	Param(name string, defaultValue ...string) string
	Cookies(key string, defaultValue ...string) string
}

type handler func(requestContext) error

type route struct {
	method string
	path   string
	handle handler
}

// Register mounts the login flow, every manifest page, the form posts, the
// exports and the JSON API.
func Register(cfg Config) error {
	s, err := newServer(cfg)
	if err != nil {
		return err
	}
	for _, r := range s.routes() {
		wrapped := router.WrapHandler(func(ctx router.Context) error { return r.handle(ctx) })
		switch r.method {
		case http.MethodPost:
			cfg.Router.Post(r.path, wrapped)
		default:
			cfg.Router.Get(r.path, wrapped)
		}
	}
	return nil
}

type server struct {
	cfg     Config
	limiter *rate.Limiter
	logger  *zap.Logger
}

func newServer(cfg Config) (*server, error) {
	switch {
	case cfg.Router == nil:
		return nil, errors.New("gorouter: router is required")
	case cfg.Controller == nil:
		return nil, errors.New("gorouter: controller is required")
	case cfg.API == nil:
		return nil, errors.New("gorouter: api executor is required")
	case cfg.Sessions == nil:
		return nil, errors.New("gorouter: session store is required")
	case cfg.Manifest == nil:
		return nil, errors.New("gorouter: page manifest is required")
	}
	if cfg.Preferences == nil {
		cfg.Preferences = dashboard.NewInMemoryPreferenceStore()
	}
	if cfg.Farmers == nil {
		cfg.Farmers = dashboard.NewStaticFarmerDirectory(dashboard.SeedFarmers())
	}
	if cfg.Diseases == nil {
		cfg.Diseases = dashboard.NewStaticDiseaseCatalog(dashboard.SeedDiseases())
	}
	limiter := cfg.LoginLimiter
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Every(loginInterval), loginBurst)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &server{cfg: cfg, limiter: limiter, logger: logger}, nil
}

func (s *server) routes() []route {
	out := []route{
		{http.MethodGet, LoginPath, s.handleLoginForm},
		{http.MethodPost, LoginPath, s.handleLogin},
		{http.MethodPost, LogoutPath, s.handleLogout},
		{http.MethodPost, DiseasesPath, s.gate(s.handleSubmitDisease)},
		{http.MethodPost, SettingsPath, s.gate(s.handleSaveSettings)},
		{http.MethodGet, UsersExportPath, s.gate(s.handleUsersExport)},
		{http.MethodGet, DiseasesExportPath, s.gate(s.handleDiseasesExport)},
		{http.MethodGet, PageAPIPath, s.handlePageAPI},
		{http.MethodGet, SessionAPIPath, s.handleSessionAPI},
	}
	for _, page := range s.cfg.Manifest.Pages {
		out = append(out, route{http.MethodGet, page.Route, s.gate(s.pageHandler(page.Route))})
	}
	return out
}

type gatedHandler func(ctx context.Context, c requestContext, session auth.Session) error

// gate resolves the caller's session from its cookie on every request.
// While sessions are being restored it renders the loading view instead of
// redirecting. A cookie naming an ended session is cleared.
func (s *server) gate(next gatedHandler) handler {
	return func(c requestContext) error {
		id := c.Cookies(SessionCookie)
		if s.cfg.Sessions.State(id) == auth.StateLoading {
			return s.renderLoading(c)
		}
		session, ok := s.cfg.Sessions.Session(id)
		if !ok {
			if id != "" {
				s.clearSessionCookie(c)
			}
			return redirect(c, LoginPath)
		}
		return next(c.Context(), c, session)
	}
}

func (s *server) requestScope(parent context.Context, session auth.Session, route string) context.Context {
	ctx := auth.ContextWithSession(parent, session)
	return dashboard.ContextWithActor(ctx, dashboard.ActorContext{
		UserID: session.User.ID,
		Email:  session.User.Email,
		Route:  route,
	})
}

func (s *server) viewer(ctx context.Context, session auth.Session) dashboard.ViewerContext {
	viewer := dashboard.ViewerContext{
		UserID: session.User.ID,
		Name:   session.User.Name,
		Roles:  []string{session.User.Role},
	}
	prefs, err := s.cfg.Preferences.LoadPreferences(ctx)
	if err != nil {
		s.logger.Warn("load preferences failed", zap.Error(err))
		prefs = dashboard.DefaultPreferences()
	}
	return dashboard.ApplyPreferences(viewer, prefs)
}

func (s *server) pageHandler(path string) gatedHandler {
	return func(ctx context.Context, c requestContext, session auth.Session) error {
		ctx = s.requestScope(ctx, session, path)
		return s.renderPage(ctx, c, s.viewer(ctx, session), dashboard.PageRequest{
			Route:  path,
			Params: queryParams(c),
		})
	}
}

func (s *server) renderPage(ctx context.Context, c requestContext, viewer dashboard.ViewerContext, req dashboard.PageRequest) error {
	var buf bytes.Buffer
	if err := s.cfg.Controller.RenderPage(ctx, viewer, req, &buf); err != nil {
		switch {
		case errors.Is(err, dashboard.ErrPageNotFound):
			return respondError(c, http.StatusNotFound, err)
		case errors.Is(err, context.Canceled):
			return err
		}
		s.logger.Error("render page failed", zap.String("route", req.Route), zap.Error(err))
		return respondError(c, http.StatusInternalServerError, err)
	}
	return sendHTML(c, buf.Bytes())
}

func (s *server) handleLoginForm(c requestContext) error {
	switch s.cfg.Sessions.State(c.Cookies(SessionCookie)) {
	case auth.StateLoading:
		return s.renderLoading(c)
	case auth.StateAuthenticated:
		return redirect(c, HomePath)
	}
	return s.renderLogin(c, dashboard.LoginView{})
}

func (s *server) handleLogin(c requestContext) error {
	form, err := url.ParseQuery(string(c.Body()))
	if err != nil {
		return respondError(c, http.StatusBadRequest, err)
	}
	view := dashboard.LoginView{Email: form.Get("email")}
	if !s.limiter.Allow() {
		view.Error = msgTooManyAttempts
		return s.renderLogin(c, view)
	}
	ctx := dashboard.ContextWithActor(c.Context(), dashboard.ActorContext{Email: view.Email, Route: LoginPath})
	var session auth.Session
	err = s.cfg.API.Login(ctx, commands.LoginInput{
		Email:    view.Email,
		Password: form.Get("password"),
		Result:   &session,
	})
	switch {
	case err == nil && session.ID != "":
		s.setSessionCookie(c, session.ID)
		return redirect(c, HomePath)
	case err == nil:
		s.logger.Error("login opened no session")
		view.Error = msgLoginUnavailable
	case errors.Is(err, auth.ErrInvalidCredentials):
		view.Error = msgInvalidCredentials
	default:
		s.logger.Error("login failed", zap.Error(err))
		view.Error = msgLoginUnavailable
	}
	return s.renderLogin(c, view)
}

func (s *server) handleLogout(c requestContext) error {
	ctx := c.Context()
	if session, ok := s.cfg.Sessions.Session(c.Cookies(SessionCookie)); ok {
		ctx = s.requestScope(ctx, session, LogoutPath)
	}
	if err := s.cfg.API.Logout(ctx, commands.LogoutInput{}); err != nil {
		s.logger.Error("logout failed", zap.Error(err))
	}
	s.clearSessionCookie(c)
	return redirect(c, LoginPath)
}

func (s *server) handleSubmitDisease(ctx context.Context, c requestContext, session auth.Session) error {
	if !session.User.HasPermission("write") {
		return respondError(c, http.StatusForbidden, errors.New("write permission required"))
	}
	ctx = s.requestScope(ctx, session, DiseasesPath)
	form, err := url.ParseQuery(string(c.Body()))
	if err != nil {
		return respondError(c, http.StatusBadRequest, err)
	}
	disease := dashboard.ParseDiseaseForm(form)
	err = s.cfg.API.SubmitDisease(ctx, commands.SubmitDiseaseInput{Disease: disease})
	if err == nil {
		return redirect(c, DiseasesPath+"?submitted=1")
	}
	var verrs dashboard.ValidationErrors
	if !errors.As(err, &verrs) {
		s.logger.Error("submit disease failed", zap.Error(err))
		verrs = dashboard.ValidationErrors{"form": msgSubmitFailed}
	}
	return s.renderPage(ctx, c, s.viewer(ctx, session), dashboard.PageRequest{
		Route:  DiseasesPath,
		Params: queryParams(c),
		Extras: map[string]any{"disease_form": disease, "form_errors": verrs},
	})
}

func (s *server) handleSaveSettings(ctx context.Context, c requestContext, session auth.Session) error {
	ctx = s.requestScope(ctx, session, SettingsPath)
	form, err := url.ParseQuery(string(c.Body()))
	if err != nil {
		return respondError(c, http.StatusBadRequest, err)
	}
	viewer := s.viewer(ctx, session)
	prefs := dashboard.Preferences{Theme: form.Get("theme"), Language: form.Get("language")}
	err = s.cfg.API.SavePreferences(ctx, commands.SavePreferencesInput{Viewer: viewer, Preferences: prefs})
	if err == nil {
		return redirect(c, SettingsPath+"?saved=1")
	}
	var verrs dashboard.ValidationErrors
	if !errors.As(err, &verrs) {
		s.logger.Error("save settings failed", zap.Error(err))
		verrs = dashboard.ValidationErrors{"form": msgSettingsFailed}
	}
	return s.renderPage(ctx, c, viewer, dashboard.PageRequest{
		Route:  SettingsPath,
		Extras: map[string]any{"form_errors": verrs},
	})
}

func (s *server) handleUsersExport(ctx context.Context, c requestContext, session auth.Session) error {
	format, err := dashboard.ParseExportFormat(c.Query("format"))
	if err != nil {
		return respondError(c, http.StatusBadRequest, err)
	}
	ctx = s.requestScope(ctx, session, UsersExportPath)
	farmers, err := s.cfg.Farmers.ListFarmers(ctx)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, err)
	}
	filter := dashboard.UserFilter{Search: c.Query("q"), Region: c.Query("region")}
	return s.sendTable(c, format, "mkulima-users", dashboard.UsersTable(filter.Apply(farmers)))
}

func (s *server) handleDiseasesExport(ctx context.Context, c requestContext, session auth.Session) error {
	format, err := dashboard.ParseExportFormat(c.Query("format"))
	if err != nil {
		return respondError(c, http.StatusBadRequest, err)
	}
	ctx = s.requestScope(ctx, session, DiseasesExportPath)
	diseases, err := s.cfg.Diseases.ListDiseases(ctx)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, err)
	}
	filter := dashboard.DiseaseFilter{
		Search:    c.Query("q"),
		PlantType: dashboard.PlantType(c.Query("plant")),
		Severity:  dashboard.Severity(c.Query("severity")),
	}
	return s.sendTable(c, format, "mkulima-diseases", dashboard.DiseasesTable(filter.Apply(diseases)))
}

func (s *server) sendTable(c requestContext, format dashboard.ExportFormat, base string, table dashboard.Table) error {
	var buf bytes.Buffer
	if err := dashboard.WriteTable(&buf, format, table); err != nil {
		s.logger.Error("export failed", zap.String("sheet", table.Sheet), zap.Error(err))
		return respondError(c, http.StatusInternalServerError, err)
	}
	c.SetHeader("Content-Type", format.ContentType())
	c.SetHeader("Content-Disposition", `attachment; filename="`+format.Filename(base)+`"`)
	return c.Send(buf.Bytes())
}

func (s *server) handlePageAPI(c requestContext) error {
	session, ok := s.cfg.Sessions.Session(c.Cookies(SessionCookie))
	if !ok {
		return respondError(c, http.StatusUnauthorized, errors.New("not authenticated"))
	}
	page, ok := s.cfg.Manifest.PageByName(c.Param("page"))
	if !ok {
		return respondError(c, http.StatusNotFound, dashboard.ErrPageNotFound)
	}
	ctx := s.requestScope(c.Context(), session, page.Route)
	payload, err := s.cfg.Controller.PagePayload(ctx, s.viewer(ctx, session), dashboard.PageRequest{
		Route:  page.Route,
		Params: queryParams(c),
	})
	if err != nil {
		return respondError(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, payload)
}

func (s *server) handleSessionAPI(c requestContext) error {
	ctx := c.Context()
	if session, ok := s.cfg.Sessions.Session(c.Cookies(SessionCookie)); ok {
		ctx = auth.ContextWithSession(ctx, session)
	}
	info, err := s.cfg.API.Session(ctx)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, info)
}

func (s *server) renderLogin(c requestContext, view dashboard.LoginView) error {
	var buf bytes.Buffer
	if err := s.cfg.Controller.RenderLogin(&buf, view); err != nil {
		return respondError(c, http.StatusInternalServerError, err)
	}
	return sendHTML(c, buf.Bytes())
}

func (s *server) renderLoading(c requestContext) error {
	var buf bytes.Buffer
	if err := s.cfg.Controller.RenderLoading(&buf); err != nil {
		return respondError(c, http.StatusInternalServerError, err)
	}
	return sendHTML(c, buf.Bytes())
}

func (s *server) setSessionCookie(c requestContext, id string) {
	c.SetHeader("Set-Cookie", s.sessionCookie(id, 0).String())
}

func (s *server) clearSessionCookie(c requestContext) {
	c.SetHeader("Set-Cookie", s.sessionCookie("", -1).String())
}

func (s *server) sessionCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.cfg.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	}
}

func queryParams(c requestContext) map[string]string {
	params := map[string]string{}
	for _, key := range pageParams {
		if value := c.Query(key); value != "" {
			params[key] = value
		}
	}
	return params
}

func sendHTML(c requestContext, body []byte) error {
	c.SetHeader("Content-Type", "text/html; charset=utf-8")
	return c.Send(body)
}

func redirect(c requestContext, location string) error {
	c.SetHeader("Location", location)
	return c.JSON(http.StatusSeeOther, map[string]string{"location": location})
}

func respondError(c requestContext, status int, err error) error {
	return c.JSON(status, map[string]string{"error": err.Error()})
}
