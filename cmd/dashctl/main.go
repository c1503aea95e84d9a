package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/ettle/strcase"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/mkulima-ai/mkulima-dashboard/components/dashboard"
)

const widgetPrefix = "mkulima.widget."

type cli struct {
	AddPage       addPageCmd       `cmd:"" help:"Add a page to a page manifest."`
	AddWidget     addWidgetCmd     `cmd:"" help:"Place a widget on a manifest page."`
	CheckManifest checkManifestCmd `cmd:"" help:"Validate a page manifest against the built-in widgets."`
	CheckDisease  checkDiseaseCmd  `cmd:"" help:"Validate a disease record (YAML or JSON) the way the disease form does."`
	Export        exportCmd        `cmd:"" help:"Export the seeded users or diseases table."`
}

type addPageCmd struct {
	Pages       string   `required:"" type:"path" env:"DASHBOARD_PAGES" help:"Page manifest to update. Created from the embedded manifest when missing."`
	Name        string   `required:"" help:"Page name. Normalised to kebab case."`
	Route       string   `help:"Route of the page (defaults to /<name>)."`
	Title       string   `help:"Header title (defaults to the name in title case)."`
	Description string   `help:"Header description."`
	Nav         string   `help:"Sidebar label (defaults to the title)."`
	Icon        string   `help:"Sidebar icon name."`
	Widget      []string `help:"Widget codes to mount, in order. Short codes get the mkulima.widget. prefix."`
}

type addWidgetCmd struct {
	Pages    string `required:"" type:"path" env:"DASHBOARD_PAGES" help:"Page manifest to update. Created from the embedded manifest when missing."`
	Page     string `required:"" help:"Name of the page receiving the widget."`
	Code     string `required:"" help:"Widget code. Short codes get the mkulima.widget. prefix."`
	Config   string `help:"Widget configuration as a JSON object."`
	Position *int   `help:"Zero-based slot on the page (defaults to last)."`
}

type checkManifestCmd struct {
	Pages string `arg:"" type:"existingfile" help:"Page manifest to validate."`
}

type checkDiseaseCmd struct {
	File string `arg:"" type:"existingfile" help:"Disease record (YAML or JSON)."`
}

type exportCmd struct {
	Table  string `required:"" enum:"users,diseases" help:"Table to export (users, diseases)."`
	Format string `default:"csv" enum:"csv,xlsx" help:"Output format (csv, xlsx)."`
	Out    string `type:"path" help:"Output file (defaults to mkulima-<table>.<format>)."`
}

func main() {
	_ = godotenv.Load()
	ctx := kong.Parse(&cli{},
		kong.Name("dashctl"),
		kong.Description("Operator utility for Mkulima dashboard manifests and disease records."),
		kong.UsageOnError(),
		kong.BindTo(context.Background(), (*context.Context)(nil)),
		kong.BindTo(os.Stdout, (*io.Writer)(nil)),
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}

func (cmd *addPageCmd) Run(_ context.Context, out io.Writer) error {
	doc, err := loadOrInitManifest(cmd.Pages)
	if err != nil {
		return err
	}
	name := strcase.ToKebab(strings.TrimSpace(cmd.Name))
	if name == "" {
		return errors.New("dashctl: page name is required")
	}
	if _, exists := doc.PageByName(name); exists {
		return fmt.Errorf("dashctl: manifest already defines page %s", name)
	}
	page := dashboard.PageDefinition{
		Name:        name,
		Route:       cmd.Route,
		Title:       cmd.Title,
		Description: cmd.Description,
		Nav:         cmd.Nav,
		Icon:        cmd.Icon,
		Widgets:     []dashboard.PageWidget{},
	}
	if page.Route == "" {
		page.Route = "/" + name
	}
	if page.Title == "" {
		page.Title = titleCase(name)
	}
	if page.Nav == "" {
		page.Nav = page.Title
	}
	for _, code := range cmd.Widget {
		page.Widgets = append(page.Widgets, dashboard.PageWidget{Code: normalizeWidgetCode(code)})
	}
	doc.Pages = append(doc.Pages, page)
	if err := writeManifest(cmd.Pages, doc); err != nil {
		return err
	}
	fmt.Fprintf(out, "added page %s at %s to %s\n", page.Name, page.Route, cmd.Pages)
	return nil
}

func (cmd *addWidgetCmd) Run(_ context.Context, out io.Writer) error {
	doc, err := loadOrInitManifest(cmd.Pages)
	if err != nil {
		return err
	}
	name := strcase.ToKebab(cmd.Page)
	idx := slices.IndexFunc(doc.Pages, func(p dashboard.PageDefinition) bool { return p.Name == name })
	if idx < 0 {
		return fmt.Errorf("dashctl: manifest has no page %s", name)
	}
	widget := dashboard.PageWidget{Code: normalizeWidgetCode(cmd.Code)}
	if cmd.Config != "" {
		if err := json.Unmarshal([]byte(cmd.Config), &widget.Config); err != nil {
			return fmt.Errorf("dashctl: parse widget config: %w", err)
		}
	}
	widgets := doc.Pages[idx].Widgets
	pos := len(widgets)
	if cmd.Position != nil && *cmd.Position >= 0 && *cmd.Position < pos {
		pos = *cmd.Position
	}
	doc.Pages[idx].Widgets = slices.Insert(widgets, pos, widget)
	if err := writeManifest(cmd.Pages, doc); err != nil {
		return err
	}
	fmt.Fprintf(out, "placed %s on %s at position %d\n", widget.Code, name, pos)
	return nil
}

func (cmd *checkManifestCmd) Run(_ context.Context, out io.Writer) error {
	doc, err := dashboard.ReadManifest(cmd.Pages)
	if err != nil {
		return err
	}
	if err := doc.ValidateWidgets(dashboard.NewRegistry(), dashboard.NewJSONSchemaValidator()); err != nil {
		return err
	}
	widgets := 0
	for _, page := range doc.Pages {
		widgets += len(page.Widgets)
	}
	fmt.Fprintf(out, "%s: %d pages, %d widgets ok\n", cmd.Pages, len(doc.Pages), widgets)
	return nil
}

func (cmd *checkDiseaseCmd) Run(_ context.Context, out io.Writer) error {
	disease, err := readDisease(cmd.File)
	if err != nil {
		return err
	}
	if err := dashboard.ValidateDisease(dashboard.NewJSONSchemaValidator(), disease); err != nil {
		var verrs dashboard.ValidationErrors
		if errors.As(err, &verrs) {
			fmt.Fprintln(out, verrs.Error())
		}
		return fmt.Errorf("dashctl: %s is not a valid disease", cmd.File)
	}
	fmt.Fprintf(out, "%s: %s (%s, %s) ok\n", cmd.File, disease.Name, disease.PlantType, disease.Severity)
	return nil
}

func (cmd *exportCmd) Run(_ context.Context, out io.Writer) error {
	format, err := dashboard.ParseExportFormat(cmd.Format)
	if err != nil {
		return err
	}
	var table dashboard.Table
	switch cmd.Table {
	case "users":
		table = dashboard.UsersTable(dashboard.SeedFarmers())
	default:
		table = dashboard.DiseasesTable(dashboard.SeedDiseases())
	}
	path := cmd.Out
	if path == "" {
		path = format.Filename("mkulima-" + cmd.Table)
	}
	f, err := os.Create(path) //nolint:gosec
	if err != nil {
		return fmt.Errorf("dashctl: create %s: %w", path, err)
	}
	defer f.Close()
	if err := dashboard.WriteTable(f, format, table); err != nil {
		return err
	}
	fmt.Fprintf(out, "wrote %d %s rows to %s\n", len(table.Rows), cmd.Table, path)
	return f.Close()
}

// readDisease accepts YAML or JSON. YAML is converted through JSON so the
// record uses the same field names as the API.
func readDisease(path string) (dashboard.Disease, error) {
	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return dashboard.Disease{}, fmt.Errorf("dashctl: read %s: %w", path, err)
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return dashboard.Disease{}, fmt.Errorf("dashctl: parse %s: %w", path, err)
	}
	encoded, err := json.Marshal(raw)
	if err != nil {
		return dashboard.Disease{}, fmt.Errorf("dashctl: parse %s: %w", path, err)
	}
	var disease dashboard.Disease
	if err := json.Unmarshal(encoded, &disease); err != nil {
		return dashboard.Disease{}, fmt.Errorf("dashctl: decode %s: %w", path, err)
	}
	return disease, nil
}

func loadOrInitManifest(path string) (*dashboard.PageManifest, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return dashboard.DefaultPageManifest()
		}
		return nil, fmt.Errorf("dashctl: stat manifest: %w", err)
	}
	return dashboard.ReadManifest(path)
}

// writeManifest validates doc against the built-in widgets before replacing
// the file.
func writeManifest(path string, doc *dashboard.PageManifest) error {
	if err := doc.Validate(); err != nil {
		return err
	}
	if err := doc.ValidateWidgets(dashboard.NewRegistry(), dashboard.NewJSONSchemaValidator()); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("dashctl: mkdir %s: %w", filepath.Dir(path), err)
	}
	tmp := *doc
	tmp.Source = ""
	file, err := os.Create(path) //nolint:gosec
	if err != nil {
		return fmt.Errorf("dashctl: create manifest %s: %w", path, err)
	}
	defer file.Close()
	if err := dashboard.EncodeManifest(file, &tmp); err != nil {
		return err
	}
	return file.Close()
}

func normalizeWidgetCode(code string) string {
	code = strings.TrimSpace(code)
	if strings.Contains(code, ".") {
		return code
	}
	return widgetPrefix + strcase.ToSnake(code)
}

func titleCase(name string) string {
	words := strings.Fields(strings.ReplaceAll(strcase.ToSnake(name), "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
