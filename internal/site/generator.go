// Package site builds the portal: it injects the shared layout into every
// page, pre-renders the map and calendar, copies static assets and emits the
// data caches and sitemap.
package site

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/yuin/goldmark"
	"go.uber.org/zap"

	"github.com/kagai-portal/hanamachi/internal/assetpath"
	"github.com/kagai-portal/hanamachi/internal/calendar"
	"github.com/kagai-portal/hanamachi/internal/config"
	"github.com/kagai-portal/hanamachi/internal/layout"
	"github.com/kagai-portal/hanamachi/internal/mapview"
	"github.com/kagai-portal/hanamachi/internal/progress"
	"github.com/kagai-portal/hanamachi/internal/records"
	"github.com/kagai-portal/hanamachi/internal/registry"
)

// ErrNoPages is returned when the source directory holds no pages.
var ErrNoPages = errors.New("no pages found")

// PageError records a page that could not be built.
type PageError struct {
	Path string
	Err  error
}

func (e PageError) Error() string { return e.Path + ": " + e.Err.Error() }

// Result summarizes a build.
type Result struct {
	Pages  []string
	Assets int
	Data   []string
	Failed []PageError
}

// Generator builds the site described by a Config.
type Generator struct {
	cfg      *config.Config
	logger   *zap.Logger
	reporter progress.Reporter
	injector *layout.Injector
	calendar *calendar.Renderer
	md       goldmark.Markdown
	regs     Registries
	basePath string
	now      func() time.Time
}

// Option customizes a Generator.
type Option func(*Generator)

// WithReporter sets the progress reporter.
func WithReporter(r progress.Reporter) Option {
	return func(g *Generator) { g.reporter = r }
}

// WithRegistries replaces the registries read from the source directory.
func WithRegistries(r Registries) Option {
	return func(g *Generator) { g.regs = r }
}

// WithClock sets the time used for the calendar month and sitemap dates.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// NewGenerator prepares a build of cfg.
func NewGenerator(cfg *config.Config, logger *zap.Logger, opts ...Option) (*Generator, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	templatesDir := ""
	if cfg.TemplatesDir != "" {
		templatesDir = filepath.Join(cfg.SourceDir, cfg.TemplatesDir)
	}
	templates, err := layout.LoadTemplates(templatesDir)
	if err != nil {
		return nil, err
	}
	injector := layout.NewInjector(templates)
	injector.SubpageMarker = cfg.SubpageMarker

	g := &Generator{
		cfg:      cfg,
		logger:   logger,
		reporter: progress.Nop{},
		injector: injector,
		calendar: calendar.NewRenderer(),
		md:       newMarkdown(),
		basePath: cfg.BasePath(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.regs.Root == nil || g.regs.Subpage == nil {
		g.regs = NewRegistries(cfg, registry.NewDirSource(cfg.SourceDir), logger)
	}
	return g, nil
}

// BasePath is the path the site is built for.
func (g *Generator) BasePath() string { return g.basePath }

// Generate builds every page, copies passthrough assets and writes the data
// caches and sitemap. Pages that fail are collected in the result; the
// returned error reports them after everything else has been written.
func (g *Generator) Generate(ctx context.Context) (Result, error) {
	var res Result
	exclude := g.excludes()

	pages, err := collectPages(g.cfg.SourceDir, exclude)
	if err != nil {
		return res, err
	}
	if len(pages) == 0 {
		return res, fmt.Errorf("%w in %s", ErrNoPages, g.cfg.SourceDir)
	}

	if err := os.MkdirAll(g.cfg.OutputDir, 0o755); err != nil {
		return res, err
	}

	g.logger.Info("building site",
		zap.Int("pages", len(pages)),
		zap.String("base_path", g.basePath),
		zap.String("output", g.cfg.OutputDir))

	g.reporter.Start(len(pages))
	for i, p := range pages {
		if err := ctx.Err(); err != nil {
			g.reporter.Finish()
			return res, err
		}
		if err := g.buildPage(ctx, p); err != nil {
			g.logger.Error("page build failed", zap.String("page", p.Rel), zap.Error(err))
			res.Failed = append(res.Failed, PageError{Path: p.Rel, Err: err})
		} else {
			res.Pages = append(res.Pages, p.Out)
		}
		g.reporter.Update(i+1, p.Out)
	}
	g.reporter.Finish()

	res.Assets, err = copyPassthrough(g.cfg.SourceDir, g.cfg.OutputDir, g.cfg.Include, exclude)
	if err != nil {
		return res, fmt.Errorf("copying assets: %w", err)
	}

	res.Data, err = g.writeData(ctx)
	if err != nil {
		return res, err
	}

	if err := g.writeSitemap(res.Pages); err != nil {
		return res, fmt.Errorf("writing sitemap: %w", err)
	}

	if len(res.Failed) > 0 {
		return res, fmt.Errorf("%d of %d pages failed", len(res.Failed), len(pages))
	}
	return res, nil
}

// excludes adds the output and templates directories to the configured
// exclude globs when they live inside the source directory.
func (g *Generator) excludes() []string {
	exclude := append([]string(nil), g.cfg.Exclude...)
	if g.cfg.TemplatesDir != "" {
		exclude = append(exclude, filepath.ToSlash(filepath.Clean(g.cfg.TemplatesDir))+"/**")
	}
	rel, err := filepath.Rel(g.cfg.SourceDir, g.cfg.OutputDir)
	if err == nil && rel != "." && !strings.HasPrefix(rel, "..") {
		exclude = append(exclude, filepath.ToSlash(rel)+"/**")
	}
	return exclude
}

func (g *Generator) buildPage(ctx context.Context, p Page) error {
	data, err := os.ReadFile(filepath.Join(g.cfg.SourceDir, filepath.FromSlash(p.Rel)))
	if err != nil {
		return err
	}
	if p.Markdown {
		data, err = renderMarkdown(g.md, data, p.Rel, g.cfg.Site.Title)
		if err != nil {
			return err
		}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("parsing page: %w", err)
	}

	urlPath := config.JoinWithBase(g.basePath, p.Out)
	isSubpage := assetpath.IsSubpage(urlPath, g.cfg.SubpageMarker)

	g.injector.Inject(doc, urlPath)
	if err := renderMap(doc); err != nil {
		return err
	}
	if err := g.renderCalendar(ctx, doc, isSubpage); err != nil {
		return err
	}

	out := filepath.Join(g.cfg.OutputDir, filepath.FromSlash(p.Out))
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return err
	}
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	return closeAfter(f, layout.WriteDocument(f, doc))
}

// renderMap fills #mapSpots with the region hotspots and appends the closed
// modal shell when the page has none.
func renderMap(doc *goquery.Document) error {
	spots := doc.Find("#mapSpots").First()
	if spots.Length() == 0 {
		return nil
	}
	var buf bytes.Buffer
	if err := mapview.RenderHotspots(&buf); err != nil {
		return fmt.Errorf("rendering hotspots: %w", err)
	}
	spots.SetHtml(buf.String())

	if doc.Find("#mapModal").Length() > 0 {
		return nil
	}
	buf.Reset()
	if err := mapview.RenderModal(&buf); err != nil {
		return fmt.Errorf("rendering map modal: %w", err)
	}
	doc.Find("body").AppendHtml(buf.String())
	return nil
}

// renderCalendar replaces the day cells of .calendar-grid with the
// configured month and appends one modal template per event day.
func (g *Generator) renderCalendar(ctx context.Context, doc *goquery.Document, isSubpage bool) error {
	grid := doc.Find(".calendar-grid").First()
	if grid.Length() == 0 {
		return nil
	}
	now := g.now()
	month, err := g.cfg.CalendarMonth(now)
	if err != nil {
		return err
	}
	state := calendar.NewState(month)
	reg := g.regs.For(isSubpage)
	lookup := func(dateKey string) []records.EventRecord {
		return reg.EventsForDate(ctx, dateKey)
	}
	cells := calendar.BuildGrid(state, lookup, now)

	var days bytes.Buffer
	if err := g.calendar.RenderDays(&days, cells); err != nil {
		return fmt.Errorf("rendering calendar: %w", err)
	}
	grid.Find(".calendar-day").Remove()
	grid.AppendHtml(days.String())
	grid.SetAttr("data-year", strconv.Itoa(state.Year))
	grid.SetAttr("data-month", strconv.Itoa(state.Month+1))
	doc.Find(".calendar-month").SetText(state.MonthName())
	doc.Find(".calendar-year").SetText(state.YearLabel())

	doc.Find("template[id^='modal-']").Remove()
	var modals bytes.Buffer
	if err := g.calendar.RenderModalTemplates(&modals, cells); err != nil {
		return fmt.Errorf("rendering calendar modals: %w", err)
	}
	if modals.Len() > 0 {
		doc.Find("body").AppendHtml(modals.String())
	}
	return nil
}

// writeData emits the district cache from the root registry and, unless the
// built-in schedule is used, the event cache from the pages/ registry, whose
// links suit the calendar page that reads it.
func (g *Generator) writeData(ctx context.Context) ([]string, error) {
	var written []string

	if places := g.regs.Root.AllPlaces(ctx); len(places) > 0 {
		var buf bytes.Buffer
		if err := registry.WritePlacesJSON(&buf, places); err != nil {
			return written, fmt.Errorf("encoding places: %w", err)
		}
		if err := g.writeOutput(g.cfg.Data.PlacesJSON, buf.Bytes()); err != nil {
			return written, err
		}
		written = append(written, g.cfg.Data.PlacesJSON)
	} else {
		g.logger.Warn("no district data, skipping cache", zap.String("file", g.cfg.Data.PlacesJSON))
	}

	if g.cfg.Data.UseBuiltinEvents {
		return written, nil
	}
	if idx := g.regs.Subpage.Events(ctx); idx.Len() > 0 {
		var buf bytes.Buffer
		if err := idx.WriteJSON(&buf); err != nil {
			return written, fmt.Errorf("encoding events: %w", err)
		}
		if err := g.writeOutput(g.cfg.Data.EventsJSON, buf.Bytes()); err != nil {
			return written, err
		}
		written = append(written, g.cfg.Data.EventsJSON)
	} else {
		g.logger.Warn("no event data, skipping cache", zap.String("file", g.cfg.Data.EventsJSON))
	}
	return written, nil
}

func (g *Generator) writeOutput(rel string, data []byte) error {
	out := filepath.Join(g.cfg.OutputDir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", rel, err)
	}
	return nil
}

func (g *Generator) writeSitemap(pages []string) error {
	if g.cfg.Site.URL == "" {
		return nil
	}
	var buf bytes.Buffer
	if err := writeSitemap(&buf, g.cfg.Site.URL, g.basePath, pages, g.now()); err != nil {
		return err
	}
	return g.writeOutput("sitemap.xml", buf.Bytes())
}
