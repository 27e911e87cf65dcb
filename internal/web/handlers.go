// Package web serves the server-rendered calculator and population map pages.
package web

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"go-chi-calculator/internal/config"
	"go-chi-calculator/internal/evaluator"
	"go-chi-calculator/internal/observability"
	"go-chi-calculator/internal/population"
)

//go:embed templates/*.html static/*
var assets embed.FS

var tracer = otel.Tracer("web")

// Handlers renders the HTML pages.
type Handlers struct {
	cfg    config.Config
	pages  map[string]*template.Template
	static fs.FS
}

// New parses the embedded templates and opens the static asset tree.
func New(cfg config.Config) (*Handlers, error) {
	static, err := fs.Sub(assets, "static")
	if err != nil {
		return nil, err
	}

	pages := make(map[string]*template.Template)
	for _, name := range []string{"calculator", "population"} {
		t, err := template.New("layout.html").ParseFS(assets, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, err
		}
		pages[name] = t
	}
	return &Handlers{cfg: cfg, pages: pages, static: static}, nil
}

// RegisterRoutes mounts the pages and their static assets.
func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServerFS(h.static)))

	r.Get("/", h.Calculator)
	r.Post("/", h.Calculate)
	r.Get("/population", h.PopulationForm)
	r.Post("/population", h.PopulationMap)
}

// outcome is the status banner under the form.
type outcome struct {
	Success bool
	Result  string
	Note    string
	Warning string
	Kind    string
	Message string
}

type calculatorView struct {
	Title       string
	Menu        []menuItem
	Active      Operation
	Form        formValues
	Operators   []evaluator.Operator
	BaseOptions []evaluator.BaseOption
	Outcome     *outcome
}

type populationView struct {
	Title        string
	Menu         []menuItem
	Active       Operation
	Years        []string
	SelectedYear string
	Error        string
}

// Calculator handles GET / and renders the form for ?op=.
func (h *Handlers) Calculator(w http.ResponseWriter, r *http.Request) {
	op := parseOperation(r.URL.Query().Get("op"))
	h.render(w, r, http.StatusOK, "calculator", h.calculatorView(op, formFrom(op, r.URL.Query(), false)))
}

// Calculate handles POST /: evaluates the submitted form and re-renders it
// with a success or error banner.
func (h *Handlers) Calculate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "web.calculate")
	defer span.End()
	logger := observability.LoggerWithTrace(ctx)

	if err := r.ParseForm(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid form")
		view := h.calculatorView(OpArithmetic, defaultForm())
		view.Outcome = &outcome{Kind: "invalid_input", Message: "The form could not be read."}
		h.render(w, r, http.StatusBadRequest, "calculator", view)
		return
	}

	op := parseOperation(r.PostForm.Get("op"))
	form := formFrom(op, r.PostForm, true)
	view := h.calculatorView(op, form)
	span.SetAttributes(attribute.String("calculator.operation", string(op)))

	req, err := form.request(op)
	if err != nil {
		span.SetStatus(codes.Error, "invalid input")
		view.Outcome = &outcome{Kind: "invalid_input", Message: err.Error()}
		logger.Info("calculator form rejected", zap.String("operation", string(op)), zap.Error(err))
		h.render(w, r, http.StatusUnprocessableEntity, "calculator", view)
		return
	}

	res, err := evaluator.Evaluate(req)
	if err != nil {
		kind := evaluator.KindOf(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		view.Outcome = &outcome{Kind: kind.String(), Message: err.Error()}
		logger.Info("calculator evaluation failed",
			zap.String("operation", string(op)),
			zap.Stringer("kind", kind),
			zap.Error(err),
		)
		h.render(w, r, http.StatusUnprocessableEntity, "calculator", view)
		return
	}

	view.Outcome = &outcome{
		Success: true,
		Result:  formatResult(res, h.cfg.DisplayPrecision),
		Note:    res.Note,
		Warning: res.Warning,
	}
	span.SetStatus(codes.Ok, "")
	logger.Info("calculator evaluation completed",
		zap.String("operation", string(op)),
		zap.Float64("result", res.Value),
	)
	h.render(w, r, http.StatusOK, "calculator", view)
}

// PopulationForm handles GET /population.
func (h *Handlers) PopulationForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "population", h.populationView(population.Years[len(population.Years)-1], ""))
}

// PopulationMap handles POST /population: parses the uploaded CSV and answers
// with the rendered choropleth, or with the form and a descriptive error.
func (h *Handlers) PopulationMap(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "web.population_map")
	defer span.End()
	logger := observability.LoggerWithTrace(ctx)

	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxUploadBytes)
	parseErr := r.ParseMultipartForm(h.cfg.MaxUploadBytes)

	year := r.FormValue("year")
	if !slices.Contains(population.Years, year) {
		year = population.Years[len(population.Years)-1]
	}
	span.SetAttributes(attribute.String("population.year", year))

	fail := func(status int, msg string, err error) {
		population.ObserveRejected(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, msg)
		logger.Info("population upload rejected",
			zap.String("year", year),
			zap.String("reason", population.Reason(err)),
			zap.Error(err),
		)
		h.render(w, r, status, "population", h.populationView(year, msg))
	}

	var tooLarge *http.MaxBytesError
	if errors.As(parseErr, &tooLarge) {
		fail(http.StatusRequestEntityTooLarge, "The uploaded file is too large.", parseErr)
		return
	}

	file, header, err := r.FormFile("dataset")
	if err != nil {
		fail(http.StatusBadRequest, "Please choose a CSV file to upload.", err)
		return
	}
	defer file.Close()
	span.SetAttributes(
		attribute.String("population.filename", header.Filename),
		attribute.Int64("population.size", header.Size),
	)

	ds, err := population.Parse(file)
	if err != nil {
		fail(http.StatusUnprocessableEntity, err.Error(), err)
		return
	}

	entries, err := ds.Project(year)
	if err != nil {
		msg := err.Error()
		if years := ds.AvailableYears(); errors.Is(err, population.ErrMissingYear) && len(years) > 0 {
			msg = fmt.Sprintf("%s (file has years: %s)", msg, strings.Join(years, ", "))
		}
		fail(http.StatusUnprocessableEntity, msg, err)
		return
	}

	var buf bytes.Buffer
	if err := population.Render(&buf, year, entries); err != nil {
		fail(http.StatusUnprocessableEntity, err.Error(), err)
		return
	}

	population.ObserveRendered(year)
	span.AddEvent("map.rendered", trace.WithAttributes(attribute.Int("population.countries", len(entries))))
	span.SetStatus(codes.Ok, "")
	logger.Info("population map rendered",
		zap.String("year", year),
		zap.Int("rows", ds.Len()),
		zap.Int("countries", len(entries)),
	)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}

func (h *Handlers) calculatorView(op Operation, form formValues) calculatorView {
	return calculatorView{
		Title:       "Multi-Function Calculator",
		Menu:        menu,
		Active:      op,
		Form:        form,
		Operators:   evaluator.Operators,
		BaseOptions: evaluator.BaseOptions,
	}
}

func (h *Handlers) populationView(year, errMsg string) populationView {
	return populationView{
		Title:        "World Population Map",
		Menu:         menu,
		Active:       "population",
		Years:        population.Years,
		SelectedYear: year,
		Error:        errMsg,
	}
}

func (h *Handlers) render(w http.ResponseWriter, r *http.Request, status int, page string, data any) {
	var buf bytes.Buffer
	if err := h.pages[page].ExecuteTemplate(&buf, "layout.html", data); err != nil {
		observability.LoggerWithTrace(r.Context()).Error("template render failed",
			zap.String("page", page),
			zap.Error(err),
		)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}
