package availability

import (
	"context"
	"errors"
	"slices"
	"time"

	catalogerrors "clinicbook/internal/catalog/errors"
	"clinicbook/pkg/config"
	apperrors "clinicbook/pkg/errors"
	"clinicbook/pkg/logger"
	"clinicbook/pkg/model"
)

// Catalog resolves reference data. Unknown ids are reported with
// catalogerrors.ErrNotFound.
type Catalog interface {
	GetService(ctx context.Context, id string) (*model.Service, error)
	GetBranch(ctx context.Context, id string) (*model.Branch, error)
	GetPractitioner(ctx context.Context, id string) (*model.Practitioner, error)
}

// BookedSlotSource lists the non-cancelled bookings of a calendar day.
type BookedSlotSource interface {
	ListBookedSlots(ctx context.Context, dateKey string) ([]model.BookedSlot, error)
}

type Query struct {
	Date      time.Time
	ServiceID string
	BranchID  string
	Selection model.ResourceSelection
}

type Settings struct {
	Location         *time.Location
	GranularityMin   int
	MinLeadMin       int
	BookableWeekdays []time.Weekday
	MaxAdvanceDays   int
}

func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		Location:         cfg.Location,
		GranularityMin:   cfg.SlotGranularityMin,
		MinLeadMin:       cfg.MinLeadMin,
		BookableWeekdays: cfg.BookableWeekdays,
		MaxAdvanceDays:   cfg.MaxAdvanceDays,
	}
}

// IsBookable reports whether day (local midnight) can take bookings at all,
// judged against now.
func (s Settings) IsBookable(day, now time.Time) bool {
	today := StartOfDay(now, s.Location)
	day = StartOfDay(day, s.Location)
	if day.Before(today) {
		return false
	}
	if !slices.Contains(s.BookableWeekdays, day.Weekday()) {
		return false
	}
	if s.MaxAdvanceDays > 0 && day.After(today.AddDate(0, 0, s.MaxAdvanceDays)) {
		return false
	}
	return true
}

type Engine interface {
	// ComputeAvailableSlots always returns a non-nil Availability. The error is
	// set only when a collaborator could not be reached, in which case the slot
	// list is empty.
	ComputeAvailableSlots(ctx context.Context, q Query) (*model.Availability, error)
}

type engine struct {
	catalog  Catalog
	booked   BookedSlotSource
	clock    Clock
	settings Settings
	log      *logger.Logger
}

func NewEngine(catalog Catalog, booked BookedSlotSource, clock Clock, settings Settings, log *logger.Logger) Engine {
	if clock == nil {
		clock = SystemClock{}
	}
	if settings.Location == nil {
		settings.Location = time.UTC
	}
	return &engine{
		catalog:  catalog,
		booked:   booked,
		clock:    clock,
		settings: settings,
		log:      log,
	}
}

type resolution struct {
	branch   *model.Branch
	resource *model.Resource
	window   model.Window
}

func (e *engine) ComputeAvailableSlots(ctx context.Context, q Query) (*model.Availability, error) {
	now := e.clock.Now()
	loc := e.settings.Location
	day := StartOfDay(q.Date, loc)

	result := &model.Availability{
		Date:      day,
		DateKey:   DateKey(day, loc),
		State:     model.StateNeedsSelection,
		Selection: q.Selection,
		Slots:     []string{},
	}

	if q.ServiceID == "" {
		return result, nil
	}
	service, err := e.catalog.GetService(ctx, q.ServiceID)
	if err != nil {
		if errors.Is(err, catalogerrors.ErrNotFound) {
			return result, nil
		}
		return result, e.unavailable("Catalog", err)
	}
	result.Service = service

	res, err := e.resolve(ctx, q)
	if err != nil {
		return result, e.unavailable("Catalog", err)
	}
	if res == nil {
		return result, nil
	}
	result.Branch = res.branch
	result.Resource = res.resource

	if !e.settings.IsBookable(day, now) || !res.window.Valid() {
		result.State = model.StateClosed
		return result, nil
	}
	result.State = model.StateReady

	candidates := ResolveCandidates(res.window.StartHour, res.window.EndHour, service.DurationMin, e.settings.GranularityMin)
	if len(candidates) == 0 {
		return result, nil
	}

	booked, err := e.booked.ListBookedSlots(ctx, result.DateKey)
	if err != nil {
		return result, e.unavailable("Booking storage", err)
	}

	slots := ExcludeBooked(candidates, BookedLabels(booked, res.resource.ID, result.DateKey))
	slots = Guard(slots, now, day, loc, e.settings.MinLeadMin, e.settings.GranularityMin)
	result.Slots = slots

	e.log.Debug("Availability computed",
		"date", result.DateKey,
		"service_id", service.ID,
		"resource_kind", res.resource.Kind,
		"resource_id", res.resource.ID,
		"candidates", len(candidates),
		"booked", len(booked),
		"available", len(slots),
	)
	return result, nil
}

// resolve maps the selection to the resource that owns the slots. A nil
// resolution with a nil error means the input cannot be resolved.
func (e *engine) resolve(ctx context.Context, q Query) (*resolution, error) {
	practitionerID, specific := q.Selection.PractitionerID()
	if !specific {
		if q.BranchID == "" {
			return nil, nil
		}
		branch, err := e.lookupBranch(ctx, q.BranchID)
		if err != nil || branch == nil {
			return nil, err
		}
		return &resolution{
			branch:   branch,
			resource: &model.Resource{Kind: model.ResourceBranch, ID: branch.ID, Name: branch.Name},
			window:   branch.Window(),
		}, nil
	}

	if practitionerID == "" {
		return nil, nil
	}
	p, err := e.catalog.GetPractitioner(ctx, practitionerID)
	if err != nil {
		if errors.Is(err, catalogerrors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if q.BranchID != "" && p.BranchID != "" && p.BranchID != q.BranchID {
		return nil, nil
	}

	branchID := q.BranchID
	if branchID == "" {
		branchID = p.BranchID
	}
	var branch *model.Branch
	if branchID != "" {
		branch, err = e.lookupBranch(ctx, branchID)
		if err != nil {
			return nil, err
		}
		if branch == nil && q.BranchID != "" {
			return nil, nil
		}
	}

	return &resolution{
		branch:   branch,
		resource: &model.Resource{Kind: model.ResourcePractitioner, ID: p.ID, Name: p.Name},
		window:   p.Window(),
	}, nil
}

func (e *engine) lookupBranch(ctx context.Context, id string) (*model.Branch, error) {
	branch, err := e.catalog.GetBranch(ctx, id)
	if err != nil {
		if errors.Is(err, catalogerrors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return branch, nil
}

func (e *engine) unavailable(collaborator string, err error) error {
	e.log.Error("Availability collaborator unavailable", "collaborator", collaborator, "error", err)
	return apperrors.Unavailable(collaborator, err)
}
