package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gamedevevents/internal/domain"
)

type eventService struct {
	eventRepo      domain.EventRepository
	contextTimeout time.Duration
}

// NewEventService creates an EventService backed by the given repository.
func NewEventService(eventRepo domain.EventRepository, timeout time.Duration) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		contextTimeout: timeout,
	}
}

// slugStripPattern matches every maximal run of characters outside [a-z0-9].
var slugStripPattern = regexp.MustCompile(`[^a-z0-9]+`)

// toSlug derives a URL-safe identifier from a title: trim, lowercase, collapse
// non-alphanumeric runs into single hyphens, strip leading/trailing hyphens.
// The result may be empty when the title has no alphanumeric characters; the
// caller must treat that as a failure.
func toSlug(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = slugStripPattern.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

func assertNonEmptyString(value, field string) error {
	if strings.TrimSpace(value) == "" {
		return domain.NewRequiredFieldError(field)
	}
	return nil
}

func assertNonEmptyStringArray(values []string, field string) error {
	if len(values) == 0 {
		return domain.NewEmptyArrayError(field)
	}
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return domain.NewEmptyElementError(field)
		}
	}
	return nil
}

// dateLayouts are tried in order by normalizeDate.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02",
	"January 2, 2006",
	"Jan 2, 2006",
	"01/02/2006",
}

// normalizeDate parses a free-form date string and returns it as an RFC 3339
// UTC instant, or domain.ErrInvalidDate when no layout matches.
func normalizeDate(value string) (string, error) {
	raw := strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC().Format(time.RFC3339), nil
		}
	}
	return "", domain.ErrInvalidDate
}

var (
	time24Pattern = regexp.MustCompile(`^([01]?\d|2[0-3]):([0-5]\d)$`)
	time12Pattern = regexp.MustCompile(`^(\d{1,2}):([0-5]\d)\s*([aApP][mM])$`)
)

// normalizeTime returns a zero-padded 24-hour "HH:mm" string. The strict
// 24-hour pattern is tried first, so a bare "12:30" is always read as 24-hour.
func normalizeTime(value string) (string, error) {
	raw := strings.TrimSpace(value)

	if m := time24Pattern.FindStringSubmatch(raw); m != nil {
		hour, _ := strconv.Atoi(m[1])
		return fmt.Sprintf("%02d:%s", hour, m[2]), nil
	}

	if m := time12Pattern.FindStringSubmatch(raw); m != nil {
		hour, _ := strconv.Atoi(m[1])
		if hour < 1 || hour > 12 {
			return "", domain.ErrInvalidTimeFormat
		}
		meridiem := strings.ToLower(m[3])
		if meridiem == "pm" && hour != 12 {
			hour += 12
		}
		if meridiem == "am" && hour == 12 {
			hour = 0
		}
		return fmt.Sprintf("%02d:%s", hour, m[2]), nil
	}

	return "", domain.ErrInvalidTimeFormat
}

// validateEventFields checks every required field in declaration order and
// fails fast on the first violation.
func validateEventFields(e *domain.Event) error {
	checks := []struct {
		value string
		field string
	}{
		{e.Title, "title"},
		{e.Description, "description"},
		{e.Overview, "overview"},
		{e.Image, "image"},
		{e.Venue, "venue"},
		{e.Location, "location"},
		{e.Date, "date"},
		{e.Time, "time"},
		{e.Mode, "mode"},
		{e.Audience, "audience"},
		{e.Organizer, "organizer"},
	}
	for _, c := range checks {
		if err := assertNonEmptyString(c.value, c.field); err != nil {
			return err
		}
	}
	if err := assertNonEmptyStringArray(e.Agenda, "agenda"); err != nil {
		return err
	}
	if err := assertNonEmptyStringArray(e.Tags, "tags"); err != nil {
		return err
	}
	return nil
}

// runWritePipeline applies the pre-commit pipeline in its fixed order: field
// presence validation, slug derivation, date normalization, time
// normalization. Both create and update go through this same path.
func runWritePipeline(e *domain.Event, regenerateSlug bool) error {
	if err := validateEventFields(e); err != nil {
		return err
	}

	if regenerateSlug || e.Slug == "" {
		slug := toSlug(e.Title)
		if slug == "" {
			return domain.ErrSlugGeneration
		}
		e.Slug = slug
	}

	date, err := normalizeDate(e.Date)
	if err != nil {
		return err
	}
	e.Date = date

	t, err := normalizeTime(e.Time)
	if err != nil {
		return err
	}
	e.Time = t

	return nil
}

func (s *eventService) CreateEvent(ctx context.Context, input *domain.EventInput) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	now := time.Now().UTC()
	event := &domain.Event{
		Title:       input.Title,
		Description: input.Description,
		Overview:    input.Overview,
		Image:       input.Image,
		Venue:       input.Venue,
		Location:    input.Location,
		Date:        input.Date,
		Time:        input.Time,
		Mode:        input.Mode,
		Audience:    input.Audience,
		Agenda:      input.Agenda,
		Organizer:   input.Organizer,
		Tags:        input.Tags,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := runWritePipeline(event, true); err != nil {
		return nil, err
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		if errors.Is(err, domain.ErrDuplicateSlug) {
			return nil, domain.ErrDuplicateSlug
		}
		return nil, fmt.Errorf("create event: %w", err)
	}
	return event, nil
}

func (s *eventService) GetEventBySlug(ctx context.Context, slug string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event by slug: %w", err)
	}
	return event, nil
}

func (s *eventService) ListEvents(ctx context.Context, params domain.PaginationParams) ([]*domain.Event, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, total, err := s.eventRepo.List(ctx, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, total, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, id string, patch *domain.EventPatch) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	titleChanged := patch.Title != nil && strings.TrimSpace(*patch.Title) != event.Title
	applyEventPatch(event, patch)

	if err := runWritePipeline(event, titleChanged); err != nil {
		return nil, err
	}
	event.UpdatedAt = time.Now().UTC()

	if err := s.eventRepo.Update(ctx, event); err != nil {
		if errors.Is(err, domain.ErrDuplicateSlug) {
			return nil, domain.ErrDuplicateSlug
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return event, nil
}

func applyEventPatch(e *domain.Event, patch *domain.EventPatch) {
	if patch.Title != nil {
		e.Title = *patch.Title
	}
	if patch.Description != nil {
		e.Description = *patch.Description
	}
	if patch.Overview != nil {
		e.Overview = *patch.Overview
	}
	if patch.Image != nil {
		e.Image = *patch.Image
	}
	if patch.Venue != nil {
		e.Venue = *patch.Venue
	}
	if patch.Location != nil {
		e.Location = *patch.Location
	}
	if patch.Date != nil {
		e.Date = *patch.Date
	}
	if patch.Time != nil {
		e.Time = *patch.Time
	}
	if patch.Mode != nil {
		e.Mode = *patch.Mode
	}
	if patch.Audience != nil {
		e.Audience = *patch.Audience
	}
	if patch.Agenda != nil {
		e.Agenda = patch.Agenda
	}
	if patch.Organizer != nil {
		e.Organizer = *patch.Organizer
	}
	if patch.Tags != nil {
		e.Tags = patch.Tags
	}
}

func (s *eventService) ListSimilarEvents(ctx context.Context, slug string) ([]*domain.EventSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Unknown slug is an empty result, not an error.
			return []*domain.EventSummary{}, nil
		}
		return nil, fmt.Errorf("get event by slug: %w", err)
	}

	similar, err := s.eventRepo.ListSimilarByTags(ctx, event.ID, event.Tags)
	if err != nil {
		return nil, fmt.Errorf("list similar events: %w", err)
	}
	if similar == nil {
		similar = []*domain.EventSummary{}
	}
	return similar, nil
}
