package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gamedevevents/internal/domain"
)

// fakeEventRepository is an in-memory domain.EventRepository that enforces
// slug uniqueness like the real store.
type fakeEventRepository struct {
	byID    map[string]*domain.Event
	bySlug  map[string]*domain.Event
	nextID  int
	err     error
	similar []*domain.EventSummary

	lastSimilarExcludeID string
	lastSimilarTags      []string
}

func newFakeEventRepository() *fakeEventRepository {
	return &fakeEventRepository{
		byID:   map[string]*domain.Event{},
		bySlug: map[string]*domain.Event{},
	}
}

func (f *fakeEventRepository) Create(ctx context.Context, e *domain.Event) error {
	if f.err != nil {
		return f.err
	}
	if _, exists := f.bySlug[e.Slug]; exists {
		return domain.ErrDuplicateSlug
	}
	f.nextID++
	e.ID = fmt.Sprintf("ev-%d", f.nextID)
	f.byID[e.ID] = e
	f.bySlug[e.Slug] = e
	return nil
}

func (f *fakeEventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	e, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return e, nil
}

func (f *fakeEventRepository) GetBySlug(ctx context.Context, slug string) (*domain.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	e, ok := f.bySlug[slug]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return e, nil
}

func (f *fakeEventRepository) List(ctx context.Context, params domain.PaginationParams) ([]*domain.Event, int, error) {
	if f.err != nil {
		return nil, 0, f.err
	}
	events := make([]*domain.Event, 0, len(f.byID))
	for _, e := range f.byID {
		events = append(events, e)
	}
	return events, len(events), nil
}

func (f *fakeEventRepository) Update(ctx context.Context, e *domain.Event) error {
	if f.err != nil {
		return f.err
	}
	current, ok := f.byID[e.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if other, exists := f.bySlug[e.Slug]; exists && other.ID != e.ID {
		return domain.ErrDuplicateSlug
	}
	delete(f.bySlug, current.Slug)
	f.byID[e.ID] = e
	f.bySlug[e.Slug] = e
	return nil
}

func (f *fakeEventRepository) ListSimilarByTags(ctx context.Context, excludeID string, tags []string) ([]*domain.EventSummary, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.lastSimilarExcludeID = excludeID
	f.lastSimilarTags = tags
	return f.similar, nil
}

func TestToSlug(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Game Dev Jam 2026", "game-dev-jam-2026"},
		{"  Hello,   World!  ", "hello-world"},
		{"ALREADY-A-SLUG", "already-a-slug"},
		{"--Indie // Night--", "indie-night"},
		{"!!!", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, toSlug(tt.title))
		})
	}
}

func TestToSlugIdempotent(t *testing.T) {
	titles := []string{"Game Dev Jam 2026", "Hello, World!", "a--b", "X Y Z"}
	for _, title := range titles {
		once := toSlug(title)
		require.NotEmpty(t, once)
		assert.Equal(t, once, toSlug(once))
	}
}

func TestNormalizeTime(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"09:30", "09:30", false},
		{"9:05", "09:05", false},
		{"0:00", "00:00", false},
		{"23:59", "23:59", false},
		// A bare 12:30 is 24-hour, never 12-hour without meridiem.
		{"12:30", "12:30", false},
		{"12:30 PM", "12:30", false},
		{"12:30 AM", "00:30", false},
		{"11:15pm", "23:15", false},
		{"1:30 pm", "13:30", false},
		{"  6:45 AM  ", "06:45", false},
		{"13:00 PM", "", true},
		{"0:15 am", "", true},
		{"24:00", "", true},
		{"12:60", "", true},
		{"noonish", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := normalizeTime(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, domain.ErrInvalidTimeFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"2026-03-15", "2026-03-15T00:00:00Z", false},
		{"2026-03-15T10:00:00Z", "2026-03-15T10:00:00Z", false},
		{"2026/03/15", "2026-03-15T00:00:00Z", false},
		{"March 15, 2026", "2026-03-15T00:00:00Z", false},
		{" 2026-03-15 ", "2026-03-15T00:00:00Z", false},
		{"not a date", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := normalizeDate(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, domain.ErrInvalidDate)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			// Round-trip: the canonical form parses back to the same instant.
			want, perr := time.Parse(time.RFC3339, got)
			require.NoError(t, perr)
			again, err := normalizeDate(got)
			require.NoError(t, err)
			parsed, perr := time.Parse(time.RFC3339, again)
			require.NoError(t, perr)
			assert.True(t, want.Equal(parsed))
		})
	}
}

func validEventInput() *domain.EventInput {
	return &domain.EventInput{
		Title:       "Game Dev Jam 2026",
		Description: "A weekend of building games together.",
		Overview:    "48 hours, one theme, many games.",
		Image:       "https://cdn.example.com/jam.png",
		Venue:       "Expo Hall 3",
		Location:    "Berlin",
		Date:        "2026-03-15",
		Time:        "6:30 pm",
		Mode:        "offline",
		Audience:    "developers",
		Agenda:      []string{"Doors open", "Keynote", "Jam start"},
		Organizer:   "Indie Collective",
		Tags:        []string{"jam", "indie"},
	}
}

func TestEventService_CreateEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("success normalizes slug, date and time", func(t *testing.T) {
		repo := newFakeEventRepository()
		svc := NewEventService(repo, time.Second)

		event, err := svc.CreateEvent(ctx, validEventInput())
		require.NoError(t, err)
		assert.Equal(t, "game-dev-jam-2026", event.Slug)
		assert.Equal(t, "2026-03-15T00:00:00Z", event.Date)
		assert.Equal(t, "18:30", event.Time)
		assert.NotEmpty(t, event.ID)
		assert.False(t, event.CreatedAt.IsZero())
		assert.Equal(t, event.CreatedAt, event.UpdatedAt)

		stored, err := repo.GetBySlug(ctx, "game-dev-jam-2026")
		require.NoError(t, err)
		assert.Equal(t, event, stored)
	})

	t.Run("required fields fail in declaration order", func(t *testing.T) {
		tests := []struct {
			name      string
			mutate    func(*domain.EventInput)
			wantField string
		}{
			{"missing title", func(in *domain.EventInput) { in.Title = "  " }, "title"},
			{"missing description", func(in *domain.EventInput) { in.Description = "" }, "description"},
			{"missing overview", func(in *domain.EventInput) { in.Overview = "" }, "overview"},
			{"missing image", func(in *domain.EventInput) { in.Image = "" }, "image"},
			{"missing venue", func(in *domain.EventInput) { in.Venue = "" }, "venue"},
			{"missing location", func(in *domain.EventInput) { in.Location = "" }, "location"},
			{"missing date", func(in *domain.EventInput) { in.Date = "" }, "date"},
			{"missing time", func(in *domain.EventInput) { in.Time = "" }, "time"},
			{"missing mode", func(in *domain.EventInput) { in.Mode = "" }, "mode"},
			{"missing audience", func(in *domain.EventInput) { in.Audience = "" }, "audience"},
			{"missing organizer", func(in *domain.EventInput) { in.Organizer = "" }, "organizer"},
			{"empty agenda", func(in *domain.EventInput) { in.Agenda = nil }, "agenda"},
			{"blank agenda item", func(in *domain.EventInput) { in.Agenda = []string{"ok", " "} }, "agenda"},
			{"empty tags", func(in *domain.EventInput) { in.Tags = []string{} }, "tags"},
			{"blank tag", func(in *domain.EventInput) { in.Tags = []string{""} }, "tags"},
			// title is checked before description even when both are bad
			{"title checked first", func(in *domain.EventInput) { in.Title = ""; in.Description = "" }, "title"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				svc := NewEventService(newFakeEventRepository(), time.Second)
				input := validEventInput()
				tt.mutate(input)
				_, err := svc.CreateEvent(ctx, input)
				fe, ok := domain.IsFieldError(err)
				require.True(t, ok, "expected FieldError, got %v", err)
				assert.Equal(t, tt.wantField, fe.Field)
			})
		}
	})

	t.Run("validation runs before normalization", func(t *testing.T) {
		svc := NewEventService(newFakeEventRepository(), time.Second)
		input := validEventInput()
		input.Description = ""
		input.Date = "garbage"
		_, err := svc.CreateEvent(ctx, input)
		fe, ok := domain.IsFieldError(err)
		require.True(t, ok)
		assert.Equal(t, "description", fe.Field)
	})

	t.Run("title with no alphanumerics fails slug generation", func(t *testing.T) {
		svc := NewEventService(newFakeEventRepository(), time.Second)
		input := validEventInput()
		input.Title = "!!!"
		_, err := svc.CreateEvent(ctx, input)
		require.ErrorIs(t, err, domain.ErrSlugGeneration)
	})

	t.Run("invalid date rejected", func(t *testing.T) {
		svc := NewEventService(newFakeEventRepository(), time.Second)
		input := validEventInput()
		input.Date = "sometime soon"
		_, err := svc.CreateEvent(ctx, input)
		require.ErrorIs(t, err, domain.ErrInvalidDate)
	})

	t.Run("invalid time rejected", func(t *testing.T) {
		svc := NewEventService(newFakeEventRepository(), time.Second)
		input := validEventInput()
		input.Time = "13:00 PM"
		_, err := svc.CreateEvent(ctx, input)
		require.ErrorIs(t, err, domain.ErrInvalidTimeFormat)
	})

	t.Run("titles normalizing to the same slug conflict", func(t *testing.T) {
		repo := newFakeEventRepository()
		svc := NewEventService(repo, time.Second)

		_, err := svc.CreateEvent(ctx, validEventInput())
		require.NoError(t, err)

		second := validEventInput()
		second.Title = "  game DEV jam — 2026  "
		_, err = svc.CreateEvent(ctx, second)
		require.ErrorIs(t, err, domain.ErrDuplicateSlug)
	})
}

func TestEventService_UpdateEvent(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*fakeEventRepository, domain.EventService, *domain.Event) {
		repo := newFakeEventRepository()
		svc := NewEventService(repo, time.Second)
		event, err := svc.CreateEvent(ctx, validEventInput())
		require.NoError(t, err)
		return repo, svc, event
	}

	t.Run("title change regenerates slug", func(t *testing.T) {
		_, svc, event := setup(t)
		title := "Indie Night 2026"
		updated, err := svc.UpdateEvent(ctx, event.ID, &domain.EventPatch{Title: &title})
		require.NoError(t, err)
		assert.Equal(t, "indie-night-2026", updated.Slug)
		assert.True(t, updated.UpdatedAt.After(updated.CreatedAt) || updated.UpdatedAt.Equal(updated.CreatedAt))
	})

	t.Run("unrelated patch keeps slug", func(t *testing.T) {
		_, svc, event := setup(t)
		venue := "Hall 7"
		updated, err := svc.UpdateEvent(ctx, event.ID, &domain.EventPatch{Venue: &venue})
		require.NoError(t, err)
		assert.Equal(t, "game-dev-jam-2026", updated.Slug)
		assert.Equal(t, "Hall 7", updated.Venue)
	})

	t.Run("patched date and time are re-normalized", func(t *testing.T) {
		_, svc, event := setup(t)
		date := "2026-04-01"
		tm := "9:00 am"
		updated, err := svc.UpdateEvent(ctx, event.ID, &domain.EventPatch{Date: &date, Time: &tm})
		require.NoError(t, err)
		assert.Equal(t, "2026-04-01T00:00:00Z", updated.Date)
		assert.Equal(t, "09:00", updated.Time)
	})

	t.Run("title without alphanumerics fails", func(t *testing.T) {
		_, svc, event := setup(t)
		title := "???"
		_, err := svc.UpdateEvent(ctx, event.ID, &domain.EventPatch{Title: &title})
		require.ErrorIs(t, err, domain.ErrSlugGeneration)
	})

	t.Run("emptied required field fails", func(t *testing.T) {
		_, svc, event := setup(t)
		venue := " "
		_, err := svc.UpdateEvent(ctx, event.ID, &domain.EventPatch{Venue: &venue})
		fe, ok := domain.IsFieldError(err)
		require.True(t, ok)
		assert.Equal(t, "venue", fe.Field)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, svc, _ := setup(t)
		title := "New Title"
		_, err := svc.UpdateEvent(ctx, "ev-missing", &domain.EventPatch{Title: &title})
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("slug collision on rename", func(t *testing.T) {
		_, svc, _ := setup(t)
		other := validEventInput()
		other.Title = "Indie Night"
		created, err := svc.CreateEvent(ctx, other)
		require.NoError(t, err)

		title := "Game Dev Jam 2026"
		_, err = svc.UpdateEvent(ctx, created.ID, &domain.EventPatch{Title: &title})
		require.ErrorIs(t, err, domain.ErrDuplicateSlug)
	})
}

func TestEventService_GetEventBySlug(t *testing.T) {
	ctx := context.Background()
	repo := newFakeEventRepository()
	svc := NewEventService(repo, time.Second)

	created, err := svc.CreateEvent(ctx, validEventInput())
	require.NoError(t, err)

	got, err := svc.GetEventBySlug(ctx, created.Slug)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = svc.GetEventBySlug(ctx, "no-such-event")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEventService_ListSimilarEvents(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown slug yields empty result", func(t *testing.T) {
		svc := NewEventService(newFakeEventRepository(), time.Second)
		similar, err := svc.ListSimilarEvents(ctx, "no-such-event")
		require.NoError(t, err)
		assert.Empty(t, similar)
	})

	t.Run("queries by source tags excluding source", func(t *testing.T) {
		repo := newFakeEventRepository()
		repo.similar = []*domain.EventSummary{
			{Title: "Indie Night", Slug: "indie-night"},
		}
		svc := NewEventService(repo, time.Second)
		created, err := svc.CreateEvent(ctx, validEventInput())
		require.NoError(t, err)

		similar, err := svc.ListSimilarEvents(ctx, created.Slug)
		require.NoError(t, err)
		require.Len(t, similar, 1)
		assert.Equal(t, "indie-night", similar[0].Slug)
		assert.Equal(t, created.ID, repo.lastSimilarExcludeID)
		assert.Equal(t, []string{"jam", "indie"}, repo.lastSimilarTags)
	})

	t.Run("storage error surfaces to caller", func(t *testing.T) {
		repo := newFakeEventRepository()
		svc := NewEventService(repo, time.Second)
		created, err := svc.CreateEvent(ctx, validEventInput())
		require.NoError(t, err)

		repo.err = errors.New("connection reset")
		_, err = svc.ListSimilarEvents(ctx, created.Slug)
		require.Error(t, err)
	})
}
