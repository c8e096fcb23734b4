package docket_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-plazos/internal/calendar"
	"github.com/tartampluch/go-plazos/internal/deadline"
	"github.com/tartampluch/go-plazos/internal/docket"
)

// -----------------------------------------------------------------------------
// Test doubles
// -----------------------------------------------------------------------------

// memStore is a map-backed docket.Store.
type memStore struct {
	records map[string]docket.Record
}

func newMemStore() *memStore {
	return &memStore{records: make(map[string]docket.Record)}
}

func (m *memStore) Get(_ context.Context, id string) (docket.Record, error) {
	r, ok := m.records[id]
	if !ok {
		return docket.Record{}, fmt.Errorf("%s: %w", id, docket.ErrNotFound)
	}
	return r, nil
}

func (m *memStore) Save(_ context.Context, r docket.Record) error {
	m.records[r.ID] = r
	return nil
}

func (m *memStore) Delete(_ context.Context, id string) error {
	if _, ok := m.records[id]; !ok {
		return fmt.Errorf("%s: %w", id, docket.ErrNotFound)
	}
	delete(m.records, id)
	return nil
}

func (m *memStore) List(_ context.Context) ([]docket.Record, error) {
	out := make([]docket.Record, 0, len(m.records))
	for _, r := range m.records {
		out = append(out, r)
	}
	return out, nil
}

// MockStore lets tests inject storage failures.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Get(ctx context.Context, id string) (docket.Record, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(docket.Record), args.Error(1)
}

func (m *MockStore) Save(ctx context.Context, r docket.Record) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockStore) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockStore) List(ctx context.Context) ([]docket.Record, error) {
	args := m.Called(ctx)
	if r := args.Get(0); r != nil {
		return r.([]docket.Record), args.Error(1)
	}
	return nil, args.Error(1)
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func d(y int, m time.Month, day int) time.Time {
	return calendar.Date(y, m, day)
}

func newService(t *testing.T) (*docket.Service, *memStore, *calendar.Calendar) {
	t.Helper()
	cal := calendar.NewChilean()
	store := newMemStore()
	clock := fixedClock{t: time.Date(2025, 1, 6, 9, 30, 0, 0, time.UTC)}
	return docket.NewService(store, deadline.NewCalculator(cal), clock), store, cal
}

// -----------------------------------------------------------------------------
// Tests
// -----------------------------------------------------------------------------

func TestSchedule_ComputesDueDate(t *testing.T) {
	svc, store, _ := newService(t)

	r, err := svc.Schedule(context.Background(), docket.Draft{
		Case:  "C-1234-2025",
		Title: "Contestar demanda",
		Start: d(2025, 1, 6),
		Days:  10,
		Mode:  deadline.Business,
	})

	require.NoError(t, err)
	assert.NotEmpty(t, r.ID)
	assert.Equal(t, d(2025, 1, 20), r.Due)
	assert.Equal(t, time.Date(2025, 1, 6, 9, 30, 0, 0, time.UTC), r.CreatedAt)
	assert.Contains(t, store.records, r.ID)
}

func TestSchedule_UsesCatalogTerm(t *testing.T) {
	svc, _, _ := newService(t)

	r, err := svc.Schedule(context.Background(), docket.Draft{
		Title:      "Apelación",
		Proceeding: deadline.CivilAppeal,
		Start:      d(2025, 1, 6),
	})

	require.NoError(t, err)
	assert.Equal(t, 10, r.Days)
	assert.Equal(t, deadline.Business, r.Mode)
	assert.Equal(t, d(2025, 1, 20), r.Due)
}

func TestSchedule_ExplicitDaysWinOverCatalog(t *testing.T) {
	svc, _, _ := newService(t)

	r, err := svc.Schedule(context.Background(), docket.Draft{
		Title:      "Apelación ampliada",
		Proceeding: deadline.CivilAppeal,
		Start:      d(2025, 1, 1),
		Days:       10,
		Mode:       deadline.Calendar,
	})

	require.NoError(t, err)
	assert.Equal(t, d(2025, 1, 11), r.Due)
}

func TestSchedule_Validation(t *testing.T) {
	svc, store, _ := newService(t)

	tests := []struct {
		name   string
		draft  docket.Draft
		target error
	}{
		{"missing title", docket.Draft{Start: d(2025, 1, 6), Days: 1, Mode: deadline.Business}, docket.ErrInvalidRecord},
		{"missing start", docket.Draft{Title: "x", Days: 1, Mode: deadline.Business}, docket.ErrInvalidRecord},
		{"missing mode", docket.Draft{Title: "x", Start: d(2025, 1, 6), Days: 1}, deadline.ErrInvalidMode},
		{"negative days", docket.Draft{Title: "x", Start: d(2025, 1, 6), Days: -1, Mode: deadline.Business}, deadline.ErrInvalidArgument},
		{"term without fixed days", docket.Draft{Title: "x", Start: d(2025, 1, 6), Proceeding: deadline.EffectivePossession}, deadline.ErrInvalidMode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Schedule(context.Background(), tt.draft)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.target)
		})
	}
	assert.Empty(t, store.records, "Rejected drafts must not be persisted")
}

func TestSuspendAndResume(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	r, err := svc.Schedule(ctx, docket.Draft{Title: "Plazo", Start: d(2025, 1, 6), Days: 5, Mode: deadline.Business})
	require.NoError(t, err)
	require.Equal(t, d(2025, 1, 13), r.Due)

	suspended, err := svc.Suspend(ctx, r.ID, 5)
	require.NoError(t, err)
	assert.True(t, suspended.Suspended)
	assert.Equal(t, d(2025, 1, 20), suspended.Due)

	resumed, err := svc.Resume(ctx, r.ID)
	require.NoError(t, err)
	assert.False(t, resumed.Suspended)
	assert.Zero(t, resumed.SuspensionDays)
	assert.Equal(t, d(2025, 1, 13), resumed.Due)
}

func TestSuspend_Errors(t *testing.T) {
	svc, _, _ := newService(t)

	_, err := svc.Suspend(context.Background(), "missing", 3)
	assert.ErrorIs(t, err, docket.ErrNotFound)

	_, err = svc.Suspend(context.Background(), "missing", -3)
	assert.ErrorIs(t, err, deadline.ErrInvalidArgument)
}

func TestMarkNotified(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	r, err := svc.Schedule(ctx, docket.Draft{Title: "Plazo", Start: d(2025, 1, 6), Days: 1, Mode: deadline.Calendar})
	require.NoError(t, err)

	r, err = svc.MarkNotified(ctx, r.ID)
	require.NoError(t, err)
	assert.True(t, r.Notified)

	got, err := svc.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.True(t, got.Notified)
}

func TestRecompute_AfterHolidayChange(t *testing.T) {
	svc, _, cal := newService(t)
	ctx := context.Background()

	r, err := svc.Schedule(ctx, docket.Draft{Title: "Plazo", Start: d(2025, 1, 6), Days: 1, Mode: deadline.Business})
	require.NoError(t, err)
	_, err = svc.Schedule(ctx, docket.Draft{Title: "Otro", Start: d(2025, 3, 3), Days: 1, Mode: deadline.Business})
	require.NoError(t, err)

	cal.AddHoliday(d(2025, 1, 7), "Feriado administrativo")

	changed, err := svc.Recompute(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, changed)

	got, err := svc.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, d(2025, 1, 8), got.Due)
}

func TestDelete(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	r, err := svc.Schedule(ctx, docket.Draft{Title: "Plazo", Start: d(2025, 1, 6), Days: 1, Mode: deadline.Calendar})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, r.ID))
	_, err = svc.Get(ctx, r.ID)
	assert.ErrorIs(t, err, docket.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, r.ID), docket.ErrNotFound)
}

func TestListAndUpcoming(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()
	today := d(2025, 1, 10)

	schedule := func(title string, start time.Time, days int) docket.Record {
		r, err := svc.Schedule(ctx, docket.Draft{Title: title, Start: start, Days: days, Mode: deadline.Calendar})
		require.NoError(t, err)
		return r
	}

	overdue := schedule("vencido", d(2025, 1, 1), 5)   // 01-06
	dueToday := schedule("hoy", d(2025, 1, 5), 5)      // 01-10
	inWindow := schedule("alerta", d(2025, 1, 10), 7)  // 01-17
	outside := schedule("normal", d(2025, 1, 10), 8)   // 01-18
	paused := schedule("suspendido", d(2025, 1, 8), 3) // 01-11
	_, err := svc.Suspend(ctx, paused.ID, 0)
	require.NoError(t, err)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 5)
	assert.Equal(t, overdue.ID, all[0].ID, "List is ordered by due date")

	upcoming, err := svc.Upcoming(ctx, today, 7)
	require.NoError(t, err)
	require.Len(t, upcoming, 2)
	assert.Equal(t, dueToday.ID, upcoming[0].ID)
	assert.Equal(t, inWindow.ID, upcoming[1].ID)

	assert.Equal(t, deadline.StatusOverdue, overdue.Status(today))
	assert.Equal(t, deadline.StatusDueToday, dueToday.Status(today))
	assert.Equal(t, deadline.StatusWarning, inWindow.Status(today))
	assert.Equal(t, deadline.StatusNormal, outside.Status(today))
	assert.Equal(t, 8, outside.DaysRemaining(today))

	defaulted, err := svc.Upcoming(ctx, today, 0)
	require.NoError(t, err)
	assert.Len(t, defaulted, 2, "A zero window falls back to the default")
}

func TestSchedule_StoreFailure(t *testing.T) {
	store := new(MockStore)
	boom := errors.New("disk full")
	store.On("Save", mock.Anything, mock.Anything).Return(boom)

	svc := docket.NewService(store, deadline.NewCalculator(calendar.NewChilean()), fixedClock{t: time.Now()})
	_, err := svc.Schedule(context.Background(), docket.Draft{Title: "x", Start: d(2025, 1, 6), Days: 1, Mode: deadline.Business})

	assert.ErrorIs(t, err, boom)
	store.AssertExpectations(t)
}

func TestUpcoming_ListFailure(t *testing.T) {
	store := new(MockStore)
	boom := errors.New("locked")
	store.On("List", mock.Anything).Return(nil, boom)

	svc := docket.NewService(store, deadline.NewCalculator(calendar.NewChilean()), fixedClock{})
	_, err := svc.Upcoming(context.Background(), d(2025, 1, 1), 7)

	assert.ErrorIs(t, err, boom)
	store.AssertExpectations(t)
}
