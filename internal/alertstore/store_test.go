package alertstore

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/weatherlens/internal/alert"
	wlerrors "github.com/alexisbeaulieu97/weatherlens/pkg/errors"
)

type fakeService struct {
	rules     map[string][]alert.Rule
	listErr   map[string]error
	createErr error
	deleteErr error

	listCalls []string
	created   []alert.Draft
	deleted   []string
	nextID    int
}

func newFakeService() *fakeService {
	return &fakeService{
		rules:   map[string][]alert.Rule{},
		listErr: map[string]error{},
	}
}

func (f *fakeService) List(_ context.Context, city string) ([]alert.Rule, error) {
	f.listCalls = append(f.listCalls, city)
	if err := f.listErr[city]; err != nil {
		return nil, err
	}
	out := make([]alert.Rule, len(f.rules[city]))
	copy(out, f.rules[city])
	return out, nil
}

func (f *fakeService) Create(_ context.Context, draft alert.Draft) (alert.Rule, error) {
	if f.createErr != nil {
		return alert.Rule{}, f.createErr
	}
	f.created = append(f.created, draft)
	f.nextID++
	rule := alert.Rule{
		ID:               fmt.Sprintf("r%d", f.nextID),
		AlertName:        draft.AlertName,
		Email:            draft.Email,
		CityName:         draft.CityName,
		Temperature:      draft.Temperature,
		Humidity:         draft.Humidity,
		WindSpeed:        draft.WindSpeed,
		CloudCoverage:    draft.CloudCoverage,
		WeatherCondition: draft.WeatherCondition,
	}
	f.rules[draft.CityName] = append(f.rules[draft.CityName], rule)
	return rule, nil
}

func (f *fakeService) Delete(_ context.Context, city, id string) error {
	f.deleted = append(f.deleted, city+"/"+id)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	kept := f.rules[city][:0]
	for _, r := range f.rules[city] {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	f.rules[city] = kept
	return nil
}

func rule(id, city, name string) alert.Rule {
	return alert.Rule{ID: id, AlertName: name, Email: "a@b.com", CityName: city, Temperature: 30}
}

func highTemp() alert.Draft {
	return alert.Draft{AlertName: "High Temp", Email: "a@b.com", Temperature: 40, WeatherCondition: alert.ConditionClear}
}

func ruleIDs(rules []alert.Rule) []string {
	ids := make([]string, 0, len(rules))
	for _, r := range rules {
		ids = append(ids, r.ID)
	}
	return ids
}

// run executes cmd and feeds its message back into the store.
func run(t *testing.T, s *Store, cmd tea.Cmd) tea.Cmd {
	t.Helper()
	require.NotNil(t, cmd)
	return s.Update(cmd())
}

func TestNewStoreIsIdle(t *testing.T) {
	s := New(newFakeService())

	assert.Equal(t, Idle, s.Phase())
	assert.Empty(t, s.City())
	assert.Nil(t, s.Rules())
	assert.Nil(t, s.Refresh(), "refresh without a city does nothing")
	assert.Nil(t, s.Delete("r1"), "delete without a city does nothing")
}

func TestSelectCityLoadsRules(t *testing.T) {
	svc := newFakeService()
	svc.rules["Delhi"] = []alert.Rule{rule("a", "Delhi", "Hot"), rule("b", "Delhi", "Hotter")}
	s := New(svc)

	cmd := s.SelectCity("Delhi")
	assert.Equal(t, Loading, s.Phase())
	assert.Equal(t, "Delhi", s.City())

	assert.Nil(t, run(t, s, cmd))
	assert.Equal(t, Ready, s.Phase())
	assert.Equal(t, []string{"a", "b"}, ruleIDs(s.Rules()))
}

func TestSelectCityClearsPreviousRulesImmediately(t *testing.T) {
	svc := newFakeService()
	svc.rules["Delhi"] = []alert.Rule{rule("a", "Delhi", "Hot")}
	s := New(svc)
	run(t, s, s.SelectCity("Delhi"))
	require.Len(t, s.Rules(), 1)

	_ = s.SelectCity("Mumbai")
	assert.Equal(t, Loading, s.Phase())
	assert.Empty(t, s.Rules())
}

func TestStaleCityResultIsDiscarded(t *testing.T) {
	svc := newFakeService()
	svc.rules["Delhi"] = []alert.Rule{rule("d1", "Delhi", "Delhi rule")}
	svc.rules["Mumbai"] = []alert.Rule{rule("m1", "Mumbai", "Mumbai rule")}
	s := New(svc)

	delhi := s.SelectCity("Delhi")
	mumbai := s.SelectCity("Mumbai")

	// Mumbai answers first, Delhi arrives late.
	run(t, s, mumbai)
	run(t, s, delhi)

	assert.Equal(t, "Mumbai", s.City())
	assert.Equal(t, Ready, s.Phase())
	assert.Equal(t, []string{"m1"}, ruleIDs(s.Rules()))
}

func TestStaleResultForSameCityIsDiscarded(t *testing.T) {
	svc := newFakeService()
	svc.rules["Delhi"] = []alert.Rule{rule("old", "Delhi", "Old")}
	s := New(svc)

	first := s.SelectCity("Delhi")
	firstMsg := first()

	svc.rules["Delhi"] = []alert.Rule{rule("new", "Delhi", "New")}
	run(t, s, s.Refresh())
	s.Update(firstMsg)

	assert.Equal(t, []string{"new"}, ruleIDs(s.Rules()))
}

func TestEmptyCity(t *testing.T) {
	t.Run("empty list", func(t *testing.T) {
		s := New(newFakeService())
		run(t, s, s.SelectCity("Pune"))

		assert.Equal(t, ReadyEmpty, s.Phase())
		assert.Equal(t, "No alerts found for Pune.", s.Message())
		assert.NotNil(t, s.Rules())
		assert.Empty(t, s.Rules())
	})

	t.Run("not found error", func(t *testing.T) {
		svc := newFakeService()
		svc.listErr["Pune"] = wlerrors.NewSyncError(wlerrors.NotFound, "list", 404, "", nil)
		s := New(svc)
		run(t, s, s.SelectCity("Pune"))

		assert.Equal(t, ReadyEmpty, s.Phase())
		assert.Empty(t, s.Rules())
	})
}

func TestFetchFailureClearsRules(t *testing.T) {
	svc := newFakeService()
	svc.rules["Delhi"] = []alert.Rule{rule("a", "Delhi", "Hot")}
	s := New(svc)
	run(t, s, s.SelectCity("Delhi"))
	require.Len(t, s.Rules(), 1)

	svc.listErr["Delhi"] = wlerrors.NewSyncError(wlerrors.Network, "list", 0, "", errors.New("refused"))
	refresh := s.Refresh()
	assert.Len(t, s.Rules(), 1, "refresh keeps rules until the result arrives")
	run(t, s, refresh)

	assert.Equal(t, Error, s.Phase())
	assert.Equal(t, FetchFailedMessage, s.Message())
	assert.Empty(t, s.Rules())
	assert.True(t, wlerrors.IsSyncKind(s.LastFetchError(), wlerrors.Network))

	delete(svc.listErr, "Delhi")
	run(t, s, s.Refresh())
	assert.NoError(t, s.LastFetchError())
}

func TestSubmitRequiresCity(t *testing.T) {
	s := New(newFakeService())

	cmd, err := s.Submit(highTemp())
	assert.Nil(t, cmd)
	require.ErrorIs(t, err, ErrNoCity)
	assert.Equal(t, Idle, s.Phase())
}

func TestSubmitRejectsInvalidDraft(t *testing.T) {
	s := New(newFakeService())
	run(t, s, s.SelectCity("Delhi"))

	cmd, err := s.Submit(alert.Draft{Email: "a@b.com", Temperature: 1})
	assert.Nil(t, cmd)

	var validationErr *wlerrors.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, alert.FieldAlertName, validationErr.Field)
	assert.False(t, s.Submitting())
}

func TestSubmitSuccessFlashesThenSettles(t *testing.T) {
	svc := newFakeService()
	clock := clockwork.NewFakeClock()
	s := New(svc, WithClock(clock))
	run(t, s, s.SelectCity("Delhi"))
	require.Equal(t, ReadyEmpty, s.Phase())

	draft := highTemp()
	draft.CityName = "Elsewhere"
	create, err := s.Submit(draft)
	require.NoError(t, err)
	assert.Equal(t, Submitting, s.Phase())
	assert.True(t, s.Submitting())

	_, err = s.Submit(highTemp())
	require.ErrorIs(t, err, ErrBusy)

	createMsg := create()
	result, ok := createMsg.(CreateResultMsg)
	require.True(t, ok)
	assert.True(t, result.Succeeded())

	refresh := s.Update(createMsg)
	require.NotNil(t, refresh, "create triggers a refresh")
	assert.Equal(t, Loading, s.Phase())
	assert.False(t, s.Submitting())

	require.Len(t, svc.created, 1)
	assert.Equal(t, "Delhi", svc.created[0].CityName, "city comes from the store")

	flash := run(t, s, refresh)
	assert.Equal(t, SubmitSucceeded, s.Phase())
	assert.Equal(t, CreatedMessage, s.Message())
	assert.Equal(t, []string{"r1"}, ruleIDs(s.Rules()))
	require.NotNil(t, flash)

	done := make(chan tea.Msg, 1)
	go func() { done <- flash() }()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	clock.Advance(DefaultFlashDuration)

	select {
	case msg := <-done:
		s.Update(msg)
	case <-time.After(2 * time.Second):
		t.Fatal("flash timer did not fire")
	}

	assert.Equal(t, Ready, s.Phase())
	assert.Empty(t, s.Message())
}

func TestSupersededFlashExpiryIsIgnored(t *testing.T) {
	svc := newFakeService()
	s := New(svc, WithFlashDuration(0))
	run(t, s, s.SelectCity("Delhi"))

	create, err := s.Submit(highTemp())
	require.NoError(t, err)
	flash := run(t, s, run(t, s, create))
	require.Equal(t, SubmitSucceeded, s.Phase())

	stale := flash()
	_ = s.SelectCity("Mumbai")
	s.Update(stale)
	assert.Equal(t, Loading, s.Phase(), "expiry after a city change must not revert phase")

	s.Update(flashExpiredMsg{token: 999})
	assert.Equal(t, Loading, s.Phase())
}

func TestSubmitFailureKeepsRules(t *testing.T) {
	svc := newFakeService()
	svc.rules["Delhi"] = []alert.Rule{rule("a", "Delhi", "Hot")}
	s := New(svc)
	run(t, s, s.SelectCity("Delhi"))

	svc.createErr = wlerrors.NewSyncError(wlerrors.ServerError, "create", 500, "boom", nil)
	create, err := s.Submit(highTemp())
	require.NoError(t, err)

	assert.Nil(t, run(t, s, create), "no refresh after a failed create")
	assert.Equal(t, Error, s.Phase())
	assert.Equal(t, CreateFailedMessage, s.Message())
	assert.Equal(t, []string{"a"}, ruleIDs(s.Rules()))
	assert.False(t, s.Submitting())
	assert.True(t, wlerrors.IsSyncKind(s.LastCreateError(), wlerrors.ServerError))

	svc.createErr = nil
	_, err = s.Submit(highTemp())
	require.NoError(t, err, "a new submit is allowed after failure")
}

func TestListDuringSubmitKeepsSubmitting(t *testing.T) {
	svc := newFakeService()
	svc.rules["Delhi"] = []alert.Rule{rule("a", "Delhi", "Hot")}
	s := New(svc, WithFlashDuration(0))

	list := s.SelectCity("Delhi")
	create, err := s.Submit(highTemp())
	require.NoError(t, err)

	s.Update(list())
	assert.Equal(t, Submitting, s.Phase())
	assert.True(t, s.Submitting())
	assert.Equal(t, []string{"a"}, ruleIDs(s.Rules()), "rules still update underneath")

	refresh := run(t, s, create)
	assert.Equal(t, Loading, s.Phase())
	flash := run(t, s, refresh)
	assert.Equal(t, SubmitSucceeded, s.Phase())
	run(t, s, flash)
	assert.Equal(t, Ready, s.Phase())
	assert.Len(t, s.Rules(), 2)
}

func TestCreateFailureSurvivesInFlightList(t *testing.T) {
	svc := newFakeService()
	s := New(svc)

	list := s.SelectCity("Delhi")
	svc.createErr = wlerrors.NewSyncError(wlerrors.Network, "create", 0, "", errors.New("connection refused"))
	create, err := s.Submit(highTemp())
	require.NoError(t, err)

	assert.Nil(t, run(t, s, create))
	require.Equal(t, Error, s.Phase())

	s.Update(list())
	assert.Equal(t, Error, s.Phase())
	assert.Equal(t, CreateFailedMessage, s.Message())
	assert.Empty(t, s.Rules())

	run(t, s, s.Refresh())
	assert.Equal(t, ReadyEmpty, s.Phase(), "the next user action replaces the create error")
}

func TestCreateForPreviousCityRefreshesCurrentCity(t *testing.T) {
	svc := newFakeService()
	s := New(svc, WithFlashDuration(0))
	run(t, s, s.SelectCity("Delhi"))

	create, err := s.Submit(highTemp())
	require.NoError(t, err)
	switchCity := s.SelectCity("Mumbai")

	refresh := run(t, s, create)
	require.NotNil(t, refresh)
	run(t, s, refresh)
	s.Update(switchCity())

	assert.Equal(t, "Mumbai", s.City())
	assert.Equal(t, []string{"Delhi", "Mumbai", "Mumbai"}, svc.listCalls)
	assert.Empty(t, s.Rules())
}

func TestDeleteAlwaysRefreshes(t *testing.T) {
	svc := newFakeService()
	svc.rules["Delhi"] = []alert.Rule{rule("a", "Delhi", "Hot"), rule("b", "Delhi", "Cold")}
	s := New(svc)
	run(t, s, s.SelectCity("Delhi"))

	refresh := run(t, s, s.Delete("a"))
	require.NotNil(t, refresh)
	assert.Equal(t, Loading, s.Phase())
	run(t, s, refresh)

	assert.Equal(t, []string{"b"}, ruleIDs(s.Rules()))
	assert.NoError(t, s.LastDeleteError())
	assert.Equal(t, []string{"Delhi/a"}, svc.deleted)
}

func TestDeleteFailureIsANotice(t *testing.T) {
	svc := newFakeService()
	svc.rules["Delhi"] = []alert.Rule{rule("a", "Delhi", "Hot")}
	svc.deleteErr = wlerrors.NewSyncError(wlerrors.NotFound, "delete", 404, "", nil)
	s := New(svc)
	run(t, s, s.SelectCity("Delhi"))

	refresh := run(t, s, s.Delete("a"))
	require.NotNil(t, refresh, "refresh happens even when delete fails")
	run(t, s, refresh)

	assert.Equal(t, Ready, s.Phase())
	assert.Equal(t, []string{"a"}, ruleIDs(s.Rules()))
	assert.True(t, wlerrors.IsSyncKind(s.LastDeleteError(), wlerrors.NotFound))
}

func TestDriveRunsFollowUpCommands(t *testing.T) {
	svc := newFakeService()
	s := New(svc, WithFlashDuration(0))
	s.Drive(s.SelectCity("Delhi"))
	require.Equal(t, ReadyEmpty, s.Phase())

	create, err := s.Submit(highTemp())
	require.NoError(t, err)
	s.Drive(create)

	assert.Equal(t, Ready, s.Phase(), "flash settles back to the fetch result")
	assert.Len(t, s.Rules(), 1)
}

func TestUpdateIgnoresForeignMessages(t *testing.T) {
	s := New(newFakeService())
	assert.Nil(t, s.Update(tea.KeyMsg{}))
	assert.Equal(t, Idle, s.Phase())
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "ready_empty", ReadyEmpty.String())
	assert.Equal(t, "submit_succeeded", SubmitSucceeded.String())
	assert.Equal(t, "unknown", Phase(42).String())
}
