package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alexanderramin/nutrilog/internal/testutil"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	events []UseCaseEvent
}

func (r *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	r.events = append(r.events, e)
}

func TestLogUseCaseObserver_WritesFields(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	obs := NewLogUseCaseObserver(logger)

	obs.ObserveUseCase(context.Background(), UseCaseEvent{
		Name:     "render-template",
		Duration: 1500 * time.Millisecond,
		Success:  true,
		Fields:   map[string]any{"template_id": "t1"},
	})

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.InfoLevel, entry.Level)
	assert.Equal(t, "service_use_case", entry.Message)
	assert.Equal(t, "render-template", entry.Data["use_case"])
	assert.Equal(t, int64(1500), entry.Data["duration_ms"])
	assert.Equal(t, true, entry.Data["success"])
	assert.Equal(t, "t1", entry.Data["template_id"])
}

func TestLogUseCaseObserver_ErrorsLogAtErrorLevel(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	obs := NewLogUseCaseObserver(logger)

	obs.ObserveUseCase(context.Background(), UseCaseEvent{
		Name: "create-template",
		Err:  errors.New("boom"),
	})

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
	assert.Equal(t, false, entry.Data["success"])
	assert.EqualError(t, entry.Data[logrus.ErrorKey].(error), "boom")
}

func TestNewLogUseCaseObserver_NilLoggerIsNoop(t *testing.T) {
	assert.IsType(t, NoopUseCaseObserver{}, NewLogUseCaseObserver(nil))
}

func TestPromptService_ObservesUseCases(t *testing.T) {
	store := testutil.NewTestStore(t)
	f := setupPromptService(t, store)
	rec := &recordingObserver{}
	svc := NewPromptService(f.templates, f.versions, WithClock(f.clock.Now), WithObserver(rec))
	t.Cleanup(svc.Wait)
	ctx := context.Background()

	tmpl := testutil.NewTestTemplate()
	_, err := svc.CreateTemplate(ctx, tmpl)
	require.NoError(t, err)
	_, err = svc.RenderTemplate(ctx, tmpl.ID, map[string]any{})
	require.Error(t, err)

	require.Len(t, rec.events, 2)
	assert.Equal(t, "create-template", rec.events[0].Name)
	assert.True(t, rec.events[0].Success)
	assert.Equal(t, tmpl.ID, rec.events[0].Fields["template_id"])
	assert.Equal(t, "render-template", rec.events[1].Name)
	assert.False(t, rec.events[1].Success)
	assert.Error(t, rec.events[1].Err)
}
