package service

import (
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/nutrilog/internal/docstore"
	"github.com/alexanderramin/nutrilog/internal/repository"
	"github.com/alexanderramin/nutrilog/internal/testutil"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
)

var testBase = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock { return &fakeClock{t: testBase} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type promptFixture struct {
	svc       PromptService
	store     docstore.Store
	templates *repository.DocPromptTemplateRepo
	versions  *repository.DocPromptVersionRepo
	clock     *fakeClock
	logs      *logtest.Hook
}

// setupPromptService wires a PromptService over store, or a fresh in-memory
// store when store is nil.
func setupPromptService(t *testing.T, store docstore.Store) *promptFixture {
	t.Helper()
	if store == nil {
		store = testutil.NewTestStore(t)
	}
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	clock := newFakeClock()
	templates := repository.NewDocPromptTemplateRepo(store)
	versions := repository.NewDocPromptVersionRepo(store)
	svc := NewPromptService(templates, versions, WithClock(clock.Now), WithLogger(logger))
	t.Cleanup(svc.Wait)
	return &promptFixture{
		svc:       svc,
		store:     store,
		templates: templates,
		versions:  versions,
		clock:     clock,
		logs:      hook,
	}
}

func warnings(hook *logtest.Hook) []*logrus.Entry {
	var out []*logrus.Entry
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel {
			out = append(out, e)
		}
	}
	return out
}

func ptr[T any](v T) *T { return &v }
