package service_test

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Portfolio-Dashboard/internal/model"
	"github.com/ndewijer/Portfolio-Dashboard/internal/service"
	"github.com/ndewijer/Portfolio-Dashboard/internal/testutil"
)

var searchFixture = []model.SearchResult{
	{Symbol: "AAPL", Name: "Apple Inc", Exchange: "NASDAQ", Country: "United States"},
	{Symbol: "APC", Name: "Apple Inc", Exchange: "XETRA", Country: "Germany"},
	{Symbol: "APLE", Name: "Apple Hospitality", Exchange: "NYSE", Country: ""},
	{Symbol: "AAPL.MX", Name: "Apple Inc", Exchange: "BMV", Country: "Mexico"},
}

func TestSearchService_Search(t *testing.T) {
	ctx := context.Background()

	t.Run("filters to US listings", func(t *testing.T) {
		env := newEnv(t)
		env.fb.SetSearchResults(searchFixture...)
		svc := service.NewSearchService(env.client, testutil.NewTestLogger(t))

		results := svc.Search(ctx, "apple")

		require.Len(t, results, 2)
		assert.Equal(t, "AAPL", results[0].Symbol)
		assert.Equal(t, "APLE", results[1].Symbol)
	})

	t.Run("blank query skips the backend", func(t *testing.T) {
		env := newEnv(t)
		svc := service.NewSearchService(env.client, testutil.NewTestLogger(t))

		results := svc.Search(ctx, "  ")

		assert.NotNil(t, results)
		assert.Empty(t, results)
		assert.Empty(t, env.fb.Requests())
	})

	t.Run("failure degrades to empty", func(t *testing.T) {
		env := newEnv(t)
		env.fb.Fail(http.MethodGet, "/stocks/search", http.StatusTooManyRequests, "rate limited")
		svc := service.NewSearchService(env.client, testutil.NewTestLogger(t))

		results := svc.Search(ctx, "apple")

		assert.NotNil(t, results)
		assert.Empty(t, results)
	})
}

func TestDebouncer(t *testing.T) {
	t.Run("delivers only the latest query", func(t *testing.T) {
		// Setup
		env := newEnv(t)
		env.fb.SetSearchResults(searchFixture...)
		svc := service.NewSearchService(env.client, testutil.NewTestLogger(t))
		var mu sync.Mutex
		var delivered []string
		d := service.NewDebouncer(svc, 30*time.Millisecond, func(res service.SearchResults) {
			mu.Lock()
			defer mu.Unlock()
			delivered = append(delivered, res.Query)
		})
		defer d.Close()

		// Execute
		d.Submit("a")
		d.Submit("ap")
		d.Submit("app")

		// Assert
		require.Eventually(t, func() bool {
			return d.Latest().Query == "app"
		}, time.Second, 5*time.Millisecond)
		assert.Len(t, d.Latest().Results, 2)
		assert.Equal(t, 1, env.fb.Count(http.MethodGet, "/stocks/search"))
		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, []string{"app"}, delivered)
	})

	t.Run("blank query clears immediately", func(t *testing.T) {
		env := newEnv(t)
		svc := service.NewSearchService(env.client, testutil.NewTestLogger(t))
		d := service.NewDebouncer(svc, time.Hour, nil)
		defer d.Close()

		d.Submit("apple")
		d.Submit("")

		assert.Equal(t, "", d.Latest().Query)
		assert.Empty(t, d.Latest().Results)
		assert.Empty(t, env.fb.Requests())
	})

	t.Run("slow search is superseded", func(t *testing.T) {
		env := newEnv(t)
		started := make(chan struct{})
		release := make(chan struct{})
		var once sync.Once
		env.fb.Override(http.MethodGet, "/stocks/search", func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("symbol") == "slow" {
				once.Do(func() { close(started) })
				<-release
			}
			_, _ = w.Write([]byte(`{"data":[{"symbol":"X","exchange":"NYSE"}]}`))
		})
		svc := service.NewSearchService(env.client, testutil.NewTestLogger(t))
		d := service.NewDebouncer(svc, time.Millisecond, nil)
		defer d.Close()

		d.Submit("slow")
		<-started
		d.Submit("fast")
		require.Eventually(t, func() bool {
			return d.Latest().Query == "fast"
		}, time.Second, 5*time.Millisecond)
		close(release)

		assert.Never(t, func() bool {
			return d.Latest().Query == "slow"
		}, 50*time.Millisecond, 5*time.Millisecond)
	})

	t.Run("close drops pending query", func(t *testing.T) {
		env := newEnv(t)
		svc := service.NewSearchService(env.client, testutil.NewTestLogger(t))
		d := service.NewDebouncer(svc, 20*time.Millisecond, nil)

		d.Submit("apple")
		d.Close()

		assert.Never(t, func() bool {
			return d.Latest().Query != ""
		}, 60*time.Millisecond, 5*time.Millisecond)
		assert.Empty(t, env.fb.Requests())
	})
}
