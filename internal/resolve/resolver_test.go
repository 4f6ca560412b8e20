package resolve

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"reflect"
	"sync/atomic"
	"testing"
	"time"

	gogithub "github.com/google/go-github/v68/github"
	"github.com/pullwatch/pullwatch/models"
)

func newTestResolver(t *testing.T, handler http.Handler) (*Resolver, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		handler.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)

	gh := gogithub.NewClient(srv.Client())
	u, err := url.Parse(srv.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	gh.BaseURL = u
	return NewResolver(gh, NewMetaCache()), &calls
}

func metadataHandler(branch string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"default_branch":%q}`, branch)
	})
}

func TestModeAllSkipsFiltering(t *testing.T) {
	r, calls := newTestResolver(t, metadataHandler("main"))
	got := r.Resolve(context.Background(), models.Target{
		Owner: "acme", Repo: "widgets", BaseMode: models.BaseModeAll,
	})
	if len(got) != 0 {
		t.Fatalf("mode all should yield an empty branch set, got %v", got)
	}
	if calls.Load() != 0 {
		t.Fatal("mode all must not hit the metadata endpoint")
	}
}

func TestModeListReturnsBranchesVerbatim(t *testing.T) {
	r, calls := newTestResolver(t, metadataHandler("main"))
	got := r.Resolve(context.Background(), models.Target{
		Owner: "acme", Repo: "widgets",
		BaseMode: models.BaseModeList, Branches: []string{"main", "dev"},
	})
	if !reflect.DeepEqual(got, []string{"main", "dev"}) {
		t.Fatalf("got %v, want [main dev]", got)
	}
	if calls.Load() != 0 {
		t.Fatal("explicit list must not hit the metadata endpoint")
	}
}

func TestModeListEmptyFallsBackToDefaultBranch(t *testing.T) {
	r, _ := newTestResolver(t, metadataHandler("main"))
	got := r.Resolve(context.Background(), models.Target{
		Owner: "acme", Repo: "widgets", BaseMode: models.BaseModeList,
	})
	if !reflect.DeepEqual(got, []string{"main"}) {
		t.Fatalf("got %v, want [main]", got)
	}
}

func TestOverrideSkipsMetadataLookup(t *testing.T) {
	r, calls := newTestResolver(t, metadataHandler("main"))
	got := r.Resolve(context.Background(), models.Target{
		Owner: "acme", Repo: "widgets", DefaultBranch: "trunk",
	})
	if !reflect.DeepEqual(got, []string{"trunk"}) {
		t.Fatalf("got %v, want [trunk]", got)
	}
	if calls.Load() != 0 {
		t.Fatal("override must skip the metadata lookup")
	}
}

func TestDefaultBranchResolvedOncePerCacheWindow(t *testing.T) {
	r, calls := newTestResolver(t, metadataHandler("main"))
	target := models.Target{Owner: "acme", Repo: "widgets"}

	for i := 0; i < 3; i++ {
		got := r.Resolve(context.Background(), target)
		if !reflect.DeepEqual(got, []string{"main"}) {
			t.Fatalf("got %v, want [main]", got)
		}
	}
	if n := calls.Load(); n != 1 {
		t.Fatalf("metadata should be fetched once, got %d calls", n)
	}
}

func TestMetadataCacheExpiresAfterAnHour(t *testing.T) {
	r, calls := newTestResolver(t, metadataHandler("main"))
	target := models.Target{Owner: "acme", Repo: "widgets"}

	r.Resolve(context.Background(), target)
	r.now = func() time.Time { return time.Now().Add(61 * time.Minute) }
	r.Resolve(context.Background(), target)

	if n := calls.Load(); n != 2 {
		t.Fatalf("expired metadata should refetch, got %d calls", n)
	}
}

func TestMetadataFailureDegradesToUnfiltered(t *testing.T) {
	r, _ := newTestResolver(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	got := r.Resolve(context.Background(), models.Target{Owner: "acme", Repo: "widgets"})
	if len(got) != 0 {
		t.Fatalf("failed lookup should degrade to no filter, got %v", got)
	}
}
