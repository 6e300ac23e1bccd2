package store

import (
	"context"
	"fmt"
	"net/url"
	"testing"
	"time"

	"bracket-arbiter/internal/config"
)

func mustNow() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

func withSearchPath(dsn, schema string) string {
	u, err := url.Parse(dsn)
	if err == nil && u.Scheme != "" {
		q := u.Query()
		q.Set("search_path", schema)
		u.RawQuery = q.Encode()
		return u.String()
	}
	return dsn + " search_path=" + schema
}

// openStore gives each test its own schema so parallel packages cannot
// trample each other's rows. Skips when no test database is configured.
func openStore(t *testing.T) (*Store, context.Context, func()) {
	t.Helper()
	cfg, err := config.LoadTest()
	if err != nil {
		t.Skipf("skip test db: %v", err)
	}
	dsn := cfg.TestPostgresDSN
	schema := fmt.Sprintf("test_%d", time.Now().UnixNano())
	ctx := context.Background()

	base, err := New(dsn)
	if err != nil {
		t.Fatalf("open base db: %v", err)
	}
	if _, err := base.DB.ExecContext(ctx, "CREATE SCHEMA "+schema); err != nil {
		base.Close()
		t.Fatalf("create schema: %v", err)
	}
	base.Close()

	st, err := New(withSearchPath(dsn, schema))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := st.EnsureSchema(ctx); err != nil {
		st.Close()
		t.Fatalf("apply schema: %v", err)
	}
	cleanup := func() {
		st.Close()
		base, err := New(dsn)
		if err == nil {
			_, _ = base.DB.ExecContext(context.Background(), "DROP SCHEMA "+schema+" CASCADE")
			base.Close()
		}
	}
	return st, ctx, cleanup
}
