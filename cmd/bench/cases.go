// README: Smoke test cases for a running cedar deployment; includes HTTP, DB, Redis, and performance checks.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type Runner struct {
	cfg   Config
	httpc *http.Client
	db    *pgxpool.Pool
	redis *redis.Client
}

type Result struct {
	Name    string
	Status  string
	Latency time.Duration
	Note    string
}

type TestCase struct {
	Name  string
	Focus string
	Run   func(ctx context.Context, r *Runner) Result
}

func NewRunner(cfg Config) *Runner {
	return &Runner{
		cfg:   cfg,
		httpc: &http.Client{Timeout: 10 * time.Second},
	}
}

func (r *Runner) RunAll(ctx context.Context) []Result {
	if r.cfg.DSN != "" {
		if db, err := pgxpool.New(ctx, r.cfg.DSN); err == nil {
			r.db = db
		}
	}
	if r.cfg.RedisAddr != "" {
		r.redis = redis.NewClient(&redis.Options{Addr: r.cfg.RedisAddr})
	}

	tests := r.cases()
	results := make([]Result, 0, len(tests))

	for _, tc := range tests {
		res := tc.Run(ctx, r)
		results = append(results, res)
		fmt.Printf("%-7s %s", res.Status, tc.Name)
		if res.Latency > 0 {
			fmt.Printf(" (%s)", res.Latency)
		}
		if res.Note != "" {
			fmt.Printf(" - %s", res.Note)
		}
		fmt.Println()
	}

	if r.db != nil {
		r.db.Close()
	}
	if r.redis != nil {
		_ = r.redis.Close()
	}

	return results
}

func (r *Runner) cases() []TestCase {
	base := r.cfg.BaseURL
	return []TestCase{
		{
			Name:  "Env: Postgres connect",
			Focus: "DB reachable",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.db == nil {
					return Result{Status: "FAIL", Note: "db not configured"}
				}
				ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
				defer cancel()
				if err := r.db.Ping(ctx); err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				return Result{Status: "PASS"}
			},
		},
		{
			Name:  "Env: Redis connect",
			Focus: "Redis reachable",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.redis == nil {
					return Result{Status: "FAIL", Note: "redis not configured"}
				}
				ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
				defer cancel()
				if err := r.redis.Ping(ctx).Err(); err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				return Result{Status: "PASS"}
			},
		},
		{
			Name:  "Migration: apply (optional)",
			Focus: "optionally apply migration SQL",
			Run: func(ctx context.Context, r *Runner) Result {
				if !r.cfg.ApplyMigration {
					return Result{Status: "SKIP", Note: "apply-migration=false"}
				}
				if r.db == nil {
					return Result{Status: "FAIL", Note: "db not configured"}
				}
				sql, err := os.ReadFile(r.cfg.MigrationPath)
				if err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				stmts := splitSQL(string(sql))
				for _, s := range stmts {
					if _, err := r.db.Exec(ctx, s); err != nil {
						return Result{Status: "FAIL", Note: err.Error()}
					}
				}
				return Result{Status: "PASS"}
			},
		},
		{
			Name:  "Migration: tables exist",
			Focus: "tables from migrations/0001_init.sql all present",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.db == nil {
					return Result{Status: "FAIL", Note: "db not configured"}
				}
				tables, err := extractTables(r.cfg.MigrationPath)
				if err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				for _, t := range tables {
					var exists bool
					err := r.db.QueryRow(ctx,
						"SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name=$1)",
						t,
					).Scan(&exists)
					if err != nil {
						return Result{Status: "FAIL", Note: err.Error()}
					}
					if !exists {
						return Result{Status: "FAIL", Note: "missing table: " + t}
					}
				}
				return Result{Status: "PASS"}
			},
		},
		{
			Name:  "API: health",
			Focus: "server responds",
			Run: func(ctx context.Context, r *Runner) Result {
				start := time.Now()
				resp, err := r.httpc.Get(base + "/health")
				if err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				_ = resp.Body.Close()
				if resp.StatusCode != http.StatusOK {
					return Result{Status: "FAIL", Note: fmt.Sprintf("status=%d", resp.StatusCode)}
				}
				return Result{Status: "PASS", Latency: time.Since(start)}
			},
		},

		// Location resolution (coordinate inputs short-circuit before the
		// provider, so these run without a maps key)
		httpCase("Location: resolve bare coordinate pair", base+"/api/locations/resolve", map[string]any{
			"text": "33.8938, 35.5018",
		}, []int{200}),

		httpCase("Location: resolve maps link", base+"/api/locations/resolve", map[string]any{
			"text": "https://www.google.com/maps/@33.8886,35.4955,17z",
		}, []int{200}),

		httpCase("Location: empty text -> 400", base+"/api/locations/resolve", map[string]any{
			"text": "",
		}, []int{400}),

		httpCase("Location: reverse resolve never fails", base+"/api/locations/reverse", map[string]any{
			"lat": 33.8938,
			"lng": 35.5018,
		}, []int{200}),

		// Fleet
		httpCase("Fleet: register driver (valid)", base+"/api/drivers", map[string]any{
			"name":               "Bench Driver",
			"plate_number":       "B 123456",
			"base_mileage_km":    54200,
			"last_oil_change_km": 53000,
			"last_checkup_km":    51200,
			"fuel_range_km":      320,
		}, []int{200, 201}),

		httpCase("Fleet: register driver (missing name -> 400)", base+"/api/drivers", map[string]any{
			"plate_number": "B 654321",
		}, []int{400}),

		httpCaseMethod("Fleet: list drivers", http.MethodGet, base+"/api/drivers", nil, []int{200}),

		httpCaseMethod("Fleet: set status (invalid value -> 400)", http.MethodPut, base+"/api/drivers/abc123/status", map[string]any{
			"current_status": "napping",
		}, []int{400, 404}),

		httpCaseMethod("Fleet: update mileage (unknown driver -> 404)", http.MethodPut, base+"/api/drivers/abc123/mileage", map[string]any{
			"base_mileage_km": 120000.0,
		}, []int{404, 400}),

		httpCaseMethod("Fleet: update position (out of range -> 400)", http.MethodPut, base+"/api/drivers/abc123/position", map[string]any{
			"lat": 123.0,
			"lng": 456.0,
		}, []int{400, 404}),

		// Recommendation ranking works against whatever fleet exists; an
		// empty fleet still returns 200 with an empty list.
		httpCase("Scoring: rank drivers", base+"/api/quotes/rank", map[string]any{
			"traffic_index":  45,
			"customer_phone": "+96171000000",
		}, []int{200}),

		// Quote requires the live routing provider
		{
			Name:  "Quote: build (provider)",
			Focus: "full resolve+route+fare pipeline",
			Run: func(ctx context.Context, r *Runner) Result {
				if !r.cfg.WithProvider {
					return Result{Status: "SKIP", Note: "with-provider=false"}
				}
				tc := httpCase("", base+"/api/quotes", map[string]any{
					"origin":      "33.8938, 35.5018",
					"destination": "33.8886, 35.4955",
					"round_trip":  false,
				}, []int{200})
				return tc.Run(ctx, r)
			},
		},
		{
			Name:  "Quote: unresolvable stop -> 422 (provider)",
			Focus: "resolution failure surfaces the offending field",
			Run: func(ctx context.Context, r *Runner) Result {
				if !r.cfg.WithProvider {
					return Result{Status: "SKIP", Note: "with-provider=false"}
				}
				tc := httpCase("", base+"/api/quotes", map[string]any{
					"origin":      "33.8938, 35.5018",
					"destination": "zzzzzz qqqqqq xxxxxx nowhere at all",
				}, []int{422})
				return tc.Run(ctx, r)
			},
		},

		// Trip lifecycle guards (no fixture trip, so only the reject paths)
		httpCase("Trip: dispatch unknown driver -> 404", base+"/api/trips/dispatch", map[string]any{
			"driver_id":      "ffffffffffffffffffffffffffffffff",
			"customer_phone": "+96171000000",
			"origin_text":    "33.8938, 35.5018",
			"distance_km":    4.2,
			"fare_usd":       7,
		}, []int{404, 400}),

		httpCaseMethod("Trip: get unknown -> 404", http.MethodGet, base+"/api/trips/ffffffffffffffffffffffffffffffff", nil, []int{404}),

		httpCase("Trip: complete unknown -> 404", base+"/api/trips/ffffffffffffffffffffffffffffffff/complete", nil, []int{404}),

		// Performance
		{
			Name:  "Perf: resolve throughput",
			Focus: "coordinate resolution under load",
			Run: func(ctx context.Context, r *Runner) Result {
				return perfLoad(ctx, r, base+"/api/locations/resolve", map[string]any{
					"text": "33.8938, 35.5018",
				})
			},
		},
	}
}

func httpCase(name, url string, body any, okStatuses []int) TestCase {
	return httpCaseMethod(name, http.MethodPost, url, body, okStatuses)
}

func httpCaseMethod(name, method, url string, body any, okStatuses []int) TestCase {
	return TestCase{
		Name:  name,
		Focus: "HTTP API",
		Run: func(ctx context.Context, r *Runner) Result {
			var reader io.Reader
			if body != nil {
				b, _ := json.Marshal(body)
				reader = strings.NewReader(string(b))
			}
			req, _ := http.NewRequestWithContext(ctx, method, url, reader)
			req.Header.Set("Content-Type", "application/json")
			start := time.Now()
			resp, err := r.httpc.Do(req)
			if err != nil {
				return Result{Status: "FAIL", Note: err.Error()}
			}
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			latency := time.Since(start)

			if contains(okStatuses, resp.StatusCode) {
				return Result{Status: "PASS", Latency: latency, Note: fmt.Sprintf("status=%d", resp.StatusCode)}
			}
			return Result{Status: "FAIL", Latency: latency, Note: fmt.Sprintf("status=%d", resp.StatusCode)}
		},
	}
}

func perfLoad(ctx context.Context, r *Runner, url string, payload any) Result {
	b, _ := json.Marshal(payload)
	end := time.Now().Add(r.cfg.Duration)
	var count int64
	var errCount int64
	var mu sync.Mutex
	wg := sync.WaitGroup{}

	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for time.Now().Before(end) {
				req, _ := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(string(b)))
				req.Header.Set("Content-Type", "application/json")
				resp, err := r.httpc.Do(req)
				if err != nil {
					mu.Lock()
					errCount++
					mu.Unlock()
					continue
				}
				io.Copy(io.Discard, resp.Body)
				resp.Body.Close()
				mu.Lock()
				count++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if count == 0 {
		return Result{Status: "FAIL", Note: "no requests completed"}
	}
	rps := float64(count) / r.cfg.Duration.Seconds()
	return Result{Status: "PASS", Note: fmt.Sprintf("rps=%.1f errors=%d", rps, errCount)}
}

func contains(list []int, v int) bool {
	for _, i := range list {
		if i == v {
			return true
		}
	}
	return false
}

func extractTables(path string) ([]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	re := regexp.MustCompile(`(?i)create\s+table\s+if\s+not\s+exists\s+([a-zA-Z0-9_]+)`)
	matches := re.FindAllStringSubmatch(string(b), -1)
	tables := make([]string, 0, len(matches))
	for _, m := range matches {
		tables = append(tables, m[1])
	}
	return tables, nil
}

func splitSQL(sql string) []string {
	lines := strings.Split(sql, "\n")
	filtered := make([]string, 0, len(lines))
	for _, line := range lines {
		l := strings.TrimSpace(line)
		if strings.HasPrefix(l, "--") || l == "" {
			continue
		}
		filtered = append(filtered, line)
	}
	cleaned := strings.Join(filtered, "\n")
	parts := strings.Split(cleaned, ";")
	stmts := make([]string, 0, len(parts))
	for _, p := range parts {
		s := strings.TrimSpace(p)
		if s != "" {
			stmts = append(stmts, s)
		}
	}
	return stmts
}
