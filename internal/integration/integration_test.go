//go:build integration
// +build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	httpapi "github.com/accreditation-hub/accreditation-hub/internal/api/http"
	appAccreditation "github.com/accreditation-hub/accreditation-hub/internal/application/accreditation"
	"github.com/accreditation-hub/accreditation-hub/internal/application/expiry"
	"github.com/accreditation-hub/accreditation-hub/internal/application/transition"
	"github.com/accreditation-hub/accreditation-hub/internal/domain/accreditation"
	"github.com/accreditation-hub/accreditation-hub/internal/infrastructure/dispatch"
	"github.com/accreditation-hub/accreditation-hub/internal/infrastructure/metrics"
	"github.com/accreditation-hub/accreditation-hub/internal/infrastructure/postgres"
)

const testUser = "integration-user"

// short enough that expiry fires within the test, long enough that the
// accreditation is observably CONFIRMED first
const testExpiry = 2 * time.Second
const testPoll = 100 * time.Millisecond

func TestAccreditationLifecycleIntegration(t *testing.T) {
	server, cleanup := newTestServer(t)
	defer cleanup()

	client := &http.Client{Timeout: 10 * time.Second}

	// create: starts PENDING
	var created map[string]string
	postJSON(t, client, server.URL+"/user/accreditation", createRequest("income.pdf"), &created)
	id := created["accreditation_id"]
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("invalid accreditation id %q: %v", id, err)
	}
	if got := userStatus(t, client, server.URL, id); got != "PENDING" {
		t.Fatalf("status after create = %s, want PENDING", got)
	}

	// a second request for the same owner is rejected while one is pending
	resp := rawPost(t, client, server.URL+"/user/accreditation", createRequest("again.pdf"))
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("second create status = %d, want 409", resp.StatusCode)
	}
	var conflict map[string]interface{}
	decodeAndClose(t, resp, &conflict)
	if conflict["pending_accreditation_id"] != id {
		t.Fatalf("conflict points at %v, want %s", conflict["pending_accreditation_id"], id)
	}

	// confirm: applied asynchronously on the record's lane
	putJSON(t, client, server.URL+"/user/accreditation/"+id, map[string]string{"outcome": "CONFIRMED"})
	waitForStatus(t, client, server.URL, id, "CONFIRMED")

	history := getHistory(t, client, server.URL, id)
	if len(history) != 1 || history[0]["status"] != "PENDING" {
		t.Fatalf("history after confirm = %v, want single PENDING row", history)
	}

	// once confirmed, the owner may open a fresh accreditation
	var second map[string]string
	postJSON(t, client, server.URL+"/user/accreditation", createRequest("net_worth.pdf"), &second)
	if second["accreditation_id"] == id {
		t.Fatalf("second create returned the same id")
	}

	// the confirmation armed an expiry timer; wait for it to fire
	waitForStatus(t, client, server.URL, id, "EXPIRED")

	history = getHistory(t, client, server.URL, id)
	if len(history) != 2 {
		t.Fatalf("history after expiry has %d rows, want 2: %v", len(history), history)
	}
	if history[0]["status"] != "PENDING" || history[1]["status"] != "CONFIRMED" {
		t.Fatalf("history order = %v, want [PENDING CONFIRMED]", history)
	}

	// EXPIRED is not terminal: the record can still be failed
	putJSON(t, client, server.URL+"/user/accreditation/"+id, map[string]string{"outcome": "FAILED"})
	waitForStatus(t, client, server.URL, id, "FAILED")

	// but FAILED is, rejected before it ever reaches the queue
	resp = rawPut(t, client, server.URL+"/user/accreditation/"+id, map[string]string{"outcome": "CONFIRMED"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("transition out of FAILED status = %d, want 409", resp.StatusCode)
	}
}

func TestDocumentRoundTripIntegration(t *testing.T) {
	server, cleanup := newTestServer(t)
	defer cleanup()

	client := &http.Client{Timeout: 10 * time.Second}

	var created map[string]string
	postJSON(t, client, server.URL+"/user/accreditation", createRequest("statement.pdf"), &created)

	var doc map[string]interface{}
	getJSON(t, client, server.URL+"/user/accreditation/"+created["accreditation_id"]+"/document", &doc)
	if doc["name"] != "statement.pdf" {
		t.Fatalf("document name = %v, want statement.pdf", doc["name"])
	}
	if doc["mime_type"] != "application/pdf" {
		t.Fatalf("document mime_type = %v", doc["mime_type"])
	}
	if doc["content"] != "base64-income-statement" {
		t.Fatalf("document content = %v", doc["content"])
	}
}

func createRequest(docName string) map[string]interface{} {
	return map[string]interface{}{
		"user_id":            testUser,
		"accreditation_type": "BY_INCOME",
		"document": map[string]interface{}{
			"name":      docName,
			"mime_type": "application/pdf",
			"content":   "base64-income-statement",
		},
	}
}

func userStatus(t *testing.T, client *http.Client, baseURL, id string) string {
	t.Helper()
	var out struct {
		Statuses map[string]struct {
			Status string `json:"status"`
		} `json:"accreditation_statuses"`
	}
	getJSON(t, client, baseURL+"/user/"+testUser+"/accreditation", &out)
	return out.Statuses[id].Status
}

func waitForStatus(t *testing.T, client *http.Client, baseURL, id, want string) {
	t.Helper()
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		if userStatus(t, client, baseURL, id) == want {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatalf("accreditation %s never reached %s (last seen %s)",
		id, want, userStatus(t, client, baseURL, id))
}

func getHistory(t *testing.T, client *http.Client, baseURL, id string) []map[string]interface{} {
	t.Helper()
	var rows []map[string]interface{}
	getJSON(t, client, baseURL+"/user/history/"+id, &rows)
	return rows
}

func postJSON(t *testing.T, client *http.Client, url string, body interface{}, out interface{}) {
	t.Helper()
	resp := rawPost(t, client, url, body)
	if resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		t.Fatalf("post %s status %d: %s", url, resp.StatusCode, string(bodyBytes))
	}
	decodeAndClose(t, resp, out)
}

func putJSON(t *testing.T, client *http.Client, url string, body interface{}) {
	t.Helper()
	resp := rawPut(t, client, url, body)
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		t.Fatalf("put %s status %d: %s", url, resp.StatusCode, string(bodyBytes))
	}
}

func getJSON(t *testing.T, client *http.Client, url string, out interface{}) {
	t.Helper()
	resp, err := client.Get(url)
	if err != nil {
		t.Fatalf("get %s: %v", url, err)
	}
	if resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		t.Fatalf("get %s status %d: %s", url, resp.StatusCode, string(bodyBytes))
	}
	decodeAndClose(t, resp, out)
}

func rawPost(t *testing.T, client *http.Client, url string, body interface{}) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	resp, err := client.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	return resp
}

func rawPut(t *testing.T, client *http.Client, url string, body interface{}) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req, err := http.NewRequest(http.MethodPut, url, bytes.NewReader(data))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("put %s: %v", url, err)
	}
	return resp
}

func decodeAndClose(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	if out == nil {
		return
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func newTestServer(t *testing.T) (*httptest.Server, func()) {
	t.Helper()
	dsn := testDatabaseURL(t)

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, dsn)
	if err != nil {
		t.Fatalf("db pool: %v", err)
	}

	root := repoRoot(t)
	if err := postgres.RunMigrations(ctx, pool, filepath.Join(root, "internal", "migrations")); err != nil {
		pool.Close()
		t.Fatalf("migrations: %v", err)
	}
	if err := resetDatabase(ctx, pool); err != nil {
		pool.Close()
		t.Fatalf("reset db: %v", err)
	}

	logger := zerolog.Nop()
	repo := postgres.NewAccreditationRepository(pool)
	m := metrics.New(prometheus.NewRegistry())

	var applier *transition.Service
	dispatcher := dispatch.NewDispatcher(
		dispatch.HandlerFunc(func(ctx context.Context, id uuid.UUID, target accreditation.Status) (bool, error) {
			return applier.Apply(ctx, id, target)
		}),
		3, 10*time.Millisecond, m, logger,
	)
	scheduler := expiry.NewScheduler(repo, dispatcher, testPoll, m, logger)
	applier = transition.NewService(repo, scheduler, testExpiry, m, logger)
	accreditationSvc := appAccreditation.NewService(repo, dispatcher, m, logger)

	server := httptest.NewServer(httpapi.NewServer(accreditationSvc).Router())

	cleanup := func() {
		server.Close()
		scheduler.Stop()
		dispatcher.Close()
		pool.Close()
	}

	return server, cleanup
}

func testDatabaseURL(t *testing.T) string {
	t.Helper()
	if dsn := os.Getenv("TEST_DATABASE_URL"); dsn != "" {
		return dsn
	}
	t.Skip("TEST_DATABASE_URL not set; skipping integration tests")
	return ""
}

func repoRoot(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	return filepath.Clean(filepath.Join(wd, "..", ".."))
}

func resetDatabase(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
		TRUNCATE TABLE
			accreditation_history,
			accreditations,
			documents
		RESTART IDENTITY CASCADE
	`)
	return err
}
