package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	appAccreditation "github.com/accreditation-hub/accreditation-hub/internal/application/accreditation"
	domain "github.com/accreditation-hub/accreditation-hub/internal/domain/accreditation"
	"github.com/accreditation-hub/accreditation-hub/internal/domain/accreditation/mocks"
	"github.com/accreditation-hub/accreditation-hub/internal/infrastructure/metrics"
)

type stubDispatcher struct {
	submitted int
}

func (s *stubDispatcher) Submit(uuid.UUID, domain.Status) error {
	s.submitted++
	return nil
}

func newTestServer(t *testing.T) (*httptest.Server, *mocks.MockRepository, *stubDispatcher) {
	t.Helper()
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)
	disp := &stubDispatcher{}
	svc := appAccreditation.NewService(repo, disp, metrics.New(prometheus.NewRegistry()), zerolog.Nop())
	server := httptest.NewServer(NewServer(svc).Router())
	t.Cleanup(server.Close)
	return server, repo, disp
}

func doJSON(t *testing.T, method, url string, body interface{}) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func createBody(userID string) map[string]interface{} {
	return map[string]interface{}{
		"user_id":            userID,
		"accreditation_type": "BY_INCOME",
		"document": map[string]interface{}{
			"name":      "statement.pdf",
			"mime_type": "application/pdf",
			"content":   "income statement",
		},
	}
}

func TestCreateAccreditationEndpoint(t *testing.T) {
	server, repo, _ := newTestServer(t)

	repo.EXPECT().ListByUser(gomock.Any(), "U1").Return(nil, nil)
	repo.EXPECT().CreateWithDocument(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	resp := doJSON(t, http.MethodPost, server.URL+"/user/accreditation", createBody("U1"))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out map[string]string
	decodeJSON(t, resp, &out)
	_, err := uuid.Parse(out["accreditation_id"])
	assert.NoError(t, err)
}

func TestCreateAccreditationConflict(t *testing.T) {
	server, repo, _ := newTestServer(t)

	existing := uuid.New()
	repo.EXPECT().ListByUser(gomock.Any(), "U2").Return([]*domain.Accreditation{
		{AccreditationID: existing, Status: domain.StatusPending},
	}, nil)

	resp := doJSON(t, http.MethodPost, server.URL+"/user/accreditation", createBody("U2"))
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	var out map[string]interface{}
	decodeJSON(t, resp, &out)
	assert.Equal(t, "PENDING_EXISTS", out["error"])
	assert.Equal(t, existing.String(), out["pending_accreditation_id"])
}

func TestCreateAccreditationValidation(t *testing.T) {
	server, _, _ := newTestServer(t)

	body := createBody("U1")
	body["accreditation_type"] = "BY_MAGIC"
	resp := doJSON(t, http.MethodPost, server.URL+"/user/accreditation", body)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpdateAccreditationEndpoint(t *testing.T) {
	server, repo, disp := newTestServer(t)
	id := uuid.New()

	repo.EXPECT().GetByID(gomock.Any(), id).Return(&domain.Accreditation{
		AccreditationID: id,
		Status:          domain.StatusPending,
	}, nil)

	resp := doJSON(t, http.MethodPut, server.URL+"/user/accreditation/"+id.String(),
		map[string]string{"outcome": "CONFIRMED"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
	assert.Equal(t, 1, disp.submitted)
}

func TestUpdateAccreditationErrors(t *testing.T) {
	server, repo, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPut, server.URL+"/user/accreditation/not-a-uuid",
		map[string]string{"outcome": "CONFIRMED"})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	id := uuid.New()
	resp = doJSON(t, http.MethodPut, server.URL+"/user/accreditation/"+id.String(),
		map[string]string{"outcome": "not-a-status"})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	repo.EXPECT().GetByID(gomock.Any(), id).Return(nil, nil)
	resp = doJSON(t, http.MethodPut, server.URL+"/user/accreditation/"+id.String(),
		map[string]string{"outcome": "CONFIRMED"})
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	repo.EXPECT().GetByID(gomock.Any(), id).Return(&domain.Accreditation{
		AccreditationID: id,
		Status:          domain.StatusFailed,
	}, nil)
	resp = doJSON(t, http.MethodPut, server.URL+"/user/accreditation/"+id.String(),
		map[string]string{"outcome": "CONFIRMED"})
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestGetUserAccreditationsEndpoint(t *testing.T) {
	server, repo, _ := newTestServer(t)
	id := uuid.New()

	repo.EXPECT().ListByUser(gomock.Any(), "U1").Return([]*domain.Accreditation{
		{
			AccreditationID: id,
			UserID:          "U1",
			Category:        domain.CategoryByIncome,
			Status:          domain.StatusConfirmed,
		},
	}, nil)

	resp := doJSON(t, http.MethodGet, server.URL+"/user/U1/accreditation", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		UserID   string `json:"user_id"`
		Statuses map[string]struct {
			Status string `json:"status"`
			Type   string `json:"accreditation_type"`
		} `json:"accreditation_statuses"`
	}
	decodeJSON(t, resp, &out)
	assert.Equal(t, "U1", out.UserID)
	require.Contains(t, out.Statuses, id.String())
	assert.Equal(t, "CONFIRMED", out.Statuses[id.String()].Status)
	assert.Equal(t, "BY_INCOME", out.Statuses[id.String()].Type)
}

func TestGetHistoryEndpoint(t *testing.T) {
	server, repo, _ := newTestServer(t)
	id := uuid.New()

	t0 := time.Now().UTC().Add(-time.Hour).Truncate(time.Millisecond)
	repo.EXPECT().GetByID(gomock.Any(), id).Return(&domain.Accreditation{
		AccreditationID: id,
		Category:        domain.CategoryByIncome,
		Status:          domain.StatusConfirmed,
	}, nil)
	repo.EXPECT().ListHistory(gomock.Any(), id).Return([]*domain.HistoryEntry{
		{AccreditationID: id, OldStatus: domain.StatusPending, LastUpdateTime: t0},
	}, nil)

	resp := doJSON(t, http.MethodGet, server.URL+"/user/history/"+id.String(), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var rows []struct {
		Status         string `json:"status"`
		Type           string `json:"accreditation_type"`
		LastUpdateTime int64  `json:"last_update_time"`
	}
	decodeJSON(t, resp, &rows)
	require.Len(t, rows, 1)
	assert.Equal(t, "PENDING", rows[0].Status)
	assert.Equal(t, "BY_INCOME", rows[0].Type)
	assert.Equal(t, t0.UnixMilli(), rows[0].LastUpdateTime)
}
