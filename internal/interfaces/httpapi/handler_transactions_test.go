package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"

	"github.com/gridironsim/capengine/internal/domain/txlog"
	"github.com/gridironsim/capengine/internal/infrastructure/repository/memory"
	idgen "github.com/gridironsim/capengine/internal/platform/id"
	"github.com/gridironsim/capengine/internal/platform/logging"
	"github.com/gridironsim/capengine/internal/usecase"
)

const testInternalToken = "orchestrator-token"

type dropFeed struct{}

func (dropFeed) PublishEntry(context.Context, txlog.Entry) error { return nil }

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	store := memory.NewLedger(memory.DefaultSeed())
	ids := idgen.NewRandomGenerator()
	logger := logging.NewNop()

	contracts := usecase.NewContractService(store, ids, logger)
	tags := usecase.NewTagService(store, ids, usecase.DefaultTagConfig(), logger)
	compliance := usecase.NewComplianceService(store, logger)
	reporting := usecase.NewReportingService(store, compliance, logger)
	bridge := usecase.NewBridgeService(contracts, tags, compliance, dropFeed{}, logger)

	handler := NewHandler(bridge, contracts, tags, compliance, reporting, logger)
	return NewRouter(handler, logger, nil, testInternalToken)
}

func postJSON(t *testing.T, router http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Internal-Token", testInternalToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	return body
}

const signBody = `{
	"player_id": "qb-star",
	"kind": "VETERAN",
	"start_year": 2025,
	"years": 4,
	"signing_bonus_cents": 2500000000,
	"year_terms": [
		{"base_salary_cents": 625000000},
		{"base_salary_cents": 625000000},
		{"base_salary_cents": 625000000},
		{"base_salary_cents": 625000000}
	]
}`

func TestSignContract_EndToEnd(t *testing.T) {
	router := newTestRouter(t)

	rec := postJSON(t, router, "/v1/dynasties/dyn-0001/teams/dal/contracts", signBody)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	body := decodeEnvelope(t, rec)
	data, ok := body["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data object, got %v", body)
	}
	if got, _ := data["status"].(string); got != "PERSISTED" {
		t.Fatalf("expected PERSISTED, got %v", data["status"])
	}
	contractID, _ := data["contractId"].(string)
	if contractID == "" {
		t.Fatal("expected a contract id")
	}

	// The booked contract is visible through the reporting surface.
	req := httptest.NewRequest(http.MethodGet, "/v1/dynasties/dyn-0001/teams/dal/cap/2025", nil)
	getRec := httptest.NewRecorder()
	router.ServeHTTP(getRec, req)
	if getRec.Code != http.StatusOK {
		t.Fatalf("summary status = %d", getRec.Code)
	}
	summary := decodeEnvelope(t, getRec)["data"].(map[string]any)
	if got, _ := summary["activeContracts"].(float64); got != 1 {
		t.Fatalf("expected 1 active contract, got %v", summary["activeContracts"])
	}
	// 6.25M signing-bonus proration + 6.25M base = 12.5M cap hit.
	if got, _ := summary["committedTotalCents"].(float64); got != 1_250_000_000 {
		t.Fatalf("expected committed 12.5M dollars in cents, got %v", summary["committedTotalCents"])
	}
}

func TestSignContract_RequiresInternalToken(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/dynasties/dyn-0001/teams/dal/contracts", strings.NewReader(signBody))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestSignContract_MalformedShapeRejected(t *testing.T) {
	router := newTestRouter(t)

	// Three year terms against a four-year deal.
	rec := postJSON(t, router, "/v1/dynasties/dyn-0001/teams/dal/contracts", `{
		"player_id": "qb-star",
		"kind": "VETERAN",
		"start_year": 2025,
		"years": 4,
		"signing_bonus_cents": 2500000000,
		"year_terms": [
			{"base_salary_cents": 625000000},
			{"base_salary_cents": 625000000},
			{"base_salary_cents": 625000000}
		]
	}`)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestSignContract_UnknownFieldRejected(t *testing.T) {
	router := newTestRouter(t)

	rec := postJSON(t, router, "/v1/dynasties/dyn-0001/teams/dal/contracts", `{"player": "typo"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestApplyTag_EndToEnd(t *testing.T) {
	router := newTestRouter(t)

	rec := postJSON(t, router, "/v1/dynasties/dyn-0001/teams/dal/tags", `{
		"player_id": "qb-star",
		"position": "QB",
		"season": 2026,
		"type": "FRANCHISE"
	}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	data := decodeEnvelope(t, rec)["data"].(map[string]any)
	// Non-exclusive first tag: average of the top five 2025 QB cap hits.
	if got, _ := data["tagSalaryCents"].(float64); got <= 0 {
		t.Fatalf("expected a positive tag salary, got %v", data["tagSalaryCents"])
	}
}

func TestComplianceSweep_EndToEnd(t *testing.T) {
	router := newTestRouter(t)

	rec := postJSON(t, router, "/v1/internal/compliance/sweep", `{
		"dynasty_id": "dyn-0001",
		"season": 2025,
		"deadline": "2025-03-12T16:00:00Z"
	}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	data := decodeEnvelope(t, rec)["data"].(map[string]any)
	if _, ok := data["violations"]; !ok {
		t.Fatalf("expected violations key, got %v", data)
	}
}

func TestGetContractBreakdown_NotFound(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/dynasties/dyn-0001/contracts/ct-missing", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestExtendContract_EndToEnd(t *testing.T) {
	router := newTestRouter(t)

	rec := postJSON(t, router, "/v1/dynasties/dyn-0001/teams/dal/contracts", signBody)
	if rec.Code != http.StatusCreated {
		t.Fatalf("sign status = %d: %s", rec.Code, rec.Body.String())
	}
	contractID, _ := decodeEnvelope(t, rec)["data"].(map[string]any)["contractId"].(string)
	if contractID == "" {
		t.Fatal("expected a contract id")
	}

	rec = postJSON(t, router, "/v1/dynasties/dyn-0001/contracts/"+contractID+"/extensions", `{
		"season": 2025,
		"additional_years": 2,
		"signing_bonus_cents": 1000000000,
		"year_terms": [
			{"base_salary_cents": 800000000},
			{"base_salary_cents": 900000000}
		]
	}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("extend status = %d: %s", rec.Code, rec.Body.String())
	}

	data := decodeEnvelope(t, rec)["data"].(map[string]any)
	if got, _ := data["kind"].(string); got != "EXTENSION" {
		t.Fatalf("expected kind EXTENSION, got %v", data["kind"])
	}
	if got, _ := data["years"].(float64); got != 6 {
		t.Fatalf("expected 6 total years, got %v", data["years"])
	}
	if got, _ := data["endYear"].(float64); got != 2030 {
		t.Fatalf("expected end year 2030, got %v", data["endYear"])
	}
}

func TestExtendContract_ShapeMismatchRejected(t *testing.T) {
	router := newTestRouter(t)

	rec := postJSON(t, router, "/v1/dynasties/dyn-0001/teams/dal/contracts", signBody)
	if rec.Code != http.StatusCreated {
		t.Fatalf("sign status = %d: %s", rec.Code, rec.Body.String())
	}
	contractID, _ := decodeEnvelope(t, rec)["data"].(map[string]any)["contractId"].(string)

	// One year term against two new years.
	rec = postJSON(t, router, "/v1/dynasties/dyn-0001/contracts/"+contractID+"/extensions", `{
		"season": 2025,
		"additional_years": 2,
		"year_terms": [
			{"base_salary_cents": 800000000}
		]
	}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d: %s", rec.Code, rec.Body.String())
	}
}
