package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/application/ledger"
	"github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/application/request"
	"github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/application/returns"
	"github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/application/stockmovement"
	"github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/domain/entity"
	"github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/infrastructure/events"
	"github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/infrastructure/memory"
	apphttp "github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/interfaces/http"
	"github.com/NikitaTalele2002/NewServiceCrm-sub010/pkg/logger"
)

type apiEnv struct {
	app    *fiber.App
	ledger *ledger.Ledger
}

func newAPI(t *testing.T) *apiEnv {
	t.Helper()
	store := memory.NewStore()
	tx := memory.NewTxRunner(store)
	publisher := events.NewInMemoryPublisher()
	log := logger.Nop()
	movements := memory.NewMovementRepository(store)
	engine := request.NewEngine(memory.NewRequestRepository(store), movements, tx, publisher, log)
	recorder := stockmovement.NewRecorder(movements, tx, publisher, log)
	inventoryLedger := ledger.NewLedger(memory.NewBalanceRepository(store), tx, log)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Engine:    engine,
		Recorder:  recorder,
		Returns:   returns.NewUseCase(engine, log),
		Ledger:    inventoryLedger,
		JWTSecret: testJWTSecret,
	})
	return &apiEnv{app: app, ledger: inventoryLedger}
}

func (e *apiEnv) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", token)
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestRequestLifecycleOverHTTP(t *testing.T) {
	e := newAPI(t)
	require.NoError(t, e.ledger.Adjust(context.Background(), 42,
		entity.Location{Kind: entity.LocationServiceCenter, ID: 1}, entity.BucketGood, 10))

	techToken := tokenFor(t, "technician", "technician", 7)
	scToken := tokenFor(t, "service_center", "service_center", 1)

	// Technician raises the request.
	resp := e.do(t, http.MethodPost, "/api/requests", techToken, map[string]any{
		"from":   map[string]any{"kind": "service_center", "id": 1},
		"to":     map[string]any{"kind": "technician", "id": 7},
		"reason": "defect",
		"lines":  []map[string]any{{"spare_id": 42, "spare_code": "CMP-0042", "qty": 6}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created struct {
		ID     int64  `json:"id"`
		Type   string `json:"type"`
		Status string `json:"status"`
		Items  []struct {
			ID int64 `json:"id"`
		} `json:"items"`
	}
	decode(t, resp, &created)
	assert.Equal(t, "technician_issue", created.Type)
	assert.Equal(t, "pending", created.Status)
	require.Len(t, created.Items, 1)

	// Technicians cannot approve.
	resp = e.do(t, http.MethodPost, fmt.Sprintf("/api/requests/%d/approve", created.ID), techToken, map[string]any{
		"items": []map[string]any{{"item_id": created.Items[0].ID, "approved_qty": 6}},
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// The service center approves.
	resp = e.do(t, http.MethodPost, fmt.Sprintf("/api/requests/%d/approve", created.ID), scToken, map[string]any{
		"items": []map[string]any{{"item_id": created.Items[0].ID, "approved_qty": 6}},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Allocate.
	resp = e.do(t, http.MethodPost, fmt.Sprintf("/api/requests/%d/allocate", created.ID), scToken, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var movement struct {
		ID    int64 `json:"id"`
		Lines []struct {
			ID int64 `json:"id"`
		} `json:"lines"`
	}
	decode(t, resp, &movement)
	require.Len(t, movement.Lines, 1)

	// Dispatch and receive.
	resp = e.do(t, http.MethodPost, fmt.Sprintf("/api/movements/%d/in-transit", movement.ID), scToken, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = e.do(t, http.MethodPost, fmt.Sprintf("/api/movements/%d/receive", movement.ID), techToken, map[string]any{
		"document_no": "DOC-3001",
		"lines":       []map[string]any{{"line_id": movement.Lines[0].ID, "received_qty": 6, "condition": "good"}},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Request ends fulfilled.
	resp = e.do(t, http.MethodGet, fmt.Sprintf("/api/requests/%d", created.ID), techToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var final struct {
		Status string `json:"status"`
	}
	decode(t, resp, &final)
	assert.Equal(t, "fulfilled", final.Status)

	// Destination balance over the API.
	resp = e.do(t, http.MethodGet, "/api/balances/?spare_id=42&location_kind=technician&location_id=7", techToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var bal struct {
		GoodQty int64 `json:"good_qty"`
	}
	decode(t, resp, &bal)
	assert.Equal(t, int64(6), bal.GoodQty)
}

func TestInvalidRoutingMapsTo400(t *testing.T) {
	e := newAPI(t)
	token := tokenFor(t, "technician", "technician", 7)

	resp := e.do(t, http.MethodPost, "/api/requests", token, map[string]any{
		"from":   map[string]any{"kind": "plant", "id": 1},
		"to":     map[string]any{"kind": "technician", "id": 7},
		"reason": "defect",
		"lines":  []map[string]any{{"spare_id": 42, "qty": 1}},
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var out struct {
		Code string `json:"code"`
	}
	decode(t, resp, &out)
	assert.Equal(t, "INVALID_ROUTING", out.Code)
}

func TestInsufficientStockMapsTo409(t *testing.T) {
	e := newAPI(t)
	techToken := tokenFor(t, "technician", "technician", 7)
	scToken := tokenFor(t, "service_center", "service_center", 1)

	resp := e.do(t, http.MethodPost, "/api/requests", techToken, map[string]any{
		"from":   map[string]any{"kind": "service_center", "id": 1},
		"to":     map[string]any{"kind": "technician", "id": 7},
		"reason": "defect",
		"lines":  []map[string]any{{"spare_id": 42, "qty": 5}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created struct {
		ID    int64 `json:"id"`
		Items []struct {
			ID int64 `json:"id"`
		} `json:"items"`
	}
	decode(t, resp, &created)

	resp = e.do(t, http.MethodPost, fmt.Sprintf("/api/requests/%d/approve", created.ID), scToken, map[string]any{
		"items": []map[string]any{{"item_id": created.Items[0].ID, "approved_qty": 5}},
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	var out struct {
		Code string `json:"code"`
	}
	decode(t, resp, &out)
	assert.Equal(t, "INSUFFICIENT_STOCK_FOR_APPROVAL", out.Code)
}

func TestUnknownRequestMapsTo404(t *testing.T) {
	e := newAPI(t)
	token := tokenFor(t, "technician", "technician", 7)

	resp := e.do(t, http.MethodGet, "/api/requests/9999", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestReturnOverHTTP(t *testing.T) {
	e := newAPI(t)
	token := tokenFor(t, "technician", "technician", 7)

	resp := e.do(t, http.MethodPost, "/api/returns", token, map[string]any{
		"from":   map[string]any{"kind": "technician", "id": 7},
		"to":     map[string]any{"kind": "service_center", "id": 1},
		"reason": "defect",
		"lines":  []map[string]any{{"spare_id": 42, "qty": 2, "item_type": "defective"}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created struct {
		Type  string `json:"type"`
		Items []struct {
			Bucket string `json:"bucket"`
		} `json:"items"`
	}
	decode(t, resp, &created)
	assert.Equal(t, "technician_consignment_return", created.Type)
	require.Len(t, created.Items, 1)
	assert.Equal(t, "defective", created.Items[0].Bucket)
}
