// internal/handlers/router_test.go
package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/liuyunyi0210-blip/tsa-repair-system-sub000/internal/models"
	"github.com/liuyunyi0210-blip/tsa-repair-system-sub000/internal/repo"
	"github.com/liuyunyi0210-blip/tsa-repair-system-sub000/internal/workorder"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	r := repo.NewMemory()
	svc := workorder.NewService(r)
	mux := chi.NewRouter()
	RegisterRoutes(mux, svc, r)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url string, body any) (*http.Response, []byte) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, url, err)
	}
	defer resp.Body.Close()
	var out bytes.Buffer
	_, _ = out.ReadFrom(resp.Body)
	return resp, out.Bytes()
}

func decodeWorkOrder(t *testing.T, body []byte) models.WorkOrder {
	t.Helper()
	var wo models.WorkOrder
	if err := json.Unmarshal(body, &wo); err != nil {
		t.Fatalf("decode work order from %s: %v", body, err)
	}
	return wo
}

func createRoutine(t *testing.T, srv *httptest.Server) models.WorkOrder {
	t.Helper()
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/work-orders", map[string]any{
		"type":        "ROUTINE",
		"title":       "AC filter swap",
		"description": "quarterly filter replacement",
		"category":    "AC",
		"urgency":     "LOW",
		"hall_name":   "Main Hall",
		"reporter":    "Lin",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create returned %d: %s", resp.StatusCode, body)
	}
	return decodeWorkOrder(t, body)
}

func TestCreateAndGetWorkOrder(t *testing.T) {
	srv := newTestServer(t)

	wo := createRoutine(t, srv)
	if wo.Status != models.StatusPending || !wo.IsVerified {
		t.Errorf("new routine record: status=%q verified=%v", wo.Status, wo.IsVerified)
	}

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/work-orders/"+wo.ID, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get returned %d: %s", resp.StatusCode, body)
	}
	got := decodeWorkOrder(t, body)
	if got.ID != wo.ID || got.Title != wo.Title {
		t.Errorf("get = %+v, expected the created record", got)
	}

	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/work-orders/ORD-2024-9999", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown id returned %d, expected 404", resp.StatusCode)
	}
}

func TestCreateValidation(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name string
		body map[string]any
		want int
	}{
		{
			"missing title",
			map[string]any{"type": "ROUTINE", "description": "d", "category": "AC", "urgency": "LOW", "hall_name": "Main Hall", "reporter": "Lin"},
			http.StatusBadRequest,
		},
		{
			"bad type",
			map[string]any{"type": "ANONYMOUS", "title": "t", "description": "d", "category": "AC", "urgency": "LOW", "hall_name": "Main Hall", "reporter": "Lin"},
			http.StatusBadRequest,
		},
		{
			"bad category",
			map[string]any{"type": "ROUTINE", "title": "t", "description": "d", "category": "PAINTING", "urgency": "LOW", "hall_name": "Main Hall", "reporter": "Lin"},
			http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := doJSON(t, http.MethodPost, srv.URL+"/work-orders", tt.body)
			if resp.StatusCode != tt.want {
				t.Errorf("returned %d: %s, expected %d", resp.StatusCode, body, tt.want)
			}
		})
	}
}

func TestReportVerifyCloseFlow(t *testing.T) {
	srv := newTestServer(t)

	// A volunteer files a report through the mobile endpoint.
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/reports", map[string]any{
		"title":       "2F washroom leak",
		"description": "water pooling near the sinks",
		"category":    "PLUMBING",
		"urgency":     "EMERGENCY",
		"hall_name":   "Taichung Hall",
		"reporter":    "Wang",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("report returned %d: %s", resp.StatusCode, body)
	}
	report := decodeWorkOrder(t, body)
	if report.Type != models.TypeVolunteer || report.IsVerified {
		t.Fatalf("report = type %q verified %v, expected unverified VOLUNTEER", report.Type, report.IsVerified)
	}

	// Hidden from the dashboard until verified.
	resp, body = doJSON(t, http.MethodGet, srv.URL+"/work-orders", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list returned %d", resp.StatusCode)
	}
	var listed struct {
		Content []models.WorkOrder `json:"content"`
	}
	if err := json.Unmarshal(body, &listed); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(listed.Content) != 0 {
		t.Fatalf("unverified report visible on dashboard: %v", listed.Content)
	}

	// Shows up in the verification queue.
	resp, body = doJSON(t, http.MethodGet, srv.URL+"/reports/pending", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("pending returned %d", resp.StatusCode)
	}
	if err := json.Unmarshal(body, &listed); err != nil {
		t.Fatalf("decode pending: %v", err)
	}
	if len(listed.Content) != 1 || listed.Content[0].ID != report.ID {
		t.Fatalf("pending queue = %v, expected the new report", listed.Content)
	}

	resp, body = doJSON(t, http.MethodPost, srv.URL+"/work-orders/"+report.ID+"/verify", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("verify returned %d: %s", resp.StatusCode, body)
	}
	if wo := decodeWorkOrder(t, body); !wo.IsVerified {
		t.Fatal("verify did not set the flag")
	}

	// Internal close via the bulk submit endpoint.
	resp, body = doJSON(t, http.MethodPost, srv.URL+"/work-orders/submit", map[string]any{
		"ids": []string{report.ID},
		"updates": map[string]any{
			"processing_method":      "INTERNAL",
			"completion_date":        "2024-05-01T00:00:00Z",
			"processing_description": "replaced valve",
		},
		"should_close": true,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("submit returned %d: %s", resp.StatusCode, body)
	}
	if err := json.Unmarshal(body, &listed); err != nil {
		t.Fatalf("decode submit response: %v", err)
	}
	if len(listed.Content) != 1 || listed.Content[0].Status != models.StatusClosed {
		t.Fatalf("submit response = %v, expected one CLOSED record", listed.Content)
	}

	// A second close attempt finds nothing eligible.
	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/work-orders/submit", map[string]any{
		"ids":          []string{report.ID},
		"updates":      map[string]any{"remarks": "late note"},
		"should_close": false,
	})
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("submit on closed record returned %d, expected 409", resp.StatusCode)
	}
}

func TestConfirmEndpoint(t *testing.T) {
	srv := newTestServer(t)
	wo := createRoutine(t, srv)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/work-orders/"+wo.ID+"/confirm", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("confirm returned %d: %s", resp.StatusCode, body)
	}
	if got := decodeWorkOrder(t, body); got.Status != models.StatusInProgress {
		t.Fatalf("status after confirm = %q, expected IN_PROGRESS", got.Status)
	}

	// Close it, then a confirm must be refused.
	resp, body = doJSON(t, http.MethodPost, srv.URL+"/work-orders/submit", map[string]any{
		"ids": []string{wo.ID},
		"updates": map[string]any{
			"processing_method":      "INTERNAL",
			"completion_date":        "2024-05-01T00:00:00Z",
			"processing_description": "filters replaced",
		},
		"should_close": true,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("close returned %d: %s", resp.StatusCode, body)
	}
	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/work-orders/"+wo.ID+"/confirm", nil)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("confirm on closed record returned %d, expected 409", resp.StatusCode)
	}

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/work-orders/ORD-2024-9999/confirm", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("confirm on unknown id returned %d, expected 404", resp.StatusCode)
	}
}

func TestSubmitMissingFieldIs422(t *testing.T) {
	srv := newTestServer(t)
	wo := createRoutine(t, srv)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/work-orders/submit", map[string]any{
		"ids":          []string{wo.ID},
		"updates":      map[string]any{"processing_method": "INTERNAL"},
		"should_close": true,
	})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("incomplete close returned %d: %s, expected 422", resp.StatusCode, body)
	}
}

func TestEditDetailsDoesNotMoveStatus(t *testing.T) {
	srv := newTestServer(t)
	wo := createRoutine(t, srv)

	resp, body := doJSON(t, http.MethodPatch, srv.URL+"/work-orders/"+wo.ID, map[string]any{
		"urgency": "HIGH",
		"remarks": "tenant called twice",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("patch returned %d: %s", resp.StatusCode, body)
	}
	got := decodeWorkOrder(t, body)
	if got.Urgency != models.UrgencyHigh || got.Remarks != "tenant called twice" {
		t.Errorf("patch result = urgency %q remarks %q", got.Urgency, got.Remarks)
	}
	if got.Status != models.StatusPending {
		t.Errorf("detail edit moved status to %q", got.Status)
	}
}

func TestSoftDeleteRestoreEndpoints(t *testing.T) {
	srv := newTestServer(t)
	wo := createRoutine(t, srv)

	resp, body := doJSON(t, http.MethodDelete, srv.URL+"/work-orders/"+wo.ID, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete returned %d: %s", resp.StatusCode, body)
	}
	if got := decodeWorkOrder(t, body); !got.IsDeleted {
		t.Fatal("soft delete did not set the flag")
	}

	resp, body = doJSON(t, http.MethodPost, srv.URL+"/work-orders/"+wo.ID+"/restore", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("restore returned %d: %s", resp.StatusCode, body)
	}
	if got := decodeWorkOrder(t, body); got.IsDeleted {
		t.Fatal("restore left the flag set")
	}

	resp, _ = doJSON(t, http.MethodDelete, srv.URL+"/work-orders/"+wo.ID+"/permanent", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("permanent delete returned %d", resp.StatusCode)
	}
	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/work-orders/"+wo.ID, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("get after permanent delete returned %d, expected 404", resp.StatusCode)
	}
}

func TestTransitionRequirements(t *testing.T) {
	srv := newTestServer(t)

	url := fmt.Sprintf("%s/work-orders/transitions?method=%s&target=%s", srv.URL, "LEGAL", "SIGNED")
	resp, body := doJSON(t, http.MethodGet, url, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("transitions returned %d: %s", resp.StatusCode, body)
	}
	var got struct {
		RequiredFields []string `json:"required_fields"`
	}
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("decode transitions: %v", err)
	}
	if len(got.RequiredFields) == 0 {
		t.Fatal("no required fields for LEGAL -> SIGNED")
	}

	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/work-orders/transitions?method=LEGAL&target=BOGUS", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bogus target returned %d, expected 400", resp.StatusCode)
	}

	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/work-orders/transitions?method=BOGUS&target=SIGNED", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bogus method returned %d, expected 400", resp.StatusCode)
	}
}

func TestHallAndAssetRoutes(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/halls", map[string]any{
		"name":    "Main Hall",
		"address": "1 Temple Rd",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create hall returned %d: %s", resp.StatusCode, body)
	}
	var hall models.Hall
	if err := json.Unmarshal(body, &hall); err != nil {
		t.Fatalf("decode hall: %v", err)
	}

	resp, body = doJSON(t, http.MethodPost, srv.URL+"/assets", map[string]any{
		"kind":      "AED",
		"name":      "Lobby AED",
		"hall_name": "Main Hall",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create asset returned %d: %s", resp.StatusCode, body)
	}
	var asset models.Asset
	if err := json.Unmarshal(body, &asset); err != nil {
		t.Fatalf("decode asset: %v", err)
	}

	resp, body = doJSON(t, http.MethodGet, srv.URL+"/assets?kind=AED", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list assets returned %d", resp.StatusCode)
	}
	var assets struct {
		Content []models.Asset `json:"content"`
	}
	if err := json.Unmarshal(body, &assets); err != nil {
		t.Fatalf("decode assets: %v", err)
	}
	if len(assets.Content) != 1 || assets.Content[0].ID != asset.ID {
		t.Fatalf("assets = %v, expected the lobby AED", assets.Content)
	}

	resp, _ = doJSON(t, http.MethodDelete, srv.URL+"/halls/"+hall.ID.String(), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete hall returned %d", resp.StatusCode)
	}
	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/halls/"+hall.ID.String(), nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("get deleted hall returned %d, expected 404", resp.StatusCode)
	}
}
