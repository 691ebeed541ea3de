package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/san-kum/shipsim/internal/sim"
)

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(New(nil, sim.DefaultConfig(), zerolog.Nop()))
	t.Cleanup(ts.Close)
	return ts
}

func createSession(t *testing.T, ts *httptest.Server) {
	t.Helper()
	body := `{
		"hull": {"length":100,"beam":20,"draft":8,"displacement":12000,"block_coefficient":0.7,"waterplane_coefficient":0.85},
		"tanks": [{"id":"fp","capacity":400,"longitudinal":95,"vertical":2}],
		"sea": {"hs":2,"tp":8,"components":6,"seed":3}
	}`
	resp, err := http.Post(ts.URL+"/session", "application/json", bytes.NewBufferString(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("session creation failed with %d", resp.StatusCode)
	}
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", bytes.NewBufferString(body))
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func TestHealth(t *testing.T) {
	ts := testServer(t)
	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
}

func TestRequiresSession(t *testing.T) {
	ts := testServer(t)
	resp, err := http.Get(ts.URL + "/snapshot")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("expected 409 without session, got %d", resp.StatusCode)
	}
}

func TestSessionRejectsBadHull(t *testing.T) {
	ts := testServer(t)
	resp := postJSON(t, ts.URL+"/session", `{"hull":{"length":-5}}`)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	var apiErr struct {
		Kind string `json:"kind"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiErr); err != nil {
		t.Fatal(err)
	}
	if apiErr.Kind != "invalid_hull_geometry" {
		t.Errorf("expected invalid_hull_geometry, got %q", apiErr.Kind)
	}
}

func TestCargoLifecycle(t *testing.T) {
	ts := testServer(t)
	createSession(t, ts)

	resp := postJSON(t, ts.URL+"/cargo", `{"label":"crate","mass":300,"longitudinal":50,"vertical":6}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var created struct {
		ID int `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	resp = postJSON(t, fmt.Sprintf("%s/cargo/%d/move", ts.URL, created.ID), `{"longitudinal":60,"vertical":4}`)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("move: expected 204, got %d", resp.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodDelete, fmt.Sprintf("%s/cargo/%d", ts.URL, created.ID), nil)
	delResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	delResp.Body.Close()
	if delResp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", delResp.StatusCode)
	}
}

func TestInvalidOperandKind(t *testing.T) {
	ts := testServer(t)
	createSession(t, ts)

	resp := postJSON(t, ts.URL+"/cargo", `{"label":"bad","mass":-1,"longitudinal":50,"vertical":6}`)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	var apiErr struct {
		Kind string `json:"kind"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&apiErr)
	if apiErr.Kind != "invalid_operand" {
		t.Errorf("expected invalid_operand, got %q", apiErr.Kind)
	}
}

func TestTickAdvancesAndSnapshotPeeks(t *testing.T) {
	ts := testServer(t)
	createSession(t, ts)

	resp := postJSON(t, ts.URL+"/tick", `{"dt":0.5}`)
	var ticked struct {
		Time float64 `json:"time"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&ticked); err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if ticked.Time <= 0 {
		t.Errorf("tick did not advance time: %f", ticked.Time)
	}

	snapResp, err := http.Get(ts.URL + "/snapshot")
	if err != nil {
		t.Fatal(err)
	}
	defer snapResp.Body.Close()
	var peeked struct {
		Time float64 `json:"time"`
		GZ   struct {
			GM float64 `json:"gm"`
		} `json:"gz"`
	}
	if err := json.NewDecoder(snapResp.Body).Decode(&peeked); err != nil {
		t.Fatal(err)
	}
	if peeked.Time != ticked.Time {
		t.Errorf("snapshot advanced the clock: %f vs %f", peeked.Time, ticked.Time)
	}
	if peeked.GZ.GM <= 0 {
		t.Errorf("expected positive GM in snapshot, got %f", peeked.GZ.GM)
	}
}

func TestBallastEndpoint(t *testing.T) {
	ts := testServer(t)
	createSession(t, ts)

	resp := postJSON(t, ts.URL+"/ballast/fp", `{"fill":0.5}`)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}

	resp = postJSON(t, ts.URL+"/ballast/nope", `{"fill":0.5}`)
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown tank, got %d", resp.StatusCode)
	}
}
