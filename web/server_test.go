package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ilievs/robovac/core"
	"github.com/ilievs/robovac/entity"
)

type commandRecorder struct {
	sent []core.Command
}

func (r *commandRecorder) SendCommand(ctx context.Context, name core.CommandName, params []any) error {
	r.sent = append(r.sent, core.Command{Name: name, Params: params})
	return nil
}

func newTestServer() (*Server, *commandRecorder, *core.Coordinator) {
	coord := core.NewCoordinator("vacuum_1")
	api := &commandRecorder{}
	sel := entity.NewRoomSelect(coord)
	btn := entity.NewCleanRoomButton(coord, api, sel)
	return NewServer(coord, api, sel, btn), api, coord
}

func TestStatusEndpoint(t *testing.T) {

	server, _, coord := newTestServer()

	prop := core.DeviceProp{}
	prop.Status.Battery = 88
	coord.Update(prop)

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatal("Expected status 200, but got", rec.Code)
	}
	var got core.DeviceProp
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal("Failed to parse response:", err)
	}
	if got.Status.Battery != 88 {
		t.Fatal("Expected battery 88, but got", got.Status.Battery)
	}
}

func TestEntitiesEndpoint(t *testing.T) {

	server, _, coord := newTestServer()

	water := 40
	prop := core.DeviceProp{}
	prop.Status.WaterPercent = &water
	coord.Update(prop)

	req := httptest.NewRequest(http.MethodGet, "/entities", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatal("Expected status 200, but got", rec.Code)
	}
	var views []EntityView
	if err := json.Unmarshal(rec.Body.Bytes(), &views); err != nil {
		t.Fatal("Failed to parse response:", err)
	}

	byKey := make(map[string]EntityView)
	for _, v := range views {
		byKey[v.Key] = v
	}
	waterTank, ok := byKey["water_tank_level"]
	if !ok {
		t.Fatal("Expected a water_tank_level entity in the response")
	}
	// json numbers decode as float64
	if waterTank.Value != 40.0 {
		t.Fatal("Expected water_tank_level 40, but got", waterTank.Value)
	}
	if waterTank.UniqueID != "water_tank_level_vacuum_1" {
		t.Fatal("Unexpected unique id", waterTank.UniqueID)
	}
}

func TestEntitiesIncludeSelectAndButton(t *testing.T) {

	server, _, coord := newTestServer()

	coord.SetRooms(1, map[int]string{16: "Kitchen"})
	if err := server.roomSelect.SelectOption("Kitchen"); err != nil {
		t.Fatal("SelectOption failed:", err)
	}
	prop := core.DeviceProp{}
	prop.Status.State = core.StateIdle
	coord.Update(prop)

	req := httptest.NewRequest(http.MethodGet, "/entities", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	var views []EntityView
	if err := json.Unmarshal(rec.Body.Bytes(), &views); err != nil {
		t.Fatal("Failed to parse response:", err)
	}
	byKey := make(map[string]EntityView)
	for _, v := range views {
		byKey[v.Key] = v
	}

	sel, ok := byKey["room_selection"]
	if !ok {
		t.Fatal("Expected a room_selection entity in the response")
	}
	if sel.Platform != "select" || sel.Value != "Kitchen" {
		t.Fatal("Unexpected room_selection view:", sel)
	}

	btn, ok := byKey["clean_selected_room"]
	if !ok {
		t.Fatal("Expected a clean_selected_room entity in the response")
	}
	if btn.Platform != "button" || btn.Value != true {
		t.Fatal("Unexpected clean_selected_room view:", btn)
	}
}

func TestCommandEndpoint(t *testing.T) {

	server, api, _ := newTestServer()

	body := `{"name": "app_segment_clean", "params": [16]}`
	req := httptest.NewRequest(http.MethodPost, "/command", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatal("Expected status 200, but got", rec.Code, rec.Body.String())
	}

	want := []core.Command{{Name: core.AppSegmentClean, Params: []any{16.0}}}
	if diff := cmp.Diff(want, api.sent); diff != "" {
		t.Fatalf("Dispatched commands mismatch (-want +got):\n%s", diff)
	}
}

func TestCommandEndpointRejectsMissingName(t *testing.T) {

	server, api, _ := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/command", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatal("Expected status 400, but got", rec.Code)
	}
	if len(api.sent) != 0 {
		t.Fatal("Expected no dispatch, but got", api.sent)
	}
}
