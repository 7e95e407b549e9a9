package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"chosenoffset.com/sightline/internal/core/geom"
	"chosenoffset.com/sightline/internal/core/walls"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*Service, *walls.Store) {
	t.Helper()
	store := walls.NewStore(geom.NewRectangle(0, 0, 1000, 1000), geom.Rectangle{})
	w := walls.NewWall(geom.Pt(300, 600), geom.Pt(700, 600), walls.RestrictionNormal)
	w.ID = "south"
	require.NoError(t, store.Add(w))
	return NewService(":0", "test", store, nil), store
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestPolygon(t *testing.T) {
	svc, _ := newTestService(t)

	rec := do(t, svc.Handler(), http.MethodPost, "/polygon",
		`{"origin":{"x":500,"y":500},"type":"sight","debug":true}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp PolygonResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, walls.SenseSight, resp.Type)
	require.Len(t, resp.Points, 6)
	assert.InDelta(t, 700, resp.Points[3].X, 1e-6)
	assert.InDelta(t, 600, resp.Points[3].Y, 1e-6)
	assert.Greater(t, resp.Area, 0.0)
	assert.Less(t, resp.Area, 1e6)
	assert.Equal(t, 1000.0, resp.Bounds.MaxX)
	assert.NotEmpty(t, resp.Rays)
}

func TestPolygonEmptyResultHasPoints(t *testing.T) {
	svc, _ := newTestService(t)

	rec := do(t, svc.Handler(), http.MethodPost, "/polygon",
		`{"origin":{"x":2000,"y":2000},"type":"sight"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"points":[]`)
}

func TestPolygonBadRequests(t *testing.T) {
	svc, _ := newTestService(t)

	tests := []struct {
		name string
		body string
	}{
		{"malformed", `{"origin":`},
		{"unknown field", `{"origin":{"x":1,"y":1},"type":"sight","colour":"red"}`},
		{"invalid sense", `{"origin":{"x":1,"y":1},"type":"smell"}`},
		{"invalid wall direction", `{"origin":{"x":1,"y":1},"type":"sight","wall_direction":"sideways"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, svc.Handler(), http.MethodPost, "/polygon", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestCollision(t *testing.T) {
	svc, _ := newTestService(t)

	rec := do(t, svc.Handler(), http.MethodPost, "/collision",
		`{"origin":{"x":500,"y":500},"destination":{"x":500,"y":900},"type":"move"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp CollisionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Hit)

	rec = do(t, svc.Handler(), http.MethodPost, "/collision",
		`{"origin":{"x":500,"y":500},"destination":{"x":500,"y":900},"type":"move","mode":"closest"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp = CollisionResponse{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Closest)
	assert.InDelta(t, 500, resp.Closest.X, 1e-6)
	assert.InDelta(t, 600, resp.Closest.Y, 1e-6)

	rec = do(t, svc.Handler(), http.MethodPost, "/collision",
		`{"origin":{"x":500,"y":500},"destination":{"x":500,"y":100},"type":"move"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	resp = CollisionResponse{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Hit)

	rec = do(t, svc.Handler(), http.MethodPost, "/collision",
		`{"origin":{"x":500,"y":500},"destination":{"x":500,"y":900},"type":"move","mode":"some"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSceneAndWalls(t *testing.T) {
	svc, store := newTestService(t)
	h := svc.Handler()

	rec := do(t, h, http.MethodGet, "/scene", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var scene SceneResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &scene))
	assert.Equal(t, "test", scene.Name)
	assert.Equal(t, 1000.0, scene.SceneRect.MaxX)
	require.Len(t, scene.Walls, 1)
	assert.Equal(t, "south", scene.Walls[0].ID)

	rec = do(t, h, http.MethodPost, "/walls",
		`[{"id":"north","a":{"x":300,"y":400},"b":{"x":700,"y":400},"sight":"limited"}]`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, 2, store.Len())

	added, ok := store.Get("north")
	require.True(t, ok)
	assert.Equal(t, walls.RestrictionLimited, added.Sight)
	assert.Equal(t, walls.RestrictionNormal, added.Move, "omitted restrictions block")

	rec = do(t, h, http.MethodPost, "/walls", `[{"id":"north","a":{"x":0,"y":0},"b":{"x":1,"y":1}}]`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, h, http.MethodPost, "/walls", `[{"a":{"x":0,"y":0},"b":{"x":1,"y":1},"type":"outerBounds"}]`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodDelete, "/walls/north", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 1, store.Len())

	rec = do(t, h, http.MethodDelete, "/walls/north", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWallChangesAffectPolygons(t *testing.T) {
	svc, _ := newTestService(t)
	h := svc.Handler()
	body := `{"origin":{"x":500,"y":500},"type":"sight"}`

	var before PolygonResponse
	require.NoError(t, json.Unmarshal(do(t, h, http.MethodPost, "/polygon", body).Body.Bytes(), &before))

	rec := do(t, h, http.MethodDelete, "/walls/south", "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	var after PolygonResponse
	require.NoError(t, json.Unmarshal(do(t, h, http.MethodPost, "/polygon", body).Body.Bytes(), &after))
	assert.InDelta(t, 1e6, after.Area, 1e-6)
	assert.Greater(t, after.Area, before.Area)
}

func TestMethodNotAllowed(t *testing.T) {
	svc, _ := newTestService(t)
	rec := do(t, svc.Handler(), http.MethodGet, "/polygon", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestWebsocket(t *testing.T) {
	svc, _ := newTestService(t)
	srv := httptest.NewServer(svc.Handler())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	c, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	defer c.Close()

	require.NoError(t, c.WriteJSON(PolygonRequest{Origin: geom.Pt(500, 500), Type: walls.SenseSight}))
	var poly PolygonResponse
	require.NoError(t, c.ReadJSON(&poly))
	assert.Len(t, poly.Points, 6)

	require.NoError(t, c.WriteJSON(PolygonRequest{Origin: geom.Pt(500, 500), Type: "smell"}))
	_, msg, err := c.ReadMessage()
	require.NoError(t, err)
	var failure ErrorResponse
	require.NoError(t, json.NewDecoder(bytes.NewReader(msg)).Decode(&failure))
	assert.Contains(t, failure.Error, "smell")

	require.NoError(t, c.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))
}
