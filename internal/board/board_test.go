package board

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5"

	"github.com/tueftlerdog/CoralAIScouting-sub000/internal/auth"
	"github.com/tueftlerdog/CoralAIScouting-sub000/internal/db"
	"github.com/tueftlerdog/CoralAIScouting-sub000/internal/typeid"
)

type fakeStore struct {
	rows  map[string]db.Drawing
	order []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{rows: make(map[string]db.Drawing)}
}

func (f *fakeStore) CreateDrawing(_ context.Context, arg db.CreateDrawingParams) (db.Drawing, error) {
	now := time.Now()
	row := db.Drawing{
		ID: arg.ID, OwnerID: arg.OwnerID, TeamNumber: arg.TeamNumber, MatchNumber: arg.MatchNumber,
		Kind: arg.Kind, Title: arg.Title, Data: arg.Data, EntityCount: arg.EntityCount,
		CreatedAt: now, UpdatedAt: now,
	}
	f.rows[row.ID] = row
	f.order = append(f.order, row.ID)
	return row, nil
}

func (f *fakeStore) GetDrawing(_ context.Context, id string) (db.Drawing, error) {
	row, ok := f.rows[id]
	if !ok {
		return db.Drawing{}, pgx.ErrNoRows
	}
	return row, nil
}

func (f *fakeStore) ListDrawings(_ context.Context, arg db.ListDrawingsParams) ([]db.Drawing, error) {
	var out []db.Drawing
	for _, id := range f.order {
		row, ok := f.rows[id]
		if !ok {
			continue
		}
		if arg.TeamNumber != 0 && row.TeamNumber != arg.TeamNumber {
			continue
		}
		if arg.MatchNumber != 0 && row.MatchNumber != arg.MatchNumber {
			continue
		}
		if arg.Kind != "" && row.Kind != arg.Kind {
			continue
		}
		out = append(out, row)
		if len(out) == int(arg.Limit) {
			break
		}
	}
	return out, nil
}

func (f *fakeStore) UpdateDrawingData(_ context.Context, arg db.UpdateDrawingDataParams) (db.Drawing, error) {
	row, ok := f.rows[arg.ID]
	if !ok {
		return db.Drawing{}, pgx.ErrNoRows
	}
	row.Data = arg.Data
	row.EntityCount = arg.EntityCount
	row.UpdatedAt = time.Now()
	f.rows[arg.ID] = row
	return row, nil
}

func (f *fakeStore) DeleteDrawing(_ context.Context, id string) error {
	if _, ok := f.rows[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.rows, id)
	return nil
}

type published struct {
	id   string
	data []byte
}

type fakePublisher struct {
	got []published
}

func (p *fakePublisher) Publish(id string, data []byte) {
	p.got = append(p.got, published{id, data})
}

const twoStrokes = `{"version":1,"timestamp":"2026-03-01T12:00:00.000Z","scale":1,"offsetX":0,"offsetY":0,
"strokes":[
  [{"x":0,"y":0},{"x":10,"y":10}],
  {"type":"add","index":0},
  [{"type":"rectangle","x":1,"y":2,"width":30,"height":40,"color":"#000000","thickness":3}]
]}`

func TestCreateDefaultsToEmptyDocument(t *testing.T) {
	s := NewService(newFakeStore(), nil, 0)
	d, err := s.Create(context.Background(), "user_a", CreateInput{TeamNumber: 254, Kind: KindMatch, MatchNumber: 12})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := typeid.Validate(d.ID, typeid.PrefixDrawing); err != nil {
		t.Errorf("id: %v", err)
	}
	if d.EntityCount != 0 || d.MatchNumber != 12 {
		t.Errorf("drawing = %+v", d)
	}
	doc, err := s.Document(context.Background(), d.ID)
	if err != nil {
		t.Fatalf("Document: %v", err)
	}
	if doc.Version != 1 || len(doc.Strokes) != 0 {
		t.Errorf("document = %+v", doc)
	}
}

func TestCreateValidates(t *testing.T) {
	s := NewService(newFakeStore(), nil, 0)
	ctx := context.Background()

	if _, err := s.Create(ctx, "u", CreateInput{TeamNumber: 1, Kind: "scribble"}); !errors.Is(err, ErrInvalidKind) {
		t.Errorf("bad kind: err = %v", err)
	}
	if _, err := s.Create(ctx, "u", CreateInput{Kind: KindPit}); !errors.Is(err, ErrInvalidTeam) {
		t.Errorf("no team: err = %v", err)
	}
	if _, err := s.Create(ctx, "u", CreateInput{TeamNumber: 1, Kind: KindPit, Data: json.RawMessage(`{"version":3}`)}); !errors.Is(err, ErrInvalidDrawing) {
		t.Errorf("bad version: err = %v", err)
	}

	d, err := s.Create(ctx, "u", CreateInput{TeamNumber: 1, Kind: KindPit, MatchNumber: 7})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if d.MatchNumber != 0 {
		t.Errorf("pit drawing kept match number %d", d.MatchNumber)
	}
}

func TestSaveNormalizesAndPublishes(t *testing.T) {
	pub := &fakePublisher{}
	s := NewService(newFakeStore(), pub, 0)
	ctx := context.Background()
	d, err := s.Create(ctx, "owner", CreateInput{TeamNumber: 1678, Kind: KindAuto})
	if err != nil {
		t.Fatal(err)
	}

	saved, err := s.Save(ctx, d.ID, "owner", []byte(twoStrokes))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if saved.EntityCount != 2 {
		t.Errorf("EntityCount = %d, want 2", saved.EntityCount)
	}
	if len(pub.got) != 1 || pub.got[0].id != d.ID {
		t.Fatalf("published %v", pub.got)
	}
	if strings.Contains(string(pub.got[0].data), `"add"`) {
		t.Error("legacy history record survived normalization")
	}

	if _, err := s.Save(ctx, d.ID, "intruder", []byte(twoStrokes)); !errors.Is(err, ErrForbidden) {
		t.Errorf("foreign save: err = %v", err)
	}
	if _, err := s.Save(ctx, d.ID, "owner", []byte(`{nope`)); !errors.Is(err, ErrInvalidDrawing) {
		t.Errorf("malformed save: err = %v", err)
	}
	if len(pub.got) != 1 {
		t.Errorf("failed saves were published")
	}
}

func TestSaveEnforcesEntityCap(t *testing.T) {
	s := NewService(newFakeStore(), nil, 1)
	d, err := s.Create(context.Background(), "owner", CreateInput{TeamNumber: 1, Kind: KindMatch})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Save(context.Background(), d.ID, "owner", []byte(twoStrokes)); !errors.Is(err, ErrTooManyEntities) {
		t.Errorf("err = %v, want ErrTooManyEntities", err)
	}
}

func TestDeleteAndNotFound(t *testing.T) {
	s := NewService(newFakeStore(), nil, 0)
	ctx := context.Background()
	d, err := s.Create(ctx, "owner", CreateInput{TeamNumber: 1, Kind: KindMatch})
	if err != nil {
		t.Fatal(err)
	}

	if err := s.Delete(ctx, d.ID, "someone"); !errors.Is(err, ErrForbidden) {
		t.Errorf("foreign delete: err = %v", err)
	}
	if err := s.Delete(ctx, d.ID, "owner"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, d.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("get deleted: err = %v", err)
	}
	if _, err := s.Get(ctx, "../../etc"); !errors.Is(err, ErrNotFound) {
		t.Errorf("get garbage id: err = %v", err)
	}
}

func TestListFilters(t *testing.T) {
	s := NewService(newFakeStore(), nil, 0)
	ctx := context.Background()
	for _, in := range []CreateInput{
		{TeamNumber: 254, Kind: KindMatch, MatchNumber: 1},
		{TeamNumber: 254, Kind: KindMatch, MatchNumber: 2},
		{TeamNumber: 971, Kind: KindPit},
	} {
		if _, err := s.Create(ctx, "owner", in); err != nil {
			t.Fatal(err)
		}
	}

	got, err := s.List(ctx, Filter{TeamNumber: 254})
	if err != nil || len(got) != 2 {
		t.Fatalf("team filter: %d drawings, err %v", len(got), err)
	}
	if got[0].Data != nil {
		t.Error("list returned document data")
	}
	if got, _ := s.List(ctx, Filter{Kind: KindPit}); len(got) != 1 || got[0].TeamNumber != 971 {
		t.Errorf("kind filter = %+v", got)
	}
	if _, err := s.List(ctx, Filter{Kind: "bogus"}); !errors.Is(err, ErrInvalidKind) {
		t.Errorf("bad kind: err = %v", err)
	}
}

func withUser(r *http.Request, userID string, team int) *http.Request {
	ctx := context.WithValue(r.Context(), auth.UserIDKey, userID)
	ctx = context.WithValue(ctx, auth.TeamKey, team)
	return r.WithContext(ctx)
}

func TestHandlers(t *testing.T) {
	pub := &fakePublisher{}
	h := NewHandler(NewService(newFakeStore(), pub, 0))

	rec := httptest.NewRecorder()
	req := withUser(httptest.NewRequest(http.MethodPost, "/api/drawings", strings.NewReader(`{"kind":"match","matchNumber":4}`)), "owner", 1678)
	h.Create(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", rec.Code, rec.Body.String())
	}
	var created Drawing
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatal(err)
	}
	if created.TeamNumber != 1678 {
		t.Errorf("team defaulted to %d, want the scout's team", created.TeamNumber)
	}
	vars := map[string]string{"drawingId": created.ID}

	rec = httptest.NewRecorder()
	req = withUser(httptest.NewRequest(http.MethodPut, "/", strings.NewReader(twoStrokes)), "other", 1)
	h.SaveDocument(rec, mux.SetURLVars(req, vars))
	if rec.Code != http.StatusForbidden {
		t.Errorf("foreign save: %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	req = withUser(httptest.NewRequest(http.MethodPut, "/", strings.NewReader(twoStrokes)), "owner", 1678)
	h.SaveDocument(rec, mux.SetURLVars(req, vars))
	if rec.Code != http.StatusOK {
		t.Errorf("save: %d %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	h.GetDocument(rec, mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/", nil), vars))
	if rec.Code != http.StatusOK || !json.Valid(rec.Body.Bytes()) {
		t.Errorf("get document: %d %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/api/drawings?team=abc", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad filter: %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.Get(rec, mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"drawingId": typeid.NewDrawingID()}))
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing drawing: %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.Delete(rec, mux.SetURLVars(withUser(httptest.NewRequest(http.MethodDelete, "/", nil), "owner", 1678), vars))
	if rec.Code != http.StatusNoContent {
		t.Errorf("delete: %d", rec.Code)
	}
}
