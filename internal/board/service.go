// Package board stores scouting drawings: field sketches attached to a team
// and, for match drawings, a match number.
package board

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/tueftlerdog/CoralAIScouting-sub000/internal/db"
	"github.com/tueftlerdog/CoralAIScouting-sub000/internal/document"
	"github.com/tueftlerdog/CoralAIScouting-sub000/internal/drawing"
	"github.com/tueftlerdog/CoralAIScouting-sub000/internal/typeid"
)

var (
	ErrNotFound        = errors.New("drawing not found")
	ErrForbidden       = errors.New("forbidden")
	ErrInvalidKind     = errors.New("invalid drawing kind")
	ErrInvalidTeam     = errors.New("invalid team number")
	ErrInvalidDrawing  = errors.New("invalid drawing")
	ErrTooManyEntities = errors.New("too many entities")
)

// Drawing kinds: a match sketch, a pit scouting sketch, an autonomous path.
const (
	KindMatch = "match"
	KindPit   = "pit"
	KindAuto  = "auto"
)

var validKinds = map[string]bool{KindMatch: true, KindPit: true, KindAuto: true}

const (
	DefaultListLimit = 50
	maxListLimit     = 200
)

var _ Store = (*db.Queries)(nil)

type Store interface {
	CreateDrawing(ctx context.Context, arg db.CreateDrawingParams) (db.Drawing, error)
	GetDrawing(ctx context.Context, id string) (db.Drawing, error)
	ListDrawings(ctx context.Context, arg db.ListDrawingsParams) ([]db.Drawing, error)
	UpdateDrawingData(ctx context.Context, arg db.UpdateDrawingDataParams) (db.Drawing, error)
	DeleteDrawing(ctx context.Context, id string) error
}

// Publisher is told about every saved drawing.
type Publisher interface {
	Publish(drawingID string, data []byte)
}

type Service struct {
	store       Store
	publisher   Publisher
	maxEntities int
	now         func() time.Time
}

func NewService(store Store, publisher Publisher, maxEntities int) *Service {
	if maxEntities <= 0 {
		maxEntities = drawing.DefaultMaxEntities
	}
	return &Service{
		store:       store,
		publisher:   publisher,
		maxEntities: maxEntities,
		now:         time.Now,
	}
}

type Drawing struct {
	ID          string          `json:"id"`
	OwnerID     string          `json:"ownerId"`
	TeamNumber  int             `json:"teamNumber"`
	MatchNumber int             `json:"matchNumber,omitempty"`
	Kind        string          `json:"kind"`
	Title       string          `json:"title"`
	EntityCount int             `json:"entityCount"`
	Data        json.RawMessage `json:"data,omitempty"`
	CreatedAt   string          `json:"createdAt"`
	UpdatedAt   string          `json:"updatedAt"`
}

type CreateInput struct {
	TeamNumber  int             `json:"teamNumber"`
	MatchNumber int             `json:"matchNumber"`
	Kind        string          `json:"kind"`
	Title       string          `json:"title"`
	Data        json.RawMessage `json:"data"`
}

type Filter struct {
	TeamNumber  int
	MatchNumber int
	Kind        string
	Limit       int
}

func (s *Service) Create(ctx context.Context, ownerID string, in CreateInput) (*Drawing, error) {
	if !validKinds[in.Kind] {
		return nil, fmt.Errorf("%w: %q", ErrInvalidKind, in.Kind)
	}
	if in.TeamNumber <= 0 {
		return nil, ErrInvalidTeam
	}
	if in.Kind != KindMatch {
		in.MatchNumber = 0
	}

	data := []byte(in.Data)
	if len(data) == 0 {
		var err error
		if data, err = document.New(s.now(), nil).Encode(); err != nil {
			return nil, err
		}
	}
	data, count, err := s.normalize(data)
	if err != nil {
		return nil, err
	}

	row, err := s.store.CreateDrawing(ctx, db.CreateDrawingParams{
		ID:          typeid.NewDrawingID(),
		OwnerID:     ownerID,
		TeamNumber:  int32(in.TeamNumber),
		MatchNumber: int32(in.MatchNumber),
		Kind:        in.Kind,
		Title:       in.Title,
		Data:        data,
		EntityCount: int32(count),
	})
	if err != nil {
		return nil, fmt.Errorf("create drawing: %w", err)
	}

	slog.Info("drawing created", "id", row.ID, "team", row.TeamNumber, "kind", row.Kind)
	return toDrawing(row, true), nil
}

func (s *Service) Get(ctx context.Context, id string) (*Drawing, error) {
	row, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toDrawing(row, true), nil
}

// Document returns the saved drawing document of id.
func (s *Service) Document(ctx context.Context, id string) (*document.Drawing, error) {
	row, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	d, err := document.Decode(row.Data)
	if err != nil {
		return nil, fmt.Errorf("decode stored drawing %s: %w", id, err)
	}
	return d, nil
}

// Data returns the stored JSON of id.
func (s *Service) Data(ctx context.Context, id string) ([]byte, error) {
	row, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return row.Data, nil
}

func (s *Service) List(ctx context.Context, f Filter) ([]Drawing, error) {
	if f.Kind != "" && !validKinds[f.Kind] {
		return nil, fmt.Errorf("%w: %q", ErrInvalidKind, f.Kind)
	}
	if f.Limit <= 0 {
		f.Limit = DefaultListLimit
	}
	f.Limit = min(f.Limit, maxListLimit)

	rows, err := s.store.ListDrawings(ctx, db.ListDrawingsParams{
		TeamNumber:  int32(f.TeamNumber),
		MatchNumber: int32(f.MatchNumber),
		Kind:        f.Kind,
		Limit:       int32(f.Limit),
	})
	if err != nil {
		return nil, fmt.Errorf("list drawings: %w", err)
	}

	out := make([]Drawing, len(rows))
	for i, r := range rows {
		out[i] = *toDrawing(r, false)
	}
	return out, nil
}

// Save replaces the document of a drawing owned by userID and pushes it to
// live viewers.
func (s *Service) Save(ctx context.Context, id, userID string, data []byte) (*Drawing, error) {
	row, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if row.OwnerID != userID {
		return nil, ErrForbidden
	}

	data, count, err := s.normalize(data)
	if err != nil {
		return nil, err
	}

	row, err = s.store.UpdateDrawingData(ctx, db.UpdateDrawingDataParams{
		ID:          id,
		Data:        data,
		EntityCount: int32(count),
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update drawing: %w", err)
	}

	if s.publisher != nil {
		s.publisher.Publish(id, data)
	}
	return toDrawing(row, false), nil
}

func (s *Service) Delete(ctx context.Context, id, userID string) error {
	row, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if row.OwnerID != userID {
		return ErrForbidden
	}
	if err := s.store.DeleteDrawing(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("delete drawing: %w", err)
	}
	return nil
}

func (s *Service) get(ctx context.Context, id string) (db.Drawing, error) {
	if err := typeid.Validate(id, typeid.PrefixDrawing); err != nil {
		return db.Drawing{}, ErrNotFound
	}
	row, err := s.store.GetDrawing(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return db.Drawing{}, ErrNotFound
		}
		return db.Drawing{}, fmt.Errorf("get drawing: %w", err)
	}
	return row, nil
}

// normalize decodes a drawing document, checks it, and re-encodes it so that
// legacy history records are dropped before storage.
func (s *Service) normalize(data []byte) ([]byte, int, error) {
	d, err := document.Decode(data)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrInvalidDrawing, err)
	}
	if len(d.Strokes) > s.maxEntities {
		return nil, 0, fmt.Errorf("%w: %d > %d", ErrTooManyEntities, len(d.Strokes), s.maxEntities)
	}
	out, err := d.Encode()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrInvalidDrawing, err)
	}
	return out, len(d.Strokes), nil
}

func toDrawing(r db.Drawing, withData bool) *Drawing {
	d := &Drawing{
		ID:          r.ID,
		OwnerID:     r.OwnerID,
		TeamNumber:  int(r.TeamNumber),
		MatchNumber: int(r.MatchNumber),
		Kind:        r.Kind,
		Title:       r.Title,
		EntityCount: int(r.EntityCount),
		CreatedAt:   r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   r.UpdatedAt.Format(time.RFC3339),
	}
	if withData {
		d.Data = r.Data
	}
	return d
}
