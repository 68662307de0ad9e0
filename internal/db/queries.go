package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx runs the queries inside tx.
func (q *Queries) WithTx(tx pgx.Tx) *Queries {
	return &Queries{db: tx}
}

// --- Users ---

const userColumns = `id, email, password, display_name, team_number, created_at`

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.Password, &u.DisplayName, &u.TeamNumber, &u.CreatedAt)
	return u, err
}

type CreateUserParams struct {
	ID          string
	Email       string
	Password    string
	DisplayName string
	TeamNumber  int32
}

const createUser = `INSERT INTO users (id, email, password, display_name, team_number)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + userColumns

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	row := q.db.QueryRow(ctx, createUser, arg.ID, arg.Email, arg.Password, arg.DisplayName, arg.TeamNumber)
	return scanUser(row)
}

const getUserByEmail = `SELECT ` + userColumns + ` FROM users WHERE email = $1`

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	return scanUser(q.db.QueryRow(ctx, getUserByEmail, email))
}

const getUserByID = `SELECT ` + userColumns + ` FROM users WHERE id = $1`

func (q *Queries) GetUserByID(ctx context.Context, id string) (User, error) {
	return scanUser(q.db.QueryRow(ctx, getUserByID, id))
}

// --- Drawings ---

const drawingColumns = `id, owner_id, team_number, match_number, kind, title, data, entity_count, created_at, updated_at`

func scanDrawing(row pgx.Row) (Drawing, error) {
	var d Drawing
	err := row.Scan(&d.ID, &d.OwnerID, &d.TeamNumber, &d.MatchNumber, &d.Kind, &d.Title,
		&d.Data, &d.EntityCount, &d.CreatedAt, &d.UpdatedAt)
	return d, err
}

type CreateDrawingParams struct {
	ID          string
	OwnerID     string
	TeamNumber  int32
	MatchNumber int32
	Kind        string
	Title       string
	Data        []byte
	EntityCount int32
}

const createDrawing = `INSERT INTO drawings (id, owner_id, team_number, match_number, kind, title, data, entity_count)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING ` + drawingColumns

func (q *Queries) CreateDrawing(ctx context.Context, arg CreateDrawingParams) (Drawing, error) {
	row := q.db.QueryRow(ctx, createDrawing, arg.ID, arg.OwnerID, arg.TeamNumber, arg.MatchNumber,
		arg.Kind, arg.Title, arg.Data, arg.EntityCount)
	return scanDrawing(row)
}

const getDrawing = `SELECT ` + drawingColumns + ` FROM drawings WHERE id = $1`

func (q *Queries) GetDrawing(ctx context.Context, id string) (Drawing, error) {
	return scanDrawing(q.db.QueryRow(ctx, getDrawing, id))
}

// ListDrawingsParams filters drawings. Zero values match everything.
type ListDrawingsParams struct {
	TeamNumber  int32
	MatchNumber int32
	Kind        string
	Limit       int32
}

const listDrawings = `SELECT ` + drawingColumns + ` FROM drawings
WHERE ($1::int = 0 OR team_number = $1)
  AND ($2::int = 0 OR match_number = $2)
  AND ($3::text = '' OR kind = $3)
ORDER BY updated_at DESC
LIMIT $4`

func (q *Queries) ListDrawings(ctx context.Context, arg ListDrawingsParams) ([]Drawing, error) {
	rows, err := q.db.Query(ctx, listDrawings, arg.TeamNumber, arg.MatchNumber, arg.Kind, arg.Limit)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Drawing, error) {
		return scanDrawing(row)
	})
}

type UpdateDrawingDataParams struct {
	ID          string
	Data        []byte
	EntityCount int32
}

const updateDrawingData = `UPDATE drawings
SET data = $2, entity_count = $3, updated_at = now()
WHERE id = $1
RETURNING ` + drawingColumns

func (q *Queries) UpdateDrawingData(ctx context.Context, arg UpdateDrawingDataParams) (Drawing, error) {
	return scanDrawing(q.db.QueryRow(ctx, updateDrawingData, arg.ID, arg.Data, arg.EntityCount))
}

const deleteDrawing = `DELETE FROM drawings WHERE id = $1`

func (q *Queries) DeleteDrawing(ctx context.Context, id string) error {
	tag, err := q.db.Exec(ctx, deleteDrawing, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
