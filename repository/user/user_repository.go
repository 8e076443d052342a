package user

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/muhammadheryan/reliefbridge/model"
	"github.com/muhammadheryan/reliefbridge/repository"
)

const mysqlDuplicateEntry = 1062

type SQL struct {
	conn *sqlx.DB
}

type UserRepository interface {
	Create(ctx context.Context, req *model.User) (*model.User, error)
	Get(ctx context.Context, filter *model.UserFilter) (*model.User, error)
	List(ctx context.Context, filter *model.UserFilter) ([]model.User, error)
	UpdateLocation(ctx context.Context, id, location string, latitude, longitude float64) error
	SetActive(ctx context.Context, id string, active bool) error
}

func NewUserRepository(conn *sqlx.DB) UserRepository {
	return &SQL{conn: conn}
}

const (
	insertUserQuery = `INSERT INTO user (id, name, email, phone, role, location, latitude, longitude, active, created_at)
VALUES (:id, :name, :email, :phone, :role, :location, :latitude, :longitude, :active, :created_at)`
	getUserBase         = `SELECT id, name, email, phone, role, location, latitude, longitude, active, created_at, updated_at FROM user WHERE true`
	updateLocationQuery = `UPDATE user SET location = ?, latitude = ?, longitude = ?, updated_at = ? WHERE id = ?`
	setActiveQuery      = `UPDATE user SET active = ?, updated_at = ? WHERE id = ?`
)

func (s *SQL) Create(ctx context.Context, data *model.User) (*model.User, error) {
	if data.CreatedAt.IsZero() {
		data.CreatedAt = time.Now().UTC()
	}

	if _, err := s.conn.NamedExecContext(ctx, insertUserQuery, data); err != nil {
		var myErr *mysql.MySQLError
		if errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry {
			return nil, repository.ErrDuplicate
		}
		return nil, err
	}
	return data, nil
}

func whereUser(base string, filter *model.UserFilter) (string, []any) {
	query := base
	args := make([]any, 0, 4)

	if filter.ID != "" {
		query += " AND id = ?"
		args = append(args, filter.ID)
	}
	if filter.Email != "" {
		query += " AND email = ?"
		args = append(args, filter.Email)
	}
	if filter.Role != "" {
		query += " AND role = ?"
		args = append(args, filter.Role)
	}
	if filter.Active != nil {
		query += " AND active = ?"
		args = append(args, *filter.Active)
	}
	return query, args
}

func (s *SQL) Get(ctx context.Context, filter *model.UserFilter) (*model.User, error) {
	query, args := whereUser(getUserBase, filter)

	var entity model.User
	if err := s.conn.QueryRowxContext(ctx, query+" LIMIT 1", args...).StructScan(&entity); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &entity, nil
}

func (s *SQL) List(ctx context.Context, filter *model.UserFilter) ([]model.User, error) {
	query, args := whereUser(getUserBase, filter)

	users := make([]model.User, 0)
	if err := s.conn.SelectContext(ctx, &users, query+" ORDER BY created_at", args...); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *SQL) UpdateLocation(ctx context.Context, id, location string, latitude, longitude float64) error {
	res, err := s.conn.ExecContext(ctx, updateLocationQuery, location, latitude, longitude, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return expectOne(res)
}

func (s *SQL) SetActive(ctx context.Context, id string, active bool) error {
	res, err := s.conn.ExecContext(ctx, setActiveQuery, active, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return expectOne(res)
}

// expectOne relies on clientFoundRows in the DSN so that an UPDATE which
// matches a row without changing it still reports one row.
func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
