package helprequest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/muhammadheryan/reliefbridge/constant"
	"github.com/muhammadheryan/reliefbridge/model"
	"github.com/muhammadheryan/reliefbridge/repository"
)

const mysqlDuplicateEntry = 1062

type HelpRequestRepository interface {
	Create(ctx context.Context, req *model.HelpRequest) error
	Get(ctx context.Context, id string) (*model.HelpRequest, error)
	Transition(ctx context.Context, id string, t *model.Transition) (*model.HelpRequest, error)
	List(ctx context.Context, filter *model.HelpRequestFilter) ([]model.HelpRequest, error)
	CountByStatus(ctx context.Context) (map[constant.RequestStatus]int64, error)
}

type SQL struct {
	conn *sqlx.DB
}

func NewHelpRequestRepository(conn *sqlx.DB) HelpRequestRepository {
	return &SQL{conn: conn}
}

const (
	helpRequestColumns = `id, requester_id, requester_name, request_type, description, priority, location, latitude, longitude,
contact_phone, status, volunteer_id, volunteer_name, created_at, updated_at, claimed_at, completed_at`

	insertHelpRequestQuery = `INSERT INTO help_request (id, requester_id, requester_name, request_type, description, priority, location,
latitude, longitude, contact_phone, status, created_at, updated_at)
VALUES (:id, :requester_id, :requester_name, :request_type, :description, :priority, :location,
:latitude, :longitude, :contact_phone, :status, :created_at, :updated_at)`

	getHelpRequestQuery  = `SELECT ` + helpRequestColumns + ` FROM help_request WHERE id = ?`
	listHelpRequestsBase = `SELECT ` + helpRequestColumns + ` FROM help_request WHERE true`

	claimHelpRequestQuery = `UPDATE help_request SET status = ?, volunteer_id = ?, volunteer_name = ?, claimed_at = ?, updated_at = ?
WHERE id = ? AND status = ?`
	completeHelpRequestQuery = `UPDATE help_request SET status = ?, completed_at = ?, updated_at = ?
WHERE id = ? AND status = ?`

	countByStatusQuery = `SELECT status, COUNT(*) AS total FROM help_request GROUP BY status`
)

func (r *SQL) Create(ctx context.Context, req *model.HelpRequest) error {
	if _, err := r.conn.NamedExecContext(ctx, insertHelpRequestQuery, req); err != nil {
		var myErr *mysql.MySQLError
		if errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry {
			return repository.ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *SQL) Get(ctx context.Context, id string) (*model.HelpRequest, error) {
	var entity model.HelpRequest
	if err := r.conn.QueryRowxContext(ctx, getHelpRequestQuery, id).StructScan(&entity); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &entity, nil
}

// Transition applies t as one conditional UPDATE so that two concurrent
// claims cannot both observe the request as pending.
func (r *SQL) Transition(ctx context.Context, id string, t *model.Transition) (*model.HelpRequest, error) {
	var (
		res sql.Result
		err error
	)
	switch t.To {
	case constant.RequestStatusInProgress:
		res, err = r.conn.ExecContext(ctx, claimHelpRequestQuery, t.To, t.VolunteerID, t.VolunteerName, t.At, t.At, id, t.From)
	case constant.RequestStatusCompleted:
		res, err = r.conn.ExecContext(ctx, completeHelpRequestQuery, t.To, t.At, t.At, id, t.From)
	default:
		return nil, fmt.Errorf("unsupported transition to %q", t.To)
	}
	if err != nil {
		return nil, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}

	current, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, repository.ErrNotFound
	}
	if affected == 0 {
		return current, repository.ErrConflict
	}
	return current, nil
}

func (r *SQL) List(ctx context.Context, filter *model.HelpRequestFilter) ([]model.HelpRequest, error) {
	query := listHelpRequestsBase
	args := make([]any, 0, 4)

	if filter.RequesterID != "" {
		query += " AND requester_id = ?"
		args = append(args, filter.RequesterID)
	}
	if filter.VolunteerID != "" {
		query += " AND volunteer_id = ?"
		args = append(args, filter.VolunteerID)
	}
	if filter.Status != "" {
		query += " AND status = ?"
		args = append(args, filter.Status)
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	items := make([]model.HelpRequest, 0)
	if err := r.conn.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *SQL) CountByStatus(ctx context.Context) (map[constant.RequestStatus]int64, error) {
	rows, err := r.conn.QueryxContext(ctx, countByStatusQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[constant.RequestStatus]int64{
		constant.RequestStatusPending:    0,
		constant.RequestStatusInProgress: 0,
		constant.RequestStatusCompleted:  0,
	}
	for rows.Next() {
		var row struct {
			Status constant.RequestStatus `db:"status"`
			Total  int64                  `db:"total"`
		}
		if err := rows.StructScan(&row); err != nil {
			return nil, err
		}
		counts[row.Status] = row.Total
	}
	return counts, rows.Err()
}
