package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/movimientos-api/internal/domain/entity"
	"github.com/jhoicas/movimientos-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación del libro de movimientos sobre PostgreSQL
// (usable con pool o tx). Cabecera en movements, líneas en movement_lines.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

const movementColumns = `id, company_id, kind, origin_id, destination_id, beneficiary, cause,
	status, created_by, confirmed_by, created_at, confirmed_at, notes, confirm_notes, cancel_reason`

// Create persiste cabecera y líneas. Dentro de una tx ambas escrituras son
// atómicas; fuera, el llamador asume el riesgo.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	query := `
		INSERT INTO movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.CompanyID, m.Kind, m.OriginID,
		nullIfEmpty(m.DestinationID), nullIfEmpty(m.Beneficiary), nullIfEmpty(m.Cause),
		m.Status, m.CreatedBy, m.ConfirmedBy, m.CreatedAt, m.ConfirmedAt,
		m.Notes, m.ConfirmNotes, m.CancelReason,
	)
	if err != nil {
		return fmt.Errorf("create movement: %w", err)
	}
	for _, l := range m.Lines {
		lineQuery := `
			INSERT INTO movement_lines (id, movement_id, product_id, dispatched, received, notes)
			VALUES ($1, $2, $3, $4, $5, $6)`
		if _, err := r.q.Exec(ctx, lineQuery, l.ID, l.MovementID, l.ProductID, l.Dispatched, l.Received, l.Notes); err != nil {
			return fmt.Errorf("create movement line: %w", err)
		}
	}
	return nil
}

// GetByID obtiene un movimiento con sus líneas; nil si no existe.
func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.Movement, error) {
	return r.get(ctx, id, false)
}

// GetForUpdate igual que GetByID pero bloqueando la cabecera (SELECT FOR
// UPDATE): dos confirmaciones concurrentes del mismo movimiento se serializan aquí.
func (r *MovementRepo) GetForUpdate(ctx context.Context, id string) (*entity.Movement, error) {
	return r.get(ctx, id, true)
}

func (r *MovementRepo) get(ctx context.Context, id string, forUpdate bool) (*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM movements WHERE id = $1`
	if forUpdate {
		query += " FOR UPDATE"
	}
	m, err := scanMovement(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	if err := r.loadLines(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (r *MovementRepo) loadLines(ctx context.Context, m *entity.Movement) error {
	query := `
		SELECT id, movement_id, product_id, dispatched, received, notes
		FROM movement_lines WHERE movement_id = $1 ORDER BY id`
	rows, err := r.q.Query(ctx, query, m.ID)
	if err != nil {
		return fmt.Errorf("load movement lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.MovementLine
		if err := rows.Scan(&l.ID, &l.MovementID, &l.ProductID, &l.Dispatched, &l.Received, &l.Notes); err != nil {
			return fmt.Errorf("scan movement line: %w", err)
		}
		m.Lines = append(m.Lines, &l)
	}
	return rows.Err()
}

// UpdateConfirmation escribe estado, confirmador, fecha y notas en la cabecera
// y el Received de cada línea. El caso de uso garantiza una sola invocación.
func (r *MovementRepo) UpdateConfirmation(ctx context.Context, m *entity.Movement) error {
	query := `
		UPDATE movements
		SET status = $2, confirmed_by = $3, confirmed_at = $4, confirm_notes = $5
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query, m.ID, m.Status, m.ConfirmedBy, m.ConfirmedAt, m.ConfirmNotes)
	if err != nil {
		return fmt.Errorf("update confirmation: %w", err)
	}
	for _, l := range m.Lines {
		if _, err := r.q.Exec(ctx, `UPDATE movement_lines SET received = $2 WHERE id = $1`, l.ID, l.Received); err != nil {
			return fmt.Errorf("update line received: %w", err)
		}
	}
	return nil
}

// UpdateCancellation escribe estado CANCELLED y el motivo; nada más.
func (r *MovementRepo) UpdateCancellation(ctx context.Context, m *entity.Movement) error {
	query := `UPDATE movements SET status = $2, cancel_reason = $3 WHERE id = $1`
	if _, err := r.q.Exec(ctx, query, m.ID, m.Status, m.CancelReason); err != nil {
		return fmt.Errorf("update cancellation: %w", err)
	}
	return nil
}

// Delete elimina líneas y cabecera.
func (r *MovementRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM movement_lines WHERE movement_id = $1`, id); err != nil {
		return fmt.Errorf("delete movement lines: %w", err)
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM movements WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete movement: %w", err)
	}
	return nil
}

// List lista movimientos de una empresa con filtros opcionales por dirección,
// ubicaciones, estado, tipo y rango de fechas. Las líneas se cargan por
// movimiento; los listados van paginados, así que el costo es acotado.
func (r *MovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM movements WHERE company_id = $1`
	args := []any{f.CompanyID}
	pos := 2

	if len(f.LocationIDs) > 0 {
		switch f.Direction {
		case repository.DirectionOutgoing:
			query += fmt.Sprintf(" AND origin_id = ANY($%d)", pos)
		case repository.DirectionIncoming:
			query += fmt.Sprintf(" AND destination_id = ANY($%d)", pos)
		default:
			query += fmt.Sprintf(" AND (origin_id = ANY($%d) OR destination_id = ANY($%d))", pos, pos)
		}
		args = append(args, f.LocationIDs)
		pos++
	} else {
		switch f.Direction {
		case repository.DirectionOutgoing:
			// Todo movimiento tiene origen; sin ubicaciones no filtra nada.
		case repository.DirectionIncoming:
			query += " AND destination_id IS NOT NULL"
		}
	}
	if len(f.Statuses) > 0 {
		query += fmt.Sprintf(" AND status = ANY($%d)", pos)
		args = append(args, statusStrings(f.Statuses))
		pos++
	}
	if len(f.Kinds) > 0 {
		query += fmt.Sprintf(" AND kind = ANY($%d)", pos)
		args = append(args, kindStrings(f.Kinds))
		pos++
	}
	if f.From != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", pos)
		args = append(args, *f.From)
		pos++
	}
	if f.To != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", pos)
		args = append(args, *f.To)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	var list []*entity.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, m := range list {
		if err := r.loadLines(ctx, m); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// scanMovement mapea una fila de movements; los opcionales NULL quedan vacíos.
func scanMovement(row pgx.Row) (*entity.Movement, error) {
	var m entity.Movement
	var destinationID, beneficiary, cause *string
	err := row.Scan(
		&m.ID, &m.CompanyID, &m.Kind, &m.OriginID, &destinationID, &beneficiary, &cause,
		&m.Status, &m.CreatedBy, &m.ConfirmedBy, &m.CreatedAt, &m.ConfirmedAt,
		&m.Notes, &m.ConfirmNotes, &m.CancelReason,
	)
	if err != nil {
		return nil, err
	}
	if destinationID != nil {
		m.DestinationID = *destinationID
	}
	if beneficiary != nil {
		m.Beneficiary = *beneficiary
	}
	if cause != nil {
		m.Cause = *cause
	}
	return &m, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func statusStrings(in []entity.Status) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = string(s)
	}
	return out
}

func kindStrings(in []entity.Kind) []string {
	out := make([]string, len(in))
	for i, k := range in {
		out[i] = string(k)
	}
	return out
}
