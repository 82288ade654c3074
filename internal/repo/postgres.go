package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/liuyunyi0210-blip/tsa-repair-system-sub000/internal/models"
)

// pgRepo is the Postgres-backed store.
type pgRepo struct{ pool *pgxpool.Pool }

// NewPostgres wraps a pgx pool in the Repo interface.
func NewPostgres(pool *pgxpool.Pool) Repo { return &pgRepo{pool: pool} }

const workOrderCols = `id, type, title, description, category, urgency, status,
	is_verified, is_deleted, hall_name, hall_area, reporter,
	processing_method, processing_description, vendor, amount, payment_entity,
	is_signed_sent, signed_sent_date, is_work_finished, completion_date,
	is_invoice_confirmed, is_payment_sent, payment_date, remarks,
	photo_urls, photo_metadata, last_executed_date, maintenance_cycle,
	staff_in_charge, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanWorkOrder(row scanner) (models.WorkOrder, error) {
	var (
		wo        models.WorkOrder
		amount    pgtype.Float8
		signed    pgtype.Timestamptz
		completed pgtype.Timestamptz
		paid      pgtype.Timestamptz
		executed  pgtype.Timestamptz
		photoMeta []byte
	)
	err := row.Scan(
		&wo.ID, &wo.Type, &wo.Title, &wo.Description, &wo.Category, &wo.Urgency, &wo.Status,
		&wo.IsVerified, &wo.IsDeleted, &wo.HallName, &wo.HallArea, &wo.Reporter,
		&wo.ProcessingMethod, &wo.ProcessingDescription, &wo.Vendor, &amount, &wo.PaymentEntity,
		&wo.IsSignedSent, &signed, &wo.IsWorkFinished, &completed,
		&wo.IsInvoiceConfirmed, &wo.IsPaymentSent, &paid, &wo.Remarks,
		&wo.PhotoURLs, &photoMeta, &executed, &wo.MaintenanceCycle,
		&wo.StaffInCharge, &wo.CreatedAt, &wo.UpdatedAt,
	)
	if err != nil {
		return models.WorkOrder{}, err
	}
	wo.Amount = fromFloat8(amount)
	wo.SignedSentDate = fromTimestamptz(signed)
	wo.CompletionDate = fromTimestamptz(completed)
	wo.PaymentDate = fromTimestamptz(paid)
	wo.LastExecutedDate = fromTimestamptz(executed)
	if len(photoMeta) > 0 {
		if err := json.Unmarshal(photoMeta, &wo.PhotoMetadata); err != nil {
			slog.Warn("scanWorkOrder: bad photo_metadata JSON", "id", wo.ID, "err", err)
		}
	}
	return wo, nil
}

func workOrderArgs(wo models.WorkOrder) []any {
	photos := wo.PhotoURLs
	if photos == nil {
		photos = []string{}
	}
	return []any{
		wo.ID, wo.Type, wo.Title, wo.Description, wo.Category, wo.Urgency, wo.Status,
		wo.IsVerified, wo.IsDeleted, wo.HallName, wo.HallArea, wo.Reporter,
		wo.ProcessingMethod, wo.ProcessingDescription, wo.Vendor, toFloat8(wo.Amount), wo.PaymentEntity,
		wo.IsSignedSent, toTimestamptz(wo.SignedSentDate), wo.IsWorkFinished, toTimestamptz(wo.CompletionDate),
		wo.IsInvoiceConfirmed, wo.IsPaymentSent, toTimestamptz(wo.PaymentDate), wo.Remarks,
		photos, toJSONB(wo.PhotoMetadata), toTimestamptz(wo.LastExecutedDate), wo.MaintenanceCycle,
		wo.StaffInCharge, wo.CreatedAt, wo.UpdatedAt,
	}
}

func placeholders(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("$%d", i+1)
	}
	return strings.Join(parts, ", ")
}

var insertWorkOrderSQL = fmt.Sprintf(
	`INSERT INTO work_orders (%s) VALUES (%s)`, workOrderCols, placeholders(32))

// updateWorkOrderSQL writes every mutable column; id, type and created_at
// never change after creation.
const updateWorkOrderSQL = `UPDATE work_orders SET
	title = $2, description = $3, category = $4, urgency = $5, status = $6,
	is_verified = $7, is_deleted = $8, hall_name = $9, hall_area = $10, reporter = $11,
	processing_method = $12, processing_description = $13, vendor = $14, amount = $15,
	payment_entity = $16, is_signed_sent = $17, signed_sent_date = $18,
	is_work_finished = $19, completion_date = $20, is_invoice_confirmed = $21,
	is_payment_sent = $22, payment_date = $23, remarks = $24,
	photo_urls = $25, photo_metadata = $26, last_executed_date = $27,
	maintenance_cycle = $28, staff_in_charge = $29, updated_at = $30
WHERE id = $1`

func updateWorkOrderArgs(wo models.WorkOrder) []any {
	photos := wo.PhotoURLs
	if photos == nil {
		photos = []string{}
	}
	return []any{
		wo.ID,
		wo.Title, wo.Description, wo.Category, wo.Urgency, wo.Status,
		wo.IsVerified, wo.IsDeleted, wo.HallName, wo.HallArea, wo.Reporter,
		wo.ProcessingMethod, wo.ProcessingDescription, wo.Vendor, toFloat8(wo.Amount),
		wo.PaymentEntity, wo.IsSignedSent, toTimestamptz(wo.SignedSentDate),
		wo.IsWorkFinished, toTimestamptz(wo.CompletionDate), wo.IsInvoiceConfirmed,
		wo.IsPaymentSent, toTimestamptz(wo.PaymentDate), wo.Remarks,
		photos, toJSONB(wo.PhotoMetadata), toTimestamptz(wo.LastExecutedDate),
		wo.MaintenanceCycle, wo.StaffInCharge, wo.UpdatedAt,
	}
}

func (p *pgRepo) CreateWorkOrder(ctx context.Context, wo models.WorkOrder) error {
	_, err := p.pool.Exec(ctx, insertWorkOrderSQL, workOrderArgs(wo)...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return models.ErrDuplicateID
		}
		slog.ErrorContext(ctx, "CreateWorkOrder failed", "id", wo.ID, "err", err)
		return err
	}
	return nil
}

func (p *pgRepo) GetWorkOrder(ctx context.Context, id string) (models.WorkOrder, error) {
	row := p.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT %s FROM work_orders WHERE id = $1`, workOrderCols), id)
	wo, err := scanWorkOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.WorkOrder{}, models.ErrWorkOrderNotFound
	}
	if err != nil {
		slog.ErrorContext(ctx, "GetWorkOrder failed", "id", id, "err", err)
		return models.WorkOrder{}, err
	}
	return wo, nil
}

func (p *pgRepo) ListWorkOrders(ctx context.Context, f models.WorkOrderFilter) ([]models.WorkOrder, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.Status != nil {
		add("status = $%d", *f.Status)
	}
	if f.Category != nil {
		add("category = $%d", *f.Category)
	}
	if f.Urgency != nil {
		add("urgency = $%d", *f.Urgency)
	}
	if f.Type != nil {
		add("type = $%d", *f.Type)
	}
	if f.Verified != nil {
		add("is_verified = $%d", *f.Verified)
	}
	if f.Deleted != nil {
		add("is_deleted = $%d", *f.Deleted)
	}
	if f.HallName != "" {
		add("hall_name = $%d", f.HallName)
	}

	sql := fmt.Sprintf(`SELECT %s FROM work_orders`, workOrderCols)
	if len(where) > 0 {
		sql += " WHERE " + strings.Join(where, " AND ")
	}
	sql += " ORDER BY created_at DESC, id"

	rows, err := p.pool.Query(ctx, sql, args...)
	if err != nil {
		slog.ErrorContext(ctx, "ListWorkOrders failed", "err", err)
		return nil, err
	}
	defer rows.Close()

	out := []models.WorkOrder{}
	for rows.Next() {
		wo, err := scanWorkOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, wo)
	}
	return out, rows.Err()
}

func (p *pgRepo) UpdateWorkOrder(ctx context.Context, wo models.WorkOrder) error {
	tag, err := p.pool.Exec(ctx, updateWorkOrderSQL, updateWorkOrderArgs(wo)...)
	if err != nil {
		slog.ErrorContext(ctx, "UpdateWorkOrder failed", "id", wo.ID, "err", err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrWorkOrderNotFound
	}
	return nil
}

// UpdateWorkOrders writes the batch in one transaction so a bulk submission
// is all-or-nothing.
func (p *pgRepo) UpdateWorkOrders(ctx context.Context, wos []models.WorkOrder) error {
	if len(wos) == 0 {
		return nil
	}
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, wo := range wos {
		tag, err := tx.Exec(ctx, updateWorkOrderSQL, updateWorkOrderArgs(wo)...)
		if err != nil {
			slog.ErrorContext(ctx, "UpdateWorkOrders failed", "id", wo.ID, "err", err)
			return err
		}
		if tag.RowsAffected() == 0 {
			return models.ErrWorkOrderNotFound
		}
	}
	return tx.Commit(ctx)
}

func (p *pgRepo) DeleteWorkOrder(ctx context.Context, id string) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM work_orders WHERE id = $1`, id)
	if err != nil {
		slog.ErrorContext(ctx, "DeleteWorkOrder failed", "id", id, "err", err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrWorkOrderNotFound
	}
	return nil
}
