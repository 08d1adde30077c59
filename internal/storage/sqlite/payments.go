package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/billbook/backend/internal/models"
	"github.com/billbook/backend/internal/storage"
)

// ApplyPayment updates a bill's paid/pending amounts and, when payment is
// non-nil, appends the payment record. Both writes share one transaction
// so a bill can never be updated without its audit entry.
func (s *SQLiteStore) ApplyPayment(ctx context.Context, bill *models.Bill, payment *models.Payment) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE bills SET paid_amount = ?, pending_amount = ? WHERE id = ?",
		bill.PaidAmount, bill.PendingAmount, bill.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update bill: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}

	if payment != nil {
		if payment.ID == "" {
			payment.ID = uuid.New().String()
		}
		now := time.Now().Unix()
		if payment.Date == 0 {
			payment.Date = now
		}
		if payment.CreatedAt == 0 {
			payment.CreatedAt = now
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO payments (id, bill_id, store_id, amount, previous_paid, new_paid, date, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			payment.ID, payment.Bill.ID, payment.Store.ID,
			payment.Amount, payment.PreviousPaid, payment.NewPaid,
			payment.Date, payment.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert payment: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ListPayments returns a page of payments newest-first by date, then by
// creation time, along with the total count matching the date bounds.
func (s *SQLiteStore) ListPayments(ctx context.Context, q storage.PaymentQuery) ([]*models.Payment, int64, error) {
	var conds []string
	var args []interface{}
	if q.From != nil {
		conds = append(conds, "p.date >= ?")
		args = append(args, *q.From)
	}
	if q.To != nil {
		conds = append(conds, "p.date <= ?")
		args = append(args, *q.To)
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int64
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM payments p"+where, args...,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count payments: %w", err)
	}

	query := `SELECT p.id, p.bill_id, b.bill_number, p.store_id, st.name,
	                 p.amount, p.previous_paid, p.new_paid, p.date, p.created_at
	          FROM payments p
	          JOIN bills b ON b.id = p.bill_id
	          JOIN stores st ON st.id = p.store_id` +
		where + " ORDER BY p.date DESC, p.created_at DESC LIMIT ? OFFSET ?"
	args = append(args, q.Limit, q.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		p := &models.Payment{}
		if err := rows.Scan(&p.ID, &p.Bill.ID, &p.Bill.BillNumber, &p.Store.ID, &p.Store.Name,
			&p.Amount, &p.PreviousPaid, &p.NewPaid, &p.Date, &p.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate payments: %w", err)
	}

	return payments, total, nil
}
