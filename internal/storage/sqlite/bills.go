package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/billbook/backend/internal/models"
	"github.com/billbook/backend/internal/storage"
)

// CreateBill persists a new bill and its product lines in one transaction.
func (s *SQLiteStore) CreateBill(ctx context.Context, bill *models.Bill) error {
	// Generate IDs and timestamps if not set
	if bill.ID == "" {
		bill.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if bill.Date == 0 {
		bill.Date = now
	}
	if bill.CreatedAt == 0 {
		bill.CreatedAt = now
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO bills (id, bill_number, store_id, grand_total, paid_amount, pending_amount, date, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		bill.ID, bill.BillNumber, bill.Store.ID,
		bill.GrandTotal, bill.PaidAmount, bill.PendingAmount,
		bill.Date, bill.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrDuplicateBillNumber
		}
		return fmt.Errorf("failed to insert bill: %w", err)
	}

	// Insert product lines, preserving submitted order
	for i := range bill.Products {
		p := &bill.Products[i]
		var quantity interface{}
		if p.Quantity != nil {
			quantity = *p.Quantity
		}
		var code interface{}
		if p.ProductCode != "" {
			code = p.ProductCode
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO bill_products (id, bill_id, position, product_name, product_code, quantity, subtotal, final_price)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			uuid.New().String(), bill.ID, i,
			p.ProductName, code, quantity, p.Subtotal, p.FinalPrice,
		)
		if err != nil {
			return fmt.Errorf("failed to insert product line: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetBill retrieves a bill by ID, including its product lines and the
// owning store's name.
func (s *SQLiteStore) GetBill(ctx context.Context, billID string) (*models.Bill, error) {
	bill := &models.Bill{}
	err := s.db.QueryRowContext(ctx,
		`SELECT b.id, b.bill_number, b.store_id, st.name, b.grand_total, b.paid_amount, b.pending_amount, b.date, b.created_at
		 FROM bills b
		 JOIN stores st ON st.id = b.store_id
		 WHERE b.id = ?`,
		billID,
	).Scan(&bill.ID, &bill.BillNumber, &bill.Store.ID, &bill.Store.Name,
		&bill.GrandTotal, &bill.PaidAmount, &bill.PendingAmount, &bill.Date, &bill.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}

	if err := s.loadProducts(ctx, bill); err != nil {
		return nil, err
	}

	return bill, nil
}

// BillNumberExists reports whether any bill already uses the number.
func (s *SQLiteStore) BillNumberExists(ctx context.Context, number int64) (bool, error) {
	var exists int
	err := s.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM bills WHERE bill_number = ?)",
		number,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check bill number: %w", err)
	}
	return exists == 1, nil
}

// SearchBills returns bills matching the filter, newest-first.
// A zero filter returns all bills.
func (s *SQLiteStore) SearchBills(ctx context.Context, filter storage.BillFilter) ([]*models.Bill, error) {
	query := strings.Builder{}
	query.WriteString(
		`SELECT b.id, b.bill_number, b.store_id, st.name, b.grand_total, b.paid_amount, b.pending_amount, b.date, b.created_at
		 FROM bills b
		 JOIN stores st ON st.id = b.store_id`)

	var conds []string
	var args []interface{}
	if filter.BillNumber != nil {
		conds = append(conds, "b.bill_number = ?")
		args = append(args, *filter.BillNumber)
	}
	if filter.StoreID != "" {
		conds = append(conds, "b.store_id = ?")
		args = append(args, filter.StoreID)
	}
	if len(conds) > 0 {
		query.WriteString(" WHERE " + strings.Join(conds, " AND "))
	}
	query.WriteString(" ORDER BY b.date DESC, b.created_at DESC")

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search bills: %w", err)
	}
	defer rows.Close()

	var bills []*models.Bill
	for rows.Next() {
		bill := &models.Bill{}
		if err := rows.Scan(&bill.ID, &bill.BillNumber, &bill.Store.ID, &bill.Store.Name,
			&bill.GrandTotal, &bill.PaidAmount, &bill.PendingAmount, &bill.Date, &bill.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan bill: %w", err)
		}
		bills = append(bills, bill)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bills: %w", err)
	}

	for _, bill := range bills {
		if err := s.loadProducts(ctx, bill); err != nil {
			return nil, err
		}
	}

	return bills, nil
}

// loadProducts fills a bill's product lines in submitted order.
func (s *SQLiteStore) loadProducts(ctx context.Context, bill *models.Bill) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT product_name, product_code, quantity, subtotal, final_price
		 FROM bill_products WHERE bill_id = ? ORDER BY position`,
		bill.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get product lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p models.ProductLine
		var code sql.NullString
		var quantity sql.NullFloat64
		if err := rows.Scan(&p.ProductName, &code, &quantity, &p.Subtotal, &p.FinalPrice); err != nil {
			return fmt.Errorf("failed to scan product line: %w", err)
		}
		if code.Valid {
			p.ProductCode = code.String
		}
		if quantity.Valid {
			q := quantity.Float64
			p.Quantity = &q
		}
		bill.Products = append(bill.Products, p)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate product lines: %w", err)
	}

	return nil
}
