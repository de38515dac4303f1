package database

// Order queries
const (
	LockOrderNumbersSQL = `SELECT pg_advisory_xact_lock(hashtext('orders.order_number'))`

	GetNextOrderNumberSQL = `
		SELECT COALESCE(MAX(CAST(SUBSTRING(order_number FROM 'ORD_[0-9]{8}_([0-9]+)') AS INTEGER)), 0) + 1
		FROM orders
		WHERE order_number LIKE $1`

	InsertOrderSQL = `
		INSERT INTO orders (order_number, table_id, total_amount)
		VALUES ($1, $2, $3)
		RETURNING id, status, payment_method, payment_status, version, created_at, updated_at`

	InsertOrderItemSQL = `
		INSERT INTO order_items (order_id, position, menu_item_id, name, quantity, price, customizations, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	// IncrementOrderTotalSQL adds to the stored total instead of overwriting it, so concurrent
	// additions cannot lose each other's amounts. Terminal orders match no row.
	IncrementOrderTotalSQL = `
		UPDATE orders
		SET total_amount = total_amount + $2, version = version + 1, updated_at = NOW()
		WHERE id = $1 AND status NOT IN ('complete', 'cancelled')
		RETURNING version`

	MaxOrderItemPositionSQL = `
		SELECT COALESCE(MAX(position), 0) FROM order_items WHERE order_id = $1`

	GetOrderStatusSQL = `SELECT status FROM orders WHERE id = $1`

	GetOrderSQL = `
		SELECT id, order_number, table_id, status, total_amount, payment_method, payment_status,
			   payment_transaction_id, payment_id, payment_date, version, created_at, updated_at, completed_at
		FROM orders WHERE id = $1`

	ListOrdersSQL = `
		SELECT id, order_number, table_id, status, total_amount, payment_method, payment_status,
			   payment_transaction_id, payment_id, payment_date, version, created_at, updated_at, completed_at
		FROM orders
		WHERE ($1::uuid IS NULL OR table_id = $1)
		ORDER BY created_at DESC
		LIMIT $2`

	GetOrderItemsSQL = `
		SELECT position, menu_item_id, name, quantity, price, customizations, notes
		FROM order_items
		WHERE order_id = $1
		ORDER BY position ASC`

	// UpdateOrderStatusSQL only applies when the row still holds the expected status.
	UpdateOrderStatusSQL = `
		UPDATE orders
		SET status = $3::text,
			version = version + 1,
			updated_at = NOW(),
			completed_at = CASE WHEN $3::text IN ('complete', 'cancelled') THEN NOW() ELSE completed_at END
		WHERE id = $1 AND status = $2`

	InsertOrderStatusLogSQL = `
		INSERT INTO order_status_log (order_id, status, changed_by, notes)
		VALUES ($1, $2, $3, $4)`

	GetOrderStatusHistorySQL = `
		SELECT status, changed_by, changed_at, notes
		FROM order_status_log
		WHERE order_id = $1
		ORDER BY changed_at ASC, id ASC`

	OrderExistsSQL = `SELECT EXISTS(SELECT 1 FROM orders WHERE id = $1)`

	UpdateOrderPaymentSQL = `
		UPDATE orders
		SET payment_method = $2, payment_status = $3, payment_transaction_id = $4,
			payment_id = $5, payment_date = $6, updated_at = NOW()
		WHERE id = $1`

	UpdateOrderPaymentStatusSQL = `
		UPDATE orders SET payment_status = $2, updated_at = NOW() WHERE id = $1`
)

// Catalog queries
const (
	ListCategoriesSQL = `
		SELECT id, name, description, created_at
		FROM categories
		ORDER BY name ASC`

	ListMenuItemsSQL = `
		SELECT m.id, m.name, m.description, m.price, m.category_id, c.name, m.is_available,
			   m.image_url, m.customizations, m.created_at
		FROM menu_items m
		LEFT JOIN categories c ON c.id = m.category_id
		ORDER BY m.name ASC`

	GetMenuItemsByIDsSQL = `
		SELECT m.id, m.name, m.description, m.price, m.category_id, c.name, m.is_available,
			   m.image_url, m.customizations, m.created_at
		FROM menu_items m
		LEFT JOIN categories c ON c.id = m.category_id
		WHERE m.id = ANY($1)`

	ListTablesSQL = `
		SELECT id, table_number, capacity, created_at
		FROM dining_tables
		ORDER BY table_number ASC`

	GetTableSQL = `
		SELECT id, table_number, capacity, created_at
		FROM dining_tables WHERE id = $1`
)

// Payment queries
const (
	InsertPaymentSQL = `
		INSERT INTO payments (order_id, amount, method)
		VALUES ($1, $2, $3)
		RETURNING id, status, payment_data, created_at, updated_at`

	GetPaymentSQL = `
		SELECT id, order_id, amount, method, status, transaction_id, ref_id, payment_data,
			   payment_date, created_at, updated_at
		FROM payments WHERE id = $1`

	// SettlePaymentSQL moves a pending payment to paid or failed.
	SettlePaymentSQL = `
		UPDATE payments
		SET status = $2, transaction_id = $3, ref_id = $4, payment_data = $5, payment_date = $6, updated_at = NOW()
		WHERE id = $1 AND status = 'pending'`
)

// QR code queries
const (
	LockQRCodesSQL = `SELECT pg_advisory_xact_lock(hashtext('qr_codes.version'))`

	NextQRCodeVersionSQL = `SELECT COALESCE(MAX(version), 0) + 1 FROM qr_codes`

	DeactivateQRCodesSQL = `UPDATE qr_codes SET is_active = FALSE WHERE is_active`

	InsertQRCodeSQL = `
		INSERT INTO qr_codes (image_url, public_id, version, is_active)
		VALUES ($1, $2, $3, TRUE)
		RETURNING id, created_at`

	GetActiveQRCodeSQL = `
		SELECT id, image_url, public_id, version, is_active, created_at
		FROM qr_codes
		WHERE is_active
		ORDER BY version DESC
		LIMIT 1`
)

// Staff queries
const (
	GetStaffByUsernameSQL = `
		SELECT id, username, password_hash, role, created_at
		FROM staff WHERE username = $1`

	UpsertStaffSQL = `
		INSERT INTO staff (username, password_hash, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (username) DO UPDATE SET password_hash = EXCLUDED.password_hash, role = EXCLUDED.role`
)

// Worker queries
const (
	InsertWorkerSQL = `
		INSERT INTO workers (name, status)
		VALUES ($1, 'online')
		ON CONFLICT (name) DO UPDATE SET
			status = 'online',
			last_seen = NOW()`

	UpdateWorkerStatusSQL = `
		UPDATE workers SET status = $1, last_seen = NOW()
		WHERE name = $2`

	IncrementWorkerTicketsSQL = `
		UPDATE workers SET last_seen = NOW(), tickets_accepted = tickets_accepted + 1
		WHERE name = $1`

	GetAllWorkersSQL = `
		SELECT name, status, last_seen, tickets_accepted, created_at
		FROM workers
		ORDER BY created_at ASC`

	CheckWorkerOnlineSQL = `
		SELECT COUNT(*) FROM workers WHERE name = $1 AND status = 'online' AND last_seen > NOW() - $2::interval`
)
