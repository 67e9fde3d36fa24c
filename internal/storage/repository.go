package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"financas/internal/core"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a row targeted by id does not exist.
var ErrNotFound = errors.New("not found")

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// --- transactions ---

// ListTransactions returns records inside the range, newest first. Both
// range bounds and the type filter are optional.
func (r *SQLiteRepository) ListTransactions(ctx context.Context, rng core.DateRange, typ core.RecordType) ([]core.Transaction, error) {
	query := `SELECT id, date, description, amount_cents, COALESCE(category_id, 0), type
		FROM transactions`
	var conds []string
	var args []any
	if rng.From != "" {
		conds = append(conds, "date >= ?")
		args = append(args, rng.From)
	}
	if rng.To != "" {
		conds = append(conds, "date <= ?")
		args = append(args, rng.To)
	}
	if typ != "" {
		conds = append(conds, "type = ?")
		args = append(args, string(typ))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY date DESC, id DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		var t core.Transaction
		if err := rows.Scan(&t.ID, &t.Date, &t.Description, &t.Amount.Cents, &t.CategoryID, &t.Type); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (date, description, amount_cents, category_id, type)
		VALUES (?, ?, ?, ?, ?)`,
		t.Date, t.Description, t.Amount.Cents, nullableID(t.CategoryID), string(t.Type))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}
	t.ID, err = res.LastInsertId()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("transaction insert id: %w", err)
	}
	return t, nil
}

func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, t core.Transaction) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions
		SET date = ?, description = ?, amount_cents = ?, category_id = ?, type = ?
		WHERE id = ?`,
		t.Date, t.Description, t.Amount.Cents, nullableID(t.CategoryID), string(t.Type), t.ID)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	return requireAffected(res, "transaction")
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM transactions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return requireAffected(res, "transaction")
}

// RangeTotals sums income and expense amounts inside the range.
func (r *SQLiteRepository) RangeTotals(ctx context.Context, rng core.DateRange) (income, expense int64, err error) {
	query := `SELECT type, COALESCE(SUM(amount_cents), 0)
		FROM transactions`
	var conds []string
	var args []any
	if rng.From != "" {
		conds = append(conds, "date >= ?")
		args = append(args, rng.From)
	}
	if rng.To != "" {
		conds = append(conds, "date <= ?")
		args = append(args, rng.To)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " GROUP BY type"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return 0, 0, fmt.Errorf("range totals: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var typ string
		var total int64
		if err := rows.Scan(&typ, &total); err != nil {
			return 0, 0, fmt.Errorf("scan range total: %w", err)
		}
		switch core.RecordType(typ) {
		case core.Income:
			income = total
		case core.Expense:
			expense = total
		}
	}
	if err := rows.Err(); err != nil {
		return 0, 0, fmt.Errorf("iterate range totals: %w", err)
	}
	return income, expense, nil
}

// CategoryBreakdown sums amounts per category inside the range, largest
// first. Uncategorized records land in a synthetic zero-id bucket.
func (r *SQLiteRepository) CategoryBreakdown(ctx context.Context, rng core.DateRange, typ core.RecordType) ([]core.CategorySum, error) {
	query := `SELECT COALESCE(t.category_id, 0), COALESCE(c.name, ''), COALESCE(c.color, ''), SUM(t.amount_cents)
		FROM transactions t
		LEFT JOIN categories c ON c.id = t.category_id
		WHERE t.type = ?`
	args := []any{string(typ)}
	if rng.From != "" {
		query += " AND t.date >= ?"
		args = append(args, rng.From)
	}
	if rng.To != "" {
		query += " AND t.date <= ?"
		args = append(args, rng.To)
	}
	query += " GROUP BY t.category_id ORDER BY SUM(t.amount_cents) DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("category breakdown: %w", err)
	}
	defer rows.Close()

	var out []core.CategorySum
	for rows.Next() {
		var s core.CategorySum
		if err := rows.Scan(&s.CategoryID, &s.Name, &s.Color, &s.TotalCents); err != nil {
			return nil, fmt.Errorf("scan category sum: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category breakdown: %w", err)
	}
	return out, nil
}

// MonthTransactions returns all records of a calendar month, oldest
// first, for report exports.
func (r *SQLiteRepository) MonthTransactions(ctx context.Context, year, month int) ([]core.Transaction, error) {
	rng := core.MonthRange(year, month)
	query := `SELECT id, date, description, amount_cents, COALESCE(category_id, 0), type
		FROM transactions
		WHERE date >= ? AND date <= ?
		ORDER BY date ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, rng.From, rng.To)
	if err != nil {
		return nil, fmt.Errorf("month transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		var t core.Transaction
		if err := rows.Scan(&t.ID, &t.Date, &t.Description, &t.Amount.Cents, &t.CategoryID, &t.Type); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate month transactions: %w", err)
	}
	return out, nil
}

// --- categories ---

func (r *SQLiteRepository) ListCategories(ctx context.Context, typ core.RecordType) ([]core.Category, error) {
	query := `SELECT id, name, description, type, color FROM categories`
	var args []any
	if typ != "" {
		query += " WHERE type = ?"
		args = append(args, string(typ))
	}
	query += " ORDER BY name ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []core.Category
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.Type, &c.Color); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) CreateCategory(ctx context.Context, c core.Category) (core.Category, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (name, description, type, color) VALUES (?, ?, ?, ?)`,
		c.Name, c.Description, string(c.Type), c.Color)
	if err != nil {
		return core.Category{}, fmt.Errorf("create category: %w", err)
	}
	c.ID, err = res.LastInsertId()
	if err != nil {
		return core.Category{}, fmt.Errorf("category insert id: %w", err)
	}
	return c, nil
}

func (r *SQLiteRepository) UpdateCategory(ctx context.Context, c core.Category) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE categories SET name = ?, description = ?, type = ?, color = ? WHERE id = ?`,
		c.Name, c.Description, string(c.Type), c.Color, c.ID)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return requireAffected(res, "category")
}

func (r *SQLiteRepository) DeleteCategory(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM categories WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return requireAffected(res, "category")
}

// --- cards ---

func (r *SQLiteRepository) ListCards(ctx context.Context) ([]core.Card, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, display_name, nickname, issuer, brand, last_four,
			total_limit_cents, used_amount_cents, is_primary
		FROM cards
		ORDER BY is_primary DESC, display_name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	defer rows.Close()

	var out []core.Card
	for rows.Next() {
		var c core.Card
		if err := rows.Scan(&c.ID, &c.DisplayName, &c.Nickname, &c.Issuer, &c.Brand, &c.LastFour,
			&c.TotalLimit.Cents, &c.UsedAmount.Cents, &c.IsPrimary); err != nil {
			return nil, fmt.Errorf("scan card: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cards: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) CreateCard(ctx context.Context, c core.Card) (core.Card, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO cards (display_name, nickname, issuer, brand, last_four,
			total_limit_cents, used_amount_cents, is_primary)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.DisplayName, c.Nickname, c.Issuer, c.Brand, c.LastFour,
		c.TotalLimit.Cents, c.UsedAmount.Cents, c.IsPrimary)
	if err != nil {
		return core.Card{}, fmt.Errorf("create card: %w", err)
	}
	c.ID, err = res.LastInsertId()
	if err != nil {
		return core.Card{}, fmt.Errorf("card insert id: %w", err)
	}
	return c, nil
}

func (r *SQLiteRepository) UpdateCard(ctx context.Context, c core.Card) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE cards
		SET display_name = ?, nickname = ?, issuer = ?, brand = ?, last_four = ?,
			total_limit_cents = ?, used_amount_cents = ?
		WHERE id = ?`,
		c.DisplayName, c.Nickname, c.Issuer, c.Brand, c.LastFour,
		c.TotalLimit.Cents, c.UsedAmount.Cents, c.ID)
	if err != nil {
		return fmt.Errorf("update card: %w", err)
	}
	return requireAffected(res, "card")
}

func (r *SQLiteRepository) DeleteCard(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM cards WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete card: %w", err)
	}
	return requireAffected(res, "card")
}

// SetPrimaryCard demotes the current primary and promotes the given
// card in a single transaction, so there is never more than one.
func (r *SQLiteRepository) SetPrimaryCard(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin set primary card: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "UPDATE cards SET is_primary = 0 WHERE is_primary = 1"); err != nil {
		return fmt.Errorf("demote primary card: %w", err)
	}
	res, err := tx.ExecContext(ctx, "UPDATE cards SET is_primary = 1 WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("promote primary card: %w", err)
	}
	if err := requireAffected(res, "card"); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit set primary card: %w", err)
	}
	return nil
}

// --- goals ---

func (r *SQLiteRepository) ListGoals(ctx context.Context, status core.GoalStatus) ([]core.Goal, error) {
	query := `SELECT id, title, description, type, target_cents, current_cents, deadline, status,
			COALESCE(category_id, 0), COALESCE(card_id, 0),
			reflection_why, reflection_change, reflection_feeling, created_at
		FROM goals`
	var args []any
	if status != "" {
		query += " WHERE status = ?"
		args = append(args, string(status))
	}
	query += " ORDER BY deadline ASC, id ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var out []core.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate goals: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) GetGoal(ctx context.Context, id int64) (core.Goal, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, title, description, type, target_cents, current_cents, deadline, status,
			COALESCE(category_id, 0), COALESCE(card_id, 0),
			reflection_why, reflection_change, reflection_feeling, created_at
		FROM goals WHERE id = ?`, id)
	g, err := scanGoal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Goal{}, fmt.Errorf("goal %d: %w", id, ErrNotFound)
	}
	return g, err
}

func (r *SQLiteRepository) CreateGoal(ctx context.Context, g core.Goal) (core.Goal, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO goals (title, description, type, target_cents, current_cents, deadline, status,
			category_id, card_id, reflection_why, reflection_change, reflection_feeling, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.Title, g.Description, string(g.Type), g.TargetAmount.Cents, g.CurrentAmount.Cents,
		g.Deadline, string(g.Status), nullableID(g.CategoryID), nullableID(g.CardID),
		g.ReflectionWhy, g.ReflectionChange, g.ReflectionFeeling, g.CreatedAt)
	if err != nil {
		return core.Goal{}, fmt.Errorf("create goal: %w", err)
	}
	g.ID, err = res.LastInsertId()
	if err != nil {
		return core.Goal{}, fmt.Errorf("goal insert id: %w", err)
	}
	return g, nil
}

func (r *SQLiteRepository) UpdateGoal(ctx context.Context, g core.Goal) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE goals
		SET title = ?, description = ?, type = ?, target_cents = ?, current_cents = ?,
			deadline = ?, status = ?, category_id = ?, card_id = ?,
			reflection_why = ?, reflection_change = ?, reflection_feeling = ?
		WHERE id = ?`,
		g.Title, g.Description, string(g.Type), g.TargetAmount.Cents, g.CurrentAmount.Cents,
		g.Deadline, string(g.Status), nullableID(g.CategoryID), nullableID(g.CardID),
		g.ReflectionWhy, g.ReflectionChange, g.ReflectionFeeling, g.ID)
	if err != nil {
		return fmt.Errorf("update goal: %w", err)
	}
	return requireAffected(res, "goal")
}

func (r *SQLiteRepository) DeleteGoal(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM goals WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	return requireAffected(res, "goal")
}

// AddGoalProgress increments the goal's running total and flips the
// status to completed when the target is reached, in one statement.
func (r *SQLiteRepository) AddGoalProgress(ctx context.Context, goalID, addedCents int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE goals
		SET current_cents = current_cents + ?,
			status = CASE
				WHEN current_cents + ? >= target_cents AND status = 'active' THEN 'completed'
				ELSE status
			END
		WHERE id = ?`,
		addedCents, addedCents, goalID)
	if err != nil {
		return fmt.Errorf("add goal progress: %w", err)
	}
	return requireAffected(res, "goal")
}

// --- check-ins ---

func (r *SQLiteRepository) CreateCheckIn(ctx context.Context, c core.CheckIn) (core.CheckIn, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO check_ins (goal_id, date, mood, obstacles, added_cents, note)
		VALUES (?, ?, ?, ?, ?, ?)`,
		c.GoalID, c.Date, string(moodOrNeutral(c.Mood)), c.Obstacles, c.AddedValue.Cents, c.Note)
	if err != nil {
		return core.CheckIn{}, fmt.Errorf("create check-in: %w", err)
	}
	c.ID, err = res.LastInsertId()
	if err != nil {
		return core.CheckIn{}, fmt.Errorf("check-in insert id: %w", err)
	}
	return c, nil
}

// ListCheckIns returns a goal's check-ins, newest first.
func (r *SQLiteRepository) ListCheckIns(ctx context.Context, goalID int64) ([]core.CheckIn, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, goal_id, date, mood, obstacles, added_cents, note
		FROM check_ins WHERE goal_id = ?
		ORDER BY date DESC, id DESC`, goalID)
	if err != nil {
		return nil, fmt.Errorf("list check-ins: %w", err)
	}
	defer rows.Close()

	var out []core.CheckIn
	for rows.Next() {
		var c core.CheckIn
		if err := rows.Scan(&c.ID, &c.GoalID, &c.Date, &c.Mood, &c.Obstacles, &c.AddedValue.Cents, &c.Note); err != nil {
			return nil, fmt.Errorf("scan check-in: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate check-ins: %w", err)
	}
	return out, nil
}

// --- future launches ---

func (r *SQLiteRepository) ListFutureLaunches(ctx context.Context, status core.LaunchStatus) ([]core.FutureLaunch, error) {
	query := `SELECT id, date, description, amount_cents, COALESCE(category_id, 0), type, status
		FROM future_launches`
	var args []any
	if status != "" {
		query += " WHERE status = ?"
		args = append(args, string(status))
	}
	query += " ORDER BY date ASC, id ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list future launches: %w", err)
	}
	defer rows.Close()

	var out []core.FutureLaunch
	for rows.Next() {
		var l core.FutureLaunch
		if err := rows.Scan(&l.ID, &l.Date, &l.Description, &l.Amount.Cents, &l.CategoryID, &l.Type, &l.Status); err != nil {
			return nil, fmt.Errorf("scan future launch: %w", err)
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate future launches: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) CreateFutureLaunch(ctx context.Context, l core.FutureLaunch) (core.FutureLaunch, error) {
	if l.Status == "" {
		l.Status = core.LaunchPending
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO future_launches (date, description, amount_cents, category_id, type, status)
		VALUES (?, ?, ?, ?, ?, ?)`,
		l.Date, l.Description, l.Amount.Cents, nullableID(l.CategoryID), string(l.Type), string(l.Status))
	if err != nil {
		return core.FutureLaunch{}, fmt.Errorf("create future launch: %w", err)
	}
	l.ID, err = res.LastInsertId()
	if err != nil {
		return core.FutureLaunch{}, fmt.Errorf("future launch insert id: %w", err)
	}
	return l, nil
}

func (r *SQLiteRepository) UpdateFutureLaunch(ctx context.Context, l core.FutureLaunch) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE future_launches
		SET date = ?, description = ?, amount_cents = ?, category_id = ?, type = ?
		WHERE id = ?`,
		l.Date, l.Description, l.Amount.Cents, nullableID(l.CategoryID), string(l.Type), l.ID)
	if err != nil {
		return fmt.Errorf("update future launch: %w", err)
	}
	return requireAffected(res, "future launch")
}

func (r *SQLiteRepository) DeleteFutureLaunch(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM future_launches WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete future launch: %w", err)
	}
	return requireAffected(res, "future launch")
}

// CompleteFutureLaunch marks a pending launch completed and realizes it
// as a transaction on the given date, atomically. Completing twice is
// rejected with ErrNotFound since no pending row matches.
func (r *SQLiteRepository) CompleteFutureLaunch(ctx context.Context, id int64, date string) (core.Transaction, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("begin complete launch: %w", err)
	}
	defer tx.Rollback()

	var l core.FutureLaunch
	err = tx.QueryRowContext(ctx,
		`SELECT id, date, description, amount_cents, COALESCE(category_id, 0), type
		FROM future_launches WHERE id = ? AND status = 'pending'`, id).
		Scan(&l.ID, &l.Date, &l.Description, &l.Amount.Cents, &l.CategoryID, &l.Type)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, fmt.Errorf("pending launch %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("load pending launch: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE future_launches SET status = 'completed' WHERE id = ?", id); err != nil {
		return core.Transaction{}, fmt.Errorf("complete future launch: %w", err)
	}

	t := core.Transaction{
		Date:        date,
		Description: l.Description,
		Amount:      l.Amount,
		CategoryID:  l.CategoryID,
		Type:        l.Type,
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO transactions (date, description, amount_cents, category_id, type)
		VALUES (?, ?, ?, ?, ?)`,
		t.Date, t.Description, t.Amount.Cents, nullableID(t.CategoryID), string(t.Type))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("realize launch: %w", err)
	}
	t.ID, err = res.LastInsertId()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("realized transaction id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return core.Transaction{}, fmt.Errorf("commit complete launch: %w", err)
	}
	return t, nil
}

// --- helpers ---

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGoal(row rowScanner) (core.Goal, error) {
	var g core.Goal
	err := row.Scan(&g.ID, &g.Title, &g.Description, &g.Type, &g.TargetAmount.Cents, &g.CurrentAmount.Cents,
		&g.Deadline, &g.Status, &g.CategoryID, &g.CardID,
		&g.ReflectionWhy, &g.ReflectionChange, &g.ReflectionFeeling, &g.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Goal{}, err
		}
		return core.Goal{}, fmt.Errorf("scan goal: %w", err)
	}
	return g, nil
}

func nullableID(id int64) any {
	if id <= 0 {
		return nil
	}
	return id
}

func moodOrNeutral(m core.Mood) core.Mood {
	if m == "" {
		return core.MoodNeutral
	}
	return m
}

func requireAffected(res sql.Result, entity string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", entity, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", entity, ErrNotFound)
	}
	return nil
}
