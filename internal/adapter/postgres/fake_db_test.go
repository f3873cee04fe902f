package postgres

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
)

var errBoom = errors.New("boom")

type fakeOrderRow struct {
	id        int64
	tableID   int64
	status    string
	total     int64
	note      *string
	createdAt time.Time
}

type fakeItemRow struct {
	id        int64
	orderID   int64
	productID int64
	quantity  int
	options   []byte
}

type fakeProduct struct {
	name     string
	price    int64
	category string
	options  []byte
	avail    bool
}

// fakeDB is a tiny SQL-shaped store: it answers the statements the repositories issue
// and only makes transactional writes visible on Commit.
type fakeDB struct {
	mu       sync.Mutex
	tables   map[int64]string
	products map[int64]fakeProduct
	orders   []fakeOrderRow
	items    []fakeItemRow

	nextOrderID int64
	nextItemID  int64
	clock       time.Time

	// failItemInsert makes the n-th item insert of a transaction fail (1-based)
	failItemInsert int
	failCommit     bool

	statements []string
	commits    int
	rollbacks  int

	migrations []string
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		tables: map[int64]string{1: "Bàn 1", 2: "Bàn 2"},
		products: map[int64]fakeProduct{
			1: {name: "Trà Sữa Trân Châu", price: 45000, category: "Trà sữa", options: []byte(`{"Size":["M","L"]}`), avail: true},
			3: {name: "Cà Phê Sữa Đá", price: 35000, category: "Cà phê", options: []byte(`{}`), avail: true},
			9: {name: "Hidden", price: 1, options: nil, avail: false},
		},
		clock: time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC),
	}
}

func (db *fakeDB) record(sql string) {
	db.statements = append(db.statements, strings.Join(strings.Fields(sql), " "))
}

func (db *fakeDB) executed(prefix string) int {
	db.mu.Lock()
	defer db.mu.Unlock()
	n := 0
	for _, s := range db.statements {
		if strings.HasPrefix(s, prefix) {
			n++
		}
	}
	return n
}

func (db *fakeDB) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.record(sql)

	switch {
	case strings.Contains(sql, "FROM schema_migrations"):
		out := make([][]any, len(db.migrations))
		for i, name := range db.migrations {
			out[i] = []any{name}
		}
		return &fakeRows{rows: out}, nil

	case strings.Contains(sql, "FROM order_items oi"):
		ids := map[int64]bool{}
		for _, id := range args[0].([]int64) {
			ids[id] = true
		}
		var out [][]any
		for _, it := range db.items {
			if !ids[it.orderID] {
				continue
			}
			name := ""
			if p, ok := db.products[it.productID]; ok {
				name = p.name
			}
			out = append(out, []any{it.id, it.orderID, it.productID, name, it.quantity, it.options})
		}
		return &fakeRows{rows: out}, nil

	case strings.Contains(sql, "FROM orders o") && strings.Contains(sql, "ANY($1)"):
		allowed := map[string]bool{}
		for _, s := range args[0].([]string) {
			allowed[s] = true
		}
		var picked []fakeOrderRow
		for _, o := range db.orders {
			if allowed[o.status] {
				picked = append(picked, o)
			}
		}
		sort.SliceStable(picked, func(i, j int) bool {
			if picked[i].createdAt.Equal(picked[j].createdAt) {
				return picked[i].id < picked[j].id
			}
			return picked[i].createdAt.Before(picked[j].createdAt)
		})
		out := make([][]any, len(picked))
		for i, o := range picked {
			out[i] = db.orderValues(o)
		}
		return &fakeRows{rows: out}, nil

	case strings.Contains(sql, "FROM products p"):
		ids := make([]int64, 0, len(db.products))
		for id, p := range db.products {
			if p.avail {
				ids = append(ids, id)
			}
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		out := make([][]any, len(ids))
		for i, id := range ids {
			out[i] = db.productValues(id)
		}
		return &fakeRows{rows: out}, nil
	}
	return nil, fmt.Errorf("fake: unexpected query %q", sql)
}

func (db *fakeDB) QueryRow(ctx context.Context, sql string, args ...any) Row {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.record(sql)

	switch {
	case strings.Contains(sql, "FROM orders o") && strings.Contains(sql, "o.id = $1"):
		id := args[0].(int64)
		for _, o := range db.orders {
			if o.id == id {
				return &fakeRow{values: db.orderValues(o)}
			}
		}
		return &fakeRow{err: pgx.ErrNoRows}
	case strings.Contains(sql, "FROM tables WHERE id"):
		if name, ok := db.tables[args[0].(int64)]; ok {
			return &fakeRow{values: []any{name}}
		}
		return &fakeRow{err: pgx.ErrNoRows}
	case strings.Contains(sql, "SELECT name FROM products WHERE id"):
		if p, ok := db.products[args[0].(int64)]; ok {
			return &fakeRow{values: []any{p.name}}
		}
		return &fakeRow{err: pgx.ErrNoRows}
	case strings.Contains(sql, "FROM products p"):
		id := args[0].(int64)
		if _, ok := db.products[id]; ok {
			return &fakeRow{values: db.productValues(id)}
		}
		return &fakeRow{err: pgx.ErrNoRows}
	}
	return &fakeRow{err: fmt.Errorf("fake: unexpected query row %q", sql)}
}

func (db *fakeDB) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.record(sql)

	if strings.Contains(sql, "CREATE TABLE IF NOT EXISTS schema_migrations") {
		return fakeTag(0), nil
	}
	if strings.Contains(sql, "UPDATE orders SET status") {
		status, id := args[0].(string), args[1].(int64)
		for i := range db.orders {
			if db.orders[i].id == id {
				db.orders[i].status = status
				return fakeTag(1), nil
			}
		}
		return fakeTag(0), nil
	}
	return nil, fmt.Errorf("fake: unexpected exec %q", sql)
}

func (db *fakeDB) Begin(ctx context.Context) (Tx, error) {
	return &fakeTx{db: db}, nil
}

func (db *fakeDB) Ping(ctx context.Context) error { return nil }
func (db *fakeDB) Close()                         {}

func (db *fakeDB) orderValues(o fakeOrderRow) []any {
	return []any{o.id, o.tableID, db.tables[o.tableID], o.status, o.total, o.note, o.createdAt}
}

func (db *fakeDB) productValues(id int64) []any {
	p := db.products[id]
	return []any{id, p.name, p.price, int64(1), p.category, "", p.options, p.avail}
}

type fakeTx struct {
	db          *fakeDB
	orders      []fakeOrderRow
	items       []fakeItemRow
	migrations  []string
	itemInserts int
	done        bool
}

func (tx *fakeTx) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	return tx.db.Query(ctx, sql, args...)
}

func (tx *fakeTx) QueryRow(ctx context.Context, sql string, args ...any) Row {
	switch {
	case strings.Contains(sql, "INSERT INTO orders"):
		tx.db.mu.Lock()
		defer tx.db.mu.Unlock()
		tx.db.record(sql)
		tx.db.nextOrderID++
		tx.db.clock = tx.db.clock.Add(time.Second)
		row := fakeOrderRow{
			id:        tx.db.nextOrderID,
			tableID:   args[0].(int64),
			status:    args[1].(string),
			total:     args[2].(int64),
			note:      args[3].(*string),
			createdAt: tx.db.clock,
		}
		tx.orders = append(tx.orders, row)
		return &fakeRow{values: []any{row.id, row.createdAt}}

	case strings.Contains(sql, "INSERT INTO order_items"):
		tx.db.mu.Lock()
		defer tx.db.mu.Unlock()
		tx.db.record(sql)
		tx.itemInserts++
		if tx.db.failItemInsert == tx.itemInserts {
			return &fakeRow{err: errBoom}
		}
		tx.db.nextItemID++
		row := fakeItemRow{
			id:        tx.db.nextItemID,
			orderID:   args[0].(int64),
			productID: args[1].(int64),
			quantity:  args[2].(int),
			options:   args[3].([]byte),
		}
		tx.items = append(tx.items, row)
		return &fakeRow{values: []any{row.id}}
	}
	return tx.db.QueryRow(ctx, sql, args...)
}

func (tx *fakeTx) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	switch {
	case strings.Contains(sql, "INSERT INTO schema_migrations"):
		tx.db.mu.Lock()
		defer tx.db.mu.Unlock()
		tx.db.record(sql)
		tx.migrations = append(tx.migrations, args[0].(string))
		return fakeTag(1), nil
	case strings.Contains(sql, "CREATE TABLE") || strings.Contains(sql, "INSERT INTO"):
		// migration bodies are accepted as-is
		tx.db.mu.Lock()
		defer tx.db.mu.Unlock()
		tx.db.record(sql)
		return fakeTag(0), nil
	}
	return tx.db.Exec(ctx, sql, args...)
}

func (tx *fakeTx) Commit(ctx context.Context) error {
	tx.db.mu.Lock()
	defer tx.db.mu.Unlock()
	if tx.done {
		return pgx.ErrTxClosed
	}
	tx.done = true
	if tx.db.failCommit {
		tx.db.rollbacks++
		return errBoom
	}
	tx.db.orders = append(tx.db.orders, tx.orders...)
	tx.db.items = append(tx.db.items, tx.items...)
	tx.db.migrations = append(tx.db.migrations, tx.migrations...)
	tx.db.commits++
	return nil
}

func (tx *fakeTx) Rollback(ctx context.Context) error {
	tx.db.mu.Lock()
	defer tx.db.mu.Unlock()
	if tx.done {
		return pgx.ErrTxClosed
	}
	tx.done = true
	tx.db.rollbacks++
	return nil
}

type fakeTag int64

func (t fakeTag) RowsAffected() int64 { return int64(t) }

type fakeRow struct {
	values []any
	err    error
}

func (r *fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	return assign(dest, r.values)
}

type fakeRows struct {
	rows [][]any
	pos  int
}

func (r *fakeRows) Next() bool {
	if r.pos >= len(r.rows) {
		return false
	}
	r.pos++
	return true
}

func (r *fakeRows) Scan(dest ...any) error { return assign(dest, r.rows[r.pos-1]) }
func (r *fakeRows) Err() error             { return nil }
func (r *fakeRows) Close()                 {}

func assign(dest []any, values []any) error {
	if len(dest) != len(values) {
		return fmt.Errorf("fake: scan %d columns into %d targets", len(values), len(dest))
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *int64:
			*p = values[i].(int64)
		case *int:
			*p = values[i].(int)
		case *string:
			*p = values[i].(string)
		case **string:
			*p = values[i].(*string)
		case *bool:
			*p = values[i].(bool)
		case *time.Time:
			*p = values[i].(time.Time)
		case *[]byte:
			*p = values[i].([]byte)
		default:
			return fmt.Errorf("fake: unsupported scan target %T", d)
		}
	}
	return nil
}
