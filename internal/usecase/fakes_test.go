package usecase_test

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"zajil/internal/domain/model"
	repo "zajil/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// =====================
// in-memory DB
// =====================

// memDB はトランザクションを1本ずつ実行し、失敗したらスナップショットへ戻す。
// 行ロックの代わりに txMu で直列化する
type memDB struct {
	txMu sync.Mutex
	mu   sync.Mutex

	authors     map[int64]model.Author
	books       map[int64]model.Book
	orders      map[string]model.Order
	items       []model.OrderItem
	audits      []model.AuditLog
	adjustments []model.InventoryAdjustment
	carts       map[string]model.Cart

	// 条件付き減算を失敗させる本（ロック後に在庫が消えた状況）
	refuseDecrease map[int64]bool

	nextID int64
}

func newMemDB() *memDB {
	return &memDB{
		authors: map[int64]model.Author{},
		books:   map[int64]model.Book{},
		orders:  map[string]model.Order{},
		carts:   map[string]model.Cart{},
	}
}

func (d *memDB) id() int64 {
	d.nextID++
	return d.nextID
}

type memSnapshot struct {
	authors     map[int64]model.Author
	books       map[int64]model.Book
	orders      map[string]model.Order
	items       []model.OrderItem
	audits      []model.AuditLog
	adjustments []model.InventoryAdjustment
}

func (d *memDB) snapshot() memSnapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	s := memSnapshot{
		authors:     map[int64]model.Author{},
		books:       map[int64]model.Book{},
		orders:      map[string]model.Order{},
		items:       append([]model.OrderItem(nil), d.items...),
		audits:      append([]model.AuditLog(nil), d.audits...),
		adjustments: append([]model.InventoryAdjustment(nil), d.adjustments...),
	}
	for k, v := range d.authors {
		s.authors[k] = v
	}
	for k, v := range d.books {
		s.books[k] = v
	}
	for k, v := range d.orders {
		s.orders[k] = v
	}
	return s
}

func (d *memDB) restore(s memSnapshot) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.authors, d.books, d.orders = s.authors, s.books, s.orders
	d.items, d.audits, d.adjustments = s.items, s.audits, s.adjustments
}

// テスト用の本を入れる
func (d *memDB) addBook(name string, price string, stock int64) model.Book {
	d.mu.Lock()
	defer d.mu.Unlock()
	a := model.Author{ID: d.id(), Name: "author of " + name}
	d.authors[a.ID] = a
	b := model.Book{
		ID:        d.id(),
		Name:      name,
		AuthorID:  a.ID,
		Author:    a,
		Publisher: "دار الشروق",
		Price:     decimal.RequireFromString(price),
		Category:  model.CategoryNovels,
		Available: true,
		Stock:     stock,
	}
	d.books[b.ID] = b
	return b
}

func (d *memDB) book(id int64) model.Book {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.books[id]
}

func (d *memDB) setBook(b model.Book) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.books[b.ID] = b
}

func (d *memDB) orderCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.orders)
}

// =====================
// repositories
// =====================

type memBooks struct{ db *memDB }

func (r memBooks) ListAvailable(ctx context.Context, q repo.BookListQuery) ([]model.Book, int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var all []model.Book
	for _, b := range r.db.books {
		if !b.Available {
			continue
		}
		if q.Author != "" && !strings.Contains(strings.ToLower(b.Author.Name), strings.ToLower(q.Author)) {
			continue
		}
		if q.Category != "" && string(b.Category) != q.Category {
			continue
		}
		all = append(all, b)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	total := int64(len(all))
	start := (q.Page - 1) * q.Limit
	if start > len(all) {
		start = len(all)
	}
	end := start + q.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (r memBooks) Search(ctx context.Context, q string, limit int) ([]model.Book, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	q = strings.ToLower(q)
	var out []model.Book
	for _, b := range r.db.books {
		if !b.Available {
			continue
		}
		if strings.Contains(strings.ToLower(b.Name), q) || strings.Contains(strings.ToLower(b.Author.Name), q) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r memBooks) FindByID(ctx context.Context, id int64) (model.Book, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	b, ok := r.db.books[id]
	if !ok {
		return model.Book{}, repo.ErrNotFound
	}
	return b, nil
}

func (r memBooks) FindByIDForUpdate(ctx context.Context, id int64) (model.Book, error) {
	return r.FindByID(ctx, id)
}

func (r memBooks) FindByNameAndAuthor(ctx context.Context, name string, authorID int64) (model.Book, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, b := range r.db.books {
		if b.Name == name && b.AuthorID == authorID {
			return b, nil
		}
	}
	return model.Book{}, repo.ErrNotFound
}

func (r memBooks) Create(ctx context.Context, b model.Book) (model.Book, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	b.ID = r.db.id()
	r.db.books[b.ID] = b
	return b, nil
}

func (r memBooks) Update(ctx context.Context, b model.Book) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	cur, ok := r.db.books[b.ID]
	if !ok {
		return repo.ErrNotFound
	}
	//在庫は在庫APIでしか変えない
	b.Stock = cur.Stock
	b.CreatedAt = cur.CreatedAt
	r.db.books[b.ID] = b
	return nil
}

type memAuthors struct{ db *memDB }

func (r memAuthors) Create(ctx context.Context, a model.Author) (model.Author, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	a.ID = r.db.id()
	r.db.authors[a.ID] = a
	return a, nil
}

func (r memAuthors) FindByID(ctx context.Context, id int64) (model.Author, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	a, ok := r.db.authors[id]
	if !ok {
		return model.Author{}, repo.ErrNotFound
	}
	return a, nil
}

func (r memAuthors) FindByName(ctx context.Context, name string) (model.Author, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, a := range r.db.authors {
		if a.Name == name {
			return a, nil
		}
	}
	return model.Author{}, repo.ErrNotFound
}

func (r memAuthors) Delete(ctx context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.authors[id]; !ok {
		return repo.ErrNotFound
	}
	delete(r.db.authors, id)
	for bid, b := range r.db.books {
		if b.AuthorID == id {
			delete(r.db.books, bid)
		}
	}
	return nil
}

type memInventory struct{ db *memDB }

func (r memInventory) SetStock(ctx context.Context, bookID int64, newStock int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	b, ok := r.db.books[bookID]
	if !ok {
		return repo.ErrNotFound
	}
	b.Stock = newStock
	r.db.books[bookID] = b
	return nil
}

func (r memInventory) DecreaseStockIfEnough(ctx context.Context, bookID int64, qty int64) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	b, ok := r.db.books[bookID]
	if !ok || b.Stock < qty || r.db.refuseDecrease[bookID] {
		return false, nil
	}
	b.Stock -= qty
	r.db.books[bookID] = b
	return true, nil
}

func (r memInventory) CreateAdjustment(ctx context.Context, adj model.InventoryAdjustment) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	adj.ID = r.db.id()
	r.db.adjustments = append(r.db.adjustments, adj)
	return nil
}

type memOrders struct{ db *memDB }

func (r memOrders) withItems(o model.Order) model.Order {
	o.Items = nil
	for _, it := range r.db.items {
		if it.OrderID == o.ID {
			b := r.db.books[it.BookID]
			it.Book = &b
			o.Items = append(o.Items, it)
		}
	}
	return o
}

func (r memOrders) FindByID(ctx context.Context, orderID string) (model.Order, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	o, ok := r.db.orders[orderID]
	if !ok {
		return model.Order{}, repo.ErrNotFound
	}
	return r.withItems(o), nil
}

func (r memOrders) ListByUserID(ctx context.Context, userID int64) ([]model.Order, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []model.Order{}
	for _, o := range r.db.orders {
		if o.UserID != nil && *o.UserID == userID {
			out = append(out, r.withItems(o))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r memOrders) Create(ctx context.Context, order model.Order) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	order.Items = nil
	r.db.orders[order.ID] = order
	return nil
}

func (r memOrders) UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	o, ok := r.db.orders[orderID]
	if !ok {
		return repo.ErrNotFound
	}
	o.Status = status
	r.db.orders[orderID] = o
	return nil
}

func (r memOrders) ListAdmin(ctx context.Context, f repo.AdminOrderListFilter) ([]model.Order, int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var all []model.Order
	for _, o := range r.db.orders {
		if f.Status != "" && string(o.Status) != f.Status {
			continue
		}
		if f.Wilaya != "" && o.Wilaya != f.Wilaya {
			continue
		}
		all = append(all, r.withItems(o))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	total := int64(len(all))
	start := (f.Page - 1) * f.Limit
	if start > len(all) {
		start = len(all)
	}
	end := start + f.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

type memOrderItems struct{ db *memDB }

func (r memOrderItems) CreateBulk(ctx context.Context, orderID string, items []model.OrderItem) ([]model.OrderItem, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make([]model.OrderItem, 0, len(items))
	for _, it := range items {
		it.ID = r.db.id()
		it.OrderID = orderID
		it.Book = nil
		it.Recompute()
		r.db.items = append(r.db.items, it)
		out = append(out, it)
	}
	return out, nil
}

func (r memOrderItems) ListByOrderID(ctx context.Context, orderID string) ([]model.OrderItem, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []model.OrderItem
	for _, it := range r.db.items {
		if it.OrderID == orderID {
			out = append(out, it)
		}
	}
	return out, nil
}

type memAudits struct{ db *memDB }

func (r memAudits) Create(ctx context.Context, log model.AuditLog) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	log.ID = r.db.id()
	r.db.audits = append(r.db.audits, log)
	return nil
}

func (r memAudits) List(ctx context.Context, f repo.AuditLogFilter) ([]model.AuditLog, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []model.AuditLog
	for i := len(r.db.audits) - 1; i >= 0; i-- {
		l := r.db.audits[i]
		if f.Action != "" && l.Action != f.Action {
			continue
		}
		if f.ResourceType != "" && l.ResourceType != f.ResourceType {
			continue
		}
		if f.ResourceID != "" && l.ResourceID != f.ResourceID {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

type memCarts struct{ db *memDB }

func (r memCarts) LoadCart(ctx context.Context, sessionKey string) (model.Cart, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return r.db.carts[sessionKey], nil
}

func (r memCarts) SaveCart(ctx context.Context, sessionKey string, cart model.Cart) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.carts[sessionKey] = cart
	return nil
}

func (d *memDB) cart(sessionKey string) model.Cart {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.carts[sessionKey]
}

// =====================
// TxManager
// =====================

type memTxRepos struct{ db *memDB }

func (r memTxRepos) Books() repo.BookRepository           { return memBooks{r.db} }
func (r memTxRepos) Inventory() repo.InventoryRepository  { return memInventory{r.db} }
func (r memTxRepos) Orders() repo.OrderRepository         { return memOrders{r.db} }
func (r memTxRepos) OrderItems() repo.OrderItemRepository { return memOrderItems{r.db} }
func (r memTxRepos) AuditLogs() repo.AuditLogRepository   { return memAudits{r.db} }

type memTxManager struct{ db *memDB }

func (m memTxManager) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	m.db.txMu.Lock()
	defer m.db.txMu.Unlock()

	snap := m.db.snapshot()
	if err := fn(memTxRepos{m.db}); err != nil {
		m.db.restore(snap)
		return err
	}
	return nil
}

// =====================
// mocks
// =====================

type NotifierMock struct{ mock.Mock }

func (m *NotifierMock) OrderPlaced(ctx context.Context, order model.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type seqIDs struct {
	mu sync.Mutex
	n  int
}

// UUID形式の連番
func (g *seqIDs) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("00000000-0000-4000-8000-%012d", g.n)
}

var _ repo.TransactionManager = memTxManager{}
var _ repo.CartStore = memCarts{}
var _ repo.AuthorRepository = memAuthors{}
