package usecases

import (
	"context"
	"fmt"
	"image"
	"sort"
	"sync"
	"time"

	"ticketd/internal/domain/customer"
	"ticketd/internal/domain/event"
	"ticketd/internal/domain/order"
	"ticketd/internal/domain/ticket"
	vo "ticketd/internal/domain/ticket/valueobjects"
)

const (
	testKey       = "tk_abcdefghijkl"
	testCode      = "3f2b8c1e-9a4d-4e6f-8b7a-1c2d3e4f5a6b"
	testOtherCode = "9c1d2e3f-4a5b-4c6d-8e7f-0a1b2c3d4e5f"
)

// memTicketStore is an in-memory TicketRepository that enforces (product, code)
// uniqueness and the conditional ownership write like the gorm repository does.
// Write counters let tests assert that an operation touched nothing.
type memTicketStore struct {
	mu      sync.Mutex
	nextID  uint
	rows    map[uint]ticketRow
	saves   int
	updates int
	deletes int

	SaveFunc func(ctx context.Context, t *ticket.Ticket) error
}

type ticketRow struct {
	id         uint
	key        string
	orderID    uint
	ownerID    uint
	productID  uint
	uniqueCode string
	status     vo.TicketStatus
	createdAt  time.Time
	updatedAt  time.Time
}

func newMemTicketStore() *memTicketStore {
	return &memTicketStore{rows: make(map[uint]ticketRow)}
}

func (s *memTicketStore) put(t *ticket.Ticket) {
	s.rows[t.ID()] = ticketRow{
		id: t.ID(), key: t.Key(), orderID: t.OrderID(), ownerID: t.OwnerID(), productID: t.ProductID(),
		uniqueCode: t.UniqueCode(), status: t.Status(), createdAt: t.CreatedAt(), updatedAt: t.UpdatedAt(),
	}
}

// seed stores a ticket as if issued earlier.
func (s *memTicketStore) seed(orderID, ownerID, productID uint, code string, status vo.TicketStatus) *ticket.Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	now := time.Now()
	t, err := ticket.ReconstructTicket(s.nextID, fmt.Sprintf("tk_seed%07d", s.nextID), orderID, ownerID, productID, code, status, now, now)
	if err != nil {
		panic(err)
	}
	s.put(t)
	return t
}

func (s *memTicketStore) load(r ticketRow) *ticket.Ticket {
	t, err := ticket.ReconstructTicket(r.id, r.key, r.orderID, r.ownerID, r.productID, r.uniqueCode, r.status, r.createdAt, r.updatedAt)
	if err != nil {
		panic(err)
	}
	return t
}

func (s *memTicketStore) codeTaken(productID uint, code string, exceptID uint) bool {
	for _, r := range s.rows {
		if r.id != exceptID && r.productID == productID && r.uniqueCode == code {
			return true
		}
	}
	return false
}

func (s *memTicketStore) ExistsByProductAndCode(ctx context.Context, productID uint, code string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.codeTaken(productID, code, 0), nil
}

func (s *memTicketStore) Save(ctx context.Context, t *ticket.Ticket) error {
	if s.SaveFunc != nil {
		if err := s.SaveFunc(ctx, t); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.codeTaken(t.ProductID(), t.UniqueCode(), 0) {
		return ticket.ErrDuplicateCode
	}
	s.nextID++
	if err := t.SetID(s.nextID); err != nil {
		return err
	}
	if err := t.SetKey(fmt.Sprintf("tk_mem%08d", s.nextID)); err != nil {
		return err
	}
	s.put(t)
	s.saves++
	return nil
}

func (s *memTicketStore) UpdateStatus(ctx context.Context, t *ticket.Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rows[t.ID()]
	if !ok {
		return ticket.ErrTicketNotFound
	}
	r.status = t.Status()
	s.rows[t.ID()] = r
	s.updates++
	return nil
}

func (s *memTicketStore) UpdateOwnership(ctx context.Context, t *ticket.Ticket, previousOwnerID uint, previousCode string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rows[t.ID()]
	if !ok || r.ownerID != previousOwnerID || r.uniqueCode != previousCode || r.status != vo.StatusOpen {
		return ticket.ErrConcurrentModification
	}
	if s.codeTaken(t.ProductID(), t.UniqueCode(), t.ID()) {
		return ticket.ErrDuplicateCode
	}
	r.ownerID = t.OwnerID()
	r.uniqueCode = t.UniqueCode()
	s.rows[t.ID()] = r
	s.updates++
	return nil
}

func (s *memTicketStore) FindByProductAndCode(ctx context.Context, productID uint, code string) (*ticket.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.rows {
		if r.productID == productID && r.uniqueCode == code {
			return s.load(r), nil
		}
	}
	return nil, ticket.ErrTicketNotFound
}

func (s *memTicketStore) FindByKey(ctx context.Context, key string) (*ticket.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.rows {
		if r.key == key {
			return s.load(r), nil
		}
	}
	return nil, ticket.ErrTicketNotFound
}

func (s *memTicketStore) where(match func(ticketRow) bool, newestFirst bool) []*ticket.Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]uint, 0)
	for id, r := range s.rows {
		if match(r) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool {
		if newestFirst {
			return ids[i] > ids[j]
		}
		return ids[i] < ids[j]
	})
	out := make([]*ticket.Ticket, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.load(s.rows[id]))
	}
	return out
}

func (s *memTicketStore) FindAllByProduct(ctx context.Context, productID uint) ([]*ticket.Ticket, error) {
	return s.where(func(r ticketRow) bool { return r.productID == productID }, false), nil
}

func (s *memTicketStore) FindAllByCustomer(ctx context.Context, ownerID uint) ([]*ticket.Ticket, error) {
	return s.where(func(r ticketRow) bool { return r.ownerID == ownerID }, true), nil
}

func (s *memTicketStore) FindAllByOrder(ctx context.Context, orderID uint) ([]*ticket.Ticket, error) {
	return s.where(func(r ticketRow) bool { return r.orderID == orderID }, false), nil
}

func (s *memTicketStore) FindAllByProductAndCustomer(ctx context.Context, productID, ownerID uint) ([]*ticket.Ticket, error) {
	return s.where(func(r ticketRow) bool { return r.productID == productID && r.ownerID == ownerID }, false), nil
}

func (s *memTicketStore) FindAll(ctx context.Context, filter ticket.TicketFilter) ([]*ticket.Ticket, error) {
	return s.where(func(r ticketRow) bool {
		if filter.Status != nil && r.status != *filter.Status {
			return false
		}
		if filter.ProductID != nil && r.productID != *filter.ProductID {
			return false
		}
		return true
	}, false), nil
}

func (s *memTicketStore) DeleteAll(ctx context.Context, tickets []*ticket.Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range tickets {
		delete(s.rows, t.ID())
		s.deletes++
	}
	return nil
}

func (s *memTicketStore) writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves + s.updates + s.deletes
}

// memOrderStore keeps the tickets_created flag and claims it atomically.
type memOrderStore struct {
	mu      sync.Mutex
	orders  map[uint]memOrder
	claims  int
	GetFunc func(ctx context.Context, id uint) (*order.Order, error)
}

type memOrder struct {
	ownerID        uint
	ticketsCreated bool
	products       []order.OrderProduct
}

func newMemOrderStore() *memOrderStore {
	return &memOrderStore{orders: make(map[uint]memOrder)}
}

func (s *memOrderStore) add(id, ownerID uint, created bool, products ...order.OrderProduct) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[id] = memOrder{ownerID: ownerID, ticketsCreated: created, products: products}
}

func (s *memOrderStore) GetByID(ctx context.Context, id uint) (*order.Order, error) {
	if s.GetFunc != nil {
		return s.GetFunc(ctx, id)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, order.ErrOrderNotFound
	}
	return order.ReconstructOrder(id, o.ownerID, o.ticketsCreated, o.products)
}

func (s *memOrderStore) ClaimTicketIssuance(ctx context.Context, orderID uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[orderID]
	if !ok || o.ticketsCreated {
		return false, nil
	}
	o.ticketsCreated = true
	s.orders[orderID] = o
	s.claims++
	return true, nil
}

// passthroughTx runs fn without a real transaction.
type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type mockCustomerRepository struct {
	GetByIDFunc func(ctx context.Context, id uint) (*customer.Customer, error)
}

func (m *mockCustomerRepository) GetByID(ctx context.Context, id uint) (*customer.Customer, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return customer.ReconstructCustomer(id, fmt.Sprintf("customer %d", id), fmt.Sprintf("c%d@example.org", id))
}

type mockEventResolver struct {
	GetByProductFunc func(ctx context.Context, productID uint) (*event.Event, error)
}

func (m *mockEventResolver) GetByProduct(ctx context.Context, productID uint) (*event.Event, error) {
	if m.GetByProductFunc != nil {
		return m.GetByProductFunc(ctx, productID)
	}
	return nil, event.ErrEventNotFound
}

type mockNotifier struct {
	mu    sync.Mutex
	calls int
	Func  func(ctx context.Context, t *ticket.Ticket, previousOwner, newOwner *customer.Customer) error
}

func (m *mockNotifier) SendTransferConfirmation(ctx context.Context, t *ticket.Ticket, previousOwner, newOwner *customer.Customer) error {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.Func != nil {
		return m.Func(ctx, t, previousOwner, newOwner)
	}
	return nil
}

type mockCodeGenerator struct {
	GenerateFunc func(ctx context.Context, productID uint) (string, error)
}

func (m *mockCodeGenerator) Generate(ctx context.Context, productID uint) (string, error) {
	return m.GenerateFunc(ctx, productID)
}

// sequenceCodes hands out codes in order and then fails.
func sequenceCodes(codes ...string) *mockCodeGenerator {
	var mu sync.Mutex
	i := 0
	return &mockCodeGenerator{GenerateFunc: func(context.Context, uint) (string, error) {
		mu.Lock()
		defer mu.Unlock()
		if i >= len(codes) {
			return "", fmt.Errorf("sequence exhausted")
		}
		c := codes[i]
		i++
		return c, nil
	}}
}

type mockEncoder struct {
	EncodePNGFunc func(t *ticket.Ticket) ([]byte, error)
}

func (m *mockEncoder) Encode(t *ticket.Ticket) (image.Image, error) {
	if _, err := m.EncodePNG(t); err != nil {
		return nil, err
	}
	return image.NewGray(image.Rect(0, 0, 1, 1)), nil
}

func (m *mockEncoder) EncodePNG(t *ticket.Ticket) ([]byte, error) {
	if m.EncodePNGFunc != nil {
		return m.EncodePNGFunc(t)
	}
	return []byte("png"), nil
}
