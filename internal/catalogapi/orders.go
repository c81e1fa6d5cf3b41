package catalogapi

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

type OrderItem struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// Order is the subset of the posted order the stub checks and keeps.
type Order struct {
	ID         string          `json:"id"`
	Email      string          `json:"email"`
	Items      []OrderItem     `json:"items"`
	OrderTotal decimal.Decimal `json:"orderTotal"`
	ReceivedAt time.Time       `json:"receivedAt"`
}

type OrderStore struct {
	mu sync.RWMutex
	m  map[string]Order
}

func NewOrderStore() *OrderStore {
	return &OrderStore{m: map[string]Order{}}
}

func (s *OrderStore) Create(o Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[o.ID] = o
}

func (s *OrderStore) Get(id string) (Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.m[id]
	return o, ok
}

func (s *OrderStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}
