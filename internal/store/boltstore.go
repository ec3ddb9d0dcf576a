package store

import (
	"sync"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/pkg/errors"
	"go.etcd.io/bbolt"
	"go.uber.org/zap"

	"github.com/bjo163/expiryexpert/internal/domain"
)

var productsBucket = []byte("expiryexpert")

// BoltStore keeps the product set in a local bolt file, the server-side
// counterpart of the browser's local storage.
type BoltStore struct {
	mu    sync.Mutex
	db    *bbolt.DB
	bus   EventBus.Bus
	nowFn func() time.Time
}

type BoltOption func(*BoltStore)

// WithBus attaches the application event bus; save/remove events are
// published on it after successful writes.
func WithBus(bus EventBus.Bus) BoltOption {
	return func(s *BoltStore) { s.bus = bus }
}

// WithNow overrides the clock used for the post-save sweep reference date.
func WithNow(now func() time.Time) BoltOption {
	return func(s *BoltStore) { s.nowFn = now }
}

func NewBoltStore(path string, opts ...BoltOption) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 3 * time.Second})
	if err != nil {
		return nil, errors.Wrap(err, "open product storage")
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(productsBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "create product bucket")
	}
	s := &BoltStore{db: db, nowFn: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *BoltStore) load() []domain.Product {
	var data []byte
	_ = s.db.View(func(tx *bbolt.Tx) error {
		if b := tx.Bucket(productsBucket); b != nil {
			if v := b.Get([]byte(ProductsKey)); v != nil {
				data = make([]byte, len(v))
				copy(data, v)
			}
		}
		return nil
	})
	products, clean := decodeProducts(data)
	if !clean {
		zap.L().Warn("discarding unparsable product data, starting empty",
			zap.String("key", ProductsKey))
	}
	return products
}

func (s *BoltStore) write(products []domain.Product) error {
	data, err := encodeProducts(products)
	if err != nil {
		return err
	}
	err = s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(productsBucket).Put([]byte(ProductsKey), data)
	})
	return errors.Wrap(err, "persist products")
}

func (s *BoltStore) Load() []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *BoltStore) Save(products []domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.write(products); err != nil {
		return err
	}
	removed, _ := s.sweep(domain.DateOf(s.nowFn()))
	// subscribers get the count that actually survived the post-save sweep
	s.publish(TopicProductsSaved, len(products)-removed)
	return nil
}

func (s *BoltStore) Upsert(p domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	set := upsertSet(s.load(), p)
	if err := s.write(set); err != nil {
		return err
	}
	removed, _ := s.sweep(domain.DateOf(s.nowFn()))
	s.publish(TopicProductsSaved, len(set)-removed)
	return nil
}

func (s *BoltStore) Remove(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	products := s.load()
	kept := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(products) {
		return nil
	}
	if err := s.write(kept); err != nil {
		return err
	}
	s.publish(TopicProductRemoved, id)
	return nil
}

func (s *BoltStore) SweepExpired(ref domain.Date) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sweep(ref)
}

// sweep removes strictly-before products; caller holds the lock.
func (s *BoltStore) sweep(ref domain.Date) (int, error) {
	kept, removed := sweepSet(s.load(), ref)
	if removed == 0 {
		return 0, nil
	}
	if err := s.write(kept); err != nil {
		return 0, err
	}
	zap.L().Info("expired products swept",
		zap.Int("removed", removed), zap.String("ref", ref.String()))
	return removed, nil
}

func (s *BoltStore) publish(topic string, arg interface{}) {
	if s.bus != nil {
		s.bus.Publish(topic, arg)
	}
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
