package store

import (
	"sync"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bjo163/expiryexpert/internal/domain"
)

// GormStore keeps the serialized product array in a sys_kv row, so the
// database backend stays byte-compatible with the bolt layout.
type GormStore struct {
	mu    sync.Mutex
	db    *gorm.DB
	bus   EventBus.Bus
	nowFn func() time.Time
}

type GormOption func(*GormStore)

func WithGormBus(bus EventBus.Bus) GormOption {
	return func(s *GormStore) { s.bus = bus }
}

func WithGormNow(now func() time.Time) GormOption {
	return func(s *GormStore) { s.nowFn = now }
}

func NewGormStore(db *gorm.DB, opts ...GormOption) (*GormStore, error) {
	if err := db.Migrator().AutoMigrate(domain.Tables...); err != nil {
		return nil, errors.Wrap(err, "migrate product tables")
	}
	s := &GormStore{db: db, nowFn: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *GormStore) load() []domain.Product {
	var row domain.SysKv
	err := s.db.Where("key = ?", ProductsKey).First(&row).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			zap.L().Warn("product row read failed, starting empty", zap.Error(err))
		}
		return []domain.Product{}
	}
	products, clean := decodeProducts([]byte(row.Value))
	if !clean {
		zap.L().Warn("discarding unparsable product data, starting empty",
			zap.String("key", ProductsKey))
	}
	return products
}

func (s *GormStore) write(products []domain.Product) error {
	data, err := encodeProducts(products)
	if err != nil {
		return err
	}
	row := domain.SysKv{Key: ProductsKey, Value: string(data), UpdatedAt: s.nowFn()}
	err = s.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&row).Error
	return errors.Wrap(err, "persist products")
}

func (s *GormStore) Load() []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *GormStore) Save(products []domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.write(products); err != nil {
		return err
	}
	removed, _ := s.sweep(domain.DateOf(s.nowFn()))
	s.publish(TopicProductsSaved, len(products)-removed)
	return nil
}

func (s *GormStore) Upsert(p domain.Product) error {
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

func (s *GormStore) Remove(id int64) error {
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

func (s *GormStore) SweepExpired(ref domain.Date) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sweep(ref)
}

func (s *GormStore) sweep(ref domain.Date) (int, error) {
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

func (s *GormStore) publish(topic string, arg interface{}) {
	if s.bus != nil {
		s.bus.Publish(topic, arg)
	}
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
