package pagecounts

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/supakorn-kn/go-sketchpatch/cache"
	"github.com/supakorn-kn/go-sketchpatch/cache/cachetest"
	"github.com/supakorn-kn/go-sketchpatch/mongodb/mongotest"
)

type memoryStore struct {
	counts map[string]int64
	writes int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{counts: make(map[string]int64)}
}

func (m *memoryStore) Get(_ context.Context, name string) (int64, error) {
	return m.counts[name], nil
}

func (m *memoryStore) Add(_ context.Context, name string, delta int64) (int64, error) {
	m.writes++
	m.counts[name] += delta
	return m.counts[name], nil
}

func (m *memoryStore) Set(_ context.Context, name string, value int64) error {
	m.writes++
	m.counts[name] = max(m.counts[name], value)
	return nil
}

type CounterTestSuite struct {
	suite.Suite
	ctx   context.Context
	store *memoryStore
	cache *cachetest.Memory
}

func (s *CounterTestSuite) SetupTest() {

	s.ctx = context.Background()
	s.store = newMemoryStore()
	s.cache = cachetest.NewMemory()
}

func (s *CounterTestSuite) TestIncr() {

	counter := NewCounter(s.store, s.cache, time.Hour)

	for i := int64(1); i <= 3; i++ {
		count, err := counter.Incr(s.ctx, "sketch/abc")
		s.Require().NoError(err)
		s.Require().Equal(i, count)
	}

	s.Require().EqualValues(3, s.store.counts[cache.PageCountKey("sketch/abc")])

	count, err := counter.Get(s.ctx, "sketch/abc")
	s.Require().NoError(err)
	s.Require().EqualValues(3, count)
}

func (s *CounterTestSuite) TestColdCacheResumesFromStore() {

	s.store.counts[cache.PageCountKey("home")] = 41
	counter := NewCounter(s.store, s.cache, time.Hour)

	count, err := counter.Get(s.ctx, "home")
	s.Require().NoError(err)
	s.Require().EqualValues(41, count)

	s.Require().NoError(s.cache.Delete(s.ctx, cache.PageCountKey("home")))

	count, err = counter.Incr(s.ctx, "home")
	s.Require().NoError(err)
	s.Require().EqualValues(42, count)
}

func (s *CounterTestSuite) TestWriteback() {

	counter := NewCounter(s.store, s.cache, time.Hour, WithWriteback(5))

	for i := 0; i < 10; i++ {
		_, err := counter.Incr(s.ctx, "gallery")
		s.Require().NoError(err)
	}

	// the first increment loads the counter, then every fifth one is written back
	s.Require().Equal(3, s.store.writes)
	s.Require().EqualValues(10, s.store.counts[cache.PageCountKey("gallery")])
}

func TestCounter(t *testing.T) {
	suite.Run(t, new(CounterTestSuite))
}

type PageCountsModelTestSuite struct {
	suite.Suite
	ctx   context.Context
	model *PageCountsModel
}

func (s *PageCountsModelTestSuite) SetupSuite() {

	s.ctx = context.Background()
	conn := mongotest.Connect(s.T())

	model, err := NewPageCountsModel(s.ctx, conn)
	s.Require().NoError(err)
	s.model = model
}

func (s *PageCountsModelTestSuite) TestStore() {

	count, err := s.model.Get(s.ctx, "pc:missing")
	s.Require().NoError(err)
	s.Require().Zero(count)

	count, err = s.model.Add(s.ctx, "pc:page", 2)
	s.Require().NoError(err)
	s.Require().EqualValues(2, count)

	s.Require().NoError(s.model.Set(s.ctx, "pc:page", 10))
	s.Require().NoError(s.model.Set(s.ctx, "pc:page", 4))

	count, err = s.model.Get(s.ctx, "pc:page")
	s.Require().NoError(err)
	s.Require().EqualValues(10, count)
}

func TestPageCountsModel(t *testing.T) {
	suite.Run(t, new(PageCountsModelTestSuite))
}
