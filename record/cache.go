package record

import (
	"sync"

	"github.com/foomo/reportviewer/service/vo"
)

// Cache keeps fetched records for the lifetime of the process.
type Cache struct {
	mu      sync.RWMutex
	records map[vo.RecordKey]*vo.ContentRecord
}

func NewCache() *Cache {
	return &Cache{records: map[vo.RecordKey]*vo.ContentRecord{}}
}

// Get never triggers a fetch.
func (c *Cache) Get(key vo.RecordKey) (*vo.ContentRecord, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	record, ok := c.records[key]
	return record, ok
}

func (c *Cache) Put(key vo.RecordKey, record *vo.ContentRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records[key] = record
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}
