package algopay

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/algorand/go-algorand-sdk/v2/client/v2/common/models"
	"github.com/allegro/bigcache/v3"
)

// balanceExpire matches the dashboard's 10s refresh cadence.
const balanceExpire = 10 * time.Second

type Cache struct {
	nodeStatus models.NodeStatus
	lock       sync.RWMutex

	balances *bigcache.BigCache
}

func NewCache() *Cache {
	balances, err := bigcache.New(context.Background(), bigcache.DefaultConfig(balanceExpire))
	if err != nil {
		panic(err)
	}
	return &Cache{balances: balances}
}

func (c *Cache) GetNodeStatus() models.NodeStatus {
	c.lock.RLock()
	defer c.lock.RUnlock()
	status := c.nodeStatus
	return status
}

func (c *Cache) UpdateNodeStatus(status models.NodeStatus) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.nodeStatus = status
}

func (c *Cache) GetBalance(address string) (uint64, bool) {
	data, err := c.balances.Get(address)
	if err != nil {
		return 0, false
	}
	amount, err := strconv.ParseUint(string(data), 10, 64)
	if err != nil {
		return 0, false
	}
	return amount, true
}

func (c *Cache) UpdateBalance(address string, amountMicro uint64) {
	if err := c.balances.Set(address, []byte(strconv.FormatUint(amountMicro, 10))); err != nil {
		log.Warn("cache balance", "err", err, "address", address)
	}
}
