package config

import (
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/usheguard/algopay/config/schema"
)

type Config struct {
	wdb         *Wdb
	param       schema.ServeParam
	ipWhiteList map[string]struct{}
	lock        sync.RWMutex
	scheduler   *gocron.Scheduler
}

func New(configDSN string, sqliteDir string, useSqlite bool) *Config {
	wdb := NewWdb(configDSN, sqliteDir, useSqlite)
	if err := wdb.Migrate(); err != nil {
		panic(err)
	}
	param, err := wdb.GetParam()
	if err != nil {
		panic(err)
	}
	return &Config{
		wdb:         wdb,
		param:       param,
		ipWhiteList: make(map[string]struct{}),
		scheduler:   gocron.NewScheduler(time.UTC),
	}
}

func (c *Config) GetParam() schema.ServeParam {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.param
}

func (c *Config) GetIPWhiteList() *map[string]struct{} {
	c.lock.RLock()
	defer c.lock.RUnlock()
	ipWhiteList := c.ipWhiteList
	return &ipWhiteList
}

func (c *Config) Run() {
	go c.runJobs()
}

func (c *Config) Close() {
	c.scheduler.Stop()
	c.wdb.Close()
}
