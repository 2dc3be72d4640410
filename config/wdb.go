package config

import (
	"os"
	"path"

	"github.com/usheguard/algopay/config/schema"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Wdb struct {
	Db *gorm.DB
}

func NewWdb(dsn string, sqliteDir string, useSqlite bool) *Wdb {
	var db *gorm.DB
	var err error
	if useSqlite {
		if err = os.MkdirAll(sqliteDir, os.ModePerm); err != nil {
			panic(err)
		}
		db, err = gorm.Open(sqlite.Open(path.Join(sqliteDir, "config.sqlite")), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Error),
		})
	} else {
		db, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
			Logger:          logger.Default.LogMode(logger.Error),
			CreateBatchSize: 10,
		})
	}
	if err != nil {
		panic(err)
	}
	return &Wdb{Db: db}
}

func (w *Wdb) Migrate() error {
	return w.Db.AutoMigrate(&schema.ServeParam{}, &schema.IpRateWhitelist{})
}

func (w *Wdb) GetParam() (param schema.ServeParam, err error) {
	err = w.Db.First(&param).Error
	if err == gorm.ErrRecordNotFound {
		param = schema.ServeParam{
			RateLimit:    600,
			VideoTaskCap: 200,
		}
		return param, nil
	}
	return
}

func (w *Wdb) GetAllAvailableIpRateWhitelist() ([]schema.IpRateWhitelist, error) {
	res := make([]schema.IpRateWhitelist, 0)
	err := w.Db.Where("available = ?", true).Find(&res).Error
	return res, err
}

func (w *Wdb) Close() {
	sql, err := w.Db.DB()
	if err == nil {
		sql.Close()
	}
}
