package algopay

import (
	"os"
	"path"

	"github.com/usheguard/algopay/schema"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

const sqliteName = "algopay.sqlite"

type Wdb struct {
	Db *gorm.DB
}

func NewMysqlDb(dsn string) *Wdb {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:          logger.Default.LogMode(logger.Error),
		CreateBatchSize: 200,
	})
	if err != nil {
		panic(err)
	}
	log.Info("connect mysql db success")
	return &Wdb{Db: db}
}

func NewSqliteDb(dbDir string) *Wdb {
	if err := os.MkdirAll(dbDir, os.ModePerm); err != nil {
		panic(err)
	}
	db, err := gorm.Open(sqlite.Open(path.Join(dbDir, sqliteName)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		panic(err)
	}
	log.Info("connect sqlite db success")
	return &Wdb{Db: db}
}

func (w *Wdb) Migrate() error {
	return w.Db.AutoMigrate(&schema.Holder{}, &schema.SubmissionOutcome{}, &schema.ChatRecord{}, &schema.Campaign{})
}

func (w *Wdb) Close() {
	sql, err := w.Db.DB()
	if err == nil {
		sql.Close()
	}
}

func (w *Wdb) GetHolder(ownerId string) (schema.Holder, error) {
	res := schema.Holder{}
	err := w.Db.Where("owner_id = ?", ownerId).First(&res).Error
	if err == gorm.ErrRecordNotFound {
		return res, schema.ErrNotExist
	}
	return res, err
}

func (w *Wdb) InsertHolder(holder schema.Holder) error {
	return w.Db.Create(&holder).Error
}

// UpsertHolder overwrites any existing wallet for the owner; import is
// last-write-wins, not a merge.
func (w *Wdb) UpsertHolder(holder schema.Holder) error {
	return w.Db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "owner_id"}},
		UpdateAll: true,
	}).Create(&holder).Error
}

// Record satisfies OutcomeRecorder. Outcomes are append-only.
func (w *Wdb) Record(outcome *schema.SubmissionOutcome) error {
	return w.Db.Create(outcome).Error
}

func (w *Wdb) GetOutcomesByOwner(ownerId string, limit int) ([]schema.SubmissionOutcome, error) {
	res := make([]schema.SubmissionOutcome, 0, limit)
	err := w.Db.Where("owner_id = ?", ownerId).Order("id desc").Limit(limit).Find(&res).Error
	return res, err
}

func (w *Wdb) GetUnpublishedOutcomes(limit int) ([]schema.SubmissionOutcome, error) {
	res := make([]schema.SubmissionOutcome, 0, limit)
	err := w.Db.Where("published = ?", false).Order("id asc").Limit(limit).Find(&res).Error
	return res, err
}

func (w *Wdb) MarkOutcomePublished(id uint) error {
	return w.Db.Model(&schema.SubmissionOutcome{}).Where("id = ?", id).Update("published", true).Error
}

func (w *Wdb) InsertCampaign(campaign *schema.Campaign) error {
	return w.Db.Create(campaign).Error
}

func (w *Wdb) GetCampaign(id uint) (schema.Campaign, error) {
	res := schema.Campaign{}
	err := w.Db.Where("id = ?", id).First(&res).Error
	if err == gorm.ErrRecordNotFound {
		return res, schema.ErrNotExist
	}
	return res, err
}

func (w *Wdb) GetCampaigns(limit int) ([]schema.Campaign, error) {
	res := make([]schema.Campaign, 0, limit)
	err := w.Db.Where("active = ?", true).Order("id desc").Limit(limit).Find(&res).Error
	return res, err
}

// AddCampaignRaised bumps the raised counter after a confirmed donation.
func (w *Wdb) AddCampaignRaised(id uint, amountMicro uint64) error {
	return w.Db.Model(&schema.Campaign{}).Where("id = ?", id).
		Update("raised_micro", gorm.Expr("raised_micro + ?", amountMicro)).Error
}

func (w *Wdb) InsertChatRecord(record schema.ChatRecord) error {
	return w.Db.Create(&record).Error
}

func (w *Wdb) GetChatRecordsByOwner(ownerId string, limit int) ([]schema.ChatRecord, error) {
	res := make([]schema.ChatRecord, 0, limit)
	err := w.Db.Where("owner_id = ?", ownerId).Order("id desc").Limit(limit).Find(&res).Error
	return res, err
}
