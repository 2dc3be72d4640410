package algopay

import (
	"time"

	"github.com/algorand/go-algorand-sdk/v2/crypto"
	"github.com/algorand/go-algorand-sdk/v2/mnemonic"
	"github.com/gin-gonic/gin"
	"github.com/go-co-op/gocron"
	"github.com/usheguard/algopay/common"
	"github.com/usheguard/algopay/config"
	"github.com/usheguard/algopay/schema"
)

type Algopay struct {
	store     *Store
	engine    *gin.Engine
	scheduler *gocron.Scheduler

	ledger   *AlgodLedger
	pipeline *Pipeline
	videoMg  *VideoTaskManager

	cache  *Cache
	config *config.Config
	wdb    *Wdb

	videoCli  *VideoCli
	speechCli *SpeechCli
	redditCli *RedditCli
	kwriter   *KWriter // nil means outcome events disabled

	sponsor     *schema.Holder // nil means sponsored donations disabled
	charityAddr string
}

func New(
	boltDirPath, mySqlDsn string, sqliteDir string, useSqlite bool,
	algodUrl, algodToken string,
	sponsorMnemonic, charityAddr string,
	videoApiUrl, videoApiKey, videoReplicaId string,
	speechApiUrl, speechApiKey string,
	useKafka bool, kafkaUri string,
) *Algopay {
	KVDb, err := NewBoltStore(boltDirPath)
	if err != nil {
		panic(err)
	}

	var wdb *Wdb
	if useSqlite {
		wdb = NewSqliteDb(sqliteDir)
	} else {
		wdb = NewMysqlDb(mySqlDsn)
	}
	if err = wdb.Migrate(); err != nil {
		panic(err)
	}

	ledger, err := NewLedger(algodUrl, algodToken)
	if err != nil {
		panic(err)
	}

	serveCfg := config.New(mySqlDsn, sqliteDir, useSqlite)

	videoCli := NewVideoCli(videoApiUrl, videoApiKey, videoReplicaId)
	videoMg := NewVideoTaskMg(videoCli, KVDb, serveCfg.GetParam().VideoTaskCap, DefaultPollInterval, DefaultPollMaxAttempt)
	if err = videoMg.InitVideoTaskMg(); err != nil {
		panic(err)
	}

	var kwriter *KWriter
	if useKafka {
		kwriter, err = NewKWriter(OutcomeTopic, kafkaUri)
		if err != nil {
			panic(err)
		}
	}

	// the sponsor secret only ever arrives through process configuration
	var sponsor *schema.Holder
	if sponsorMnemonic != "" {
		sk, err := mnemonic.ToPrivateKey(sponsorMnemonic)
		if err != nil {
			panic(err)
		}
		acct, err := crypto.AccountFromPrivateKey(sk)
		if err != nil {
			panic(err)
		}
		sponsor = &schema.Holder{
			OwnerId:  "sponsor",
			Address:  acct.Address.String(),
			Mnemonic: sponsorMnemonic,
		}
	}

	a := &Algopay{
		store:       KVDb,
		engine:      gin.Default(),
		scheduler:   gocron.NewScheduler(time.UTC),
		ledger:      ledger,
		pipeline:    NewPipeline(ledger, wdb, DefaultMaxWaitRounds),
		videoMg:     videoMg,
		cache:       NewCache(),
		config:      serveCfg,
		wdb:         wdb,
		videoCli:    videoCli,
		speechCli:   NewSpeechCli(speechApiUrl, speechApiKey),
		redditCli:   NewRedditCli(),
		kwriter:     kwriter,
		sponsor:     sponsor,
		charityAddr: charityAddr,
	}
	return a
}

func (s *Algopay) Run(port string) {
	s.config.Run()
	common.NewMetricServer()
	go s.runAPI(port)
	go s.runJobs()
}

func (s *Algopay) Close() {
	s.scheduler.Stop()
	if s.kwriter != nil {
		s.kwriter.Close()
	}
	s.config.Close()
	s.wdb.Close()
	if err := s.store.Close(); err != nil {
		log.Error("close bolt store", "err", err)
	}
}
