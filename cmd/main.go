package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
	"github.com/usheguard/algopay"
)

func main() {
	app := &cli.App{
		Name: "algopay",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "db_dir", Value: "./data/bolt", Usage: "bolt db dir path", EnvVars: []string{"DB_DIR"}},
			&cli.StringFlag{Name: "mysql", Value: "root@tcp(127.0.0.1:3306)/algopay?charset=utf8mb4&parseTime=True&loc=Local", Usage: "mysql dsn", EnvVars: []string{"MYSQL"}},
			&cli.BoolFlag{Name: "sqlite", Value: false, Usage: "use sqlite instead of mysql", EnvVars: []string{"SQLITE"}},
			&cli.StringFlag{Name: "sqlite_dir", Value: "./data/sqlite", Usage: "sqlite db dir path", EnvVars: []string{"SQLITE_DIR"}},

			&cli.StringFlag{Name: "algod_url", Value: "https://testnet-api.algonode.cloud", Usage: "algod node url", EnvVars: []string{"ALGOD_URL"}},
			&cli.StringFlag{Name: "algod_token", Value: "", Usage: "algod api token", EnvVars: []string{"ALGOD_TOKEN"}},

			// secrets only come from the environment
			&cli.StringFlag{Name: "sponsor_mnemonic", Value: "", Usage: "sponsor wallet mnemonic", EnvVars: []string{"SPONSOR_MNEMONIC"}},
			&cli.StringFlag{Name: "charity_addr", Value: "", Usage: "charity wallet address", EnvVars: []string{"CHARITY_ADDR"}},

			&cli.StringFlag{Name: "video_api", Value: "https://tavusapi.com", Usage: "video provider url", EnvVars: []string{"VIDEO_API"}},
			&cli.StringFlag{Name: "video_key", Value: "", Usage: "video provider api key", EnvVars: []string{"VIDEO_KEY"}},
			&cli.StringFlag{Name: "video_replica", Value: "", Usage: "video avatar replica id", EnvVars: []string{"VIDEO_REPLICA"}},
			&cli.StringFlag{Name: "speech_api", Value: "https://api.elevenlabs.io", Usage: "tts provider url", EnvVars: []string{"SPEECH_API"}},
			&cli.StringFlag{Name: "speech_key", Value: "", Usage: "tts provider api key", EnvVars: []string{"SPEECH_KEY"}},

			&cli.BoolFlag{Name: "use_kafka", Value: false, Usage: "publish outcome events to kafka", EnvVars: []string{"USE_KAFKA"}},
			&cli.StringFlag{Name: "kafka_uri", Value: "127.0.0.1:9092", Usage: "kafka broker uri", EnvVars: []string{"KAFKA_URI"}},

			&cli.StringFlag{Name: "port", Value: ":8080", EnvVars: []string{"PORT"}},
		},
		Action: run,
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)

	s := algopay.New(
		c.String("db_dir"), c.String("mysql"), c.String("sqlite_dir"), c.Bool("sqlite"),
		c.String("algod_url"), c.String("algod_token"),
		c.String("sponsor_mnemonic"), c.String("charity_addr"),
		c.String("video_api"), c.String("video_key"), c.String("video_replica"),
		c.String("speech_api"), c.String("speech_key"),
		c.Bool("use_kafka"), c.String("kafka_uri"),
	)
	s.Run(c.String("port"))

	<-signals
	s.Close()

	return nil
}
