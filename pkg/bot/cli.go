package bot

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kr/pretty"
	"github.com/urfave/cli/v2"

	"github.com/whensmy/whensmy/pkg/config"
	"github.com/whensmy/whensmy/pkg/consumer"
	"github.com/whensmy/whensmy/pkg/database"
	"github.com/whensmy/whensmy/pkg/fetcher"
	"github.com/whensmy/whensmy/pkg/gazetteer"
	"github.com/whensmy/whensmy/pkg/redis_client"
	"github.com/whensmy/whensmy/pkg/tfl"
)

// NewLive builds a bot wired to mongo and the live TfL feeds. The feed cache
// is only enabled when a TTL is configured, since it needs redis.
func NewLive(cfg config.BotConfig, withCache bool) *Bot {
	fetchClient := fetcher.NewClient(fmt.Sprintf("When's My Transport? (%s)", cfg.Username))
	if withCache && cfg.CacheTTLSeconds > 0 {
		fetchClient.EnableCache(time.Duration(cfg.CacheTTLSeconds) * time.Second)
	}
	feed := tfl.NewClient(fetchClient, tfl.LiveURLs())
	mongoGazetteer := gazetteer.NewMongoGazetteer()

	return New(cfg, Dependencies{
		Stops:    mongoGazetteer,
		Stations: mongoGazetteer,
		Topology: mongoGazetteer,
		Status:   feed,
		Feed:     feed,
	})
}

func RegisterCLI() *cli.Command {
	configFlag := &cli.StringFlag{
		Name:  "config",
		Usage: "path to a YAML config file",
	}

	return &cli.Command{
		Name:  "bot",
		Usage: "Answers natural-language departure requests",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "consume requests from the queue and publish replies",
				Flags: []cli.Flag{configFlag},
				Action: func(c *cli.Context) error {
					cfg, err := config.Load(c.String("config"))
					if err != nil {
						return err
					}
					if err := database.Connect(); err != nil {
						return err
					}
					if err := redis_client.Connect(); err != nil {
						return err
					}

					repliesQueue, err := redis_client.QueueConnection.OpenQueue("outbound-messages")
					if err != nil {
						return err
					}

					redisConsumer := consumer.RedisConsumer{
						QueueName:       cfg.Bot.Queue,
						NumberConsumers: 5,
						BatchSize:       20,
						Timeout:         2 * time.Second,
						Consumer:        NewRequestBatchConsumer(NewLive(cfg.Bot, true), repliesQueue),
					}
					redisConsumer.Setup()

					signals := make(chan os.Signal, 1)
					signal.Notify(signals, syscall.SIGINT)
					defer signal.Stop(signals)

					<-signals // wait for signal
					go func() {
						<-signals // hard exit on second signal (in case shutdown gets stuck)
						os.Exit(1)
					}()

					<-redis_client.QueueConnection.StopAllConsuming() // wait for all Consume() calls to finish

					return nil
				},
			},
			{
				Name:  "ask",
				Usage: "answer a single request from the command line",
				Flags: []cli.Flag{
					configFlag,
					&cli.StringFlag{Name: "text", Usage: "the request text", Required: true},
					&cli.Float64Flag{Name: "lat", Usage: "latitude of the requester"},
					&cli.Float64Flag{Name: "lon", Usage: "longitude of the requester"},
				},
				Action: func(c *cli.Context) error {
					cfg, err := config.Load(c.String("config"))
					if err != nil {
						return err
					}
					if err := database.Connect(); err != nil {
						return err
					}

					message := Message{Text: c.String("text"), From: "cli"}
					if c.IsSet("lat") && c.IsSet("lon") {
						lat, lon := c.Float64("lat"), c.Float64("lon")
						message.Latitude, message.Longitude = &lat, &lon
					}

					liveBot := NewLive(cfg.Bot, false)
					for _, reply := range liveBot.ProcessMessage(context.Background(), message) {
						fmt.Println(reply)
					}
					return nil
				},
			},
			{
				Name:  "parse",
				Usage: "show how a request would be interpreted, without answering it",
				Flags: []cli.Flag{
					configFlag,
					&cli.StringFlag{Name: "text", Usage: "the request text", Required: true},
				},
				Action: func(c *cli.Context) error {
					cfg, err := config.Load(c.String("config"))
					if err != nil {
						return err
					}

					parseBot := New(cfg.Bot, Dependencies{})
					pretty.Println(parseBot.Parse(c.String("text")))
					return nil
				},
			},
		},
	}
}
