package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/whensmy/whensmy/pkg/api/routes"
	"github.com/whensmy/whensmy/pkg/bot"
	"github.com/whensmy/whensmy/pkg/config"
)

func SetupServer(cfg *config.AppConfig) error {
	webApp := fiber.New()
	webApp.Use(NewLogger())

	group := webApp.Group("/core")

	group.Get("version", routes.APIVersion)

	routes.AskRouter(group.Group("/ask"), bot.NewLive(cfg.Bot, true))

	routes.StopsRouter(group.Group("/stops"))
	routes.StationsRouter(group.Group("/stations"))

	return webApp.Listen(cfg.API.ListenAddress)
}
