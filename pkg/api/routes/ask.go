package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/whensmy/whensmy/pkg/bot"
)

func AskRouter(router fiber.Router, transportBot *bot.Bot) {
	router.Post("/", func(c *fiber.Ctx) error {
		return askBot(c, transportBot)
	})
}

func askBot(c *fiber.Ctx, transportBot *bot.Bot) error {
	var message bot.Message
	if err := c.BodyParser(&message); err != nil {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Request body must be a JSON message",
		})
	}

	replies := transportBot.ProcessMessage(c.Context(), message)

	return c.JSON(fiber.Map{
		"replies": replies,
	})
}
