package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/liip/sheriff"
	"github.com/whensmy/whensmy/pkg/gazetteer"
)

func StationsRouter(router fiber.Router) {
	router.Get("/search", searchStations)
	router.Get("/:code", getStation)
}

func searchStations(c *fiber.Ctx) error {
	name := c.Query("name")
	line := c.Query("line")

	if name == "" {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Parameter name must be given",
		})
	}

	stationGazetteer := gazetteer.NewMongoGazetteer()

	station, err := stationGazetteer.FuzzyStation(c.Context(), line, name)
	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "Could not query stations",
		})
	}
	if station == nil {
		c.SendStatus(fiber.StatusNotFound)
		return c.JSON(fiber.Map{
			"error": "Could not find a station matching that name",
		})
	}

	groups := []string{"basic"}
	if c.Query("detail") == "true" {
		groups = append(groups, "detailed")
	}

	stationReduced, err := sheriff.Marshal(&sheriff.Options{
		Groups: groups,
	}, station)
	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "Sheriff could not reduce station",
		})
	}

	return c.JSON(stationReduced)
}

func getStation(c *fiber.Ctx) error {
	code := c.Params("code")

	stationGazetteer := gazetteer.NewMongoGazetteer()

	station, err := stationGazetteer.StationByCode(c.Context(), code)
	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "Could not query stations",
		})
	}
	if station == nil {
		c.SendStatus(fiber.StatusNotFound)
		return c.JSON(fiber.Map{
			"error": "Could not find a station with that code",
		})
	}

	return c.JSON(station)
}
