package routes

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/liip/sheriff"
	"github.com/whensmy/whensmy/pkg/database"
	"github.com/whensmy/whensmy/pkg/gazetteer"
	"github.com/whensmy/whensmy/pkg/places"
	"go.mongodb.org/mongo-driver/bson"
)

func StopsRouter(router fiber.Router) {
	router.Get("/search", searchStops)
	router.Get("/:code", getStop)
}

func searchStops(c *fiber.Ctx) error {
	route := c.Query("route")
	name := c.Query("name")

	if route == "" || name == "" {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Parameters route and name must both be given",
		})
	}

	stopGazetteer := gazetteer.NewMongoGazetteer()

	exists, err := stopGazetteer.RouteExists(c.Context(), route)
	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "Could not query routes",
		})
	}
	if !exists {
		c.SendStatus(fiber.StatusNotFound)
		return c.JSON(fiber.Map{
			"error": "Could not find a route matching that number",
		})
	}

	maxRun, err := stopGazetteer.MaxRun(c.Context(), route)
	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "Could not query stops",
		})
	}

	stops := []*places.StopPoint{}
	for run := 1; run <= maxRun; run++ {
		stop, err := stopGazetteer.FuzzyStop(c.Context(), route, run, name)
		if err != nil {
			c.SendStatus(fiber.StatusInternalServerError)
			return c.JSON(fiber.Map{
				"error": "Could not query stops",
			})
		}
		if stop != nil {
			stops = append(stops, stop)
		}
	}

	detailed := c.Query("detail") == "true"
	groups := []string{"basic"}
	if detailed {
		groups = append(groups, "detailed")
	}

	stopsReduced, err := sheriff.Marshal(&sheriff.Options{
		Groups: groups,
	}, stops)
	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "Sheriff could not reduce stops",
		})
	}

	return c.JSON(stopsReduced)
}

func getStop(c *fiber.Ctx) error {
	code := c.Params("code")

	stopsCollection := database.GetCollection("bus_stops")

	var stops []places.StopPoint
	cursor, err := stopsCollection.Find(context.Background(), bson.M{"code": code})
	if err == nil {
		err = cursor.All(context.Background(), &stops)
	}
	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "Could not query stops",
		})
	}

	if len(stops) == 0 {
		c.SendStatus(fiber.StatusNotFound)
		return c.JSON(fiber.Map{
			"error": "Could not find a stop with that SMS code",
		})
	}

	return c.JSON(stops)
}
