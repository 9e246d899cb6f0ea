package app

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/womat/debug"

	"github.com/pulseio/lmt01/internal/chart"
)

// runWebServer starts the application's web server and listens for web
// requests. It's designed to run in a separate go function to not block the
// main go function, see Run().
func (app *App) runWebServer() {
	err := app.web.Listen(app.urlParsed.Host)
	debug.ErrorLog.Print(err)
}

// HandleData is the get current reading web handler.
func (app *App) HandleData() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		debug.InfoLog.Print("web request data")

		app.mu.Lock()
		r := app.last
		app.mu.Unlock()

		if r.Time.IsZero() {
			ctx.Status(http.StatusServiceUnavailable)
			return ctx.JSON(fiber.Map{"error": "no reading acquired yet"})
		}
		return ctx.JSON(r)
	}
}

// HandleChart renders the reading history as a PNG line chart.
func (app *App) HandleChart() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		debug.InfoLog.Print("web request chart")

		app.mu.Lock()
		samples := make([]chart.Sample, len(app.history))
		copy(samples, app.history)
		app.mu.Unlock()

		b, err := chart.Render(samples, 800, 400)
		if err != nil {
			ctx.Status(http.StatusServiceUnavailable)
			return ctx.JSON(fiber.Map{"error": err.Error()})
		}
		ctx.Type("png")
		return ctx.Send(b)
	}
}
