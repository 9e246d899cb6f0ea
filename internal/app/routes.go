package app

// initDefaultRoutes initializes the application's default routes.
// Each service can be switched off in the webserver section of the
// configuration file.
func (app *App) initDefaultRoutes() {
	api := app.web.Group("/")
	if app.config.Webserver.Webservices["version"] {
		api.Get("/version", app.HandleVersion())
	}
	if app.config.Webserver.Webservices["health"] {
		api.Get("/health", app.HandleHealth())
	}
	if app.config.Webserver.Webservices["data"] {
		api.Get("/data", app.HandleData())
	}
	if app.config.Webserver.Webservices["chart"] {
		api.Get("/chart", app.HandleChart())
	}
}
