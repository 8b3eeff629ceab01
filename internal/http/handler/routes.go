package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"optimapricer/internal/http/middleware"
	"optimapricer/internal/service"
	"optimapricer/internal/validation"
)

// Services bundles the application services the routes depend on.
type Services struct {
	Auth            service.AuthService
	Stores          service.StoreService
	Products        service.ProductService
	Scans           service.ScanService
	Recommendations service.RecommendationService
	Dashboard       service.DashboardService
}

// RegisterRoutes attaches all HTTP routes to the provided Fiber app.
// Handlers stay thin: parse, validate, call the service, translate errors.
func RegisterRoutes(app *fiber.App, db *sql.DB, svcs Services, sessions *middleware.SessionAuth, v validation.Validator, gatherer prometheus.Gatherer) {
	// Serve OpenAPI spec and Swagger UI
	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		c.Type("yaml")
		return c.SendFile("openapi.yaml")
	})
	app.Get("/docs", func(c *fiber.Ctx) error {
		html := `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`
		return c.Type("html").SendString(html)
	})

	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	api := app.Group("/api")

	// Public auth endpoints
	api.Post("/auth/register", Register(svcs.Auth, v))
	api.Post("/auth/login", Login(svcs.Auth, sessions, v))

	// Everything below requires a live session.
	protected := api.Group("", sessions.Protected())

	protected.Post("/auth/logout", Logout(sessions))
	protected.Get("/auth/me", CurrentUser(svcs.Auth))

	protected.Get("/stores", ListStores(svcs.Stores))
	protected.Post("/stores", CreateStore(svcs.Stores, v))
	protected.Get("/stores/:id", GetStore(svcs.Stores))
	protected.Patch("/stores/:id", UpdateStore(svcs.Stores, v))
	protected.Delete("/stores/:id", DeleteStore(svcs.Stores))

	protected.Get("/products", ListProducts(svcs.Products))
	protected.Post("/products", CreateProduct(svcs.Products, v))
	protected.Get("/products/:id", GetProduct(svcs.Products))
	protected.Patch("/products/:id", UpdateProduct(svcs.Products, v))
	protected.Delete("/products/:id", DeleteProduct(svcs.Products))
	protected.Get("/products/:id/market-data", ProductMarketData(svcs.Products))
	protected.Post("/products/:id/scan", ScanProduct(svcs.Scans))

	protected.Get("/recommendations", ListRecommendations(svcs.Recommendations))
	protected.Post("/recommendations", GenerateRecommendation(svcs.Recommendations, v))
	protected.Patch("/recommendations/:id", UpdateRecommendation(svcs.Recommendations, v))
	protected.Get("/recommendations/:id/elasticity", RecommendationElasticity(svcs.Recommendations))

	protected.Get("/dashboard", Dashboard(svcs.Dashboard))
	protected.Get("/test-scrape", TestScrape(svcs.Scans))
}
