package internal

import (
	"net/http"
	"sitestats/internal/controllers"
	"sitestats/internal/providers"
)

func InitRoutes(apiController *controllers.ApiController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Post("/stats", http.HandlerFunc(apiController.ReceiveStats))
	routers.Get("/stats", http.HandlerFunc(apiController.GetStats))
	routers.Delete("/stats", http.HandlerFunc(apiController.ResetStats))
	routers.Get("/facets", http.HandlerFunc(apiController.GetFacets))
	routers.Get("/sites", http.HandlerFunc(apiController.GetBlogs))
	routers.Get("/archive", http.HandlerFunc(apiController.GetArchive))
	return routers
}
