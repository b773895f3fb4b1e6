package internal

import (
	"akd/internal/controllers"
	"akd/internal/providers"
	"akd/internal/structures"
	"net/http"
)

func InitRoutes(apiController *controllers.ApiController, conf *structures.Config) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Post("/track", http.HandlerFunc(apiController.Track))
	routers.Post("/check", http.HandlerFunc(apiController.Check))
	routers.Post("/login", http.HandlerFunc(apiController.Login))
	routers.Post("/tier", http.HandlerFunc(apiController.TierChanged))
	routers.Get("/achievements", http.HandlerFunc(apiController.GetAchievements))
	routers.Post("/achievements/seen", http.HandlerFunc(apiController.MarkSeen))
	routers.Get("/streak", http.HandlerFunc(apiController.GetStreak))
	routers.Get("/notifications/pending", http.HandlerFunc(apiController.PendingNotifications))
	routers.Post("/notifications/complete", http.HandlerFunc(apiController.CompleteNotification))

	if conf.Debug {
		routers.Post("/debug/unlock", http.HandlerFunc(apiController.DebugUnlock))
		routers.Post("/debug/reset", http.HandlerFunc(apiController.DebugReset))
		routers.Post("/debug/streak", http.HandlerFunc(apiController.DebugStreak))
	}

	return routers
}
