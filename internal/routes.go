package internal

import (
	"net/http"

	"msd/internal/controllers"
	"msd/internal/providers"
)

func InitRoutes(apiController *controllers.ApiController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Post("/message", http.HandlerFunc(apiController.ReceiveMessage))
	routers.Get("/rank", http.HandlerFunc(apiController.GetRank))
	routers.Get("/summary", http.HandlerFunc(apiController.GetSummary))
	routers.Get("/groups", http.HandlerFunc(apiController.GetGroups))
	routers.Post("/clear", http.HandlerFunc(apiController.ClearGroup))
	routers.Any("/settings", http.HandlerFunc(apiController.Settings))
	routers.Get("/schedule/status", http.HandlerFunc(apiController.ScheduleStatus))
	routers.Post("/schedule/enable", http.HandlerFunc(apiController.ScheduleEnable))
	routers.Post("/schedule/disable", http.HandlerFunc(apiController.ScheduleDisable))
	routers.Post("/schedule/pause", http.HandlerFunc(apiController.SchedulePause))
	routers.Post("/schedule/resume", http.HandlerFunc(apiController.ScheduleResume))
	routers.Post("/push", http.HandlerFunc(apiController.PushNow))
	routers.Post("/backup", http.HandlerFunc(apiController.Backup))
	routers.Post("/cleanup", http.HandlerFunc(apiController.Cleanup))
	return routers
}
