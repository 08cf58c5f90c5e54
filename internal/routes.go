package internal

import (
	"net/http"
	"spotr/internal/controllers"
	"spotr/internal/providers"
)

func InitRoutes(profile *controllers.ProfileController, spots *controllers.SpotsController, media *controllers.MediaController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/profile", http.HandlerFunc(profile.GetProfile))
	routers.Post("/profile", http.HandlerFunc(profile.UpdateProfile))
	routers.Post("/profile/reset", http.HandlerFunc(profile.ResetProfile))
	routers.Get("/profile/stats", http.HandlerFunc(profile.GetStats))
	routers.Get("/favorites", http.HandlerFunc(profile.GetFavorites))
	routers.Post("/favorites/toggle", http.HandlerFunc(profile.ToggleFavorite))
	routers.Post("/photos", http.HandlerFunc(profile.AddPhoto))

	routers.Get("/spots", http.HandlerFunc(spots.GetSpots))
	routers.Post("/spots", http.HandlerFunc(spots.AddSpot))
	routers.Post("/spots/filter", http.HandlerFunc(spots.SetFilter))
	routers.Get("/spots/summary", http.HandlerFunc(spots.GetSummary))
	routers.Get("/city", http.HandlerFunc(spots.GetCity))
	routers.Post("/city", http.HandlerFunc(spots.SetCity))
	routers.Post("/shots/toggle", http.HandlerFunc(spots.ToggleShot))
	routers.Get("/comments", http.HandlerFunc(spots.GetComments))
	routers.Post("/comments", http.HandlerFunc(spots.AddComment))
	routers.Post("/ratings", http.HandlerFunc(spots.AddRating))

	routers.Get("/media", http.HandlerFunc(media.GetMedia))
	routers.Post("/media", http.HandlerFunc(media.AddMedia))
	routers.Get("/media/feed", http.HandlerFunc(media.GetFeed))
	routers.Get("/media/top", http.HandlerFunc(media.GetTopSpots))
	routers.Get("/media/user", http.HandlerFunc(media.GetUserPhotos))
	routers.Get("/votes", http.HandlerFunc(media.GetVotes))
	routers.Post("/votes", http.HandlerFunc(media.CastVote))
	return routers
}
