package main

import (
	"context"
	"os"

	"github.com/taeahn1/betterlife/config"
	"github.com/taeahn1/betterlife/controllers"
	"github.com/taeahn1/betterlife/pkg/logger"
	"github.com/taeahn1/betterlife/routes"
	"github.com/taeahn1/betterlife/services"
	"github.com/taeahn1/betterlife/utils"
)

func main() {
	logger.InitLogger()
	config.InitDB()
	utils.InitS3()

	store := services.NewEventService(config.DB)
	vision := services.NewVisionService()
	loc := config.Timezone()

	var screener controllers.FoodScreener
	if rek, err := services.NewRekognitionService(context.Background()); err != nil {
		logger.Log.WithError(err).Warn("Rekognition unavailable, food image screening disabled")
	} else {
		screener = rek
	}

	r := routes.SetupRouter(routes.Controllers{
		Log:       controllers.NewLogController(store),
		Events:    controllers.NewEventController(store, loc),
		Meals:     controllers.NewMealController(store, vision, screener, loc),
		Workouts:  controllers.NewWorkoutController(store, loc),
		Skin:      controllers.NewSkinController(store, vision, loc),
		Nutrition: controllers.NewNutritionController(store, loc),
		Sleep:     controllers.NewSleepController(store, loc),
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		logger.Log.WithError(err).Fatal("server exited")
	}
}
