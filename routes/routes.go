package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/taeahn1/betterlife/controllers"
	"github.com/taeahn1/betterlife/middlewares"
)

// Controllers bundles the wired handler set for the router.
type Controllers struct {
	Log       *controllers.LogController
	Events    *controllers.EventController
	Meals     *controllers.MealController
	Workouts  *controllers.WorkoutController
	Skin      *controllers.SkinController
	Nutrition *controllers.NutritionController
	Sleep     *controllers.SleepController
}

func SetupRouter(ctrl Controllers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middlewares.RequestLogger())

	api := r.Group("/api")
	{
		api.POST("/log", ctrl.Log.LogEvent)

		api.GET("/events", ctrl.Events.QueryEvents)
		api.DELETE("/events/:id", ctrl.Events.DeleteEvent)
		api.PATCH("/events/:id", ctrl.Events.UpdatePortion)

		api.GET("/meals", ctrl.Meals.ListMeals)
		api.POST("/meals/analyze", ctrl.Meals.AnalyzeMeal)

		api.POST("/workouts", ctrl.Workouts.LogWorkout)
		api.GET("/workouts", ctrl.Workouts.ListWorkouts)

		api.POST("/skin/analyze", ctrl.Skin.Analyze)
		api.GET("/skin/history", ctrl.Skin.History)
		api.GET("/skin/trend", ctrl.Skin.Trend)

		api.GET("/nutrition/summary", ctrl.Nutrition.Summary)
		api.GET("/sleep", ctrl.Sleep.Window)
	}

	return r
}
