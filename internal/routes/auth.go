package routes

import (
	"solarforyou/internal/controllers"

	"github.com/labstack/echo/v4"
)

func runAuthRouter(api *echo.Group, authCtrl *controllers.AuthController) {
	api.POST("/login", authCtrl.Login)
	api.POST("/logout", authCtrl.Logout)
	api.POST("/mobile/login", authCtrl.MobileLogin)
	api.GET("/csrf", authCtrl.CSRF)
}
