package routes

import (
	"solarforyou/internal/controllers"

	"github.com/labstack/echo/v4"
)

func runUserRouter(
	secureGroup *echo.Group,
	authCtrl *controllers.AuthController,
	userCtrl *controllers.UserController,
	profileCtrl *controllers.ProfileController,
	settingsCtrl *controllers.UserSettingsController,
) {
	secureGroup.GET("/users/me", authCtrl.Me)
	crud(secureGroup, "/users", userCtrl.GetUsers, userCtrl.FindUser, userCtrl.CreateUser, userCtrl.UpdateUser, userCtrl.DeleteUser)

	secureGroup.GET("/profiles/my-profile", profileCtrl.MyProfile)
	crud(secureGroup, "/profiles", profileCtrl.GetProfiles, profileCtrl.FindProfile, profileCtrl.CreateProfile, profileCtrl.UpdateProfile, profileCtrl.DeleteProfile)

	secureGroup.GET("/user-settings", settingsCtrl.GetSettings)
	secureGroup.GET("/user-settings/me", settingsCtrl.MySettings)
	secureGroup.PATCH("/user-settings/me", settingsCtrl.UpdateMySettings)
	secureGroup.GET("/user-settings/:id", settingsCtrl.FindSettings)
	secureGroup.PUT("/user-settings/:id", settingsCtrl.UpdateSettings)
	secureGroup.PATCH("/user-settings/:id", settingsCtrl.UpdateSettings)
	secureGroup.DELETE("/user-settings/:id", settingsCtrl.DeleteSettings)
}
