package middleware

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"learnhub/backend/config"
	"learnhub/backend/models"
	"learnhub/backend/utils"
)

const userLocalsKey = "currentUser"

// AuthMiddleware resolves the acting user from the bearer token and stores
// it in the request locals for the handlers.
func AuthMiddleware(db *gorm.DB, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := utils.ExtractUserIDFromToken(c, cfg)
		if err != nil {
			return utils.Unauthorized(c, "Unauthorized")
		}

		var user models.User
		if err := db.First(&user, userID).Error; err != nil {
			return utils.Unauthorized(c, "Unauthorized")
		}

		c.Locals(userLocalsKey, user)
		return c.Next()
	}
}

// AdminMiddleware requires the resolved user to hold the admin role.
func AdminMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := c.Locals(userLocalsKey).(models.User)
		if !ok {
			return utils.Unauthorized(c, "Unauthorized")
		}
		if !user.IsAdmin() {
			return utils.Forbidden(c, "Admin access required")
		}
		return c.Next()
	}
}

// CurrentUser returns the user resolved by AuthMiddleware.
func CurrentUser(c *fiber.Ctx) (models.User, bool) {
	user, ok := c.Locals(userLocalsKey).(models.User)
	return user, ok
}
