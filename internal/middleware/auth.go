package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"medconnect-server/internal/config"
	"medconnect-server/internal/models"
	"medconnect-server/internal/services"
	"medconnect-server/internal/utils"
)

const identityKey = "identity"

// AuthMiddleware creates a middleware for JWT authentication. It resolves
// the caller into a services.Identity once, loading the linked doctor or
// patient profile, so handlers and services never probe relations again.
func AuthMiddleware(cfg *config.Config, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.Unauthorized(c, "Authorization header required")
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			utils.Unauthorized(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		tokenString := parts[1]
		claims, err := utils.ValidateToken(tokenString, cfg.JWTSecret)
		if err != nil {
			utils.Unauthorized(c, "Invalid token: "+err.Error())
			c.Abort()
			return
		}

		var user models.User
		if err := db.First(&user, "id = ?", claims.UserID).Error; err != nil {
			utils.Unauthorized(c, "User account no longer exists")
			c.Abort()
			return
		}

		identity := services.Identity{
			UserID: user.ID,
			Role:   user.Role,
			Name:   user.FullName(),
		}
		switch user.Role {
		case models.RoleDoctor:
			var doctor models.DoctorProfile
			if err := db.First(&doctor, "user_id = ?", user.ID).Error; err == nil {
				identity.DoctorID = doctor.ID
			}
		case models.RolePatient:
			var patient models.PatientProfile
			if err := db.First(&patient, "user_id = ?", user.ID).Error; err == nil {
				identity.PatientID = patient.ID
			}
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

// RoleAuthMiddleware creates a middleware for role-based authorization.
// It should be used *after* AuthMiddleware.
func RoleAuthMiddleware(allowedRoles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := GetIdentity(c)
		if !ok {
			utils.InternalServerError(c, "Identity not found in context. AuthMiddleware might be missing.")
			c.Abort()
			return
		}

		for _, allowedRole := range allowedRoles {
			if identity.Role == allowedRole {
				c.Next()
				return
			}
		}

		utils.Forbidden(c, "You do not have permission to access this resource.")
		c.Abort()
	}
}

// GetIdentity returns the resolved caller identity from the context.
func GetIdentity(c *gin.Context) (services.Identity, bool) {
	value, exists := c.Get(identityKey)
	if !exists {
		return services.Identity{}, false
	}
	identity, ok := value.(services.Identity)
	return identity, ok
}
