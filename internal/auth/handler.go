package auth

import (
	"strings"

	"transition-hub-backend/internal/config"
	"transition-hub-backend/internal/database"
	"transition-hub-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type RegisterCompanyAdminRequest struct {
	CompanyName string `json:"company_name"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /api/auth/register-company-admin
// Bootstraps a company together with its first admin user.
func RegisterCompanyAdminHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RegisterCompanyAdminRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))
		body.CompanyName = strings.TrimSpace(body.CompanyName)

		if body.Email == "" || body.Password == "" || body.Name == "" || body.CompanyName == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Company name, name, email and password are required")
		}

		var count int64
		database.DB.Model(&models.Company{}).
			Where("name = ?", body.CompanyName).
			Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusConflict, "A company with this name already exists")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not hash password")
		}

		company := models.Company{
			Name:   body.CompanyName,
			Status: models.CompanyStatusActive,
		}

		tx := database.DB.Begin()
		if tx.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not start transaction")
		}
		if err := tx.Create(&company).Error; err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create company")
		}

		user := models.User{
			CompanyID:    company.ID,
			Name:         body.Name,
			Email:        body.Email,
			PasswordHash: string(hash),
			Role:         models.RoleAdmin,
		}
		if err := tx.Create(&user).Error; err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create user")
		}
		if err := tx.Commit().Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not complete registration")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"company_id": company.ID,
			"user_id":    user.ID,
			"email":      user.Email,
			"role":       user.Role,
		})
	}
}

// POST /api/auth/login
func LoginHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))

		var user models.User
		if err := database.DB.Where("email = ?", body.Email).First(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Wrong email or password")
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Password)); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Wrong email or password")
		}

		token, err := GenerateToken(cfg.JWTSecret, &user)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not issue token")
		}

		return c.JSON(fiber.Map{
			"token": token,
			"user": fiber.Map{
				"id":         user.ID,
				"name":       user.Name,
				"email":      user.Email,
				"role":       user.Role,
				"company_id": user.CompanyID,
			},
		})
	}
}

// GET /api/auth/me
func MeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userIDVal := c.Locals(CtxUserIDKey)

		var user models.User
		if userID, ok := userIDVal.(uint); ok {
			if err := database.DB.Preload("Company").First(&user, userID).Error; err == nil {
				response := fiber.Map{
					"user_id":    user.ID,
					"name":       user.Name,
					"email":      user.Email,
					"role":       user.Role,
					"company_id": user.CompanyID,
				}
				if user.Company != nil {
					response["company"] = fiber.Map{
						"id":     user.Company.ID,
						"name":   user.Company.Name,
						"status": user.Company.Status,
					}
				}
				return c.JSON(response)
			}
		}

		return c.JSON(fiber.Map{
			"user_id":    userIDVal,
			"role":       c.Locals(CtxUserRoleKey),
			"company_id": c.Locals(CtxCompanyIDKey),
		})
	}
}
