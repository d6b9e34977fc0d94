package authValidator

import (
	"stockfolio/middleware"
	"strings"
	"unicode"

	"github.com/gofiber/fiber/v2"
)

// specialCharacters is the set a password must draw at least one character from.
const specialCharacters = " !\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// ValidatePasswordPolicy checks a password against the account policy and
// returns the first violated rule as a message, or "" if the password passes.
// Rules are checked in order: length, digit, letter, uppercase, lowercase,
// special character.
func ValidatePasswordPolicy(password string) string {
	if len(password) < 8 {
		return "Password must be at least 8 characters long!"
	}

	var hasDigit, hasLetter, hasUpper, hasLower, hasSpecial bool
	for _, q := range password {
		switch {
		case unicode.IsDigit(q):
			hasDigit = true
		case unicode.IsLetter(q):
			hasLetter = true
			if unicode.IsUpper(q) {
				hasUpper = true
			}
			if unicode.IsLower(q) {
				hasLower = true
			}
		}
		if strings.ContainsRune(specialCharacters, q) {
			hasSpecial = true
		}
	}

	if !hasDigit {
		return "Password must contain a digit!"
	}
	if !hasLetter {
		return "Password must contain a letter!"
	}
	if !hasUpper {
		return "Password must contain an uppercase letter!"
	}
	if !hasLower {
		return "Password must contain a lowercase letter!"
	}
	if !hasSpecial {
		return "Password must contain a special character!"
	}
	return ""
}

// RegisterRequest is the validated register payload
type RegisterRequest struct {
	Username     string `json:"username"`
	Password     string `json:"password"`
	Confirmation string `json:"confirmation"`
}

// Register validator middleware. Checks run in order and stop at the first
// failure: username present, password present, confirmation matches. The
// uniqueness check and the password policy run in the controller, after
// these, so failures always surface in a fixed order.
func Register() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(RegisterRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		reqData.Username = strings.TrimSpace(reqData.Username)

		if reqData.Username == "" {
			return middleware.ValidationErrorResponse(c, map[string]string{"username": "Username is required!"})
		}
		if reqData.Password == "" {
			return middleware.ValidationErrorResponse(c, map[string]string{"password": "Password is required!"})
		}
		if reqData.Password != reqData.Confirmation {
			return middleware.ValidationErrorResponse(c, map[string]string{"confirmation": "Passwords do not match!"})
		}

		// Pass validated request to the next middleware
		c.Locals("validatedRegister", reqData)
		return c.Next()
	}
}

// LoginRequest is the validated login payload
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login validator middleware
func Login() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(LoginRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.Username) == "" {
			errors["username"] = "Username is required!"
		}
		if reqData.Password == "" {
			errors["password"] = "Password is required!"
		}

		// Respond with errors if any exist
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedLogin", reqData)
		return c.Next()
	}
}

// ChangePasswordRequest is the validated change-password payload
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	CnfPassword     string `json:"cnfPassword"`
}

// ChangePassword validator middleware. The new password must pass the same
// policy enforced at registration.
func ChangePassword() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ChangePasswordRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.CurrentPassword == "" {
			errors["currentPassword"] = "Password is required!"
		}
		if reqData.NewPassword == "" {
			errors["newPassword"] = "Password is required!"
		} else if msg := ValidatePasswordPolicy(reqData.NewPassword); msg != "" {
			errors["newPassword"] = msg
		}
		if reqData.NewPassword != reqData.CnfPassword {
			errors["cnfPassword"] = "Confirm Password Not Match!"
		}

		// Respond with errors if any exist
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedChangePassword", reqData)
		return c.Next()
	}
}

// LoginHistory validator middleware for the paginated listing
func LoginHistory() fiber.Handler {
	return func(c *fiber.Ctx) error {
		page := c.QueryInt("page", 1)
		limit := c.QueryInt("limit", 10)

		errors := make(map[string]string)

		if page < 1 {
			errors["page"] = "Page must be greater than 0!"
		}
		if limit < 1 {
			errors["limit"] = "Limit must be greater than 0!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		return c.Next()
	}
}
