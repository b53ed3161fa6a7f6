package utils

import (
	"fmt"
	"strings"

	"github.com/techmaster-vietnam/goerrorkit"
)

// MinAdminPasswordLength là độ dài tối thiểu của admin password
const MinAdminPasswordLength = 8

// ValidateID kiểm tra id của blog record
// id hợp lệ phải là số nguyên dương
func ValidateID(id int64) error {
	if id <= 0 {
		return goerrorkit.NewValidationError("id must be a positive integer", map[string]interface{}{
			"field": "id",
			"value": id,
		})
	}
	return nil
}

// ValidateAdminPassword checks the password hashed into ADMIN_PASSWORD_HASH
func ValidateAdminPassword(password string) error {
	if strings.TrimSpace(password) == "" {
		return goerrorkit.NewValidationError("password is required", map[string]interface{}{
			"field": "password",
		})
	}

	if len(password) < MinAdminPasswordLength {
		return goerrorkit.NewValidationError(fmt.Sprintf("password must be at least %d characters", MinAdminPasswordLength), map[string]interface{}{
			"field":      "password",
			"min_length": MinAdminPasswordLength,
		})
	}

	return nil
}
