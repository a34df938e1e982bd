package services

import (
	"regexp"
	"strings"
	"time"

	"github.com/flashquiz/backend/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// emailRegex validates email format
var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// passwordRegex validates password: at least 8 chars with a letter and a digit
var passwordRegex = []*regexp.Regexp{
	regexp.MustCompile(`.{8,}`),
	regexp.MustCompile(`[a-zA-Z]`),
	regexp.MustCompile(`[0-9]`),
}

const dateLayout = "2006-01-02"

// normalizeEmail lower-cases and trims email and checks its format
func normalizeEmail(email string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if !emailRegex.MatchString(normalized) {
		return "", models.NewError(models.ErrInvalidInput, "invalid email format")
	}
	return normalized, nil
}

func validatePassword(password string) error {
	for _, regex := range passwordRegex {
		if !regex.MatchString(password) {
			return models.NewError(models.ErrInvalidInput, "password must be at least 8 characters long and contain at least one letter and one number")
		}
	}
	return nil
}

func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", models.NewError(models.ErrInvalidInput, "name cannot be empty")
	}
	return name, nil
}

// validateDate accepts an empty value or a YYYY-MM-DD date
func validateDate(date string) error {
	if date == "" {
		return nil
	}
	if _, err := time.Parse(dateLayout, date); err != nil {
		return models.NewError(models.ErrInvalidInput, "date of birth must be in YYYY-MM-DD format")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
