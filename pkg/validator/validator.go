package validator

import (
	"regexp"
	"strings"
)

type ValidationErrors map[string]string

func (v ValidationErrors) HasErrors() bool {
	return len(v) > 0
}

func (v ValidationErrors) Add(field, message string) {
	v[field] = message
}

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

func ValidateRegister(username, password, fullName string) ValidationErrors {
	errs := make(ValidationErrors)

	username = strings.TrimSpace(username)
	if username == "" {
		errs.Add("username", "Username is required")
	} else if len(username) < 3 {
		errs.Add("username", "Username must be at least 3 characters")
	} else if len(username) > 50 {
		errs.Add("username", "Username is too long")
	} else if !usernameRegex.MatchString(username) {
		errs.Add("username", "Username can only contain letters, numbers, _ and -")
	}

	if password == "" {
		errs.Add("password", "Password is required")
	} else if len(password) < 8 {
		errs.Add("password", "Password must be at least 8 characters")
	}

	if len(strings.TrimSpace(fullName)) > 100 {
		errs.Add("full_name", "Full name is too long")
	}

	return errs
}

func ValidateLogin(username, password string) ValidationErrors {
	errs := make(ValidationErrors)

	if strings.TrimSpace(username) == "" {
		errs.Add("username", "Username is required")
	}
	if password == "" {
		errs.Add("password", "Password is required")
	}

	return errs
}

func ValidateResource(name, status, owner, contact, location, nextAvailable string) ValidationErrors {
	errs := make(ValidationErrors)

	required := map[string]string{
		"name":           name,
		"status":         status,
		"owner":          owner,
		"contact":        contact,
		"location":       location,
		"next_available": nextAvailable,
	}
	for field, value := range required {
		if strings.TrimSpace(value) == "" {
			errs.Add(field, "This field is required")
		}
	}

	return errs
}
