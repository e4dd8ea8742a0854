package forms

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"
)

// UserForm maps validation failures on user-related forms to the messages
// returned to clients
type UserForm struct{}

// LoginForm contains the fields required for user login
type LoginForm struct {
	Email    string `form:"email" json:"email" binding:"required,email"`
	Password string `form:"password" json:"password" binding:"required,min=8,max=128"`
}

// RegisterForm contains the fields required for user registration.
// RepeatPassword must equal Password; Patronymic is optional.
type RegisterForm struct {
	Name           string `form:"name" json:"name" binding:"required,min=1,max=64"`
	Surname        string `form:"surname" json:"surname" binding:"required,min=1,max=64"`
	Patronymic     string `form:"patronymic" json:"patronymic" binding:"omitempty,max=64"`
	Email          string `form:"email" json:"email" binding:"required,email"`
	Password       string `form:"password" json:"password" binding:"required,min=8,max=128"`
	RepeatPassword string `form:"repeat_password" json:"repeat_password" binding:"required,eqfield=Password"`
}

// Email returns the appropriate error message for email validation tags
func (f UserForm) Email(tag string) (message string) {
	switch tag {
	case "required":
		return "Please enter your email"
	case "min", "max", "email":
		return "Please enter a valid email"
	default:
		return "Something went wrong, please try again later"
	}
}

// Password returns the appropriate error message for password validation tags
func (f UserForm) Password(tag string) (message string) {
	switch tag {
	case "required":
		return "Please enter your password"
	case "min", "max":
		return "Your password should be between 8 and 128 characters"
	case "eqfield":
		return "The passwords do not match"
	default:
		return "Something went wrong, please try again later"
	}
}

// Name returns the appropriate error message for name and surname validation tags
func (f UserForm) Name(tag string) (message string) {
	switch tag {
	case "required":
		return "Please enter your name"
	case "min", "max":
		return "Name should be between 1 and 64 characters"
	default:
		return "Something went wrong, please try again later"
	}
}

// Login validates the login form and returns the first appropriate error message
func (f UserForm) Login(err error) string {
	switch err.(type) {
	case validator.ValidationErrors:
		if _, ok := err.(*json.UnmarshalTypeError); ok {
			return "Something went wrong, please try again later"
		}

		for _, err := range err.(validator.ValidationErrors) {
			switch err.Field() {
			case "Email":
				return f.Email(err.Tag())
			case "Password":
				return f.Password(err.Tag())
			}
		}
	default:
		return "Invalid request"
	}

	return "Something went wrong, please try again later"
}

// Register validates the registration form and returns the first appropriate error message
func (f UserForm) Register(err error) string {
	switch err.(type) {
	case validator.ValidationErrors:
		if _, ok := err.(*json.UnmarshalTypeError); ok {
			return "Something went wrong, please try again later"
		}

		for _, err := range err.(validator.ValidationErrors) {
			switch err.Field() {
			case "Name", "Surname", "Patronymic":
				return f.Name(err.Tag())
			case "Email":
				return f.Email(err.Tag())
			case "Password", "RepeatPassword":
				return f.Password(err.Tag())
			}
		}
	default:
		return "Invalid request"
	}

	return "Something went wrong, please try again later"
}
