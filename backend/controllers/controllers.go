package controllers

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"learnhub/backend/services"
	"learnhub/backend/utils"
)

var validate = validator.New()

// validateStruct returns field -> rule for every failed validation, or nil.
func validateStruct(input interface{}) map[string]string {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}

	fields := make(map[string]string)
	var invalid validator.ValidationErrors
	if errors.As(err, &invalid) {
		for _, fieldErr := range invalid {
			fields[fieldErr.Field()] = fieldErr.Tag()
		}
	} else {
		fields["input"] = err.Error()
	}
	return fields
}

// serviceError translates service sentinels into the JSON error responses.
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrUnauthorized):
		return utils.Forbidden(c, "Operation not allowed for this role")
	case errors.Is(err, services.ErrNotFound):
		return utils.NotFound(c, "Not found")
	case errors.Is(err, services.ErrNoQuestions):
		return utils.BadRequest(c, "Quiz has no questions")
	default:
		return utils.InternalServerError(c, "Could not process request")
	}
}
