package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/aleister1102/sitemapinc/internal/errorwrapper"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

var validLogLevels = map[string]struct{}{
	"trace": {}, "debug": {}, "info": {}, "warn": {}, "error": {}, "fatal": {}, "panic": {},
}

var validLogFormats = map[string]struct{}{
	"json": {}, "console": {}, "text": {},
}

// newConfigValidator creates a validator with the custom validations registered
func newConfigValidator() (*validator.Validate, error) {
	validate := validator.New()

	if err := validate.RegisterValidation("loglevel", validateLogLevel); err != nil {
		return nil, errorwrapper.WrapError(err, "failed to register loglevel validation")
	}
	if err := validate.RegisterValidation("logformat", validateLogFormat); err != nil {
		return nil, errorwrapper.WrapError(err, "failed to register logformat validation")
	}
	if err := validate.RegisterValidation("url", validateURL); err != nil {
		return nil, errorwrapper.WrapError(err, "failed to register url validation")
	}

	return validate, nil
}

func validateLogLevel(fl validator.FieldLevel) bool {
	_, ok := validLogLevels[strings.ToLower(fl.Field().String())]
	return ok
}

func validateLogFormat(fl validator.FieldLevel) bool {
	_, ok := validLogFormats[strings.ToLower(fl.Field().String())]
	return ok
}

func validateURL(fl validator.FieldLevel) bool {
	parsed, err := url.Parse(fl.Field().String())
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}

// ValidateConfig validates the global config, logging each violation
func ValidateConfig(cfg *GlobalConfig, logger zerolog.Logger) error {
	validate, err := newConfigValidator()
	if err != nil {
		return err
	}

	if err := validate.Struct(cfg); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			for _, fieldErr := range validationErrors {
				logger.Error().
					Str("field", fieldErr.Namespace()).
					Str("tag", fieldErr.Tag()).
					Interface("value", fieldErr.Value()).
					Msg("Config validation failed")
			}
			return errorwrapper.WrapError(err, fmt.Sprintf("config validation failed with %d error(s)", len(validationErrors)))
		}
		return errorwrapper.WrapError(err, "config validation failed")
	}

	return nil
}
