package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Veins19/MarketBridge/internal/types"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// knownProviders are the llm.provider values a Generator can be built for.
// Empty means "no model configured"; agents then run on templates only.
var knownProviders = map[string]bool{
	"google": true,
	"openai": true,
	"ollama": true,
}

// Validate checks the configuration against the struct tags plus the
// cross-field rules the tags cannot express.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return types.NewError(types.CONFIG_VALIDATION_FAILED, formatValidationErrors(verrs))
		}
		return types.WrapError(types.CONFIG_VALIDATION_FAILED, "validating configuration", err)
	}

	if p := cfg.LLM.Provider; p != "" && !knownProviders[p] {
		return types.NewError(types.CONFIG_VALIDATION_FAILED,
			fmt.Sprintf("llm.provider: unknown provider %q (expected google, openai or ollama)", p))
	}
	if cfg.LLM.Provider != "" && cfg.LLM.Model == "" {
		return types.NewError(types.CONFIG_VALIDATION_FAILED,
			"llm.model: required when llm.provider is set")
	}

	return nil
}

// formatValidationErrors renders validator errors as one readable line per
// failed field.
func formatValidationErrors(verrs validator.ValidationErrors) string {
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(strings.TrimPrefix(fe.Namespace(), "Config."))
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s: required", field))
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s: must be at least %s", field, fe.Param()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s: must be at most %s", field, fe.Param()))
		case "gte":
			msgs = append(msgs, fmt.Sprintf("%s: must be >= %s", field, fe.Param()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s: must be one of [%s]", field, fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s: failed %s validation", field, fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}
