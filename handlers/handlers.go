package handlers

import (
	"github.com/go-playground/validator/v10"

	"app/ai"
	"app/config"
)

// validate is the shared request validator.
var validate = validator.New()

// aiGenerator builds the structured-generation client.
var aiGenerator = func() ai.Generator {
	return ai.NewGeminiClient(config.AppConfig.GeminiAPIKey, config.AppConfig.GeminiModel)
}
