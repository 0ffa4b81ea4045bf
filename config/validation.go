package config

import (
	"fmt"
	"strings"
)

// ValidateConfig checks that the configuration is complete for the selected
// recipe source. Every problem is reported at once.
func ValidateConfig(cfg *Config) error {
	var errors []string

	switch cfg.RecipeSource {
	case "file":
		if cfg.RecipePath == "" {
			errors = append(errors, "RECIPE_DATA_PATH is required when RECIPE_SOURCE=file")
		}
	case "s3":
		if cfg.S3Bucket == "" {
			errors = append(errors, "S3_BUCKET is required when RECIPE_SOURCE=s3")
		}
		if cfg.S3Key == "" {
			errors = append(errors, "S3_KEY is required when RECIPE_SOURCE=s3")
		}
	case "db":
		for _, req := range []struct{ field, value string }{
			{"DB_HOST", cfg.DBHost},
			{"DB_PORT", cfg.DBPort},
			{"DB_USER", cfg.DBUser},
			{"DB_NAME", cfg.DBName},
		} {
			if req.value == "" {
				errors = append(errors, fmt.Sprintf("%s is required when RECIPE_SOURCE=db", req.field))
			}
		}
	case "ai":
		if cfg.OpenAIAPIKey == "" {
			errors = append(errors, "OPENAI_API_KEY (or the openai_api_key secret) is required when RECIPE_SOURCE=ai")
		}
	default:
		errors = append(errors, fmt.Sprintf("unknown RECIPE_SOURCE %q (want file, s3, db, or ai)", cfg.RecipeSource))
	}

	if cfg.MinLimit < 0 {
		errors = append(errors, "SUGGEST_MIN must not be negative")
	}
	if cfg.MaxLimit > 0 && cfg.MinLimit > cfg.MaxLimit {
		errors = append(errors, fmt.Sprintf("SUGGEST_MIN %d exceeds SUGGEST_MAX %d", cfg.MinLimit, cfg.MaxLimit))
	}
	if cfg.DefaultLimit < cfg.MinLimit || (cfg.MaxLimit > 0 && cfg.DefaultLimit > cfg.MaxLimit) {
		errors = append(errors, fmt.Sprintf("SUGGEST_DEFAULT %d is outside [%d, %d]", cfg.DefaultLimit, cfg.MinLimit, cfg.MaxLimit))
	}

	if len(errors) > 0 {
		return fmt.Errorf("%s", strings.Join(errors, "\n"))
	}

	return nil
}
