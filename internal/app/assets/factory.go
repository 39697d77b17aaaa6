package assets

import (
	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	zlog "github.com/rs/zerolog/log"
)

// FSSettings configures the filesystem provider.
type FSSettings struct {
	Root string `mapstructure:"root" default:"data/assets" validate:"required"`
}

// NewProviderFromConfig creates the asset provider selected by the given
// provider type, decoding the free-form settings map for that backend.
func NewProviderFromConfig(providerType string, settings map[string]any, blobs BlobRepository) (Provider, error) {
	switch providerType {
	case "db", "":
		return NewDBProvider(blobs), nil

	case "fs":
		var cfg FSSettings
		if err := mapstructure.Decode(settings, &cfg); err != nil {
			return nil, errors.Wrap(err, "failed to decode settings")
		}
		if err := defaults.Set(&cfg); err != nil {
			return nil, errors.Wrap(err, "failed to set defaults")
		}
		if err := validator.New().Struct(cfg); err != nil {
			return nil, errors.Wrap(err, "validation failed")
		}
		zlog.Info().Str("root", cfg.Root).Msg("using filesystem asset storage")
		return NewFSProvider(cfg.Root)

	default:
		return nil, errors.Newf("unsupported asset provider type: %s", providerType)
	}
}
