package sense

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// validate is the shared validator instance.
var validate = validator.New()

// Options is the document form of accessor configuration, as loaded from a
// YAML or JSON file.
//
//	wait_ms: 120
//	features:
//	  online:
//	    wait_ms: 40
//	  battery:
//	    disabled: true
type Options struct {
	WaitMS   float64                   `yaml:"wait_ms" json:"wait_ms" validate:"gte=0"`
	Features map[string]FeatureOptions `yaml:"features" json:"features" validate:"dive,keys,min=1,endkeys"`
}

// FeatureOptions overrides Options for a single feature.
type FeatureOptions struct {
	WaitMS   float64 `yaml:"wait_ms" json:"wait_ms" validate:"gte=0"`
	Disabled bool    `yaml:"disabled" json:"disabled"`
}

// Wait returns the debounce window for feature: its own wait_ms when set,
// otherwise the global one, otherwise DefaultWait.
func (o Options) Wait(feature string) time.Duration {
	if f, ok := o.Features[feature]; ok && f.WaitMS > 0 {
		return WaitFromMillis(f.WaitMS)
	}
	return WaitFromMillis(o.WaitMS)
}

// Enabled reports whether feature is not disabled.
func (o Options) Enabled(feature string) bool {
	return !o.Features[feature].Disabled
}

// Decode unmarshals data with codec into v and validates the result with
// its `validate` struct tags.
func Decode(data []byte, codec Codec, v any) error {
	if codec == nil {
		codec = YAMLCodec{}
	}
	if err := codec.Unmarshal(data, v); err != nil {
		return fmt.Errorf("unmarshal failed: %w", err)
	}
	return Validate(v)
}

// Validate checks v against its `validate` struct tags.
func Validate(v any) error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}

// DecodeOptions parses an options document.
func DecodeOptions(data []byte, codec Codec) (Options, error) {
	var o Options
	if err := Decode(data, codec, &o); err != nil {
		return Options{}, err
	}
	return o, nil
}
