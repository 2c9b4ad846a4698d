package config

import (
	"net"
	"net/url"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.URLs,
			validation.Required.Error("at least one url must be configured"),
		),
		validation.Field(&c.WebhookURLs,
			validation.Required.Error("a webhook url is required"),
			validation.Each(validation.By(validateWebhookURL)),
		),
		validation.Field(&c.Alert, validation.By(func(value interface{}) error {
			ac, ok := value.(AlertConfig)
			if !ok {
				return validation.NewError("validation_invalid_type", "must be an AlertConfig")
			}
			return validation.ValidateStruct(&ac,
				validation.Field(&ac.Interval, validation.By(nonNegativeDuration)),
			)
		})),
		validation.Field(&c.Digest, validation.By(func(value interface{}) error {
			dc, ok := value.(DigestConfig)
			if !ok {
				return validation.NewError("validation_invalid_type", "must be a DigestConfig")
			}
			return validation.ValidateStruct(&dc,
				validation.Field(&dc.Schedule, validation.By(validateCronSpec)),
				validation.Field(&dc.Timezone, validation.By(validateTimezone)),
			)
		})),
		validation.Field(&c.HTTP, validation.By(func(value interface{}) error {
			hc, ok := value.(HTTPConfig)
			if !ok {
				return validation.NewError("validation_invalid_type", "must be an HTTPConfig")
			}
			return validation.ValidateStruct(&hc,
				validation.Field(&hc.Timeout, validation.By(positiveDuration)),
			)
		})),
		validation.Field(&c.Webhook, validation.By(func(value interface{}) error {
			wc, ok := value.(WebhookConfig)
			if !ok {
				return validation.NewError("validation_invalid_type", "must be a WebhookConfig")
			}
			return validation.ValidateStruct(&wc,
				validation.Field(&wc.Timeout, validation.By(positiveDuration)),
			)
		})),
		validation.Field(&c.API, validation.By(func(value interface{}) error {
			ac, ok := value.(APIConfig)
			if !ok {
				return validation.NewError("validation_invalid_type", "must be an APIConfig")
			}
			return validation.ValidateStruct(&ac,
				validation.Field(&ac.Addr, validation.By(validateHostPort)),
				validation.Field(&ac.PublicRPM, validation.Min(0)),
				validation.Field(&ac.PublicBurst, validation.Min(0)),
				validation.Field(&ac.AdminRPM, validation.Min(0)),
				validation.Field(&ac.AdminBurst, validation.Min(0)),
			)
		})),
		validation.Field(&c.Log, validation.By(func(value interface{}) error {
			lc, ok := value.(LogConfig)
			if !ok {
				return validation.NewError("validation_invalid_type", "must be a LogConfig")
			}
			return validation.ValidateStruct(&lc,
				validation.Field(&lc.Dir, validation.Required),
				validation.Field(&lc.Level,
					validation.Required,
					validation.In(LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError),
				),
			)
		})),
	); err != nil {
		return err
	}

	if c.Alert.Interval == 0 && c.Digest.Schedule == "" {
		return ErrNothingScheduled
	}
	return nil
}

func validateWebhookURL(value interface{}) error {
	raw, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return validation.NewError("validation_invalid_url", "must be a valid URL")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return validation.NewError("validation_invalid_scheme", "URL must use http or https scheme")
	}
	if parsed.Host == "" {
		return validation.NewError("validation_missing_host", "URL must have a host")
	}
	return nil
}

func validateHostPort(value interface{}) error {
	addr, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}
	if addr == "" {
		return nil // api disabled
	}
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return validation.NewError("validation_invalid_hostport", "must be in host:port format")
	}
	if port == "" {
		return validation.NewError("validation_invalid_port", "port cannot be empty")
	}
	if host != "" {
		if err := is.Host.Validate(host); err != nil {
			return validation.NewError("validation_invalid_host", "invalid host")
		}
	}
	return nil
}

func nonNegativeDuration(value interface{}) error {
	d, ok := value.(time.Duration)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a duration")
	}
	if d < 0 {
		return validation.NewError("validation_negative_duration", "must not be negative")
	}
	return nil
}

func positiveDuration(value interface{}) error {
	d, ok := value.(time.Duration)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a duration")
	}
	if d <= 0 {
		return validation.NewError("validation_invalid_duration", "must be greater than zero")
	}
	return nil
}

func validateCronSpec(value interface{}) error {
	expr, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}
	if expr == "" {
		return nil // digest disabled
	}
	if _, err := digestParser.Parse(expr); err != nil {
		return validation.NewError("validation_invalid_cron", "must be a valid cron expression (e.g. \"0 44 19 * * *\" or \"@daily\")")
	}
	return nil
}

func validateTimezone(value interface{}) error {
	tz, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}
	switch tz {
	case "", "Local", "local":
		return nil
	}
	if _, err := time.LoadLocation(tz); err != nil {
		return validation.NewError("validation_invalid_timezone", "must be an IANA time zone name")
	}
	return nil
}
