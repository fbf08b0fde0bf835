// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"fmt"
)

// validate checks that the final merged [StructuredConfig] satisfies the
// requirements of the selected remote mode before it is used at startup.
func (cfg *StructuredConfig) validate() error {
	var errs []error

	switch cfg.Remote.Mode {
	case RemoteModeHTTP:
		if cfg.Remote.URL == "" || cfg.Remote.APIKey == "" {
			errs = append(errs, fmt.Errorf("%w: http mode needs url and api key", ErrInvalidRemoteConfigs))
		}
	case RemoteModePostgres:
		if cfg.Remote.DSN == "" || cfg.Remote.TokenSignKey == "" || cfg.Remote.FilesDir == "" {
			errs = append(errs, fmt.Errorf("%w: postgres mode needs dsn, token sign key and files dir", ErrInvalidRemoteConfigs))
		}
	default:
		errs = append(errs, fmt.Errorf("%w: unknown mode %q", ErrInvalidRemoteConfigs, cfg.Remote.Mode))
	}

	if cfg.Remote.RequestTimeout < 0 {
		errs = append(errs, fmt.Errorf("%w: negative request timeout", ErrInvalidRemoteConfigs))
	}

	if cfg.Mirror.DSN == "" || cfg.Mirror.CacheSize < 0 {
		errs = append(errs, ErrInvalidMirrorConfigs)
	}

	if cfg.Server.HTTPAddress == "" || cfg.Server.AuthRateLimit <= 0 || cfg.Server.AuthRateBurst <= 0 {
		errs = append(errs, ErrInvalidServerConfigs)
	}

	if (cfg.App.AdminEmail == "") != (cfg.App.AdminPassword == "") {
		errs = append(errs, fmt.Errorf("%w: admin email and password must be set together", ErrInvalidAppConfigs))
	}

	return errors.Join(errs...)
}

// PublicFilesURL returns the base URL under which blobs stored in postgres
// mode are reachable.
func (cfg *StructuredConfig) PublicFilesURL() string {
	if cfg.Remote.PublicBaseURL != "" {
		return cfg.Remote.PublicBaseURL
	}
	return "http://" + cfg.Server.HTTPAddress + "/files"
}

// ResetPasswordURL is where password recovery links lead: the portal's own
// password update page.
func (cfg *StructuredConfig) ResetPasswordURL() string {
	return "http://" + cfg.Server.HTTPAddress + "/reset-password"
}
