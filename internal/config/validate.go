// Serielens - Subtitle Search and Series Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/serielens

package config

import (
	"fmt"

	"github.com/tomtom215/serielens/internal/validation"
)

// Validate checks field rules, then the constraints that span fields.
func (c *Config) Validate() error {
	if verr := validation.ValidateStruct(c); verr != nil {
		return verr
	}

	if err := c.validateStorage(); err != nil {
		return err
	}
	if err := c.validateLimits(); err != nil {
		return err
	}
	return c.validateRecommend()
}

func (c *Config) validateStorage() error {
	if c.Storage.Backend != "memory" && c.Storage.Path == "" {
		return fmt.Errorf("STORAGE_PATH is required when STORAGE_BACKEND=%s", c.Storage.Backend)
	}
	return nil
}

func (c *Config) validateLimits() error {
	if c.Search.DefaultLimit > c.Search.MaxLimit {
		return fmt.Errorf("search.default_limit (%d) exceeds search.max_limit (%d)",
			c.Search.DefaultLimit, c.Search.MaxLimit)
	}
	if c.Recommend.DefaultLimit > c.Recommend.MaxLimit {
		return fmt.Errorf("recommend.default_limit (%d) exceeds recommend.max_limit (%d)",
			c.Recommend.DefaultLimit, c.Recommend.MaxLimit)
	}
	return nil
}

func (c *Config) validateRecommend() error {
	if c.Recommend.UserWeight+c.Recommend.PopularityWeight <= 0 {
		return fmt.Errorf("recommend.user_weight and recommend.popularity_weight must not both be zero")
	}
	return nil
}
