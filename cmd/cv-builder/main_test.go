// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestInitConfigReadsNestedKeysFromEnv(t *testing.T) {
	t.Setenv("CV_BUILDER_BASE_DIR", "/base/env")
	t.Setenv("CV_BUILDER_CATALOG_INDEX_DIR", "/from/env")
	t.Setenv("CV_BUILDER_CATALOG_MAX_RESULTS", "7")
	t.Setenv("CV_BUILDER_WATCH_DEBOUNCE", "750ms")

	initConfig()

	assert.Equal(t, "/base/env", viper.GetString(keyBaseDir))
	assert.Equal(t, "/from/env", catalogConfig().IndexDir)
	assert.Equal(t, 7, catalogConfig().MaxResults)
	assert.Equal(t, 750*time.Millisecond, watchConfig().Debounce)
}

func TestWatchConfigDefault(t *testing.T) {
	assert.Equal(t, 200*time.Millisecond, watchConfig().Debounce)
}
