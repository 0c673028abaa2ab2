// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{in: "short", n: 10, want: "short"},
		{in: "exactly10!", n: 10, want: "exactly10!"},
		{in: "a longer title", n: 10, want: "a longe..."},
		{in: "한국어 제목이 깁니다", n: 6, want: "한국어..."},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, truncate(tt.in, tt.n))
		})
	}
}

func TestCatalogConfigResolvesUnderBaseDir(t *testing.T) {
	t.Cleanup(func() {
		viper.Set(keyBaseDir, nil)
		viper.Set(keyCatalogIndexDir, nil)
	})

	viper.Set(keyBaseDir, "/work/cv")
	viper.Set(keyCatalogIndexDir, "idx")
	assert.Equal(t, filepath.Join("/work/cv", "idx"), catalogConfig().IndexDir)

	viper.Set(keyCatalogIndexDir, "/abs/idx")
	assert.Equal(t, "/abs/idx", catalogConfig().IndexDir)
	assert.Equal(t, 20, catalogConfig().MaxResults)
}
