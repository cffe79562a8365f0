package main

import (
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/vango-dev/storefront/internal/config"
	"github.com/vango-dev/storefront/pkg/assets"
)

func TestNewImages(t *testing.T) {
	static, err := newImages(config.ImagesConfig{Driver: "static", Prefix: "/images/"}, time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if u, _ := static.ImageURL(context.Background(), "pixel-9.png"); u != "/images/pixel-9.png" {
		t.Errorf("static ImageURL = %q", u)
	}

	bucket, err := newImages(config.ImagesConfig{
		Driver:          "s3",
		Bucket:          "devices",
		KeyPrefix:       "catalog/",
		Region:          "us-east-1",
		Endpoint:        "http://localhost:9000",
		AccessKeyID:     "AKID",
		SecretAccessKey: "SECRET",
		PathStyle:       true,
	}, time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := bucket.(*assets.S3Images); !ok {
		t.Errorf("s3 driver built %T", bucket)
	}
	u, err := bucket.ImageURL(context.Background(), "pixel-9.png")
	if err != nil {
		t.Fatalf("ImageURL() error = %v", err)
	}
	if !strings.HasPrefix(u, "http://localhost:9000/devices/catalog/pixel-9.png?") {
		t.Errorf("s3 ImageURL = %q", u)
	}

	if _, err := newImages(config.ImagesConfig{Driver: "ftp"}, 0); err == nil {
		t.Error("unknown driver accepted")
	}
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger := newLogger(config.LogConfig{Level: tt.level, Format: "json"})
			if !logger.Enabled(context.Background(), tt.want) {
				t.Errorf("level %s not enabled", tt.want)
			}
			if tt.want > slog.LevelDebug && logger.Enabled(context.Background(), tt.want-4) {
				t.Errorf("level below %s enabled", tt.want)
			}
		})
	}
}

func TestFormatMap(t *testing.T) {
	got := formatMap(map[string]string{"q": "pixel", "category": "phones"})
	if got != "category=phones q=pixel" {
		t.Errorf("formatMap() = %q", got)
	}
}
