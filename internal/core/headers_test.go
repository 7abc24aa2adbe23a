package core

import (
	"errors"
	"testing"

	"github.com/rymp/etymologeek-parse/internal/models"
)

func TestBuildHeaders(t *testing.T) {
	tests := []struct {
		name    string
		config  models.CrawlConfig
		cli     models.CliHeaders
		want    map[string]string
		wantErr bool
	}{
		{
			name:   "仅默认值",
			config: models.CrawlConfig{},
			want:   map[string]string{"Accept-Language": DefaultAcceptLanguage},
		},
		{
			name: "配置文件覆盖默认值",
			config: models.CrawlConfig{
				UserAgent: "etymocrawl/1.0",
				Headers:   map[string]string{"accept-language": "de-DE", "x-test": "etymo"},
			},
			want: map[string]string{
				"Accept-Language": "de-DE",
				"User-Agent":      "etymocrawl/1.0",
				"X-Test":          "etymo",
			},
		},
		{
			name:   "命令行优先级最高",
			config: models.CrawlConfig{Headers: map[string]string{"x-test": "config"}},
			cli:    models.CliHeaders{"X-Test: cli", "User-Agent: custom"},
			want: map[string]string{
				"X-Test":     "cli",
				"User-Agent": "custom",
			},
		},
		{
			name:    "命令行格式错误",
			cli:     models.CliHeaders{"no-colon"},
			wantErr: true,
		},
		{
			name:    "禁止的头部",
			config:  models.CrawlConfig{Headers: map[string]string{"host": "example.com"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildHeaders(tt.config, tt.cli)
			if (err != nil) != tt.wantErr {
				t.Fatalf("BuildHeaders() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			for name, value := range tt.want {
				if got.Get(name) != value {
					t.Errorf("%s = %q, 期望 %q", name, got.Get(name), value)
				}
			}
		})
	}
}

func TestBuildHeaders_ValidationError(t *testing.T) {
	_, err := BuildHeaders(models.CrawlConfig{Headers: map[string]string{"connection": "close"}}, nil)
	var validationErr *models.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("错误类型 = %T, 期望 *models.ValidationError", err)
	}
	if validationErr.HeaderName != "Connection" {
		t.Errorf("HeaderName = %s", validationErr.HeaderName)
	}
}
