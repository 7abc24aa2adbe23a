package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rymp/etymologeek-parse/internal/models"
)

func TestValidateFlags(t *testing.T) {
	tests := []struct {
		name     string
		language string
		mode     string
		wantErr  bool
	}{
		{"动态模式", "deu", "dynamic", false},
		{"静态模式", "gem-pro", "static", false},
		{"空语言", "", "dynamic", true},
		{"语言包含斜杠", "deu/Kampf", "dynamic", true},
		{"语言包含空格", "de u", "static", true},
		{"无效模式", "deu", "all", true},
		{"空模式", "deu", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFlags(tt.language, tt.mode)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFlags() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateSeedFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "words.csv")
	if err := os.WriteFile(file, []byte("Kampf\n"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"存在的文件", file, false},
		{"空路径", "", true},
		{"目录", dir, true},
		{"不存在", filepath.Join(dir, "missing.csv"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSeedFile(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSeedFile() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadSeeds(t *testing.T) {
	file := filepath.Join(t.TempDir(), "words.csv")
	if err := os.WriteFile(file, []byte("# 注释\nHaus\n\nBaum,tree\n"), 0644); err != nil {
		t.Fatal(err)
	}

	seeds, err := loadSeeds([]string{"Kampf", "lat/campus"}, file, "", "deu")
	if err != nil {
		t.Fatalf("loadSeeds() error = %v", err)
	}

	want := []string{"deu/Kampf", "lat/campus", "deu/Haus", "deu/Baum"}
	if len(seeds) != len(want) {
		t.Fatalf("种子数量 = %d, 期望 %d: %v", len(seeds), len(want), seeds)
	}
	for i, s := range seeds {
		if s.Key() != want[i] {
			t.Errorf("第%d个种子 = %s, 期望 %s", i, s.Key(), want[i])
		}
	}

	if _, err := loadSeeds(nil, "", "", "deu"); err == nil {
		t.Error("没有种子时应返回错误")
	}
}

func TestLoadSeeds_Resume(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, models.CheckpointFile)
	cp := &models.Checkpoint{
		RunID:    "run-1",
		Language: "deu",
		Pending:  []models.WordQuery{{Word: "Bank/31959820", Language: "deu"}},
	}
	if err := cp.SaveToFile(path); err != nil {
		t.Fatal(err)
	}

	seeds, err := loadSeeds([]string{"Kampf"}, "", path, "deu")
	if err != nil {
		t.Fatalf("loadSeeds() error = %v", err)
	}
	want := []string{"deu/Kampf", "deu/Bank/31959820"}
	if len(seeds) != len(want) {
		t.Fatalf("种子数量 = %d, 期望 %d: %v", len(seeds), len(want), seeds)
	}
	for i, s := range seeds {
		if s.Key() != want[i] {
			t.Errorf("第%d个种子 = %s, 期望 %s", i, s.Key(), want[i])
		}
	}

	if _, err := loadSeeds(nil, "", filepath.Join(dir, "missing.json"), "deu"); err == nil {
		t.Error("检查点不存在时应返回错误")
	}
}
