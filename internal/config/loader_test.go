package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/podsmith/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.SearchBudget, convey.ShouldEqual, 50_000)
				convey.So(cfg.MaxParticipants, convey.ShouldEqual, 256)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("PODSMITH_ADDR", ":8080")
			_ = os.Setenv("PODSMITH_TOLERANCE", "lenient")
			_ = os.Setenv("PODSMITH_PLAN_MODE", "avoid_five")
			_ = os.Setenv("PODSMITH_SEARCH_BUDGET", "1000")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.Tolerance, convey.ShouldEqual, "lenient")
				convey.So(cfg.PlanMode, convey.ShouldEqual, "avoid_five")
				convey.So(cfg.SearchBudget, convey.ShouldEqual, 1000)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
# shop defaults
addr: ":9090"
power_scale: bracket
max_participants: 64
tolerance: super_lenient
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("PODSMITH_CONFIG", tmpFile)
			_ = os.Setenv("PODSMITH_ADDR", ":8080")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.PowerScale, convey.ShouldEqual, "bracket")
				convey.So(cfg.MaxParticipants, convey.ShouldEqual, 64)
				convey.So(cfg.Tolerance, convey.ShouldEqual, "super_lenient")
				convey.So(cfg.PlanMode, convey.ShouldEqual, "balanced")
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("PODSMITH_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("PODSMITH_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("PODSMITH_ADDR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with an unknown tolerance", func() {
			_ = os.Setenv("PODSMITH_TOLERANCE", "whatever")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("PODSMITH_SEARCH_BUDGET", "not_a_number")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"PODSMITH_CONFIG",
		"PODSMITH_ADDR",
		"PODSMITH_TOLERANCE",
		"PODSMITH_PLAN_MODE",
		"PODSMITH_POWER_SCALE",
		"PODSMITH_SEARCH_BUDGET",
		"PODSMITH_MAX_PARTICIPANTS",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "podsmith-config-*.yaml")
	if err != nil {
		panic(err)
	}
	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}
	if err := tmpFile.Close(); err != nil {
		panic(err)
	}
	return tmpFile.Name()
}
