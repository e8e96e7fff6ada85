package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/okian/podsmith/internal/config"
	"github.com/okian/podsmith/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(logger.WithWriter(&bytes.Buffer{})); err != nil {
		panic(err)
	}
}

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "roster-*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.WriteString(content); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	return f.Name()
}

func TestServeWiring(t *testing.T) {
	convey.Convey("Given the default configuration", t, func() {
		cfg := config.New()

		convey.Convey("When building the service and mux", func() {
			svc, err := newService(cfg, logger.Get())
			convey.So(err, convey.ShouldBeNil)
			mux := newMux(context.Background(), svc)

			convey.Convey("Then health, docs and pods routes answer", func() {
				for _, path := range []string{"/healthz", "/openapi.yaml", "/api-docs", "/participants"} {
					w := httptest.NewRecorder()
					mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, http.NoBody))
					convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				}
			})
		})

		convey.Convey("When the configuration names an unknown plan mode", func() {
			cfg.PlanMode = "sixes"
			_, err := newService(cfg, logger.Get())

			convey.Convey("Then the service is not built", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})
	})
}

func TestMetricsUpdaters(t *testing.T) {
	convey.Convey("Given the background metric updaters", t, func() {
		convey.Convey("Then system metrics update without panicking", func() {
			convey.So(updateSystemMetrics, convey.ShouldNotPanic)
		})

		convey.Convey("And the updaters return when the context ends", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()
			svc, err := newService(config.New(), logger.Get())
			convey.So(err, convey.ShouldBeNil)
			convey.So(func() {
				startSystemMetricsUpdater(ctx)
				startServiceMetricsUpdater(ctx, svc)
			}, convey.ShouldNotPanic)
		})
	})
}

func TestGenerateCommand(t *testing.T) {
	convey.Convey("Given a roster file with a group", t, func() {
		path := writeTemp(t, `
participants:
  - name: Ana
    tiers: [2, 3]
    group: g1
  - name: Ben
    tiers: [3, 4]
    group: g1
  - name: Cy
    tiers: [3]
  - name: Di
    tiers: [3]
`)

		convey.Convey("When running generate", func() {
			var out bytes.Buffer
			rootCmd.SetOut(&out)
			rootCmd.SetErr(&bytes.Buffer{})
			rootCmd.SetArgs([]string{"generate", "--roster", path})
			err := rootCmd.Execute()

			convey.Convey("Then one pod is printed with the shared tier marked", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(out.String(), convey.ShouldContainSubstring, "Pod 1  (4 players, power 3")
				convey.So(out.String(), convey.ShouldContainSubstring, "group g1")
				convey.So(out.String(), convey.ShouldContainSubstring, "Ana  2 [3]")
				convey.So(out.String(), convey.ShouldNotContainSubstring, "Unassigned")
			})
		})

		convey.Convey("When running generate with --json", func() {
			var out bytes.Buffer
			rootCmd.SetOut(&out)
			rootCmd.SetErr(&bytes.Buffer{})
			rootCmd.SetArgs([]string{"generate", "--roster", path, "--json"})
			err := rootCmd.Execute()
			generateOpts.json = false

			convey.Convey("Then the report is JSON", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(out.String(), convey.ShouldContainSubstring, `"assigned_count": 4`)
			})
		})
	})
}
