package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func scrape(m *Manager) string {
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	return string(body)
}

func TestMetricsManager(t *testing.T) {
	Convey("Given a metrics manager", t, func() {
		m := NewManager()

		Convey("When a run is played to the end", func() {
			m.RunStarted("hard")
			m.RoundResolved("hard", "success_fever")
			m.RoundResolved("hard", "success_fever")
			m.RoundResolved("hard", "fail")
			m.FeverStarted("hard")
			m.RunEnded("hard", 2400, 12)

			out := scrape(m)

			Convey("Then counters are labelled by level and outcome", func() {
				So(out, ShouldContainSubstring, `inspector_game_runs_started_total{level="hard"} 1`)
				So(out, ShouldContainSubstring, `inspector_game_rounds_total{level="hard",outcome="success_fever"} 2`)
				So(out, ShouldContainSubstring, `inspector_game_rounds_total{level="hard",outcome="fail"} 1`)
				So(out, ShouldContainSubstring, `inspector_game_fever_started_total{level="hard"} 1`)
				So(out, ShouldContainSubstring, `inspector_game_runs_ended_total{level="hard"} 1`)
			})

			Convey("Then the final score is observed", func() {
				So(out, ShouldContainSubstring, `inspector_game_final_score_sum{level="hard"} 2400`)
				So(out, ShouldContainSubstring, `inspector_game_final_max_combo_count{level="hard"} 1`)
			})
		})

		Convey("When sessions connect and leave", func() {
			m.SessionOpened()
			m.SessionOpened()
			m.SessionClosed()

			out := scrape(m)

			Convey("Then the gauges track them", func() {
				So(out, ShouldContainSubstring, "inspector_ssh_sessions_active 1")
			})
		})
	})
}

func TestMetricsOptions(t *testing.T) {
	Convey("Given custom options", t, func() {
		registry := prometheus.NewRegistry()
		m := NewManager(
			WithNamespace("arcade"),
			WithSubsystem("inspector"),
			WithScoreBuckets([]float64{100, 1000}),
			WithRegistry(registry),
		)

		Convey("When a run ends", func() {
			m.RunStarted("normal")
			m.RunEnded("normal", 500, 3)

			Convey("Then metrics use the namespace and the supplied registry", func() {
				So(m.Registry(), ShouldEqual, registry)
				out := scrape(m)
				So(out, ShouldContainSubstring, `arcade_inspector_runs_started_total{level="normal"} 1`)
				So(out, ShouldContainSubstring, `arcade_inspector_final_score_bucket{level="normal",le="1000"} 1`)
				So(out, ShouldContainSubstring, `arcade_inspector_final_score_bucket{level="normal",le="100"} 0`)
			})
		})

		Convey("When empty values are passed", func() {
			d := NewManager(WithNamespace(""), WithScoreBuckets(nil), WithRegistry(nil))

			Convey("Then defaults are kept", func() {
				So(d.namespace, ShouldEqual, "inspector")
				So(d.registry, ShouldNotBeNil)
				So(len(d.scoreBuckets), ShouldEqual, 10)
			})
		})
	})
}
