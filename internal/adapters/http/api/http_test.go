package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/TrevorCOConnor/go-to-one/internal/adapters/http/api"
)

type fakeStats struct{}

func (fakeStats) GetStats() map[string]interface{} {
	return map[string]interface{}{
		"frames": 120,
		"clock":  5.0,
		"phase":  "displaying",
	}
}

func newMux() *http.ServeMux {
	mux := http.NewServeMux()
	api.NewServer(fakeStats{}).Register(mux)
	return mux
}

func TestHealthEndpoint(t *testing.T) {
	Convey("Given the ops server", t, func() {
		mux := newMux()

		Convey("When /healthz is requested", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

			Convey("Then it reports ok", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)

				var body map[string]string
				So(json.Unmarshal(rec.Body.Bytes(), &body), ShouldBeNil)
				So(body["status"], ShouldEqual, "ok")
			})
		})
	})
}

func TestStatusEndpoint(t *testing.T) {
	Convey("Given the ops server", t, func() {
		mux := newMux()

		Convey("When /status is requested", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))

			Convey("Then it returns the run snapshot", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)

				var body map[string]interface{}
				So(json.Unmarshal(rec.Body.Bytes(), &body), ShouldBeNil)
				So(body["phase"], ShouldEqual, "displaying")
				So(body["frames"], ShouldEqual, 120.0)
			})
		})

		Convey("When /status is posted to", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/status", nil))

			Convey("Then it is rejected", func() {
				So(rec.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestMetricsEndpoint(t *testing.T) {
	Convey("Given the ops server", t, func() {
		mux := newMux()

		Convey("When /metrics is requested", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

			Convey("Then the registry is exposed", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Body.String(), ShouldContainSubstring, "gotoone_overlay")
			})
		})
	})
}
