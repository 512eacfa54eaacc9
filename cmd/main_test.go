package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/TrevorCOConnor/go-to-one/internal/adapters/carddb"
	"github.com/TrevorCOConnor/go-to-one/internal/domain/match"
	"github.com/TrevorCOConnor/go-to-one/pkg/metrics"
)

func TestHeroSlug(t *testing.T) {
	convey.Convey("Given hero names with mixed casing and punctuation", t, func() {
		cases := map[string]string{
			"Katsu, the Wanderer": "katsu__the_wanderer",
			"Dorinthea Ironsong":  "dorinthea_ironsong",
			"Chane":               "chane",
			"Ser Boltyn":          "ser_boltyn",
		}
		for name, want := range cases {
			convey.So(heroSlug(name), convey.ShouldEqual, want)
		}
	})
}

func TestDeriveOutputPath(t *testing.T) {
	convey.Convey("Given input video paths", t, func() {
		convey.So(deriveOutputPath("match.mp4"), convey.ShouldEqual, "match_overlay.mp4")
		convey.So(deriveOutputPath("videos/finals.mkv"), convey.ShouldEqual, "videos/finals_overlay.mkv")
		convey.So(deriveOutputPath("rawcapture"), convey.ShouldEqual, "rawcapture_overlay.mp4")
	})
}

func TestLoadAnnotation(t *testing.T) {
	convey.Convey("Given an annotation file missing its setup block", t, func() {
		path := filepath.Join(t.TempDir(), "bad.tsv")
		header := "sec\tmilli\tname\tpitch\tplayer1_life\tplayer2_life\tupdate_type\n"
		convey.So(os.WriteFile(path, []byte(header), 0o600), convey.ShouldBeNil)
		before := parseErrorCount(t)

		_, _, err := loadAnnotation(path)

		convey.Convey("Then it fails and the parse failure is counted", func() {
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(parseErrorCount(t), convey.ShouldEqual, before+1)
		})
	})

	convey.Convey("Given a missing annotation file", t, func() {
		before := parseErrorCount(t)

		_, _, err := loadAnnotation(filepath.Join(t.TempDir(), "absent.tsv"))

		convey.Convey("Then it fails without counting a parse failure", func() {
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(parseErrorCount(t), convey.ShouldEqual, before)
		})
	})
}

func parseErrorCount(t *testing.T) float64 {
	t.Helper()
	families, err := metrics.GetRegistry().Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() == "gotoone_overlay_parse_errors_total" {
			return mf.GetMetric()[0].GetCounter().GetValue()
		}
	}
	return 0
}

func TestValidateHeroes(t *testing.T) {
	convey.Convey("Given a card index with one hero", t, func() {
		index := "Name\tPitch\tHealth\tUnique ID\tTypes\n" +
			"Katsu, the Wanderer\t\t40\tHERO044\tHero, Ninja\n" +
			"Sink Below\t1\t\tWTR191\tNinja, Attack Reaction\n"
		cards, err := carddb.Open(strings.NewReader(index))
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("Then a setup naming that hero passes", func() {
			setup := match.Setup{Hero1: "Katsu, the Wanderer", Hero2: "Katsu, the Wanderer"}
			convey.So(validateHeroes(cards, setup), convey.ShouldBeNil)
		})

		convey.Convey("Then an unknown hero is rejected", func() {
			setup := match.Setup{Hero1: "Katsu, the Wanderer", Hero2: "Bravo"}
			err := validateHeroes(cards, setup)
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(err.Error(), convey.ShouldContainSubstring, "Bravo")
		})
	})
}
