package scoring_test

import (
	"strings"
	"testing"

	"github.com/okian/dojo/internal/domain/model"
	scoring "github.com/okian/dojo/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRules_Classify(t *testing.T) {
	Convey("Given default progression rules", t, func() {
		rules := scoring.NewRules()

		Convey("When feedback is shorter than the quality threshold", func() {
			tier, points := rules.Classify("Looks good, clean structure overall.")

			Convey("Then it should be a basic review worth 10 points", func() {
				So(tier, ShouldEqual, model.TierBasic)
				So(points, ShouldEqual, 10)
			})
		})

		Convey("When feedback is exactly at the quality threshold", func() {
			tier, points := rules.Classify(strings.Repeat("a", 100))

			Convey("Then it should be a quality review worth 15 points", func() {
				So(tier, ShouldEqual, model.TierQuality)
				So(points, ShouldEqual, 15)
			})
		})

		Convey("When feedback is one character below the threshold", func() {
			tier, points := rules.Classify(strings.Repeat("a", 99))

			Convey("Then it should stay basic", func() {
				So(tier, ShouldEqual, model.TierBasic)
				So(points, ShouldEqual, 10)
			})
		})

		Convey("When feedback is well above the threshold", func() {
			tier, points := rules.Classify(strings.Repeat("detailed feedback ", 20))

			Convey("Then it should be quality", func() {
				So(tier, ShouldEqual, model.TierQuality)
				So(points, ShouldEqual, 15)
			})
		})
	})
}

func TestRules_CompletionXP(t *testing.T) {
	Convey("Given default progression rules", t, func() {
		rules := scoring.NewRules()

		Convey("When ratings average to a whole number", func() {
			xp := rules.CompletionXP([]int{5, 4, 3}) // mean 4.0

			Convey("Then XP should be mean times 20", func() {
				So(xp, ShouldEqual, 80)
			})
		})

		Convey("When ratings average to a fraction", func() {
			xp := rules.CompletionXP([]int{5, 4}) // mean 4.5

			Convey("Then XP should be floored", func() {
				So(xp, ShouldEqual, 90)
			})
		})

		Convey("When the fraction does not divide evenly", func() {
			xp := rules.CompletionXP([]int{5, 5, 4}) // mean 4.666..

			Convey("Then XP should floor the product, not the mean", func() {
				So(xp, ShouldEqual, 93)
			})
		})

		Convey("When all ratings are minimal", func() {
			xp := rules.CompletionXP([]int{1, 1, 1})

			Convey("Then XP should still be awarded", func() {
				So(xp, ShouldEqual, 20)
			})
		})

		Convey("When the rating list is empty", func() {
			xp := rules.CompletionXP(nil)

			Convey("Then XP should be zero", func() {
				So(xp, ShouldEqual, 0)
			})
		})
	})
}

func TestRules_Level(t *testing.T) {
	Convey("Given default progression rules", t, func() {
		rules := scoring.NewRules()

		Convey("When total XP is zero", func() {
			So(rules.Level(0), ShouldEqual, 1)
		})

		Convey("When total XP is just below a level boundary", func() {
			So(rules.Level(999), ShouldEqual, 1)
		})

		Convey("When total XP hits a level boundary exactly", func() {
			So(rules.Level(1000), ShouldEqual, 2)
		})

		Convey("When total XP spans several levels", func() {
			So(rules.Level(2500), ShouldEqual, 3)
			So(rules.Level(10000), ShouldEqual, 11)
		})

		Convey("When total XP is negative", func() {
			So(rules.Level(-50), ShouldEqual, 1)
		})
	})
}

func TestRules_Options(t *testing.T) {
	Convey("Given rules with custom options", t, func() {
		rules := scoring.NewRules(
			scoring.WithQualityFeedbackLength(50),
			scoring.WithReviewPoints(5, 8),
			scoring.WithXPPerRatingPoint(10),
			scoring.WithXPPerLevel(500),
		)

		Convey("Then the custom quality threshold should apply", func() {
			tier, points := rules.Classify(strings.Repeat("a", 50))
			So(tier, ShouldEqual, model.TierQuality)
			So(points, ShouldEqual, 8)
		})

		Convey("Then the custom basic payout should apply", func() {
			tier, points := rules.Classify("short")
			So(tier, ShouldEqual, model.TierBasic)
			So(points, ShouldEqual, 5)
		})

		Convey("Then the custom XP multiplier should apply", func() {
			So(rules.CompletionXP([]int{4, 4}), ShouldEqual, 40)
		})

		Convey("Then the custom level span should apply", func() {
			So(rules.Level(499), ShouldEqual, 1)
			So(rules.Level(500), ShouldEqual, 2)
		})

		Convey("When options carry invalid values", func() {
			defaults := scoring.NewRules(
				scoring.WithQualityFeedbackLength(0),
				scoring.WithReviewPoints(-1, -5),
				scoring.WithXPPerRatingPoint(0),
				scoring.WithXPPerLevel(-10),
			)

			Convey("Then defaults should be kept", func() {
				tier, points := defaults.Classify(strings.Repeat("a", 100))
				So(tier, ShouldEqual, model.TierQuality)
				So(points, ShouldEqual, 15)
				So(defaults.CompletionXP([]int{4}), ShouldEqual, 80)
				So(defaults.Level(1000), ShouldEqual, 2)
			})
		})
	})
}

func TestValidRating(t *testing.T) {
	Convey("Given the accepted rating bounds", t, func() {
		Convey("Then ratings 1 through 5 should be valid", func() {
			for rating := 1; rating <= 5; rating++ {
				So(scoring.ValidRating(rating), ShouldBeTrue)
			}
		})

		Convey("Then out-of-range ratings should be rejected", func() {
			So(scoring.ValidRating(0), ShouldBeFalse)
			So(scoring.ValidRating(6), ShouldBeFalse)
			So(scoring.ValidRating(-1), ShouldBeFalse)
		})
	})
}
