package model_test

import (
	"testing"

	model "github.com/okian/dojo/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestSyncStatus(t *testing.T) {
	convey.Convey("Given the sync handshake states", t, func() {
		convey.Convey("When checking terminal states", func() {
			convey.So(model.SyncPending.Terminal(), convey.ShouldBeFalse)
			convey.So(model.SyncAccepted.Terminal(), convey.ShouldBeTrue)
			convey.So(model.SyncRejected.Terminal(), convey.ShouldBeTrue)
		})
	})
}

func TestSyncRequest(t *testing.T) {
	convey.Convey("Given a sync request from user 1 to user 2", t, func() {
		req := model.SyncRequest{ID: 7, FromUserID: 1, ToUserID: 2, Status: model.SyncPending}

		convey.Convey("When checking involvement", func() {
			convey.So(req.Involves(1), convey.ShouldBeTrue)
			convey.So(req.Involves(2), convey.ShouldBeTrue)
			convey.So(req.Involves(3), convey.ShouldBeFalse)
		})

		convey.Convey("When resolving the peer of each side", func() {
			convey.So(req.PeerOf(1), convey.ShouldEqual, 2)
			convey.So(req.PeerOf(2), convey.ShouldEqual, 1)
		})

		convey.Convey("When matching pairs", func() {
			convey.Convey("Then direction should not matter", func() {
				convey.So(req.MatchesPair(1, 2), convey.ShouldBeTrue)
				convey.So(req.MatchesPair(2, 1), convey.ShouldBeTrue)
			})

			convey.Convey("Then unrelated pairs should not match", func() {
				convey.So(req.MatchesPair(1, 3), convey.ShouldBeFalse)
				convey.So(req.MatchesPair(3, 4), convey.ShouldBeFalse)
			})
		})
	})
}

func TestSubmissionStatus(t *testing.T) {
	convey.Convey("Given submission lifecycle states", t, func() {
		convey.Convey("When inspecting the constants", func() {
			convey.So(string(model.SubmissionPending), convey.ShouldEqual, "pending")
			convey.So(string(model.SubmissionCompleted), convey.ShouldEqual, "completed")
		})
	})
}

func TestQualityTier(t *testing.T) {
	convey.Convey("Given review quality tiers", t, func() {
		convey.Convey("When inspecting the constants", func() {
			convey.So(string(model.TierBasic), convey.ShouldEqual, "basic")
			convey.So(string(model.TierQuality), convey.ShouldEqual, "quality")
		})
	})
}
