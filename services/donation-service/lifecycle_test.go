package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"seva-donation-platform/pkg/middleware"
	"seva-donation-platform/services/donation-service/models"
)

// The lifecycle order is advisory: an admin may move a pending donation
// straight to delivered without passing through accepted or picked-up.
func TestStatusUpdateAllowsDirectDelivery(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("pending to delivered", func(mt *mtest.T) {
		db = mt.DB

		donationID := primitive.NewObjectID()
		updated := bson.D{
			{Key: "_id", Value: donationID},
			{Key: "donor_id", Value: "donor-1"},
			{Key: "donor_name", Value: "Donor One"},
			{Key: "ngo_id", Value: primitive.NewObjectID()},
			{Key: "ngo_name", Value: "Hope Shelter"},
			{Key: "status", Value: models.StatusDelivered},
			{Key: "updated_at", Value: primitive.NewDateTimeFromTime(time.Now())},
		}
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "value", Value: updated}),
			mtest.CreateCursorResponse(0, "seva_db.ngos", mtest.FirstBatch),
		)

		rec := httptest.NewRecorder()
		req := authedRequest(http.MethodPatch, "/api/donations/"+donationID.Hex()+"/status",
			`{"status":"delivered"}`, middleware.RoleAdmin)

		donationDetailHandler(rec, req)

		if rec.Code != http.StatusOK {
			mt.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		resp := decodeResponse(mt.T, rec)
		data, ok := resp.Data.(map[string]interface{})
		if !ok {
			mt.Fatalf("expected donation payload, got %T", resp.Data)
		}
		if data["status"] != models.StatusDelivered {
			mt.Errorf("expected status %s, got %v", models.StatusDelivered, data["status"])
		}
	})
}

// Ownership is decided before the pending gate, so a non-owner gets 403 even
// for a donation that is no longer cancellable.
func TestCancelDonationNonOwnerForbidden(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("non-owner on delivered donation", func(mt *mtest.T) {
		db = mt.DB

		donationID := primitive.NewObjectID()
		stored := bson.D{
			{Key: "_id", Value: donationID},
			{Key: "donor_id", Value: "donor-9"},
			{Key: "donor_name", Value: "Someone Else"},
			{Key: "status", Value: models.StatusDelivered},
		}
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "seva_db.donations", mtest.FirstBatch, stored),
		)

		rec := httptest.NewRecorder()
		req := authedRequest(http.MethodDelete, "/api/donations/"+donationID.Hex(),
			"", middleware.RoleDonor)

		donationDetailHandler(rec, req)

		if rec.Code != http.StatusForbidden {
			mt.Errorf("expected 403, got %d: %s", rec.Code, rec.Body.String())
		}
	})
}
