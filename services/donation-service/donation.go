package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"seva-donation-platform/pkg/middleware"
	"seva-donation-platform/pkg/queue"
	"seva-donation-platform/pkg/response"
	"seva-donation-platform/services/donation-service/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func donationsHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		listDonations(w, r)
	case http.MethodPost:
		createDonation(w, r)
	default:
		response.Error(w, http.StatusMethodNotAllowed, "Method not allowed", "")
	}
}

func donationDetailHandler(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/donations/")
	if rest == "" {
		response.Error(w, http.StatusBadRequest, "Missing donation ID", "")
		return
	}

	if strings.HasSuffix(rest, "/status") {
		if r.Method != http.MethodPatch {
			response.Error(w, http.StatusMethodNotAllowed, "Method not allowed", "")
			return
		}
		id := strings.TrimSuffix(rest, "/status")
		middleware.RequireAdmin(func(w http.ResponseWriter, r *http.Request) {
			updateDonationStatus(w, r, id)
		})(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		getDonationByID(w, r, rest)
	case http.MethodDelete:
		cancelDonation(w, r, rest)
	default:
		response.Error(w, http.StatusMethodNotAllowed, "Method not allowed", "")
	}
}

// donationListFilter scopes the listing query: admins see every donation,
// everyone else only their own. An optional status narrows either view.
func donationListFilter(claims *middleware.UserClaims, status string) bson.M {
	filter := bson.M{}
	if middleware.Role(claims.Role) != middleware.RoleAdmin {
		filter["donor_id"] = claims.UserID
	}
	if status != "" {
		filter["status"] = status
	}
	return filter
}

// canViewDonation allows the admin and the owning donor through.
func canViewDonation(donation *models.Donation, claims *middleware.UserClaims) bool {
	return middleware.Role(claims.Role) == middleware.RoleAdmin || donation.DonorID == claims.UserID
}

// cancelBlocked returns the HTTP status and message rejecting a cancel, or 0
// when the owning donor may cancel. Ownership is checked before the pending
// gate, so a non-owner gets 403 regardless of the donation's state.
func cancelBlocked(donation *models.Donation, claims *middleware.UserClaims) (int, string) {
	if donation.DonorID != claims.UserID {
		return http.StatusForbidden, "Access denied"
	}
	if donation.Status != models.StatusPending {
		return http.StatusBadRequest, "Cannot cancel donation. Status is not pending."
	}
	return 0, ""
}

// listDonations returns all donations for admins and only the caller's own
// donations for everyone else, always newest first.
func listDonations(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}

	filter := donationListFilter(claims, r.URL.Query().Get("status"))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := db.Collection("donations").Find(ctx, filter, newestFirst())
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Failed to fetch donations", err.Error())
		return
	}
	defer cursor.Close(ctx)

	donations := []models.Donation{}
	if err := cursor.All(ctx, &donations); err != nil {
		response.Error(w, http.StatusInternalServerError, "Failed to decode donations", err.Error())
		return
	}

	response.Success(w, http.StatusOK, "Donations fetched successfully", donations)
}

func getDonationByID(w http.ResponseWriter, r *http.Request, id string) {
	claims, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid donation ID", err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var donation models.Donation
	err = db.Collection("donations").FindOne(ctx, bson.M{"_id": objID}).Decode(&donation)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			response.Error(w, http.StatusNotFound, "Donation not found", "")
		} else {
			response.Error(w, http.StatusInternalServerError, "Failed to fetch donation", err.Error())
		}
		return
	}

	if !canViewDonation(&donation, claims) {
		response.Error(w, http.StatusForbidden, "Access denied", "")
		return
	}

	attachNGO(ctx, &donation)
	response.Success(w, http.StatusOK, "Donation fetched successfully", donation)
}

// attachNGO joins the full NGO document for detail views. A missing NGO (for
// example one that was deleted after the donation) just leaves the summary
// fields in place.
func attachNGO(ctx context.Context, donation *models.Donation) {
	var ngo models.NGO
	if err := db.Collection("ngos").FindOne(ctx, bson.M{"_id": donation.NGOID}).Decode(&ngo); err == nil {
		donation.NGO = &ngo
	}
}

func createDonation(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}

	var input struct {
		NGOID          string         `json:"ngoId"`
		FoodType       string         `json:"foodType"`
		FoodCategory   string         `json:"foodCategory"`
		Quantity       int            `json:"quantity"`
		ServingSize    int            `json:"servingSize"`
		PickupLocation models.Address `json:"pickupLocation"`
		PickupDateTime time.Time      `json:"pickupDateTime"`
		DeliveryMethod string         `json:"deliveryMethod"`
		Notes          string         `json:"notes"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	ngoID, err := primitive.ObjectIDFromHex(input.NGOID)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid NGO ID", "")
		return
	}

	if !models.IsValidFoodType(input.FoodType) {
		response.Error(w, http.StatusBadRequest, "Food type must be 'cooked' or 'raw'", "")
		return
	}
	if !models.IsValidFoodCategory(input.FoodCategory) {
		response.Error(w, http.StatusBadRequest, "Food category must be 'veg' or 'non-veg'", "")
		return
	}
	if !models.IsValidDeliveryMethod(input.DeliveryMethod) {
		response.Error(w, http.StatusBadRequest, "Delivery method must be 'pickup' or 'delivery'", "")
		return
	}
	if input.Quantity <= 0 {
		response.Error(w, http.StatusBadRequest, "Quantity must be greater than zero", "")
		return
	}
	if input.ServingSize < 0 {
		response.Error(w, http.StatusBadRequest, "Serving size must not be negative", "")
		return
	}
	if input.PickupDateTime.IsZero() {
		response.Error(w, http.StatusBadRequest, "Pickup date and time is required", "")
		return
	}

	servingSize := input.ServingSize
	if servingSize == 0 {
		servingSize = 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// The referenced NGO must exist before anything is persisted.
	var ngo models.NGO
	err = db.Collection("ngos").FindOne(ctx, bson.M{"_id": ngoID}).Decode(&ngo)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			response.Error(w, http.StatusNotFound, "NGO not found", "")
		} else {
			response.Error(w, http.StatusInternalServerError, "Failed to fetch NGO", err.Error())
		}
		return
	}

	now := time.Now()
	donation := models.Donation{
		ID:             primitive.NewObjectID(),
		DonorID:        claims.UserID,
		DonorName:      claims.Name,
		DonorEmail:     claims.Email,
		NGOID:          ngo.ID,
		NGOName:        ngo.Name,
		NGOCategory:    ngo.Category,
		FoodType:       input.FoodType,
		FoodCategory:   input.FoodCategory,
		Quantity:       input.Quantity,
		ServingSize:    servingSize,
		PickupLocation: input.PickupLocation,
		PickupDateTime: input.PickupDateTime,
		DeliveryMethod: input.DeliveryMethod,
		Status:         models.StatusPending,
		Notes:          input.Notes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if _, err := db.Collection("donations").InsertOne(ctx, donation); err != nil {
		response.Error(w, http.StatusInternalServerError, "Failed to save donation", err.Error())
		return
	}

	log.Printf("[OK] Donation created - ID: %s, Donor: %s, NGO: %s", donation.ID.Hex(), donation.DonorID, donation.NGOName)

	publishEvent(queue.KeyDonationCreated, models.DonationEvent{
		Type:       models.EventDonationCreated,
		DonationID: donation.ID.Hex(),
		DonorID:    donation.DonorID,
		DonorName:  donation.DonorName,
		NGOName:    ngo.Name,
		NGOEmail:   ngo.Contact.Email,
		FoodType:   donation.FoodType,
		Quantity:   donation.Quantity,
		Status:     donation.Status,
		CreatedAt:  donation.CreatedAt,
	})

	donation.NGO = &ngo
	response.Success(w, http.StatusCreated, "Donation created successfully", donation)
}

func updateDonationStatus(w http.ResponseWriter, r *http.Request, id string) {
	var input struct {
		Status string `json:"status"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	// Enum membership is the only gate: any status may follow any other.
	if !models.IsValidStatus(input.Status) {
		response.Error(w, http.StatusBadRequest, "Invalid status", "")
		return
	}

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid donation ID", err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	update := bson.M{
		"$set": bson.M{
			"status":     input.Status,
			"updated_at": time.Now(),
		},
	}

	var donation models.Donation
	err = db.Collection("donations").FindOneAndUpdate(ctx,
		bson.M{"_id": objID},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&donation)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			response.Error(w, http.StatusNotFound, "Donation not found", "")
		} else {
			response.Error(w, http.StatusInternalServerError, "Failed to update status", err.Error())
		}
		return
	}

	log.Printf("[OK] Donation status updated - ID: %s, Status: %s", id, donation.Status)

	publishEvent(queue.KeyDonationUpdated, models.DonationEvent{
		Type:       models.EventStatusUpdate,
		DonationID: donation.ID.Hex(),
		DonorID:    donation.DonorID,
		DonorName:  donation.DonorName,
		NGOName:    donation.NGOName,
		Status:     donation.Status,
		CreatedAt:  donation.UpdatedAt,
	})

	attachNGO(ctx, &donation)
	response.Success(w, http.StatusOK, "Donation status updated", donation)
}

// cancelDonation hard-deletes the record. Only the owning donor may cancel,
// and only while the donation is still pending.
func cancelDonation(w http.ResponseWriter, r *http.Request, id string) {
	claims, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid donation ID", err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var donation models.Donation
	err = db.Collection("donations").FindOne(ctx, bson.M{"_id": objID}).Decode(&donation)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			response.Error(w, http.StatusNotFound, "Donation not found", "")
		} else {
			response.Error(w, http.StatusInternalServerError, "Failed to fetch donation", err.Error())
		}
		return
	}

	if code, msg := cancelBlocked(&donation, claims); code != 0 {
		response.Error(w, code, msg, "")
		return
	}

	if _, err := db.Collection("donations").DeleteOne(ctx, bson.M{"_id": objID}); err != nil {
		response.Error(w, http.StatusInternalServerError, "Failed to cancel donation", err.Error())
		return
	}

	log.Printf("[OK] Donation cancelled - ID: %s", id)
	response.Success(w, http.StatusOK, "Donation cancelled successfully", nil)
}
