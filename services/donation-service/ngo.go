package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"seva-donation-platform/pkg/middleware"
	"seva-donation-platform/pkg/response"
	"seva-donation-platform/services/donation-service/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func ngosHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		listNGOs(w, r)
	case http.MethodPost:
		middleware.AuthMiddleware(middleware.RequireAdmin(createNGO))(w, r)
	default:
		response.Error(w, http.StatusMethodNotAllowed, "Method not allowed", "")
	}
}

func ngoDetailHandler(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/ngos/")
	if rest == "" {
		response.Error(w, http.StatusBadRequest, "Missing NGO ID", "")
		return
	}

	if strings.HasPrefix(rest, "category/") {
		if r.Method != http.MethodGet {
			response.Error(w, http.StatusMethodNotAllowed, "Method not allowed", "")
			return
		}
		listNGOsByCategory(w, r, strings.TrimPrefix(rest, "category/"))
		return
	}

	if strings.HasSuffix(rest, "/image") {
		if r.Method != http.MethodPost {
			response.Error(w, http.StatusMethodNotAllowed, "Method not allowed", "")
			return
		}
		id := strings.TrimSuffix(rest, "/image")
		middleware.AuthMiddleware(middleware.RequireAdmin(func(w http.ResponseWriter, r *http.Request) {
			uploadNGOImage(w, r, id)
		}))(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		getNGOByID(w, r, rest)
	case http.MethodPut:
		middleware.AuthMiddleware(middleware.RequireAdmin(func(w http.ResponseWriter, r *http.Request) {
			updateNGO(w, r, rest)
		}))(w, r)
	case http.MethodDelete:
		middleware.AuthMiddleware(middleware.RequireAdmin(func(w http.ResponseWriter, r *http.Request) {
			deleteNGO(w, r, rest)
		}))(w, r)
	default:
		response.Error(w, http.StatusMethodNotAllowed, "Method not allowed", "")
	}
}

// Public listings only ever show active NGOs, newest first.
func activeNGOFilter() bson.M {
	return bson.M{"is_active": true}
}

// ngoCategoryFilter narrows the listing to one category while keeping the
// active-only scope.
func ngoCategoryFilter(category string) bson.M {
	filter := activeNGOFilter()
	filter["category"] = category
	return filter
}

func newestFirst() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
}

func listNGOs(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := db.Collection("ngos").Find(ctx, activeNGOFilter(), newestFirst())
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Failed to fetch NGOs", err.Error())
		return
	}
	defer cursor.Close(ctx)

	ngos := []models.NGO{}
	if err := cursor.All(ctx, &ngos); err != nil {
		response.Error(w, http.StatusInternalServerError, "Failed to decode NGOs", err.Error())
		return
	}

	response.Success(w, http.StatusOK, "NGOs fetched successfully", ngos)
}

func listNGOsByCategory(w http.ResponseWriter, r *http.Request, category string) {
	if !models.IsValidNGOCategory(category) {
		response.Error(w, http.StatusBadRequest, "Invalid NGO category", "")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := db.Collection("ngos").Find(ctx, ngoCategoryFilter(category), newestFirst())
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Failed to fetch NGOs", err.Error())
		return
	}
	defer cursor.Close(ctx)

	ngos := []models.NGO{}
	if err := cursor.All(ctx, &ngos); err != nil {
		response.Error(w, http.StatusInternalServerError, "Failed to decode NGOs", err.Error())
		return
	}

	response.Success(w, http.StatusOK, "NGOs fetched successfully", ngos)
}

func getNGOByID(w http.ResponseWriter, r *http.Request, id string) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid NGO ID", err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var ngo models.NGO
	err = db.Collection("ngos").FindOne(ctx, bson.M{"_id": objID}).Decode(&ngo)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			response.Error(w, http.StatusNotFound, "NGO not found", "")
		} else {
			response.Error(w, http.StatusInternalServerError, "Failed to fetch NGO", err.Error())
		}
		return
	}

	response.Success(w, http.StatusOK, "NGO fetched successfully", ngo)
}

func createNGO(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name             string         `json:"name"`
		Description      string         `json:"description"`
		Category         string         `json:"category"`
		Address          models.Address `json:"address"`
		Contact          models.Contact `json:"contact"`
		Capacity         int            `json:"capacity"`
		CurrentOccupancy int            `json:"currentOccupancy"`
		Image            string         `json:"image"`
		IsActive         *bool          `json:"isActive"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" || input.Description == "" || input.Category == "" {
		response.Error(w, http.StatusBadRequest, "Name, description, and category are required", "")
		return
	}

	if !models.IsValidNGOCategory(input.Category) {
		response.Error(w, http.StatusBadRequest, "Invalid NGO category", "")
		return
	}

	if input.Capacity < 0 || input.CurrentOccupancy < 0 {
		response.Error(w, http.StatusBadRequest, "Capacity and occupancy must not be negative", "")
		return
	}

	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}

	ngo := models.NGO{
		ID:               primitive.NewObjectID(),
		Name:             input.Name,
		Description:      input.Description,
		Category:         input.Category,
		Address:          input.Address,
		Contact:          input.Contact,
		Capacity:         input.Capacity,
		CurrentOccupancy: input.CurrentOccupancy,
		Image:            input.Image,
		IsActive:         isActive,
		CreatedAt:        time.Now(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := db.Collection("ngos").InsertOne(ctx, ngo); err != nil {
		response.Error(w, http.StatusInternalServerError, "Failed to save NGO", err.Error())
		return
	}

	log.Printf("[OK] NGO created - ID: %s, Name: %s", ngo.ID.Hex(), ngo.Name)
	response.Success(w, http.StatusCreated, "NGO created successfully", ngo)
}

func updateNGO(w http.ResponseWriter, r *http.Request, id string) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid NGO ID", err.Error())
		return
	}

	// Pointers distinguish "field absent" from a zero value: updates are
	// partial field replacement.
	var input struct {
		Name             *string         `json:"name"`
		Description      *string         `json:"description"`
		Category         *string         `json:"category"`
		Address          *models.Address `json:"address"`
		Contact          *models.Contact `json:"contact"`
		Capacity         *int            `json:"capacity"`
		CurrentOccupancy *int            `json:"currentOccupancy"`
		Image            *string         `json:"image"`
		IsActive         *bool           `json:"isActive"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	set := bson.M{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			response.Error(w, http.StatusBadRequest, "Name must not be empty", "")
			return
		}
		set["name"] = name
	}
	if input.Description != nil {
		if *input.Description == "" {
			response.Error(w, http.StatusBadRequest, "Description must not be empty", "")
			return
		}
		set["description"] = *input.Description
	}
	if input.Category != nil {
		if !models.IsValidNGOCategory(*input.Category) {
			response.Error(w, http.StatusBadRequest, "Invalid NGO category", "")
			return
		}
		set["category"] = *input.Category
	}
	if input.Address != nil {
		set["address"] = *input.Address
	}
	if input.Contact != nil {
		set["contact"] = *input.Contact
	}
	if input.Capacity != nil {
		if *input.Capacity < 0 {
			response.Error(w, http.StatusBadRequest, "Capacity must not be negative", "")
			return
		}
		set["capacity"] = *input.Capacity
	}
	if input.CurrentOccupancy != nil {
		if *input.CurrentOccupancy < 0 {
			response.Error(w, http.StatusBadRequest, "Occupancy must not be negative", "")
			return
		}
		set["current_occupancy"] = *input.CurrentOccupancy
	}
	if input.Image != nil {
		set["image"] = *input.Image
	}
	if input.IsActive != nil {
		set["is_active"] = *input.IsActive
	}

	if len(set) == 0 {
		response.Error(w, http.StatusBadRequest, "No fields to update", "")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var updated models.NGO
	err = db.Collection("ngos").FindOneAndUpdate(ctx,
		bson.M{"_id": objID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			response.Error(w, http.StatusNotFound, "NGO not found", "")
		} else {
			response.Error(w, http.StatusInternalServerError, "Failed to update NGO", err.Error())
		}
		return
	}

	log.Printf("[OK] NGO updated - ID: %s", id)
	response.Success(w, http.StatusOK, "NGO updated successfully", updated)
}

func deleteNGO(w http.ResponseWriter, r *http.Request, id string) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid NGO ID", err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := db.Collection("ngos").DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Failed to delete NGO", err.Error())
		return
	}
	if result.DeletedCount == 0 {
		response.Error(w, http.StatusNotFound, "NGO not found", "")
		return
	}

	log.Printf("[OK] NGO deleted - ID: %s", id)
	response.Success(w, http.StatusOK, "NGO deleted successfully", nil)
}

const maxImageSize = 10 << 20 // 10 MiB

func uploadNGOImage(w http.ResponseWriter, r *http.Request, id string) {
	if images == nil {
		response.Error(w, http.StatusServiceUnavailable, "Image storage is not available", "")
		return
	}

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid NGO ID", err.Error())
		return
	}

	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid multipart form", err.Error())
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Image file is required", err.Error())
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		response.Error(w, http.StatusBadRequest, "Only image uploads are allowed", "")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var ngo models.NGO
	if err := db.Collection("ngos").FindOne(ctx, bson.M{"_id": objID}).Decode(&ngo); err != nil {
		if err == mongo.ErrNoDocuments {
			response.Error(w, http.StatusNotFound, "NGO not found", "")
		} else {
			response.Error(w, http.StatusInternalServerError, "Failed to fetch NGO", err.Error())
		}
		return
	}

	objectName := fmt.Sprintf("%s-%s%s", id, uuid.New().String(), filepath.Ext(header.Filename))
	imageURL, err := images.UploadImage(ctx, objectName, file, header.Size, contentType)
	if err != nil {
		log.Printf("[ERROR] Failed to upload NGO image: %v", err)
		response.Error(w, http.StatusInternalServerError, "Failed to upload image", err.Error())
		return
	}

	_, err = db.Collection("ngos").UpdateOne(ctx,
		bson.M{"_id": objID},
		bson.M{"$set": bson.M{"image": imageURL}},
	)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Failed to save image URL", err.Error())
		return
	}

	log.Printf("[OK] NGO image uploaded - ID: %s", id)
	response.Success(w, http.StatusOK, "Image uploaded successfully", map[string]string{"image": imageURL})
}
