package main

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"seva-donation-platform/pkg/middleware"
	"seva-donation-platform/pkg/response"
	"seva-donation-platform/services/auth-service/models"
	"seva-donation-platform/services/auth-service/utils"
)

func profileHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		getProfile(w, r)
	case http.MethodPut:
		updateProfile(w, r)
	default:
		response.Error(w, http.StatusMethodNotAllowed, "Method not allowed", "")
	}
}

func getProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}

	var user models.User
	if err := db.First(&user, "id = ?", claims.UserID).Error; err != nil {
		response.Error(w, http.StatusNotFound, "User not found", "")
		return
	}

	response.Success(w, http.StatusOK, "Profile fetched successfully", user)
}

func updateProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}

	var input struct {
		Name    string         `json:"name"`
		Phone   string         `json:"phone"`
		Address models.Address `json:"address"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	if input.Name != "" && !isValidName(input.Name) {
		response.Error(w, http.StatusBadRequest, "Name must be at least 3 characters", "")
		return
	}

	if !isValidPhone(input.Phone) {
		response.Error(w, http.StatusBadRequest, "Invalid phone number", "")
		return
	}

	var user models.User
	if err := db.First(&user, "id = ?", claims.UserID).Error; err != nil {
		response.Error(w, http.StatusNotFound, "User not found", "")
		return
	}

	if input.Name != "" {
		user.Name = strings.TrimSpace(input.Name)
	}
	user.Phone = input.Phone
	user.Address = input.Address

	if err := db.Save(&user).Error; err != nil {
		log.Printf("[ERROR] Failed to update profile: %v", err)
		response.Error(w, http.StatusInternalServerError, "Failed to update profile", "")
		return
	}

	log.Printf("[OK] Profile updated - ID: %s", user.ID)
	response.Success(w, http.StatusOK, "Profile updated successfully", user)
}

func changePasswordHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		response.Error(w, http.StatusMethodNotAllowed, "Method not allowed", "")
		return
	}

	claims, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}

	var input struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	if input.CurrentPassword == "" || input.NewPassword == "" {
		response.Error(w, http.StatusBadRequest, "Current and new password are required", "")
		return
	}

	if valid, msg := isValidPassword(input.NewPassword); !valid {
		response.Error(w, http.StatusBadRequest, msg, "")
		return
	}

	var user models.User
	if err := db.First(&user, "id = ?", claims.UserID).Error; err != nil {
		response.Error(w, http.StatusNotFound, "User not found", "")
		return
	}

	if !utils.CheckPasswordHash(input.CurrentPassword, user.Password) {
		response.Error(w, http.StatusBadRequest, "Current password is incorrect", "")
		return
	}

	hashed, err := utils.HashPassword(input.NewPassword)
	if err != nil {
		log.Printf("[ERROR] Failed to hash password: %v", err)
		response.Error(w, http.StatusInternalServerError, "Failed to change password", "")
		return
	}

	if err := db.Model(&user).Update("password", hashed).Error; err != nil {
		log.Printf("[ERROR] Failed to store new password: %v", err)
		response.Error(w, http.StatusInternalServerError, "Failed to change password", "")
		return
	}

	log.Printf("[OK] Password changed - ID: %s", user.ID)
	response.Success(w, http.StatusOK, "Password changed successfully", nil)
}

func listUsersHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		response.Error(w, http.StatusMethodNotAllowed, "Method not allowed", "")
		return
	}

	var users []models.User
	if err := db.Order("created_at desc").Find(&users).Error; err != nil {
		response.Error(w, http.StatusInternalServerError, "Failed to fetch users", err.Error())
		return
	}

	response.Success(w, http.StatusOK, "Users fetched successfully", users)
}

func userDetailHandler(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/users/")
	if id == "" {
		response.Error(w, http.StatusBadRequest, "Missing user ID", "")
		return
	}

	if r.Method != http.MethodDelete {
		response.Error(w, http.StatusMethodNotAllowed, "Method not allowed", "")
		return
	}

	var user models.User
	if err := db.First(&user, "id = ?", id).Error; err != nil {
		response.Error(w, http.StatusNotFound, "User not found", "")
		return
	}

	if err := db.Unscoped().Delete(&user).Error; err != nil {
		log.Printf("[ERROR] Failed to delete user: %v", err)
		response.Error(w, http.StatusInternalServerError, "Failed to delete user", "")
		return
	}

	log.Printf("[OK] User deleted - ID: %s", id)
	response.Success(w, http.StatusOK, "User deleted successfully", nil)
}
