package models

import "testing"

func TestIsValidStatus(t *testing.T) {
	for _, s := range []string{StatusPending, StatusAccepted, StatusPickedUp, StatusDelivered, StatusCancelled} {
		if !IsValidStatus(s) {
			t.Errorf("expected %q to be a valid status", s)
		}
	}
	for _, s := range []string{"", "PENDING", "in-progress", "done"} {
		if IsValidStatus(s) {
			t.Errorf("expected %q to be rejected", s)
		}
	}
}

func TestIsValidNGOCategory(t *testing.T) {
	for _, c := range []string{"orphanage", "old-age-home", "homeless-shelter", "disaster-relief", "other"} {
		if !IsValidNGOCategory(c) {
			t.Errorf("expected %q to be a valid category", c)
		}
	}
	if IsValidNGOCategory("school") {
		t.Error("unknown category accepted")
	}
}

func TestFoodEnums(t *testing.T) {
	if !IsValidFoodType("cooked") || !IsValidFoodType("raw") {
		t.Error("valid food type rejected")
	}
	if IsValidFoodType("frozen") {
		t.Error("unknown food type accepted")
	}

	if !IsValidFoodCategory("veg") || !IsValidFoodCategory("non-veg") {
		t.Error("valid food category rejected")
	}
	if IsValidFoodCategory("vegan") {
		t.Error("unknown food category accepted")
	}

	if !IsValidDeliveryMethod("pickup") || !IsValidDeliveryMethod("delivery") {
		t.Error("valid delivery method rejected")
	}
	if IsValidDeliveryMethod("courier") {
		t.Error("unknown delivery method accepted")
	}
}
