package main

import (
	"net/http"
	"testing"

	"seva-donation-platform/pkg/middleware"
	"seva-donation-platform/services/donation-service/models"
)

func claimsFor(userID string, role middleware.Role) *middleware.UserClaims {
	return &middleware.UserClaims{
		UserID: userID,
		Email:  userID + "@example.com",
		Name:   "Test User",
		Role:   string(role),
	}
}

func TestDonationListFilterScopesDonorsToOwnDonations(t *testing.T) {
	filter := donationListFilter(claimsFor("donor-1", middleware.RoleDonor), "")

	if got, ok := filter["donor_id"]; !ok || got != "donor-1" {
		t.Errorf("expected donor_id=donor-1 in filter, got %v", filter)
	}
	if _, ok := filter["status"]; ok {
		t.Errorf("unexpected status in filter: %v", filter)
	}
}

func TestDonationListFilterAdminSeesEverything(t *testing.T) {
	filter := donationListFilter(claimsFor("admin-1", middleware.RoleAdmin), "")

	if len(filter) != 0 {
		t.Errorf("expected empty filter for admin, got %v", filter)
	}
}

func TestDonationListFilterStatusNarrowsBothViews(t *testing.T) {
	donor := donationListFilter(claimsFor("donor-1", middleware.RoleDonor), models.StatusPending)
	if donor["donor_id"] != "donor-1" || donor["status"] != models.StatusPending {
		t.Errorf("expected donor_id and status in donor filter, got %v", donor)
	}

	admin := donationListFilter(claimsFor("admin-1", middleware.RoleAdmin), models.StatusDelivered)
	if _, ok := admin["donor_id"]; ok {
		t.Errorf("unexpected donor_id in admin filter: %v", admin)
	}
	if admin["status"] != models.StatusDelivered {
		t.Errorf("expected status=%s in admin filter, got %v", models.StatusDelivered, admin)
	}
}

func TestCanViewDonation(t *testing.T) {
	donation := &models.Donation{DonorID: "donor-1"}

	if !canViewDonation(donation, claimsFor("donor-1", middleware.RoleDonor)) {
		t.Error("owner should see their own donation")
	}
	if !canViewDonation(donation, claimsFor("admin-1", middleware.RoleAdmin)) {
		t.Error("admin should see any donation")
	}
	if canViewDonation(donation, claimsFor("donor-2", middleware.RoleDonor)) {
		t.Error("another donor should not see the donation")
	}
}

func TestCancelBlockedChecksOwnershipBeforeStatus(t *testing.T) {
	// A non-owner gets 403 even when the pending gate would also fail, so
	// the response never leaks the donation's state.
	donation := &models.Donation{DonorID: "donor-1", Status: models.StatusDelivered}

	code, msg := cancelBlocked(donation, claimsFor("donor-2", middleware.RoleDonor))
	if code != http.StatusForbidden {
		t.Errorf("expected 403 for non-owner, got %d", code)
	}
	if msg != "Access denied" {
		t.Errorf("unexpected message: %q", msg)
	}
}

func TestCancelBlockedRejectsNonPending(t *testing.T) {
	for _, status := range []string{
		models.StatusAccepted,
		models.StatusPickedUp,
		models.StatusDelivered,
		models.StatusCancelled,
	} {
		donation := &models.Donation{DonorID: "donor-1", Status: status}
		code, msg := cancelBlocked(donation, claimsFor("donor-1", middleware.RoleDonor))
		if code != http.StatusBadRequest {
			t.Errorf("status %s: expected 400, got %d", status, code)
		}
		if msg != "Cannot cancel donation. Status is not pending." {
			t.Errorf("status %s: unexpected message %q", status, msg)
		}
	}
}

func TestCancelBlockedAllowsOwnerWhilePending(t *testing.T) {
	donation := &models.Donation{DonorID: "donor-1", Status: models.StatusPending}

	if code, msg := cancelBlocked(donation, claimsFor("donor-1", middleware.RoleDonor)); code != 0 {
		t.Errorf("expected cancel to be allowed, got %d %q", code, msg)
	}
}

func TestNGOFiltersAlwaysScopeToActive(t *testing.T) {
	if got := activeNGOFilter()["is_active"]; got != true {
		t.Errorf("expected is_active=true, got %v", got)
	}

	filter := ngoCategoryFilter("orphanage")
	if got := filter["is_active"]; got != true {
		t.Errorf("expected is_active=true in category filter, got %v", got)
	}
	if got := filter["category"]; got != "orphanage" {
		t.Errorf("expected category=orphanage, got %v", got)
	}
}
