package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/medicare/booking-api/internal/core/domain"
)

func strPtr(s string) *string { return &s }

func TestDoctorService_Get_ReadThrough(t *testing.T) {
	repo := newStubDoctorRepo(bookableDoctor("d1", 40))
	cache := newStubDoctorCache()
	svc := NewDoctorService(repo, cache, zerolog.Nop())
	ctx := context.Background()

	if _, err := svc.Get(ctx, "d1"); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if _, ok := cache.entries["d1"]; !ok {
		t.Fatal("expected doctor to be cached after a miss")
	}
	if _, err := svc.Get(ctx, "d1"); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if repo.gets != 1 {
		t.Fatalf("expected the second read to hit the cache, repo gets = %d", repo.gets)
	}
}

func TestDoctorService_Get_CacheErrorFallsBack(t *testing.T) {
	repo := newStubDoctorRepo(bookableDoctor("d1", 40))
	cache := newStubDoctorCache()
	cache.getErr = errors.New("redis down")
	svc := NewDoctorService(repo, cache, zerolog.Nop())

	d, err := svc.Get(context.Background(), "d1")
	if err != nil || d.ID != "d1" {
		t.Fatalf("Get = %+v, %v", d, err)
	}
}

func TestDoctorService_Get_DeletedIsNotFound(t *testing.T) {
	d := bookableDoctor("d1", 40)
	d.Deleted = true
	svc := NewDoctorService(newStubDoctorRepo(d), nil, zerolog.Nop())

	if _, err := svc.Get(context.Background(), "d1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDoctorService_List_OnlyApproved(t *testing.T) {
	pending := bookableDoctor("d2", 40)
	pending.Approval = domain.ApprovalPending
	cardio := bookableDoctor("d3", 40)
	cardio.Specialization = "Cardiology"
	svc := NewDoctorService(newStubDoctorRepo(bookableDoctor("d1", 40), pending, cardio), nil, zerolog.Nop())

	all, err := svc.List(context.Background(), "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 approved doctors, got %d", len(all))
	}

	found, _ := svc.List(context.Background(), "  cardio ")
	if len(found) != 1 || found[0].ID != "d3" {
		t.Fatalf("unexpected search result: %+v", found)
	}
}

func TestDoctorService_UpdateProfile(t *testing.T) {
	repo := newStubDoctorRepo()
	cache := newStubDoctorCache()
	svc := NewDoctorService(repo, cache, zerolog.Nop())
	self := domain.Principal{ID: "d1", Role: domain.RoleDoctor}
	price := 75.0

	d, err := svc.UpdateProfile(context.Background(), self, "d1", domain.DoctorProfile{Name: strPtr("Dr. Who"), TicketPrice: &price})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if d.Approval != domain.ApprovalPending || d.TicketPrice != 75 {
		t.Fatalf("unexpected profile: %+v", d)
	}
	if len(cache.invalidated) != 1 || cache.invalidated[0] != "d1" {
		t.Fatalf("expected cache invalidation, got %v", cache.invalidated)
	}

	other := domain.Principal{ID: "d2", Role: domain.RoleDoctor}
	if _, err := svc.UpdateProfile(context.Background(), other, "d1", domain.DoctorProfile{}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	bad := -1.0
	if _, err := svc.UpdateProfile(context.Background(), self, "d1", domain.DoctorProfile{TicketPrice: &bad}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestDoctorService_Delete(t *testing.T) {
	repo := newStubDoctorRepo(bookableDoctor("d1", 40))
	svc := NewDoctorService(repo, newStubDoctorCache(), zerolog.Nop())

	if err := svc.Delete(context.Background(), domain.Principal{ID: "d2", Role: domain.RoleDoctor}, "d1"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := svc.Delete(context.Background(), domain.Principal{ID: "d1", Role: domain.RoleDoctor}, "d1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if !repo.byID["d1"].Deleted {
		t.Fatal("expected soft delete")
	}
	if _, err := svc.Get(context.Background(), "d1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("deleted doctor should not be visible, got %v", err)
	}
}

func TestDoctorService_SetApproval(t *testing.T) {
	d := bookableDoctor("d1", 40)
	d.Approval = domain.ApprovalPending
	svc := NewDoctorService(newStubDoctorRepo(d), nil, zerolog.Nop())

	got, err := svc.SetApproval(context.Background(), "d1", "approved")
	if err != nil || got.Approval != domain.ApprovalApproved {
		t.Fatalf("SetApproval = %+v, %v", got, err)
	}
	if _, err := svc.SetApproval(context.Background(), "d1", "maybe"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.SetApproval(context.Background(), "nope", "approved"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDoctorService_Get_InvalidationDuringLoadIsNotCached(t *testing.T) {
	repo := newStubDoctorRepo(bookableDoctor("d1", 40))
	cache := newStubDoctorCache()
	svc := NewDoctorService(repo, cache, zerolog.Nop())
	ctx := context.Background()

	// The doctor is deleted while this read holds the pre-delete record.
	repo.onGet = func(id string) {
		repo.onGet = nil
		if err := svc.Delete(ctx, domain.Principal{ID: id, Role: domain.RoleDoctor}, id); err != nil {
			t.Errorf("Delete: %v", err)
		}
	}

	if _, err := svc.Get(ctx, "d1"); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if _, ok := cache.entries["d1"]; ok {
		t.Fatal("a record loaded before the invalidation must not be cached")
	}
	if _, err := svc.Get(ctx, "d1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestDoctorService_UpdateProfile_PriceCeiling(t *testing.T) {
	svc := NewDoctorService(newStubDoctorRepo(), nil, zerolog.Nop())
	self := domain.Principal{ID: "d1", Role: domain.RoleDoctor}
	over := domain.MaxTicketPrice + 1

	if _, err := svc.UpdateProfile(context.Background(), self, "d1", domain.DoctorProfile{TicketPrice: &over}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	limit := domain.MaxTicketPrice
	if _, err := svc.UpdateProfile(context.Background(), self, "d1", domain.DoctorProfile{TicketPrice: &limit}); err != nil {
		t.Fatalf("price at the ceiling: %v", err)
	}
}
