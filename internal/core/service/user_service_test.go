package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/medicare/booking-api/internal/core/domain"
)

func seedUsers(t *testing.T) (*stubUserRepo, *domain.User, *domain.User) {
	t.Helper()
	repo := newStubUserRepo()
	a, err := repo.Save(context.Background(), &domain.User{Username: "alice", Email: "alice@x.com", Role: domain.RolePatient})
	if err != nil {
		t.Fatal(err)
	}
	b, err := repo.Save(context.Background(), &domain.User{Username: "bob", Email: "bob@x.com", Role: domain.RolePatient})
	if err != nil {
		t.Fatal(err)
	}
	return repo, a, b
}

func newTestUserService(repo *stubUserRepo, doctors *stubDoctorRepo, bookings *stubBookingRepo, cache *stubDoctorCache) *UserService {
	if cache == nil {
		return NewUserService(repo, doctors, bookings, nil, zerolog.Nop())
	}
	return NewUserService(repo, doctors, bookings, cache, zerolog.Nop())
}

func TestUserService_SelfOrAdmin(t *testing.T) {
	repo, alice, bob := seedUsers(t)
	svc := newTestUserService(repo, newStubDoctorRepo(), &stubBookingRepo{}, nil)
	ctx := context.Background()

	if _, err := svc.Get(ctx, alice.Principal(), alice.ID); err != nil {
		t.Fatalf("self Get: %v", err)
	}
	if _, err := svc.Get(ctx, alice.Principal(), bob.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	admin := domain.Principal{ID: "admin-1", Role: domain.RoleAdmin}
	if _, err := svc.Get(ctx, admin, bob.ID); err != nil {
		t.Fatalf("admin Get: %v", err)
	}
	if err := svc.Delete(ctx, alice.Principal(), bob.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestUserService_Update(t *testing.T) {
	repo, alice, _ := seedUsers(t)
	svc := newTestUserService(repo, newStubDoctorRepo(), &stubBookingRepo{}, nil)

	u, err := svc.Update(context.Background(), alice.Principal(), alice.ID, domain.UserUpdate{
		Name:  strPtr("Alice Liddell"),
		Email: strPtr("  Alice@Wonder.land "),
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if u.Name != "Alice Liddell" || u.Email != "alice@wonder.land" {
		t.Fatalf("unexpected user: %+v", u)
	}
	if u.Role != domain.RolePatient {
		t.Fatalf("role must not change, got %s", u.Role)
	}

	if _, err := svc.Update(context.Background(), alice.Principal(), alice.ID, domain.UserUpdate{Email: strPtr(" ")}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestUserService_Delete(t *testing.T) {
	repo, alice, _ := seedUsers(t)
	svc := newTestUserService(repo, newStubDoctorRepo(), &stubBookingRepo{}, nil)

	if err := svc.Delete(context.Background(), alice.Principal(), alice.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetByID(context.Background(), alice.ID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected user to be gone, got %v", err)
	}
}

func TestUserService_DeleteUnknownUser(t *testing.T) {
	repo, alice, _ := seedUsers(t)
	svc := newTestUserService(repo, newStubDoctorRepo(), &stubBookingRepo{}, nil)
	admin := domain.Principal{ID: "admin-1", Role: domain.RoleAdmin}

	if err := svc.Delete(context.Background(), admin, "user-404"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := repo.GetByID(context.Background(), alice.ID); err != nil {
		t.Fatalf("other users must be untouched: %v", err)
	}
}

func TestUserService_AdminDeletingDoctorRetiresProfile(t *testing.T) {
	ctx := context.Background()
	users := newStubUserRepo()
	doc, err := users.Save(ctx, &domain.User{Username: "grey", Email: "grey@x.com", Role: domain.RoleDoctor})
	if err != nil {
		t.Fatal(err)
	}
	doctors := newStubDoctorRepo(bookableDoctor(doc.ID, 50))
	cache := newStubDoctorCache()
	cache.entries[doc.ID] = bookableDoctor(doc.ID, 50)
	svc := newTestUserService(users, doctors, &stubBookingRepo{}, cache)

	admin := domain.Principal{ID: "admin-1", Role: domain.RoleAdmin}
	if err := svc.Delete(ctx, admin, doc.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if !doctors.byID[doc.ID].Deleted {
		t.Fatal("expected doctor profile to be soft-deleted")
	}
	if _, ok := cache.entries[doc.ID]; ok {
		t.Fatal("expected doctor cache entry to be dropped")
	}

	provider := &stubProvider{}
	checkout := newTestCheckout(doctors, users, provider, 0)
	if _, err := checkout.CreateCheckoutSession(ctx, patient, doc.ID); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
	if provider.calls() != 0 {
		t.Fatalf("provider must not be called, got %d calls", provider.calls())
	}
}

func TestUserService_DeleteDoctorWithoutProfile(t *testing.T) {
	ctx := context.Background()
	users := newStubUserRepo()
	doc, _ := users.Save(ctx, &domain.User{Username: "grey", Email: "grey@x.com", Role: domain.RoleDoctor})
	svc := newTestUserService(users, newStubDoctorRepo(), &stubBookingRepo{}, nil)

	if err := svc.Delete(ctx, doc.Principal(), doc.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := users.GetByID(ctx, doc.ID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected user to be gone, got %v", err)
	}
}

func TestUserService_MyAppointments(t *testing.T) {
	repo, alice, bob := seedUsers(t)
	when := time.Date(2024, 12, 1, 9, 0, 0, 0, time.UTC)
	bookings := &stubBookingRepo{bookings: []*domain.Booking{
		{ID: "b1", DoctorID: "d1", PatientID: alice.ID, TicketPrice: 50, AppointmentDate: when, Status: domain.BookingApproved, IsPaid: true},
		{ID: "b2", DoctorID: "gone", PatientID: alice.ID, TicketPrice: 30, AppointmentDate: when, Status: domain.BookingPending},
		{ID: "b3", DoctorID: "d1", PatientID: bob.ID, TicketPrice: 50, AppointmentDate: when},
	}}
	svc := newTestUserService(repo, newStubDoctorRepo(bookableDoctor("d1", 50)), bookings, nil)

	got, err := svc.MyAppointments(context.Background(), alice.Principal())
	if err != nil {
		t.Fatalf("MyAppointments: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 appointments, got %d", len(got))
	}
	if got[0].ID != "b1" || got[0].Doctor == nil || got[0].Doctor.Name != "Dr. Grey" || !got[0].IsPaid {
		t.Fatalf("unexpected first appointment: %+v", got[0])
	}
	if got[1].ID != "b2" || got[1].Doctor != nil {
		t.Fatalf("expected missing doctor to be nil: %+v", got[1])
	}
}

func TestUserService_MyAppointments_Empty(t *testing.T) {
	repo, alice, _ := seedUsers(t)
	svc := newTestUserService(repo, newStubDoctorRepo(), &stubBookingRepo{}, nil)

	got, err := svc.MyAppointments(context.Background(), alice.Principal())
	if err != nil || got == nil || len(got) != 0 {
		t.Fatalf("MyAppointments = %v, %v; want empty slice", got, err)
	}
}

func TestUserService_MyAppointments_StoreError(t *testing.T) {
	repo, alice, _ := seedUsers(t)
	svc := newTestUserService(repo, newStubDoctorRepo(), &stubBookingRepo{err: errors.New("mongo down")}, nil)

	if _, err := svc.MyAppointments(context.Background(), alice.Principal()); err == nil {
		t.Fatal("expected store error")
	}
}
