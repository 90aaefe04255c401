package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/medicare/booking-api/internal/core/domain"
)

const bookingsCollection = "bookings"

// BookingRepository reads the bookings collection. Documents are written by
// payment reconciliation once a checkout session completes.
type BookingRepository struct {
	col *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) *BookingRepository {
	return &BookingRepository{col: db.Collection(bookingsCollection)}
}

type mongoBooking struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	DoctorID        string             `bson:"doctor_id"`
	PatientID       string             `bson:"patient_id"`
	TicketPrice     float64            `bson:"ticket_price"`
	AppointmentDate time.Time          `bson:"appointment_date"`
	Status          string             `bson:"status"`
	IsPaid          bool               `bson:"is_paid"`
	CreatedAt       time.Time          `bson:"created_at"`
}

func (mb *mongoBooking) toDomain() *domain.Booking {
	status := domain.BookingStatus(mb.Status)
	if status == "" {
		status = domain.BookingPending
	}
	return &domain.Booking{
		ID:              mb.ID.Hex(),
		DoctorID:        mb.DoctorID,
		PatientID:       mb.PatientID,
		TicketPrice:     mb.TicketPrice,
		AppointmentDate: mb.AppointmentDate.UTC(),
		Status:          status,
		IsPaid:          mb.IsPaid,
		CreatedAt:       mb.CreatedAt.UTC(),
	}
}

func (r *BookingRepository) ListByPatient(ctx context.Context, patientID string) ([]*domain.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx,
		bson.M{"patient_id": patientID},
		options.Find().SetSort(bson.D{{Key: "appointment_date", Value: -1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoBooking
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list bookings: decode: %w", err)
	}

	out := make([]*domain.Booking, len(docs))
	for i := range docs {
		out[i] = docs[i].toDomain()
	}
	return out, nil
}

// EnsureIndexes creates necessary indexes on the bookings collection.
func (r *BookingRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "patient_id", Value: 1}, {Key: "appointment_date", Value: -1}},
	})
	return err
}
