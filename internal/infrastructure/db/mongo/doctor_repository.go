package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/medicare/booking-api/internal/core/domain"
	"github.com/medicare/booking-api/internal/core/ports"
)

const doctorsCollection = "doctors"

// DoctorRepository stores doctor profiles keyed by the owning user's id.
type DoctorRepository struct {
	col *mongo.Collection
}

func NewDoctorRepository(db *mongo.Database) *DoctorRepository {
	return &DoctorRepository{col: db.Collection(doctorsCollection)}
}

type mongoDoctor struct {
	ID             primitive.ObjectID `bson:"_id"`
	Name           string             `bson:"name"`
	Email          string             `bson:"email,omitempty"`
	Phone          string             `bson:"phone,omitempty"`
	Photo          string             `bson:"photo,omitempty"`
	Specialization string             `bson:"specialization,omitempty"`
	Bio            string             `bson:"bio,omitempty"`
	About          string             `bson:"about,omitempty"`
	TicketPrice    float64            `bson:"ticket_price"`
	TimeSlots      []domain.TimeSlot  `bson:"time_slots,omitempty"`
	Approval       string             `bson:"approval"`
	FullyBooked    bool               `bson:"fully_booked"`
	Deleted        bool               `bson:"deleted"`
	AverageRating  float64            `bson:"average_rating"`
	TotalRating    int                `bson:"total_rating"`
	CreatedAt      time.Time          `bson:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at"`
}

func (md *mongoDoctor) toDomain() *domain.Doctor {
	return &domain.Doctor{
		ID:             md.ID.Hex(),
		Name:           md.Name,
		Email:          md.Email,
		Phone:          md.Phone,
		Photo:          md.Photo,
		Specialization: md.Specialization,
		Bio:            md.Bio,
		About:          md.About,
		TicketPrice:    md.TicketPrice,
		TimeSlots:      md.TimeSlots,
		Approval:       domain.ApprovalStatus(md.Approval),
		FullyBooked:    md.FullyBooked,
		Deleted:        md.Deleted,
		AverageRating:  md.AverageRating,
		TotalRating:    md.TotalRating,
		CreatedAt:      md.CreatedAt.UTC(),
		UpdatedAt:      md.UpdatedAt.UTC(),
	}
}

// GetByID retrieves a doctor, including soft-deleted ones.
func (r *DoctorRepository) GetByID(ctx context.Context, id string) (*domain.Doctor, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrDoctorNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var md mongoDoctor
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&md); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrDoctorNotFound
		}
		return nil, fmt.Errorf("find doctor: %w", err)
	}
	return md.toDomain(), nil
}

// FindByIDs loads several doctors in one query. Malformed ids are skipped.
func (r *DoctorRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.Doctor, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			oids = append(oids, oid)
		}
	}
	if len(oids) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, fmt.Errorf("find doctors: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoDoctor
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("find doctors: decode: %w", err)
	}

	out := make([]*domain.Doctor, len(docs))
	for i := range docs {
		out[i] = docs[i].toDomain()
	}
	return out, nil
}

// List returns non-deleted doctors matching filter, best rated first.
func (r *DoctorRepository) List(ctx context.Context, filter ports.ListDoctorsFilter) ([]*domain.Doctor, error) {
	q := bson.M{"deleted": bson.M{"$ne": true}}
	if filter.ApprovedOnly {
		q["approval"] = string(domain.ApprovalApproved)
	}
	if filter.Query != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(filter.Query), Options: "i"}
		q["$or"] = bson.A{
			bson.M{"name": pattern},
			bson.M{"specialization": pattern},
		}
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, q, options.Find().SetSort(bson.D{
		{Key: "average_rating", Value: -1},
		{Key: "name", Value: 1},
	}))
	if err != nil {
		return nil, fmt.Errorf("list doctors: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoDoctor
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list doctors: decode: %w", err)
	}

	out := make([]*domain.Doctor, len(docs))
	for i := range docs {
		out[i] = docs[i].toDomain()
	}
	return out, nil
}

// Upsert creates the profile on first write (pending approval) and applies the
// non-nil fields on every write.
func (r *DoctorRepository) Upsert(ctx context.Context, id string, p domain.DoctorProfile) (*domain.Doctor, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrDoctorNotFound
	}

	now := time.Now().UTC()
	set := bson.M{"updated_at": now}
	setIfPresent(set, "name", p.Name)
	setIfPresent(set, "email", p.Email)
	setIfPresent(set, "phone", p.Phone)
	setIfPresent(set, "photo", p.Photo)
	setIfPresent(set, "specialization", p.Specialization)
	setIfPresent(set, "bio", p.Bio)
	setIfPresent(set, "about", p.About)
	setIfPresent(set, "ticket_price", p.TicketPrice)
	setIfPresent(set, "fully_booked", p.FullyBooked)
	if p.TimeSlots != nil {
		set["time_slots"] = p.TimeSlots
	}

	onInsert := bson.M{
		"approval":       string(domain.ApprovalPending),
		"deleted":        false,
		"average_rating": 0.0,
		"total_rating":   0,
		"created_at":     now,
	}
	// A field may appear in only one of $set and $setOnInsert.
	for _, k := range []string{"name", "ticket_price", "fully_booked"} {
		if _, ok := set[k]; !ok {
			onInsert[k] = zeroValue(k)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var md mongoDoctor
	err = r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set, "$setOnInsert": onInsert},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&md)
	if err != nil {
		return nil, fmt.Errorf("upsert doctor: %w", err)
	}
	return md.toDomain(), nil
}

func zeroValue(field string) any {
	switch field {
	case "ticket_price":
		return 0.0
	case "fully_booked":
		return false
	default:
		return ""
	}
}

func (r *DoctorRepository) SetApproval(ctx context.Context, id string, status domain.ApprovalStatus) (*domain.Doctor, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrDoctorNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var md mongoDoctor
	err = r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": oid, "deleted": bson.M{"$ne": true}},
		bson.M{"$set": bson.M{"approval": string(status), "updated_at": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&md)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrDoctorNotFound
		}
		return nil, fmt.Errorf("set doctor approval: %w", err)
	}
	return md.toDomain(), nil
}

func (r *DoctorRepository) SetRating(ctx context.Context, id string, summary domain.RatingSummary) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrDoctorNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"average_rating": summary.Average,
		"total_rating":   summary.Count,
	}})
	if err != nil {
		return fmt.Errorf("set doctor rating: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrDoctorNotFound
	}
	return nil
}

// SoftDelete flags the doctor as deleted; the record stays for reviews and
// payment reconciliation.
func (r *DoctorRepository) SoftDelete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrDoctorNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": oid, "deleted": bson.M{"$ne": true}},
		bson.M{"$set": bson.M{"deleted": true, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return fmt.Errorf("delete doctor: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrDoctorNotFound
	}
	return nil
}

// EnsureIndexes creates necessary indexes on the doctors collection.
func (r *DoctorRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "approval", Value: 1}, {Key: "deleted", Value: 1}}},
		{Keys: bson.D{{Key: "average_rating", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
