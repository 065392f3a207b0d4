package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingserrors "clinicbook/internal/bookings/errors"
	"clinicbook/pkg/config"
	mongodb "clinicbook/pkg/db/mongo"
	"clinicbook/pkg/model"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Bookings"
)

type BookingRepository interface {
	// Create stores a new booking unconditionally and assigns its ID and
	// creation time. There is no uniqueness check on the slot.
	Create(ctx context.Context, booking *model.Booking) error
	FindByID(ctx context.Context, id string) (*model.Booking, error)
	// ListBookedSlots returns the slots of every non-cancelled booking on dateKey.
	ListBookedSlots(ctx context.Context, dateKey string) ([]model.BookedSlot, error)
	// UpdateStatus moves a booking from one status to another. It fails with
	// ErrStatusChanged if the booking is no longer in from.
	UpdateStatus(ctx context.Context, id, from, to, reviewedBy string, reviewedAt time.Time) error
}

type mongoBookingRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
}

func NewMongoBookingRepository(cfg *config.Config) BookingRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	// The draft only receives its identity once the insert succeeded.
	doc := *booking
	doc.ID = uuid.NewString()
	doc.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	if _, err := r.collection.InsertOne(ctx, &doc); err != nil {
		return fmt.Errorf("failed to insert booking: %w", err)
	}
	*booking = doc
	return nil
}

func (r *mongoBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	if err := uuid.Validate(id); err != nil {
		return nil, bookingserrors.ErrInvalidID
	}

	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var booking model.Booking
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&booking); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}
	return &booking, nil
}

func (r *mongoBookingRepository) ListBookedSlots(ctx context.Context, dateKey string) ([]model.BookedSlot, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bookedSlotsFilter(dateKey)
	opts := options.Find().
		SetProjection(bson.M{"_id": 0, "date_key": 1, "slot": 1, "resource_id": 1}).
		SetSort(bson.D{{Key: "slot", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find booked slots: %w", err)
	}
	defer cursor.Close(ctx)

	slots := []model.BookedSlot{}
	if err := cursor.All(ctx, &slots); err != nil {
		return nil, fmt.Errorf("failed to decode booked slots: %w", err)
	}
	return slots, nil
}

// bookedSlotsFilter matches every booking on dateKey that still holds its slot.
func bookedSlotsFilter(dateKey string) bson.M {
	return bson.M{
		"date_key": dateKey,
		"status":   bson.M{"$ne": model.StatusCancelled},
	}
}

func (r *mongoBookingRepository) UpdateStatus(ctx context.Context, id, from, to, reviewedBy string, reviewedAt time.Time) error {
	if err := uuid.Validate(id); err != nil {
		return bookingserrors.ErrInvalidID
	}

	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	set := bson.M{
		"status":      to,
		"reviewed_at": reviewedAt.UTC().Truncate(time.Millisecond),
	}
	if reviewedBy != "" {
		set["reviewed_by"] = reviewedBy
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id, "status": from}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	if result.MatchedCount > 0 {
		return nil
	}

	count, err := r.collection.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to check booking existence: %w", err)
	}
	if count == 0 {
		return bookingserrors.ErrNotFound
	}
	return bookingserrors.ErrStatusChanged
}
