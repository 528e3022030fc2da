package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"skybook/database"
	"skybook/services/booking"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoBookingRepo implements booking.BookingRepository using MongoDB.
// The retry budget is supplied by the coordinator and bounds the attempts
// made per write; reads are single-shot.
type MongoBookingRepo struct {
	coll       *mongo.Collection
	maxRetries int
}

// NewMongoBookingRepo creates a booking repository for the database named
// in the connection string.
func NewMongoBookingRepo(connectionString string, maxRetries int) booking.BookingRepository {
	if maxRetries < 1 {
		maxRetries = 1
	}
	coll := database.MongoClient.Database(databaseFromConnString(connectionString)).Collection("bookings")
	return &MongoBookingRepo{coll: coll, maxRetries: maxRetries}
}

// databaseFromConnString extracts the database segment from a Mongo URI,
// defaulting to FlightBookings when none is present.
func databaseFromConnString(connectionString string) string {
	trimmed := strings.TrimSuffix(connectionString, "/")
	if idx := strings.LastIndex(trimmed, "/"); idx >= 0 {
		if db := trimmed[idx+1:]; db != "" && !strings.Contains(db, ":") {
			return db
		}
	}
	return "FlightBookings"
}

type bookingRow struct {
	Reference     string    `bson:"reference"`
	PassengerName string    `bson:"passenger_name"`
	FlightDetails string    `bson:"flight_details"`
	Price         float64   `bson:"price"`
	BookingDate   time.Time `bson:"booking_date"`
	CreatedAt     time.Time `bson:"created_at"`
}

func (r *MongoBookingRepo) SaveBookingDetails(passengerName, flightDetails string, price float64, bookingDate time.Time) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	row := bookingRow{
		Reference:     "BK-" + strings.ToUpper(uuid.NewString()[:8]),
		PassengerName: passengerName,
		FlightDetails: flightDetails,
		Price:         price,
		BookingDate:   bookingDate,
		CreatedAt:     time.Now(),
	}

	var lastErr error
	for attempt := 1; attempt <= r.maxRetries; attempt++ {
		if _, lastErr = r.coll.InsertOne(ctx, row); lastErr == nil {
			return row.Reference, nil
		}
	}
	return "", fmt.Errorf("failed to save booking after %d attempts: %w", r.maxRetries, lastErr)
}

func (r *MongoBookingRepo) GetBookingInfo(bookingRef string) (map[string]any, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var doc bson.M
	if err := r.coll.FindOne(ctx, bson.M{"reference": bookingRef}).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to fetch booking %s: %w", bookingRef, err)
	}
	return doc, nil
}

func (r *MongoBookingRepo) ValidateAndEnrichBookingData(bookingRef string) (booking.EnrichedBookingData, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var row bookingRow
	err := r.coll.FindOne(ctx, bson.M{"reference": bookingRef}).Decode(&row)
	if err == mongo.ErrNoDocuments {
		return booking.EnrichedBookingData{Success: false}, nil
	}
	if err != nil {
		return booking.EnrichedBookingData{}, fmt.Errorf("failed to enrich booking %s: %w", bookingRef, err)
	}

	return booking.EnrichedBookingData{
		Success:            true,
		ActualPrice:        row.Price,
		EnrichedFlightInfo: row.FlightDetails,
	}, nil
}

// GetHistoricalPricingData averages saved booking prices for the flight
// over the trailing dayRange window.
func (r *MongoBookingRepo) GetHistoricalPricingData(flightNumber string, date time.Time, dayRange int) (float64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	from := date.AddDate(0, 0, -dayRange)
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"flight_details": bson.M{"$regex": "^" + flightNumber},
			"booking_date":   bson.M{"$gte": from, "$lte": date},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":      nil,
			"avgPrice": bson.M{"$avg": "$price"},
		}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("failed to aggregate historical pricing for %s: %w", flightNumber, err)
	}
	defer cursor.Close(ctx)

	var result struct {
		AvgPrice float64 `bson:"avgPrice"`
	}
	if cursor.Next(ctx) {
		if err := cursor.Decode(&result); err != nil {
			return 0, fmt.Errorf("failed to decode historical pricing: %w", err)
		}
		return result.AvgPrice, nil
	}
	return 0, nil
}
