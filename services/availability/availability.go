package availability

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"skybook/database"
	"skybook/services/booking"
	"skybook/utils"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Lifetime of a cached seat list. Short by design: inventory moves fast.
const seatCacheTTL = 30 * time.Second

// MongoAvailabilityService implements booking.FlightAvailabilityService
// against per-carrier seat inventory collections, with a Redis
// read-through cache of free-seat lists.
type MongoAvailabilityService struct {
	coll  *mongo.Collection
	cache *redis.Client
}

// NewMongoAvailabilityService creates an availability service for the
// carrier database named in the connection string (the coordinator rewrites
// the booking connection string to FlightAvailability_<carrier>).
func NewMongoAvailabilityService(connectionString string) booking.FlightAvailabilityService {
	coll := database.MongoClient.Database(carrierDatabase(connectionString)).Collection("seat_inventory")
	return &MongoAvailabilityService{
		coll:  coll,
		cache: utils.GetCacheClient(),
	}
}

// carrierDatabase pulls the FlightAvailability_* segment out of the
// connection string, defaulting to the shared inventory database.
func carrierDatabase(connectionString string) string {
	for _, part := range strings.Split(connectionString, "/") {
		if strings.HasPrefix(part, "FlightAvailability_") {
			return part
		}
	}
	return "FlightAvailability"
}

type seatInventory struct {
	FlightNumber string   `bson:"flight_number"`
	Date         string   `bson:"date"`
	Seats        []string `bson:"seats"`
	Booked       []string `bson:"booked"`
}

// CheckAndGetAvailableSeatsForBooking returns the free seat identifiers for
// the flight on the given date. passengerCount is advisory; the caller
// compares the returned count against it.
func (s *MongoAvailabilityService) CheckAndGetAvailableSeatsForBooking(flightNumber string, departureDate time.Time, passengerCount int) ([]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	day := departureDate.Format("2006-01-02")
	cacheKey := fmt.Sprintf("seats:%s:%s", flightNumber, day)

	if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
		var seats []string
		if err := json.Unmarshal([]byte(cached), &seats); err == nil {
			return seats, nil
		}
		// Corrupt cache entry; fall through to the store.
		s.cache.Del(ctx, cacheKey)
	}

	var inv seatInventory
	err := s.coll.FindOne(ctx, bson.M{"flight_number": flightNumber, "date": day}).Decode(&inv)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch seat inventory for %s on %s: %w", flightNumber, day, err)
	}

	free := freeSeats(inv)

	if data, err := json.Marshal(free); err == nil {
		if err := s.cache.Set(ctx, cacheKey, data, seatCacheTTL).Err(); err != nil {
			utils.GetLogger().Warn("failed to cache seat list",
				zap.String("flightNumber", flightNumber), zap.Error(err))
		}
	}
	return free, nil
}

// IsFlightFullyBooked reports whether no free seats remain.
func (s *MongoAvailabilityService) IsFlightFullyBooked(flightNumber string, departureDate time.Time) (bool, error) {
	seats, err := s.CheckAndGetAvailableSeatsForBooking(flightNumber, departureDate, 0)
	if err != nil {
		return false, err
	}
	return len(seats) == 0, nil
}

func freeSeats(inv seatInventory) []string {
	booked := make(map[string]struct{}, len(inv.Booked))
	for _, seat := range inv.Booked {
		booked[seat] = struct{}{}
	}
	var free []string
	for _, seat := range inv.Seats {
		if _, taken := booked[seat]; !taken {
			free = append(free, seat)
		}
	}
	return free
}
