package booking

import (
	"fmt"
	"strings"
	"time"

	"skybook/models"
	"skybook/utils"

	"go.uber.org/zap"
)

// BookFlight runs the end-to-end booking flow: derive collaborator
// parameters from the scratch state, check inventory, price the flight,
// persist, audit, notify, and return the finished booking.
//
// The step order is load-bearing. Each derivation writes scratch keys that
// later steps (and later attempts) read, so reordering changes prices.
func (c *DefaultBookingCoordinator) BookFlight(passengerName, flightNumber string, departureDate time.Time, passengerCount int, airlineCode, specialRequests string) (*models.Booking, error) {
	logger := utils.GetLogger()

	if err := validateBookingInput(flightNumber, passengerCount); err != nil {
		return nil, err
	}

	c.State.SetProcessing(true)
	counter := c.State.IncrementCounter()

	maxRetries := c.calculateRetriesFromBookingCount()
	repository := c.NewRepository(c.ConnectionString, maxRetries)

	taxRate := c.calculateTaxRateFromState(airlineCode)
	airlineFees := c.buildAirlineFeesFromState(airlineCode)
	enableRandomSurcharges := counter%3 == 0
	regionCode := c.determineRegionFromFlightNumber(flightNumber)
	historicalAverage := c.historicalAverageFor(repository, flightNumber)

	engine := NewPricingEngine(taxRate, airlineFees, enableRandomSurcharges, regionCode, historicalAverage, c.bookingDate, c.Discounts)

	availabilityConn := c.availabilityConnectionString(flightNumber)
	availability := c.NewAvailability(availabilityConn)

	seats, err := availability.CheckAndGetAvailableSeatsForBooking(flightNumber, departureDate, passengerCount)
	if err != nil {
		return nil, fmt.Errorf("availability check failed: %w", err)
	}
	if len(seats) < passengerCount {
		c.State.Set("lastFailureReason", "Not enough seats")
		c.State.SetProcessing(false)
		logger.Warn("booking rejected: insufficient availability",
			zap.String("flightNumber", flightNumber),
			zap.Int("requested", passengerCount),
			zap.Int("available", len(seats)))
		return nil, NewCapacityError("not enough seats available")
	}

	basePrice := engine.CalculateBasePriceWithTaxes(flightNumber, departureDate, passengerCount, airlineCode)

	weekdayMultiplier := c.weekdayMultiplier(departureDate)
	seasonalBonus := c.seasonalBonus(departureDate)
	specialSurcharge := c.specialRequestSurcharge(specialRequests, airlineCode)

	finalPrice := basePrice*weekdayMultiplier + seasonalBonus + specialSurcharge

	discount := engine.ValidatePricingParametersAndCalculateDiscount(flightNumber)
	if discount.Valid {
		finalPrice -= discount.Discount
	}

	smtpServer := c.smtpServerFor(airlineCode)
	useEncryption := counter%2 == 0
	notifier := c.NewNotifier(smtpServer, useEncryption)

	logDirectory := c.logDirectoryFromBookingCount()
	verboseMode := c.State.Has("debugMode")
	audit := c.NewAudit(logDirectory, verboseMode)

	generatedRef := c.generateBookingReference(passengerName, flightNumber)
	c.State.SetLastBookingRef(generatedRef)

	// The repository assigns the authoritative reference; the generated one
	// is informational only.
	bookingRef, err := repository.SaveBookingDetails(
		passengerName,
		fmt.Sprintf("%s on %s for %d passengers", flightNumber, departureDate.Format("2006-01-02"), passengerCount),
		finalPrice,
		c.bookingDate,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to save booking: %w", err)
	}

	if err := audit.LogBookingActivity("Flight Booked", bookingRef, fmt.Sprintf("Passenger: %s, Flight: %s", passengerName, flightNumber)); err != nil {
		return nil, fmt.Errorf("failed to log booking activity: %w", err)
	}
	if err := audit.RecordPricingCalculation(
		fmt.Sprintf("Base: %v, Weekday: %v, Seasonal: %v, Special: %v, Discount: %v",
			basePrice, weekdayMultiplier, seasonalBonus, specialSurcharge, discount.Discount),
		finalPrice,
		fmt.Sprintf("%s on %s", flightNumber, departureDate.Format("2006-01-02")),
	); err != nil {
		return nil, fmt.Errorf("failed to record pricing calculation: %w", err)
	}

	if c.shouldNotifyPartner(airlineCode) {
		if err := notifier.NotifyPartnerAboutBooking(
			airlineCode,
			bookingRef,
			finalPrice,
			passengerName,
			fmt.Sprintf("%s departing %s", flightNumber, departureDate.Format(time.RFC3339)),
			false,
		); err != nil {
			return nil, fmt.Errorf("failed to notify partner: %w", err)
		}

		if specialRequests != "" && c.requiresSpecialNotification(airlineCode, specialRequests) {
			if _, err := notifier.ValidateAndNotifySpecialRequests(airlineCode, specialRequests, bookingRef); err != nil {
				return nil, fmt.Errorf("failed to notify special requests: %w", err)
			}
		}
	}

	status := c.determineBookingStatus(finalPrice, passengerCount)
	if err := notifier.UpdatePartnerBookingStatus(airlineCode, bookingRef, status); err != nil {
		return nil, fmt.Errorf("failed to update partner booking status: %w", err)
	}

	c.State.Set("lastBookingPrice", finalPrice)
	c.State.Set("lastBookingDate", c.bookingDate)
	c.State.SetProcessing(false)

	logger.Info("booking completed",
		zap.String("reference", bookingRef),
		zap.String("flightNumber", flightNumber),
		zap.Float64("finalPrice", finalPrice),
		zap.String("status", status))

	return &models.Booking{
		Reference:       bookingRef,
		PassengerName:   passengerName,
		FlightNumber:    flightNumber,
		DepartureDate:   departureDate,
		PassengerCount:  passengerCount,
		AirlineCode:     airlineCode,
		FinalPrice:      finalPrice,
		SpecialRequests: specialRequests,
		BookingDate:     c.bookingDate,
		Status:          status,
	}, nil
}

// calculateRetriesFromBookingCount derives the repository retry budget from
// booking volume. The budget is handed to the repository as-is; the
// coordinator itself never retries.
func (c *DefaultBookingCoordinator) calculateRetriesFromBookingCount() int {
	c.State.Set("calculationCount", c.State.GetInt("calculationCount")+1)
	retries := c.State.Counter()/10 + 1
	if retries > 5 {
		retries = 5
	}
	return retries
}

func (c *DefaultBookingCoordinator) calculateTaxRateFromState(airlineCode string) float64 {
	baseRate := 1.18
	if c.State.Has("lastFailureReason") {
		baseRate += 0.05
	}
	c.State.Set("lastProcessedAirline", airlineCode)
	return baseRate
}

// buildAirlineFeesFromState seeds the fee map for the current airline: 2%
// of the last booking's price when one is on record, a flat 25.0 otherwise,
// plus a flat 10.0 surcharge once booking volume passes 10.
func (c *DefaultBookingCoordinator) buildAirlineFeesFromState(airlineCode string) map[string]float64 {
	fees := make(map[string]float64)

	if c.State.Has("lastBookingPrice") {
		fees[airlineCode] = c.State.GetFloat64("lastBookingPrice") * 0.02
	} else {
		fees[airlineCode] = 25.0
	}

	if c.State.Counter() > 10 {
		fees[airlineCode] += 10.0
	}
	return fees
}

func (c *DefaultBookingCoordinator) determineRegionFromFlightNumber(flightNumber string) string {
	c.State.Set("lastFlightNumber", flightNumber)

	switch {
	case strings.HasPrefix(flightNumber, "AA"), strings.HasPrefix(flightNumber, "UA"):
		return "US"
	case strings.HasPrefix(flightNumber, "BA"), strings.HasPrefix(flightNumber, "VS"):
		return "UK"
	default:
		return "INTL"
	}
}

// historicalAverageFor is a placeholder for a real repository lookup; the
// repository's GetHistoricalPricingData is not consulted on this path.
func (c *DefaultBookingCoordinator) historicalAverageFor(repository BookingRepository, flightNumber string) float64 {
	c.State.Set("historicalLookupCount", c.State.GetInt("historicalLookupCount")+1)
	return 450.0 + float64(len(flightNumber))*10
}

// availabilityConnectionString rewrites the repository connection string to
// point at the per-carrier availability database.
func (c *DefaultBookingCoordinator) availabilityConnectionString(flightNumber string) string {
	prefix := flightNumber
	if len(prefix) > 2 {
		prefix = prefix[:2]
	}
	modified := strings.Replace(c.ConnectionString, "FlightBookings", "FlightAvailability_"+prefix, 1)
	c.State.Set("lastConnectionString", modified)
	return modified
}

func (c *DefaultBookingCoordinator) weekdayMultiplier(departureDate time.Time) float64 {
	c.State.Set("lastDepartureDate", departureDate)

	switch departureDate.Weekday() {
	case time.Friday, time.Sunday:
		c.State.Set("isPeakDay", true)
		return 1.25
	case time.Tuesday, time.Wednesday:
		c.State.Set("isPeakDay", false)
		return 0.9
	default:
		c.State.Set("isPeakDay", false)
		return 1.0
	}
}

func (c *DefaultBookingCoordinator) seasonalBonus(departureDate time.Time) float64 {
	var bonus float64
	switch departureDate.Month() {
	case time.June, time.July, time.August:
		bonus = 50.0
		c.State.Set("currentSeason", "Summer")
	case time.December, time.January, time.February:
		bonus = 75.0
		c.State.Set("currentSeason", "Winter")
	default:
		bonus = 25.0
		c.State.Set("currentSeason", "OffPeak")
	}

	if c.State.Counter()%5 == 0 {
		bonus += 20.0
		c.State.Set("luckyBooking", true)
	}
	return bonus
}

// specialRequestSurcharge prices the free-text request list. Substring
// checks are case-sensitive and cumulative, not mutually exclusive.
func (c *DefaultBookingCoordinator) specialRequestSurcharge(specialRequests, airlineCode string) float64 {
	var surcharge float64
	if specialRequests == "" {
		return surcharge
	}

	c.State.Set("hasSpecialRequests", true)
	c.State.Set("specialRequestsCount", len(strings.Split(specialRequests, ",")))

	if strings.Contains(specialRequests, "wheelchair") {
		if airlineCode != "AA" {
			surcharge += 25.0
		}
	}
	if strings.Contains(specialRequests, "meal") {
		if airlineCode == "BA" {
			surcharge += 15.0
		} else {
			surcharge += 20.0
		}
	}
	if strings.Contains(specialRequests, "seat") {
		surcharge += 35.0
	}
	return surcharge
}

func (c *DefaultBookingCoordinator) smtpServerFor(airlineCode string) string {
	c.State.Set("lastSmtpLookup", time.Now())

	switch airlineCode {
	case "AA":
		return "smtp.american.com"
	case "UA":
		return "smtp.united.com"
	case "BA":
		return "smtp.britishairways.com"
	default:
		return "smtp.generic-airline.com"
	}
}

func (c *DefaultBookingCoordinator) logDirectoryFromBookingCount() string {
	dir := c.LogBaseDir
	switch {
	case c.State.Counter() > 100:
		dir += "/HighVolume"
	case c.State.Counter() > 50:
		dir += "/MediumVolume"
	default:
		dir += "/LowVolume"
	}
	c.State.Set("currentLogDirectory", dir)
	return dir
}

// generateBookingReference builds the informational reference: flight
// number, counter zero-padded to four digits, then up to the first three
// letters of the passenger name uppercased.
func (c *DefaultBookingCoordinator) generateBookingReference(passengerName, flightNumber string) string {
	name := []rune(passengerName)
	if len(name) > 3 {
		name = name[:3]
	}
	reference := fmt.Sprintf("%s%04d%s", flightNumber, c.State.Counter(), strings.ToUpper(string(name)))

	c.State.Set("lastGeneratedReference", reference)
	c.State.Set("referenceGenerationCount", c.State.GetInt("referenceGenerationCount")+1)
	return reference
}

// shouldNotifyPartner gates the booking notification: never after a
// recorded failure, and only AA qualifies until volume reaches 5.
func (c *DefaultBookingCoordinator) shouldNotifyPartner(airlineCode string) bool {
	if c.State.Has("lastFailureReason") {
		return false
	}
	if c.State.Counter() < 5 {
		return airlineCode == "AA"
	}
	return true
}

func (c *DefaultBookingCoordinator) requiresSpecialNotification(airlineCode, specialRequests string) bool {
	if airlineCode == "BA" && strings.Contains(specialRequests, "meal") {
		return true
	}
	if airlineCode == "AA" && strings.Contains(specialRequests, "wheelchair") {
		return true
	}
	return len(strings.Split(specialRequests, ",")) > 2
}

// determineBookingStatus picks the final status; later rules win, so a
// group booking overrides premium which overrides peak.
func (c *DefaultBookingCoordinator) determineBookingStatus(finalPrice float64, passengerCount int) string {
	status := models.StatusConfirmed

	if c.State.GetBool("isPeakDay") {
		status = models.StatusConfirmedPeak
	}
	if finalPrice > 1000 {
		status = models.StatusConfirmedPremium
	}
	if passengerCount > 5 {
		status = models.StatusConfirmedGroup
	}

	c.State.Set("lastBookingStatus", status)
	return status
}
