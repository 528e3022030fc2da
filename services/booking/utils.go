package booking

func validateBookingInput(flightNumber string, passengerCount int) error {
	if flightNumber == "" {
		return NewValidationError("flightNumber is required")
	}
	if passengerCount <= 0 {
		return NewValidationError("passengerCount must be a positive integer")
	}
	// Airline code and special requests are passed through unchecked;
	// collaborators reject what they cannot handle.
	return nil
}
