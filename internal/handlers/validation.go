package handlers

import (
	"errors"

	"gymledger/internal/timeslot"
)

var errInvalidPrice = errors.New("invalid price")
var errInvalidSlot = errors.New("invalid slot")

// validateSlot rejects malformed clocks and slots that do not run forward.
func validateSlot(startTime, endTime string) error {
	start, err := timeslot.ParseClock(startTime)
	if err != nil {
		return errInvalidSlot
	}
	end, err := timeslot.ParseClock(endTime)
	if err != nil {
		return errInvalidSlot
	}
	if start >= end {
		return errInvalidSlot
	}
	return nil
}
