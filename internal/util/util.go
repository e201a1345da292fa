package util

import (
	"github.com/google/uuid"
	"github.com/lithammer/shortuuid/v4"
)

// EventIDPrefix prefixes every generated event ID.
const EventIDPrefix = "event_"

// GenUUID generates a random UUID string.
func GenUUID() string {
	return uuid.New().String()
}

// GenShortID generates a short, URL-safe unique ID.
func GenShortID() string {
	return shortuuid.New()
}

// GenEventID generates an event ID of the form "event_<shortid>".
func GenEventID() string {
	return EventIDPrefix + GenShortID()
}
