// Package events defines the search events published on the event bus.
package events
