// Package field models the monitored area: a square of side Size holding
// sensors with a uniform sensing range and the targets they must cover.
//
// A Field is built from validated Params, populated with Generate, then
// scattered with PlaceRandomly, which also classifies sensor liveness. Sensors
// that cover no target are marked dead and never take part in a schedule.
package field
