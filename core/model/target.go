package model

import "github.com/kilianp07/wsnlife/core/geometry"

// Target is a monitored point. It must be covered in every schedule step.
type Target struct {
	ID  int            `json:"id"`
	Pos geometry.Point `json:"pos"`
}
