package mqtt

import "errors"

// ErrNotConnected is returned when publishing on a closed client.
var ErrNotConnected = errors.New("mqtt client not connected")
