package route

import "errors"

var (
	ErrTooManyPoints       = errors.New("gpx upload exceeds the configured point limit")
	ErrInvalidWaypointType = errors.New("unknown waypoint type")
)
