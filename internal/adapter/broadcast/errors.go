package broadcast

import "errors"

var errSlowSubscriber = errors.New("subscriber queue full")
