package service

import "time"

// timeNow is swappable in tests that need to fast-forward maturity.
var timeNow = func() time.Time { return time.Now().UTC() }
