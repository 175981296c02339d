package instruments

import "fmt"

var CalibrationFailedErr = fmt.Errorf("calibration failed")
var UnknownOptionTypeErr = fmt.Errorf("option type must be call or put")
var NonPositiveStrikeErr = fmt.Errorf("strike must be positive")
var ExpiryNotAfterNowErr = fmt.Errorf("expiry must be after the instrument clock")
var UnderlyingRequiredErr = fmt.Errorf("underlying instrument not set")
var DuplicateDerivativeErr = fmt.Errorf("derivative already registered")
