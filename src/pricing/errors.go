package pricing

import "fmt"

var NoConvergenceErr = fmt.Errorf("root finder did not converge")
var UnknownOptionTypeErr = fmt.Errorf("option type must be call or put")
var DomainErr = fmt.Errorf("inputs outside model domain")
var NotEnoughObservationsErr = fmt.Errorf("at least two observations required")
