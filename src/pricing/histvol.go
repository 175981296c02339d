package pricing

import (
	"math"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/jiaming2012/fx-valuation/src/daycount"
)

// Bar is a single OHLC observation. Bars passed to the estimators must be
// ordered oldest to newest and carry non-normalized prices.
type Bar struct {
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
}

// annualization counts the trading days over the year trailing the most recent
// observation.
func annualization(last time.Time) float64 {
	diy := 365
	if isLeap(last.Year() - 1) {
		diy = 366
	}

	return float64(daycount.TradingDays(last.AddDate(0, 0, -diy), last))
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// SimpleVol estimates historic volatility from close-to-close log returns,
// annualized by the trailing year's trading-day count.
func SimpleVol(bars []Bar) (float64, error) {
	if len(bars) < 2 {
		return 0, NotEnoughObservationsErr
	}

	returns := make([]float64, 0, len(bars)-1)
	for i := 1; i < len(bars); i++ {
		if bars[i].Close <= 0 || bars[i-1].Close <= 0 {
			return 0, DomainErr
		}
		returns = append(returns, math.Log(bars[i].Close/bars[i-1].Close))
	}

	var dailyVol float64
	if len(returns) == 1 {
		dailyVol = math.Abs(returns[0])
	} else {
		sd, err := stats.StandardDeviationSample(returns)
		if err != nil {
			return 0, err
		}
		dailyVol = sd
	}

	return dailyVol * math.Sqrt(annualization(bars[len(bars)-1].Timestamp)), nil
}

// sessionLength is a standard 0930-1600 cash session, used to size the
// non-trading gap between consecutive daily bars.
const sessionLength = (6*60 + 30) * 60.0 // seconds

func fourSigma(u, d, c float64) float64 {
	return 0.511*(u-d)*(u-d) - 0.019*(c*(u+d)-2*u*d) - 0.383*c*c
}

// GarmanKlassVol estimates historic volatility per Garman & Klass (1980),
// weighting the overnight gap against the intraday range (a = 0.12).
func GarmanKlassVol(bars []Bar) (float64, error) {
	if len(bars) < 2 {
		return 0, NotEnoughObservationsErr
	}

	const a = 0.12

	sigmas := make([]float64, 0, len(bars)-1)
	for i := 1; i < len(bars); i++ {
		cur, prior := bars[i], bars[i-1]
		if cur.Open <= 0 || cur.High <= 0 || cur.Low <= 0 || cur.Close <= 0 || prior.Close <= 0 {
			return 0, DomainErr
		}

		u := math.Log(cur.High) - math.Log(cur.Open)
		d := math.Log(cur.Low) - math.Log(cur.Open)
		c := math.Log(cur.Close) - math.Log(cur.Open)
		gap := math.Log(cur.Open) - math.Log(prior.Close)

		closedFor := cur.Timestamp.Sub(prior.Timestamp).Seconds() - sessionLength
		if closedFor <= 0 {
			return 0, DomainErr
		}

		f := closedFor / (closedFor + sessionLength)
		sigmas = append(sigmas, a*(gap*gap/f)+(1-a)*(fourSigma(u, d, c)/(1-f)))
	}

	mean, err := stats.Mean(sigmas)
	if err != nil {
		return 0, err
	}

	if mean < 0 {
		return 0, DomainErr
	}

	return math.Sqrt(mean) * math.Sqrt(annualization(bars[len(bars)-1].Timestamp)), nil
}

// YangZhangVol estimates historic volatility per Yang & Zhang (2000), summing
// overnight variance, weighted open-to-close variance and the Rogers-Satchell
// range estimator.
func YangZhangVol(bars []Bar) (float64, error) {
	if len(bars) < 2 {
		return 0, NotEnoughObservationsErr
	}

	n := float64(len(bars))
	k := 0.34 / (1.34 + (n+1)/(n-1))

	overnight := make([]float64, 0, len(bars)-1)
	openToClose := make([]float64, 0, len(bars)-1)
	rs := make([]float64, 0, len(bars)-1)

	for i := 1; i < len(bars); i++ {
		cur, prior := bars[i], bars[i-1]
		if cur.Open <= 0 || cur.High <= 0 || cur.Low <= 0 || cur.Close <= 0 || prior.Close <= 0 {
			return 0, DomainErr
		}

		u := math.Log(cur.High / cur.Open)
		d := math.Log(cur.Low / cur.Open)
		c := math.Log(cur.Close / cur.Open)

		overnight = append(overnight, math.Log(cur.Open/prior.Close))
		openToClose = append(openToClose, c)
		rs = append(rs, u*(u-c)+d*(d-c))
	}

	overnightVar, err := squaredOrVariance(overnight)
	if err != nil {
		return 0, err
	}

	openToCloseVar, err := squaredOrVariance(openToClose)
	if err != nil {
		return 0, err
	}

	rsMean, err := stats.Mean(rs)
	if err != nil {
		return 0, err
	}

	total := overnightVar + k*openToCloseVar + (1-k)*rsMean
	if total < 0 {
		return 0, DomainErr
	}

	return math.Sqrt(total) * math.Sqrt(annualization(bars[len(bars)-1].Timestamp)), nil
}

func squaredOrVariance(xs []float64) (float64, error) {
	if len(xs) == 1 {
		return xs[0] * xs[0], nil
	}

	return stats.SampleVariance(xs)
}
