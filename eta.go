package bustracker

import "time"

// MinutesToArrival reports how many whole minutes remain until the
// prediction's arrival time, measured from ref. The division truncates
// toward zero, so a vehicle 4.5 minutes overdue reports -4. Negative
// values are valid and mean the vehicle is overdue or boarding.
//
// ref should normally be the tracker's own clock (Client.ServerTime);
// measuring against the local clock silently folds clock skew into the
// estimate.
func MinutesToArrival(p Prediction, ref time.Time) int {
	return int(p.PredictedArrival.Sub(ref) / time.Minute)
}
