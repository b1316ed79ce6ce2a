package bustracker

import (
	"strconv"
	"time"
)

// Entity constructors take the raw field text as it arrives from the
// XML layer and coerce it exactly once. Optional fields are pointers:
// nil means the source element was absent, which is distinct from an
// element that was present with a zero or empty value.

func convInt(entity, field, raw string) (int, error) {
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &FieldConversionError{Entity: entity, Field: field, Value: raw, Err: err}
	}
	return v, nil
}

func convFloat(entity, field, raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, &FieldConversionError{Entity: entity, Field: field, Value: raw, Err: err}
	}
	return v, nil
}

// Vehicle is one bus position report.
type Vehicle struct {
	ID              int
	Timestamp       time.Time
	Latitude        float64
	Longitude       float64
	Heading         int // degrees, 0 = north
	PatternID       int
	PatternDistance int // feet travelled along the pattern
	Route           string
	Destination     string
	Delayed         bool
}

// VehicleFields holds the raw text values for one vehicle record.
type VehicleFields struct {
	ID              string
	Timestamp       string
	Latitude        string
	Longitude       string
	Heading         string
	PatternID       string
	PatternDistance string
	Route           string
	Destination     string
	Delayed         bool
}

func NewVehicle(f VehicleFields) (*Vehicle, error) {
	id, err := convInt("Vehicle", "vid", f.ID)
	if err != nil {
		return nil, err
	}
	ts, err := ParseTimestamp(f.Timestamp)
	if err != nil {
		return nil, err
	}
	lat, err := convFloat("Vehicle", "lat", f.Latitude)
	if err != nil {
		return nil, err
	}
	lon, err := convFloat("Vehicle", "lon", f.Longitude)
	if err != nil {
		return nil, err
	}
	hdg, err := convInt("Vehicle", "hdg", f.Heading)
	if err != nil {
		return nil, err
	}
	pid, err := convInt("Vehicle", "pid", f.PatternID)
	if err != nil {
		return nil, err
	}
	pdist, err := convInt("Vehicle", "pdist", f.PatternDistance)
	if err != nil {
		return nil, err
	}
	return &Vehicle{
		ID:              id,
		Timestamp:       ts,
		Latitude:        lat,
		Longitude:       lon,
		Heading:         hdg,
		PatternID:       pid,
		PatternDistance: pdist,
		Route:           f.Route,
		Destination:     f.Destination,
		Delayed:         f.Delayed,
	}, nil
}

// Route is one route designator and its display name.
type Route struct {
	ID   string
	Name string
}

// Stop is one boardable location.
type Stop struct {
	ID        int
	Name      string
	Latitude  float64
	Longitude float64
}

// StopFields holds the raw text values for one stop record.
type StopFields struct {
	ID        string
	Name      string
	Latitude  string
	Longitude string
}

func NewStop(f StopFields) (*Stop, error) {
	id, err := convInt("Stop", "stpid", f.ID)
	if err != nil {
		return nil, err
	}
	lat, err := convFloat("Stop", "lat", f.Latitude)
	if err != nil {
		return nil, err
	}
	lon, err := convFloat("Stop", "lon", f.Longitude)
	if err != nil {
		return nil, err
	}
	return &Stop{ID: id, Name: f.Name, Latitude: lat, Longitude: lon}, nil
}

// PointType classifies a pattern point. Codes other than W and S pass
// through unmapped so an upstream addition never breaks parsing.
type PointType string

const (
	PointTypeWaypoint PointType = "Waypoint"
	PointTypeStop     PointType = "Stop"
)

func pointTypeFromCode(code string) PointType {
	switch code {
	case "W":
		return PointTypeWaypoint
	case "S":
		return PointTypeStop
	default:
		return PointType(code)
	}
}

// Point is one coordinate within a Pattern. Stop fields are populated
// only when the point is a boardable stop.
type Point struct {
	Sequence        int // traverse order within the pattern
	Type            PointType
	StopID          *int
	StopName        *string
	PatternDistance *float64 // feet from the start of the pattern
	Latitude        float64
	Longitude       float64
}

// PointFields holds the raw text values for one pattern point record.
// Nil pointers mark elements that were absent in the source.
type PointFields struct {
	Sequence        string
	Type            string
	Latitude        string
	Longitude       string
	StopID          *string
	StopName        *string
	PatternDistance *string
}

func NewPoint(f PointFields) (*Point, error) {
	seq, err := convInt("Point", "seq", f.Sequence)
	if err != nil {
		return nil, err
	}
	lat, err := convFloat("Point", "lat", f.Latitude)
	if err != nil {
		return nil, err
	}
	lon, err := convFloat("Point", "lon", f.Longitude)
	if err != nil {
		return nil, err
	}
	p := &Point{
		Sequence:  seq,
		Type:      pointTypeFromCode(f.Type),
		Latitude:  lat,
		Longitude: lon,
		StopName:  f.StopName,
	}
	if f.StopID != nil {
		id, err := convInt("Point", "stpid", *f.StopID)
		if err != nil {
			return nil, err
		}
		p.StopID = &id
	}
	if f.PatternDistance != nil {
		dist, err := convFloat("Point", "pdist", *f.PatternDistance)
		if err != nil {
			return nil, err
		}
		p.PatternDistance = &dist
	}
	return p, nil
}

// Pattern is the ordered shape of one route variant, independent of
// any particular vehicle's progress along it.
type Pattern struct {
	ID        int
	Length    int // feet
	Direction string
	Points    []Point
}

// PatternFields holds the raw text values for one pattern record.
type PatternFields struct {
	ID        string
	Length    string
	Direction string
}

func NewPattern(f PatternFields) (*Pattern, error) {
	id, err := convInt("Pattern", "pid", f.ID)
	if err != nil {
		return nil, err
	}
	// The API documents ln as an integer but serves a float.
	length, err := convFloat("Pattern", "ln", f.Length)
	if err != nil {
		return nil, err
	}
	return &Pattern{ID: id, Length: int(length), Direction: f.Direction}, nil
}

// AppendPoint adds a point while the pattern is being assembled from a
// response.
func (p *Pattern) AppendPoint(pt Point) {
	p.Points = append(p.Points, pt)
}

// PredictionType classifies a prediction. Codes other than A and D
// pass through unmapped.
type PredictionType string

const (
	PredictionTypeArrival   PredictionType = "Arrival"
	PredictionTypeDeparture PredictionType = "Departure"
)

func predictionTypeFromCode(code string) PredictionType {
	switch code {
	case "A":
		return PredictionTypeArrival
	case "D":
		return PredictionTypeDeparture
	default:
		return PredictionType(code)
	}
}

// Prediction is one estimated arrival or departure event, snapshotted
// at the moment the tracker generated it.
type Prediction struct {
	GeneratedAt      time.Time
	Type             PredictionType
	StopID           int
	StopName         string
	VehicleID        int
	DistanceToStop   int // feet
	Route            string
	RouteDirection   string
	Destination      string
	PredictedArrival time.Time

	// MinutesToArrivalAtCreation is fixed when the Prediction is
	// constructed, measured against GeneratedAt. For a current figure
	// use MinutesToArrival with a fresh clock reading.
	MinutesToArrivalAtCreation int

	Delayed bool
}

// PredictionFields holds the raw text values for one prediction record.
type PredictionFields struct {
	GeneratedAt      string
	Type             string
	StopID           string
	StopName         string
	VehicleID        string
	DistanceToStop   string
	Route            string
	RouteDirection   string
	Destination      string
	PredictedArrival string
	Delayed          bool
}

func NewPrediction(f PredictionFields) (*Prediction, error) {
	generated, err := ParseTimestamp(f.GeneratedAt)
	if err != nil {
		return nil, err
	}
	stopID, err := convInt("Prediction", "stpid", f.StopID)
	if err != nil {
		return nil, err
	}
	vid, err := convInt("Prediction", "vid", f.VehicleID)
	if err != nil {
		return nil, err
	}
	dstp, err := convInt("Prediction", "dstp", f.DistanceToStop)
	if err != nil {
		return nil, err
	}
	arrival, err := ParseTimestamp(f.PredictedArrival)
	if err != nil {
		return nil, err
	}
	p := &Prediction{
		GeneratedAt:      generated,
		Type:             predictionTypeFromCode(f.Type),
		StopID:           stopID,
		StopName:         f.StopName,
		VehicleID:        vid,
		DistanceToStop:   dstp,
		Route:            f.Route,
		RouteDirection:   f.RouteDirection,
		Destination:      f.Destination,
		PredictedArrival: arrival,
		Delayed:          f.Delayed,
	}
	p.MinutesToArrivalAtCreation = MinutesToArrival(*p, generated)
	return p, nil
}

// ServiceBulletin is a rider-facing advisory. An empty AffectedServices
// list means the bulletin applies system-wide.
type ServiceBulletin struct {
	Name             string
	Subject          string
	Detail           string // frequently contains embedded HTML
	Brief            string
	Priority         string
	AffectedServices []AffectedService
}

// AppendService adds an affected service while the bulletin is being
// assembled from a response.
func (sb *ServiceBulletin) AppendService(svc AffectedService) {
	sb.AffectedServices = append(sb.AffectedServices, svc)
}

// AffectedService scopes a bulletin to a route, direction or stop.
// Upstream may populate any subset of the fields; a record carrying
// only a stop name is documented API behavior, not an error.
type AffectedService struct {
	Route     *string
	Direction *string
	StopID    *int
	StopName  *string
}

// AffectedServiceFields holds the raw text values for one affected
// service record. Nil pointers mark elements that were absent.
type AffectedServiceFields struct {
	Route     *string
	Direction *string
	StopID    *string
	StopName  *string
}

func NewAffectedService(f AffectedServiceFields) (*AffectedService, error) {
	svc := &AffectedService{
		Route:     f.Route,
		Direction: f.Direction,
		StopName:  f.StopName,
	}
	if f.StopID != nil {
		id, err := convInt("AffectedService", "stpid", *f.StopID)
		if err != nil {
			return nil, err
		}
		svc.StopID = &id
	}
	return svc, nil
}
