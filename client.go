package bustracker

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultBaseURL is the production Bus Tracker API endpoint.
const DefaultBaseURL = "http://www.ctabustracker.com/bustime/api/v1/"

// SkewThreshold is the clock difference beyond which ServerTime flags
// (and logs) a skew warning.
const SkewThreshold = 5 * time.Second

// maxBatchSize is the API's cap on comma-joined identifiers per call.
const maxBatchSize = 10

// Client queries the Bus Tracker API. The zero value is not usable;
// construct with NewClient. A Client holds no mutable state, so it is
// safe to share across goroutines.
type Client struct {
	apiKey    string
	baseURL   string
	transport Transport
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides DefaultBaseURL. The value must end with a
// trailing slash, matching the documented endpoint form.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithTransport replaces the default HTTP transport.
func WithTransport(t Transport) Option {
	return func(c *Client) { c.transport = t }
}

// NewClient returns a client for the given API key. Keys are issued at
// http://www.transitchicago.com/developers/bustracker.aspx; nothing
// works without one.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:    apiKey,
		baseURL:   DefaultBaseURL,
		transport: NewHTTPTransport(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type queryParam struct {
	key   string
	value string
}

func (c *Client) requestURL(command string, params ...queryParam) string {
	var b strings.Builder
	b.WriteString(c.baseURL)
	b.WriteString(command)
	b.WriteString("?key=")
	b.WriteString(url.QueryEscape(c.apiKey))
	for _, p := range params {
		b.WriteByte('&')
		b.WriteString(url.QueryEscape(p.key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.value))
	}
	return b.String()
}

func (c *Client) fetch(command string, params ...queryParam) ([]byte, error) {
	requestURL := c.requestURL(command, params...)
	log.Debug().Str("url", requestURL).Msg("Generated request URL")

	start := time.Now()
	body, err := c.transport.Fetch(requestURL)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("command", command).Dur("took", time.Since(start)).Msg("API response received")
	return body, nil
}

func checkBatch(count, min int) error {
	if count < min || count > maxBatchSize {
		return &InvalidArgumentCountError{Count: count}
	}
	return nil
}

func joinInts(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}

// ServerTime is a gettime result: the tracker's clock plus its
// measured skew from the local clock at the moment of the call.
type ServerTime struct {
	Time time.Time
	// Skew is server time minus local time. Diagnostic only.
	Skew time.Duration
	// SkewWarning is true when |Skew| exceeds SkewThreshold.
	SkewWarning bool
}

// ServerTime fetches the tracker's clock. A large skew against the
// local clock is reported on the result and logged, never treated as a
// failure.
func (c *Client) ServerTime() (ServerTime, error) {
	local := time.Now()

	body, err := c.fetch("gettime")
	if err != nil {
		return ServerTime{}, err
	}
	remote, err := ParseServerTime(body)
	if err != nil {
		return ServerTime{}, err
	}

	st := ServerTime{Time: remote, Skew: remote.Sub(local)}
	if st.Skew > SkewThreshold || st.Skew < -SkewThreshold {
		st.SkewWarning = true
		log.Warn().
			Dur("skew", st.Skew).
			Msg("Tracker clock differs from local clock by more than 5 seconds")
	}
	return st, nil
}

// VehiclesByID fetches position reports for up to 10 vehicles. An
// empty id list is accepted and passed through to the API; that has
// always been this operation's behavior, unlike every other batched
// call.
func (c *Client) VehiclesByID(vids ...int) ([]Vehicle, error) {
	if err := checkBatch(len(vids), 0); err != nil {
		return nil, err
	}
	body, err := c.fetch("getvehicles", queryParam{"vid", joinInts(vids)})
	if err != nil {
		return nil, err
	}
	return ParseVehicles(body)
}

// VehiclesByRoute fetches position reports for every vehicle on up to
// 10 routes.
func (c *Client) VehiclesByRoute(routes ...string) ([]Vehicle, error) {
	if err := checkBatch(len(routes), 1); err != nil {
		return nil, err
	}
	body, err := c.fetch("getvehicles", queryParam{"rt", strings.Join(routes, ",")})
	if err != nil {
		return nil, err
	}
	return ParseVehicles(body)
}

// Routes fetches every route the tracker serves.
func (c *Client) Routes() ([]Route, error) {
	body, err := c.fetch("getroutes")
	if err != nil {
		return nil, err
	}
	return ParseRoutes(body)
}

// Directions fetches the directions a route runs in.
func (c *Client) Directions(route string) ([]string, error) {
	body, err := c.fetch("getdirections", queryParam{"rt", route})
	if err != nil {
		return nil, err
	}
	return ParseDirections(body)
}

// Stops fetches the stops for a route and direction. The result is
// unordered; fetch a pattern for traversal order.
func (c *Client) Stops(route, direction string) ([]Stop, error) {
	body, err := c.fetch("getstops", queryParam{"rt", route}, queryParam{"dir", direction})
	if err != nil {
		return nil, err
	}
	return ParseStops(body)
}

// PatternsByID fetches up to 10 patterns by pattern id.
func (c *Client) PatternsByID(pids ...int) ([]Pattern, error) {
	if err := checkBatch(len(pids), 1); err != nil {
		return nil, err
	}
	body, err := c.fetch("getpatterns", queryParam{"pid", joinInts(pids)})
	if err != nil {
		return nil, err
	}
	return ParsePatterns(body)
}

// PatternsByRoute fetches the pattern for a route and direction.
func (c *Client) PatternsByRoute(route, direction string) ([]Pattern, error) {
	body, err := c.fetch("getpatterns", queryParam{"rt", route}, queryParam{"dir", direction})
	if err != nil {
		return nil, err
	}
	return ParsePatterns(body)
}

// PredictionsByStop fetches arrival predictions for up to 10 stops.
func (c *Client) PredictionsByStop(stpids ...int) ([]Prediction, error) {
	if err := checkBatch(len(stpids), 1); err != nil {
		return nil, err
	}
	body, err := c.fetch("getpredictions", queryParam{"stpid", joinInts(stpids)})
	if err != nil {
		return nil, err
	}
	return ParsePredictions(body)
}

// PredictionsByVehicle fetches arrival predictions for up to 10
// vehicles.
func (c *Client) PredictionsByVehicle(vids ...int) ([]Prediction, error) {
	if err := checkBatch(len(vids), 1); err != nil {
		return nil, err
	}
	body, err := c.fetch("getpredictions", queryParam{"vid", joinInts(vids)})
	if err != nil {
		return nil, err
	}
	return ParsePredictions(body)
}

// BulletinsByRoute fetches service bulletins for up to 10 routes.
func (c *Client) BulletinsByRoute(routes ...string) ([]ServiceBulletin, error) {
	if err := checkBatch(len(routes), 1); err != nil {
		return nil, err
	}
	body, err := c.fetch("getservicebulletins", queryParam{"rt", strings.Join(routes, ",")})
	if err != nil {
		return nil, err
	}
	return ParseBulletins(body)
}

// BulletinsByStop fetches service bulletins for up to 10 stops. The
// stop ids are sent under the rt query key: that is what the upstream
// API expects for the stop-scoped variant, odd as it reads. Confirmed
// against live behavior before ever "fixing" it.
func (c *Client) BulletinsByStop(stpids ...int) ([]ServiceBulletin, error) {
	if err := checkBatch(len(stpids), 1); err != nil {
		return nil, err
	}
	body, err := c.fetch("getservicebulletins", queryParam{"rt", joinInts(stpids)})
	if err != nil {
		return nil, err
	}
	return ParseBulletins(body)
}

// ETA reports the minutes until the prediction's arrival. With
// useServerClock true it fetches the tracker's clock first, which is
// the accurate reading; with false it measures against the local
// clock and inherits whatever skew the local clock carries.
func (c *Client) ETA(p Prediction, useServerClock bool) (int, error) {
	if !useServerClock {
		return MinutesToArrival(p, time.Now()), nil
	}
	st, err := c.ServerTime()
	if err != nil {
		return 0, err
	}
	return MinutesToArrival(p, st.Time), nil
}
