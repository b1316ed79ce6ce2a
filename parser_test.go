package bustracker

import (
	"errors"
	"testing"
	"time"
)

const vehiclesFixture = `<?xml version="1.0"?>
<bustime-response>
	<vehicle>
		<vid>1782</vid>
		<tmstmp>20100715 14:30:05</tmstmp>
		<lat>41.8781</lat>
		<lon>-87.6298</lon>
		<hdg>90</hdg>
		<pid>954</pid>
		<pdist>2500</pdist>
		<rt>20</rt>
		<des>Austin</des>
		<dly></dly>
	</vehicle>
	<vehicle>
		<vid>1919</vid>
		<tmstmp>20100715 14:30</tmstmp>
		<lat>41.9000</lat>
		<lon>-87.7000</lon>
		<hdg>268</hdg>
		<pid>954</pid>
		<pdist>100</pdist>
		<rt>20</rt>
		<des>Michigan</des>
	</vehicle>
</bustime-response>`

func TestParseVehicles(t *testing.T) {
	vehicles, err := ParseVehicles([]byte(vehiclesFixture))
	if err != nil {
		t.Fatalf("ParseVehicles failed: %v", err)
	}
	if len(vehicles) != 2 {
		t.Fatalf("expected 2 vehicles, got %d", len(vehicles))
	}

	// An empty dly element still means delayed; only absence means
	// not delayed.
	if !vehicles[0].Delayed {
		t.Error("vehicle with empty dly element should be delayed")
	}
	if vehicles[1].Delayed {
		t.Error("vehicle without dly element should not be delayed")
	}

	if vehicles[0].ID != 1782 || vehicles[0].Route != "20" || vehicles[0].Destination != "Austin" {
		t.Errorf("first vehicle wrong: %+v", vehicles[0])
	}
	if got := vehicles[1].Timestamp; !got.Equal(time.Date(2010, 7, 15, 14, 30, 0, 0, time.Local)) {
		t.Errorf("minute-only timestamp parsed wrong: %v", got)
	}
}

func TestParseVehiclesMissingRequiredField(t *testing.T) {
	fixture := `<bustime-response><vehicle><vid>1782</vid></vehicle></bustime-response>`
	_, err := ParseVehicles([]byte(fixture))
	var mfe *MissingFieldError
	if !errors.As(err, &mfe) {
		t.Fatalf("expected MissingFieldError, got %v", err)
	}
	if mfe.Command != "getvehicles" || mfe.Field != "tmstmp" {
		t.Errorf("unexpected error detail: %s/%s", mfe.Command, mfe.Field)
	}
}

func TestParseMalformedResponse(t *testing.T) {
	_, err := ParseVehicles([]byte("<bustime-response><vehicle>"))
	var mre *MalformedResponseError
	if !errors.As(err, &mre) {
		t.Fatalf("expected MalformedResponseError, got %v", err)
	}
}

func TestParseRoutes(t *testing.T) {
	fixture := `<bustime-response>
		<route><rt>20</rt><rtnm>Madison</rtnm></route>
		<route><rt>X49</rt><rtnm>Western Express</rtnm></route>
	</bustime-response>`
	routes, err := ParseRoutes([]byte(fixture))
	if err != nil {
		t.Fatalf("ParseRoutes failed: %v", err)
	}
	if len(routes) != 2 {
		t.Fatalf("expected 2 routes, got %d", len(routes))
	}
	if routes[1].ID != "X49" || routes[1].Name != "Western Express" {
		t.Errorf("second route wrong: %+v", routes[1])
	}
}

func TestParseDirections(t *testing.T) {
	fixture := `<bustime-response><dir>East Bound</dir><dir>West Bound</dir></bustime-response>`
	directions, err := ParseDirections([]byte(fixture))
	if err != nil {
		t.Fatalf("ParseDirections failed: %v", err)
	}
	if len(directions) != 2 || directions[0] != "East Bound" || directions[1] != "West Bound" {
		t.Errorf("directions wrong: %v", directions)
	}
}

func TestParseStops(t *testing.T) {
	fixture := `<bustime-response>
		<stop><stpid>456</stpid><stpnm>Madison &amp; Wacker</stpnm><lat>41.88231</lat><lon>-87.63708</lon></stop>
	</bustime-response>`
	stops, err := ParseStops([]byte(fixture))
	if err != nil {
		t.Fatalf("ParseStops failed: %v", err)
	}
	if len(stops) != 1 {
		t.Fatalf("expected 1 stop, got %d", len(stops))
	}
	s := stops[0]
	if s.ID != 456 || s.Name != "Madison & Wacker" || s.Latitude != 41.88231 || s.Longitude != -87.63708 {
		t.Errorf("stop wrong: %+v", s)
	}
}

const patternsFixture = `<bustime-response>
	<ptr>
		<pid>954</pid>
		<ln>3094.89</ln>
		<rtdir>East Bound</rtdir>
		<pt>
			<seq>2</seq>
			<typ>W</typ>
			<lat>41.88250</lat>
			<lon>-87.63500</lon>
		</pt>
		<pt>
			<seq>1</seq>
			<typ>S</typ>
			<stpid>456</stpid>
			<stpnm>Madison &amp; Wacker</stpnm>
			<pdist>0</pdist>
			<lat>41.88231</lat>
			<lon>-87.63708</lon>
		</pt>
	</ptr>
</bustime-response>`

func TestParsePatterns(t *testing.T) {
	patterns, err := ParsePatterns([]byte(patternsFixture))
	if err != nil {
		t.Fatalf("ParsePatterns failed: %v", err)
	}
	if len(patterns) != 1 {
		t.Fatalf("expected 1 pattern, got %d", len(patterns))
	}
	p := patterns[0]
	if p.ID != 954 || p.Length != 3094 || p.Direction != "East Bound" {
		t.Errorf("pattern header wrong: %+v", p)
	}
	if len(p.Points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(p.Points))
	}

	// The fixture lists seq 2 before seq 1; points come back sorted
	// by seq regardless of document order.
	if p.Points[0].Sequence != 1 || p.Points[1].Sequence != 2 {
		t.Errorf("points not in seq order: %d, %d", p.Points[0].Sequence, p.Points[1].Sequence)
	}

	stop := p.Points[0]
	if stop.Type != PointTypeStop || stop.StopID == nil || *stop.StopID != 456 {
		t.Errorf("stop point wrong: %+v", stop)
	}
	waypoint := p.Points[1]
	if waypoint.Type != PointTypeWaypoint || waypoint.StopID != nil || waypoint.StopName != nil || waypoint.PatternDistance != nil {
		t.Errorf("waypoint should have nil stop fields: %+v", waypoint)
	}
}

const predictionsFixture = `<bustime-response>
	<prd>
		<tmstmp>20100715 14:30:00</tmstmp>
		<typ>A</typ>
		<stpid>456</stpid>
		<stpnm>Madison &amp; Wacker</stpnm>
		<vid>1782</vid>
		<dstp>2500</dstp>
		<rt>20</rt>
		<rtdir>East Bound</rtdir>
		<des>Austin</des>
		<prdtm>20100715 14:39:00</prdtm>
		<dly>true</dly>
	</prd>
	<prd>
		<tmstmp>20100715 14:30:00</tmstmp>
		<typ>D</typ>
		<stpid>789</stpid>
		<stpnm>Clark &amp; Lake</stpnm>
		<vid>1919</vid>
		<dstp>120</dstp>
		<rt>22</rt>
		<rtdir>North Bound</rtdir>
		<des>Howard</des>
		<prdtm>20100715 14:32:00</prdtm>
	</prd>
</bustime-response>`

func TestParsePredictions(t *testing.T) {
	predictions, err := ParsePredictions([]byte(predictionsFixture))
	if err != nil {
		t.Fatalf("ParsePredictions failed: %v", err)
	}
	if len(predictions) != 2 {
		t.Fatalf("expected 2 predictions, got %d", len(predictions))
	}

	first, second := predictions[0], predictions[1]
	if !first.Delayed {
		t.Error("first prediction carries dly, should be delayed")
	}
	if second.Delayed {
		t.Error("second prediction has no dly, should not be delayed")
	}
	if first.Type != PredictionTypeArrival || second.Type != PredictionTypeDeparture {
		t.Errorf("type mapping wrong: %q, %q", first.Type, second.Type)
	}

	// Minutes at creation derive from each record's own timestamps:
	// 14:30 -> 14:39 and 14:30 -> 14:32.
	if first.MinutesToArrivalAtCreation != 9 {
		t.Errorf("first: expected 9 minutes, got %d", first.MinutesToArrivalAtCreation)
	}
	if second.MinutesToArrivalAtCreation != 2 {
		t.Errorf("second: expected 2 minutes, got %d", second.MinutesToArrivalAtCreation)
	}
}

const bulletinsFixture = `<bustime-response>
	<sb>
		<nm>20-reroute</nm>
		<sbj>Route 20 reroute</sbj>
		<dtl>Buses are rerouted via &lt;b&gt;Washington&lt;/b&gt;.</dtl>
		<brf>Reroute via Washington</brf>
		<prty>High</prty>
		<srvc>
			<rt>20</rt>
			<rtdir>East Bound</rtdir>
			<stpid>456</stpid>
			<stpnm>Madison &amp; Wacker</stpnm>
		</srvc>
		<srvc>
			<stpnm>Clark &amp; Lake</stpnm>
		</srvc>
	</sb>
	<sb>
		<nm>system</nm>
		<sbj>Holiday schedule</sbj>
		<dtl>All routes run on a Sunday schedule.</dtl>
		<brf>Sunday schedule</brf>
		<prty>Low</prty>
	</sb>
</bustime-response>`

func TestParseBulletins(t *testing.T) {
	bulletins, err := ParseBulletins([]byte(bulletinsFixture))
	if err != nil {
		t.Fatalf("ParseBulletins failed: %v", err)
	}
	if len(bulletins) != 2 {
		t.Fatalf("expected 2 bulletins, got %d", len(bulletins))
	}

	reroute := bulletins[0]
	if reroute.Name != "20-reroute" || reroute.Priority != "High" {
		t.Errorf("bulletin header wrong: %+v", reroute)
	}
	if len(reroute.AffectedServices) != 2 {
		t.Fatalf("expected 2 affected services, got %d", len(reroute.AffectedServices))
	}

	full := reroute.AffectedServices[0]
	if full.Route == nil || *full.Route != "20" || full.StopID == nil || *full.StopID != 456 {
		t.Errorf("fully-populated service wrong: %+v", full)
	}

	// The documented oddity: a service record where the stop name is
	// the only populated field. The others stay nil, not "".
	nameOnly := reroute.AffectedServices[1]
	if nameOnly.Route != nil || nameOnly.Direction != nil || nameOnly.StopID != nil {
		t.Errorf("expected nil fields, got %+v", nameOnly)
	}
	if nameOnly.StopName == nil || *nameOnly.StopName != "Clark & Lake" {
		t.Errorf("stop name wrong: %+v", nameOnly.StopName)
	}

	// No srvc children at all: the bulletin is system-wide.
	if len(bulletins[1].AffectedServices) != 0 {
		t.Errorf("system-wide bulletin should have no affected services: %+v", bulletins[1].AffectedServices)
	}
}

func TestParseServerTime(t *testing.T) {
	fixture := `<bustime-response><tm>20100715 14:30:05</tm></bustime-response>`
	got, err := ParseServerTime([]byte(fixture))
	if err != nil {
		t.Fatalf("ParseServerTime failed: %v", err)
	}
	if !got.Equal(time.Date(2010, 7, 15, 14, 30, 5, 0, time.Local)) {
		t.Errorf("server time wrong: %v", got)
	}

	_, err = ParseServerTime([]byte(`<bustime-response></bustime-response>`))
	var mfe *MissingFieldError
	if !errors.As(err, &mfe) {
		t.Fatalf("expected MissingFieldError for missing tm, got %v", err)
	}
}
