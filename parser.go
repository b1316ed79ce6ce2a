package bustracker

import (
	"bytes"
	"encoding/xml"
	"sort"
	"time"

	"golang.org/x/net/html/charset"
)

// Raw wire records. Every leaf is a *string so that an absent element
// (nil) is distinguishable from one present with empty text; the dly
// flag in particular is carried by element presence alone.

type serverTimeResponse struct {
	Time *string `xml:"tm"`
}

type vehicleElement struct {
	VID    *string `xml:"vid"`
	Tmstmp *string `xml:"tmstmp"`
	Lat    *string `xml:"lat"`
	Lon    *string `xml:"lon"`
	Hdg    *string `xml:"hdg"`
	PID    *string `xml:"pid"`
	Pdist  *string `xml:"pdist"`
	Rt     *string `xml:"rt"`
	Des    *string `xml:"des"`
	Dly    *string `xml:"dly"`
}

type vehiclesResponse struct {
	Vehicles []vehicleElement `xml:"vehicle"`
}

type routeElement struct {
	Rt   *string `xml:"rt"`
	Rtnm *string `xml:"rtnm"`
}

type routesResponse struct {
	Routes []routeElement `xml:"route"`
}

type directionsResponse struct {
	Directions []string `xml:"dir"`
}

type stopElement struct {
	Stpid *string `xml:"stpid"`
	Stpnm *string `xml:"stpnm"`
	Lat   *string `xml:"lat"`
	Lon   *string `xml:"lon"`
}

type stopsResponse struct {
	Stops []stopElement `xml:"stop"`
}

type pointElement struct {
	Seq   *string `xml:"seq"`
	Typ   *string `xml:"typ"`
	Stpid *string `xml:"stpid"`
	Stpnm *string `xml:"stpnm"`
	Pdist *string `xml:"pdist"`
	Lat   *string `xml:"lat"`
	Lon   *string `xml:"lon"`
}

type patternElement struct {
	PID    *string        `xml:"pid"`
	Ln     *string        `xml:"ln"`
	Rtdir  *string        `xml:"rtdir"`
	Points []pointElement `xml:"pt"`
}

type patternsResponse struct {
	Patterns []patternElement `xml:"ptr"`
}

type predictionElement struct {
	Tmstmp *string `xml:"tmstmp"`
	Typ    *string `xml:"typ"`
	Stpid  *string `xml:"stpid"`
	Stpnm  *string `xml:"stpnm"`
	VID    *string `xml:"vid"`
	Dstp   *string `xml:"dstp"`
	Rt     *string `xml:"rt"`
	Rtdir  *string `xml:"rtdir"`
	Des    *string `xml:"des"`
	Prdtm  *string `xml:"prdtm"`
	Dly    *string `xml:"dly"`
}

type predictionsResponse struct {
	Predictions []predictionElement `xml:"prd"`
}

type affectedServiceElement struct {
	Rt    *string `xml:"rt"`
	Rtdir *string `xml:"rtdir"`
	Stpid *string `xml:"stpid"`
	Stpnm *string `xml:"stpnm"`
}

type bulletinElement struct {
	Nm       *string                  `xml:"nm"`
	Sbj      *string                  `xml:"sbj"`
	Dtl      *string                  `xml:"dtl"`
	Brf      *string                  `xml:"brf"`
	Prty     *string                  `xml:"prty"`
	Services []affectedServiceElement `xml:"srvc"`
}

type bulletinsResponse struct {
	Bulletins []bulletinElement `xml:"sb"`
}

func decodeResponse(command string, data []byte, v any) error {
	d := xml.NewDecoder(bytes.NewReader(data))
	d.CharsetReader = charset.NewReaderLabel
	if err := d.Decode(v); err != nil {
		return &MalformedResponseError{Command: command, Err: err}
	}
	return nil
}

func requireField(command, field string, v *string) (string, error) {
	if v == nil {
		return "", &MissingFieldError{Command: command, Field: field}
	}
	return *v, nil
}

// ParseServerTime parses a gettime response body.
func ParseServerTime(data []byte) (time.Time, error) {
	var resp serverTimeResponse
	if err := decodeResponse("gettime", data, &resp); err != nil {
		return time.Time{}, err
	}
	raw, err := requireField("gettime", "tm", resp.Time)
	if err != nil {
		return time.Time{}, err
	}
	return ParseTimestamp(raw)
}

// ParseVehicles parses a getvehicles response body. A record is
// delayed iff it carries a dly element, whatever that element's text.
func ParseVehicles(data []byte) ([]Vehicle, error) {
	const command = "getvehicles"
	var resp vehiclesResponse
	if err := decodeResponse(command, data, &resp); err != nil {
		return nil, err
	}
	vehicles := make([]Vehicle, 0, len(resp.Vehicles))
	for _, el := range resp.Vehicles {
		var f VehicleFields
		var err error
		for _, req := range []struct {
			name string
			raw  *string
			dst  *string
		}{
			{"vid", el.VID, &f.ID},
			{"tmstmp", el.Tmstmp, &f.Timestamp},
			{"lat", el.Lat, &f.Latitude},
			{"lon", el.Lon, &f.Longitude},
			{"hdg", el.Hdg, &f.Heading},
			{"pid", el.PID, &f.PatternID},
			{"pdist", el.Pdist, &f.PatternDistance},
			{"rt", el.Rt, &f.Route},
			{"des", el.Des, &f.Destination},
		} {
			if *req.dst, err = requireField(command, req.name, req.raw); err != nil {
				return nil, err
			}
		}
		f.Delayed = el.Dly != nil
		v, err := NewVehicle(f)
		if err != nil {
			return nil, err
		}
		vehicles = append(vehicles, *v)
	}
	return vehicles, nil
}

// ParseRoutes parses a getroutes response body.
func ParseRoutes(data []byte) ([]Route, error) {
	const command = "getroutes"
	var resp routesResponse
	if err := decodeResponse(command, data, &resp); err != nil {
		return nil, err
	}
	routes := make([]Route, 0, len(resp.Routes))
	for _, el := range resp.Routes {
		id, err := requireField(command, "rt", el.Rt)
		if err != nil {
			return nil, err
		}
		name, err := requireField(command, "rtnm", el.Rtnm)
		if err != nil {
			return nil, err
		}
		routes = append(routes, Route{ID: id, Name: name})
	}
	return routes, nil
}

// ParseDirections parses a getdirections response body.
func ParseDirections(data []byte) ([]string, error) {
	var resp directionsResponse
	if err := decodeResponse("getdirections", data, &resp); err != nil {
		return nil, err
	}
	return resp.Directions, nil
}

// ParseStops parses a getstops response body. The returned stops are
// unordered; ordering comes from a pattern.
func ParseStops(data []byte) ([]Stop, error) {
	const command = "getstops"
	var resp stopsResponse
	if err := decodeResponse(command, data, &resp); err != nil {
		return nil, err
	}
	stops := make([]Stop, 0, len(resp.Stops))
	for _, el := range resp.Stops {
		var f StopFields
		var err error
		if f.ID, err = requireField(command, "stpid", el.Stpid); err != nil {
			return nil, err
		}
		if f.Name, err = requireField(command, "stpnm", el.Stpnm); err != nil {
			return nil, err
		}
		if f.Latitude, err = requireField(command, "lat", el.Lat); err != nil {
			return nil, err
		}
		if f.Longitude, err = requireField(command, "lon", el.Lon); err != nil {
			return nil, err
		}
		s, err := NewStop(f)
		if err != nil {
			return nil, err
		}
		stops = append(stops, *s)
	}
	return stops, nil
}

// ParsePatterns parses a getpatterns response body. Points are sorted
// by seq; the document usually arrives ordered already, but seq is the
// authoritative key.
func ParsePatterns(data []byte) ([]Pattern, error) {
	const command = "getpatterns"
	var resp patternsResponse
	if err := decodeResponse(command, data, &resp); err != nil {
		return nil, err
	}
	patterns := make([]Pattern, 0, len(resp.Patterns))
	for _, el := range resp.Patterns {
		var f PatternFields
		var err error
		if f.ID, err = requireField(command, "pid", el.PID); err != nil {
			return nil, err
		}
		if f.Length, err = requireField(command, "ln", el.Ln); err != nil {
			return nil, err
		}
		if f.Direction, err = requireField(command, "rtdir", el.Rtdir); err != nil {
			return nil, err
		}
		pattern, err := NewPattern(f)
		if err != nil {
			return nil, err
		}
		for _, pt := range el.Points {
			var pf PointFields
			if pf.Sequence, err = requireField(command, "seq", pt.Seq); err != nil {
				return nil, err
			}
			if pf.Type, err = requireField(command, "typ", pt.Typ); err != nil {
				return nil, err
			}
			if pf.Latitude, err = requireField(command, "lat", pt.Lat); err != nil {
				return nil, err
			}
			if pf.Longitude, err = requireField(command, "lon", pt.Lon); err != nil {
				return nil, err
			}
			pf.StopID = pt.Stpid
			pf.StopName = pt.Stpnm
			pf.PatternDistance = pt.Pdist
			point, err := NewPoint(pf)
			if err != nil {
				return nil, err
			}
			pattern.AppendPoint(*point)
		}
		sort.SliceStable(pattern.Points, func(i, j int) bool {
			return pattern.Points[i].Sequence < pattern.Points[j].Sequence
		})
		patterns = append(patterns, *pattern)
	}
	return patterns, nil
}

// ParsePredictions parses a getpredictions response body. As with
// vehicles, a prediction is delayed iff a dly element is present.
func ParsePredictions(data []byte) ([]Prediction, error) {
	const command = "getpredictions"
	var resp predictionsResponse
	if err := decodeResponse(command, data, &resp); err != nil {
		return nil, err
	}
	predictions := make([]Prediction, 0, len(resp.Predictions))
	for _, el := range resp.Predictions {
		var f PredictionFields
		var err error
		for _, req := range []struct {
			name string
			raw  *string
			dst  *string
		}{
			{"tmstmp", el.Tmstmp, &f.GeneratedAt},
			{"typ", el.Typ, &f.Type},
			{"stpid", el.Stpid, &f.StopID},
			{"stpnm", el.Stpnm, &f.StopName},
			{"vid", el.VID, &f.VehicleID},
			{"dstp", el.Dstp, &f.DistanceToStop},
			{"rt", el.Rt, &f.Route},
			{"rtdir", el.Rtdir, &f.RouteDirection},
			{"des", el.Des, &f.Destination},
			{"prdtm", el.Prdtm, &f.PredictedArrival},
		} {
			if *req.dst, err = requireField(command, req.name, req.raw); err != nil {
				return nil, err
			}
		}
		f.Delayed = el.Dly != nil
		p, err := NewPrediction(f)
		if err != nil {
			return nil, err
		}
		predictions = append(predictions, *p)
	}
	return predictions, nil
}

// ParseBulletins parses a getservicebulletins response body. A
// bulletin with no srvc children applies system-wide.
func ParseBulletins(data []byte) ([]ServiceBulletin, error) {
	const command = "getservicebulletins"
	var resp bulletinsResponse
	if err := decodeResponse(command, data, &resp); err != nil {
		return nil, err
	}
	bulletins := make([]ServiceBulletin, 0, len(resp.Bulletins))
	for _, el := range resp.Bulletins {
		var sb ServiceBulletin
		var err error
		for _, req := range []struct {
			name string
			raw  *string
			dst  *string
		}{
			{"nm", el.Nm, &sb.Name},
			{"sbj", el.Sbj, &sb.Subject},
			{"dtl", el.Dtl, &sb.Detail},
			{"brf", el.Brf, &sb.Brief},
			{"prty", el.Prty, &sb.Priority},
		} {
			if *req.dst, err = requireField(command, req.name, req.raw); err != nil {
				return nil, err
			}
		}
		for _, svcEl := range el.Services {
			svc, err := NewAffectedService(AffectedServiceFields{
				Route:     svcEl.Rt,
				Direction: svcEl.Rtdir,
				StopID:    svcEl.Stpid,
				StopName:  svcEl.Stpnm,
			})
			if err != nil {
				return nil, err
			}
			sb.AppendService(*svc)
		}
		bulletins = append(bulletins, sb)
	}
	return bulletins, nil
}
