package site

import (
	"net/url"
	"strconv"
)

// MapURL is the embed URL of the map widget centred on lat/lng.
func MapURL(lat, lng float64) string {
	q := url.QueryEscape(formatCoord(lat)) + "," + url.QueryEscape(formatCoord(lng))
	return "https://www.google.com/maps?q=" + q + "&z=6&output=embed"
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
