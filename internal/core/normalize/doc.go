// Package normalize maps the loosely typed JSON returned by the laundry
// backend into domain view models.
//
// Every function here is total: it accepts any decoded JSON value, never
// panics and never returns an error. Missing or malformed fields degrade to
// "" or 0 so that one bad record cannot abort a whole response.
package normalize
