package neo4j

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"

	"fraudgraph-backend/application/ports"
)

// The console renders every result cell, so raw driver values are converted
// into display-ready ones before leaving this package. All conversions are
// pure functions over the value; the shape of the query never matters.

const emptyDisplay = "N/A"

// NormalizeRecords converts driver records into display-ready rows,
// preserving column order through the record keys
func NormalizeRecords(records []*neo4j.Record) []ports.Record {
	rows := make([]ports.Record, 0, len(records))
	for _, record := range records {
		rows = append(rows, NormalizeRecord(record))
	}
	return rows
}

// NormalizeRecord converts one driver record into a display-ready row
func NormalizeRecord(record *neo4j.Record) ports.Record {
	row := make(ports.Record, len(record.Keys))
	for i, key := range record.Keys {
		row[key] = NormalizeValue(record.Values[i])
	}
	return row
}

// NormalizeValue converts a single driver value. Nodes and relationships
// flatten into their properties plus a "tipo" discriminator, temporal values
// become zero-padded strings, integers wider than the JSON-safe range are
// reassembled from their low/high halves, and nil or empty values render as
// N/A. Anything unrecognized falls back to its JSON encoding.
func NormalizeValue(value interface{}) interface{} {
	switch v := value.(type) {
	case nil:
		return emptyDisplay

	case string:
		if v == "" {
			return emptyDisplay
		}
		return v

	case bool, int64, float64:
		return v

	case int:
		return int64(v)

	case dbtype.Node:
		out := normalizeProps(v.Props)
		if len(v.Labels) > 0 {
			out["type"] = v.Labels[0]
		}
		return out

	case dbtype.Relationship:
		out := normalizeProps(v.Props)
		out["type"] = v.Type
		return out

	case dbtype.Date:
		return v.Time().Format("2006-01-02")

	case dbtype.LocalDateTime:
		return v.Time().Format("2006-01-02 15:04:05")

	case time.Time:
		return v.Format("2006-01-02 15:04:05")

	case []interface{}:
		out := make([]interface{}, len(v))
		for i, item := range v {
			out[i] = NormalizeValue(item)
		}
		return out

	case map[string]interface{}:
		if n, ok := wideInt(v); ok {
			return n
		}
		if s, ok := calendarDate(v); ok {
			return s
		}
		return normalizeProps(v)

	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(encoded)
	}
}

func normalizeProps(props map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(props))
	for key, value := range props {
		out[key] = NormalizeValue(value)
	}
	return out
}

// wideInt reassembles a {low, high} integer pair into a single int64
func wideInt(m map[string]interface{}) (int64, bool) {
	if len(m) != 2 {
		return 0, false
	}
	low, okLow := asInt64(m["low"])
	high, okHigh := asInt64(m["high"])
	if !okLow || !okHigh {
		return 0, false
	}
	return low + high*(1<<32), true
}

// calendarDate formats a {year, month, day} triple as a zero-padded date,
// appending the time of day when hour/minute/second fields are present
func calendarDate(m map[string]interface{}) (string, bool) {
	year, okYear := asInt64(m["year"])
	month, okMonth := asInt64(m["month"])
	day, okDay := asInt64(m["day"])
	if !okYear || !okMonth || !okDay {
		return "", false
	}
	date := fmt.Sprintf("%04d-%02d-%02d", year, month, day)

	hour, okHour := asInt64(m["hour"])
	if !okHour {
		return date, true
	}
	minute, _ := asInt64(m["minute"])
	second, _ := asInt64(m["second"])
	return fmt.Sprintf("%s %02d:%02d:%02d", date, hour, minute, second), true
}

func asInt64(value interface{}) (int64, bool) {
	switch v := value.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case float64:
		return int64(v), true
	case map[string]interface{}:
		// calendar fields sometimes arrive as {low, high} pairs themselves
		return wideInt(v)
	default:
		return 0, false
	}
}
