package neo4j

import (
	"testing"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeValue_Node(t *testing.T) {
	node := dbtype.Node{
		Labels: []string{"Persona", "Cliente"},
		Props: map[string]interface{}{
			"Nombre":      "Juan Pérez",
			"NivelRiesgo": int64(2),
			"Direccion":   "",
		},
	}

	got := NormalizeValue(node)

	assert.Equal(t, map[string]interface{}{
		"Nombre":      "Juan Pérez",
		"NivelRiesgo": int64(2),
		"Direccion":   "N/A",
		"type":        "Persona",
	}, got)
}

func TestNormalizeValue_Relationship(t *testing.T) {
	rel := dbtype.Relationship{
		Type: "POSEE",
		Props: map[string]interface{}{
			"ID":     int64(7),
			"Estado": true,
		},
	}

	got := NormalizeValue(rel)

	assert.Equal(t, map[string]interface{}{
		"ID":     int64(7),
		"Estado": true,
		"type":   "POSEE",
	}, got)
}

func TestNormalizeValue_WideInt(t *testing.T) {
	got := NormalizeValue(map[string]interface{}{"low": int64(5), "high": int64(2)})
	assert.Equal(t, int64(5+2*(1<<32)), got)
}

func TestNormalizeValue_CalendarDate(t *testing.T) {
	got := NormalizeValue(map[string]interface{}{
		"year":  int64(2023),
		"month": int64(5),
		"day":   int64(7),
	})
	assert.Equal(t, "2023-05-07", got)
}

func TestNormalizeValue_CalendarDateWithWideFields(t *testing.T) {
	got := NormalizeValue(map[string]interface{}{
		"year":  map[string]interface{}{"low": int64(2023), "high": int64(0)},
		"month": map[string]interface{}{"low": int64(5), "high": int64(0)},
		"day":   map[string]interface{}{"low": int64(7), "high": int64(0)},
	})
	assert.Equal(t, "2023-05-07", got)
}

func TestNormalizeValue_Temporals(t *testing.T) {
	date := dbtype.Date(time.Date(2023, 5, 7, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "2023-05-07", NormalizeValue(date))

	dt := dbtype.LocalDateTime(time.Date(2023, 5, 7, 14, 30, 0, 0, time.UTC))
	assert.Equal(t, "2023-05-07 14:30:00", NormalizeValue(dt))
}

func TestNormalizeValue_EmptyAndNil(t *testing.T) {
	assert.Equal(t, "N/A", NormalizeValue(nil))
	assert.Equal(t, "N/A", NormalizeValue(""))
	assert.Equal(t, "texto", NormalizeValue("texto"))
	assert.Equal(t, int64(3), NormalizeValue(int64(3)))
	assert.Equal(t, false, NormalizeValue(false))
}

func TestNormalizeValue_List(t *testing.T) {
	got := NormalizeValue([]interface{}{"a", "", nil, int64(1)})
	assert.Equal(t, []interface{}{"a", "N/A", "N/A", int64(1)}, got)
}

func TestNormalizeValue_UnknownFallsBackToJSON(t *testing.T) {
	type odd struct {
		X int `json:"x"`
	}
	got := NormalizeValue(odd{X: 1})
	assert.Equal(t, `{"x":1}`, got)
}

func TestNormalizeRecord(t *testing.T) {
	record := &neo4j.Record{
		Keys: []string{"id", "n"},
		Values: []interface{}{
			int64(42),
			dbtype.Node{Labels: []string{"Cuenta"}, Props: map[string]interface{}{"ID": int64(4)}},
		},
	}

	row := NormalizeRecord(record)

	assert.Equal(t, int64(42), row["id"])
	assert.Equal(t, map[string]interface{}{"ID": int64(4), "type": "Cuenta"}, row["n"])
}

func TestNormalizeRecords_PreservesOrderPerRow(t *testing.T) {
	records := []*neo4j.Record{
		{Keys: []string{"a"}, Values: []interface{}{int64(1)}},
		{Keys: []string{"a"}, Values: []interface{}{int64(2)}},
	}

	rows := NormalizeRecords(records)

	assert.Len(t, rows, 2)
	assert.Equal(t, int64(1), rows[0]["a"])
	assert.Equal(t, int64(2), rows[1]["a"])
}
