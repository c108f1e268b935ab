package cypher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fraudgraph-backend/domain/schema"
	apperrors "fraudgraph-backend/pkg/errors"
)

func mustNode(t *testing.T, name string) schema.NodeType {
	t.Helper()
	nt, err := schema.Node(name)
	require.NoError(t, err)
	return nt
}

func mustRelationship(t *testing.T, name string) schema.RelationshipType {
	t.Helper()
	rt, err := schema.Relationship(name)
	require.NoError(t, err)
	return rt
}

func TestCreateNode_Persona(t *testing.T) {
	props := map[string]string{
		"DPI":             "2547896320101",
		"Nombre":          "Juan Pérez",
		"FechaNacimiento": "1990-05-07",
		"Direccion":       "Zona 10, Guatemala",
		"NivelRiesgo":     "2",
	}

	stmt, err := CreateNode(mustNode(t, "Persona"), []string{"Cliente"}, props)
	require.NoError(t, err)

	assert.Equal(t,
		"CREATE (n:Persona:Cliente {DPI: $p_DPI, Direccion: $p_Direccion, FechaNacimiento: date($p_FechaNacimiento), NivelRiesgo: $p_NivelRiesgo, Nombre: $p_Nombre}) RETURN n",
		stmt.Text)
	assert.Equal(t, map[string]interface{}{
		"p_DPI":             "2547896320101",
		"p_Direccion":       "Zona 10, Guatemala",
		"p_FechaNacimiento": "1990-05-07",
		"p_Nombre":          "Juan Pérez",
		"p_NivelRiesgo":     int64(2),
	}, stmt.Params)
}

func TestCreateNode_Idempotent(t *testing.T) {
	props := map[string]string{
		"ID":        "15",
		"Monto":     "25000",
		"Fecha":     "2023-05-07T14:30:00",
		"Ubicacion": "Ciudad de Guatemala",
		"Tipo":      "Retiro",
	}
	nt := mustNode(t, "Transaccion")

	first, err := CreateNode(nt, nil, props)
	require.NoError(t, err)
	second, err := CreateNode(nt, nil, props)
	require.NoError(t, err)

	assert.Equal(t, first.Text, second.Text)
	assert.Equal(t, first.Params, second.Params)
}

func TestCreateNode_Validation(t *testing.T) {
	nt := mustNode(t, "Cuenta")

	tests := []struct {
		name   string
		labels []string
		props  map[string]string
	}{
		{
			name: "missing required property",
			props: map[string]string{
				"ID": "4", "Tipo": "Ahorro", "Saldo": "1000", "Estado": "true",
			},
		},
		{
			name: "unknown property",
			props: map[string]string{
				"ID": "4", "Tipo": "Ahorro", "Saldo": "1000",
				"FechaCreacion": "2020-01-01", "Estado": "true", "Color": "rojo",
			},
		},
		{
			name: "non-numeric number",
			props: map[string]string{
				"ID": "cuatro", "Tipo": "Ahorro", "Saldo": "1000",
				"FechaCreacion": "2020-01-01", "Estado": "true",
			},
		},
		{
			name: "option outside enumeration",
			props: map[string]string{
				"ID": "4", "Tipo": "Plazo Fijo", "Saldo": "1000",
				"FechaCreacion": "2020-01-01", "Estado": "true",
			},
		},
		{
			name:   "undeclared extra label",
			labels: []string{"Premium"},
			props: map[string]string{
				"ID": "4", "Tipo": "Ahorro", "Saldo": "1000",
				"FechaCreacion": "2020-01-01", "Estado": "true",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CreateNode(nt, tt.labels, tt.props)
			assert.True(t, apperrors.IsValidation(err), "expected validation error, got %v", err)
		})
	}
}

func TestCreateNode_RangeCheck(t *testing.T) {
	props := map[string]string{
		"DPI":             "1",
		"Nombre":          "Ana",
		"FechaNacimiento": "1990-05-07",
		"Direccion":       "Zona 1",
		"NivelRiesgo":     "5",
	}
	_, err := CreateNode(mustNode(t, "Persona"), nil, props)
	assert.True(t, apperrors.IsValidation(err))
}

func TestFilterNodes_StringifiesNumbers(t *testing.T) {
	stmt, err := FilterNodes(mustNode(t, "Transaccion"), map[string]string{"Monto": "25000"})
	require.NoError(t, err)

	assert.Equal(t, "MATCH (n:Transaccion) WHERE toString(n.Monto) = $c_Monto RETURN id(n) AS id, n", stmt.Text)
	assert.Equal(t, map[string]interface{}{"c_Monto": "25000"}, stmt.Params)
}

func TestFilterNodes_SkipsEmptyAndJoinsWithAnd(t *testing.T) {
	stmt, err := FilterNodes(mustNode(t, "Cuenta"), map[string]string{
		"Estado": "true",
		"Tipo":   "Ahorro",
		"Saldo":  "",
	})
	require.NoError(t, err)

	assert.Equal(t,
		"MATCH (n:Cuenta) WHERE n.Estado = $c_Estado AND n.Tipo = $c_Tipo RETURN id(n) AS id, n",
		stmt.Text)
	assert.Equal(t, map[string]interface{}{"c_Estado": true, "c_Tipo": "Ahorro"}, stmt.Params)
}

func TestFilterNodes_NoConditions(t *testing.T) {
	stmt, err := FilterNodes(mustNode(t, "Dispositivo"), nil)
	require.NoError(t, err)
	assert.Equal(t, "MATCH (n:Dispositivo) RETURN id(n) AS id, n", stmt.Text)
	assert.Empty(t, stmt.Params)
}

func TestFilterNodes_RejectsNonIntegerNumber(t *testing.T) {
	_, err := FilterNodes(mustNode(t, "Transaccion"), map[string]string{"Monto": "25000.50"})
	assert.True(t, apperrors.IsValidation(err))
}

func TestFilterNodes_UnknownProperty(t *testing.T) {
	_, err := FilterNodes(mustNode(t, "Persona"), map[string]string{"Apellido": "García"})
	assert.True(t, apperrors.IsValidation(err))
}

func TestCreateRelationship_IDFirst(t *testing.T) {
	stmt, err := CreateRelationship(mustRelationship(t, "POSEE"), 7, "2547896320101", "15", map[string]string{
		"FechaInicio": "2021-03-01",
		"Estado":      "true",
	})
	require.NoError(t, err)

	assert.Equal(t,
		"MATCH (a:Persona) WHERE a.DPI = $source OR toString(a.ID) = $source "+
			"MATCH (b:Cuenta) WHERE toString(b.ID) = $target "+
			"CREATE (a)-[r:POSEE {ID: $r_ID, Estado: $r_Estado, FechaInicio: date($r_FechaInicio)}]->(b) RETURN r",
		stmt.Text)
	assert.Equal(t, map[string]interface{}{
		"source":        "2547896320101",
		"target":        "15",
		"r_ID":          int64(7),
		"r_Estado":      true,
		"r_FechaInicio": "2021-03-01",
	}, stmt.Params)
}

func TestCreateRelationship_DatetimeConstructor(t *testing.T) {
	stmt, err := CreateRelationship(mustRelationship(t, "REALIZA"), 3, "15", "42", map[string]string{
		"Fecha":       "2023-05-07T14:30:00",
		"Monto":       "25000",
		"Fraudulenta": "false",
	})
	require.NoError(t, err)
	assert.Contains(t, stmt.Text, "Fecha: datetime($r_Fecha)")
	assert.Equal(t, int64(25000), stmt.Params["r_Monto"])
	assert.Equal(t, false, stmt.Params["r_Fraudulenta"])
}

func TestCreateRelationship_MissingEndpoints(t *testing.T) {
	_, err := CreateRelationship(mustRelationship(t, "USA"), 1, "", "9", map[string]string{
		"FrecuenciaUso": "5",
		"UltimoUso":     "2023-01-01",
	})
	assert.True(t, apperrors.IsValidation(err))
}

func TestNextRelationshipID(t *testing.T) {
	stmt := NextRelationshipID(mustRelationship(t, "USA"))
	assert.Equal(t, "MATCH ()-[r:USA]->() RETURN coalesce(max(r.ID), 0) + 1 AS nextId", stmt.Text)
	assert.Empty(t, stmt.Params)
}

func TestUpdateNodeProperties(t *testing.T) {
	stmt, err := UpdateNodeProperties(42, map[string]string{
		"Saldo":  "5000",
		"Estado": "false",
	})
	require.NoError(t, err)

	assert.Equal(t, "MATCH (n) WHERE id(n) = $id SET n.Estado = $p_Estado, n.Saldo = $p_Saldo RETURN n", stmt.Text)
	assert.Equal(t, map[string]interface{}{
		"id":       int64(42),
		"p_Estado": false,
		"p_Saldo":  int64(5000),
	}, stmt.Params)
}

func TestUpdateNodeProperties_RejectsUnsafeName(t *testing.T) {
	_, err := UpdateNodeProperties(42, map[string]string{
		"Saldo = 0 WITH n MATCH (m) DETACH DELETE m //": "x",
	})
	assert.True(t, apperrors.IsValidation(err))
}

func TestUpdateNodeProperties_Empty(t *testing.T) {
	_, err := UpdateNodeProperties(42, nil)
	assert.True(t, apperrors.IsValidation(err))
}

func TestBulkSetNodes(t *testing.T) {
	stmt, err := BulkSetNodes(mustNode(t, "Cuenta"),
		map[string]string{"Tipo": "Ahorro", "Estado": "true"},
		map[string]string{"Revisada": "true"})
	require.NoError(t, err)

	assert.Equal(t,
		"MATCH (n:Cuenta) WHERE n.Estado = $c_Estado AND n.Tipo = $c_Tipo SET n.Revisada = $s_Revisada RETURN count(n) AS affected",
		stmt.Text)
	assert.Equal(t, map[string]interface{}{
		"c_Estado":   true,
		"c_Tipo":     "Ahorro",
		"s_Revisada": true,
	}, stmt.Params)
}

func TestBulkSetNodes_TypedNumericCondition(t *testing.T) {
	stmt, err := BulkSetNodes(mustNode(t, "Persona"),
		map[string]string{"NivelRiesgo": "3"},
		map[string]string{"Vigilado": "true"})
	require.NoError(t, err)

	assert.Contains(t, stmt.Text, "n.NivelRiesgo = $c_NivelRiesgo")
	assert.Equal(t, int64(3), stmt.Params["c_NivelRiesgo"])
}

func TestBulkSetNodes_NoAssignments(t *testing.T) {
	_, err := BulkSetNodes(mustNode(t, "Persona"), map[string]string{"NivelRiesgo": "3"}, nil)
	assert.True(t, apperrors.IsValidation(err))
}

func TestBulkSetRelationships_FilterByID(t *testing.T) {
	stmt, err := BulkSetRelationships(mustRelationship(t, "REALIZA"),
		map[string]string{"ID": "12"},
		map[string]string{"Fraudulenta": "true"})
	require.NoError(t, err)

	assert.Equal(t,
		"MATCH ()-[r:REALIZA]->() WHERE r.ID = $c_ID SET r.Fraudulenta = $s_Fraudulenta RETURN count(r) AS affected",
		stmt.Text)
	assert.Equal(t, map[string]interface{}{
		"c_ID":          int64(12),
		"s_Fraudulenta": true,
	}, stmt.Params)
}

func TestDeleteNode(t *testing.T) {
	stmt := DeleteNode(9)
	assert.Equal(t, "MATCH (n) WHERE id(n) = $id DETACH DELETE n", stmt.Text)
	assert.Equal(t, map[string]interface{}{"id": int64(9)}, stmt.Params)
}

func TestRemoveNodeProperty(t *testing.T) {
	stmt, err := RemoveNodeProperty(9, "Revisada")
	require.NoError(t, err)
	assert.Equal(t, "MATCH (n) WHERE id(n) = $id REMOVE n.Revisada RETURN n", stmt.Text)

	_, err = RemoveNodeProperty(9, "Revisada RETURN n //")
	assert.True(t, apperrors.IsValidation(err))
}

func TestDeleteRelationship(t *testing.T) {
	stmt := DeleteRelationship(4)
	assert.Equal(t, "MATCH ()-[r]->() WHERE id(r) = $id DELETE r", stmt.Text)
}

func TestRemoveRelationshipProperty(t *testing.T) {
	stmt, err := RemoveRelationshipProperty(4, "Fraudulenta")
	require.NoError(t, err)
	assert.Equal(t, "MATCH ()-[r]->() WHERE id(r) = $id REMOVE r.Fraudulenta RETURN r", stmt.Text)
}

func TestNodesByLabels(t *testing.T) {
	stmt, err := NodesByLabels([]string{"Persona", "Cliente"})
	require.NoError(t, err)
	assert.Equal(t, "MATCH (n:Persona:Cliente) RETURN id(n) AS id, labels(n) AS labels, n ORDER BY id(n)", stmt.Text)

	_, err = NodesByLabels(nil)
	assert.True(t, apperrors.IsValidation(err))

	_, err = NodesByLabels([]string{"Persona) DETACH DELETE n //"})
	assert.True(t, apperrors.IsValidation(err))
}

func TestSearchNodes(t *testing.T) {
	stmt, err := SearchNodes("Persona", "juan")
	require.NoError(t, err)
	assert.Contains(t, stmt.Text, "toLower(n.Nombre) CONTAINS toLower($term)")
	assert.Contains(t, stmt.Text, "LIMIT 10")
	assert.Equal(t, map[string]interface{}{"term": "juan"}, stmt.Params)
}

func TestValidIdentifier(t *testing.T) {
	assert.True(t, ValidIdentifier("NivelRiesgo"))
	assert.True(t, ValidIdentifier("_interna"))
	assert.True(t, ValidIdentifier("Año"))
	assert.False(t, ValidIdentifier("9lives"))
	assert.False(t, ValidIdentifier("a b"))
	assert.False(t, ValidIdentifier(""))
	assert.False(t, ValidIdentifier("n.DPI"))
}
