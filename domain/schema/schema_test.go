package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "fraudgraph-backend/pkg/errors"
)

func TestNode_Lookup(t *testing.T) {
	nt, err := Node("Persona")
	require.NoError(t, err)
	assert.Equal(t, "Persona", nt.Label)
	assert.Equal(t, []string{"Cliente", "NoCliente"}, nt.AdditionalLabels)

	_, err = Node("Vehiculo")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestRelationship_Lookup(t *testing.T) {
	rt, err := Relationship("REALIZA")
	require.NoError(t, err)
	assert.Equal(t, "Cuenta", rt.SourceLabel)
	assert.Equal(t, "Transaccion", rt.TargetLabel)

	_, err = Relationship("CONOCE")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestTypeNames_Sorted(t *testing.T) {
	assert.Equal(t,
		[]string{"Cuenta", "Dispositivo", "Establecimiento", "Persona", "Transaccion"},
		NodeTypeNames())
	assert.Equal(t, []string{"POSEE", "REALIZA", "USA"}, RelationshipTypeNames())
}

func TestHasAdditionalLabel(t *testing.T) {
	nt, err := Node("Cuenta")
	require.NoError(t, err)

	assert.True(t, nt.HasAdditionalLabel("Interna"))
	assert.True(t, nt.HasAdditionalLabel("Externa"))
	assert.False(t, nt.HasAdditionalLabel("Premium"))
}

func TestPropertyNames_Sorted(t *testing.T) {
	nt, err := Node("Transaccion")
	require.NoError(t, err)

	assert.Equal(t, []string{"Fecha", "ID", "Monto", "Tipo", "Ubicacion"}, nt.PropertyNames())
}

func TestCoerce_Number(t *testing.T) {
	p := Property{Type: TypeNumber}

	v, err := p.Coerce("Monto", " 25000 ")
	require.NoError(t, err)
	assert.Equal(t, int64(25000), v)

	_, err = p.Coerce("Monto", "25000.50")
	assert.True(t, apperrors.IsValidation(err))

	_, err = p.Coerce("Monto", "mucho")
	assert.True(t, apperrors.IsValidation(err))
}

func TestCoerce_NumberRange(t *testing.T) {
	p := Property{Type: TypeNumber, Min: intPtr(1), Max: intPtr(3)}

	v, err := p.Coerce("NivelRiesgo", "2")
	require.NoError(t, err)
	assert.Equal(t, int64(2), v)

	_, err = p.Coerce("NivelRiesgo", "0")
	assert.True(t, apperrors.IsValidation(err))

	_, err = p.Coerce("NivelRiesgo", "4")
	assert.True(t, apperrors.IsValidation(err))
}

func TestCoerce_Boolean(t *testing.T) {
	p := Property{Type: TypeBoolean}

	for raw, want := range map[string]bool{
		"true": true, "TRUE": true, "True": true,
		"false": false, "yes": false, "1": false, "": false,
	} {
		v, err := p.Coerce("Estado", raw)
		require.NoError(t, err)
		assert.Equal(t, want, v, "raw %q", raw)
	}
}

func TestCoerce_TemporalPassthrough(t *testing.T) {
	date := Property{Type: TypeDate}
	v, err := date.Coerce("FechaInicio", "2023-05-07")
	require.NoError(t, err)
	assert.Equal(t, "2023-05-07", v)

	dt := Property{Type: TypeDateTime}
	v, err = dt.Coerce("Fecha", "2023-05-07T14:30:00")
	require.NoError(t, err)
	assert.Equal(t, "2023-05-07T14:30:00", v)
}

func TestCoerce_Select(t *testing.T) {
	p := Property{Type: TypeSelect, Options: []string{"Ahorro", "Corriente"}}

	v, err := p.Coerce("Tipo", "Ahorro")
	require.NoError(t, err)
	assert.Equal(t, "Ahorro", v)

	_, err = p.Coerce("Tipo", "Plazo Fijo")
	assert.True(t, apperrors.IsValidation(err))
}

func TestConstructor(t *testing.T) {
	assert.Equal(t, "date", Property{Type: TypeDate}.Constructor())
	assert.Equal(t, "datetime", Property{Type: TypeDateTime}.Constructor())
	assert.Equal(t, "", Property{Type: TypeString}.Constructor())

	assert.True(t, Property{Type: TypeDate}.IsTemporal())
	assert.False(t, Property{Type: TypeNumber}.IsTemporal())
}

func TestCoerceLoose(t *testing.T) {
	assert.Equal(t, int64(42), CoerceLoose("42"))
	assert.Equal(t, true, CoerceLoose("true"))
	assert.Equal(t, false, CoerceLoose("False"))
	assert.Equal(t, "Zona 10", CoerceLoose("Zona 10"))
}
