// Package schema declares the node and relationship types the console
// administers. The graph database itself enforces nothing beyond uniqueness
// constraints; this registry is the single place where property types,
// required flags, value ranges and enumerated options live.
package schema

import (
	"fmt"
	"sort"

	apperrors "fraudgraph-backend/pkg/errors"
)

// PropertyType is the declared primitive type of a node or relationship property
type PropertyType string

const (
	TypeString   PropertyType = "string"
	TypeNumber   PropertyType = "number"
	TypeBoolean  PropertyType = "boolean"
	TypeDate     PropertyType = "date"
	TypeDateTime PropertyType = "datetime"
	TypeSelect   PropertyType = "select"
)

// Property describes one declared property of a node or relationship type
type Property struct {
	Type     PropertyType `json:"type"`
	Required bool         `json:"required"`
	Min      *int         `json:"min,omitempty"`
	Max      *int         `json:"max,omitempty"`
	Options  []string     `json:"options,omitempty"`
}

// NodeType describes a node label, its optional classification labels and
// its property schema
type NodeType struct {
	Label            string              `json:"label"`
	AdditionalLabels []string            `json:"additionalLabels,omitempty"`
	Properties       map[string]Property `json:"properties"`
}

// RelationshipType describes a relationship type, its endpoint labels and
// its property schema. Every relationship additionally carries an integer ID
// assigned by the identifier resolver at creation time.
type RelationshipType struct {
	Name        string              `json:"name"`
	SourceLabel string              `json:"sourceLabel"`
	TargetLabel string              `json:"targetLabel"`
	Properties  map[string]Property `json:"properties"`
}

func intPtr(v int) *int { return &v }

var nodeTypes = map[string]NodeType{
	"Persona": {
		Label:            "Persona",
		AdditionalLabels: []string{"Cliente", "NoCliente"},
		Properties: map[string]Property{
			"DPI":             {Type: TypeString, Required: true},
			"Nombre":          {Type: TypeString, Required: true},
			"FechaNacimiento": {Type: TypeDate, Required: true},
			"Direccion":       {Type: TypeString, Required: true},
			"NivelRiesgo":     {Type: TypeNumber, Required: true, Min: intPtr(1), Max: intPtr(3)},
		},
	},
	"Cuenta": {
		Label:            "Cuenta",
		AdditionalLabels: []string{"Interna", "Externa"},
		Properties: map[string]Property{
			"ID":            {Type: TypeNumber, Required: true},
			"Tipo":          {Type: TypeSelect, Required: true, Options: []string{"Ahorro", "Corriente"}},
			"Saldo":         {Type: TypeNumber, Required: true},
			"FechaCreacion": {Type: TypeDate, Required: true},
			"Estado":        {Type: TypeBoolean, Required: true},
		},
	},
	"Transaccion": {
		Label: "Transaccion",
		Properties: map[string]Property{
			"ID":        {Type: TypeNumber, Required: true},
			"Monto":     {Type: TypeNumber, Required: true},
			"Fecha":     {Type: TypeDateTime, Required: true},
			"Ubicacion": {Type: TypeString, Required: true},
			"Tipo":      {Type: TypeSelect, Required: true, Options: []string{"Retiro", "Depósito", "Pago", "Transferencia"}},
		},
	},
	"Dispositivo": {
		Label: "Dispositivo",
		Properties: map[string]Property{
			"ID":            {Type: TypeNumber, Required: true},
			"Tipo":          {Type: TypeSelect, Required: true, Options: []string{"Móvil", "Computadora", "Cajero"}},
			"Ubicacion":     {Type: TypeString, Required: true},
			"UsoFrecuente":  {Type: TypeBoolean, Required: true},
			"FechaRegistro": {Type: TypeDate, Required: true},
		},
	},
	"Establecimiento": {
		Label: "Establecimiento",
		Properties: map[string]Property{
			"ID":          {Type: TypeNumber, Required: true},
			"Nombre":      {Type: TypeString, Required: true},
			"Ubicacion":   {Type: TypeString, Required: true},
			"Tipo":        {Type: TypeSelect, Required: true, Options: []string{"Supermercado", "Gasolinera", "Tienda", "Centro Comercial", "Restaurante"}},
			"NivelRiesgo": {Type: TypeNumber, Required: true, Min: intPtr(1), Max: intPtr(3)},
		},
	},
}

var relationshipTypes = map[string]RelationshipType{
	"POSEE": {
		Name:        "POSEE",
		SourceLabel: "Persona",
		TargetLabel: "Cuenta",
		Properties: map[string]Property{
			"FechaInicio": {Type: TypeDate, Required: true},
			"Estado":      {Type: TypeBoolean, Required: true},
		},
	},
	"REALIZA": {
		Name:        "REALIZA",
		SourceLabel: "Cuenta",
		TargetLabel: "Transaccion",
		Properties: map[string]Property{
			"Fecha":       {Type: TypeDateTime, Required: true},
			"Monto":       {Type: TypeNumber, Required: true},
			"Fraudulenta": {Type: TypeBoolean, Required: true},
		},
	},
	"USA": {
		Name:        "USA",
		SourceLabel: "Persona",
		TargetLabel: "Dispositivo",
		Properties: map[string]Property{
			"FrecuenciaUso": {Type: TypeNumber, Required: true},
			"UltimoUso":     {Type: TypeDate, Required: true},
		},
	},
}

// Node returns the node type schema for the given name
func Node(name string) (NodeType, error) {
	nt, ok := nodeTypes[name]
	if !ok {
		return NodeType{}, apperrors.NewNotFoundError(fmt.Sprintf("node type '%s'", name))
	}
	return nt, nil
}

// Relationship returns the relationship type schema for the given name
func Relationship(name string) (RelationshipType, error) {
	rt, ok := relationshipTypes[name]
	if !ok {
		return RelationshipType{}, apperrors.NewNotFoundError(fmt.Sprintf("relationship type '%s'", name))
	}
	return rt, nil
}

// NodeTypeNames returns the registered node type names, sorted
func NodeTypeNames() []string {
	names := make([]string, 0, len(nodeTypes))
	for name := range nodeTypes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RelationshipTypeNames returns the registered relationship type names, sorted
func RelationshipTypeNames() []string {
	names := make([]string, 0, len(relationshipTypes))
	for name := range relationshipTypes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HasAdditionalLabel reports whether label is a declared classification
// label of the node type (e.g. Cliente on Persona)
func (nt NodeType) HasAdditionalLabel(label string) bool {
	for _, l := range nt.AdditionalLabels {
		if l == label {
			return true
		}
	}
	return false
}

// PropertyNames returns the declared property names of the node type, sorted
func (nt NodeType) PropertyNames() []string {
	return sortedKeys(nt.Properties)
}

// PropertyNames returns the declared property names of the relationship
// type, sorted
func (rt RelationshipType) PropertyNames() []string {
	return sortedKeys(rt.Properties)
}

func sortedKeys(props map[string]Property) []string {
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
