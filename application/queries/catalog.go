// Package queries holds the predefined query catalog: the named,
// parametrized read operations the console offers out of the box.
package queries

import (
	"fmt"
	"sort"

	apperrors "fraudgraph-backend/pkg/errors"
)

// Category groups catalog operations by shape
type Category string

const (
	CategoryFetch     Category = "fetch"
	CategoryAggregate Category = "aggregate"
	CategoryFilter    Category = "filter"
	CategoryLookup    Category = "lookup"
	CategoryJoin      Category = "join"
)

// ParamType is the expected type of a catalog parameter
type ParamType string

const (
	ParamString ParamType = "string"
	ParamNumber ParamType = "number"
)

// Param declares one parameter of a catalog operation. Optional parameters
// carry a default that applies when the caller omits them.
type Param struct {
	Name        string      `json:"name"`
	Type        ParamType   `json:"type"`
	Required    bool        `json:"required"`
	Default     interface{} `json:"default,omitempty"`
	Description string      `json:"description,omitempty"`
}

// Operation is one predefined query. Text only ever references values
// through named parameters.
type Operation struct {
	Name        string   `json:"name"`
	Category    Category `json:"category"`
	Description string   `json:"description"`
	Params      []Param  `json:"params,omitempty"`
	Text        string   `json:"-"`
}

var catalog = map[string]Operation{
	// fetch: one node type, all instances
	"personas": {
		Name:        "personas",
		Category:    CategoryFetch,
		Description: "Todas las personas registradas",
		Text:        "MATCH (p:Persona) RETURN id(p) AS id, p",
	},
	"clientes": {
		Name:        "clientes",
		Category:    CategoryFetch,
		Description: "Personas clasificadas como clientes",
		Text:        "MATCH (c:Persona:Cliente) RETURN id(c) AS id, c",
	},
	"cuentas": {
		Name:        "cuentas",
		Category:    CategoryFetch,
		Description: "Todas las cuentas",
		Text:        "MATCH (c:Cuenta) RETURN id(c) AS id, c",
	},
	"transacciones": {
		Name:        "transacciones",
		Category:    CategoryFetch,
		Description: "Todas las transacciones",
		Text:        "MATCH (t:Transaccion) RETURN id(t) AS id, t",
	},
	"dispositivos": {
		Name:        "dispositivos",
		Category:    CategoryFetch,
		Description: "Todos los dispositivos",
		Text:        "MATCH (d:Dispositivo) RETURN id(d) AS id, d",
	},
	"establecimientos": {
		Name:        "establecimientos",
		Category:    CategoryFetch,
		Description: "Todos los establecimientos",
		Text:        "MATCH (e:Establecimiento) RETURN id(e) AS id, e",
	},

	// aggregate
	"countClientes": {
		Name:        "countClientes",
		Category:    CategoryAggregate,
		Description: "Cantidad de clientes",
		Text:        "MATCH (c:Persona:Cliente) RETURN count(c) AS total",
	},
	"countCuentas": {
		Name:        "countCuentas",
		Category:    CategoryAggregate,
		Description: "Cantidad de cuentas",
		Text:        "MATCH (c:Cuenta) RETURN count(c) AS total",
	},
	"countTransacciones": {
		Name:        "countTransacciones",
		Category:    CategoryAggregate,
		Description: "Cantidad de transacciones",
		Text:        "MATCH (t:Transaccion) RETURN count(t) AS total",
	},
	"countDispositivos": {
		Name:        "countDispositivos",
		Category:    CategoryAggregate,
		Description: "Cantidad de dispositivos",
		Text:        "MATCH (d:Dispositivo) RETURN count(d) AS total",
	},
	"countEstablecimientos": {
		Name:        "countEstablecimientos",
		Category:    CategoryAggregate,
		Description: "Cantidad de establecimientos",
		Text:        "MATCH (e:Establecimiento) RETURN count(e) AS total",
	},
	"resumenMontos": {
		Name:        "resumenMontos",
		Category:    CategoryAggregate,
		Description: "Resumen de montos de transacciones",
		Text:        "MATCH (t:Transaccion) RETURN count(t) AS transacciones, avg(t.Monto) AS promedio, max(t.Monto) AS maximo",
	},

	// filter
	"transaccionesSospechosas": {
		Name:        "transaccionesSospechosas",
		Category:    CategoryFilter,
		Description: "Transacciones con monto sobre el umbral",
		Params: []Param{
			{Name: "umbral", Type: ParamNumber, Default: int64(10000), Description: "Monto mínimo"},
		},
		Text: "MATCH (t:Transaccion) WHERE t.Monto > $umbral RETURN id(t) AS id, t",
	},
	"transaccionesFraudulentas": {
		Name:        "transaccionesFraudulentas",
		Category:    CategoryFilter,
		Description: "Transacciones marcadas como fraudulentas",
		Text:        "MATCH (c:Cuenta)-[r:REALIZA]->(t:Transaccion) WHERE r.Fraudulenta = true RETURN c.ID AS cuenta, id(t) AS id, t",
	},
	"clientesAltoRiesgo": {
		Name:        "clientesAltoRiesgo",
		Category:    CategoryFilter,
		Description: "Clientes con nivel de riesgo sobre el umbral",
		Params: []Param{
			{Name: "nivel", Type: ParamNumber, Default: int64(3), Description: "Nivel de riesgo"},
		},
		Text: "MATCH (c:Persona:Cliente) WHERE c.NivelRiesgo >= $nivel RETURN id(c) AS id, c",
	},
	"establecimientosAltoRiesgo": {
		Name:        "establecimientosAltoRiesgo",
		Category:    CategoryFilter,
		Description: "Establecimientos con nivel de riesgo sobre el umbral",
		Params: []Param{
			{Name: "nivel", Type: ParamNumber, Default: int64(3), Description: "Nivel de riesgo"},
		},
		Text: "MATCH (e:Establecimiento) WHERE e.NivelRiesgo >= $nivel RETURN id(e) AS id, e",
	},

	// lookup
	"clientePorDPI": {
		Name:        "clientePorDPI",
		Category:    CategoryLookup,
		Description: "Cliente por número de DPI",
		Params: []Param{
			{Name: "dpi", Type: ParamString, Required: true, Description: "DPI exacto"},
		},
		Text: "MATCH (c:Persona:Cliente) WHERE c.DPI = $dpi RETURN id(c) AS id, c",
	},
	"cuentaPorID": {
		Name:        "cuentaPorID",
		Category:    CategoryLookup,
		Description: "Cuenta por identificador",
		Params: []Param{
			{Name: "id", Type: ParamNumber, Required: true, Description: "ID de la cuenta"},
		},
		Text: "MATCH (c:Cuenta) WHERE c.ID = $id RETURN id(c) AS id, c",
	},
	"transaccionPorID": {
		Name:        "transaccionPorID",
		Category:    CategoryLookup,
		Description: "Transacción por identificador",
		Params: []Param{
			{Name: "id", Type: ParamNumber, Required: true, Description: "ID de la transacción"},
		},
		Text: "MATCH (t:Transaccion) WHERE t.ID = $id RETURN id(t) AS id, t",
	},

	// join
	"relacionesClientes": {
		Name:        "relacionesClientes",
		Category:    CategoryJoin,
		Description: "Clientes con sus relaciones salientes",
		Text:        "MATCH (p:Persona:Cliente)-[r]->(n) RETURN p.Nombre AS cliente, type(r) AS relacion, n",
	},
	"clientesMultiplesCuentas": {
		Name:        "clientesMultiplesCuentas",
		Category:    CategoryJoin,
		Description: "Personas que poseen más cuentas que el umbral",
		Params: []Param{
			{Name: "minimo", Type: ParamNumber, Default: int64(3), Description: "Cantidad mínima de cuentas"},
		},
		Text: "MATCH (p:Persona)-[:POSEE]->(c:Cuenta) WITH p, count(c) AS cuentas WHERE cuentas > $minimo RETURN p.Nombre AS cliente, p.DPI AS dpi, cuentas",
	},
	"dispositivosCompartidos": {
		Name:        "dispositivosCompartidos",
		Category:    CategoryJoin,
		Description: "Dispositivos usados por más de una persona",
		Text:        "MATCH (p:Persona)-[:USA]->(d:Dispositivo) WITH d, collect(DISTINCT p.Nombre) AS usuarios, count(DISTINCT p) AS total WHERE total > 1 RETURN id(d) AS id, d, usuarios, total",
	},
}

// Lookup returns the catalog operation by name
func Lookup(name string) (Operation, error) {
	op, ok := catalog[name]
	if !ok {
		return Operation{}, apperrors.NewNotFoundError(fmt.Sprintf("query '%s'", name))
	}
	return op, nil
}

// All returns every catalog operation, ordered by category then name
func All() []Operation {
	ops := make([]Operation, 0, len(catalog))
	for _, op := range catalog {
		ops = append(ops, op)
	}
	sort.Slice(ops, func(i, j int) bool {
		if ops[i].Category != ops[j].Category {
			return ops[i].Category < ops[j].Category
		}
		return ops[i].Name < ops[j].Name
	})
	return ops
}
