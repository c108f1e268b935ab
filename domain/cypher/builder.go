// Package cypher assembles the parametrized statements the console executes.
// Every user-supplied value is bound as a named parameter; the only strings
// interpolated into query text are labels and property names, which are
// checked against the schema registry or an identifier pattern first.
//
// Builders are pure: the same inputs always produce byte-identical query
// text and an equal parameter map. Property names are emitted in sorted
// order to keep the output deterministic.
package cypher

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"fraudgraph-backend/domain/schema"
	apperrors "fraudgraph-backend/pkg/errors"
)

// Statement is one executable query: text plus named parameters
type Statement struct {
	Text   string
	Params map[string]interface{}
}

var identPattern = regexp.MustCompile(`^[\p{L}_][\p{L}\p{N}_]*$`)

// ValidIdentifier reports whether name is safe to interpolate as a label or
// property name
func ValidIdentifier(name string) bool {
	return identPattern.MatchString(name)
}

func checkIdentifier(kind, name string) error {
	if !ValidIdentifier(name) {
		return apperrors.NewValidationError(fmt.Sprintf("invalid %s name '%s'", kind, name))
	}
	return nil
}

func sortedStringKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// NodesByLabels lists nodes carrying every given label, together with their
// internal ids
func NodesByLabels(labels []string) (Statement, error) {
	if len(labels) == 0 {
		return Statement{}, apperrors.NewValidationError("at least one label is required")
	}
	for _, label := range labels {
		if err := checkIdentifier("label", label); err != nil {
			return Statement{}, err
		}
	}
	return Statement{
		Text:   fmt.Sprintf("MATCH (n:%s) RETURN id(n) AS id, labels(n) AS labels, n ORDER BY id(n)", strings.Join(labels, ":")),
		Params: map[string]interface{}{},
	}, nil
}

// NodeByID fetches a single node by internal id
func NodeByID(id int64) Statement {
	return Statement{
		Text:   "MATCH (n) WHERE id(n) = $id RETURN n, labels(n) AS labels",
		Params: map[string]interface{}{"id": id},
	}
}

// NodeRelationships lists every relationship touching the node, in either
// direction, with the peer node and its labels
func NodeRelationships(id int64) Statement {
	return Statement{
		Text:   "MATCH (n)-[r]-(m) WHERE id(n) = $id RETURN id(r) AS relId, type(r) AS relType, r, m, labels(m) AS targetLabels",
		Params: map[string]interface{}{"id": id},
	}
}

// SearchNodes builds the autocomplete lookup used when picking relationship
// endpoints: match by name fragment, DPI fragment or ID fragment
func SearchNodes(label, term string) (Statement, error) {
	if err := checkIdentifier("label", label); err != nil {
		return Statement{}, err
	}
	text := fmt.Sprintf(
		"MATCH (n:%s) WHERE toLower(n.Nombre) CONTAINS toLower($term) OR toString(n.DPI) CONTAINS $term OR toString(n.ID) CONTAINS $term "+
			"RETURN id(n) AS id, n.ID AS ID, n.Nombre AS Nombre, n.DPI AS DPI LIMIT 10", label)
	return Statement{
		Text:   text,
		Params: map[string]interface{}{"term": term},
	}, nil
}

// FilterNodes builds a read query over one node type constrained by
// property conditions. Numeric conditions compare the stringified property
// against the raw input (after it validates as an integer), matching how
// the console displays those columns; other types compare typed values.
// Empty condition values are skipped.
func FilterNodes(nt schema.NodeType, conditions map[string]string) (Statement, error) {
	params := map[string]interface{}{}
	var clauses []string

	for _, name := range sortedStringKeys(conditions) {
		raw := conditions[name]
		if raw == "" {
			continue
		}
		prop, ok := nt.Properties[name]
		if !ok {
			return Statement{}, apperrors.NewValidationError(
				fmt.Sprintf("unknown property '%s' for node type %s", name, nt.Label))
		}
		key := "c_" + name
		switch {
		case prop.Type == schema.TypeNumber:
			if _, err := prop.Coerce(name, raw); err != nil {
				return Statement{}, err
			}
			clauses = append(clauses, fmt.Sprintf("toString(n.%s) = $%s", name, key))
			params[key] = raw
		case prop.IsTemporal():
			clauses = append(clauses, fmt.Sprintf("n.%s = %s($%s)", name, prop.Constructor(), key))
			params[key] = raw
		default:
			value, err := prop.Coerce(name, raw)
			if err != nil {
				return Statement{}, err
			}
			clauses = append(clauses, fmt.Sprintf("n.%s = $%s", name, key))
			params[key] = value
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "MATCH (n:%s)", nt.Label)
	if len(clauses) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(clauses, " AND "))
	}
	b.WriteString(" RETURN id(n) AS id, n")
	return Statement{Text: b.String(), Params: params}, nil
}

// CreateNode builds the creation statement for one node. The property
// clause carries exactly the schema-declared keys; extra labels must be
// declared classification labels of the type.
func CreateNode(nt schema.NodeType, extraLabels []string, props map[string]string) (Statement, error) {
	selected := map[string]bool{}
	for _, label := range extraLabels {
		if !nt.HasAdditionalLabel(label) {
			return Statement{}, apperrors.NewValidationError(
				fmt.Sprintf("label '%s' is not declared for node type %s", label, nt.Label))
		}
		selected[label] = true
	}
	labels := []string{nt.Label}
	for _, label := range nt.AdditionalLabels {
		if selected[label] {
			labels = append(labels, label)
		}
	}

	for name := range props {
		if _, ok := nt.Properties[name]; !ok {
			return Statement{}, apperrors.NewValidationError(
				fmt.Sprintf("unknown property '%s' for node type %s", name, nt.Label))
		}
	}

	params := map[string]interface{}{}
	var entries []string
	for _, name := range nt.PropertyNames() {
		prop := nt.Properties[name]
		raw, ok := props[name]
		if !ok || raw == "" {
			if prop.Required {
				return Statement{}, apperrors.NewValidationError(
					fmt.Sprintf("property '%s' is required for node type %s", name, nt.Label))
			}
			continue
		}
		value, err := prop.Coerce(name, raw)
		if err != nil {
			return Statement{}, err
		}
		key := "p_" + name
		params[key] = value
		if prop.IsTemporal() {
			entries = append(entries, fmt.Sprintf("%s: %s($%s)", name, prop.Constructor(), key))
		} else {
			entries = append(entries, fmt.Sprintf("%s: $%s", name, key))
		}
	}

	text := fmt.Sprintf("CREATE (n:%s {%s}) RETURN n", strings.Join(labels, ":"), strings.Join(entries, ", "))
	return Statement{Text: text, Params: params}, nil
}

// NextRelationshipID builds the just-in-time identifier lookup: one greater
// than the current maximum ID of the relationship type, 1 when none exist
func NextRelationshipID(rt schema.RelationshipType) Statement {
	return Statement{
		Text:   fmt.Sprintf("MATCH ()-[r:%s]->() RETURN coalesce(max(r.ID), 0) + 1 AS nextId", rt.Name),
		Params: map[string]interface{}{},
	}
}

// CreateRelationship builds the relationship creation statement. Source
// nodes resolve by DPI or stringified ID, targets by stringified ID; the
// resolved identifier is embedded as the first property of the clause.
func CreateRelationship(rt schema.RelationshipType, relID int64, sourceRef, targetRef string, props map[string]string) (Statement, error) {
	if sourceRef == "" || targetRef == "" {
		return Statement{}, apperrors.NewValidationError("source and target references are required")
	}
	for name := range props {
		if _, ok := rt.Properties[name]; !ok {
			return Statement{}, apperrors.NewValidationError(
				fmt.Sprintf("unknown property '%s' for relationship type %s", name, rt.Name))
		}
	}

	params := map[string]interface{}{
		"source": sourceRef,
		"target": targetRef,
		"r_ID":   relID,
	}
	entries := []string{"ID: $r_ID"}
	for _, name := range rt.PropertyNames() {
		prop := rt.Properties[name]
		raw, ok := props[name]
		if !ok || raw == "" {
			if prop.Required {
				return Statement{}, apperrors.NewValidationError(
					fmt.Sprintf("property '%s' is required for relationship type %s", name, rt.Name))
			}
			continue
		}
		value, err := prop.Coerce(name, raw)
		if err != nil {
			return Statement{}, err
		}
		key := "r_" + name
		params[key] = value
		if prop.IsTemporal() {
			entries = append(entries, fmt.Sprintf("%s: %s($%s)", name, prop.Constructor(), key))
		} else {
			entries = append(entries, fmt.Sprintf("%s: $%s", name, key))
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "MATCH (a:%s) WHERE a.DPI = $source OR toString(a.ID) = $source ", rt.SourceLabel)
	fmt.Fprintf(&b, "MATCH (b:%s) WHERE toString(b.ID) = $target ", rt.TargetLabel)
	fmt.Fprintf(&b, "CREATE (a)-[r:%s {%s}]->(b) RETURN r", rt.Name, strings.Join(entries, ", "))
	return Statement{Text: b.String(), Params: params}, nil
}

// UpdateNodeProperties builds a SET over one node's properties by internal
// id. Values arrive as display strings and are loosely coerced.
func UpdateNodeProperties(id int64, props map[string]string) (Statement, error) {
	return updateProperties("n", "MATCH (n) WHERE id(n) = $id", "RETURN n", id, props)
}

// UpdateRelationshipProperties builds a SET over one relationship's
// properties by internal id
func UpdateRelationshipProperties(id int64, props map[string]string) (Statement, error) {
	return updateProperties("r", "MATCH ()-[r]->() WHERE id(r) = $id", "RETURN r", id, props)
}

func updateProperties(alias, match, ret string, id int64, props map[string]string) (Statement, error) {
	if len(props) == 0 {
		return Statement{}, apperrors.NewValidationError("no properties to update")
	}
	params := map[string]interface{}{"id": id}
	var assignments []string
	for _, name := range sortedStringKeys(props) {
		if err := checkIdentifier("property", name); err != nil {
			return Statement{}, err
		}
		key := "p_" + name
		params[key] = schema.CoerceLoose(props[name])
		assignments = append(assignments, fmt.Sprintf("%s.%s = $%s", alias, name, key))
	}
	text := fmt.Sprintf("%s SET %s %s", match, strings.Join(assignments, ", "), ret)
	return Statement{Text: text, Params: params}, nil
}

// BulkSetNodes builds a bulk property assignment over every node of the
// type matching the typed conditions; returns the affected count
func BulkSetNodes(nt schema.NodeType, conditions, assignments map[string]string) (Statement, error) {
	where, params, err := typedConditions("n", nt.Properties, fmt.Sprintf("node type %s", nt.Label), conditions)
	if err != nil {
		return Statement{}, err
	}
	set, err := looseAssignments("n", assignments, params)
	if err != nil {
		return Statement{}, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "MATCH (n:%s)", nt.Label)
	if where != "" {
		b.WriteString(" WHERE ")
		b.WriteString(where)
	}
	fmt.Fprintf(&b, " SET %s RETURN count(n) AS affected", set)
	return Statement{Text: b.String(), Params: params}, nil
}

// BulkSetRelationships builds a bulk property assignment over every
// relationship of the type matching the typed conditions
func BulkSetRelationships(rt schema.RelationshipType, conditions, assignments map[string]string) (Statement, error) {
	// ID is implicit on every relationship and filterable alongside the
	// declared properties.
	props := map[string]schema.Property{"ID": {Type: schema.TypeNumber}}
	for name, prop := range rt.Properties {
		props[name] = prop
	}
	where, params, err := typedConditions("r", props, fmt.Sprintf("relationship type %s", rt.Name), conditions)
	if err != nil {
		return Statement{}, err
	}
	set, err := looseAssignments("r", assignments, params)
	if err != nil {
		return Statement{}, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "MATCH ()-[r:%s]->()", rt.Name)
	if where != "" {
		b.WriteString(" WHERE ")
		b.WriteString(where)
	}
	fmt.Fprintf(&b, " SET %s RETURN count(r) AS affected", set)
	return Statement{Text: b.String(), Params: params}, nil
}

func typedConditions(alias string, props map[string]schema.Property, scope string, conditions map[string]string) (string, map[string]interface{}, error) {
	params := map[string]interface{}{}
	var clauses []string
	for _, name := range sortedStringKeys(conditions) {
		raw := conditions[name]
		if raw == "" {
			continue
		}
		prop, ok := props[name]
		if !ok {
			return "", nil, apperrors.NewValidationError(
				fmt.Sprintf("unknown property '%s' for %s", name, scope))
		}
		value, err := prop.Coerce(name, raw)
		if err != nil {
			return "", nil, err
		}
		key := "c_" + name
		params[key] = value
		if prop.IsTemporal() {
			clauses = append(clauses, fmt.Sprintf("%s.%s = %s($%s)", alias, name, prop.Constructor(), key))
		} else {
			clauses = append(clauses, fmt.Sprintf("%s.%s = $%s", alias, name, key))
		}
	}
	return strings.Join(clauses, " AND "), params, nil
}

func looseAssignments(alias string, assignments map[string]string, params map[string]interface{}) (string, error) {
	if len(assignments) == 0 {
		return "", apperrors.NewValidationError("at least one property assignment is required")
	}
	var set []string
	for _, name := range sortedStringKeys(assignments) {
		if err := checkIdentifier("property", name); err != nil {
			return "", err
		}
		key := "s_" + name
		params[key] = schema.CoerceLoose(assignments[name])
		set = append(set, fmt.Sprintf("%s.%s = $%s", alias, name, key))
	}
	return strings.Join(set, ", "), nil
}

// DeleteNode removes a node and every relationship attached to it
func DeleteNode(id int64) Statement {
	return Statement{
		Text:   "MATCH (n) WHERE id(n) = $id DETACH DELETE n",
		Params: map[string]interface{}{"id": id},
	}
}

// RemoveNodeProperty drops a single property from a node
func RemoveNodeProperty(id int64, property string) (Statement, error) {
	if err := checkIdentifier("property", property); err != nil {
		return Statement{}, err
	}
	return Statement{
		Text:   fmt.Sprintf("MATCH (n) WHERE id(n) = $id REMOVE n.%s RETURN n", property),
		Params: map[string]interface{}{"id": id},
	}, nil
}

// DeleteRelationship removes a relationship by internal id
func DeleteRelationship(id int64) Statement {
	return Statement{
		Text:   "MATCH ()-[r]->() WHERE id(r) = $id DELETE r",
		Params: map[string]interface{}{"id": id},
	}
}

// RemoveRelationshipProperty drops a single property from a relationship
func RemoveRelationshipProperty(id int64, property string) (Statement, error) {
	if err := checkIdentifier("property", property); err != nil {
		return Statement{}, err
	}
	return Statement{
		Text:   fmt.Sprintf("MATCH ()-[r]->() WHERE id(r) = $id REMOVE r.%s RETURN r", property),
		Params: map[string]interface{}{"id": id},
	}, nil
}
