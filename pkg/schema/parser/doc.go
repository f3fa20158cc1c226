// Package parser loads schema documents written in YAML or JSON into
// schema.Node trees.
//
// # Document Format
//
// Every schema node is a mapping. The node kind comes from type, instanceof,
// enum, const, oneOf or anyOf; properties and items imply object and array.
//
//	definitions:
//	  nonEmptyString: &nonEmptyString
//	    type: string
//	    minLength: 1
//	type: object
//	required: [entry]
//	properties:
//	  entry:
//	    description: The entry point(s) of the compilation.
//	    oneOf:
//	      - *nonEmptyString
//	      - type: array
//	        items: *nonEmptyString
//	  context:
//	    type: string
//	    absolutePath: true
//	guidance: "Did you mean '{property}'?"
//
// YAML anchors and aliases reuse subtrees; an alias that refers to one of
// its own ancestors is rejected because schemas must be acyclic. The root may
// hold a definitions mapping that only serves as a home for anchors.
//
// Objects are closed unless additionalProperties is true or a schema.
//
// # Checks
//
// absolutePath: true|false attaches the built-in path check. The check
// keyword references a registered check by id, or evaluates a CEL
// expression with the value bound to self:
//
//	check:
//	  expr: "self.startsWith('./')"
//	  message: "The provided value {value} must start with ./"
//
// hint adds an extra line to the check's message.
//
// # Errors
//
// Problems are collected into an *ErrorList of *Error values carrying the
// source location, surrounding lines and, for misspelled keywords, a
// suggestion. Documents that pass the structural checks are additionally
// validated against the JSON meta-schema returned by MetaSchema.
package parser
