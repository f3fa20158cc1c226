// Package schema provides the in-memory model for declarative configuration
// schemas.
//
// A schema is a tree of *Node values. Each node is one variant of a small sum
// type selected by Node.Kind: primitive kinds (string, boolean, number),
// instance kinds (RegExp, function), enum and const, object, array, oneOf
// unions and custom predicates.
//
// # Building Schemas
//
//	entry := schema.OneOf(
//		schema.Object().WithAdditional(schema.OneOf(
//			schema.NonEmptyString(),
//			schema.Array(schema.NonEmptyString()),
//		)),
//		schema.NonEmptyString(),
//		schema.Array(schema.NonEmptyString()),
//		schema.Function(),
//	).WithDescription("The entry point(s) of the compilation.")
//
//	root := schema.Object(
//		schema.RequiredProp("entry", entry),
//		schema.Prop("context", schema.AbsolutePath(true)),
//	)
//
// Objects are closed unless Open or WithAdditional is used. Nodes are
// immutable once built: the With* helpers return copies, so one schema can
// be shared by concurrent validations.
//
// # Describing Schemas
//
// Summary renders the compact one-line form used in validation reports:
//
//	root.Summary() // "object { entry, context? }"
//	entry.Text()   // summary, then "-> The entry point(s) of the compilation."
//
// Schemas are usually loaded from YAML or JSON documents by the parser
// subpackage.
package schema
