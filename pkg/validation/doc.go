// Package validation matches configuration values against schema.Node trees
// and renders the mismatches as a human-readable report.
//
// # Usage
//
//	v := validation.NewValidator(root)
//	if err := v.Validate(cfg); err != nil {
//		fmt.Println(err)
//		// Invalid configuration object.
//		//  - configuration misses the property 'entry'.
//		//    object { <key>: non-empty string | [non-empty string] } | non-empty string | [non-empty string] | function
//		//    -> The entry point(s) of the compilation.
//	}
//
// cfg is either one configuration object or an array of them; for arrays
// every path is prefixed with the configuration index, e.g.
// "configuration[1].output". Any other root yields the single line
// "configuration should be an object.".
//
// # Reports
//
// Each violation is one " - " entry. Union and enum mismatches list what
// every alternative expected in a "Details:" block, one level deep.
// Unknown properties are reported on the containing object together with
// the properties that are valid there. Custom checks replace the generic
// phrasing with their own message.
//
// Check returns the structured Result instead of an error. Match and
// Statement expose the matcher and the renderer for single nodes.
package validation
