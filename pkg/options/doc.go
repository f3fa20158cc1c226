// Package options ships the webpack options schema.
//
// The schema is an embedded YAML document loaded through the schema parser
// on first use. Validate reports with the webpack header:
//
//	err := options.Validate(cfg)
//	// Invalid configuration object. Webpack has been initialised using a
//	// configuration object that does not match the API schema.
//	//  - configuration.output.filename: A relative path is expected. ...
package options
