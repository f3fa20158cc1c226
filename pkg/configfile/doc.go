// Package configfile loads the configurations that get validated.
//
// Files are YAML or JSON. Mappings keep their key order, which keeps report
// order stable, and two tags describe values JSON cannot carry:
//
//	module:
//	  rules:
//	    - test: !regexp /\.jsx?$/i
//	      use: babel-loader
//	entry: !function createEntries
//
// A file with several YAML documents holds several configurations.
package configfile
