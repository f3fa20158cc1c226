// Command webpack checks webpack configuration files against the webpack
// options schema, or against a schema document of your own.
//
// Usage:
//
//	# Validate one configuration
//	webpack validate webpack.config.yaml
//
//	# Validate several configurations as one array
//	webpack validate client.yaml server.yaml
//
//	# Read the configuration from standard input
//	cat webpack.config.json | webpack validate -
//
//	# Revalidate whenever a file changes
//	webpack watch webpack.config.yaml
//
//	# Describe part of the schema
//	webpack schema output.filename
//
// Exit codes: 0 valid, 1 failure, 2 invalid configuration, 3 tool
// configuration error.
package main

import "os"

func main() {
	os.Exit(Execute())
}
