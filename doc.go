// Package oasrepo keeps an OpenAPI 2.0 document as a tree of small YAML
// fragments and turns it back into one document on demand.
//
// # Overview
//
// A source tree looks like this:
//
//	spec/
//	  swagger.yaml                       everything not split out
//	  paths/users.yaml                   the /users path item
//	  paths/users@{id}.yaml              the /users/{id} path item
//	  definitions/User.yaml              the User schema
//	  code_samples/Go/users@{id}/get.go  an x-code-samples entry
//	  plugins/*.yaml                     overlay documents run after bundling
//
// Path keys are stored in file names with "/" written as "@" (see
// internal/pathcodec).
//
// The library consists of these packages:
//
//   - document: ordered JSON/YAML documents and JSON pointer paths
//   - bundler: compose a source tree into a single document
//   - syncer: split a document back into the source tree, writing only
//     what changed
//   - plugin: the post-bundle plugin pipeline and overlay plugins
//   - validation: validate a bundled document with oastools
//   - oaserrors: typed errors shared by all packages
//   - logging: the structured logging interface
//
// # Quick Start
//
// Bundle a tree:
//
//	result, err := bundler.BundleWithOptions(
//		bundler.WithBaseDir("spec"),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	out, _ := document.MarshalJSON(result.Document)
//
// Write an edited document back:
//
//	result, err := syncer.SyncWithOptions(data, syncer.WithBaseDir("spec"))
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(result.Changed)
//
// # Command line
//
// The oasrepo command wraps the same operations:
//
//	oasrepo bundle -o openapi.json
//	oasrepo sync edited.yaml
//	oasrepo serve -p 3000
//	oasrepo watch -o openapi.json
//	oasrepo mcp
package oasrepo
