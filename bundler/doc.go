// Package bundler composes a split API specification into one document.
//
// The source tree is read from a base directory (see package sourcetree):
// the main file seeds the document, then paths, definitions and code samples
// are merged in from their directories. Afterwards references into the
// private headers section are inlined and plugins run over the result.
//
// # Quick Start
//
//	result, err := bundler.BundleWithOptions(bundler.WithBaseDir("spec"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	out, _ := document.MarshalJSON(result.Document)
//
// Or use a reusable Bundler instance:
//
//	b := bundler.New()
//	b.BaseDir = "api"
//	b.SkipCodeSamples = true
//	result, err := b.Bundle()
//
// # Authorship
//
// A section owned by a directory must not also appear in the main file. If
// paths/ exists, swagger.yaml may not contain "paths"; likewise for
// definitions/. An operation that already carries x-code-samples cannot
// receive samples from code_samples/. These conflicts are reported as
// *oaserrors.AuthorshipError.
package bundler
